package upstreams

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/miekg/dns"
)

const (
	// URL scheme constants
	dohScheme   = "doh://"
	httpsScheme = "https://"

	// HTTP client configuration
	dohClientTimeout       = 10 * time.Second // Total timeout for DoH requests
	dohIdleConnTimeout     = 30 * time.Second // How long idle connections are kept
	dohMaxIdleConns        = 2
	dohMaxIdleConnsPerHost = 2

	// HTTP content types
	dnsMessageContentType = "application/dns-message"

	// Largest DNS message, responses beyond this are rejected
	dohMaxResponseSize = 65535
)

// DoHUpstream implements Upstream using DNS-over-HTTPS (RFC 8484, POST).
type DoHUpstream struct {
	url    string
	client *http.Client
}

// NewDoHUpstream creates a new DNS-over-HTTPS upstream.
// doh:// URLs are rewritten to https://.
func NewDoHUpstream(urlStr string) *DoHUpstream {
	// Normalize URL scheme
	if strings.HasPrefix(urlStr, dohScheme) {
		urlStr = httpsScheme + strings.TrimPrefix(urlStr, dohScheme)
	}

	return &DoHUpstream{
		url: urlStr,
		client: &http.Client{
			Timeout: dohClientTimeout,
			Transport: &http.Transport{
				TLSClientConfig: &tls.Config{
					MinVersion: tls.VersionTLS12,
				},
				MaxIdleConns:        dohMaxIdleConns,
				IdleConnTimeout:     dohIdleConnTimeout,
				DisableCompression:  true,
				MaxIdleConnsPerHost: dohMaxIdleConnsPerHost,
			},
		},
	}
}

// newDoHUpstreamWithClient is used by tests to talk to an httptest server.
func newDoHUpstreamWithClient(urlStr string, client *http.Client) *DoHUpstream {
	d := NewDoHUpstream(urlStr)
	d.client = client
	return d
}

// Query sends a DNS query to the DoH upstream.
func (d *DoHUpstream) Query(ctx context.Context, req *dns.Msg) (*dns.Msg, error) {
	// RFC 8484 recommends ID 0 for cache friendliness, restore it on the way back
	id := req.Id
	q := req.Copy()
	q.Id = 0

	packed, err := q.Pack()
	if err != nil {
		return nil, fmt.Errorf("failed to pack DNS message: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, d.url, bytes.NewReader(packed))
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP request: %w", err)
	}

	httpReq.Header.Set("Content-Type", dnsMessageContentType)
	httpReq.Header.Set("Accept", dnsMessageContentType)

	resp, err := d.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("DoH request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("DoH request failed with status: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, dohMaxResponseSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read DoH response: %w", err)
	}
	if len(body) > dohMaxResponseSize {
		return nil, fmt.Errorf("DoH response too large")
	}

	dnsResp := new(dns.Msg)
	if err := dnsResp.Unpack(body); err != nil {
		return nil, fmt.Errorf("failed to unpack DNS response: %w", err)
	}
	dnsResp.Id = id

	return dnsResp, nil
}

// String returns a human-readable representation of the upstream.
func (d *DoHUpstream) String() string {
	return dohScheme + strings.TrimPrefix(d.url, httpsScheme)
}

// Close closes any resources held by the upstream.
func (d *DoHUpstream) Close() error {
	d.client.CloseIdleConnections()
	return nil
}
