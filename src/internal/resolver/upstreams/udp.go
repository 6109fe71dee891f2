package upstreams

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/maksimkurb/urlresolver/src/internal/log"
	"github.com/miekg/dns"
)

const (
	// Timeout configuration
	plainClientTimeout = 3 * time.Second // Shorter than context timeout to avoid races
)

// PlainUpstream implements Upstream using classic DNS over UDP or TCP.
type PlainUpstream struct {
	network string
	address string
	client  *dns.Client
}

// NewUDPUpstream creates a new UDP DNS upstream.
func NewUDPUpstream(address string) (*PlainUpstream, error) {
	return newPlainUpstream("udp", address)
}

// NewTCPUpstream creates a new TCP DNS upstream.
func NewTCPUpstream(address string) (*PlainUpstream, error) {
	return newPlainUpstream("tcp", address)
}

func newPlainUpstream(network, address string) (*PlainUpstream, error) {
	host, err := hostPort(address)
	if err != nil {
		return nil, fmt.Errorf("invalid %s upstream: %w", network, err)
	}

	return &PlainUpstream{
		network: network,
		address: host,
		client: &dns.Client{
			Net:     network,
			Timeout: plainClientTimeout,
		},
	}, nil
}

// Query sends a DNS query to the upstream. A truncated UDP answer is retried over TCP.
func (u *PlainUpstream) Query(ctx context.Context, req *dns.Msg) (*dns.Msg, error) {
	// Extract query info for logging
	queryInfo := "unknown"
	if len(req.Question) > 0 {
		q := req.Question[0]
		queryInfo = fmt.Sprintf("%s %s", q.Name, dns.TypeToString[q.Qtype])
	}

	log.Debugf("[%04x] Querying upstream: %s for %s", req.Id, u, queryInfo)

	resp, _, err := u.client.ExchangeContext(ctx, req, u.address)
	if err != nil {
		// Check if it's a context timeout vs network timeout
		if ctx.Err() == context.DeadlineExceeded {
			log.Debugf("[%04x] Upstream timeout (context) for query: %s (upstream: %s)", req.Id, queryInfo, u)
		} else {
			var netErr net.Error
			if errors.As(err, &netErr) && netErr.Timeout() {
				log.Debugf("[%04x] Upstream timeout (network) for query: %s (upstream: %s)", req.Id, queryInfo, u)
			} else {
				log.Debugf("[%04x] Upstream error for query %s (upstream: %s): %v", req.Id, queryInfo, u, err)
			}
		}
		return nil, err
	}

	if resp.Truncated && u.network == "udp" {
		log.Debugf("[%04x] Truncated answer for %s, retrying over TCP", req.Id, queryInfo)
		tcp := &dns.Client{Net: "tcp", Timeout: u.client.Timeout}
		if resp, _, err = tcp.ExchangeContext(ctx, req, u.address); err != nil {
			return nil, err
		}
	}

	return resp, nil
}

// Close closes any resources held by the upstream.
func (u *PlainUpstream) Close() error {
	return nil
}

// String returns the upstream in URL form.
func (u *PlainUpstream) String() string {
	return fmt.Sprintf("%s://%s", u.network, u.address)
}
