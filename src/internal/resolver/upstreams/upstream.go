// Package upstreams provides the DNS transports used when lookups are
// directed at an explicit server instead of the system resolver.
package upstreams

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"strings"

	"github.com/maksimkurb/urlresolver/src/internal/utils"
	"github.com/miekg/dns"
)

const (
	// DNS protocol defaults
	defaultDNSPort = "53"
)

// Upstream represents a DNS server that answers raw queries.
type Upstream interface {
	// Query sends a DNS query to the upstream and returns the response.
	Query(ctx context.Context, req *dns.Msg) (*dns.Msg, error)
	// Close closes any resources held by the upstream.
	Close() error
	// String returns the upstream in URL form, e.g. "udp://1.1.1.1:53".
	String() string
}

// ParseUpstream parses a DNS server override and returns the matching Upstream.
// Supported formats:
//   - ip, ip:port, [ipv6]:port - plain UDP DNS (port defaults to 53)
//   - udp://ip[:port] - plain UDP DNS
//   - tcp://ip[:port] - plain TCP DNS
//   - doh://host/path, https://host/path - DNS-over-HTTPS
func ParseUpstream(upstreamURL string) (Upstream, error) {
	upstreamURL = strings.TrimSpace(upstreamURL)
	if upstreamURL == "" {
		return nil, fmt.Errorf("empty upstream")
	}

	// Bare IPv6 literals confuse url.Parse, handle them first
	if utils.IsIPv6(upstreamURL) {
		return NewUDPUpstream(upstreamURL)
	}

	u, err := url.Parse(upstreamURL)
	// If url.Parse fails (e.g. "8.8.8.8:53"), or scheme is empty, try as UDP upstream
	if err != nil || u.Scheme == "" || (u.Host == "" && u.Opaque != "") {
		return NewUDPUpstream(upstreamURL)
	}

	switch u.Scheme {
	case "udp":
		return NewUDPUpstream(u.Host)
	case "tcp":
		return NewTCPUpstream(u.Host)
	case "doh", "https":
		if u.Host == "" {
			return nil, fmt.Errorf("invalid DoH upstream %q: missing host", upstreamURL)
		}
		return NewDoHUpstream(upstreamURL), nil
	default:
		return nil, fmt.Errorf("unsupported upstream scheme: %s", u.Scheme)
	}
}

// hostPort appends the default DNS port when address has none and checks
// that the host part is an IP literal.
func hostPort(address string) (string, error) {
	if address == "" {
		return "", fmt.Errorf("empty address")
	}

	host := address
	if utils.IsIPv6(address) {
		host = net.JoinHostPort(strings.Trim(address, "[]"), defaultDNSPort)
	} else if !containsPort(address) {
		host = net.JoinHostPort(address, defaultDNSPort)
	}

	h, port, err := net.SplitHostPort(host)
	if err != nil {
		return "", fmt.Errorf("invalid address %q: %w", address, err)
	}
	if !utils.IsIP(h) {
		return "", fmt.Errorf("invalid address %q: host must be an IP address", address)
	}
	if !utils.IsValidPort(port) {
		return "", fmt.Errorf("invalid address %q: bad port %q", address, port)
	}

	return host, nil
}

// containsPort checks if the address contains a port number.
func containsPort(address string) bool {
	// For IPv6 addresses like [::1]:53, check after the closing bracket
	if idx := strings.LastIndexByte(address, ']'); idx != -1 {
		return len(address) > idx+1 && address[idx+1] == ':'
	}
	// For IPv4 addresses, check for colon
	return strings.LastIndexByte(address, ':') != -1
}
