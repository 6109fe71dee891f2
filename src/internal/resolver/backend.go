package resolver

import (
	"context"
	"errors"
	"fmt"
	"net"

	"github.com/maksimkurb/urlresolver/src/internal/resolver/upstreams"
	"github.com/maksimkurb/urlresolver/src/internal/utils"
	"github.com/miekg/dns"
)

// ErrNotFound marks a lookup that ended with NXDOMAIN.
var ErrNotFound = errors.New("no such host")

// Backend performs the actual record lookups. A lookup with no data returns
// an empty slice and a nil error.
type Backend interface {
	LookupA(ctx context.Context, host string) ([]string, error)
	LookupAAAA(ctx context.Context, host string) ([]string, error)
	Close() error
	String() string
}

// SystemBackend resolves through the platform resolver.
type SystemBackend struct {
	resolver *net.Resolver
}

// NewSystemBackend wraps r, or net.DefaultResolver when r is nil.
func NewSystemBackend(r *net.Resolver) *SystemBackend {
	if r == nil {
		r = net.DefaultResolver
	}
	return &SystemBackend{resolver: r}
}

func (b *SystemBackend) LookupA(ctx context.Context, host string) ([]string, error) {
	return b.lookup(ctx, "ip4", host)
}

func (b *SystemBackend) LookupAAAA(ctx context.Context, host string) ([]string, error) {
	return b.lookup(ctx, "ip6", host)
}

func (b *SystemBackend) lookup(ctx context.Context, network, host string) ([]string, error) {
	ips, err := b.resolver.LookupIP(ctx, network, host)
	if err != nil {
		var dnsErr *net.DNSError
		if errors.As(err, &dnsErr) && dnsErr.IsNotFound {
			return nil, fmt.Errorf("%w: %v", ErrNotFound, err)
		}
		return nil, err
	}
	return utils.IPStrings(ips), nil
}

func (b *SystemBackend) Close() error {
	return nil
}

func (b *SystemBackend) String() string {
	return "system"
}

// UpstreamBackend sends A/AAAA questions to a single explicit DNS server.
type UpstreamBackend struct {
	upstream upstreams.Upstream
}

// NewUpstreamBackend creates a backend querying u.
func NewUpstreamBackend(u upstreams.Upstream) *UpstreamBackend {
	return &UpstreamBackend{upstream: u}
}

func (b *UpstreamBackend) LookupA(ctx context.Context, host string) ([]string, error) {
	return b.query(ctx, host, dns.TypeA)
}

func (b *UpstreamBackend) LookupAAAA(ctx context.Context, host string) ([]string, error) {
	return b.query(ctx, host, dns.TypeAAAA)
}

func (b *UpstreamBackend) query(ctx context.Context, host string, qtype uint16) ([]string, error) {
	// IP literals answer for themselves, as the platform resolver does
	if utils.IsIP(host) {
		if (qtype == dns.TypeA && utils.IsIPv4(host)) || (qtype == dns.TypeAAAA && utils.IsIPv6(host)) {
			return []string{host}, nil
		}
		return nil, nil
	}

	req := new(dns.Msg)
	req.SetQuestion(dns.Fqdn(host), qtype)

	resp, err := b.upstream.Query(ctx, req)
	if err != nil {
		return nil, err
	}

	switch resp.Rcode {
	case dns.RcodeSuccess:
	case dns.RcodeNameError:
		return nil, fmt.Errorf("%w: %s", ErrNotFound, host)
	default:
		return nil, fmt.Errorf("%s answered %s for %s", b.upstream, dns.RcodeToString[resp.Rcode], host)
	}

	// CNAME records in the answer are skipped, the chased A/AAAA records follow them
	var out []string
	for _, rr := range resp.Answer {
		switch v := rr.(type) {
		case *dns.A:
			if qtype == dns.TypeA {
				out = append(out, v.A.String())
			}
		case *dns.AAAA:
			if qtype == dns.TypeAAAA {
				out = append(out, v.AAAA.String())
			}
		}
	}

	return utils.Dedup(out), nil
}

func (b *UpstreamBackend) Close() error {
	return b.upstream.Close()
}

func (b *UpstreamBackend) String() string {
	return b.upstream.String()
}

func isNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
