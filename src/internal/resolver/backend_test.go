package resolver

import (
	"context"
	"errors"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/miekg/dns"
)

// fakeUpstream builds responses with a handler instead of talking to a server.
type fakeUpstream struct {
	handler func(req *dns.Msg) (*dns.Msg, error)
	queries []*dns.Msg
}

func (f *fakeUpstream) Query(_ context.Context, req *dns.Msg) (*dns.Msg, error) {
	f.queries = append(f.queries, req)
	return f.handler(req)
}

func (f *fakeUpstream) Close() error   { return nil }
func (f *fakeUpstream) String() string { return "udp://192.0.2.53:53" }

func reply(req *dns.Msg, rcode int, rrs ...string) *dns.Msg {
	m := new(dns.Msg)
	m.SetRcode(req, rcode)
	for _, s := range rrs {
		rr, err := dns.NewRR(s)
		if err != nil {
			panic(err)
		}
		m.Answer = append(m.Answer, rr)
	}
	return m
}

func TestUpstreamBackend_Lookups(t *testing.T) {
	up := &fakeUpstream{handler: func(req *dns.Msg) (*dns.Msg, error) {
		q := req.Question[0]
		switch {
		case q.Name == "www.example.com." && q.Qtype == dns.TypeA:
			return reply(req, dns.RcodeSuccess,
				"www.example.com. 60 IN CNAME edge.example.net.",
				"edge.example.net. 60 IN A 192.0.2.1",
				"edge.example.net. 60 IN A 192.0.2.2",
				"edge.example.net. 60 IN A 192.0.2.1",
			), nil
		case q.Name == "www.example.com." && q.Qtype == dns.TypeAAAA:
			return reply(req, dns.RcodeSuccess,
				"www.example.com. 60 IN CNAME edge.example.net.",
				"edge.example.net. 60 IN AAAA 2001:db8::1",
			), nil
		case q.Name == "missing.example.com.":
			return reply(req, dns.RcodeNameError), nil
		case q.Name == "broken.example.com.":
			return reply(req, dns.RcodeServerFailure), nil
		case q.Name == "down.example.com.":
			return nil, errors.New("i/o timeout")
		}
		return reply(req, dns.RcodeSuccess), nil
	}}
	b := NewUpstreamBackend(up)
	ctx := context.Background()

	a, err := b.LookupA(ctx, "www.example.com")
	if err != nil || !sameSet(a, []string{"192.0.2.1", "192.0.2.2"}) {
		t.Errorf("LookupA = %v, %v", a, err)
	}

	aaaa, err := b.LookupAAAA(ctx, "www.example.com")
	if err != nil || !sameSet(aaaa, []string{"2001:db8::1"}) {
		t.Errorf("LookupAAAA = %v, %v", aaaa, err)
	}

	if _, err := b.LookupA(ctx, "missing.example.com"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}

	if _, err := b.LookupA(ctx, "broken.example.com"); err == nil || !strings.Contains(err.Error(), "SERVFAIL") {
		t.Errorf("Expected SERVFAIL error, got %v", err)
	}

	if _, err := b.LookupAAAA(ctx, "down.example.com"); err == nil {
		t.Error("Expected transport error")
	}

	nodata, err := b.LookupAAAA(ctx, "v4only.example.com")
	if err != nil || len(nodata) != 0 {
		t.Errorf("Expected empty answer, got %v, %v", nodata, err)
	}

	for _, q := range up.queries {
		if !q.RecursionDesired {
			t.Errorf("Expected RD bit on query %s", q.Question[0].Name)
		}
	}
}

func TestUpstreamBackend_IPLiterals(t *testing.T) {
	up := &fakeUpstream{handler: func(req *dns.Msg) (*dns.Msg, error) {
		t.Fatalf("Unexpected query for %s", req.Question[0].Name)
		return nil, nil
	}}
	b := NewUpstreamBackend(up)
	ctx := context.Background()

	if got, _ := b.LookupA(ctx, "192.0.2.9"); !sameSet(got, []string{"192.0.2.9"}) {
		t.Errorf("LookupA(ipv4 literal) = %v", got)
	}
	if got, _ := b.LookupAAAA(ctx, "192.0.2.9"); len(got) != 0 {
		t.Errorf("LookupAAAA(ipv4 literal) = %v", got)
	}
	if got, _ := b.LookupAAAA(ctx, "2001:db8::9"); !sameSet(got, []string{"2001:db8::9"}) {
		t.Errorf("LookupAAAA(ipv6 literal) = %v", got)
	}
}

func TestResolver_WithUpstreamFailureNeverEscapes(t *testing.T) {
	up := &fakeUpstream{handler: func(req *dns.Msg) (*dns.Msg, error) {
		return nil, errors.New("connection refused")
	}}
	r := NewWithBackend(NewUpstreamBackend(up), 0)

	res := r.Resolve(context.Background(), "not a valid host!", Both)

	if !res.Empty() || res.IPv4Status != StatusFailed || res.IPv6Status != StatusFailed {
		t.Errorf("Unexpected result %+v", res)
	}
}

func startDNSServer(t *testing.T, handler dns.HandlerFunc) string {
	t.Helper()

	pc, err := net.ListenPacket("udp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("Failed to listen: %v", err)
	}

	started := make(chan struct{})
	server := &dns.Server{PacketConn: pc, Handler: handler, NotifyStartedFunc: func() { close(started) }}
	go func() { _ = server.ActivateAndServe() }()
	<-started
	t.Cleanup(func() { _ = server.Shutdown() })

	return pc.LocalAddr().String()
}

func TestSystemBackend_GoResolver(t *testing.T) {
	addr := startDNSServer(t, func(w dns.ResponseWriter, r *dns.Msg) {
		q := r.Question[0]
		var m *dns.Msg
		switch {
		case strings.HasPrefix(q.Name, "known.example.test.") && q.Qtype == dns.TypeA:
			m = reply(r, dns.RcodeSuccess, q.Name+" 60 IN A 192.0.2.44")
		case strings.HasPrefix(q.Name, "known.example.test.") && q.Qtype == dns.TypeAAAA:
			m = reply(r, dns.RcodeSuccess, q.Name+" 60 IN AAAA 2001:db8::44")
		default:
			m = reply(r, dns.RcodeNameError)
		}
		_ = w.WriteMsg(m)
	})

	netResolver := &net.Resolver{
		PreferGo: true,
		Dial: func(ctx context.Context, network, address string) (net.Conn, error) {
			var d net.Dialer
			return d.DialContext(ctx, "udp", addr)
		},
	}
	b := NewSystemBackend(netResolver)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	a, err := b.LookupA(ctx, "known.example.test.")
	if err != nil || !sameSet(a, []string{"192.0.2.44"}) {
		t.Errorf("LookupA = %v, %v", a, err)
	}

	aaaa, err := b.LookupAAAA(ctx, "known.example.test.")
	if err != nil || !sameSet(aaaa, []string{"2001:db8::44"}) {
		t.Errorf("LookupAAAA = %v, %v", aaaa, err)
	}

	if _, err := b.LookupA(ctx, "unknown.example.test."); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}
