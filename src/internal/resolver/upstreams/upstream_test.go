package upstreams

import (
	"context"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/miekg/dns"
)

func TestParseUpstream(t *testing.T) {
	tests := []struct {
		name        string
		upstreamURL string
		wantType    string // "udp", "tcp", "doh"
		wantString  string
		wantErr     bool
	}{
		{name: "UDP with port", upstreamURL: "udp://8.8.8.8:53", wantType: "udp", wantString: "udp://8.8.8.8:53"},
		{name: "UDP without port", upstreamURL: "udp://8.8.8.8", wantType: "udp", wantString: "udp://8.8.8.8:53"},
		{name: "TCP", upstreamURL: "tcp://1.1.1.1:5353", wantType: "tcp", wantString: "tcp://1.1.1.1:5353"},
		{name: "DoH", upstreamURL: "doh://dns.google/dns-query", wantType: "doh", wantString: "doh://dns.google/dns-query"},
		{name: "HTTPS", upstreamURL: "https://dns.google/dns-query", wantType: "doh", wantString: "doh://dns.google/dns-query"},
		{name: "Plain IP", upstreamURL: "8.8.8.8", wantType: "udp", wantString: "udp://8.8.8.8:53"},
		{name: "Plain IP:Port", upstreamURL: "8.8.8.8:5353", wantType: "udp", wantString: "udp://8.8.8.8:5353"},
		{name: "Plain IPv6", upstreamURL: "2001:4860:4860::8888", wantType: "udp", wantString: "udp://[2001:4860:4860::8888]:53"},
		{name: "Bracketed IPv6 with port", upstreamURL: "[2001:4860:4860::8888]:53", wantType: "udp", wantString: "udp://[2001:4860:4860::8888]:53"},
		{name: "UDP bracketed IPv6", upstreamURL: "udp://[::1]", wantType: "udp", wantString: "udp://[::1]:53"},
		{name: "Surrounding spaces", upstreamURL: " 9.9.9.9 ", wantType: "udp", wantString: "udp://9.9.9.9:53"},
		{name: "Empty", upstreamURL: "", wantErr: true},
		{name: "Hostname is not accepted", upstreamURL: "dns.google", wantErr: true},
		{name: "Hostname with port", upstreamURL: "localhost:53", wantErr: true},
		{name: "Invalid URL", upstreamURL: "::invalid::", wantErr: true},
		{name: "Bad port", upstreamURL: "udp://8.8.8.8:99999", wantErr: true},
		{name: "Unsupported scheme", upstreamURL: "ftp://8.8.8.8", wantErr: true},
		{name: "DoH without host", upstreamURL: "doh:///dns-query", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u, err := ParseUpstream(tt.upstreamURL)
			if tt.wantErr {
				if err == nil {
					t.Errorf("ParseUpstream() error = nil, want error (got %v)", u)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseUpstream() error = %v", err)
			}

			switch tt.wantType {
			case "udp", "tcp":
				p, ok := u.(*PlainUpstream)
				if !ok {
					t.Fatalf("ParseUpstream() = %T, want *PlainUpstream", u)
				}
				if p.network != tt.wantType {
					t.Errorf("network = %s, want %s", p.network, tt.wantType)
				}
			case "doh":
				if _, ok := u.(*DoHUpstream); !ok {
					t.Fatalf("ParseUpstream() = %T, want *DoHUpstream", u)
				}
			}

			if got := u.String(); got != tt.wantString {
				t.Errorf("String() = %q, want %q", got, tt.wantString)
			}
		})
	}
}

// answerA replies to A questions with 192.0.2.10 and to anything else with NOERROR/no data.
func answerA(w dns.ResponseWriter, r *dns.Msg) {
	m := new(dns.Msg)
	m.SetReply(r)
	if len(r.Question) > 0 && r.Question[0].Qtype == dns.TypeA {
		rr, _ := dns.NewRR(r.Question[0].Name + " 60 IN A 192.0.2.10")
		m.Answer = append(m.Answer, rr)
	}
	_ = w.WriteMsg(m)
}

func startUDPServer(t *testing.T, handler dns.HandlerFunc) string {
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

func startTCPServer(t *testing.T, handler dns.HandlerFunc) string {
	t.Helper()

	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("Failed to listen: %v", err)
	}

	started := make(chan struct{})
	server := &dns.Server{Listener: l, Handler: handler, NotifyStartedFunc: func() { close(started) }}
	go func() { _ = server.ActivateAndServe() }()
	<-started
	t.Cleanup(func() { _ = server.Shutdown() })

	return l.Addr().String()
}

func queryA(name string) *dns.Msg {
	m := new(dns.Msg)
	m.SetQuestion(dns.Fqdn(name), dns.TypeA)
	return m
}

func assertSingleA(t *testing.T, resp *dns.Msg, want string) {
	t.Helper()
	if len(resp.Answer) != 1 {
		t.Fatalf("Expected 1 answer, got %d", len(resp.Answer))
	}
	a, ok := resp.Answer[0].(*dns.A)
	if !ok {
		t.Fatalf("Expected *dns.A, got %T", resp.Answer[0])
	}
	if a.A.String() != want {
		t.Errorf("Expected %s, got %s", want, a.A)
	}
}

func TestPlainUpstream_UDPQuery(t *testing.T) {
	addr := startUDPServer(t, answerA)

	u, err := NewUDPUpstream(addr)
	if err != nil {
		t.Fatalf("NewUDPUpstream() error = %v", err)
	}
	defer u.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	resp, err := u.Query(ctx, queryA("example.com"))
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}
	assertSingleA(t, resp, "192.0.2.10")
}

func TestPlainUpstream_TCPQuery(t *testing.T) {
	addr := startTCPServer(t, answerA)

	u, err := NewTCPUpstream(addr)
	if err != nil {
		t.Fatalf("NewTCPUpstream() error = %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	resp, err := u.Query(ctx, queryA("example.com"))
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}
	assertSingleA(t, resp, "192.0.2.10")
}

func TestPlainUpstream_Unreachable(t *testing.T) {
	// Grab a free port and release it so nothing answers there
	pc, err := net.ListenPacket("udp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("Failed to listen: %v", err)
	}
	addr := pc.LocalAddr().String()
	pc.Close()

	u, err := NewUDPUpstream(addr)
	if err != nil {
		t.Fatalf("NewUDPUpstream() error = %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	if _, err := u.Query(ctx, queryA("example.com")); err == nil {
		t.Error("Expected error from unreachable upstream")
	}
}

func TestDoHUpstream_Query(t *testing.T) {
	var gotContentType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotContentType = r.Header.Get("Content-Type")

		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		req := new(dns.Msg)
		if err := req.Unpack(body); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if req.Id != 0 {
			http.Error(w, "expected zero id", http.StatusBadRequest)
			return
		}

		m := new(dns.Msg)
		m.SetReply(req)
		rr, _ := dns.NewRR(req.Question[0].Name + " 60 IN A 192.0.2.20")
		m.Answer = append(m.Answer, rr)
		packed, _ := m.Pack()

		w.Header().Set("Content-Type", dnsMessageContentType)
		_, _ = w.Write(packed)
	}))
	defer srv.Close()

	u := newDoHUpstreamWithClient(srv.URL+"/dns-query", srv.Client())
	defer u.Close()

	req := queryA("example.com")
	req.Id = 0x1234

	resp, err := u.Query(context.Background(), req)
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}
	if gotContentType != dnsMessageContentType {
		t.Errorf("Content-Type = %q, want %q", gotContentType, dnsMessageContentType)
	}
	if resp.Id != 0x1234 {
		t.Errorf("Expected response id to be restored, got %04x", resp.Id)
	}
	assertSingleA(t, resp, "192.0.2.20")
}

func TestDoHUpstream_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	u := newDoHUpstreamWithClient(srv.URL, srv.Client())
	if _, err := u.Query(context.Background(), queryA("example.com")); err == nil {
		t.Error("Expected error for non-200 response")
	}
}
