package render

import (
	"strings"
	"testing"

	"github.com/maksimkurb/urlresolver/src/internal/resolver"
)

func TestRender_CiscoExactBlock(t *testing.T) {
	result := resolver.Result{IPv4: []string{"93.184.216.34"}}

	got := Render("example.com", "example.com", result, CiscoPrefixList, "FILTER")
	want := "# example.com\n" +
		" ip prefix-list FILTER permit 93.184.216.34/32\n" +
		"# ----------------------------------------\n"

	if got != want {
		t.Errorf("Render() =\n%q\nwant\n%q", got, want)
	}
}

func TestRender_EntriesPerDialect(t *testing.T) {
	result := resolver.Result{
		IPv4: []string{"192.0.2.1"},
		IPv6: []string{"2001:db8::1"},
	}

	tests := []struct {
		dialect Dialect
		entries string
	}{
		{dialect: RawIPList, entries: "192.0.2.1\n2001:db8::1\n"},
		{dialect: CiscoPrefixList, entries: " ip prefix-list ACL permit 192.0.2.1/32\n ip prefix-list ACL permit 2001:db8::1/32\n"},
		{dialect: JunosPrefixList, entries: "     192.0.2.1/32;\n     2001:db8::1/32;\n"},
		{dialect: IOSXRPrefixSet, entries: " 192.0.2.1/32,\n 2001:db8::1/32,\n"},
		{dialect: SROSPrefixList, entries: " 192.0.2.1/32;\n 2001:db8::1/32;\n"},
		{dialect: IPTablesRules, entries: "iptables -A INPUT -s 192.0.2.1 -j ACCEPT\niptables -A INPUT -s 2001:db8::1 -j ACCEPT\n"},
		{dialect: PlainText, entries: "www.example.com\n"},
	}

	for _, tt := range tests {
		t.Run(tt.dialect.String(), func(t *testing.T) {
			got := Render("www.example.com", "https://www.example.com/index.html", result, tt.dialect, "ACL")
			want := "# https://www.example.com/index.html\n" + tt.entries + Separator + "\n"
			if got != want {
				t.Errorf("Render() =\n%q\nwant\n%q", got, want)
			}
		})
	}
}

func TestRender_EmptyResultKeepsFraming(t *testing.T) {
	for _, d := range Dialects() {
		if !d.NeedsAddresses() {
			continue
		}
		t.Run(d.String(), func(t *testing.T) {
			got := Render("nonexistent.invalid", "https://nonexistent.invalid/", resolver.Result{}, d, "FILTER")
			want := "# https://nonexistent.invalid/\n" + Separator + "\n"
			if got != want {
				t.Errorf("Render() = %q, want %q", got, want)
			}
		})
	}
}

func TestRenderer_HeaderAndFooter(t *testing.T) {
	tests := []struct {
		dialect Dialect
		header  string
		footer  string
	}{
		{dialect: PlainText},
		{dialect: RawIPList},
		{dialect: CiscoPrefixList, header: "ip prefix-list FILTER\n"},
		{dialect: JunosPrefixList, header: "policy-options {\n    prefix-list FILTER {\n", footer: "    }\n}\n"},
		{dialect: IOSXRPrefixSet, header: "prefix-set FILTER\n", footer: "end-set\n"},
		{dialect: SROSPrefixList, header: "configure filter match-list prefix-list FILTER entries\n", footer: "exit\n"},
		{dialect: IPTablesRules},
	}

	for _, tt := range tests {
		t.Run(tt.dialect.String(), func(t *testing.T) {
			r := NewRenderer(tt.dialect, "FILTER")
			if got := r.Header(); got != tt.header {
				t.Errorf("Header() = %q, want %q", got, tt.header)
			}
			if got := r.Footer(); got != tt.footer {
				t.Errorf("Footer() = %q, want %q", got, tt.footer)
			}
		})
	}
}

func TestRenderer_FullJunosDocument(t *testing.T) {
	r := NewRenderer(JunosPrefixList, "ALLOWED")

	var sb strings.Builder
	sb.WriteString(r.Header())
	sb.WriteString(r.Block("a.example", "a.example", resolver.Result{IPv4: []string{"192.0.2.1"}}))
	sb.WriteString(r.Block("b.example", "https://b.example/x", resolver.Result{}))
	sb.WriteString(r.Footer())

	want := `policy-options {
    prefix-list ALLOWED {
# a.example
     192.0.2.1/32;
# ----------------------------------------
# https://b.example/x
# ----------------------------------------
    }
}
`
	if got := sb.String(); got != want {
		t.Errorf("document =\n%s\nwant\n%s", got, want)
	}
}

func TestHostname(t *testing.T) {
	if got := Hostname("example.com"); got != "example.com\n" {
		t.Errorf("Hostname() = %q", got)
	}
	if got := Hostname(""); got != "\n" {
		t.Errorf("Hostname(\"\") = %q", got)
	}
}

func TestParseDialect(t *testing.T) {
	tests := []struct {
		name    string
		want    Dialect
		wantErr bool
	}{
		{name: "plain", want: PlainText},
		{name: "raw", want: RawIPList},
		{name: "cisco", want: CiscoPrefixList},
		{name: "JUNOS", want: JunosPrefixList},
		{name: "juniper", want: JunosPrefixList},
		{name: "iosxr", want: IOSXRPrefixSet},
		{name: "ios-xr", want: IOSXRPrefixSet},
		{name: "sros", want: SROSPrefixList},
		{name: " iptables ", want: IPTablesRules},
		{name: "pf", wantErr: true},
		{name: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDialect(tt.name)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseDialect(%q) error = %v, wantErr %v", tt.name, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseDialect(%q) = %v, want %v", tt.name, got, tt.want)
			}
		})
	}
}

func TestDialectNames(t *testing.T) {
	want := []string{"plain", "raw", "cisco", "junos", "iosxr", "sros", "iptables"}
	got := DialectNames()
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("DialectNames() = %v, want %v", got, want)
	}
}
