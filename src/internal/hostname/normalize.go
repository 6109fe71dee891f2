// Package hostname reduces raw URL lines to bare hostnames.
package hostname

import (
	"strings"

	"golang.org/x/net/idna"
)

// Normalize strips a URL down to its hostname: everything up to and including
// the first "//" is dropped, then everything from the first "/" on.
// Input without "//" is treated as scheme-less. No validation is performed,
// so malformed lines simply fail DNS later.
func Normalize(rawLine string) string {
	host := strings.TrimSpace(rawLine)

	if i := strings.Index(host, "//"); i != -1 {
		host = host[i+2:]
	}

	if i := strings.IndexByte(host, '/'); i != -1 {
		host = host[:i]
	}

	return host
}

// ToASCII returns the punycode form of an internationalized hostname for
// use in DNS queries. ASCII input and names idna rejects are returned as is.
func ToASCII(host string) string {
	if isASCII(host) {
		return host
	}

	ascii, err := idna.Lookup.ToASCII(host)
	if err != nil {
		return host
	}
	return ascii
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= 0x80 {
			return false
		}
	}
	return true
}
