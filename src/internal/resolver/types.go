package resolver

import (
	"fmt"
	"strings"
)

// FilterMode restricts which address families are looked up and emitted.
type FilterMode uint8

const (
	// Both resolves A and AAAA records.
	Both FilterMode = iota
	// IPv4Only resolves A records only.
	IPv4Only
	// IPv6Only resolves AAAA records only.
	IPv6Only
)

// ParseFilterMode accepts "both" (or ""), "ipv4"/"4" and "ipv6"/"6".
func ParseFilterMode(s string) (FilterMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "both", "all":
		return Both, nil
	case "ipv4", "4", "inet":
		return IPv4Only, nil
	case "ipv6", "6", "inet6":
		return IPv6Only, nil
	default:
		return Both, fmt.Errorf("unknown address family filter: %q", s)
	}
}

// WantIPv4 reports whether A records should be looked up.
func (f FilterMode) WantIPv4() bool {
	return f != IPv6Only
}

// WantIPv6 reports whether AAAA records should be looked up.
func (f FilterMode) WantIPv6() bool {
	return f != IPv4Only
}

func (f FilterMode) String() string {
	switch f {
	case IPv4Only:
		return "ipv4"
	case IPv6Only:
		return "ipv6"
	default:
		return "both"
	}
}

// Status tells how a single address family lookup ended.
// Everything except StatusOK renders as an empty set.
type Status uint8

const (
	StatusSkipped Status = iota
	StatusOK
	StatusNoRecords
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusNoRecords:
		return "no records"
	case StatusFailed:
		return "failed"
	default:
		return "skipped"
	}
}

// Result holds the addresses found for one hostname. Each slice is
// deduplicated; ordering follows the backend and is not stable across runs.
type Result struct {
	IPv4 []string
	IPv6 []string

	IPv4Status Status
	IPv6Status Status

	// IPv4Err and IPv6Err keep the lookup failure for diagnostics only.
	IPv4Err error
	IPv6Err error
}

// Addresses returns IPv4 addresses followed by IPv6 addresses.
func (r Result) Addresses() []string {
	out := make([]string, 0, len(r.IPv4)+len(r.IPv6))
	out = append(out, r.IPv4...)
	return append(out, r.IPv6...)
}

// Empty reports whether no address was found in either family.
func (r Result) Empty() bool {
	return len(r.IPv4) == 0 && len(r.IPv6) == 0
}
