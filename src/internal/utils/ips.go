package utils

import "net"

// IPStrings converts ips to their textual form, dropping nils and duplicates
// while keeping the first-seen order.
func IPStrings(ips []net.IP) []string {
	out := make([]string, 0, len(ips))
	for _, ip := range ips {
		if ip == nil {
			continue
		}
		out = append(out, ip.String())
	}
	return Dedup(out)
}

// Dedup removes repeated values in place, keeping the first occurrence.
func Dedup(values []string) []string {
	if len(values) < 2 {
		return values
	}

	seen := make(map[string]struct{}, len(values))
	out := values[:0]
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
