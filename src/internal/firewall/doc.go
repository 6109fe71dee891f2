// Package firewall installs ACCEPT rules for resolved addresses.
//
// IPv4 addresses go through iptables and IPv6 addresses through ip6tables.
// Each rule is checked with Exists before it is appended, so re-running the
// same input does not duplicate rules.
package firewall
