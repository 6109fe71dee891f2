// Package config handles the optional TOML configuration file of urlresolver.
//
// Every setting has a default, so the tool runs without a config file. When a
// file is given, command line flags still override what it sets.
//
// # Configuration Structure
//
//	[input]
//	file = "url.txt"              # "-" reads stdin
//	skip_blank_lines = false
//
//	[output]
//	file = "resolved_addresses.txt"  # "-" writes stdout
//	format = "cisco"              # plain, raw, cisco, junos, iosxr, sros, iptables
//	filter_name = "FILTER"
//	summary = false
//
//	[dns]
//	resolve = true
//	family = "both"               # both, ipv4, ipv6
//	server = "udp://1.1.1.1:53"   # empty uses the system resolver
//	timeout = "0s"                # 0s leaves it to the resolver
//	cache_size = 0                # > 0 reuses results of repeated hostnames
//
//	[firewall]
//	chain = "INPUT"
//	table = "filter"
//
// Relative file paths are resolved against the directory of the config file.
//
// # Example Usage
//
//	cfg, err := config.LoadConfig("/etc/urlresolver.toml")
//	if err != nil {
//	    log.Fatalf("%v", err)
//	}
//	if err := cfg.ValidateConfig(); err != nil {
//	    log.Fatalf("%v", err)
//	}
package config
