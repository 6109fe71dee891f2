// Package utils provides small helpers shared across urlresolver.
//
//   - IP helpers: textual, deduplicated address lists (IPStrings, Dedup)
//   - Validation: DNS names, IP literals by family, ports (from govalidator)
//   - Paths: config-relative input/output paths, "-" for stdio
//   - Files: CloseOrWarn for deferred closes
//
// Example:
//
//	addrs := utils.IPStrings(ips)           // ["93.184.216.34"]
//	if !utils.IsDNSName(host) {
//	    log.Debugf("%q does not look like a DNS name", host)
//	}
package utils
