package render

import (
	"fmt"
	"strings"
)

// Dialect selects the output syntax.
type Dialect uint8

const (
	// PlainText writes the hostname of every line.
	PlainText Dialect = iota
	// RawIPList writes one address per line.
	RawIPList
	// CiscoPrefixList writes Cisco IOS "ip prefix-list" entries.
	CiscoPrefixList
	// JunosPrefixList writes a JunOS policy-options prefix-list.
	JunosPrefixList
	// IOSXRPrefixSet writes an IOS-XR prefix-set.
	IOSXRPrefixSet
	// SROSPrefixList writes a Nokia SR OS prefix-list.
	SROSPrefixList
	// IPTablesRules writes iptables ACCEPT rules for IPv4 addresses.
	IPTablesRules
)

const (
	TMPL_FILTER_NAME = "filter_name"
	TMPL_IP          = "ip"
)

type dialectDef struct {
	name    string
	aliases []string
	header  string
	entry   string
	footer  string
}

// Templates use {{filter_name}} and {{ip}} placeholders. Every address,
// IPv6 included, is a /32 entry; devices may reject that for IPv6.
var dialectDefs = map[Dialect]dialectDef{
	PlainText: {
		name:    "plain",
		aliases: []string{"text"},
	},
	RawIPList: {
		name:    "raw",
		aliases: []string{"ip", "ips"},
		entry:   "{{ip}}\n",
	},
	CiscoPrefixList: {
		name:    "cisco",
		aliases: []string{"ios"},
		header:  "ip prefix-list {{filter_name}}\n",
		entry:   " ip prefix-list {{filter_name}} permit {{ip}}/32\n",
	},
	JunosPrefixList: {
		name:    "junos",
		aliases: []string{"juniper"},
		header:  "policy-options {\n    prefix-list {{filter_name}} {\n",
		entry:   "     {{ip}}/32;\n",
		footer:  "    }\n}\n",
	},
	IOSXRPrefixSet: {
		name:    "iosxr",
		aliases: []string{"ios-xr"},
		header:  "prefix-set {{filter_name}}\n",
		entry:   " {{ip}}/32,\n",
		footer:  "end-set\n",
	},
	SROSPrefixList: {
		name:    "sros",
		aliases: []string{"nokia"},
		header:  "configure filter match-list prefix-list {{filter_name}} entries\n",
		entry:   " {{ip}}/32;\n",
		footer:  "exit\n",
	},
	IPTablesRules: {
		name:  "iptables",
		entry: "iptables -A INPUT -s {{ip}} -j ACCEPT\n",
	},
}

// dialectOrder is the listing order and the precedence of CLI flags.
var dialectOrder = []Dialect{
	PlainText,
	RawIPList,
	CiscoPrefixList,
	JunosPrefixList,
	IOSXRPrefixSet,
	SROSPrefixList,
	IPTablesRules,
}

// ParseDialect looks a dialect up by name or alias, case-insensitively.
func ParseDialect(name string) (Dialect, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, d := range dialectOrder {
		def := dialectDefs[d]
		if def.name == name {
			return d, nil
		}
		for _, alias := range def.aliases {
			if alias == name {
				return d, nil
			}
		}
	}
	return PlainText, fmt.Errorf("unknown output format %q (supported: %s)", name, strings.Join(DialectNames(), ", "))
}

// Dialects returns every dialect in listing order.
func Dialects() []Dialect {
	return append([]Dialect(nil), dialectOrder...)
}

// DialectNames returns the canonical dialect names in listing order.
func DialectNames() []string {
	names := make([]string, len(dialectOrder))
	for i, d := range dialectOrder {
		names[i] = d.String()
	}
	return names
}

func (d Dialect) String() string {
	if def, ok := dialectDefs[d]; ok {
		return def.name
	}
	return fmt.Sprintf("dialect(%d)", uint8(d))
}

// NeedsAddresses reports whether the dialect renders resolved addresses.
// PlainText only needs the hostname.
func (d Dialect) NeedsAddresses() bool {
	return d != PlainText
}
