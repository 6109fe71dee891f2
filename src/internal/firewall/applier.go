package firewall

import (
	"fmt"
	"strings"

	"github.com/coreos/go-iptables/iptables"
	"github.com/maksimkurb/urlresolver/src/internal/errors"
	"github.com/maksimkurb/urlresolver/src/internal/log"
	"github.com/maksimkurb/urlresolver/src/internal/resolver"
)

// IPTables is the subset of *iptables.IPTables used by Applier.
type IPTables interface {
	Exists(table, chain string, rulespec ...string) (bool, error)
	Append(table, chain string, rulespec ...string) error
}

// Rule is a single ACCEPT rule for one source address.
type Rule struct {
	Protocol iptables.Protocol
	Table    string
	Chain    string
	Spec     []string
}

func (r Rule) String() string {
	bin := "iptables"
	if r.Protocol == iptables.ProtocolIPv6 {
		bin = "ip6tables"
	}
	return fmt.Sprintf("%s -t %s -A %s %s", bin, r.Table, r.Chain, strings.Join(r.Spec, " "))
}

// Applier appends ACCEPT rules to one chain of one table.
type Applier struct {
	chain string
	table string
	ipt4  IPTables
	ipt6  IPTables
}

// NewApplier creates an Applier backed by the system iptables binaries.
// A missing ip6tables only disables IPv6 rules.
func NewApplier(chain, table string) (*Applier, error) {
	ipt4, err := iptables.NewWithProtocol(iptables.ProtocolIPv4)
	if err != nil {
		return nil, errors.NewFirewallError("failed to create iptables (IPv4)", err)
	}

	var ipt6 IPTables
	if ipt, err := iptables.NewWithProtocol(iptables.ProtocolIPv6); err != nil {
		log.Warnf("ip6tables is not available, IPv6 rules will be skipped: %v", err)
	} else {
		ipt6 = ipt
	}

	return NewApplierWithTables(chain, table, ipt4, ipt6), nil
}

// NewApplierWithTables creates an Applier over the given implementations.
// Either may be nil to disable that family.
func NewApplierWithTables(chain, table string, ipt4, ipt6 IPTables) *Applier {
	return &Applier{chain: chain, table: table, ipt4: ipt4, ipt6: ipt6}
}

// Rules returns the rules needed for result, IPv4 first.
func (a *Applier) Rules(result resolver.Result) []Rule {
	rules := make([]Rule, 0, len(result.IPv4)+len(result.IPv6))
	for _, ip := range result.IPv4 {
		rules = append(rules, a.rule(iptables.ProtocolIPv4, ip))
	}
	for _, ip := range result.IPv6 {
		rules = append(rules, a.rule(iptables.ProtocolIPv6, ip))
	}
	return rules
}

func (a *Applier) rule(proto iptables.Protocol, ip string) Rule {
	return Rule{
		Protocol: proto,
		Table:    a.table,
		Chain:    a.chain,
		Spec:     []string{"-s", ip, "-j", "ACCEPT"},
	}
}

// DryRun returns the commands Apply would run for result without touching
// the kernel.
func (a *Applier) DryRun(result resolver.Result) []string {
	rules := a.Rules(result)
	commands := make([]string, len(rules))
	for i, rule := range rules {
		commands[i] = rule.String()
	}
	return commands
}

// Apply appends every missing rule for result and returns how many were added.
// It stops at the first iptables failure.
func (a *Applier) Apply(result resolver.Result) (int, error) {
	added := 0
	for _, rule := range a.Rules(result) {
		ipt := a.ipt4
		if rule.Protocol == iptables.ProtocolIPv6 {
			ipt = a.ipt6
		}
		if ipt == nil {
			log.Debugf("Skipping rule, no backend for protocol: %s", rule)
			continue
		}

		exists, err := ipt.Exists(rule.Table, rule.Chain, rule.Spec...)
		if err != nil {
			return added, errors.NewFirewallError(fmt.Sprintf("failed to check rule: %s", rule), err)
		}
		if exists {
			log.Debugf("Rule already exists: %s", rule)
			continue
		}

		if err := ipt.Append(rule.Table, rule.Chain, rule.Spec...); err != nil {
			return added, errors.NewFirewallError(fmt.Sprintf("failed to append rule: %s", rule), err)
		}
		log.Debugf("Added rule: %s", rule)
		added++
	}
	return added, nil
}
