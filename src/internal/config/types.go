package config

import (
	"path/filepath"
	"time"

	"github.com/maksimkurb/urlresolver/src/internal/utils"
)

type Config struct {
	// Input describes where URLs are read from.
	Input *InputConfig `toml:"input"`
	// Output describes where and how results are written.
	Output *OutputConfig `toml:"output"`
	// DNS holds resolution settings.
	DNS *DNSConfig `toml:"dns"`
	// Firewall holds settings of the apply-iptables command.
	Firewall *FirewallConfig `toml:"firewall"`

	_absConfigFilePath string
}

type InputConfig struct {
	// File is the list of URLs, one per line ("-" for stdin). Relative paths are resolved against the config directory.
	File string `toml:"file" json:"file" validate:"required"`
	// SkipBlankLines drops empty input lines instead of emitting an empty block for them (default: false).
	SkipBlankLines bool `toml:"skip_blank_lines" json:"skip_blank_lines"`
}

type OutputConfig struct {
	// File is the output file ("-" for stdout). Relative paths are resolved against the config directory.
	File string `toml:"file" json:"file" validate:"required"`
	// Format is the output dialect: plain, raw, cisco, junos, iosxr, sros or iptables (default: raw when resolving).
	Format string `toml:"format,omitempty" json:"format,omitempty" validate:"omitempty,dialect"`
	// FilterName is substituted into prefix-list/prefix-set templates (default: FILTER).
	FilterName string `toml:"filter_name" json:"filter_name" validate:"required,filter_name"`
	// Summary prints a table of all resolved hosts when the run completes (default: false).
	Summary bool `toml:"summary" json:"summary"`
}

type DNSConfig struct {
	// Resolve enables DNS resolution. Without it only hostnames are written (default: false).
	Resolve bool `toml:"resolve" json:"resolve"`
	// Family restricts resolution to one address family: both, ipv4 or ipv6 (default: both).
	Family string `toml:"family" json:"family" validate:"omitempty,oneof=both ipv4 ipv6"`
	// Server overrides the system resolver: ip[:port], udp://, tcp://, doh:// or https:// (default: system resolver).
	Server string `toml:"server,omitempty" json:"server,omitempty" validate:"dns_server"`
	// Timeout bounds every single lookup, e.g. "5s". "0s" leaves it to the resolver (default: 0s).
	Timeout string `toml:"timeout" json:"timeout" validate:"omitempty,duration"`
	// CacheSize enables a cache of that many results for hostnames repeated in the input. Every line is looked up afresh when 0 (default: 0).
	CacheSize int `toml:"cache_size" json:"cache_size" validate:"gte=0"`
}

type FirewallConfig struct {
	// Chain receives the ACCEPT rules (default: INPUT).
	Chain string `toml:"chain" json:"chain" validate:"required,chain_name"`
	// Table is the iptables table (default: filter).
	Table string `toml:"table" json:"table" validate:"required,oneof=filter mangle raw security"`
}

// Default returns a configuration with every default filled in.
func Default() *Config {
	c := &Config{}
	c.applyDefaults()
	return c
}

func (c *Config) applyDefaults() {
	if c.Input == nil {
		c.Input = &InputConfig{}
	}
	if c.Input.File == "" {
		c.Input.File = DefaultInputFile
	}

	if c.Output == nil {
		c.Output = &OutputConfig{}
	}
	if c.Output.File == "" {
		c.Output.File = DefaultOutputFile
	}
	if c.Output.FilterName == "" {
		c.Output.FilterName = DefaultFilterName
	}

	if c.DNS == nil {
		c.DNS = &DNSConfig{}
	}
	if c.DNS.Family == "" {
		c.DNS.Family = DefaultFamily
	}
	if c.DNS.Timeout == "" {
		c.DNS.Timeout = DefaultTimeout
	}

	if c.Firewall == nil {
		c.Firewall = &FirewallConfig{}
	}
	if c.Firewall.Chain == "" {
		c.Firewall.Chain = DefaultChain
	}
	if c.Firewall.Table == "" {
		c.Firewall.Table = DefaultTable
	}
}

// GetConfigDir returns the directory of the loaded config file, or "" for defaults.
func (c *Config) GetConfigDir() string {
	if c._absConfigFilePath == "" {
		return ""
	}
	return filepath.Dir(c._absConfigFilePath)
}

// GetAbsInputFile returns the input path resolved against the config directory.
func (c *Config) GetAbsInputFile() string {
	return utils.GetAbsolutePath(c.Input.File, c.GetConfigDir())
}

// GetAbsOutputFile returns the output path resolved against the config directory.
func (c *Config) GetAbsOutputFile() string {
	return utils.GetAbsolutePath(c.Output.File, c.GetConfigDir())
}

// GetCacheSize returns the result cache size, 0 when caching is disabled.
func (c *Config) GetCacheSize() int {
	return c.DNS.CacheSize
}

// GetTimeout returns the parsed lookup timeout. Call after ValidateConfig.
func (c *Config) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.DNS.Timeout)
	if err != nil {
		return 0
	}
	return d
}
