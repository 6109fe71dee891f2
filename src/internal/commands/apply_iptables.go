package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/maksimkurb/urlresolver/src/internal/config"
	"github.com/maksimkurb/urlresolver/src/internal/firewall"
	"github.com/maksimkurb/urlresolver/src/internal/log"
	"github.com/maksimkurb/urlresolver/src/internal/pipeline"
	"github.com/maksimkurb/urlresolver/src/internal/render"
	"github.com/maksimkurb/urlresolver/src/internal/resolver"
	"github.com/maksimkurb/urlresolver/src/internal/utils"
)

func CreateApplyIPTablesCommand() *ApplyIPTablesCommand {
	gc := &ApplyIPTablesCommand{
		fs:         flag.NewFlagSet("apply-iptables", flag.ExitOnError),
		newApplier: firewall.NewApplier,
	}

	gc.fs.StringVar(&gc.InputFile, "f", config.DefaultInputFile, "Input file containing URLs, \"-\" for stdin")
	gc.fs.StringVar(&gc.InputFile, "file", config.DefaultInputFile, "Input file containing URLs, \"-\" for stdin")
	gc.fs.BoolVar(&gc.IPv4, "4", false, "Add rules for IPv4 addresses only")
	gc.fs.BoolVar(&gc.IPv6, "6", false, "Add rules for IPv6 addresses only")
	gc.fs.StringVar(&gc.DNSServer, "dns", "", "DNS server to query instead of the system resolver")
	gc.fs.DurationVar(&gc.Timeout, "timeout", 0, "Timeout of a single lookup, 0 leaves it to the resolver")
	gc.fs.StringVar(&gc.Chain, "chain", config.DefaultChain, "Chain to append ACCEPT rules to")
	gc.fs.StringVar(&gc.Table, "table", config.DefaultTable, "Table of the chain")
	gc.fs.BoolVar(&gc.DryRun, "dry-run", false, "Print the rules instead of applying them")

	return gc
}

// ApplyIPTablesCommand resolves every input hostname and appends an ACCEPT
// rule for each address found.
type ApplyIPTablesCommand struct {
	fs         *flag.FlagSet
	ctx        *AppContext
	cfg        *config.Config
	filter     resolver.FilterMode
	newApplier func(chain, table string) (*firewall.Applier, error)

	InputFile string
	IPv4      bool
	IPv6      bool
	DNSServer string
	Timeout   time.Duration
	Chain     string
	Table     string
	DryRun    bool
}

func (g *ApplyIPTablesCommand) Name() string {
	return g.fs.Name()
}

func (g *ApplyIPTablesCommand) Init(args []string, ctx *AppContext) error {
	if err := g.fs.Parse(args); err != nil {
		return err
	}
	if g.fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", g.fs.Args())
	}
	g.ctx = ctx

	cfg, err := loadConfigOrDefault(ctx.ConfigPath)
	if err != nil {
		return err
	}

	g.fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "f", "file":
			cfg.Input.File = g.InputFile
		case "dns":
			cfg.DNS.Server = g.DNSServer
		case "timeout":
			cfg.DNS.Timeout = g.Timeout.String()
		case "chain":
			cfg.Firewall.Chain = g.Chain
		case "table":
			cfg.Firewall.Table = g.Table
		}
	})
	if g.IPv4 || g.IPv6 {
		cfg.DNS.Family = familyFromFlags(g.IPv4, g.IPv6)
	}
	cfg.DNS.Resolve = true

	if err := validateConfig(cfg); err != nil {
		return err
	}
	g.cfg = cfg

	if g.filter, err = resolver.ParseFilterMode(cfg.DNS.Family); err != nil {
		return err
	}

	return nil
}

func (g *ApplyIPTablesCommand) Run() error {
	var applier *firewall.Applier
	if g.DryRun {
		applier = firewall.NewApplierWithTables(g.cfg.Firewall.Chain, g.cfg.Firewall.Table, nil, nil)
	} else {
		var err error
		if applier, err = g.newApplier(g.cfg.Firewall.Chain, g.cfg.Firewall.Table); err != nil {
			return err
		}
	}

	inputPath := g.cfg.GetAbsInputFile()
	in, err := openInput(g.ctx, inputPath)
	if err != nil {
		return err
	}
	defer utils.CloseOrWarn(in)

	res, err := resolver.New(resolver.Options{
		Server:    g.cfg.DNS.Server,
		Timeout:   g.cfg.GetTimeout(),
		CacheSize: g.cfg.GetCacheSize(),
	})
	if err != nil {
		return err
	}
	defer utils.CloseOrWarn(res)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Progress goes to stderr so that dry-run rules are the only stdout content
	log.SetForceStdErr(true)
	defer log.SetForceStdErr(false)

	proc := pipeline.New(pipeline.Options{
		Resolve:        true,
		Dialect:        render.RawIPList,
		Filter:         g.filter,
		SkipBlankLines: true,
		CollectEntries: true,
	}, res)

	stats, err := proc.Process(ctx, in, io.Discard)
	if err != nil {
		return err
	}

	if g.DryRun {
		out := g.ctx.stdout()
		for _, entry := range stats.Entries {
			for _, rule := range applier.DryRun(entry.Result) {
				if _, err := fmt.Fprintln(out, rule); err != nil {
					return err
				}
			}
		}
		return nil
	}

	total := 0
	for _, entry := range stats.Entries {
		added, err := applier.Apply(entry.Result)
		total += added
		if err != nil {
			return fmt.Errorf("failed to apply rules for %s: %w", entry.Hostname, err)
		}
	}
	log.Infof("Added %d rule(s) to %s/%s", total, g.cfg.Firewall.Table, g.cfg.Firewall.Chain)

	return nil
}
