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
	"github.com/maksimkurb/urlresolver/src/internal/errors"
	"github.com/maksimkurb/urlresolver/src/internal/hashing"
	"github.com/maksimkurb/urlresolver/src/internal/log"
	"github.com/maksimkurb/urlresolver/src/internal/pipeline"
	"github.com/maksimkurb/urlresolver/src/internal/render"
	"github.com/maksimkurb/urlresolver/src/internal/resolver"
	"github.com/maksimkurb/urlresolver/src/internal/utils"
)

type processMode uint8

const (
	modeResolve processMode = iota
	modeNormalize
	modeFromConfig
)

// CreateResolveCommand returns the command resolving every input line.
func CreateResolveCommand() *ProcessCommand {
	return newProcessCommand("resolve", modeResolve)
}

// CreateNormalizeCommand returns the command writing bare hostnames.
func CreateNormalizeCommand() *ProcessCommand {
	return newProcessCommand("normalize", modeNormalize)
}

// CreateRunCommand returns the command following dns.resolve of the config file.
func CreateRunCommand() *ProcessCommand {
	return newProcessCommand("run", modeFromConfig)
}

func newProcessCommand(name string, mode processMode) *ProcessCommand {
	gc := &ProcessCommand{
		fs:   flag.NewFlagSet(name, flag.ExitOnError),
		mode: mode,
	}

	gc.fs.StringVar(&gc.InputFile, "f", config.DefaultInputFile, "Input file containing URLs, \"-\" for stdin")
	gc.fs.StringVar(&gc.InputFile, "file", config.DefaultInputFile, "Input file containing URLs, \"-\" for stdin")
	gc.fs.StringVar(&gc.OutputFile, "o", config.DefaultOutputFile, "Output file, \"-\" for stdout")
	gc.fs.StringVar(&gc.OutputFile, "output", config.DefaultOutputFile, "Output file, \"-\" for stdout")
	gc.fs.BoolVar(&gc.SkipBlank, "skip-blank", false, "Drop blank input lines instead of writing them")

	if mode == modeNormalize {
		return gc
	}

	gc.fs.BoolVar(&gc.Cisco, "c", false, "Output in Cisco IOS prefix-list format")
	gc.fs.BoolVar(&gc.Junos, "j", false, "Output in JunOS prefix-list format")
	gc.fs.BoolVar(&gc.IOSXR, "x", false, "Output in IOS-XR prefix-set format")
	gc.fs.BoolVar(&gc.SROS, "t", false, "Output in Nokia SROS prefix-list format")
	gc.fs.BoolVar(&gc.IPTables, "l", false, "Output in iptables format")
	gc.fs.StringVar(&gc.Format, "format", "", "Output format by name (see \"dialects\" command)")
	gc.fs.BoolVar(&gc.IPv4, "4", false, "Resolve IPv4 (A) records only")
	gc.fs.BoolVar(&gc.IPv6, "6", false, "Resolve IPv6 (AAAA) records only")
	gc.fs.StringVar(&gc.FilterName, "z", config.DefaultFilterName, "Filter name for prefix-list formats")
	gc.fs.StringVar(&gc.FilterName, "filter-name", config.DefaultFilterName, "Filter name for prefix-list formats")
	gc.fs.StringVar(&gc.DNSServer, "dns", "", "DNS server to query instead of the system resolver (e.g. 1.1.1.1, tcp://1.1.1.1, https://dns.google/dns-query)")
	gc.fs.DurationVar(&gc.Timeout, "timeout", 0, "Timeout of a single lookup, 0 leaves it to the resolver")
	gc.fs.BoolVar(&gc.Summary, "summary", false, "Print a summary table when done")

	return gc
}

// ProcessCommand runs the pipeline over the input file.
type ProcessCommand struct {
	fs   *flag.FlagSet
	mode processMode
	ctx  *AppContext
	cfg  *config.Config
	opts pipeline.Options

	InputFile  string
	OutputFile string
	SkipBlank  bool

	Cisco    bool
	Junos    bool
	IOSXR    bool
	SROS     bool
	IPTables bool
	Format   string

	IPv4       bool
	IPv6       bool
	FilterName string
	DNSServer  string
	Timeout    time.Duration
	Summary    bool
}

func (g *ProcessCommand) Name() string {
	return g.fs.Name()
}

func (g *ProcessCommand) Init(args []string, ctx *AppContext) error {
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
	g.applyFlags(cfg)

	if err := validateConfig(cfg); err != nil {
		return err
	}
	g.cfg = cfg

	opts, err := buildPipelineOptions(cfg)
	if err != nil {
		return err
	}
	g.opts = opts

	return nil
}

// applyFlags copies every flag set on the command line into cfg.
func (g *ProcessCommand) applyFlags(cfg *config.Config) {
	set := map[string]bool{}
	g.fs.Visit(func(f *flag.Flag) {
		set[f.Name] = true
	})

	if set["f"] || set["file"] {
		cfg.Input.File = g.InputFile
	}
	if set["o"] || set["output"] {
		cfg.Output.File = g.OutputFile
	}
	if set["skip-blank"] {
		cfg.Input.SkipBlankLines = g.SkipBlank
	}

	switch g.mode {
	case modeResolve:
		cfg.DNS.Resolve = true
	case modeNormalize:
		cfg.DNS.Resolve = false
		return
	}

	if format := g.selectedFormat(); format != "" {
		cfg.Output.Format = format
	} else if set["format"] {
		cfg.Output.Format = g.Format
	}
	if g.IPv4 || g.IPv6 {
		cfg.DNS.Family = familyFromFlags(g.IPv4, g.IPv6)
	}
	if set["z"] || set["filter-name"] {
		cfg.Output.FilterName = g.FilterName
	}
	if set["dns"] {
		cfg.DNS.Server = g.DNSServer
	}
	if set["timeout"] {
		cfg.DNS.Timeout = g.Timeout.String()
	}
	if set["summary"] {
		cfg.Output.Summary = g.Summary
	}
}

// selectedFormat returns the dialect chosen by a shorthand flag. The first
// one set wins: cisco, junos, iosxr, sros, iptables.
func (g *ProcessCommand) selectedFormat() string {
	switch {
	case g.Cisco:
		return render.CiscoPrefixList.String()
	case g.Junos:
		return render.JunosPrefixList.String()
	case g.IOSXR:
		return render.IOSXRPrefixSet.String()
	case g.SROS:
		return render.SROSPrefixList.String()
	case g.IPTables:
		return render.IPTablesRules.String()
	default:
		return ""
	}
}

func familyFromFlags(ipv4, ipv6 bool) string {
	switch {
	case ipv4 && !ipv6:
		return resolver.IPv4Only.String()
	case ipv6 && !ipv4:
		return resolver.IPv6Only.String()
	default:
		return resolver.Both.String()
	}
}

// buildPipelineOptions translates a validated config. Resolving without a
// format writes raw addresses.
func buildPipelineOptions(cfg *config.Config) (pipeline.Options, error) {
	opts := pipeline.Options{
		Resolve:        cfg.DNS.Resolve,
		Dialect:        render.RawIPList,
		FilterName:     cfg.Output.FilterName,
		SkipBlankLines: cfg.Input.SkipBlankLines,
		CollectEntries: cfg.Output.Summary && cfg.DNS.Resolve,
	}

	if cfg.Output.Format != "" {
		dialect, err := render.ParseDialect(cfg.Output.Format)
		if err != nil {
			return opts, errors.NewConfigError("invalid output format", err)
		}
		opts.Dialect = dialect
	}

	filter, err := resolver.ParseFilterMode(cfg.DNS.Family)
	if err != nil {
		return opts, errors.NewConfigError("invalid address family", err)
	}
	opts.Filter = filter

	return opts, nil
}

func (g *ProcessCommand) Run() error {
	inputPath := g.cfg.GetAbsInputFile()
	in, err := openInput(g.ctx, inputPath)
	if err != nil {
		return err
	}
	defer utils.CloseOrWarn(in)

	var res *resolver.Resolver
	if g.opts.Resolve && g.opts.Dialect.NeedsAddresses() {
		res, err = resolver.New(resolver.Options{
			Server:    g.cfg.DNS.Server,
			Timeout:   g.cfg.GetTimeout(),
			CacheSize: g.cfg.GetCacheSize(),
		})
		if err != nil {
			return err
		}
		defer utils.CloseOrWarn(res)
		log.Debugf("Resolving via %s", res)
	}

	outputPath := g.cfg.GetAbsOutputFile()
	var previousChecksum string
	if outputPath != utils.StdStream {
		if previousChecksum, err = hashing.FileChecksum(outputPath); err != nil {
			log.Debugf("Failed to checksum previous output: %v", err)
		}
	}

	out, err := createOutput(g.ctx, outputPath)
	if err != nil {
		return err
	}
	if outputPath == utils.StdStream {
		defer log.SetForceStdErr(false)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	proc := pipeline.New(g.opts, res)
	log.Debugf("Processing %s in %s mode", inputPath, proc)

	checksumProxy := hashing.NewMD5WriterProxy(out)
	stats, procErr := proc.Process(ctx, in, checksumProxy)
	closeErr := out.Close()
	if procErr != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("interrupted after %d lines: %w", stats.Lines, procErr)
		}
		return procErr
	}
	if closeErr != nil {
		return errors.NewOutputError(fmt.Sprintf("failed to close '%s'", outputPath), closeErr)
	}

	if outputPath != utils.StdStream {
		checksum, _ := checksumProxy.GetChecksum()
		if previousChecksum != "" && checksum == previousChecksum {
			log.Infof("Output saved to %s (unchanged)", outputPath)
		} else {
			log.Infof("Output saved to %s", outputPath)
		}
	}

	if g.opts.CollectEntries {
		pipeline.WriteSummary(g.summaryWriter(outputPath), stats)
	}

	return nil
}

func (g *ProcessCommand) summaryWriter(outputPath string) io.Writer {
	if outputPath == utils.StdStream {
		return g.ctx.stderr()
	}
	return g.ctx.stdout()
}
