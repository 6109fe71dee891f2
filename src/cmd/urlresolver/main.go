package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/maksimkurb/urlresolver/src/internal/commands"
	"github.com/maksimkurb/urlresolver/src/internal/log"
)

var (
	version = "dev"
	commit  = "n/a"
	date    = "n/a"
)

func main() {
	ctx := &commands.AppContext{}

	// Define flags
	flag.StringVar(&ctx.ConfigPath, "config", "", "Path to optional TOML configuration file")
	flag.BoolVar(&ctx.Verbose, "verbose", false, "Enable debug logging")

	// Custom usage message
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "URL Resolver: normalize URLs and render their DNS records as router configuration\n")
		fmt.Fprintf(os.Stderr, "Version: %s (Commit: %s, Date: %s)\n\n", version, commit, date)
		fmt.Fprintf(os.Stderr, "Usage: %s [options] <command> [command options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Commands:\n")
		fmt.Fprintf(os.Stderr, "  resolve                 Resolve A/AAAA records and write them in an output format\n")
		fmt.Fprintf(os.Stderr, "  normalize               Only normalize URLs to hostnames\n")
		fmt.Fprintf(os.Stderr, "  run                     Resolve or normalize as set by dns.resolve in the config file\n")
		fmt.Fprintf(os.Stderr, "  apply-iptables          Resolve hostnames and append iptables ACCEPT rules\n")
		fmt.Fprintf(os.Stderr, "  dialects                List supported output formats\n")
		fmt.Fprintf(os.Stderr, "  config                  Print the effective configuration\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
	}

	flag.Parse()

	if ctx.Verbose {
		log.SetVerbose(true)
	}

	// Ensure cfg file exists when one is given
	if ctx.ConfigPath != "" {
		if _, err := os.Stat(ctx.ConfigPath); errors.Is(err, os.ErrNotExist) {
			log.Fatalf("Configuration file not found: %s", ctx.ConfigPath)
		}
	}

	cmds := []commands.Runner{
		commands.CreateResolveCommand(),
		commands.CreateNormalizeCommand(),
		commands.CreateRunCommand(),
		commands.CreateApplyIPTablesCommand(),
		commands.CreateDialectsCommand(),
		commands.CreateConfigCommand(),
	}

	args := flag.Args()

	if len(args) < 1 {
		flag.Usage()
		os.Exit(1)
	}

	subcommand := args[0]
	for _, cmd := range cmds {
		if cmd.Name() == subcommand {
			if err := cmd.Init(args[1:], ctx); err != nil {
				log.Fatalf("Failed to initialize command: %v", err)
			}

			if err := cmd.Run(); err != nil {
				log.Fatalf("%v", err)
			}

			os.Exit(0)
		}
	}

	log.Fatalf("Unknown subcommand: %s", subcommand)
}
