// Package commands implements the CLI subcommands of urlresolver.
//
// Every command implements Runner: Init parses the command flags and loads
// the configuration, Run does the work. Flags override the config file,
// which overrides the built-in defaults.
//
// # Available Commands
//
//   - resolve: Resolve every hostname and render it in an output dialect
//   - normalize: Write the bare hostname of every input line
//   - run: Resolve or normalize, as the config file says
//   - apply-iptables: Resolve hostnames and append iptables ACCEPT rules
//   - dialects: List the supported output dialects
//   - config: Print the effective configuration
//
// # Example Usage
//
//	cmd := commands.CreateResolveCommand()
//	if err := cmd.Init([]string{"-c", "-f", "urls.txt"}, appCtx); err != nil {
//	    log.Fatalf("Failed to initialize command: %v", err)
//	}
//	if err := cmd.Run(); err != nil {
//	    log.Fatalf("Failed to run command: %v", err)
//	}
package commands
