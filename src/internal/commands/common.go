package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/maksimkurb/urlresolver/src/internal/config"
	"github.com/maksimkurb/urlresolver/src/internal/errors"
	"github.com/maksimkurb/urlresolver/src/internal/log"
	"github.com/maksimkurb/urlresolver/src/internal/utils"
)

type Runner interface {
	Init(args []string, globalArgs *AppContext) error
	Run() error
	Name() string
}

type AppContext struct {
	// ConfigPath is the optional TOML config file. Empty means built-in defaults.
	ConfigPath string
	Verbose    bool

	// Stdin and Stdout back the "-" file name. Nil means os.Stdin and os.Stdout.
	Stdin  io.Reader
	Stdout io.Writer
	// Stderr receives reports that must not mix with output written to "-".
	// Nil means os.Stderr.
	Stderr io.Writer
}

func (c *AppContext) stdin() io.Reader {
	if c == nil || c.Stdin == nil {
		return os.Stdin
	}
	return c.Stdin
}

func (c *AppContext) stdout() io.Writer {
	if c == nil || c.Stdout == nil {
		return os.Stdout
	}
	return c.Stdout
}

func (c *AppContext) stderr() io.Writer {
	if c == nil || c.Stderr == nil {
		return os.Stderr
	}
	return c.Stderr
}

// loadConfigOrDefault loads the config file when one is given, otherwise
// returns the built-in defaults.
func loadConfigOrDefault(configPath string) (*config.Config, error) {
	if configPath == "" {
		return config.Default(), nil
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return cfg, nil
}

// validateConfig runs config validation after flag overrides were applied.
func validateConfig(cfg *config.Config) error {
	if err := cfg.ValidateConfig(); err != nil {
		return errors.NewValidationError("configuration validation failed", err)
	}
	return nil
}

// openInput opens the input file, "-" being stdin.
func openInput(ctx *AppContext, path string) (io.ReadCloser, error) {
	if path == utils.StdStream {
		return io.NopCloser(ctx.stdin()), nil
	}

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewFileAccessError(fmt.Sprintf("'%s' not found", path), err)
		}
		return nil, errors.NewFileAccessError(fmt.Sprintf("failed to open '%s'", path), err)
	}
	return f, nil
}

// createOutput creates (truncates) the output file, "-" being stdout.
// Logs are moved to stderr while stdout carries the output.
func createOutput(ctx *AppContext, path string) (io.WriteCloser, error) {
	if path == utils.StdStream {
		log.SetForceStdErr(true)
		return utils.NopWriteCloser(ctx.stdout()), nil
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, errors.NewOutputError(fmt.Sprintf("failed to create '%s'", path), err)
	}
	return f, nil
}
