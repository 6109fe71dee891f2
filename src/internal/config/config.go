package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	apperrors "github.com/maksimkurb/urlresolver/src/internal/errors"
	"github.com/maksimkurb/urlresolver/src/internal/log"
)

const (
	DefaultInputFile  = "url.txt"
	DefaultOutputFile = "resolved_addresses.txt"
	DefaultFilterName = "FILTER"
	DefaultFamily     = "both"
	DefaultTimeout    = "0s"
	DefaultChain      = "INPUT"
	DefaultTable      = "filter"
)

// LoadConfig reads a TOML config file. Sections and fields missing from the
// file keep their defaults.
func LoadConfig(configPath string) (*Config, error) {
	configFile := filepath.Clean(configPath)

	if !filepath.IsAbs(configFile) {
		if path, err := filepath.Abs(configFile); err != nil {
			return nil, apperrors.NewConfigError("failed to get absolute path", err)
		} else {
			configFile = path
		}
	}

	content, err := os.ReadFile(configFile)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, apperrors.NewConfigError(fmt.Sprintf("configuration file not found: %s", configFile), err)
		}
		return nil, apperrors.NewConfigError("failed to read config file", err)
	}

	config, err := ParseConfig(content)
	if err != nil {
		return nil, err
	}
	config._absConfigFilePath = configFile

	log.Debugf("Configuration file path: %s", configFile)

	return config, nil
}

// ParseConfig decodes TOML content and fills in defaults.
func ParseConfig(content []byte) (*Config, error) {
	var config Config
	decoder := toml.NewDecoder(bytes.NewReader(content))
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(&config); err != nil {
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			log.Errorf("%s", derr.String())
			row, col := derr.Position()
			return nil, apperrors.NewConfigError(fmt.Sprintf("failed to parse config file at line %d, column %d", row, col), err)
		}
		var serr *toml.StrictMissingError
		if errors.As(err, &serr) {
			return nil, apperrors.NewConfigError("unknown fields in config file", fmt.Errorf("%s", serr.String()))
		}
		return nil, apperrors.NewConfigError("failed to parse config file", err)
	}

	config.applyDefaults()
	return &config, nil
}

func (c *Config) SerializeConfig() (*bytes.Buffer, error) {
	buf := bytes.Buffer{}
	enc := toml.NewEncoder(&buf)
	enc.SetIndentTables(true)
	if err := enc.Encode(c); err != nil {
		return nil, err
	}
	return &buf, nil
}
