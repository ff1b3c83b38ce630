package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"branchsweep/internal/flags"
)

// fileConfig mirrors the subset of Config that may be supplied via a YAML
// defaults file. Pointer fields distinguish "absent" from zero values.
type fileConfig struct {
	Concurrency    *int     `yaml:"concurrency"`
	Retries        *int     `yaml:"retries"`
	Timeout        *string  `yaml:"timeout"`
	RequestTimeout *string  `yaml:"request_timeout"`
	Strict         *bool    `yaml:"strict"`
	SkipProtected  *bool    `yaml:"skip_protected"`
	ConsoleFormat  *string  `yaml:"console_format"`
	NoConsole      *bool    `yaml:"no_console"`
	Emit           []string `yaml:"emit"`
}

// ApplyFile layers defaults from a YAML file into cfg. A value from the file is
// applied only when the corresponding flag was not set explicitly, so the
// precedence stays: flag > file > built-in default. flagSet reports whether a
// flag name (see internal/flags) was changed on the command line.
func ApplyFile(cfg *Config, path string, flagSet func(name string) bool) error {
	if cfg == nil {
		return fmt.Errorf("config is nil")
	}
	if flagSet == nil {
		flagSet = func(string) bool { return false }
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(raw, &fc); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	if fc.Concurrency != nil && !flagSet(flags.FlagConcurrency) {
		cfg.Run.Concurrency = *fc.Concurrency
	}
	if fc.Retries != nil && !flagSet(flags.FlagRetries) {
		cfg.Run.Retries = *fc.Retries
	}
	if fc.Timeout != nil && !flagSet(flags.FlagTimeout) {
		d, err := time.ParseDuration(*fc.Timeout)
		if err != nil {
			return fmt.Errorf("config file %s: invalid timeout: %w", path, err)
		}
		cfg.Run.Timeout = d
	}
	if fc.RequestTimeout != nil && !flagSet(flags.FlagRequestTimeout) {
		d, err := time.ParseDuration(*fc.RequestTimeout)
		if err != nil {
			return fmt.Errorf("config file %s: invalid request_timeout: %w", path, err)
		}
		cfg.Run.RequestTimeout = d
	}
	if fc.Strict != nil && !flagSet(flags.FlagStrict) {
		cfg.Run.Strict = *fc.Strict
	}
	if fc.SkipProtected != nil && !flagSet(flags.FlagSkipProtected) {
		cfg.Run.SkipProtected = *fc.SkipProtected
	}
	if fc.ConsoleFormat != nil && !flagSet(flags.FlagConsoleFormat) {
		cfg.Output.ConsoleFormat = *fc.ConsoleFormat
	}
	if fc.NoConsole != nil && !flagSet(flags.FlagNoConsole) {
		cfg.Output.NoConsole = *fc.NoConsole
	}
	if len(fc.Emit) > 0 && !flagSet(flags.FlagEmit) {
		cfg.Output.Emit = fc.Emit
	}

	return nil
}
