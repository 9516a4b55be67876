// Package config loads the dbchecker settings file. Every key is optional and
// command line flags override what the file sets.
package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/BurntSushi/toml"

	"dbchecker/internal/diff"
	"dbchecker/internal/output"
)

// Config mirrors dbchecker.toml.
type Config struct {
	CheckCollation bool   `toml:"check_collation"`
	CheckEngine    bool   `toml:"check_engine"`
	DropStatement  bool   `toml:"drop_statement"`
	MissingTable   string `toml:"missing_table"`
	Format         string `toml:"format"`
	LogLevel       string `toml:"log_level"`
}

// Default returns the settings used without a file.
func Default() *Config {
	return &Config{
		MissingTable: string(diff.MissingTableCreate),
		Format:       string(output.FormatSQL),
		LogLevel:     "info",
	}
}

// LoadFromFile reads path on top of the defaults. Unknown keys are rejected.
func LoadFromFile(path string) (*Config, error) {
	cfg := Default()
	meta, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("config file %s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config file %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if _, err := diff.ParseMissingTablePolicy(c.MissingTable); err != nil {
		return err
	}
	if _, err := output.NewFormatter(c.Format); err != nil {
		return err
	}
	if _, err := ParseLogLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// DiffOptions converts the settings to comparison options.
func (c *Config) DiffOptions(logger *slog.Logger) (diff.Options, error) {
	policy, err := diff.ParseMissingTablePolicy(c.MissingTable)
	if err != nil {
		return diff.Options{}, err
	}
	return diff.Options{
		CheckCollation: c.CheckCollation,
		CheckEngine:    c.CheckEngine,
		DropStatement:  c.DropStatement,
		MissingTable:   policy,
		Logger:         logger,
	}, nil
}

// ParseLogLevel accepts debug, info, warn and error.
func ParseLogLevel(level string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return 0, fmt.Errorf("invalid log level %q; use 'debug', 'info', 'warn', or 'error'", level)
	}
	return l, nil
}
