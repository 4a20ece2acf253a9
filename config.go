package xmlsql

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the YAML configuration of an engine.
//
//	dialect: oracle
//	settings:
//	  max_varchar_length: 32767
//	  filter_clause: false
//	logging:
//	  level: debug
//	  json: true
type Config struct {
	Dialect  string          `yaml:"dialect"`
	Settings DialectSettings `yaml:"settings"`
	Logging  LogConfig       `yaml:"logging"`
}

// DialectSettings override the built-in settings of a dialect. Unset
// fields keep the dialect default.
type DialectSettings struct {
	MaxVarcharLength   int   `yaml:"max_varchar_length"`
	FilterClause       *bool `yaml:"filter_clause"`
	ParametersInSelect *bool `yaml:"parameters_in_select"`
}

// LoadConfig reads a YAML config file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	return ParseConfig(data)
}

// ParseConfig parses and validates a YAML config.
func ParseConfig(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the dialect name and settings.
func (c *Config) Validate() error {
	if c.Dialect == "" {
		return fmt.Errorf("dialect is required")
	}
	if _, ok := dialects[c.Dialect]; !ok {
		return fmt.Errorf("%w: %q (supported: %v)", ErrUnknownDialect, c.Dialect, Dialects())
	}
	if c.Settings.MaxVarcharLength < 0 {
		return fmt.Errorf("settings.max_varchar_length must not be negative, got %d", c.Settings.MaxVarcharLength)
	}
	if _, err := parseLevel(c.Logging.Level); err != nil {
		return err
	}
	return nil
}

// Options converts the settings into engine options.
func (c *Config) Options() []Option {
	var opts []Option
	if c.Settings.MaxVarcharLength > 0 {
		opts = append(opts, WithMaxVarcharLength(c.Settings.MaxVarcharLength))
	}
	if c.Settings.FilterClause != nil {
		opts = append(opts, WithFilterClause(*c.Settings.FilterClause))
	}
	if c.Settings.ParametersInSelect != nil {
		opts = append(opts, WithParametersInSelect(*c.Settings.ParametersInSelect))
	}
	return opts
}

// Open builds the logger and engine described by a config. Options passed
// here are applied after those of the config.
func Open(cfg *Config, opts ...Option) (*Engine, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logger, err := NewLogger(cfg.Logging)
	if err != nil {
		return nil, err
	}
	all := append([]Option{WithLogger(logger)}, cfg.Options()...)
	return ForDialect(cfg.Dialect, append(all, opts...)...)
}
