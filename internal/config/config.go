package config

import (
	"errors"
	"fmt"
	"strings"
)

// Config is the top-level benchratio configuration.
// Field tags use mapstructure for viper unmarshalling.
type Config struct {
	DataDir    string           `mapstructure:"data_dir"`
	Output     OutputConfig     `mapstructure:"output"`
	Actions    []string         `mapstructure:"actions"`
	Categories []CategoryConfig `mapstructure:"categories"`
	Comparison ComparisonConfig `mapstructure:"comparison"`
	Logging    LoggingConfig    `mapstructure:"logging"`
	Telemetry  TelemetryConfig  `mapstructure:"telemetry"`
}

// OutputConfig selects where and how the artifact is written.
type OutputConfig struct {
	Path   string `mapstructure:"path"`
	Format string `mapstructure:"format"`
}

// CategoryConfig maps a category name to its report file prefix.
type CategoryConfig struct {
	Name   string `mapstructure:"name"`
	Prefix string `mapstructure:"prefix"`
}

// ComparisonConfig names the driver and the categories compared against it.
type ComparisonConfig struct {
	Driver   string   `mapstructure:"driver"`
	Compared []string `mapstructure:"compared"`
}

// LoggingConfig holds slog settings.
type LoggingConfig struct {
	Level string `mapstructure:"level"`
	JSON  bool   `mapstructure:"json"`
}

// TelemetryConfig holds OpenTelemetry export settings.
type TelemetryConfig struct {
	OTLPEndpoint    string `mapstructure:"otlp_endpoint"`
	OTLPInsecure    bool   `mapstructure:"otlp_insecure"`
	OTLPHeaders     string `mapstructure:"otlp_headers"`
	MetricsTextfile string `mapstructure:"metrics_textfile"`
}

// Sentinel errors for configuration validation.
var (
	// ErrEmptyDataDir indicates data_dir is blank.
	ErrEmptyDataDir = errors.New("data_dir must not be empty")
	// ErrEmptyOutputPath indicates output.path is blank.
	ErrEmptyOutputPath = errors.New("output.path must not be empty")
	// ErrNoDriver indicates comparison.driver is blank.
	ErrNoDriver = errors.New("comparison.driver must not be empty")
	// ErrNoCompared indicates comparison.compared is empty.
	ErrNoCompared = errors.New("comparison.compared must name at least one category")
	// ErrUnknownCategory indicates the comparison names an undeclared category.
	ErrUnknownCategory = errors.New("comparison names an undeclared category")
	// ErrInvalidLogLevel indicates logging.level is not a known level.
	ErrInvalidLogLevel = errors.New("logging.level must be one of debug, info, warn, error")
)

var logLevels = map[string]bool{"": true, "debug": true, "info": true, "warn": true, "error": true}

// Validate checks Config invariants and returns the first error found.
// Catalog-level rules (duplicates, empty prefixes) are checked by ToCatalog.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.DataDir) == "" {
		return ErrEmptyDataDir
	}

	if strings.TrimSpace(c.Output.Path) == "" {
		return ErrEmptyOutputPath
	}

	if !logLevels[strings.ToLower(c.Logging.Level)] {
		return fmt.Errorf("%w: %q", ErrInvalidLogLevel, c.Logging.Level)
	}

	return c.validateComparison()
}

func (c *Config) validateComparison() error {
	if c.Comparison.Driver == "" {
		return ErrNoDriver
	}

	if len(c.Comparison.Compared) == 0 {
		return ErrNoCompared
	}

	declared := make(map[string]bool, len(c.Categories))
	for _, cat := range c.Categories {
		declared[cat.Name] = true
	}

	for _, name := range append([]string{c.Comparison.Driver}, c.Comparison.Compared...) {
		if !declared[name] {
			return fmt.Errorf("%w: %q", ErrUnknownCategory, name)
		}
	}

	return nil
}
