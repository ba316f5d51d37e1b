// Package config loads benchratio settings from file, environment and
// defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"

	"github.com/Sumatoshi-tech/benchratio/pkg/catalog"
	"github.com/Sumatoshi-tech/benchratio/pkg/compare"
)

const (
	configName      = ".benchratio"
	configType      = "yaml"
	envPrefix       = "BENCHRATIO"
	envKeySeparator = "_"
)

// Defaults.
const (
	DefaultDataDir      = "."
	DefaultOutputPath   = "comparison/netapp-3-and-4-to-filestore-ratio.json"
	DefaultOutputFormat = "json"
	DefaultDriver       = string(catalog.CategoryNetApp)
	DefaultLogLevel     = "info"
)

// DefaultCompared returns the categories compared against the default driver.
func DefaultCompared() []string {
	compared := compare.DefaultPlan().Compared
	out := make([]string, len(compared))

	for i, c := range compared {
		out[i] = string(c)
	}

	return out
}

// LoadConfig loads configuration from file, env vars and defaults.
// A non-empty configPath is read explicitly; otherwise .benchratio.yaml is
// searched in CWD and $HOME. A missing file is not an error.
func LoadConfig(configPath string) (*Config, error) {
	viperCfg := viper.New()

	applyDefaults(viperCfg)

	viperCfg.SetConfigType(configType)
	viperCfg.SetEnvPrefix(envPrefix)
	viperCfg.SetEnvKeyReplacer(strings.NewReplacer(".", envKeySeparator))
	viperCfg.AutomaticEnv()

	if configPath != "" {
		viperCfg.SetConfigFile(configPath)
	} else {
		viperCfg.SetConfigName(configName)
		viperCfg.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viperCfg.AddConfigPath(home)
		}
	}

	readErr := viperCfg.ReadInConfig()
	if readErr != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(readErr, &notFound) {
			return nil, fmt.Errorf("read config: %w", readErr)
		}
	}

	var cfg Config

	unmarshalErr := viperCfg.Unmarshal(&cfg)
	if unmarshalErr != nil {
		return nil, fmt.Errorf("unmarshal config: %w", unmarshalErr)
	}

	validateErr := cfg.Validate()
	if validateErr != nil {
		return nil, fmt.Errorf("validate config: %w", validateErr)
	}

	return &cfg, nil
}

func applyDefaults(viperCfg *viper.Viper) {
	viperCfg.SetDefault("data_dir", DefaultDataDir)

	viperCfg.SetDefault("output.path", DefaultOutputPath)
	viperCfg.SetDefault("output.format", DefaultOutputFormat)

	actions := make([]string, 0, len(catalog.DefaultActions()))
	for _, a := range catalog.DefaultActions() {
		actions = append(actions, string(a))
	}

	viperCfg.SetDefault("actions", actions)

	categories := make([]map[string]any, 0, len(catalog.DefaultCategories()))
	for _, spec := range catalog.DefaultCategories() {
		categories = append(categories, map[string]any{"name": string(spec.Name), "prefix": spec.Prefix})
	}

	viperCfg.SetDefault("categories", categories)

	viperCfg.SetDefault("comparison.driver", DefaultDriver)
	viperCfg.SetDefault("comparison.compared", DefaultCompared())

	viperCfg.SetDefault("logging.level", DefaultLogLevel)
	viperCfg.SetDefault("logging.json", false)

	viperCfg.SetDefault("telemetry.otlp_endpoint", "")
	viperCfg.SetDefault("telemetry.otlp_insecure", false)
	viperCfg.SetDefault("telemetry.otlp_headers", "")
	viperCfg.SetDefault("telemetry.metrics_textfile", "")
}
