package commands

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/benchratio/internal/config"
	"github.com/Sumatoshi-tech/benchratio/pkg/observability"
	"github.com/Sumatoshi-tech/benchratio/pkg/version"
)

// loadConfig reads the configuration named by --config, or the default
// search path when the flag is unset.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, err := cmd.Flags().GetString(flagConfig)
	if err != nil {
		path = ""
	}

	return config.LoadConfig(path)
}

func flagBool(cmd *cobra.Command, name string) bool {
	v, err := cmd.Flags().GetBool(name)
	if err != nil {
		return false
	}

	return v
}

// observabilityConfig maps the loaded settings and the -v/-q flags onto an
// observability config.
func observabilityConfig(cmd *cobra.Command, cfg *config.Config, mode observability.AppMode) (observability.Config, error) {
	obsCfg := observability.DefaultConfig()
	obsCfg.ServiceVersion = version.Version
	obsCfg.Mode = mode
	obsCfg.LogJSON = cfg.Logging.JSON
	obsCfg.LogWriter = cmd.ErrOrStderr()
	obsCfg.OTLPEndpoint = cfg.Telemetry.OTLPEndpoint
	obsCfg.OTLPInsecure = cfg.Telemetry.OTLPInsecure
	obsCfg.OTLPHeaders = observability.ParseOTLPHeaders(cfg.Telemetry.OTLPHeaders)
	obsCfg.MetricsTextfile = cfg.Telemetry.MetricsTextfile

	level, err := observability.ParseLevel(cfg.Logging.Level)
	if err != nil {
		return observability.Config{}, err
	}

	obsCfg.LogLevel = level

	switch {
	case flagBool(cmd, flagVerbose):
		obsCfg.LogLevel = slog.LevelDebug
	case flagBool(cmd, flagQuiet):
		obsCfg.LogLevel = slog.LevelWarn
	}

	return obsCfg, nil
}
