package commands

import (
	"context"
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/benchratio/pkg/cache"
	"github.com/Sumatoshi-tech/benchratio/pkg/mcp"
	"github.com/Sumatoshi-tech/benchratio/pkg/observability"
	"github.com/Sumatoshi-tech/benchratio/pkg/version"
)

// NewMCPCommand creates the MCP server command.
func NewMCPCommand() *cobra.Command {
	var cacheSize string

	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Start an MCP server on stdio",
		Long: `Start a Model Context Protocol server on stdio transport exposing:
  - benchratio_compare: compare the reports under an absolute data directory
  - benchratio_parse: parse one inline report

Logs go to stderr as JSON; stdout carries the protocol.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			obsCfg, err := observabilityConfig(cmd, cfg, observability.ModeMCP)
			if err != nil {
				return err
			}

			obsCfg.LogJSON = true

			providers, err := observability.Init(obsCfg)
			if err != nil {
				return fmt.Errorf("init observability: %w", err)
			}

			defer func() {
				shutdownErr := providers.Shutdown(context.Background())
				if shutdownErr != nil {
					providers.Logger.Warn("observability shutdown failed", "error", shutdownErr)
				}
			}()

			maxBytes, err := humanize.ParseBytes(cacheSize)
			if err != nil {
				return fmt.Errorf("parse --cache-size: %w", err)
			}

			toolMetrics, err := observability.NewToolMetrics(providers.Meter)
			if err != nil {
				return err
			}

			reports := cache.NewLRU(int64(maxBytes))

			srv := mcp.NewServer(mcp.ServerDeps{
				Logger:  providers.Logger,
				Metrics: toolMetrics,
				Tracer:  providers.Tracer,
				Cache:   reports,
				Version: version.Version,
			})

			runErr := srv.Run(cmd.Context())

			providers.Logger.Info("report cache", "cache", reports.Stats())

			return runErr
		},
	}

	cmd.Flags().StringVar(&cacheSize, "cache-size", "64MiB", "memory budget for report bytes kept between compare calls")

	return cmd
}
