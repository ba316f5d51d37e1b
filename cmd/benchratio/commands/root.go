// Package commands implements the benchratio cobra commands.
package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/benchratio/pkg/version"
)

// Persistent flag names shared by every command.
const (
	flagConfig  = "config"
	flagVerbose = "verbose"
	flagQuiet   = "quiet"
)

// NewRootCommand builds the benchratio command tree.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "benchratio",
		Short: "Compare storage benchmark reports across drivers",
		Long: `benchratio joins tabular iozone-style benchmark reports from several storage
categories and computes per-cell throughput ratios against a driver category.

Commands:
  compare   Load every report, compute ratios and write the artifact
  parse     Parse one report and print it as JSON or YAML
  mcp       Serve compare and parse as MCP tools on stdio
  version   Show build metadata`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().String(flagConfig, "", "config file (default: .benchratio.yaml in CWD or $HOME)")
	rootCmd.PersistentFlags().BoolP(flagVerbose, "v", false, "debug logging")
	rootCmd.PersistentFlags().BoolP(flagQuiet, "q", false, "only log warnings and errors")

	rootCmd.AddCommand(NewCompareCommand())
	rootCmd.AddCommand(NewParseCommand())
	rootCmd.AddCommand(NewMCPCommand())
	rootCmd.AddCommand(newVersionCommand())

	return rootCmd
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "benchratio %s\n", version.String())
			if err != nil {
				return fmt.Errorf("write version: %w", err)
			}

			return nil
		},
	}
}
