package commands

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/benchratio/internal/config"
	"github.com/Sumatoshi-tech/benchratio/pkg/framework"
	"github.com/Sumatoshi-tech/benchratio/pkg/observability"
	"github.com/Sumatoshi-tech/benchratio/pkg/output"
	"github.com/Sumatoshi-tech/benchratio/pkg/store"
)

// CompareCommand holds the flags of the compare command.
type CompareCommand struct {
	dataDir         string
	outputPath      string
	format          string
	driver          string
	compared        []string
	actions         []string
	metricsTextfile string
	title           string
	table           bool
	noColor         bool
}

// NewCompareCommand creates the compare command.
func NewCompareCommand() *cobra.Command {
	cc := &CompareCommand{}

	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Compute driver ratios and write the comparison artifact",
		Long: `Load <data-dir>/<category>/<prefix>-<action>.tsv for every configured category
and action, join each compared category against the driver on file size and
block size, and write the ratios.

Nothing is written unless every report loads and every join succeeds.`,
		Args: cobra.NoArgs,
		RunE: cc.run,
	}

	cmd.Flags().StringVar(&cc.dataDir, "data-dir", "", "directory holding one subdirectory per category")
	cmd.Flags().StringVarP(&cc.outputPath, "output", "o", "", "artifact path (parent directory must exist)")
	cmd.Flags().StringVar(&cc.format, "format", "", "artifact format: json, yaml, text, plot, prom")
	cmd.Flags().StringVar(&cc.driver, "driver", "", "driver category, the ratio numerator")
	cmd.Flags().StringSliceVar(&cc.compared, "compared", nil, "categories compared against the driver")
	cmd.Flags().StringSliceVar(&cc.actions, "actions", nil, "actions to compare")
	cmd.Flags().StringVar(&cc.metricsTextfile, "metrics-textfile", "", "write run metrics in Prometheus text format to this file")
	cmd.Flags().StringVar(&cc.title, "title", "", "page title of the plot format")
	cmd.Flags().BoolVar(&cc.table, "table", false, "also print the result as text tables on stdout")
	cmd.Flags().BoolVar(&cc.noColor, "no-color", false, "disable colored tables")

	return cmd
}

func (cc *CompareCommand) run(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	cc.applyOverrides(cmd, cfg)

	validateErr := cfg.Validate()
	if validateErr != nil {
		return fmt.Errorf("validate settings: %w", validateErr)
	}

	cat, err := cfg.ToCatalog()
	if err != nil {
		return err
	}

	plan, err := cfg.ToPlan()
	if err != nil {
		return err
	}

	format, err := output.ParseFormat(cfg.Output.Format)
	if err != nil {
		return err
	}

	obsCfg, err := observabilityConfig(cmd, cfg, observability.ModeCLI)
	if err != nil {
		return err
	}

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

	runMetrics, err := observability.NewRunMetrics(providers.Meter)
	if err != nil {
		return err
	}

	runner := framework.NewRunner(framework.Config{
		Catalog:    cat,
		Plan:       plan,
		Source:     store.NewDirSource(cfg.DataDir, cat),
		OutputPath: cfg.Output.Path,
		Format:     format,
		Options:    output.Options{Title: cc.title},
		Logger:     providers.Logger,
		Tracer:     providers.Tracer,
		RunMetrics: runMetrics,
	})

	summary, err := runner.Run(cmd.Context())
	if err != nil {
		return err
	}

	if !cc.table {
		return nil
	}

	tableOpts := output.Options{Color: !cc.noColor && !color.NoColor}

	err = output.Write(cmd.OutOrStdout(), summary.Result, output.FormatText, tableOpts)
	if err != nil {
		return fmt.Errorf("print tables: %w", err)
	}

	return nil
}

func (cc *CompareCommand) applyOverrides(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()

	if flags.Changed("data-dir") {
		cfg.DataDir = cc.dataDir
	}

	if flags.Changed("output") {
		cfg.Output.Path = cc.outputPath
	}

	if flags.Changed("format") {
		cfg.Output.Format = cc.format
	}

	if flags.Changed("driver") {
		cfg.Comparison.Driver = cc.driver
	}

	if flags.Changed("compared") {
		cfg.Comparison.Compared = cc.compared
	}

	if flags.Changed("actions") {
		cfg.Actions = cc.actions
	}

	if flags.Changed("metrics-textfile") {
		cfg.Telemetry.MetricsTextfile = cc.metricsTextfile
	}
}
