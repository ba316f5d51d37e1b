// Package framework drives one comparison run: load every report, join
// them against the driver, and write the artifact.
package framework

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/Sumatoshi-tech/benchratio/pkg/catalog"
	"github.com/Sumatoshi-tech/benchratio/pkg/compare"
	"github.com/Sumatoshi-tech/benchratio/pkg/observability"
	"github.com/Sumatoshi-tech/benchratio/pkg/output"
	"github.com/Sumatoshi-tech/benchratio/pkg/store"
)

const tracerName = "benchratio"

// ErrNoSource indicates the runner was built without a report source.
var ErrNoSource = errors.New("no report source configured")

// Config holds everything one run needs.
type Config struct {
	Catalog catalog.Catalog
	Plan    compare.Plan
	Source  store.Source

	// OutputPath is where Run writes the artifact.
	OutputPath string

	// Format defaults to JSON.
	Format  output.Format
	Options output.Options

	// Logger defaults to a discard logger.
	Logger *slog.Logger

	// Tracer defaults to the global "benchratio" tracer.
	Tracer trace.Tracer

	// RunMetrics is nil-safe: when nil, nothing is recorded.
	RunMetrics *observability.RunMetrics
}

// Summary describes a completed run.
type Summary struct {
	Result     *compare.Result
	OutputPath string
	Stats      observability.RunStats
}

// Runner executes comparison runs.
type Runner struct {
	cfg    Config
	logger *slog.Logger
	tracer trace.Tracer
}

// NewRunner creates a Runner from cfg.
func NewRunner(cfg Config) *Runner {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	tracer := cfg.Tracer
	if tracer == nil {
		tracer = otel.Tracer(tracerName)
	}

	if cfg.Format == "" {
		cfg.Format = output.FormatJSON
	}

	return &Runner{cfg: cfg, logger: logger, tracer: tracer}
}

// Compare loads every report and computes the ratios without writing.
func (r *Runner) Compare(ctx context.Context) (*compare.Result, observability.RunStats, error) {
	stats := observability.RunStats{StageDurations: make(map[string]time.Duration)}

	if r.cfg.Source == nil {
		return nil, stats, ErrNoSource
	}

	if _, scoped := observability.RunScopeFrom(ctx); !scoped {
		ctx = observability.WithRunScope(ctx, r.scope())
	}

	st, err := r.load(ctx, &stats)
	if err != nil {
		return nil, stats, err
	}

	res, err := r.compare(ctx, st, &stats)
	if err != nil {
		return nil, stats, err
	}

	return res, stats, nil
}

// Run performs load, compare and write. Nothing is written unless every
// report loaded and every join succeeded.
func (r *Runner) Run(ctx context.Context) (*Summary, error) {
	ctx = observability.WithRunScope(ctx, r.scope())

	ctx, span := r.tracer.Start(ctx, "benchratio.run", trace.WithAttributes(
		attribute.String("run.driver", string(r.cfg.Plan.Driver)),
		attribute.Int("run.actions", len(r.cfg.Catalog.Actions)),
		attribute.String("run.format", string(r.cfg.Format)),
	))
	defer span.End()

	res, stats, err := r.Compare(ctx)
	if err == nil {
		err = r.write(ctx, res, &stats)
	}

	r.cfg.RunMetrics.RecordRun(ctx, stats)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())

		return nil, err
	}

	span.SetAttributes(
		attribute.Int("run.entries", stats.Entries),
		attribute.Int("run.zero_denominators", stats.ZeroDenominators),
	)

	r.logger.InfoContext(ctx, "comparison written",
		"path", r.cfg.OutputPath, "format", string(r.cfg.Format),
		"entries", stats.Entries, "zero_denominators", stats.ZeroDenominators)

	return &Summary{Result: res, OutputPath: r.cfg.OutputPath, Stats: stats}, nil
}

func (r *Runner) scope() observability.RunScope {
	compared := make([]string, len(r.cfg.Plan.Compared))
	for i, c := range r.cfg.Plan.Compared {
		compared[i] = string(c)
	}

	scope := observability.RunScope{Driver: string(r.cfg.Plan.Driver), Compared: compared}

	switch src := r.cfg.Source.(type) {
	case *store.DirSource:
		scope.DataDir = src.Root
	case *store.CachedSource:
		scope.DataDir = src.Root()
	}

	return scope
}

func (r *Runner) load(ctx context.Context, stats *observability.RunStats) (*store.Store, error) {
	ctx, span := r.tracer.Start(ctx, "benchratio.load")
	defer span.End()

	start := time.Now()

	st, err := store.Load(ctx, r.cfg.Catalog, r.cfg.Source)

	stats.StageDurations[observability.StageLoad] = time.Since(start)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())

		return nil, fmt.Errorf("load reports: %w", err)
	}

	stats.Reports = st.Len()
	span.SetAttributes(attribute.Int("load.reports", stats.Reports))

	r.logger.DebugContext(ctx, "reports loaded",
		"reports", stats.Reports, "categories", len(st.Categories()), "actions", len(st.Actions()))

	return st, nil
}

func (r *Runner) compare(ctx context.Context, st *store.Store, stats *observability.RunStats) (*compare.Result, error) {
	ctx, span := r.tracer.Start(ctx, "benchratio.compare")
	defer span.End()

	start := time.Now()

	res, err := compare.Run(ctx, st, r.cfg.Plan)

	stats.StageDurations[observability.StageCompare] = time.Since(start)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())

		return nil, fmt.Errorf("compare: %w", err)
	}

	stats.Entries = res.Len()
	stats.ZeroDenominators = res.ZeroDenominators()

	span.SetAttributes(
		attribute.Int("compare.entries", stats.Entries),
		attribute.Int("compare.zero_denominators", stats.ZeroDenominators),
	)

	if stats.ZeroDenominators > 0 {
		r.logger.DebugContext(ctx, "ratios with zero denominator reported as 0.0",
			"count", stats.ZeroDenominators)
	}

	return res, nil
}

func (r *Runner) write(ctx context.Context, res *compare.Result, stats *observability.RunStats) error {
	_, span := r.tracer.Start(ctx, "benchratio.write", trace.WithAttributes(
		attribute.String("write.path", r.cfg.OutputPath),
	))
	defer span.End()

	start := time.Now()

	err := output.WriteFile(r.cfg.OutputPath, res, r.cfg.Format, r.cfg.Options)

	stats.StageDurations[observability.StageWrite] = time.Since(start)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())

		return err
	}

	return nil
}
