package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	metricReportsTotal     = "benchratio.run.reports.total"
	metricEntriesTotal     = "benchratio.run.entries.total"
	metricZeroDenominators = "benchratio.run.zero_denominators.total"
	metricStageDuration    = "benchratio.run.stage.duration.seconds"

	attrStage = "stage"
)

// Pipeline stage names.
const (
	StageLoad    = "load"
	StageCompare = "compare"
	StageWrite   = "write"
)

// RunMetrics holds instruments describing comparison runs.
type RunMetrics struct {
	reportsTotal     metric.Int64Counter
	entriesTotal     metric.Int64Counter
	zeroDenominators metric.Int64Counter
	stageDuration    metric.Float64Histogram
}

// RunStats summarizes one comparison run.
type RunStats struct {
	Reports          int
	Entries          int
	ZeroDenominators int
	StageDurations   map[string]time.Duration
}

// NewRunMetrics creates run instruments from mt.
func NewRunMetrics(mt metric.Meter) (*RunMetrics, error) {
	reports, err := mt.Int64Counter(metricReportsTotal,
		metric.WithDescription("Benchmark reports loaded"),
		metric.WithUnit("{report}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricReportsTotal, err)
	}

	entries, err := mt.Int64Counter(metricEntriesTotal,
		metric.WithDescription("Comparison entries produced"),
		metric.WithUnit("{entry}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricEntriesTotal, err)
	}

	zeros, err := mt.Int64Counter(metricZeroDenominators,
		metric.WithDescription("Ratios reported as 0.0 because the denominator was zero"),
		metric.WithUnit("{ratio}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricZeroDenominators, err)
	}

	stageDur, err := mt.Float64Histogram(metricStageDuration,
		metric.WithDescription("Pipeline stage duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(toolBuckets...),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricStageDuration, err)
	}

	return &RunMetrics{
		reportsTotal:     reports,
		entriesTotal:     entries,
		zeroDenominators: zeros,
		stageDuration:    stageDur,
	}, nil
}

// RecordRun records the statistics of a completed run. Safe on a nil receiver.
func (rm *RunMetrics) RecordRun(ctx context.Context, stats RunStats) {
	if rm == nil {
		return
	}

	rm.reportsTotal.Add(ctx, int64(stats.Reports))
	rm.entriesTotal.Add(ctx, int64(stats.Entries))
	rm.zeroDenominators.Add(ctx, int64(stats.ZeroDenominators))

	for stage, d := range stats.StageDurations {
		rm.stageDuration.Record(ctx, d.Seconds(), metric.WithAttributes(attribute.String(attrStage, stage)))
	}
}
