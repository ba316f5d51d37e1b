package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	metricToolCalls    = "benchratio.tool.calls.total"
	metricToolDuration = "benchratio.tool.duration.seconds"
	metricToolFailures = "benchratio.tool.failures.total"
	metricToolInflight = "benchratio.tool.inflight"

	attrTool    = "tool"
	attrOutcome = "outcome"
	attrKind    = "kind"

	outcomeOK     = "ok"
	outcomeFailed = "failed"
)

// Failure kinds reported by MCP tools.
const (
	FailureInvalidInput    = "invalid_input"
	FailureSourceNotFound  = "source_not_found"
	FailureMalformedReport = "malformed_report"
	FailureJoinKeyMissing  = "join_key_missing"
	FailureInvalidPlan     = "invalid_plan"
	FailureInternal        = "internal"
)

// toolBuckets spans 1ms to 60s: a parse call answers in microseconds, a
// compare over a slow share can take tens of seconds.
var toolBuckets = []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60}

// ToolMetrics counts MCP tool calls by outcome and failure kind.
type ToolMetrics struct {
	calls    metric.Int64Counter
	duration metric.Float64Histogram
	failures metric.Int64Counter
	inflight metric.Int64UpDownCounter
}

// NewToolMetrics creates the tool instruments from mt.
func NewToolMetrics(mt metric.Meter) (*ToolMetrics, error) {
	calls, err := mt.Int64Counter(metricToolCalls,
		metric.WithDescription("Tool calls by tool and outcome"),
		metric.WithUnit("{call}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricToolCalls, err)
	}

	duration, err := mt.Float64Histogram(metricToolDuration,
		metric.WithDescription("Tool call duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(toolBuckets...),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricToolDuration, err)
	}

	failures, err := mt.Int64Counter(metricToolFailures,
		metric.WithDescription("Failed tool calls by tool and failure kind"),
		metric.WithUnit("{call}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricToolFailures, err)
	}

	inflight, err := mt.Int64UpDownCounter(metricToolInflight,
		metric.WithDescription("Tool calls in progress"),
		metric.WithUnit("{call}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricToolInflight, err)
	}

	return &ToolMetrics{
		calls:    calls,
		duration: duration,
		failures: failures,
		inflight: inflight,
	}, nil
}

// Begin marks a call to tool as in flight. The returned func ends it; an
// empty kind means the call succeeded.
func (tm *ToolMetrics) Begin(ctx context.Context, tool string) func(kind string) {
	start := time.Now()
	toolAttr := attribute.String(attrTool, tool)

	tm.inflight.Add(ctx, 1, metric.WithAttributes(toolAttr))

	return func(kind string) {
		tm.inflight.Add(ctx, -1, metric.WithAttributes(toolAttr))

		outcome := outcomeOK
		if kind != "" {
			outcome = outcomeFailed
			tm.failures.Add(ctx, 1, metric.WithAttributes(toolAttr, attribute.String(attrKind, kind)))
		}

		attrs := metric.WithAttributes(toolAttr, attribute.String(attrOutcome, outcome))
		tm.calls.Add(ctx, 1, attrs)
		tm.duration.Record(ctx, time.Since(start).Seconds(), attrs)
	}
}
