package observability

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"go.opentelemetry.io/otel/trace"
)

const (
	attrTraceID  = "trace_id"
	attrSpanID   = "span_id"
	attrService  = "service"
	attrEnv      = "env"
	attrMode     = "mode"
	attrDriver   = "driver"
	attrCompared = "compared"
	attrDataDir  = "data_dir"
)

// RunScope names the comparison a piece of work belongs to.
type RunScope struct {
	Driver   string
	Compared []string
	// DataDir is empty for in-memory sources.
	DataDir string
}

type runScopeKey struct{}

// WithRunScope returns ctx carrying scope. Records logged with the returned
// context are tagged with the driver and compared categories.
func WithRunScope(ctx context.Context, scope RunScope) context.Context {
	return context.WithValue(ctx, runScopeKey{}, scope)
}

// RunScopeFrom returns the scope stored by WithRunScope.
func RunScopeFrom(ctx context.Context) (RunScope, bool) {
	scope, ok := ctx.Value(runScopeKey{}).(RunScope)

	return scope, ok
}

// RunHandler is an [slog.Handler] that tags records with the run scope and
// the active span found in the record's context. Service metadata is set
// once on the inner handler so it stays top level under groups.
type RunHandler struct {
	inner slog.Handler
}

// NewRunHandler wraps inner for the service described by cfg.
func NewRunHandler(inner slog.Handler, cfg Config) *RunHandler {
	meta := []slog.Attr{
		slog.String(attrService, cfg.ServiceName),
		slog.String(attrMode, string(cfg.Mode)),
	}

	if cfg.Environment != "" {
		meta = append(meta, slog.String(attrEnv, cfg.Environment))
	}

	return &RunHandler{inner: inner.WithAttrs(meta)}
}

// Enabled delegates to the inner handler.
func (h *RunHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

// Handle implements [slog.Handler].
func (h *RunHandler) Handle(ctx context.Context, record slog.Record) error {
	record.AddAttrs(contextAttrs(ctx)...)

	err := h.inner.Handle(ctx, record)
	if err != nil {
		return fmt.Errorf("log record: %w", err)
	}

	return nil
}

// WithAttrs implements [slog.Handler].
func (h *RunHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &RunHandler{inner: h.inner.WithAttrs(attrs)}
}

// WithGroup implements [slog.Handler].
func (h *RunHandler) WithGroup(name string) slog.Handler {
	return &RunHandler{inner: h.inner.WithGroup(name)}
}

func contextAttrs(ctx context.Context) []slog.Attr {
	if ctx == nil {
		return nil
	}

	var attrs []slog.Attr

	if scope, ok := RunScopeFrom(ctx); ok {
		attrs = append(attrs,
			slog.String(attrDriver, scope.Driver),
			slog.String(attrCompared, strings.Join(scope.Compared, ",")),
		)

		if scope.DataDir != "" {
			attrs = append(attrs, slog.String(attrDataDir, scope.DataDir))
		}
	}

	if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
		attrs = append(attrs,
			slog.String(attrTraceID, sc.TraceID().String()),
			slog.String(attrSpanID, sc.SpanID().String()),
		)
	}

	return attrs
}
