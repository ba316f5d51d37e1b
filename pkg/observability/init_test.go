package observability_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/benchratio/pkg/observability"
)

func TestInit_NoopWhenNothingConfigured(t *testing.T) {
	t.Parallel()

	providers, err := observability.Init(observability.DefaultConfig())
	require.NoError(t, err)

	assert.NotNil(t, providers.Tracer)
	assert.NotNil(t, providers.Meter)
	assert.NotNil(t, providers.Logger)

	ctx, span := providers.Tracer.Start(context.Background(), "noop")
	span.End()

	assert.NotNil(t, ctx)
	assert.NoError(t, providers.Shutdown(context.Background()))
}

func TestInit_LoggerWritesToConfiguredWriter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	cfg := observability.DefaultConfig()
	cfg.LogWriter = &buf
	cfg.LogJSON = true
	cfg.Environment = "lab"

	providers, err := observability.Init(cfg)
	require.NoError(t, err)

	t.Cleanup(func() { require.NoError(t, providers.Shutdown(context.Background())) })

	providers.Logger.Info("loaded", "reports", 39)

	assert.Contains(t, buf.String(), `"service":"benchratio"`)
	assert.Contains(t, buf.String(), `"env":"lab"`)
	assert.Contains(t, buf.String(), `"reports":39`)
}

func TestInit_MetricsTextfileWrittenOnShutdown(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "benchratio.prom")

	cfg := observability.DefaultConfig()
	cfg.MetricsTextfile = path
	cfg.LogWriter = &bytes.Buffer{}

	providers, err := observability.Init(cfg)
	require.NoError(t, err)

	rm, err := observability.NewRunMetrics(providers.Meter)
	require.NoError(t, err)

	rm.RecordRun(context.Background(), observability.RunStats{
		Reports: 39,
		Entries: 12,
		StageDurations: map[string]time.Duration{
			observability.StageLoad: 5 * time.Millisecond,
		},
	})

	require.NoError(t, providers.Shutdown(context.Background()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "benchratio_run_entries")
	assert.Contains(t, string(data), "benchratio_run_reports")
}

func TestInit_MetricsTextfileUnwritable(t *testing.T) {
	t.Parallel()

	cfg := observability.DefaultConfig()
	cfg.MetricsTextfile = filepath.Join(t.TempDir(), "missing", "benchratio.prom")
	cfg.LogWriter = &bytes.Buffer{}

	providers, err := observability.Init(cfg)
	require.NoError(t, err)

	assert.Error(t, providers.Shutdown(context.Background()))
}
