package observability

import (
	"context"
	"log/slog"
	"testing"

	"github.com/couchcryptid/climate-stats-etl/internal/config"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger_UsesConfiguredLevel(t *testing.T) {
	debug := NewLogger(&config.Config{LogLevel: "debug", LogFormat: "text"})
	require.NotNil(t, debug)
	assert.True(t, debug.Enabled(context.Background(), slog.LevelDebug))

	errorsOnly := NewLogger(&config.Config{LogLevel: "error", LogFormat: "json"})
	require.NotNil(t, errorsOnly)
	assert.False(t, errorsOnly.Enabled(context.Background(), slog.LevelWarn))
	assert.True(t, errorsOnly.Enabled(context.Background(), slog.LevelError))
}

func TestNewMetricsForTesting(t *testing.T) {
	m := NewMetricsForTesting()
	m.FilesDiscovered.Add(2)
	m.ReportsWritten.WithLabelValues("seasonal", "file").Inc()

	assert.InDelta(t, 2.0, testutil.ToFloat64(m.FilesDiscovered), 0)
	assert.InDelta(t, 1.0, testutil.ToFloat64(m.ReportsWritten.WithLabelValues("seasonal", "file")), 0)
}
