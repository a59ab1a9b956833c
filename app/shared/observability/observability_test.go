package observability

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"WARN":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseLevel(in), in)
	}
}

func TestInitServesOperationMetrics(t *testing.T) {
	ctx := context.Background()
	obs, err := Init(ctx, Config{ServiceName: "dart-league", Environment: "test", LogLevel: "error"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = obs.Shutdown(context.Background()) })

	obs.Metrics.RecordOperationAttempt(ctx, "MergeSlot", "FixtureService")
	obs.Metrics.RecordOperationDuration(ctx, "MergeSlot", "FixtureService", time.Millisecond)

	rec := httptest.NewRecorder()
	obs.MetricsHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `dart_league_operation_attempts_total{operation="MergeSlot",service="FixtureService"} 1`)
	assert.Contains(t, body, "go_goroutines")

	_, span := obs.Tracer("test").Start(ctx, "op")
	assert.True(t, span.SpanContext().IsValid())
	span.End()
}

func TestNewLoggerFormat(t *testing.T) {
	var buf bytes.Buffer
	NewLogger(&buf, Config{ServiceName: "dart-league", Environment: "production"}).Info("hello")
	assert.True(t, strings.HasPrefix(buf.String(), "{"))
	assert.Contains(t, buf.String(), `"service":"dart-league"`)

	buf.Reset()
	NewLogger(&buf, Config{ServiceName: "dart-league", Environment: "development"}).Debug("hidden")
	assert.Empty(t, buf.String())
}
