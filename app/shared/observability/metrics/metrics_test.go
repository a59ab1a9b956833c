package metrics

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrometheusMetrics_RecordsPerOperation(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := NewPrometheusMetrics(reg, "dartleague")
	require.NoError(t, err)

	ctx := context.Background()
	m.RecordOperationAttempt(ctx, "MergeSlot", "FixtureService")
	m.RecordOperationAttempt(ctx, "MergeSlot", "FixtureService")
	m.RecordOperationSuccess(ctx, "MergeSlot", "FixtureService")
	m.RecordOperationFailure(ctx, "MergeSlot", "FixtureService")
	m.RecordOperationDuration(ctx, "MergeSlot", "FixtureService", 20*time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.attempts.WithLabelValues("FixtureService", "MergeSlot")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.successes.WithLabelValues("FixtureService", "MergeSlot")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.failures.WithLabelValues("FixtureService", "MergeSlot")))
}

func TestPrometheusMetrics_DuplicateRegistrationFails(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := NewPrometheusMetrics(reg, "dartleague")
	require.NoError(t, err)

	_, err = NewPrometheusMetrics(reg, "dartleague")
	assert.Error(t, err)
}
