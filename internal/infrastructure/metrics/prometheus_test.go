package metrics_test

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Vallas-api/internal/application/reconciliation"
	"github.com/jhoicas/Vallas-api/internal/infrastructure/metrics"
)

func TestRecorder_ObserveSweep(t *testing.T) {
	reg := prometheus.NewRegistry()
	rec := metrics.NewRecorder(reg)
	start := time.Date(2025, 3, 15, 10, 0, 0, 0, time.UTC)

	rec.ObserveSweep(reconciliation.SweepResult{
		Sweep: reconciliation.SweepOverdue, Processed: 5, Affected: 2, Skipped: 1, Failed: 1,
		StartedAt: start, FinishedAt: start.Add(3 * time.Second),
	}, nil)
	rec.ObserveSweep(reconciliation.SweepResult{Sweep: reconciliation.SweepOverdue}, errors.New("boom"))
	rec.SweepSkipped(reconciliation.SweepOverdue)
	rec.RateUnresolved("b1")

	count, err := testutil.GatherAndCount(reg, "vallas_reconciliation_runs_total")
	require.NoError(t, err)
	assert.Equal(t, 2, count, "una serie por resultado")

	count, err = testutil.GatherAndCount(reg, "vallas_reconciliation_lock_skipped_total", "vallas_billing_rate_unresolved_total")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestRecorder_ObserveHTTP(t *testing.T) {
	reg := prometheus.NewRegistry()
	rec := metrics.NewRecorder(reg)

	rec.ObserveHTTP("GET", "/api/billboards/:id/debt", 200, 5*time.Millisecond)
	rec.ObserveHTTP("GET", "/api/billboards/:id/debt", 404, time.Millisecond)

	count, err := testutil.GatherAndCount(reg, "vallas_api_http_requests_total")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}
