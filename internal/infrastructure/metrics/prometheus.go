// Package metrics expone en Prometheus las ejecuciones de barridos, las deudas
// calculadas sin tarifa y las peticiones HTTP.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/jhoicas/Vallas-api/internal/application/billing"
	"github.com/jhoicas/Vallas-api/internal/application/reconciliation"
)

var (
	_ reconciliation.Metrics = (*Recorder)(nil)
	_ billing.RateObserver   = (*Recorder)(nil)
)

const namespace = "vallas"

// Recorder registra las métricas de la aplicación en un registry.
type Recorder struct {
	sweepRuns      *prometheus.CounterVec
	sweepItems     *prometheus.CounterVec
	sweepDuration  *prometheus.HistogramVec
	sweepSkipped   *prometheus.CounterVec
	rateUnresolved prometheus.Counter
	httpRequests   *prometheus.CounterVec
	httpDuration   *prometheus.HistogramVec
}

// NewRecorder crea y registra las métricas en reg.
func NewRecorder(reg prometheus.Registerer) *Recorder {
	f := promauto.With(reg)
	return &Recorder{
		sweepRuns: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "reconciliation",
			Name:      "runs_total",
			Help:      "Ejecuciones de barridos por resultado",
		}, []string{"sweep", "result"}),
		sweepItems: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "reconciliation",
			Name:      "items_total",
			Help:      "Vallas procesadas por barrido y efecto",
		}, []string{"sweep", "outcome"}),
		sweepDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "reconciliation",
			Name:      "duration_seconds",
			Help:      "Duración de los barridos",
			Buckets:   prometheus.ExponentialBuckets(0.01, 2, 16), // 10ms a ~5min
		}, []string{"sweep"}),
		sweepSkipped: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "reconciliation",
			Name:      "lock_skipped_total",
			Help:      "Barridos omitidos porque otra instancia tenía el candado",
		}, []string{"sweep"}),
		rateUnresolved: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "billing",
			Name:      "rate_unresolved_total",
			Help:      "Cálculos de deuda sin tarifa almacenada ni tarifa por zona",
		}),
		httpRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "api",
			Name:      "http_requests_total",
			Help:      "Peticiones HTTP",
		}, []string{"method", "route", "status"}),
		httpDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "api",
			Name:      "http_request_duration_seconds",
			Help:      "Duración de las peticiones HTTP",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 15),
		}, []string{"method", "route"}),
	}
}

// ObserveSweep implementa reconciliation.Metrics.
func (r *Recorder) ObserveSweep(res reconciliation.SweepResult, err error) {
	sweep := string(res.Sweep)
	result := "ok"
	if err != nil {
		result = "error"
	}
	r.sweepRuns.WithLabelValues(sweep, result).Inc()
	r.sweepItems.WithLabelValues(sweep, "affected").Add(float64(res.Affected))
	r.sweepItems.WithLabelValues(sweep, "skipped").Add(float64(res.Skipped))
	r.sweepItems.WithLabelValues(sweep, "failed").Add(float64(res.Failed))
	if !res.StartedAt.IsZero() && !res.FinishedAt.IsZero() {
		r.sweepDuration.WithLabelValues(sweep).Observe(res.FinishedAt.Sub(res.StartedAt).Seconds())
	}
}

// SweepSkipped implementa reconciliation.Metrics.
func (r *Recorder) SweepSkipped(sweep reconciliation.Sweep) {
	r.sweepSkipped.WithLabelValues(string(sweep)).Inc()
}

// RateUnresolved implementa billing.RateObserver.
func (r *Recorder) RateUnresolved(string) {
	r.rateUnresolved.Inc()
}

// ObserveHTTP registra una petición atendida.
func (r *Recorder) ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	r.httpRequests.WithLabelValues(method, route, statusClass(status)).Inc()
	r.httpDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

func statusClass(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	}
	return "2xx"
}
