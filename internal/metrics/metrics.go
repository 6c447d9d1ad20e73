package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "mathserver"

type Metrics struct {
	importRuns         *prometheus.CounterVec
	importRecords      *prometheus.CounterVec
	calculationJobs    *prometheus.CounterVec
	calculationLatency *prometheus.HistogramVec
}

var singleton = sync.OnceValue(func() *Metrics {
	return &Metrics{
		importRuns: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "import_runs_total",
			Help:      "Total number of finished feed imports.",
		}, []string{"result"}),
		importRecords: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "import_records_total",
			Help:      "Total number of extracted records by kind and persistence result.",
		}, []string{"kind", "result"}),
		calculationJobs: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "calculation_jobs_total",
			Help:      "Total number of finished async calculation runs.",
		}, []string{"job_kind", "result"}),
		calculationLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "calculation_duration_seconds",
			Help:      "Duration of async calculation runs.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30, 60, 300},
		}, []string{"job_kind"}),
	}
})

func Get() *Metrics {
	return singleton()
}

func result(ok bool) string {
	if ok {
		return "success"
	}
	return "failure"
}

func (m *Metrics) ImportFinished(ok bool) {
	m.importRuns.WithLabelValues(result(ok)).Inc()
}

func (m *Metrics) RecordsPersisted(kind string, count int, ok bool) {
	m.importRecords.WithLabelValues(kind, result(ok)).Add(float64(count))
}

func (m *Metrics) CalculationFinished(jobKind string, seconds float64, ok bool) {
	m.calculationJobs.WithLabelValues(jobKind, result(ok)).Inc()
	m.calculationLatency.WithLabelValues(jobKind).Observe(seconds)
}

func Handler() http.Handler {
	return promhttp.Handler()
}
