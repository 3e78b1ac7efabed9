package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	Deliveries         *prometheus.CounterVec
	ProcessingRuns     *prometheus.CounterVec
	ProcessingDuration prometheus.Histogram
	QueueDepth         prometheus.Gauge
	LedgerErrors       *prometheus.CounterVec
	PrunedRecords      prometheus.Counter
}

// NewMetrics registers the service metrics with the default registerer
func NewMetrics() *Metrics {
	return NewMetricsWith(prometheus.DefaultRegisterer)
}

// NewMetricsWith registers the service metrics with reg
func NewMetricsWith(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		Deliveries: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "interior_ai_intake_deliveries_total",
			Help: "Push deliveries handled, by intake outcome",
		}, []string{"outcome"}),
		ProcessingRuns: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "interior_ai_processor_runs_total",
			Help: "Background processing attempts, by result and failing step",
		}, []string{"result", "step"}),
		ProcessingDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "interior_ai_processor_duration_seconds",
			Help:    "Time spent on one processing attempt",
			Buckets: []float64{0.5, 1, 2.5, 5, 10, 20, 30, 60, 120},
		}),
		QueueDepth: factory.NewGauge(prometheus.GaugeOpts{
			Name: "interior_ai_processor_queue_depth",
			Help: "Scheduled attempts waiting for a worker",
		}),
		LedgerErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "interior_ai_ledger_errors_total",
			Help: "Ledger operations that failed, by operation",
		}, []string{"operation"}),
		PrunedRecords: factory.NewCounter(prometheus.CounterOpts{
			Name: "interior_ai_ledger_pruned_records_total",
			Help: "Processed ledger records removed by retention",
		}),
	}
}
