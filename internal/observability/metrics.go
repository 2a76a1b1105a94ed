package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors for the analytics engine.
type Metrics struct {
	// PerimeterOutcomes counts batch processing results by outcome:
	// successful, skipped, failed.
	PerimeterOutcomes *prometheus.CounterVec

	IndexBuildDuration prometheus.Histogram
	IndexQueries       *prometheus.CounterVec // labels: kind={near,name,year,similar}

	PredictionAnalogs prometheus.Histogram
	IAPMatchScores    prometheus.Histogram
}

// NewMetrics creates and registers all engine metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.PerimeterOutcomes,
		m.IndexBuildDuration,
		m.IndexQueries,
		m.PredictionAnalogs,
		m.IAPMatchScores,
	)
	return m
}

// NewMetricsForTesting creates Metrics backed by an unregistered collector
// set, so parallel tests never hit "already registered" panics.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		PerimeterOutcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "fireline",
			Name:      "perimeters_processed_total",
			Help:      "Raw perimeter records processed, by outcome.",
		}, []string{"outcome"}),
		IndexBuildDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "fireline",
			Name:      "index_build_duration_seconds",
			Help:      "Duration of a full spread-index build.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5},
		}),
		IndexQueries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "fireline",
			Name:      "index_queries_total",
			Help:      "Spread-index queries by kind.",
		}, []string{"kind"}),
		PredictionAnalogs: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "fireline",
			Name:      "prediction_analog_count",
			Help:      "Number of historical analogs backing each prediction.",
			Buckets:   []float64{0, 1, 2, 5, 10, 15},
		}),
		IAPMatchScores: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "fireline",
			Name:      "iap_match_score",
			Help:      "Relevance scores of returned IAP insights.",
			Buckets:   []float64{60, 65, 70, 75, 80, 85, 90, 95, 100},
		}),
	}
}
