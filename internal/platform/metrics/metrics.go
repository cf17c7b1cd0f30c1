package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the graph engine.
type Metrics struct {
	EventsProcessed       *prometheus.CounterVec
	EventsRejected        *prometheus.CounterVec
	ClaimsCreated         prometheus.Counter
	ConflictsDetected     prometheus.Counter
	DecompositionDuration prometheus.Histogram
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	return &Metrics{
		EventsProcessed: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "graph_engine_events_processed_total",
			Help: "Total ingestion events processed, labelled by source type",
		}, []string{"source_type"}),
		EventsRejected: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "graph_engine_events_rejected_total",
			Help: "Total ingestion events rejected, labelled by reason",
		}, []string{"reason"}),
		ClaimsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "graph_engine_claims_created_total",
			Help: "Total claim nodes written to the graph",
		}),
		ConflictsDetected: promauto.NewCounter(prometheus.CounterOpts{
			Name: "graph_engine_conflicts_detected_total",
			Help: "Total CONTRADICTS edges created by the conflict detector",
		}),
		DecompositionDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "graph_engine_decomposition_duration_seconds",
			Help:    "End-to-end duration of decompose plus conflict detection per event",
			Buckets: prometheus.DefBuckets,
		}),
	}
}

// NewForTest creates metrics on a private registry so parallel tests do not
// trip the default registry's duplicate registration check.
func NewForTest() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)
	return &Metrics{
		EventsProcessed: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "graph_engine_events_processed_total",
			Help: "Total ingestion events processed, labelled by source type",
		}, []string{"source_type"}),
		EventsRejected: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "graph_engine_events_rejected_total",
			Help: "Total ingestion events rejected, labelled by reason",
		}, []string{"reason"}),
		ClaimsCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "graph_engine_claims_created_total",
			Help: "Total claim nodes written to the graph",
		}),
		ConflictsDetected: factory.NewCounter(prometheus.CounterOpts{
			Name: "graph_engine_conflicts_detected_total",
			Help: "Total CONTRADICTS edges created by the conflict detector",
		}),
		DecompositionDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "graph_engine_decomposition_duration_seconds",
			Help:    "End-to-end duration of decompose plus conflict detection per event",
			Buckets: prometheus.DefBuckets,
		}),
	}
}
