package obs

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// EventsEnqueued counts accepted catalog events by type.
	EventsEnqueued = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "product_option_events_enqueued_total",
		Help: "Catalog events accepted into the queue",
	}, []string{"type"})

	// EventsApplied counts processed catalog events.
	// Labels: result = "applied" | "stale".
	EventsApplied = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "product_option_events_processed_total",
		Help: "Catalog events processed by workers",
	}, []string{"result"})

	QueueBacklog = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "product_option_queue_backlog",
		Help: "Events waiting for the broker",
	})

	WorkerCount = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "product_option_workers",
		Help: "Running event workers",
	})

	// ViewBuilds counts matrix and nesting builds.
	// Labels: view = "matrix" | "nesting"; result = "ok" | error code.
	ViewBuilds = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "product_option_view_builds_total",
		Help: "Option matrix and nesting builds by outcome",
	}, []string{"view", "result"})

	ViewDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "product_option_view_duration_seconds",
		Help:    "Time spent resolving and building an option view",
		Buckets: []float64{0.00001, 0.0001, 0.001, 0.01, 0.1, 1},
	}, []string{"view"})

	MatrixSize = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "product_option_matrix_combinations",
		Help:    "Combinations per built matrix before filtering",
		Buckets: prometheus.ExponentialBuckets(1, 4, 8),
	})
)
