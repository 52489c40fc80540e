// Package metrics exposes Prometheus collectors for dataset retrieval and
// the prediction engine.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "prediction"

// Metrics holds the service collectors
type Metrics struct {
	cacheLookups       *prometheus.CounterVec
	cacheWriteFailures *prometheus.CounterVec
	generationDuration *prometheus.HistogramVec
	engineEvaluations  *prometheus.CounterVec
}

// New registers the collectors with reg
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		cacheLookups: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_lookups_total",
			Help:      "Dataset cache lookups by result (hit, miss, stale, error).",
		}, []string{"dataset", "result"}),
		cacheWriteFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_write_failures_total",
			Help:      "Freshly generated datasets that could not be written to the cache.",
		}, []string{"dataset"}),
		generationDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "generation_duration_seconds",
			Help:      "Time spent generating a dataset, by outcome.",
			Buckets:   []float64{1, 2.5, 5, 10, 20, 30, 45, 60, 90},
		}, []string{"dataset", "outcome"}),
		engineEvaluations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "engine_evaluations_total",
			Help:      "Signal sets evaluated by the engine, by prediction type and result.",
		}, []string{"type", "result"}),
	}
}

// CacheLookup counts a cache lookup
func (m *Metrics) CacheLookup(dataset, result string) {
	m.cacheLookups.WithLabelValues(dataset, result).Inc()
}

// CacheWriteFailed counts a failed cache write-back
func (m *Metrics) CacheWriteFailed(dataset string) {
	m.cacheWriteFailures.WithLabelValues(dataset).Inc()
}

// Generation records how long a regeneration took
func (m *Metrics) Generation(dataset, outcome string, elapsed time.Duration) {
	m.generationDuration.WithLabelValues(dataset, outcome).Observe(elapsed.Seconds())
}

// EngineEvaluation counts an engine verdict. result is "published" or the
// reason no prediction was produced.
func (m *Metrics) EngineEvaluation(predictionType, result string) {
	m.engineEvaluations.WithLabelValues(predictionType, result).Inc()
}
