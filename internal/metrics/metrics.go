// Package metrics exposes Prometheus instrumentation for generation runs.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	apperrors "github.com/utafrali/catalog-datagen/pkg/errors"
)

// Recorder records generation metrics. A nil *Recorder is valid and records
// nothing.
type Recorder struct {
	generated *prometheus.CounterVec
	errors    *prometheus.CounterVec
	duration  *prometheus.HistogramVec
}

// New registers the generation metrics with reg.
func New(reg prometheus.Registerer) *Recorder {
	factory := promauto.With(reg)
	return &Recorder{
		generated: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "datagen_records_generated_total",
			Help: "Total number of generated records by entity.",
		}, []string{"entity"}),
		errors: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "datagen_generation_errors_total",
			Help: "Total number of generation failures by entity and error kind.",
		}, []string{"entity", "kind"}),
		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "datagen_generation_duration_seconds",
			Help:    "Duration of one generator run by entity.",
			Buckets: prometheus.ExponentialBuckets(0.01, 4, 8),
		}, []string{"entity"}),
	}
}

// Generated adds n generated records of entity.
func (r *Recorder) Generated(entity string, n int) {
	if r == nil || n <= 0 {
		return
	}
	r.generated.WithLabelValues(entity).Add(float64(n))
}

// Failed counts a generation failure, labelled with the error kind.
func (r *Recorder) Failed(entity string, err error) {
	if r == nil || err == nil {
		return
	}
	r.errors.WithLabelValues(entity, apperrors.Kind(err)).Inc()
}

// ObserveDuration records how long a generator took.
func (r *Recorder) ObserveDuration(entity string, d time.Duration) {
	if r == nil {
		return
	}
	r.duration.WithLabelValues(entity).Observe(d.Seconds())
}
