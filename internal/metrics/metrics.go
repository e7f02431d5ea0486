// Package metrics defines the service's Prometheus collectors.
package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

// NewRateLimitExceededTotal returns a Prometheus counter for the number of rejected HTTP requests due to rate limiting
func NewRateLimitExceededTotal() prometheus.Counter {
	return prometheus.NewCounter(prometheus.CounterOpts{
		Name: "rate_limit_exceeded_total",
		Help: "Total number of rejected HTTP requests due to rate limiting",
	})
}

// NewAssignmentAttemptsTotal returns a counter of assignment attempts labelled by outcome.
func NewAssignmentAttemptsTotal() *prometheus.CounterVec {
	return prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "assignment_attempts_total",
		Help: "Total number of order assignment attempts by outcome",
	}, []string{"outcome"})
}

// AssignmentRecorder counts assignment outcomes.
type AssignmentRecorder struct {
	attempts *prometheus.CounterVec
}

// NewAssignmentRecorder wraps an assignment attempts counter.
func NewAssignmentRecorder(attempts *prometheus.CounterVec) *AssignmentRecorder {
	return &AssignmentRecorder{attempts: attempts}
}

// Observe counts one attempt with the given outcome.
func (r *AssignmentRecorder) Observe(outcome string) {
	r.attempts.WithLabelValues(outcome).Inc()
}

// Register registers c, or returns the collector already registered under the same
// descriptor. Repeated container builds in one process share collectors this way.
func Register[T prometheus.Collector](reg prometheus.Registerer, c T) (T, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(T); ok {
				return existing, nil
			}
		}
		var zero T
		return zero, err
	}
	return c, nil
}
