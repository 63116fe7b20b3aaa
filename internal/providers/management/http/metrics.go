package http

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	outcomeLabelSuccess = "success"
	outcomeLabelFailed  = "failed"
	outcomeLabelError   = "error"
)

type gatewayMetrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

func newGatewayMetrics(registerer prometheus.Registerer) (*gatewayMetrics, error) {
	metrics := &gatewayMetrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "jbossctl_management_requests_total",
			Help: "Management API requests by operation and outcome.",
		}, []string{"operation", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "jbossctl_management_request_duration_seconds",
			Help:    "Management API round trip latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"operation"}),
	}
	if registerer == nil {
		return metrics, nil
	}

	requests, err := registerOrReuse(registerer, metrics.requests)
	if err != nil {
		return nil, err
	}
	duration, err := registerOrReuse(registerer, metrics.duration)
	if err != nil {
		return nil, err
	}
	metrics.requests = requests
	metrics.duration = duration
	return metrics, nil
}

// registerOrReuse returns the collector already registered under the same
// descriptor, so several gateways can share one registry.
func registerOrReuse[T prometheus.Collector](registerer prometheus.Registerer, collector T) (T, error) {
	if err := registerer.Register(collector); err != nil {
		var already prometheus.AlreadyRegisteredError
		if errors.As(err, &already) {
			if existing, ok := already.ExistingCollector.(T); ok {
				return existing, nil
			}
		}
		var zero T
		return zero, internalError("failed to register management metrics", err)
	}
	return collector, nil
}

func (m *gatewayMetrics) observe(operation string, outcome string, started time.Time) {
	m.requests.WithLabelValues(operation, outcome).Inc()
	m.duration.WithLabelValues(operation).Observe(time.Since(started).Seconds())
}
