// Package metrics defines the Prometheus instruments for the API.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Booking outcome labels for BookingsTotal.
const (
	BookingOutcomeSuccess     = "success"
	BookingOutcomeConflict    = "conflict"
	BookingOutcomeLockTimeout = "lock_timeout"
	BookingOutcomeInvalid     = "invalid"
	BookingOutcomeError       = "error"
)

type Metrics struct {
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	BookingsTotal       *prometheus.CounterVec
	ClaimLockWait       prometheus.Histogram
}

func New() *Metrics {
	return NewWithRegistry(prometheus.DefaultRegisterer)
}

func NewWithRegistry(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status_code"},
		),
		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		BookingsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bookings_total",
				Help: "Booking commit attempts by outcome",
			},
			[]string{"outcome"},
		),
		ClaimLockWait: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "booking_claim_lock_wait_seconds",
				Help:    "Time spent waiting for the per-show claim lock",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
			},
		),
	}
}
