// Package metrics holds the Prometheus collectors of the service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Result label values.
const (
	ResultSuccess  = "success"
	ResultConflict = "conflict"
	ResultRejected = "rejected"
	ResultError    = "error"
)

type Metrics struct {
	HTTPRequests        *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	BedTransitions         *prometheus.CounterVec
	AppointmentTransitions *prometheus.CounterVec
	Payments               *prometheus.CounterVec
}

// New registers every collector on reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		HTTPRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		BedTransitions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "clinic_bed_transitions_total",
				Help: "Bed status transitions by transition and result",
			},
			[]string{"transition", "result"},
		),
		AppointmentTransitions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "clinic_appointment_transitions_total",
				Help: "Appointment status transitions by target status and result",
			},
			[]string{"to", "result"},
		),
		Payments: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "clinic_payments_total",
				Help: "Invoice payments by result",
			},
			[]string{"result"},
		),
	}
}

// NewNop returns collectors registered on a private registry, for callers
// that do not expose metrics.
func NewNop() *Metrics {
	return New(prometheus.NewRegistry())
}
