package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Gateway call outcomes used as the "outcome" label
const (
	OutcomeSuccess        = "success"
	OutcomeTransportError = "transport_error"
	OutcomeProtocolError  = "protocol_error"
	OutcomeSigningError   = "signing_error"
)

var (
	// Outbound gateway request metrics
	gatewayRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pesapal_gateway_requests_total",
			Help: "Total number of signed requests sent to the Pesapal API",
		},
		[]string{"endpoint", "outcome"},
	)

	gatewayRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "pesapal_gateway_request_duration_seconds",
			Help: "Duration of Pesapal API requests in seconds",
			// the demo gateway is regularly slow to answer
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"endpoint"},
	)

	gatewayRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "pesapal_gateway_requests_in_flight",
			Help: "Number of Pesapal API requests currently waiting for a response",
		},
	)
)

// RecordGatewayRequest records the outcome and duration of one gateway call
func RecordGatewayRequest(endpoint, outcome string, elapsed time.Duration) {
	gatewayRequestsTotal.WithLabelValues(endpoint, outcome).Inc()
	gatewayRequestDuration.WithLabelValues(endpoint).Observe(elapsed.Seconds())
}

// TrackGatewayInFlight increments the in-flight gauge and returns the
// function that decrements it
func TrackGatewayInFlight() func() {
	gatewayRequestsInFlight.Inc()
	return gatewayRequestsInFlight.Dec
}
