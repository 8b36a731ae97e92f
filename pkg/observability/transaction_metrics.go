package observability

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	transactionStatusTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pesapal_transaction_status_total",
		Help: "Transaction statuses returned by status and details queries",
	}, []string{
		"status", // PENDING, COMPLETED, FAILED, INVALID, OTHER
	})

	ipnNotificationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pesapal_ipn_notifications_total",
		Help: "Instant payment notifications handled",
	}, []string{
		"status",
		"acknowledged", // true when a CHANGE reply was produced
	})

	orderURLsIssuedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pesapal_order_urls_issued_total",
		Help: "Signed PostPesapalDirectOrderV4 URLs generated",
	}, []string{
		"environment",
	})
)

// RecordTransactionStatus counts a status returned by the gateway.
// Callers should collapse unknown statuses to a fixed label first.
func RecordTransactionStatus(status string) {
	transactionStatusTotal.WithLabelValues(status).Inc()
}

// RecordIPNNotification counts a handled notification
func RecordIPNNotification(status string, acknowledged bool) {
	ipnNotificationsTotal.WithLabelValues(status, strconv.FormatBool(acknowledged)).Inc()
}

// RecordOrderURLIssued counts a generated order URL
func RecordOrderURLIssued(environment string) {
	orderURLsIssuedTotal.WithLabelValues(environment).Inc()
}
