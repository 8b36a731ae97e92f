package domain

// TransactionStatus is the status token returned by the gateway.
// Values outside the known set are passed through unchanged.
type TransactionStatus string

const (
	TransactionStatusPending   TransactionStatus = "PENDING"
	TransactionStatusCompleted TransactionStatus = "COMPLETED"
	TransactionStatusFailed    TransactionStatus = "FAILED"
	TransactionStatusInvalid   TransactionStatus = "INVALID"
)

// IsKnown returns true if the status is one the gateway documents
func (s TransactionStatus) IsKnown() bool {
	switch s {
	case TransactionStatusPending, TransactionStatusCompleted, TransactionStatusFailed, TransactionStatusInvalid:
		return true
	}
	return false
}

// IsTerminal returns true once the gateway will not move the transaction further.
// Only terminal statuses are acknowledged in IPN replies.
func (s TransactionStatus) IsTerminal() bool {
	return s == TransactionStatusCompleted || s == TransactionStatusFailed
}

// PaymentDetails is the decoded QueryPaymentDetails record
type PaymentDetails struct {
	Method                string            `json:"method"`
	Status                TransactionStatus `json:"status"`
	MerchantReference     string            `json:"merchant_reference"`
	TransactionTrackingID string            `json:"transaction_tracking_id"`
}

// IPNResult is the outcome of handling an instant payment notification.
// Response is empty unless the notification must be acknowledged.
type IPNResult struct {
	Status   TransactionStatus `json:"status"`
	Response string            `json:"response"`
}

// Acknowledged returns true if Response carries a reply for the gateway
func (r *IPNResult) Acknowledged() bool {
	return r.Response != ""
}
