package pesapal

import (
	"net/url"
	"strings"

	"github.com/kevin07696/pesapal-merchant/internal/domain"
)

const (
	responseDataKey = "pesapal_response_data"

	// tracking_id, method, status, merchant_reference
	detailsFieldCount = 4
)

// parseResponseData extracts pesapal_response_data from a form-encoded body.
// A body that fails to parse still counts if the key was decoded before the
// bad pair.
func parseResponseData(body []byte) (string, bool) {
	values, _ := url.ParseQuery(strings.TrimSpace(string(body)))
	if _, ok := values[responseDataKey]; !ok {
		return "", false
	}
	return values.Get(responseDataKey), true
}

// parseDetails maps the comma-separated details record positionally.
// Fields beyond the fourth are ignored.
func parseDetails(data string) (*domain.PaymentDetails, error) {
	fields := strings.Split(data, ",")
	if len(fields) < detailsFieldCount {
		return nil, domain.NewDomainError(domain.ErrorCodeProtocol, "payment details record is too short").
			WithDetail("fields", len(fields)).
			WithDetail("expected", detailsFieldCount)
	}

	return &domain.PaymentDetails{
		TransactionTrackingID: fields[0],
		Method:                fields[1],
		Status:                domain.TransactionStatus(fields[2]),
		MerchantReference:     fields[3],
	}, nil
}
