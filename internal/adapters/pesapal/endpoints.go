package pesapal

import (
	"github.com/kevin07696/pesapal-merchant/internal/domain"
)

// Gateway domains per environment
const (
	DevelopmentBaseURL = "http://demo.pesapal.com"
	ProductionBaseURL  = "https://www.pesapal.com"
)

// Endpoint identifies one Pesapal API call
type Endpoint int

const (
	EndpointPostOrder Endpoint = iota
	EndpointQueryStatus
	EndpointQueryStatusByMerchantRef
	EndpointQueryDetails
)

var endpointNames = map[Endpoint]string{
	EndpointPostOrder:                "PostPesapalDirectOrderV4",
	EndpointQueryStatus:              "QueryPaymentStatus",
	EndpointQueryStatusByMerchantRef: "QueryPaymentStatusByMerchantRef",
	EndpointQueryDetails:             "QueryPaymentDetails",
}

// String returns the API method name, e.g. "QueryPaymentStatus"
func (e Endpoint) String() string {
	if name, ok := endpointNames[e]; ok {
		return name
	}
	return "Unknown"
}

// Path returns the request path of the endpoint
func (e Endpoint) Path() string {
	return "/API/" + e.String()
}

// BaseURL returns the gateway domain for env
func BaseURL(env domain.Environment) string {
	if env.IsProduction() {
		return ProductionBaseURL
	}
	return DevelopmentBaseURL
}
