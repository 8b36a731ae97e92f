package pesapal

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/kevin07696/pesapal-merchant/internal/adapters/pesapal/oauth"
	"github.com/kevin07696/pesapal-merchant/internal/domain"
	"github.com/kevin07696/pesapal-merchant/internal/domain/ports"
	"github.com/kevin07696/pesapal-merchant/pkg/observability"
)

// maxResponseBytes caps how much of a gateway response is read
const maxResponseBytes = 64 << 10

const ipnReplyFormat = "pesapal_notification_type=CHANGE&pesapal_transaction_tracking_id=%s&pesapal_merchant_reference=%s"

// MerchantAdapter talks to the Pesapal merchant API.
// It holds only immutable configuration and is safe for concurrent use.
type MerchantAdapter struct {
	credentials    domain.Credentials
	environment    domain.Environment
	baseURL        string
	signer         *oauth.Signer
	signerOpts     []oauth.SignerOption
	httpClient     ports.HTTPClient
	logger         ports.Logger
	validateOrders bool
}

// Option configures a MerchantAdapter
type Option func(*MerchantAdapter)

// WithBaseURL overrides the environment's gateway domain
func WithBaseURL(baseURL string) Option {
	return func(a *MerchantAdapter) {
		if baseURL != "" {
			a.baseURL = strings.TrimRight(baseURL, "/")
		}
	}
}

// WithOrderValidation makes GenerateOrderURL reject incomplete orders
// instead of sending empty attributes
func WithOrderValidation() Option {
	return func(a *MerchantAdapter) { a.validateOrders = true }
}

// WithSignerOptions passes options to the request signer
func WithSignerOptions(opts ...oauth.SignerOption) Option {
	return func(a *MerchantAdapter) { a.signerOpts = append(a.signerOpts, opts...) }
}

// NewMerchantAdapter creates a merchant adapter with dependency injection.
// Empty credential fields are replaced with the documented placeholders.
func NewMerchantAdapter(creds domain.Credentials, env domain.Environment, httpClient ports.HTTPClient, logger ports.Logger, opts ...Option) *MerchantAdapter {
	if logger == nil {
		logger = nopLogger{}
	}

	a := &MerchantAdapter{
		credentials: creds.WithDefaults(),
		environment: env,
		baseURL:     BaseURL(env),
		httpClient:  httpClient,
		logger:      logger,
	}
	for _, opt := range opts {
		opt(a)
	}
	a.signer = oauth.NewSigner(a.credentials.ConsumerKey, a.credentials.ConsumerSecret, a.signerOpts...)

	if a.credentials.IsPlaceholder() {
		a.logger.Warn("using placeholder Pesapal credentials, the gateway will reject signed requests",
			ports.String("environment", string(env)),
		)
	}
	a.logger.Info("Pesapal merchant adapter initialized",
		ports.String("environment", string(env)),
		ports.String("base_url", a.baseURL),
		ports.String("consumer_key", a.credentials.MaskedKey()),
		ports.Bool("validate_orders", a.validateOrders),
	)

	return a
}

// Environment returns the environment the adapter signs for
func (a *MerchantAdapter) Environment() domain.Environment {
	return a.environment
}

// EndpointURL returns the absolute URL of e for this adapter
func (a *MerchantAdapter) EndpointURL(e Endpoint) string {
	return a.baseURL + e.Path()
}

// GenerateOrderURL returns the signed PostPesapalDirectOrderV4 URL for order.
// No request is made; the URL is meant to be opened (usually in an iframe)
// by the customer.
func (a *MerchantAdapter) GenerateOrderURL(order *domain.OrderDetails) (string, error) {
	if order == nil {
		return "", domain.NewDomainError(domain.ErrorCodeValidationMissingField, "order is required").
			WithDetail("field", "order")
	}
	if a.validateOrders {
		if err := order.Validate(); err != nil {
			return "", err
		}
	}

	params := a.signer.BaseParams()
	params[oauth.ParamCallback] = a.credentials.CallbackURL
	params[oauth.ParamRequestData] = BuildOrderXML(order)

	orderURL, err := a.signer.SignedURL(http.MethodGet, a.EndpointURL(EndpointPostOrder), params)
	if err != nil {
		return "", err
	}

	observability.RecordOrderURLIssued(string(a.environment))
	a.logger.Info("generated Pesapal order URL",
		ports.String("merchant_reference", order.Reference),
		ports.String("amount", order.AmountString()),
		ports.String("currency", order.Currency),
	)

	return orderURL, nil
}

// QueryPaymentStatus asks the gateway for the status of a transaction.
// trackingID is sent only when non-empty. Unknown statuses are returned as is.
func (a *MerchantAdapter) QueryPaymentStatus(ctx context.Context, merchantRef, trackingID string) (domain.TransactionStatus, error) {
	params := a.signer.BaseParams()
	params[oauth.ParamMerchantReference] = merchantRef
	if trackingID != "" {
		params[oauth.ParamTransactionTrackingID] = trackingID
	}

	data, err := a.get(ctx, EndpointQueryStatus, params)
	if err != nil {
		return "", err
	}

	status := domain.TransactionStatus(data)
	observability.RecordTransactionStatus(statusLabel(status))
	return status, nil
}

// QueryPaymentStatusByMerchantRef looks a transaction up by merchant reference alone
func (a *MerchantAdapter) QueryPaymentStatusByMerchantRef(ctx context.Context, merchantRef string) (domain.TransactionStatus, error) {
	params := a.signer.BaseParams()
	params[oauth.ParamMerchantReference] = merchantRef

	data, err := a.get(ctx, EndpointQueryStatusByMerchantRef, params)
	if err != nil {
		return "", err
	}

	status := domain.TransactionStatus(data)
	observability.RecordTransactionStatus(statusLabel(status))
	return status, nil
}

// QueryPaymentDetails fetches the payment method and status of a transaction
func (a *MerchantAdapter) QueryPaymentDetails(ctx context.Context, merchantRef, trackingID string) (*domain.PaymentDetails, error) {
	params := a.signer.BaseParams()
	params[oauth.ParamMerchantReference] = merchantRef
	params[oauth.ParamTransactionTrackingID] = trackingID

	data, err := a.get(ctx, EndpointQueryDetails, params)
	if err != nil {
		return nil, err
	}

	details, err := parseDetails(data)
	if err != nil {
		a.logger.Warn("Pesapal details record is too short",
			ports.String("merchant_reference", merchantRef),
		)
		return nil, err
	}

	observability.RecordTransactionStatus(statusLabel(details.Status))
	return details, nil
}

// IPNListener handles an instant payment notification. It queries the
// current status and, for COMPLETED or FAILED, builds the CHANGE reply the
// gateway expects. The reply is returned, not sent. notificationType does
// not affect the result.
func (a *MerchantAdapter) IPNListener(ctx context.Context, notificationType, merchantRef, trackingID string) (*domain.IPNResult, error) {
	status, err := a.QueryPaymentStatus(ctx, merchantRef, trackingID)
	if err != nil {
		return nil, err
	}

	result := &domain.IPNResult{Status: status}
	if status.IsTerminal() {
		result.Response = fmt.Sprintf(ipnReplyFormat, trackingID, merchantRef)
	}

	observability.RecordIPNNotification(statusLabel(status), result.Acknowledged())
	a.logger.Info("handled Pesapal IPN",
		ports.String("notification_type", notificationType),
		ports.String("merchant_reference", merchantRef),
		ports.String("tracking_id", trackingID),
		ports.String("status", string(status)),
		ports.Bool("acknowledged", result.Acknowledged()),
	)

	return result, nil
}

// get signs params, sends the GET request and returns pesapal_response_data
func (a *MerchantAdapter) get(ctx context.Context, endpoint Endpoint, params oauth.Params) (string, error) {
	start := time.Now()
	name := endpoint.String()

	signedURL, err := a.signer.SignedURL(http.MethodGet, a.EndpointURL(endpoint), params)
	if err != nil {
		observability.RecordGatewayRequest(name, observability.OutcomeSigningError, time.Since(start))
		return "", err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, signedURL, nil)
	if err != nil {
		observability.RecordGatewayRequest(name, observability.OutcomeSigningError, time.Since(start))
		return "", domain.WrapError(domain.ErrorCodeMalformedURL, "failed to create request", err).
			WithDetail("endpoint", name)
	}

	// the signed URL carries the signature, so only the endpoint is logged
	a.logger.Debug("making request to Pesapal",
		ports.String("endpoint", name),
		ports.String("merchant_reference", params[oauth.ParamMerchantReference]),
	)

	done := observability.TrackGatewayInFlight()
	httpResp, err := a.httpClient.Do(httpReq)
	done()
	if err != nil {
		observability.RecordGatewayRequest(name, observability.OutcomeTransportError, time.Since(start))
		a.logger.Error("Pesapal request failed",
			ports.String("endpoint", name),
			ports.Err(err),
		)
		return "", domain.WrapError(domain.ErrorCodeTransport, "failed to reach Pesapal", err).
			WithDetail("endpoint", name)
	}
	defer httpResp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(httpResp.Body, maxResponseBytes))
	if err != nil {
		observability.RecordGatewayRequest(name, observability.OutcomeTransportError, time.Since(start))
		return "", domain.WrapError(domain.ErrorCodeTransport, "failed to read response body", err).
			WithDetail("endpoint", name)
	}

	data, ok := parseResponseData(body)
	if !ok {
		observability.RecordGatewayRequest(name, observability.OutcomeProtocolError, time.Since(start))
		a.logger.Warn("Pesapal response has no pesapal_response_data",
			ports.String("endpoint", name),
			ports.Int("http_status", httpResp.StatusCode),
		)
		return "", domain.NewDomainError(domain.ErrorCodeProtocol, "response has no "+responseDataKey).
			WithDetail("endpoint", name).
			WithDetail("http_status", httpResp.StatusCode)
	}

	observability.RecordGatewayRequest(name, observability.OutcomeSuccess, time.Since(start))
	a.logger.Debug("Pesapal request completed",
		ports.String("endpoint", name),
		ports.Duration("elapsed", time.Since(start)),
	)
	return data, nil
}

// statusLabel keeps the metrics label set closed
func statusLabel(s domain.TransactionStatus) string {
	if s.IsKnown() {
		return string(s)
	}
	return "OTHER"
}

type nopLogger struct{}

func (nopLogger) Info(string, ...ports.Field)  {}
func (nopLogger) Error(string, ...ports.Field) {}
func (nopLogger) Warn(string, ...ports.Field)  {}
func (nopLogger) Debug(string, ...ports.Field) {}
