// Package ipn serves the two inbound Pesapal routes: the instant payment
// notification listener and the oauth_callback landing page.
package ipn

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/kevin07696/pesapal-merchant/internal/domain"
	"github.com/kevin07696/pesapal-merchant/pkg/middleware"
	"github.com/kevin07696/pesapal-merchant/pkg/resilience"
	"go.uber.org/zap"
)

// Query parameter names Pesapal sends to both routes
const (
	paramNotificationType  = "pesapal_notification_type"
	paramMerchantReference = "pesapal_merchant_reference"
	paramTrackingID        = "pesapal_transaction_tracking_id"
)

// Route paths
const (
	IPNPath      = "/pesapal/ipn"
	CallbackPath = "/pesapal/callback"
)

// Gateway is the part of the merchant adapter the handlers need
type Gateway interface {
	IPNListener(ctx context.Context, notificationType, merchantRef, trackingID string) (*domain.IPNResult, error)
	QueryPaymentStatus(ctx context.Context, merchantRef, trackingID string) (domain.TransactionStatus, error)
}

// Handler answers Pesapal notifications and callback redirects
type Handler struct {
	gateway  Gateway
	timeouts *resilience.TimeoutConfig
	logger   *zap.Logger
}

// NewHandler creates a new IPN handler
func NewHandler(gateway Gateway, timeouts *resilience.TimeoutConfig, logger *zap.Logger) *Handler {
	if timeouts == nil {
		timeouts = resilience.DefaultTimeoutConfig()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{gateway: gateway, timeouts: timeouts, logger: logger}
}

// StatusResponse is the JSON body of the callback route
type StatusResponse struct {
	MerchantReference string `json:"merchant_reference"`
	TrackingID        string `json:"tracking_id"`
	Status            string `json:"status"`
	Terminal          bool   `json:"terminal"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Register mounts both routes on router. limiter is applied when non-nil.
func (h *Handler) Register(router *httprouter.Router, limiter *middleware.RateLimiter) {
	wrap := func(route string, next httprouter.Handle) httprouter.Handle {
		next = middleware.Timeout(h.timeouts, next)
		next = middleware.SecurityHeaders(next)
		if limiter != nil {
			next = limiter.Handle(next)
		}
		next = middleware.Logging(h.logger, route, next)
		return middleware.Recovery(h.logger, next)
	}

	router.GET(IPNPath, wrap("ipn", h.HandleIPN))
	router.GET(CallbackPath, wrap("callback", h.HandleCallback))
}

// HandleIPN processes an instant payment notification.
// GET /pesapal/ipn?pesapal_notification_type=CHANGE&pesapal_transaction_tracking_id=...&pesapal_merchant_reference=...
//
// For COMPLETED and FAILED transactions the body is the acknowledgement
// Pesapal expects; otherwise the body is empty and Pesapal notifies again.
func (h *Handler) HandleIPN(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	q := r.URL.Query()
	merchantRef := q.Get(paramMerchantReference)
	trackingID := q.Get(paramTrackingID)
	if err := requireParams(merchantRef, trackingID, true); err != nil {
		h.respondError(w, statusForError(err), err.Error())
		return
	}

	ctx, cancel := h.timeouts.ExternalAPIContext(r.Context())
	defer cancel()

	result, err := h.gateway.IPNListener(ctx, q.Get(paramNotificationType), merchantRef, trackingID)
	if err != nil {
		h.logger.Error("failed to handle IPN",
			zap.String("merchant_reference", merchantRef),
			zap.String("tracking_id", trackingID),
			zap.Error(err),
		)
		h.respondError(w, statusForError(err), "failed to query payment status")
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(result.Response)); err != nil {
		h.logger.Error("failed to write IPN reply", zap.Error(err))
	}
}

// HandleCallback is the page the customer is redirected to after paying.
// GET /pesapal/callback?pesapal_transaction_tracking_id=...&pesapal_merchant_reference=...
func (h *Handler) HandleCallback(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	q := r.URL.Query()
	merchantRef := q.Get(paramMerchantReference)
	trackingID := q.Get(paramTrackingID)
	if err := requireParams(merchantRef, trackingID, false); err != nil {
		h.respondError(w, statusForError(err), err.Error())
		return
	}

	ctx, cancel := h.timeouts.ExternalAPIContext(r.Context())
	defer cancel()

	status, err := h.gateway.QueryPaymentStatus(ctx, merchantRef, trackingID)
	if err != nil {
		h.logger.Error("failed to query status for callback",
			zap.String("merchant_reference", merchantRef),
			zap.Error(err),
		)
		h.respondError(w, statusForError(err), "failed to query payment status")
		return
	}

	h.logger.Info("customer returned from Pesapal",
		zap.String("merchant_reference", merchantRef),
		zap.String("tracking_id", trackingID),
		zap.String("status", string(status)),
	)

	h.respondJSON(w, http.StatusOK, StatusResponse{
		MerchantReference: merchantRef,
		TrackingID:        trackingID,
		Status:            string(status),
		Terminal:          status.IsTerminal(),
	})
}

// statusForError picks the response code for err. Bad input is the caller's
// fault (400); anything from the gateway side is 502, or 504 on a deadline.
func statusForError(err error) int {
	if domain.IsValidationError(err) {
		return http.StatusBadRequest
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return http.StatusGatewayTimeout
	}
	if domain.IsGatewayError(err) {
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

// requireParams rejects notifications without a merchant reference, and
// without a tracking id when needTracking is set
func requireParams(merchantRef, trackingID string, needTracking bool) error {
	if merchantRef == "" {
		return domain.NewDomainError(domain.ErrorCodeValidationMissingField, paramMerchantReference+" is required").
			WithDetail("field", paramMerchantReference)
	}
	if needTracking && trackingID == "" {
		return domain.NewDomainError(domain.ErrorCodeValidationMissingField, paramTrackingID+" is required").
			WithDetail("field", paramTrackingID)
	}
	return nil
}

func (h *Handler) respondJSON(w http.ResponseWriter, statusCode int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logger.Error("failed to encode response", zap.Error(err))
	}
}

func (h *Handler) respondError(w http.ResponseWriter, statusCode int, message string) {
	h.respondJSON(w, statusCode, errorResponse{Error: message})
}
