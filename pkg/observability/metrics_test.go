package observability

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordGatewayRequest(t *testing.T) {
	before := testutil.ToFloat64(gatewayRequestsTotal.WithLabelValues("QueryPaymentStatus", OutcomeSuccess))

	RecordGatewayRequest("QueryPaymentStatus", OutcomeSuccess, 120*time.Millisecond)

	after := testutil.ToFloat64(gatewayRequestsTotal.WithLabelValues("QueryPaymentStatus", OutcomeSuccess))
	assert.Equal(t, before+1, after)
}

func TestTrackGatewayInFlight(t *testing.T) {
	before := testutil.ToFloat64(gatewayRequestsInFlight)

	done := TrackGatewayInFlight()
	assert.Equal(t, before+1, testutil.ToFloat64(gatewayRequestsInFlight))

	done()
	assert.Equal(t, before, testutil.ToFloat64(gatewayRequestsInFlight))
}

func TestRecordIPNNotification(t *testing.T) {
	before := testutil.ToFloat64(ipnNotificationsTotal.WithLabelValues("COMPLETED", "true"))

	RecordIPNNotification("COMPLETED", true)

	assert.Equal(t, before+1, testutil.ToFloat64(ipnNotificationsTotal.WithLabelValues("COMPLETED", "true")))
}

func TestRecordTransactionStatusAndOrderURL(t *testing.T) {
	statusBefore := testutil.ToFloat64(transactionStatusTotal.WithLabelValues("FAILED"))
	urlsBefore := testutil.ToFloat64(orderURLsIssuedTotal.WithLabelValues("development"))

	RecordTransactionStatus("FAILED")
	RecordOrderURLIssued("development")

	assert.Equal(t, statusBefore+1, testutil.ToFloat64(transactionStatusTotal.WithLabelValues("FAILED")))
	assert.Equal(t, urlsBefore+1, testutil.ToFloat64(orderURLsIssuedTotal.WithLabelValues("development")))
}

func TestHealthChecker(t *testing.T) {
	t.Run("no_checks_is_healthy", func(t *testing.T) {
		status := NewHealthChecker().Check(context.Background())
		assert.Equal(t, "healthy", status.Status)
		assert.Empty(t, status.Checks)
	})

	t.Run("failing_check_marks_unhealthy", func(t *testing.T) {
		hc := NewHealthChecker()
		hc.AddCheck("credentials", func(ctx context.Context) error { return nil })
		hc.AddCheck("gateway", func(ctx context.Context) error { return errors.New("unreachable") })

		status := hc.Check(context.Background())

		assert.Equal(t, "unhealthy", status.Status)
		assert.Equal(t, "healthy", status.Checks["credentials"])
		assert.Equal(t, "unhealthy: unreachable", status.Checks["gateway"])
	})
}

func TestMetricsHandler(t *testing.T) {
	hc := NewHealthChecker()
	hc.AddCheck("gateway", func(ctx context.Context) error { return errors.New("down") })
	handler := NewMetricsHandler(hc)

	t.Run("health_reports_503_when_unhealthy", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		var status HealthStatus
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
		assert.Equal(t, "unhealthy", status.Status)
	})

	t.Run("ready", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "ready", rec.Body.String())
	})

	t.Run("metrics_exposes_gateway_series", func(t *testing.T) {
		RecordGatewayRequest("QueryPaymentDetails", OutcomeProtocolError, time.Millisecond)

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.True(t, strings.Contains(rec.Body.String(), "pesapal_gateway_requests_total"))
	})
}
