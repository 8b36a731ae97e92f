package integration

import (
	"context"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/kevin07696/pesapal-merchant/internal/adapters/pesapal"
	"github.com/kevin07696/pesapal-merchant/internal/domain"
	pkghttp "github.com/kevin07696/pesapal-merchant/pkg/http"
	"github.com/kevin07696/pesapal-merchant/pkg/logging"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// newDemoAdapter targets demo.pesapal.com with credentials from the
// environment, skipping when they are not set
func newDemoAdapter(t *testing.T) *pesapal.MerchantAdapter {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	key := os.Getenv("PESAPAL_DEVELOPMENT_CONSUMER_KEY")
	secret := os.Getenv("PESAPAL_DEVELOPMENT_CONSUMER_SECRET")
	if key == "" || secret == "" {
		t.Skip("PESAPAL_DEVELOPMENT_CONSUMER_KEY/SECRET not set, skipping demo sandbox test")
	}

	logger := zaptest.NewLogger(t)
	client := pkghttp.NewHTTPClient(pkghttp.GatewayClientConfig(), 30*time.Second, logger)
	creds := domain.Credentials{ConsumerKey: key, ConsumerSecret: secret}
	return pesapal.NewMerchantAdapter(creds, domain.EnvironmentDevelopment, client, logging.NewZapLogger(logger))
}

func TestDemoSandbox_OrderURLIsServed(t *testing.T) {
	adapter := newDemoAdapter(t)

	orderURL, err := adapter.GenerateOrderURL(&domain.OrderDetails{
		Amount:      decimal.NewFromInt(10),
		Description: "integration test",
		Type:        domain.OrderTypeMerchant,
		Reference:   uuid.NewString(),
		FirstName:   "Test",
		LastName:    "Customer",
		Email:       "test@example.com",
		Currency:    "KES",
	})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, orderURL, nil)
	require.NoError(t, err)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Less(t, resp.StatusCode, 500)
}

func TestDemoSandbox_UnknownReferenceStatus(t *testing.T) {
	adapter := newDemoAdapter(t)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	status, err := adapter.QueryPaymentStatusByMerchantRef(ctx, "missing-"+uuid.NewString())
	require.NoError(t, err)
	assert.NotEmpty(t, status)
	t.Logf("demo sandbox status for unknown reference: %s", status)
}
