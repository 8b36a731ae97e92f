package http

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type doerFunc func(req *http.Request) (*http.Response, error)

func (f doerFunc) Do(req *http.Request) (*http.Response, error) { return f(req) }

func newRequest(t *testing.T) *http.Request {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, "http://demo.pesapal.com/API/QueryPaymentStatus", nil)
	require.NoError(t, err)
	return req
}

func TestBreakerClient_OpensOnTransportErrors(t *testing.T) {
	calls := 0
	refused := errors.New("connection refused")
	client := NewBreakerClient(doerFunc(func(*http.Request) (*http.Response, error) {
		calls++
		return nil, refused
	}), "pesapal", DefaultBreakerConfig(), nil)

	for i := 0; i < 3; i++ {
		_, err := client.Do(newRequest(t))
		assert.True(t, errors.Is(err, refused))
	}
	assert.Equal(t, gobreaker.StateOpen, client.State())

	_, err := client.Do(newRequest(t))
	assert.True(t, errors.Is(err, gobreaker.ErrOpenState))
	assert.Equal(t, 3, calls, "an open breaker must not reach the gateway")
}

func TestBreakerClient_ServerErrorsAreNotFailures(t *testing.T) {
	client := NewBreakerClient(doerFunc(func(*http.Request) (*http.Response, error) {
		return &http.Response{StatusCode: http.StatusInternalServerError, Body: io.NopCloser(strings.NewReader(""))}, nil
	}), "pesapal", DefaultBreakerConfig(), nil)

	for i := 0; i < 5; i++ {
		resp, err := client.Do(newRequest(t))
		require.NoError(t, err)
		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	}
	assert.Equal(t, gobreaker.StateClosed, client.State())
}

func TestBreakerClient_CancellationIsNotAFailure(t *testing.T) {
	client := NewBreakerClient(doerFunc(func(*http.Request) (*http.Response, error) {
		return nil, context.Canceled
	}), "pesapal", BreakerConfig{MinRequests: 1, FailureRatio: 0.1, OpenTimeout: time.Minute}, nil)

	for i := 0; i < 3; i++ {
		_, err := client.Do(newRequest(t))
		assert.True(t, errors.Is(err, context.Canceled))
	}
	assert.Equal(t, gobreaker.StateClosed, client.State())
}
