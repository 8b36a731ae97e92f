package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"
)

// Doer is the client interface BreakerClient decorates
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// BreakerConfig controls when the breaker opens
type BreakerConfig struct {
	MinRequests  uint32        // requests in a window before the ratio is considered
	FailureRatio float64       // transport failures / requests that trips the breaker
	OpenTimeout  time.Duration // how long the breaker stays open
	Interval     time.Duration // window after which closed-state counts reset
}

// DefaultBreakerConfig trips after 3 requests with at least 60% failing
func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		MinRequests:  3,
		FailureRatio: 0.6,
		OpenTimeout:  30 * time.Second,
		Interval:     time.Minute,
	}
}

// BreakerClient fails fast with gobreaker.ErrOpenState while the gateway is
// unreachable. Only transport errors count as failures; any HTTP response,
// whatever its status, is a success.
type BreakerClient struct {
	next Doer
	cb   *gobreaker.CircuitBreaker[*http.Response]
}

// NewBreakerClient wraps next in a circuit breaker named name
func NewBreakerClient(next Doer, name string, cfg BreakerConfig, logger *zap.Logger) *BreakerClient {
	if logger == nil {
		logger = zap.NewNop()
	}

	st := gobreaker.Settings{
		Name:     name,
		Interval: cfg.Interval,
		Timeout:  cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= cfg.MinRequests && failureRatio >= cfg.FailureRatio
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("Circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
		// a caller giving up says nothing about the gateway
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
	}

	return &BreakerClient{
		next: next,
		cb:   gobreaker.NewCircuitBreaker[*http.Response](st),
	}
}

// Do sends req unless the breaker is open
func (b *BreakerClient) Do(req *http.Request) (*http.Response, error) {
	return b.cb.Execute(func() (*http.Response, error) {
		return b.next.Do(req)
	})
}

// State reports the breaker state, e.g. for health checks
func (b *BreakerClient) State() gobreaker.State {
	return b.cb.State()
}
