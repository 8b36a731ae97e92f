package resilience

import (
	"context"
	"time"
)

// TimeoutConfig defines timeout values for the request path
//
//	IPN/callback handler (30s)
//	  ↓
//	Pesapal API call (20s)
//
// The gateway call must finish before the handler budget runs out so the
// handler can still write its reply.
type TimeoutConfig struct {
	HTTPHandler time.Duration // Inbound notification handling
	ExternalAPI time.Duration // One Pesapal API call
}

// DefaultTimeoutConfig returns production timeout values
func DefaultTimeoutConfig() *TimeoutConfig {
	return &TimeoutConfig{
		HTTPHandler: 30 * time.Second,
		ExternalAPI: 20 * time.Second,
	}
}

// HandlerContext creates a context with timeout for HTTP handlers
func (tc *TimeoutConfig) HandlerContext(parent context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(parent, tc.HTTPHandler)
}

// ExternalAPIContext creates a context for one gateway call
func (tc *TimeoutConfig) ExternalAPIContext(parent context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(parent, tc.ExternalAPI)
}
