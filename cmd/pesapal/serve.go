package main

import (
	"context"
	"errors"
	"flag"
	"io"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/kevin07696/pesapal-merchant/internal/handlers/ipn"
	"github.com/kevin07696/pesapal-merchant/pkg/middleware"
	"github.com/kevin07696/pesapal-merchant/pkg/observability"
	"github.com/kevin07696/pesapal-merchant/pkg/resilience"
	"github.com/kevin07696/pesapal-merchant/pkg/shutdown"
	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"
)

const shutdownTimeout = 30 * time.Second

var errPlaceholderCredentials = errors.New("placeholder credentials in use")

func runServe(ctx context.Context, a *app, args []string, _ io.Writer) error {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	addr := fs.String("addr", a.cfg.Server.Address, "IPN listener address")
	if err := fs.Parse(args); err != nil {
		return err
	}

	timeouts := &resilience.TimeoutConfig{
		HTTPHandler: a.cfg.Server.HandlerTimeout,
		ExternalAPI: a.cfg.Gateway.Timeout,
	}
	limiter := middleware.NewRateLimiter(a.cfg.Server.RateLimit, a.cfg.Server.RateBurst)

	router := httprouter.New()
	ipn.NewHandler(a.adapter, timeouts, a.logger).Register(router, limiter)

	server := &http.Server{
		Addr:              *addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      timeouts.HTTPHandler + 5*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	healthChecker := observability.NewHealthChecker()
	healthChecker.AddCheck("credentials", func(context.Context) error {
		if a.credentials.IsPlaceholder() {
			return errPlaceholderCredentials
		}
		return nil
	})
	if a.breaker != nil {
		healthChecker.AddCheck("gateway_breaker", func(context.Context) error {
			if state := a.breaker.State(); state == gobreaker.StateOpen {
				return errors.New("circuit breaker " + state.String())
			}
			return nil
		})
	}
	metricsServer := observability.StartMetricsServer(a.cfg.Server.MetricsPort, healthChecker, a.logger)

	// stopped in reverse: IPN listener, rate limiter, metrics
	sm := shutdown.NewManager(a.logger, shutdownTimeout)
	sm.RegisterHTTPServer("metrics", metricsServer)
	sm.RegisterNoErr("rate_limiter", limiter.Shutdown)
	sm.RegisterHTTPServer("ipn", server)

	runCtx, cancel := context.WithCancelCause(ctx)
	defer cancel(nil)

	go func() {
		a.logger.Info("IPN listener started",
			zap.String("address", *addr),
			zap.String("environment", string(a.adapter.Environment())),
			zap.String("ipn_path", ipn.IPNPath),
			zap.String("callback_path", ipn.CallbackPath),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Error("IPN listener failed", zap.Error(err))
			cancel(err)
		}
	}()

	shutdownErr := sm.WaitForShutdown(runCtx)
	if cause := context.Cause(runCtx); cause != nil && !errors.Is(cause, context.Canceled) {
		return cause
	}
	return shutdownErr
}
