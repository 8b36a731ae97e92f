package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/kevin07696/pesapal-merchant/internal/domain"
	"github.com/kevin07696/pesapal-merchant/pkg/resilience"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

func runOrderURL(_ context.Context, a *app, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("order-url", flag.ContinueOnError)
	order, err := parseOrder(fs, args)
	if err != nil {
		return err
	}

	orderURL, err := a.adapter.GenerateOrderURL(order)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(stdout, orderURL)
	return err
}

// parseOrder reads order flags. The reference defaults to a random UUID.
func parseOrder(fs *flag.FlagSet, args []string) (*domain.OrderDetails, error) {
	var (
		amount      = fs.String("amount", "", "Order amount, e.g. 1000 or 99.50")
		description = fs.String("description", "", "Order description")
		orderType   = fs.String("type", domain.OrderTypeMerchant, "Order type")
		reference   = fs.String("reference", "", "Merchant reference (default: random UUID)")
		firstName   = fs.String("first-name", "", "Customer first name")
		lastName    = fs.String("last-name", "", "Customer last name")
		email       = fs.String("email", "", "Customer email")
		phone       = fs.String("phone", "", "Customer phone number")
		currency    = fs.String("currency", "", "ISO currency code, e.g. KES")
	)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	var amt decimal.Decimal
	if *amount != "" {
		var err error
		if amt, err = decimal.NewFromString(*amount); err != nil {
			return nil, fmt.Errorf("invalid -amount %q: %w", *amount, err)
		}
	}
	if *reference == "" {
		*reference = uuid.NewString()
	}

	return &domain.OrderDetails{
		Amount:      amt,
		Description: *description,
		Type:        *orderType,
		Reference:   *reference,
		FirstName:   *firstName,
		LastName:    *lastName,
		Email:       *email,
		PhoneNumber: *phone,
		Currency:    *currency,
	}, nil
}

func runStatus(ctx context.Context, a *app, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("status", flag.ContinueOnError)
	var (
		reference   = fs.String("reference", "", "Merchant reference (required)")
		tracking    = fs.String("tracking", "", "Pesapal transaction tracking id")
		byRef       = fs.Bool("by-ref", false, "Use QueryPaymentStatusByMerchantRef")
		wait        = fs.Bool("wait", false, "Poll until the transaction is COMPLETED, FAILED or INVALID")
		maxAttempts = fs.Int("max-attempts", 30, "Polls before giving up with -wait (0 = unlimited)")
		interval    = fs.Duration("interval", 0, "Fixed delay between polls with -wait (default: backoff from 2s to 60s)")
	)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *reference == "" {
		return errors.New("-reference is required")
	}

	query := func(ctx context.Context) (domain.TransactionStatus, error) {
		if *byRef {
			return a.adapter.QueryPaymentStatusByMerchantRef(ctx, *reference)
		}
		return a.adapter.QueryPaymentStatus(ctx, *reference, *tracking)
	}

	var status domain.TransactionStatus
	var err error
	if *wait {
		status, err = waitForStatus(ctx, a.logger, pollBackoff(*interval), *maxAttempts, query)
	} else {
		status, err = query(ctx)
	}
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(stdout, status)
	return err
}

// pollBackoff picks a fixed delay when interval is set, otherwise the
// checkout backoff schedule
func pollBackoff(interval time.Duration) resilience.BackoffStrategy {
	if interval > 0 {
		return &resilience.FixedBackoff{Delay: interval}
	}
	return resilience.StatusPollBackoff()
}

// waitForStatus polls until the gateway reports a status that will not change
func waitForStatus(ctx context.Context, logger *zap.Logger, backoff resilience.BackoffStrategy, maxAttempts int,
	query func(context.Context) (domain.TransactionStatus, error)) (domain.TransactionStatus, error) {
	attempt := 0
	return resilience.Poll[domain.TransactionStatus](ctx, backoff, maxAttempts, func(ctx context.Context) (domain.TransactionStatus, bool, error) {
		attempt++
		status, err := query(ctx)
		if err != nil {
			return status, false, err
		}
		logger.Debug("polled Pesapal status",
			zap.Int("attempt", attempt),
			zap.String("status", string(status)),
		)
		return status, status.IsTerminal() || status == domain.TransactionStatusInvalid, nil
	})
}

func runDetails(ctx context.Context, a *app, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("details", flag.ContinueOnError)
	var (
		reference = fs.String("reference", "", "Merchant reference (required)")
		tracking  = fs.String("tracking", "", "Pesapal transaction tracking id (required)")
	)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *reference == "" || *tracking == "" {
		return errors.New("-reference and -tracking are required")
	}

	details, err := a.adapter.QueryPaymentDetails(ctx, *reference, *tracking)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(details)
}
