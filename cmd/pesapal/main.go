// Command pesapal drives the Pesapal merchant API from the shell and can run
// the IPN listener.
//
//	pesapal [-config pesapal.yml] order-url -amount 1000 -email a@b.c
//	pesapal status -reference REF [-tracking ID] [-wait]
//	pesapal details -reference REF -tracking ID
//	pesapal serve
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/kevin07696/pesapal-merchant/internal/config"
)

const usage = `Usage: pesapal [-config path] [-env-file path] <command> [options]

Commands:
  order-url  Print a signed PostPesapalDirectOrderV4 URL
  status     Query the status of a transaction
  details    Query the payment method and status of a transaction
  serve      Run the IPN listener and the metrics server
`

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("pesapal", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() { fmt.Fprint(stderr, usage) }
	configPath := fs.String("config", envOr("PESAPAL_CONFIG", "pesapal.yml"), "Path to the YAML config file")
	envFile := fs.String("env-file", ".env", "Dotenv file exported before the config is read")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return 2
	}

	command, commandArgs := fs.Arg(0), fs.Args()[1:]
	handler, ok := commands[command]
	if !ok {
		fmt.Fprintf(stderr, "Unknown command: %s\n\n", command)
		fs.Usage()
		return 2
	}

	if err := config.LoadEnvFile(*envFile); err != nil {
		fmt.Fprintf(stderr, "pesapal: %v\n", err)
		return 1
	}

	a, err := newApp(ctx, *configPath)
	if err != nil {
		fmt.Fprintf(stderr, "pesapal: %v\n", err)
		return 1
	}
	defer func() { _ = a.logger.Sync() }()

	if err := handler(ctx, a, commandArgs, stdout); err != nil {
		fmt.Fprintf(stderr, "pesapal %s: %v\n", command, err)
		return 1
	}
	return 0
}

type commandFunc func(ctx context.Context, a *app, args []string, stdout io.Writer) error

var commands = map[string]commandFunc{
	"order-url": runOrderURL,
	"status":    runStatus,
	"details":   runDetails,
	"serve":     runServe,
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
