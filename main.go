package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/getsentry/sentry-go"
)

func main() {
	os.Exit(run())
}

func run() int {
	env, err := LoadEnv(".env")
	if err != nil {
		slog.Error("[main] invalid configuration", "error", err)
		return 1
	}

	config, err := NewConfig(env)
	if err != nil {
		slog.Error("[main] invalid configuration", "error", err)
		return 1
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: config.LogLevel()}))
	slog.SetDefault(logger)

	if err := sentry.Init(sentry.ClientOptions{
		Dsn:              env.SentryDSN,
		EnableTracing:    true,
		TracesSampleRate: 1.0,
	}); err != nil {
		logger.Error("[main] sentry.Init", "error", err)
		return 1
	}
	defer sentry.Flush(2 * time.Second)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := &App{
		config: config,
		logger: logger,
	}
	if err := app.start(ctx); err != nil {
		logger.Error("[main] fin-pulse stopped", "error", err)
		return 1
	}

	return 0
}
