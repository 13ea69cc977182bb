package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"reviewhub/internal/config"
	"reviewhub/internal/mailer"
)

// The email worker drains the signup confirmation queue published by the api
// server and delivers the codes.
func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("could not load config", "error", err)
		os.Exit(1)
	}
	if cfg.AMQPURL == "" {
		slog.Error("AMQP_URL is required for the email worker")
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	consumer := mailer.NewConsumer(cfg.AMQPURL, cfg.EmailQueue, &mailer.LogDeliverer{Logger: logger}, logger)
	logger.Info("email worker started", "queue", cfg.EmailQueue)

	if err := consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("email worker stopped", "error", err)
		os.Exit(1)
	}
	logger.Info("email worker shut down")
}
