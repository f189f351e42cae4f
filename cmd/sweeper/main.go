package main

import (
	"context"
	"errors"
	"log/slog"
	"mediavault/internal/adapters/eventbroker/nats"
	"mediavault/internal/adapters/storage"
	"mediavault/internal/config"
	"mediavault/internal/core/service/cleanup"
	"os"
	"os/signal"
	"syscall"
	"time"
)

func main() {

	ctx, stop := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
	)
	defer stop()
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	logger = newLogger(cfg.Env)
	if cfg.NATS.URL == "" {
		logger.Error("NATS_URL is required for the sweeper")
		os.Exit(1)
	}

	fileStorage, err := storage.New(ctx, cfg.Storage, logger)
	if err != nil {
		logger.Error("failed to init storage", "driver", cfg.Storage.Driver, "error", err)
		os.Exit(1)
	}
	logger.Info("storage initialized", "driver", cfg.Storage.Driver)

	natsConsumer, err := nats.NewNATSConsumer(cfg.NATS, logger)
	if err != nil {
		logger.Error("failed to create NATS consumer", "error", err)
		os.Exit(1)
	}
	logger.Info("NATS consumer initialized")

	if err := natsConsumer.Subscribe(ctx, cleanup.NewSweeper(fileStorage, logger)); err != nil {
		logger.Error("failed to subscribe to NATS", "error", err)
		_ = natsConsumer.Close()
		os.Exit(1)
	}
	logger.Info("NATS subscription active", "subject", cfg.NATS.Subject)

	<-ctx.Done()
	logger.Info("gracefully shutting down sweeper")

	closed := make(chan error, 1)
	go func() {
		closed <- natsConsumer.Close()
	}()

	select {
	case err := <-closed:
		if err != nil {
			logger.Error("failed to close NATS consumer during shutdown", "error", err)
		}
	case <-time.After(10 * time.Second):
		logger.Error("shutdown timeout exceeded", "error", errors.New("consumer still draining"))
	}

	logger.Info("sweeper shutdown complete")
}

func newLogger(env config.Env) *slog.Logger {
	if env.IsProd() {
		return slog.New(slog.NewJSONHandler(os.Stdout, nil))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, nil))
}
