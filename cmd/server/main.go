package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/lmittmann/tint"

	"github.com/sweeplab/minesweeper-server/internal/app"
	"github.com/sweeplab/minesweeper-server/internal/config"
)

func createLogger() *slog.Logger {
	if config.Development() {
		return slog.New(
			tint.NewHandler(os.Stderr, &tint.Options{Level: slog.LevelDebug}),
		)
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, nil))
}

func main() {
	logger := createLogger()
	slog.SetDefault(logger)

	ctx, cancel := signal.NotifyContext(
		context.Background(), os.Interrupt, syscall.SIGTERM,
	)
	defer cancel()

	if err := app.New(logger).Start(ctx); err != nil {
		logger.Error("server stopped", slog.Any("error", err))
		os.Exit(1)
	}
}
