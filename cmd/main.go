package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lmittmann/tint"

	"flea_market/internal/application"
	"flea_market/pkg/logx"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	log := slog.New(tint.NewHandler(os.Stdout, &tint.Options{
		Level:      slog.LevelDebug,
		TimeFormat: time.DateTime,
	}))
	slog.SetDefault(log)

	if err := application.Run(ctx, log); err != nil {
		log.Error("application failed", logx.Error(err))
		os.Exit(1)
	}

	log.Info("application stopped")
}
