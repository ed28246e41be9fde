package modules

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"flea_market/pkg/logx"
)

const defaultReadHeaderTimeout = 5 * time.Second

// HTTPServer модуль, ответственный за запуск и остановку HTTP-сервера
// (graceful shutdown).
type HTTPServer struct {
	ListenAddress     string
	Handler           http.Handler
	ShutdownTimeout   time.Duration
	ReadHeaderTimeout time.Duration
}

func (h HTTPServer) Run(ctx context.Context, g *errgroup.Group) {
	httpServer := &http.Server{
		//nolint:exhaustruct
		Addr:              h.ListenAddress,
		Handler:           h.Handler,
		ReadHeaderTimeout: h.ReadHeaderTimeout,
		BaseContext: func(net.Listener) context.Context {
			return ctx
		},
	}

	if httpServer.ReadHeaderTimeout == 0 {
		httpServer.ReadHeaderTimeout = defaultReadHeaderTimeout
	}

	g.Go(func() error {
		go func() {
			<-ctx.Done()

			start := time.Now()

			ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), h.ShutdownTimeout) //nolint:govet
			defer cancel()

			if err := httpServer.Shutdown(ctx); err != nil {
				logger(ctx).Error("server.Shutdown", logx.Error(err))
			}

			logger(ctx).Info("http server drained", slog.Int64(logx.FieldDurationMs, time.Since(start).Milliseconds()))
		}()

		logger(ctx).Info("http server started", slog.String("address", h.ListenAddress))

		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("httpServer.ListenAndServe: %w", err)
		}

		logger(ctx).Info("http server stopped", slog.String("address", h.ListenAddress))

		return nil
	})
}
