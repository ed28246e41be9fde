package metrics

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"flea_market/pkg/contextx"
	"flea_market/pkg/logx"
)

const httpServerReadHeaderTimeout = 5 * time.Second

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

// NewRegistry registry with Go runtime and process collectors, the market
// collectors are added by NewMarket.
func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return reg
}

type PrometheusServer struct {
	listenAddress string
	gatherer      prometheus.Gatherer
}

func NewPrometheusServer(listenAddress string, gatherer prometheus.Gatherer) PrometheusServer {
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}

	return PrometheusServer{
		listenAddress: listenAddress,
		gatherer:      gatherer,
	}
}

func (p PrometheusServer) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.Handle("GET /metrics", promhttp.HandlerFor(p.gatherer, promhttp.HandlerOpts{
		ErrorLog:      slog.NewLogLogger(slog.Default().Handler(), slog.LevelError),
		ErrorHandling: promhttp.ContinueOnError,
	}))

	return mux
}

func (p PrometheusServer) Run(ctx context.Context) error {
	httpServer := &http.Server{
		//nolint:exhaustruct
		Addr:              p.listenAddress,
		Handler:           p.Handler(),
		ReadHeaderTimeout: httpServerReadHeaderTimeout,
		BaseContext: func(net.Listener) context.Context {
			return ctx
		},
	}

	go func() {
		<-ctx.Done()

		if err := httpServer.Shutdown(context.WithoutCancel(ctx)); err != nil {
			logger(ctx).Error("httpServer.Shutdown", logx.Error(err))
		}
	}()

	logger(ctx).Info("prometheus server started", slog.String("address", p.listenAddress))

	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("httpServer.ListenAndServe: %w", err)
	}

	logger(ctx).Info("prometheus server stopped")

	return nil
}
