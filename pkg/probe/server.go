package probe

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	jsoniter "github.com/json-iterator/go"

	"flea_market/pkg/contextx"
	"flea_market/pkg/logx"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary //nolint:gochecknoglobals // skip

const httpServerReadHeaderTimeout = 5 * time.Second

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

// Check reports why the service cannot take traffic yet. Nil means ready.
type Check func() error

type Server struct {
	listenAddress string
	options       Options
	ready         Check
}

type Options struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

type state struct {
	Options
	Ready  bool   `json:"ready"`
	Reason string `json:"reason,omitempty"`
}

func NewServer(listenAddress string, options Options) Server {
	return Server{
		listenAddress: listenAddress,
		options:       options,
	}
}

// WithReadiness makes /ready answer 503 while check fails.
func (s Server) WithReadiness(check Check) Server {
	s.ready = check
	return s
}

func (s Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", s.handlerHealthz)
	mux.HandleFunc("GET /ready", s.handlerReady)

	return mux
}

func (s Server) Run(ctx context.Context) error {
	httpServer := &http.Server{
		//nolint:exhaustruct
		Addr:              s.listenAddress,
		Handler:           s.Handler(),
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

	logger(ctx).Info("probe server started", slog.String("address", s.listenAddress))

	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("httpServer.ListenAndServe: %w", err)
	}

	logger(ctx).Info("probe server stopped")

	return nil
}

func (s Server) handlerHealthz(w http.ResponseWriter, _ *http.Request) {
	write(w, http.StatusOK, state{Options: s.options, Ready: true})
}

func (s Server) handlerReady(w http.ResponseWriter, r *http.Request) {
	if s.ready != nil {
		if err := s.ready(); err != nil {
			logger(r.Context()).Warn("not ready", logx.Error(err))
			write(w, http.StatusServiceUnavailable, state{Options: s.options, Reason: err.Error()})

			return
		}
	}

	write(w, http.StatusOK, state{Options: s.options, Ready: true})
}

func write(w http.ResponseWriter, status int, st state) {
	body, _ := json.Marshal(st) //nolint:errcheck,errchkjson

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(body) //nolint:errcheck
}
