package middlewarex

import (
	"log/slog"
	"net/http"

	"flea_market/pkg/contextx"
	"flea_market/pkg/logx"
)

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

// Logger кладёт в контекст запроса логгер с трассировкой, методом и адресом.
// Ставится после TraceID и ProfileID.
func Logger(base *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			attrs := []any{
				slog.String(logx.FieldHTTPMethod, r.Method),
				slog.String(logx.FieldURL, r.URL.Path),
				slog.String(logx.FieldIP, r.RemoteAddr),
			}

			if traceID, err := contextx.TraceIDFromContext(ctx); err == nil {
				attrs = append(attrs, logx.Stringer(logx.FieldTraceID, traceID))
			}

			if profileID, err := contextx.ProfileIDFromContext(ctx); err == nil {
				attrs = append(attrs, logx.Stringer(logx.FieldProfileID, profileID))
			}

			ctx = contextx.WithLogger(ctx, base.With(attrs...))

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
