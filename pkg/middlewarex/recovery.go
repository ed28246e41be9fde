package middlewarex

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"

	"flea_market/pkg/httpx/reply"
	"flea_market/pkg/logx"
)

// Recovery превращает панику обработчика в 500 с supportId в теле.
func Recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		defer func() {
			rec := recover()
			if rec == nil {
				return
			}

			if rec == http.ErrAbortHandler { //nolint:errorlint,goerr113
				panic(rec)
			}

			logger(ctx).Error(
				"panic in handler",
				slog.Any(logx.FieldError, rec),
				slog.String(logx.FieldStack, string(debug.Stack())),
			)

			reply.Error(ctx, w, fmt.Errorf("panic: %v", rec))
		}()

		next.ServeHTTP(w, r)
	})
}
