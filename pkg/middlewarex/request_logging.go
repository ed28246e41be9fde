package middlewarex

import (
	"log/slog"
	"net/http"
	"net/http/httputil"
	"strings"

	"flea_market/pkg/logx"
)

const truncatedSuffix = "...(truncated)"

func RequestLogging(
	sensitiveDataMasker logx.SensitiveDataMaskerInterface,
	logFieldMaxLen int,
) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			// У GET и DELETE рынка тела нет, multipart не логируем.
			dumpBody := r.ContentLength != 0 &&
				!strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data")

			dump, err := httputil.DumpRequest(r, dumpBody)

			logger(ctx).Info(
				logx.FieldHTTPRequest,
				slog.String(logx.FieldRequestBody, truncate(sensitiveDataMasker.Mask(dump), logFieldMaxLen)),
				logx.Error(err),
			)

			next.ServeHTTP(w, r)
		})
	}
}

func truncate(dump []byte, maxLen int) string {
	if maxLen <= 0 || len(dump) <= maxLen {
		return string(dump)
	}

	return string(dump[:maxLen]) + truncatedSuffix
}
