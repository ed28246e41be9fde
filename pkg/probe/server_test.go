package probe_test

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"flea_market/pkg/probe"
)

func TestServer(t *testing.T) {
	notLoaded := func() error { return errors.New("market not loaded") }

	testCases := []struct {
		name       string
		endpoint   string
		check      probe.Check
		statusCode int
		body       string
	}{
		{
			name:       "health",
			endpoint:   "/healthz",
			statusCode: http.StatusOK,
			body:       `{"name":"flea-market","version":"v1.2.0","ready":true}`,
		},
		{
			name:       "ready without check",
			endpoint:   "/ready",
			statusCode: http.StatusOK,
			body:       `{"name":"flea-market","version":"v1.2.0","ready":true}`,
		},
		{
			name:       "not ready",
			endpoint:   "/ready",
			check:      notLoaded,
			statusCode: http.StatusServiceUnavailable,
			body:       `{"name":"flea-market","version":"v1.2.0","ready":false,"reason":"market not loaded"}`,
		},
		{
			name:       "health ignores readiness",
			endpoint:   "/healthz",
			check:      notLoaded,
			statusCode: http.StatusOK,
			body:       `{"name":"flea-market","version":"v1.2.0","ready":true}`,
		},
		{
			name:       "unknown endpoint",
			endpoint:   "/metrics",
			statusCode: http.StatusNotFound,
			body:       "404 page not found\n",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rq := require.New(t)

			srv := probe.NewServer(":0", probe.Options{Name: "flea-market", Version: "v1.2.0"})
			if tc.check != nil {
				srv = srv.WithReadiness(tc.check)
			}

			rec := httptest.NewRecorder()
			srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tc.endpoint, http.NoBody))

			res := rec.Result()
			defer res.Body.Close()

			body, err := io.ReadAll(res.Body)
			rq.NoError(err)

			rq.Equal(tc.statusCode, res.StatusCode)
			rq.Equal(tc.body, string(body))
		})
	}
}
