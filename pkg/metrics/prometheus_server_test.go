package metrics_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"flea_market/pkg/metrics"
)

func TestPrometheusServer(t *testing.T) {
	reg := metrics.NewRegistry()

	m := metrics.NewMarket(reg)
	m.SetActive("bot", 12)
	m.IncPurchase("trader")
	m.ObserveUpdate(40 * time.Millisecond)

	srv := httptest.NewServer(metrics.NewPrometheusServer(":0", reg).Handler())
	t.Cleanup(srv.Close)

	testCases := []struct {
		name       string
		endpoint   string
		statusCode int
		contains   []string
	}{
		{
			name:       "market collectors",
			endpoint:   "/metrics",
			statusCode: http.StatusOK,
			contains: []string{
				`flea_market_offers_active{seller_type="bot"} 12`,
				`flea_market_purchases_total{seller_type="trader"} 1`,
				"flea_market_scheduler_update_duration_seconds_count 1",
				"go_goroutines",
			},
		},
		{
			name:       "unknown endpoint",
			endpoint:   "/invalid",
			statusCode: http.StatusNotFound,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rq := require.New(t)

			resp, err := srv.Client().Get(srv.URL + tc.endpoint)
			rq.NoError(err)

			defer resp.Body.Close()

			rq.Equal(tc.statusCode, resp.StatusCode)

			body, err := io.ReadAll(resp.Body)
			rq.NoError(err)

			for _, s := range tc.contains {
				rq.Contains(string(body), s)
			}
		})
	}
}
