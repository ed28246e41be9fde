package reply_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"git.appkode.ru/pub/go/failure"
	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/require"

	"flea_market/pkg/contextx"
	"flea_market/pkg/errcodes"
	"flea_market/pkg/httpx/reply"
)

func TestError(t *testing.T) {
	testCases := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{
			name: "coded not found",
			err: failure.NewNotFoundError("offer o1 not found",
				failure.WithCode(errcodes.OfferNotFound),
				failure.WithDescription("Offer not found"),
			),
			status: http.StatusNotFound,
			code:   "OfferNotFound",
		},
		{
			name:   "invalid argument without code",
			err:    failure.NewInvalidArgumentError("bad limit"),
			status: http.StatusBadRequest,
			code:   "ValidationError",
		},
		{
			name: "unprocessable",
			err: failure.NewUnprocessableEntityError("no money",
				failure.WithCode(errcodes.PaymentFailed),
			),
			status: http.StatusUnprocessableEntity,
			code:   "PaymentFailed",
		},
		{
			name:   "deadline",
			err:    fmt.Errorf("search: %w", context.DeadlineExceeded),
			status: http.StatusGatewayTimeout,
			code:   "TimeoutExceeded",
		},
		{
			name:   "plain error",
			err:    errors.New("boom"),
			status: http.StatusInternalServerError,
			code:   "InternalServerError",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rq := require.New(t)
			ctx := contextx.WithTraceID(context.Background(), "trace-1")

			rec := httptest.NewRecorder()
			reply.Error(ctx, rec, tc.err)

			var body struct {
				Code      string `json:"code"`
				SupportID string `json:"supportId"`
			}

			rq.Equal(tc.status, rec.Code)
			rq.NoError(jsoniter.Unmarshal(rec.Body.Bytes(), &body))
			rq.Equal(tc.code, body.Code)
			rq.Equal("trace-1", body.SupportID)
		})
	}
}
