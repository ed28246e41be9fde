package req_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"git.appkode.ru/pub/go/failure"
	"github.com/stretchr/testify/require"

	"flea_market/pkg/httpx/req"
)

type requirement struct {
	Tpl   string  `json:"_tpl"  validate:"required"`
	Count float64 `json:"count" validate:"gt=0"`
}

type createOffer struct {
	Items        []string      `json:"items"        validate:"required,min=1"`
	Requirements []requirement `json:"requirements" validate:"required,min=1,dive"`
	Limit        int           `json:"limit"        validate:"omitempty,max=100"`
}

func TestRead(t *testing.T) {
	testCases := []struct {
		name        string
		body        string
		wantErr     bool
		description string
	}{
		{
			name: "valid",
			body: `{"items":["i1"],"requirements":[{"_tpl":"rub","count":100}]}`,
		},
		{
			name:        "empty body",
			body:        "",
			wantErr:     true,
			description: "Request body is required",
		},
		{
			name:        "broken json",
			body:        `{"items":`,
			wantErr:     true,
			description: "Invalid JSON",
		},
		{
			name:        "field errors use json names",
			body:        `{"items":[],"requirements":[{"_tpl":"","count":0}],"limit":500}`,
			wantErr:     true,
			description: "items: min=1; requirements[0]._tpl: required; requirements[0].count: gt=0; limit: max=100",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rq := require.New(t)

			r := httptest.NewRequest(http.MethodPost, "/v1/market/offers", strings.NewReader(tc.body))

			var dest createOffer

			err := req.Read(r, &dest)
			if !tc.wantErr {
				rq.NoError(err)
				rq.Equal([]string{"i1"}, dest.Items)

				return
			}

			rq.Error(err)
			rq.True(failure.IsInvalidArgumentError(err))
			rq.Equal(tc.description, failure.Description(err))
		})
	}
}
