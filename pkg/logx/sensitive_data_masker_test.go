package logx_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"flea_market/pkg/logx"
)

func TestSensitiveDataMaskerMask(t *testing.T) {
	masker := logx.NewSensitiveDataMasker("nickname")

	testCases := []struct {
		name   string
		input  string
		output string
	}{
		{
			name:   "password",
			input:  `{"hello":"world","Password":"abc123"}`,
			output: `{"hello":"world","Password":"[MASKED]"}`,
		},
		{
			name:   "token",
			input:  `{"token":"123456:AAE","chatId":42}`,
			output: `{"token":"[MASKED]","chatId":42}`,
		},
		{
			name:   "dsn credentials",
			input:  `dial postgres://market:s3cret@db:5432/market failed`,
			output: `dial postgres://market:[MASKED]@db:5432/market failed`,
		},
		{
			name:   "telegram bot url",
			input:  `Post "https://api.telegram.org/bot123456:AAE-x_y/sendMessage"`,
			output: `Post "https://api.telegram.org/bot123456:[MASKED]/sendMessage"`,
		},
		{
			name:   "extra field",
			input:  `{"user":{"nickname": "Killa","level":42}}`,
			output: `{"user":{"nickname": "[MASKED]","level":42}}`,
		},
		{
			name:   "offer payload untouched",
			input:  `{"_id":"o1","items":[{"_tpl":"5447a9cd4bdc2dbd208b4567"}],"summaryCost":45000}`,
			output: `{"_id":"o1","items":[{"_tpl":"5447a9cd4bdc2dbd208b4567"}],"summaryCost":45000}`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			output := masker.Mask([]byte(tc.input))

			require.Equal(t, tc.output, string(output))
		})
	}
}
