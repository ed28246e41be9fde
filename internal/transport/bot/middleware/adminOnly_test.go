package middleware_test

import (
	"testing"

	"github.com/mymmrac/telego"
	"github.com/stretchr/testify/require"

	"flea_market/internal/transport/bot/middleware"
)

func TestFromAdmin(t *testing.T) {
	testCases := []struct {
		name   string
		update telego.Update
		want   bool
	}{
		{
			name:   "admin message",
			update: telego.Update{Message: &telego.Message{From: &telego.User{ID: 42}}},
			want:   true,
		},
		{
			name:   "stranger message",
			update: telego.Update{Message: &telego.Message{From: &telego.User{ID: 7}}},
		},
		{
			name:   "message without sender",
			update: telego.Update{Message: &telego.Message{}},
		},
		{
			name:   "admin callback",
			update: telego.Update{CallbackQuery: &telego.CallbackQuery{From: telego.User{ID: 42}}},
			want:   true,
		},
		{
			name:   "other update",
			update: telego.Update{},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, middleware.FromAdmin(tc.update, 42))
		})
	}
}
