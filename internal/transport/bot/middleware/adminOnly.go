package middleware

import (
	"github.com/mymmrac/telego"
	th "github.com/mymmrac/telego/telegohandler"
)

// AdminOnly пропускает дальше только обновления от оператора.
func AdminOnly(adminID int64) th.Handler {
	return func(ctx *th.Context, update telego.Update) error {
		if !FromAdmin(update, adminID) {
			return nil
		}

		return ctx.Next(update)
	}
}

func FromAdmin(update telego.Update, adminID int64) bool {
	switch {
	case update.Message != nil && update.Message.From != nil:
		return update.Message.From.ID == adminID
	case update.CallbackQuery != nil:
		return update.CallbackQuery.From.ID == adminID
	default:
		return false
	}
}
