package handler

import (
	th "github.com/mymmrac/telego/telegohandler"

	"flea_market/internal/transport/bot/middleware"
)

func (h *Handler) RegisterRoutes(bh *th.BotHandler, adminID int64) {
	adminGroup := bh.Group(th.AnyMessage())
	adminGroup.Use(middleware.AdminOnly(adminID))

	adminGroup.HandleMessage(h.OnStart, th.CommandEqual("start"))
	adminGroup.HandleMessage(h.OnStatus, th.CommandEqual("status"))
	adminGroup.HandleMessage(h.OnStartMarket, th.CommandEqual("startmarket"))
	adminGroup.HandleMessage(h.OnStopMarket, th.CommandEqual("stopmarket"))
	adminGroup.HandleMessage(h.OnUpdate, th.CommandEqual("update"))
	adminGroup.HandleMessage(h.OnRefresh, th.CommandEqual("refresh"))
	adminGroup.HandleMessage(h.OnPrice, th.CommandEqual("price"))
}
