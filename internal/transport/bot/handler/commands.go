package handler

import (
	"strings"

	"github.com/mymmrac/telego"
	th "github.com/mymmrac/telego/telegohandler"
	tu "github.com/mymmrac/telego/telegoutil"

	"flea_market/internal/transport/bot/view"
)

func (h *Handler) OnStart(ctx *th.Context, msg telego.Message) error {
	return h.sendHTML(ctx, msg.Chat.ID, view.StartMessage)
}

func (h *Handler) OnStatus(ctx *th.Context, msg telego.Message) error {
	return h.sendHTML(ctx, msg.Chat.ID, view.Status(h.scheduler.IsRunning(), h.offers.CountBySeller()))
}

func (h *Handler) OnStartMarket(ctx *th.Context, msg telego.Message) error {
	if h.scheduler.IsRunning() {
		return h.sendHTML(ctx, msg.Chat.ID, view.SchedulerAlreadyRunning)
	}

	if err := h.scheduler.Start(h.ctx); err != nil {
		return h.sendHTML(ctx, msg.Chat.ID, view.Failure(err))
	}

	return h.sendHTML(ctx, msg.Chat.ID, view.SchedulerStarted)
}

func (h *Handler) OnStopMarket(ctx *th.Context, msg telego.Message) error {
	if !h.scheduler.IsRunning() {
		return h.sendHTML(ctx, msg.Chat.ID, view.SchedulerNotRunning)
	}

	h.scheduler.Stop()

	return h.sendHTML(ctx, msg.Chat.ID, view.SchedulerStopped)
}

// OnUpdate выполняет один тик планировщика вне расписания.
func (h *Handler) OnUpdate(ctx *th.Context, msg telego.Message) error {
	stats := h.scheduler.Update(ctx)

	return h.sendHTML(ctx, msg.Chat.ID, view.Update(stats))
}

// OnRefresh перечитывает ассортимент торговца.
// Использование: /refresh 54cb50c76803fa8b248b4571
func (h *Handler) OnRefresh(ctx *th.Context, msg telego.Message) error {
	traderID, ok := argument(msg.Text)
	if !ok {
		return h.sendHTML(ctx, msg.Chat.ID, view.RefreshUsage)
	}

	if err := h.scheduler.RefreshTrader(ctx, traderID); err != nil {
		return h.sendHTML(ctx, msg.Chat.ID, view.Failure(err))
	}

	return h.sendHTML(ctx, msg.Chat.ID, view.Refreshed(traderID))
}

// OnPrice показывает цены текущих лотов по шаблону.
// Использование: /price 5447a9cd4bdc2dbd208b4567
func (h *Handler) OnPrice(ctx *th.Context, msg telego.Message) error {
	tpl, ok := argument(msg.Text)
	if !ok {
		return h.sendHTML(ctx, msg.Chat.ID, view.PriceUsage)
	}

	stats, err := h.prices.PriceStats(ctx, tpl)
	if err != nil {
		return h.sendHTML(ctx, msg.Chat.ID, view.Failure(err))
	}

	return h.sendHTML(ctx, msg.Chat.ID, view.Price(tpl, stats))
}

func argument(text string) (string, bool) {
	parts := strings.Fields(text)
	if len(parts) < 2 {
		return "", false
	}

	return parts[1], true
}

func (h *Handler) sendHTML(ctx *th.Context, chatID int64, text string) error {
	_, err := ctx.Bot().SendMessage(ctx, tu.Message(tu.ID(chatID), text).WithParseMode(telego.ModeHTML))
	return err
}
