package bot

import (
	"context"
	"errors"
	"fmt"

	"github.com/mymmrac/telego"
	th "github.com/mymmrac/telego/telegohandler"

	"flea_market/internal/transport/bot/handler"
	"flea_market/pkg/contextx"
	"flea_market/pkg/logx"
)

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

// Bot консоль оператора рынка в Telegram.
type Bot struct {
	bot     *telego.Bot
	handler *handler.Handler
	adminID int64
}

func New(token string, adminID int64, h *handler.Handler) (*Bot, error) {
	bot, err := telego.NewBot(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}

	return &Bot{
		bot:     bot,
		handler: h,
		adminID: adminID,
	}, nil
}

// Run принимает команды long polling до отмены контекста.
func (b *Bot) Run(ctx context.Context) error {
	updates, err := b.bot.UpdatesViaLongPolling(ctx, &telego.GetUpdatesParams{
		Timeout: 60,
	})
	if err != nil {
		return fmt.Errorf("failed to get updates: %w", err)
	}

	botHandler, err := th.NewBotHandler(b.bot, updates)
	if err != nil {
		return fmt.Errorf("failed to create bot handler: %w", err)
	}

	b.handler.RegisterRoutes(botHandler, b.adminID)

	go func() {
		if err := botHandler.Start(); err != nil {
			logger(ctx).Error("bot handler stopped", logx.Error(err))
		}
	}()

	logger(ctx).Info("operator bot started")

	<-ctx.Done()

	if err := botHandler.Stop(); err != nil {
		logger(ctx).Error("failed to stop bot handler", logx.Error(err))
	}

	if errors.Is(ctx.Err(), context.Canceled) {
		return nil
	}

	return ctx.Err()
}
