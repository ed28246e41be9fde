package notifier

import (
	"context"
	"errors"
	"fmt"
	"html"
	"log/slog"

	"github.com/mymmrac/telego"
	tu "github.com/mymmrac/telego/telegoutil"

	"flea_market/internal/domain/service/trade"
	"flea_market/pkg/logx"
)

const queueSize = 256

var ErrQueueFull = errors.New("notification queue is full")

type Sender interface {
	SendMessage(ctx context.Context, params *telego.SendMessageParams) (*telego.Message, error)
}

// TelegramBot пересылает уведомления о продажах лотов игроков в чат
// оператора. Отправка идёт в Run, покупка не ждёт Telegram.
type TelegramBot struct {
	sender  Sender
	chatID  int64
	notices chan trade.SaleNotice
}

func NewTelegramBot(token string, chatID int64) (*TelegramBot, error) {
	bot, err := telego.NewBot(token)
	if err != nil {
		return nil, fmt.Errorf("create bot: %w", err)
	}

	return NewTelegramBotWithSender(bot, chatID), nil
}

func NewTelegramBotWithSender(sender Sender, chatID int64) *TelegramBot {
	return &TelegramBot{
		sender:  sender,
		chatID:  chatID,
		notices: make(chan trade.SaleNotice, queueSize),
	}
}

// NotifySale ставит уведомление в очередь. Если очередь заполнена,
// уведомление теряется.
func (b *TelegramBot) NotifySale(_ context.Context, n trade.SaleNotice) error {
	select {
	case b.notices <- n:
		return nil
	default:
		return ErrQueueFull
	}
}

// Run отправляет уведомления из очереди до отмены контекста.
func (b *TelegramBot) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case n := <-b.notices:
			if err := b.SendSale(ctx, n); err != nil {
				logger(ctx).Error("failed to send sale notice", slog.String(logx.FieldOfferID, n.OfferID), logx.Error(err))
			}
		}
	}
}

func (b *TelegramBot) SendSale(ctx context.Context, n trade.SaleNotice) error {
	msg := tu.Message(
		tu.ID(b.chatID),
		FormatSale(n),
	).WithParseMode(telego.ModeHTML)

	if _, err := b.sender.SendMessage(ctx, msg); err != nil {
		return fmt.Errorf("send message: %w", err)
	}

	return nil
}

// SendText отправляет простое текстовое сообщение.
func (b *TelegramBot) SendText(ctx context.Context, text string) error {
	_, err := b.sender.SendMessage(ctx, tu.Message(tu.ID(b.chatID), text))
	return err
}

func FormatSale(n trade.SaleNotice) string {
	return fmt.Sprintf(
		"💰 <b>Offer sold</b>\n\n"+
			"📦 <b>Item:</b> %s\n"+
			"🔢 <b>Amount:</b> %d\n"+
			"💵 <b>Total:</b> %.0f ₽\n"+
			"👤 <b>Seller:</b> %s\n"+
			"🏷 <b>Offer:</b> <code>%s</code>",
		html.EscapeString(n.Name),
		n.Amount,
		n.Roubles,
		html.EscapeString(n.SellerID),
		html.EscapeString(n.OfferID),
	)
}

// Log пишет уведомления в лог, когда бот не настроен.
type Log struct{}

func (Log) NotifySale(ctx context.Context, n trade.SaleNotice) error {
	logger(ctx).Info("offer sold",
		slog.String(logx.FieldOfferID, n.OfferID),
		slog.String(logx.FieldProfileID, n.SellerID),
		slog.String(logx.FieldTemplateID, n.Tpl),
		slog.Int(logx.FieldCount, n.Amount),
		slog.Float64("roubles", n.Roubles),
	)

	return nil
}
