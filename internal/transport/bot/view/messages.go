package view

import (
	"fmt"
	"html"
	"strings"

	"flea_market/internal/domain/entity"
	"flea_market/internal/domain/value"
	"flea_market/internal/worker"
)

const (
	StartMessage = "🛒 <b>Консоль рынка</b>\n\n" +
		"/status - состояние рынка\n" +
		"/startmarket - запустить планировщик\n" +
		"/stopmarket - остановить планировщик\n" +
		"/update - обновить рынок сейчас\n" +
		"/refresh <code>traderId</code> - перечитать ассортимент торговца\n" +
		"/price <code>tpl</code> - цены лотов по шаблону"

	SchedulerAlreadyRunning = "Планировщик уже запущен!"
	SchedulerNotRunning     = "Планировщик не запущен!"
	SchedulerStarted        = "Планировщик запущен!"
	SchedulerStopped        = "Планировщик остановлен!"

	RefreshUsage = "❌ Использование: /refresh <code>traderId</code>"
	PriceUsage   = "❌ Использование: /price <code>tpl</code>"
)

func Status(running bool, counts map[value.SellerType]int) string {
	state := "🔴 остановлен"
	if running {
		state = "🟢 работает"
	}

	var sb strings.Builder

	fmt.Fprintf(&sb, "📊 <b>Статус рынка</b>\n\n🔄 <b>Планировщик:</b> %s\n", state)

	total := 0

	for _, t := range value.SellerTypes() {
		fmt.Fprintf(&sb, "📦 <b>%s:</b> %d\n", t, counts[t])
		total += counts[t]
	}

	fmt.Fprintf(&sb, "Σ <b>всего:</b> %d", total)

	return sb.String()
}

func Update(s worker.UpdateStats) string {
	return fmt.Sprintf("✅ <b>Рынок обновлён</b>\n\n"+
		"продано: %d\nснято: %d\nторговцев обновлено: %d\nлотов ботов: %d\nтребований: %d",
		s.Sold, s.Expired, s.Refreshed, s.Regenerated, s.Required)
}

func Refreshed(traderID string) string {
	return fmt.Sprintf("✅ Ассортимент <code>%s</code> обновлён", html.EscapeString(traderID))
}

func Price(tpl string, s entity.PriceStats) string {
	return fmt.Sprintf("💰 <code>%s</code>\n\nмин: %.0f ₽\nсредняя: %.0f ₽\nмакс: %.0f ₽",
		html.EscapeString(tpl), s.Min, s.Avg, s.Max)
}

func Failure(err error) string {
	return "❌ " + html.EscapeString(err.Error())
}
