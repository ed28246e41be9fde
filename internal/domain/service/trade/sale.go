package trade

import (
	"math"
	"time"

	"flea_market/internal/domain/entity"
	"flea_market/pkg/randx"
)

// SellChance шанс, что лот игрока купят. Дешевле рынка и в хорошем
// состоянии продаётся охотнее.
func SellChance(cfg SellConfig, marketPrice, listedPrice, quality float64) float64 {
	if listedPrice <= 0 {
		return cfg.MaxChancePercent
	}

	ratio := marketPrice / listedPrice
	chance := cfg.BaseChancePercent * quality * math.Pow(ratio, 3)

	return math.Round(min(max(chance, cfg.MinChancePercent), cfg.MaxChancePercent))
}

// RollSales расписание покупок лота от start до end. Каждая неудачная
// проверка шанса завершает расписание.
func RollSales(rnd *randx.Rand, cfg SellConfig, chance float64, count int, whole bool, start, end int64) []entity.SellResult {
	var out []entity.SellResult

	sellTime := start
	remaining := count

	for remaining > 0 {
		if !rnd.Chance(chance) {
			break
		}

		delay := rnd.FloatRange(cfg.MinDelay.Seconds(), cfg.MaxDelay.Seconds())
		// чем выше шанс, тем быстрее находится покупатель
		sellTime += max(int64(delay*(1-chance/100)), int64(cfg.MinDelay/time.Second))

		if sellTime >= end {
			break
		}

		amount := remaining
		if !whole {
			amount = rnd.IntRange(1, remaining)
		}

		out = append(out, entity.SellResult{SellTime: sellTime, Amount: amount})
		remaining -= amount
	}

	return out
}
