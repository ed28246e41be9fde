package config

import (
	"context"
	"log/slog"
	"time"
)

// Market настройки рынка. Незаданные и нулевые значения заменяет Normalize.
type Market struct {
	UpdateInterval        time.Duration `env:"UPDATE_INTERVAL"`
	ExpiredOfferThreshold int           `env:"EXPIRED_OFFER_THRESHOLD"`
	// MaxOffersPerTemplate предел бот-лотов на шаблон, 0 без ограничения.
	MaxOffersPerTemplate int `env:"MAX_OFFERS_PER_TEMPLATE"`
	// TraderIDs торговцы, чей ассортимент дублируется на рынок. Пусто: все.
	TraderIDs             []string `env:"TRADERS" envSeparator:","`
	Blacklist             []string `env:"BLACKLIST" envSeparator:","`
	CheckCanSellOnRagfair bool     `env:"CHECK_CAN_SELL_ON_RAGFAIR" envDefault:"true"`
	GeneratorWorkers      int      `env:"GENERATOR_WORKERS"`

	OfferItemCountMin    int     `env:"OFFER_ITEM_COUNT_MIN"`
	OfferItemCountMax    int     `env:"OFFER_ITEM_COUNT_MAX"`
	NonStackableCountMin int     `env:"NON_STACKABLE_COUNT_MIN"`
	NonStackableCountMax int     `env:"NON_STACKABLE_COUNT_MAX"`
	StackablePercentMin  float64 `env:"STACKABLE_PERCENT_MIN"`
	StackablePercentMax  float64 `env:"STACKABLE_PERCENT_MAX"`

	BotRatingMin        float64       `env:"BOT_RATING_MIN"`
	BotRatingMax        float64       `env:"BOT_RATING_MAX"`
	BotEndTimeMin       time.Duration `env:"BOT_END_TIME_MIN"`
	BotEndTimeMax       time.Duration `env:"BOT_END_TIME_MAX"`
	PlayerOfferDuration time.Duration `env:"PLAYER_OFFER_DURATION"`

	BarterEnabled              bool    `env:"BARTER_ENABLED" envDefault:"true"`
	BarterChancePercent        float64 `env:"BARTER_CHANCE_PERCENT"`
	BarterItemCountMin         int     `env:"BARTER_ITEM_COUNT_MIN"`
	BarterItemCountMax         int     `env:"BARTER_ITEM_COUNT_MAX"`
	BarterPriceVariancePercent float64 `env:"BARTER_PRICE_VARIANCE_PERCENT"`
	BarterMinRoubleCost        float64 `env:"BARTER_MIN_ROUBLE_COST"`

	PackEnabled       bool    `env:"PACK_ENABLED" envDefault:"true"`
	PackChancePercent float64 `env:"PACK_CHANCE_PERCENT"`
	PackItemCountMin  int     `env:"PACK_ITEM_COUNT_MIN"`
	PackItemCountMax  int     `env:"PACK_ITEM_COUNT_MAX"`

	// CurrencyWeights веса валют бот-лотов, например RUB:78,USD:14,EUR:8.
	CurrencyWeights map[string]float64 `env:"CURRENCY_WEIGHTS"`

	AdjustmentEnabled       bool               `env:"PRICE_ADJUSTMENT_ENABLED" envDefault:"true"`
	MaxBelowHandbookPercent float64            `env:"PRICE_MAX_BELOW_HANDBOOK_PERCENT"`
	HandbookMultiplier      float64            `env:"PRICE_HANDBOOK_MULTIPLIER"`
	AdjustPriceThreshold    float64            `env:"PRICE_ADJUST_THRESHOLD"`
	UseTraderPriceIfHigher  bool               `env:"PRICE_USE_TRADER_IF_HIGHER"`
	ItemPriceMultiplier     map[string]float64 `env:"PRICE_ITEM_MULTIPLIER"`
	DefaultRangeMin         float64            `env:"PRICE_DEFAULT_RANGE_MIN"`
	DefaultRangeMax         float64            `env:"PRICE_DEFAULT_RANGE_MAX"`
	PresetRangeMin          float64            `env:"PRICE_PRESET_RANGE_MIN"`
	PresetRangeMax          float64            `env:"PRICE_PRESET_RANGE_MAX"`
	PackRangeMin            float64            `env:"PRICE_PACK_RANGE_MIN"`
	PackRangeMax            float64            `env:"PRICE_PACK_RANGE_MAX"`

	ItemTaxPercent        float64 `env:"TAX_ITEM_PERCENT"`
	RequirementTaxPercent float64 `env:"TAX_REQUIREMENT_PERCENT"`

	SellEnabled           bool          `env:"SELL_ENABLED" envDefault:"true"`
	SellBaseChancePercent float64       `env:"SELL_BASE_CHANCE_PERCENT"`
	SellMinChancePercent  float64       `env:"SELL_MIN_CHANCE_PERCENT"`
	SellMaxChancePercent  float64       `env:"SELL_MAX_CHANCE_PERCENT"`
	SellMinDelay          time.Duration `env:"SELL_MIN_DELAY"`
	SellMaxDelay          time.Duration `env:"SELL_MAX_DELAY"`

	RatingSumForIncrease float64 `env:"RATING_SUM_FOR_INCREASE"`
	RatingIncreaseCount  float64 `env:"RATING_INCREASE_COUNT"`
	RatingExpiryPenalty  float64 `env:"RATING_EXPIRY_PENALTY"`

	// ConditionRules износ бот-лотов: базовый класс и шанс/мин/макс,
	// например 5422acb9af1c889c16000029:30/0.45/1.
	ConditionRules map[string]string `env:"CONDITION_RULES"`

	CancelGrace   time.Duration `env:"CANCEL_GRACE"`
	StatsCacheTTL time.Duration `env:"STATS_CACHE_TTL"`
}

type number interface {
	~int | ~int64 | ~float64
}

type normalizer struct {
	ctx      context.Context //nolint:containedctx
	replaced int
}

func orDefault[T number](n *normalizer, name string, v *T, def T) {
	if *v > 0 {
		return
	}

	logger(n.ctx).Warn("market setting is not set, using default",
		slog.String("setting", name),
		slog.Any("default", def),
	)

	*v = def
	n.replaced++
}

// orderedPair чинит перевёрнутый диапазон, сбрасывая обе границы.
func orderedPair[T number](n *normalizer, name string, lo, hi *T, defLo, defHi T) {
	orDefault(n, name+"_MIN", lo, defLo)
	orDefault(n, name+"_MAX", hi, defHi)

	if *lo <= *hi {
		return
	}

	logger(n.ctx).Warn("market setting range is inverted, using default",
		slog.String("setting", name),
		slog.Any("min", *lo),
		slog.Any("max", *hi),
	)

	*lo, *hi = defLo, defHi
	n.replaced++
}

// Normalize подставляет значения по умолчанию вместо незаданных настроек и
// возвращает число замен. Каждая замена пишется в лог предупреждением.
func (m *Market) Normalize(ctx context.Context) int {
	n := &normalizer{ctx: ctx}

	orDefault(n, "UPDATE_INTERVAL", &m.UpdateInterval, time.Minute)
	orDefault(n, "EXPIRED_OFFER_THRESHOLD", &m.ExpiredOfferThreshold, 1)
	orDefault(n, "GENERATOR_WORKERS", &m.GeneratorWorkers, 8)

	orderedPair(n, "OFFER_ITEM_COUNT", &m.OfferItemCountMin, &m.OfferItemCountMax, 7, 30)
	orderedPair(n, "NON_STACKABLE_COUNT", &m.NonStackableCountMin, &m.NonStackableCountMax, 1, 10)
	orderedPair(n, "STACKABLE_PERCENT", &m.StackablePercentMin, &m.StackablePercentMax, 10, 500)

	orderedPair(n, "BOT_RATING", &m.BotRatingMin, &m.BotRatingMax, 0.1, 0.95)
	orderedPair(n, "BOT_END_TIME", &m.BotEndTimeMin, &m.BotEndTimeMax, 3*time.Minute, 30*time.Minute)
	orDefault(n, "PLAYER_OFFER_DURATION", &m.PlayerOfferDuration, 12*time.Hour)

	orDefault(n, "BARTER_CHANCE_PERCENT", &m.BarterChancePercent, 15)
	orderedPair(n, "BARTER_ITEM_COUNT", &m.BarterItemCountMin, &m.BarterItemCountMax, 1, 5)
	orDefault(n, "BARTER_PRICE_VARIANCE_PERCENT", &m.BarterPriceVariancePercent, 20)
	orDefault(n, "BARTER_MIN_ROUBLE_COST", &m.BarterMinRoubleCost, 8000)

	orDefault(n, "PACK_CHANCE_PERCENT", &m.PackChancePercent, 20)
	orderedPair(n, "PACK_ITEM_COUNT", &m.PackItemCountMin, &m.PackItemCountMax, 5, 30)

	if len(m.CurrencyWeights) == 0 {
		logger(ctx).Warn("market setting is not set, using default", slog.String("setting", "CURRENCY_WEIGHTS"))

		m.CurrencyWeights = map[string]float64{"RUB": 78, "USD": 14, "EUR": 8}
		n.replaced++
	}

	orDefault(n, "PRICE_MAX_BELOW_HANDBOOK_PERCENT", &m.MaxBelowHandbookPercent, 64)
	orDefault(n, "PRICE_HANDBOOK_MULTIPLIER", &m.HandbookMultiplier, 1.1)
	orDefault(n, "PRICE_ADJUST_THRESHOLD", &m.AdjustPriceThreshold, 1000)
	orderedPair(n, "PRICE_DEFAULT_RANGE", &m.DefaultRangeMin, &m.DefaultRangeMax, 0.8, 1.2)
	orderedPair(n, "PRICE_PRESET_RANGE", &m.PresetRangeMin, &m.PresetRangeMax, 0.85, 1.15)
	orderedPair(n, "PRICE_PACK_RANGE", &m.PackRangeMin, &m.PackRangeMax, 0.9, 1.1)

	orDefault(n, "TAX_ITEM_PERCENT", &m.ItemTaxPercent, 3)
	orDefault(n, "TAX_REQUIREMENT_PERCENT", &m.RequirementTaxPercent, 3)

	orDefault(n, "SELL_BASE_CHANCE_PERCENT", &m.SellBaseChancePercent, 50)
	orderedPair(n, "SELL_CHANCE_PERCENT", &m.SellMinChancePercent, &m.SellMaxChancePercent, 5, 95)
	orderedPair(n, "SELL_DELAY", &m.SellMinDelay, &m.SellMaxDelay, time.Minute, 30*time.Minute)

	orDefault(n, "RATING_SUM_FOR_INCREASE", &m.RatingSumForIncrease, 10000)
	orDefault(n, "RATING_INCREASE_COUNT", &m.RatingIncreaseCount, 0.04)
	orDefault(n, "RATING_EXPIRY_PENALTY", &m.RatingExpiryPenalty, 0.1)

	n.conditionRules(&m.ConditionRules)

	orDefault(n, "CANCEL_GRACE", &m.CancelGrace, 71*time.Second)
	orDefault(n, "STATS_CACHE_TTL", &m.StatsCacheTTL, 10*time.Second)

	return n.replaced
}
