package generator

import "flea_market/internal/domain/value"

type BarterConfig struct {
	Enabled       bool
	ChancePercent float64
	ItemCountMin  int
	ItemCountMax  int
	// PriceRangeVariancePercent допустимое отклонение цены предмета-оплаты.
	PriceRangeVariancePercent float64
	// MinRoubleCostToBecomeBarter дешёвые лоты всегда продаются за валюту.
	MinRoubleCostToBecomeBarter float64
	// ItemTypeBlacklist базовые классы, которые нельзя просить в оплату.
	ItemTypeBlacklist []string
}

type PackConfig struct {
	Enabled       bool
	ChancePercent float64
	ItemCountMin  int
	ItemCountMax  int
	// ItemTypeWhitelist базовые классы, которые можно продавать пачкой.
	ItemTypeWhitelist []string
}

type Config struct {
	OfferItemCountMin int
	OfferItemCountMax int

	NonStackableCountMin int
	NonStackableCountMax int
	// StackablePercentMin/Max доля максимального стака в процентах.
	StackablePercentMin float64
	StackablePercentMax float64

	Barter BarterConfig
	Pack   PackConfig

	CurrencyWeights map[value.Currency]float64
	// Blacklist шаблоны, которые боты не выставляют.
	Blacklist []string
	// CheckCanSellOnRagfair учитывать флаг шаблона «можно продавать на рынке».
	CheckCanSellOnRagfair bool
	// Workers число параллельных задач генерации.
	Workers int
}

func DefaultConfig() Config {
	return Config{
		OfferItemCountMin:    7,
		OfferItemCountMax:    30,
		NonStackableCountMin: 1,
		NonStackableCountMax: 10,
		StackablePercentMin:  10,
		StackablePercentMax:  500,
		Barter: BarterConfig{
			Enabled:                     true,
			ChancePercent:               15,
			ItemCountMin:                1,
			ItemCountMax:                5,
			PriceRangeVariancePercent:   20,
			MinRoubleCostToBecomeBarter: 8000,
			ItemTypeBlacklist:           []string{value.BaseClassMoney, value.BaseClassInfo},
		},
		Pack: PackConfig{
			Enabled:       true,
			ChancePercent: 20,
			ItemCountMin:  5,
			ItemCountMax:  30,
			ItemTypeWhitelist: []string{
				value.BaseClassAmmo,
				value.BaseClassFood,
				value.BaseClassDrink,
				value.BaseClassBarterItem,
			},
		},
		CurrencyWeights: map[value.Currency]float64{
			value.RUB: 78,
			value.USD: 14,
			value.EUR: 8,
		},
		CheckCanSellOnRagfair: true,
		Workers:               8,
	}
}
