package trade

import "time"

type TaxConfig struct {
	CommunityItemTaxPercent        float64
	CommunityRequirementTaxPercent float64
}

// SellConfig симуляция покупок лотов игрока.
type SellConfig struct {
	Enabled           bool
	BaseChancePercent float64
	MinChancePercent  float64
	MaxChancePercent  float64
	MinDelay          time.Duration
	MaxDelay          time.Duration
}

type RatingConfig struct {
	// за каждые SumForIncrease рублей продаж рейтинг растёт на IncreaseCount.
	SumForIncrease float64
	IncreaseCount  float64
	// ExpiryPenalty штраф за лот, который никто не купил.
	ExpiryPenalty float64
}

type Config struct {
	Tax    TaxConfig
	Sell   SellConfig
	Rating RatingConfig
	// CancelGrace через сколько снятый лот уходит с рынка.
	CancelGrace   time.Duration
	StatsCacheTTL time.Duration
}

func DefaultConfig() Config {
	return Config{
		Tax: TaxConfig{
			CommunityItemTaxPercent:        3,
			CommunityRequirementTaxPercent: 3,
		},
		Sell: SellConfig{
			Enabled:           true,
			BaseChancePercent: 50,
			MinChancePercent:  5,
			MaxChancePercent:  95,
			MinDelay:          time.Minute,
			MaxDelay:          30 * time.Minute,
		},
		Rating: RatingConfig{
			SumForIncrease: 10000,
			IncreaseCount:  0.04,
			ExpiryPenalty:  0.1,
		},
		CancelGrace:   71 * time.Second,
		StatsCacheTTL: 10 * time.Second,
	}
}
