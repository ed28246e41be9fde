package application

import (
	"github.com/samber/lo"

	"flea_market/internal/config"
	"flea_market/internal/domain/service/assort"
	"flea_market/internal/domain/service/generator"
	"flea_market/internal/domain/service/offer"
	"flea_market/internal/domain/service/price"
	"flea_market/internal/domain/service/trade"
	"flea_market/internal/domain/value"
)

func priceConfig(m config.Market) price.Config {
	cfg := price.DefaultConfig()

	cfg.Adjustment = price.Adjustment{
		Enabled:                 m.AdjustmentEnabled,
		MaxBelowHandbookPercent: m.MaxBelowHandbookPercent,
		HandbookMultiplier:      m.HandbookMultiplier,
		PriceThreshold:          m.AdjustPriceThreshold,
	}
	cfg.UseTraderPriceIfHigher = m.UseTraderPriceIfHigher
	cfg.ItemPriceMultiplier = m.ItemPriceMultiplier
	cfg.DefaultRange = price.Range{Min: m.DefaultRangeMin, Max: m.DefaultRangeMax}
	cfg.PresetRange = price.Range{Min: m.PresetRangeMin, Max: m.PresetRangeMax}
	cfg.PackRange = price.Range{Min: m.PackRangeMin, Max: m.PackRangeMax}

	return cfg
}

func conditionRules(m config.Market) map[string]offer.ConditionRule {
	return lo.MapValues(m.Conditions(), func(r config.ConditionRule, _ string) offer.ConditionRule {
		return offer.ConditionRule{ChancePercent: r.ChancePercent, Min: r.Min, Max: r.Max}
	})
}

func factoryConfig(m config.Market) offer.FactoryConfig {
	return offer.FactoryConfig{
		BotRatingMin:        m.BotRatingMin,
		BotRatingMax:        m.BotRatingMax,
		BotEndTimeMin:       int64(m.BotEndTimeMin.Seconds()),
		BotEndTimeMax:       int64(m.BotEndTimeMax.Seconds()),
		PlayerOfferDuration: m.PlayerOfferDuration,
	}
}

func generatorConfig(m config.Market) generator.Config {
	cfg := generator.DefaultConfig()

	cfg.OfferItemCountMin = m.OfferItemCountMin
	cfg.OfferItemCountMax = m.OfferItemCountMax
	cfg.NonStackableCountMin = m.NonStackableCountMin
	cfg.NonStackableCountMax = m.NonStackableCountMax
	cfg.StackablePercentMin = m.StackablePercentMin
	cfg.StackablePercentMax = m.StackablePercentMax

	cfg.Barter.Enabled = m.BarterEnabled
	cfg.Barter.ChancePercent = m.BarterChancePercent
	cfg.Barter.ItemCountMin = m.BarterItemCountMin
	cfg.Barter.ItemCountMax = m.BarterItemCountMax
	cfg.Barter.PriceRangeVariancePercent = m.BarterPriceVariancePercent
	cfg.Barter.MinRoubleCostToBecomeBarter = m.BarterMinRoubleCost

	cfg.Pack.Enabled = m.PackEnabled
	cfg.Pack.ChancePercent = m.PackChancePercent
	cfg.Pack.ItemCountMin = m.PackItemCountMin
	cfg.Pack.ItemCountMax = m.PackItemCountMax

	cfg.CurrencyWeights = lo.MapKeys(
		lo.PickBy(m.CurrencyWeights, func(c string, _ float64) bool { return value.Currency(c).Valid() }),
		func(_ float64, c string) value.Currency { return value.Currency(c) },
	)
	cfg.Blacklist = m.Blacklist
	cfg.CheckCanSellOnRagfair = m.CheckCanSellOnRagfair
	cfg.Workers = m.GeneratorWorkers

	return cfg
}

func assortConfig(m config.Market, traderIDs []string) assort.Config {
	if len(m.TraderIDs) > 0 {
		traderIDs = m.TraderIDs
	}

	return assort.Config{
		TraderIDs:             traderIDs,
		Blacklist:             m.Blacklist,
		CheckCanSellOnRagfair: m.CheckCanSellOnRagfair,
	}
}

func tradeConfig(m config.Market) trade.Config {
	return trade.Config{
		Tax: trade.TaxConfig{
			CommunityItemTaxPercent:        m.ItemTaxPercent,
			CommunityRequirementTaxPercent: m.RequirementTaxPercent,
		},
		Sell: trade.SellConfig{
			Enabled:           m.SellEnabled,
			BaseChancePercent: m.SellBaseChancePercent,
			MinChancePercent:  m.SellMinChancePercent,
			MaxChancePercent:  m.SellMaxChancePercent,
			MinDelay:          m.SellMinDelay,
			MaxDelay:          m.SellMaxDelay,
		},
		Rating: trade.RatingConfig{
			SumForIncrease: m.RatingSumForIncrease,
			IncreaseCount:  m.RatingIncreaseCount,
			ExpiryPenalty:  m.RatingExpiryPenalty,
		},
		CancelGrace:   m.CancelGrace,
		StatsCacheTTL: m.StatsCacheTTL,
	}
}
