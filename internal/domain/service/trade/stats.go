package trade

import (
	"context"
	"math"

	"github.com/patrickmn/go-cache"
	"github.com/samber/lo"

	"flea_market/internal/domain"
	"flea_market/internal/domain/entity"
)

type cachedStats struct {
	version uint64
	stats   entity.PriceStats
}

// PriceStats цены по текущим лотам игроков и ботов за валюту. Если таких
// лотов нет, все три значения равны рыночной цене шаблона. Кэш живёт
// StatsCacheTTL и сбрасывается при любом изменении лотов шаблона.
func (s *Service) PriceStats(ctx context.Context, tpl string) (entity.PriceStats, error) {
	version := s.registry.Version(tpl)

	if v, ok := s.statsCache.Get(tpl); ok {
		if c := v.(cachedStats); c.version == version { //nolint:forcetypeassert
			return c.stats, nil
		}
	}

	if _, ok := s.catalog.Template(tpl); !ok {
		return entity.PriceStats{}, domain.ErrItemNotFound(tpl)
	}

	now := s.now().Unix()

	prices := lo.FilterMap(s.registry.ByTemplate(tpl), func(o entity.Offer, _ int) (float64, bool) {
		return o.SummaryCost, !o.IsTrader() && !o.IsBarter() && !o.IsStale(now) && o.SummaryCost > 0
	})

	var stats entity.PriceStats

	if len(prices) == 0 {
		p := s.prices.MarketPrice(tpl)
		stats = entity.PriceStats{Min: p, Avg: p, Max: p}
	} else {
		stats = entity.PriceStats{
			Min: lo.Min(prices),
			Avg: math.Round(lo.Sum(prices) / float64(len(prices))),
			Max: lo.Max(prices),
		}
	}

	s.statsCache.Set(tpl, cachedStats{version: version, stats: stats}, cache.DefaultExpiration)

	logger(ctx).Debug("price stats computed", "tpl", tpl, "offers", len(prices))

	return stats, nil
}
