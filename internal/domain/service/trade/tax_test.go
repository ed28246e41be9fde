package trade_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"flea_market/internal/domain/entity"
	"flea_market/internal/domain/service/trade"
	"flea_market/pkg/randx"
)

func TestTaxCalculate(t *testing.T) {
	catalog := testCatalog()
	catalog["ak"] = entity.Template{ID: "ak", Props: entity.TemplateProps{RagFairCommissionModifier: 2}}

	tax := trade.NewTax(catalog, fakePrices{"salewa": 100, "gpu": 10000, "ak": 10000}, trade.DefaultConfig().Tax)

	gpu := []entity.Item{{ID: "1", Tpl: "gpu"}}

	testCases := []struct {
		name     string
		items    []entity.Item
		count    int
		value    float64
		whole    bool
		expected int64
	}{
		{name: "price equals worth", items: gpu, count: 1, value: 10000, expected: 600},
		{name: "stack multiplies both sides", items: []entity.Item{{ID: "1", Tpl: "salewa"}}, count: 10, value: 100, expected: 60},
		{name: "pack price is for the whole stack", items: []entity.Item{{ID: "1", Tpl: "salewa"}}, count: 10, value: 1000, whole: true, expected: 60},
		{name: "commission modifier", items: []entity.Item{{ID: "1", Tpl: "ak"}}, count: 1, value: 10000, expected: 1200},
		{name: "zero value", items: gpu, count: 1, value: 0, expected: 0},
		{name: "zero count", items: gpu, count: 0, value: 100, expected: 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.expected, tax.Calculate(tc.items, tc.count, tc.value, tc.whole))
		})
	}
}

func TestTaxGrowsWithOverpricing(t *testing.T) {
	tax := trade.NewTax(testCatalog(), fakePrices{"gpu": 10000}, trade.DefaultConfig().Tax)
	gpu := []entity.Item{{ID: "1", Tpl: "gpu"}}

	require.Less(t, tax.Calculate(gpu, 1, 10000, false), tax.Calculate(gpu, 1, 20000, false))
	require.Less(t, tax.Calculate(gpu, 1, 20000, false), tax.Calculate(gpu, 1, 40000, false))
}

func TestSellChance(t *testing.T) {
	cfg := trade.DefaultConfig().Sell

	testCases := []struct {
		name     string
		market   float64
		listed   float64
		quality  float64
		expected float64
	}{
		{name: "market price", market: 100, listed: 100, quality: 1, expected: 50},
		{name: "cheap", market: 100, listed: 50, quality: 1, expected: 95},
		{name: "expensive", market: 100, listed: 1000, quality: 1, expected: 5},
		{name: "worn", market: 100, listed: 100, quality: 0.5, expected: 25},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.expected, trade.SellChance(cfg, tc.market, tc.listed, tc.quality))
		})
	}
}

func TestRollSales(t *testing.T) {
	rq := require.New(t)

	cfg := trade.DefaultConfig().Sell
	start := int64(1000)
	end := start + int64((12 * time.Hour).Seconds())

	results := trade.RollSales(randx.New(9), cfg, 100, 10, false, start, end)

	total := 0
	last := start

	for _, r := range results {
		rq.Greater(r.SellTime, last)
		rq.Less(r.SellTime, end)
		rq.Positive(r.Amount)

		last = r.SellTime
		total += r.Amount
	}

	rq.Equal(10, total)

	whole := trade.RollSales(randx.New(9), cfg, 100, 10, true, start, end)
	rq.Len(whole, 1)
	rq.Equal(10, whole[0].Amount)

	rq.Empty(trade.RollSales(randx.New(9), cfg, 0, 10, false, start, end))
}
