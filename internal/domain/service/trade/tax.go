package trade

import (
	"math"

	"flea_market/internal/domain/entity"
)

// Tax комиссия за выставление лота. itemWorth считается по справочнику с
// учётом состояния, requirementsValue цена одной единицы в рублях.
type Tax struct {
	catalog Catalog
	prices  Prices
	cfg     TaxConfig
}

func NewTax(catalog Catalog, prices Prices, cfg TaxConfig) *Tax {
	return &Tax{catalog: catalog, prices: prices, cfg: cfg}
}

func (t *Tax) Calculate(items []entity.Item, count int, requirementsValue float64, sellInOnePiece bool) int64 {
	if len(items) == 0 || count < 1 || requirementsValue <= 0 {
		return 0
	}

	worth := t.itemWorth(items) * float64(count)
	if worth <= 0 {
		return 0
	}

	reqPrice := requirementsValue
	if !sellInOnePiece {
		reqPrice *= float64(count)
	}

	itemPow := math.Log10(worth / reqPrice)
	reqPow := math.Log10(reqPrice / worth)

	if reqPrice >= worth {
		reqPow = math.Pow(reqPow, 1.08)
	} else {
		itemPow = math.Pow(itemPow, 1.08)
	}

	tax := worth*t.cfg.CommunityItemTaxPercent/100*math.Pow(4, itemPow) +
		reqPrice*t.cfg.CommunityRequirementTaxPercent/100*math.Pow(4, reqPow)

	return int64(math.Round(tax * t.commission(items[0].Tpl)))
}

func (t *Tax) itemWorth(items []entity.Item) float64 {
	worth := 0.0
	for _, it := range items {
		worth += t.prices.StaticPrice(it.Tpl)
	}

	return worth * t.prices.QualityModifier(items[0])
}

func (t *Tax) commission(tpl string) float64 {
	tmpl, ok := t.catalog.Template(tpl)
	if !ok || tmpl.Props.RagFairCommissionModifier <= 0 {
		return 1
	}

	return tmpl.Props.RagFairCommissionModifier
}
