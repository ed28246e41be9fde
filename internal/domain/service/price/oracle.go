package price

import (
	"context"
	"log/slog"
	"math"
	"sync"

	"flea_market/internal/domain/entity"
	"flea_market/internal/domain/value"
	"flea_market/pkg/randx"
)

type Catalog interface {
	Template(tpl string) (entity.Template, bool)
	Templates() []entity.Template
	IsOfBaseclass(tpl, baseClass string) bool
}

// Handbook статические справочные цены.
type Handbook interface {
	HandbookPrice(tpl string) (float64, bool)
}

type TraderPrices interface {
	// HighestBuybackPrice лучшая цена, за которую торговцы скупают предмет.
	HighestBuybackPrice(tpl string) float64
}

type Presets interface {
	DefaultPreset(tpl string) (entity.Preset, bool)
}

type Oracle struct {
	catalog  Catalog
	handbook Handbook
	live     *Table
	traders  TraderPrices
	presets  Presets
	rnd      *randx.Rand
	cfg      Config

	mu     sync.RWMutex
	static map[string]float64
}

func NewOracle(
	catalog Catalog,
	handbook Handbook,
	live *Table,
	traders TraderPrices,
	presets Presets,
	rnd *randx.Rand,
) *Oracle {
	return &Oracle{
		catalog:  catalog,
		handbook: handbook,
		live:     live,
		traders:  traders,
		presets:  presets,
		rnd:      rnd,
		cfg:      DefaultConfig(),
		static:   make(map[string]float64),
	}
}

func (o *Oracle) WithConfig(cfg Config) *Oracle {
	o.cfg = cfg
	return o
}

// EnsureLoaded заполняет кеш справочных цен по всем шаблонам каталога.
// Вызывается один раз при старте.
func (o *Oracle) EnsureLoaded(ctx context.Context) {
	templates := o.catalog.Templates()
	static := make(map[string]float64, len(templates))

	for _, t := range templates {
		if p, ok := o.handbook.HandbookPrice(t.ID); ok && p > 0 {
			static[t.ID] = p
		}
	}

	o.mu.Lock()
	o.static = static
	o.mu.Unlock()

	logger(ctx).Info("static prices loaded",
		slog.Int("templates", len(templates)),
		slog.Int("priced", len(static)),
	)
}

// StaticPrice справочная цена шаблона, 1 если её нет.
func (o *Oracle) StaticPrice(tpl string) float64 {
	o.mu.RLock()
	p, ok := o.static[tpl]
	o.mu.RUnlock()

	if ok {
		return p
	}

	if p, ok := o.handbook.HandbookPrice(tpl); ok && p > 0 {
		return p
	}

	return 1
}

func (o *Oracle) DynamicPrice(tpl string) (float64, bool) {
	return o.live.Get(tpl)
}

// MarketPrice живая цена, если она есть, иначе справочная.
func (o *Oracle) MarketPrice(tpl string) float64 {
	if p, ok := o.DynamicPrice(tpl); ok {
		return p
	}

	return o.StaticPrice(tpl)
}

// ToRoubles переводит сумму в рубли через справочную цену валюты.
func (o *Oracle) ToRoubles(amount float64, currency value.Currency) float64 {
	if currency == value.RUB {
		return amount
	}

	return math.Round(amount * o.StaticPrice(currency.Tpl()))
}

func (o *Oracle) FromRoubles(roubles float64, currency value.Currency) float64 {
	if currency == value.RUB {
		return roubles
	}

	return math.Round(roubles / o.StaticPrice(currency.Tpl()))
}

func (o *Oracle) Convert(amount float64, from, to value.Currency) float64 {
	if from == to {
		return amount
	}

	return o.FromRoubles(o.ToRoubles(amount, from), to)
}

// RequirementsCost стоимость требований в рублях: валюта конвертируется,
// бартер оценивается по рыночной цене.
func (o *Oracle) RequirementsCost(reqs []entity.Requirement) float64 {
	total := 0.0

	for _, r := range reqs {
		if c, ok := value.CurrencyFromTpl(r.Tpl); ok {
			total += o.ToRoubles(r.Count, c)
			continue
		}

		total += o.MarketPrice(r.Tpl) * r.Count
	}

	return total
}

// HighestStaticOrBuyback большее из справочной цены и лучшей цены скупки.
func (o *Oracle) HighestStaticOrBuyback(tpl string) float64 {
	return math.Max(o.StaticPrice(tpl), o.traders.HighestBuybackPrice(tpl))
}

// AdjustBelowHandbook поднимает цену до справочной, когда рыночная
// отстала от неё больше допустимого.
func (o *Oracle) AdjustBelowHandbook(price float64, tpl string) float64 {
	adj := o.cfg.Adjustment
	if !adj.Enabled || price <= 0 {
		return price
	}

	handbook := o.StaticPrice(tpl)
	diff := 100*handbook/price - 100

	if diff > adj.MaxBelowHandbookPercent && price > adj.PriceThreshold {
		return handbook * adj.HandbookMultiplier
	}

	return price
}

// IsPreset корень считается сборкой, если это оружие с модулями и для
// шаблона есть заводская сборка.
func (o *Oracle) IsPreset(items []entity.Item) bool {
	if len(items) < 2 {
		return false
	}

	root := items[0]
	if !o.catalog.IsOfBaseclass(root.Tpl, value.BaseClassWeapon) {
		return false
	}

	_, ok := o.presets.DefaultPreset(root.Tpl)

	return ok
}

// OfferPrice цена лота в заданной валюте: сумма цен предметов, для сборки
// только корень (модули уже учтены в цене сборки). Не меньше 1.
func (o *Oracle) OfferPrice(items []entity.Item, currency value.Currency, isPack bool) float64 {
	if len(items) == 0 {
		return 1
	}

	isPreset := o.IsPreset(items)
	total := 0.0

	for i := range items {
		total += o.itemPrice(items[i], items, currency, isPreset, isPack)

		if isPreset {
			break
		}
	}

	return math.Max(total, 1)
}

func (o *Oracle) itemPrice(item entity.Item, items []entity.Item, currency value.Currency, isPreset, isPack bool) float64 {
	price := o.MarketPrice(item.Tpl)
	price = o.AdjustBelowHandbook(price, item.Tpl)

	if o.cfg.UseTraderPriceIfHigher {
		price = math.Max(price, o.traders.HighestBuybackPrice(item.Tpl))
	}

	if isPreset && item.ID == items[0].ID {
		price = o.PresetPrice(item, items, price)
	}

	if m, ok := o.cfg.ItemPriceMultiplier[item.Tpl]; ok && m > 0 {
		price *= m
	}

	price *= o.QualityModifier(item)
	price = o.Randomize(price, o.rangeFor(isPreset, isPack))
	price = o.FromRoubles(price, currency)

	return math.Max(price, 1)
}

func (o *Oracle) rangeFor(isPreset, isPack bool) Range {
	switch {
	case isPreset:
		return o.cfg.PresetRange
	case isPack:
		return o.cfg.PackRange
	default:
		return o.cfg.DefaultRange
	}
}

// Randomize умножает цену на случайный множитель из диапазона со смещением
// к нижней половине. Точность множителя два знака.
func (o *Oracle) Randomize(price float64, r Range) float64 {
	if r.Min <= 0 || r.Max <= 0 {
		return price
	}

	lo := int(math.Round(r.Min * 100))
	hi := int(math.Round(r.Max * 100))
	m := o.rnd.BiasedInt(lo, hi, 2, 2)

	return price * float64(m) / 100
}

// QualityModifier доля цены, которую сохраняет изношенный предмет, от 0.01 до 1.
func (o *Oracle) QualityModifier(item entity.Item) float64 {
	if item.Upd == nil {
		return 1
	}

	t, ok := o.catalog.Template(item.Tpl)
	if !ok {
		return 1
	}

	props := t.Props
	upd := item.Upd
	result := 1.0

	if upd.MedKit != nil && props.MaxHpResource > 0 {
		result = upd.MedKit.HpResource / props.MaxHpResource
	}

	if upd.Repairable != nil {
		result = repairableQuality(props, *upd.Repairable)
	}

	if upd.FoodDrink != nil && props.MaxResource > 0 {
		result = upd.FoodDrink.HpPercent / props.MaxResource
	}

	if upd.Key != nil && upd.Key.NumberOfUsages > 0 && props.MaximumNumberOfUsage > 0 {
		maxUses := float64(props.MaximumNumberOfUsage)
		result = (maxUses - float64(upd.Key.NumberOfUsages)) / maxUses
	}

	if upd.Resource != nil && props.MaxResource > 0 {
		result = upd.Resource.Value / props.MaxResource
	}

	if upd.RepairKit != nil && props.MaxRepairResource > 0 {
		result = upd.RepairKit.Resource / props.MaxRepairResource
	}

	return math.Min(math.Max(result, 0.01), 1)
}

func repairableQuality(props entity.TemplateProps, r entity.Repairable) float64 {
	maxDurability := props.MaxDurability
	if maxDurability <= 0 {
		maxDurability = math.Max(r.MaxDurability, r.Durability)
	}

	if maxDurability <= 0 || r.Durability <= 0 {
		return 0.01
	}

	return math.Sqrt(r.Durability / maxDurability)
}
