package generator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"slices"
	"sync/atomic"
	"time"

	"github.com/rs/xid"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"

	"flea_market/internal/domain/entity"
	"flea_market/internal/domain/service/offer"
	"flea_market/internal/domain/value"
	"flea_market/pkg/logx"
	"flea_market/pkg/randx"
)

type Catalog interface {
	Template(tpl string) (entity.Template, bool)
	Templates() []entity.Template
	IsOfBaseclass(tpl, baseClass string) bool
}

type Pricer interface {
	MarketPrice(tpl string) float64
	OfferPrice(items []entity.Item, currency value.Currency, isPack bool) float64
	IsPreset(items []entity.Item) bool
}

type Presets interface {
	DefaultPreset(tpl string) (entity.Preset, bool)
}

type OfferCreator interface {
	Create(ctx context.Context, p offer.CreateParams) (entity.Offer, error)
}

type Conditioner interface {
	Apply(items []entity.Item)
}

type Metrics interface {
	AddGenerated(n int)
}

// Generator выставляет бот-лоты. Каждый шаблон обрабатывается отдельной
// задачей, задачи независимы и выполняются параллельно.
type Generator struct {
	catalog     Catalog
	pricer      Pricer
	presets     Presets
	creator     OfferCreator
	conditioner Conditioner
	barter      *Barter
	metrics     Metrics
	rnd         *randx.Rand
	cfg         Config
	now         func() time.Time
}

func NewGenerator(
	catalog Catalog,
	pricer Pricer,
	presets Presets,
	creator OfferCreator,
	conditioner Conditioner,
	rnd *randx.Rand,
) *Generator {
	cfg := DefaultConfig()

	return &Generator{
		catalog:     catalog,
		pricer:      pricer,
		presets:     presets,
		creator:     creator,
		conditioner: conditioner,
		barter:      NewBarter(pricer, rnd, cfg.Barter),
		rnd:         rnd,
		cfg:         cfg,
		now:         time.Now,
	}
}

func (g *Generator) WithConfig(cfg Config) *Generator {
	g.cfg = cfg
	g.barter = NewBarter(g.pricer, g.rnd, cfg.Barter)

	return g
}

func (g *Generator) WithMetrics(m Metrics) *Generator {
	g.metrics = m
	return g
}

func (g *Generator) WithClock(now func() time.Time) *Generator {
	g.now = now
	return g
}

// Load готовит список кандидатов для бартера. Вызывается один раз до генерации.
func (g *Generator) Load(ctx context.Context) {
	var tpls []string

	for _, t := range g.catalog.Templates() {
		if g.Eligible(t.ID) && !g.barterBlacklisted(t.ID) {
			tpls = append(tpls, t.ID)
		}
	}

	slices.Sort(tpls)

	n := g.barter.Load(tpls)

	logger(ctx).Info("barter candidates loaded", slog.Int(logx.FieldCount, n))
}

// Eligible можно ли выставлять шаблон на рынок от имени бота.
func (g *Generator) Eligible(tpl string) bool {
	t, ok := g.catalog.Template(tpl)
	if !ok || !t.IsItem() || t.Props.QuestItem {
		return false
	}

	if g.cfg.CheckCanSellOnRagfair && !t.Props.CanSellOnRagfair {
		return false
	}

	if g.catalog.IsOfBaseclass(tpl, value.BaseClassMoney) {
		return false
	}

	return !slices.Contains(g.cfg.Blacklist, tpl)
}

func (g *Generator) barterBlacklisted(tpl string) bool {
	return lo.SomeBy(g.cfg.Barter.ItemTypeBlacklist, func(base string) bool {
		return g.catalog.IsOfBaseclass(tpl, base)
	})
}

// GenerateAll заполняет рынок бот-лотами по всем доступным шаблонам.
func (g *Generator) GenerateAll(ctx context.Context) (int, error) {
	var tpls []string

	for _, t := range g.catalog.Templates() {
		if g.Eligible(t.ID) {
			tpls = append(tpls, t.ID)
		}
	}

	slices.Sort(tpls)

	return g.run(ctx, tpls, func() int {
		return g.rnd.IntRange(g.cfg.OfferItemCountMin, g.cfg.OfferItemCountMax)
	})
}

// Regenerate создаёт ровно одно предложение на каждый переданный шаблон.
func (g *Generator) Regenerate(ctx context.Context, tpls []string) (int, error) {
	return g.run(ctx, tpls, func() int { return 1 })
}

func (g *Generator) run(ctx context.Context, tpls []string, offersPerTpl func() int) (int, error) {
	var created atomic.Int64

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(max(g.cfg.Workers, 1))

	for _, tpl := range tpls {
		count := offersPerTpl()

		eg.Go(func() error {
			for range count {
				if ctx.Err() != nil {
					return ctx.Err()
				}

				err := g.createOffer(ctx, tpl)

				switch {
				case err == nil:
					created.Add(1)
				case errors.Is(err, offer.ErrTemplateCapped):
					return nil
				default:
					logger(ctx).Warn("dynamic offer skipped",
						slog.String(logx.FieldTemplateID, tpl),
						logx.Error(err),
					)

					return nil
				}
			}

			return nil
		})
	}

	err := eg.Wait()
	n := int(created.Load())

	if g.metrics != nil {
		g.metrics.AddGenerated(n)
	}

	if err != nil {
		return n, fmt.Errorf("generate offers: %w", err)
	}

	return n, nil
}

func (g *Generator) createOffer(ctx context.Context, tpl string) error {
	t, ok := g.catalog.Template(tpl)
	if !ok {
		return fmt.Errorf("template %s not found", tpl)
	}

	items, isPreset := g.buildItems(tpl)

	isBarter := g.cfg.Barter.Enabled && g.rnd.Chance(g.cfg.Barter.ChancePercent)
	isPack := !isBarter && !isPreset && len(items) == 1 && g.packAllowed(tpl) &&
		g.cfg.Pack.Enabled && g.rnd.Chance(g.cfg.Pack.ChancePercent)

	items[0].Upd.StackObjectsCount = g.stackSize(t, isPack, isPreset)

	g.conditioner.Apply(items)

	reqs, err := g.requirements(items, isBarter, isPack)
	if err != nil {
		return err
	}

	_, err = g.creator.Create(ctx, offer.CreateParams{
		SellerID:       xid.New().String(),
		Time:           g.now().Unix(),
		Items:          items,
		Requirements:   reqs,
		LoyaltyLevel:   1,
		SellInOnePiece: isPack,
	})
	if err != nil {
		return fmt.Errorf("create offer: %w", err)
	}

	return nil
}

// buildItems новый экземпляр шаблона. Оружие с заводской сборкой выставляется
// целиком, с новыми id у всех модулей.
func (g *Generator) buildItems(tpl string) ([]entity.Item, bool) {
	if g.catalog.IsOfBaseclass(tpl, value.BaseClassWeapon) {
		if p, ok := g.presets.DefaultPreset(tpl); ok && len(p.Items) > 0 {
			items := reissue(p.Items)
			if items[0].Upd == nil {
				items[0].Upd = &entity.Upd{}
			}

			return items, len(items) > 1
		}
	}

	return []entity.Item{{ID: xid.New().String(), Tpl: tpl, Upd: &entity.Upd{}}}, false
}

func (g *Generator) packAllowed(tpl string) bool {
	return lo.SomeBy(g.cfg.Pack.ItemTypeWhitelist, func(base string) bool {
		return g.catalog.IsOfBaseclass(tpl, base)
	})
}

func (g *Generator) stackSize(t entity.Template, isPack, isPreset bool) int {
	switch {
	case isPreset:
		return 1
	case isPack:
		return g.rnd.IntRange(g.cfg.Pack.ItemCountMin, g.cfg.Pack.ItemCountMax)
	case t.Stackable():
		percent := g.rnd.FloatRange(g.cfg.StackablePercentMin, g.cfg.StackablePercentMax)
		return max(int(math.Round(float64(t.Props.StackMaxSize)/100*percent)), 1)
	default:
		return g.rnd.IntRange(g.cfg.NonStackableCountMin, g.cfg.NonStackableCountMax)
	}
}

func (g *Generator) requirements(items []entity.Item, isBarter, isPack bool) ([]entity.Requirement, error) {
	if isBarter {
		worth := g.pricer.OfferPrice(items, value.RUB, false)

		if reqs, ok := g.barter.Scheme(items[0].Tpl, worth); ok {
			return reqs, nil
		}
	}

	currency := g.pickCurrency()

	price := g.pricer.OfferPrice(items, currency, isPack)
	if isPack {
		price *= float64(items[0].Stack())
	}

	return []entity.Requirement{{Tpl: currency.Tpl(), Count: math.Max(math.Round(price), 1)}}, nil
}

func (g *Generator) pickCurrency() value.Currency {
	currencies := value.Currencies()
	weights := make([]float64, len(currencies))

	for i, c := range currencies {
		weights[i] = g.cfg.CurrencyWeights[c]
	}

	i := g.rnd.WeightedIndex(weights)
	if i < 0 {
		return value.RUB
	}

	return currencies[i]
}

// reissue копирует набор предметов с новыми id, сохраняя связи родитель-потомок.
func reissue(items []entity.Item) []entity.Item {
	ids := make(map[string]string, len(items))
	for _, it := range items {
		ids[it.ID] = xid.New().String()
	}

	out := entity.CloneItems(items)

	for i := range out {
		out[i].ID = ids[out[i].ID]

		if p, ok := ids[out[i].ParentID]; ok {
			out[i].ParentID = p
		}
	}

	out[0].ParentID = ""
	out[0].SlotID = ""

	return out
}
