package offer

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync/atomic"
	"time"

	"github.com/rs/xid"

	"flea_market/internal/domain/entity"
	"flea_market/internal/domain/value"
	"flea_market/pkg/randx"
)

var (
	ErrTemplateCapped = errors.New("offer limit for template reached")
	ErrNoItems        = errors.New("offer has no items")
)

type Traders interface {
	Trader(id string) (entity.Trader, bool)
}

type Profiles interface {
	IsPlayer(id string) bool
	Profile(ctx context.Context, id string) (entity.Profile, error)
}

type Prices interface {
	StaticPrice(tpl string) float64
	RequirementsCost(reqs []entity.Requirement) float64
}

type FactoryConfig struct {
	BotRatingMin float64
	BotRatingMax float64
	// BotEndTimeMin/Max срок жизни бот-лота в секундах.
	BotEndTimeMin       int64
	BotEndTimeMax       int64
	PlayerOfferDuration time.Duration
}

func DefaultFactoryConfig() FactoryConfig {
	return FactoryConfig{
		BotRatingMin:        0.1,
		BotRatingMax:        0.95,
		BotEndTimeMin:       180,
		BotEndTimeMax:       1800,
		PlayerOfferDuration: 12 * time.Hour,
	}
}

// CreateParams входные данные нового предложения.
type CreateParams struct {
	SellerID     string
	Time         int64
	Items        []entity.Item
	Requirements []entity.Requirement
	LoyaltyLevel int
	// PriceRub отображаемая цена, если задана. Иначе считается по требованиям.
	PriceRub       float64
	SellInOnePiece bool
}

type Factory struct {
	registry *Registry
	prices   Prices
	traders  Traders
	profiles Profiles
	rnd      *randx.Rand
	cfg      FactoryConfig
	counter  atomic.Int64
}

func NewFactory(
	registry *Registry,
	prices Prices,
	traders Traders,
	profiles Profiles,
	rnd *randx.Rand,
) *Factory {
	return &Factory{
		registry: registry,
		prices:   prices,
		traders:  traders,
		profiles: profiles,
		rnd:      rnd,
		cfg:      DefaultFactoryConfig(),
	}
}

func (f *Factory) WithConfig(cfg FactoryConfig) *Factory {
	f.cfg = cfg
	return f
}

// SellerType определяет тип продавца: торговец по справочнику, игрок по
// профилю, все остальные боты.
func (f *Factory) SellerType(sellerID string) value.SellerType {
	if _, ok := f.traders.Trader(sellerID); ok {
		return value.SellerTrader
	}

	if f.profiles.IsPlayer(sellerID) {
		return value.SellerPlayer
	}

	return value.SellerBot
}

// Build собирает предложение без регистрации.
func (f *Factory) Build(ctx context.Context, p CreateParams) (*entity.Offer, error) {
	if len(p.Items) == 0 {
		return nil, ErrNoItems
	}

	items := entity.CloneItems(p.Items)

	root := &items[0]
	if root.Upd == nil {
		root.Upd = &entity.Upd{}
	}

	if root.Upd.StackObjectsCount < 1 {
		root.Upd.StackObjectsCount = 1
	}

	reqs := append([]entity.Requirement(nil), p.Requirements...)
	reqCost := math.Round(f.prices.RequirementsCost(reqs))

	o := &entity.Offer{
		IntID:            f.counter.Add(1),
		Root:             root.ID,
		Items:            items,
		Requirements:     reqs,
		RequirementsCost: reqCost,
		ItemsCost:        math.Round(f.prices.StaticPrice(root.Tpl)),
		SummaryCost:      summaryCost(reqCost, p),
		StartTime:        p.Time,
		SellInOnePiece:   p.SellInOnePiece,
		LoyaltyLevel:     p.LoyaltyLevel,
	}

	if err := f.fillSeller(ctx, o, p); err != nil {
		return nil, err
	}

	if o.IsTrader() {
		o.ID = root.ID
		o.BuyRestrictionMax = root.Upd.BuyRestrictionMax
		o.BuyRestrictionCurrent = root.Upd.BuyRestrictionCurrent
	} else {
		o.ID = xid.New().String()
	}

	return o, nil
}

// Create собирает предложение и регистрирует его в индексах и категориях
// одним шагом.
func (f *Factory) Create(ctx context.Context, p CreateParams) (entity.Offer, error) {
	o, err := f.Build(ctx, p)
	if err != nil {
		return entity.Offer{}, err
	}

	out := o.Clone()

	if !f.registry.Add(o) {
		return entity.Offer{}, fmt.Errorf("%s: %w", o.Tpl(), ErrTemplateCapped)
	}

	return out, nil
}

func (f *Factory) fillSeller(ctx context.Context, o *entity.Offer, p CreateParams) error {
	o.Seller.ID = p.SellerID

	switch t := f.SellerType(p.SellerID); t {
	case value.SellerTrader:
		trader, _ := f.traders.Trader(p.SellerID)

		o.Seller.Type = t
		o.Seller.Nickname = trader.Nickname
		o.Seller.Avatar = trader.Avatar
		o.Seller.Rating = 1
		o.Seller.IsRatingGrowing = true
		o.EndTime = max(trader.NextResupply, p.Time+1)

	case value.SellerPlayer:
		profile, err := f.profiles.Profile(ctx, p.SellerID)
		if err != nil {
			return fmt.Errorf("seller profile: %w", err)
		}

		o.Seller.Type = t
		o.Seller.Nickname = profile.Nickname
		o.Seller.Rating = profile.Rating
		o.Seller.IsRatingGrowing = profile.IsRatingGrowing
		o.EndTime = p.Time + int64(f.cfg.PlayerOfferDuration/time.Second)

	case value.SellerBot:
		o.Seller.Type = t
		o.Seller.Nickname = "bot"
		o.Seller.Rating = f.rnd.FloatRange(f.cfg.BotRatingMin, f.cfg.BotRatingMax)
		o.Seller.IsRatingGrowing = f.rnd.Bool()
		o.EndTime = p.Time + max(int64(f.rnd.IntRange(int(f.cfg.BotEndTimeMin), int(f.cfg.BotEndTimeMax))), 1)
	}

	return nil
}

func summaryCost(reqCost float64, p CreateParams) float64 {
	if p.PriceRub > 0 {
		return math.Round(p.PriceRub)
	}

	stack := 1
	if u := p.Items[0].Upd; u != nil && u.StackObjectsCount > 1 {
		stack = u.StackObjectsCount
	}

	if p.SellInOnePiece && stack > 1 {
		return math.Round(reqCost / float64(stack))
	}

	return reqCost
}
