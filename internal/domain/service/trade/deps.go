package trade

import (
	"context"

	"flea_market/internal/domain/entity"
	"flea_market/internal/domain/service/offer"
	"flea_market/internal/domain/value"
)

// MarketSink получатель оплаты за лоты не торговцев.
const MarketSink = "ragfair"

type Registry interface {
	LockOffer(id string) func()
	Get(id string) (entity.Offer, bool)
	Offers() []entity.Offer
	ByTemplate(tpl string) []entity.Offer
	BySeller(sellerID string) []entity.Offer
	Required(tpl string) []entity.Offer
	Categories() map[string]int
	DecrementStack(id string, count int) (remaining int, removed, ok bool)
	Update(id string, fn func(o *entity.Offer)) (entity.Offer, bool)
	Remove(id string) (entity.Offer, bool)
	Version(tpl string) uint64
}

type Catalog interface {
	Template(tpl string) (entity.Template, bool)
	IsOfBaseclass(tpl, baseClass string) bool
}

type Prices interface {
	MarketPrice(tpl string) float64
	StaticPrice(tpl string) float64
	RequirementsCost(reqs []entity.Requirement) float64
	FromRoubles(roubles float64, currency value.Currency) float64
	QualityModifier(item entity.Item) float64
}

// LivePrices таблица цен живого рынка.
type LivePrices interface {
	Record(tpl string, unitPrice float64)
}

type OfferCreator interface {
	Create(ctx context.Context, p offer.CreateParams) (entity.Offer, error)
}

// Exchange обмен, который выполняет торговый движок: списание оплаты с
// покупателя и передача ему предметов.
type Exchange struct {
	ProfileID string
	// PayTo торговец или MarketSink.
	PayTo        string
	OfferID      string
	Items        []entity.Item
	Count        int
	Requirements []entity.Requirement
}

type TradeEngine interface {
	Exchange(ctx context.Context, ex Exchange) error
}

// Profiles профиль игрока: рейтинг, кошелёк и инвентарь.
type Profiles interface {
	Profile(ctx context.Context, id string) (entity.Profile, error)
	AddRating(ctx context.Context, id string, delta float64) error
	Charge(ctx context.Context, id string, roubles int64) error
	Credit(ctx context.Context, id string, reqs []entity.Requirement, times int) error
	Items(ctx context.Context, id string, itemIDs []string) ([]entity.Item, error)
	TakeItems(ctx context.Context, id string, itemIDs []string) error
	ReturnItems(ctx context.Context, id string, items []entity.Item) error
}

// Ledger учёт покупок с ограничением у торговцев до обновления ассортимента.
type Ledger interface {
	Bought(ctx context.Context, profileID, offerID string) (int, error)
	Add(ctx context.Context, profileID, offerID string, count int, expireAt int64) (int, error)
}

type OfferStore interface {
	Save(ctx context.Context, o entity.Offer) error
	Delete(ctx context.Context, id string) error
}

type SaleNotice struct {
	OfferID  string
	SellerID string
	Tpl      string
	Name     string
	Amount   int
	Roubles  float64
}

type Notifier interface {
	NotifySale(ctx context.Context, n SaleNotice) error
}

type Metrics interface {
	IncPurchase(sellerType string)
	AddTax(roubles int64)
}
