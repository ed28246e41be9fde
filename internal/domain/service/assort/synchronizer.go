package assort

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"flea_market/internal/domain"
	"flea_market/internal/domain/entity"
	"flea_market/internal/domain/service/offer"
	"flea_market/internal/domain/value"
	"flea_market/pkg/contextx"
	"flea_market/pkg/logx"
)

type Catalog interface {
	Template(tpl string) (entity.Template, bool)
	IsOfBaseclass(tpl, baseClass string) bool
}

type Traders interface {
	Trader(id string) (entity.Trader, bool)
	Assort(id string) (entity.TraderAssort, bool)
}

type Presets interface {
	DefaultPreset(tpl string) (entity.Preset, bool)
}

type Offers interface {
	Add(o *entity.Offer) bool
	RemoveBySeller(sellerID string) []entity.Offer
}

type OfferCreator interface {
	Create(ctx context.Context, p offer.CreateParams) (entity.Offer, error)
}

// PlayerOffers сохранённые предложения игроков.
type PlayerOffers interface {
	List(ctx context.Context) ([]entity.Offer, error)
}

type Config struct {
	// TraderIDs торговцы, чей ассортимент дублируется на рынок.
	TraderIDs             []string
	Blacklist             []string
	CheckCanSellOnRagfair bool
}

// Synchronizer переносит ассортимент торговцев на рынок и поднимает
// сохранённые лоты игроков.
type Synchronizer struct {
	catalog Catalog
	traders Traders
	presets Presets
	offers  Offers
	creator OfferCreator
	players PlayerOffers
	cfg     Config
	now     func() time.Time

	mu sync.Mutex
	// synced время обновления ассортимента на момент последней синхронизации.
	synced  map[string]int64
	refresh map[string]bool
}

func NewSynchronizer(
	catalog Catalog,
	traders Traders,
	presets Presets,
	offers Offers,
	creator OfferCreator,
	cfg Config,
) *Synchronizer {
	return &Synchronizer{
		catalog: catalog,
		traders: traders,
		presets: presets,
		offers:  offers,
		creator: creator,
		cfg:     cfg,
		now:     time.Now,
		synced:  make(map[string]int64),
		refresh: make(map[string]bool),
	}
}

func (s *Synchronizer) WithPlayerOffers(players PlayerOffers) *Synchronizer {
	s.players = players
	return s
}

func (s *Synchronizer) WithClock(now func() time.Time) *Synchronizer {
	s.now = now
	return s
}

// MarkRefresh помечает торговца для синхронизации на следующем тике.
func (s *Synchronizer) MarkRefresh(traderID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.refresh[traderID] = true
}

// Due торговцы, которым нужна синхронизация: помеченные вручную, ещё не
// синхронизированные или с прошедшим временем обновления ассортимента.
// Скупщик не возвращается никогда, у него свой цикл обновления.
func (s *Synchronizer) Due(now int64) []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []string

	for _, id := range s.cfg.TraderIDs {
		if id == value.FenceID {
			continue
		}

		synced, ok := s.synced[id]
		if !ok || s.refresh[id] || synced <= now {
			out = append(out, id)
		}
	}

	return out
}

// SyncTraderOffers заменяет предложения торговца актуальным ассортиментом.
// Ошибка в отдельном предмете не прерывает синхронизацию.
func (s *Synchronizer) SyncTraderOffers(ctx context.Context, traderID string) (int, error) {
	trader, ok := s.traders.Trader(traderID)
	if !ok {
		return 0, domain.ErrTraderNotFound(traderID)
	}

	assort, ok := s.traders.Assort(traderID)
	if !ok {
		return 0, domain.ErrTraderNotFound(traderID)
	}

	ctx = contextx.WithLogger(ctx, logger(ctx).With(slog.String(logx.FieldTraderID, traderID)))

	removed := s.offers.RemoveBySeller(traderID)
	now := s.now().Unix()
	created := 0

	for _, root := range assort.Items {
		if root.SlotID != value.SlotHideout {
			continue
		}

		if !s.eligible(root.Tpl) {
			continue
		}

		schemes, ok := assort.BarterSchemes[root.ID]
		if !ok || len(schemes) == 0 || len(schemes[0]) == 0 {
			logger(ctx).Warn("trader item has no barter scheme, skipped",
				slog.String(logx.FieldOfferID, root.ID),
				slog.String(logx.FieldTemplateID, root.Tpl),
			)

			continue
		}

		loyalty, ok := assort.LoyalLevelItems[root.ID]
		if !ok {
			loyalty = 1
		}

		_, err := s.creator.Create(ctx, offer.CreateParams{
			SellerID:     traderID,
			Time:         now,
			Items:        s.itemsFor(root, assort.Items),
			Requirements: schemes[0],
			LoyaltyLevel: loyalty,
		})
		if err != nil {
			logger(ctx).Warn("trader offer skipped",
				slog.String(logx.FieldOfferID, root.ID),
				logx.Error(err),
			)

			continue
		}

		created++
	}

	s.mu.Lock()
	s.synced[traderID] = trader.NextResupply
	delete(s.refresh, traderID)
	s.mu.Unlock()

	logger(ctx).Info("trader offers synced",
		slog.Int("removed", len(removed)),
		slog.Int(logx.FieldCount, created),
	)

	return created, nil
}

// SyncPlayerOffers регистрирует сохранённые лоты игроков.
func (s *Synchronizer) SyncPlayerOffers(ctx context.Context) (int, error) {
	if s.players == nil {
		return 0, nil
	}

	offers, err := s.players.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("list player offers: %w", err)
	}

	n := 0

	for i := range offers {
		o := offers[i]
		o.Seller.Type = value.SellerPlayer

		if s.offers.Add(&o) {
			n++
		}
	}

	logger(ctx).Info("player offers loaded", slog.Int(logx.FieldCount, n))

	return n, nil
}

func (s *Synchronizer) eligible(tpl string) bool {
	t, ok := s.catalog.Template(tpl)
	if !ok || !t.IsItem() {
		return false
	}

	if slices.Contains(s.cfg.Blacklist, tpl) {
		return false
	}

	return !s.cfg.CheckCanSellOnRagfair || t.Props.CanSellOnRagfair
}

// itemsFor предмет вместе с модулями. Оружие без модулей в ассортименте
// раскрывается в заводскую сборку, корень сохраняет id из ассортимента.
func (s *Synchronizer) itemsFor(root entity.Item, all []entity.Item) []entity.Item {
	items := entity.ChildrenOf(all, root.ID)
	if len(items) > 1 || !s.catalog.IsOfBaseclass(root.Tpl, value.BaseClassWeapon) {
		return items
	}

	preset, ok := s.presets.DefaultPreset(root.Tpl)
	if !ok || len(preset.Items) < 2 {
		return items
	}

	return expand(root, preset.Items)
}

func expand(root entity.Item, presetItems []entity.Item) []entity.Item {
	out := entity.CloneItems(presetItems)
	oldRoot := out[0].ID

	out[0] = root.Clone()

	for i := 1; i < len(out); i++ {
		out[i].ID = root.ID + "_" + out[i].ID

		if out[i].ParentID == oldRoot {
			out[i].ParentID = root.ID
		} else {
			out[i].ParentID = root.ID + "_" + out[i].ParentID
		}
	}

	return out
}
