package trade

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/samber/lo"

	"flea_market/internal/domain"
	"flea_market/internal/domain/entity"
	"flea_market/internal/domain/service/offer"
	"flea_market/internal/domain/value"
	"flea_market/pkg/logx"
)

type CreateOfferRequest struct {
	ItemIDs        []string
	Requirements   []entity.Requirement
	SellInOnePiece bool
}

// CreatePlayerOffer выставляет предметы игрока на рынок. Комиссия
// списывается до того, как предметы забираются из инвентаря; если забрать
// не удалось, комиссия возвращается.
func (s *Service) CreatePlayerOffer(ctx context.Context, profileID string, req CreateOfferRequest) (entity.Offer, error) {
	if err := s.validateRequest(req); err != nil {
		return entity.Offer{}, err
	}

	if _, err := s.profiles.Profile(ctx, profileID); err != nil {
		return entity.Offer{}, err
	}

	owned, err := s.profiles.Items(ctx, profileID, req.ItemIDs)
	if err != nil {
		return entity.Offer{}, err
	}

	items, err := mergeItems(owned, req.ItemIDs)
	if err != nil {
		return entity.Offer{}, err
	}

	count := items[0].Stack()
	tax := s.tax.Calculate(items, count, s.prices.RequirementsCost(req.Requirements), req.SellInOnePiece)

	if tax > 0 {
		if err = s.profiles.Charge(ctx, profileID, tax); err != nil {
			return entity.Offer{}, domain.ErrPaymentFailed(err)
		}
	}

	if err = s.profiles.TakeItems(ctx, profileID, req.ItemIDs); err != nil {
		s.refund(ctx, profileID, tax)
		return entity.Offer{}, fmt.Errorf("take items: %w", err)
	}

	o, err := s.creator.Create(ctx, offer.CreateParams{
		SellerID:       profileID,
		Time:           s.now().Unix(),
		Items:          items,
		Requirements:   req.Requirements,
		LoyaltyLevel:   1,
		SellInOnePiece: req.SellInOnePiece,
	})
	if err != nil {
		if rerr := s.profiles.ReturnItems(ctx, profileID, owned); rerr != nil {
			logger(ctx).Error("items not returned after failed offer", logx.Error(rerr))
		}

		s.refund(ctx, profileID, tax)

		return entity.Offer{}, fmt.Errorf("create offer: %w", err)
	}

	if s.cfg.Sell.Enabled {
		results := s.rollSales(o)
		o, _ = s.registry.Update(o.ID, func(x *entity.Offer) { x.SellResults = results })
	}

	s.persist(ctx, o.ID)

	if s.metrics != nil {
		s.metrics.AddTax(tax)
	}

	logger(ctx).Info("player offer created",
		slog.String(logx.FieldOfferID, o.ID),
		slog.String(logx.FieldProfileID, profileID),
		slog.Int64("tax", tax),
		slog.Int("planned_sales", len(o.SellResults)),
	)

	return o, nil
}

func (s *Service) validateRequest(req CreateOfferRequest) error {
	if len(req.ItemIDs) == 0 {
		return domain.ErrInvalidOfferRequest("no items to sell")
	}

	if len(lo.Uniq(req.ItemIDs)) != len(req.ItemIDs) {
		return domain.ErrInvalidOfferRequest("duplicate item ids")
	}

	if len(req.Requirements) == 0 {
		return domain.ErrInvalidOfferRequest("no requirements")
	}

	for _, r := range req.Requirements {
		if r.Count <= 0 {
			return domain.ErrInvalidOfferRequest("requirement count must be positive")
		}

		if _, ok := s.catalog.Template(r.Tpl); !ok && !value.IsMoney(r.Tpl) {
			return domain.ErrItemNotFound(r.Tpl)
		}
	}

	return nil
}

// mergeItems один предмет продаётся вместе с модулями, несколько предметов
// одного шаблона без модулей объединяются в общий стак.
func mergeItems(owned []entity.Item, ids []string) ([]entity.Item, error) {
	if len(ids) == 1 {
		items := entity.ChildrenOf(owned, ids[0])
		if len(items) == 0 {
			return nil, domain.ErrItemNotFound(ids[0])
		}

		return entity.CloneItems(items), nil
	}

	var root *entity.Item

	stack := 0

	for _, id := range ids {
		items := entity.ChildrenOf(owned, id)

		switch {
		case len(items) == 0:
			return nil, domain.ErrItemNotFound(id)
		case len(items) > 1:
			return nil, domain.ErrInvalidOfferRequest("only single items can be stacked")
		case root != nil && root.Tpl != items[0].Tpl:
			return nil, domain.ErrInvalidOfferRequest("items must share a template")
		}

		if root == nil {
			r := items[0].Clone()
			root = &r
		}

		stack += items[0].Stack()
	}

	if root.Upd == nil {
		root.Upd = &entity.Upd{}
	}

	root.Upd.StackObjectsCount = stack
	root.ParentID = ""
	root.SlotID = value.SlotHideout

	return []entity.Item{*root}, nil
}

func (s *Service) rollSales(o entity.Offer) []entity.SellResult {
	root := o.RootItem()
	chance := SellChance(s.cfg.Sell, s.prices.MarketPrice(root.Tpl), o.SummaryCost, s.prices.QualityModifier(*root))

	return RollSales(s.rnd, s.cfg.Sell, chance, o.Quantity(), o.SellInOnePiece, o.StartTime, o.EndTime)
}

// CancelPlayerOffer снимает лот. Лот остаётся на рынке ещё CancelGrace и
// уходит со следующим истечением.
func (s *Service) CancelPlayerOffer(ctx context.Context, profileID, offerID string) (entity.Offer, error) {
	unlock := s.registry.LockOffer(offerID)
	defer unlock()

	o, err := s.ownOffer(profileID, offerID)
	if err != nil {
		return entity.Offer{}, err
	}

	now := s.now().Unix()
	grace := int64(s.cfg.CancelGrace / time.Second)

	if o.EndTime-now > grace {
		o, _ = s.registry.Update(offerID, func(x *entity.Offer) { x.EndTime = now + grace })
		s.persist(ctx, offerID)
	}

	logger(ctx).Info("player offer cancelled", slog.String(logx.FieldOfferID, offerID), slog.Int64("end_time", o.EndTime))

	return o, nil
}

// ExtendPlayerOffer продлевает лот на hours часов за новую комиссию.
func (s *Service) ExtendPlayerOffer(ctx context.Context, profileID, offerID string, hours int) (entity.Offer, error) {
	if hours <= 0 {
		return entity.Offer{}, domain.ErrInvalidOfferRequest("extension must be at least one hour")
	}

	unlock := s.registry.LockOffer(offerID)
	defer unlock()

	o, err := s.ownOffer(profileID, offerID)
	if err != nil {
		return entity.Offer{}, err
	}

	tax := s.tax.Calculate(o.Items, o.Quantity(), s.prices.RequirementsCost(o.Requirements), o.SellInOnePiece)
	if tax > 0 {
		if err = s.profiles.Charge(ctx, profileID, tax); err != nil {
			return entity.Offer{}, domain.ErrPaymentFailed(err)
		}
	}

	o, _ = s.registry.Update(offerID, func(x *entity.Offer) { x.EndTime += int64(hours) * 3600 })
	s.persist(ctx, offerID)

	if s.metrics != nil {
		s.metrics.AddTax(tax)
	}

	return o, nil
}

func (s *Service) ownOffer(profileID, offerID string) (entity.Offer, error) {
	o, ok := s.registry.Get(offerID)
	if !ok {
		return entity.Offer{}, domain.ErrOfferNotFound(offerID)
	}

	if !o.IsPlayer() || o.Seller.ID != profileID {
		return entity.Offer{}, domain.ErrOfferNotOwned(offerID)
	}

	return o, nil
}

// Expire снимает устаревший лот. Лоты торговцев не трогает: их заменяет
// синхронизация ассортимента. Непроданные предметы игрока возвращаются
// владельцу вместе со штрафом к рейтингу. Повторный вызов для того же лота
// ничего не делает.
func (s *Service) Expire(ctx context.Context, offerID string, now int64) (entity.Offer, bool) {
	unlock := s.registry.LockOffer(offerID)
	defer unlock()

	o, ok := s.registry.Get(offerID)
	if !ok || o.IsTrader() || !o.IsStale(now) {
		return entity.Offer{}, false
	}

	if _, ok = s.registry.Remove(offerID); !ok {
		return entity.Offer{}, false
	}

	if o.IsPlayer() {
		s.returnPlayerOffer(ctx, o, now)
	}

	return o, true
}

func (s *Service) returnPlayerOffer(ctx context.Context, o entity.Offer, now int64) {
	ctx = withOffer(ctx, o)

	if o.EndTime <= now && o.Quantity() > 0 {
		if err := s.profiles.ReturnItems(ctx, o.Seller.ID, o.Items); err != nil {
			logger(ctx).Error("expired offer items not returned", logx.Error(err))
		}

		if err := s.profiles.AddRating(ctx, o.Seller.ID, -s.cfg.Rating.ExpiryPenalty); err != nil {
			logger(ctx).Warn("rating penalty not applied", logx.Error(err))
		}
	}

	s.persist(ctx, o.ID)
}

// CompleteDueSales проводит запланированные продажи лотов игроков, время
// которых наступило.
func (s *Service) CompleteDueSales(ctx context.Context, now int64) int {
	completed := 0

	for _, o := range s.registry.Offers() {
		if !o.IsPlayer() || !hasDue(o.SellResults, now) {
			continue
		}

		if s.completeSale(ctx, o.ID, now) {
			completed++
		}
	}

	return completed
}

func (s *Service) completeSale(ctx context.Context, offerID string, now int64) bool {
	unlock := s.registry.LockOffer(offerID)
	defer unlock()

	o, ok := s.registry.Get(offerID)
	if !ok {
		return false
	}

	amount := 0
	rest := slices.DeleteFunc(slices.Clone(o.SellResults), func(r entity.SellResult) bool {
		if r.SellTime <= now {
			amount += r.Amount
			return true
		}

		return false
	})

	amount = min(amount, o.Quantity())
	if amount <= 0 {
		return false
	}

	s.registry.Update(offerID, func(x *entity.Offer) { x.SellResults = rest })

	_, removed, _ := s.registry.DecrementStack(offerID, amount)

	s.settlePlayerSale(ctx, o, amount, removed)

	if s.metrics != nil {
		s.metrics.IncPurchase(o.Seller.Type.String())
	}

	return true
}

func hasDue(results []entity.SellResult, now int64) bool {
	return slices.ContainsFunc(results, func(r entity.SellResult) bool { return r.SellTime <= now })
}

// settlePlayerSale расчёт с продавцом после продажи amount единиц.
func (s *Service) settlePlayerSale(ctx context.Context, o entity.Offer, amount int, soldOut bool) {
	ctx = withOffer(ctx, o)

	times := amount
	if o.SellInOnePiece {
		times = 1
	}

	roubles := s.prices.RequirementsCost(o.Requirements) * float64(times)

	if err := s.profiles.Credit(ctx, o.Seller.ID, o.Requirements, times); err != nil {
		logger(ctx).Error("seller not paid", logx.Error(err))
	}

	if s.cfg.Rating.SumForIncrease > 0 {
		delta := roubles / s.cfg.Rating.SumForIncrease * s.cfg.Rating.IncreaseCount
		if err := s.profiles.AddRating(ctx, o.Seller.ID, delta); err != nil {
			logger(ctx).Warn("rating not raised", logx.Error(err))
		}
	}

	if s.live != nil && o.SummaryCost > 0 && !o.IsBarter() {
		s.live.Record(o.Tpl(), o.SummaryCost)
	}

	if s.notifier != nil {
		name := o.Tpl()
		if t, ok := s.catalog.Template(o.Tpl()); ok && t.Name != "" {
			name = t.Name
		}

		err := s.notifier.NotifySale(ctx, SaleNotice{
			OfferID:  o.ID,
			SellerID: o.Seller.ID,
			Tpl:      o.Tpl(),
			Name:     name,
			Amount:   amount,
			Roubles:  roubles,
		})
		if err != nil {
			logger(ctx).Warn("sale notice not sent", logx.Error(err))
		}
	}

	s.persist(ctx, o.ID)

	logger(ctx).Info("player offer sold",
		slog.Int(logx.FieldCount, amount),
		slog.Bool("sold_out", soldOut),
	)
}

func (s *Service) refund(ctx context.Context, profileID string, tax int64) {
	if tax <= 0 {
		return
	}

	err := s.profiles.Credit(ctx, profileID, []entity.Requirement{{Tpl: value.TplRoubles, Count: float64(tax)}}, 1)
	if err != nil {
		logger(ctx).Error("tax not refunded", slog.String(logx.FieldProfileID, profileID), logx.Error(err))
	}
}

// persist сохраняет текущее состояние лота или удаляет его, если лота
// больше нет на рынке.
func (s *Service) persist(ctx context.Context, offerID string) {
	if s.store == nil {
		return
	}

	var err error

	if o, ok := s.registry.Get(offerID); ok {
		err = s.store.Save(ctx, o)
	} else {
		err = s.store.Delete(ctx, offerID)
	}

	if err != nil {
		logger(ctx).Error("player offer not persisted", slog.String(logx.FieldOfferID, offerID), logx.Error(err))
	}
}
