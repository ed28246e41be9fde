package trade

import (
	"context"
	"log/slog"

	"flea_market/internal/domain"
	"flea_market/internal/domain/entity"
	"flea_market/pkg/contextx"
	"flea_market/pkg/logx"
)

// PurchaseResult что получил покупатель и что осталось в лоте.
type PurchaseResult struct {
	Items     []entity.Item
	Remaining int
	SoldOut   bool
}

// Purchase покупка count единиц лота. Пока идёт обмен, лот заблокирован:
// параллельная покупка или истечение того же лота ждут. Если обмен не
// прошёл, лот не меняется.
func (s *Service) Purchase(ctx context.Context, profileID, offerID string, count int) (PurchaseResult, error) {
	unlock := s.registry.LockOffer(offerID)
	defer unlock()

	o, ok := s.registry.Get(offerID)
	if !ok || o.IsStale(s.now().Unix()) {
		return PurchaseResult{}, domain.ErrOfferNotFound(offerID)
	}

	if count <= 0 {
		return PurchaseResult{}, domain.ErrInvalidPurchaseCount(count)
	}

	ctx = withOffer(ctx, o)

	if o.Seller.ID == profileID {
		return PurchaseResult{}, domain.ErrInvalidOfferRequest("own offer can not be bought")
	}

	if err := s.checkStock(o, count); err != nil {
		return PurchaseResult{}, err
	}

	payTo := MarketSink

	if o.IsTrader() {
		payTo = o.Seller.ID

		if err := s.checkTraderLimits(ctx, profileID, o, count); err != nil {
			return PurchaseResult{}, err
		}
	}

	items := entity.CloneItems(o.Items)
	if items[0].Upd == nil {
		items[0].Upd = &entity.Upd{}
	}

	items[0].Upd.StackObjectsCount = count

	err := s.engine.Exchange(ctx, Exchange{
		ProfileID:    profileID,
		PayTo:        payTo,
		OfferID:      o.ID,
		Items:        items,
		Count:        count,
		Requirements: o.Requirements,
	})
	if err != nil {
		logger(ctx).Warn("exchange failed", logx.Error(err))
		return PurchaseResult{}, domain.ErrPaymentFailed(err)
	}

	result := PurchaseResult{Items: items, Remaining: o.Quantity()}

	if o.IsTrader() {
		s.recordTraderPurchase(ctx, profileID, o, count)
	} else {
		remaining, removed, _ := s.registry.DecrementStack(o.ID, count)
		result.Remaining = remaining
		result.SoldOut = removed
	}

	if o.IsPlayer() {
		s.settlePlayerSale(ctx, o, count, result.SoldOut)
	}

	if s.metrics != nil {
		s.metrics.IncPurchase(o.Seller.Type.String())
	}

	logger(ctx).Info("offer purchased",
		slog.String(logx.FieldProfileID, profileID),
		slog.Int(logx.FieldCount, count),
		slog.Bool("sold_out", result.SoldOut),
	)

	return result, nil
}

func withOffer(ctx context.Context, o entity.Offer) context.Context {
	return contextx.WithLogger(ctx, logger(ctx).With(
		slog.String(logx.FieldOfferID, o.ID),
		slog.String(logx.FieldSellerType, o.Seller.Type.String()),
	))
}

func (s *Service) checkStock(o entity.Offer, count int) error {
	root := o.RootItem()
	if root.Upd != nil && root.Upd.UnlimitedCount {
		return nil
	}

	if count > o.Quantity() {
		return domain.ErrOfferOutOfStock(o.ID, count, o.Quantity())
	}

	if o.SellInOnePiece && count != o.Quantity() {
		return domain.ErrInvalidOfferRequest("offer is sold only as a whole")
	}

	return nil
}

func (s *Service) checkTraderLimits(ctx context.Context, profileID string, o entity.Offer, count int) error {
	profile, err := s.profiles.Profile(ctx, profileID)
	if err != nil {
		return err
	}

	if level := profile.LoyaltyLevel(o.Seller.ID); level < o.LoyaltyLevel {
		return domain.ErrLoyaltyLevelTooLow(o.Seller.ID, o.LoyaltyLevel, level)
	}

	if o.BuyRestrictionMax <= 0 || s.ledger == nil {
		return nil
	}

	bought, err := s.ledger.Bought(ctx, profileID, o.ID)
	if err != nil {
		return err
	}

	if bought+count > o.BuyRestrictionMax {
		return domain.ErrBuyRestrictionReached(o.ID)
	}

	return nil
}

func (s *Service) recordTraderPurchase(ctx context.Context, profileID string, o entity.Offer, count int) {
	if o.BuyRestrictionMax <= 0 || s.ledger == nil {
		return
	}

	if _, err := s.ledger.Add(ctx, profileID, o.ID, count, o.EndTime); err != nil {
		logger(ctx).Error("buy restriction not recorded", logx.Error(err))
	}
}
