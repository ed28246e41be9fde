package server

import (
	"github.com/samber/lo"

	"flea_market/internal/domain/entity"
	"flea_market/internal/domain/service/trade"
	"flea_market/internal/domain/value"
	"flea_market/pkg/rest"
)

func newDomainSearchRequest(r rest.SearchRequest) entity.SearchRequest {
	return entity.SearchRequest{
		Page:              r.Page,
		Limit:             r.Limit,
		SortType:          value.SortType(r.SortType),
		SortDirection:     value.SortDirection(r.SortDirection),
		Currency:          r.Currency,
		PriceFrom:         r.PriceFrom,
		PriceTo:           r.PriceTo,
		QuantityFrom:      r.QuantityFrom,
		QuantityTo:        r.QuantityTo,
		OneHourExpiration: r.OneHourExpiration,
		RemoveBartering:   r.RemoveBartering,
		OwnerType:         value.OwnerType(r.OfferOwnerType),
		HandbookID:        r.HandbookID,
		LinkedSearchID:    r.LinkedSearchID,
		NeededSearchID:    r.NeededSearchID,
	}
}

func newDomainCreateOfferRequest(r rest.CreateOfferRequest) trade.CreateOfferRequest {
	return trade.CreateOfferRequest{
		ItemIDs: r.Items,
		Requirements: lo.Map(r.Requirements, func(req rest.Requirement, _ int) entity.Requirement {
			return entity.Requirement{Tpl: req.Tpl, Count: req.Count, OnlyFunctional: req.OnlyFunctional}
		}),
		SellInOnePiece: r.SellInOnePiece,
	}
}

func newRESTSearchResponse(res entity.SearchResult) rest.SearchResponse {
	return rest.SearchResponse{
		Offers:           lo.Map(res.Offers, func(o entity.Offer, _ int) rest.Offer { return newRESTOffer(o) }),
		OffersCount:      res.OffersCount,
		SelectedCategory: res.SelectedCategory,
		Categories:       res.Categories,
	}
}

func newRESTOffer(o entity.Offer) rest.Offer {
	return rest.Offer{
		ID:    o.ID,
		IntID: o.IntID,
		User: rest.Seller{
			ID:              o.Seller.ID,
			MemberType:      o.Seller.Type.String(),
			Nickname:        o.Seller.Nickname,
			Rating:          o.Seller.Rating,
			IsRatingGrowing: o.Seller.IsRatingGrowing,
			Avatar:          o.Seller.Avatar,
		},
		Root:                  o.Root,
		Items:                 newRESTItems(o.Items),
		Requirements:          lo.Map(o.Requirements, func(r entity.Requirement, _ int) rest.Requirement { return newRESTRequirement(r) }),
		RequirementsCost:      o.RequirementsCost,
		ItemsCost:             o.ItemsCost,
		SummaryCost:           o.SummaryCost,
		StartTime:             o.StartTime,
		EndTime:               o.EndTime,
		SellInOnePiece:        o.SellInOnePiece,
		LoyaltyLevel:          o.LoyaltyLevel,
		Locked:                o.Locked,
		NotAvailable:          o.NotAvailable,
		BuyRestrictionMax:     o.BuyRestrictionMax,
		BuyRestrictionCurrent: o.BuyRestrictionCurrent,
	}
}

func newRESTRequirement(r entity.Requirement) rest.Requirement {
	return rest.Requirement{Tpl: r.Tpl, Count: r.Count, OnlyFunctional: r.OnlyFunctional}
}

func newRESTItems(items []entity.Item) []rest.Item {
	return lo.Map(items, func(it entity.Item, _ int) rest.Item {
		return rest.Item{
			ID:       it.ID,
			Tpl:      it.Tpl,
			ParentID: it.ParentID,
			SlotID:   it.SlotID,
			Upd:      newRESTUpd(it.Upd),
		}
	})
}

func newRESTUpd(u *entity.Upd) *rest.Upd {
	if u == nil {
		return nil
	}

	out := &rest.Upd{
		StackObjectsCount:     u.StackObjectsCount,
		UnlimitedCount:        u.UnlimitedCount,
		BuyRestrictionMax:     u.BuyRestrictionMax,
		BuyRestrictionCurrent: u.BuyRestrictionCurrent,
	}

	if u.Repairable != nil {
		out.Durability = lo.ToPtr(u.Repairable.Durability)
		out.MaxDurability = lo.ToPtr(u.Repairable.MaxDurability)
	}

	if u.MedKit != nil {
		out.HpResource = lo.ToPtr(u.MedKit.HpResource)
	}

	if u.Key != nil {
		out.NumberOfUsages = lo.ToPtr(u.Key.NumberOfUsages)
	}

	if u.FoodDrink != nil {
		out.HpPercent = lo.ToPtr(u.FoodDrink.HpPercent)
	}

	if u.RepairKit != nil {
		out.RepairResource = lo.ToPtr(u.RepairKit.Resource)
	}

	if u.Resource != nil {
		out.Resource = lo.ToPtr(u.Resource.Value)
	}

	return out
}

func newRESTPriceStats(s entity.PriceStats) rest.PriceStats {
	return rest.PriceStats{Min: s.Min, Avg: s.Avg, Max: s.Max}
}

func newRESTBuyResponse(res trade.PurchaseResult) rest.BuyResponse {
	return rest.BuyResponse{
		Items:     newRESTItems(res.Items),
		Remaining: res.Remaining,
		SoldOut:   res.SoldOut,
	}
}
