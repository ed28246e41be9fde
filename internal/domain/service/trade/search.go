package trade

import (
	"cmp"
	"context"
	"slices"
	"strings"

	"flea_market/internal/domain"
	"flea_market/internal/domain/entity"
	"flea_market/internal/domain/service/offer"
	"flea_market/internal/domain/value"
	"flea_market/pkg/logx"
)

const (
	defaultSearchLimit = 15
	maxSearchLimit     = 100
	oneHour            = 3600
)

// Search страница лотов по фильтрам и счётчики по шаблонам. Для поиска
// совместимых и требуемых предметов счётчики считаются по выборке, иначе
// отдаются общие.
func (s *Service) Search(ctx context.Context, profileID string, req entity.SearchRequest) (entity.SearchResult, error) {
	if !req.SortType.Valid() {
		return entity.SearchResult{}, domain.ErrInvalidOfferRequest("unknown sort type")
	}

	currency, byCurrency, err := value.CurrencyFromFilter(req.Currency)
	if err != nil {
		return entity.SearchResult{}, domain.ErrInvalidOfferRequest(err.Error())
	}

	var profile entity.Profile

	if profileID != "" {
		if profile, err = s.profiles.Profile(ctx, profileID); err != nil {
			logger(ctx).Warn("search without profile", logx.Error(err))
		}
	}

	base, categories := s.scope(req)
	now := s.now().Unix()
	found := make([]entity.Offer, 0, len(base))

	for _, o := range base {
		if !s.matches(o, req, currency, byCurrency, now) {
			continue
		}

		if o.IsTrader() {
			if !s.traderVisible(ctx, profileID, &o) {
				continue
			}

			o.Locked = profile.LoyaltyLevel(o.Seller.ID) < o.LoyaltyLevel
		}

		found = append(found, o)
	}

	s.sortOffers(found, req.SortType, req.SortDirection)

	return entity.SearchResult{
		Offers:           paginate(found, req.Page, req.Limit),
		OffersCount:      len(found),
		SelectedCategory: req.HandbookID,
		Categories:       categories,
	}, nil
}

func (s *Service) scope(req entity.SearchRequest) ([]entity.Offer, map[string]int) {
	switch {
	case req.LinkedSearchID != "":
		var out []entity.Offer

		for _, tpl := range s.linked(req.LinkedSearchID) {
			out = append(out, s.registry.ByTemplate(tpl)...)
		}

		return out, offer.Bespoke(out)

	case req.NeededSearchID != "":
		out := s.registry.Required(req.NeededSearchID)
		return out, offer.Bespoke(out)

	case req.HandbookID != "":
		out := slices.DeleteFunc(s.registry.Offers(), func(o entity.Offer) bool {
			tpl := o.Tpl()
			return tpl != req.HandbookID && !s.catalog.IsOfBaseclass(tpl, req.HandbookID)
		})

		return out, s.registry.Categories()

	default:
		return s.registry.Offers(), s.registry.Categories()
	}
}

func (s *Service) linked(tpl string) []string {
	t, ok := s.catalog.Template(tpl)
	if !ok {
		return nil
	}

	out := slices.Clone(t.Props.Compatible)
	slices.Sort(out)

	return slices.Compact(out)
}

func (s *Service) matches(o entity.Offer, req entity.SearchRequest, currency value.Currency, byCurrency bool, now int64) bool {
	if o.IsStale(now) || !req.OwnerType.Accepts(o.Seller.Type) {
		return false
	}

	if req.RemoveBartering && o.IsBarter() {
		return false
	}

	if byCurrency && (len(o.Requirements) != 1 || o.Requirements[0].Tpl != currency.Tpl()) {
		return false
	}

	if req.OneHourExpiration && o.EndTime-now > oneHour {
		return false
	}

	q := o.Quantity()
	if (req.QuantityFrom > 0 && q < req.QuantityFrom) || (req.QuantityTo > 0 && q > req.QuantityTo) {
		return false
	}

	price := o.SummaryCost
	if byCurrency {
		price = s.prices.FromRoubles(price, currency)
	}

	return (req.PriceFrom <= 0 || price >= req.PriceFrom) && (req.PriceTo <= 0 || price <= req.PriceTo)
}

// traderVisible скрывает лоты торговца, лимит по которым игрок уже выбрал,
// и подставляет в лот его текущий счётчик покупок.
func (s *Service) traderVisible(ctx context.Context, profileID string, o *entity.Offer) bool {
	if o.BuyRestrictionMax <= 0 || s.ledger == nil || profileID == "" {
		return true
	}

	bought, err := s.ledger.Bought(ctx, profileID, o.ID)
	if err != nil {
		logger(ctx).Warn("buy restriction unknown", logx.Error(err))
		return true
	}

	o.BuyRestrictionCurrent = bought

	return bought < o.BuyRestrictionMax
}

func (s *Service) sortOffers(offers []entity.Offer, by value.SortType, dir value.SortDirection) {
	var key func(a, b entity.Offer) int

	switch by {
	case value.SortByBarter:
		key = func(a, b entity.Offer) int { return cmpBool(a.IsBarter(), b.IsBarter()) }
	case value.SortByRating:
		key = func(a, b entity.Offer) int { return cmp.Compare(a.Seller.Rating, b.Seller.Rating) }
	case value.SortByTitle:
		key = func(a, b entity.Offer) int { return strings.Compare(s.title(a.Tpl()), s.title(b.Tpl())) }
	case value.SortByPrice:
		key = func(a, b entity.Offer) int { return cmp.Compare(a.RequirementsCost, b.RequirementsCost) }
	case value.SortByExpiry:
		key = func(a, b entity.Offer) int { return cmp.Compare(a.EndTime, b.EndTime) }
	default:
		key = func(a, b entity.Offer) int { return cmp.Compare(a.IntID, b.IntID) }
	}

	slices.SortStableFunc(offers, func(a, b entity.Offer) int {
		c := key(a, b)
		if c == 0 {
			c = cmp.Compare(a.IntID, b.IntID)
		}

		if dir == value.SortDesc {
			return -c
		}

		return c
	})
}

func (s *Service) title(tpl string) string {
	if t, ok := s.catalog.Template(tpl); ok && t.Name != "" {
		return t.Name
	}

	return tpl
}

func cmpBool(a, b bool) int {
	switch {
	case a == b:
		return 0
	case !a:
		return -1
	default:
		return 1
	}
}

func paginate(offers []entity.Offer, page, limit int) []entity.Offer {
	if limit <= 0 {
		limit = defaultSearchLimit
	}

	limit = min(limit, maxSearchLimit)
	start := max(page, 0) * limit

	if start >= len(offers) {
		return []entity.Offer{}
	}

	return offers[start:min(start+limit, len(offers))]
}
