package entity

import "flea_market/internal/domain/value"

type SearchRequest struct {
	Page              int
	Limit             int
	SortType          value.SortType
	SortDirection     value.SortDirection
	Currency          int
	PriceFrom         float64
	PriceTo           float64
	QuantityFrom      int
	QuantityTo        int
	OneHourExpiration bool
	RemoveBartering   bool
	OwnerType         value.OwnerType
	// HandbookID категория каталога или шаблон предмета.
	HandbookID     string
	LinkedSearchID string
	NeededSearchID string
}

type SearchResult struct {
	Offers           []Offer
	OffersCount      int
	SelectedCategory string
	Categories       map[string]int
}

// PriceStats минимальная, средняя и максимальная цена по текущим лотам.
type PriceStats struct {
	Min float64
	Avg float64
	Max float64
}
