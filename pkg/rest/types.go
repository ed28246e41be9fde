// Данный файл должен быть сгенерирован из openapi спецификации и называться types.gen.go
package rest

// SearchRequest фильтры и сортировка выдачи рынка.
type SearchRequest struct {
	Page              int     `json:"page" validate:"gte=0"`
	Limit             int     `json:"limit" validate:"gte=0,lte=100"`
	SortType          int     `json:"sortType"`
	SortDirection     int     `json:"sortDirection" validate:"oneof=0 1"`
	Currency          int     `json:"currency" validate:"gte=0,lte=3"`
	PriceFrom         float64 `json:"priceFrom" validate:"gte=0"`
	PriceTo           float64 `json:"priceTo" validate:"gte=0"`
	QuantityFrom      int     `json:"quantityFrom" validate:"gte=0"`
	QuantityTo        int     `json:"quantityTo" validate:"gte=0"`
	OneHourExpiration bool    `json:"oneHourExpiration"`
	RemoveBartering   bool    `json:"removeBartering"`
	OfferOwnerType    int     `json:"offerOwnerType" validate:"gte=0,lte=2"`
	HandbookID        string  `json:"handbookId"`
	LinkedSearchID    string  `json:"linkedSearchId"`
	NeededSearchID    string  `json:"neededSearchId"`
}

type SearchResponse struct {
	Offers           []Offer        `json:"offers"`
	OffersCount      int            `json:"offersCount"`
	SelectedCategory string         `json:"selectedCategory"`
	Categories       map[string]int `json:"categories"`
}

type Offer struct {
	ID                    string        `json:"_id"`
	IntID                 int64         `json:"intId"`
	User                  Seller        `json:"user"`
	Root                  string        `json:"root"`
	Items                 []Item        `json:"items"`
	Requirements          []Requirement `json:"requirements"`
	RequirementsCost      float64       `json:"requirementsCost"`
	ItemsCost             float64       `json:"itemsCost"`
	SummaryCost           float64       `json:"summaryCost"`
	StartTime             int64         `json:"startTime"`
	EndTime               int64         `json:"endTime"`
	SellInOnePiece        bool          `json:"sellInOnePiece"`
	LoyaltyLevel          int           `json:"loyaltyLevel"`
	Locked                bool          `json:"locked"`
	NotAvailable          bool          `json:"notAvailable"`
	BuyRestrictionMax     int           `json:"buyRestrictionMax,omitempty"`
	BuyRestrictionCurrent int           `json:"buyRestrictionCurrent,omitempty"`
}

type Seller struct {
	ID              string  `json:"id"`
	MemberType      string  `json:"memberType"`
	Nickname        string  `json:"nickname"`
	Rating          float64 `json:"rating"`
	IsRatingGrowing bool    `json:"isRatingGrowing"`
	Avatar          string  `json:"avatar,omitempty"`
}

type Item struct {
	ID       string `json:"_id"`
	Tpl      string `json:"_tpl"`
	ParentID string `json:"parentId,omitempty"`
	SlotID   string `json:"slotId,omitempty"`
	Upd      *Upd   `json:"upd,omitempty"`
}

type Upd struct {
	StackObjectsCount     int      `json:"StackObjectsCount,omitempty"`
	UnlimitedCount        bool     `json:"UnlimitedCount,omitempty"`
	BuyRestrictionMax     int      `json:"BuyRestrictionMax,omitempty"`
	BuyRestrictionCurrent int      `json:"BuyRestrictionCurrent,omitempty"`
	Durability            *float64 `json:"Durability,omitempty"`
	MaxDurability         *float64 `json:"MaxDurability,omitempty"`
	HpResource            *float64 `json:"HpResource,omitempty"`
	NumberOfUsages        *int     `json:"NumberOfUsages,omitempty"`
	HpPercent             *float64 `json:"HpPercent,omitempty"`
	RepairResource        *float64 `json:"RepairResource,omitempty"`
	Resource              *float64 `json:"Resource,omitempty"`
}

type Requirement struct {
	Tpl            string  `json:"_tpl" validate:"required"`
	Count          float64 `json:"count" validate:"gt=0"`
	OnlyFunctional bool    `json:"onlyFunctional,omitempty"`
}

type PriceStats struct {
	Min float64 `json:"min"`
	Avg float64 `json:"avg"`
	Max float64 `json:"max"`
}

// CreateOfferRequest выставление предметов инвентаря на рынок.
type CreateOfferRequest struct {
	Items          []string      `json:"items" validate:"required,min=1,unique,dive,required"`
	Requirements   []Requirement `json:"requirements" validate:"required,min=1,dive"`
	SellInOnePiece bool          `json:"sellInOnePiece"`
}

type BuyRequest struct {
	Count int `json:"count"`
}

type BuyResponse struct {
	Items     []Item `json:"items"`
	Remaining int    `json:"remaining"`
	SoldOut   bool   `json:"soldOut"`
}

type ExtendRequest struct {
	Hours int `json:"hours" validate:"required,gt=0"`
}

// Error Модель ошибок
type Error struct {
	// Code Код ошибки
	Code ErrorCode `json:"code"`

	// Message Сообщение об ошибке (для отображения в UI в будущем)
	Message string `json:"message"`
}

// ErrorCode Код ошибки
type ErrorCode string
