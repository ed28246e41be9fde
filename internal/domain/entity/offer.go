package entity

import "flea_market/internal/domain/value"

type Seller struct {
	ID              string           `json:"id"`
	Type            value.SellerType `json:"type"`
	Nickname        string           `json:"nickname"`
	Rating          float64          `json:"rating"`
	IsRatingGrowing bool             `json:"is_rating_growing"`
	Avatar          string           `json:"avatar,omitempty"`
}

// Requirement что покупатель отдаёт за единицу товара: валюту или предметы.
type Requirement struct {
	Tpl            string  `json:"tpl"`
	Count          float64 `json:"count"`
	OnlyFunctional bool    `json:"only_functional,omitempty"`
}

func (r Requirement) IsMoney() bool {
	return value.IsMoney(r.Tpl)
}

// SellResult запланированная продажа части лота игрока.
type SellResult struct {
	SellTime int64 `json:"sell_time"`
	Amount   int   `json:"amount"`
}

type Offer struct {
	ID     string `json:"id"`
	IntID  int64  `json:"int_id"`
	Seller Seller `json:"seller"`
	// Root идентификатор корневого предмета, Items[0].
	Root         string        `json:"root"`
	Items        []Item        `json:"items"`
	Requirements []Requirement `json:"requirements"`

	RequirementsCost float64 `json:"requirements_cost"`
	ItemsCost        float64 `json:"items_cost"`
	SummaryCost      float64 `json:"summary_cost"`

	StartTime      int64 `json:"start_time"`
	EndTime        int64 `json:"end_time"`
	SellInOnePiece bool  `json:"sell_in_one_piece"`

	LoyaltyLevel int  `json:"loyalty_level"`
	Locked       bool `json:"locked"`
	NotAvailable bool `json:"not_available"`

	BuyRestrictionCurrent int `json:"buy_restriction_current,omitempty"`
	BuyRestrictionMax     int `json:"buy_restriction_max,omitempty"`

	SellResults []SellResult `json:"sell_results,omitempty"`
}

func (o *Offer) RootItem() *Item {
	if len(o.Items) == 0 {
		return nil
	}

	return &o.Items[0]
}

func (o *Offer) Tpl() string {
	if len(o.Items) == 0 {
		return ""
	}

	return o.Items[0].Tpl
}

// Quantity текущий размер стака корневого предмета.
func (o *Offer) Quantity() int {
	root := o.RootItem()
	if root == nil {
		return 0
	}

	return root.Stack()
}

// IsStale истёк срок или стак исчерпан.
func (o *Offer) IsStale(now int64) bool {
	return o.EndTime < now || o.Quantity() < 1
}

func (o *Offer) IsTrader() bool {
	return o.Seller.Type == value.SellerTrader
}

func (o *Offer) IsPlayer() bool {
	return o.Seller.Type == value.SellerPlayer
}

// IsBarter хотя бы одно требование не является валютой.
func (o *Offer) IsBarter() bool {
	for _, r := range o.Requirements {
		if !r.IsMoney() {
			return true
		}
	}

	return false
}

// Clone глубокая копия, которую можно отдавать наружу.
func (o *Offer) Clone() Offer {
	c := *o
	c.Items = CloneItems(o.Items)
	c.Requirements = append([]Requirement(nil), o.Requirements...)
	c.SellResults = append([]SellResult(nil), o.SellResults...)

	return c
}
