package entity

type Trader struct {
	ID       string `json:"id"`
	Nickname string `json:"nickname"`
	Avatar   string `json:"avatar"`
	// NextResupply unix-время следующего обновления ассортимента.
	NextResupply int64 `json:"next_resupply"`
	// BuybackCoef доля цены предмета, которую торговец платит при скупке.
	BuybackCoef float64 `json:"buyback_coef"`
}

// TraderAssort статический ассортимент торговца.
type TraderAssort struct {
	Items []Item `json:"items"`
	// BarterSchemes по идентификатору предмета: варианты оплаты, используется первый.
	BarterSchemes   map[string][][]Requirement `json:"barter_scheme"`
	LoyalLevelItems map[string]int             `json:"loyal_level_items"`
}
