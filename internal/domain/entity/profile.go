package entity

type Profile struct {
	ID              string         `json:"id"`
	Nickname        string         `json:"nickname"`
	Rating          float64        `json:"rating"`
	IsRatingGrowing bool           `json:"is_rating_growing"`
	TraderLoyalty   map[string]int `json:"trader_loyalty"`
}

func (p Profile) LoyaltyLevel(traderID string) int {
	return p.TraderLoyalty[traderID]
}
