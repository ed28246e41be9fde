package value

import "fmt"

// SellerType определяет, кто выставил предложение.
type SellerType int

const (
	SellerBot SellerType = iota
	SellerTrader
	SellerPlayer
)

var sellerTypeNames = [...]string{ //nolint:gochecknoglobals
	SellerBot:    "bot",
	SellerTrader: "trader",
	SellerPlayer: "player",
}

func (s SellerType) String() string {
	if s < 0 || int(s) >= len(sellerTypeNames) {
		return fmt.Sprintf("seller(%d)", int(s))
	}

	return sellerTypeNames[s]
}

func (s SellerType) Valid() bool {
	return s >= SellerBot && s <= SellerPlayer
}

// SellerTypes перечисляет все типы продавцов, например для метрик.
func SellerTypes() []SellerType {
	return []SellerType{SellerBot, SellerTrader, SellerPlayer}
}

// OwnerType фильтр поиска по владельцу предложения.
type OwnerType int

const (
	OwnerAny OwnerType = iota
	OwnerTraders
	OwnerPlayers
)

// Accepts проверяет, проходит ли продавец фильтр. Боты считаются игроками.
func (o OwnerType) Accepts(s SellerType) bool {
	switch o {
	case OwnerTraders:
		return s == SellerTrader
	case OwnerPlayers:
		return s != SellerTrader
	case OwnerAny:
		return true
	default:
		return true
	}
}
