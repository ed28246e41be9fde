package persistence

import (
	"time"

	jsoniter "github.com/json-iterator/go"

	"flea_market/internal/domain/entity"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary //nolint:gochecknoglobals // skip

// offerSchema строка таблицы player_offers. Лот целиком хранится в payload,
// отдельные колонки нужны для выборок.
type offerSchema struct {
	ID        string    `db:"id"`
	SellerID  string    `db:"seller_id"`
	Tpl       string    `db:"tpl"`
	Payload   []byte    `db:"payload"`
	EndTime   int64     `db:"end_time"`
	UpdatedAt time.Time `db:"updated_at"`
}

func newOfferSchema(o entity.Offer) (offerSchema, error) {
	payload, err := json.Marshal(o)
	if err != nil {
		return offerSchema{}, err
	}

	return offerSchema{
		ID:        o.ID,
		SellerID:  o.Seller.ID,
		Tpl:       o.Tpl(),
		Payload:   payload,
		EndTime:   o.EndTime,
		UpdatedAt: time.Now(),
	}, nil
}

func (s offerSchema) toDomain() (entity.Offer, error) {
	var o entity.Offer
	if err := json.Unmarshal(s.Payload, &o); err != nil {
		return entity.Offer{}, err
	}

	o.ID = s.ID
	o.EndTime = s.EndTime

	return o, nil
}

type priceSchema struct {
	Tpl       string    `db:"tpl"`
	Price     float64   `db:"price"`
	UpdatedAt time.Time `db:"updated_at"`
}
