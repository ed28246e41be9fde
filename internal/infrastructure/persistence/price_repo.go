package persistence

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"flea_market/internal/domain"
	"flea_market/pkg/errcodes"
)

// PriceRepository снимок таблицы цен живого рынка.
type PriceRepository struct {
	db *sqlx.DB
}

func NewPriceRepository(db *sqlx.DB) *PriceRepository {
	return &PriceRepository{db: db}
}

// Save обновляет цены одной транзакцией.
func (r *PriceRepository) Save(ctx context.Context, prices map[string]float64) error {
	if len(prices) == 0 {
		return nil
	}

	now := time.Now()

	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		query := `
			INSERT INTO market_prices (tpl, price, updated_at)
			VALUES (:tpl, :price, :updated_at)
			ON CONFLICT (tpl) DO UPDATE
			SET price = EXCLUDED.price, updated_at = EXCLUDED.updated_at`

		for tpl, price := range prices {
			row := priceSchema{Tpl: tpl, Price: price, UpdatedAt: now}
			if _, err := tx.NamedExecContext(ctx, query, row); err != nil {
				return domain.WrapError(err, errcodes.InternalServerError, "failed to save price")
			}
		}

		return nil
	})
}

func (r *PriceRepository) Load(ctx context.Context) (map[string]float64, error) {
	var rows []priceSchema
	if err := r.db.SelectContext(ctx, &rows, `SELECT tpl, price, updated_at FROM market_prices`); err != nil {
		return nil, domain.WrapError(err, errcodes.InternalServerError, "failed to load prices")
	}

	out := make(map[string]float64, len(rows))
	for _, row := range rows {
		out[row.Tpl] = row.Price
	}

	return out, nil
}
