package persistence

import (
	"context"

	"github.com/jmoiron/sqlx"

	"flea_market/internal/domain"
	"flea_market/internal/domain/entity"
	"flea_market/pkg/errcodes"
	"flea_market/pkg/lox"
)

// OfferRepository лоты игроков, которые переживают перезапуск.
type OfferRepository struct {
	db *sqlx.DB
}

func NewOfferRepository(db *sqlx.DB) *OfferRepository {
	return &OfferRepository{db: db}
}

// Save вставляет лот или обновляет сохранённый.
func (r *OfferRepository) Save(ctx context.Context, o entity.Offer) error {
	schema, err := newOfferSchema(o)
	if err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "failed to marshal offer")
	}

	query := `
		INSERT INTO player_offers (id, seller_id, tpl, payload, end_time, updated_at)
		VALUES (:id, :seller_id, :tpl, :payload, :end_time, :updated_at)
		ON CONFLICT (id) DO UPDATE
		SET payload = EXCLUDED.payload, end_time = EXCLUDED.end_time, updated_at = EXCLUDED.updated_at`

	if _, err := r.db.NamedExecContext(ctx, query, schema); err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "failed to save offer")
	}

	return nil
}

func (r *OfferRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM player_offers WHERE id = $1`, id); err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "failed to delete offer")
	}

	return nil
}

func (r *OfferRepository) List(ctx context.Context) ([]entity.Offer, error) {
	query := `
		SELECT id, seller_id, tpl, payload, end_time, updated_at
		FROM player_offers
		ORDER BY updated_at`

	var schemas []offerSchema
	if err := r.db.SelectContext(ctx, &schemas, query); err != nil {
		return nil, domain.WrapError(err, errcodes.InternalServerError, "failed to list offers")
	}

	offers, err := lox.MapErr(schemas, offerSchema.toDomain)
	if err != nil {
		return nil, domain.WrapError(err, errcodes.InternalServerError, "failed to convert offer")
	}

	return offers, nil
}
