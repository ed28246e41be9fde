package persistence

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"flea_market/internal/domain"
	"flea_market/pkg/errcodes"
)

// withTx выполняет функцию в транзакции.
func withTx(ctx context.Context, db *sqlx.DB, fn func(tx *sqlx.Tx) error) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "failed to begin transaction")
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return domain.WrapError(
				fmt.Errorf("%w; rollback: %v", err, rbErr),
				errcodes.InternalServerError,
				"transaction failed",
			)
		}

		return err
	}

	if err := tx.Commit(); err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "failed to commit")
	}

	return nil
}
