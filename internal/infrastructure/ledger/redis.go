package ledger

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"flea_market/internal/domain"
	"flea_market/pkg/errcodes"
)

const keyPrefix = "flea:restriction:"

// Redis счётчики покупок с ограничением. Ключ живёт до обновления
// ассортимента торговца и пропадает вместе со счётчиком.
type Redis struct {
	client *redis.Client
}

func NewRedis(client *redis.Client) *Redis {
	return &Redis{client: client}
}

func key(profileID, offerID string) string {
	return keyPrefix + profileID + ":" + offerID
}

func (r *Redis) Bought(ctx context.Context, profileID, offerID string) (int, error) {
	n, err := r.client.Get(ctx, key(profileID, offerID)).Int()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}

	if err != nil {
		return 0, domain.WrapError(err, errcodes.InternalServerError, "failed to read restriction counter")
	}

	return n, nil
}

func (r *Redis) Add(ctx context.Context, profileID, offerID string, count int, expireAt int64) (int, error) {
	k := key(profileID, offerID)

	var incr *redis.IntCmd

	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.IncrBy(ctx, k, int64(count))

		if expireAt > 0 {
			pipe.ExpireAt(ctx, k, time.Unix(expireAt, 0))
		}

		return nil
	})
	if err != nil {
		return 0, domain.WrapError(err, errcodes.InternalServerError, "failed to update restriction counter")
	}

	return int(incr.Val()), nil
}
