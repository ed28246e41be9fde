package connectors

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
	"github.com/samber/lo"

	"flea_market/pkg/logx"
)

type Redis struct {
	value              *redis.Client
	Username           string
	Password           string
	Address            string
	DatabaseNumber     int
	PoolSize           int
	MinIdleConnections int
	MaxIdleConnections int
	init               sync.Once
}

func (r *Redis) Client(ctx context.Context) *redis.Client {
	r.init.Do(func() {
		r.value = redis.NewClient(&redis.Options{
			//nolint:exhaustruct
			Network:      "tcp",
			Addr:         r.Address,
			Username:     r.Username,
			Password:     r.Password,
			DB:           r.DatabaseNumber,
			PoolSize:     r.PoolSize,
			MinIdleConns: r.MinIdleConnections,
			MaxIdleConns: r.MaxIdleConnections,
		})

		lo.Must0(r.value.Ping(ctx).Err())

		logger(ctx).Info("redis connected", r.attrs()...)
	})

	return r.value
}

// AsynqOpt параметры того же Redis для клиента и сервера очереди задач.
func (r *Redis) AsynqOpt() asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     r.Address,
		Username: r.Username,
		Password: r.Password,
		DB:       r.DatabaseNumber,
		PoolSize: r.PoolSize,
	}
}

func (r *Redis) Ping(ctx context.Context) error {
	if r.value == nil {
		return errors.New("redis is not connected")
	}

	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	return r.value.Ping(ctx).Err()
}

func (r *Redis) Close(ctx context.Context) {
	if r.value == nil {
		return
	}

	if err := r.value.Close(); err != nil {
		logger(ctx).Error("redisClient.Close", logx.Error(err))
	}

	logger(ctx).Info("redis disconnected", r.attrs()...)
}

func (r *Redis) attrs() []any {
	return []any{
		slog.String("address", r.Address),
		slog.Int("database", r.DatabaseNumber),
	}
}
