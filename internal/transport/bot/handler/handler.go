package handler

import (
	"context"

	"flea_market/internal/domain/entity"
	"flea_market/internal/domain/value"
	"flea_market/internal/worker"
)

type Scheduler interface {
	IsRunning() bool
	Start(ctx context.Context) error
	Stop()
	Update(ctx context.Context) worker.UpdateStats
	RefreshTrader(ctx context.Context, traderID string) error
}

type Offers interface {
	CountBySeller() map[value.SellerType]int
}

type Prices interface {
	PriceStats(ctx context.Context, tpl string) (entity.PriceStats, error)
}

type Handler struct {
	// ctx время жизни сервиса, в нём запускается планировщик по команде.
	ctx       context.Context //nolint:containedctx
	scheduler Scheduler
	offers    Offers
	prices    Prices
}

func New(ctx context.Context, scheduler Scheduler, offers Offers, prices Prices) *Handler {
	return &Handler{
		ctx:       ctx,
		scheduler: scheduler,
		offers:    offers,
		prices:    prices,
	}
}
