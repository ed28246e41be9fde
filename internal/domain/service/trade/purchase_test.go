package trade_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"flea_market/internal/domain/entity"
	"flea_market/internal/domain/value"
)

func TestPurchasePartialThenSoldOut(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	e := newEnv(t)
	o := e.create(t, botID, "salewa", 10, rub(100))

	res, err := e.svc.Purchase(ctx, buyerID, o.ID, 5)
	rq.NoError(err)
	rq.Equal(5, res.Remaining)
	rq.False(res.SoldOut)
	rq.Equal(5, res.Items[0].Stack())

	left, ok := e.registry.Get(o.ID)
	rq.True(ok)
	rq.Equal(5, left.Quantity())

	res, err = e.svc.Purchase(ctx, buyerID, o.ID, 5)
	rq.NoError(err)
	rq.True(res.SoldOut)

	_, ok = e.registry.Get(o.ID)
	rq.False(ok)
	rq.Empty(e.registry.Categories())

	_, err = e.svc.Purchase(ctx, buyerID, o.ID, 1)
	rq.ErrorContains(err, "not found")

	rq.Equal(2, e.engine.count())
	rq.Equal("ragfair", e.engine.calls[0].PayTo)
}

func TestPurchaseRejections(t *testing.T) {
	testCases := []struct {
		name     string
		count    int
		setup    func(e *env) string
		contains string
	}{
		{
			name:  "zero count",
			count: 0,
			setup: func(e *env) string {
				return e.create(t, botID, "salewa", 10, rub(100)).ID
			},
			contains: "invalid purchase count",
		},
		{
			name:     "unknown offer with zero count",
			count:    0,
			setup:    func(*env) string { return "missing" },
			contains: "not found",
		},
		{
			name:     "unknown offer",
			count:    1,
			setup:    func(*env) string { return "missing" },
			contains: "not found",
		},
		{
			name:  "more than stack",
			count: 11,
			setup: func(e *env) string {
				return e.create(t, botID, "salewa", 10, rub(100)).ID
			},
			contains: "requested 11, available 10",
		},
		{
			name:  "loyalty too low",
			count: 1,
			setup: func(e *env) string {
				return e.traderOffer(t, 0, 3).ID
			},
			contains: "requires loyalty 3",
		},
		{
			name:  "restriction reached",
			count: 3,
			setup: func(e *env) string {
				return e.traderOffer(t, 2, 1).ID
			},
			contains: "buy restriction reached",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rq := require.New(t)

			e := newEnv(t)
			id := tc.setup(e)

			_, err := e.svc.Purchase(context.Background(), buyerID, id, tc.count)
			rq.ErrorContains(err, tc.contains)
			rq.Zero(e.engine.count())
		})
	}
}

func TestPurchaseFailedExchangeLeavesOffer(t *testing.T) {
	rq := require.New(t)

	e := newEnv(t)
	o := e.create(t, botID, "salewa", 10, rub(100))

	e.engine.err = errors.New("insufficient funds")

	_, err := e.svc.Purchase(context.Background(), buyerID, o.ID, 10)
	rq.ErrorContains(err, "payment failed")

	left, ok := e.registry.Get(o.ID)
	rq.True(ok)
	rq.Equal(10, left.Quantity())
	rq.Equal(map[string]int{"salewa": 1}, e.registry.Categories())
}

func TestPurchaseConcurrentNoDoubleSale(t *testing.T) {
	rq := require.New(t)

	e := newEnv(t)
	o := e.create(t, botID, "salewa", 10, rub(100))

	var (
		wg   sync.WaitGroup
		sold atomic.Int64
	)

	for range 25 {
		wg.Add(1)

		go func() {
			defer wg.Done()

			if _, err := e.svc.Purchase(context.Background(), buyerID, o.ID, 1); err == nil {
				sold.Add(1)
			}
		}()
	}

	wg.Wait()

	rq.Equal(int64(10), sold.Load())
	rq.Equal(10, e.engine.count())

	_, ok := e.registry.Get(o.ID)
	rq.False(ok)
}

func TestPurchaseFromTrader(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	e := newEnv(t)
	o := e.traderOffer(t, 2, 1)

	res, err := e.svc.Purchase(ctx, buyerID, o.ID, 2)
	rq.NoError(err)
	rq.Equal(50, res.Remaining)
	rq.Equal(traderID, e.engine.calls[0].PayTo)

	left, ok := e.registry.Get(o.ID)
	rq.True(ok)
	rq.Equal(50, left.Quantity())

	_, err = e.svc.Purchase(ctx, buyerID, o.ID, 1)
	rq.ErrorContains(err, "buy restriction reached")
}

func TestPurchasePlayerOfferPaysSeller(t *testing.T) {
	rq := require.New(t)

	e := newEnv(t)
	o := e.create(t, sellerID, "gpu", 1, rub(12000))
	rq.Equal(value.SellerPlayer, o.Seller.Type)

	before := e.profiles.money(sellerID)

	res, err := e.svc.Purchase(context.Background(), buyerID, o.ID, 1)
	rq.NoError(err)
	rq.True(res.SoldOut)

	rq.Equal(before+12000, e.profiles.money(sellerID))
	rq.InDelta(0.5+0.048, e.profiles.rating(sellerID), 1e-9)
	rq.Equal(12000.0, e.live["gpu"])
	rq.Len(e.notifier.notices, 1)
	rq.Equal("Graphics card", e.notifier.notices[0].Name)
	rq.Contains(e.store.deleted, o.ID)
}

func TestPurchaseOwnOffer(t *testing.T) {
	e := newEnv(t)
	o := e.create(t, sellerID, "gpu", 1, entity.Requirement{Tpl: value.TplRoubles, Count: 100})

	_, err := e.svc.Purchase(context.Background(), sellerID, o.ID, 1)
	require.ErrorContains(t, err, "own offer")
}
