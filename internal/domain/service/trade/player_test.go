package trade_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"flea_market/internal/domain/entity"
	"flea_market/internal/domain/service/trade"
	"flea_market/internal/domain/value"
)

func TestCreatePlayerOffer(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	e := newEnv(t)

	o, err := e.svc.CreatePlayerOffer(ctx, sellerID, trade.CreateOfferRequest{
		ItemIDs:      []string{"inv-gpu"},
		Requirements: []entity.Requirement{rub(10000)},
	})
	rq.NoError(err)
	rq.Equal(value.SellerPlayer, o.Seller.Type)
	rq.Equal(now+12*3600, o.EndTime)
	rq.Equal(10000.0, o.SummaryCost)

	// worth 10000, price 10000: 3% + 3%
	rq.Equal(int64(400), e.profiles.money(sellerID))

	_, ok := e.registry.Get(o.ID)
	rq.True(ok)
	rq.Contains(e.store.saved, o.ID)

	_, err = e.profiles.Items(ctx, sellerID, []string{"inv-gpu"})
	rq.Error(err)
}

func TestCreatePlayerOfferStacksSameTemplate(t *testing.T) {
	rq := require.New(t)

	e := newEnv(t)

	o, err := e.svc.CreatePlayerOffer(context.Background(), sellerID, trade.CreateOfferRequest{
		ItemIDs:      []string{"inv-s1", "inv-s2"},
		Requirements: []entity.Requirement{rub(100)},
	})
	rq.NoError(err)
	rq.Len(o.Items, 1)
	rq.Equal(2, o.Quantity())
}

func TestCreatePlayerOfferRejections(t *testing.T) {
	testCases := []struct {
		name     string
		req      trade.CreateOfferRequest
		contains string
	}{
		{
			name:     "no items",
			req:      trade.CreateOfferRequest{Requirements: []entity.Requirement{rub(1)}},
			contains: "no items",
		},
		{
			name:     "no requirements",
			req:      trade.CreateOfferRequest{ItemIDs: []string{"inv-gpu"}},
			contains: "no requirements",
		},
		{
			name: "zero requirement",
			req: trade.CreateOfferRequest{
				ItemIDs:      []string{"inv-gpu"},
				Requirements: []entity.Requirement{rub(0)},
			},
			contains: "must be positive",
		},
		{
			name: "repeated item id",
			req: trade.CreateOfferRequest{
				ItemIDs:      []string{"inv-s1", "inv-s1", "inv-s1"},
				Requirements: []entity.Requirement{rub(100)},
			},
			contains: "duplicate item ids",
		},
		{
			name: "mixed templates",
			req: trade.CreateOfferRequest{
				ItemIDs:      []string{"inv-gpu", "inv-s1"},
				Requirements: []entity.Requirement{rub(100)},
			},
			contains: "share a template",
		},
		{
			name: "stack with mods",
			req: trade.CreateOfferRequest{
				ItemIDs:      []string{"inv-ak", "inv-s1"},
				Requirements: []entity.Requirement{rub(100)},
			},
			contains: "single items",
		},
		{
			name: "tax not affordable",
			req: trade.CreateOfferRequest{
				ItemIDs:      []string{"inv-gpu"},
				Requirements: []entity.Requirement{rub(1_000_000)},
			},
			contains: "payment failed",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rq := require.New(t)

			e := newEnv(t)

			_, err := e.svc.CreatePlayerOffer(context.Background(), sellerID, tc.req)
			rq.ErrorContains(err, tc.contains)
			rq.Zero(e.registry.Len())
			rq.Equal(int64(1000), e.profiles.money(sellerID))
		})
	}
}

func TestCancelThenExpireReturnsItems(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	e := newEnv(t)
	o := e.create(t, sellerID, "gpu", 1, rub(12000))

	_, err := e.svc.CancelPlayerOffer(ctx, buyerID, o.ID)
	rq.ErrorContains(err, "another seller")

	cancelled, err := e.svc.CancelPlayerOffer(ctx, sellerID, o.ID)
	rq.NoError(err)
	rq.Equal(now+71, cancelled.EndTime)

	_, ok := e.svc.Expire(ctx, o.ID, now+71)
	rq.False(ok)

	expired, ok := e.svc.Expire(ctx, o.ID, now+72)
	rq.True(ok)
	rq.Equal(o.ID, expired.ID)
	rq.Len(e.profiles.returned[sellerID], 1)
	rq.InDelta(0.4, e.profiles.rating(sellerID), 1e-9)

	_, ok = e.svc.Expire(ctx, o.ID, now+72)
	rq.False(ok)
	rq.Zero(e.registry.Len())
}

func TestCancelKeepsShortEndTime(t *testing.T) {
	rq := require.New(t)

	e := newEnv(t)
	o := e.create(t, sellerID, "gpu", 1, rub(12000))
	e.registry.Update(o.ID, func(x *entity.Offer) { x.EndTime = now + 30 })

	cancelled, err := e.svc.CancelPlayerOffer(context.Background(), sellerID, o.ID)
	rq.NoError(err)
	rq.Equal(now+30, cancelled.EndTime)
}

func TestExpireSkipsTraderAndFreshOffers(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	e := newEnv(t)
	tr := e.traderOffer(t, 0, 1)
	bot := e.create(t, botID, "salewa", 1, rub(100))

	_, ok := e.svc.Expire(ctx, tr.ID, now+100000)
	rq.False(ok)

	_, ok = e.svc.Expire(ctx, bot.ID, now)
	rq.False(ok)

	_, ok = e.svc.Expire(ctx, bot.ID, bot.EndTime+1)
	rq.True(ok)
	rq.Empty(e.profiles.returned)
}

func TestExtendPlayerOffer(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	e := newEnv(t)
	o := e.create(t, sellerID, "gpu", 1, rub(10000))

	_, err := e.svc.ExtendPlayerOffer(ctx, sellerID, o.ID, 0)
	rq.ErrorContains(err, "at least one hour")

	extended, err := e.svc.ExtendPlayerOffer(ctx, sellerID, o.ID, 2)
	rq.NoError(err)
	rq.Equal(o.EndTime+7200, extended.EndTime)
	rq.Equal(int64(400), e.profiles.money(sellerID))

	_, err = e.svc.ExtendPlayerOffer(ctx, sellerID, o.ID, 2)
	rq.ErrorContains(err, "payment failed")

	same, _ := e.registry.Get(o.ID)
	rq.Equal(extended.EndTime, same.EndTime)
}

func TestCompleteDueSales(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	e := newEnv(t)
	o := e.create(t, sellerID, "salewa", 5, rub(100))

	e.registry.Update(o.ID, func(x *entity.Offer) {
		x.SellResults = []entity.SellResult{
			{SellTime: now - 10, Amount: 2},
			{SellTime: now, Amount: 1},
			{SellTime: now + 600, Amount: 2},
		}
	})

	before := e.profiles.money(sellerID)

	rq.Equal(1, e.svc.CompleteDueSales(ctx, now))

	left, ok := e.registry.Get(o.ID)
	rq.True(ok)
	rq.Equal(2, left.Quantity())
	rq.Len(left.SellResults, 1)
	rq.Equal(before+300, e.profiles.money(sellerID))

	rq.Zero(e.svc.CompleteDueSales(ctx, now))
	rq.Equal(1, e.svc.CompleteDueSales(ctx, now+600))

	_, ok = e.registry.Get(o.ID)
	rq.False(ok)
	rq.Len(e.notifier.notices, 2)
}
