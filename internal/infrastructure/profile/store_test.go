package profile_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"flea_market/internal/domain/entity"
	"flea_market/internal/domain/service/trade"
	"flea_market/internal/domain/value"
	"flea_market/internal/infrastructure/profile"
)

const (
	tplGun   = "gun"
	tplMag   = "mag"
	tplBolts = "bolts"
)

func newStore() *profile.Store {
	s := profile.NewStore()
	s.Register(entity.Profile{ID: "pmc", Nickname: "Bear"}, 10_000,
		entity.Item{ID: "gun-1", Tpl: tplGun},
		entity.Item{ID: "mag-1", Tpl: tplMag, ParentID: "gun-1", SlotID: "mod_magazine"},
		entity.Item{ID: "bolts-1", Tpl: tplBolts},
		entity.Item{ID: "bolts-2", Tpl: tplBolts},
	)

	return s
}

func TestItemsAndTake(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()
	s := newStore()

	items, err := s.Items(ctx, "pmc", []string{"gun-1"})
	rq.NoError(err)
	rq.Len(items, 2)

	_, err = s.Items(ctx, "pmc", []string{"nope"})
	rq.Error(err)

	rq.NoError(s.TakeItems(ctx, "pmc", []string{"gun-1"}))
	rq.Len(s.Inventory("pmc"), 2)

	rq.NoError(s.ReturnItems(ctx, "pmc", items))
	rq.Len(s.Inventory("pmc"), 4)
}

func TestChargeAndCredit(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()
	s := newStore()

	rq.ErrorIs(s.Charge(ctx, "pmc", 20_000), profile.ErrInsufficientFunds)
	rq.NoError(s.Charge(ctx, "pmc", 4_000))
	rq.Equal(int64(6_000), s.Balance("pmc", value.RUB))

	rq.NoError(s.Credit(ctx, "pmc", []entity.Requirement{
		{Tpl: value.TplDollars, Count: 10},
		{Tpl: tplBolts, Count: 1},
	}, 3))
	rq.Equal(int64(30), s.Balance("pmc", value.USD))
	rq.Len(s.Inventory("pmc"), 7)
}

func TestRating(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()
	s := newStore()

	rq.NoError(s.AddRating(ctx, "pmc", 0.5))

	p, err := s.Profile(ctx, "pmc")
	rq.NoError(err)
	rq.InDelta(0.5, p.Rating, 0.0001)
	rq.True(p.IsRatingGrowing)

	rq.NoError(s.AddRating(ctx, "pmc", -0.1))

	p, _ = s.Profile(ctx, "pmc")
	rq.False(p.IsRatingGrowing)
}

func TestUnknownProfile(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	s := profile.NewStore()
	_, err := s.Profile(ctx, "ghost")
	rq.Error(err)
	rq.False(s.IsPlayer("ghost"))

	s = profile.NewStore().WithAutoCreate(500)
	p, err := s.Profile(ctx, "ghost")
	rq.NoError(err)
	rq.Equal("ghost", p.ID)
	rq.True(s.IsPlayer("ghost"))
	rq.Equal(int64(500), s.Balance("ghost", value.RUB))
}

func TestExchange(t *testing.T) {
	testCases := []struct {
		name       string
		reqs       []entity.Requirement
		count      int
		wantErr    error
		wantRUB    int64
		wantBolts  int
		wantBought bool
	}{
		{
			name:       "money",
			reqs:       []entity.Requirement{{Tpl: value.TplRoubles, Count: 3_000}},
			count:      2,
			wantRUB:    4_000,
			wantBolts:  2,
			wantBought: true,
		},
		{
			name:      "not enough money",
			reqs:      []entity.Requirement{{Tpl: value.TplRoubles, Count: 3_000}},
			count:     4,
			wantErr:   profile.ErrInsufficientFunds,
			wantRUB:   10_000,
			wantBolts: 2,
		},
		{
			name:       "barter",
			reqs:       []entity.Requirement{{Tpl: tplBolts, Count: 2}},
			count:      1,
			wantRUB:    10_000,
			wantBolts:  0,
			wantBought: true,
		},
		{
			name:      "barter missing items",
			reqs:      []entity.Requirement{{Tpl: tplBolts, Count: 3}},
			count:     1,
			wantErr:   profile.ErrMissingItems,
			wantRUB:   10_000,
			wantBolts: 2,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rq := require.New(t)
			s := newStore()

			err := s.Exchange(context.Background(), trade.Exchange{
				ProfileID: "pmc",
				PayTo:     trade.MarketSink,
				OfferID:   "offer",
				Items: []entity.Item{
					{ID: "ammo", Tpl: "ammo", ParentID: "hideout", SlotID: "hideout", Upd: &entity.Upd{StackObjectsCount: tc.count}},
				},
				Count:        tc.count,
				Requirements: tc.reqs,
			})
			if tc.wantErr != nil {
				rq.ErrorIs(err, tc.wantErr)
			} else {
				rq.NoError(err)
			}

			rq.Equal(tc.wantRUB, s.Balance("pmc", value.RUB))

			var bolts, ammo int

			for _, it := range s.Inventory("pmc") {
				switch it.Tpl {
				case tplBolts:
					bolts++
				case "ammo":
					ammo++
					rq.NotEqual("ammo", it.ID)
					rq.Empty(it.ParentID)
					rq.Equal(tc.count, it.Stack())
				}
			}

			rq.Equal(tc.wantBolts, bolts)
			rq.Equal(tc.wantBought, ammo == 1)
		})
	}
}
