package trade_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"flea_market/internal/domain/entity"
	"flea_market/internal/domain/service/offer"
	"flea_market/internal/domain/service/trade"
	"flea_market/internal/domain/value"
	"flea_market/pkg/randx"
)

const (
	traderID = "54cb50c76803fa8b248b4571"
	sellerID = "pmc-seller"
	buyerID  = "pmc-buyer"
	botID    = "bot-1"
	now      = int64(10000)
)

type env struct {
	svc      *trade.Service
	registry *offer.Registry
	factory  *offer.Factory
	profiles *fakeProfiles
	engine   *fakeEngine
	ledger   *fakeLedger
	store    *fakeStore
	notifier *fakeNotifier
	live     fakeLive
}

func testCatalog() fakeCatalog {
	return fakeCatalog{
		"salewa": {ID: "salewa", Name: "Salewa", Parent: value.BaseClassMedKit, Type: entity.TemplateTypeItem},
		"gpu": {
			ID: "gpu", Name: "Graphics card", Parent: value.BaseClassBarterItem, Type: entity.TemplateTypeItem,
			Props: entity.TemplateProps{Compatible: []string{"salewa"}},
		},
		"ak": {ID: "ak", Name: "AK-74N", Parent: value.BaseClassWeapon, Type: entity.TemplateTypeItem},
	}
}

func newEnv(t *testing.T) *env {
	t.Helper()

	prices := fakePrices{"salewa": 100, "gpu": 10000, "ak": 30000}
	traders := fakeTraders{traderID: {ID: traderID, Nickname: "Prapor", NextResupply: 20000}}

	profiles := newFakeProfiles()
	profiles.add(entity.Profile{ID: buyerID, Rating: 0.2, TraderLoyalty: map[string]int{traderID: 1}}, 1_000_000)
	profiles.add(entity.Profile{ID: sellerID, Rating: 0.5}, 1000,
		entity.Item{ID: "inv-gpu", Tpl: "gpu", SlotID: value.SlotHideout, Upd: &entity.Upd{StackObjectsCount: 1}},
		entity.Item{ID: "inv-s1", Tpl: "salewa", Upd: &entity.Upd{StackObjectsCount: 1}},
		entity.Item{ID: "inv-s2", Tpl: "salewa", Upd: &entity.Upd{StackObjectsCount: 1}},
		entity.Item{ID: "inv-ak", Tpl: "ak"},
		entity.Item{ID: "inv-ak-mag", Tpl: "gpu", ParentID: "inv-ak", SlotID: "mod_magazine"},
	)

	registry := offer.NewRegistry(0)
	factory := offer.NewFactory(registry, prices, traders, profiles, randx.New(3))

	cfg := trade.DefaultConfig()
	cfg.Sell.Enabled = false

	e := &env{
		registry: registry,
		factory:  factory,
		profiles: profiles,
		engine:   &fakeEngine{},
		ledger:   &fakeLedger{},
		store:    &fakeStore{},
		notifier: &fakeNotifier{},
		live:     fakeLive{},
	}

	e.svc = trade.NewService(registry, testCatalog(), prices, factory, e.engine, profiles, randx.New(5)).
		WithConfig(cfg).
		WithLedger(e.ledger).
		WithStore(e.store).
		WithNotifier(e.notifier).
		WithLivePrices(e.live).
		WithClock(func() time.Time { return time.Unix(now, 0) })

	return e
}

func (e *env) create(t *testing.T, seller, tpl string, stack int, reqs ...entity.Requirement) entity.Offer {
	t.Helper()

	o, err := e.factory.Create(context.Background(), offer.CreateParams{
		SellerID:     seller,
		Time:         now,
		Items:        []entity.Item{{ID: seller + "-" + tpl, Tpl: tpl, Upd: &entity.Upd{StackObjectsCount: stack}}},
		Requirements: reqs,
		LoyaltyLevel: 1,
	})
	require.NoError(t, err)

	return o
}

func (e *env) traderOffer(t *testing.T, restriction, loyalty int) entity.Offer {
	t.Helper()

	o, err := e.factory.Create(context.Background(), offer.CreateParams{
		SellerID: traderID,
		Time:     now,
		Items: []entity.Item{{
			ID:  "assort-salewa",
			Tpl: "salewa",
			Upd: &entity.Upd{StackObjectsCount: 50, BuyRestrictionMax: restriction},
		}},
		Requirements: []entity.Requirement{rub(150)},
		LoyaltyLevel: loyalty,
	})
	require.NoError(t, err)

	return o
}

func rub(n float64) entity.Requirement {
	return entity.Requirement{Tpl: value.TplRoubles, Count: n}
}
