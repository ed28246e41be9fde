package offer_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"flea_market/internal/domain/entity"
	"flea_market/internal/domain/service/offer"
	"flea_market/internal/domain/value"
)

var (
	bot    = entity.Seller{ID: "bot1", Type: value.SellerBot}
	trader = entity.Seller{ID: "prapor", Type: value.SellerTrader}
	player = entity.Seller{ID: "pmc", Type: value.SellerPlayer}
)

func TestIndexConsistency(t *testing.T) {
	rq := require.New(t)

	x := offer.NewIndex(0)

	o1 := newOffer("o1", "tplA", trader, 1, 1000)
	o2 := newOffer("o2", "tplA", bot, 1, 1000)
	o3 := newOffer("o3", "tplB", player, 1, 1000)

	for _, o := range []*entity.Offer{o1, o2, o3} {
		rq.True(x.Add(o))
	}

	for _, o := range []*entity.Offer{o1, o2, o3} {
		got, ok := x.ByID(o.ID)
		rq.True(ok)
		rq.Same(o, got)
		rq.Contains(x.ByTemplate(o.Tpl()), o)
	}

	rq.Equal([]*entity.Offer{o1}, x.BySeller("prapor"))
	rq.Equal([]*entity.Offer{o3}, x.BySeller("pmc"))
	rq.Empty(x.BySeller("bot1"))

	removed, ok := x.Remove("o1")
	rq.True(ok)
	rq.Same(o1, removed)

	_, ok = x.ByID("o1")
	rq.False(ok)
	rq.NotContains(x.ByTemplate("tplA"), o1)
	rq.Empty(x.BySeller("prapor"))

	_, ok = x.Remove("o1")
	rq.False(ok)
	rq.Equal(2, x.Len())
}

func TestIndexAddIsIdempotent(t *testing.T) {
	rq := require.New(t)

	x := offer.NewIndex(0)

	o := newOffer("o1", "tplA", trader, 1, 1000)
	rq.True(x.Add(o))
	rq.True(x.Add(o))

	moved := newOffer("o1", "tplB", trader, 1, 1000)
	rq.True(x.Add(moved))

	rq.Equal(1, x.Len())
	rq.Empty(x.ByTemplate("tplA"))
	rq.Len(x.ByTemplate("tplB"), 1)
	rq.Len(x.BySeller("prapor"), 1)
}

func TestIndexUnknownKeysAreEmpty(t *testing.T) {
	rq := require.New(t)

	x := offer.NewIndex(0)

	_, ok := x.ByID("nope")
	rq.False(ok)
	rq.Empty(x.ByTemplate("nope"))
	rq.Empty(x.BySeller("nope"))
	rq.Empty(x.RemoveBySeller("nope"))
}

func TestIndexCapAppliesToBotsOnly(t *testing.T) {
	rq := require.New(t)

	x := offer.NewIndex(2)

	rq.True(x.Add(newOffer("b1", "tplA", bot, 1, 1000)))
	rq.True(x.Add(newOffer("b2", "tplA", bot, 1, 1000)))
	rq.False(x.Add(newOffer("b3", "tplA", bot, 1, 1000)))
	rq.True(x.Add(newOffer("t1", "tplA", trader, 1, 1000)))
	rq.True(x.Add(newOffer("p1", "tplA", player, 1, 1000)))
	rq.True(x.Add(newOffer("b1", "tplA", bot, 5, 1000)))

	rq.Len(x.ByTemplate("tplA"), 4)
}

func TestIndexStale(t *testing.T) {
	rq := require.New(t)

	x := offer.NewIndex(0)
	x.Add(newOffer("expired", "tplA", bot, 1, 99))
	x.Add(newOffer("boundary", "tplA", bot, 1, 100))
	x.Add(newOffer("empty", "tplA", bot, 0, 1000))
	x.Add(newOffer("fresh", "tplA", bot, 3, 1000))

	ids := make([]string, 0)
	for _, o := range x.Stale(100) {
		ids = append(ids, o.ID)
	}

	rq.ElementsMatch([]string{"expired", "empty"}, ids)
}

func TestIndexRemoveBySeller(t *testing.T) {
	rq := require.New(t)

	x := offer.NewIndex(0)
	x.Add(newOffer("t1", "tplA", trader, 1, 1000))
	x.Add(newOffer("t2", "tplB", trader, 1, 1000))
	x.Add(newOffer("p1", "tplA", player, 1, 1000))

	rq.Len(x.RemoveBySeller("prapor"), 2)
	rq.Equal(1, x.Len())
	rq.Empty(x.ByTemplate("tplB"))
}
