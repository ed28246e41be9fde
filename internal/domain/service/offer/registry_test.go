package offer_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"flea_market/internal/domain/entity"
	"flea_market/internal/domain/service/offer"
	"flea_market/internal/domain/value"
)

func categorySum(m map[string]int) int {
	sum := 0
	for _, v := range m {
		sum += v
	}

	return sum
}

func TestRegistryCategoriesFollowIndex(t *testing.T) {
	rq := require.New(t)

	r := offer.NewRegistry(0)

	rq.True(r.Add(newOffer("a", "tplA", bot, 1, 1000)))
	rq.True(r.Add(newOffer("b", "tplA", trader, 1, 1000)))
	rq.True(r.Add(newOffer("c", "tplB", player, 1, 1000)))
	rq.True(r.Add(newOffer("c", "tplC", player, 1, 1000)))

	rq.Equal(map[string]int{"tplA": 2, "tplC": 1}, r.Categories())
	rq.Equal(r.Len(), categorySum(r.Categories()))

	_, ok := r.Remove("a")
	rq.True(ok)
	_, ok = r.Remove("a")
	rq.False(ok)

	rq.Len(r.RemoveBySeller("prapor"), 1)
	rq.Equal(map[string]int{"tplC": 1}, r.Categories())
	rq.Equal(r.Len(), categorySum(r.Categories()))
}

func TestRegistryReturnsCopies(t *testing.T) {
	rq := require.New(t)

	r := offer.NewRegistry(0)
	r.Add(newOffer("a", "tplA", bot, 10, 1000))

	got, ok := r.Get("a")
	rq.True(ok)
	got.Items[0].Upd.StackObjectsCount = 1

	again, _ := r.Get("a")
	rq.Equal(10, again.Quantity())
}

func TestRegistryDecrementStack(t *testing.T) {
	rq := require.New(t)

	r := offer.NewRegistry(0)
	r.Add(newOffer("a", "tplA", bot, 10, 1000))

	remaining, removed, ok := r.DecrementStack("a", 5)
	rq.True(ok)
	rq.False(removed)
	rq.Equal(5, remaining)

	remaining, removed, ok = r.DecrementStack("a", 5)
	rq.True(ok)
	rq.True(removed)
	rq.Zero(remaining)
	rq.Empty(r.Categories())

	_, _, ok = r.DecrementStack("a", 1)
	rq.False(ok)
}

func TestRegistryVersionTracksTemplateChanges(t *testing.T) {
	rq := require.New(t)

	r := offer.NewRegistry(0)
	rq.Zero(r.Version("tplA"))

	r.Add(newOffer("a", "tplA", bot, 10, 1000))
	r.Add(newOffer("b", "tplB", bot, 10, 1000))

	seen := r.Version("tplA")
	rq.Positive(seen)

	_, _, ok := r.DecrementStack("a", 1)
	rq.True(ok)
	rq.Greater(r.Version("tplA"), seen)

	seen = r.Version("tplA")
	tplB := r.Version("tplB")

	_, ok = r.Remove("a")
	rq.True(ok)
	rq.Greater(r.Version("tplA"), seen)
	rq.Equal(tplB, r.Version("tplB"))
}

func TestRegistryConcurrentRemoveIsSingle(t *testing.T) {
	rq := require.New(t)

	r := offer.NewRegistry(0)
	r.Add(newOffer("a", "tplA", bot, 1, 1000))

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		removed int
	)

	for range 16 {
		wg.Add(1)

		go func() {
			defer wg.Done()

			if _, ok := r.Remove("a"); ok {
				mu.Lock()
				removed++
				mu.Unlock()
			}
		}()
	}

	wg.Wait()

	rq.Equal(1, removed)
	rq.Empty(r.Categories())
}

func TestRegistryRequired(t *testing.T) {
	rq := require.New(t)

	r := offer.NewRegistry(0)

	barter := newOffer("barter", "tplA", bot, 1, 1000)
	barter.Requirements = []entity.Requirement{{Tpl: "bolts", Count: 2}}

	money := newOffer("money", "tplA", bot, 1, 1000)
	money.Requirements = []entity.Requirement{{Tpl: value.TplRoubles, Count: 1000}}

	r.Add(barter)
	r.Add(money)

	rq.Equal(1, r.RebuildRequired())
	rq.Len(r.Required("bolts"), 1)
	rq.Empty(r.Required(value.TplRoubles))

	r.Remove("barter")
	rq.Empty(r.Required("bolts"))
}

func TestRegistryCountBySeller(t *testing.T) {
	rq := require.New(t)

	r := offer.NewRegistry(0)
	r.Add(newOffer("a", "tplA", bot, 1, 1000))
	r.Add(newOffer("b", "tplA", bot, 1, 1000))
	r.Add(newOffer("c", "tplA", player, 1, 1000))

	rq.Equal(map[value.SellerType]int{
		value.SellerBot:    2,
		value.SellerTrader: 0,
		value.SellerPlayer: 1,
	}, r.CountBySeller())
}
