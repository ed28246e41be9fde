package worker_test

import (
	"context"
	"errors"
	"sync"

	"flea_market/internal/domain/entity"
	"flea_market/internal/domain/service/trade"
	"flea_market/internal/domain/value"
)

type fakeCatalog struct{}

func (fakeCatalog) Template(tpl string) (entity.Template, bool) {
	return entity.Template{ID: tpl, Name: tpl, Type: entity.TemplateTypeItem}, true
}

func (fakeCatalog) IsOfBaseclass(string, string) bool { return false }

type fakePrices struct{}

func (fakePrices) MarketPrice(string) float64 { return 100 }

func (fakePrices) StaticPrice(string) float64 { return 100 }

func (fakePrices) RequirementsCost(reqs []entity.Requirement) float64 {
	sum := 0.0
	for _, r := range reqs {
		sum += r.Count
	}

	return sum
}

func (fakePrices) FromRoubles(roubles float64, _ value.Currency) float64 { return roubles }

func (fakePrices) QualityModifier(entity.Item) float64 { return 1 }

type fakeTraders map[string]entity.Trader

func (f fakeTraders) Trader(id string) (entity.Trader, bool) {
	t, ok := f[id]
	return t, ok
}

type fakeProfiles struct {
	mu       sync.Mutex
	players  map[string]*entity.Profile
	returned map[string][]entity.Item
}

func newFakeProfiles(ids ...string) *fakeProfiles {
	f := &fakeProfiles{players: make(map[string]*entity.Profile), returned: make(map[string][]entity.Item)}
	for _, id := range ids {
		f.players[id] = &entity.Profile{ID: id, Rating: 1}
	}

	return f
}

func (f *fakeProfiles) IsPlayer(id string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	_, ok := f.players[id]

	return ok
}

func (f *fakeProfiles) Profile(_ context.Context, id string) (entity.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	p, ok := f.players[id]
	if !ok {
		return entity.Profile{}, errors.New("no profile")
	}

	return *p, nil
}

func (f *fakeProfiles) AddRating(_ context.Context, id string, delta float64) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.players[id].Rating += delta

	return nil
}

func (f *fakeProfiles) Charge(context.Context, string, int64) error { return nil }

func (f *fakeProfiles) Credit(context.Context, string, []entity.Requirement, int) error { return nil }

func (f *fakeProfiles) Items(context.Context, string, []string) ([]entity.Item, error) {
	return nil, errors.New("not used")
}

func (f *fakeProfiles) TakeItems(context.Context, string, []string) error { return nil }

func (f *fakeProfiles) ReturnItems(_ context.Context, id string, items []entity.Item) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.returned[id] = append(f.returned[id], items...)

	return nil
}

type okEngine struct{}

func (okEngine) Exchange(context.Context, trade.Exchange) error { return nil }

type fakeAssort struct {
	mu      sync.Mutex
	due     []string
	synced  []string
	marked  []string
	players int
}

func (f *fakeAssort) Due(int64) []string {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := f.due
	f.due = nil

	return out
}

func (f *fakeAssort) MarkRefresh(id string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.marked = append(f.marked, id)
}

func (f *fakeAssort) SyncTraderOffers(_ context.Context, id string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.synced = append(f.synced, id)

	return 1, nil
}

func (f *fakeAssort) SyncPlayerOffers(context.Context) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.players++

	return 0, nil
}

type fakeGenerator struct {
	mu          sync.Mutex
	loaded      bool
	all         int
	regenerated [][]string
}

func (f *fakeGenerator) Load(context.Context) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.loaded = true
}

func (f *fakeGenerator) GenerateAll(context.Context) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.all++

	return 0, nil
}

func (f *fakeGenerator) Regenerate(_ context.Context, tpls []string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.regenerated = append(f.regenerated, tpls)

	return len(tpls), nil
}
