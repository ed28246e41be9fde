package trade_test

import (
	"context"
	"errors"
	"sync"

	"flea_market/internal/domain/entity"
	"flea_market/internal/domain/service/trade"
	"flea_market/internal/domain/value"
)

var errNoMoney = errors.New("not enough money")

type fakeCatalog map[string]entity.Template

func (f fakeCatalog) Template(tpl string) (entity.Template, bool) {
	t, ok := f[tpl]
	return t, ok
}

func (f fakeCatalog) IsOfBaseclass(tpl, baseClass string) bool {
	t, ok := f[tpl]
	return ok && t.Parent == baseClass
}

// fakePrices рубли по номиналу, доллар стоит 100 рублей.
type fakePrices map[string]float64

func (f fakePrices) MarketPrice(tpl string) float64 {
	return f.StaticPrice(tpl)
}

func (f fakePrices) StaticPrice(tpl string) float64 {
	if p, ok := f[tpl]; ok {
		return p
	}

	return 1
}

func (f fakePrices) RequirementsCost(reqs []entity.Requirement) float64 {
	sum := 0.0

	for _, r := range reqs {
		switch r.Tpl {
		case value.TplRoubles:
			sum += r.Count
		case value.TplDollars:
			sum += r.Count * 100
		default:
			sum += f.StaticPrice(r.Tpl) * r.Count
		}
	}

	return sum
}

func (f fakePrices) FromRoubles(roubles float64, currency value.Currency) float64 {
	if currency == value.USD {
		return roubles / 100
	}

	return roubles
}

func (f fakePrices) QualityModifier(entity.Item) float64 {
	return 1
}

type fakeTraders map[string]entity.Trader

func (f fakeTraders) Trader(id string) (entity.Trader, bool) {
	t, ok := f[id]
	return t, ok
}

type fakeProfiles struct {
	mu        sync.Mutex
	profiles  map[string]*entity.Profile
	inventory map[string][]entity.Item
	balance   map[string]int64
	returned  map[string][]entity.Item
}

func newFakeProfiles() *fakeProfiles {
	return &fakeProfiles{
		profiles:  make(map[string]*entity.Profile),
		inventory: make(map[string][]entity.Item),
		balance:   make(map[string]int64),
		returned:  make(map[string][]entity.Item),
	}
}

func (f *fakeProfiles) add(p entity.Profile, balance int64, items ...entity.Item) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.profiles[p.ID] = &p
	f.balance[p.ID] = balance
	f.inventory[p.ID] = items
}

func (f *fakeProfiles) rating(id string) float64 {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.profiles[id].Rating
}

func (f *fakeProfiles) money(id string) int64 {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.balance[id]
}

func (f *fakeProfiles) IsPlayer(id string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	_, ok := f.profiles[id]

	return ok
}

func (f *fakeProfiles) Profile(_ context.Context, id string) (entity.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	p, ok := f.profiles[id]
	if !ok {
		return entity.Profile{}, errors.New("profile not found")
	}

	return *p, nil
}

func (f *fakeProfiles) AddRating(_ context.Context, id string, delta float64) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.profiles[id].Rating += delta

	return nil
}

func (f *fakeProfiles) Charge(_ context.Context, id string, roubles int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.balance[id] < roubles {
		return errNoMoney
	}

	f.balance[id] -= roubles

	return nil
}

func (f *fakeProfiles) Credit(_ context.Context, id string, reqs []entity.Requirement, times int) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, r := range reqs {
		if r.Tpl == value.TplRoubles {
			f.balance[id] += int64(r.Count) * int64(times)
		}
	}

	return nil
}

func (f *fakeProfiles) Items(_ context.Context, id string, itemIDs []string) ([]entity.Item, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []entity.Item

	for _, itemID := range itemIDs {
		children := entity.ChildrenOf(f.inventory[id], itemID)
		if len(children) == 0 {
			return nil, errors.New("item not found")
		}

		out = append(out, children...)
	}

	return out, nil
}

func (f *fakeProfiles) TakeItems(_ context.Context, id string, itemIDs []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, itemID := range itemIDs {
		for _, it := range entity.ChildrenOf(f.inventory[id], itemID) {
			inv := f.inventory[id]
			for i := range inv {
				if inv[i].ID == it.ID {
					f.inventory[id] = append(inv[:i], inv[i+1:]...)
					break
				}
			}
		}
	}

	return nil
}

func (f *fakeProfiles) ReturnItems(_ context.Context, id string, items []entity.Item) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.returned[id] = append(f.returned[id], items...)

	return nil
}

type fakeEngine struct {
	mu    sync.Mutex
	err   error
	calls []trade.Exchange
}

func (f *fakeEngine) Exchange(_ context.Context, ex trade.Exchange) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.err != nil {
		return f.err
	}

	f.calls = append(f.calls, ex)

	return nil
}

func (f *fakeEngine) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return len(f.calls)
}

type fakeLedger struct {
	mu     sync.Mutex
	bought map[string]int
}

func (f *fakeLedger) Bought(_ context.Context, profileID, offerID string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.bought[profileID+"/"+offerID], nil
}

func (f *fakeLedger) Add(_ context.Context, profileID, offerID string, count int, _ int64) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.bought == nil {
		f.bought = make(map[string]int)
	}

	f.bought[profileID+"/"+offerID] += count

	return f.bought[profileID+"/"+offerID], nil
}

type fakeStore struct {
	mu      sync.Mutex
	saved   map[string]entity.Offer
	deleted []string
}

func (f *fakeStore) Save(_ context.Context, o entity.Offer) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.saved == nil {
		f.saved = make(map[string]entity.Offer)
	}

	f.saved[o.ID] = o

	return nil
}

func (f *fakeStore) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	delete(f.saved, id)
	f.deleted = append(f.deleted, id)

	return nil
}

type fakeNotifier struct {
	mu      sync.Mutex
	notices []trade.SaleNotice
}

func (f *fakeNotifier) NotifySale(_ context.Context, n trade.SaleNotice) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.notices = append(f.notices, n)

	return nil
}

type fakeLive map[string]float64

func (f fakeLive) Record(tpl string, unitPrice float64) {
	f[tpl] = unitPrice
}
