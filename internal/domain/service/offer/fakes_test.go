package offer_test

import (
	"context"
	"errors"

	"flea_market/internal/domain/entity"
)

type fakeTraders map[string]entity.Trader

func (f fakeTraders) Trader(id string) (entity.Trader, bool) {
	t, ok := f[id]
	return t, ok
}

type fakeProfiles map[string]entity.Profile

func (f fakeProfiles) IsPlayer(id string) bool {
	_, ok := f[id]
	return ok
}

func (f fakeProfiles) Profile(_ context.Context, id string) (entity.Profile, error) {
	p, ok := f[id]
	if !ok {
		return entity.Profile{}, errors.New("profile not found")
	}

	return p, nil
}

// fakePrices справочная цена 100 за всё, валюта по номиналу.
type fakePrices struct{}

func (fakePrices) StaticPrice(string) float64 {
	return 100
}

func (fakePrices) RequirementsCost(reqs []entity.Requirement) float64 {
	total := 0.0
	for _, r := range reqs {
		if r.IsMoney() {
			total += r.Count
			continue
		}

		total += 100 * r.Count
	}

	return total
}

type fakeCatalog struct {
	templates map[string]entity.Template
	bases     map[string]string
}

func (f fakeCatalog) Template(tpl string) (entity.Template, bool) {
	t, ok := f.templates[tpl]
	return t, ok
}

func (f fakeCatalog) IsOfBaseclass(tpl, baseClass string) bool {
	return f.bases[tpl] == baseClass
}

func newOffer(id, tpl string, seller entity.Seller, stack int, endTime int64) *entity.Offer {
	return &entity.Offer{
		ID:     id,
		Seller: seller,
		Root:   id + "_item",
		Items: []entity.Item{
			{ID: id + "_item", Tpl: tpl, Upd: &entity.Upd{StackObjectsCount: stack}},
		},
		StartTime: endTime - 100,
		EndTime:   endTime,
	}
}
