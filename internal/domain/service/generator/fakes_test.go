package generator_test

import (
	"context"
	"sync"

	"flea_market/internal/domain/entity"
	"flea_market/internal/domain/service/offer"
	"flea_market/internal/domain/value"
)

type fakeCatalog struct {
	templates map[string]entity.Template
	bases     map[string]string
}

func (f fakeCatalog) Template(tpl string) (entity.Template, bool) {
	t, ok := f.templates[tpl]
	return t, ok
}

func (f fakeCatalog) Templates() []entity.Template {
	out := make([]entity.Template, 0, len(f.templates))
	for _, t := range f.templates {
		out = append(out, t)
	}

	return out
}

func (f fakeCatalog) IsOfBaseclass(tpl, baseClass string) bool {
	return f.bases[tpl] == baseClass
}

// fakePricer цена лота равна рыночной цене корня, валюта не пересчитывается.
type fakePricer map[string]float64

func (f fakePricer) MarketPrice(tpl string) float64 {
	if p, ok := f[tpl]; ok {
		return p
	}

	return 1
}

func (f fakePricer) OfferPrice(items []entity.Item, _ value.Currency, _ bool) float64 {
	return f.MarketPrice(items[0].Tpl)
}

func (f fakePricer) IsPreset(items []entity.Item) bool {
	return len(items) > 1
}

type fakePresets map[string]entity.Preset

func (f fakePresets) DefaultPreset(tpl string) (entity.Preset, bool) {
	p, ok := f[tpl]
	return p, ok
}

type fakeCreator struct {
	mu     sync.Mutex
	params []offer.CreateParams
}

func (f *fakeCreator) Create(_ context.Context, p offer.CreateParams) (entity.Offer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.params = append(f.params, p)

	return entity.Offer{ID: p.SellerID, Items: p.Items, Requirements: p.Requirements}, nil
}

func (f *fakeCreator) tpls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]string, 0, len(f.params))
	for _, p := range f.params {
		out = append(out, p.Items[0].Tpl)
	}

	return out
}

type nopConditioner struct{}

func (nopConditioner) Apply([]entity.Item) {}

type countMetrics struct {
	mu    sync.Mutex
	total int
}

func (c *countMetrics) AddGenerated(n int) {
	c.mu.Lock()
	c.total += n
	c.mu.Unlock()
}
