package price_test

import (
	"context"
	"errors"

	"flea_market/internal/domain/entity"
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

type fakeHandbook map[string]float64

func (f fakeHandbook) HandbookPrice(tpl string) (float64, bool) {
	p, ok := f[tpl]
	return p, ok
}

type fakeTraders map[string]float64

func (f fakeTraders) HighestBuybackPrice(tpl string) float64 {
	return f[tpl]
}

type fakePresets map[string]entity.Preset

func (f fakePresets) DefaultPreset(tpl string) (entity.Preset, bool) {
	p, ok := f[tpl]
	return p, ok
}

type fakeWriter struct {
	saved map[string]float64
	err   error
}

func (f *fakeWriter) Save(_ context.Context, prices map[string]float64) error {
	if f.err != nil {
		return f.err
	}

	f.saved = prices

	return nil
}

var errSave = errors.New("save failed")
