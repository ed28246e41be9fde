package price

import (
	"slices"

	"flea_market/internal/domain/entity"
)

// PresetPrice цена оружейной сборки относительно заводской. Сборка,
// совпадающая с заводской, стоит как рыночная цена оружия. Иначе к
// basePrice добавляются новые модули и вычитаются заводские модули из тех
// же слотов. Модуль оценивается как max(справочная, скупка).
func (o *Oracle) PresetPrice(root entity.Item, items []entity.Item, basePrice float64) float64 {
	def, ok := o.presets.DefaultPreset(root.Tpl)
	if !ok {
		return basePrice
	}

	if sameTemplates(items, def.Items) {
		return o.MarketPrice(root.Tpl)
	}

	defaultTpls := make(map[string]struct{}, len(def.Items))
	defaultBySlot := make(map[string]entity.Item, len(def.Items))

	for _, it := range def.Items {
		defaultTpls[it.Tpl] = struct{}{}

		if it.SlotID != "" {
			defaultBySlot[it.SlotID] = it
		}
	}

	extra := 0.0
	replaced := make(map[string]struct{})

	for _, it := range items {
		if it.ID == root.ID {
			continue
		}

		if _, inDefault := defaultTpls[it.Tpl]; inDefault {
			continue
		}

		extra += o.HighestStaticOrBuyback(it.Tpl)

		if old, ok := defaultBySlot[it.SlotID]; ok {
			if _, done := replaced[old.ID]; !done {
				replaced[old.ID] = struct{}{}
				extra -= o.HighestStaticOrBuyback(old.Tpl)
			}
		}
	}

	return basePrice + extra
}

func sameTemplates(a, b []entity.Item) bool {
	if len(a) != len(b) {
		return false
	}

	ta := make([]string, len(a))
	tb := make([]string, len(b))

	for i := range a {
		ta[i] = a[i].Tpl
		tb[i] = b[i].Tpl
	}

	slices.Sort(ta)
	slices.Sort(tb)

	return slices.Equal(ta, tb)
}
