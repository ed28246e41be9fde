package offer

import (
	"maps"

	"flea_market/internal/domain/entity"
)

// Categories счётчики предложений по шаблону корневого предмета.
// Нулевые и отрицательные значения не хранятся.
type Categories struct {
	counts map[string]int
}

func NewCategories() *Categories {
	return &Categories{counts: make(map[string]int)}
}

func (c *Categories) Increment(o *entity.Offer) {
	c.counts[o.Tpl()]++
}

func (c *Categories) Decrement(o *entity.Offer) {
	tpl := o.Tpl()

	c.counts[tpl]--
	if c.counts[tpl] <= 0 {
		delete(c.counts, tpl)
	}
}

func (c *Categories) All() map[string]int {
	return maps.Clone(c.counts)
}

// Bespoke считает категории по произвольному набору предложений, не трогая
// глобальный счётчик.
func Bespoke(offers []entity.Offer) map[string]int {
	out := make(map[string]int)

	for i := range offers {
		out[offers[i].Tpl()]++
	}

	return out
}
