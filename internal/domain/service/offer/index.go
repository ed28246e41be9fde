package offer

import (
	"flea_market/internal/domain/entity"
	"flea_market/internal/domain/value"
)

// Index хранит активные предложения в трёх индексах: по id, по шаблону
// корневого предмета и по продавцу. Вторичные индексы ключуются сначала
// группой, затем id, поэтому повторное добавление не создаёт дублей.
// Боты в индекс продавцов не попадают: у каждого бот-лота свой продавец.
// Index не потокобезопасен, синхронизацию обеспечивает Registry.
type Index struct {
	byID       map[string]*entity.Offer
	byTemplate map[string]map[string]*entity.Offer
	bySeller   map[string]map[string]*entity.Offer

	// maxPerTemplate ограничение на бот-лоты одного шаблона, 0 без ограничения.
	maxPerTemplate int
}

func NewIndex(maxPerTemplate int) *Index {
	return &Index{
		byID:           make(map[string]*entity.Offer),
		byTemplate:     make(map[string]map[string]*entity.Offer),
		bySeller:       make(map[string]map[string]*entity.Offer),
		maxPerTemplate: maxPerTemplate,
	}
}

// Add вставляет или заменяет предложение. Возвращает false, если бот-лот
// отклонён ограничением на шаблон.
func (x *Index) Add(o *entity.Offer) bool {
	if old, ok := x.byID[o.ID]; ok {
		x.remove(old)
	} else if x.capped(o) {
		return false
	}

	x.byID[o.ID] = o
	addTo(x.byTemplate, o.Tpl(), o)

	if o.Seller.Type != value.SellerBot {
		addTo(x.bySeller, o.Seller.ID, o)
	}

	return true
}

func (x *Index) capped(o *entity.Offer) bool {
	if x.maxPerTemplate <= 0 || o.Seller.Type != value.SellerBot {
		return false
	}

	return len(x.byTemplate[o.Tpl()]) >= x.maxPerTemplate
}

// Remove удаляет предложение из всех индексов. Повторный вызов ничего не делает.
func (x *Index) Remove(id string) (*entity.Offer, bool) {
	o, ok := x.byID[id]
	if !ok {
		return nil, false
	}

	x.remove(o)

	return o, true
}

func (x *Index) remove(o *entity.Offer) {
	delete(x.byID, o.ID)
	removeFrom(x.byTemplate, o.Tpl(), o.ID)
	removeFrom(x.bySeller, o.Seller.ID, o.ID)
}

func (x *Index) ByID(id string) (*entity.Offer, bool) {
	o, ok := x.byID[id]
	return o, ok
}

func (x *Index) ByTemplate(tpl string) []*entity.Offer {
	return values(x.byTemplate[tpl])
}

func (x *Index) BySeller(sellerID string) []*entity.Offer {
	return values(x.bySeller[sellerID])
}

// RemoveBySeller удаляет все предложения продавца за O(k).
func (x *Index) RemoveBySeller(sellerID string) []*entity.Offer {
	removed := values(x.bySeller[sellerID])
	for _, o := range removed {
		x.remove(o)
	}

	return removed
}

func (x *Index) Offers() []*entity.Offer {
	return values(x.byID)
}

// Stale предложения с истёкшим сроком (EndTime < now) или пустым стаком.
func (x *Index) Stale(now int64) []*entity.Offer {
	var out []*entity.Offer

	for _, o := range x.byID {
		if o.IsStale(now) {
			out = append(out, o)
		}
	}

	return out
}

func (x *Index) Len() int {
	return len(x.byID)
}

func addTo(m map[string]map[string]*entity.Offer, key string, o *entity.Offer) {
	group, ok := m[key]
	if !ok {
		group = make(map[string]*entity.Offer)
		m[key] = group
	}

	group[o.ID] = o
}

func removeFrom(m map[string]map[string]*entity.Offer, key, id string) {
	group, ok := m[key]
	if !ok {
		return
	}

	delete(group, id)

	if len(group) == 0 {
		delete(m, key)
	}
}

func values(m map[string]*entity.Offer) []*entity.Offer {
	out := make([]*entity.Offer, 0, len(m))
	for _, o := range m {
		out = append(out, o)
	}

	return out
}
