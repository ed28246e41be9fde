package offer

import (
	"hash/fnv"
	"sync"

	"flea_market/internal/domain/entity"
	"flea_market/internal/domain/value"
)

const offerLockStripes = 64

// Registry единственный владелец предложений. Индексы, счётчики категорий
// и обратный индекс требований меняются под одной блокировкой, поэтому
// предложение никогда не видно в одном индексе без другого. Наружу
// отдаются копии; изменения идут через методы Registry.
type Registry struct {
	mu         sync.RWMutex
	index      *Index
	categories *Categories
	// required шаблон требования -> id предложений, которые его просят.
	required map[string]map[string]struct{}
	// versions растут при каждом изменении лотов шаблона.
	versions map[string]uint64

	offerLocks [offerLockStripes]sync.Mutex
}

func NewRegistry(maxPerTemplate int) *Registry {
	return &Registry{
		index:      NewIndex(maxPerTemplate),
		categories: NewCategories(),
		required:   make(map[string]map[string]struct{}),
		versions:   make(map[string]uint64),
	}
}

// LockOffer сериализует покупку и истечение одного предложения. Блокировки
// полосатые: разные id могут делить одну полосу.
func (r *Registry) LockOffer(id string) func() {
	h := fnv.New32a()
	_, _ = h.Write([]byte(id))

	m := &r.offerLocks[h.Sum32()%offerLockStripes]
	m.Lock()

	return m.Unlock
}

// Add регистрирует предложение. Registry забирает указатель себе.
func (r *Registry) Add(o *entity.Offer) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	old, replacing := r.index.ByID(o.ID)

	if !r.index.Add(o) {
		return false
	}

	if replacing {
		r.categories.Decrement(old)
		r.versions[old.Tpl()]++
	}

	r.categories.Increment(o)
	r.versions[o.Tpl()]++

	return true
}

// Remove удаляет предложение, если оно есть.
func (r *Registry) Remove(id string) (entity.Offer, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	o, ok := r.index.Remove(id)
	if !ok {
		return entity.Offer{}, false
	}

	r.categories.Decrement(o)
	r.versions[o.Tpl()]++

	return *o, true
}

func (r *Registry) RemoveBySeller(sellerID string) []entity.Offer {
	r.mu.Lock()
	defer r.mu.Unlock()

	removed := r.index.RemoveBySeller(sellerID)
	out := make([]entity.Offer, 0, len(removed))

	for _, o := range removed {
		r.categories.Decrement(o)
		r.versions[o.Tpl()]++
		out = append(out, *o)
	}

	return out
}

func (r *Registry) Get(id string) (entity.Offer, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	o, ok := r.index.ByID(id)
	if !ok {
		return entity.Offer{}, false
	}

	return o.Clone(), true
}

func (r *Registry) ByTemplate(tpl string) []entity.Offer {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return clones(r.index.ByTemplate(tpl))
}

func (r *Registry) BySeller(sellerID string) []entity.Offer {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return clones(r.index.BySeller(sellerID))
}

func (r *Registry) Offers() []entity.Offer {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return clones(r.index.Offers())
}

func (r *Registry) Stale(now int64) []entity.Offer {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return clones(r.index.Stale(now))
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.index.Len()
}

func (r *Registry) Categories() map[string]int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.categories.All()
}

func (r *Registry) CountBySeller() map[value.SellerType]int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[value.SellerType]int, len(value.SellerTypes()))
	for _, t := range value.SellerTypes() {
		out[t] = 0
	}

	for _, o := range r.index.Offers() {
		out[o.Seller.Type]++
	}

	return out
}

// DecrementStack уменьшает стак корневого предмета. Исчерпанное
// предложение удаляется в том же вызове. ok=false, если предложения нет.
func (r *Registry) DecrementStack(id string, count int) (remaining int, removed, ok bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	o, found := r.index.ByID(id)
	if !found {
		return 0, false, false
	}

	root := o.RootItem()
	if root.Upd == nil {
		root.Upd = &entity.Upd{StackObjectsCount: 1}
	}

	root.Upd.StackObjectsCount -= count
	remaining = root.Upd.StackObjectsCount
	r.versions[o.Tpl()]++

	if remaining <= 0 {
		r.index.Remove(id)
		r.categories.Decrement(o)

		return remaining, true, true
	}

	return remaining, false, true
}

// Update применяет изменение к хранимому предложению. fn не должна менять
// id, продавца и шаблон корня.
func (r *Registry) Update(id string, fn func(o *entity.Offer)) (entity.Offer, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	o, ok := r.index.ByID(id)
	if !ok {
		return entity.Offer{}, false
	}

	fn(o)
	r.versions[o.Tpl()]++

	return o.Clone(), true
}

// Version счётчик изменений лотов шаблона. Пока он не сменился, выборка
// ByTemplate та же.
func (r *Registry) Version(tpl string) uint64 {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.versions[tpl]
}

// RebuildRequired пересобирает обратный индекс требований. Валюта не
// учитывается, иначе «требуемыми» оказались бы все предложения.
func (r *Registry) RebuildRequired() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	required := make(map[string]map[string]struct{})

	for _, o := range r.index.Offers() {
		for _, req := range o.Requirements {
			if req.IsMoney() {
				continue
			}

			ids, ok := required[req.Tpl]
			if !ok {
				ids = make(map[string]struct{})
				required[req.Tpl] = ids
			}

			ids[o.ID] = struct{}{}
		}
	}

	r.required = required

	return len(required)
}

// Required предложения, которые просят шаблон tpl в оплату.
func (r *Registry) Required(tpl string) []entity.Offer {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := r.required[tpl]
	out := make([]entity.Offer, 0, len(ids))

	for id := range ids {
		if o, ok := r.index.ByID(id); ok {
			out = append(out, o.Clone())
		}
	}

	return out
}

func clones(offers []*entity.Offer) []entity.Offer {
	out := make([]entity.Offer, len(offers))
	for i, o := range offers {
		out[i] = o.Clone()
	}

	return out
}
