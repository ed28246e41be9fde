package price

import (
	"context"
	"fmt"
	"maps"
	"sync"
)

// liveWeight вес новой сделки при обновлении живой цены.
const liveWeight = 0.2

type PriceWriter interface {
	Save(ctx context.Context, prices map[string]float64) error
}

// Table живые рыночные цены. Отсутствие записи или значение <= 0 означает
// «нет данных».
type Table struct {
	mu     sync.RWMutex
	prices map[string]float64
	dirty  map[string]struct{}
}

func NewTable() *Table {
	return &Table{
		prices: make(map[string]float64),
		dirty:  make(map[string]struct{}),
	}
}

// Load заменяет таблицу целиком. Загруженные значения не считаются изменёнными.
func (t *Table) Load(prices map[string]float64) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.prices = make(map[string]float64, len(prices))
	maps.Copy(t.prices, prices)
	t.dirty = make(map[string]struct{})
}

func (t *Table) Get(tpl string) (float64, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	p, ok := t.prices[tpl]
	if !ok || p <= 0 {
		return 0, false
	}

	return p, true
}

func (t *Table) Set(tpl string, price float64) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.prices[tpl] = price
	t.dirty[tpl] = struct{}{}
}

// Record учитывает цену завершённой сделки за единицу товара.
func (t *Table) Record(tpl string, unitPrice float64) {
	if unitPrice <= 0 {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if old, ok := t.prices[tpl]; ok && old > 0 {
		unitPrice = old*(1-liveWeight) + unitPrice*liveWeight
	}

	t.prices[tpl] = unitPrice
	t.dirty[tpl] = struct{}{}
}

func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return len(t.prices)
}

// Flush сохраняет изменённые цены. При ошибке они остаются помеченными.
func (t *Table) Flush(ctx context.Context, w PriceWriter) (int, error) {
	t.mu.Lock()

	if len(t.dirty) == 0 {
		t.mu.Unlock()
		return 0, nil
	}

	batch := make(map[string]float64, len(t.dirty))
	for tpl := range t.dirty {
		batch[tpl] = t.prices[tpl]
	}

	t.dirty = make(map[string]struct{})
	t.mu.Unlock()

	if err := w.Save(ctx, batch); err != nil {
		t.mu.Lock()
		for tpl := range batch {
			t.dirty[tpl] = struct{}{}
		}
		t.mu.Unlock()

		return 0, fmt.Errorf("save prices: %w", err)
	}

	return len(batch), nil
}
