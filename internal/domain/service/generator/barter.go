package generator

import (
	"math"
	"slices"
	"sort"
	"sync"

	"flea_market/internal/domain/entity"
	"flea_market/pkg/randx"
)

type candidate struct {
	tpl   string
	price float64
}

// Barter подбирает предмет-оплату близкой стоимости. Список кандидатов
// строится один раз в Load.
type Barter struct {
	pricer Pricer
	rnd    *randx.Rand
	cfg    BarterConfig

	mu         sync.RWMutex
	candidates []candidate
}

func NewBarter(pricer Pricer, rnd *randx.Rand, cfg BarterConfig) *Barter {
	return &Barter{
		pricer: pricer,
		rnd:    rnd,
		cfg:    cfg,
	}
}

// Load запоминает цены шаблонов, которые можно просить в оплату.
func (b *Barter) Load(tpls []string) int {
	list := make([]candidate, 0, len(tpls))

	for _, tpl := range tpls {
		list = append(list, candidate{tpl: tpl, price: b.pricer.MarketPrice(tpl)})
	}

	sort.Slice(list, func(i, j int) bool {
		if list[i].price == list[j].price {
			return list[i].tpl < list[j].tpl
		}

		return list[i].price < list[j].price
	})

	b.mu.Lock()
	b.candidates = list
	b.mu.Unlock()

	return len(list)
}

// Scheme возвращает бартерное требование для лота стоимостью offerValue
// рублей. false означает, что лот надо выставить за валюту: он слишком
// дешёвый или подходящего предмета нет.
func (b *Barter) Scheme(rootTpl string, offerValue float64) ([]entity.Requirement, bool) {
	if offerValue < b.cfg.MinRoubleCostToBecomeBarter {
		return nil, false
	}

	count := b.rnd.IntRange(max(b.cfg.ItemCountMin, 1), max(b.cfg.ItemCountMax, 1))
	desired := math.Round(offerValue / float64(count))
	variance := desired * b.cfg.PriceRangeVariancePercent / 100

	inRange := b.within(desired-variance, desired+variance, rootTpl)

	pick, ok := randx.Pick(b.rnd, inRange)
	if !ok {
		return nil, false
	}

	return []entity.Requirement{{Tpl: pick.tpl, Count: float64(count)}}, true
}

func (b *Barter) within(lo, hi float64, exclude string) []candidate {
	b.mu.RLock()
	defer b.mu.RUnlock()

	start := sort.Search(len(b.candidates), func(i int) bool {
		return b.candidates[i].price >= lo
	})

	var out []candidate

	for _, c := range b.candidates[start:] {
		if c.price > hi {
			break
		}

		if c.tpl != exclude {
			out = append(out, c)
		}
	}

	return slices.Clip(out)
}
