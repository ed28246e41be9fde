package gamedata

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/samber/lo"

	"flea_market/internal/domain/entity"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary //nolint:gochecknoglobals // skip

const (
	fileTemplates = "templates.json"
	fileHandbook  = "handbook.json"
	filePresets   = "presets.json"
	fileTraders   = "traders.json"
	filePrices    = "prices.json"
)

// traderRecord запись торговца в файле данных.
type traderRecord struct {
	entity.Trader
	// ResupplySeconds период обновления ассортимента.
	ResupplySeconds int64               `json:"resupply_seconds"`
	Assort          entity.TraderAssort `json:"assort"`
}

// Data статические данные игры: каталог, справочник, сборки и торговцы.
// Читается один раз при старте, после этого меняется только время
// обновления ассортимента торговцев.
type Data struct {
	templates map[string]entity.Template
	handbook  map[string]float64
	presets   map[string]entity.Preset
	// defaults сборка по умолчанию для шаблона корня.
	defaults map[string]string
	prices   map[string]float64

	mu      sync.Mutex
	traders map[string]*traderRecord
	now     func() time.Time
}

// Load читает данные из каталога dir. Отсутствующий prices.json не ошибка:
// живые цены тогда берутся из базы или копятся с нуля.
func Load(ctx context.Context, dir string) (*Data, error) {
	var (
		templates []entity.Template
		handbook  map[string]float64
		presets   []entity.Preset
		traders   []traderRecord
		prices    map[string]float64
	)

	if err := readFile(filepath.Join(dir, fileTemplates), &templates); err != nil {
		return nil, err
	}

	if err := readFile(filepath.Join(dir, fileHandbook), &handbook); err != nil {
		return nil, err
	}

	if err := readFile(filepath.Join(dir, filePresets), &presets); err != nil {
		return nil, err
	}

	if err := readFile(filepath.Join(dir, fileTraders), &traders); err != nil {
		return nil, err
	}

	if err := readFile(filepath.Join(dir, filePrices), &prices); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}

		logger(ctx).Warn("no live price snapshot in game data", "dir", dir)
	}

	d := New(templates, handbook, presets, lo.Map(traders, func(t traderRecord, _ int) TraderData {
		return TraderData{Trader: t.Trader, ResupplySeconds: t.ResupplySeconds, Assort: t.Assort}
	}))
	d.prices = prices

	logger(ctx).Info("game data loaded",
		"templates", len(d.templates),
		"presets", len(d.presets),
		"traders", len(d.traders),
		"prices", len(d.prices),
	)

	return d, nil
}

// TraderData торговец вместе с ассортиментом.
type TraderData struct {
	Trader          entity.Trader
	ResupplySeconds int64
	Assort          entity.TraderAssort
}

func New(templates []entity.Template, handbook map[string]float64, presets []entity.Preset, traders []TraderData) *Data {
	d := &Data{
		templates: lo.KeyBy(templates, func(t entity.Template) string { return t.ID }),
		handbook:  handbook,
		presets:   lo.KeyBy(presets, func(p entity.Preset) string { return p.ID }),
		defaults:  make(map[string]string),
		traders:   make(map[string]*traderRecord, len(traders)),
		now:       time.Now,
	}

	if d.handbook == nil {
		d.handbook = make(map[string]float64)
	}

	for _, p := range presets {
		if _, ok := d.defaults[p.Encyclopedia]; !ok || p.Default {
			d.defaults[p.Encyclopedia] = p.ID
		}
	}

	for _, t := range traders {
		d.traders[t.Trader.ID] = &traderRecord{Trader: t.Trader, ResupplySeconds: t.ResupplySeconds, Assort: t.Assort}
	}

	return d
}

func (d *Data) WithClock(now func() time.Time) *Data {
	d.now = now
	return d
}

func (d *Data) Template(tpl string) (entity.Template, bool) {
	t, ok := d.templates[tpl]
	return t, ok
}

func (d *Data) Templates() []entity.Template {
	return lo.Values(d.templates)
}

// IsOfBaseclass проверяет, есть ли baseClass среди предков шаблона.
func (d *Data) IsOfBaseclass(tpl, baseClass string) bool {
	t, ok := d.templates[tpl]

	// глубина ограничена размером каталога на случай цикла в данных
	for depth := 0; ok && depth < len(d.templates); depth++ {
		if t.Parent == baseClass {
			return true
		}

		t, ok = d.templates[t.Parent]
	}

	return false
}

func (d *Data) HandbookPrice(tpl string) (float64, bool) {
	p, ok := d.handbook[tpl]
	return p, ok
}

// LivePrices снимок живых цен из файла данных.
func (d *Data) LivePrices() map[string]float64 {
	return d.prices
}

func (d *Data) DefaultPreset(tpl string) (entity.Preset, bool) {
	id, ok := d.defaults[tpl]
	if !ok {
		return entity.Preset{}, false
	}

	p := d.presets[id]
	p.Items = entity.CloneItems(p.Items)

	return p, true
}

// Trader возвращает торговца. Прошедшее время обновления ассортимента
// сдвигается на ближайшее будущее.
func (d *Data) Trader(id string) (entity.Trader, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	t, ok := d.traders[id]
	if !ok {
		return entity.Trader{}, false
	}

	now := d.now().Unix()
	if t.ResupplySeconds > 0 && t.NextResupply <= now {
		periods := (now-t.NextResupply)/t.ResupplySeconds + 1
		t.NextResupply += periods * t.ResupplySeconds
	}

	return t.Trader, true
}

func (d *Data) TraderIDs() []string {
	d.mu.Lock()
	defer d.mu.Unlock()

	return lo.Keys(d.traders)
}

func (d *Data) Assort(id string) (entity.TraderAssort, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	t, ok := d.traders[id]
	if !ok {
		return entity.TraderAssort{}, false
	}

	a := t.Assort
	a.Items = entity.CloneItems(a.Items)

	return a, true
}

// HighestBuybackPrice лучшая цена скупки предмета торговцами по справочнику.
func (d *Data) HighestBuybackPrice(tpl string) float64 {
	base, ok := d.handbook[tpl]
	if !ok {
		return 0
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	best := 0.0
	for _, t := range d.traders {
		best = max(best, base*t.BuybackCoef)
	}

	return best
}

func readFile(path string, v any) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}

	return nil
}
