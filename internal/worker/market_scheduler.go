package worker

import (
	"context"
	"errors"
	"log/slog"
	"maps"
	"slices"
	"sync"
	"time"

	"flea_market/internal/domain/entity"
	"flea_market/internal/domain/service/price"
	"flea_market/internal/domain/value"
	"flea_market/pkg/logx"
)

type Offers interface {
	Stale(now int64) []entity.Offer
	RebuildRequired() int
	CountBySeller() map[value.SellerType]int
}

type Trade interface {
	Expire(ctx context.Context, offerID string, now int64) (entity.Offer, bool)
	CompleteDueSales(ctx context.Context, now int64) int
}

type Assort interface {
	Due(now int64) []string
	MarkRefresh(traderID string)
	SyncTraderOffers(ctx context.Context, traderID string) (int, error)
	SyncPlayerOffers(ctx context.Context) (int, error)
}

type Generator interface {
	Load(ctx context.Context)
	GenerateAll(ctx context.Context) (int, error)
	Regenerate(ctx context.Context, tpls []string) (int, error)
}

type PriceTable interface {
	Flush(ctx context.Context, w price.PriceWriter) (int, error)
}

type Metrics interface {
	SetActive(sellerType string, n int)
	IncExpired(sellerType string)
	ObserveUpdate(d time.Duration)
}

// UpdateStats итог одного тика.
type UpdateStats struct {
	Sold        int
	Expired     int
	Refreshed   int
	Regenerated int
	Required    int
}

// MarketScheduler поддерживает рынок в актуальном состоянии: снимает
// истёкшие лоты, обновляет ассортимент торговцев и восполняет лоты ботов.
type MarketScheduler struct {
	offers    Offers
	trade     Trade
	assort    Assort
	generator Generator

	prices      PriceTable
	priceWriter price.PriceWriter
	metrics     Metrics

	interval         time.Duration
	expiredThreshold int
	now              func() time.Time

	updateMu sync.Mutex
	// expired шаблоны снятых бот-лотов по id лота, ждут перегенерации.
	expired map[string]string

	// Control fields
	mu         sync.Mutex
	cancelFunc context.CancelFunc
	isRunning  bool
	wg         sync.WaitGroup
}

func NewMarketScheduler(offers Offers, trade Trade, assort Assort, generator Generator) *MarketScheduler {
	return &MarketScheduler{
		offers:           offers,
		trade:            trade,
		assort:           assort,
		generator:        generator,
		interval:         time.Minute,
		expiredThreshold: 1,
		now:              time.Now,
		expired:          make(map[string]string),
	}
}

func (w *MarketScheduler) WithInterval(d time.Duration) *MarketScheduler {
	if d > 0 {
		w.interval = d
	}

	return w
}

// WithExpiredThreshold сколько снятых бот-лотов копится до перегенерации.
func (w *MarketScheduler) WithExpiredThreshold(n int) *MarketScheduler {
	w.expiredThreshold = max(n, 1)
	return w
}

func (w *MarketScheduler) WithPriceFlush(table PriceTable, writer price.PriceWriter) *MarketScheduler {
	w.prices = table
	w.priceWriter = writer

	return w
}

func (w *MarketScheduler) WithMetrics(m Metrics) *MarketScheduler {
	w.metrics = m
	return w
}

func (w *MarketScheduler) WithClock(now func() time.Time) *MarketScheduler {
	w.now = now
	return w
}

// Load первичное заполнение рынка: лоты игроков, ассортимент торговцев,
// лоты ботов. Завершается одним тиком.
func (w *MarketScheduler) Load(ctx context.Context) error {
	if _, err := w.assort.SyncPlayerOffers(ctx); err != nil {
		return err
	}

	w.generator.Load(ctx)

	n, err := w.generator.GenerateAll(ctx)
	if err != nil {
		return err
	}

	logger(ctx).Info("dynamic offers generated", slog.Int(logx.FieldCount, n))

	w.Update(ctx)

	return nil
}

func (w *MarketScheduler) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.isRunning {
		return errors.New("scheduler is already running")
	}

	runCtx, cancel := context.WithCancel(ctx)
	w.cancelFunc = cancel
	w.isRunning = true

	w.wg.Add(1)

	go func() {
		defer w.wg.Done()
		defer func() {
			w.mu.Lock()
			w.isRunning = false
			w.cancelFunc = nil
			w.mu.Unlock()
		}()

		if err := w.Run(runCtx); err != nil && !errors.Is(err, context.Canceled) {
			logger(ctx).Error("scheduler stopped with error", logx.Error(err))
		}
	}()

	return nil
}

func (w *MarketScheduler) Stop() {
	w.mu.Lock()

	if !w.isRunning {
		w.mu.Unlock()
		return
	}

	if w.cancelFunc != nil {
		w.cancelFunc()
	}
	w.mu.Unlock()

	w.wg.Wait()
}

func (w *MarketScheduler) IsRunning() bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.isRunning
}

func (w *MarketScheduler) Run(ctx context.Context) error {
	logger(ctx).Info("market scheduler started", slog.Duration("interval", w.interval))

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger(ctx).Info("market scheduler stopped")
			return ctx.Err()
		case <-ticker.C:
			w.Update(ctx)
		}
	}
}

// RefreshTrader синхронизирует торговца вне очереди.
func (w *MarketScheduler) RefreshTrader(ctx context.Context, traderID string) error {
	w.updateMu.Lock()
	defer w.updateMu.Unlock()

	w.assort.MarkRefresh(traderID)

	_, err := w.assort.SyncTraderOffers(ctx, traderID)

	return err
}

// Update один тик. Безопасен при любом периоде вызова: повторный тик без
// сдвига времени ничего не меняет.
func (w *MarketScheduler) Update(ctx context.Context) UpdateStats {
	w.updateMu.Lock()
	defer w.updateMu.Unlock()

	started := w.now()
	now := started.Unix()

	var stats UpdateStats

	stats.Sold = w.trade.CompleteDueSales(ctx, now)
	stats.Expired = w.expire(ctx, now)
	stats.Refreshed = w.refreshTraders(ctx, now)
	stats.Regenerated = w.regenerate(ctx)
	stats.Required = w.offers.RebuildRequired()

	w.flushPrices(ctx)
	w.report(time.Since(started))

	logger(ctx).Info("market updated",
		slog.Int("sold", stats.Sold),
		slog.Int("expired", stats.Expired),
		slog.Int("refreshed_traders", stats.Refreshed),
		slog.Int("regenerated", stats.Regenerated),
		slog.Int("required_templates", stats.Required),
	)

	return stats
}

func (w *MarketScheduler) expire(ctx context.Context, now int64) int {
	n := 0

	for _, o := range w.offers.Stale(now) {
		if o.IsTrader() {
			continue
		}

		removed, ok := w.trade.Expire(ctx, o.ID, now)
		if !ok {
			continue
		}

		n++

		if w.metrics != nil {
			w.metrics.IncExpired(removed.Seller.Type.String())
		}

		if removed.Seller.Type == value.SellerBot {
			w.expired[removed.ID] = removed.Tpl()
		}
	}

	return n
}

func (w *MarketScheduler) refreshTraders(ctx context.Context, now int64) int {
	n := 0

	for _, id := range w.assort.Due(now) {
		if id == value.FenceID {
			continue
		}

		if _, err := w.assort.SyncTraderOffers(ctx, id); err != nil {
			logger(ctx).Error("trader sync failed", slog.String(logx.FieldTraderID, id), logx.Error(err))
			continue
		}

		n++
	}

	return n
}

func (w *MarketScheduler) regenerate(ctx context.Context) int {
	if len(w.expired) < w.expiredThreshold {
		return 0
	}

	tpls := make([]string, 0, len(w.expired))
	for _, id := range slices.Sorted(maps.Keys(w.expired)) {
		tpls = append(tpls, w.expired[id])
	}

	clear(w.expired)

	n, err := w.generator.Regenerate(ctx, tpls)
	if err != nil {
		logger(ctx).Error("regeneration interrupted", slog.Int(logx.FieldCount, n), logx.Error(err))
	}

	return n
}

func (w *MarketScheduler) flushPrices(ctx context.Context) {
	if w.prices == nil || w.priceWriter == nil {
		return
	}

	if _, err := w.prices.Flush(ctx, w.priceWriter); err != nil {
		logger(ctx).Error("price table not flushed", logx.Error(err))
	}
}

func (w *MarketScheduler) report(d time.Duration) {
	if w.metrics == nil {
		return
	}

	counts := w.offers.CountBySeller()
	for _, t := range value.SellerTypes() {
		w.metrics.SetActive(t.String(), counts[t])
	}

	w.metrics.ObserveUpdate(d)
}
