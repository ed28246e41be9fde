package trade

import (
	"time"

	"github.com/patrickmn/go-cache"

	"flea_market/pkg/randx"
)

// Service операции покупателя и продавца на рынке: покупка, поиск,
// выставление, снятие и продление лотов игрока.
type Service struct {
	registry Registry
	catalog  Catalog
	prices   Prices
	creator  OfferCreator
	engine   TradeEngine
	profiles Profiles
	tax      *Tax
	rnd      *randx.Rand
	cfg      Config
	now      func() time.Time

	ledger   Ledger
	store    OfferStore
	notifier Notifier
	metrics  Metrics
	live     LivePrices

	statsCache *cache.Cache
}

func NewService(
	registry Registry,
	catalog Catalog,
	prices Prices,
	creator OfferCreator,
	engine TradeEngine,
	profiles Profiles,
	rnd *randx.Rand,
) *Service {
	cfg := DefaultConfig()

	return &Service{
		registry:   registry,
		catalog:    catalog,
		prices:     prices,
		creator:    creator,
		engine:     engine,
		profiles:   profiles,
		tax:        NewTax(catalog, prices, cfg.Tax),
		rnd:        rnd,
		cfg:        cfg,
		now:        time.Now,
		statsCache: cache.New(cfg.StatsCacheTTL, time.Minute),
	}
}

func (s *Service) WithConfig(cfg Config) *Service {
	s.cfg = cfg
	s.tax = NewTax(s.catalog, s.prices, cfg.Tax)
	s.statsCache = cache.New(cfg.StatsCacheTTL, time.Minute)

	return s
}

func (s *Service) WithLedger(l Ledger) *Service {
	s.ledger = l
	return s
}

func (s *Service) WithStore(store OfferStore) *Service {
	s.store = store
	return s
}

func (s *Service) WithNotifier(n Notifier) *Service {
	s.notifier = n
	return s
}

func (s *Service) WithMetrics(m Metrics) *Service {
	s.metrics = m
	return s
}

func (s *Service) WithLivePrices(live LivePrices) *Service {
	s.live = live
	return s
}

func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}
