package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/hibiken/asynq"
	"golang.org/x/sync/errgroup"

	"flea_market/internal/config"
	"flea_market/internal/domain/service/assort"
	"flea_market/internal/domain/service/generator"
	"flea_market/internal/domain/service/offer"
	"flea_market/internal/domain/service/price"
	"flea_market/internal/domain/service/trade"
	"flea_market/internal/infrastructure/gamedata"
	"flea_market/internal/infrastructure/ledger"
	"flea_market/internal/infrastructure/notifier"
	"flea_market/internal/infrastructure/persistence"
	"flea_market/internal/infrastructure/profile"
	"flea_market/internal/server"
	"flea_market/internal/transport/bot"
	"flea_market/internal/transport/bot/handler"
	"flea_market/internal/worker"
	"flea_market/pkg/application/connectors"
	"flea_market/pkg/application/modules"
	"flea_market/pkg/contextx"
	"flea_market/pkg/logx"
	"flea_market/pkg/metrics"
	"flea_market/pkg/middlewarex"
	"flea_market/pkg/randx"
)

const logFieldMaxLen = 4096

type traderRefresher interface {
	RefreshTrader(ctx context.Context, traderID string) error
}

func Run(ctx context.Context, log *slog.Logger) error {
	ctx = contextx.WithLogger(ctx, log)

	// 1. Config
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config load: %w", err)
	}

	log = log.With(
		slog.String(logx.FieldAppName, cfg.App.Name),
		slog.String(logx.FieldAppVersion, cfg.App.Version),
	)
	ctx = contextx.WithLogger(ctx, log)

	if n := cfg.Market.Normalize(ctx); n > 0 {
		log.Warn("market settings replaced with defaults", slog.Int(logx.FieldCount, n))
	}

	rnd := randx.NewFromTime()
	if cfg.App.RandomSeed != 0 {
		rnd = randx.New(cfg.App.RandomSeed)
	}

	// 2. Game data
	data, err := gamedata.Load(ctx, cfg.App.DataDir)
	if err != nil {
		return fmt.Errorf("game data load: %w", err)
	}

	live := price.NewTable()
	live.Load(data.LivePrices())

	// 3. Storage
	var (
		offerRepo *persistence.OfferRepository
		priceRepo *persistence.PriceRepository
		// checks готовности внешних хранилищ для /ready.
		checks []func(context.Context) error
	)

	if cfg.Postgres.Enabled() {
		pg := &connectors.Postgres{
			DSN:             cfg.Postgres.DSN,
			MaxOpenConns:    cfg.Postgres.MaxOpenConns,
			MaxIdleConns:    cfg.Postgres.MaxIdleConns,
			ConnMaxLifetime: cfg.Postgres.ConnMaxLifetime,
		}
		db := pg.Client(ctx)
		defer pg.Close(ctx)

		checks = append(checks, pg.Ping)

		offerRepo = persistence.NewOfferRepository(db)
		priceRepo = persistence.NewPriceRepository(db)

		snapshot, err := priceRepo.Load(ctx)
		if err != nil {
			return fmt.Errorf("price snapshot load: %w", err)
		}

		if len(snapshot) > 0 {
			live.Load(snapshot)
		}
	} else {
		log.Warn("postgres is not configured, player offers live in memory only")
	}

	var (
		restrictions trade.Ledger = ledger.NewMemory()
		tasks        *asynq.Client
		taskRedis    asynq.RedisClientOpt
	)

	if cfg.Redis.Enabled() {
		rds := &connectors.Redis{
			Address:        cfg.Redis.Address,
			Username:       cfg.Redis.Username,
			Password:       cfg.Redis.Password,
			DatabaseNumber: cfg.Redis.DatabaseNumber,
			PoolSize:       cfg.Redis.PoolSize,
		}
		restrictions = ledger.NewRedis(rds.Client(ctx))
		defer rds.Close(ctx)

		checks = append(checks, rds.Ping)

		taskRedis = rds.AsynqOpt()
		tasks = asynq.NewClient(taskRedis)
		defer tasks.Close()
	} else {
		log.Warn("redis is not configured, buy restrictions are kept in memory")
	}

	// 4. Market services
	metricsRegistry := metrics.NewRegistry()
	marketMetrics := metrics.NewMarket(metricsRegistry)
	profiles := profile.NewStore().WithAutoCreate(cfg.App.StartingRoubles)

	oracle := price.NewOracle(data, data, live, data, data, rnd).WithConfig(priceConfig(cfg.Market))
	oracle.EnsureLoaded(ctx)

	registry := offer.NewRegistry(cfg.Market.MaxOffersPerTemplate)
	factory := offer.NewFactory(registry, oracle, data, profiles, rnd).WithConfig(factoryConfig(cfg.Market))

	gen := generator.NewGenerator(data, oracle, data, factory, offer.NewConditioner(data, conditionRules(cfg.Market), rnd), rnd).
		WithConfig(generatorConfig(cfg.Market)).
		WithMetrics(marketMetrics)

	assortSync := assort.NewSynchronizer(data, data, data, registry, factory, assortConfig(cfg.Market, data.TraderIDs()))

	tradeSvc := trade.NewService(registry, data, oracle, factory, profiles, profiles, rnd).
		WithConfig(tradeConfig(cfg.Market)).
		WithLedger(restrictions).
		WithMetrics(marketMetrics).
		WithLivePrices(live)

	if offerRepo != nil {
		assortSync = assortSync.WithPlayerOffers(offerRepo)
		tradeSvc = tradeSvc.WithStore(offerRepo)
	}

	g, ctx := errgroup.WithContext(ctx)

	if cfg.Bot.Enabled() {
		notifierBot, err := notifier.NewTelegramBot(cfg.Bot.Token, cfg.Bot.ChatID)
		if err != nil {
			return fmt.Errorf("notifier bot: %w", err)
		}

		tradeSvc = tradeSvc.WithNotifier(notifierBot)

		g.Go(func() error {
			if err := notifierBot.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				return fmt.Errorf("notifier bot: %w", err)
			}

			return nil
		})
	} else {
		tradeSvc = tradeSvc.WithNotifier(notifier.Log{})
	}

	scheduler := worker.NewMarketScheduler(registry, tradeSvc, assortSync, gen).
		WithInterval(cfg.Market.UpdateInterval).
		WithExpiredThreshold(cfg.Market.ExpiredOfferThreshold).
		WithMetrics(marketMetrics)

	if priceRepo != nil {
		scheduler = scheduler.WithPriceFlush(live, priceRepo)
	}

	// 5. Initial market
	if err := scheduler.Load(ctx); err != nil {
		return fmt.Errorf("market load: %w", err)
	}

	if err := scheduler.Start(ctx); err != nil {
		return fmt.Errorf("scheduler start: %w", err)
	}
	defer scheduler.Stop()

	if cfg.Bot.ConsoleEnabled() {
		console, err := bot.New(cfg.Bot.Token, cfg.Bot.AdminID, handler.New(ctx, scheduler, registry, tradeSvc))
		if err != nil {
			return fmt.Errorf("operator bot: %w", err)
		}

		g.Go(func() error {
			return console.Run(ctx)
		})
	}

	// 6. Servers
	var refresher traderRefresher = scheduler
	if tasks != nil {
		refresher = worker.NewTaskClient(tasks, cfg.Redis.TaskQueue)

		modules.AsynqServer{
			Redis:       taskRedis,
			Concurrency: cfg.Redis.TaskConcurrency,
		}.Run(ctx, g, modules.AsynqQueues{cfg.Redis.TaskQueue: 1}, scheduler.Handlers()...)
	}

	masker := logx.NewSensitiveDataMasker()

	router := chi.NewRouter()
	router.Use(
		middlewarex.TraceID,
		middlewarex.ProfileID,
		middlewarex.Logger(log),
		middlewarex.Recovery,
		middlewarex.RequestLogging(masker, logFieldMaxLen),
		middlewarex.ResponseLogging(masker, logFieldMaxLen),
	)
	server.NewServer(server.NewMarketServer(tradeSvc, refresher)).RegisterRoutes(router)

	modules.HTTPServer{
		ListenAddress:   cfg.HTTP.ListenAddress,
		Handler:         router,
		ShutdownTimeout: time.Duration(cfg.HTTP.ShutdownTimeout) * time.Second,
	}.Run(ctx, g)

	modules.MetricServer{
		ListenAddress: cfg.HTTP.MetricsListenAddress,
		Gatherer:      metricsRegistry,
	}.Run(ctx, g)
	modules.ProbeServer{
		Name:          cfg.App.Name,
		Version:       cfg.App.Version,
		ListenAddress: cfg.HTTP.ProbeListenAddress,
		Ready: func() error {
			if !scheduler.IsRunning() {
				return errors.New("market scheduler is not running")
			}

			for _, check := range checks {
				if err := check(ctx); err != nil {
					return err
				}
			}

			return nil
		},
	}.Run(ctx, g)

	log.Info("market started",
		slog.Int("offers", registry.Len()),
		slog.Int("traders", len(data.TraderIDs())),
	)

	if err := g.Wait(); err != nil {
		return fmt.Errorf("application stopped: %w", err)
	}

	log.Info("application stopping...")

	return nil
}
