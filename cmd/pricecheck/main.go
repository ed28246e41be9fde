package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/lmittmann/tint"

	"flea_market/internal/config"
	"flea_market/internal/domain/entity"
	"flea_market/internal/domain/service/price"
	"flea_market/internal/domain/value"
	"flea_market/internal/infrastructure/gamedata"
	"flea_market/pkg/contextx"
	"flea_market/pkg/logx"
	"flea_market/pkg/randx"
)

// go run ./cmd/pricecheck <tpl> [tpl...]
//
// Например:
//
// go run ./cmd/pricecheck 5447a9cd4bdc2dbd208b4567 544fb25a4bdc2dfb738b4567

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	log := slog.New(tint.NewHandler(os.Stderr, &tint.Options{Level: slog.LevelInfo}))
	ctx = contextx.WithLogger(ctx, log)

	if len(os.Args) < 2 {
		log.Error("usage: pricecheck <tpl> [tpl...]")
		os.Exit(2)
	}

	if err := run(ctx, os.Args[1:]); err != nil {
		log.Error("pricecheck failed", logx.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, tpls []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config load: %w", err)
	}

	data, err := gamedata.Load(ctx, cfg.App.DataDir)
	if err != nil {
		return fmt.Errorf("game data load: %w", err)
	}

	live := price.NewTable()
	live.Load(data.LivePrices())

	// цены без случайного разброса, чтобы результат был воспроизводимым
	pc := price.DefaultConfig()
	pc.DefaultRange = price.Range{Min: 1, Max: 1}
	pc.PresetRange = price.Range{Min: 1, Max: 1}
	pc.PackRange = price.Range{Min: 1, Max: 1}

	oracle := price.NewOracle(data, data, live, data, data, randx.New(1)).WithConfig(pc)
	oracle.EnsureLoaded(ctx)

	fmt.Printf("%-26s %-40s %12s %12s %12s %12s\n", "TEMPLATE", "NAME", "HANDBOOK", "MARKET", "OFFER RUB", "OFFER USD")

	for _, tpl := range tpls {
		t, ok := data.Template(tpl)
		if !ok {
			contextx.LoggerFromContextOrDefault(ctx).Warn("unknown template", slog.String(logx.FieldTemplateID, tpl))
			continue
		}

		items := []entity.Item{{ID: "check", Tpl: tpl}}
		if preset, ok := data.DefaultPreset(tpl); ok {
			items = preset.Items
		}

		fmt.Printf("%-26s %-40s %12.0f %12.0f %12.0f %12.2f\n",
			tpl,
			t.Name,
			oracle.StaticPrice(tpl),
			oracle.MarketPrice(tpl),
			oracle.OfferPrice(items, value.RUB, false),
			oracle.OfferPrice(items, value.USD, false),
		)
	}

	return nil
}
