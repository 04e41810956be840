package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alejandrodnm/coinarb/config"
	"github.com/alejandrodnm/coinarb/internal/adapters/notify"
	"github.com/alejandrodnm/coinarb/internal/adapters/storage"
	"github.com/alejandrodnm/coinarb/internal/adapters/venue"
	"github.com/alejandrodnm/coinarb/internal/application/arb"
	"github.com/alejandrodnm/coinarb/internal/application/market"
	"github.com/alejandrodnm/coinarb/internal/application/scanner"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "path to config file")
	once := flag.Bool("once", false, "run one scan cycle and exit")
	verbose := flag.Bool("verbose", false, "set log level to debug")
	logFormat := flag.String("format", "", "log format: text|json (overrides config)")
	table := flag.Bool("table", false, "print full deal table (default: compact 1-line)")

	prices := flag.String("prices", "", "print top-of-book for a coin on every venue and exit")
	history := flag.Duration("history", 0, "print deals saved in the last duration (e.g. 24h) and exit")

	addCoin := flag.String("add", "", "register a coin by name and exit")
	delCoin := flag.String("del", "", "remove a coin and exit")
	aliasFlag := flag.String("alias", "", "with -add: venue=alias pair (e.g. kraken=xbt)")
	addressFlag := flag.String("address", "", "with -add: on-chain contract address")
	listCoins := flag.Bool("coins", false, "list registered coins and exit")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "err", err, "path", *configPath)
		os.Exit(1)
	}

	if *verbose {
		cfg.Log.Level = "debug"
	}
	if *logFormat != "" {
		cfg.Log.Format = *logFormat
	}
	setupLogger(cfg.Log)

	store, err := storage.NewSQLiteStorage(cfg.Storage.DSN)
	if err != nil {
		slog.Error("failed to open storage", "err", err, "dsn", cfg.Storage.DSN)
		os.Exit(1)
	}
	defer store.Close()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	notifier := notify.NewConsole(*table)

	// Subcomandos de gestión: tocan solo el storage y salen.
	if *addCoin != "" || *delCoin != "" || *listCoins {
		runCoins(ctx, store, coinCmd{
			add:     *addCoin,
			del:     *delCoin,
			alias:   *aliasFlag,
			address: *addressFlag,
			list:    *listCoins,
		})
		return
	}

	venues := market.NewRegistry(
		market.New(venue.NewKraken(cfg.Venues.KrakenBase), cfg.PriceTimeout()),
		market.New(venue.NewMexc(cfg.Venues.MexcBase), cfg.PriceTimeout()),
		market.New(venue.NewKucoin(cfg.Venues.KucoinBase), cfg.PriceTimeout()),
	)

	if *prices != "" {
		runPrices(ctx, store, venues, cfg.Scanner.QuoteCurrencies, notifier, *prices)
		return
	}
	if *history > 0 {
		runHistory(ctx, store, notifier, *history)
		return
	}

	slog.Info("coinarb starting",
		"config", *configPath,
		"interval", cfg.ScanInterval(),
		"venues", venues.Names(),
		"quotes", cfg.Scanner.QuoteCurrencies,
		"once", *once,
	)

	agg := arb.NewAggregator(venues, cfg.Scanner.QuoteCurrencies, cfg.Scanner.Workers)
	matcher := arb.NewMatcher(agg, venues, arb.MatcherConfig{
		TargetNotional: cfg.Scanner.TargetNotional,
		MinProfitRatio: cfg.Scanner.MinProfitRatio,
		Depth:          cfg.Scanner.Depth,
	})

	s := scanner.New(scanner.Config{
		ScanInterval: cfg.ScanInterval(),
		Once:         *once,
	}, store, matcher, store, notifier)

	if err := s.Run(ctx); err != nil {
		slog.Error("scanner exited with error", "err", err)
		os.Exit(1)
	}

	slog.Info("coinarb stopped cleanly")
}

func setupLogger(cfg config.LogConfig) {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(handler))
}
