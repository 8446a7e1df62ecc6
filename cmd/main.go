// Command riesgopais serves a live country-risk dashboard for Argentine
// USD-denominated sovereign bonds. The spread is a crude approximation
// derived from the bond price and the US 10Y Treasury yield, not a real
// yield-to-maturity computation.
//
// Usage:
//
//	riesgopais --config config.yaml
//	riesgopais (uses CLI arguments)
//	riesgopais setup (interactive configuration wizard)
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"riesgopais/config"
	"riesgopais/internal"
	"riesgopais/internal/httpx"
	"riesgopais/internal/resolver"
	"riesgopais/internal/risk"
	"riesgopais/internal/setup"
	"riesgopais/internal/sources"
	"riesgopais/internal/storage/readings"
	"riesgopais/internal/web"
)

func main() {
	if len(os.Args) > 1 && os.Args[1] == "setup" {
		if err := setup.RunTUI(); err != nil {
			log.Fatal(err)
		}
		return
	}

	cfg, err := config.Get()
	if err != nil {
		log.Fatal(err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	httpClient := httpx.New(cfg.RequestTimeout)
	yahoo := sources.NewYahooClient(httpClient, sources.WithYahooLogger(logger))

	chain := []sources.PriceSource{
		sources.NewAPISource(httpClient, "", logger),
		sources.NewRavaSource(httpClient, "", logger),
		sources.NewIOLSource(httpClient, nil, logger),
	}
	manual := sources.NewManualSource(cfg.ManualPrice)
	custom := sources.NewCustomURLSource(httpClient, cfg.CustomURL, logger)

	res, err := resolver.New(logger, chain, manual, custom)
	if err != nil {
		logger.Fatal("failed to build resolver", zap.Error(err))
	}

	riskSvc := risk.NewService(res, sources.NewTreasuryYieldSource(yahoo), yahoo,
		cfg.Symbol, cfg.Preference,
		risk.WithLiveTTL(cfg.LiveTTL),
		risk.WithHistoryTTL(cfg.HistoryTTL),
		risk.WithLogger(logger))

	store, err := readings.NewWALStore(cfg.WALDir)
	if err != nil {
		logger.Fatal("failed to open readings store", zap.Error(err))
	}
	defer store.Close()

	monitor := internal.NewMonitor(riskSvc, store, cfg.UpdateInterval, cfg.AlertThresholdBps)
	server := web.NewServer(cfg.ListenAddr, riskSvc, store, sources.NormalizeSymbol(cfg.Symbol), logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return monitor.Run(ctx, logger) })
	g.Go(func() error { return server.Start(ctx) })

	logger.Info("dashboard started",
		zap.String("addr", cfg.ListenAddr),
		zap.String("symbol", cfg.Symbol),
		zap.String("preference", string(cfg.Preference)))

	if err := g.Wait(); err != nil && ctx.Err() == nil {
		logger.Error(err.Error())
	}
}
