// Command pricesync searches every retailer for the given terms and updates
// the stored prices of matching products.
//
//	pricesync leche yerba "aceite de girasol"
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"ratoneando/config"
	"ratoneando/logger"
	"ratoneando/pricesync"
	"ratoneando/scrapers"
)

func main() {
	cfg := config.Load()
	log := logger.New(logger.ForEnvironment(cfg.AppEnv, cfg.LogLevel))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log, os.Args[1:]); err != nil {
		log.Error().Err(err).Msg("pricesync failed")
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger, terms []string) error {
	if len(terms) == 0 {
		return errors.New("usage: pricesync <term> [term...]")
	}
	if cfg.DatabaseURL == "" {
		return errors.New("DATABASE_URL no definido")
	}

	db, err := pricesync.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer db.Close()

	store, err := pricesync.NewStore(ctx, db)
	if err != nil {
		return err
	}
	defer store.Close()

	retailers, err := scrapers.NewAll(scrapers.DefaultRetailers(), scrapers.Options{
		Timeout:   cfg.AdapterTimeout,
		UserAgent: cfg.UserAgent,
		RateLimit: cfg.RetailerRPS,
	})
	if err != nil {
		return fmt.Errorf("build retailer adapters: %w", err)
	}
	agg := scrapers.NewAggregator(retailers,
		scrapers.WithAdapterTimeout(cfg.AdapterTimeout),
		scrapers.WithDeadline(cfg.SearchTimeout),
		scrapers.WithLogger(log),
	)

	rep, err := pricesync.NewSyncer(agg, store, log).Sync(ctx, terms...)
	log.Info().
		Int("updated", rep.Updated).
		Int("unmatched", rep.Skipped).
		Int("price_changes", rep.PriceChanges).
		Int("failed_sources", rep.FailedSources).
		Msg("sync summary")
	return err
}
