// Package pricesync refreshes stored retailer prices from live searches.
package pricesync

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"ratoneando/scrapers"
)

// SourceSearcher returns search results grouped by retailer.
type SourceSearcher interface {
	SearchBySource(ctx context.Context, raw string) []scrapers.SourceResult
}

// Updater applies one product's prices to storage.
type Updater interface {
	UpdatePrice(ctx context.Context, source string, p scrapers.Product) (Change, bool, error)
}

// Report summarizes a sync run.
type Report struct {
	Updated      int
	Skipped      int
	PriceChanges int
	// FailedSources counts retailer searches that failed.
	FailedSources int
}

type Syncer struct {
	search SourceSearcher
	store  Updater
	log    zerolog.Logger
}

func NewSyncer(search SourceSearcher, store Updater, log zerolog.Logger) *Syncer {
	return &Syncer{search: search, store: store, log: log}
}

// Sync searches every term and updates matching rows. A storage error stops
// the run; retailer failures are only counted.
func (s *Syncer) Sync(ctx context.Context, terms ...string) (Report, error) {
	var rep Report
	for _, term := range terms {
		for _, res := range s.search.SearchBySource(ctx, term) {
			if res.Err != nil {
				rep.FailedSources++
				continue
			}
			for _, p := range res.Products {
				change, ok, err := s.store.UpdatePrice(ctx, string(res.Retailer), p)
				if err != nil {
					return rep, fmt.Errorf("%s %q: %w", res.Retailer, p.Name, err)
				}
				if !ok {
					rep.Skipped++
					continue
				}
				rep.Updated++
				if change.PriceChanged() {
					rep.PriceChanges++
					s.log.Info().
						Str("retailer", string(res.Retailer)).
						Str("match", string(change.Match)).
						Str("name", change.Name).
						Float64("old", change.OldPrice).
						Float64("new", change.NewPrice).
						Msg("price changed")
				}
			}
		}
	}
	return rep, nil
}
