package scrapers

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// DefaultAdapterTimeout bounds an adapter call when no positive timeout is
// configured.
const DefaultAdapterTimeout = 10 * time.Second

// Observer is notified after every adapter call.
type Observer interface {
	ObserveFetch(retailer RetailerID, products int, err error, elapsed time.Duration)
}

// SourceResult is one retailer's contribution to a search.
type SourceResult struct {
	Retailer RetailerID
	Products []Product
	Err      error
	Elapsed  time.Duration
}

// Aggregator fans a query out to every adapter and concatenates their results
// in adapter order. A failing adapter contributes nothing; it never fails the
// search.
type Aggregator struct {
	scrapers       []Scraper
	adapterTimeout time.Duration
	deadline       time.Duration
	logger         zerolog.Logger
	observer       Observer
}

type Option func(*Aggregator)

// WithAdapterTimeout bounds each adapter call. Non-positive values keep
// DefaultAdapterTimeout.
func WithAdapterTimeout(d time.Duration) Option {
	return func(a *Aggregator) {
		if d > 0 {
			a.adapterTimeout = d
		}
	}
}

// WithDeadline bounds the whole search. Zero means no overall deadline.
func WithDeadline(d time.Duration) Option {
	return func(a *Aggregator) { a.deadline = d }
}

func WithLogger(l zerolog.Logger) Option {
	return func(a *Aggregator) { a.logger = l }
}

func WithObserver(o Observer) Option {
	return func(a *Aggregator) { a.observer = o }
}

func NewAggregator(scrapers []Scraper, opts ...Option) *Aggregator {
	a := &Aggregator{
		scrapers:       scrapers,
		adapterTimeout: DefaultAdapterTimeout,
		logger:         zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Retailers lists the configured retailers in priority order.
func (a *Aggregator) Retailers() []RetailerID {
	out := make([]RetailerID, len(a.scrapers))
	for i, s := range a.scrapers {
		out[i] = s.Retailer()
	}
	return out
}

// Search returns the merged product list for a raw query. The result is never
// nil.
func (a *Aggregator) Search(ctx context.Context, raw string) []Product {
	results := a.SearchBySource(ctx, raw)
	total := 0
	for _, r := range results {
		total += len(r.Products)
	}
	out := make([]Product, 0, total)
	for _, r := range results {
		out = append(out, r.Products...)
	}
	return out
}

// SearchBySource runs every adapter concurrently and returns their results in
// priority order. An empty normalized query returns nil without calling any
// adapter.
func (a *Aggregator) SearchBySource(ctx context.Context, raw string) []SourceResult {
	query := NormalizeQuery(raw)
	if query == "" {
		return nil
	}

	if a.deadline > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.deadline)
		defer cancel()
	}

	results := make([]SourceResult, len(a.scrapers))
	var g errgroup.Group
	for i, s := range a.scrapers {
		i, s := i, s
		g.Go(func() error {
			results[i] = a.run(ctx, s, query)
			return nil
		})
	}
	_ = g.Wait()
	return results
}

func (a *Aggregator) run(ctx context.Context, s Scraper, query string) SourceResult {
	start := time.Now()
	ctx, cancel := context.WithTimeout(ctx, a.adapterTimeout)
	defer cancel()

	type outcome struct {
		products []Product
		err      error
	}
	done := make(chan outcome, 1)
	go func() {
		defer func() {
			if p := recover(); p != nil {
				done <- outcome{err: fmt.Errorf("%s: panic: %v", s.Retailer(), p)}
			}
		}()
		products, err := s.Search(ctx, query)
		done <- outcome{products: products, err: err}
	}()

	var res outcome
	select {
	case res = <-done:
	case <-ctx.Done():
		res = outcome{err: fmt.Errorf("%s: %w", s.Retailer(), ctx.Err())}
	}

	result := SourceResult{Retailer: s.Retailer(), Elapsed: time.Since(start)}
	if res.err != nil {
		result.Err = res.err
		a.logger.Warn().
			Str("retailer", string(s.Retailer())).
			Str("query", query).
			Dur("elapsed", result.Elapsed).
			Err(res.err).
			Msg("retailer search failed")
	} else {
		result.Products = res.products
		a.logger.Debug().
			Str("retailer", string(s.Retailer())).
			Int("products", len(res.products)).
			Dur("elapsed", result.Elapsed).
			Msg("retailer search done")
	}

	if a.observer != nil {
		a.observer.ObserveFetch(result.Retailer, len(result.Products), result.Err, result.Elapsed)
	}
	return result
}
