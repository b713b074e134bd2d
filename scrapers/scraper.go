package scrapers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// Scraper is implemented by each retailer adapter. Search receives an
// already normalized query and maps the retailer's response into canonical
// products, in the retailer's own ranking order.
type Scraper interface {
	Retailer() RetailerID
	Search(ctx context.Context, query string) ([]Product, error)
}

// Options are shared by every adapter built with New.
type Options struct {
	// Client is used for outbound requests. Defaults to a client with Timeout.
	Client *http.Client
	// Timeout applies to the default client.
	Timeout time.Duration
	// UserAgent is sent on every request when set.
	UserAgent string
	// RateLimit is the maximum requests per second per retailer; zero
	// disables limiting.
	RateLimit float64
	// NewID mints product ids. Defaults to random UUIDs.
	NewID func() string
}

func (o Options) client() *http.Client {
	if o.Client != nil {
		return o.Client
	}
	timeout := o.Timeout
	if timeout <= 0 {
		timeout = DefaultAdapterTimeout
	}
	return &http.Client{Timeout: timeout}
}

func (o Options) newID() func() string {
	if o.NewID != nil {
		return o.NewID
	}
	return uuid.NewString
}

// New builds the adapter selected by r.Strategy.
func New(r Retailer, opts Options) (Scraper, error) {
	if r.BaseURL == "" {
		return nil, fmt.Errorf("%s: base url is empty", r.ID)
	}
	switch r.Strategy {
	case StrategyPlatform:
		return NewPlatformScraper(r, opts), nil
	case StrategyAttributes:
		if len(r.RecordsPath) == 0 || len(r.AttributesPath) == 0 {
			return nil, fmt.Errorf("%s: attributes strategy needs records and attributes paths", r.ID)
		}
		return NewAttributesScraper(r, opts), nil
	case StrategyCatalog:
		return NewCatalogScraper(r, opts), nil
	default:
		return nil, fmt.Errorf("%s: unknown strategy %d", r.ID, r.Strategy)
	}
}

// NewAll builds one adapter per retailer, keeping the table order.
func NewAll(retailers []Retailer, opts Options) ([]Scraper, error) {
	out := make([]Scraper, 0, len(retailers))
	for _, r := range retailers {
		s, err := New(r, opts)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}
