package scrapers

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// AttributesScraper queries a catalog whose records carry namespaced,
// list-wrapped attributes ("product.description": ["Leche"]). The location of
// the record list is taken from the retailer configuration since it changes
// between backend versions.
type AttributesScraper struct {
	retailer Retailer
	fetch    *fetcher
	newID    func() string
}

func NewAttributesScraper(r Retailer, opts Options) *AttributesScraper {
	return &AttributesScraper{retailer: r, fetch: newFetcher(opts), newID: opts.newID()}
}

func (s *AttributesScraper) Retailer() RetailerID { return s.retailer.ID }

func (s *AttributesScraper) SearchURL(query string) string {
	return fmt.Sprintf("%s?Ntt=%s&format=json", s.retailer.BaseURL, encodeComponent(query))
}

func (s *AttributesScraper) Search(ctx context.Context, query string) ([]Product, error) {
	var body any
	if err := s.fetch.getJSON(ctx, s.SearchURL(query), &body); err != nil {
		return nil, fmt.Errorf("%s: %w", s.retailer.ID, err)
	}

	records, err := s.retailer.RecordsPath.LookupArray(body)
	if err != nil {
		return nil, fmt.Errorf("%s: records: %w", s.retailer.ID, err)
	}

	products := make([]Product, 0, len(records))
	for i, rec := range records {
		attrs, err := s.retailer.AttributesPath.LookupObject(rec)
		if err != nil {
			return nil, fmt.Errorf("%s: records[%d]: %w", s.retailer.ID, i, err)
		}
		p, err := s.toProduct(FlattenAttributes(attrs))
		if err != nil {
			return nil, fmt.Errorf("%s: records[%d]: %w", s.retailer.ID, i, err)
		}
		products = append(products, p)
	}
	return products, nil
}

func (s *AttributesScraper) toProduct(fields map[string]string) (Product, error) {
	raw, ok := fields["activePrice"]
	if !ok {
		return Product{}, fmt.Errorf("%w: activePrice", ErrFieldMissing)
	}
	price, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return Product{}, fmt.Errorf("parse activePrice %q: %w", raw, err)
	}
	amount := Amount{Value: price, Fixed: s.retailer.FixedPrices}

	return Product{
		ID:     s.newID(),
		Name:   fields["description"],
		EAN:    fields["eanPrincipal"],
		Images: fields["largeImage"],
		Seller: Seller{
			SellerName: fields["siteId"],
			Ofertas:    []json.RawMessage{},
			SellerLogo: s.retailer.Logo,
		},
		Price:     amount,
		ListPrice: amount,
	}, nil
}

// FlattenAttributes turns {"ns.field": [v, ...]} into {"field": v}. The field
// name is the segment after the last '.', so "vtex.namespace.description"
// yields "description"; for the two-segment keys the catalog returns this is
// the same as splitting on the first dot. Keys without a dot are kept as is.
// Attributes whose value is not a non-empty list are skipped.
//
// Keys are visited in sorted order and the first key to claim a field name
// wins, so "product.description" takes precedence over "sku.description".
func FlattenAttributes(attrs map[string]any) map[string]string {
	keys := make([]string, 0, len(attrs))
	for key := range attrs {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	out := make(map[string]string, len(attrs))
	for _, key := range keys {
		name := key
		if i := strings.LastIndexByte(key, '.'); i >= 0 {
			name = key[i+1:]
		}
		if _, taken := out[name]; taken {
			continue
		}
		list, ok := attrs[key].([]any)
		if !ok || len(list) == 0 || list[0] == nil {
			continue
		}
		switch first := list[0].(type) {
		case string:
			out[name] = first
		case float64:
			out[name] = strconv.FormatFloat(first, 'f', -1, 64)
		default:
			out[name] = fmt.Sprint(first)
		}
	}
	return out
}
