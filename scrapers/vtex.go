package scrapers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
)

// pickRuntime lists the render-runtime sections requested from the
// storefront. Only queryData is read.
var pickRuntime = []string{
	"appsEtag", "blocks", "blocksTree", "components", "contentMap", "extensions",
	"messages", "page", "pages", "query", "queryData", "route", "runtimeMeta", "settings",
}

type vtexImage struct {
	ImageURL string `json:"imageUrl"`
}

type vtexItem struct {
	Name    string       `json:"name"`
	EAN     string       `json:"ean"`
	Images  []vtexImage  `json:"images"`
	Sellers []vtexSeller `json:"sellers"`
}

type vtexSeller struct {
	SellerName      string     `json:"sellerName"`
	CommertialOffer *vtexOffer `json:"commertialOffer"`
}

type vtexOffer struct {
	Price     float64           `json:"Price"`
	ListPrice float64           `json:"ListPrice"`
	Teasers   []json.RawMessage `json:"teasers"`
	// catalog_system responses capitalize the teaser list
	CatalogTeasers []json.RawMessage `json:"Teasers"`
}

type vtexProduct struct {
	Items []vtexItem `json:"items"`
}

// firstItem returns the first sale variant with the fields every VTEX adapter
// reads checked for presence.
func (p vtexProduct) firstItem() (vtexItem, vtexSeller, error) {
	if len(p.Items) == 0 {
		return vtexItem{}, vtexSeller{}, fmt.Errorf("%w: items[0]", ErrFieldMissing)
	}
	item := p.Items[0]
	if len(item.Images) == 0 {
		return item, vtexSeller{}, fmt.Errorf("%w: items[0].images[0]", ErrFieldMissing)
	}
	if len(item.Sellers) == 0 {
		return item, vtexSeller{}, fmt.Errorf("%w: items[0].sellers[0]", ErrFieldMissing)
	}
	seller := item.Sellers[0]
	if seller.CommertialOffer == nil {
		return item, seller, fmt.Errorf("%w: items[0].sellers[0].commertialOffer", ErrFieldMissing)
	}
	return item, seller, nil
}

type runtimeResponse struct {
	QueryData []struct {
		Data string `json:"data"`
	} `json:"queryData"`
}

type productSearchData struct {
	ProductSearch *struct {
		Products []vtexProduct `json:"products"`
	} `json:"productSearch"`
}

// PlatformScraper queries a VTEX storefront through its render-runtime
// search page.
type PlatformScraper struct {
	retailer Retailer
	fetch    *fetcher
	newID    func() string
}

func NewPlatformScraper(r Retailer, opts Options) *PlatformScraper {
	return &PlatformScraper{retailer: r, fetch: newFetcher(opts), newID: opts.newID()}
}

func (s *PlatformScraper) Retailer() RetailerID { return s.retailer.ID }

// SearchURL builds the storefront URL for a normalized query.
func (s *PlatformScraper) SearchURL(query string) string {
	q := encodeComponent(query)
	return fmt.Sprintf("%s/%s?_q=%s&_map=ft&__pickRuntime=%s",
		strings.TrimRight(s.retailer.BaseURL, "/"), q, q,
		url.QueryEscape(strings.Join(pickRuntime, ",")))
}

func (s *PlatformScraper) Search(ctx context.Context, query string) ([]Product, error) {
	var resp runtimeResponse
	if err := s.fetch.getJSON(ctx, s.SearchURL(query), &resp); err != nil {
		return nil, fmt.Errorf("%s: %w", s.retailer.ID, err)
	}
	if len(resp.QueryData) == 0 {
		return []Product{}, nil
	}

	parsed := make([]productSearchData, len(resp.QueryData))
	for i, qd := range resp.QueryData {
		if err := json.Unmarshal([]byte(qd.Data), &parsed[i]); err != nil {
			return nil, fmt.Errorf("%s: decode queryData[%d].data: %w", s.retailer.ID, i, err)
		}
	}

	search := parsed[0].ProductSearch
	if search == nil || search.Products == nil {
		return nil, fmt.Errorf("%s: %w: queryData[0].productSearch.products", s.retailer.ID, ErrFieldMissing)
	}

	products := make([]Product, 0, len(search.Products))
	for i, raw := range search.Products {
		item, seller, err := raw.firstItem()
		if err != nil {
			return nil, fmt.Errorf("%s: products[%d]: %w", s.retailer.ID, i, err)
		}
		offer := seller.CommertialOffer
		products = append(products, Product{
			ID:     s.newID(),
			Name:   item.Name,
			EAN:    item.EAN,
			Images: item.Images[0].ImageURL,
			Seller: Seller{
				SellerName: seller.SellerName,
				Ofertas:    s.retailer.Teasers.Apply(offer.Teasers),
				SellerLogo: s.retailer.Logo,
			},
			Price:     Amount{Value: offer.Price, Fixed: s.retailer.FixedPrices},
			ListPrice: Amount{Value: offer.ListPrice, Fixed: s.retailer.FixedPrices},
		})
	}
	return products, nil
}
