package scrapers

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

const catalogSearchPath = "/api/catalog_system/pub/products/search/busca"

// CatalogScraper queries a VTEX catalog_system search endpoint, which answers
// with a bare array of products.
type CatalogScraper struct {
	retailer Retailer
	fetch    *fetcher
	newID    func() string
}

func NewCatalogScraper(r Retailer, opts Options) *CatalogScraper {
	return &CatalogScraper{retailer: r, fetch: newFetcher(opts), newID: opts.newID()}
}

func (s *CatalogScraper) Retailer() RetailerID { return s.retailer.ID }

func (s *CatalogScraper) SearchURL(query string) string {
	return fmt.Sprintf("%s%s?O=OrderByTopSaleDESC&ft=%s",
		strings.TrimRight(s.retailer.BaseURL, "/"), catalogSearchPath, encodeComponent(query))
}

func (s *CatalogScraper) Search(ctx context.Context, query string) ([]Product, error) {
	var raw []vtexProduct
	if err := s.fetch.getJSON(ctx, s.SearchURL(query), &raw); err != nil {
		return nil, fmt.Errorf("%s: %w", s.retailer.ID, err)
	}

	products := make([]Product, 0, len(raw))
	for i, p := range raw {
		item, seller, err := p.firstItem()
		if err != nil {
			return nil, fmt.Errorf("%s: products[%d]: %w", s.retailer.ID, i, err)
		}
		offer := seller.CommertialOffer
		ofertas := offer.CatalogTeasers
		if ofertas == nil {
			ofertas = []json.RawMessage{}
		}
		if s.retailer.Teasers != nil {
			ofertas = s.retailer.Teasers.Apply(ofertas)
		}
		products = append(products, Product{
			ID:     s.newID(),
			Name:   item.Name,
			EAN:    item.EAN,
			Images: item.Images[0].ImageURL,
			Seller: Seller{
				SellerName: seller.SellerName,
				Ofertas:    ofertas,
				SellerLogo: s.retailer.Logo,
			},
			Price:     Amount{Value: offer.Price, Fixed: s.retailer.FixedPrices},
			ListPrice: Amount{Value: offer.ListPrice, Fixed: s.retailer.FixedPrices},
		})
	}
	return products, nil
}
