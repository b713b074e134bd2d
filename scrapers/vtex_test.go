package scrapers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPlatformTestScraper(t *testing.T, handler http.HandlerFunc) *PlatformScraper {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	r := Retailer{
		ID:       Jumbo,
		BaseURL:  server.URL,
		Logo:     "https://logo.test/jumbo.svg",
		Strategy: StrategyPlatform,
		Teasers:  MustTeaserFilter(CardTeasers),
	}
	return NewPlatformScraper(r, Options{NewID: sequentialIDs(), UserAgent: "ratoneando-test"})
}

func TestPlatformScraper_Search(t *testing.T) {
	captured := make(chan *http.Request, 1)
	s := newPlatformTestScraper(t, func(w http.ResponseWriter, r *http.Request) {
		captured <- r
		w.Header().Set("Content-Type", "application/json")
		w.Write(platformEnvelope(t, []any{
			vtexProductJSON("Leche Entera 1L", "7790001", 1250.5, 1400, "Tarjeta VIP", "2x1"),
			vtexProductJSON("Leche Descremada 1L", "7790002", 1100, 1100),
		}))
	})

	products, err := s.Search(context.Background(), "leche entera")
	require.NoError(t, err)
	require.Len(t, products, 2)

	got := <-captured
	assert.Equal(t, "/leche entera", got.URL.Path)
	assert.Equal(t, "leche entera", got.URL.Query().Get("_q"))
	assert.Equal(t, "ft", got.URL.Query().Get("_map"))
	assert.Contains(t, strings.Split(got.URL.Query().Get("__pickRuntime"), ","), "queryData")
	assert.Equal(t, "ratoneando-test", got.Header.Get("User-Agent"))

	first := products[0]
	assert.Equal(t, "id-1", first.ID)
	assert.Equal(t, "Leche Entera 1L", first.Name)
	assert.Equal(t, "7790001", first.EAN)
	assert.Equal(t, "https://img.test/7790001.jpg", first.Images)
	assert.Equal(t, Amount{Value: 1250.5}, first.Price)
	assert.Equal(t, Amount{Value: 1400}, first.ListPrice)
	assert.Equal(t, "Seller Leche Entera 1L", first.Seller.SellerName)
	assert.Equal(t, "https://logo.test/jumbo.svg", first.Seller.SellerLogo)
	assert.Equal(t, []string{"2x1"}, offerNames(t, first.Seller.Ofertas))

	second := products[1]
	assert.Equal(t, "id-2", second.ID)
	assert.Equal(t, "Leche Descremada 1L", second.Name)
	assert.NotNil(t, second.Seller.Ofertas)
	assert.Empty(t, second.Seller.Ofertas)
}

func TestPlatformScraper_SearchURL(t *testing.T) {
	s := NewPlatformScraper(Retailer{ID: Vea, BaseURL: "https://www.vea.com.ar/"}, Options{})
	u := s.SearchURL("yerba mate")
	assert.True(t, strings.HasPrefix(u, "https://www.vea.com.ar/yerba%20mate?_q=yerba%20mate&_map=ft&__pickRuntime="))
	assert.Contains(t, u, "queryData%2Croute")
}

func TestPlatformScraper_NoResults(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"missing queryData", `{"page":"store.search"}`},
		{"null queryData", `{"queryData":null}`},
		{"empty queryData", `{"queryData":[]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newPlatformTestScraper(t, func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(tt.body))
			})
			products, err := s.Search(context.Background(), "nada")
			require.NoError(t, err)
			assert.NotNil(t, products)
			assert.Empty(t, products)
		})
	}
}

func TestPlatformScraper_EmptyProductList(t *testing.T) {
	s := newPlatformTestScraper(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write(platformEnvelope(t, []any{}))
	})
	products, err := s.Search(context.Background(), "nada")
	require.NoError(t, err)
	assert.Empty(t, products)
}

func TestPlatformScraper_Errors(t *testing.T) {
	t.Run("bad status", func(t *testing.T) {
		s := newPlatformTestScraper(t, func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "blocked", http.StatusForbidden)
		})
		_, err := s.Search(context.Background(), "leche")
		assert.ErrorIs(t, err, ErrUnexpectedStatus)
	})

	t.Run("malformed body", func(t *testing.T) {
		s := newPlatformTestScraper(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`<html>`))
		})
		_, err := s.Search(context.Background(), "leche")
		assert.Error(t, err)
	})

	t.Run("data is not json", func(t *testing.T) {
		s := newPlatformTestScraper(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"queryData":[{"data":"not json"}]}`))
		})
		_, err := s.Search(context.Background(), "leche")
		assert.Error(t, err)
	})

	t.Run("missing productSearch", func(t *testing.T) {
		s := newPlatformTestScraper(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"queryData":[{"data":"{\"facets\":{}}"}]}`))
		})
		_, err := s.Search(context.Background(), "leche")
		assert.ErrorIs(t, err, ErrFieldMissing)
	})

	t.Run("product without items", func(t *testing.T) {
		s := newPlatformTestScraper(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write(platformEnvelope(t, []any{map[string]any{"items": []any{}}}))
		})
		_, err := s.Search(context.Background(), "leche")
		assert.ErrorIs(t, err, ErrFieldMissing)
	})

	t.Run("item without sellers", func(t *testing.T) {
		s := newPlatformTestScraper(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write(platformEnvelope(t, []any{map[string]any{"items": []any{map[string]any{
				"name":   "x",
				"images": []any{map[string]any{"imageUrl": "u"}},
			}}}}))
		})
		_, err := s.Search(context.Background(), "leche")
		assert.ErrorIs(t, err, ErrFieldMissing)
	})
}
