package scrapers

import (
	"encoding/json"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
)

// platformEnvelope wraps products the way the render runtime does: a
// queryData list whose data field is itself a JSON string.
func platformEnvelope(t *testing.T, products any) []byte {
	t.Helper()
	inner, err := json.Marshal(map[string]any{
		"productSearch": map[string]any{"products": products},
	})
	require.NoError(t, err)
	body, err := json.Marshal(map[string]any{
		"queryData": []map[string]any{{"data": string(inner)}},
	})
	require.NoError(t, err)
	return body
}

func vtexProductJSON(name, ean string, price, listPrice float64, teasers ...string) map[string]any {
	ts := make([]map[string]any, 0, len(teasers))
	for _, n := range teasers {
		ts = append(ts, map[string]any{"name": n})
	}
	return map[string]any{
		"items": []map[string]any{{
			"name":   name,
			"ean":    ean,
			"images": []map[string]any{{"imageUrl": "https://img.test/" + ean + ".jpg"}, {"imageUrl": "https://img.test/other.jpg"}},
			"sellers": []map[string]any{{
				"sellerName": "Seller " + name,
				"commertialOffer": map[string]any{
					"Price":     price,
					"ListPrice": listPrice,
					"teasers":   ts,
				},
			}},
		}},
	}
}

func catalogProductJSON(name, ean string, price float64, teasers []map[string]any) map[string]any {
	offer := map[string]any{"Price": price, "ListPrice": price + 10}
	if teasers != nil {
		offer["Teasers"] = teasers
	}
	return map[string]any{
		"productId": "1",
		"items": []map[string]any{{
			"name":    name,
			"ean":     ean,
			"images":  []map[string]any{{"imageUrl": "https://img.test/" + ean + ".jpg"}},
			"sellers": []map[string]any{{"sellerName": "Comodin", "commertialOffer": offer}},
		}},
	}
}

// cotoBody nests attribute maps at DefaultRecordsPath/DefaultAttributesPath.
func cotoBody(t *testing.T, attrs ...map[string]any) []byte {
	t.Helper()
	records := make([]any, 0, len(attrs))
	for _, a := range attrs {
		records = append(records, map[string]any{
			"records": []any{map[string]any{"attributes": a}},
		})
	}
	body, err := json.Marshal(map[string]any{
		"contents": []any{map[string]any{
			"Main": []any{
				map[string]any{"name": "breadcrumbs"},
				map[string]any{"contents": []any{map[string]any{"records": records}}},
			},
		}},
	})
	require.NoError(t, err)
	return body
}

func cotoAttrs(desc, ean, price string) map[string]any {
	return map[string]any{
		"product.description":  []any{desc},
		"product.eanPrincipal": []any{ean},
		"product.largeImage":   []any{"https://coto.test/" + ean + ".jpg"},
		"sku.activePrice":      []any{price},
		"product.siteId":       []any{"CotoDigital"},
	}
}

func sequentialIDs() func() string {
	var n atomic.Int64
	return func() string { return fmt.Sprintf("id-%d", n.Add(1)) }
}

func offerNames(t *testing.T, ofertas []json.RawMessage) []string {
	t.Helper()
	names := make([]string, 0, len(ofertas))
	for _, o := range ofertas {
		var v struct {
			Name string `json:"name"`
		}
		require.NoError(t, json.Unmarshal(o, &v))
		names = append(names, v.Name)
	}
	return names
}

func mustJSON(t *testing.T, v any) string {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return string(b)
}
