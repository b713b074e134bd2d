package scrapers

import (
	"encoding/json"
	"strconv"
)

// Product is the canonical record every retailer adapter produces.
type Product struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	EAN       string `json:"ean"`
	Images    string `json:"images"`
	Seller    Seller `json:"seller"`
	Price     Amount `json:"Price"`
	ListPrice Amount `json:"ListPrice"`
}

// Seller is the offer block attached to a product. Logo is the retailer
// constant, never taken from the response.
type Seller struct {
	SellerName string            `json:"sellerName"`
	Ofertas    []json.RawMessage `json:"ofertas"`
	SellerLogo string            `json:"sellerLogo"`
}

// Amount is a price as a retailer reports it. Fixed amounts are rendered as
// two-decimal strings in JSON, the rest as plain numbers.
type Amount struct {
	Value float64
	Fixed bool
}

func (a Amount) String() string {
	if a.Fixed {
		return strconv.FormatFloat(a.Value, 'f', 2, 64)
	}
	return strconv.FormatFloat(a.Value, 'f', -1, 64)
}

func (a Amount) MarshalJSON() ([]byte, error) {
	if a.Fixed {
		return json.Marshal(a.String())
	}
	return json.Marshal(a.Value)
}
