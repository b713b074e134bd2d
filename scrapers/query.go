package scrapers

import (
	"net/url"
	"strings"
)

// NormalizeQuery strips every '.' and lowercases the search term.
func NormalizeQuery(raw string) string {
	return strings.ToLower(strings.ReplaceAll(raw, ".", ""))
}

// encodeComponent percent-encodes s for use inside a query string or path
// segment, encoding spaces as %20 rather than '+'.
func encodeComponent(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
