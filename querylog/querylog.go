// Package querylog keeps a popularity count of search terms and suggests
// previously searched terms for partial input.
package querylog

import (
	"context"
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"ratoneando/scrapers"
)

// Entry is a logged search term and how many times it was searched.
type Entry struct {
	Query string  `json:"query"`
	Count float64 `json:"count"`
}

type Store interface {
	Record(ctx context.Context, query string) error
	Top(ctx context.Context, n int) ([]Entry, error)
	Suggest(ctx context.Context, prefix string, n int) ([]Entry, error)
}

// Normalize is the form terms are stored under: the search normalization
// with surrounding blanks removed.
func Normalize(query string) string {
	return strings.TrimSpace(scrapers.NormalizeQuery(query))
}

// Rank returns up to n entries fuzzily matching prefix, closest match first.
// entries must be ordered by popularity; ties keep that order.
func Rank(prefix string, entries []Entry, n int) []Entry {
	prefix = Normalize(prefix)
	if n <= 0 {
		return []Entry{}
	}
	if prefix == "" {
		if len(entries) > n {
			entries = entries[:n]
		}
		return append([]Entry{}, entries...)
	}

	terms := make([]string, len(entries))
	for i, e := range entries {
		terms[i] = e.Query
	}
	ranks := fuzzy.RankFindNormalizedFold(prefix, terms)
	sort.SliceStable(ranks, func(i, j int) bool {
		if ranks[i].Distance != ranks[j].Distance {
			return ranks[i].Distance < ranks[j].Distance
		}
		return ranks[i].OriginalIndex < ranks[j].OriginalIndex
	})

	out := make([]Entry, 0, min(n, len(ranks)))
	for _, r := range ranks {
		if len(out) == n {
			break
		}
		out = append(out, entries[r.OriginalIndex])
	}
	return out
}

// Nop discards everything. Used when no redis is configured.
type Nop struct{}

func (Nop) Record(context.Context, string) error { return nil }

func (Nop) Top(context.Context, int) ([]Entry, error) { return []Entry{}, nil }

func (Nop) Suggest(context.Context, string, int) ([]Entry, error) { return []Entry{}, nil }
