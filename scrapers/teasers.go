package scrapers

import (
	"encoding/json"
	"time"

	"github.com/dlclark/regexp2"
)

// TeaserFilter drops teasers whose name matches a case-insensitive pattern.
type TeaserFilter struct {
	re *regexp2.Regexp
}

func NewTeaserFilter(pattern string) (*TeaserFilter, error) {
	re, err := regexp2.Compile(pattern, regexp2.IgnoreCase)
	if err != nil {
		return nil, err
	}
	re.MatchTimeout = 100 * time.Millisecond
	return &TeaserFilter{re: re}, nil
}

func MustTeaserFilter(pattern string) *TeaserFilter {
	f, err := NewTeaserFilter(pattern)
	if err != nil {
		panic(err)
	}
	return f
}

// Drops reports whether a teaser with this name is excluded.
func (f *TeaserFilter) Drops(name string) bool {
	if f == nil {
		return false
	}
	ok, err := f.re.MatchString(name)
	return err == nil && ok
}

// Apply returns the teasers that survive the filter, in order. The result is
// never nil.
func (f *TeaserFilter) Apply(teasers []json.RawMessage) []json.RawMessage {
	out := make([]json.RawMessage, 0, len(teasers))
	for _, t := range teasers {
		var head struct {
			Name string `json:"name"`
		}
		// teasers without a readable name are kept
		_ = json.Unmarshal(t, &head)
		if f.Drops(head.Name) {
			continue
		}
		out = append(out, t)
	}
	return out
}
