package pricesync

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// foldFrom and foldTo are the translate() arguments of the name match. The Go
// fold below uses the same table so both sides agree.
const (
	foldFrom = "ÁÉÍÓÚÜÑÀÈÌÒÙÂÊÎÔÛÇáéíóúüñàèìòùâêîôûç"
	foldTo   = "AEIOUUNAEIOUAEIOUCaeiouunaeiouaeiouc"
)

var folder = newFolder(foldFrom, foldTo)

func newFolder(from, to string) *strings.Replacer {
	f, t := []rune(from), []rune(to)
	pairs := make([]string, 0, 2*len(f))
	for i := range f {
		pairs = append(pairs, string(f[i]), string(t[i]))
	}
	return strings.NewReplacer(pairs...)
}

// NormalizeName folds a product name for matching the same way the name
// lookup folds the stored column: characters in foldFrom are replaced by
// foldTo, then the result is lowercased and runs of whitespace collapse to a
// single space. Input is composed to NFC first so decomposed accents from a
// retailer response fold like their precomposed forms.
func NormalizeName(s string) string {
	s = folder.Replace(norm.NFC.String(s))
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}
