// Package category groups place names into first-letter buckets.
package category

import (
	"slices"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// All is the control bucket that clears the filter. It never holds places.
const All = "All"

var upper = cases.Upper(language.Und)

// Index maps bucket keys to place names. Keys keep first-seen order with
// All always first.
type Index struct {
	keys    []string
	buckets map[string][]string
}

// Empty returns an index holding only the All bucket.
func Empty() *Index {
	return &Index{
		keys:    []string{All},
		buckets: map[string][]string{All: {}},
	}
}

// Key returns the bucket key of place: its first character upper-cased.
// Blank places have no key.
func Key(place string) string {
	place = strings.TrimSpace(place)
	if place == "" {
		return ""
	}
	r, _ := utf8.DecodeRuneInString(place)
	return upper.String(string(r))
}

// Build buckets places by Key. Blank places are dropped. Callers that want
// one row per place pass the output of Distinct.
func Build(places []string) *Index {
	ix := Empty()
	for _, p := range places {
		key := Key(p)
		if key == "" {
			continue
		}
		if _, ok := ix.buckets[key]; !ok {
			ix.keys = append(ix.keys, key)
		}
		ix.buckets[key] = append(ix.buckets[key], p)
	}
	for _, key := range ix.keys {
		slices.SortStableFunc(ix.buckets[key], strings.Compare)
	}
	return ix
}

// Distinct drops blank and repeated places and sorts the rest.
func Distinct(places []string) []string {
	seen := make(map[string]struct{}, len(places))
	out := make([]string, 0, len(places))
	for _, p := range places {
		if strings.TrimSpace(p) == "" {
			continue
		}
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	slices.Sort(out)
	return out
}

// Keys returns bucket keys in render order.
func (ix *Index) Keys() []string {
	return slices.Clone(ix.keys)
}

// Places returns the places in a bucket.
func (ix *Index) Places(key string) []string {
	return slices.Clone(ix.buckets[key])
}

// Len counts buckets, All included.
func (ix *Index) Len() int {
	return len(ix.keys)
}
