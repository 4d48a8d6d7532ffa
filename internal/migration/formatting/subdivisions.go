package formatting

import (
	"fmt"
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Subdivision is an ISO 3166-2 country subdivision.
type Subdivision struct {
	Code        string
	Name        string
	CountryCode string
}

// SubdivisionSearcher finds subdivisions loosely matching free text. It
// returns an error when nothing matches.
type SubdivisionSearcher interface {
	SearchFuzzy(query string) ([]Subdivision, error)
}

// SubdivisionIndex searches an in-memory subdivision table. Exact name or
// code matches rank first, then names containing the query as whole words.
// A name of the form "Durham, County" is also searched as "County Durham".
type SubdivisionIndex struct {
	entries []Subdivision
	keys    [][]string
}

func NewSubdivisionIndex(entries []Subdivision) *SubdivisionIndex {
	idx := &SubdivisionIndex{entries: entries, keys: make([][]string, len(entries))}
	for i, e := range entries {
		idx.keys[i] = nameKeys(e.Name)
	}
	return idx
}

// nameKeys folds name and, when it has a single comma, its reordered form.
func nameKeys(name string) []string {
	keys := []string{fold(name)}
	if head, tail, ok := strings.Cut(name, ","); ok && !strings.Contains(tail, ",") {
		keys = append(keys, fold(tail+" "+head))
	}
	return keys
}

// DefaultSubdivisions indexes the bundled subdivision table.
func DefaultSubdivisions() *SubdivisionIndex {
	return NewSubdivisionIndex(subdivisions)
}

func (s *SubdivisionIndex) SearchFuzzy(query string) ([]Subdivision, error) {
	q := fold(query)
	if q == "" {
		return nil, fmt.Errorf("empty subdivision query")
	}

	type hit struct {
		sub  Subdivision
		rank int
		pos  int
	}
	var hits []hit
	for i, e := range s.entries {
		switch {
		case s.matches(i, func(k string) bool { return k == q }) ||
			strings.EqualFold(e.Code, query) || strings.EqualFold(strings.TrimPrefix(e.Code, e.CountryCode+"-"), query):
			hits = append(hits, hit{e, 0, i})
		case s.matches(i, func(k string) bool { return containsWords(k, q) }):
			hits = append(hits, hit{e, 1, i})
		}
	}
	if len(hits) == 0 {
		return nil, fmt.Errorf("no subdivision matching %q", query)
	}

	sort.SliceStable(hits, func(i, j int) bool { return hits[i].rank < hits[j].rank })
	result := make([]Subdivision, len(hits))
	for i, h := range hits {
		result[i] = h.sub
	}
	return result, nil
}

func (s *SubdivisionIndex) matches(i int, fn func(key string) bool) bool {
	for _, k := range s.keys[i] {
		if fn(k) {
			return true
		}
	}
	return false
}

// fold lowercases, strips diacritics, turns punctuation into spaces and
// collapses whitespace.
func fold(s string) string {
	var b strings.Builder
	for _, r := range norm.NFD.String(strings.ToLower(s)) {
		switch {
		case unicode.Is(unicode.Mn, r):
			continue
		case unicode.IsPunct(r):
			b.WriteRune(' ')
		default:
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

func containsWords(haystack, needle string) bool {
	h := " " + haystack + " "
	return strings.Contains(h, " "+needle+" ")
}
