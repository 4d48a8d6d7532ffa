// Package formatting turns legacy free-text and numeric fields into the
// shapes stored on migrated documents.
package formatting

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/ftrs/dos-migration/internal/domain/location"
	"github.com/ftrs/dos-migration/internal/platform/logging"
)

// AddressSegmentSeparator delimits lines of a legacy address.
const AddressSegmentSeparator = "$"

// AddressFormatter is safe for concurrent use when its searcher is.
type AddressFormatter struct {
	log      *logging.Logger
	searcher SubdivisionSearcher
	counties []string
}

// NewAddressFormatter resolves counties through searcher, falling back to
// UKCounties. A nil searcher uses the bundled subdivision table.
func NewAddressFormatter(log *logging.Logger, searcher SubdivisionSearcher) *AddressFormatter {
	if searcher == nil {
		searcher = DefaultSubdivisions()
	}
	return &AddressFormatter{
		log:      log,
		searcher: searcher,
		counties: UKCounties,
	}
}

// Normalize trims, collapses internal whitespace and lowercases.
func Normalize(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// Format splits a "$"-delimited address into line1, line2 and county.
// Segments repeating the town, and consecutive duplicates, are dropped.
// The last remaining segment is taken as the county when it resolves to a
// GB subdivision or a known county; only two address lines are kept.
func (f *AddressFormatter) Format(address, town, postcode string) location.Address {
	f.log.Log(logging.AddressFormatter000, logging.Fields{
		"address":  address,
		"town":     town,
		"postcode": postcode,
	})

	townNorm := Normalize(town)
	var segments []string
	for _, part := range strings.Split(address, AddressSegmentSeparator) {
		seg := strings.TrimSpace(part)
		if seg == "" {
			continue
		}
		segNorm := Normalize(seg)
		if townNorm != "" && segNorm == townNorm {
			continue
		}
		if n := len(segments); n > 0 && Normalize(segments[n-1]) == segNorm {
			continue
		}
		segments = append(segments, seg)
	}

	result := location.Address{Town: town, Postcode: postcode}
	if n := len(segments); n > 0 {
		if county, ok := f.resolveCounty(segments[n-1]); ok {
			// A Caser keeps state between calls and cannot be shared.
			titled := cases.Title(language.BritishEnglish).String(county)
			result.County = &titled
			segments = segments[:n-1]
		}
	}
	if len(segments) > 0 {
		result.Line1 = &segments[0]
	}
	if len(segments) > 1 {
		result.Line2 = &segments[1]
	}
	return result
}

func (f *AddressFormatter) resolveCounty(segment string) (string, bool) {
	q := strings.TrimSpace(segment)
	if q == "" {
		return "", false
	}

	f.log.Log(logging.AddressFormatter001, logging.Fields{"county_name": q})
	matches, err := f.searcher.SearchFuzzy(q)
	if err != nil {
		f.log.Log(logging.AddressFormatter002, logging.Fields{"county_name": q, "error": err.Error()})
		matches = nil
	}

	for _, sub := range matches {
		if sub.CountryCode != "GB" {
			continue
		}
		f.log.Log(logging.AddressFormatter003, logging.Fields{"county_name": sub.Name})
		return sub.Name, true
	}

	if len(matches) == 0 {
		f.log.Log(logging.AddressFormatter004, logging.Fields{"county_name": q})
		qNorm := Normalize(q)
		for _, county := range f.counties {
			if Normalize(county) == qNorm {
				return county, true
			}
		}
	}

	f.log.Log(logging.AddressFormatter005, logging.Fields{"county_name": q})
	return "", false
}
