// Package agerange consolidates legacy age eligibility bands.
package agerange

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/ftrs/dos-migration/internal/domain/healthcareservice"
	"github.com/ftrs/dos-migration/internal/migration/formatting"
)

// Tolerance is the largest gap, in days, between two bands that are
// still treated as consecutive.
var Tolerance = decimal.NewFromInt(1)

// Range is a closed band of days.
type Range struct {
	From decimal.Decimal
	To   decimal.Decimal
}

// Consolidate merges bands that are consecutive within Tolerance or that
// overlap, returning nil for no input. Bounds are cleaned to two decimal
// places before comparison.
func Consolidate(ranges []Range) []healthcareservice.AgeRange {
	if len(ranges) == 0 {
		return nil
	}

	sorted := make([]Range, len(ranges))
	for i, r := range ranges {
		sorted[i] = Range{From: formatting.CleanDecimal(r.From), To: formatting.CleanDecimal(r.To)}
	}
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].From.LessThan(sorted[j].From) })

	var result []healthcareservice.AgeRange
	current := sorted[0]
	for _, next := range sorted[1:] {
		switch {
		case next.From.Sub(current.To).Abs().LessThanOrEqual(Tolerance):
			current.To = decimal.Max(current.To, next.To)
		case next.From.LessThanOrEqual(current.To):
			if next.To.GreaterThan(current.To) {
				current.To = next.To
			}
		default:
			result = append(result, newAgeRange(current))
			current = next
		}
	}
	return append(result, newAgeRange(current))
}

func newAgeRange(r Range) healthcareservice.AgeRange {
	return healthcareservice.AgeRange{
		RangeFrom: r.From,
		RangeTo:   r.To,
		Type:      healthcareservice.AgeRangeTypeDays,
	}
}
