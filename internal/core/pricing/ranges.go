// Package pricing evaluates tenant-configurable COD fee and shipping charge rules.
// Every function here is pure and safe for concurrent use.
package pricing

import (
	"encoding/json"
	"sort"

	"github.com/SscSPs/shop_ledger_backend/internal/apperrors"
	"github.com/shopspring/decimal"
)

// ChargeType says how a range's Charge is applied.
type ChargeType string

const (
	ChargeFixed      ChargeType = "FIXED"
	ChargePercentage ChargeType = "PERCENTAGE"
)

// Range is an inclusive [Min, Max] band. A nil Max is open-ended.
type Range struct {
	Min    decimal.Decimal  `json:"min"`
	Max    *decimal.Decimal `json:"max"`
	Charge decimal.Decimal  `json:"charge"`
	Type   ChargeType       `json:"type,omitempty"`
}

// UnmarshalJSON also accepts the older field names: minQuantity/maxQuantity for
// bounds and fee/value for the charge.
func (r *Range) UnmarshalJSON(data []byte) error {
	var raw struct {
		Min         *decimal.Decimal `json:"min"`
		Max         *decimal.Decimal `json:"max"`
		MinQuantity *decimal.Decimal `json:"minQuantity"`
		MaxQuantity *decimal.Decimal `json:"maxQuantity"`
		Charge      *decimal.Decimal `json:"charge"`
		Fee         *decimal.Decimal `json:"fee"`
		Value       *decimal.Decimal `json:"value"`
		Type        ChargeType       `json:"type"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*r = Range{Type: raw.Type, Max: raw.Max}
	switch {
	case raw.Min != nil:
		r.Min = *raw.Min
	case raw.MinQuantity != nil:
		r.Min = *raw.MinQuantity
	}
	if r.Max == nil {
		r.Max = raw.MaxQuantity
	}
	for _, c := range []*decimal.Decimal{raw.Charge, raw.Fee, raw.Value} {
		if c != nil {
			r.Charge = *c
			break
		}
	}
	return nil
}

func (r Range) contains(x decimal.Decimal) bool {
	if x.LessThan(r.Min) {
		return false
	}
	return r.Max == nil || x.LessThanOrEqual(*r.Max)
}

// RangeSet is a list of ranges sorted ascending by Min.
type RangeSet struct {
	ranges []Range
}

// NewRangeSet sorts and validates ranges: each Min < Max, no negative values,
// and each range starts exactly where the previous one ends.
func NewRangeSet(ranges []Range) (RangeSet, error) {
	set := sortedRangeSet(ranges)
	for i, r := range set.ranges {
		if r.Min.IsNegative() {
			return RangeSet{}, &apperrors.InvalidRuleSetError{Reason: "min must not be negative", Index: i}
		}
		if r.Charge.IsNegative() {
			return RangeSet{}, &apperrors.InvalidRuleSetError{Reason: "charge must not be negative", Index: i}
		}
		if r.Max != nil && r.Min.GreaterThanOrEqual(*r.Max) {
			return RangeSet{}, &apperrors.InvalidRuleSetError{Reason: "min must be less than max", Index: i}
		}
		if i == 0 {
			continue
		}
		prev := set.ranges[i-1]
		if prev.Max == nil {
			return RangeSet{}, &apperrors.InvalidRuleSetError{Reason: "only the last range may be open-ended", Index: i - 1}
		}
		if !r.Min.Equal(*prev.Max) {
			reason := "gap before range"
			if r.Min.LessThan(*prev.Max) {
				reason = "overlaps previous range"
			}
			return RangeSet{}, &apperrors.InvalidRuleSetError{Reason: reason, Index: i}
		}
	}
	return set, nil
}

// sortedRangeSet orders ranges without validating them. Used on the read path,
// where stored rule sets were validated when written.
func sortedRangeSet(ranges []Range) RangeSet {
	sorted := make([]Range, len(ranges))
	copy(sorted, ranges)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Min.LessThan(sorted[j].Min)
	})
	return RangeSet{ranges: sorted}
}

// Ranges returns a copy of the sorted ranges.
func (s RangeSet) Ranges() []Range {
	out := make([]Range, len(s.ranges))
	copy(out, s.ranges)
	return out
}

// Len returns the number of ranges.
func (s RangeSet) Len() int {
	return len(s.ranges)
}

// Match returns the first range containing x. Above every range it returns the
// highest range. It reports false when nothing applies (empty set, x below the
// lowest range), in which case the caller applies its default.
func (s RangeSet) Match(x decimal.Decimal) (Range, bool) {
	for _, r := range s.ranges {
		if r.contains(x) {
			return r, true
		}
	}
	if len(s.ranges) == 0 {
		return Range{}, false
	}
	highest := s.ranges[len(s.ranges)-1]
	if highest.Max != nil && x.GreaterThan(*highest.Max) {
		return highest, true
	}
	return Range{}, false
}
