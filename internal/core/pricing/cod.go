package pricing

import (
	"encoding/json"
	"fmt"

	"github.com/SscSPs/shop_ledger_backend/internal/apperrors"
	"github.com/shopspring/decimal"
)

// CalculationType selects how a logistics company's COD fee is computed.
type CalculationType string

const (
	CODFixed      CalculationType = "FIXED"
	CODPercentage CalculationType = "PERCENTAGE"
	CODRangeBased CalculationType = "RANGE_BASED"
)

var hundred = decimal.NewFromInt(100)

// CODRuleSet is one of FixedRule, PercentageRule or RangeRule.
type CODRuleSet interface {
	CalculationType() CalculationType
	Fee(codAmount decimal.Decimal) decimal.Decimal
	document() codRulesDocument
}

// FixedRule charges a constant fee.
type FixedRule struct {
	Amount decimal.Decimal
}

func (r FixedRule) CalculationType() CalculationType { return CODFixed }

func (r FixedRule) Fee(decimal.Decimal) decimal.Decimal { return r.Amount }

func (r FixedRule) document() codRulesDocument {
	return codRulesDocument{CalculationType: CODFixed, FixedFee: &r.Amount}
}

// PercentageRule charges Percentage/100 of the COD amount.
type PercentageRule struct {
	Percentage decimal.Decimal
}

func (r PercentageRule) CalculationType() CalculationType { return CODPercentage }

func (r PercentageRule) Fee(codAmount decimal.Decimal) decimal.Decimal {
	return codAmount.Mul(r.Percentage).Div(hundred).Round(2)
}

func (r PercentageRule) document() codRulesDocument {
	return codRulesDocument{CalculationType: CODPercentage, Percentage: &r.Percentage}
}

// RangeRule applies the matched range's own FIXED or PERCENTAGE charge.
// DefaultFee applies below the lowest range.
type RangeRule struct {
	Ranges     RangeSet
	DefaultFee decimal.Decimal
}

func (r RangeRule) CalculationType() CalculationType { return CODRangeBased }

func (r RangeRule) Fee(codAmount decimal.Decimal) decimal.Decimal {
	matched, ok := r.Ranges.Match(codAmount)
	if !ok {
		return r.DefaultFee
	}
	if matched.Type == ChargePercentage {
		return codAmount.Mul(matched.Charge).Div(hundred).Round(2)
	}
	return matched.Charge
}

func (r RangeRule) document() codRulesDocument {
	return codRulesDocument{CalculationType: CODRangeBased, Ranges: r.Ranges.Ranges(), DefaultFee: &r.DefaultFee}
}

// codRulesDocument is the stored JSON shape of a COD rule set.
type codRulesDocument struct {
	CalculationType CalculationType  `json:"calculationType"`
	FixedFee        *decimal.Decimal `json:"fixedFee,omitempty"`
	Percentage      *decimal.Decimal `json:"percentage,omitempty"`
	Ranges          []Range          `json:"ranges,omitempty"`
	DefaultFee      *decimal.Decimal `json:"defaultFee,omitempty"`
}

// ParseCODRules decodes and validates a COD rule set for storage.
func ParseCODRules(raw []byte) (CODRuleSet, error) {
	var doc codRulesDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, &apperrors.InvalidRuleSetError{Reason: "malformed JSON: " + err.Error(), Index: -1}
	}
	return doc.toRuleSet(true)
}

// LoadCODRules decodes a stored COD rule set without re-validating its ranges.
func LoadCODRules(raw []byte) (CODRuleSet, error) {
	var doc codRulesDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode COD rules: %w", err)
	}
	return doc.toRuleSet(false)
}

// MarshalCODRules encodes rules in their canonical stored form.
func MarshalCODRules(rules CODRuleSet) ([]byte, error) {
	return json.Marshal(rules.document())
}

func (doc codRulesDocument) toRuleSet(validate bool) (CODRuleSet, error) {
	switch doc.CalculationType {
	case CODFixed:
		if doc.FixedFee == nil || doc.FixedFee.IsNegative() {
			return nil, &apperrors.InvalidRuleSetError{Reason: "fixedFee is required and must not be negative", Index: -1}
		}
		return FixedRule{Amount: *doc.FixedFee}, nil
	case CODPercentage:
		if doc.Percentage == nil || doc.Percentage.IsNegative() {
			return nil, &apperrors.InvalidRuleSetError{Reason: "percentage is required and must not be negative", Index: -1}
		}
		return PercentageRule{Percentage: *doc.Percentage}, nil
	case CODRangeBased:
		defaultFee := decimal.Zero
		if doc.DefaultFee != nil {
			if doc.DefaultFee.IsNegative() {
				return nil, &apperrors.InvalidRuleSetError{Reason: "defaultFee must not be negative", Index: -1}
			}
			defaultFee = *doc.DefaultFee
		}
		if !validate {
			return RangeRule{Ranges: sortedRangeSet(doc.Ranges), DefaultFee: defaultFee}, nil
		}
		set, err := NewRangeSet(doc.Ranges)
		if err != nil {
			return nil, err
		}
		for i, r := range set.ranges {
			if r.Type != ChargeFixed && r.Type != ChargePercentage {
				return nil, &apperrors.InvalidRuleSetError{Reason: fmt.Sprintf("unknown range type '%s'", r.Type), Index: i}
			}
		}
		return RangeRule{Ranges: set, DefaultFee: defaultFee}, nil
	default:
		return nil, &apperrors.InvalidRuleSetError{Reason: fmt.Sprintf("unknown calculationType '%s'", doc.CalculationType), Index: -1}
	}
}

// CalculateCODFee returns the fee a logistics company charges on codAmount.
// Without rules the fee is zero.
func CalculateCODFee(rules CODRuleSet, codAmount decimal.Decimal) decimal.Decimal {
	if rules == nil || !codAmount.IsPositive() {
		return decimal.Zero
	}
	return rules.Fee(codAmount)
}
