package pricing

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/SscSPs/shop_ledger_backend/internal/apperrors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(v string) decimal.Decimal { return decimal.RequireFromString(v) }

func decPtr(v string) *decimal.Decimal {
	d := dec(v)
	return &d
}

func TestNewRangeSet_GapFreeValidation(t *testing.T) {
	base := []Range{
		{Min: dec("0"), Max: decPtr("100"), Charge: dec("10")},
		{Min: dec("100"), Max: decPtr("250"), Charge: dec("20")},
	}

	_, err := NewRangeSet(base)
	require.NoError(t, err)

	overlapping := append(append([]Range{}, base...), Range{Min: dec("150"), Max: decPtr("300"), Charge: dec("30")})
	_, err = NewRangeSet(overlapping)
	require.Error(t, err)
	var ruleErr *apperrors.InvalidRuleSetError
	require.True(t, errors.As(err, &ruleErr))
	assert.Equal(t, 2, ruleErr.Index)
	assert.Contains(t, ruleErr.Reason, "overlaps")
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	openEnded := append(append([]Range{}, base...), Range{Min: dec("250"), Charge: dec("30")})
	set, err := NewRangeSet(openEnded)
	require.NoError(t, err)
	assert.Equal(t, 3, set.Len())
}

func TestNewRangeSet_Rejections(t *testing.T) {
	tests := []struct {
		name   string
		ranges []Range
		reason string
	}{
		{
			name:   "min equals max",
			ranges: []Range{{Min: dec("10"), Max: decPtr("10"), Charge: dec("1")}},
			reason: "min must be less than max",
		},
		{
			name:   "negative charge",
			ranges: []Range{{Min: dec("0"), Max: decPtr("10"), Charge: dec("-1")}},
			reason: "charge must not be negative",
		},
		{
			name:   "negative min",
			ranges: []Range{{Min: dec("-5"), Max: decPtr("10"), Charge: dec("1")}},
			reason: "min must not be negative",
		},
		{
			name: "gap",
			ranges: []Range{
				{Min: dec("0"), Max: decPtr("10"), Charge: dec("1")},
				{Min: dec("20"), Max: decPtr("30"), Charge: dec("2")},
			},
			reason: "gap",
		},
		{
			name: "open range not last",
			ranges: []Range{
				{Min: dec("0"), Charge: dec("1")},
				{Min: dec("10"), Max: decPtr("30"), Charge: dec("2")},
			},
			reason: "open-ended",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewRangeSet(tt.ranges)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.reason)
		})
	}
}

func TestNewRangeSet_SortsByMin(t *testing.T) {
	set, err := NewRangeSet([]Range{
		{Min: dec("100"), Charge: dec("20")},
		{Min: dec("0"), Max: decPtr("100"), Charge: dec("10")},
	})
	require.NoError(t, err)

	ranges := set.Ranges()
	assert.True(t, ranges[0].Min.IsZero())
	assert.True(t, dec("100").Equal(ranges[1].Min))
}

func TestRangeSet_Match(t *testing.T) {
	set, err := NewRangeSet([]Range{
		{Min: dec("10"), Max: decPtr("100"), Charge: dec("1")},
		{Min: dec("100"), Max: decPtr("250"), Charge: dec("2")},
	})
	require.NoError(t, err)

	tests := []struct {
		x       string
		matched bool
		charge  string
	}{
		{"5", false, ""},
		{"10", true, "1"},
		{"100", true, "1"}, // inclusive bounds, first match wins
		{"100.01", true, "2"},
		{"250", true, "2"},
		{"1000", true, "2"}, // above all ranges
	}
	for _, tt := range tests {
		t.Run(tt.x, func(t *testing.T) {
			r, ok := set.Match(dec(tt.x))
			assert.Equal(t, tt.matched, ok)
			if tt.matched {
				assert.True(t, dec(tt.charge).Equal(r.Charge))
			}
		})
	}

	_, ok := RangeSet{}.Match(dec("1"))
	assert.False(t, ok)
}

func TestRange_UnmarshalJSONAliases(t *testing.T) {
	var ranges []Range
	err := json.Unmarshal([]byte(`[
		{"min": 0, "max": 5000, "type": "FIXED", "charge": 100},
		{"minQuantity": 2, "maxQuantity": 5, "fee": "7.5"},
		{"min": 5000, "max": null, "type": "PERCENTAGE", "value": 2}
	]`), &ranges)
	require.NoError(t, err)
	require.Len(t, ranges, 3)

	assert.Equal(t, ChargeFixed, ranges[0].Type)
	assert.True(t, dec("100").Equal(ranges[0].Charge))
	assert.True(t, dec("2").Equal(ranges[1].Min))
	assert.True(t, dec("5").Equal(*ranges[1].Max))
	assert.True(t, dec("7.5").Equal(ranges[1].Charge))
	assert.Nil(t, ranges[2].Max)
	assert.True(t, dec("2").Equal(ranges[2].Charge))
}
