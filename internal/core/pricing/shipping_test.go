package pricing

import (
	"encoding/json"
	"testing"

	"github.com/SscSPs/shop_ledger_backend/internal/apperrors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateShippingCharges_LahoreExample(t *testing.T) {
	cities, err := ParseCityCharges([]byte(`{"Lahore": 200, "Karachi": 250}`))
	require.NoError(t, err)
	qty, err := ParseQuantityRules([]byte(`{"rules": [], "defaultQuantityCharge": 150}`))
	require.NoError(t, err)

	quote := CalculateShippingCharges(ShippingConfig{CityCharges: cities, QuantityRules: qty}, "Lahore",
		[]ShippingItem{{ProductID: "p1", Quantity: 3}})

	assert.True(t, dec("200").Equal(quote.CityCharge))
	require.Len(t, quote.Items, 1)
	assert.True(t, dec("300").Equal(quote.Items[0].Charge))
	assert.True(t, dec("500").Equal(quote.Total))
}

func TestQuantityRules_SingleUnitIsFree(t *testing.T) {
	rules, err := ParseQuantityRules([]byte(`{
		"rules": [{"min": 1, "max": 5, "charge": 75}, {"min": 5, "max": null, "charge": 50}],
		"defaultQuantityCharge": 150
	}`))
	require.NoError(t, err)

	for _, q := range []int{-1, 0, 1} {
		assert.True(t, rules.Charge(q).IsZero(), "quantity %d", q)
	}
	assert.True(t, dec("75").Equal(rules.Charge(2)))
	assert.True(t, dec("300").Equal(rules.Charge(5)))  // 75 × 4, first match wins at the boundary
	assert.True(t, dec("450").Equal(rules.Charge(10))) // 50 × 9
}

func TestQuantityRules_DefaultBelowLowestRange(t *testing.T) {
	rules, err := ParseQuantityRules([]byte(`[{"minQuantity": 5, "maxQuantity": null, "charge": 40}]`))
	require.NoError(t, err)
	assert.True(t, rules.DefaultCharge.IsZero())
	assert.True(t, rules.Charge(3).IsZero())

	rules.DefaultCharge = dec("25")
	assert.True(t, dec("50").Equal(rules.Charge(3)))
	assert.True(t, dec("160").Equal(rules.Charge(5)))
}

func TestParseQuantityRules_Invalid(t *testing.T) {
	_, err := ParseQuantityRules([]byte(`{"rules":[{"min":1,"max":3,"charge":10},{"min":2,"max":null,"charge":5}]}`))
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = ParseQuantityRules([]byte(`{"rules":[],"defaultQuantityCharge":-1}`))
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = ParseQuantityRules([]byte(`{"rules":`))
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestCityCharges_BaseCharge(t *testing.T) {
	wrapped, err := ParseCityCharges([]byte(`{"cityCharges": {"Lahore": 180, "Rawalpindi": "220.50"}, "defaultCityCharge": 300}`))
	require.NoError(t, err)
	flat, err := ParseCityCharges([]byte(`{"Lahore": 180, "Rawalpindi": 220.50}`))
	require.NoError(t, err)

	tests := []struct {
		name    string
		charges CityCharges
		city    string
		want    string
	}{
		{"exact", wrapped, "Lahore", "180"},
		{"normalized", wrapped, "  rawalPINDI ", "220.50"},
		{"tenant default", wrapped, "Multan", "300"},
		{"flat exact", flat, "Lahore", "180"},
		{"flat system default", flat, "Multan", "200"},
		{"empty config", CityCharges{}, "Lahore", "200"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, dec(tt.want).Equal(tt.charges.BaseCharge(tt.city)))
		})
	}
}

func TestCityCharges_MarshalWritesWrapper(t *testing.T) {
	flat, err := ParseCityCharges([]byte(`{"Lahore": 180}`))
	require.NoError(t, err)

	raw, err := json.Marshal(flat)
	require.NoError(t, err)

	var doc map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(raw, &doc))
	assert.Contains(t, doc, "cityCharges")

	reloaded, err := LoadCityCharges(raw)
	require.NoError(t, err)
	assert.True(t, dec("180").Equal(reloaded.BaseCharge("lahore")))
}

func TestParseCityCharges_Invalid(t *testing.T) {
	for name, raw := range map[string]string{
		"not an object":    `[1,2]`,
		"negative charge":  `{"Lahore": -5}`,
		"non numeric":      `{"Lahore": {"x": 1}}`,
		"negative default": `{"cityCharges": {}, "defaultCityCharge": -1}`,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := ParseCityCharges([]byte(raw))
			assert.ErrorIs(t, err, apperrors.ErrValidation)
		})
	}
}

func TestCalculateShippingCharges_ProductOverride(t *testing.T) {
	tenantRules := QuantityRules{DefaultCharge: dec("150")}
	productRules, err := ParseQuantityRules([]byte(`{"rules": [{"min": 1, "max": null, "charge": 20}]}`))
	require.NoError(t, err)

	cfg := ShippingConfig{
		CityCharges:   CityCharges{Charges: map[string]decimal.Decimal{"Lahore": dec("200")}},
		QuantityRules: tenantRules,
		Products: map[string]ProductShipping{
			"custom":  {UseDefaultShipping: false, Rules: &productRules},
			"default": {UseDefaultShipping: true, Rules: &productRules},
		},
	}

	quote := CalculateShippingCharges(cfg, "Lahore", []ShippingItem{
		{ProductID: "custom", Quantity: 3},  // 20 × 2
		{ProductID: "default", Quantity: 2}, // 150 × 1
		{ProductID: "unknown", Quantity: 1}, // 0
	})

	require.Len(t, quote.Items, 3)
	assert.True(t, quote.Items[0].UsedProductRules)
	assert.True(t, dec("40").Equal(quote.Items[0].Charge))
	assert.False(t, quote.Items[1].UsedProductRules)
	assert.True(t, dec("150").Equal(quote.Items[1].Charge))
	assert.True(t, quote.Items[2].Charge.IsZero())
	assert.True(t, dec("390").Equal(quote.Total))
}
