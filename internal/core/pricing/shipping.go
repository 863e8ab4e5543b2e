package pricing

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/SscSPs/shop_ledger_backend/internal/apperrors"
	"github.com/shopspring/decimal"
)

// SystemDefaultCityCharge applies when neither the city nor a tenant default is configured.
var SystemDefaultCityCharge = decimal.NewFromInt(200)

// CityCharges maps city names to a base shipping charge.
type CityCharges struct {
	Charges map[string]decimal.Decimal
	Default *decimal.Decimal
}

type cityChargesDocument struct {
	CityCharges       map[string]decimal.Decimal `json:"cityCharges"`
	DefaultCityCharge *decimal.Decimal           `json:"defaultCityCharge,omitempty"`
}

// ParseCityCharges decodes and validates city charges for storage. Both the flat
// {"city": charge} form and the {"cityCharges": {...}, "defaultCityCharge": n}
// wrapper are accepted.
func ParseCityCharges(raw []byte) (CityCharges, error) {
	charges, err := decodeCityCharges(raw)
	if err != nil {
		return CityCharges{}, &apperrors.InvalidRuleSetError{Reason: err.Error(), Index: -1}
	}
	for city, charge := range charges.Charges {
		if strings.TrimSpace(city) == "" {
			return CityCharges{}, &apperrors.InvalidRuleSetError{Reason: "city name must not be empty", Index: -1}
		}
		if charge.IsNegative() {
			return CityCharges{}, &apperrors.InvalidRuleSetError{Reason: fmt.Sprintf("charge for %s must not be negative", city), Index: -1}
		}
	}
	if charges.Default != nil && charges.Default.IsNegative() {
		return CityCharges{}, &apperrors.InvalidRuleSetError{Reason: "defaultCityCharge must not be negative", Index: -1}
	}
	return charges, nil
}

// LoadCityCharges decodes stored city charges without validating them.
func LoadCityCharges(raw []byte) (CityCharges, error) {
	return decodeCityCharges(raw)
}

func decodeCityCharges(raw []byte) (CityCharges, error) {
	out := CityCharges{Charges: map[string]decimal.Decimal{}}
	if len(bytes.TrimSpace(raw)) == 0 {
		return out, nil
	}

	var probe map[string]json.RawMessage
	if err := json.Unmarshal(raw, &probe); err != nil {
		return CityCharges{}, fmt.Errorf("malformed city charges JSON: %w", err)
	}

	if _, wrapped := probe["cityCharges"]; wrapped {
		var doc cityChargesDocument
		if err := json.Unmarshal(raw, &doc); err != nil {
			return CityCharges{}, fmt.Errorf("malformed city charges JSON: %w", err)
		}
		for city, charge := range doc.CityCharges {
			out.Charges[city] = charge
		}
		out.Default = doc.DefaultCityCharge
		return out, nil
	}

	for city, value := range probe {
		var charge decimal.Decimal
		if err := json.Unmarshal(value, &charge); err != nil {
			return CityCharges{}, fmt.Errorf("charge for %s is not a number: %w", city, err)
		}
		if city == "defaultCityCharge" {
			out.Default = &charge
			continue
		}
		out.Charges[city] = charge
	}
	return out, nil
}

// MarshalJSON always writes the wrapper form.
func (c CityCharges) MarshalJSON() ([]byte, error) {
	doc := cityChargesDocument{CityCharges: c.Charges, DefaultCityCharge: c.Default}
	if doc.CityCharges == nil {
		doc.CityCharges = map[string]decimal.Decimal{}
	}
	return json.Marshal(doc)
}

// BaseCharge looks up city exactly, then case- and whitespace-insensitively,
// then falls back to the tenant default and finally the system default.
func (c CityCharges) BaseCharge(city string) decimal.Decimal {
	if charge, ok := c.Charges[city]; ok {
		return charge
	}

	if want := normalizeCity(city); want != "" {
		names := make([]string, 0, len(c.Charges))
		for name := range c.Charges {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			if normalizeCity(name) == want {
				return c.Charges[name]
			}
		}
	}

	if c.Default != nil {
		return *c.Default
	}
	return SystemDefaultCityCharge
}

func normalizeCity(city string) string {
	return strings.ToLower(strings.Join(strings.Fields(city), " "))
}

// QuantityRules price additional units of a product.
type QuantityRules struct {
	Ranges        RangeSet
	DefaultCharge decimal.Decimal
}

type quantityRulesDocument struct {
	Rules                 []Range          `json:"rules"`
	DefaultQuantityCharge *decimal.Decimal `json:"defaultQuantityCharge,omitempty"`
}

// ParseQuantityRules decodes and validates quantity rules for storage. A bare
// array of ranges is accepted as the rules with no default.
func ParseQuantityRules(raw []byte) (QuantityRules, error) {
	doc, err := decodeQuantityRules(raw)
	if err != nil {
		return QuantityRules{}, &apperrors.InvalidRuleSetError{Reason: err.Error(), Index: -1}
	}
	set, err := NewRangeSet(doc.Rules)
	if err != nil {
		return QuantityRules{}, err
	}
	rules := QuantityRules{Ranges: set}
	if doc.DefaultQuantityCharge != nil {
		if doc.DefaultQuantityCharge.IsNegative() {
			return QuantityRules{}, &apperrors.InvalidRuleSetError{Reason: "defaultQuantityCharge must not be negative", Index: -1}
		}
		rules.DefaultCharge = *doc.DefaultQuantityCharge
	}
	return rules, nil
}

// LoadQuantityRules decodes stored quantity rules without re-validating them.
func LoadQuantityRules(raw []byte) (QuantityRules, error) {
	doc, err := decodeQuantityRules(raw)
	if err != nil {
		return QuantityRules{}, err
	}
	rules := QuantityRules{Ranges: sortedRangeSet(doc.Rules)}
	if doc.DefaultQuantityCharge != nil {
		rules.DefaultCharge = *doc.DefaultQuantityCharge
	}
	return rules, nil
}

func decodeQuantityRules(raw []byte) (quantityRulesDocument, error) {
	var doc quantityRulesDocument
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return doc, nil
	}
	if trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &doc.Rules); err != nil {
			return doc, fmt.Errorf("malformed quantity rules JSON: %w", err)
		}
		return doc, nil
	}
	if err := json.Unmarshal(trimmed, &doc); err != nil {
		return doc, fmt.Errorf("malformed quantity rules JSON: %w", err)
	}
	return doc, nil
}

// MarshalJSON writes the canonical stored form.
func (q QuantityRules) MarshalJSON() ([]byte, error) {
	def := q.DefaultCharge
	doc := quantityRulesDocument{Rules: q.Ranges.Ranges(), DefaultQuantityCharge: &def}
	return json.Marshal(doc)
}

// Charge returns the quantity surcharge for one product line. A single unit
// costs nothing; beyond that the matched per-unit charge applies to each unit
// after the first.
func (q QuantityRules) Charge(quantity int) decimal.Decimal {
	if quantity <= 1 {
		return decimal.Zero
	}
	perUnit := q.DefaultCharge
	if matched, ok := q.Ranges.Match(decimal.NewFromInt(int64(quantity))); ok {
		perUnit = matched.Charge
	}
	return perUnit.Mul(decimal.NewFromInt(int64(quantity - 1)))
}

// ProductShipping is a product's override of the tenant quantity rules.
type ProductShipping struct {
	UseDefaultShipping bool
	Rules              *QuantityRules
}

// ShippingConfig is everything needed to quote shipping for one tenant.
type ShippingConfig struct {
	CityCharges   CityCharges
	QuantityRules QuantityRules
	Products      map[string]ProductShipping
}

// ShippingItem is a product and quantity being shipped.
type ShippingItem struct {
	ProductID string `json:"productID"`
	Quantity  int    `json:"quantity"`
}

// ItemCharge is the quantity surcharge for one item.
type ItemCharge struct {
	ProductID        string          `json:"productID"`
	Quantity         int             `json:"quantity"`
	Charge           decimal.Decimal `json:"charge"`
	UsedProductRules bool            `json:"usedProductRules"`
}

// ShippingQuote is the breakdown of a shipping charge.
type ShippingQuote struct {
	City       string          `json:"city"`
	CityCharge decimal.Decimal `json:"cityCharge"`
	Items      []ItemCharge    `json:"items"`
	Total      decimal.Decimal `json:"total"`
}

// CalculateShippingCharges returns cityBaseCharge(city) + Σ quantityCharge(item).
func CalculateShippingCharges(cfg ShippingConfig, city string, items []ShippingItem) ShippingQuote {
	quote := ShippingQuote{
		City:       city,
		CityCharge: cfg.CityCharges.BaseCharge(city),
		Items:      make([]ItemCharge, 0, len(items)),
	}
	total := quote.CityCharge

	for _, item := range items {
		rules := cfg.QuantityRules
		usedProduct := false
		if product, ok := cfg.Products[item.ProductID]; ok && !product.UseDefaultShipping && product.Rules != nil {
			rules = *product.Rules
			usedProduct = true
		}
		charge := rules.Charge(item.Quantity)
		quote.Items = append(quote.Items, ItemCharge{
			ProductID:        item.ProductID,
			Quantity:         item.Quantity,
			Charge:           charge,
			UsedProductRules: usedProduct,
		})
		total = total.Add(charge)
	}

	quote.Total = total
	return quote
}
