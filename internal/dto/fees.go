package dto

import (
	"encoding/json"

	"github.com/SscSPs/shop_ledger_backend/internal/core/pricing"
	"github.com/shopspring/decimal"
)

// ShippingItemRequest is a product line to quote shipping for.
type ShippingItemRequest struct {
	ProductID string `json:"productID" binding:"required"`
	Quantity  int    `json:"quantity" binding:"min=0"`
}

// ShippingQuoteRequest defines the data needed to quote shipping charges.
type ShippingQuoteRequest struct {
	City  string                `json:"city" binding:"required"`
	Items []ShippingItemRequest `json:"items" binding:"dive"`
}

// ToShippingItems converts the request items to pricing.ShippingItem values.
func (r ShippingQuoteRequest) ToShippingItems() []pricing.ShippingItem {
	items := make([]pricing.ShippingItem, len(r.Items))
	for i, item := range r.Items {
		items[i] = pricing.ShippingItem{ProductID: item.ProductID, Quantity: item.Quantity}
	}
	return items
}

// CODQuoteRequest defines the data needed to quote a COD fee.
type CODQuoteRequest struct {
	LogisticsCompanyID string          `json:"logisticsCompanyID" binding:"required"`
	Amount             decimal.Decimal `json:"amount" binding:"gte=0"`
}

// CODQuoteResponse is the fee a logistics company charges on an amount.
type CODQuoteResponse struct {
	LogisticsCompanyID string          `json:"logisticsCompanyID"`
	Amount             decimal.Decimal `json:"amount"`
	Fee                decimal.Decimal `json:"fee"`
}

// UpdateShippingSettingsRequest replaces the tenant's shipping rules. Either
// document may be omitted to clear it.
type UpdateShippingSettingsRequest struct {
	CityCharges   json.RawMessage `json:"cityCharges"`
	QuantityRules json.RawMessage `json:"quantityRules"`
}

// UpdateProductShippingRequest replaces a product's shipping override.
type UpdateProductShippingRequest struct {
	UseDefaultShipping bool            `json:"useDefaultShipping"`
	QuantityRules      json.RawMessage `json:"quantityRules"`
}

// UpdateCODRulesRequest replaces a logistics company's COD rules.
type UpdateCODRulesRequest struct {
	Rules json.RawMessage `json:"rules" binding:"required"`
}
