package services

import (
	"context"

	"github.com/SscSPs/shop_ledger_backend/internal/core/pricing"
	"github.com/SscSPs/shop_ledger_backend/internal/dto"
	"github.com/shopspring/decimal"
)

// FeeCalculatorSvc evaluates the tenant's stored fee rules. Evaluation never
// fails on malformed stored rules; it falls back to defaults.
type FeeCalculatorSvc interface {
	// CalculateCODFee returns the COD fee a logistics company charges on amount.
	CalculateCODFee(ctx context.Context, tenantID string, companyID string, amount decimal.Decimal) (decimal.Decimal, error)

	// CalculateShippingCharges quotes shipping for items delivered to city.
	CalculateShippingCharges(ctx context.Context, tenantID string, city string, items []pricing.ShippingItem) (*pricing.ShippingQuote, error)
}

// FeeConfigSvc validates and stores fee rules.
type FeeConfigSvc interface {
	// UpdateShippingSettings replaces the tenant's city charges and quantity rules.
	UpdateShippingSettings(ctx context.Context, tenantID string, req dto.UpdateShippingSettingsRequest) error

	// UpdateProductShipping replaces a product's shipping override.
	UpdateProductShipping(ctx context.Context, tenantID string, productID string, req dto.UpdateProductShippingRequest) error

	// UpdateLogisticsCODRules replaces a logistics company's COD rules.
	UpdateLogisticsCODRules(ctx context.Context, tenantID string, companyID string, req dto.UpdateCODRulesRequest) error
}

// FeeSvcFacade combines all fee service interfaces
type FeeSvcFacade interface {
	FeeCalculatorSvc
	FeeConfigSvc
}
