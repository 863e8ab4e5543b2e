package repositories

import (
	"context"

	"github.com/SscSPs/shop_ledger_backend/internal/core/domain"
)

// SettingsRepositoryFacade stores the JSON rule configuration for fees.
type SettingsRepositoryFacade interface {
	// GetShippingSettings returns the tenant's shipping JSON. A tenant without
	// settings yields empty documents, not ErrNotFound.
	GetShippingSettings(ctx context.Context, tenantID string) (*domain.ShippingSettings, error)

	// SaveShippingSettings replaces the tenant's shipping JSON.
	SaveShippingSettings(ctx context.Context, settings domain.ShippingSettings) error

	// FindProductsByIDs retrieves the shipping overrides of the given products.
	// Unknown ids are omitted from the result.
	FindProductsByIDs(ctx context.Context, tenantID string, productIDs []string) (map[string]domain.Product, error)

	// SaveProductShipping updates a product's shipping override.
	SaveProductShipping(ctx context.Context, tenantID, productID string, useDefault bool, rules []byte) error

	// FindLogisticsCompany retrieves a logistics company with its COD rules.
	FindLogisticsCompany(ctx context.Context, tenantID, companyID string) (*domain.LogisticsCompany, error)

	// SaveLogisticsCODRules replaces a logistics company's COD rules.
	SaveLogisticsCODRules(ctx context.Context, tenantID, companyID string, rules []byte) error
}
