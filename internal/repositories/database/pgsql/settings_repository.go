package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/SscSPs/shop_ledger_backend/internal/apperrors"
	"github.com/SscSPs/shop_ledger_backend/internal/core/domain"
	portsrepo "github.com/SscSPs/shop_ledger_backend/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
)

// PgxSettingsRepository stores fee rule documents as JSONB.
type PgxSettingsRepository struct {
	BaseRepository
}

var _ portsrepo.SettingsRepositoryFacade = (*PgxSettingsRepository)(nil)

func (r *PgxSettingsRepository) GetShippingSettings(ctx context.Context, tenantID string) (*domain.ShippingSettings, error) {
	query := `
		SELECT shipping_city_charges, shipping_quantity_rules
		FROM tenant_settings
		WHERE tenant_id = $1;
	`
	settings := domain.ShippingSettings{TenantID: tenantID}
	err := r.db(ctx).QueryRow(ctx, query, tenantID).Scan(&settings.ShippingCityCharges, &settings.ShippingQuantityRules)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("failed to load shipping settings for tenant %s: %w", tenantID, err)
	}
	return &settings, nil
}

func (r *PgxSettingsRepository) SaveShippingSettings(ctx context.Context, settings domain.ShippingSettings) error {
	query := `
		INSERT INTO tenant_settings (tenant_id, shipping_city_charges, shipping_quantity_rules)
		VALUES ($1, $2, $3)
		ON CONFLICT (tenant_id) DO UPDATE
		SET shipping_city_charges = EXCLUDED.shipping_city_charges,
		    shipping_quantity_rules = EXCLUDED.shipping_quantity_rules;
	`
	_, err := r.db(ctx).Exec(ctx, query, settings.TenantID, nullJSON(settings.ShippingCityCharges), nullJSON(settings.ShippingQuantityRules))
	if err != nil {
		return fmt.Errorf("failed to save shipping settings for tenant %s: %w", settings.TenantID, err)
	}
	return nil
}

func (r *PgxSettingsRepository) FindProductsByIDs(ctx context.Context, tenantID string, productIDs []string) (map[string]domain.Product, error) {
	products := make(map[string]domain.Product, len(productIDs))
	if len(productIDs) == 0 {
		return products, nil
	}

	query := `
		SELECT product_id, tenant_id, name, use_default_shipping, shipping_quantity_rules
		FROM products
		WHERE tenant_id = $1 AND product_id = ANY($2);
	`
	rows, err := r.db(ctx).Query(ctx, query, tenantID, productIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(&p.ProductID, &p.TenantID, &p.Name, &p.UseDefaultShipping, &p.ShippingQuantityRules); err != nil {
			return nil, fmt.Errorf("failed to scan product row: %w", err)
		}
		products[p.ProductID] = p
	}
	return products, rows.Err()
}

func (r *PgxSettingsRepository) SaveProductShipping(ctx context.Context, tenantID, productID string, useDefault bool, rules []byte) error {
	return r.execOne(ctx, "product "+productID,
		`UPDATE products SET use_default_shipping = $3, shipping_quantity_rules = $4 WHERE tenant_id = $1 AND product_id = $2;`,
		tenantID, productID, useDefault, nullJSON(rules))
}

func (r *PgxSettingsRepository) FindLogisticsCompany(ctx context.Context, tenantID, companyID string) (*domain.LogisticsCompany, error) {
	query := `
		SELECT logistics_company_id, tenant_id, name, cod_rules
		FROM logistics_companies
		WHERE tenant_id = $1 AND logistics_company_id = $2;
	`
	var c domain.LogisticsCompany
	err := r.db(ctx).QueryRow(ctx, query, tenantID, companyID).Scan(&c.LogisticsCompanyID, &c.TenantID, &c.Name, &c.CODRules)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find logistics company %s: %w", companyID, err)
	}
	return &c, nil
}

func (r *PgxSettingsRepository) SaveLogisticsCODRules(ctx context.Context, tenantID, companyID string, rules []byte) error {
	return r.execOne(ctx, "logistics company "+companyID,
		`UPDATE logistics_companies SET cod_rules = $3 WHERE tenant_id = $1 AND logistics_company_id = $2;`,
		tenantID, companyID, nullJSON(rules))
}

// nullJSON stores an empty document as NULL rather than invalid JSONB.
func nullJSON(raw []byte) any {
	if len(raw) == 0 {
		return nil
	}
	return string(raw)
}
