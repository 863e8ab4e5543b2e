package memory

import (
	"context"
	"slices"

	"github.com/SscSPs/shop_ledger_backend/internal/apperrors"
	"github.com/SscSPs/shop_ledger_backend/internal/core/domain"
)

// AddLogisticsCompany stores a logistics company for seeding.
func (s *Store) AddLogisticsCompany(c domain.LogisticsCompany) {
	c.CODRules = slices.Clone(c.CODRules)
	_ = s.write(context.Background(), func(d *state) error {
		d.companies[key(c.TenantID, c.LogisticsCompanyID)] = c
		return nil
	})
}

// AddProduct stores a product for seeding.
func (s *Store) AddProduct(p domain.Product) {
	p.ShippingQuantityRules = slices.Clone(p.ShippingQuantityRules)
	_ = s.write(context.Background(), func(d *state) error {
		d.products[key(p.TenantID, p.ProductID)] = p
		return nil
	})
}

func (s *Store) GetShippingSettings(ctx context.Context, tenantID string) (*domain.ShippingSettings, error) {
	var settings domain.ShippingSettings
	s.read(func(d *state) { settings = d.shipping[tenantID] })
	settings.TenantID = tenantID
	settings.ShippingCityCharges = slices.Clone(settings.ShippingCityCharges)
	settings.ShippingQuantityRules = slices.Clone(settings.ShippingQuantityRules)
	return &settings, nil
}

func (s *Store) SaveShippingSettings(ctx context.Context, settings domain.ShippingSettings) error {
	settings.ShippingCityCharges = slices.Clone(settings.ShippingCityCharges)
	settings.ShippingQuantityRules = slices.Clone(settings.ShippingQuantityRules)
	return s.write(ctx, func(d *state) error {
		d.shipping[settings.TenantID] = settings
		return nil
	})
}

func (s *Store) FindProductsByIDs(ctx context.Context, tenantID string, productIDs []string) (map[string]domain.Product, error) {
	out := make(map[string]domain.Product, len(productIDs))
	s.read(func(d *state) {
		for _, id := range productIDs {
			if p, ok := d.products[key(tenantID, id)]; ok {
				p.ShippingQuantityRules = slices.Clone(p.ShippingQuantityRules)
				out[id] = p
			}
		}
	})
	return out, nil
}

func (s *Store) SaveProductShipping(ctx context.Context, tenantID, productID string, useDefault bool, rules []byte) error {
	rules = slices.Clone(rules)
	return s.write(ctx, func(d *state) error {
		p, ok := d.products[key(tenantID, productID)]
		if !ok {
			return apperrors.ErrNotFound
		}
		p.UseDefaultShipping = useDefault
		p.ShippingQuantityRules = rules
		d.products[key(tenantID, productID)] = p
		return nil
	})
}

func (s *Store) FindLogisticsCompany(ctx context.Context, tenantID, companyID string) (*domain.LogisticsCompany, error) {
	var (
		c  domain.LogisticsCompany
		ok bool
	)
	s.read(func(d *state) { c, ok = d.companies[key(tenantID, companyID)] })
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	c.CODRules = slices.Clone(c.CODRules)
	return &c, nil
}

func (s *Store) SaveLogisticsCODRules(ctx context.Context, tenantID, companyID string, rules []byte) error {
	rules = slices.Clone(rules)
	return s.write(ctx, func(d *state) error {
		c, ok := d.companies[key(tenantID, companyID)]
		if !ok {
			return apperrors.ErrNotFound
		}
		c.CODRules = rules
		d.companies[key(tenantID, companyID)] = c
		return nil
	})
}
