package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/SscSPs/shop_ledger_backend/internal/apperrors"
	"github.com/SscSPs/shop_ledger_backend/internal/core/domain"
	"github.com/SscSPs/shop_ledger_backend/internal/core/pricing"
	portsrepo "github.com/SscSPs/shop_ledger_backend/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/shop_ledger_backend/internal/core/ports/services"
	"github.com/SscSPs/shop_ledger_backend/internal/dto"
	"github.com/shopspring/decimal"
)

// feeService loads stored rule documents and evaluates them with the pricing
// engines. Stored documents that no longer parse are logged and replaced by
// defaults, so a quote is always produced.
type feeService struct {
	BaseService
	settingsRepo      portsrepo.SettingsRepositoryFacade
	defaultCityCharge decimal.Decimal
}

// FeeOption is a functional option for configuring the fee service
type FeeOption func(*feeService)

// WithDefaultCityCharge sets the charge used when neither the city nor a tenant default is configured.
func WithDefaultCityCharge(charge decimal.Decimal) FeeOption {
	return func(s *feeService) {
		s.defaultCityCharge = charge
	}
}

// NewFeeService creates a new fee service with the provided options
func NewFeeService(settingsRepo portsrepo.SettingsRepositoryFacade, options ...FeeOption) portssvc.FeeSvcFacade {
	svc := &feeService{
		settingsRepo:      settingsRepo,
		defaultCityCharge: pricing.SystemDefaultCityCharge,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.FeeSvcFacade = (*feeService)(nil)

func isEmptyDocument(raw []byte) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

func (s *feeService) CalculateCODFee(ctx context.Context, tenantID, companyID string, amount decimal.Decimal) (decimal.Decimal, error) {
	if amount.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: COD amount must not be negative", apperrors.ErrValidation)
	}

	company, err := s.settingsRepo.FindLogisticsCompany(ctx, tenantID, companyID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return decimal.Zero, fmt.Errorf("%w: logistics company %s", apperrors.ErrNotFound, companyID)
		}
		s.LogError(ctx, err, "Failed to load logistics company", slog.String("logistics_company_id", companyID))
		return decimal.Zero, fmt.Errorf("failed to load logistics company %s: %w", companyID, err)
	}
	if isEmptyDocument(company.CODRules) {
		return decimal.Zero, nil
	}

	rules, err := pricing.LoadCODRules(company.CODRules)
	if err != nil {
		s.LogWarn(ctx, err, "Stored COD rules are malformed, charging no COD fee",
			slog.String("tenant_id", tenantID),
			slog.String("logistics_company_id", companyID))
		return decimal.Zero, nil
	}
	return pricing.CalculateCODFee(rules, amount), nil
}

func (s *feeService) CalculateShippingCharges(ctx context.Context, tenantID, city string, items []pricing.ShippingItem) (*pricing.ShippingQuote, error) {
	cfg, err := s.loadShippingConfig(ctx, tenantID, items)
	if err != nil {
		return nil, err
	}
	quote := pricing.CalculateShippingCharges(cfg, city, items)
	return &quote, nil
}

func (s *feeService) loadShippingConfig(ctx context.Context, tenantID string, items []pricing.ShippingItem) (pricing.ShippingConfig, error) {
	settings, err := s.settingsRepo.GetShippingSettings(ctx, tenantID)
	if err != nil {
		s.LogError(ctx, err, "Failed to load shipping settings", slog.String("tenant_id", tenantID))
		return pricing.ShippingConfig{}, fmt.Errorf("failed to load shipping settings: %w", err)
	}

	cfg := pricing.ShippingConfig{Products: map[string]pricing.ProductShipping{}}

	cfg.CityCharges, err = pricing.LoadCityCharges(settings.ShippingCityCharges)
	if err != nil {
		s.LogWarn(ctx, err, "Stored city charges are malformed, using the default city charge",
			slog.String("tenant_id", tenantID))
		cfg.CityCharges = pricing.CityCharges{}
	}
	if cfg.CityCharges.Default == nil {
		def := s.defaultCityCharge
		cfg.CityCharges.Default = &def
	}

	cfg.QuantityRules, err = pricing.LoadQuantityRules(settings.ShippingQuantityRules)
	if err != nil {
		s.LogWarn(ctx, err, "Stored quantity rules are malformed, charging no quantity surcharge",
			slog.String("tenant_id", tenantID))
		cfg.QuantityRules = pricing.QuantityRules{}
	}

	ids := make([]string, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ProductID)
	}
	if len(ids) == 0 {
		return cfg, nil
	}

	products, err := s.settingsRepo.FindProductsByIDs(ctx, tenantID, ids)
	if err != nil {
		s.LogError(ctx, err, "Failed to load product shipping overrides", slog.String("tenant_id", tenantID))
		return pricing.ShippingConfig{}, fmt.Errorf("failed to load products: %w", err)
	}
	for id, p := range products {
		if p.UseDefaultShipping || isEmptyDocument(p.ShippingQuantityRules) {
			cfg.Products[id] = pricing.ProductShipping{UseDefaultShipping: true}
			continue
		}
		rules, err := pricing.LoadQuantityRules(p.ShippingQuantityRules)
		if err != nil {
			s.LogWarn(ctx, err, "Stored product quantity rules are malformed, using tenant rules",
				slog.String("tenant_id", tenantID),
				slog.String("product_id", id))
			cfg.Products[id] = pricing.ProductShipping{UseDefaultShipping: true}
			continue
		}
		cfg.Products[id] = pricing.ProductShipping{UseDefaultShipping: false, Rules: &rules}
	}
	return cfg, nil
}

func (s *feeService) UpdateShippingSettings(ctx context.Context, tenantID string, req dto.UpdateShippingSettingsRequest) error {
	settings := domain.ShippingSettings{TenantID: tenantID}

	if !isEmptyDocument(req.CityCharges) {
		charges, err := pricing.ParseCityCharges(req.CityCharges)
		if err != nil {
			return err
		}
		if settings.ShippingCityCharges, err = json.Marshal(charges); err != nil {
			return fmt.Errorf("failed to encode city charges: %w", err)
		}
	}
	if !isEmptyDocument(req.QuantityRules) {
		rules, err := pricing.ParseQuantityRules(req.QuantityRules)
		if err != nil {
			return err
		}
		if settings.ShippingQuantityRules, err = json.Marshal(rules); err != nil {
			return fmt.Errorf("failed to encode quantity rules: %w", err)
		}
	}

	if err := s.settingsRepo.SaveShippingSettings(ctx, settings); err != nil {
		s.LogError(ctx, err, "Failed to save shipping settings", slog.String("tenant_id", tenantID))
		return fmt.Errorf("failed to save shipping settings: %w", err)
	}
	s.LogInfo(ctx, "Shipping settings updated", slog.String("tenant_id", tenantID))
	return nil
}

func (s *feeService) UpdateProductShipping(ctx context.Context, tenantID, productID string, req dto.UpdateProductShippingRequest) error {
	var stored []byte
	if !isEmptyDocument(req.QuantityRules) {
		rules, err := pricing.ParseQuantityRules(req.QuantityRules)
		if err != nil {
			return err
		}
		if stored, err = json.Marshal(rules); err != nil {
			return fmt.Errorf("failed to encode quantity rules: %w", err)
		}
	} else if !req.UseDefaultShipping {
		return fmt.Errorf("%w: quantityRules are required when useDefaultShipping is false", apperrors.ErrValidation)
	}

	if err := s.settingsRepo.SaveProductShipping(ctx, tenantID, productID, req.UseDefaultShipping, stored); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return fmt.Errorf("%w: product %s", apperrors.ErrNotFound, productID)
		}
		s.LogError(ctx, err, "Failed to save product shipping", slog.String("product_id", productID))
		return fmt.Errorf("failed to save product shipping: %w", err)
	}
	return nil
}

func (s *feeService) UpdateLogisticsCODRules(ctx context.Context, tenantID, companyID string, req dto.UpdateCODRulesRequest) error {
	rules, err := pricing.ParseCODRules(req.Rules)
	if err != nil {
		return err
	}
	stored, err := pricing.MarshalCODRules(rules)
	if err != nil {
		return fmt.Errorf("failed to encode COD rules: %w", err)
	}

	if err := s.settingsRepo.SaveLogisticsCODRules(ctx, tenantID, companyID, stored); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return fmt.Errorf("%w: logistics company %s", apperrors.ErrNotFound, companyID)
		}
		s.LogError(ctx, err, "Failed to save COD rules", slog.String("logistics_company_id", companyID))
		return fmt.Errorf("failed to save COD rules: %w", err)
	}
	s.LogInfo(ctx, "COD rules updated",
		slog.String("tenant_id", tenantID),
		slog.String("logistics_company_id", companyID),
		slog.String("calculation_type", string(rules.CalculationType())))
	return nil
}
