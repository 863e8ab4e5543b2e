package services

import (
	"context"

	"github.com/SscSPs/shop_ledger_backend/internal/core/domain"
)

// BalanceSvc derives party balances from orders, invoices and payments.
type BalanceSvc interface {
	// CalculateCustomerBalance derives what a customer owes across confirmed orders.
	CalculateCustomerBalance(ctx context.Context, tenantID string, customerID string) (*domain.CustomerBalance, error)

	// CalculateSupplierBalance derives what the business owes a supplier.
	CalculateSupplierBalance(ctx context.Context, tenantID string, supplierID string) (*domain.SupplierBalance, error)

	// GetAllCustomerBalances calculates every customer, skipping and logging failures.
	GetAllCustomerBalances(ctx context.Context, tenantID string) (*domain.CustomerBalances, error)

	// GetAllSupplierBalances calculates every supplier, skipping and logging failures.
	GetAllSupplierBalances(ctx context.Context, tenantID string) (*domain.SupplierBalances, error)

	// GetBalanceSummary aggregates receivables, payables, advances and cash.
	GetBalanceSummary(ctx context.Context, tenantID string) (*domain.BalanceSummary, error)
}
