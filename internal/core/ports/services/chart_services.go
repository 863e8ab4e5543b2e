package services

import (
	"context"

	"github.com/SscSPs/shop_ledger_backend/internal/core/domain"
)

// ChartReaderSvc defines read operations for the chart of accounts
type ChartReaderSvc interface {
	// GetAccountByCode retrieves an account by its code. It fails with
	// *apperrors.AccountNotFoundError when the tenant has no such account.
	GetAccountByCode(ctx context.Context, tenantID string, code string) (*domain.Account, error)

	// GetAccountByID retrieves a specific account by its unique identifier.
	GetAccountByID(ctx context.Context, tenantID string, accountID string) (*domain.Account, error)

	// ListAccounts retrieves every account of the tenant ordered by code.
	ListAccounts(ctx context.Context, tenantID string) ([]domain.Account, error)
}

// ChartWriterSvc defines write operations for the chart of accounts
type ChartWriterSvc interface {
	// GetOrCreateAccount returns the account with spec.Code, creating it from
	// spec when it does not exist. An existing account is returned unchanged.
	GetOrCreateAccount(ctx context.Context, tenantID string, spec domain.AccountSpec, userID string) (*domain.Account, error)

	// InitializeChartOfAccounts seeds the standard chart and returns the number
	// of accounts it created. Codes that already exist are left alone.
	InitializeChartOfAccounts(ctx context.Context, tenantID string, userID string) (int, error)
}

// ChartSvcFacade combines all chart-of-accounts service interfaces
type ChartSvcFacade interface {
	ChartReaderSvc
	ChartWriterSvc
}
