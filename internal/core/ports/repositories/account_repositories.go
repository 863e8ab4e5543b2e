package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/shop_ledger_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// AccountReader defines read operations for account data
type AccountReader interface {
	// FindAccountByID retrieves a specific account by its unique identifier.
	FindAccountByID(ctx context.Context, tenantID, accountID string) (*domain.Account, error)

	// FindAccountByCode retrieves an account by its code within a tenant.
	FindAccountByCode(ctx context.Context, tenantID, code string) (*domain.Account, error)

	// FindAccountsByIDs retrieves multiple accounts by their IDs.
	FindAccountsByIDs(ctx context.Context, tenantID string, accountIDs []string) (map[string]domain.Account, error)

	// ListAccounts retrieves every account of a tenant ordered by code.
	ListAccounts(ctx context.Context, tenantID string) ([]domain.Account, error)
}

// AccountWriter defines write operations for account data
type AccountWriter interface {
	// InsertAccountIfAbsent inserts the account unless one with the same
	// (tenant, code) already exists. It reports whether a row was created.
	InsertAccountIfAbsent(ctx context.Context, account domain.Account) (bool, error)
}

// AccountBalanceSupport defines operations that support ledger postings.
// Both must run inside TransactionManager.WithinTransaction.
type AccountBalanceSupport interface {
	// FindAccountsByIDsForUpdate selects accounts and locks them for update.
	FindAccountsByIDsForUpdate(ctx context.Context, tenantID string, accountIDs []string) (map[string]domain.Account, error)

	// ApplyBalanceDeltas adds each delta to the stored account balance.
	ApplyBalanceDeltas(ctx context.Context, tenantID string, deltas map[string]decimal.Decimal, userID string, now time.Time) error
}

// AccountRepositoryFacade combines all account-related repository interfaces
type AccountRepositoryFacade interface {
	AccountReader
	AccountWriter
	AccountBalanceSupport
}
