package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/shop_ledger_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// LedgerReader defines read operations for posted transactions
type LedgerReader interface {
	// FindTransactionByID retrieves a transaction together with its lines.
	FindTransactionByID(ctx context.Context, tenantID, transactionID string) (*domain.Transaction, error)

	// ListTransactions returns transactions matching filter, newest first, with
	// their lines. The returned token is nil on the last page.
	ListTransactions(ctx context.Context, tenantID string, filter domain.TransactionFilter, limit int, nextToken *string) ([]domain.Transaction, *string, error)

	// SumAccountLinesBefore totals the debit and credit amounts posted to an
	// account by transactions dated strictly before the given time.
	SumAccountLinesBefore(ctx context.Context, tenantID, accountID string, before time.Time) (debits, credits decimal.Decimal, err error)
}

// LedgerWriter defines write operations for posted transactions
type LedgerWriter interface {
	// SaveTransaction persists the header and all lines. It does not touch
	// account balances.
	SaveTransaction(ctx context.Context, txn domain.Transaction) error
}

// LedgerRepositoryFacade combines all ledger repository interfaces
type LedgerRepositoryFacade interface {
	LedgerReader
	LedgerWriter
}
