package services

import (
	"context"

	"github.com/SscSPs/shop_ledger_backend/internal/core/domain"
	"github.com/SscSPs/shop_ledger_backend/internal/dto"
)

// LedgerReaderSvc defines read operations for posted transactions
type LedgerReaderSvc interface {
	// GetTransactionByID retrieves a transaction with its lines.
	GetTransactionByID(ctx context.Context, tenantID string, transactionID string) (*domain.Transaction, error)

	// GetTransactions lists transactions matching params. When filtered by
	// account and start date, the response carries the account's opening
	// balance as of that date.
	GetTransactions(ctx context.Context, tenantID string, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error)
}

// LedgerWriterSvc defines write operations for posted transactions
type LedgerWriterSvc interface {
	// CreateTransaction validates and posts a balanced transaction, updating
	// every referenced account balance in the same unit of work.
	CreateTransaction(ctx context.Context, tenantID string, req dto.CreateTransactionRequest, userID string) (*domain.Transaction, error)

	// ReverseTransaction posts a new transaction with every line's sides swapped.
	ReverseTransaction(ctx context.Context, tenantID string, transactionID string, userID string) (*domain.Transaction, error)
}

// LedgerSvcFacade combines all ledger service interfaces
type LedgerSvcFacade interface {
	LedgerReaderSvc
	LedgerWriterSvc
}
