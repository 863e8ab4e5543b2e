package memory

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"time"

	"github.com/SscSPs/shop_ledger_backend/internal/apperrors"
	"github.com/SscSPs/shop_ledger_backend/internal/core/domain"
	"github.com/SscSPs/shop_ledger_backend/internal/utils/pagination"
	"github.com/shopspring/decimal"
)

const defaultPageSize = 20

func cloneTransaction(t domain.Transaction) domain.Transaction {
	t.Lines = slices.Clone(t.Lines)
	return t
}

func (s *Store) SaveTransaction(ctx context.Context, txn domain.Transaction) error {
	return s.write(ctx, func(d *state) error {
		k := key(txn.TenantID, txn.TransactionID)
		if _, exists := d.transactions[k]; exists {
			return fmt.Errorf("%w: transaction %s already exists", apperrors.ErrDuplicate, txn.TransactionID)
		}
		for _, existing := range d.transactions {
			if existing.TenantID == txn.TenantID && existing.TransactionNumber == txn.TransactionNumber {
				return fmt.Errorf("%w: transaction number %s already exists", apperrors.ErrDuplicate, txn.TransactionNumber)
			}
		}
		d.transactions[k] = cloneTransaction(txn)
		return nil
	})
}

func (s *Store) FindTransactionByID(ctx context.Context, tenantID, transactionID string) (*domain.Transaction, error) {
	var (
		txn domain.Transaction
		ok  bool
	)
	s.read(func(d *state) { txn, ok = d.transactions[key(tenantID, transactionID)] })
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	txn = cloneTransaction(txn)
	return &txn, nil
}

func matchesFilter(t domain.Transaction, f domain.TransactionFilter) bool {
	if f.FromDate != nil && t.Date.Before(*f.FromDate) {
		return false
	}
	if f.Before != nil && !t.Date.Before(*f.Before) {
		return false
	}
	if f.OrderID != "" && (t.OrderID == nil || *t.OrderID != f.OrderID) {
		return false
	}
	if f.PurchaseInvoiceID != "" && (t.PurchaseInvoiceID == nil || *t.PurchaseInvoiceID != f.PurchaseInvoiceID) {
		return false
	}
	if f.AccountID != "" {
		return slices.ContainsFunc(t.Lines, func(l domain.TransactionLine) bool { return l.AccountID == f.AccountID })
	}
	return true
}

func (s *Store) ListTransactions(ctx context.Context, tenantID string, filter domain.TransactionFilter, limit int, nextToken *string) ([]domain.Transaction, *string, error) {
	if limit <= 0 {
		limit = defaultPageSize
	}

	var cursor *pagination.Cursor
	if nextToken != nil && *nextToken != "" {
		c, err := pagination.DecodeCursor(*nextToken)
		if err != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", err)
		}
		cursor = &c
	}

	var matched []domain.Transaction
	s.read(func(d *state) {
		for _, t := range d.transactions {
			if t.TenantID != tenantID || !matchesFilter(t, filter) {
				continue
			}
			if cursor != nil && !cursor.After(t.Date, t.CreatedAt, t.TransactionID) {
				continue
			}
			matched = append(matched, cloneTransaction(t))
		}
	})

	sort.Slice(matched, func(i, j int) bool {
		a, b := matched[i], matched[j]
		if !a.Date.Equal(b.Date) {
			return a.Date.After(b.Date)
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.TransactionID > b.TransactionID
	})

	if len(matched) <= limit {
		return matched, nil, nil
	}
	last := matched[limit-1]
	token := pagination.EncodeCursor(pagination.Cursor{Date: last.Date, CreatedAt: last.CreatedAt, ID: last.TransactionID})
	return matched[:limit], &token, nil
}

func (s *Store) SumAccountLinesBefore(ctx context.Context, tenantID, accountID string, before time.Time) (decimal.Decimal, decimal.Decimal, error) {
	debits, credits := decimal.Zero, decimal.Zero
	s.read(func(d *state) {
		for _, t := range d.transactions {
			if t.TenantID != tenantID || !t.Date.Before(before) {
				continue
			}
			for _, l := range t.Lines {
				if l.AccountID == accountID {
					debits = debits.Add(l.DebitAmount)
					credits = credits.Add(l.CreditAmount)
				}
			}
		}
	})
	return debits, credits, nil
}
