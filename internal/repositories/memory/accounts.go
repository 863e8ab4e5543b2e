package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/SscSPs/shop_ledger_backend/internal/apperrors"
	"github.com/SscSPs/shop_ledger_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

func (s *Store) FindAccountByID(ctx context.Context, tenantID, accountID string) (*domain.Account, error) {
	var (
		acc domain.Account
		ok  bool
	)
	s.read(func(d *state) { acc, ok = d.accounts[key(tenantID, accountID)] })
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &acc, nil
}

func (s *Store) FindAccountByCode(ctx context.Context, tenantID, code string) (*domain.Account, error) {
	var (
		acc domain.Account
		ok  bool
	)
	s.read(func(d *state) {
		var id string
		if id, ok = d.accountCodes[key(tenantID, code)]; ok {
			acc, ok = d.accounts[key(tenantID, id)]
		}
	})
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &acc, nil
}

func (s *Store) FindAccountsByIDs(ctx context.Context, tenantID string, accountIDs []string) (map[string]domain.Account, error) {
	out := make(map[string]domain.Account, len(accountIDs))
	s.read(func(d *state) {
		for _, id := range accountIDs {
			if acc, ok := d.accounts[key(tenantID, id)]; ok {
				out[id] = acc
			}
		}
	})
	return out, nil
}

func (s *Store) ListAccounts(ctx context.Context, tenantID string) ([]domain.Account, error) {
	var out []domain.Account
	s.read(func(d *state) {
		for _, acc := range d.accounts {
			if acc.TenantID == tenantID {
				out = append(out, acc)
			}
		}
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}

func (s *Store) InsertAccountIfAbsent(ctx context.Context, account domain.Account) (bool, error) {
	created := false
	err := s.write(ctx, func(d *state) error {
		codeKey := key(account.TenantID, account.Code)
		if _, exists := d.accountCodes[codeKey]; exists {
			return nil
		}
		if _, exists := d.accounts[key(account.TenantID, account.AccountID)]; exists {
			return fmt.Errorf("%w: account with ID %s already exists", apperrors.ErrDuplicate, account.AccountID)
		}
		d.accounts[key(account.TenantID, account.AccountID)] = account
		d.accountCodes[codeKey] = account.AccountID
		created = true
		return nil
	})
	return created, err
}

// FindAccountsByIDsForUpdate needs no row locks here: the unit of work
// already holds the store exclusively.
func (s *Store) FindAccountsByIDsForUpdate(ctx context.Context, tenantID string, accountIDs []string) (map[string]domain.Account, error) {
	accounts, _ := s.FindAccountsByIDs(ctx, tenantID, accountIDs)
	for _, id := range accountIDs {
		if _, ok := accounts[id]; !ok {
			return nil, fmt.Errorf("%w: account %s", apperrors.ErrNotFound, id)
		}
	}
	return accounts, nil
}

func (s *Store) ApplyBalanceDeltas(ctx context.Context, tenantID string, deltas map[string]decimal.Decimal, userID string, now time.Time) error {
	return s.write(ctx, func(d *state) error {
		for id := range deltas {
			if _, ok := d.accounts[key(tenantID, id)]; !ok {
				return fmt.Errorf("%w: account %s", apperrors.ErrNotFound, id)
			}
		}
		for id, delta := range deltas {
			acc := d.accounts[key(tenantID, id)]
			acc.Balance = acc.Balance.Add(delta)
			acc.LastUpdatedAt = now
			acc.LastUpdatedBy = userID
			d.accounts[key(tenantID, id)] = acc
		}
		return nil
	})
}
