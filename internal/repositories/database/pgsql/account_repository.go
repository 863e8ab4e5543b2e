package pgsql

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/shop_ledger_backend/internal/apperrors"
	"github.com/SscSPs/shop_ledger_backend/internal/core/domain"
	portsrepo "github.com/SscSPs/shop_ledger_backend/internal/core/ports/repositories"
	"github.com/SscSPs/shop_ledger_backend/internal/models"
	"github.com/SscSPs/shop_ledger_backend/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

type PgxAccountRepository struct {
	BaseRepository
}

// Ensure PgxAccountRepository implements portsrepo.AccountRepositoryFacade
var _ portsrepo.AccountRepositoryFacade = (*PgxAccountRepository)(nil)

const accountColumns = `account_id, tenant_id, code, name, account_type, account_sub_type, parent_account_id,
	description, is_active, balance, created_at, created_by, last_updated_at, last_updated_by`

func scanAccount(row scanner) (domain.Account, error) {
	var m models.Account
	err := row.Scan(
		&m.AccountID,
		&m.TenantID,
		&m.Code,
		&m.Name,
		&m.AccountType,
		&m.AccountSubType,
		&m.ParentAccountID,
		&m.Description,
		&m.IsActive,
		&m.Balance,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return domain.Account{}, err
	}
	return mapping.ToDomainAccount(m), nil
}

func collectAccounts(rows pgx.Rows) (map[string]domain.Account, error) {
	defer rows.Close()
	accountsMap := make(map[string]domain.Account)
	for rows.Next() {
		acc, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account row: %w", err)
		}
		accountsMap[acc.AccountID] = acc
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating account rows: %w", err)
	}
	return accountsMap, nil
}

// FindAccountByID retrieves an account by its ID.
func (r *PgxAccountRepository) FindAccountByID(ctx context.Context, tenantID, accountID string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE tenant_id = $1 AND account_id = $2;`
	acc, err := scanAccount(r.db(ctx).QueryRow(ctx, query, tenantID, accountID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find account by ID %s: %w", accountID, err)
	}
	return &acc, nil
}

// FindAccountByCode retrieves an account by its tenant-unique code.
func (r *PgxAccountRepository) FindAccountByCode(ctx context.Context, tenantID, code string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE tenant_id = $1 AND code = $2;`
	acc, err := scanAccount(r.db(ctx).QueryRow(ctx, query, tenantID, code))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find account by code %s: %w", code, err)
	}
	return &acc, nil
}

// FindAccountsByIDs retrieves multiple accounts by their IDs. Missing ids are
// simply absent from the result.
func (r *PgxAccountRepository) FindAccountsByIDs(ctx context.Context, tenantID string, accountIDs []string) (map[string]domain.Account, error) {
	if len(accountIDs) == 0 {
		return map[string]domain.Account{}, nil
	}
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE tenant_id = $1 AND account_id = ANY($2);`
	rows, err := r.db(ctx).Query(ctx, query, tenantID, accountIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts by IDs: %w", err)
	}
	return collectAccounts(rows)
}

// ListAccounts retrieves every account of a tenant ordered by code.
func (r *PgxAccountRepository) ListAccounts(ctx context.Context, tenantID string) ([]domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE tenant_id = $1 ORDER BY code;`
	rows, err := r.db(ctx).Query(ctx, query, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts for tenant %s: %w", tenantID, err)
	}
	defer rows.Close()

	accounts := []domain.Account{}
	for rows.Next() {
		acc, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account row for tenant %s: %w", tenantID, err)
		}
		accounts = append(accounts, acc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating account rows for tenant %s: %w", tenantID, err)
	}
	return accounts, nil
}

// InsertAccountIfAbsent inserts the account unless its (tenant, code) is taken.
// A concurrent insert of the same code loses quietly and reports false.
func (r *PgxAccountRepository) InsertAccountIfAbsent(ctx context.Context, account domain.Account) (bool, error) {
	m := mapping.ToModelAccount(account)
	query := `
		INSERT INTO accounts (` + accountColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		ON CONFLICT (tenant_id, code) DO NOTHING;
	`
	cmdTag, err := r.db(ctx).Exec(ctx, query,
		m.AccountID,
		m.TenantID,
		m.Code,
		m.Name,
		m.AccountType,
		m.AccountSubType,
		m.ParentAccountID,
		m.Description,
		m.IsActive,
		m.Balance,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return false, fmt.Errorf("%w: account with ID %s already exists", apperrors.ErrDuplicate, m.AccountID)
		}
		return false, fmt.Errorf("failed to insert account %s: %w", m.Code, err)
	}
	return cmdTag.RowsAffected() == 1, nil
}

// FindAccountsByIDsForUpdate retrieves multiple accounts by IDs and locks the rows for update.
// Must be called within a transaction.
func (r *PgxAccountRepository) FindAccountsByIDsForUpdate(ctx context.Context, tenantID string, accountIDs []string) (map[string]domain.Account, error) {
	if len(accountIDs) == 0 {
		return map[string]domain.Account{}, nil
	}

	// Lock in a stable order so concurrent postings cannot deadlock.
	query := `SELECT ` + accountColumns + `
		FROM accounts
		WHERE tenant_id = $1 AND account_id = ANY($2)
		ORDER BY account_id
		FOR UPDATE;
	`
	rows, err := r.db(ctx).Query(ctx, query, tenantID, accountIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts by IDs for update: %w", err)
	}
	accountsMap, err := collectAccounts(rows)
	if err != nil {
		return nil, err
	}

	// accountIDs may repeat an id; only ids with no row count as missing.
	missing := []string{}
	for _, id := range accountIDs {
		if _, found := accountsMap[id]; !found {
			missing = append(missing, id)
		}
	}
	if len(missing) > 0 {
		slog.WarnContext(ctx, "Some accounts requested for update lock were not found", "missing_accounts", missing)
		return nil, fmt.Errorf("%w: could not find or lock all requested accounts, missing: %v", apperrors.ErrNotFound, missing)
	}
	return accountsMap, nil
}

// ApplyBalanceDeltas adds each delta to the stored balance in one batch.
func (r *PgxAccountRepository) ApplyBalanceDeltas(ctx context.Context, tenantID string, deltas map[string]decimal.Decimal, userID string, now time.Time) error {
	query := `
		UPDATE accounts
		SET balance = COALESCE(balance, 0) + $3, last_updated_at = $4, last_updated_by = $5
		WHERE tenant_id = $1 AND account_id = $2;
	`

	batch := &pgx.Batch{}
	accountIDs := make([]string, 0, len(deltas))
	for accountID, delta := range deltas {
		if delta.IsZero() {
			continue
		}
		batch.Queue(query, tenantID, accountID, delta, now, userID)
		accountIDs = append(accountIDs, accountID)
	}
	if batch.Len() == 0 {
		return nil
	}

	br := r.db(ctx).SendBatch(ctx, batch)
	var batchErr error
	for i := 0; i < batch.Len(); i++ {
		ct, err := br.Exec()
		if err != nil {
			if batchErr == nil {
				batchErr = fmt.Errorf("failed to update balance for account %s: %w", accountIDs[i], err)
			}
		} else if ct.RowsAffected() == 0 && batchErr == nil {
			batchErr = fmt.Errorf("%w: account %s not found during balance update", apperrors.ErrNotFound, accountIDs[i])
		}
	}
	if err := br.Close(); err != nil && batchErr == nil {
		batchErr = fmt.Errorf("failed to close balance update batch: %w", err)
	}
	return batchErr
}
