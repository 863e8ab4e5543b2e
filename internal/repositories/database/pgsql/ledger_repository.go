package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/SscSPs/shop_ledger_backend/internal/apperrors"
	"github.com/SscSPs/shop_ledger_backend/internal/core/domain"
	portsrepo "github.com/SscSPs/shop_ledger_backend/internal/core/ports/repositories"
	"github.com/SscSPs/shop_ledger_backend/internal/models"
	"github.com/SscSPs/shop_ledger_backend/internal/utils/mapping"
	"github.com/SscSPs/shop_ledger_backend/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

const defaultPageSize = 20

type PgxLedgerRepository struct {
	BaseRepository
}

// Ensure PgxLedgerRepository implements portsrepo.LedgerRepositoryFacade
var _ portsrepo.LedgerRepositoryFacade = (*PgxLedgerRepository)(nil)

const transactionColumns = `transaction_id, tenant_id, transaction_number, transaction_date, description,
	order_id, purchase_invoice_id, order_return_id, reversal_of_id,
	created_at, created_by, last_updated_at, last_updated_by`

func scanTransactionHeader(row scanner) (models.LedgerTransaction, error) {
	var m models.LedgerTransaction
	err := row.Scan(
		&m.TransactionID,
		&m.TenantID,
		&m.TransactionNumber,
		&m.TransactionDate,
		&m.Description,
		&m.OrderID,
		&m.PurchaseInvoiceID,
		&m.OrderReturnID,
		&m.ReversalOfID,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

// SaveTransaction inserts the header and queues every line in one batch.
// Callers wrap it in a unit of work together with the balance updates.
func (r *PgxLedgerRepository) SaveTransaction(ctx context.Context, txn domain.Transaction) error {
	m := mapping.ToModelTransaction(txn)
	headerQuery := `
		INSERT INTO ledger_transactions (` + transactionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);
	`
	lineQuery := `
		INSERT INTO ledger_lines (line_id, transaction_id, tenant_id, account_id, debit_amount, credit_amount, description, line_no)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`

	batch := &pgx.Batch{}
	batch.Queue(headerQuery,
		m.TransactionID,
		m.TenantID,
		m.TransactionNumber,
		m.TransactionDate,
		m.Description,
		m.OrderID,
		m.PurchaseInvoiceID,
		m.OrderReturnID,
		m.ReversalOfID,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	for _, l := range mapping.ToModelLines(txn) {
		batch.Queue(lineQuery, l.LineID, l.TransactionID, l.TenantID, l.AccountID, l.DebitAmount, l.CreditAmount, l.Description, l.LineNo)
	}

	// Close reports the first failing statement of the batch.
	if err := r.db(ctx).SendBatch(ctx, batch).Close(); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: transaction %s already exists", apperrors.ErrDuplicate, m.TransactionNumber)
		}
		return apperrors.NewAppError(500, "failed to insert transaction "+m.TransactionID, err)
	}
	return nil
}

// FindTransactionByID retrieves a transaction with its lines.
func (r *PgxLedgerRepository) FindTransactionByID(ctx context.Context, tenantID, transactionID string) (*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM ledger_transactions WHERE tenant_id = $1 AND transaction_id = $2;`
	header, err := scanTransactionHeader(r.db(ctx).QueryRow(ctx, query, tenantID, transactionID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find transaction %s: %w", transactionID, err)
	}

	lines, err := r.findLines(ctx, tenantID, []string{transactionID})
	if err != nil {
		return nil, err
	}
	txn := mapping.ToDomainTransaction(header, lines[transactionID])
	return &txn, nil
}

// findLines retrieves the lines of the given transactions grouped by transaction id.
func (r *PgxLedgerRepository) findLines(ctx context.Context, tenantID string, transactionIDs []string) (map[string][]models.LedgerLine, error) {
	result := make(map[string][]models.LedgerLine, len(transactionIDs))
	if len(transactionIDs) == 0 {
		return result, nil
	}

	query := `
		SELECT line_id, transaction_id, tenant_id, account_id, debit_amount, credit_amount, description, line_no
		FROM ledger_lines
		WHERE tenant_id = $1 AND transaction_id = ANY($2)
		ORDER BY transaction_id, line_no;
	`
	rows, err := r.db(ctx).Query(ctx, query, tenantID, transactionIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query transaction lines: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var l models.LedgerLine
		if err := rows.Scan(&l.LineID, &l.TransactionID, &l.TenantID, &l.AccountID, &l.DebitAmount, &l.CreditAmount, &l.Description, &l.LineNo); err != nil {
			return nil, fmt.Errorf("failed to scan transaction line: %w", err)
		}
		result[l.TransactionID] = append(result[l.TransactionID], l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transaction lines: %w", err)
	}
	return result, nil
}

// ListTransactions retrieves a page of transactions using keyset pagination on
// (transaction_date, created_at, transaction_id), newest first.
func (r *PgxLedgerRepository) ListTransactions(ctx context.Context, tenantID string, filter domain.TransactionFilter, limit int, nextToken *string) ([]domain.Transaction, *string, error) {
	if limit <= 0 {
		limit = defaultPageSize
	}
	// We fetch one extra item to determine if there's a next page.
	fetchLimit := limit + 1

	args := []any{tenantID}
	conditions := []string{"t.tenant_id = $1"}
	arg := func(v any) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}

	if filter.FromDate != nil {
		conditions = append(conditions, "t.transaction_date >= "+arg(*filter.FromDate))
	}
	if filter.Before != nil {
		conditions = append(conditions, "t.transaction_date < "+arg(*filter.Before))
	}
	if filter.OrderID != "" {
		conditions = append(conditions, "t.order_id = "+arg(filter.OrderID))
	}
	if filter.PurchaseInvoiceID != "" {
		conditions = append(conditions, "t.purchase_invoice_id = "+arg(filter.PurchaseInvoiceID))
	}
	if filter.AccountID != "" {
		conditions = append(conditions, "EXISTS (SELECT 1 FROM ledger_lines l WHERE l.transaction_id = t.transaction_id AND l.account_id = "+arg(filter.AccountID)+")")
	}
	if nextToken != nil && *nextToken != "" {
		cursor, err := pagination.DecodeCursor(*nextToken)
		if err != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", err)
		}
		conditions = append(conditions, fmt.Sprintf("(t.transaction_date, t.created_at, t.transaction_id) < (%s, %s, %s)",
			arg(cursor.Date), arg(cursor.CreatedAt), arg(cursor.ID)))
	}

	query := `SELECT ` + qualify("t.", transactionColumns) + `
		FROM ledger_transactions t
		WHERE ` + strings.Join(conditions, " AND ") + `
		ORDER BY t.transaction_date DESC, t.created_at DESC, t.transaction_id DESC
		LIMIT ` + arg(fetchLimit) + `;`

	rows, err := r.db(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to query transactions for tenant "+tenantID, err)
	}
	defer rows.Close()

	headers := make([]models.LedgerTransaction, 0, fetchLimit)
	for rows.Next() {
		h, err := scanTransactionHeader(rows)
		if err != nil {
			return nil, nil, apperrors.NewAppError(500, "failed to scan transaction row for tenant "+tenantID, err)
		}
		headers = append(headers, h)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, apperrors.NewAppError(500, "error iterating transaction rows for tenant "+tenantID, err)
	}

	var nextTokenVal *string
	if len(headers) > limit {
		last := headers[limit-1]
		token := pagination.EncodeCursor(pagination.Cursor{Date: last.TransactionDate, CreatedAt: last.CreatedAt, ID: last.TransactionID})
		nextTokenVal = &token
		headers = headers[:limit]
	}

	ids := make([]string, len(headers))
	for i, h := range headers {
		ids[i] = h.TransactionID
	}
	lines, err := r.findLines(ctx, tenantID, ids)
	if err != nil {
		return nil, nil, err
	}

	txns := make([]domain.Transaction, len(headers))
	for i, h := range headers {
		txns[i] = mapping.ToDomainTransaction(h, lines[h.TransactionID])
	}
	return txns, nextTokenVal, nil
}

// SumAccountLinesBefore totals an account's lines dated strictly before the given time.
func (r *PgxLedgerRepository) SumAccountLinesBefore(ctx context.Context, tenantID, accountID string, before time.Time) (decimal.Decimal, decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(l.debit_amount), 0), COALESCE(SUM(l.credit_amount), 0)
		FROM ledger_lines l
		JOIN ledger_transactions t ON t.transaction_id = l.transaction_id
		WHERE l.tenant_id = $1 AND l.account_id = $2 AND t.transaction_date < $3;
	`
	var debits, credits decimal.Decimal
	if err := r.db(ctx).QueryRow(ctx, query, tenantID, accountID, before).Scan(&debits, &credits); err != nil {
		return decimal.Zero, decimal.Zero, fmt.Errorf("failed to sum lines for account %s: %w", accountID, err)
	}
	return debits, credits, nil
}

// qualify prefixes every column of a comma separated list.
func qualify(prefix, columns string) string {
	parts := strings.Split(columns, ",")
	for i, p := range parts {
		parts[i] = prefix + strings.TrimSpace(p)
	}
	return strings.Join(parts, ", ")
}
