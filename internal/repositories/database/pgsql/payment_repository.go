package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/SscSPs/shop_ledger_backend/internal/apperrors"
	"github.com/SscSPs/shop_ledger_backend/internal/core/domain"
	portsrepo "github.com/SscSPs/shop_ledger_backend/internal/core/ports/repositories"
	"github.com/SscSPs/shop_ledger_backend/internal/models"
	"github.com/SscSPs/shop_ledger_backend/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
)

type PgxPaymentRepository struct {
	BaseRepository
}

var _ portsrepo.PaymentRepositoryFacade = (*PgxPaymentRepository)(nil)

const paymentColumns = `payment_id, tenant_id, payment_type, amount, customer_id, supplier_id, account_id,
	transaction_id, order_id, purchase_invoice_id, payment_date, notes,
	created_at, created_by, last_updated_at, last_updated_by`

func scanPayment(row scanner) (models.Payment, error) {
	var m models.Payment
	err := row.Scan(
		&m.PaymentID,
		&m.TenantID,
		&m.PaymentType,
		&m.Amount,
		&m.CustomerID,
		&m.SupplierID,
		&m.AccountID,
		&m.TransactionID,
		&m.OrderID,
		&m.PurchaseInvoiceID,
		&m.PaymentDate,
		&m.Notes,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

func (r *PgxPaymentRepository) SavePayment(ctx context.Context, payment domain.Payment) error {
	m := mapping.ToModelPayment(payment)
	query := `INSERT INTO payments (` + paymentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16);`

	_, err := r.db(ctx).Exec(ctx, query,
		m.PaymentID, m.TenantID, m.PaymentType, m.Amount,
		m.CustomerID, m.SupplierID, m.AccountID, m.TransactionID, m.OrderID, m.PurchaseInvoiceID,
		m.PaymentDate, m.Notes, m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: payment %s", apperrors.ErrDuplicate, m.PaymentID)
		}
		return fmt.Errorf("failed to save payment %s: %w", m.PaymentID, err)
	}
	return nil
}

func (r *PgxPaymentRepository) FindPaymentByID(ctx context.Context, tenantID, paymentID string) (*domain.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE tenant_id = $1 AND payment_id = $2;`
	m, err := scanPayment(r.db(ctx).QueryRow(ctx, query, tenantID, paymentID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find payment %s: %w", paymentID, err)
	}
	p := mapping.ToDomainPayment(m)
	return &p, nil
}

func (r *PgxPaymentRepository) listPayments(ctx context.Context, column, tenantID, partyID string) ([]domain.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE tenant_id = $1 AND ` + column + ` = $2 ORDER BY payment_date, payment_id;`
	rows, err := r.db(ctx).Query(ctx, query, tenantID, partyID)
	if err != nil {
		return nil, fmt.Errorf("failed to query payments by %s: %w", column, err)
	}
	defer rows.Close()

	payments := []domain.Payment{}
	for rows.Next() {
		m, err := scanPayment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payment row: %w", err)
		}
		payments = append(payments, mapping.ToDomainPayment(m))
	}
	return payments, rows.Err()
}

func (r *PgxPaymentRepository) ListPaymentsByCustomer(ctx context.Context, tenantID, customerID string) ([]domain.Payment, error) {
	return r.listPayments(ctx, "customer_id", tenantID, customerID)
}

func (r *PgxPaymentRepository) ListPaymentsBySupplier(ctx context.Context, tenantID, supplierID string) ([]domain.Payment, error) {
	return r.listPayments(ctx, "supplier_id", tenantID, supplierID)
}

// AttachPaymentTransaction only updates rows that are still unverified, so two
// concurrent verifications of one payment cannot both succeed.
func (r *PgxPaymentRepository) AttachPaymentTransaction(ctx context.Context, tenantID, paymentID, transactionID, userID string, now time.Time) error {
	query := `
		UPDATE payments
		SET transaction_id = $3, last_updated_at = $4, last_updated_by = $5
		WHERE tenant_id = $1 AND payment_id = $2 AND transaction_id IS NULL;
	`
	cmdTag, err := r.db(ctx).Exec(ctx, query, tenantID, paymentID, transactionID, now, userID)
	if err != nil {
		return fmt.Errorf("failed to verify payment %s: %w", paymentID, err)
	}
	if cmdTag.RowsAffected() == 1 {
		return nil
	}
	if _, err := r.FindPaymentByID(ctx, tenantID, paymentID); err != nil {
		return err
	}
	return fmt.Errorf("%w: payment %s is already verified", apperrors.ErrConflict, paymentID)
}
