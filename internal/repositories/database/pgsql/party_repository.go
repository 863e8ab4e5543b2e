package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/SscSPs/shop_ledger_backend/internal/apperrors"
	"github.com/SscSPs/shop_ledger_backend/internal/core/domain"
	portsrepo "github.com/SscSPs/shop_ledger_backend/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

type PgxCustomerRepository struct {
	BaseRepository
}

type PgxSupplierRepository struct {
	BaseRepository
}

var (
	_ portsrepo.CustomerRepositoryFacade = (*PgxCustomerRepository)(nil)
	_ portsrepo.SupplierRepositoryFacade = (*PgxSupplierRepository)(nil)
)

// execOne runs an UPDATE that must touch exactly one row.
func (r *BaseRepository) execOne(ctx context.Context, what, query string, args ...any) error {
	cmdTag, err := r.db(ctx).Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update %s: %w", what, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", apperrors.ErrNotFound, what)
	}
	return nil
}

// execGuarded runs an UPDATE whose WHERE clause carries a state condition.
// When no row matches, exists (taking the first two args) tells a missing row
// apart from one whose state no longer allows the update.
func (r *BaseRepository) execGuarded(ctx context.Context, what, update, exists string, stateErr error, args ...any) error {
	cmdTag, err := r.db(ctx).Exec(ctx, update, args...)
	if err != nil {
		return fmt.Errorf("failed to update %s: %w", what, err)
	}
	if cmdTag.RowsAffected() > 0 {
		return nil
	}
	var found bool
	if err := r.db(ctx).QueryRow(ctx, exists, args[0], args[1]).Scan(&found); err != nil {
		return fmt.Errorf("failed to check %s: %w", what, err)
	}
	if !found {
		return fmt.Errorf("%w: %s", apperrors.ErrNotFound, what)
	}
	return fmt.Errorf("%w: %s", stateErr, what)
}

const (
	customerExists = `SELECT EXISTS (SELECT 1 FROM customers WHERE tenant_id = $1 AND customer_id = $2);`
	supplierExists = `SELECT EXISTS (SELECT 1 FROM suppliers WHERE tenant_id = $1 AND supplier_id = $2);`
)

func (r *PgxCustomerRepository) FindCustomerByID(ctx context.Context, tenantID, customerID string) (*domain.Customer, error) {
	query := `
		SELECT customer_id, tenant_id, name, balance, advance_balance
		FROM customers
		WHERE tenant_id = $1 AND customer_id = $2;
	`
	var c domain.Customer
	err := r.db(ctx).QueryRow(ctx, query, tenantID, customerID).Scan(&c.CustomerID, &c.TenantID, &c.Name, &c.Balance, &c.AdvanceBalance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find customer %s: %w", customerID, err)
	}
	return &c, nil
}

func (r *PgxCustomerRepository) ListCustomers(ctx context.Context, tenantID string) ([]domain.Customer, error) {
	query := `
		SELECT customer_id, tenant_id, name, balance, advance_balance
		FROM customers
		WHERE tenant_id = $1
		ORDER BY name;
	`
	rows, err := r.db(ctx).Query(ctx, query, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to query customers for tenant %s: %w", tenantID, err)
	}
	defer rows.Close()

	customers := []domain.Customer{}
	for rows.Next() {
		var c domain.Customer
		if err := rows.Scan(&c.CustomerID, &c.TenantID, &c.Name, &c.Balance, &c.AdvanceBalance); err != nil {
			return nil, fmt.Errorf("failed to scan customer row: %w", err)
		}
		customers = append(customers, c)
	}
	return customers, rows.Err()
}

func (r *PgxCustomerRepository) AdjustCustomerAdvance(ctx context.Context, tenantID, customerID string, delta decimal.Decimal) error {
	query := `
		UPDATE customers
		SET advance_balance = COALESCE(advance_balance, 0) + $3
		WHERE tenant_id = $1 AND customer_id = $2 AND COALESCE(advance_balance, 0) + $3 >= 0;
	`
	return r.execGuarded(ctx, "customer "+customerID, query, customerExists, apperrors.ErrInsufficientBalance,
		tenantID, customerID, delta)
}

func (r *PgxCustomerRepository) SetCustomerOpeningBalance(ctx context.Context, tenantID, customerID string, balance decimal.Decimal) error {
	return r.execGuarded(ctx, "customer "+customerID,
		`UPDATE customers SET balance = $3 WHERE tenant_id = $1 AND customer_id = $2 AND COALESCE(balance, 0) = 0;`,
		customerExists, apperrors.ErrConflict, tenantID, customerID, balance)
}

func (r *PgxSupplierRepository) FindSupplierByID(ctx context.Context, tenantID, supplierID string) (*domain.Supplier, error) {
	query := `SELECT supplier_id, tenant_id, name, balance FROM suppliers WHERE tenant_id = $1 AND supplier_id = $2;`
	var s domain.Supplier
	err := r.db(ctx).QueryRow(ctx, query, tenantID, supplierID).Scan(&s.SupplierID, &s.TenantID, &s.Name, &s.Balance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find supplier %s: %w", supplierID, err)
	}
	return &s, nil
}

func (r *PgxSupplierRepository) ListSuppliers(ctx context.Context, tenantID string) ([]domain.Supplier, error) {
	query := `SELECT supplier_id, tenant_id, name, balance FROM suppliers WHERE tenant_id = $1 ORDER BY name;`
	rows, err := r.db(ctx).Query(ctx, query, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to query suppliers for tenant %s: %w", tenantID, err)
	}
	defer rows.Close()

	suppliers := []domain.Supplier{}
	for rows.Next() {
		var s domain.Supplier
		if err := rows.Scan(&s.SupplierID, &s.TenantID, &s.Name, &s.Balance); err != nil {
			return nil, fmt.Errorf("failed to scan supplier row: %w", err)
		}
		suppliers = append(suppliers, s)
	}
	return suppliers, rows.Err()
}

func (r *PgxSupplierRepository) SetSupplierOpeningBalance(ctx context.Context, tenantID, supplierID string, balance decimal.Decimal) error {
	return r.execGuarded(ctx, "supplier "+supplierID,
		`UPDATE suppliers SET balance = $3 WHERE tenant_id = $1 AND supplier_id = $2 AND COALESCE(balance, 0) = 0;`,
		supplierExists, apperrors.ErrConflict, tenantID, supplierID, balance)
}
