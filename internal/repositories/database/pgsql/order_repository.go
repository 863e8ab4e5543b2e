package pgsql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/SscSPs/shop_ledger_backend/internal/apperrors"
	"github.com/SscSPs/shop_ledger_backend/internal/core/domain"
	portsrepo "github.com/SscSPs/shop_ledger_backend/internal/core/ports/repositories"
	"github.com/SscSPs/shop_ledger_backend/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

type PgxOrderRepository struct {
	BaseRepository
}

type PgxPurchaseInvoiceRepository struct {
	BaseRepository
}

var (
	_ portsrepo.OrderRepositoryFacade           = (*PgxOrderRepository)(nil)
	_ portsrepo.PurchaseInvoiceRepositoryFacade = (*PgxPurchaseInvoiceRepository)(nil)
)

const orderColumns = `order_id, tenant_id, customer_id, order_number, status, city, logistics_company_id,
	shipping_charges, payment_amount, refund_amount, order_date`

func scanOrder(row scanner) (domain.Order, error) {
	var o domain.Order
	var companyID sql.NullString
	err := row.Scan(
		&o.OrderID,
		&o.TenantID,
		&o.CustomerID,
		&o.OrderNumber,
		&o.Status,
		&o.City,
		&companyID,
		&o.ShippingCharges,
		&o.PaymentAmount,
		&o.RefundAmount,
		&o.OrderDate,
	)
	o.LogisticsCompanyID = mapping.FromNullString(companyID)
	return o, err
}

// attachItems loads the items of every order in one query.
func (r *PgxOrderRepository) attachItems(ctx context.Context, tenantID string, orders []domain.Order) error {
	if len(orders) == 0 {
		return nil
	}
	ids := make([]string, len(orders))
	index := make(map[string]int, len(orders))
	for i, o := range orders {
		ids[i] = o.OrderID
		index[o.OrderID] = i
	}

	query := `
		SELECT order_id, product_id, product_price, quantity
		FROM order_items
		WHERE tenant_id = $1 AND order_id = ANY($2)
		ORDER BY order_id, product_id;
	`
	rows, err := r.db(ctx).Query(ctx, query, tenantID, ids)
	if err != nil {
		return fmt.Errorf("failed to query order items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var orderID string
		var item domain.OrderItem
		if err := rows.Scan(&orderID, &item.ProductID, &item.ProductPrice, &item.Quantity); err != nil {
			return fmt.Errorf("failed to scan order item: %w", err)
		}
		i := index[orderID]
		orders[i].Items = append(orders[i].Items, item)
	}
	return rows.Err()
}

func (r *PgxOrderRepository) FindOrderByID(ctx context.Context, tenantID, orderID string) (*domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE tenant_id = $1 AND order_id = $2;`
	o, err := scanOrder(r.db(ctx).QueryRow(ctx, query, tenantID, orderID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find order %s: %w", orderID, err)
	}
	orders := []domain.Order{o}
	if err := r.attachItems(ctx, tenantID, orders); err != nil {
		return nil, err
	}
	return &orders[0], nil
}

func (r *PgxOrderRepository) ListOrdersByCustomer(ctx context.Context, tenantID, customerID string, status domain.OrderStatus) ([]domain.Order, error) {
	query := `SELECT ` + orderColumns + `
		FROM orders
		WHERE tenant_id = $1 AND customer_id = $2 AND status = $3
		ORDER BY order_date, order_id;
	`
	rows, err := r.db(ctx).Query(ctx, query, tenantID, customerID, status)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders for customer %s: %w", customerID, err)
	}
	defer rows.Close()

	orders := []domain.Order{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order row: %w", err)
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating order rows: %w", err)
	}
	rows.Close()

	if err := r.attachItems(ctx, tenantID, orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// TransitionOrderStatus only matches the order while it is still in status
// from, so of two concurrent confirmations the second finds no row.
func (r *PgxOrderRepository) TransitionOrderStatus(ctx context.Context, tenantID, orderID string, from, to domain.OrderStatus, shippingCharges decimal.Decimal) error {
	query := `
		UPDATE orders SET status = $4, shipping_charges = $5
		WHERE tenant_id = $1 AND order_id = $2 AND status = $3;
	`
	return r.execGuarded(ctx, "order "+orderID, query,
		`SELECT EXISTS (SELECT 1 FROM orders WHERE tenant_id = $1 AND order_id = $2);`,
		apperrors.ErrConflict, tenantID, orderID, from, to, shippingCharges)
}

func (r *PgxOrderRepository) AddOrderAmounts(ctx context.Context, tenantID, orderID string, payment, refund decimal.Decimal) error {
	return r.execOne(ctx, "order "+orderID, `
		UPDATE orders
		SET payment_amount = COALESCE(payment_amount, 0) + $3, refund_amount = COALESCE(refund_amount, 0) + $4
		WHERE tenant_id = $1 AND order_id = $2;`,
		tenantID, orderID, payment, refund)
}

const invoiceColumns = `purchase_invoice_id, tenant_id, supplier_id, invoice_number, status, total_amount,
	payment_amount, transaction_id, invoice_date`

func scanInvoice(row scanner) (domain.PurchaseInvoice, error) {
	var inv domain.PurchaseInvoice
	var txnID sql.NullString
	err := row.Scan(
		&inv.PurchaseInvoiceID,
		&inv.TenantID,
		&inv.SupplierID,
		&inv.InvoiceNumber,
		&inv.Status,
		&inv.TotalAmount,
		&inv.PaymentAmount,
		&txnID,
		&inv.InvoiceDate,
	)
	inv.TransactionID = mapping.FromNullString(txnID)
	return inv, err
}

func (r *PgxPurchaseInvoiceRepository) FindPurchaseInvoiceByID(ctx context.Context, tenantID, invoiceID string) (*domain.PurchaseInvoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM purchase_invoices WHERE tenant_id = $1 AND purchase_invoice_id = $2;`
	inv, err := scanInvoice(r.db(ctx).QueryRow(ctx, query, tenantID, invoiceID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find purchase invoice %s: %w", invoiceID, err)
	}
	return &inv, nil
}

func (r *PgxPurchaseInvoiceRepository) ListActiveInvoicesBySupplier(ctx context.Context, tenantID, supplierID string) ([]domain.PurchaseInvoice, error) {
	query := `SELECT ` + invoiceColumns + `
		FROM purchase_invoices
		WHERE tenant_id = $1 AND supplier_id = $2 AND status <> 'CANCELLED'
		ORDER BY invoice_date, purchase_invoice_id;
	`
	rows, err := r.db(ctx).Query(ctx, query, tenantID, supplierID)
	if err != nil {
		return nil, fmt.Errorf("failed to query invoices for supplier %s: %w", supplierID, err)
	}
	defer rows.Close()

	invoices := []domain.PurchaseInvoice{}
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan invoice row: %w", err)
		}
		invoices = append(invoices, inv)
	}
	return invoices, rows.Err()
}

func (r *PgxPurchaseInvoiceRepository) MarkInvoicePosted(ctx context.Context, tenantID, invoiceID, transactionID string) error {
	query := `
		UPDATE purchase_invoices SET status = 'POSTED', transaction_id = $3
		WHERE tenant_id = $1 AND purchase_invoice_id = $2 AND status = 'DRAFT';
	`
	return r.execGuarded(ctx, "purchase invoice "+invoiceID, query,
		`SELECT EXISTS (SELECT 1 FROM purchase_invoices WHERE tenant_id = $1 AND purchase_invoice_id = $2);`,
		apperrors.ErrConflict, tenantID, invoiceID, transactionID)
}
