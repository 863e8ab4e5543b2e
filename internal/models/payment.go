package models

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
)

// Payment is a row of the payments table.
type Payment struct {
	PaymentID         string          `db:"payment_id"`
	TenantID          string          `db:"tenant_id"`
	PaymentType       string          `db:"payment_type"`
	Amount            decimal.Decimal `db:"amount"`
	CustomerID        sql.NullString  `db:"customer_id"`
	SupplierID        sql.NullString  `db:"supplier_id"`
	AccountID         sql.NullString  `db:"account_id"`
	TransactionID     sql.NullString  `db:"transaction_id"`
	OrderID           sql.NullString  `db:"order_id"`
	PurchaseInvoiceID sql.NullString  `db:"purchase_invoice_id"`
	PaymentDate       time.Time       `db:"payment_date"`
	Notes             string          `db:"notes"`
	AuditFields
}
