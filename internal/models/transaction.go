package models

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
)

// LedgerTransaction is a row of the ledger_transactions table.
type LedgerTransaction struct {
	TransactionID     string         `db:"transaction_id"`
	TenantID          string         `db:"tenant_id"`
	TransactionNumber string         `db:"transaction_number"`
	TransactionDate   time.Time      `db:"transaction_date"`
	Description       string         `db:"description"`
	OrderID           sql.NullString `db:"order_id"`
	PurchaseInvoiceID sql.NullString `db:"purchase_invoice_id"`
	OrderReturnID     sql.NullString `db:"order_return_id"`
	ReversalOfID      sql.NullString `db:"reversal_of_id"`
	AuditFields
}

// LedgerLine is a row of the ledger_lines table.
type LedgerLine struct {
	LineID        string          `db:"line_id"`
	TransactionID string          `db:"transaction_id"`
	TenantID      string          `db:"tenant_id"`
	AccountID     string          `db:"account_id"`
	DebitAmount   decimal.Decimal `db:"debit_amount"`
	CreditAmount  decimal.Decimal `db:"credit_amount"`
	Description   string          `db:"description"`
	LineNo        int             `db:"line_no"`
}
