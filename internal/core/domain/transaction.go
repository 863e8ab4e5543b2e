package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// BalanceTolerance is the largest debit/credit difference still treated as balanced.
var BalanceTolerance = decimal.New(1, -2)

// Transaction is an immutable, balanced posting made of two or more lines.
type Transaction struct {
	TransactionID     string            `json:"transactionID"`
	TenantID          string            `json:"tenantID"`
	TransactionNumber string            `json:"transactionNumber"`
	Date              time.Time         `json:"date"`
	Description       string            `json:"description"`
	OrderID           *string           `json:"orderID,omitempty"`
	PurchaseInvoiceID *string           `json:"purchaseInvoiceID,omitempty"`
	OrderReturnID     *string           `json:"orderReturnID,omitempty"`
	ReversalOfID      *string           `json:"reversalOfID,omitempty"` // set on reversal postings
	Lines             []TransactionLine `json:"lines,omitempty"`
	AuditFields
}

// TransactionLine is one debit and/or credit against a single account.
type TransactionLine struct {
	LineID        string          `json:"lineID"`
	TransactionID string          `json:"transactionID"`
	AccountID     string          `json:"accountID"`
	DebitAmount   decimal.Decimal `json:"debitAmount"`
	CreditAmount  decimal.Decimal `json:"creditAmount"`
	Description   string          `json:"description,omitempty"`
}

// Totals returns the sum of debit and credit amounts across the lines.
func (t Transaction) Totals() (debits, credits decimal.Decimal) {
	return SumLines(t.Lines)
}

// SumLines returns the sum of debit and credit amounts across lines.
func SumLines(lines []TransactionLine) (debits, credits decimal.Decimal) {
	debits, credits = decimal.Zero, decimal.Zero
	for _, l := range lines {
		debits = debits.Add(l.DebitAmount)
		credits = credits.Add(l.CreditAmount)
	}
	return debits, credits
}

// TransactionFilter narrows a transaction listing.
type TransactionFilter struct {
	// FromDate is inclusive, Before exclusive.
	FromDate          *time.Time
	Before            *time.Time
	AccountID         string
	OrderID           string
	PurchaseInvoiceID string
}
