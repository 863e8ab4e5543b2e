package dto

import (
	"time"

	"github.com/SscSPs/shop_ledger_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateTransactionLineRequest is one line of a posting. A line references its
// account either by AccountID or by AccountCode. When the code has no account
// yet, AccountSpec (or the standard chart entry for that code) is used to create it.
type CreateTransactionLineRequest struct {
	AccountID    string              `json:"accountID"`
	AccountCode  string              `json:"accountCode"`
	AccountSpec  *AccountSpecRequest `json:"accountSpec,omitempty"`
	DebitAmount  decimal.Decimal     `json:"debitAmount" binding:"gte=0"`
	CreditAmount decimal.Decimal     `json:"creditAmount" binding:"gte=0"`
	Description  string              `json:"description"`
}

// CreateTransactionRequest defines the data needed to post a transaction.
type CreateTransactionRequest struct {
	Date              time.Time                      `json:"date" binding:"required"`
	Description       string                         `json:"description" binding:"required"`
	OrderID           *string                        `json:"orderID"`
	PurchaseInvoiceID *string                        `json:"purchaseInvoiceID"`
	OrderReturnID     *string                        `json:"orderReturnID"`
	Lines             []CreateTransactionLineRequest `json:"lines" binding:"required,dive"`
}

// ListTransactionsParams holds the query parameters for listing transactions.
type ListTransactionsParams struct {
	FromDate          *time.Time `form:"fromDate" time_format:"2006-01-02" time_utc:"1"`
	ToDate            *time.Time `form:"toDate" time_format:"2006-01-02" time_utc:"1"`
	AccountID         string     `form:"accountID"`
	OrderID           string     `form:"orderID"`
	PurchaseInvoiceID string     `form:"purchaseInvoiceID"`
	Limit             int        `form:"limit" binding:"omitempty,min=1,max=100"`
	NextToken         *string    `form:"nextToken"`
}

// Filter converts the params to a domain.TransactionFilter. ToDate names a
// whole day, so the filter ends at the start of the following day.
func (p ListTransactionsParams) Filter() domain.TransactionFilter {
	f := domain.TransactionFilter{
		FromDate:          p.FromDate,
		AccountID:         p.AccountID,
		OrderID:           p.OrderID,
		PurchaseInvoiceID: p.PurchaseInvoiceID,
	}
	if p.ToDate != nil {
		y, m, d := p.ToDate.Date()
		before := time.Date(y, m, d+1, 0, 0, 0, 0, p.ToDate.Location())
		f.Before = &before
	}
	return f
}

// TransactionLineResponse defines the data returned for a transaction line.
type TransactionLineResponse struct {
	LineID       string          `json:"lineID"`
	AccountID    string          `json:"accountID"`
	DebitAmount  decimal.Decimal `json:"debitAmount"`
	CreditAmount decimal.Decimal `json:"creditAmount"`
	Description  string          `json:"description,omitempty"`
}

// TransactionResponse defines the data returned for a transaction.
type TransactionResponse struct {
	TransactionID     string                    `json:"transactionID"`
	TransactionNumber string                    `json:"transactionNumber"`
	Date              time.Time                 `json:"date"`
	Description       string                    `json:"description"`
	OrderID           *string                   `json:"orderID,omitempty"`
	PurchaseInvoiceID *string                   `json:"purchaseInvoiceID,omitempty"`
	OrderReturnID     *string                   `json:"orderReturnID,omitempty"`
	ReversalOfID      *string                   `json:"reversalOfID,omitempty"`
	TotalAmount       decimal.Decimal           `json:"totalAmount"`
	Lines             []TransactionLineResponse `json:"lines"`
	CreatedAt         time.Time                 `json:"createdAt"`
	CreatedBy         string                    `json:"createdBy"`
}

// ListTransactionsResponse is a page of transactions. OpeningBalance is set
// when the listing is filtered by account.
type ListTransactionsResponse struct {
	Transactions   []TransactionResponse `json:"transactions"`
	OpeningBalance *decimal.Decimal      `json:"openingBalance,omitempty"`
	NextToken      *string               `json:"nextToken,omitempty"`
}

// ToTransactionResponse converts a domain.Transaction to TransactionResponse DTO.
func ToTransactionResponse(txn *domain.Transaction) TransactionResponse {
	debits, _ := txn.Totals()
	lines := make([]TransactionLineResponse, len(txn.Lines))
	for i, l := range txn.Lines {
		lines[i] = TransactionLineResponse{
			LineID:       l.LineID,
			AccountID:    l.AccountID,
			DebitAmount:  l.DebitAmount,
			CreditAmount: l.CreditAmount,
			Description:  l.Description,
		}
	}
	return TransactionResponse{
		TransactionID:     txn.TransactionID,
		TransactionNumber: txn.TransactionNumber,
		Date:              txn.Date,
		Description:       txn.Description,
		OrderID:           txn.OrderID,
		PurchaseInvoiceID: txn.PurchaseInvoiceID,
		OrderReturnID:     txn.OrderReturnID,
		ReversalOfID:      txn.ReversalOfID,
		TotalAmount:       debits,
		Lines:             lines,
		CreatedAt:         txn.CreatedAt,
		CreatedBy:         txn.CreatedBy,
	}
}

// ToTransactionResponses converts a slice of domain.Transaction to []TransactionResponse.
func ToTransactionResponses(txns []domain.Transaction) []TransactionResponse {
	responses := make([]TransactionResponse, len(txns))
	for i := range txns {
		responses[i] = ToTransactionResponse(&txns[i])
	}
	return responses
}
