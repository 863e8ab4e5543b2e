package dto

import (
	"time"

	"github.com/SscSPs/shop_ledger_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// PartyType selects the party an opening balance belongs to.
type PartyType string

const (
	PartyCustomer PartyType = "CUSTOMER"
	PartySupplier PartyType = "SUPPLIER"
)

// CustomerPaymentRequest records money received from a customer against an order.
// AccountID is the cash or bank account the money landed in; it defaults to Cash.
type CustomerPaymentRequest struct {
	CustomerID  string          `json:"customerID" binding:"required"`
	OrderID     *string         `json:"orderID"`
	AccountID   *string         `json:"accountID"`
	Amount      decimal.Decimal `json:"amount" binding:"gt=0"`
	PaymentDate time.Time       `json:"paymentDate"`
	Notes       string          `json:"notes"`
}

// ApplyAdvanceRequest uses part of a customer's advance to pay an order.
type ApplyAdvanceRequest struct {
	CustomerID string          `json:"customerID" binding:"required"`
	OrderID    string          `json:"orderID" binding:"required"`
	Amount     decimal.Decimal `json:"amount" binding:"gt=0"`
	Date       time.Time       `json:"date"`
}

// SupplierPaymentRequest records money paid to a supplier.
type SupplierPaymentRequest struct {
	SupplierID        string          `json:"supplierID" binding:"required"`
	PurchaseInvoiceID *string         `json:"purchaseInvoiceID"`
	AccountID         *string         `json:"accountID"`
	Amount            decimal.Decimal `json:"amount" binding:"gt=0"`
	PaymentDate       time.Time       `json:"paymentDate"`
	Notes             string          `json:"notes"`
}

// OrderReturnRequest credits a customer for returned goods. When
// RefundAccountID is set the refund is paid out of that account instead of
// reducing the receivable.
type OrderReturnRequest struct {
	OrderID         string          `json:"orderID" binding:"required"`
	OrderReturnID   *string         `json:"orderReturnID"`
	Amount          decimal.Decimal `json:"amount" binding:"gt=0"`
	RefundAccountID *string         `json:"refundAccountID"`
	Date            time.Time       `json:"date"`
	Notes           string          `json:"notes"`
}

// ExpenseRequest records a business expense paid from a cash or bank account.
type ExpenseRequest struct {
	ExpenseCode string          `json:"expenseCode"` // Defaults to General Expense
	AccountID   *string         `json:"accountID"`
	Amount      decimal.Decimal `json:"amount" binding:"gt=0"`
	Date        time.Time       `json:"date"`
	Description string          `json:"description" binding:"required"`
}

// WithdrawalRequest records an owner taking money out of the business.
type WithdrawalRequest struct {
	AccountID   *string         `json:"accountID"`
	Amount      decimal.Decimal `json:"amount" binding:"gt=0"`
	Date        time.Time       `json:"date"`
	Description string          `json:"description"`
}

// CODSettlementRequest records a logistics company remitting the cash it
// collected on delivery, net of its COD fee.
type CODSettlementRequest struct {
	OrderID            string          `json:"orderID" binding:"required"`
	LogisticsCompanyID *string         `json:"logisticsCompanyID"` // Defaults to the order's company
	CODAmount          decimal.Decimal `json:"codAmount" binding:"gt=0"`
	AccountID          *string         `json:"accountID"`
	Date               time.Time       `json:"date"`
}

// OpeningBalanceRequest posts a party's balance from before the ledger existed.
// A positive amount is owed to the business by a customer or owed by the
// business to a supplier; a negative amount is an advance.
type OpeningBalanceRequest struct {
	PartyType PartyType       `json:"partyType" binding:"required,oneof=CUSTOMER SUPPLIER"`
	PartyID   string          `json:"partyID" binding:"required"`
	Amount    decimal.Decimal `json:"amount"`
	Date      time.Time       `json:"date"`
}

// PaymentResponse defines the data returned for a payment.
type PaymentResponse struct {
	Payment  domain.Payment `json:"payment"`
	Verified bool           `json:"verified"`
}

// ToPaymentResponse converts a domain.Payment to PaymentResponse DTO.
func ToPaymentResponse(p *domain.Payment) PaymentResponse {
	return PaymentResponse{Payment: *p, Verified: p.IsVerified()}
}
