package services

import (
	"context"

	"github.com/SscSPs/shop_ledger_backend/internal/core/domain"
	"github.com/SscSPs/shop_ledger_backend/internal/dto"
)

// SalesPostingSvc posts customer-side business events.
type SalesPostingSvc interface {
	// ConfirmOrder confirms a pending order and books the sale.
	ConfirmOrder(ctx context.Context, tenantID string, orderID string, userID string) (*domain.Transaction, error)

	// RecordCustomerPayment stores a claimed payment without posting it.
	RecordCustomerPayment(ctx context.Context, tenantID string, req dto.CustomerPaymentRequest, userID string) (*domain.Payment, error)

	// VerifyPayment posts a claimed payment to the ledger.
	VerifyPayment(ctx context.Context, tenantID string, paymentID string, userID string) (*domain.Payment, error)

	// RecordCustomerAdvance books an order-less payment as a customer advance.
	RecordCustomerAdvance(ctx context.Context, tenantID string, req dto.CustomerPaymentRequest, userID string) (*domain.Payment, error)

	// ApplyCustomerAdvance pays an order out of the customer's advance.
	ApplyCustomerAdvance(ctx context.Context, tenantID string, req dto.ApplyAdvanceRequest, userID string) (*domain.Payment, error)

	// ProcessOrderReturn credits a customer for returned goods.
	ProcessOrderReturn(ctx context.Context, tenantID string, req dto.OrderReturnRequest, userID string) (*domain.Transaction, error)

	// RecordCODSettlement books cash remitted by a logistics company net of its fee.
	RecordCODSettlement(ctx context.Context, tenantID string, req dto.CODSettlementRequest, userID string) (*domain.Transaction, error)
}

// PurchasePostingSvc posts supplier-side business events.
type PurchasePostingSvc interface {
	// PostPurchaseInvoice books a supplier invoice into inventory and payables.
	PostPurchaseInvoice(ctx context.Context, tenantID string, invoiceID string, userID string) (*domain.Transaction, error)

	// RecordSupplierPayment books money paid to a supplier.
	RecordSupplierPayment(ctx context.Context, tenantID string, req dto.SupplierPaymentRequest, userID string) (*domain.Payment, error)
}

// CashPostingSvc posts events that only move the business's own money.
type CashPostingSvc interface {
	// RecordExpense books an expense paid from a cash or bank account.
	RecordExpense(ctx context.Context, tenantID string, req dto.ExpenseRequest, userID string) (*domain.Transaction, error)

	// RecordWithdrawal books an owner withdrawal.
	RecordWithdrawal(ctx context.Context, tenantID string, req dto.WithdrawalRequest, userID string) (*domain.Transaction, error)

	// PostOpeningBalance books a party's opening balance against Opening Balance Equity.
	PostOpeningBalance(ctx context.Context, tenantID string, req dto.OpeningBalanceRequest, userID string) (*domain.Transaction, error)
}

// PostingSvcFacade combines all posting service interfaces
type PostingSvcFacade interface {
	SalesPostingSvc
	PurchasePostingSvc
	CashPostingSvc
}
