package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/shop_ledger_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CustomerRepositoryFacade defines persistence for customers.
type CustomerRepositoryFacade interface {
	// FindCustomerByID retrieves a customer of the tenant.
	FindCustomerByID(ctx context.Context, tenantID, customerID string) (*domain.Customer, error)

	// ListCustomers retrieves all customers of the tenant.
	ListCustomers(ctx context.Context, tenantID string) ([]domain.Customer, error)

	// AdjustCustomerAdvance adds delta to the customer's advance balance. It fails
	// with apperrors.ErrInsufficientBalance when the result would be negative.
	AdjustCustomerAdvance(ctx context.Context, tenantID, customerID string, delta decimal.Decimal) error

	// SetCustomerOpeningBalance stores the customer's opening balance. It fails
	// with apperrors.ErrConflict when one is already set.
	SetCustomerOpeningBalance(ctx context.Context, tenantID, customerID string, balance decimal.Decimal) error
}

// SupplierRepositoryFacade defines persistence for suppliers.
type SupplierRepositoryFacade interface {
	FindSupplierByID(ctx context.Context, tenantID, supplierID string) (*domain.Supplier, error)
	ListSuppliers(ctx context.Context, tenantID string) ([]domain.Supplier, error)

	// SetSupplierOpeningBalance stores the supplier's opening balance. It fails
	// with apperrors.ErrConflict when one is already set.
	SetSupplierOpeningBalance(ctx context.Context, tenantID, supplierID string, balance decimal.Decimal) error
}

// OrderRepositoryFacade defines persistence for orders and their items.
type OrderRepositoryFacade interface {
	// FindOrderByID retrieves an order with its items.
	FindOrderByID(ctx context.Context, tenantID, orderID string) (*domain.Order, error)

	// ListOrdersByCustomer retrieves the customer's orders in the given status.
	ListOrdersByCustomer(ctx context.Context, tenantID, customerID string, status domain.OrderStatus) ([]domain.Order, error)

	// TransitionOrderStatus moves an order from one status to another and sets
	// its shipping charges. It fails with apperrors.ErrConflict when the order
	// is no longer in status from.
	TransitionOrderStatus(ctx context.Context, tenantID, orderID string, from, to domain.OrderStatus, shippingCharges decimal.Decimal) error

	// AddOrderAmounts increments the legacy payment and refund totals.
	AddOrderAmounts(ctx context.Context, tenantID, orderID string, payment, refund decimal.Decimal) error
}

// PurchaseInvoiceRepositoryFacade defines persistence for purchase invoices.
type PurchaseInvoiceRepositoryFacade interface {
	FindPurchaseInvoiceByID(ctx context.Context, tenantID, invoiceID string) (*domain.PurchaseInvoice, error)

	// ListActiveInvoicesBySupplier retrieves the supplier's non-cancelled invoices.
	ListActiveInvoicesBySupplier(ctx context.Context, tenantID, supplierID string) ([]domain.PurchaseInvoice, error)

	// MarkInvoicePosted links the ledger transaction and sets status POSTED. It
	// fails with apperrors.ErrConflict unless the invoice is still a draft.
	MarkInvoicePosted(ctx context.Context, tenantID, invoiceID, transactionID string) error
}

// PaymentRepositoryFacade defines persistence for payments.
type PaymentRepositoryFacade interface {
	// SavePayment persists a new payment.
	SavePayment(ctx context.Context, payment domain.Payment) error

	// FindPaymentByID retrieves a payment of the tenant.
	FindPaymentByID(ctx context.Context, tenantID, paymentID string) (*domain.Payment, error)

	// ListPaymentsByCustomer retrieves all payments linked to a customer.
	ListPaymentsByCustomer(ctx context.Context, tenantID, customerID string) ([]domain.Payment, error)

	// ListPaymentsBySupplier retrieves all payments linked to a supplier.
	ListPaymentsBySupplier(ctx context.Context, tenantID, supplierID string) ([]domain.Payment, error)

	// AttachPaymentTransaction marks a payment verified. It fails with
	// apperrors.ErrConflict when the payment already carries a transaction.
	AttachPaymentTransaction(ctx context.Context, tenantID, paymentID, transactionID, userID string, now time.Time) error
}
