package domain

import "github.com/shopspring/decimal"

// OrderPendingLine is one confirmed order's contribution to a customer's balance.
type OrderPendingLine struct {
	OrderID     string          `json:"orderID"`
	OrderNumber string          `json:"orderNumber"`
	OrderTotal  decimal.Decimal `json:"orderTotal"`
	Paid        decimal.Decimal `json:"paid"`
	Refunded    decimal.Decimal `json:"refunded"`
	Pending     decimal.Decimal `json:"pending"`
}

// CustomerBalance is derived on each query. Pending > 0 means the customer owes
// the business; Pending < 0 means the business holds an advance.
type CustomerBalance struct {
	CustomerID     string             `json:"customerID"`
	Name           string             `json:"name"`
	OpeningBalance decimal.Decimal    `json:"openingBalance"`
	TotalOrdered   decimal.Decimal    `json:"totalOrdered"`
	TotalPaid      decimal.Decimal    `json:"totalPaid"`
	TotalRefunded  decimal.Decimal    `json:"totalRefunded"`
	TotalPending   decimal.Decimal    `json:"totalPending"`
	AdvanceBalance decimal.Decimal    `json:"advanceBalance"`
	Pending        decimal.Decimal    `json:"pending"`
	Orders         []OrderPendingLine `json:"orders"`
}

// InvoicePending is one invoice's contribution to a supplier's balance.
type InvoicePending struct {
	PurchaseInvoiceID string          `json:"purchaseInvoiceID"`
	InvoiceNumber     string          `json:"invoiceNumber"`
	TotalAmount       decimal.Decimal `json:"totalAmount"`
	Paid              decimal.Decimal `json:"paid"`
	Pending           decimal.Decimal `json:"pending"`
}

// SupplierBalance is derived on each query. Pending > 0 means the business owes
// the supplier; Pending < 0 means the supplier holds an advance from the business.
type SupplierBalance struct {
	SupplierID     string           `json:"supplierID"`
	Name           string           `json:"name"`
	OpeningBalance decimal.Decimal  `json:"openingBalance"`
	TotalInvoiced  decimal.Decimal  `json:"totalInvoiced"`
	TotalPaid      decimal.Decimal  `json:"totalPaid"`
	Pending        decimal.Decimal  `json:"pending"`
	Invoices       []InvoicePending `json:"invoices"`
}

// CustomerBalances is a partial-failure tolerant listing.
type CustomerBalances struct {
	Balances  []CustomerBalance `json:"balances"`
	Processed int               `json:"processed"`
	Failed    int               `json:"failed"`
}

// SupplierBalances is a partial-failure tolerant listing.
type SupplierBalances struct {
	Balances  []SupplierBalance `json:"balances"`
	Processed int               `json:"processed"`
	Failed    int               `json:"failed"`
}

// BalanceSummary aggregates the tenant's receivable, payable and cash position.
type BalanceSummary struct {
	TotalReceivables   decimal.Decimal `json:"totalReceivables"`
	TotalPayables      decimal.Decimal `json:"totalPayables"`
	CustomerAdvances   decimal.Decimal `json:"customerAdvances"`
	SupplierAdvances   decimal.Decimal `json:"supplierAdvances"`
	CashPosition       decimal.Decimal `json:"cashPosition"`
	CustomersProcessed int             `json:"customersProcessed"`
	CustomersFailed    int             `json:"customersFailed"`
	SuppliersProcessed int             `json:"suppliersProcessed"`
	SuppliersFailed    int             `json:"suppliersFailed"`
}
