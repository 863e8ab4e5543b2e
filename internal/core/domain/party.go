package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus tracks where an order is in its lifecycle.
type OrderStatus string

const (
	OrderPending   OrderStatus = "PENDING"
	OrderConfirmed OrderStatus = "CONFIRMED"
	OrderCancelled OrderStatus = "CANCELLED"
)

// InvoiceStatus tracks a purchase invoice.
type InvoiceStatus string

const (
	InvoiceDraft     InvoiceStatus = "DRAFT"
	InvoicePosted    InvoiceStatus = "POSTED"
	InvoiceCancelled InvoiceStatus = "CANCELLED"
)

// PaymentType classifies a Payment record.
type PaymentType string

const (
	CustomerPayment PaymentType = "CUSTOMER_PAYMENT"
	SupplierPayment PaymentType = "SUPPLIER_PAYMENT"
	Refund          PaymentType = "REFUND"
)

// Customer is a buyer. Balance is the stored opening balance; AdvanceBalance is
// the running total of order-less payments not yet applied to orders.
type Customer struct {
	CustomerID     string          `json:"customerID"`
	TenantID       string          `json:"tenantID"`
	Name           string          `json:"name"`
	Balance        decimal.Decimal `json:"balance"`
	AdvanceBalance decimal.Decimal `json:"advanceBalance"`
}

// Supplier is a vendor. Balance is the stored opening balance; negative means
// the business holds an advance with the supplier.
type Supplier struct {
	SupplierID string          `json:"supplierID"`
	TenantID   string          `json:"tenantID"`
	Name       string          `json:"name"`
	Balance    decimal.Decimal `json:"balance"`
}

// OrderItem is a product line on an order.
type OrderItem struct {
	ProductID    string          `json:"productID"`
	ProductPrice decimal.Decimal `json:"productPrice"`
	Quantity     int             `json:"quantity"`
}

// Order is a customer sale. PaymentAmount and RefundAmount are legacy totals
// consulted only when no Payment rows exist for the order.
type Order struct {
	OrderID            string          `json:"orderID"`
	TenantID           string          `json:"tenantID"`
	CustomerID         string          `json:"customerID"`
	OrderNumber        string          `json:"orderNumber"`
	Status             OrderStatus     `json:"status"`
	City               string          `json:"city"`
	LogisticsCompanyID *string         `json:"logisticsCompanyID,omitempty"`
	Items              []OrderItem     `json:"items"`
	ShippingCharges    decimal.Decimal `json:"shippingCharges"`
	PaymentAmount      decimal.Decimal `json:"paymentAmount"`
	RefundAmount       decimal.Decimal `json:"refundAmount"`
	OrderDate          time.Time       `json:"orderDate"`
}

// ItemsTotal returns Σ(productPrice × quantity).
func (o Order) ItemsTotal() decimal.Decimal {
	total := decimal.Zero
	for _, item := range o.Items {
		total = total.Add(item.ProductPrice.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return total
}

// Total returns the items total plus shipping charges.
func (o Order) Total() decimal.Decimal {
	return o.ItemsTotal().Add(o.ShippingCharges)
}

// PurchaseInvoice is a supplier bill. PaymentAmount is the legacy paid total.
type PurchaseInvoice struct {
	PurchaseInvoiceID string          `json:"purchaseInvoiceID"`
	TenantID          string          `json:"tenantID"`
	SupplierID        string          `json:"supplierID"`
	InvoiceNumber     string          `json:"invoiceNumber"`
	Status            InvoiceStatus   `json:"status"`
	TotalAmount       decimal.Decimal `json:"totalAmount"`
	PaymentAmount     decimal.Decimal `json:"paymentAmount"`
	TransactionID     *string         `json:"transactionID,omitempty"`
	InvoiceDate       time.Time       `json:"invoiceDate"`
}

// Payment is a money movement between the business and a party. A nil
// TransactionID marks an unverified, claimed payment with no ledger impact.
type Payment struct {
	PaymentID         string          `json:"paymentID"`
	TenantID          string          `json:"tenantID"`
	Type              PaymentType     `json:"type"`
	Amount            decimal.Decimal `json:"amount"`
	CustomerID        *string         `json:"customerID,omitempty"`
	SupplierID        *string         `json:"supplierID,omitempty"`
	AccountID         *string         `json:"accountID,omitempty"`
	TransactionID     *string         `json:"transactionID,omitempty"`
	OrderID           *string         `json:"orderID,omitempty"`
	PurchaseInvoiceID *string         `json:"purchaseInvoiceID,omitempty"`
	PaymentDate       time.Time       `json:"paymentDate"`
	Notes             string          `json:"notes,omitempty"`
	AuditFields
}

// IsVerified reports whether the payment has been posted to the ledger.
func (p Payment) IsVerified() bool {
	return p.TransactionID != nil
}

// LogisticsCompany delivers orders and collects COD on the business's behalf.
// CODRules holds the validated rule-set JSON.
type LogisticsCompany struct {
	LogisticsCompanyID string `json:"logisticsCompanyID"`
	TenantID           string `json:"tenantID"`
	Name               string `json:"name"`
	CODRules           []byte `json:"codRules,omitempty"`
}

// Product carries per-product shipping overrides.
type Product struct {
	ProductID             string `json:"productID"`
	TenantID              string `json:"tenantID"`
	Name                  string `json:"name"`
	UseDefaultShipping    bool   `json:"useDefaultShipping"`
	ShippingQuantityRules []byte `json:"shippingQuantityRules,omitempty"`
}

// ShippingSettings is a tenant's stored shipping configuration JSON.
type ShippingSettings struct {
	TenantID              string `json:"tenantID"`
	ShippingCityCharges   []byte `json:"shippingCityCharges,omitempty"`
	ShippingQuantityRules []byte `json:"shippingQuantityRules,omitempty"`
}
