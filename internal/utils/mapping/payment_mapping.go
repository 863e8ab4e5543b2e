package mapping

import (
	"github.com/SscSPs/shop_ledger_backend/internal/core/domain"
	"github.com/SscSPs/shop_ledger_backend/internal/models"
)

// ToModelPayment converts a domain Payment to a model Payment
func ToModelPayment(d domain.Payment) models.Payment {
	return models.Payment{
		PaymentID:         d.PaymentID,
		TenantID:          d.TenantID,
		PaymentType:       string(d.Type),
		Amount:            d.Amount,
		CustomerID:        ToNullString(d.CustomerID),
		SupplierID:        ToNullString(d.SupplierID),
		AccountID:         ToNullString(d.AccountID),
		TransactionID:     ToNullString(d.TransactionID),
		OrderID:           ToNullString(d.OrderID),
		PurchaseInvoiceID: ToNullString(d.PurchaseInvoiceID),
		PaymentDate:       d.PaymentDate,
		Notes:             d.Notes,
		AuditFields:       ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainPayment converts a model Payment to a domain Payment
func ToDomainPayment(m models.Payment) domain.Payment {
	return domain.Payment{
		PaymentID:         m.PaymentID,
		TenantID:          m.TenantID,
		Type:              domain.PaymentType(m.PaymentType),
		Amount:            m.Amount,
		CustomerID:        FromNullString(m.CustomerID),
		SupplierID:        FromNullString(m.SupplierID),
		AccountID:         FromNullString(m.AccountID),
		TransactionID:     FromNullString(m.TransactionID),
		OrderID:           FromNullString(m.OrderID),
		PurchaseInvoiceID: FromNullString(m.PurchaseInvoiceID),
		PaymentDate:       m.PaymentDate,
		Notes:             m.Notes,
		AuditFields:       ToDomainAuditFields(m.AuditFields),
	}
}
