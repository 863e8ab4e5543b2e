package mapping

import (
	"github.com/SscSPs/shop_ledger_backend/internal/core/domain"
	"github.com/SscSPs/shop_ledger_backend/internal/models"
)

// ToModelTransaction converts a domain Transaction header to its model.
func ToModelTransaction(d domain.Transaction) models.LedgerTransaction {
	return models.LedgerTransaction{
		TransactionID:     d.TransactionID,
		TenantID:          d.TenantID,
		TransactionNumber: d.TransactionNumber,
		TransactionDate:   d.Date,
		Description:       d.Description,
		OrderID:           ToNullString(d.OrderID),
		PurchaseInvoiceID: ToNullString(d.PurchaseInvoiceID),
		OrderReturnID:     ToNullString(d.OrderReturnID),
		ReversalOfID:      ToNullString(d.ReversalOfID),
		AuditFields:       ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainTransaction converts a header model and its lines to a domain Transaction.
func ToDomainTransaction(m models.LedgerTransaction, lines []models.LedgerLine) domain.Transaction {
	return domain.Transaction{
		TransactionID:     m.TransactionID,
		TenantID:          m.TenantID,
		TransactionNumber: m.TransactionNumber,
		Date:              m.TransactionDate,
		Description:       m.Description,
		OrderID:           FromNullString(m.OrderID),
		PurchaseInvoiceID: FromNullString(m.PurchaseInvoiceID),
		OrderReturnID:     FromNullString(m.OrderReturnID),
		ReversalOfID:      FromNullString(m.ReversalOfID),
		Lines:             ToDomainLineSlice(lines),
		AuditFields:       ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelLines converts the lines of a domain Transaction to models, numbering them in order.
func ToModelLines(d domain.Transaction) []models.LedgerLine {
	ms := make([]models.LedgerLine, len(d.Lines))
	for i, l := range d.Lines {
		ms[i] = models.LedgerLine{
			LineID:        l.LineID,
			TransactionID: d.TransactionID,
			TenantID:      d.TenantID,
			AccountID:     l.AccountID,
			DebitAmount:   l.DebitAmount,
			CreditAmount:  l.CreditAmount,
			Description:   l.Description,
			LineNo:        i + 1,
		}
	}
	return ms
}

// ToDomainLineSlice converts line models to domain TransactionLines.
func ToDomainLineSlice(ms []models.LedgerLine) []domain.TransactionLine {
	ds := make([]domain.TransactionLine, len(ms))
	for i, m := range ms {
		ds[i] = domain.TransactionLine{
			LineID:        m.LineID,
			TransactionID: m.TransactionID,
			AccountID:     m.AccountID,
			DebitAmount:   m.DebitAmount,
			CreditAmount:  m.CreditAmount,
			Description:   m.Description,
		}
	}
	return ds
}
