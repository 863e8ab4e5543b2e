package mapping

import (
	"github.com/SscSPs/shop_ledger_backend/internal/core/domain"
	"github.com/SscSPs/shop_ledger_backend/internal/models"
)

// ToModelAccount converts a domain Account to a model Account
func ToModelAccount(d domain.Account) models.Account {
	return models.Account{
		AccountID:       d.AccountID,
		TenantID:        d.TenantID,
		Code:            d.Code,
		Name:            d.Name,
		AccountType:     string(d.AccountType),
		AccountSubType:  StringToNull(string(d.AccountSubType)),
		ParentAccountID: StringToNull(d.ParentAccountID),
		Description:     d.Description,
		IsActive:        d.IsActive,
		Balance:         d.Balance,
		AuditFields:     ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainAccount converts a model Account to a domain Account
func ToDomainAccount(m models.Account) domain.Account {
	return domain.Account{
		AccountID:       m.AccountID,
		TenantID:        m.TenantID,
		Code:            m.Code,
		Name:            m.Name,
		AccountType:     domain.AccountType(m.AccountType),
		AccountSubType:  domain.AccountSubType(m.AccountSubType.String),
		ParentAccountID: m.ParentAccountID.String,
		Description:     m.Description,
		IsActive:        m.IsActive,
		Balance:         m.Balance,
		AuditFields:     ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainAccountSlice converts a slice of model Accounts to a slice of domain Accounts
func ToDomainAccountSlice(ms []models.Account) []domain.Account {
	ds := make([]domain.Account, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainAccount(m)
	}
	return ds
}
