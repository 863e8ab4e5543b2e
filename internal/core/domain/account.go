package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// AccountType defines the fundamental accounting type of an account.
type AccountType string

const (
	Asset     AccountType = "ASSET"
	Liability AccountType = "LIABILITY"
	Equity    AccountType = "EQUITY"
	Income    AccountType = "INCOME"
	Expense   AccountType = "EXPENSE"
)

// AccountSubType narrows an account type for lookups such as cash position.
type AccountSubType string

const (
	SubTypeNone       AccountSubType = ""
	SubTypeCash       AccountSubType = "CASH"
	SubTypeBank       AccountSubType = "BANK"
	SubTypeReceivable AccountSubType = "RECEIVABLE"
	SubTypePayable    AccountSubType = "PAYABLE"
	SubTypeInventory  AccountSubType = "INVENTORY"
	SubTypeAdvance    AccountSubType = "ADVANCE"
)

// EntrySide is the side of a ledger line: debit or credit.
type EntrySide string

const (
	Debit  EntrySide = "DEBIT"
	Credit EntrySide = "CREDIT"
)

// increasingSide maps each account type to the side that increases its balance.
// EQUITY is debit-increasing in this system; see DESIGN.md.
var increasingSide = map[AccountType]EntrySide{
	Asset:     Debit,
	Expense:   Debit,
	Equity:    Debit,
	Liability: Credit,
	Income:    Credit,
}

// SignOf returns the side that increases the balance of an account of the given type.
func SignOf(accountType AccountType) (EntrySide, error) {
	side, ok := increasingSide[accountType]
	if !ok {
		return "", fmt.Errorf("unknown account type '%s'", accountType)
	}
	return side, nil
}

// IsValid reports whether t is one of the five account types.
func (t AccountType) IsValid() bool {
	_, ok := increasingSide[t]
	return ok
}

// Account represents a ledger account within a tenant's chart of accounts.
type Account struct {
	AccountID       string          `json:"accountID"`
	TenantID        string          `json:"tenantID"`
	Code            string          `json:"code"` // unique per tenant
	Name            string          `json:"name"`
	AccountType     AccountType     `json:"accountType"`
	AccountSubType  AccountSubType  `json:"accountSubType,omitempty"`
	ParentAccountID string          `json:"parentAccountID,omitempty"`
	Description     string          `json:"description,omitempty"`
	IsActive        bool            `json:"isActive"`
	Balance         decimal.Decimal `json:"balance"` // denormalized; only the ledger mutates it
	AuditFields
}

// AccountSpec describes an account to be created on first use.
type AccountSpec struct {
	Code           string
	Name           string
	AccountType    AccountType
	AccountSubType AccountSubType
	ParentCode     string
	Description    string
	Balance        *decimal.Decimal
}
