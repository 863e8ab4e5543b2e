package dto

import (
	"time"

	"github.com/SscSPs/shop_ledger_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// AccountSpecRequest describes an account to fetch, or create when its code is unused.
type AccountSpecRequest struct {
	Code           string                `json:"code" binding:"max=20"` // Taken from the line when nested in a transaction
	Name           string                `json:"name" binding:"required,max=255"`
	AccountType    domain.AccountType    `json:"accountType" binding:"required,oneof=ASSET LIABILITY EQUITY INCOME EXPENSE"`
	AccountSubType domain.AccountSubType `json:"accountSubType" binding:"omitempty,oneof=CASH BANK RECEIVABLE PAYABLE INVENTORY ADVANCE"`
	ParentCode     string                `json:"parentCode"`  // Optional
	Description    string                `json:"description"` // Optional
	Balance        *decimal.Decimal      `json:"balance"`     // Optional initial balance
}

// ToSpec converts the request to a domain.AccountSpec.
func (r AccountSpecRequest) ToSpec() domain.AccountSpec {
	return domain.AccountSpec{
		Code:           r.Code,
		Name:           r.Name,
		AccountType:    r.AccountType,
		AccountSubType: r.AccountSubType,
		ParentCode:     r.ParentCode,
		Description:    r.Description,
		Balance:        r.Balance,
	}
}

// AccountResponse defines the data returned for an account.
// Mirrors domain.Account.
type AccountResponse struct {
	AccountID       string                `json:"accountID"`
	Code            string                `json:"code"`
	Name            string                `json:"name"`
	AccountType     domain.AccountType    `json:"accountType"`
	AccountSubType  domain.AccountSubType `json:"accountSubType,omitempty"`
	ParentAccountID string                `json:"parentAccountID"` // Note: Empty string if null in DB
	Description     string                `json:"description"`
	IsActive        bool                  `json:"isActive"`
	Balance         decimal.Decimal       `json:"balance"`
	CreatedAt       time.Time             `json:"createdAt"`
	CreatedBy       string                `json:"createdBy"`
	LastUpdatedAt   time.Time             `json:"lastUpdatedAt"`
	LastUpdatedBy   string                `json:"lastUpdatedBy"`
}

// InitializeChartResponse reports how many standard accounts were created.
type InitializeChartResponse struct {
	Created int `json:"created"`
}

// ToAccountResponse converts a domain.Account to AccountResponse DTO
func ToAccountResponse(acc *domain.Account) AccountResponse {
	return AccountResponse{
		AccountID:       acc.AccountID,
		Code:            acc.Code,
		Name:            acc.Name,
		AccountType:     acc.AccountType,
		AccountSubType:  acc.AccountSubType,
		ParentAccountID: acc.ParentAccountID,
		Description:     acc.Description,
		IsActive:        acc.IsActive,
		Balance:         acc.Balance,
		CreatedAt:       acc.CreatedAt,
		CreatedBy:       acc.CreatedBy,
		LastUpdatedAt:   acc.LastUpdatedAt,
		LastUpdatedBy:   acc.LastUpdatedBy,
	}
}

// ToAccountResponses converts a slice of domain.Account to []AccountResponse.
func ToAccountResponses(accounts []domain.Account) []AccountResponse {
	responses := make([]AccountResponse, len(accounts))
	for i := range accounts {
		responses[i] = ToAccountResponse(&accounts[i])
	}
	return responses
}
