package accounting

import (
	"errors"
	"testing"

	"github.com/SscSPs/shop_ledger_backend/internal/apperrors"
	"github.com/SscSPs/shop_ledger_backend/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateSignedAmount(t *testing.T) {
	hundred := decimal.NewFromInt(100)
	tests := []struct {
		name        string
		accountType domain.AccountType
		debit       decimal.Decimal
		credit      decimal.Decimal
		want        decimal.Decimal
	}{
		{"debit asset", domain.Asset, hundred, decimal.Zero, hundred},
		{"credit asset", domain.Asset, decimal.Zero, hundred, hundred.Neg()},
		{"debit expense", domain.Expense, hundred, decimal.Zero, hundred},
		{"debit equity", domain.Equity, hundred, decimal.Zero, hundred},
		{"credit equity", domain.Equity, decimal.Zero, hundred, hundred.Neg()},
		{"credit liability", domain.Liability, decimal.Zero, hundred, hundred},
		{"debit liability", domain.Liability, hundred, decimal.Zero, hundred.Neg()},
		{"credit income", domain.Income, decimal.Zero, hundred, hundred},
		{"net on both sides", domain.Asset, hundred, decimal.NewFromInt(30), decimal.NewFromInt(70)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CalculateSignedAmount(tt.debit, tt.credit, tt.accountType)
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "want %s got %s", tt.want, got)
		})
	}

	_, err := CalculateSignedAmount(hundred, decimal.Zero, "UNKNOWN")
	assert.Error(t, err)
}

func TestSignConventionRoundTrip(t *testing.T) {
	for _, accType := range []domain.AccountType{domain.Asset, domain.Liability, domain.Equity, domain.Income, domain.Expense} {
		start := decimal.NewFromFloat(1234.56)
		x := decimal.NewFromFloat(99.99)

		up, err := CalculateSignedAmount(x, decimal.Zero, accType)
		require.NoError(t, err)
		down, err := CalculateSignedAmount(decimal.Zero, x, accType)
		require.NoError(t, err)

		assert.True(t, start.Equal(start.Add(up).Add(down)), "account type %s", accType)
	}
}

func TestCalculateBalanceChanges(t *testing.T) {
	accounts := map[string]domain.Account{
		"cash":  {AccountID: "cash", AccountType: domain.Asset},
		"sales": {AccountID: "sales", AccountType: domain.Income},
	}
	lines := []domain.TransactionLine{
		{AccountID: "cash", DebitAmount: decimal.NewFromInt(70)},
		{AccountID: "cash", DebitAmount: decimal.NewFromInt(30)},
		{AccountID: "sales", CreditAmount: decimal.NewFromInt(100)},
	}

	changes, err := CalculateBalanceChanges(lines, accounts)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(100).Equal(changes["cash"]))
	assert.True(t, decimal.NewFromInt(100).Equal(changes["sales"]))

	_, err = CalculateBalanceChanges([]domain.TransactionLine{{AccountID: "missing", DebitAmount: decimal.NewFromInt(1)}}, accounts)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestValidateTransactionLines(t *testing.T) {
	d := func(v string) decimal.Decimal { return decimal.RequireFromString(v) }
	tol := domain.BalanceTolerance

	tests := []struct {
		name       string
		lines      []domain.TransactionLine
		unbalanced bool
		validation bool
	}{
		{
			name: "balanced",
			lines: []domain.TransactionLine{
				{AccountID: "a", DebitAmount: d("100")},
				{AccountID: "b", CreditAmount: d("100")},
			},
		},
		{
			name: "within tolerance",
			lines: []domain.TransactionLine{
				{AccountID: "a", DebitAmount: d("100.01")},
				{AccountID: "b", CreditAmount: d("100")},
			},
		},
		{
			name: "outside tolerance",
			lines: []domain.TransactionLine{
				{AccountID: "a", DebitAmount: d("100.02")},
				{AccountID: "b", CreditAmount: d("100")},
			},
			unbalanced: true,
			validation: true,
		},
		{
			name:       "single line",
			lines:      []domain.TransactionLine{{AccountID: "a", DebitAmount: d("0")}},
			unbalanced: true,
			validation: true,
		},
		{
			name: "negative amount",
			lines: []domain.TransactionLine{
				{AccountID: "a", DebitAmount: d("-5")},
				{AccountID: "b", CreditAmount: d("-5")},
			},
			validation: true,
		},
		{
			name: "empty line",
			lines: []domain.TransactionLine{
				{AccountID: "a", DebitAmount: d("5")},
				{AccountID: "b", CreditAmount: d("5")},
				{AccountID: "c"},
			},
			validation: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTransactionLines(tt.lines, tol)
			if !tt.validation {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.ErrorIs(t, err, apperrors.ErrValidation)
			var unbalanced *apperrors.UnbalancedTransactionError
			assert.Equal(t, tt.unbalanced, errors.As(err, &unbalanced))
		})
	}
}
