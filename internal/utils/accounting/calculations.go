package accounting

import (
	"fmt"

	"github.com/SscSPs/shop_ledger_backend/internal/apperrors"
	"github.com/SscSPs/shop_ledger_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CalculateSignedAmount returns the change a line makes to the balance of an
// account of the given type: +debit−credit for debit-increasing types,
// +credit−debit otherwise. Used by the ledger, the stores and opening-balance reads.
func CalculateSignedAmount(debit, credit decimal.Decimal, accountType domain.AccountType) (decimal.Decimal, error) {
	side, err := domain.SignOf(accountType)
	if err != nil {
		return decimal.Zero, err
	}
	if side == domain.Debit {
		return debit.Sub(credit), nil
	}
	return credit.Sub(debit), nil
}

// CalculateBalanceChanges folds lines into one delta per account.
func CalculateBalanceChanges(lines []domain.TransactionLine, accounts map[string]domain.Account) (map[string]decimal.Decimal, error) {
	changes := make(map[string]decimal.Decimal, len(lines))
	for _, line := range lines {
		acc, ok := accounts[line.AccountID]
		if !ok {
			return nil, fmt.Errorf("%w: account %s referenced by line is not loaded", apperrors.ErrNotFound, line.AccountID)
		}
		delta, err := CalculateSignedAmount(line.DebitAmount, line.CreditAmount, acc.AccountType)
		if err != nil {
			return nil, fmt.Errorf("error calculating signed amount for account %s: %w", line.AccountID, err)
		}
		changes[line.AccountID] = changes[line.AccountID].Add(delta)
	}
	return changes, nil
}

// ValidateTransactionLines checks the posting preconditions: at least two lines,
// non-negative amounts, something on every line, and Σdebit within tolerance of Σcredit.
func ValidateTransactionLines(lines []domain.TransactionLine, tolerance decimal.Decimal) error {
	debits, credits := domain.SumLines(lines)
	if len(lines) < 2 {
		return &apperrors.UnbalancedTransactionError{Debits: debits, Credits: credits, LineCount: len(lines)}
	}

	for i, line := range lines {
		if line.DebitAmount.IsNegative() || line.CreditAmount.IsNegative() {
			return fmt.Errorf("%w: line %d has a negative amount", apperrors.ErrValidation, i)
		}
		if line.DebitAmount.IsZero() && line.CreditAmount.IsZero() {
			return fmt.Errorf("%w: line %d has neither a debit nor a credit amount", apperrors.ErrValidation, i)
		}
	}

	if debits.Sub(credits).Abs().GreaterThan(tolerance) {
		return &apperrors.UnbalancedTransactionError{Debits: debits, Credits: credits, LineCount: len(lines)}
	}
	return nil
}
