package apperrors

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrConflict indicates the resource is in a state that does not allow the requested change.
var ErrConflict = errors.New("resource state conflict")

// ErrInternal indicates an unexpected failure in an underlying dependency.
var ErrInternal = errors.New("internal error")

// ErrInsufficientBalance indicates that an amount exceeds what is available.
var ErrInsufficientBalance = errors.New("insufficient balance")

// AppError carries an HTTP-ish status code alongside a wrapped cause.
type AppError struct {
	Code    int
	Message string
	Err     error
}

// NewAppError creates an AppError.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is lets 5xx AppErrors match ErrInternal without losing the wrapped cause.
func (e *AppError) Is(target error) bool {
	return target == ErrInternal && e.Code >= 500
}

// UnbalancedTransactionError is returned when a transaction's debits and credits
// differ by more than the allowed tolerance, or it has fewer than two lines.
type UnbalancedTransactionError struct {
	Debits    decimal.Decimal
	Credits   decimal.Decimal
	LineCount int
}

func (e *UnbalancedTransactionError) Error() string {
	if e.LineCount < 2 {
		return fmt.Sprintf("unbalanced transaction: at least two lines are required, got %d", e.LineCount)
	}
	return fmt.Sprintf("unbalanced transaction: debits %s do not equal credits %s", e.Debits.String(), e.Credits.String())
}

func (e *UnbalancedTransactionError) Is(target error) bool {
	return target == ErrValidation
}

// AccountNotFoundError is returned when an account code cannot be resolved and
// no account spec was available to create it.
type AccountNotFoundError struct {
	TenantID string
	Code     string
}

func (e *AccountNotFoundError) Error() string {
	return fmt.Sprintf("account with code %s not found for tenant %s", e.Code, e.TenantID)
}

func (e *AccountNotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// InvalidRuleSetError describes why a fee or shipping rule set was rejected.
// Index is the position (after sorting by min) of the offending range, or -1.
type InvalidRuleSetError struct {
	Reason string
	Index  int
}

func (e *InvalidRuleSetError) Error() string {
	if e.Index < 0 {
		return "invalid rule set: " + e.Reason
	}
	return fmt.Sprintf("invalid rule set: range %d: %s", e.Index, e.Reason)
}

func (e *InvalidRuleSetError) Is(target error) bool {
	return target == ErrValidation
}

// InsufficientBalanceError is returned when a withdrawal or advance use exceeds
// what is available.
type InsufficientBalanceError struct {
	Available decimal.Decimal
	Requested decimal.Decimal
}

func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf("insufficient balance: available %s, requested %s", e.Available.String(), e.Requested.String())
}

func (e *InsufficientBalanceError) Is(target error) bool {
	return target == ErrInsufficientBalance || target == ErrValidation
}
