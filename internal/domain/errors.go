package domain

import (
	"errors"
	"fmt"
)

// Error kinds. Every error returned by the use cases wraps exactly one of these.
var (
	ErrNotFound            = errors.New("not found")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrEditWindowExpired   = errors.New("edit window expired")
	ErrInvalidInput        = errors.New("invalid input")
	ErrConflict            = errors.New("conflict")
)

var (
	// Lookup errors
	ErrAccountNotFound     = fmt.Errorf("account %w", ErrNotFound)
	ErrTransactionNotFound = fmt.Errorf("transaction %w", ErrNotFound)
	ErrTransferNotFound    = fmt.Errorf("transfer %w", ErrNotFound)
	ErrCategoryNotFound    = fmt.Errorf("category %w", ErrNotFound)

	// Transfer errors
	ErrSameAccount   = fmt.Errorf("%w: cannot transfer to same account", ErrInvalidInput)
	ErrInvalidAmount = fmt.Errorf("%w: amount must be positive", ErrInvalidInput)

	// Enumeration errors
	ErrInvalidTransactionType = fmt.Errorf("%w: transaction type must be INCOME or EXPENSE", ErrInvalidInput)
	ErrInvalidDivision        = fmt.Errorf("%w: division must be OFFICE or PERSONAL", ErrInvalidInput)
	ErrInvalidCategoryType    = fmt.Errorf("%w: category type must be INCOME, EXPENSE or BOTH", ErrInvalidInput)

	ErrCategoryExists = fmt.Errorf("%w: category name already exists", ErrConflict)
)

// InsufficientBalanceError reports the account that could not cover a debit.
type InsufficientBalanceError struct {
	AccountID   string
	AccountName string
}

func (e *InsufficientBalanceError) Error() string {
	return "Insufficient balance in account: " + e.AccountName
}

// Is lets errors.Is match ErrInsufficientBalance.
func (e *InsufficientBalanceError) Is(target error) bool {
	return target == ErrInsufficientBalance
}

// EditWindowExpiredError carries the operation that was rejected.
type EditWindowExpiredError struct {
	Operation string
}

func (e *EditWindowExpiredError) Error() string {
	return fmt.Sprintf("Transaction can only be %s within %d hours of creation", e.Operation, EditWindowHours)
}

// Is lets errors.Is match ErrEditWindowExpired.
func (e *EditWindowExpiredError) Is(target error) bool {
	return target == ErrEditWindowExpired
}
