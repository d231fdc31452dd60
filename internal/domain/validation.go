package domain

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// Validation constants
const (
	MaxAccountNameLength  = 255
	MaxCategoryNameLength = 64
	MaxDescriptionLength  = 1024
	MaxAmount             = "1000000000000" // 1 trillion

	// MoneyScale is the number of fractional digits stored for money.
	MoneyScale = 4
)

var maxAmount = decimal.RequireFromString(MaxAmount)

// ValidateAccountName validates account name
func ValidateAccountName(name string) error {
	name = strings.TrimSpace(name)

	if name == "" {
		return fmt.Errorf("%w: account name cannot be empty", ErrInvalidInput)
	}

	if utf8.RuneCountInString(name) > MaxAccountNameLength {
		return fmt.Errorf("%w: account name exceeds %d characters", ErrInvalidInput, MaxAccountNameLength)
	}

	return nil
}

// ValidateCategoryName validates the free-text category key.
func ValidateCategoryName(name string) error {
	name = strings.TrimSpace(name)

	if name == "" {
		return fmt.Errorf("%w: category cannot be empty", ErrInvalidInput)
	}

	if utf8.RuneCountInString(name) > MaxCategoryNameLength {
		return fmt.Errorf("%w: category exceeds %d characters", ErrInvalidInput, MaxCategoryNameLength)
	}

	return nil
}

// ValidateDescription validates optional free text.
func ValidateDescription(description string) error {
	if utf8.RuneCountInString(description) > MaxDescriptionLength {
		return fmt.Errorf("%w: description exceeds %d characters", ErrInvalidInput, MaxDescriptionLength)
	}
	return nil
}

// ValidateAmount validates a transaction or transfer amount.
func ValidateAmount(amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}

	if amount.GreaterThan(maxAmount) {
		return fmt.Errorf("%w: maximum amount is %s", ErrInvalidInput, MaxAmount)
	}

	return validateScale("amount", amount)
}

// ValidateBalance validates a directly assigned account balance.
func ValidateBalance(balance decimal.Decimal) error {
	if balance.IsNegative() {
		return fmt.Errorf("%w: balance cannot be negative", ErrInvalidInput)
	}
	return validateScale("balance", balance)
}

// validateScale rejects values that would be rounded on storage.
// Trailing zeros are fine: 1.50000 is 1.5.
func validateScale(field string, d decimal.Decimal) error {
	if !d.Equal(d.Truncate(MoneyScale)) {
		return fmt.Errorf("%w: %s allows at most %d decimal places", ErrInvalidInput, field, MoneyScale)
	}
	return nil
}
