package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// EditWindowHours is how long after creation a transaction may still be changed.
const EditWindowHours = 12

// TransactionType classifies a transaction as money in or money out.
type TransactionType string

const (
	TransactionTypeIncome  TransactionType = "INCOME"
	TransactionTypeExpense TransactionType = "EXPENSE"
)

// TransactionTypes lists every transaction type.
var TransactionTypes = []TransactionType{TransactionTypeIncome, TransactionTypeExpense}

// ParseTransactionType matches a token case-insensitively.
func ParseTransactionType(s string) (TransactionType, error) {
	t := TransactionType(strings.ToUpper(strings.TrimSpace(s)))
	switch t {
	case TransactionTypeIncome, TransactionTypeExpense:
		return t, nil
	default:
		return "", ErrInvalidTransactionType
	}
}

// Division is the business context a transaction belongs to.
type Division string

const (
	DivisionOffice   Division = "OFFICE"
	DivisionPersonal Division = "PERSONAL"
)

// Divisions lists every division, in reporting order.
var Divisions = []Division{DivisionOffice, DivisionPersonal}

// ParseDivision matches a token case-insensitively.
func ParseDivision(s string) (Division, error) {
	d := Division(strings.ToUpper(strings.TrimSpace(s)))
	switch d {
	case DivisionOffice, DivisionPersonal:
		return d, nil
	default:
		return "", ErrInvalidDivision
	}
}

// Transaction is a recorded income or expense. It never touches account balances.
type Transaction struct {
	ID          string
	Type        TransactionType
	Amount      decimal.Decimal
	Category    string
	Division    Division
	Description string
	Date        time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time

	// Editable is derived from CreatedAt and the current time; it is never stored.
	Editable bool
}

// IsEditable reports whether a transaction created at createdAt may still be
// modified at now. A zero createdAt means the transaction is not persisted yet.
// The elapsed time is truncated to whole hours before comparing.
func IsEditable(createdAt, now time.Time) bool {
	if createdAt.IsZero() {
		return true
	}
	hours := int64(now.Sub(createdAt) / time.Hour)
	return hours < EditWindowHours
}

// RefreshEditable recomputes the derived Editable flag.
func (t *Transaction) RefreshEditable(now time.Time) {
	t.Editable = IsEditable(t.CreatedAt, now)
}

// Validate checks the fields required of a stored transaction.
func (t *Transaction) Validate() error {
	if _, err := ParseTransactionType(string(t.Type)); err != nil {
		return err
	}
	if _, err := ParseDivision(string(t.Division)); err != nil {
		return err
	}
	if err := ValidateAmount(t.Amount); err != nil {
		return err
	}
	return ValidateCategoryName(t.Category)
}

// TransactionPatch carries a partial update; nil fields are left untouched.
type TransactionPatch struct {
	Type        *TransactionType
	Amount      *decimal.Decimal
	Category    *string
	Division    *Division
	Description *string
	Date        *time.Time
}

// Apply overwrites the fields present in the patch.
func (p TransactionPatch) Apply(t *Transaction) {
	if p.Amount != nil {
		t.Amount = *p.Amount
	}
	if p.Category != nil {
		t.Category = *p.Category
	}
	if p.Division != nil {
		t.Division = *p.Division
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Date != nil {
		t.Date = *p.Date
	}
	if p.Type != nil {
		t.Type = *p.Type
	}
}

// TransactionFilter selects transactions. The date range applies only when
// both bounds are set; both bounds are inclusive.
type TransactionFilter struct {
	Start    *time.Time
	End      *time.Time
	Type     *TransactionType
	Division *Division
	Category *string
}

// HasDateRange reports whether the filter constrains the business date.
func (f TransactionFilter) HasDateRange() bool {
	return f.Start != nil && f.End != nil
}

// Matches evaluates the filter against a single transaction.
func (f TransactionFilter) Matches(t *Transaction) bool {
	if f.HasDateRange() && (t.Date.Before(*f.Start) || t.Date.After(*f.End)) {
		return false
	}
	if f.Type != nil && t.Type != *f.Type {
		return false
	}
	if f.Division != nil && t.Division != *f.Division {
		return false
	}
	if f.Category != nil && t.Category != *f.Category {
		return false
	}
	return true
}
