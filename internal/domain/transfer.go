package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transfer represents a money movement between two accounts.
type Transfer struct {
	ID            string
	FromAccountID string
	ToAccountID   string
	Amount        decimal.Decimal
	Description   string
	Date          time.Time
	CreatedAt     time.Time
}

// Validate validates transfer request.
func (t *Transfer) Validate() error {
	if t.FromAccountID == t.ToAccountID {
		return ErrSameAccount
	}

	if t.Amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}

	return nil
}

// DateRange is an inclusive pair of instants.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether t lies within the range, bounds included.
func (r DateRange) Contains(t time.Time) bool {
	return !t.Before(r.Start) && !t.After(r.End)
}
