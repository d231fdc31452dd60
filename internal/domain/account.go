package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Account represents a money holder whose balance moves only through transfers
// or explicit account edits.
type Account struct {
	ID        string
	Name      string
	Balance   decimal.Decimal
	Version   int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ValidateDebit checks if account can be debited by amount without going negative.
func (a *Account) ValidateDebit(amount decimal.Decimal) error {
	if a.Balance.LessThan(amount) {
		return &InsufficientBalanceError{AccountID: a.ID, AccountName: a.Name}
	}
	return nil
}

// ApplyDebit returns new balance after debit.
func (a *Account) ApplyDebit(amount decimal.Decimal) decimal.Decimal {
	return a.Balance.Sub(amount)
}

// ApplyCredit returns new balance after credit.
func (a *Account) ApplyCredit(amount decimal.Decimal) decimal.Decimal {
	return a.Balance.Add(amount)
}
