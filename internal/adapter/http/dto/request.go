package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/moneymanager/internal/domain"
	"github.com/iho/moneymanager/internal/usecase"
)

// CreateAccountRequest represents a request to create an account.
type CreateAccountRequest struct {
	Name    string           `json:"name"`
	Balance *decimal.Decimal `json:"balance,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateAccountRequest) ToUseCaseInput() usecase.CreateAccountInput {
	return usecase.CreateAccountInput{
		Name:    r.Name,
		Balance: r.Balance,
	}
}

// UpdateAccountRequest is a partial account edit.
type UpdateAccountRequest struct {
	Name    *string          `json:"name,omitempty"`
	Balance *decimal.Decimal `json:"balance,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *UpdateAccountRequest) ToUseCaseInput() usecase.UpdateAccountInput {
	return usecase.UpdateAccountInput{
		Name:    r.Name,
		Balance: r.Balance,
	}
}

// CreateTransferRequest represents a request to create a transfer.
type CreateTransferRequest struct {
	FromAccountID string          `json:"from_account_id"`
	ToAccountID   string          `json:"to_account_id"`
	Amount        decimal.Decimal `json:"amount"`
	Description   string          `json:"description,omitempty"`
	Date          *string         `json:"date,omitempty"`
}

// ToUseCaseInput converts to use case input, reading Date in loc.
func (r *CreateTransferRequest) ToUseCaseInput(loc *time.Location) (usecase.CreateTransferInput, error) {
	date, err := parseOptionalDateTime(r.Date, loc)
	if err != nil {
		return usecase.CreateTransferInput{}, err
	}
	return usecase.CreateTransferInput{
		FromAccountID: r.FromAccountID,
		ToAccountID:   r.ToAccountID,
		Amount:        r.Amount,
		Description:   r.Description,
		Date:          date,
	}, nil
}

// CreateTransactionRequest represents a request to record income or expense.
type CreateTransactionRequest struct {
	Type        string          `json:"type"`
	Amount      decimal.Decimal `json:"amount"`
	Category    string          `json:"category"`
	Division    string          `json:"division"`
	Description string          `json:"description,omitempty"`
	Date        *string         `json:"date,omitempty"`
}

// ToUseCaseInput converts to use case input, reading Date in loc.
func (r *CreateTransactionRequest) ToUseCaseInput(loc *time.Location) (usecase.CreateTransactionInput, error) {
	txType, err := domain.ParseTransactionType(r.Type)
	if err != nil {
		return usecase.CreateTransactionInput{}, err
	}
	division, err := domain.ParseDivision(r.Division)
	if err != nil {
		return usecase.CreateTransactionInput{}, err
	}
	date, err := parseOptionalDateTime(r.Date, loc)
	if err != nil {
		return usecase.CreateTransactionInput{}, err
	}
	return usecase.CreateTransactionInput{
		Type:        txType,
		Amount:      r.Amount,
		Category:    r.Category,
		Division:    division,
		Description: r.Description,
		Date:        date,
	}, nil
}

// UpdateTransactionRequest is a partial transaction edit; omitted fields are kept.
type UpdateTransactionRequest struct {
	Type        *string          `json:"type,omitempty"`
	Amount      *decimal.Decimal `json:"amount,omitempty"`
	Category    *string          `json:"category,omitempty"`
	Division    *string          `json:"division,omitempty"`
	Description *string          `json:"description,omitempty"`
	Date        *string          `json:"date,omitempty"`
}

// ToPatch converts the request into a domain patch.
func (r *UpdateTransactionRequest) ToPatch(loc *time.Location) (domain.TransactionPatch, error) {
	patch := domain.TransactionPatch{
		Amount:      r.Amount,
		Category:    r.Category,
		Description: r.Description,
	}
	if r.Type != nil {
		t, err := domain.ParseTransactionType(*r.Type)
		if err != nil {
			return patch, err
		}
		patch.Type = &t
	}
	if r.Division != nil {
		d, err := domain.ParseDivision(*r.Division)
		if err != nil {
			return patch, err
		}
		patch.Division = &d
	}
	date, err := parseOptionalDateTime(r.Date, loc)
	if err != nil {
		return patch, err
	}
	patch.Date = date
	return patch, nil
}

// CreateCategoryRequest adds a catalog entry.
type CreateCategoryRequest struct {
	Name string `json:"name"`
	Type string `json:"type"`
	Icon string `json:"icon,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateCategoryRequest) ToUseCaseInput() (usecase.CreateCategoryInput, error) {
	categoryType, err := domain.ParseCategoryType(r.Type)
	if err != nil {
		return usecase.CreateCategoryInput{}, err
	}
	return usecase.CreateCategoryInput{
		Name: r.Name,
		Type: categoryType,
		Icon: r.Icon,
	}, nil
}
