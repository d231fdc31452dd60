package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/iho/moneymanager/internal/domain"
	"github.com/iho/moneymanager/internal/infrastructure/postgres/generated"
	"github.com/iho/moneymanager/internal/usecase"
)

// AccountRepository implements usecase.AccountRepository.
type AccountRepository struct {
	queries *generated.Queries
}

// NewAccountRepository creates a new AccountRepository.
func NewAccountRepository(db generated.DBTX) *AccountRepository {
	return &AccountRepository{queries: generated.New(db)}
}

// Create creates a new account.
func (r *AccountRepository) Create(ctx context.Context, tx usecase.Transaction, account *domain.Account) error {
	queries, err := queriesFor(tx)
	if err != nil {
		return err
	}

	return queries.CreateAccount(ctx, generated.CreateAccountParams{
		ID:        account.ID,
		Name:      account.Name,
		Balance:   decimalToNumeric(account.Balance),
		Version:   account.Version,
		CreatedAt: timeToPgTimestamptz(account.CreatedAt),
		UpdatedAt: timeToPgTimestamptz(account.UpdatedAt),
	})
}

// GetByID retrieves an account by ID.
func (r *AccountRepository) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	row, err := r.queries.GetAccountByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAccountNotFound
		}

		return nil, err
	}

	return rowToAccount(row), nil
}

// GetByIDForUpdate retrieves an account by ID with a FOR UPDATE lock.
func (r *AccountRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Account, error) {
	queries, err := queriesFor(tx)
	if err != nil {
		return nil, err
	}

	row, err := queries.GetAccountByIDForUpdate(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAccountNotFound
		}

		return nil, err
	}

	return rowToAccount(row), nil
}

// GetByIDsForUpdate locks the given accounts in ID order. Missing IDs are
// simply absent from the result.
func (r *AccountRepository) GetByIDsForUpdate(ctx context.Context, tx usecase.Transaction, ids []string) ([]*domain.Account, error) {
	queries, err := queriesFor(tx)
	if err != nil {
		return nil, err
	}

	rows, err := queries.GetAccountsByIDsForUpdate(ctx, ids)
	if err != nil {
		return nil, err
	}

	accounts := make([]*domain.Account, 0, len(rows))
	for _, row := range rows {
		accounts = append(accounts, rowToAccount(row))
	}

	return accounts, nil
}

// UpdateBalance sets the balance of an account and bumps its version.
func (r *AccountRepository) UpdateBalance(ctx context.Context, tx usecase.Transaction, id string, balance decimal.Decimal, updatedAt time.Time) error {
	queries, err := queriesFor(tx)
	if err != nil {
		return err
	}

	return queries.UpdateAccountBalance(ctx, generated.UpdateAccountBalanceParams{
		ID:        id,
		Balance:   decimalToNumeric(balance),
		UpdatedAt: timeToPgTimestamptz(updatedAt),
	})
}

// Update overwrites name, balance and version.
func (r *AccountRepository) Update(ctx context.Context, tx usecase.Transaction, account *domain.Account) error {
	queries, err := queriesFor(tx)
	if err != nil {
		return err
	}

	return queries.UpdateAccount(ctx, generated.UpdateAccountParams{
		ID:        account.ID,
		Name:      account.Name,
		Balance:   decimalToNumeric(account.Balance),
		Version:   account.Version,
		UpdatedAt: timeToPgTimestamptz(account.UpdatedAt),
	})
}

// Delete removes an account.
func (r *AccountRepository) Delete(ctx context.Context, tx usecase.Transaction, id string) error {
	queries, err := queriesFor(tx)
	if err != nil {
		return err
	}

	n, err := queries.DeleteAccount(ctx, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrAccountNotFound
	}

	return nil
}

// List lists accounts with pagination.
func (r *AccountRepository) List(ctx context.Context, limit, offset int) ([]*domain.Account, error) {
	rows, err := r.queries.ListAccounts(ctx, generated.ListAccountsParams{
		Limit:  int32(limit),
		Offset: int32(offset),
	})
	if err != nil {
		return nil, err
	}

	accounts := make([]*domain.Account, 0, len(rows))
	for _, row := range rows {
		accounts = append(accounts, rowToAccount(row))
	}

	return accounts, nil
}

func rowToAccount(row generated.Account) *domain.Account {
	return &domain.Account{
		ID:        row.ID,
		Name:      row.Name,
		Balance:   numericToDecimal(row.Balance),
		Version:   row.Version,
		CreatedAt: row.CreatedAt.Time,
		UpdatedAt: row.UpdatedAt.Time,
	}
}
