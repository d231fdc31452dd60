package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/iho/moneymanager/internal/domain"
	"github.com/iho/moneymanager/internal/infrastructure/postgres/generated"
	"github.com/iho/moneymanager/internal/usecase"
)

// TransactionRepository implements usecase.TransactionRepository.
type TransactionRepository struct {
	queries *generated.Queries
}

// NewTransactionRepository creates a new TransactionRepository.
func NewTransactionRepository(db generated.DBTX) *TransactionRepository {
	return &TransactionRepository{queries: generated.New(db)}
}

// Create inserts a transaction.
func (r *TransactionRepository) Create(ctx context.Context, tx usecase.Transaction, t *domain.Transaction) error {
	queries, err := queriesFor(tx)
	if err != nil {
		return err
	}

	return queries.CreateTransaction(ctx, generated.CreateTransactionParams{
		ID:          t.ID,
		Type:        string(t.Type),
		Amount:      decimalToNumeric(t.Amount),
		Category:    t.Category,
		Division:    string(t.Division),
		Description: t.Description,
		Date:        timeToPgTimestamptz(t.Date),
		CreatedAt:   timeToPgTimestamptz(t.CreatedAt),
		UpdatedAt:   timeToPgTimestamptz(t.UpdatedAt),
	})
}

// GetByID retrieves a transaction by ID.
func (r *TransactionRepository) GetByID(ctx context.Context, id string) (*domain.Transaction, error) {
	row, err := r.queries.GetTransactionByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTransactionNotFound
		}
		return nil, err
	}

	return rowToTransaction(row), nil
}

// GetByIDForUpdate retrieves and locks a transaction.
func (r *TransactionRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Transaction, error) {
	queries, err := queriesFor(tx)
	if err != nil {
		return nil, err
	}

	row, err := queries.GetTransactionByIDForUpdate(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTransactionNotFound
		}
		return nil, err
	}

	return rowToTransaction(row), nil
}

// Update writes every mutable column. CreatedAt is never changed.
func (r *TransactionRepository) Update(ctx context.Context, tx usecase.Transaction, t *domain.Transaction) error {
	queries, err := queriesFor(tx)
	if err != nil {
		return err
	}

	return queries.UpdateTransaction(ctx, generated.UpdateTransactionParams{
		ID:          t.ID,
		Type:        string(t.Type),
		Amount:      decimalToNumeric(t.Amount),
		Category:    t.Category,
		Division:    string(t.Division),
		Description: t.Description,
		Date:        timeToPgTimestamptz(t.Date),
		UpdatedAt:   timeToPgTimestamptz(t.UpdatedAt),
	})
}

// Delete removes a transaction.
func (r *TransactionRepository) Delete(ctx context.Context, tx usecase.Transaction, id string) error {
	queries, err := queriesFor(tx)
	if err != nil {
		return err
	}

	n, err := queries.DeleteTransaction(ctx, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrTransactionNotFound
	}
	return nil
}

// List returns the transactions matching filter ordered by date.
func (r *TransactionRepository) List(ctx context.Context, filter domain.TransactionFilter) ([]*domain.Transaction, error) {
	params := generated.ListTransactionsParams{
		Type:     optionalText(filter.Type),
		Division: optionalText(filter.Division),
		Category: optionalText(filter.Category),
	}
	if filter.HasDateRange() {
		params.StartDate = optionalTimestamptz(filter.Start)
		params.EndDate = optionalTimestamptz(filter.End)
	}

	rows, err := r.queries.ListTransactions(ctx, params)
	if err != nil {
		return nil, err
	}

	items := make([]*domain.Transaction, 0, len(rows))
	for _, row := range rows {
		items = append(items, rowToTransaction(row))
	}
	return items, nil
}

func rowToTransaction(row generated.Transaction) *domain.Transaction {
	return &domain.Transaction{
		ID:          row.ID,
		Type:        domain.TransactionType(row.Type),
		Amount:      numericToDecimal(row.Amount),
		Category:    row.Category,
		Division:    domain.Division(row.Division),
		Description: row.Description,
		Date:        row.Date.Time,
		CreatedAt:   row.CreatedAt.Time,
		UpdatedAt:   row.UpdatedAt.Time,
	}
}
