package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/iho/moneymanager/internal/domain"
	"github.com/iho/moneymanager/internal/infrastructure/postgres/generated"
	"github.com/iho/moneymanager/internal/usecase"
)

// TransferRepository implements usecase.TransferRepository.
type TransferRepository struct {
	queries *generated.Queries
}

// NewTransferRepository creates a new TransferRepository.
func NewTransferRepository(db generated.DBTX) *TransferRepository {
	return &TransferRepository{queries: generated.New(db)}
}

// Create creates a new transfer.
func (r *TransferRepository) Create(ctx context.Context, tx usecase.Transaction, transfer *domain.Transfer) error {
	queries, err := queriesFor(tx)
	if err != nil {
		return err
	}

	return queries.CreateTransfer(ctx, generated.CreateTransferParams{
		ID:            transfer.ID,
		FromAccountID: transfer.FromAccountID,
		ToAccountID:   transfer.ToAccountID,
		Amount:        decimalToNumeric(transfer.Amount),
		Description:   transfer.Description,
		Date:          timeToPgTimestamptz(transfer.Date),
		CreatedAt:     timeToPgTimestamptz(transfer.CreatedAt),
	})
}

// GetByID retrieves a transfer by ID.
func (r *TransferRepository) GetByID(ctx context.Context, id string) (*domain.Transfer, error) {
	row, err := r.queries.GetTransferByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTransferNotFound
		}

		return nil, err
	}

	return rowToTransfer(row), nil
}

// List returns every transfer, or only those dated within rng.
func (r *TransferRepository) List(ctx context.Context, rng *domain.DateRange) ([]*domain.Transfer, error) {
	var (
		rows []generated.Transfer
		err  error
	)
	if rng == nil {
		rows, err = r.queries.ListTransfers(ctx)
	} else {
		rows, err = r.queries.ListTransfersByDate(ctx, generated.ListTransfersByDateParams{
			Date:   timeToPgTimestamptz(rng.Start),
			Date_2: timeToPgTimestamptz(rng.End),
		})
	}
	if err != nil {
		return nil, err
	}

	transfers := make([]*domain.Transfer, 0, len(rows))
	for _, row := range rows {
		transfers = append(transfers, rowToTransfer(row))
	}

	return transfers, nil
}

func rowToTransfer(row generated.Transfer) *domain.Transfer {
	return &domain.Transfer{
		ID:            row.ID,
		FromAccountID: row.FromAccountID,
		ToAccountID:   row.ToAccountID,
		Amount:        numericToDecimal(row.Amount),
		Description:   row.Description,
		Date:          row.Date.Time,
		CreatedAt:     row.CreatedAt.Time,
	}
}
