package generated

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const createTransaction = `-- name: CreateTransaction :exec
INSERT INTO transactions (id, type, amount, category, division, description, date, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
`

type CreateTransactionParams struct {
	ID          string             `json:"id"`
	Type        string             `json:"type"`
	Amount      pgtype.Numeric     `json:"amount"`
	Category    string             `json:"category"`
	Division    string             `json:"division"`
	Description string             `json:"description"`
	Date        pgtype.Timestamptz `json:"date"`
	CreatedAt   pgtype.Timestamptz `json:"created_at"`
	UpdatedAt   pgtype.Timestamptz `json:"updated_at"`
}

func (q *Queries) CreateTransaction(ctx context.Context, arg CreateTransactionParams) error {
	_, err := q.db.Exec(ctx, createTransaction,
		arg.ID,
		arg.Type,
		arg.Amount,
		arg.Category,
		arg.Division,
		arg.Description,
		arg.Date,
		arg.CreatedAt,
		arg.UpdatedAt,
	)
	return err
}

const deleteTransaction = `-- name: DeleteTransaction :execrows
DELETE FROM transactions WHERE id = $1
`

func (q *Queries) DeleteTransaction(ctx context.Context, id string) (int64, error) {
	result, err := q.db.Exec(ctx, deleteTransaction, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

const getTransactionByID = `-- name: GetTransactionByID :one
SELECT id, type, amount, category, division, description, date, created_at, updated_at
FROM transactions WHERE id = $1
`

func (q *Queries) GetTransactionByID(ctx context.Context, id string) (Transaction, error) {
	row := q.db.QueryRow(ctx, getTransactionByID, id)
	var i Transaction
	err := row.Scan(
		&i.ID,
		&i.Type,
		&i.Amount,
		&i.Category,
		&i.Division,
		&i.Description,
		&i.Date,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const getTransactionByIDForUpdate = `-- name: GetTransactionByIDForUpdate :one
SELECT id, type, amount, category, division, description, date, created_at, updated_at
FROM transactions WHERE id = $1 FOR UPDATE
`

func (q *Queries) GetTransactionByIDForUpdate(ctx context.Context, id string) (Transaction, error) {
	row := q.db.QueryRow(ctx, getTransactionByIDForUpdate, id)
	var i Transaction
	err := row.Scan(
		&i.ID,
		&i.Type,
		&i.Amount,
		&i.Category,
		&i.Division,
		&i.Description,
		&i.Date,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const listTransactions = `-- name: ListTransactions :many
SELECT id, type, amount, category, division, description, date, created_at, updated_at
FROM transactions
WHERE ($1::timestamptz IS NULL
       OR $2::timestamptz IS NULL
       OR date BETWEEN $1 AND $2)
  AND ($3::text IS NULL OR type = $3)
  AND ($4::text IS NULL OR division = $4)
  AND ($5::text IS NULL OR category = $5)
ORDER BY date, id
`

type ListTransactionsParams struct {
	StartDate pgtype.Timestamptz `json:"start_date"`
	EndDate   pgtype.Timestamptz `json:"end_date"`
	Type      pgtype.Text        `json:"type"`
	Division  pgtype.Text        `json:"division"`
	Category  pgtype.Text        `json:"category"`
}

func (q *Queries) ListTransactions(ctx context.Context, arg ListTransactionsParams) ([]Transaction, error) {
	rows, err := q.db.Query(ctx, listTransactions,
		arg.StartDate,
		arg.EndDate,
		arg.Type,
		arg.Division,
		arg.Category,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []Transaction{}
	for rows.Next() {
		var i Transaction
		if err := rows.Scan(
			&i.ID,
			&i.Type,
			&i.Amount,
			&i.Category,
			&i.Division,
			&i.Description,
			&i.Date,
			&i.CreatedAt,
			&i.UpdatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const updateTransaction = `-- name: UpdateTransaction :exec
UPDATE transactions
SET type = $2, amount = $3, category = $4, division = $5, description = $6, date = $7, updated_at = $8
WHERE id = $1
`

type UpdateTransactionParams struct {
	ID          string             `json:"id"`
	Type        string             `json:"type"`
	Amount      pgtype.Numeric     `json:"amount"`
	Category    string             `json:"category"`
	Division    string             `json:"division"`
	Description string             `json:"description"`
	Date        pgtype.Timestamptz `json:"date"`
	UpdatedAt   pgtype.Timestamptz `json:"updated_at"`
}

func (q *Queries) UpdateTransaction(ctx context.Context, arg UpdateTransactionParams) error {
	_, err := q.db.Exec(ctx, updateTransaction,
		arg.ID,
		arg.Type,
		arg.Amount,
		arg.Category,
		arg.Division,
		arg.Description,
		arg.Date,
		arg.UpdatedAt,
	)
	return err
}
