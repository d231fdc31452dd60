package generated

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const createTransfer = `-- name: CreateTransfer :exec
INSERT INTO transfers (id, from_account_id, to_account_id, amount, description, date, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)
`

type CreateTransferParams struct {
	ID            string             `json:"id"`
	FromAccountID string             `json:"from_account_id"`
	ToAccountID   string             `json:"to_account_id"`
	Amount        pgtype.Numeric     `json:"amount"`
	Description   string             `json:"description"`
	Date          pgtype.Timestamptz `json:"date"`
	CreatedAt     pgtype.Timestamptz `json:"created_at"`
}

func (q *Queries) CreateTransfer(ctx context.Context, arg CreateTransferParams) error {
	_, err := q.db.Exec(ctx, createTransfer,
		arg.ID,
		arg.FromAccountID,
		arg.ToAccountID,
		arg.Amount,
		arg.Description,
		arg.Date,
		arg.CreatedAt,
	)
	return err
}

const getTransferByID = `-- name: GetTransferByID :one
SELECT id, from_account_id, to_account_id, amount, description, date, created_at
FROM transfers WHERE id = $1
`

func (q *Queries) GetTransferByID(ctx context.Context, id string) (Transfer, error) {
	row := q.db.QueryRow(ctx, getTransferByID, id)
	var i Transfer
	err := row.Scan(
		&i.ID,
		&i.FromAccountID,
		&i.ToAccountID,
		&i.Amount,
		&i.Description,
		&i.Date,
		&i.CreatedAt,
	)
	return i, err
}

const listTransfers = `-- name: ListTransfers :many
SELECT id, from_account_id, to_account_id, amount, description, date, created_at
FROM transfers
ORDER BY date, id
`

func (q *Queries) ListTransfers(ctx context.Context) ([]Transfer, error) {
	rows, err := q.db.Query(ctx, listTransfers)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []Transfer{}
	for rows.Next() {
		var i Transfer
		if err := rows.Scan(
			&i.ID,
			&i.FromAccountID,
			&i.ToAccountID,
			&i.Amount,
			&i.Description,
			&i.Date,
			&i.CreatedAt,
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

const listTransfersByDate = `-- name: ListTransfersByDate :many
SELECT id, from_account_id, to_account_id, amount, description, date, created_at
FROM transfers
WHERE date BETWEEN $1 AND $2
ORDER BY date, id
`

type ListTransfersByDateParams struct {
	Date   pgtype.Timestamptz `json:"date"`
	Date_2 pgtype.Timestamptz `json:"date_2"`
}

func (q *Queries) ListTransfersByDate(ctx context.Context, arg ListTransfersByDateParams) ([]Transfer, error) {
	rows, err := q.db.Query(ctx, listTransfersByDate, arg.Date, arg.Date_2)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []Transfer{}
	for rows.Next() {
		var i Transfer
		if err := rows.Scan(
			&i.ID,
			&i.FromAccountID,
			&i.ToAccountID,
			&i.Amount,
			&i.Description,
			&i.Date,
			&i.CreatedAt,
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
