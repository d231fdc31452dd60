package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/moneymanager/internal/infrastructure/postgres/generated"
	"github.com/iho/moneymanager/internal/usecase"
)

// ErrForeignTransaction is returned when a repository receives a transaction
// that was not started by TxManager.
var ErrForeignTransaction = errors.New("postgres: transaction not started by this manager")

type pgxPool interface {
	Begin(context.Context) (pgx.Tx, error)
}

// TxManager implements usecase.TransactionManager.
type TxManager struct {
	pool pgxPool
}

// NewTxManager creates a new TxManager.
func NewTxManager(pool *pgxpool.Pool) *TxManager {
	return newTxManagerWithPool(pool)
}

func newTxManagerWithPool(pool pgxPool) *TxManager {
	return &TxManager{pool: pool}
}

// Begin starts a new READ COMMITTED transaction. Row locks taken with
// FOR UPDATE serialize writers on the same rows.
func (m *TxManager) Begin(ctx context.Context) (usecase.Transaction, error) {
	tx, err := m.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}

	return &Tx{tx: tx}, nil
}

// Tx wraps a pgx transaction.
type Tx struct {
	tx pgx.Tx
}

// Commit commits the transaction.
func (t *Tx) Commit(ctx context.Context) error {
	return t.tx.Commit(ctx)
}

// Rollback rolls back the transaction. Rolling back a finished transaction is a no-op.
func (t *Tx) Rollback(ctx context.Context) error {
	err := t.tx.Rollback(ctx)
	if errors.Is(err, pgx.ErrTxClosed) {
		return nil
	}
	return err
}

// PgxTx returns the underlying pgx.Tx.
func (t *Tx) PgxTx() pgx.Tx {
	return t.tx
}

// queriesFor binds the generated queries to tx.
func queriesFor(tx usecase.Transaction) (*generated.Queries, error) {
	t, ok := tx.(*Tx)
	if !ok || t == nil {
		return nil, ErrForeignTransaction
	}
	return generated.New(t.PgxTx()), nil
}
