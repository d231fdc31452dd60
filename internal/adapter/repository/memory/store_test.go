package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/moneymanager/internal/domain"
	"github.com/iho/moneymanager/internal/usecase"
)

func seedAccount(t *testing.T, store *Store, id string, balance int64) {
	t.Helper()
	ctx := context.Background()
	tx, err := NewTxManager(store).Begin(ctx)
	require.NoError(t, err)
	require.NoError(t, NewAccountRepository(store).Create(ctx, tx, &domain.Account{ID: id, Name: id, Balance: decimal.NewFromInt(balance)}))
	require.NoError(t, tx.Commit(ctx))
}

func TestTx_WritesVisibleOnlyAfterCommit(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	repo := NewAccountRepository(store)

	tx, err := NewTxManager(store).Begin(ctx)
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, tx, &domain.Account{ID: "a", Name: "A"}))

	_, err = repo.GetByID(ctx, "a")
	assert.ErrorIs(t, err, domain.ErrAccountNotFound)

	require.NoError(t, tx.Commit(ctx))

	got, err := repo.GetByID(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "A", got.Name)
}

func TestTx_RollbackDiscardsWrites(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	seedAccount(t, store, "a", 100)
	repo := NewAccountRepository(store)

	tx, _ := NewTxManager(store).Begin(ctx)
	require.NoError(t, repo.UpdateBalance(ctx, tx, "a", decimal.NewFromInt(1), time.Now()))
	require.NoError(t, tx.Rollback(ctx))

	got, err := repo.GetByID(ctx, "a")
	require.NoError(t, err)
	assert.True(t, got.Balance.Equal(decimal.NewFromInt(100)))
	assert.Equal(t, int64(0), got.Version)

	// rollback after rollback is harmless
	assert.NoError(t, tx.Rollback(ctx))
	assert.Error(t, tx.Commit(ctx))
}

func TestTx_RowLockBlocksSecondWriter(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	seedAccount(t, store, "a", 100)
	repo := NewAccountRepository(store)
	mgr := NewTxManager(store)

	first, _ := mgr.Begin(ctx)
	_, err := repo.GetByIDForUpdate(ctx, first, "a")
	require.NoError(t, err)

	second, _ := mgr.Begin(ctx)
	waitCtx, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
	defer cancel()
	_, err = repo.GetByIDForUpdate(waitCtx, second, "a")
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	require.NoError(t, first.Commit(ctx))

	_, err = repo.GetByIDForUpdate(ctx, second, "a")
	assert.NoError(t, err)
	assert.NoError(t, second.Rollback(ctx))
}

func TestTx_RelockingHeldRowDoesNotDeadlock(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	seedAccount(t, store, "a", 1)
	seedAccount(t, store, "b", 1)
	repo := NewAccountRepository(store)

	tx, _ := NewTxManager(store).Begin(ctx)
	_, err := repo.GetByIDForUpdate(ctx, tx, "a")
	require.NoError(t, err)

	accounts, err := repo.GetByIDsForUpdate(ctx, tx, []string{"b", "a", "missing"})
	require.NoError(t, err)
	require.Len(t, accounts, 2)
	assert.Equal(t, "a", accounts[0].ID)
	assert.NoError(t, tx.Commit(ctx))
}

func lockCount(store *Store) int {
	store.lockMu.Lock()
	defer store.lockMu.Unlock()
	return len(store.locks)
}

func TestTx_RowLocksAreDroppedOnceReleased(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	seedAccount(t, store, "a", 1)
	accounts := NewAccountRepository(store)
	transactions := NewTransactionRepository(store)
	mgr := NewTxManager(store)

	for _, id := range []string{"01HNOPE1", "01HNOPE2", "01HNOPE3"} {
		tx, _ := mgr.Begin(ctx)
		_, err := transactions.GetByIDForUpdate(ctx, tx, id)
		assert.ErrorIs(t, err, domain.ErrTransactionNotFound)
		require.NoError(t, tx.Rollback(ctx))
	}
	assert.Equal(t, 0, lockCount(store))

	holder, _ := mgr.Begin(ctx)
	_, err := accounts.GetByIDForUpdate(ctx, holder, "a")
	require.NoError(t, err)

	waiter, _ := mgr.Begin(ctx)
	waitCtx, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
	defer cancel()
	_, err = accounts.GetByIDForUpdate(waitCtx, waiter, "a")
	require.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, 1, lockCount(store))

	require.NoError(t, holder.Commit(ctx))
	require.NoError(t, waiter.Rollback(ctx))
	assert.Equal(t, 0, lockCount(store))
}

type otherTx struct{}

func (otherTx) Commit(context.Context) error   { return nil }
func (otherTx) Rollback(context.Context) error { return nil }

var _ usecase.Transaction = otherTx{}

func TestRepositories_RejectForeignTransaction(t *testing.T) {
	store := NewStore()
	err := NewAccountRepository(store).Create(context.Background(), otherTx{}, &domain.Account{ID: "x"})
	assert.True(t, errors.Is(err, ErrForeignTransaction))
}

func TestTransactionRepository_ListAppliesFilter(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	repo := NewTransactionRepository(store)

	feb := func(day int) time.Time { return time.Date(2024, 2, day, 12, 0, 0, 0, time.UTC) }
	tx, _ := NewTxManager(store).Begin(ctx)
	for i, item := range []domain.Transaction{
		{ID: "1", Type: domain.TransactionTypeIncome, Category: "salary", Division: domain.DivisionOffice, Date: feb(10)},
		{ID: "2", Type: domain.TransactionTypeExpense, Category: "food", Division: domain.DivisionPersonal, Date: feb(15)},
		{ID: "3", Type: domain.TransactionTypeExpense, Category: "fuel", Division: domain.DivisionOffice, Date: feb(25)},
	} {
		item := item
		item.Amount = decimal.NewFromInt(int64(i + 1))
		require.NoError(t, repo.Create(ctx, tx, &item))
	}
	require.NoError(t, tx.Commit(ctx))

	expense := domain.TransactionTypeExpense
	start, end := feb(1), feb(20)
	items, err := repo.List(ctx, domain.TransactionFilter{Start: &start, End: &end, Type: &expense})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "2", items[0].ID)

	all, err := repo.List(ctx, domain.TransactionFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)
	assert.Equal(t, "1", all[0].ID)
}

func TestCategoryRepository_UniqueNames(t *testing.T) {
	ctx := context.Background()
	repo := NewCategoryRepository(NewStore())

	require.NoError(t, repo.Create(ctx, &domain.Category{ID: "1", Name: "food", Type: domain.CategoryTypeExpense}))
	err := repo.Create(ctx, &domain.Category{ID: "2", Name: "food", Type: domain.CategoryTypeBoth})
	assert.ErrorIs(t, err, domain.ErrCategoryExists)

	n, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestOutboxRepository_PublishLifecycle(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	repo := NewOutboxRepository(store)

	tx, _ := NewTxManager(store).Begin(ctx)
	require.NoError(t, repo.Create(ctx, tx, &domain.OutboxEvent{ID: "e1", EventType: domain.EventTypeTransferCreated, CreatedAt: time.Unix(1, 0)}))
	require.NoError(t, repo.Create(ctx, tx, &domain.OutboxEvent{ID: "e2", EventType: domain.EventTypeAccountCreated, CreatedAt: time.Unix(2, 0)}))
	require.NoError(t, tx.Commit(ctx))

	events, err := repo.GetUnpublished(ctx, 1)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "e1", events[0].ID)

	publishedAt := time.Unix(10, 0)
	require.NoError(t, repo.MarkPublished(ctx, "e1", publishedAt))
	require.NoError(t, repo.DeletePublished(ctx, time.Unix(11, 0)))

	events, err = repo.GetUnpublished(ctx, 10)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "e2", events[0].ID)
}
