// Package memory is an in-process ledger store. Rows locked through the
// ForUpdate methods stay locked until the owning transaction ends, and writes
// made inside a transaction become visible only when it commits.
package memory

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/iho/moneymanager/internal/domain"
	"github.com/iho/moneymanager/internal/usecase"
)

// ErrForeignTransaction is returned when a repository receives a transaction
// that was not started by this store.
var ErrForeignTransaction = errors.New("memory: transaction not started by this store")

// Store holds every table in memory.
type Store struct {
	mu           sync.RWMutex
	accounts     map[string]domain.Account
	transactions map[string]domain.Transaction
	transfers    map[string]domain.Transfer
	categories   map[string]domain.Category
	outbox       map[string]domain.OutboxEvent

	lockMu sync.Mutex
	locks  map[string]*rowLock
}

// rowLock is a one-slot semaphore. refs counts the holder plus waiters; the
// entry is dropped from Store.locks when it reaches zero.
type rowLock struct {
	ch   chan struct{}
	refs int
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{
		accounts:     make(map[string]domain.Account),
		transactions: make(map[string]domain.Transaction),
		transfers:    make(map[string]domain.Transfer),
		categories:   make(map[string]domain.Category),
		outbox:       make(map[string]domain.OutboxEvent),
		locks:        make(map[string]*rowLock),
	}
}

// acquire blocks until the row lock for key is held or ctx is done.
func (s *Store) acquire(ctx context.Context, key string) (*rowLock, error) {
	s.lockMu.Lock()
	l, ok := s.locks[key]
	if !ok {
		l = &rowLock{ch: make(chan struct{}, 1)}
		s.locks[key] = l
	}
	l.refs++
	s.lockMu.Unlock()

	select {
	case l.ch <- struct{}{}:
		return l, nil
	case <-ctx.Done():
		s.unref(key, l)
		return nil, ctx.Err()
	}
}

func (s *Store) release(key string, l *rowLock) {
	<-l.ch
	s.unref(key, l)
}

func (s *Store) unref(key string, l *rowLock) {
	s.lockMu.Lock()
	defer s.lockMu.Unlock()
	l.refs--
	if l.refs == 0 {
		delete(s.locks, key)
	}
}

// TxManager implements usecase.TransactionManager.
type TxManager struct {
	store *Store
}

// NewTxManager creates a TxManager over store.
func NewTxManager(store *Store) *TxManager {
	return &TxManager{store: store}
}

// Begin starts a new transaction.
func (m *TxManager) Begin(ctx context.Context) (usecase.Transaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &Tx{store: m.store, held: make(map[string]*rowLock)}, nil
}

// Tx buffers writes and holds row locks until Commit or Rollback.
type Tx struct {
	store   *Store
	mu      sync.Mutex
	held    map[string]*rowLock
	pending []func(*Store)
	done    bool
}

// lock acquires the row locks for keys in sorted order. Locks already held
// by this transaction are skipped.
func (t *Tx) lock(ctx context.Context, keys ...string) error {
	sorted := append([]string(nil), keys...)
	sort.Strings(sorted)

	for _, key := range sorted {
		t.mu.Lock()
		_, owned := t.held[key]
		t.mu.Unlock()
		if owned {
			continue
		}

		l, err := t.store.acquire(ctx, key)
		if err != nil {
			return err
		}

		t.mu.Lock()
		t.held[key] = l
		t.mu.Unlock()
	}
	return nil
}

func (t *Tx) stage(op func(*Store)) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.done {
		return errors.New("memory: transaction already finished")
	}
	t.pending = append(t.pending, op)
	return nil
}

// Commit applies buffered writes atomically and releases row locks.
func (t *Tx) Commit(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.done {
		return errors.New("memory: transaction already finished")
	}

	t.store.mu.Lock()
	for _, op := range t.pending {
		op(t.store)
	}
	t.store.mu.Unlock()

	t.finish()
	return nil
}

// Rollback discards buffered writes and releases row locks. It is a no-op
// after Commit.
func (t *Tx) Rollback(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.done {
		return nil
	}
	t.finish()
	return nil
}

func (t *Tx) finish() {
	t.pending = nil
	t.done = true
	for key, l := range t.held {
		t.store.release(key, l)
		delete(t.held, key)
	}
}

func asTx(tx usecase.Transaction) (*Tx, error) {
	mt, ok := tx.(*Tx)
	if !ok || mt == nil {
		return nil, ErrForeignTransaction
	}
	return mt, nil
}

func accountKey(id string) string     { return "account:" + id }
func transactionKey(id string) string { return "transaction:" + id }
