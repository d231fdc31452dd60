package memory

import (
	"context"
	"sort"

	"github.com/iho/moneymanager/internal/domain"
	"github.com/iho/moneymanager/internal/usecase"
)

// TransactionRepository implements usecase.TransactionRepository.
type TransactionRepository struct {
	store *Store
}

// NewTransactionRepository creates a new TransactionRepository.
func NewTransactionRepository(store *Store) *TransactionRepository {
	return &TransactionRepository{store: store}
}

// Create stages an insert.
func (r *TransactionRepository) Create(ctx context.Context, tx usecase.Transaction, t *domain.Transaction) error {
	mt, err := asTx(tx)
	if err != nil {
		return err
	}
	row := *t
	row.Editable = false
	return mt.stage(func(s *Store) { s.transactions[row.ID] = row })
}

// GetByID returns the committed transaction.
func (r *TransactionRepository) GetByID(ctx context.Context, id string) (*domain.Transaction, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	t, ok := r.store.transactions[id]
	if !ok {
		return nil, domain.ErrTransactionNotFound
	}
	return &t, nil
}

// GetByIDForUpdate locks the row for the rest of tx.
func (r *TransactionRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Transaction, error) {
	mt, err := asTx(tx)
	if err != nil {
		return nil, err
	}
	if err := mt.lock(ctx, transactionKey(id)); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

// Update stages a row write. CreatedAt is never overwritten.
func (r *TransactionRepository) Update(ctx context.Context, tx usecase.Transaction, t *domain.Transaction) error {
	mt, err := asTx(tx)
	if err != nil {
		return err
	}
	row := *t
	row.Editable = false
	return mt.stage(func(s *Store) {
		old, ok := s.transactions[row.ID]
		if !ok {
			return
		}
		row.CreatedAt = old.CreatedAt
		s.transactions[row.ID] = row
	})
}

// Delete stages a delete.
func (r *TransactionRepository) Delete(ctx context.Context, tx usecase.Transaction, id string) error {
	mt, err := asTx(tx)
	if err != nil {
		return err
	}
	return mt.stage(func(s *Store) { delete(s.transactions, id) })
}

// List returns committed transactions matching filter, oldest business date first.
func (r *TransactionRepository) List(ctx context.Context, filter domain.TransactionFilter) ([]*domain.Transaction, error) {
	r.store.mu.RLock()
	out := make([]*domain.Transaction, 0)
	for _, t := range r.store.transactions {
		t := t
		if filter.Matches(&t) {
			out = append(out, &t)
		}
	}
	r.store.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}
