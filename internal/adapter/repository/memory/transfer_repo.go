package memory

import (
	"context"
	"sort"

	"github.com/iho/moneymanager/internal/domain"
	"github.com/iho/moneymanager/internal/usecase"
)

// TransferRepository implements usecase.TransferRepository.
type TransferRepository struct {
	store *Store
}

// NewTransferRepository creates a new TransferRepository.
func NewTransferRepository(store *Store) *TransferRepository {
	return &TransferRepository{store: store}
}

// Create stages an insert.
func (r *TransferRepository) Create(ctx context.Context, tx usecase.Transaction, transfer *domain.Transfer) error {
	mt, err := asTx(tx)
	if err != nil {
		return err
	}
	row := *transfer
	return mt.stage(func(s *Store) { s.transfers[row.ID] = row })
}

// GetByID returns a transfer by ID.
func (r *TransferRepository) GetByID(ctx context.Context, id string) (*domain.Transfer, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	t, ok := r.store.transfers[id]
	if !ok {
		return nil, domain.ErrTransferNotFound
	}
	return &t, nil
}

// List returns every transfer, or those dated within rng when it is non-nil.
func (r *TransferRepository) List(ctx context.Context, rng *domain.DateRange) ([]*domain.Transfer, error) {
	r.store.mu.RLock()
	out := make([]*domain.Transfer, 0, len(r.store.transfers))
	for _, t := range r.store.transfers {
		t := t
		if rng == nil || rng.Contains(t.Date) {
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
