package memory

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/moneymanager/internal/domain"
	"github.com/iho/moneymanager/internal/usecase"
)

// AccountRepository implements usecase.AccountRepository.
type AccountRepository struct {
	store *Store
}

// NewAccountRepository creates a new AccountRepository.
func NewAccountRepository(store *Store) *AccountRepository {
	return &AccountRepository{store: store}
}

// Create stages an insert.
func (r *AccountRepository) Create(ctx context.Context, tx usecase.Transaction, account *domain.Account) error {
	mt, err := asTx(tx)
	if err != nil {
		return err
	}
	row := *account
	return mt.stage(func(s *Store) { s.accounts[row.ID] = row })
}

// GetByID returns the committed account.
func (r *AccountRepository) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	a, ok := r.store.accounts[id]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	return &a, nil
}

// GetByIDForUpdate locks the account row for the rest of tx.
func (r *AccountRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Account, error) {
	mt, err := asTx(tx)
	if err != nil {
		return nil, err
	}
	if err := mt.lock(ctx, accountKey(id)); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

// GetByIDsForUpdate locks every existing account in ids, in sorted order.
func (r *AccountRepository) GetByIDsForUpdate(ctx context.Context, tx usecase.Transaction, ids []string) ([]*domain.Account, error) {
	mt, err := asTx(tx)
	if err != nil {
		return nil, err
	}
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = accountKey(id)
	}
	if err := mt.lock(ctx, keys...); err != nil {
		return nil, err
	}

	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	accounts := make([]*domain.Account, 0, len(ids))
	for _, id := range ids {
		if a, ok := r.store.accounts[id]; ok {
			accounts = append(accounts, &a)
		}
	}
	sort.Slice(accounts, func(i, j int) bool { return accounts[i].ID < accounts[j].ID })
	return accounts, nil
}

// UpdateBalance stages a balance write and bumps the version.
func (r *AccountRepository) UpdateBalance(ctx context.Context, tx usecase.Transaction, id string, balance decimal.Decimal, updatedAt time.Time) error {
	mt, err := asTx(tx)
	if err != nil {
		return err
	}
	return mt.stage(func(s *Store) {
		a, ok := s.accounts[id]
		if !ok {
			return
		}
		a.Balance = balance
		a.Version++
		a.UpdatedAt = updatedAt
		s.accounts[id] = a
	})
}

// Update stages a full row write.
func (r *AccountRepository) Update(ctx context.Context, tx usecase.Transaction, account *domain.Account) error {
	mt, err := asTx(tx)
	if err != nil {
		return err
	}
	row := *account
	return mt.stage(func(s *Store) {
		if _, ok := s.accounts[row.ID]; ok {
			s.accounts[row.ID] = row
		}
	})
}

// Delete stages a delete.
func (r *AccountRepository) Delete(ctx context.Context, tx usecase.Transaction, id string) error {
	mt, err := asTx(tx)
	if err != nil {
		return err
	}
	return mt.stage(func(s *Store) { delete(s.accounts, id) })
}

// List lists accounts ordered by creation time.
func (r *AccountRepository) List(ctx context.Context, limit, offset int) ([]*domain.Account, error) {
	r.store.mu.RLock()
	all := make([]*domain.Account, 0, len(r.store.accounts))
	for _, a := range r.store.accounts {
		a := a
		all = append(all, &a)
	}
	r.store.mu.RUnlock()

	sort.Slice(all, func(i, j int) bool {
		if !all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].CreatedAt.Before(all[j].CreatedAt)
		}
		return all[i].ID < all[j].ID
	})

	if offset >= len(all) {
		return []*domain.Account{}, nil
	}
	all = all[offset:]
	if limit > 0 && limit < len(all) {
		all = all[:limit]
	}
	return all, nil
}
