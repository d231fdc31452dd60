package memory

import (
	"context"
	"sort"

	"github.com/iho/moneymanager/internal/domain"
)

// CategoryRepository implements usecase.CategoryRepository.
type CategoryRepository struct {
	store *Store
}

// NewCategoryRepository creates a new CategoryRepository.
func NewCategoryRepository(store *Store) *CategoryRepository {
	return &CategoryRepository{store: store}
}

// Create inserts a category, rejecting duplicate names.
func (r *CategoryRepository) Create(ctx context.Context, category *domain.Category) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, c := range r.store.categories {
		if c.Name == category.Name {
			return domain.ErrCategoryExists
		}
	}
	r.store.categories[category.ID] = *category
	return nil
}

// List returns categories by name, optionally of a single type.
func (r *CategoryRepository) List(ctx context.Context, categoryType *domain.CategoryType) ([]*domain.Category, error) {
	r.store.mu.RLock()
	out := make([]*domain.Category, 0, len(r.store.categories))
	for _, c := range r.store.categories {
		c := c
		if categoryType == nil || c.Type == *categoryType {
			out = append(out, &c)
		}
	}
	r.store.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// Count returns the catalog size.
func (r *CategoryRepository) Count(ctx context.Context) (int64, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	return int64(len(r.store.categories)), nil
}
