package postgres

import (
	"context"

	"github.com/iho/moneymanager/internal/domain"
	"github.com/iho/moneymanager/internal/infrastructure/postgres/generated"
)

// CategoryRepository implements usecase.CategoryRepository.
type CategoryRepository struct {
	queries *generated.Queries
}

// NewCategoryRepository creates a new CategoryRepository.
func NewCategoryRepository(db generated.DBTX) *CategoryRepository {
	return &CategoryRepository{queries: generated.New(db)}
}

// Create inserts a category; duplicate names yield domain.ErrCategoryExists.
func (r *CategoryRepository) Create(ctx context.Context, category *domain.Category) error {
	err := r.queries.CreateCategory(ctx, generated.CreateCategoryParams{
		ID:   category.ID,
		Name: category.Name,
		Type: string(category.Type),
		Icon: category.Icon,
	})
	if isUniqueViolation(err) {
		return domain.ErrCategoryExists
	}
	return err
}

// List returns the catalog ordered by name.
func (r *CategoryRepository) List(ctx context.Context, categoryType *domain.CategoryType) ([]*domain.Category, error) {
	var (
		rows []generated.Category
		err  error
	)
	if categoryType == nil {
		rows, err = r.queries.ListCategories(ctx)
	} else {
		rows, err = r.queries.ListCategoriesByType(ctx, string(*categoryType))
	}
	if err != nil {
		return nil, err
	}

	categories := make([]*domain.Category, 0, len(rows))
	for _, row := range rows {
		categories = append(categories, &domain.Category{
			ID:   row.ID,
			Name: row.Name,
			Type: domain.CategoryType(row.Type),
			Icon: row.Icon,
		})
	}
	return categories, nil
}

// Count returns the catalog size.
func (r *CategoryRepository) Count(ctx context.Context) (int64, error) {
	return r.queries.CountCategories(ctx)
}
