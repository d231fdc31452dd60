package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/iho/moneymanager/internal/domain"
)

// CategoryUseCase manages the category catalog.
type CategoryUseCase struct {
	repo  CategoryRepository
	idGen IDGenerator
}

// NewCategoryUseCase creates a new CategoryUseCase.
func NewCategoryUseCase(repo CategoryRepository, idGen IDGenerator) *CategoryUseCase {
	return &CategoryUseCase{repo: repo, idGen: idGen}
}

// ListCategories lists the catalog, optionally restricted to one category type.
func (uc *CategoryUseCase) ListCategories(ctx context.Context, categoryType *domain.CategoryType) ([]*domain.Category, error) {
	return uc.repo.List(ctx, categoryType)
}

// CreateCategoryInput represents input for adding a category.
type CreateCategoryInput struct {
	Name string
	Type domain.CategoryType
	Icon string
}

// CreateCategory adds a category. Names are unique.
func (uc *CategoryUseCase) CreateCategory(ctx context.Context, input CreateCategoryInput) (*domain.Category, error) {
	category := &domain.Category{
		ID:   uc.idGen.Generate(),
		Name: strings.TrimSpace(input.Name),
		Type: input.Type,
		Icon: input.Icon,
	}
	if err := category.Validate(); err != nil {
		return nil, err
	}

	if err := uc.repo.Create(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

// InitializeDefaults seeds the default catalog when it is empty and reports
// how many categories were added. Calling it again is a no-op.
func (uc *CategoryUseCase) InitializeDefaults(ctx context.Context) (int, error) {
	count, err := uc.repo.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("count categories: %w", err)
	}
	if count > 0 {
		return 0, nil
	}

	added := 0
	for _, c := range domain.DefaultCategories() {
		category := c
		category.ID = uc.idGen.Generate()
		if err := uc.repo.Create(ctx, &category); err != nil {
			// a concurrent initializer got there first
			if errors.Is(err, domain.ErrCategoryExists) {
				continue
			}
			return added, fmt.Errorf("seed category %s: %w", category.Name, err)
		}
		added++
	}
	return added, nil
}
