package handler

import (
	"context"
	"net/http"

	"github.com/iho/moneymanager/internal/adapter/http/dto"
	"github.com/iho/moneymanager/internal/domain"
	"github.com/iho/moneymanager/internal/usecase"
)

// CategoryService defines the behavior needed by CategoryHandler.
type CategoryService interface {
	ListCategories(ctx context.Context, categoryType *domain.CategoryType) ([]*domain.Category, error)
	CreateCategory(ctx context.Context, input usecase.CreateCategoryInput) (*domain.Category, error)
	InitializeDefaults(ctx context.Context) (int, error)
}

// CategoryHandler serves the category catalog.
type CategoryHandler struct {
	categoryUC CategoryService
}

// NewCategoryHandler creates a new CategoryHandler.
func NewCategoryHandler(categoryUC CategoryService) *CategoryHandler {
	return &CategoryHandler{categoryUC: categoryUC}
}

// List returns categories, optionally of one type.
func (h *CategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	categoryType, err := optionalEnum(r, "type", domain.ParseCategoryType)
	if err != nil {
		writeDomainError(w, r, "invalid type", err)
		return
	}

	categories, err := h.categoryUC.ListCategories(r.Context(), categoryType)
	if err != nil {
		writeDomainError(w, r, "failed to list categories", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.CategoriesFromDomain(categories))
}

// Create adds a category.
func (h *CategoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateCategoryRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	input, err := req.ToUseCaseInput()
	if err != nil {
		writeDomainError(w, r, "invalid category", err)
		return
	}

	category, err := h.categoryUC.CreateCategory(r.Context(), input)
	if err != nil {
		writeDomainError(w, r, "failed to create category", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.CategoryFromDomain(category))
}

// Initialize seeds the default catalog when it is empty.
func (h *CategoryHandler) Initialize(w http.ResponseWriter, r *http.Request) {
	created, err := h.categoryUC.InitializeDefaults(r.Context())
	if err != nil {
		writeDomainError(w, r, "failed to initialize categories", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.InitializeCategoriesResponse{Created: created})
}
