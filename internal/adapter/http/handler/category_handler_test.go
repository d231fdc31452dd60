package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/moneymanager/internal/adapter/http/dto"
	"github.com/iho/moneymanager/internal/domain"
	"github.com/iho/moneymanager/internal/usecase"
)

type categoryServiceStub struct {
	listFn   func(ctx context.Context, categoryType *domain.CategoryType) ([]*domain.Category, error)
	createFn func(ctx context.Context, input usecase.CreateCategoryInput) (*domain.Category, error)
	initFn   func(ctx context.Context) (int, error)
}

func (s *categoryServiceStub) ListCategories(ctx context.Context, categoryType *domain.CategoryType) ([]*domain.Category, error) {
	return s.listFn(ctx, categoryType)
}

func (s *categoryServiceStub) CreateCategory(ctx context.Context, input usecase.CreateCategoryInput) (*domain.Category, error) {
	return s.createFn(ctx, input)
}

func (s *categoryServiceStub) InitializeDefaults(ctx context.Context) (int, error) {
	return s.initFn(ctx)
}

func TestCategoryHandler_ListByType(t *testing.T) {
	var captured *domain.CategoryType
	handler := NewCategoryHandler(&categoryServiceStub{
		listFn: func(ctx context.Context, categoryType *domain.CategoryType) ([]*domain.Category, error) {
			captured = categoryType
			return []*domain.Category{{ID: "c1", Name: "fuel", Type: domain.CategoryTypeBoth, Icon: "⛽"}}, nil
		},
	})

	rec := httptest.NewRecorder()
	handler.List(rec, httptest.NewRequest(http.MethodGet, "/categories?type=income", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, captured)
	assert.Equal(t, domain.CategoryTypeIncome, *captured)

	var resp []dto.CategoryResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp, 1)
	assert.Equal(t, "BOTH", resp[0].Type)
}

func TestCategoryHandler_CreateDuplicate(t *testing.T) {
	handler := NewCategoryHandler(&categoryServiceStub{
		createFn: func(ctx context.Context, input usecase.CreateCategoryInput) (*domain.Category, error) {
			return nil, domain.ErrCategoryExists
		},
	})

	rec := httptest.NewRecorder()
	handler.Create(rec, httptest.NewRequest(http.MethodPost, "/categories", bytes.NewBufferString(`{"name":"food","type":"EXPENSE"}`)))

	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestCategoryHandler_Initialize(t *testing.T) {
	handler := NewCategoryHandler(&categoryServiceStub{
		initFn: func(ctx context.Context) (int, error) { return 17, nil },
	})

	rec := httptest.NewRecorder()
	handler.Initialize(rec, httptest.NewRequest(http.MethodPost, "/categories/initialize", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"created":17}`, rec.Body.String())
}
