package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/moneymanager/internal/adapter/http/dto"
	"github.com/iho/moneymanager/internal/domain"
	"github.com/iho/moneymanager/internal/usecase"
)

type transactionServiceStub struct {
	createFn func(ctx context.Context, input usecase.CreateTransactionInput) (*domain.Transaction, error)
	getFn    func(ctx context.Context, id string) (*domain.Transaction, error)
	listFn   func(ctx context.Context, filter domain.TransactionFilter) ([]*domain.Transaction, error)
	updateFn func(ctx context.Context, id string, patch domain.TransactionPatch) (*domain.Transaction, error)
	deleteFn func(ctx context.Context, id string) error
}

func (s *transactionServiceStub) CreateTransaction(ctx context.Context, input usecase.CreateTransactionInput) (*domain.Transaction, error) {
	return s.createFn(ctx, input)
}

func (s *transactionServiceStub) GetTransaction(ctx context.Context, id string) (*domain.Transaction, error) {
	return s.getFn(ctx, id)
}

func (s *transactionServiceStub) ListTransactions(ctx context.Context, filter domain.TransactionFilter) ([]*domain.Transaction, error) {
	return s.listFn(ctx, filter)
}

func (s *transactionServiceStub) UpdateTransaction(ctx context.Context, id string, patch domain.TransactionPatch) (*domain.Transaction, error) {
	return s.updateFn(ctx, id, patch)
}

func (s *transactionServiceStub) DeleteTransaction(ctx context.Context, id string) error {
	return s.deleteFn(ctx, id)
}

func TestTransactionHandler_Create(t *testing.T) {
	handler := NewTransactionHandler(&transactionServiceStub{
		createFn: func(ctx context.Context, input usecase.CreateTransactionInput) (*domain.Transaction, error) {
			return &domain.Transaction{
				ID:       "t1",
				Type:     input.Type,
				Amount:   input.Amount,
				Category: input.Category,
				Division: input.Division,
				Editable: true,
			}, nil
		},
	}, time.UTC)

	body := `{"type":"income","amount":"500","category":"salary","division":"office"}`
	rec := httptest.NewRecorder()
	handler.Create(rec, httptest.NewRequest(http.MethodPost, "/transactions", bytes.NewBufferString(body)))

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp dto.TransactionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "INCOME", resp.Type)
	assert.Equal(t, "OFFICE", resp.Division)
	assert.Equal(t, "500", resp.Amount.String())
	assert.True(t, resp.Editable)
}

func TestTransactionHandler_CreateRejectsUnknownType(t *testing.T) {
	handler := NewTransactionHandler(&transactionServiceStub{}, time.UTC)

	body := `{"type":"transfer","amount":"5","category":"x","division":"OFFICE"}`
	rec := httptest.NewRecorder()
	handler.Create(rec, httptest.NewRequest(http.MethodPost, "/transactions", bytes.NewBufferString(body)))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTransactionHandler_ListFilters(t *testing.T) {
	var captured domain.TransactionFilter
	handler := NewTransactionHandler(&transactionServiceStub{
		listFn: func(ctx context.Context, filter domain.TransactionFilter) ([]*domain.Transaction, error) {
			captured = filter
			return nil, nil
		},
	}, time.UTC)

	url := "/transactions?startDate=2024-02-01T00:00:00&endDate=2024-02-29T23:59:59&type=expense&division=personal&category=food"
	rec := httptest.NewRecorder()
	handler.List(rec, httptest.NewRequest(http.MethodGet, url, nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.True(t, captured.HasDateRange())
	assert.Equal(t, domain.TransactionTypeExpense, *captured.Type)
	assert.Equal(t, domain.DivisionPersonal, *captured.Division)
	assert.Equal(t, "food", *captured.Category)

	var resp dto.ListTransactionsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotNil(t, resp.Transactions)
	assert.Zero(t, resp.Total)
}

func TestTransactionHandler_ListRejectsBadDivision(t *testing.T) {
	handler := NewTransactionHandler(&transactionServiceStub{}, time.UTC)

	rec := httptest.NewRecorder()
	handler.List(rec, httptest.NewRequest(http.MethodGet, "/transactions?division=home", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTransactionHandler_UpdateOutsideWindow(t *testing.T) {
	handler := NewTransactionHandler(&transactionServiceStub{
		updateFn: func(ctx context.Context, id string, patch domain.TransactionPatch) (*domain.Transaction, error) {
			return nil, &domain.EditWindowExpiredError{Operation: "edited"}
		},
	}, time.UTC)

	req := httptest.NewRequest(http.MethodPut, "/transactions/t1", bytes.NewBufferString(`{"amount":"1"}`))
	rec := httptest.NewRecorder()
	handler.Update(rec, setChiURLParam(req, "id", "t1"))

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "Transaction can only be edited within 12 hours of creation", decodeError(t, rec).Message)
}

func TestTransactionHandler_Delete(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"deleted", nil, http.StatusNoContent},
		{"missing", domain.ErrTransactionNotFound, http.StatusNotFound},
		{"expired", &domain.EditWindowExpiredError{Operation: "deleted"}, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewTransactionHandler(&transactionServiceStub{
				deleteFn: func(ctx context.Context, id string) error { return tt.err },
			}, time.UTC)

			rec := httptest.NewRecorder()
			handler.Delete(rec, setChiURLParam(httptest.NewRequest(http.MethodDelete, "/transactions/t1", nil), "id", "t1"))

			assert.Equal(t, tt.want, rec.Code)
		})
	}
}
