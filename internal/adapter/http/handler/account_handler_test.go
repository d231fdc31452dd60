package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/iho/moneymanager/internal/adapter/http/dto"
	"github.com/iho/moneymanager/internal/domain"
	"github.com/iho/moneymanager/internal/usecase"
)

type accountServiceStub struct {
	createFn func(ctx context.Context, input usecase.CreateAccountInput) (*domain.Account, error)
	getFn    func(ctx context.Context, id string) (*domain.Account, error)
	listFn   func(ctx context.Context, input usecase.ListAccountsInput) ([]*domain.Account, error)
	updateFn func(ctx context.Context, id string, input usecase.UpdateAccountInput) (*domain.Account, error)
	deleteFn func(ctx context.Context, id string) error
}

func (s *accountServiceStub) CreateAccount(ctx context.Context, input usecase.CreateAccountInput) (*domain.Account, error) {
	return s.createFn(ctx, input)
}

func (s *accountServiceStub) GetAccount(ctx context.Context, id string) (*domain.Account, error) {
	return s.getFn(ctx, id)
}

func (s *accountServiceStub) ListAccounts(ctx context.Context, input usecase.ListAccountsInput) ([]*domain.Account, error) {
	return s.listFn(ctx, input)
}

func (s *accountServiceStub) UpdateAccount(ctx context.Context, id string, input usecase.UpdateAccountInput) (*domain.Account, error) {
	return s.updateFn(ctx, id, input)
}

func (s *accountServiceStub) DeleteAccount(ctx context.Context, id string) error {
	return s.deleteFn(ctx, id)
}

func TestAccountHandler_Create_Success(t *testing.T) {
	var captured usecase.CreateAccountInput
	handler := NewAccountHandler(&accountServiceStub{
		createFn: func(ctx context.Context, input usecase.CreateAccountInput) (*domain.Account, error) {
			captured = input
			return &domain.Account{ID: "acc-1", Name: input.Name, Balance: *input.Balance}, nil
		},
	})

	req := httptest.NewRequest(http.MethodPost, "/accounts", bytes.NewBufferString(`{"name":"Wallet","balance":"100.50"}`))
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	if captured.Name != "Wallet" || captured.Balance == nil || !captured.Balance.Equal(decimal.RequireFromString("100.5")) {
		t.Fatalf("expected input to match request, got %+v", captured)
	}

	var resp dto.AccountResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.ID != "acc-1" {
		t.Fatalf("expected account ID acc-1, got %s", resp.ID)
	}
}

func TestAccountHandler_Create_InvalidJSON(t *testing.T) {
	handler := NewAccountHandler(&accountServiceStub{
		createFn: func(ctx context.Context, input usecase.CreateAccountInput) (*domain.Account, error) {
			t.Fatal("CreateAccount should not be called for invalid payload")
			return nil, nil
		},
	})

	req := httptest.NewRequest(http.MethodPost, "/accounts", bytes.NewBufferString("{invalid json"))
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestAccountHandler_Create_ServiceError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", domain.ErrInvalidInput, http.StatusBadRequest},
		{"storage", errors.New("db error"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewAccountHandler(&accountServiceStub{
				createFn: func(ctx context.Context, input usecase.CreateAccountInput) (*domain.Account, error) {
					return nil, tt.err
				},
			})

			req := httptest.NewRequest(http.MethodPost, "/accounts", bytes.NewBufferString(`{"name":"x"}`))
			rec := httptest.NewRecorder()

			handler.Create(rec, req)

			if rec.Code != tt.want {
				t.Fatalf("expected %d, got %d", tt.want, rec.Code)
			}
		})
	}
}

func TestAccountHandler_Get(t *testing.T) {
	handler := NewAccountHandler(&accountServiceStub{
		getFn: func(ctx context.Context, id string) (*domain.Account, error) {
			if id != "acc-1" {
				t.Fatalf("expected id acc-1, got %s", id)
			}
			return &domain.Account{ID: "acc-1", Name: "test"}, nil
		},
	})

	req := setChiURLParam(httptest.NewRequest(http.MethodGet, "/accounts/acc-1", nil), "id", "acc-1")
	rec := httptest.NewRecorder()

	handler.Get(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAccountHandler_Get_NotFound(t *testing.T) {
	handler := NewAccountHandler(&accountServiceStub{
		getFn: func(ctx context.Context, id string) (*domain.Account, error) {
			return nil, domain.ErrAccountNotFound
		},
	})

	req := setChiURLParam(httptest.NewRequest(http.MethodGet, "/accounts/acc-1", nil), "id", "acc-1")
	rec := httptest.NewRecorder()

	handler.Get(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestAccountHandler_List(t *testing.T) {
	var captured usecase.ListAccountsInput
	handler := NewAccountHandler(&accountServiceStub{
		listFn: func(ctx context.Context, input usecase.ListAccountsInput) ([]*domain.Account, error) {
			captured = input
			return []*domain.Account{{ID: "a"}, {ID: "b"}}, nil
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/accounts?limit=5&offset=10", nil)
	rec := httptest.NewRecorder()

	handler.List(rec, req)

	if captured.Limit != 5 || captured.Offset != 10 {
		t.Fatalf("unexpected pagination %+v", captured)
	}

	var resp dto.ListAccountsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Total != 2 || len(resp.Accounts) != 2 {
		t.Fatalf("unexpected list response %+v", resp)
	}
}

func TestAccountHandler_UpdatePartial(t *testing.T) {
	var captured usecase.UpdateAccountInput
	handler := NewAccountHandler(&accountServiceStub{
		updateFn: func(ctx context.Context, id string, input usecase.UpdateAccountInput) (*domain.Account, error) {
			captured = input
			return &domain.Account{ID: id, Name: *input.Name}, nil
		},
	})

	req := httptest.NewRequest(http.MethodPut, "/accounts/acc-1", bytes.NewBufferString(`{"name":"Savings"}`))
	req = setChiURLParam(req, "id", "acc-1")
	rec := httptest.NewRecorder()

	handler.Update(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if captured.Name == nil || *captured.Name != "Savings" || captured.Balance != nil {
		t.Fatalf("expected only the name to be set, got %+v", captured)
	}
}

func TestAccountHandler_Delete(t *testing.T) {
	deleted := ""
	handler := NewAccountHandler(&accountServiceStub{
		deleteFn: func(ctx context.Context, id string) error {
			if id == "missing" {
				return domain.ErrAccountNotFound
			}
			deleted = id
			return nil
		},
	})

	rec := httptest.NewRecorder()
	handler.Delete(rec, setChiURLParam(httptest.NewRequest(http.MethodDelete, "/accounts/acc-1", nil), "id", "acc-1"))
	if rec.Code != http.StatusNoContent || deleted != "acc-1" {
		t.Fatalf("expected 204 and deletion, got %d %q", rec.Code, deleted)
	}

	rec = httptest.NewRecorder()
	handler.Delete(rec, setChiURLParam(httptest.NewRequest(http.MethodDelete, "/accounts/missing", nil), "id", "missing"))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}
