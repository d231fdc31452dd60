package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/moneymanager/internal/adapter/http/dto"
	"github.com/iho/moneymanager/internal/domain"
	"github.com/iho/moneymanager/internal/usecase"
)

// AccountService defines the behavior needed by AccountHandler.
type AccountService interface {
	CreateAccount(ctx context.Context, input usecase.CreateAccountInput) (*domain.Account, error)
	GetAccount(ctx context.Context, id string) (*domain.Account, error)
	ListAccounts(ctx context.Context, input usecase.ListAccountsInput) ([]*domain.Account, error)
	UpdateAccount(ctx context.Context, id string, input usecase.UpdateAccountInput) (*domain.Account, error)
	DeleteAccount(ctx context.Context, id string) error
}

// AccountHandler handles account-related HTTP requests.
type AccountHandler struct {
	accountUC AccountService
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(accountUC AccountService) *AccountHandler {
	return &AccountHandler{accountUC: accountUC}
}

// Create creates a new account.
func (h *AccountHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateAccountRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	account, err := h.accountUC.CreateAccount(r.Context(), req.ToUseCaseInput())
	if err != nil {
		writeDomainError(w, r, "failed to create account", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.AccountFromDomain(account))
}

// Get retrieves an account by ID.
func (h *AccountHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing account ID", "")
		return
	}

	account, err := h.accountUC.GetAccount(r.Context(), id)
	if err != nil {
		writeDomainError(w, r, "failed to get account", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.AccountFromDomain(account))
}

// List lists accounts.
func (h *AccountHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := parseIntQuery(r, "limit", usecase.DefaultListLimit)
	offset := parseIntQuery(r, "offset", 0)

	accounts, err := h.accountUC.ListAccounts(r.Context(), usecase.ListAccountsInput{
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		writeDomainError(w, r, "failed to list accounts", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ListAccountsResponse{
		Accounts: dto.AccountsFromDomain(accounts),
		Total:    int64(len(accounts)),
	})
}

// Update edits an account's name or balance.
func (h *AccountHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing account ID", "")
		return
	}

	var req dto.UpdateAccountRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	account, err := h.accountUC.UpdateAccount(r.Context(), id, req.ToUseCaseInput())
	if err != nil {
		writeDomainError(w, r, "failed to update account", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.AccountFromDomain(account))
}

// Delete removes an account. Its transfers are kept.
func (h *AccountHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing account ID", "")
		return
	}

	if err := h.accountUC.DeleteAccount(r.Context(), id); err != nil {
		writeDomainError(w, r, "failed to delete account", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
