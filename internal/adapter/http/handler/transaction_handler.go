package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/iho/moneymanager/internal/adapter/http/dto"
	"github.com/iho/moneymanager/internal/domain"
	"github.com/iho/moneymanager/internal/usecase"
)

// TransactionService defines the behavior needed by TransactionHandler.
type TransactionService interface {
	CreateTransaction(ctx context.Context, input usecase.CreateTransactionInput) (*domain.Transaction, error)
	GetTransaction(ctx context.Context, id string) (*domain.Transaction, error)
	ListTransactions(ctx context.Context, filter domain.TransactionFilter) ([]*domain.Transaction, error)
	UpdateTransaction(ctx context.Context, id string, patch domain.TransactionPatch) (*domain.Transaction, error)
	DeleteTransaction(ctx context.Context, id string) error
}

// TransactionHandler handles income and expense requests.
type TransactionHandler struct {
	transactionUC TransactionService
	location      *time.Location
}

// NewTransactionHandler creates a new TransactionHandler.
func NewTransactionHandler(transactionUC TransactionService, loc *time.Location) *TransactionHandler {
	if loc == nil {
		loc = time.UTC
	}
	return &TransactionHandler{transactionUC: transactionUC, location: loc}
}

// Create records a transaction.
func (h *TransactionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateTransactionRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	input, err := req.ToUseCaseInput(h.location)
	if err != nil {
		writeDomainError(w, r, "invalid transaction", err)
		return
	}

	t, err := h.transactionUC.CreateTransaction(r.Context(), input)
	if err != nil {
		writeDomainError(w, r, "failed to create transaction", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.TransactionFromDomain(t))
}

// Get retrieves a transaction by ID.
func (h *TransactionHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	t, err := h.transactionUC.GetTransaction(r.Context(), id)
	if err != nil {
		writeDomainError(w, r, "failed to get transaction", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.TransactionFromDomain(t))
}

// List filters transactions by date range, type, division and category.
func (h *TransactionHandler) List(w http.ResponseWriter, r *http.Request) {
	var filter domain.TransactionFilter

	rng, err := parseRangeQuery(r, h.location)
	if err != nil {
		writeDomainError(w, r, "invalid date range", err)
		return
	}
	if rng != nil {
		filter.Start, filter.End = &rng.Start, &rng.End
	}

	if filter.Type, err = optionalEnum(r, "type", domain.ParseTransactionType); err != nil {
		writeDomainError(w, r, "invalid type", err)
		return
	}
	if filter.Division, err = optionalEnum(r, "division", domain.ParseDivision); err != nil {
		writeDomainError(w, r, "invalid division", err)
		return
	}
	if category := r.URL.Query().Get("category"); category != "" {
		filter.Category = &category
	}

	items, err := h.transactionUC.ListTransactions(r.Context(), filter)
	if err != nil {
		writeDomainError(w, r, "failed to list transactions", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ListTransactionsResponse{
		Transactions: dto.TransactionsFromDomain(items),
		Total:        int64(len(items)),
	})
}

// Update applies a partial edit inside the edit window.
func (h *TransactionHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req dto.UpdateTransactionRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	patch, err := req.ToPatch(h.location)
	if err != nil {
		writeDomainError(w, r, "invalid transaction", err)
		return
	}

	t, err := h.transactionUC.UpdateTransaction(r.Context(), id, patch)
	if err != nil {
		writeDomainError(w, r, "failed to update transaction", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.TransactionFromDomain(t))
}

// Delete removes a transaction inside the edit window.
func (h *TransactionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.transactionUC.DeleteTransaction(r.Context(), id); err != nil {
		writeDomainError(w, r, "failed to delete transaction", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
