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

// TransferService defines the behavior needed by TransferHandler.
type TransferService interface {
	CreateTransfer(ctx context.Context, input usecase.CreateTransferInput) (*domain.Transfer, error)
	GetTransfer(ctx context.Context, id string) (*domain.Transfer, error)
	ListTransfers(ctx context.Context, input usecase.ListTransfersInput) ([]*domain.Transfer, error)
}

// TransferHandler handles transfer-related HTTP requests.
type TransferHandler struct {
	transferUC TransferService
	location   *time.Location
}

// NewTransferHandler creates a new TransferHandler. Dates without an offset
// are read in loc.
func NewTransferHandler(transferUC TransferService, loc *time.Location) *TransferHandler {
	if loc == nil {
		loc = time.UTC
	}
	return &TransferHandler{transferUC: transferUC, location: loc}
}

// Create creates a new transfer.
func (h *TransferHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateTransferRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	input, err := req.ToUseCaseInput(h.location)
	if err != nil {
		writeDomainError(w, r, "invalid transfer", err)
		return
	}

	transfer, err := h.transferUC.CreateTransfer(r.Context(), input)
	if err != nil {
		writeDomainError(w, r, "failed to create transfer", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.TransferFromDomain(transfer))
}

// Get retrieves a transfer by ID.
func (h *TransferHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing transfer ID", "")
		return
	}

	transfer, err := h.transferUC.GetTransfer(r.Context(), id)
	if err != nil {
		writeDomainError(w, r, "failed to get transfer", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.TransferFromDomain(transfer))
}

// List lists transfers, optionally within startDate..endDate.
func (h *TransferHandler) List(w http.ResponseWriter, r *http.Request) {
	rng, err := parseRangeQuery(r, h.location)
	if err != nil {
		writeDomainError(w, r, "invalid date range", err)
		return
	}

	var input usecase.ListTransfersInput
	if rng != nil {
		input.Start, input.End = &rng.Start, &rng.End
	}

	transfers, err := h.transferUC.ListTransfers(r.Context(), input)
	if err != nil {
		writeDomainError(w, r, "failed to list transfers", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ListTransfersResponse{
		Transfers: dto.TransfersFromDomain(transfers),
		Total:     int64(len(transfers)),
	})
}
