package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/moneymanager/internal/domain"
)

// TransferUseCase moves balance between two accounts.
type TransferUseCase struct {
	txManager    TransactionManager
	accountRepo  AccountRepository
	transferRepo TransferRepository
	outboxRepo   OutboxRepository
	retrier      Retrier
	idGen        IDGenerator
	clock        Clock
	recorder     TransferRecorder
}

// TransferDeps groups the collaborators of TransferUseCase.
type TransferDeps struct {
	TxManager    TransactionManager
	AccountRepo  AccountRepository
	TransferRepo TransferRepository
	OutboxRepo   OutboxRepository
	Retrier      Retrier
	IDGen        IDGenerator
	Clock        Clock
	Recorder     TransferRecorder
}

// NewTransferUseCase creates a new TransferUseCase. Clock and Recorder are optional.
func NewTransferUseCase(deps TransferDeps) *TransferUseCase {
	uc := &TransferUseCase{
		txManager:    deps.TxManager,
		accountRepo:  deps.AccountRepo,
		transferRepo: deps.TransferRepo,
		outboxRepo:   deps.OutboxRepo,
		retrier:      deps.Retrier,
		idGen:        deps.IDGen,
		clock:        deps.Clock,
		recorder:     deps.Recorder,
	}
	if uc.clock == nil {
		uc.clock = SystemClock{}
	}
	if uc.recorder == nil {
		uc.recorder = noopRecorder{}
	}
	if uc.retrier == nil {
		uc.retrier = onceRetrier{}
	}
	return uc
}

// CreateTransferInput represents input for creating a transfer.
type CreateTransferInput struct {
	FromAccountID string
	ToAccountID   string
	Amount        decimal.Decimal
	Description   string
	Date          *time.Time
}

// CreateTransfer debits the source account, credits the destination and
// records the transfer as one atomic unit. Nothing is written on failure.
func (uc *TransferUseCase) CreateTransfer(ctx context.Context, input CreateTransferInput) (*domain.Transfer, error) {
	started := time.Now()

	transfer, err := uc.createTransfer(ctx, input)
	if err != nil {
		uc.recorder.TransferFailed(ErrorKind(err))
		return nil, err
	}

	uc.recorder.TransferSucceeded(transfer.Amount, time.Since(started))
	return transfer, nil
}

func (uc *TransferUseCase) createTransfer(ctx context.Context, input CreateTransferInput) (*domain.Transfer, error) {
	probe := domain.Transfer{FromAccountID: input.FromAccountID, ToAccountID: input.ToAccountID, Amount: input.Amount}
	if err := probe.Validate(); err != nil {
		return nil, err
	}
	if err := domain.ValidateAmount(input.Amount); err != nil {
		return nil, err
	}
	if err := domain.ValidateDescription(input.Description); err != nil {
		return nil, err
	}

	var transfer *domain.Transfer
	err := uc.retrier.Retry(ctx, func() error {
		var err error
		transfer, err = uc.execute(ctx, input)
		return err
	})
	if err != nil {
		return nil, err
	}

	return transfer, nil
}

// execute runs a single attempt inside its own storage transaction.
func (uc *TransferUseCase) execute(ctx context.Context, input CreateTransferInput) (*domain.Transfer, error) {
	// Lock rows in a stable order so concurrent transfers over the same pair cannot deadlock.
	ids := []string{input.FromAccountID, input.ToAccountID}
	sort.Strings(ids)

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	accounts, err := uc.accountRepo.GetByIDsForUpdate(ctx, tx, ids)
	if err != nil {
		return nil, err
	}

	var from, to *domain.Account
	for _, a := range accounts {
		switch a.ID {
		case input.FromAccountID:
			from = a
		case input.ToAccountID:
			to = a
		}
	}
	if from == nil || to == nil {
		return nil, domain.ErrAccountNotFound
	}

	if err := from.ValidateDebit(input.Amount); err != nil {
		return nil, err
	}

	now := uc.clock.Now()
	date := now
	if input.Date != nil {
		date = *input.Date
	}

	if err := uc.accountRepo.UpdateBalance(ctx, tx, from.ID, from.ApplyDebit(input.Amount), now); err != nil {
		return nil, fmt.Errorf("debit %s: %w", from.ID, err)
	}
	if err := uc.accountRepo.UpdateBalance(ctx, tx, to.ID, to.ApplyCredit(input.Amount), now); err != nil {
		return nil, fmt.Errorf("credit %s: %w", to.ID, err)
	}

	transfer := &domain.Transfer{
		ID:            uc.idGen.Generate(),
		FromAccountID: from.ID,
		ToAccountID:   to.ID,
		Amount:        input.Amount,
		Description:   input.Description,
		Date:          date,
		CreatedAt:     now,
	}
	if err := uc.transferRepo.Create(ctx, tx, transfer); err != nil {
		return nil, fmt.Errorf("create transfer: %w", err)
	}

	event := &domain.OutboxEvent{
		ID:            uc.idGen.Generate(),
		AggregateID:   transfer.ID,
		AggregateType: domain.AggregateTypeTransfer,
		EventType:     domain.EventTypeTransferCreated,
		Payload: map[string]any{
			"transfer_id":     transfer.ID,
			"from_account_id": transfer.FromAccountID,
			"to_account_id":   transfer.ToAccountID,
			"amount":          transfer.Amount.String(),
			"date":            transfer.Date.Format(time.RFC3339),
		},
		CreatedAt: now,
	}
	if err := uc.outboxRepo.Create(ctx, tx, event); err != nil {
		return nil, fmt.Errorf("create outbox event: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}

	return transfer, nil
}

// GetTransfer retrieves a transfer by ID.
func (uc *TransferUseCase) GetTransfer(ctx context.Context, id string) (*domain.Transfer, error) {
	return uc.transferRepo.GetByID(ctx, id)
}

// ListTransfersInput selects transfers. The range applies only when both bounds are set.
type ListTransfersInput struct {
	Start *time.Time
	End   *time.Time
}

// ListTransfers lists all transfers, or those dated within [Start, End].
func (uc *TransferUseCase) ListTransfers(ctx context.Context, input ListTransfersInput) ([]*domain.Transfer, error) {
	if input.Start != nil && input.End != nil {
		if input.End.Before(*input.Start) {
			return nil, fmt.Errorf("%w: end date before start date", domain.ErrInvalidInput)
		}
		return uc.transferRepo.List(ctx, &domain.DateRange{Start: *input.Start, End: *input.End})
	}
	return uc.transferRepo.List(ctx, nil)
}

// ErrorKind names the failure category of err for metrics labels.
func ErrorKind(err error) string {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrInsufficientBalance):
		return "insufficient_balance"
	case errors.Is(err, domain.ErrEditWindowExpired):
		return "edit_window_expired"
	case errors.Is(err, domain.ErrInvalidInput):
		return "invalid_input"
	case errors.Is(err, domain.ErrConflict):
		return "conflict"
	default:
		return "internal"
	}
}

type noopRecorder struct{}

func (noopRecorder) TransferSucceeded(decimal.Decimal, time.Duration) {}
func (noopRecorder) TransferFailed(string)                            {}

type onceRetrier struct{}

func (onceRetrier) Retry(_ context.Context, operation func() error) error { return operation() }
