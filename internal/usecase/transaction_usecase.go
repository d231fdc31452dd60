package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/moneymanager/internal/domain"
)

// TransactionUseCase records income and expenses and enforces the edit window.
//
// The window is checked against the row locked inside the storage transaction,
// with the clock read after the lock is held. A commit that is slow enough can
// still land moments after the window closes; that race is accepted.
type TransactionUseCase struct {
	txManager  TransactionManager
	repo       TransactionRepository
	outboxRepo OutboxRepository
	cache      ReportCache
	idGen      IDGenerator
	clock      Clock
	logger     zerolog.Logger
}

// TransactionDeps groups the collaborators of TransactionUseCase.
type TransactionDeps struct {
	TxManager  TransactionManager
	Repo       TransactionRepository
	OutboxRepo OutboxRepository
	Cache      ReportCache // optional
	IDGen      IDGenerator
	Clock      Clock
	Logger     zerolog.Logger
}

// NewTransactionUseCase creates a new TransactionUseCase.
func NewTransactionUseCase(deps TransactionDeps) *TransactionUseCase {
	uc := &TransactionUseCase{
		txManager:  deps.TxManager,
		repo:       deps.Repo,
		outboxRepo: deps.OutboxRepo,
		cache:      deps.Cache,
		idGen:      deps.IDGen,
		clock:      deps.Clock,
		logger:     deps.Logger,
	}
	if uc.clock == nil {
		uc.clock = SystemClock{}
	}
	return uc
}

// CreateTransactionInput represents input for recording a transaction.
type CreateTransactionInput struct {
	Type        domain.TransactionType
	Amount      decimal.Decimal
	Category    string
	Division    domain.Division
	Description string
	Date        *time.Time
}

// CreateTransaction records a new income or expense. The date defaults to now.
func (uc *TransactionUseCase) CreateTransaction(ctx context.Context, input CreateTransactionInput) (*domain.Transaction, error) {
	now := uc.clock.Now()

	t := &domain.Transaction{
		ID:          uc.idGen.Generate(),
		Type:        input.Type,
		Amount:      input.Amount,
		Category:    strings.TrimSpace(input.Category),
		Division:    input.Division,
		Description: input.Description,
		Date:        now,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if input.Date != nil {
		t.Date = *input.Date
	}

	if err := t.Validate(); err != nil {
		return nil, err
	}
	if err := domain.ValidateDescription(t.Description); err != nil {
		return nil, err
	}

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := uc.repo.Create(ctx, tx, t); err != nil {
		return nil, fmt.Errorf("create transaction: %w", err)
	}
	if err := uc.outboxRepo.Create(ctx, tx, uc.event(t, domain.EventTypeTransactionCreated, now)); err != nil {
		return nil, fmt.Errorf("create outbox event: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}

	uc.invalidateReports(ctx)
	t.RefreshEditable(uc.clock.Now())

	return t, nil
}

// GetTransaction retrieves a transaction with a freshly computed Editable flag.
func (uc *TransactionUseCase) GetTransaction(ctx context.Context, id string) (*domain.Transaction, error) {
	t, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	t.RefreshEditable(uc.clock.Now())
	return t, nil
}

// ListTransactions returns every transaction matching filter.
func (uc *TransactionUseCase) ListTransactions(ctx context.Context, filter domain.TransactionFilter) ([]*domain.Transaction, error) {
	if filter.HasDateRange() && filter.End.Before(*filter.Start) {
		return nil, fmt.Errorf("%w: end date before start date", domain.ErrInvalidInput)
	}

	items, err := uc.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	now := uc.clock.Now()
	for _, t := range items {
		t.RefreshEditable(now)
	}
	return items, nil
}

// UpdateTransaction applies a partial update while the edit window is open.
func (uc *TransactionUseCase) UpdateTransaction(ctx context.Context, id string, patch domain.TransactionPatch) (*domain.Transaction, error) {
	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	t, err := uc.repo.GetByIDForUpdate(ctx, tx, id)
	if err != nil {
		return nil, err
	}

	now := uc.clock.Now()
	if !domain.IsEditable(t.CreatedAt, now) {
		return nil, &domain.EditWindowExpiredError{Operation: "edited"}
	}

	if patch.Category != nil {
		trimmed := strings.TrimSpace(*patch.Category)
		patch.Category = &trimmed
	}
	patch.Apply(t)
	if err := t.Validate(); err != nil {
		return nil, err
	}
	if err := domain.ValidateDescription(t.Description); err != nil {
		return nil, err
	}
	t.UpdatedAt = now

	if err := uc.repo.Update(ctx, tx, t); err != nil {
		return nil, fmt.Errorf("update transaction: %w", err)
	}
	if err := uc.outboxRepo.Create(ctx, tx, uc.event(t, domain.EventTypeTransactionUpdated, now)); err != nil {
		return nil, fmt.Errorf("create outbox event: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}

	uc.invalidateReports(ctx)
	t.RefreshEditable(uc.clock.Now())

	return t, nil
}

// DeleteTransaction removes a transaction while the edit window is open.
func (uc *TransactionUseCase) DeleteTransaction(ctx context.Context, id string) error {
	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	t, err := uc.repo.GetByIDForUpdate(ctx, tx, id)
	if err != nil {
		return err
	}

	now := uc.clock.Now()
	if !domain.IsEditable(t.CreatedAt, now) {
		return &domain.EditWindowExpiredError{Operation: "deleted"}
	}

	if err := uc.repo.Delete(ctx, tx, id); err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	if err := uc.outboxRepo.Create(ctx, tx, uc.event(t, domain.EventTypeTransactionDeleted, now)); err != nil {
		return fmt.Errorf("create outbox event: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	uc.invalidateReports(ctx)
	return nil
}

func (uc *TransactionUseCase) event(t *domain.Transaction, eventType string, now time.Time) *domain.OutboxEvent {
	return &domain.OutboxEvent{
		ID:            uc.idGen.Generate(),
		AggregateID:   t.ID,
		AggregateType: domain.AggregateTypeTransaction,
		EventType:     eventType,
		Payload: map[string]any{
			"transaction_id": t.ID,
			"type":           string(t.Type),
			"amount":         t.Amount.String(),
			"category":       t.Category,
			"division":       string(t.Division),
			"date":           t.Date.Format(time.RFC3339),
		},
		CreatedAt: now,
	}
}

// invalidateReports drops cached reports. Failures only cost freshness for one TTL.
func (uc *TransactionUseCase) invalidateReports(ctx context.Context) {
	if uc.cache == nil {
		return
	}
	if err := uc.cache.Invalidate(ctx); err != nil {
		uc.logger.Warn().Err(err).Msg("report cache invalidation failed")
	}
}
