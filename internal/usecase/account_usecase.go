package usecase

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/iho/moneymanager/internal/domain"
)

// AccountUseCase handles account business logic.
type AccountUseCase struct {
	txManager   TransactionManager
	accountRepo AccountRepository
	outboxRepo  OutboxRepository
	idGen       IDGenerator
	clock       Clock
}

// NewAccountUseCase creates a new AccountUseCase.
func NewAccountUseCase(
	txManager TransactionManager,
	accountRepo AccountRepository,
	outboxRepo OutboxRepository,
	idGen IDGenerator,
	clock Clock,
) *AccountUseCase {
	if clock == nil {
		clock = SystemClock{}
	}
	return &AccountUseCase{
		txManager:   txManager,
		accountRepo: accountRepo,
		outboxRepo:  outboxRepo,
		idGen:       idGen,
		clock:       clock,
	}
}

// CreateAccountInput represents input for creating an account.
type CreateAccountInput struct {
	Name    string
	Balance *decimal.Decimal
}

// CreateAccount creates a new account. The opening balance defaults to zero.
func (uc *AccountUseCase) CreateAccount(ctx context.Context, input CreateAccountInput) (*domain.Account, error) {
	if err := domain.ValidateAccountName(input.Name); err != nil {
		return nil, err
	}

	balance := decimal.Zero
	if input.Balance != nil {
		balance = *input.Balance
	}
	if err := domain.ValidateBalance(balance); err != nil {
		return nil, err
	}

	now := uc.clock.Now()
	account := &domain.Account{
		ID:        uc.idGen.Generate(),
		Name:      input.Name,
		Balance:   balance,
		CreatedAt: now,
		UpdatedAt: now,
	}

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := uc.accountRepo.Create(ctx, tx, account); err != nil {
		return nil, fmt.Errorf("create account: %w", err)
	}

	event := &domain.OutboxEvent{
		ID:            uc.idGen.Generate(),
		AggregateID:   account.ID,
		AggregateType: domain.AggregateTypeAccount,
		EventType:     domain.EventTypeAccountCreated,
		Payload: map[string]any{
			"account_id": account.ID,
			"name":       account.Name,
			"balance":    account.Balance.String(),
		},
		CreatedAt: now,
	}
	if err := uc.outboxRepo.Create(ctx, tx, event); err != nil {
		return nil, fmt.Errorf("create outbox event: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}

	return account, nil
}

// GetAccount retrieves an account by ID.
func (uc *AccountUseCase) GetAccount(ctx context.Context, id string) (*domain.Account, error) {
	return uc.accountRepo.GetByID(ctx, id)
}

// ListAccountsInput represents input for listing accounts.
type ListAccountsInput struct {
	Limit  int
	Offset int
}

// ListAccounts lists accounts with pagination.
func (uc *AccountUseCase) ListAccounts(ctx context.Context, input ListAccountsInput) ([]*domain.Account, error) {
	if input.Limit <= 0 {
		input.Limit = DefaultListLimit
	}
	if input.Limit > MaxListLimit {
		input.Limit = MaxListLimit
	}
	if input.Offset < 0 {
		input.Offset = 0
	}
	return uc.accountRepo.List(ctx, input.Limit, input.Offset)
}

// UpdateAccountInput carries a partial account edit; nil fields are kept.
type UpdateAccountInput struct {
	Name    *string
	Balance *decimal.Decimal
}

// UpdateAccount applies a direct edit to an account's name or balance.
func (uc *AccountUseCase) UpdateAccount(ctx context.Context, id string, input UpdateAccountInput) (*domain.Account, error) {
	if input.Name != nil {
		if err := domain.ValidateAccountName(*input.Name); err != nil {
			return nil, err
		}
	}
	if input.Balance != nil {
		if err := domain.ValidateBalance(*input.Balance); err != nil {
			return nil, err
		}
	}

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	account, err := uc.accountRepo.GetByIDForUpdate(ctx, tx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		account.Name = *input.Name
	}
	if input.Balance != nil && !input.Balance.Equal(account.Balance) {
		account.Balance = *input.Balance
		account.Version++
	}
	account.UpdatedAt = uc.clock.Now()

	if err := uc.accountRepo.Update(ctx, tx, account); err != nil {
		return nil, fmt.Errorf("update account: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}

	return account, nil
}

// DeleteAccount removes an account. Transfers that reference it are kept.
func (uc *AccountUseCase) DeleteAccount(ctx context.Context, id string) error {
	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := uc.accountRepo.GetByIDForUpdate(ctx, tx, id); err != nil {
		return err
	}

	if err := uc.accountRepo.Delete(ctx, tx, id); err != nil {
		return fmt.Errorf("delete account: %w", err)
	}

	return tx.Commit(ctx)
}
