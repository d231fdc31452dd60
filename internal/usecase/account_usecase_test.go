package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/moneymanager/internal/domain"
	"github.com/iho/moneymanager/internal/usecase"
	"github.com/iho/moneymanager/internal/usecase/mocks"
)

func decPtr(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}

func strPtr(s string) *string { return &s }

func TestAccountUseCase_CreateAccount(t *testing.T) {
	tests := []struct {
		name          string
		input         usecase.CreateAccountInput
		setupMocks    func(*mocks.MockAccountRepository, *mocks.MockIDGenerator)
		expectBalance decimal.Decimal
		expectError   error
	}{
		{
			name:  "successful account creation",
			input: usecase.CreateAccountInput{Name: "Cash"},
			setupMocks: func(repo *mocks.MockAccountRepository, idGen *mocks.MockIDGenerator) {
				idGen.GenerateFunc = func() string { return "test-id-123" }
			},
			expectBalance: decimal.Zero,
		},
		{
			name:          "opening balance",
			input:         usecase.CreateAccountInput{Name: "Bank", Balance: decPtr(250)},
			expectBalance: decimal.NewFromInt(250),
		},
		{
			name:        "empty name",
			input:       usecase.CreateAccountInput{Name: "   "},
			expectError: domain.ErrInvalidInput,
		},
		{
			name:        "negative opening balance",
			input:       usecase.CreateAccountInput{Name: "Card", Balance: decPtr(-1)},
			expectError: domain.ErrInvalidInput,
		},
		{
			name:  "create with repository error",
			input: usecase.CreateAccountInput{Name: "Cash"},
			setupMocks: func(repo *mocks.MockAccountRepository, idGen *mocks.MockIDGenerator) {
				repo.CreateFunc = func(context.Context, usecase.Transaction, *domain.Account) error {
					return errors.New("database error")
				}
			},
			expectError: errors.New("database error"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := mocks.NewMockAccountRepository()
			idGen := mocks.NewMockIDGenerator()
			outbox := mocks.NewMockOutboxRepository()
			if tt.setupMocks != nil {
				tt.setupMocks(repo, idGen)
			}

			uc := usecase.NewAccountUseCase(mocks.NewMockTransactionManager(), repo, outbox, idGen, nil)
			account, err := uc.CreateAccount(context.Background(), tt.input)

			if tt.expectError != nil {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				if errors.Is(tt.expectError, domain.ErrInvalidInput) && !errors.Is(err, domain.ErrInvalidInput) {
					t.Errorf("expected invalid input, got %v", err)
				}
				if len(outbox.Events()) != 0 {
					t.Errorf("expected no outbox events on failure")
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if account.ID == "" {
				t.Error("expected generated ID")
			}
			if !account.Balance.Equal(tt.expectBalance) {
				t.Errorf("expected balance %s, got %s", tt.expectBalance, account.Balance)
			}
			if len(outbox.Events()) != 1 || outbox.Events()[0].EventType != domain.EventTypeAccountCreated {
				t.Errorf("expected one account.created event")
			}
		})
	}
}

func TestAccountUseCase_GetAccount(t *testing.T) {
	repo := mocks.NewMockAccountRepository()
	repo.Seed(&domain.Account{ID: "acc-1", Name: "Cash", Balance: decimal.NewFromInt(10)})
	uc := usecase.NewAccountUseCase(nil, repo, nil, nil, nil)

	t.Run("existing account", func(t *testing.T) {
		account, err := uc.GetAccount(context.Background(), "acc-1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if account.Name != "Cash" {
			t.Errorf("expected Cash, got %s", account.Name)
		}
	})

	t.Run("missing account", func(t *testing.T) {
		_, err := uc.GetAccount(context.Background(), "nope")
		if !errors.Is(err, domain.ErrNotFound) {
			t.Errorf("expected not found, got %v", err)
		}
	})
}

func TestAccountUseCase_ListAccounts(t *testing.T) {
	var gotLimit, gotOffset int
	repo := mocks.NewMockAccountRepository()
	repo.ListFunc = func(_ context.Context, limit, offset int) ([]*domain.Account, error) {
		gotLimit, gotOffset = limit, offset
		return []*domain.Account{}, nil
	}
	uc := usecase.NewAccountUseCase(nil, repo, nil, nil, nil)

	tests := []struct {
		input               usecase.ListAccountsInput
		wantLimit, wantOffs int
	}{
		{usecase.ListAccountsInput{}, usecase.DefaultListLimit, 0},
		{usecase.ListAccountsInput{Limit: 5000, Offset: -3}, usecase.MaxListLimit, 0},
		{usecase.ListAccountsInput{Limit: 7, Offset: 14}, 7, 14},
	}
	for _, tt := range tests {
		if _, err := uc.ListAccounts(context.Background(), tt.input); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if gotLimit != tt.wantLimit || gotOffset != tt.wantOffs {
			t.Errorf("input %+v: got limit=%d offset=%d", tt.input, gotLimit, gotOffset)
		}
	}
}

func TestAccountUseCase_UpdateAccount(t *testing.T) {
	now := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)

	t.Run("rename keeps balance and version", func(t *testing.T) {
		repo := mocks.NewMockAccountRepository()
		repo.Seed(&domain.Account{ID: "a", Name: "Old", Balance: decimal.NewFromInt(5), Version: 2})
		uc := usecase.NewAccountUseCase(mocks.NewMockTransactionManager(), repo, nil, nil, mocks.NewMockClock(now))

		account, err := uc.UpdateAccount(context.Background(), "a", usecase.UpdateAccountInput{Name: strPtr("New")})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if account.Name != "New" || !account.Balance.Equal(decimal.NewFromInt(5)) || account.Version != 2 {
			t.Errorf("unexpected account %+v", account)
		}
		if !account.UpdatedAt.Equal(now) {
			t.Errorf("expected updated_at %v, got %v", now, account.UpdatedAt)
		}
	})

	t.Run("balance edit bumps version", func(t *testing.T) {
		repo := mocks.NewMockAccountRepository()
		repo.Seed(&domain.Account{ID: "a", Name: "Cash", Balance: decimal.NewFromInt(5), Version: 2})
		uc := usecase.NewAccountUseCase(mocks.NewMockTransactionManager(), repo, nil, nil, mocks.NewMockClock(now))

		account, err := uc.UpdateAccount(context.Background(), "a", usecase.UpdateAccountInput{Balance: decPtr(80)})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if account.Name != "Cash" || !account.Balance.Equal(decimal.NewFromInt(80)) || account.Version != 3 {
			t.Errorf("unexpected account %+v", account)
		}

		stored, _ := repo.GetByID(context.Background(), "a")
		if !stored.Balance.Equal(decimal.NewFromInt(80)) {
			t.Errorf("balance not persisted: %s", stored.Balance)
		}
	})

	t.Run("negative balance rejected", func(t *testing.T) {
		repo := mocks.NewMockAccountRepository()
		repo.Seed(&domain.Account{ID: "a", Name: "Cash"})
		uc := usecase.NewAccountUseCase(mocks.NewMockTransactionManager(), repo, nil, nil, nil)

		_, err := uc.UpdateAccount(context.Background(), "a", usecase.UpdateAccountInput{Balance: decPtr(-5)})
		if !errors.Is(err, domain.ErrInvalidInput) {
			t.Errorf("expected invalid input, got %v", err)
		}
	})

	t.Run("missing account", func(t *testing.T) {
		uc := usecase.NewAccountUseCase(mocks.NewMockTransactionManager(), mocks.NewMockAccountRepository(), nil, nil, nil)

		_, err := uc.UpdateAccount(context.Background(), "x", usecase.UpdateAccountInput{Name: strPtr("n")})
		if !errors.Is(err, domain.ErrAccountNotFound) {
			t.Errorf("expected account not found, got %v", err)
		}
	})
}

func TestAccountUseCase_DeleteAccount(t *testing.T) {
	repo := mocks.NewMockAccountRepository()
	repo.Seed(&domain.Account{ID: "a", Name: "Cash"})
	uc := usecase.NewAccountUseCase(mocks.NewMockTransactionManager(), repo, nil, nil, nil)

	if err := uc.DeleteAccount(context.Background(), "a"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := repo.GetByID(context.Background(), "a"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected account to be gone, got %v", err)
	}
	if err := uc.DeleteAccount(context.Background(), "a"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected not found on second delete, got %v", err)
	}
}
