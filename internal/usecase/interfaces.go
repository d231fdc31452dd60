package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/moneymanager/internal/domain"
)

// AccountRepository defines data access for accounts.
type AccountRepository interface {
	Create(ctx context.Context, tx Transaction, account *domain.Account) error
	GetByID(ctx context.Context, id string) (*domain.Account, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, id string) (*domain.Account, error)
	GetByIDsForUpdate(ctx context.Context, tx Transaction, ids []string) ([]*domain.Account, error)
	UpdateBalance(ctx context.Context, tx Transaction, id string, balance decimal.Decimal, updatedAt time.Time) error
	Update(ctx context.Context, tx Transaction, account *domain.Account) error
	Delete(ctx context.Context, tx Transaction, id string) error
	List(ctx context.Context, limit, offset int) ([]*domain.Account, error)
}

// TransferRepository defines data access for transfers.
type TransferRepository interface {
	Create(ctx context.Context, tx Transaction, transfer *domain.Transfer) error
	GetByID(ctx context.Context, id string) (*domain.Transfer, error)
	// List returns all transfers, or only those dated within r when r is non-nil.
	List(ctx context.Context, r *domain.DateRange) ([]*domain.Transfer, error)
}

// TransactionRepository defines data access for income and expense records.
type TransactionRepository interface {
	Create(ctx context.Context, tx Transaction, t *domain.Transaction) error
	GetByID(ctx context.Context, id string) (*domain.Transaction, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, id string) (*domain.Transaction, error)
	Update(ctx context.Context, tx Transaction, t *domain.Transaction) error
	Delete(ctx context.Context, tx Transaction, id string) error
	List(ctx context.Context, filter domain.TransactionFilter) ([]*domain.Transaction, error)
}

// CategoryRepository defines data access for the category catalog.
type CategoryRepository interface {
	Create(ctx context.Context, category *domain.Category) error
	List(ctx context.Context, categoryType *domain.CategoryType) ([]*domain.Category, error)
	Count(ctx context.Context) (int64, error)
}

// OutboxRepository defines data access for outbox events.
type OutboxRepository interface {
	Create(ctx context.Context, tx Transaction, event *domain.OutboxEvent) error
	GetUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error)
	MarkPublished(ctx context.Context, id string, publishedAt time.Time) error
	DeletePublished(ctx context.Context, before time.Time) error
}

// Transaction represents a storage transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// Retrier re-runs an operation while it fails with a transient storage error.
// Implementations return an error wrapping domain.ErrConflict once retries run out.
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// Clock supplies the current time.
type Clock interface {
	Now() time.Time
}

// ReportCache stores rendered report results for a short time.
//
// Get returns the generation it read, hit or miss. Set must be passed that
// generation, not the current one.
type ReportCache interface {
	Get(ctx context.Context, key string) (value []byte, generation int64, ok bool, err error)
	Set(ctx context.Context, key string, generation int64, value []byte) error
	// Invalidate drops every cached report.
	Invalidate(ctx context.Context) error
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
	// Release drops the key so the request can be retried.
	Release(ctx context.Context, key string) error
}

// TransferRecorder receives transfer outcomes for instrumentation.
type TransferRecorder interface {
	TransferSucceeded(amount decimal.Decimal, elapsed time.Duration)
	TransferFailed(kind string)
}
