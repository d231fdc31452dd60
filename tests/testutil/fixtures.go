package testutil

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/moneymanager/internal/domain"
	"github.com/iho/moneymanager/internal/infrastructure/postgres"
	"github.com/iho/moneymanager/internal/infrastructure/postgres/generated"
)

// TestDB provides isolated test database connections.
type TestDB struct {
	Pool    *pgxpool.Pool
	Queries *generated.Queries
	t       *testing.T
}

// NewTestDB migrates the database named by DATABASE_URL and connects to it.
// The test is skipped when DATABASE_URL is unset.
func NewTestDB(t *testing.T) *TestDB {
	t.Helper()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		t.Skip("DATABASE_URL not set")
	}

	if err := postgres.RunMigrations(dbURL, zerolog.Nop()); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		t.Fatalf("failed to connect to test database: %v", err)
	}

	if err := pool.Ping(ctx); err != nil {
		t.Fatalf("failed to ping test database: %v", err)
	}

	return &TestDB{
		Pool:    pool,
		Queries: generated.New(pool),
		t:       t,
	}
}

// Cleanup closes the database connection.
func (db *TestDB) Cleanup() {
	db.Pool.Close()
}

// TruncateAll removes all data from tables.
func (db *TestDB) TruncateAll(ctx context.Context) {
	db.t.Helper()

	_, err := db.Pool.Exec(ctx, `TRUNCATE TABLE outbox_events, transactions, categories, transfers, accounts`)
	if err != nil {
		db.t.Fatalf("failed to truncate tables: %v", err)
	}
}

// CreateTestAccount inserts an account holding balance.
func (db *TestDB) CreateTestAccount(ctx context.Context, name string, balance decimal.Decimal) *domain.Account {
	db.t.Helper()

	now := time.Now().UTC()
	id := GenerateID()

	var numericBalance pgtype.Numeric
	if err := numericBalance.Scan(balance.String()); err != nil {
		db.t.Fatalf("invalid test balance %s: %v", balance, err)
	}

	ts := pgtype.Timestamptz{Time: now, Valid: true}

	err := db.Queries.CreateAccount(ctx, generated.CreateAccountParams{
		ID:        id,
		Name:      name,
		Balance:   numericBalance,
		Version:   0,
		CreatedAt: ts,
		UpdatedAt: ts,
	})
	if err != nil {
		db.t.Fatalf("failed to create test account: %v", err)
	}

	return &domain.Account{
		ID:        id,
		Name:      name,
		Balance:   balance,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// GenerateID generates a new ULID.
func GenerateID() string {
	return ulid.Make().String()
}

// Clock is a settable clock for edit-window tests.
type Clock struct {
	mu  sync.Mutex
	now time.Time
}

// NewClock returns a clock stopped at now.
func NewClock(now time.Time) *Clock {
	return &Clock{now: now}
}

// Now returns the current fake time.
func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward by d.
func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}
