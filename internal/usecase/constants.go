package usecase

import "time"

const (
	// DefaultTransactionTimeout is the maximum duration for a database transaction
	// This prevents long-running transactions from blocking tables
	DefaultTransactionTimeout = 10 * time.Second

	// IdempotencyKeyTTL is how long idempotency keys are cached
	IdempotencyKeyTTL = 24 * time.Hour

	// DefaultListLimit applies when a caller asks for no particular page size.
	DefaultListLimit = 20

	// MaxListLimit caps a single page.
	MaxListLimit = 100
)

// SystemClock reads the wall clock in UTC.
type SystemClock struct{}

// Now returns the current UTC time.
func (SystemClock) Now() time.Time { return time.Now().UTC() }
