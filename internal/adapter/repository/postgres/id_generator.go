package postgres

import (
	"crypto/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// ULIDGenerator generates ULID-based IDs. IDs produced by one generator are
// strictly increasing, even within the same millisecond.
type ULIDGenerator struct {
	mu      sync.Mutex
	entropy *ulid.MonotonicEntropy
	now     func() time.Time
}

// NewULIDGenerator creates a new ULIDGenerator.
func NewULIDGenerator() *ULIDGenerator {
	return &ULIDGenerator{
		entropy: ulid.Monotonic(rand.Reader, 0),
		now:     time.Now,
	}
}

// Generate generates a new ULID.
func (g *ULIDGenerator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	return ulid.MustNew(ulid.Timestamp(g.now()), g.entropy).String()
}
