package redis

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// LookupRecorder is notified of every cache read.
type LookupRecorder interface {
	CacheLookup(hit bool)
}

// ReportCache implements usecase.ReportCache using Redis.
//
// Keys are namespaced by a generation counter. Invalidate bumps the counter,
// so stale entries are never read again and simply expire.
type ReportCache struct {
	client   *redis.Client
	prefix   string
	ttl      time.Duration
	recorder LookupRecorder
}

// NewReportCache creates a new ReportCache. recorder may be nil.
func NewReportCache(client *redis.Client, ttl time.Duration, recorder LookupRecorder) *ReportCache {
	return &ReportCache{
		client:   client,
		prefix:   "report:",
		ttl:      ttl,
		recorder: recorder,
	}
}

func (c *ReportCache) generationKey() string {
	return c.prefix + "generation"
}

func (c *ReportCache) entryKey(generation int64, key string) string {
	return c.prefix + strconv.FormatInt(generation, 10) + ":" + key
}

// Get returns the cached value for key together with the generation it was
// looked up under. The generation is returned on a miss as well.
func (c *ReportCache) Get(ctx context.Context, key string) ([]byte, int64, bool, error) {
	gen, err := c.client.Get(ctx, c.generationKey()).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		return nil, 0, false, err
	}

	val, err := c.client.Get(ctx, c.entryKey(gen, key)).Bytes()
	if errors.Is(err, redis.Nil) {
		c.record(false)
		return nil, gen, false, nil
	}
	if err != nil {
		return nil, 0, false, err
	}

	c.record(true)
	return val, gen, true, nil
}

// Set stores value under key in the given generation for the configured TTL.
// A value computed before an Invalidate lands in a generation nobody reads.
func (c *ReportCache) Set(ctx context.Context, key string, generation int64, value []byte) error {
	return c.client.Set(ctx, c.entryKey(generation, key), value, c.ttl).Err()
}

// Invalidate moves every reader to a fresh generation.
func (c *ReportCache) Invalidate(ctx context.Context) error {
	return c.client.Incr(ctx, c.generationKey()).Err()
}

func (c *ReportCache) record(hit bool) {
	if c.recorder != nil {
		c.recorder.CacheLookup(hit)
	}
}
