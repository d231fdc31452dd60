package redis

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// PendingResponse marks a key whose first request is still being served.
const PendingResponse = "processing"

// IdempotencyStore implements usecase.IdempotencyStore using Redis.
type IdempotencyStore struct {
	client *redis.Client
	prefix string
}

// NewIdempotencyStore creates a new IdempotencyStore.
func NewIdempotencyStore(client *redis.Client) *IdempotencyStore {
	return &IdempotencyStore{
		client: client,
		prefix: "idempotency:",
	}
}

// CheckAndSet claims key with response, or with PendingResponse when response
// is nil. If the key is already claimed it returns the stored value.
func (s *IdempotencyStore) CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error) {
	fullKey := s.prefix + key

	var value any = PendingResponse
	if response != nil {
		value = response
	}

	set, err := s.client.SetNX(ctx, fullKey, value, ttl).Result()
	if err != nil {
		return false, nil, err
	}
	if set {
		return false, nil, nil
	}

	existing, err := s.client.Get(ctx, fullKey).Bytes()
	if errors.Is(err, redis.Nil) {
		// expired between the two calls; the caller may retry
		return true, nil, nil
	}
	if err != nil {
		return false, nil, err
	}
	return true, existing, nil
}

// Update updates an existing idempotency key with the final response.
func (s *IdempotencyStore) Update(ctx context.Context, key string, response []byte, ttl time.Duration) error {
	return s.client.Set(ctx, s.prefix+key, response, ttl).Err()
}

// Release forgets key so a failed request can be retried.
func (s *IdempotencyStore) Release(ctx context.Context, key string) error {
	return s.client.Del(ctx, s.prefix+key).Err()
}
