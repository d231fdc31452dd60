package memory

import (
	"context"
	"sort"
	"time"

	"github.com/iho/moneymanager/internal/domain"
	"github.com/iho/moneymanager/internal/usecase"
)

// OutboxRepository implements usecase.OutboxRepository.
type OutboxRepository struct {
	store *Store
}

// NewOutboxRepository creates a new OutboxRepository.
func NewOutboxRepository(store *Store) *OutboxRepository {
	return &OutboxRepository{store: store}
}

// Create stages an event alongside the rest of tx.
func (r *OutboxRepository) Create(ctx context.Context, tx usecase.Transaction, event *domain.OutboxEvent) error {
	mt, err := asTx(tx)
	if err != nil {
		return err
	}
	row := *event
	return mt.stage(func(s *Store) { s.outbox[row.ID] = row })
}

// GetUnpublished returns up to limit unpublished events, oldest first.
func (r *OutboxRepository) GetUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error) {
	r.store.mu.RLock()
	out := make([]*domain.OutboxEvent, 0)
	for _, e := range r.store.outbox {
		e := e
		if !e.Published {
			out = append(out, &e)
		}
	}
	r.store.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// MarkPublished marks an event as published.
func (r *OutboxRepository) MarkPublished(ctx context.Context, id string, publishedAt time.Time) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	e, ok := r.store.outbox[id]
	if !ok {
		return nil
	}
	e.Published = true
	e.PublishedAt = &publishedAt
	r.store.outbox[id] = e
	return nil
}

// DeletePublished deletes published events older than before.
func (r *OutboxRepository) DeletePublished(ctx context.Context, before time.Time) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for id, e := range r.store.outbox {
		if e.Published && e.PublishedAt != nil && e.PublishedAt.Before(before) {
			delete(r.store.outbox, id)
		}
	}
	return nil
}
