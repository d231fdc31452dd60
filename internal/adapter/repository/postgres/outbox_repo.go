package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/iho/moneymanager/internal/domain"
	"github.com/iho/moneymanager/internal/infrastructure/postgres/generated"
	"github.com/iho/moneymanager/internal/usecase"
)

// OutboxRepository stores domain events next to the rows that produced them.
// Create only works inside a TxManager transaction so an event is never
// written without its change; the relay reads and marks outside of one.
type OutboxRepository struct {
	queries *generated.Queries
}

// NewOutboxRepository creates a new OutboxRepository.
func NewOutboxRepository(db generated.DBTX) *OutboxRepository {
	return &OutboxRepository{queries: generated.New(db)}
}

// Create appends event to the outbox as part of tx.
func (r *OutboxRepository) Create(ctx context.Context, tx usecase.Transaction, event *domain.OutboxEvent) error {
	queries, err := queriesFor(tx)
	if err != nil {
		return err
	}

	payload, err := json.Marshal(event.Payload)
	if err != nil {
		return fmt.Errorf("encode %s payload: %w", event.EventType, err)
	}

	return queries.CreateOutboxEvent(ctx, generated.CreateOutboxEventParams{
		ID:            event.ID,
		AggregateID:   event.AggregateID,
		AggregateType: event.AggregateType,
		EventType:     event.EventType,
		Payload:       payload,
		CreatedAt:     timeToPgTimestamptz(event.CreatedAt),
		Published:     event.Published,
	})
}

// GetUnpublished returns up to limit pending events, oldest first.
func (r *OutboxRepository) GetUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error) {
	rows, err := r.queries.GetUnpublishedEvents(ctx, int32(limit))
	if err != nil {
		return nil, err
	}

	events := make([]*domain.OutboxEvent, 0, len(rows))
	for _, row := range rows {
		event, err := outboxEventFromRow(row)
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}

	return events, nil
}

// MarkPublished records when the relay handed the event to the broker.
func (r *OutboxRepository) MarkPublished(ctx context.Context, id string, publishedAt time.Time) error {
	return r.queries.MarkEventPublished(ctx, generated.MarkEventPublishedParams{
		ID:          id,
		PublishedAt: timeToPgTimestamptz(publishedAt),
	})
}

// DeletePublished prunes events published before the cutoff.
func (r *OutboxRepository) DeletePublished(ctx context.Context, before time.Time) error {
	return r.queries.DeletePublishedEvents(ctx, timeToPgTimestamptz(before))
}

func outboxEventFromRow(row generated.OutboxEvent) (*domain.OutboxEvent, error) {
	event := &domain.OutboxEvent{
		ID:            row.ID,
		AggregateID:   row.AggregateID,
		AggregateType: row.AggregateType,
		EventType:     row.EventType,
		CreatedAt:     row.CreatedAt.Time,
		Published:     row.Published,
	}

	if len(row.Payload) > 0 {
		if err := json.Unmarshal(row.Payload, &event.Payload); err != nil {
			return nil, fmt.Errorf("decode payload of event %s: %w", row.ID, err)
		}
	}

	if row.PublishedAt.Valid {
		publishedAt := row.PublishedAt.Time
		event.PublishedAt = &publishedAt
	}

	return event, nil
}
