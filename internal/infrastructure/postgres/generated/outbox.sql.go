package generated

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const createOutboxEvent = `-- name: CreateOutboxEvent :exec
INSERT INTO outbox_events (id, aggregate_id, aggregate_type, event_type, payload, created_at, published)
VALUES ($1, $2, $3, $4, $5, $6, $7)
`

type CreateOutboxEventParams struct {
	ID            string             `json:"id"`
	AggregateID   string             `json:"aggregate_id"`
	AggregateType string             `json:"aggregate_type"`
	EventType     string             `json:"event_type"`
	Payload       []byte             `json:"payload"`
	CreatedAt     pgtype.Timestamptz `json:"created_at"`
	Published     bool               `json:"published"`
}

func (q *Queries) CreateOutboxEvent(ctx context.Context, arg CreateOutboxEventParams) error {
	_, err := q.db.Exec(ctx, createOutboxEvent,
		arg.ID,
		arg.AggregateID,
		arg.AggregateType,
		arg.EventType,
		arg.Payload,
		arg.CreatedAt,
		arg.Published,
	)
	return err
}

const deletePublishedEvents = `-- name: DeletePublishedEvents :exec
DELETE FROM outbox_events WHERE published AND published_at < $1
`

func (q *Queries) DeletePublishedEvents(ctx context.Context, publishedAt pgtype.Timestamptz) error {
	_, err := q.db.Exec(ctx, deletePublishedEvents, publishedAt)
	return err
}

const getUnpublishedEvents = `-- name: GetUnpublishedEvents :many
SELECT id, aggregate_id, aggregate_type, event_type, payload, created_at, published_at, published
FROM outbox_events
WHERE NOT published
ORDER BY created_at
LIMIT $1
`

func (q *Queries) GetUnpublishedEvents(ctx context.Context, limit int32) ([]OutboxEvent, error) {
	rows, err := q.db.Query(ctx, getUnpublishedEvents, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []OutboxEvent{}
	for rows.Next() {
		var i OutboxEvent
		if err := rows.Scan(
			&i.ID,
			&i.AggregateID,
			&i.AggregateType,
			&i.EventType,
			&i.Payload,
			&i.CreatedAt,
			&i.PublishedAt,
			&i.Published,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const markEventPublished = `-- name: MarkEventPublished :exec
UPDATE outbox_events SET published = TRUE, published_at = $2 WHERE id = $1
`

type MarkEventPublishedParams struct {
	ID          string             `json:"id"`
	PublishedAt pgtype.Timestamptz `json:"published_at"`
}

func (q *Queries) MarkEventPublished(ctx context.Context, arg MarkEventPublishedParams) error {
	_, err := q.db.Exec(ctx, markEventPublished, arg.ID, arg.PublishedAt)
	return err
}
