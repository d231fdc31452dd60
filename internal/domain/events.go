package domain

import "time"

// Event types
const (
	EventTypeTransferCreated    = "transfer.created"
	EventTypeAccountCreated     = "account.created"
	EventTypeTransactionCreated = "transaction.created"
	EventTypeTransactionUpdated = "transaction.updated"
	EventTypeTransactionDeleted = "transaction.deleted"
)

// Aggregate types
const (
	AggregateTypeTransfer    = "transfer"
	AggregateTypeAccount     = "account"
	AggregateTypeTransaction = "transaction"
)

// OutboxEvent represents an event to be published
type OutboxEvent struct {
	ID            string
	AggregateID   string
	AggregateType string
	EventType     string
	Payload       map[string]any
	CreatedAt     time.Time
	PublishedAt   *time.Time
	Published     bool
}
