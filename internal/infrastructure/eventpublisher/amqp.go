package eventpublisher

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/iho/moneymanager/internal/domain"
)

const publishTimeout = 5 * time.Second

type amqpChannel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// AMQPPublisher publishes outbox events to a durable topic exchange.
// The routing key is the event type, e.g. "transaction.created".
type AMQPPublisher struct {
	conn     *amqp.Connection
	channel  amqpChannel
	exchange string
}

// envelope is the message body sent to the broker.
type envelope struct {
	ID            string         `json:"id"`
	EventType     string         `json:"event_type"`
	AggregateType string         `json:"aggregate_type"`
	AggregateID   string         `json:"aggregate_id"`
	OccurredAt    time.Time      `json:"occurred_at"`
	Payload       map[string]any `json:"payload"`
}

// NewAMQPPublisher dials url and declares exchange.
func NewAMQPPublisher(url, exchange string) (*AMQPPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial AMQP: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	err = channel.ExchangeDeclare(
		exchange, // name
		"topic",  // type
		true,     // durable
		false,    // auto-deleted
		false,    // internal
		false,    // no-wait
		nil,      // arguments
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("declare exchange: %w", err)
	}

	return &AMQPPublisher{conn: conn, channel: channel, exchange: exchange}, nil
}

// Publish sends a persistent JSON message for event.
func (p *AMQPPublisher) Publish(ctx context.Context, event *domain.OutboxEvent) error {
	body, err := json.Marshal(envelope{
		ID:            event.ID,
		EventType:     event.EventType,
		AggregateType: event.AggregateType,
		AggregateID:   event.AggregateID,
		OccurredAt:    event.CreatedAt,
		Payload:       event.Payload,
	})
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	err = p.channel.PublishWithContext(ctx, p.exchange, event.EventType, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    event.ID,
		Timestamp:    event.CreatedAt,
		Type:         event.EventType,
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("publish %s: %w", event.ID, err)
	}
	return nil
}

// Close closes the channel and the connection.
func (p *AMQPPublisher) Close() error {
	if p.channel != nil {
		p.channel.Close()
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}
