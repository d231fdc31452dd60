package eventpublisher

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/moneymanager/internal/domain"
	"github.com/iho/moneymanager/internal/usecase"
)

// EventPublisher relays events from the outbox to a Publisher and prunes
// events that were published long enough ago.
type EventPublisher struct {
	outboxRepo    usecase.OutboxRepository
	publisher     Publisher
	recorder      Recorder
	logger        zerolog.Logger
	clock         usecase.Clock
	batchSize     int
	interval      time.Duration
	retention     time.Duration
	cleanupPeriod time.Duration
}

// Publisher defines the interface for publishing events to external systems.
type Publisher interface {
	Publish(ctx context.Context, event *domain.OutboxEvent) error
}

// Recorder receives per-event publish outcomes.
type Recorder interface {
	EventPublished(eventType string)
	EventPublishFailed(eventType string)
}

type noopRecorder struct{}

func (noopRecorder) EventPublished(string)     {}
func (noopRecorder) EventPublishFailed(string) {}

// Config for EventPublisher.
type Config struct {
	OutboxRepo    usecase.OutboxRepository
	Publisher     Publisher
	Recorder      Recorder
	Logger        zerolog.Logger
	Clock         usecase.Clock
	BatchSize     int           // Number of events to fetch per batch
	Interval      time.Duration // Polling interval
	Retention     time.Duration // How long published events are kept; 0 keeps them forever
	CleanupPeriod time.Duration
}

// NewEventPublisher creates a new EventPublisher.
func NewEventPublisher(cfg Config) *EventPublisher {
	if cfg.BatchSize == 0 {
		cfg.BatchSize = 100
	}
	if cfg.Interval == 0 {
		cfg.Interval = 5 * time.Second
	}
	if cfg.CleanupPeriod == 0 {
		cfg.CleanupPeriod = time.Hour
	}
	if cfg.Clock == nil {
		cfg.Clock = usecase.SystemClock{}
	}
	if cfg.Recorder == nil {
		cfg.Recorder = noopRecorder{}
	}

	return &EventPublisher{
		outboxRepo:    cfg.OutboxRepo,
		publisher:     cfg.Publisher,
		recorder:      cfg.Recorder,
		logger:        cfg.Logger.With().Str("component", "outbox").Logger(),
		clock:         cfg.Clock,
		batchSize:     cfg.BatchSize,
		interval:      cfg.Interval,
		retention:     cfg.Retention,
		cleanupPeriod: cfg.CleanupPeriod,
	}
}

// Start begins the event publishing worker.
// It runs continuously until the context is cancelled.
func (ep *EventPublisher) Start(ctx context.Context) error {
	ep.logger.Info().
		Int("batch_size", ep.batchSize).
		Dur("interval", ep.interval).
		Msg("event publisher started")

	ticker := time.NewTicker(ep.interval)
	defer ticker.Stop()

	cleanup := time.NewTicker(ep.cleanupPeriod)
	defer cleanup.Stop()

	// Process immediately on start
	if err := ep.processEvents(ctx); err != nil {
		ep.logger.Error().Err(err).Msg("error processing events on start")
	}

	for {
		select {
		case <-ctx.Done():
			ep.logger.Info().Msg("event publisher shutting down")
			return ctx.Err()
		case <-ticker.C:
			if err := ep.processEvents(ctx); err != nil {
				ep.logger.Error().Err(err).Msg("error processing events")
			}
		case <-cleanup.C:
			if err := ep.cleanup(ctx); err != nil {
				ep.logger.Error().Err(err).Msg("error pruning published events")
			}
		}
	}
}

// processEvents fetches and publishes a batch of unpublished events.
func (ep *EventPublisher) processEvents(ctx context.Context) error {
	events, err := ep.outboxRepo.GetUnpublished(ctx, ep.batchSize)
	if err != nil {
		return err
	}

	if len(events) == 0 {
		return nil
	}

	ep.logger.Debug().Int("count", len(events)).Msg("processing events")

	for _, event := range events {
		log := ep.logger.With().
			Str("event_id", event.ID).
			Str("event_type", event.EventType).
			Logger()

		if err := ep.publisher.Publish(ctx, event); err != nil {
			// the event stays unpublished and is retried on the next tick
			log.Error().Err(err).Msg("failed to publish event")
			ep.recorder.EventPublishFailed(event.EventType)
			continue
		}

		if err := ep.outboxRepo.MarkPublished(ctx, event.ID, ep.clock.Now()); err != nil {
			log.Error().Err(err).Msg("failed to mark event as published")
			continue
		}

		ep.recorder.EventPublished(event.EventType)
		log.Debug().Str("aggregate_id", event.AggregateID).Msg("event published")
	}

	return nil
}

func (ep *EventPublisher) cleanup(ctx context.Context) error {
	if ep.retention <= 0 {
		return nil
	}
	return ep.outboxRepo.DeletePublished(ctx, ep.clock.Now().Add(-ep.retention))
}

// LogPublisher is a publisher that only logs events.
type LogPublisher struct {
	logger zerolog.Logger
}

// NewLogPublisher creates a new LogPublisher.
func NewLogPublisher(logger zerolog.Logger) *LogPublisher {
	return &LogPublisher{logger: logger}
}

// Publish logs the event.
func (p *LogPublisher) Publish(ctx context.Context, event *domain.OutboxEvent) error {
	payload, err := json.Marshal(event.Payload)
	if err != nil {
		return err
	}

	p.logger.Info().
		Str("event_id", event.ID).
		Str("event_type", event.EventType).
		Str("aggregate_type", event.AggregateType).
		Str("aggregate_id", event.AggregateID).
		RawJSON("payload", payload).
		Msg("event")

	return nil
}
