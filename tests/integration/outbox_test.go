package integration

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/moneymanager/internal/adapter/repository/postgres"
	"github.com/iho/moneymanager/internal/domain"
	"github.com/iho/moneymanager/internal/infrastructure/eventpublisher"
	"github.com/iho/moneymanager/internal/usecase"
	"github.com/iho/moneymanager/tests/testutil"
)

type capturePublisher struct {
	mu     sync.Mutex
	events []*domain.OutboxEvent
}

func (p *capturePublisher) Publish(_ context.Context, event *domain.OutboxEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *capturePublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.EventType)
	}
	return out
}

func TestOutboxRelay(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ctx := context.Background()
	testDB := testutil.NewTestDB(t)
	defer testDB.Cleanup()
	testDB.TruncateAll(ctx)

	pool := testDB.Pool
	outboxRepo := postgres.NewOutboxRepository(pool)
	accountUC := usecase.NewAccountUseCase(
		postgres.NewTxManager(pool),
		postgres.NewAccountRepository(pool),
		outboxRepo,
		postgres.NewULIDGenerator(),
		nil,
	)

	balance := decimal.NewFromInt(10)
	account, err := accountUC.CreateAccount(ctx, usecase.CreateAccountInput{Name: "Savings", Balance: &balance})
	if err != nil {
		t.Fatalf("create account: %v", err)
	}

	pending, err := outboxRepo.GetUnpublished(ctx, 10)
	if err != nil {
		t.Fatalf("get unpublished: %v", err)
	}
	if len(pending) != 1 || pending[0].AggregateID != account.ID || pending[0].EventType != domain.EventTypeAccountCreated {
		t.Fatalf("expected one account.created event, got %+v", pending)
	}

	pub := &capturePublisher{}
	relay := eventpublisher.NewEventPublisher(eventpublisher.Config{
		OutboxRepo: outboxRepo,
		Publisher:  pub,
		Logger:     zerolog.Nop(),
		Interval:   20 * time.Millisecond,
	})

	runCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = relay.Start(runCtx)
	}()

	deadline := time.Now().Add(5 * time.Second)
	for len(pub.types()) == 0 && time.Now().Before(deadline) {
		time.Sleep(20 * time.Millisecond)
	}
	cancel()
	<-done

	if got := pub.types(); len(got) != 1 || got[0] != domain.EventTypeAccountCreated {
		t.Fatalf("expected the account event to be relayed once, got %v", got)
	}

	pending, err = outboxRepo.GetUnpublished(ctx, 10)
	if err != nil {
		t.Fatalf("get unpublished: %v", err)
	}
	if len(pending) != 0 {
		t.Fatalf("expected outbox to be drained, got %d events", len(pending))
	}
}
