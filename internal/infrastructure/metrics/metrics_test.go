package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
)

func TestNewRegistersMetrics(t *testing.T) {
	registry := prometheus.NewRegistry()

	m := New(registry)

	if m.TransfersCreated == nil || m.HTTPRequests == nil || m.EventsPublished == nil {
		t.Fatalf("expected key metrics to be initialized: %+v", m)
	}

	// vectors only show up once a label set is used
	m.TransferFailed("conflict")
	m.HTTPRequests.WithLabelValues("GET", "/health", "200").Inc()

	metricFamilies, err := registry.Gather()
	if err != nil {
		t.Fatalf("failed to gather metrics: %v", err)
	}

	if len(metricFamilies) == 0 {
		t.Fatalf("expected registered metrics, got none")
	}
}

func TestNewTwiceOnSameRegistryPanics(t *testing.T) {
	registry := prometheus.NewRegistry()
	New(registry)

	defer func() {
		if recover() == nil {
			t.Fatalf("expected duplicate registration to panic")
		}
	}()
	New(registry)
}

func TestTransferRecorder(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.TransferSucceeded(decimal.RequireFromString("40.00"), 15*time.Millisecond)
	m.TransferSucceeded(decimal.NewFromInt(5), time.Millisecond)
	m.TransferFailed("insufficient_balance")

	if got := testutil.ToFloat64(m.TransfersCreated); got != 2 {
		t.Fatalf("expected 2 transfers, got %v", got)
	}
	if got := testutil.ToFloat64(m.TransferErrors.WithLabelValues("insufficient_balance")); got != 1 {
		t.Fatalf("expected 1 insufficient balance error, got %v", got)
	}
	if got := testutil.ToFloat64(m.TransferErrors.WithLabelValues("conflict")); got != 0 {
		t.Fatalf("expected no conflicts, got %v", got)
	}
}

func TestEventAndCacheCounters(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.EventPublished("transaction.created")
	m.EventPublished("transaction.created")
	m.EventPublishFailed("transfer.created")
	m.CacheLookup(true)
	m.CacheLookup(false)
	m.CacheLookup(false)

	if got := testutil.ToFloat64(m.EventsPublished.WithLabelValues("transaction.created")); got != 2 {
		t.Fatalf("expected 2 published events, got %v", got)
	}
	if got := testutil.ToFloat64(m.EventPublishErrors.WithLabelValues("transfer.created")); got != 1 {
		t.Fatalf("expected 1 publish error, got %v", got)
	}
	if got := testutil.ToFloat64(m.ReportCacheLookups.WithLabelValues("miss")); got != 2 {
		t.Fatalf("expected 2 misses, got %v", got)
	}
}
