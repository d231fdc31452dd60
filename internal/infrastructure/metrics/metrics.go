package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/shopspring/decimal"
)

const namespace = "moneymanager"

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Transfer metrics
	TransfersCreated prometheus.Counter
	TransferDuration prometheus.Histogram
	TransferAmount   prometheus.Histogram
	TransferErrors   *prometheus.CounterVec

	// Outbox metrics
	EventsPublished    *prometheus.CounterVec
	EventPublishErrors *prometheus.CounterVec

	// Report cache metrics
	ReportCacheLookups *prometheus.CounterVec

	// API metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec
	HTTPInFlight prometheus.Gauge
}

// New creates all metrics and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		// Transfer metrics
		TransfersCreated: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transfers_created_total",
			Help:      "Total number of transfers created",
		}),
		TransferDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "transfer_duration_seconds",
			Help:      "Duration of transfer operations",
			Buckets:   prometheus.DefBuckets,
		}),
		TransferAmount: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "transfer_amount",
			Help:      "Transfer amounts",
			Buckets:   []float64{1, 10, 100, 1000, 10000, 100000, 1000000},
		}),
		TransferErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "transfer_errors_total",
				Help:      "Total number of transfer errors by kind",
			},
			[]string{"kind"},
		),

		// Outbox metrics
		EventsPublished: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "outbox_events_published_total",
				Help:      "Total outbox events published by type",
			},
			[]string{"event_type"},
		),
		EventPublishErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "outbox_publish_errors_total",
				Help:      "Total outbox publish failures by type",
			},
			[]string{"event_type"},
		),

		ReportCacheLookups: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "report_cache_lookups_total",
				Help:      "Report cache lookups by result",
			},
			[]string{"result"},
		),

		// API metrics
		HTTPRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path"},
		),
		HTTPInFlight: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "http_requests_in_flight",
			Help:      "Number of HTTP requests currently being processed",
		}),
	}
}

// TransferSucceeded implements usecase.TransferRecorder.
func (m *Metrics) TransferSucceeded(amount decimal.Decimal, elapsed time.Duration) {
	m.TransfersCreated.Inc()
	m.TransferDuration.Observe(elapsed.Seconds())
	m.TransferAmount.Observe(amount.InexactFloat64())
}

// TransferFailed implements usecase.TransferRecorder.
func (m *Metrics) TransferFailed(kind string) {
	m.TransferErrors.WithLabelValues(kind).Inc()
}

// EventPublished counts a relayed outbox event.
func (m *Metrics) EventPublished(eventType string) {
	m.EventsPublished.WithLabelValues(eventType).Inc()
}

// EventPublishFailed counts an outbox event the broker rejected.
func (m *Metrics) EventPublishFailed(eventType string) {
	m.EventPublishErrors.WithLabelValues(eventType).Inc()
}

// CacheLookup counts a report cache hit or miss.
func (m *Metrics) CacheLookup(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	m.ReportCacheLookups.WithLabelValues(result).Inc()
}
