package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/iho/moneymanager/internal/adapter/http/handler"
	"github.com/iho/moneymanager/internal/adapter/http/middleware"
	"github.com/iho/moneymanager/internal/infrastructure/metrics"
	"github.com/iho/moneymanager/internal/usecase"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	AccountHandler     *handler.AccountHandler
	TransferHandler    *handler.TransferHandler
	TransactionHandler *handler.TransactionHandler
	CategoryHandler    *handler.CategoryHandler
	DashboardHandler   *handler.DashboardHandler
	HealthHandler      *handler.HealthHandler

	// Optional
	IdempotencyStore usecase.IdempotencyStore
	IdempotencyTTL   time.Duration
	Metrics          *metrics.Metrics
	MetricsHandler   http.Handler

	Logger zerolog.Logger
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewLoggingMiddleware(cfg.Logger).Wrap)
	r.Use(middleware.Recovery(cfg.Logger))
	if cfg.Metrics != nil {
		r.Use(middleware.Metrics(cfg.Metrics))
	}

	// Health endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	if cfg.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", cfg.MetricsHandler)
	}

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		// Idempotency middleware for mutating requests
		if cfg.IdempotencyStore != nil {
			idempotencyMiddleware := middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore, cfg.IdempotencyTTL, cfg.Logger)
			r.Use(idempotencyMiddleware.Wrap)
		}

		r.Route("/accounts", func(r chi.Router) {
			r.Post("/", cfg.AccountHandler.Create)
			r.Get("/", cfg.AccountHandler.List)
			r.Get("/{id}", cfg.AccountHandler.Get)
			r.Put("/{id}", cfg.AccountHandler.Update)
			r.Delete("/{id}", cfg.AccountHandler.Delete)
		})

		r.Route("/transfers", func(r chi.Router) {
			r.Post("/", cfg.TransferHandler.Create)
			r.Get("/", cfg.TransferHandler.List)
			r.Get("/{id}", cfg.TransferHandler.Get)
		})

		r.Route("/transactions", func(r chi.Router) {
			r.Post("/", cfg.TransactionHandler.Create)
			r.Get("/", cfg.TransactionHandler.List)
			r.Get("/{id}", cfg.TransactionHandler.Get)
			r.Put("/{id}", cfg.TransactionHandler.Update)
			r.Delete("/{id}", cfg.TransactionHandler.Delete)
		})

		r.Route("/categories", func(r chi.Router) {
			r.Get("/", cfg.CategoryHandler.List)
			r.Post("/", cfg.CategoryHandler.Create)
			r.Post("/initialize", cfg.CategoryHandler.Initialize)
		})

		r.Route("/dashboard", func(r chi.Router) {
			r.Get("/summary", cfg.DashboardHandler.Summary)
			r.Get("/chart", cfg.DashboardHandler.Chart)
			r.Get("/chart.png", cfg.DashboardHandler.ChartPNG)
			r.Get("/category-summary", cfg.DashboardHandler.CategorySummary)
			r.Get("/category-summary.png", cfg.DashboardHandler.CategorySummaryPNG)
			r.Get("/division-summary", cfg.DashboardHandler.DivisionSummary)
		})
	})

	return r
}
