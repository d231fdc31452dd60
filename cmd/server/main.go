package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	httpAdapter "github.com/iho/moneymanager/internal/adapter/http"
	"github.com/iho/moneymanager/internal/adapter/http/handler"
	memoryRepo "github.com/iho/moneymanager/internal/adapter/repository/memory"
	postgresRepo "github.com/iho/moneymanager/internal/adapter/repository/postgres"
	redisRepo "github.com/iho/moneymanager/internal/adapter/repository/redis"
	"github.com/iho/moneymanager/internal/infrastructure/config"
	"github.com/iho/moneymanager/internal/infrastructure/eventpublisher"
	"github.com/iho/moneymanager/internal/infrastructure/logger"
	"github.com/iho/moneymanager/internal/infrastructure/metrics"
	"github.com/iho/moneymanager/internal/infrastructure/postgres"
	"github.com/iho/moneymanager/internal/infrastructure/redis"
	"github.com/iho/moneymanager/internal/usecase"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	lg := logger.New(logger.Config{
		Level:   cfg.LogLevel,
		Format:  cfg.LogFormat,
		Service: "moneymanager",
	})
	log.Logger = lg

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, lg); err != nil {
		lg.Fatal().Err(err).Msg("server failed")
	}

	lg.Info().Msg("server stopped")
}

// run serves HTTP and relays outbox events until ctx is cancelled.
func run(ctx context.Context, cfg *config.Config, lg zerolog.Logger) error {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	a, err := buildApp(ctx, cfg, lg, reg)
	if err != nil {
		return err
	}
	defer a.Close()

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      a.handler,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		lg.Info().Str("port", cfg.HTTPPort).Str("storage", cfg.StorageDriver).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		if err := a.relay.Start(gctx); err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("outbox relay: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		lg.Info().Msg("shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(gctx), cfg.HTTPShutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

type app struct {
	handler http.Handler
	relay   *eventpublisher.EventPublisher
	closers []func()
}

// Close releases connections in reverse order of acquisition.
func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

type storage struct {
	txManager    usecase.TransactionManager
	accounts     usecase.AccountRepository
	transfers    usecase.TransferRepository
	transactions usecase.TransactionRepository
	categories   usecase.CategoryRepository
	outbox       usecase.OutboxRepository
	retrier      usecase.Retrier
	check        *handler.Check
	close        func()
}

func openStorage(ctx context.Context, cfg *config.Config, lg zerolog.Logger) (*storage, error) {
	if cfg.StorageDriver == config.StorageMemory {
		store := memoryRepo.NewStore()
		lg.Warn().Msg("using in-memory storage; data is lost on restart")
		return &storage{
			txManager:    memoryRepo.NewTxManager(store),
			accounts:     memoryRepo.NewAccountRepository(store),
			transfers:    memoryRepo.NewTransferRepository(store),
			transactions: memoryRepo.NewTransactionRepository(store),
			categories:   memoryRepo.NewCategoryRepository(store),
			outbox:       memoryRepo.NewOutboxRepository(store),
			close:        func() {},
		}, nil
	}

	if cfg.AutoMigrate {
		if err := postgres.RunMigrations(cfg.DatabaseURL, lg); err != nil {
			return nil, fmt.Errorf("run migrations: %w", err)
		}
	}

	pool, err := postgres.NewPoolWithConfig(ctx, postgres.PoolConfig{
		DatabaseURL:    cfg.DatabaseURL,
		MaxConns:       cfg.DatabaseMaxConns,
		MinConns:       cfg.DatabaseMinConns,
		ConnectTimeout: cfg.DatabaseTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}
	lg.Info().Msg("connected to postgres")

	return &storage{
		txManager:    postgresRepo.NewTxManager(pool),
		accounts:     postgresRepo.NewAccountRepository(pool),
		transfers:    postgresRepo.NewTransferRepository(pool),
		transactions: postgresRepo.NewTransactionRepository(pool),
		categories:   postgresRepo.NewCategoryRepository(pool),
		outbox:       postgresRepo.NewOutboxRepository(pool),
		retrier:      postgresRepo.NewRetrier(lg),
		check:        &handler.Check{Name: "postgres", Ping: pool.Ping},
		close:        pool.Close,
	}, nil
}

// buildApp wires storage, caches, use cases and the router.
func buildApp(ctx context.Context, cfg *config.Config, lg zerolog.Logger, reg *prometheus.Registry) (*app, error) {
	a := &app{}

	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	weekFields, err := cfg.WeekFields()
	if err != nil {
		return nil, err
	}

	store, err := openStorage(ctx, cfg, lg)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, store.close)

	m := metrics.New(reg)

	var checks []handler.Check
	if store.check != nil {
		checks = append(checks, *store.check)
	}

	var (
		reportCache      usecase.ReportCache
		idempotencyStore usecase.IdempotencyStore
	)
	if cfg.RedisURL != "" {
		redisClient, err := redis.NewClient(ctx, cfg.RedisURL)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("connect to redis: %w", err)
		}
		a.closers = append(a.closers, func() { redisClient.Close() })
		lg.Info().Msg("connected to redis")

		reportCache = redisRepo.NewReportCache(redisClient, cfg.ReportCacheTTL, m)
		idempotencyStore = redisRepo.NewIdempotencyStore(redisClient)
		checks = append(checks, handler.Check{
			Name: "redis",
			Ping: func(ctx context.Context) error { return redis.Ping(ctx, redisClient) },
		})
	}

	publisher, err := newPublisher(cfg, lg)
	if err != nil {
		a.Close()
		return nil, err
	}
	if closer, ok := publisher.(interface{ Close() error }); ok {
		a.closers = append(a.closers, func() { closer.Close() })
	}

	idGen := postgresRepo.NewULIDGenerator()

	// Initialize use cases
	accountUC := usecase.NewAccountUseCase(store.txManager, store.accounts, store.outbox, idGen, nil)
	transferUC := usecase.NewTransferUseCase(usecase.TransferDeps{
		TxManager:    store.txManager,
		AccountRepo:  store.accounts,
		TransferRepo: store.transfers,
		OutboxRepo:   store.outbox,
		Retrier:      store.retrier,
		IDGen:        idGen,
		Recorder:     m,
	})
	transactionUC := usecase.NewTransactionUseCase(usecase.TransactionDeps{
		TxManager:  store.txManager,
		Repo:       store.transactions,
		OutboxRepo: store.outbox,
		Cache:      reportCache,
		IDGen:      idGen,
		Logger:     lg,
	})
	categoryUC := usecase.NewCategoryUseCase(store.categories, idGen)
	reportUC := usecase.NewReportUseCase(usecase.ReportDeps{
		Repo:       store.transactions,
		Cache:      reportCache,
		Location:   loc,
		WeekFields: weekFields,
		Logger:     lg,
	})

	a.relay = eventpublisher.NewEventPublisher(eventpublisher.Config{
		OutboxRepo:    store.outbox,
		Publisher:     publisher,
		Recorder:      m,
		Logger:        lg.With().Str("component", "outbox").Logger(),
		BatchSize:     cfg.OutboxBatchSize,
		Interval:      cfg.OutboxPollInterval,
		Retention:     cfg.OutboxRetention,
		CleanupPeriod: cfg.OutboxCleanupPeriod,
	})

	a.handler = httpAdapter.NewRouter(httpAdapter.RouterConfig{
		AccountHandler:     handler.NewAccountHandler(accountUC),
		TransferHandler:    handler.NewTransferHandler(transferUC, loc),
		TransactionHandler: handler.NewTransactionHandler(transactionUC, loc),
		CategoryHandler:    handler.NewCategoryHandler(categoryUC),
		DashboardHandler:   handler.NewDashboardHandler(reportUC),
		HealthHandler:      handler.NewHealthHandler(checks...),
		IdempotencyStore:   idempotencyStore,
		IdempotencyTTL:     cfg.IdempotencyTTL,
		Metrics:            m,
		MetricsHandler:     promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}),
		Logger:             lg,
	})

	return a, nil
}

// newPublisher picks the broker for outbox events. Without AMQP_URL events
// are only logged.
func newPublisher(cfg *config.Config, lg zerolog.Logger) (eventpublisher.Publisher, error) {
	if cfg.AMQPURL == "" {
		return eventpublisher.NewLogPublisher(lg), nil
	}

	publisher, err := eventpublisher.NewAMQPPublisher(cfg.AMQPURL, cfg.AMQPExchange)
	if err != nil {
		return nil, fmt.Errorf("connect to amqp: %w", err)
	}
	lg.Info().Str("exchange", cfg.AMQPExchange).Msg("publishing events to amqp")
	return publisher, nil
}
