package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"

	"github.com/utafrali/catalog-datagen/internal/catalog"
	"github.com/utafrali/catalog-datagen/internal/config"
	"github.com/utafrali/catalog-datagen/internal/event"
	"github.com/utafrali/catalog-datagen/internal/metrics"
	"github.com/utafrali/catalog-datagen/internal/progress"
	"github.com/utafrali/catalog-datagen/internal/sequence"
	"github.com/utafrali/catalog-datagen/internal/server"
	"github.com/utafrali/catalog-datagen/internal/writer"
	"github.com/utafrali/catalog-datagen/pkg/database"
	"github.com/utafrali/catalog-datagen/pkg/health"
	pkgkafka "github.com/utafrali/catalog-datagen/pkg/kafka"
	"github.com/utafrali/catalog-datagen/pkg/tracing"
)

// ServiceName identifies the generator in logs, traces and events.
const ServiceName = "catalog-datagen"

// App wires together all dependencies of one generation run.
type App struct {
	cfg    *config.Config
	plan   *config.Plan
	logger *slog.Logger
	runID  string

	registry  *prometheus.Registry
	recorder  *metrics.Recorder
	health    *health.Handler
	catalog   *catalog.Catalog
	allocator sequence.Allocator
	publisher *event.RecordPublisher
	writer    *writer.CSVWriter
	progress  progress.Reporter

	pool           *pgxpool.Pool
	rdb            *redis.Client
	producer       *pkgkafka.Producer
	httpServer     *http.Server
	shutdownTracer func(context.Context) error
}

// NewApp loads the generation plan and connects every configured backend.
func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	plan, err := config.LoadPlan(cfg.PlanFile)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	a := newApp(cfg, plan, logger)

	shutdown, err := tracing.InitTracer(ctx, cfg.TracingConfig(ServiceName))
	if err != nil {
		return nil, fmt.Errorf("init tracer: %w", err)
	}
	a.shutdownTracer = shutdown

	if err := a.connect(ctx); err != nil {
		_ = a.Shutdown()
		return nil, err
	}

	if cfg.MetricsPort > 0 {
		a.httpServer = &http.Server{
			Addr:         fmt.Sprintf(":%d", cfg.MetricsPort),
			Handler:      server.NewRouter(a.health, a.registry, a.runID, logger, cfg.PprofAllowedCIDRs),
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 60 * time.Second,
			IdleTimeout:  60 * time.Second,
		}
	}
	return a, nil
}

// newApp builds the backend-independent part of an App: file catalog,
// static identifier allocation and no publishing.
func newApp(cfg *config.Config, plan *config.Plan, logger *slog.Logger) *App {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	start := 0
	if p := plan.Entities.Products; p != nil {
		start = p.StartIndex
	}

	return &App{
		cfg:            cfg,
		plan:           plan,
		logger:         logger,
		runID:          uuid.NewString(),
		registry:       registry,
		recorder:       metrics.New(registry),
		health:         health.NewHandler(),
		catalog:        catalog.New(catalog.NewFileLoader(cfg.CatalogFile)),
		allocator:      sequence.StaticAllocator{Start: start},
		writer:         writer.NewCSVWriter(plan.ResolveOutputDir(cfg)),
		progress:       progress.New(cfg.Progress, os.Stderr),
		shutdownTracer: func(context.Context) error { return nil },
	}
}

// connect opens the catalog database, the Redis sequence and the Kafka
// producer, as configured, and registers their health checks.
func (a *App) connect(ctx context.Context) error {
	if a.cfg.CatalogSource == config.CatalogSourcePostgres {
		pool, err := database.NewPostgresPool(ctx, a.cfg.PostgresConfig(), a.logger)
		if err != nil {
			return fmt.Errorf("connect to catalog database: %w", err)
		}
		a.pool = pool
		a.registry.MustRegister(database.NewPoolStatsCollector(pool))
		a.health.Register("postgres", pool.Ping)

		tracer := &database.QueryTracer{SlowThreshold: a.cfg.SlowQueryThreshold(), Logger: a.logger}
		a.catalog = catalog.New(catalog.NewPostgresLoader(pool, tracer))
		a.logger.Info("connected to catalog database",
			slog.String("host", a.cfg.PostgresHost),
			slog.String("database", a.cfg.PostgresDB),
		)
	}

	if a.cfg.RedisEnabled() {
		rdb, err := database.NewRedisClient(ctx, a.cfg.RedisConfig(), a.logger)
		if err != nil {
			return fmt.Errorf("connect to redis: %w", err)
		}
		a.rdb = rdb
		a.health.Register("redis", func(ctx context.Context) error {
			return rdb.Ping(ctx).Err()
		})

		base := 0
		if p := a.plan.Entities.Products; p != nil {
			base = p.StartIndex
		}
		a.allocator = sequence.NewRedisAllocator(rdb, a.cfg.SequenceKey, base)
		a.logger.Info("identifier ranges allocated from redis",
			slog.String("addr", a.cfg.RedisConfig().Addr()),
			slog.String("key", a.cfg.SequenceKey),
		)
	}

	if a.cfg.PublishEnabled {
		producer := pkgkafka.NewProducer(
			pkgkafka.DefaultProducerConfig(a.cfg.KafkaBrokers),
			a.logger,
			pkgkafka.NewMetrics(a.registry),
		)
		a.producer = producer
		a.health.Register("kafka", producer.Ping)
		a.publisher = event.NewRecordPublisher(producer, event.DefaultBreakerConfig(), a.cfg.PublishBatchSize, a.logger)
		a.logger.Info("kafka producer initialized", slog.Any("brokers", a.cfg.KafkaBrokers))
	}
	return nil
}

// Run serves the side-car endpoints, if enabled, for the duration of one
// generation run, then shuts everything down.
func (a *App) Run(ctx context.Context) error {
	if a.httpServer != nil {
		go func() {
			a.logger.Info("starting metrics server", slog.String("addr", a.httpServer.Addr))
			if err := a.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				a.logger.Error("metrics server error", slog.String("error", err.Error()))
			}
		}()
	}

	runErr := a.Generate(ctx)
	_ = a.Shutdown()
	return runErr
}

// Shutdown stops all components. Errors are logged, not returned.
func (a *App) Shutdown() error {
	a.logger.Debug("shutting down application")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if a.httpServer != nil {
		if err := a.httpServer.Shutdown(shutdownCtx); err != nil {
			a.logger.Error("metrics server shutdown error", slog.String("error", err.Error()))
		}
	}
	if a.producer != nil {
		if err := a.producer.Close(); err != nil {
			a.logger.Error("kafka producer close error", slog.String("error", err.Error()))
		}
	}
	if a.rdb != nil {
		if err := a.rdb.Close(); err != nil {
			a.logger.Error("redis close error", slog.String("error", err.Error()))
		}
	}
	if a.pool != nil {
		a.pool.Close()
	}
	if err := a.shutdownTracer(shutdownCtx); err != nil {
		a.logger.Error("tracer shutdown error", slog.String("error", err.Error()))
	}
	return nil
}
