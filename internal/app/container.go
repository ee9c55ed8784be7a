// Package app wires the tracking engine: storage, cache, event delivery and
// the application handlers used by every transport.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"

	"github.com/felixgeelhaar/pacer/internal/projects/application/commands"
	"github.com/felixgeelhaar/pacer/internal/projects/application/queries"
	"github.com/felixgeelhaar/pacer/internal/projects/application/subscribers"
	"github.com/felixgeelhaar/pacer/internal/projects/domain"
	"github.com/felixgeelhaar/pacer/internal/projects/infrastructure/persistence"
	sharedApplication "github.com/felixgeelhaar/pacer/internal/shared/application"
	"github.com/felixgeelhaar/pacer/internal/shared/infrastructure/cache"
	"github.com/felixgeelhaar/pacer/internal/shared/infrastructure/database"
	_ "github.com/felixgeelhaar/pacer/internal/shared/infrastructure/database/postgres"
	_ "github.com/felixgeelhaar/pacer/internal/shared/infrastructure/database/sqlite"
	"github.com/felixgeelhaar/pacer/internal/shared/infrastructure/eventbus"
	"github.com/felixgeelhaar/pacer/internal/shared/infrastructure/migrations"
	"github.com/felixgeelhaar/pacer/internal/shared/infrastructure/outbox"
	"github.com/felixgeelhaar/pacer/pkg/config"
	"github.com/felixgeelhaar/pacer/pkg/observability"
)

// Container holds all application dependencies.
type Container struct {
	Config *config.Config
	Logger *slog.Logger
	Clock  sharedApplication.Clock

	// Observability
	MetricsRegistry *prometheus.Registry
	Metrics         *observability.PrometheusMetrics
	Health          *observability.HealthRegistry

	// Infrastructure
	DB          database.Connection
	RedisClient *redis.Client
	Cache       cache.Cache

	// Repositories
	ProjectRepo  domain.ProjectRepository
	TaskRepo     domain.TaskRepository
	SnapshotRepo domain.SnapshotRepository
	OutboxRepo   outbox.Repository
	UnitOfWork   sharedApplication.UnitOfWork

	// Event delivery. EventBus is nil when events go to RabbitMQ.
	EventBus        *eventbus.InProcessEventBus
	EventPublisher  eventbus.Publisher
	OutboxProcessor *outbox.Processor

	// Project Command Handlers
	CreateProjectHandler *commands.CreateProjectHandler
	UpdateProjectHandler *commands.UpdateProjectHandler
	DeleteProjectHandler *commands.DeleteProjectHandler

	// Task Command Handlers
	CreateTaskHandler *commands.CreateTaskHandler
	UpdateTaskHandler *commands.UpdateTaskHandler
	DeleteTaskHandler *commands.DeleteTaskHandler

	// Snapshot Command Handlers
	UpsertSnapshotHandler *commands.UpsertSnapshotHandler
	DeleteSnapshotHandler *commands.DeleteSnapshotHandler

	// Query Handlers
	GetProjectHandler          *queries.GetProjectHandler
	ListProjectsHandler        *queries.ListProjectsHandler
	GetTaskHandler             *queries.GetTaskHandler
	ListTasksHandler           *queries.ListTasksHandler
	GetProjectMetricsHandler   *queries.GetProjectMetricsHandler
	ListAlertsHandler          *queries.ListAlertsHandler
	GetKPIsHandler             *queries.GetKPIsHandler
	GetPortfolioSummaryHandler *queries.GetPortfolioSummaryHandler
	GetCalendarHandler         *queries.GetCalendarHandler
	CurrentWeekHandler         *queries.CurrentWeekHandler
	ListSnapshotsHandler       *queries.ListSnapshotsHandler
	WeeklySummaryHandler       *queries.WeeklySummaryHandler
	WeeklyTrendsHandler        *queries.WeeklyTrendsHandler
}

// NewContainer creates a new dependency injection container.
func NewContainer(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Container, error) {
	if logger == nil {
		logger = slog.Default()
	}
	c := &Container{
		Config: cfg,
		Logger: logger,
		Clock:  sharedApplication.SystemClock{},
		Health: observability.NewHealthRegistry(),
	}

	c.MetricsRegistry = prometheus.NewRegistry()
	c.MetricsRegistry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	c.Metrics = observability.NewPrometheusMetrics("pacer", c.MetricsRegistry)

	if err := c.initDatabase(ctx); err != nil {
		return nil, err
	}
	if err := c.initCache(ctx); err != nil {
		c.Close()
		return nil, err
	}
	if err := c.initEvents(); err != nil {
		c.Close()
		return nil, err
	}
	c.initHandlers()

	return c, nil
}

func (c *Container) initDatabase(ctx context.Context) error {
	dbCfg := database.Config{
		URL:        c.Config.DatabaseURL,
		SQLitePath: c.Config.SQLitePath,
		MaxConns:   c.Config.DBMaxConns,
	}
	if c.Config.UsesSQLite() {
		dbCfg.Driver = database.DriverSQLite
	}

	conn, err := database.NewConnection(ctx, dbCfg)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := migrations.Run(ctx, conn); err != nil {
		_ = conn.Close()
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	c.DB = conn
	c.Logger.Info("connected to database", "driver", conn.Driver().String())

	c.ProjectRepo = persistence.NewProjectRepository(conn)
	c.TaskRepo = persistence.NewTaskRepository(conn)
	c.SnapshotRepo = persistence.NewSnapshotRepository(conn)
	c.OutboxRepo = outbox.NewSQLRepository(conn)
	c.UnitOfWork = database.NewUnitOfWork(conn)

	c.Health.Register("database", observability.DatabaseHealthChecker(conn.Ping))
	return nil
}

func (c *Container) initCache(ctx context.Context) error {
	var backend cache.Cache = cache.NewMemoryCache(c.Clock.Now)

	if c.Config.CacheBackend == config.CacheBackendRedis {
		client, err := connectRedis(ctx, c.Config.RedisURL)
		switch {
		case err == nil:
			c.RedisClient = client
			backend = cache.NewRedisCache(client, cache.DefaultRedisConfig(), c.Logger)
			c.Health.Register("redis", observability.RedisHealthChecker(func(ctx context.Context) error {
				return client.Ping(ctx).Err()
			}))
			c.Logger.Info("connected to Redis")
		case c.Config.IsDevelopment():
			c.Logger.Warn("Redis not available, using in-memory cache", "error", err)
		default:
			return err
		}
	}

	c.Cache = cache.NewInstrumentedCache(backend, c.Metrics)
	return nil
}

func connectRedis(ctx context.Context, url string) (*redis.Client, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}
	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return client, nil
}

func (c *Container) initEvents() error {
	if c.Config.RabbitMQURL != "" {
		publisher, err := eventbus.NewRabbitMQPublisher(c.Config.RabbitMQURL, c.Logger)
		if err != nil {
			if !c.Config.IsDevelopment() {
				return fmt.Errorf("failed to connect to RabbitMQ: %w", err)
			}
			c.Logger.Warn("RabbitMQ not available, delivering events in process", "error", err)
		} else {
			c.EventPublisher = publisher
			c.Health.Register("rabbitmq", observability.RabbitMQHealthChecker(publisher.Ping))
		}
	}

	if c.EventPublisher == nil {
		c.EventBus = eventbus.NewInProcessEventBus(c.Logger)
		for _, consumer := range c.Subscribers() {
			c.EventBus.RegisterConsumer(consumer)
		}
		c.EventPublisher = c.EventBus
	}

	c.OutboxProcessor = outbox.NewProcessor(c.OutboxRepo, c.EventPublisher, outbox.ProcessorConfig{
		PollInterval:     c.Config.OutboxPollInterval,
		BatchSize:        c.Config.OutboxBatchSize,
		MaxRetries:       c.Config.OutboxMaxRetries,
		RetryBackoffBase: outbox.DefaultProcessorConfig().RetryBackoffBase,
		RetryBackoffMax:  outbox.DefaultProcessorConfig().RetryBackoffMax,
		Retention:        c.Config.OutboxRetention(),
	}, c.Logger).WithMetrics(c.Metrics)
	return nil
}

// Subscribers returns the event consumers of this process. The cache
// invalidator is included only when invalidate-on-write is enabled.
func (c *Container) Subscribers() []eventbus.EventConsumer {
	consumers := []eventbus.EventConsumer{
		subscribers.NewTrackingMetrics(c.Metrics, c.Logger),
	}
	if c.Config.CacheInvalidateOnWrite {
		consumers = append(consumers, subscribers.NewCacheInvalidator(c.Cache, c.Logger))
	}
	return consumers
}

func (c *Container) initHandlers() {
	c.CreateProjectHandler = commands.NewCreateProjectHandler(c.ProjectRepo, c.OutboxRepo, c.UnitOfWork, c.Clock)
	c.UpdateProjectHandler = commands.NewUpdateProjectHandler(c.ProjectRepo, c.OutboxRepo, c.UnitOfWork, c.Clock)
	c.DeleteProjectHandler = commands.NewDeleteProjectHandler(c.ProjectRepo, c.TaskRepo, c.OutboxRepo, c.UnitOfWork, c.Clock)

	c.CreateTaskHandler = commands.NewCreateTaskHandler(c.ProjectRepo, c.TaskRepo, c.OutboxRepo, c.UnitOfWork, c.Clock)
	c.UpdateTaskHandler = commands.NewUpdateTaskHandler(c.ProjectRepo, c.TaskRepo, c.OutboxRepo, c.UnitOfWork, c.Clock)
	c.DeleteTaskHandler = commands.NewDeleteTaskHandler(c.ProjectRepo, c.TaskRepo, c.OutboxRepo, c.UnitOfWork, c.Clock)

	c.UpsertSnapshotHandler = commands.NewUpsertSnapshotHandler(c.TaskRepo, c.SnapshotRepo, c.OutboxRepo, c.UnitOfWork, c.Clock)
	c.DeleteSnapshotHandler = commands.NewDeleteSnapshotHandler(c.SnapshotRepo, c.OutboxRepo, c.UnitOfWork, c.Clock)

	ttl := c.Config.CacheTTL
	c.GetProjectHandler = queries.NewGetProjectHandler(c.ProjectRepo, c.TaskRepo)
	c.ListProjectsHandler = queries.NewListProjectsHandler(c.ProjectRepo)
	c.GetTaskHandler = queries.NewGetTaskHandler(c.TaskRepo)
	c.ListTasksHandler = queries.NewListTasksHandler(c.ProjectRepo, c.TaskRepo)
	c.GetProjectMetricsHandler = queries.NewGetProjectMetricsHandler(c.ProjectRepo, c.TaskRepo, c.Clock)
	c.ListAlertsHandler = queries.NewListAlertsHandler(c.ProjectRepo, c.TaskRepo, c.Cache, ttl, c.Clock)
	c.GetKPIsHandler = queries.NewGetKPIsHandler(c.ProjectRepo, c.TaskRepo, c.Cache, ttl)
	c.GetPortfolioSummaryHandler = queries.NewGetPortfolioSummaryHandler(c.ProjectRepo, c.TaskRepo, c.Cache, ttl)
	c.GetCalendarHandler = queries.NewGetCalendarHandler(c.ProjectRepo, c.TaskRepo, c.SnapshotRepo)
	c.CurrentWeekHandler = queries.NewCurrentWeekHandler(c.GetCalendarHandler, c.Clock)
	c.ListSnapshotsHandler = queries.NewListSnapshotsHandler(c.ProjectRepo, c.TaskRepo, c.SnapshotRepo)
	c.WeeklySummaryHandler = queries.NewWeeklySummaryHandler(c.SnapshotRepo)
	c.WeeklyTrendsHandler = queries.NewWeeklyTrendsHandler(c.ProjectRepo, c.SnapshotRepo)
}

// Close cleans up all resources.
func (c *Container) Close() {
	if c.OutboxProcessor != nil {
		c.OutboxProcessor.Stop()
	}

	var errs []error
	if c.EventPublisher != nil {
		errs = append(errs, c.EventPublisher.Close())
	}
	if c.RedisClient != nil {
		errs = append(errs, c.RedisClient.Close())
	}
	if c.DB != nil {
		errs = append(errs, c.DB.Close())
	}
	if err := errors.Join(errs...); err != nil {
		c.Logger.Warn("error closing resources", "error", err)
		return
	}
	c.Logger.Debug("container closed")
}
