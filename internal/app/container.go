package app

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/dig"

	"github.com/Pranav452/delivery/internal/config"
	"github.com/Pranav452/delivery/internal/http/handlers"
	"github.com/Pranav452/delivery/internal/http/pprofserver"
	"github.com/Pranav452/delivery/internal/http/router"
	"github.com/Pranav452/delivery/internal/logx"
	prommetrics "github.com/Pranav452/delivery/internal/metrics"
	"github.com/Pranav452/delivery/internal/repository"
	"github.com/Pranav452/delivery/internal/service/assignment"
	metricssvc "github.com/Pranav452/delivery/internal/service/metrics"
	"github.com/Pranav452/delivery/internal/transport/rabbitmq"
)

type dbConnectFunc func(ctx context.Context, logger logx.Logger, dsn string, maxConns int32, retries int, delay time.Duration) (*pgxpool.Pool, error)

// ContainerBuilder is a dig container builder.
type ContainerBuilder struct {
	args      []string
	dbConnect dbConnectFunc
	logFatalf func(string, ...interface{})
}

// NewContainerBuilder returns a new dig container builder.
// args are the command-line arguments without the program name.
func NewContainerBuilder(args []string) *ContainerBuilder {
	return &ContainerBuilder{
		args:      args,
		dbConnect: connectDbWithRetry,
		logFatalf: log.Fatalf,
	}
}

// WithDBConnect sets the database connection function
func (b *ContainerBuilder) WithDBConnect(fn dbConnectFunc) *ContainerBuilder {
	if fn != nil {
		b.dbConnect = fn
	}
	return b
}

// WithLogFatalf sets the log.Fatalf function
func (b *ContainerBuilder) WithLogFatalf(fn func(string, ...interface{})) *ContainerBuilder {
	if fn != nil {
		b.logFatalf = fn
	}
	return b
}

// MustBuild builds the HTTP service container.
func (b *ContainerBuilder) MustBuild(ctx context.Context) *dig.Container {
	container, err := b.build(ctx, registerHTTP)
	if err != nil {
		b.logFatalf("failed to build container: %v", err)
	}
	return container
}

// MustBuildWorker builds the order event worker container.
func (b *ContainerBuilder) MustBuildWorker(ctx context.Context) *dig.Container {
	container, err := b.build(ctx, registerWorker)
	if err != nil {
		b.logFatalf("failed to build worker container: %v", err)
	}
	return container
}

func (b *ContainerBuilder) build(ctx context.Context, surface func(*dig.Container) error) (*dig.Container, error) {
	container := dig.New()

	if err := registerCore(container, ctx, b.args); err != nil {
		return nil, fmt.Errorf("core: %w", err)
	}
	if err := registerDb(container, b.dbConnect); err != nil {
		return nil, fmt.Errorf("DB: %w", err)
	}
	if err := registerMetrics(container); err != nil {
		return nil, fmt.Errorf("metrics: %w", err)
	}
	if err := registerDomainServices(container); err != nil {
		return nil, fmt.Errorf("service: %w", err)
	}
	if err := surface(container); err != nil {
		return nil, fmt.Errorf("surface: %w", err)
	}
	return container, nil
}

// MustBuildContainer builds the HTTP service container from the given arguments.
func MustBuildContainer(ctx context.Context, args []string) *dig.Container {
	return NewContainerBuilder(args).MustBuild(ctx)
}

// MustBuildWorkerContainer builds the worker container from the given arguments.
func MustBuildWorkerContainer(ctx context.Context, args []string) *dig.Container {
	return NewContainerBuilder(args).MustBuildWorker(ctx)
}

func provideAll(container *dig.Container, providers ...any) error {
	for _, provider := range providers {
		if err := container.Provide(provider); err != nil {
			return fmt.Errorf("provide %T: %w", provider, err)
		}
	}
	return nil
}

func registerCore(container *dig.Container, ctx context.Context, args []string) error {
	return provideAll(container,
		func() context.Context { return ctx },
		func() (*config.Config, error) { return config.Load(args) },
		NewLogger,
	)
}

func registerDb(container *dig.Container, dbConnect dbConnectFunc) error {
	providerDB := func(ctx context.Context, cfg *config.Config, logger logx.Logger) (*pgxpool.Pool, error) {
		// Migrations run once the retried connect has proven the database is reachable.
		pool, err := dbConnect(ctx, logger, cfg.DB.DSN(), cfg.DB.MaxConns, 10, time.Second)
		if err != nil {
			return nil, err
		}
		if cfg.DB.MigrateOnStart {
			if err := migrateUp(cfg.DB.DSN()); err != nil {
				closePool(pool)
				return nil, fmt.Errorf("migrate: %w", err)
			}
			logger.Info("migrations applied")
		}
		return pool, nil
	}
	return provideAll(container, providerDB)
}

type metricsOut struct {
	dig.Out

	RateLimitExceededTotal prometheus.Counter     `name:"rate_limit_exceeded_total"`
	AssignmentAttempts     *prometheus.CounterVec `name:"assignment_attempts_total"`
}

func provideMetrics() (metricsOut, error) {
	reg := prometheus.DefaultRegisterer

	rl, err := prommetrics.Register(reg, prommetrics.NewRateLimitExceededTotal())
	if err != nil {
		return metricsOut{}, fmt.Errorf("register rate_limit_exceeded_total: %w", err)
	}
	attempts, err := prommetrics.Register(reg, prommetrics.NewAssignmentAttemptsTotal())
	if err != nil {
		return metricsOut{}, fmt.Errorf("register assignment_attempts_total: %w", err)
	}
	return metricsOut{RateLimitExceededTotal: rl, AssignmentAttempts: attempts}, nil
}

func registerMetrics(container *dig.Container) error {
	return provideAll(container,
		provideMetrics,
		func() prometheus.Gatherer { return prometheus.DefaultGatherer },
	)
}

// notifierCloser releases the notification transport.
type notifierCloser func() error

type notifierOut struct {
	dig.Out

	Publisher assignment.Publisher
	Closer    notifierCloser
}

var dialRabbit = rabbitmq.Dial

func provideNotifier(cfg *config.Config, logger logx.Logger) (notifierOut, error) {
	if cfg.RabbitMQ.URL == "" {
		logger.Info("rabbitmq disabled, assignment notifications are not published")
		return notifierOut{Closer: func() error { return nil }}, nil
	}
	p, err := dialRabbit(cfg.RabbitMQ.URL, cfg.RabbitMQ.Exchange)
	if err != nil {
		return notifierOut{}, fmt.Errorf("rabbitmq: %w", err)
	}
	return notifierOut{Publisher: p, Closer: p.Close}, nil
}

type assignmentServiceIn struct {
	dig.In

	Repo      *repository.DispatchRepo
	Publisher assignment.Publisher
	Attempts  *prometheus.CounterVec `name:"assignment_attempts_total"`
	Config    *config.Config
	Logger    logx.Logger
}

func newAssignmentService(in assignmentServiceIn) *assignment.Service {
	return assignment.NewService(
		in.Repo,
		in.Publisher,
		prommetrics.NewAssignmentRecorder(in.Attempts),
		in.Config.OperationTimeout,
		in.Logger.With(logx.String("component", "assignment")),
	)
}

func newMetricsService(repo *repository.DispatchRepo, cfg *config.Config, logger logx.Logger) *metricssvc.Service {
	return metricssvc.NewService(repo, cfg.OperationTimeout, logger.With(logx.String("component", "metrics")))
}

func registerDomainServices(container *dig.Container) error {
	return provideAll(container,
		repository.NewDispatchRepo,
		provideNotifier,
		newAssignmentService,
		newMetricsService,
	)
}

func registerHTTP(container *dig.Container) error {
	serverProvider := func(cfg *config.Config, mux http.Handler) *http.Server {
		return &http.Server{
			Addr:              fmt.Sprintf(":%d", cfg.Port),
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      15 * time.Second,
			IdleTimeout:       60 * time.Second,
		}
	}
	return provideAll(container,
		providePprofServer,
		newHealthProbe,
		handlers.New,
		handlers.NewAssignmentUsecase,
		handlers.NewMetricsUsecase,
		handlers.NewAssignmentHandler,
		handlers.NewOrderHandler,
		newRateLimitMiddleware,
		router.New,
		serverProvider,
	)
}

func newHealthProbe(pool *pgxpool.Pool) handlers.Pinger {
	return pool
}

type pprofOut struct {
	dig.Out

	Server *http.Server `name:"pprof_server"`
}

func providePprofServer(cfg *config.Config, logger logx.Logger) pprofOut {
	if !cfg.Pprof.Enabled {
		return pprofOut{}
	}
	return pprofOut{Server: &http.Server{
		Addr: cfg.Pprof.Addr,
		Handler: pprofserver.Handler(
			pprofserver.Config{User: cfg.Pprof.User, Pass: cfg.Pprof.Pass},
			logger.With(logx.String("component", "pprof")),
		),
		ReadHeaderTimeout: 5 * time.Second,
	}}
}
