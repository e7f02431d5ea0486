package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/dig"

	"github.com/Pranav452/delivery/internal/config"
	"github.com/Pranav452/delivery/internal/logx"
	"github.com/Pranav452/delivery/internal/service/assignment"
	"github.com/Pranav452/delivery/internal/service/orders"
	"github.com/Pranav452/delivery/internal/transport/kafka"
)

// WorkerRunner runs the order event worker
type WorkerRunner struct {
	runFn func(*dig.Container) error
}

// NewWorkerRunner returns a new WorkerRunner
func NewWorkerRunner() *WorkerRunner {
	return &WorkerRunner{runFn: runWorker}
}

// MustRun consumes order events until the container's context is cancelled
func (r *WorkerRunner) MustRun(container *dig.Container) {
	err := r.runFn(container)
	if err == nil || errors.Is(err, context.Canceled) {
		return
	}
	panic(err)
}

var newKafkaConsumer = kafka.NewConsumer

func registerWorker(container *dig.Container) error {
	return provideAll(container,
		func(svc *assignment.Service, logger logx.Logger) *orders.Processor {
			return orders.NewProcessor(svc, logger.With(logx.String("component", "orders")))
		},
		func(cfg *config.Config, logger logx.Logger, p *orders.Processor) (*kafka.Consumer, error) {
			return newKafkaConsumer(logger, cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.Topic, makeOrdersKafka(p))
		},
	)
}

func runWorker(container *dig.Container) error {
	return container.Invoke(workerRun)
}

func workerRun(
	ctx context.Context,
	pool *pgxpool.Pool,
	logger logx.Logger,
	consumer *kafka.Consumer,
	closeNotifier notifierCloser,
) error {
	if consumer == nil {
		return fmt.Errorf("kafka consumer is nil: set KAFKA_BROKERS")
	}
	defer closeWorker(pool, logger, consumer, closeNotifier)

	logger.Info("service-dispatch-worker started")
	return consumer.Run(ctx)
}

func closeWorker(pool *pgxpool.Pool, logger logx.Logger, consumer *kafka.Consumer, closeNotifier notifierCloser) {
	if consumer != nil {
		if err := consumer.Close(); err != nil {
			logger.Error("kafka close error", logx.Err(err))
		}
	}
	if closeNotifier != nil {
		if err := closeNotifier(); err != nil {
			logger.Error("notifier close error", logx.Err(err))
		}
	}
	if pool != nil {
		pool.Close()
	}
}
