package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/dig"

	"github.com/Pranav452/delivery/internal/logx"
)

const shutdownTimeout = 15 * time.Second

// MustRun starts the HTTP server using the provided DI container
func MustRun(container *dig.Container) {
	if err := run(container); err != nil {
		switch {
		case errors.Is(err, context.Canceled):
			log.Println("shutdown requested, exiting")
			return
		case errors.Is(err, context.DeadlineExceeded):
			log.Println("startup aborted: startup timeout exceeded")
			return
		default:
			log.Fatalf("run error: %v", err)
		}
	}
}

type serveIn struct {
	dig.In

	Ctx           context.Context
	Server        *http.Server
	Pprof         *http.Server `name:"pprof_server" optional:"true"`
	Pool          *pgxpool.Pool
	Logger        logx.Logger
	CloseNotifier notifierCloser
}

func run(container *dig.Container) error {
	return container.Invoke(func(in serveIn) error {
		return serve(in.Ctx, in.Server, in.Pprof, in.Pool, in.Logger, in.CloseNotifier)
	})
}

// serve runs the API server, and the profiling server when one is given, until ctx ends
// or a listener fails.
func serve(
	ctx context.Context,
	server, pprof *http.Server,
	pool *pgxpool.Pool,
	logger logx.Logger,
	closeNotifier notifierCloser,
) error {
	errCh := make(chan error, 2)
	startServer(server, "service-dispatch", logger, errCh)
	if pprof != nil {
		startServer(pprof, "pprof", logger, errCh)
	}
	defer closeResources(pool, server, logger, closeNotifier)

	select {
	case <-ctx.Done():
		logger.Info("shutting down service-dispatch")
	case err := <-errCh:
		if pprof != nil {
			_ = pprof.Close()
		}
		return err
	}
	if pprof != nil {
		gracefulShutdown(pprof, logger, shutdownTimeout)
	}
	gracefulShutdown(server, logger, shutdownTimeout)
	return nil
}

func startServer(server *http.Server, name string, logger logx.Logger, errCh chan<- error) {
	go func() {
		logger.Info(name+" listening", logx.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("%s listen: %w", name, err)
		}
	}()
}

func gracefulShutdown(srv *http.Server, logger logx.Logger, timeout time.Duration) {
	shCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := srv.Shutdown(shCtx); err != nil {
		logger.Error("graceful shutdown error", logx.Err(err))
	}
}

func closeResources(pool *pgxpool.Pool, server *http.Server, logger logx.Logger, closeNotifier notifierCloser) {
	if err := server.Close(); err != nil {
		logger.Error("server close error", logx.Err(err))
	}
	if closeNotifier != nil {
		if err := closeNotifier(); err != nil {
			logger.Error("notifier close error", logx.Err(err))
		}
	}
	if pool != nil {
		pool.Close()
	}
	_ = logger.Sync()
}
