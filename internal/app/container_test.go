package app

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/require"
	"go.uber.org/dig"

	"github.com/Pranav452/delivery/internal/config"
	"github.com/Pranav452/delivery/internal/domain"
	"github.com/Pranav452/delivery/internal/logx"
	prommetrics "github.com/Pranav452/delivery/internal/metrics"
	"github.com/Pranav452/delivery/internal/service/assignment"
	"github.com/Pranav452/delivery/internal/transport/rabbitmq"
)

func testConfig() *config.Config {
	return &config.Config{
		Port:             8080,
		OperationTimeout: time.Second,
		RateLimit:        config.RateLimit{Enabled: true, Rate: 5, Burst: 10, TTL: time.Minute},
		RabbitMQ:         config.RabbitMQ{Exchange: rabbitmq.DefaultExchange},
	}
}

func setupTestContainer(t *testing.T, cfg *config.Config, surface func(*dig.Container) error) *dig.Container {
	t.Helper()

	c := dig.New()

	providers := []struct {
		name     string
		provider any
	}{
		{"context", func() context.Context { return context.Background() }},
		{"logger", logx.Nop},
		{"config", func() *config.Config { return cfg }},
		{"pgxpool", func() *pgxpool.Pool { return &pgxpool.Pool{} }},
	}
	for _, p := range providers {
		require.NoErrorf(t, c.Provide(p.provider), "provide %s", p.name)
	}

	require.NoError(t, registerMetrics(c))
	require.NoError(t, registerDomainServices(c))
	require.NoError(t, surface(c))

	return c
}

func TestRegisterHTTP_ProvidesServer(t *testing.T) {
	c := setupTestContainer(t, testConfig(), registerHTTP)

	err := c.Invoke(func(srv *http.Server, svc *assignment.Service) {
		require.Equal(t, ":8080", srv.Addr)
		require.NotNil(t, srv.Handler)
		require.NotNil(t, svc)

		rr := httptest.NewRecorder()
		srv.Handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/ping", nil))
		require.Equal(t, http.StatusOK, rr.Code)
	})
	require.NoError(t, err)
}

type serversIn struct {
	dig.In

	Main  *http.Server
	Pprof *http.Server `name:"pprof_server" optional:"true"`
}

func TestRegisterHTTP_PprofServer(t *testing.T) {
	c := setupTestContainer(t, testConfig(), registerHTTP)
	require.NoError(t, c.Invoke(func(in serversIn) {
		require.NotNil(t, in.Main)
		require.Nil(t, in.Pprof)
	}))

	cfg := testConfig()
	cfg.Pprof = config.Pprof{Enabled: true, Addr: "127.0.0.1:6060", User: "u", Pass: "p"}
	c = setupTestContainer(t, cfg, registerHTTP)
	require.NoError(t, c.Invoke(func(in serversIn) {
		require.NotNil(t, in.Pprof)
		require.Equal(t, "127.0.0.1:6060", in.Pprof.Addr)
		require.NotNil(t, in.Pprof.Handler)
	}))
}

func TestRegisterHTTP_RateLimitDisabled(t *testing.T) {
	cfg := testConfig()
	cfg.RateLimit.Enabled = false
	c := setupTestContainer(t, cfg, registerHTTP)

	err := c.Invoke(func(srv *http.Server) {
		for i := 0; i < 50; i++ {
			rr := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/api/assignments/run", nil)
			srv.Handler.ServeHTTP(rr, req)
			require.NotEqual(t, http.StatusTooManyRequests, rr.Code)
		}
	})
	require.NoError(t, err)
}

func TestRegisterHTTP_RateLimitEnabled(t *testing.T) {
	cfg := testConfig()
	cfg.RateLimit.Burst = 2
	cfg.RateLimit.Rate = 0.5
	c := setupTestContainer(t, cfg, registerHTTP)

	err := c.Invoke(func(srv *http.Server) {
		codes := make([]int, 0, 3)
		var last *httptest.ResponseRecorder
		for i := 0; i < 3; i++ {
			last = httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/api/assignments/run", nil)
			req.RemoteAddr = "198.51.100.4:4000"
			srv.Handler.ServeHTTP(last, req)
			codes = append(codes, last.Code)
		}
		require.NotEqual(t, http.StatusTooManyRequests, codes[0])
		require.NotEqual(t, http.StatusTooManyRequests, codes[1])
		require.Equal(t, http.StatusTooManyRequests, codes[2])
		require.Equal(t, "2", last.Header().Get("Retry-After"))

		rr := httptest.NewRecorder()
		srv.Handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/ping", nil))
		require.Equal(t, http.StatusOK, rr.Code)
	})
	require.NoError(t, err)
}

func TestRegisterWorker_NoBrokersGivesNilConsumer(t *testing.T) {
	c := setupTestContainer(t, testConfig(), registerWorker)

	err := c.Invoke(workerRun)
	require.Error(t, err)
	require.Contains(t, err.Error(), "kafka consumer is nil")
}

func swapDefaultRegistry(t *testing.T, reg prometheus.Registerer) {
	t.Helper()
	old := prometheus.DefaultRegisterer
	prometheus.DefaultRegisterer = reg
	t.Cleanup(func() { prometheus.DefaultRegisterer = old })
}

func TestProvideMetrics_RegistersCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	swapDefaultRegistry(t, reg)

	out, err := provideMetrics()
	require.NoError(t, err)
	require.NotNil(t, out.RateLimitExceededTotal)
	require.NotNil(t, out.AssignmentAttempts)

	out.AssignmentAttempts.WithLabelValues(assignment.OutcomeSuccess).Inc()
	families, err := reg.Gather()
	require.NoError(t, err)
	require.NotEmpty(t, families)
}

func TestProvideMetrics_AlreadyRegisteredReturnsExisting(t *testing.T) {
	reg := prometheus.NewRegistry()
	swapDefaultRegistry(t, reg)

	existingRL := prommetrics.NewRateLimitExceededTotal()
	existingAttempts := prommetrics.NewAssignmentAttemptsTotal()
	require.NoError(t, reg.Register(existingRL))
	require.NoError(t, reg.Register(existingAttempts))

	out, err := provideMetrics()
	require.NoError(t, err)
	require.Same(t, existingRL, out.RateLimitExceededTotal)
	require.Same(t, existingAttempts, out.AssignmentAttempts)
}

type errRegisterer struct{ err error }

func (e errRegisterer) Register(prometheus.Collector) error  { return e.err }
func (e errRegisterer) MustRegister(...prometheus.Collector) {}
func (e errRegisterer) Unregister(prometheus.Collector) bool { return false }

func TestProvideMetrics_RegisterError(t *testing.T) {
	swapDefaultRegistry(t, errRegisterer{err: errors.New("boom")})

	_, err := provideMetrics()
	require.Error(t, err)
	require.Contains(t, err.Error(), "register rate_limit_exceeded_total")
}

type nopChannel struct{ closed bool }

func (*nopChannel) ExchangeDeclare(string, string, bool, bool, bool, bool, amqp.Table) error {
	return nil
}

func (*nopChannel) PublishWithContext(context.Context, string, string, bool, bool, amqp.Publishing) error {
	return nil
}

func (c *nopChannel) Close() error {
	c.closed = true
	return nil
}

func TestProvideNotifier(t *testing.T) {
	t.Run("disabled without url", func(t *testing.T) {
		out, err := provideNotifier(testConfig(), logx.Nop())
		require.NoError(t, err)
		require.Nil(t, out.Publisher)
		require.NoError(t, out.Closer())
	})

	t.Run("dials when configured", func(t *testing.T) {
		ch := &nopChannel{}
		orig := dialRabbit
		dialRabbit = func(url, exchange string) (*rabbitmq.Publisher, error) {
			require.Equal(t, "amqp://mq", url)
			return rabbitmq.NewPublisher(ch, exchange)
		}
		t.Cleanup(func() { dialRabbit = orig })

		cfg := testConfig()
		cfg.RabbitMQ.URL = "amqp://mq"
		out, err := provideNotifier(cfg, logx.Nop())
		require.NoError(t, err)
		require.NoError(t, out.Publisher.Publish(context.Background(), domain.Assignment{ID: "a-1", Status: domain.AssignmentSuccess}))
		require.NoError(t, out.Closer())
		require.True(t, ch.closed)
	})

	t.Run("dial error", func(t *testing.T) {
		orig := dialRabbit
		dialRabbit = func(string, string) (*rabbitmq.Publisher, error) { return nil, errors.New("refused") }
		t.Cleanup(func() { dialRabbit = orig })

		cfg := testConfig()
		cfg.RabbitMQ.URL = "amqp://mq"
		_, err := provideNotifier(cfg, logx.Nop())
		require.ErrorContains(t, err, "refused")
	})
}
