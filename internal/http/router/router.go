package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/dig"

	"github.com/Pranav452/delivery/internal/http/handlers"
	appmw "github.com/Pranav452/delivery/internal/http/middleware"
	"github.com/Pranav452/delivery/internal/http/middleware/ratelimit"
	"github.com/Pranav452/delivery/internal/logx"
)

const requestTimeout = 5 * time.Second

// Params lists the handlers and middleware the router mounts.
type Params struct {
	dig.In

	Base       *handlers.Handlers
	Assignment *handlers.AssignmentHandler
	Order      *handlers.OrderHandler
	Logger     logx.Logger
	RateLimit  *ratelimit.Middleware `optional:"true"`
	Gatherer   prometheus.Gatherer   `optional:"true"`
}

// New constructs a chi-based http.Handler with base middleware and routes.
func New(p Params) http.Handler {
	logger := p.Logger
	if logger == nil {
		logger = logx.Nop()
	}

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(appmw.Observability(logger))
	r.Use(middleware.Timeout(requestTimeout))

	r.Get("/ping", p.Base.Ping)
	r.Method(http.MethodHead, "/healthcheck", http.HandlerFunc(p.Base.HealthcheckHead))
	r.Method(http.MethodGet, "/metrics", metricsHandler(p.Gatherer))

	r.Route("/api", func(r chi.Router) {
		if p.RateLimit != nil {
			r.Use(p.RateLimit.Handler())
		}
		r.Post("/assignments/run", p.Assignment.Run)
		r.Get("/assignments/metrics", p.Assignment.Metrics)
		r.Post("/orders/{id}/status", p.Order.UpdateStatus)
	})

	r.NotFound(http.HandlerFunc(p.Base.NotFound))

	return r
}

func metricsHandler(g prometheus.Gatherer) http.Handler {
	if g == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
