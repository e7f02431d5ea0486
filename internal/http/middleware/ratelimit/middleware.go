package ratelimit

import (
	"encoding/json"
	"math"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/Pranav452/delivery/internal/logx"
)

// KeyFunc picks the bucket a request is charged to.
type KeyFunc func(*http.Request) string

// Option tunes a Middleware.
type Option func(*Middleware)

// WithKey charges requests to buckets chosen by fn instead of the client IP.
func WithKey(fn KeyFunc) Option {
	return func(m *Middleware) {
		if fn != nil {
			m.key = fn
		}
	}
}

// WithRetryAfter sets the Retry-After hint sent with rejections. It is rounded up to whole
// seconds and never below one.
func WithRetryAfter(d time.Duration) Option {
	return func(m *Middleware) {
		m.retryAfter = retryAfterSeconds(d)
	}
}

// RetryAfterFor is the time a client needs to earn one token at rate tokens per second.
func RetryAfterFor(rate float64) time.Duration {
	if rate <= 0 {
		return time.Second
	}
	return time.Duration(float64(time.Second) / rate)
}

// Middleware rejects API calls from clients that exceed their rate. Rejections use the same
// body shape as a failed assignment so callers can treat them uniformly.
type Middleware struct {
	logger     logx.Logger
	counter    prometheus.Counter
	limiter    Limiter
	key        KeyFunc
	retryAfter string
}

type rejection struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// New creates a Middleware. A nil limiter lets everything through.
func New(logger logx.Logger, counter prometheus.Counter, limiter Limiter, opts ...Option) *Middleware {
	if limiter == nil {
		limiter = NopLimiter{}
	}
	if logger == nil {
		logger = logx.Nop()
	}
	m := &Middleware{
		logger:     logger,
		counter:    counter,
		limiter:    limiter,
		key:        ClientIP,
		retryAfter: "1",
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Handler returns chi-style middleware.
func (m *Middleware) Handler() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := m.key(r)
			if m.limiter.Allow(key) {
				next.ServeHTTP(w, r)
				return
			}

			if m.counter != nil {
				m.counter.Inc()
			}
			m.logger.Warn("rate limit exceeded",
				logx.String("client", key),
				logx.String("method", r.Method),
				logx.String("path", r.URL.Path),
			)
			w.Header().Set("Content-Type", "application/json")
			w.Header().Set("Retry-After", m.retryAfter)
			w.WriteHeader(http.StatusTooManyRequests)
			if err := json.NewEncoder(w).Encode(rejection{Error: "Too many requests"}); err != nil {
				m.logger.Debug("rate limit response write failed",
					logx.String("client", key),
					logx.Err(err),
				)
			}
		})
	}
}

// ClientIP keys requests by remote host. It expects chi's RealIP middleware to have already
// rewritten RemoteAddr.
func ClientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err == nil && host != "" {
		return host
	}
	if r.RemoteAddr != "" {
		return r.RemoteAddr
	}
	return "unknown"
}

func retryAfterSeconds(d time.Duration) string {
	s := int(math.Ceil(d.Seconds()))
	if s < 1 {
		s = 1
	}
	return strconv.Itoa(s)
}
