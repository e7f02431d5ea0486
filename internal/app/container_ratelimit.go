package app

import (
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/dig"

	"github.com/Pranav452/delivery/internal/config"
	"github.com/Pranav452/delivery/internal/http/middleware/ratelimit"
	"github.com/Pranav452/delivery/internal/logx"
)

type rateLimitIn struct {
	dig.In

	Config  *config.Config
	Logger  logx.Logger
	Counter prometheus.Counter `name:"rate_limit_exceeded_total"`
	Clock   ratelimit.Clock    `optional:"true"`
}

// newRateLimitMiddleware guards the /api group. With RATE_LIMIT_ENABLED=false it still
// exists but admits every call.
func newRateLimitMiddleware(in rateLimitIn) *ratelimit.Middleware {
	rl := in.Config.RateLimit
	logger := in.Logger.With(logx.String("component", "ratelimit"))
	if !rl.Enabled {
		return ratelimit.New(logger, in.Counter, ratelimit.NopLimiter{})
	}

	clock := in.Clock
	if clock == nil {
		clock = ratelimit.RealClock{}
	}
	limiter := ratelimit.NewKeyedLimiter(clock, ratelimit.Config{
		Rate:       rl.Rate,
		Burst:      rl.Burst,
		TTL:        rl.TTL,
		MaxBuckets: rl.MaxBuckets,
	})
	return ratelimit.New(logger, in.Counter, limiter,
		ratelimit.WithRetryAfter(ratelimit.RetryAfterFor(rl.Rate)),
	)
}
