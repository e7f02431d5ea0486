package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/Pranav452/delivery/internal/logx"
)

const healthcheckTimeout = time.Second

// Pinger reports whether the assignment store is reachable. *pgxpool.Pool satisfies it.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handlers holds the operational endpoints.
type Handlers struct {
	Logger logx.Logger
	DB     Pinger
}

// New creates a Handlers instance. A nil logger discards output; a nil db makes the
// healthcheck a liveness check only.
func New(logger logx.Logger, db Pinger) *Handlers {
	if logger == nil {
		logger = logx.Nop()
	}
	return &Handlers{Logger: logger, DB: db}
}

// Ping handles GET /ping.
func (h *Handlers) Ping(w http.ResponseWriter, r *http.Request) {
	writeJSON(h.Logger, w, r, http.StatusOK, map[string]string{"message": "pong"})
}

// HealthcheckHead answers 204 while the store answers a ping and 503 otherwise.
func (h *Handlers) HealthcheckHead(w http.ResponseWriter, r *http.Request) {
	if h.DB != nil {
		ctx, cancel := context.WithTimeout(r.Context(), healthcheckTimeout)
		defer cancel()
		if err := h.DB.Ping(ctx); err != nil {
			h.Logger.Warn("healthcheck failed",
				logx.String("request_id", reqID(r.Context())),
				logx.Err(err),
			)
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
	}
	w.WriteHeader(http.StatusNoContent)
}

// NotFound returns a JSON 404 error for unknown routes.
func (h *Handlers) NotFound(w http.ResponseWriter, r *http.Request) {
	writeError(h.Logger, w, r, http.StatusNotFound, "route not found")
}
