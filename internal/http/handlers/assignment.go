package handlers

import (
	"errors"
	"net/http"

	"github.com/Pranav452/delivery/internal/apperr"
	"github.com/Pranav452/delivery/internal/domain"
	"github.com/Pranav452/delivery/internal/logx"
)

const (
	msgAssignFailed  = "Failed to assign order"
	msgMetricsFailed = "Failed to fetch metrics"
)

// AssignmentHandler serves the assignment run and metrics endpoints.
type AssignmentHandler struct {
	usecase assignmentUsecase
	metrics metricsUsecase
	logger  logx.Logger
}

// NewAssignmentHandler creates a new AssignmentHandler.
func NewAssignmentHandler(logger logx.Logger, uc assignmentUsecase, m metricsUsecase) *AssignmentHandler {
	if logger == nil {
		logger = logx.Nop()
	}
	return &AssignmentHandler{usecase: uc, metrics: m, logger: logger}
}

// Run handles POST /api/assignments/run.
// A missing partner is an expected outcome and is answered with 200 and success=false.
func (h *AssignmentHandler) Run(w http.ResponseWriter, r *http.Request) {
	var req runAssignmentRequest
	if ok := decodeJSON(h.logger, w, r, &req); !ok {
		return
	}

	res, err := h.usecase.Assign(r.Context(), req.OrderID.String())
	switch {
	case err == nil:
		writeJSON(h.logger, w, r, http.StatusOK, assignResultToResponse(res))
	case errors.Is(err, apperr.ErrNoEligiblePartner):
		writeJSON(h.logger, w, r, http.StatusOK, assignResultToResponse(res))
	case errors.Is(err, apperr.ErrInvalid):
		h.fail(w, r, http.StatusBadRequest, "invalid input")
	case errors.Is(err, apperr.ErrNotFound):
		h.fail(w, r, http.StatusNotFound, domain.ReasonOrderNotFound)
	case errors.Is(err, apperr.ErrCommitConflict), errors.Is(err, apperr.ErrConflict):
		h.fail(w, r, http.StatusConflict, reasonOr(res, domain.ReasonAssignmentFailed))
	default:
		h.logger.Error("assignment run failed",
			logx.String("request_id", reqID(r.Context())),
			logx.String("order_id", req.OrderID.String()),
			logx.Err(err),
		)
		h.fail(w, r, http.StatusInternalServerError, msgAssignFailed)
	}
}

// Metrics handles GET /api/assignments/metrics.
func (h *AssignmentHandler) Metrics(w http.ResponseWriter, r *http.Request) {
	m, err := h.metrics.Metrics(r.Context())
	if err != nil {
		writeError(h.logger, w, r, http.StatusInternalServerError, msgMetricsFailed)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, metricsToResponse(m))
}

func (h *AssignmentHandler) fail(w http.ResponseWriter, r *http.Request, status int, msg string) {
	h.logger.Warn("assignment rejected",
		logx.String("request_id", reqID(r.Context())),
		logx.Int("status", status),
		logx.String("reason", msg),
	)
	writeJSON(h.logger, w, r, status, assignResponse{Error: msg})
}

func reasonOr(res domain.AssignResult, fallback string) string {
	if res.Reason != "" {
		return res.Reason
	}
	return fallback
}
