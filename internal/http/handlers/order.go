package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/Pranav452/delivery/internal/apperr"
	"github.com/Pranav452/delivery/internal/logx"
)

// OrderHandler serves order lifecycle updates.
type OrderHandler struct {
	usecase assignmentUsecase
	logger  logx.Logger
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(logger logx.Logger, uc assignmentUsecase) *OrderHandler {
	if logger == nil {
		logger = logx.Nop()
	}
	return &OrderHandler{usecase: uc, logger: logger}
}

// UpdateStatus handles POST /api/orders/{id}/status.
func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	orderID := strings.TrimSpace(chi.URLParam(r, "id"))
	if orderID == "" {
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid order id")
		return
	}

	var req orderStatusRequest
	if ok := decodeJSON(h.logger, w, r, &req); !ok {
		return
	}

	res, err := h.usecase.Transition(r.Context(), orderID, statusFromRequest(req.Status))
	switch {
	case err == nil:
		writeJSON(h.logger, w, r, http.StatusOK, transitionToResponse(res))
	case errors.Is(err, apperr.ErrInvalid):
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid input")
	case errors.Is(err, apperr.ErrNotFound):
		writeError(h.logger, w, r, http.StatusNotFound, "order not found")
	case errors.Is(err, apperr.ErrConflict), errors.Is(err, apperr.ErrCommitConflict):
		writeError(h.logger, w, r, http.StatusConflict, "transition not allowed")
	default:
		h.logger.Error("order transition failed",
			logx.String("order_id", orderID),
			logx.String("to", req.Status),
			logx.Err(err),
		)
		writeError(h.logger, w, r, http.StatusInternalServerError, "internal error")
	}
}
