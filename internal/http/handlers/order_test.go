package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Pranav452/delivery/internal/apperr"
	"github.com/Pranav452/delivery/internal/domain"
)

func statusRequest(orderID, body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/orders/{id}/status", strings.NewReader(body))
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", orderID)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func TestOrderHandler_UpdateStatus_OK(t *testing.T) {
	t.Parallel()

	uc := &stubAssignmentUsecase{
		transitionFn: func(_ context.Context, orderID string, to domain.OrderStatus) (domain.TransitionResult, error) {
			require.Equal(t, "o-1", orderID)
			require.Equal(t, domain.OrderDelivered, to)
			return domain.TransitionResult{
				OrderID:   orderID,
				From:      domain.OrderPicked,
				To:        to,
				PartnerID: "p-1",
				Released:  true,
			}, nil
		},
	}

	rr := httptest.NewRecorder()
	NewOrderHandler(nil, uc).UpdateStatus(rr, statusRequest("o-1", `{"status":"delivered"}`))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"orderId":"o-1","from":"picked","to":"delivered","partnerId":"p-1","released":true}`, rr.Body.String())
}

func TestOrderHandler_UpdateStatus_AmericanSpelling(t *testing.T) {
	t.Parallel()

	uc := &stubAssignmentUsecase{
		transitionFn: func(_ context.Context, orderID string, to domain.OrderStatus) (domain.TransitionResult, error) {
			require.Equal(t, domain.OrderCancelled, to)
			return domain.TransitionResult{OrderID: orderID, From: domain.OrderPending, To: to}, nil
		},
	}

	rr := httptest.NewRecorder()
	NewOrderHandler(nil, uc).UpdateStatus(rr, statusRequest("o-1", `{"status":"canceled"}`))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"orderId":"o-1","from":"pending","to":"cancelled","released":false}`, rr.Body.String())
}

func TestOrderHandler_UpdateStatus_RejectsUnknownStatus(t *testing.T) {
	t.Parallel()

	for _, body := range []string{`{"status":"assigned"}`, `{"status":"lost"}`, `{}`} {
		rr := httptest.NewRecorder()
		NewOrderHandler(nil, &stubAssignmentUsecase{}).UpdateStatus(rr, statusRequest("o-1", body))
		assert.Equal(t, http.StatusBadRequest, rr.Code, body)
	}
}

func TestOrderHandler_UpdateStatus_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		err      error
		wantCode int
	}{
		{name: "invalid", err: apperr.ErrInvalid, wantCode: http.StatusBadRequest},
		{name: "not found", err: apperr.ErrNotFound, wantCode: http.StatusNotFound},
		{name: "illegal transition", err: apperr.ErrConflict, wantCode: http.StatusConflict},
		{name: "concurrent change", err: apperr.ErrCommitConflict, wantCode: http.StatusConflict},
		{name: "storage", err: errors.New("boom"), wantCode: http.StatusInternalServerError},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			uc := &stubAssignmentUsecase{
				transitionFn: func(context.Context, string, domain.OrderStatus) (domain.TransitionResult, error) {
					return domain.TransitionResult{}, tc.err
				},
			}

			rr := httptest.NewRecorder()
			NewOrderHandler(nil, uc).UpdateStatus(rr, statusRequest("o-1", `{"status":"picked"}`))

			assert.Equal(t, tc.wantCode, rr.Code)
		})
	}
}

func TestOrderHandler_UpdateStatus_BlankID(t *testing.T) {
	t.Parallel()

	rr := httptest.NewRecorder()
	NewOrderHandler(nil, &stubAssignmentUsecase{}).UpdateStatus(rr, statusRequest(" ", `{"status":"picked"}`))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.JSONEq(t, `{"error":"invalid order id"}`, rr.Body.String())
}
