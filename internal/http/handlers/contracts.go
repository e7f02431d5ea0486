package handlers

import (
	"context"

	"github.com/Pranav452/delivery/internal/domain"
	"github.com/Pranav452/delivery/internal/service/assignment"
	"github.com/Pranav452/delivery/internal/service/metrics"
)

type assignmentUsecase interface {
	Assign(ctx context.Context, orderID string) (domain.AssignResult, error)
	Transition(ctx context.Context, orderID string, to domain.OrderStatus) (domain.TransitionResult, error)
}

// NewAssignmentUsecase wires an assignment Service into an assignmentUsecase.
func NewAssignmentUsecase(svc *assignment.Service) assignmentUsecase {
	return svc
}

type metricsUsecase interface {
	Metrics(ctx context.Context) (domain.AssignmentMetrics, error)
}

// NewMetricsUsecase wires a metrics Service into a metricsUsecase.
func NewMetricsUsecase(svc *metrics.Service) metricsUsecase {
	return svc
}
