//go:generate mockgen -source=contracts.go -destination=orders_mocks_test.go -package=orders_test

package orders

import (
	"context"

	"github.com/Pranav452/delivery/internal/domain"
)

// AssignmentPort is the part of the assignment engine driven by order events.
type AssignmentPort interface {
	Assign(ctx context.Context, orderID string) (domain.AssignResult, error)
	Transition(ctx context.Context, orderID string, to domain.OrderStatus) (domain.TransitionResult, error)
}
