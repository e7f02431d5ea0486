//go:generate mockgen -source=contracts.go -destination=assignment_mocks_test.go -package=assignment_test

package assignment

import (
	"context"

	"github.com/Pranav452/delivery/internal/domain"
	"github.com/Pranav452/delivery/internal/ports/dispatchtx"
)

// Repository is the storage port of the assignment engine.
type Repository interface {
	// GetOrder returns nil, nil when the order does not exist.
	GetOrder(ctx context.Context, orderID string) (*domain.Order, error)
	// ListCandidatePartners returns active partners below ceiling that serve area.
	ListCandidatePartners(ctx context.Context, area string, ceiling int) ([]domain.DeliveryPartner, error)
	InsertAssignment(ctx context.Context, a *domain.Assignment) error
	dispatchtx.Runner
}

// Publisher announces recorded assignments to downstream consumers.
type Publisher interface {
	Publish(ctx context.Context, a domain.Assignment) error
}

// OutcomeRecorder counts assignment attempts by outcome.
type OutcomeRecorder interface {
	Observe(outcome string)
}
