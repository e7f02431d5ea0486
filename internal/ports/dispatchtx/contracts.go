package dispatchtx

import (
	"context"

	"github.com/Pranav452/delivery/internal/domain"
)

// Repository is the set of storage operations available inside one dispatch transaction.
// The bool results report whether the guarded update matched a row.
type Repository interface {
	GetOrderForUpdate(ctx context.Context, orderID string) (*domain.Order, error)
	// IncrementLoad adds one to the partner's load only while it is active and below ceiling.
	IncrementLoad(ctx context.Context, partnerID string, ceiling int) (bool, error)
	// ReleaseLoad subtracts one from a positive load and bumps the counter matching outcome.
	ReleaseLoad(ctx context.Context, partnerID string, outcome domain.OrderStatus) (bool, error)
	// MarkOrderAssigned binds a pending order to the partner.
	MarkOrderAssigned(ctx context.Context, orderID, partnerID string) (bool, error)
	SetOrderStatus(ctx context.Context, orderID string, from, to domain.OrderStatus) (bool, error)
	InsertAssignment(ctx context.Context, a *domain.Assignment) error
}

// Runner runs fn in one transaction, committing only when fn returns nil.
type Runner interface {
	WithTx(ctx context.Context, fn func(tx Repository) error) error
}
