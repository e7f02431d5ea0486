package assignment

import (
	"context"
	"fmt"

	"github.com/Pranav452/delivery/internal/apperr"
	"github.com/Pranav452/delivery/internal/domain"
	"github.com/Pranav452/delivery/internal/logx"
	"github.com/Pranav452/delivery/internal/ports/dispatchtx"
)

// Transition moves an order along its lifecycle. Delivering or cancelling an order that
// holds a partner frees one slot of that partner's capacity in the same transaction.
// Orders become assigned only through Assign.
func (s *Service) Transition(ctx context.Context, rawOrderID string, to domain.OrderStatus) (domain.TransitionResult, error) {
	orderID, err := validateOrderID(rawOrderID)
	if err != nil {
		return domain.TransitionResult{}, err
	}
	if !to.Valid() || to == domain.OrderPending || to == domain.OrderAssigned {
		return domain.TransitionResult{}, fmt.Errorf("target status %q: %w", to, apperr.ErrInvalid)
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var result domain.TransitionResult
	err = s.repo.WithTx(ctx, func(tx dispatchtx.Repository) error {
		order, err := tx.GetOrderForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		if order == nil {
			return apperr.ErrNotFound
		}
		if !order.Status.CanTransition(to) {
			return fmt.Errorf("order %q %s -> %s: %w", orderID, order.Status, to, apperr.ErrConflict)
		}

		result = domain.TransitionResult{OrderID: orderID, From: order.Status, To: to}

		if order.AssignedTo != nil && order.Status.HoldsPartner() &&
			(to == domain.OrderDelivered || to == domain.OrderCancelled) {
			ok, err := tx.ReleaseLoad(ctx, *order.AssignedTo, to)
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("partner %q has no load to release: %w", *order.AssignedTo, apperr.ErrConflict)
			}
			result.PartnerID = *order.AssignedTo
			result.Released = true
		}

		ok, err := tx.SetOrderStatus(ctx, orderID, order.Status, to)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("order %q changed concurrently: %w", orderID, apperr.ErrCommitConflict)
		}
		return nil
	})
	if err != nil {
		return domain.TransitionResult{}, err
	}

	s.logger.Info("order status changed",
		logx.String("event", "order_transition"),
		logx.String("order_id", orderID),
		logx.String("from", string(result.From)),
		logx.String("to", string(result.To)),
		logx.String("partner_id", result.PartnerID),
		logx.Bool("released", result.Released),
	)
	return result, nil
}
