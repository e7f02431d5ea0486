package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/Pranav452/delivery/internal/domain"
	"github.com/Pranav452/delivery/internal/ports/dispatchtx"
)

// TxRepo represents transaction repository. Every mutation is a guarded UPDATE and
// reports whether its guard matched.
type TxRepo struct {
	tx pgx.Tx
}

var _ dispatchtx.Repository = (*TxRepo)(nil)

// GetOrderForUpdate - locks the order row for the rest of the transaction.
func (r *TxRepo) GetOrderForUpdate(ctx context.Context, orderID string) (*domain.Order, error) {
	o, err := scanOrder(r.tx.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1 FOR UPDATE`, orderID))
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get order %q for update: %w", orderID, err)
	}
	return o, nil
}

// IncrementLoad - takes one capacity slot if the partner is still active and below ceiling.
func (r *TxRepo) IncrementLoad(ctx context.Context, partnerID string, ceiling int) (bool, error) {
	ct, err := r.tx.Exec(ctx, `
        UPDATE delivery_partners
        SET current_load = current_load + 1, updated_at = now()
        WHERE id = $1
          AND status = 'active'
          AND current_load < $2
    `, partnerID, ceiling)
	if err != nil {
		// the schema's own 0..3 bound also counts as a lost slot
		if IsCheckViolation(err) {
			return false, nil
		}
		return false, fmt.Errorf("increment load of partner %q: %w", partnerID, err)
	}
	return ct.RowsAffected() == 1, nil
}

// ReleaseLoad - frees one capacity slot and counts the order outcome.
func (r *TxRepo) ReleaseLoad(ctx context.Context, partnerID string, outcome domain.OrderStatus) (bool, error) {
	ct, err := r.tx.Exec(ctx, `
        UPDATE delivery_partners
        SET current_load     = current_load - 1,
            completed_orders = completed_orders + CASE WHEN $2::text = 'delivered' THEN 1 ELSE 0 END,
            cancelled_orders = cancelled_orders + CASE WHEN $2::text = 'cancelled' THEN 1 ELSE 0 END,
            updated_at       = now()
        WHERE id = $1
          AND current_load > 0
    `, partnerID, string(outcome))
	if err != nil {
		return false, fmt.Errorf("release load of partner %q: %w", partnerID, err)
	}
	return ct.RowsAffected() == 1, nil
}

// MarkOrderAssigned - binds the order to the partner while it is still pending.
func (r *TxRepo) MarkOrderAssigned(ctx context.Context, orderID, partnerID string) (bool, error) {
	ct, err := r.tx.Exec(ctx, `
        UPDATE orders
        SET status = 'assigned', assigned_to = $2, updated_at = now()
        WHERE id = $1
          AND status = 'pending'
    `, orderID, partnerID)
	if err != nil {
		return false, fmt.Errorf("mark order %q assigned: %w", orderID, err)
	}
	return ct.RowsAffected() == 1, nil
}

// SetOrderStatus - moves the order from one status to another.
func (r *TxRepo) SetOrderStatus(ctx context.Context, orderID string, from, to domain.OrderStatus) (bool, error) {
	ct, err := r.tx.Exec(ctx, `
        UPDATE orders
        SET status = $3, updated_at = now()
        WHERE id = $1
          AND status = $2
    `, orderID, string(from), string(to))
	if err != nil {
		return false, fmt.Errorf("set order %q status %s -> %s: %w", orderID, from, to, err)
	}
	return ct.RowsAffected() == 1, nil
}

// InsertAssignment - appends a record as part of the transaction.
func (r *TxRepo) InsertAssignment(ctx context.Context, a *domain.Assignment) error {
	return insertAssignment(ctx, r.tx, a)
}
