package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Pranav452/delivery/internal/apperr"
	"github.com/Pranav452/delivery/internal/domain"
	"github.com/Pranav452/delivery/internal/ports/dispatchtx"
)

// DispatchRepo represents the dispatch repository: orders, partners and the assignment log.
type DispatchRepo struct {
	db *pgxpool.Pool
}

// NewDispatchRepo creates a new DispatchRepo.
func NewDispatchRepo(db *pgxpool.Pool) *DispatchRepo {
	return &DispatchRepo{db: db}
}

// GetOrder - returns the order or nil when it does not exist.
func (r *DispatchRepo) GetOrder(ctx context.Context, orderID string) (*domain.Order, error) {
	o, err := scanOrder(r.db.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, orderID))
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get order %q: %w", orderID, err)
	}
	return o, nil
}

// ListCandidatePartners - active partners serving area with load below ceiling, ordered by id.
func (r *DispatchRepo) ListCandidatePartners(ctx context.Context, area string, ceiling int) ([]domain.DeliveryPartner, error) {
	rows, err := r.db.Query(ctx, `
        SELECT `+partnerColumns+`
        FROM delivery_partners
        WHERE status = 'active'
          AND current_load < $2
          AND $1 = ANY(areas)
        ORDER BY id
    `, area, ceiling)
	if err != nil {
		return nil, fmt.Errorf("list partners for area %q: %w", area, err)
	}
	defer rows.Close()

	var out []domain.DeliveryPartner
	for rows.Next() {
		p, err := scanPartner(rows)
		if err != nil {
			return nil, fmt.Errorf("scan partner: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// InsertAssignment - appends a record to the assignment log outside any transaction.
func (r *DispatchRepo) InsertAssignment(ctx context.Context, a *domain.Assignment) error {
	return insertAssignment(ctx, r.db, a)
}

// ListAssignments - returns the whole assignment log, oldest first.
func (r *DispatchRepo) ListAssignments(ctx context.Context) ([]domain.Assignment, error) {
	rows, err := r.db.Query(ctx, `
        SELECT id::text, order_id, partner_id, assigned_at, status, COALESCE(reason, '')
        FROM assignments
        ORDER BY assigned_at, id
    `)
	if err != nil {
		return nil, fmt.Errorf("list assignments: %w", err)
	}
	defer rows.Close()

	var out []domain.Assignment
	for rows.Next() {
		var (
			a      domain.Assignment
			status string
		)
		if err := rows.Scan(&a.ID, &a.OrderID, &a.PartnerID, &a.Timestamp, &status, &a.Reason); err != nil {
			return nil, fmt.Errorf("scan assignment: %w", err)
		}
		a.Status = domain.AssignmentStatus(status)
		out = append(out, a)
	}
	return out, rows.Err()
}

// WithTx opens a transaction and executes fn within it.
func (r *DispatchRepo) WithTx(ctx context.Context, fn func(tx dispatchtx.Repository) error) (err error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback(ctx)
			panic(p)
		}
	}()

	if err := fn(&TxRepo{tx: tx}); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			return fmt.Errorf("rollback tx: %w (original error: %s)", rbErr, err.Error())
		}
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

type execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

func insertAssignment(ctx context.Context, db execer, a *domain.Assignment) error {
	_, err := db.Exec(ctx, `
        INSERT INTO assignments (id, order_id, partner_id, assigned_at, status, reason)
        VALUES ($1, $2, $3, $4, $5, $6)
    `, a.ID, a.OrderID, a.PartnerID, a.Timestamp, string(a.Status), nullable(a.Reason))
	if err != nil {
		if IsDuplicate(err) {
			return fmt.Errorf("assignment %s already recorded: %w", a.ID, err)
		}
		if IsMissingReference(err) {
			return fmt.Errorf("assignment for order %q references a missing row: %w", a.OrderID, apperr.ErrNotFound)
		}
		return fmt.Errorf("insert assignment for order %q: %w", a.OrderID, err)
	}
	return nil
}
