package assignment

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Pranav452/delivery/internal/apperr"
	"github.com/Pranav452/delivery/internal/domain"
	"github.com/Pranav452/delivery/internal/logx"
	"github.com/Pranav452/delivery/internal/matching"
	"github.com/Pranav452/delivery/internal/ports/dispatchtx"
)

// Service assigns orders to delivery partners and applies order lifecycle transitions.
type Service struct {
	repo             Repository
	publisher        Publisher
	recorder         OutcomeRecorder
	operationTimeout time.Duration
	logger           logx.Logger
	now              func() time.Time
	newID            func() string
}

// NewService creates an assignment Service. A nil publisher or recorder is replaced by a no-op.
func NewService(r Repository, p Publisher, rec OutcomeRecorder, timeout time.Duration, logger logx.Logger) *Service {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	if p == nil {
		p = nopPublisher{}
	}
	if rec == nil {
		rec = nopRecorder{}
	}
	if logger == nil {
		logger = logx.Nop()
	}
	return &Service{
		repo:             r,
		publisher:        p,
		recorder:         rec,
		operationTimeout: timeout,
		logger:           logger,
		now:              func() time.Time { return time.Now().UTC() },
		newID:            uuid.NewString,
	}
}

func (s *Service) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.operationTimeout)
}

// Assign picks the best partner for the order and commits the assignment.
//
// The returned error classifies the failure (apperr.ErrNotFound, apperr.ErrNoEligiblePartner,
// apperr.ErrCommitConflict, apperr.ErrConflict, apperr.ErrInvalid, or a storage error); the
// result always carries the caller-facing reason.
func (s *Service) Assign(ctx context.Context, rawOrderID string) (domain.AssignResult, error) {
	orderID, err := validateOrderID(rawOrderID)
	if err != nil {
		return s.fail(rawOrderID, domain.ReasonAssignmentFailed, OutcomeInvalid, err)
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	order, err := s.repo.GetOrder(ctx, orderID)
	if err != nil {
		return s.fail(orderID, domain.ReasonAssignmentFailed, OutcomeError, fmt.Errorf("load order %q: %w", orderID, err))
	}
	if order == nil {
		return s.fail(orderID, domain.ReasonOrderNotFound, OutcomeNotFound, apperr.ErrNotFound)
	}
	if order.Status != domain.OrderPending {
		return s.fail(orderID, domain.ReasonAssignmentFailed, OutcomeConflict,
			fmt.Errorf("order %q is %s: %w", orderID, order.Status, apperr.ErrConflict))
	}

	pool, err := s.repo.ListCandidatePartners(ctx, order.Area, domain.CapacityCeiling)
	if err != nil {
		return s.fail(orderID, domain.ReasonAssignmentFailed, OutcomeError, fmt.Errorf("load partners: %w", err))
	}

	partner, ok := matching.Select(*order, pool)
	if !ok {
		rec := s.record(orderID, nil, domain.AssignmentFailed, domain.ReasonNoAvailablePartners)
		if err := s.repo.InsertAssignment(ctx, &rec); err != nil {
			return s.fail(orderID, domain.ReasonAssignmentFailed, OutcomeError, fmt.Errorf("record failed assignment: %w", err))
		}
		s.publish(ctx, rec)
		s.logger.Info("no partner for order",
			logx.String("event", "assignment_failed"),
			logx.String("order_id", orderID),
			logx.String("area", order.Area),
			logx.String("scheduled_for", order.ScheduledFor.String()),
			logx.Int("candidates", len(pool)),
		)
		return s.fail(orderID, domain.ReasonNoAvailablePartners, OutcomeNoPartner, apperr.ErrNoEligiblePartner)
	}

	rec := s.record(orderID, &partner.ID, domain.AssignmentSuccess, "")
	lostReason := domain.ReasonCapacityExhausted
	err = s.repo.WithTx(ctx, func(tx dispatchtx.Repository) error {
		ok, err := tx.IncrementLoad(ctx, partner.ID, domain.CapacityCeiling)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("partner %q has no free slot: %w", partner.ID, apperr.ErrCommitConflict)
		}

		ok, err = tx.MarkOrderAssigned(ctx, orderID, partner.ID)
		if err != nil {
			return err
		}
		if !ok {
			lostReason = domain.ReasonAssignmentFailed
			return fmt.Errorf("order %q is no longer pending: %w", orderID, apperr.ErrCommitConflict)
		}

		return tx.InsertAssignment(ctx, &rec)
	})
	switch {
	case errors.Is(err, apperr.ErrCommitConflict):
		lost := s.record(orderID, &partner.ID, domain.AssignmentFailed, lostReason)
		if insErr := s.repo.InsertAssignment(ctx, &lost); insErr != nil {
			s.logger.Warn("record lost assignment failed",
				logx.String("order_id", orderID),
				logx.Err(insErr),
			)
		} else {
			s.publish(ctx, lost)
		}
		s.logger.Info("assignment lost to concurrent commit",
			logx.String("event", "assignment_conflict"),
			logx.String("order_id", orderID),
			logx.String("partner_id", partner.ID),
			logx.String("reason", lostReason),
		)
		return s.fail(orderID, domain.ReasonAssignmentFailed, OutcomeConflict, err)
	case err != nil:
		s.logger.Error("assignment commit failed",
			logx.String("order_id", orderID),
			logx.String("partner_id", partner.ID),
			logx.Err(err),
		)
		return s.fail(orderID, domain.ReasonAssignmentFailed, OutcomeError, fmt.Errorf("commit assignment: %w", err))
	}

	s.publish(ctx, rec)
	s.recorder.Observe(OutcomeSuccess)
	s.logger.Info("order assigned",
		logx.String("event", "order_assigned"),
		logx.String("order_id", orderID),
		logx.String("partner_id", partner.ID),
		logx.Int("partner_load", partner.CurrentLoad+1),
		logx.Float64("score", matching.CompositeScore(partner)),
	)

	return domain.AssignResult{OrderID: orderID, PartnerID: partner.ID, Success: true}, nil
}

func (s *Service) fail(orderID, reason, outcome string, err error) (domain.AssignResult, error) {
	s.recorder.Observe(outcome)
	return domain.Failed(orderID, reason), err
}

func (s *Service) record(orderID string, partnerID *string, status domain.AssignmentStatus, reason string) domain.Assignment {
	return domain.Assignment{
		ID:        s.newID(),
		OrderID:   orderID,
		PartnerID: partnerID,
		Timestamp: s.now(),
		Status:    status,
		Reason:    reason,
	}
}

func (s *Service) publish(ctx context.Context, a domain.Assignment) {
	if err := s.publisher.Publish(ctx, a); err != nil {
		s.logger.Warn("publish assignment failed",
			logx.String("assignment_id", a.ID),
			logx.String("order_id", a.OrderID),
			logx.Err(err),
		)
	}
}

func validateOrderID(raw string) (string, error) {
	orderID := strings.TrimSpace(raw)
	if orderID == "" {
		return "", apperr.ErrInvalid
	}
	return orderID, nil
}
