package orders

import (
	"context"
	"errors"
	"time"

	"github.com/Pranav452/delivery/internal/apperr"
	"github.com/Pranav452/delivery/internal/domain"
	"github.com/Pranav452/delivery/internal/logx"
)

// Processor turns order events into assignment attempts and lifecycle transitions.
// A nil error means the event is done with. apperr.ErrInvalid marks an event that can never
// succeed; any other error asks the caller to redeliver.
type Processor struct {
	engine  AssignmentPort
	factory *actionFactory
	logger  logx.Logger
}

// NewProcessor creates a new orders.Processor
func NewProcessor(engine AssignmentPort, logger logx.Logger) *Processor {
	if logger == nil {
		logger = logx.Nop()
	}
	p := &Processor{engine: engine, logger: logger}
	p.factory = newActionFactory(p.onCreated, p.onTransition)
	return p
}

// Handle processes a single orders.Event
func (p *Processor) Handle(ctx context.Context, e Event) error {
	fn, ok := p.factory.get(e.Status)
	if !ok {
		p.logger.Debug("order event ignored",
			logx.String("order_id", e.OrderID),
			logx.String("status", e.Status),
		)
		return nil
	}
	p.logger.Debug("order event received",
		logx.String("order_id", e.OrderID),
		logx.String("status", e.Status),
		logx.Duration("lag", e.Lag(time.Now())),
	)
	return fn(ctx, e)
}

func (p *Processor) onCreated(ctx context.Context, e Event) error {
	res, err := p.engine.Assign(ctx, e.OrderID)
	return p.settle(e, res.Reason, err)
}

func (p *Processor) onTransition(to domain.OrderStatus) actionFunc {
	return func(ctx context.Context, e Event) error {
		_, err := p.engine.Transition(ctx, e.OrderID, to)
		return p.settle(e, "", err)
	}
}

// settle acknowledges business outcomes and hands everything else back to the caller.
func (p *Processor) settle(e Event, reason string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, apperr.ErrNoEligiblePartner),
		errors.Is(err, apperr.ErrCommitConflict),
		errors.Is(err, apperr.ErrConflict),
		errors.Is(err, apperr.ErrNotFound):
		p.logger.Info("order event settled without change",
			logx.String("order_id", e.OrderID),
			logx.String("status", e.Status),
			logx.String("reason", reason),
			logx.Err(err),
		)
		return nil
	default:
		return err
	}
}
