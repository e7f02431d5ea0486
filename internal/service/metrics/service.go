package metrics

import (
	"context"
	"fmt"
	"time"

	"github.com/Pranav452/delivery/internal/domain"
	"github.com/Pranav452/delivery/internal/logx"
)

// AssignmentLog reads the full assignment history.
type AssignmentLog interface {
	ListAssignments(ctx context.Context) ([]domain.Assignment, error)
}

// Service serves assignment metrics computed on demand.
type Service struct {
	log              AssignmentLog
	operationTimeout time.Duration
	logger           logx.Logger
}

// NewService creates a metrics Service.
func NewService(log AssignmentLog, timeout time.Duration, logger logx.Logger) *Service {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	if logger == nil {
		logger = logx.Nop()
	}
	return &Service{log: log, operationTimeout: timeout, logger: logger}
}

// Metrics loads the assignment log and aggregates it.
func (s *Service) Metrics(ctx context.Context) (domain.AssignmentMetrics, error) {
	ctx, cancel := context.WithTimeout(ctx, s.operationTimeout)
	defer cancel()

	records, err := s.log.ListAssignments(ctx)
	if err != nil {
		s.logger.Error("load assignment log failed", logx.Err(err))
		return domain.AssignmentMetrics{}, fmt.Errorf("list assignments: %w", err)
	}

	m := Aggregate(records)
	s.logger.Debug("assignment metrics computed",
		logx.Int("total", m.TotalAssigned),
		logx.Float64("success_rate", m.SuccessRate),
		logx.Int("failure_reasons", len(m.FailureReasons)),
	)
	return m, nil
}
