package handlers

import "github.com/Pranav452/delivery/internal/domain"

func assignResultToResponse(res domain.AssignResult) assignResponse {
	if res.Success {
		return assignResponse{Success: true, PartnerID: res.PartnerID}
	}
	return assignResponse{Error: res.Reason}
}

func metricsToResponse(m domain.AssignmentMetrics) metricsResponse {
	reasons := make([]failureReasonDTO, 0, len(m.FailureReasons))
	for _, fr := range m.FailureReasons {
		reasons = append(reasons, failureReasonDTO{Reason: fr.Reason, Count: fr.Count})
	}
	return metricsResponse{Metrics: metricsDTO{
		TotalAssigned:  m.TotalAssigned,
		SuccessRate:    m.SuccessRate,
		AverageTime:    m.AverageTime,
		FailureReasons: reasons,
	}}
}

// statusFromRequest accepts the American spelling used by some upstream producers.
func statusFromRequest(s string) domain.OrderStatus {
	if s == "canceled" {
		return domain.OrderCancelled
	}
	return domain.OrderStatus(s)
}

func transitionToResponse(res domain.TransitionResult) transitionResponse {
	return transitionResponse{
		OrderID:   res.OrderID,
		From:      string(res.From),
		To:        string(res.To),
		PartnerID: res.PartnerID,
		Released:  res.Released,
	}
}
