// Package metrics summarizes the assignment log.
package metrics

import "github.com/Pranav452/delivery/internal/domain"

// Aggregate computes the summary of an assignment log. An empty log yields zero values
// and an empty, non-nil histogram.
func Aggregate(log []domain.Assignment) domain.AssignmentMetrics {
	out := domain.AssignmentMetrics{
		TotalAssigned:  len(log),
		FailureReasons: []domain.FailureReasonCount{},
	}
	if len(log) == 0 {
		return out
	}

	var (
		successful int
		sumMillis  float64
		index      = make(map[string]int)
	)
	for _, a := range log {
		sumMillis += float64(a.Timestamp.UnixMilli())

		switch a.Status {
		case domain.AssignmentSuccess:
			successful++
		case domain.AssignmentFailed:
			if a.Reason == "" {
				continue
			}
			if i, ok := index[a.Reason]; ok {
				out.FailureReasons[i].Count++
				continue
			}
			index[a.Reason] = len(out.FailureReasons)
			out.FailureReasons = append(out.FailureReasons, domain.FailureReasonCount{Reason: a.Reason, Count: 1})
		}
	}

	n := float64(len(log))
	out.SuccessRate = float64(successful) / n * 100
	out.AverageTime = sumMillis / n
	return out
}
