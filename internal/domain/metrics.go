package domain

// FailureReasonCount is one bucket of the failure-reason histogram.
type FailureReasonCount struct {
	Reason string
	Count  int
}

// AssignmentMetrics summarizes the assignment log.
type AssignmentMetrics struct {
	TotalAssigned int
	// SuccessRate is a percentage in [0,100].
	SuccessRate float64
	// AverageTime is the mean of record timestamps in Unix milliseconds, not a duration.
	AverageTime    float64
	FailureReasons []FailureReasonCount
}
