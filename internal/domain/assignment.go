package domain

import "time"

// AssignmentStatus is the outcome of one assignment attempt.
type AssignmentStatus string

// List of assignment outcomes
const (
	AssignmentSuccess AssignmentStatus = "success"
	AssignmentFailed  AssignmentStatus = "failed"
)

// Failure reasons reported to callers and stored in the assignment log.
const (
	ReasonNoAvailablePartners = "No available partners"
	ReasonOrderNotFound       = "Order not found"
	ReasonAssignmentFailed    = "Assignment failed"
	ReasonCapacityExhausted   = "Partner capacity exhausted"
)

// Assignment is an append-only record of an assignment attempt.
// PartnerID is nil when no partner was found.
type Assignment struct {
	ID        string
	OrderID   string
	PartnerID *string
	Timestamp time.Time
	Status    AssignmentStatus
	Reason    string
}

// AssignResult is the tagged result returned to callers of an assignment attempt.
type AssignResult struct {
	OrderID   string
	PartnerID string
	Success   bool
	Reason    string
}

// Failed builds an unsuccessful AssignResult.
func Failed(orderID, reason string) AssignResult {
	return AssignResult{OrderID: orderID, Reason: reason}
}

// TransitionResult describes an applied order lifecycle transition.
type TransitionResult struct {
	OrderID   string
	From      OrderStatus
	To        OrderStatus
	PartnerID string
	Released  bool
}
