package domain

import (
	"fmt"
	"strings"
)

// CapacityCeiling is the maximum number of orders a partner may hold at once.
const CapacityCeiling = 3

// Rating bounds for PerformanceMetrics.Rating.
const (
	MinRating = 0.0
	MaxRating = 5.0
)

// PartnerStatus represents the operational status of a delivery partner.
type PartnerStatus string

// List of possible partner statuses
const (
	PartnerActive   PartnerStatus = "active"
	PartnerInactive PartnerStatus = "inactive"
)

// Valid checks if the PartnerStatus is valid
func (s PartnerStatus) Valid() bool {
	return s == PartnerActive || s == PartnerInactive
}

// Shift is a same-day working window.
type Shift struct {
	Start ClockTime
	End   ClockTime
}

// PerformanceMetrics holds the partner's track record used for ranking.
type PerformanceMetrics struct {
	Rating          float64
	CompletedOrders int
	CancelledOrders int
}

// DeliveryPartner is a courier that can hold up to CapacityCeiling orders.
type DeliveryPartner struct {
	ID          string
	Name        string
	Email       string
	Phone       string
	Status      PartnerStatus
	CurrentLoad int
	Areas       []string
	Shift       Shift
	Metrics     PerformanceMetrics
}

// NewDeliveryPartner builds a partner and validates its invariants. Contact details are
// stored as given and never affect matching.
func NewDeliveryPartner(
	id, name, email, phone string,
	status PartnerStatus,
	load int,
	areas []string,
	shift Shift,
	metrics PerformanceMetrics,
) (*DeliveryPartner, error) {
	p := &DeliveryPartner{
		ID:          strings.TrimSpace(id),
		Name:        strings.TrimSpace(name),
		Email:       strings.TrimSpace(email),
		Phone:       strings.TrimSpace(phone),
		Status:      status,
		CurrentLoad: load,
		Areas:       areas,
		Shift:       shift,
		Metrics:     metrics,
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// Validate checks the partner invariants.
func (p *DeliveryPartner) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("partner: empty id")
	}
	if !p.Status.Valid() {
		return fmt.Errorf("partner %s: unknown status %q", p.ID, p.Status)
	}
	if p.CurrentLoad < 0 || p.CurrentLoad > CapacityCeiling {
		return fmt.Errorf("partner %s: load %d outside [0,%d]", p.ID, p.CurrentLoad, CapacityCeiling)
	}
	if !p.Shift.Start.Valid() || !p.Shift.End.Valid() {
		return fmt.Errorf("partner %s: shift out of range", p.ID)
	}
	if p.Metrics.Rating < MinRating || p.Metrics.Rating > MaxRating {
		return fmt.Errorf("partner %s: rating %.2f outside [%.0f,%.0f]", p.ID, p.Metrics.Rating, MinRating, MaxRating)
	}
	if p.Metrics.CompletedOrders < 0 || p.Metrics.CancelledOrders < 0 {
		return fmt.Errorf("partner %s: negative order counters", p.ID)
	}
	return nil
}

// HasCapacity reports whether the partner can take one more order.
func (p *DeliveryPartner) HasCapacity() bool {
	return p.CurrentLoad < CapacityCeiling
}

// Serves reports whether area is one of the partner's areas.
func (p *DeliveryPartner) Serves(area string) bool {
	for _, a := range p.Areas {
		if a == area {
			return true
		}
	}
	return false
}
