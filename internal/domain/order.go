package domain

import (
	"fmt"
	"strings"
	"time"
)

// OrderStatus represents the lifecycle status of an order.
type OrderStatus string

// List of order lifecycle statuses
const (
	OrderPending   OrderStatus = "pending"
	OrderAssigned  OrderStatus = "assigned"
	OrderPicked    OrderStatus = "picked"
	OrderDelivered OrderStatus = "delivered"
	OrderCancelled OrderStatus = "cancelled"
)

// assigned may go straight to delivered: a "picked" event can be lost or arrive after
// "delivered", and the order must still release its partner.
var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderPending:  {OrderAssigned, OrderCancelled},
	OrderAssigned: {OrderPicked, OrderDelivered, OrderCancelled},
	OrderPicked:   {OrderDelivered},
}

// Valid checks if the OrderStatus is valid
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderPending, OrderAssigned, OrderPicked, OrderDelivered, OrderCancelled:
		return true
	}
	return false
}

// CanTransition reports whether the lifecycle allows moving from s to next.
func (s OrderStatus) CanTransition(next OrderStatus) bool {
	for _, v := range orderTransitions[s] {
		if v == next {
			return true
		}
	}
	return false
}

// HoldsPartner reports whether an order in this status occupies a partner's capacity slot.
func (s OrderStatus) HoldsPartner() bool {
	return s == OrderAssigned || s == OrderPicked
}

// Order is a delivery order waiting for, or holding, a delivery partner.
type Order struct {
	ID           string
	Number       string
	Area         string
	ScheduledFor ClockTime
	Status       OrderStatus
	AssignedTo   *string
	TotalAmount  float64
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NewOrder builds a pending order and validates its fields.
func NewOrder(id, number, area string, scheduledFor ClockTime, total float64) (*Order, error) {
	o := &Order{
		ID:           strings.TrimSpace(id),
		Number:       strings.TrimSpace(number),
		Area:         strings.TrimSpace(area),
		ScheduledFor: scheduledFor,
		Status:       OrderPending,
		TotalAmount:  total,
	}
	if err := o.Validate(); err != nil {
		return nil, err
	}
	return o, nil
}

// Validate checks the order invariants.
func (o *Order) Validate() error {
	if o.ID == "" {
		return fmt.Errorf("order: empty id")
	}
	if o.Area == "" {
		return fmt.Errorf("order %s: empty area", o.ID)
	}
	if !o.ScheduledFor.Valid() {
		return fmt.Errorf("order %s: scheduled time out of range", o.ID)
	}
	if !o.Status.Valid() {
		return fmt.Errorf("order %s: unknown status %q", o.ID, o.Status)
	}
	if o.TotalAmount < 0 {
		return fmt.Errorf("order %s: negative total", o.ID)
	}
	return nil
}
