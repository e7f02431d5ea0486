package orders

import (
	"time"
)

// Event is an order status change published by the order service.
type Event struct {
	OrderID   string    `json:"order_id"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// Lag reports how long ago the event was produced. Events without a timestamp, or stamped
// in the future by a skewed producer clock, report zero.
func (e Event) Lag(now time.Time) time.Duration {
	if e.CreatedAt.IsZero() || now.Before(e.CreatedAt) {
		return 0
	}
	return now.Sub(e.CreatedAt)
}
