package kafka

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Pranav452/delivery/internal/domain"
	"github.com/Pranav452/delivery/internal/service/orders"
)

// ErrMissingOrderID is returned by Decode for messages without an order id.
var ErrMissingOrderID = errors.New("order id is empty")

// OrderMessage is the wire form of an order status event. Producers written against the web
// API send orderId; the order service sends order_id. Either may be a string or a number.
type OrderMessage struct {
	OrderID   domain.OrderKey `json:"order_id"`
	OrderIDJS domain.OrderKey `json:"orderId,omitempty"`
	Status    string          `json:"status"`
	CreatedAt time.Time       `json:"created_at"`
}

// Event normalizes the message: ids are trimmed and statuses lowercased.
func (m OrderMessage) Event() orders.Event {
	id := m.OrderID.String()
	if strings.TrimSpace(id) == "" {
		id = m.OrderIDJS.String()
	}
	return orders.Event{
		OrderID:   strings.TrimSpace(id),
		Status:    strings.ToLower(strings.TrimSpace(m.Status)),
		CreatedAt: m.CreatedAt,
	}
}

// Decode parses a Kafka message value into an orders.Event.
func Decode(value []byte) (orders.Event, error) {
	var m OrderMessage
	if err := json.Unmarshal(value, &m); err != nil {
		return orders.Event{}, fmt.Errorf("decode order message: %w", err)
	}
	ev := m.Event()
	if ev.OrderID == "" {
		return ev, ErrMissingOrderID
	}
	return ev, nil
}
