// Package rabbitmq publishes assignment outcomes to a RabbitMQ topic exchange.
package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/Pranav452/delivery/internal/domain"
)

// DefaultExchange is the topic exchange assignment messages are published to.
const DefaultExchange = "assignments_topic"

// Channel is the subset of *amqp.Channel used by Publisher.
type Channel interface {
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// AssignmentMessage is the JSON body of a published assignment.
type AssignmentMessage struct {
	AssignmentID string    `json:"assignment_id"`
	OrderID      string    `json:"order_id"`
	PartnerID    *string   `json:"partner_id"`
	Status       string    `json:"status"`
	Reason       string    `json:"reason,omitempty"`
	Timestamp    time.Time `json:"timestamp"`
}

// Publisher sends every recorded assignment to the exchange with routing key
// "assignment.<status>".
type Publisher struct {
	conn     *amqp.Connection
	channel  Channel
	exchange string
	timeout  time.Duration
}

// Dial connects to the broker and declares the exchange.
func Dial(url, exchange string) (*Publisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("rabbitmq dial: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("rabbitmq channel: %w", err)
	}
	p, err := NewPublisher(ch, exchange)
	if err != nil {
		_ = conn.Close()
		return nil, err
	}
	p.conn = conn
	return p, nil
}

// NewPublisher declares a durable topic exchange on ch and returns a Publisher over it.
func NewPublisher(ch Channel, exchange string) (*Publisher, error) {
	if exchange == "" {
		exchange = DefaultExchange
	}
	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		return nil, fmt.Errorf("declare exchange %q: %w", exchange, err)
	}
	return &Publisher{channel: ch, exchange: exchange, timeout: 5 * time.Second}, nil
}

// RoutingKey returns the routing key for an assignment.
func RoutingKey(a domain.Assignment) string {
	return "assignment." + string(a.Status)
}

// Publish sends one assignment message.
func (p *Publisher) Publish(ctx context.Context, a domain.Assignment) error {
	body, err := json.Marshal(AssignmentMessage{
		AssignmentID: a.ID,
		OrderID:      a.OrderID,
		PartnerID:    a.PartnerID,
		Status:       string(a.Status),
		Reason:       a.Reason,
		Timestamp:    a.Timestamp,
	})
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	err = p.channel.PublishWithContext(ctx, p.exchange, RoutingKey(a), false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    a.ID,
		Timestamp:    a.Timestamp,
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("publish assignment %s: %w", a.ID, err)
	}
	return nil
}

// Close closes the channel and, when Dial opened it, the connection.
func (p *Publisher) Close() error {
	if p == nil {
		return nil
	}
	err := p.channel.Close()
	if p.conn != nil {
		if cErr := p.conn.Close(); err == nil {
			err = cErr
		}
	}
	return err
}
