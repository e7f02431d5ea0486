package kafka

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/IBM/sarama"

	"github.com/Pranav452/delivery/internal/logx"
	"github.com/Pranav452/delivery/internal/service/orders"
)

// HandleFunc processes a single orders.Event from Kafka
type HandleFunc func(context.Context, orders.Event) error

var newConsumerGroup = sarama.NewConsumerGroup

// Consumer wraps a Sarama consumer group and dispatches events to a handler
type Consumer struct {
	group        sarama.ConsumerGroup
	topic        string
	handler      HandleFunc
	logger       logx.Logger
	retryBackoff time.Duration
}

// NewConsumer creates a new Kafka consumer. It returns nil, nil when Kafka is not configured.
func NewConsumer(logger logx.Logger, brokers []string, groupID, topic string, h HandleFunc) (*Consumer, error) {
	if len(brokers) == 0 || strings.TrimSpace(topic) == "" || strings.TrimSpace(groupID) == "" {
		return nil, nil
	}
	if logger == nil {
		logger = logx.Nop()
	}

	cfg := sarama.NewConfig()
	cfg.Consumer.Offsets.Initial = sarama.OffsetOldest
	cfg.Consumer.Group.Rebalance.GroupStrategies = []sarama.BalanceStrategy{sarama.NewBalanceStrategyRoundRobin()}

	group, err := newConsumerGroup(brokers, groupID, cfg)
	if err != nil {
		return nil, fmt.Errorf("kafka consumer group %q: %w", groupID, err)
	}

	return &Consumer{
		group:        group,
		topic:        topic,
		handler:      h,
		logger:       logger.With(logx.String("topic", topic), logx.String("group", groupID)),
		retryBackoff: time.Second,
	}, nil
}

// Run consumes until ctx is cancelled. Consume errors and sessions ended by a failed handler are
// logged and retried after a pause.
func (c *Consumer) Run(ctx context.Context) error {
	if c == nil {
		return nil
	}

	h := &groupHandler{c: c}

	for {
		err := c.group.Consume(ctx, []string{c.topic}, h)
		claimFailed := h.claimFailed.Swap(false)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		switch {
		case err != nil:
			c.logger.Warn("kafka consume error", logx.Err(err))
		case claimFailed:
			c.logger.Warn("kafka session ended after handler failure, backing off",
				logx.Any("backoff", c.retryBackoff))
		default:
			continue
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(c.retryBackoff):
		}
	}
}

// Close closes the consumer group.
func (c *Consumer) Close() error {
	if c == nil {
		return nil
	}
	return c.group.Close()
}

type groupHandler struct {
	c *Consumer
	// claimFailed is set when a claim stopped on a transient handler error.
	claimFailed atomic.Bool
}

func (h *groupHandler) Setup(sarama.ConsumerGroupSession) error {
	return nil
}

func (h *groupHandler) Cleanup(sarama.ConsumerGroupSession) error {
	return nil
}

// ConsumeClaim marks a message once it is handled or can never be handled. A transient
// handler error ends the claim without marking, so the message is redelivered.
func (h *groupHandler) ConsumeClaim(sess sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	log := h.c.logger
	for msg := range claim.Messages() {
		ev, err := Decode(msg.Value)
		if err != nil {
			log.Warn("kafka message dropped",
				logx.Int("partition", int(msg.Partition)),
				logx.Any("offset", msg.Offset),
				logx.String("status", ev.Status),
				logx.Err(err),
			)
			sess.MarkMessage(msg, "")
			continue
		}

		if err := h.c.handler(sess.Context(), ev); err != nil {
			if IsPermanent(err) {
				log.Warn("kafka handle failed, skipping message",
					logx.String("order_id", ev.OrderID),
					logx.String("status", ev.Status),
					logx.Err(err),
				)
				sess.MarkMessage(msg, "")
				continue
			}
			log.Error("kafka handle failed, will retry",
				logx.String("order_id", ev.OrderID),
				logx.String("status", ev.Status),
				logx.Err(err),
			)
			h.claimFailed.Store(true)
			return err
		}

		sess.MarkMessage(msg, "")
	}
	return nil
}
