package app

import (
	"context"
	"errors"

	"github.com/Pranav452/delivery/internal/apperr"
	"github.com/Pranav452/delivery/internal/service/orders"
	"github.com/Pranav452/delivery/internal/transport/kafka"
)

type eventHandler interface {
	Handle(ctx context.Context, e orders.Event) error
}

// makeOrdersKafka adapts the order event processor to the consumer.
// Invalid events are reported as permanent so their offsets get committed.
func makeOrdersKafka(h eventHandler) kafka.HandleFunc {
	return func(ctx context.Context, event orders.Event) error {
		err := h.Handle(ctx, event)
		if errors.Is(err, apperr.ErrInvalid) {
			return kafka.Permanent(err)
		}
		return err
	}
}
