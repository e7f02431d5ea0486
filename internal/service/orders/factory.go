package orders

import (
	"context"
	"strings"

	"github.com/Pranav452/delivery/internal/domain"
)

type actionFunc func(context.Context, Event) error

type actionFactory struct {
	byStatus map[string]actionFunc
}

func newActionFactory(onCreated actionFunc, onTransition func(domain.OrderStatus) actionFunc) *actionFactory {
	return &actionFactory{
		byStatus: map[string]actionFunc{
			"created":   onCreated,
			"pending":   onCreated,
			"picked":    onTransition(domain.OrderPicked),
			"delivered": onTransition(domain.OrderDelivered),
			"cancelled": onTransition(domain.OrderCancelled),
			// upstream producers spell it both ways
			"canceled": onTransition(domain.OrderCancelled),
		},
	}
}

func (f *actionFactory) get(status string) (actionFunc, bool) {
	status = strings.ToLower(strings.TrimSpace(status))
	fn, ok := f.byStatus[status]
	return fn, ok
}
