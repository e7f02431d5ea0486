// Package matching picks the delivery partner for an order. Everything here is pure:
// no storage, no clocks, no logging.
package matching

import "github.com/Pranav452/delivery/internal/domain"

// Eligible returns the partners that are active, below the capacity ceiling and serve
// the order's area. The input slice is not modified.
func Eligible(order domain.Order, pool []domain.DeliveryPartner) []domain.DeliveryPartner {
	out := make([]domain.DeliveryPartner, 0, len(pool))
	for _, p := range pool {
		if p.Status != domain.PartnerActive || !p.HasCapacity() || !p.Serves(order.Area) {
			continue
		}
		out = append(out, p)
	}
	return out
}
