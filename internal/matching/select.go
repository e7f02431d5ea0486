package matching

import "github.com/Pranav452/delivery/internal/domain"

// Select runs eligibility, the shift window and ranking over pool and returns the winner.
func Select(order domain.Order, pool []domain.DeliveryPartner) (domain.DeliveryPartner, bool) {
	return Best(OnShift(order, Eligible(order, pool)))
}
