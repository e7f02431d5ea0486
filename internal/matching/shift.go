package matching

import "github.com/Pranav452/delivery/internal/domain"

// WithinShift reports whether at falls inside the shift, both bounds inclusive.
// Windows that end before they start never match; overnight shifts are not supported.
func WithinShift(shift domain.Shift, at domain.ClockTime) bool {
	if shift.End < shift.Start {
		return false
	}
	return shift.Start <= at && at <= shift.End
}

// OnShift keeps the partners whose shift covers the order's scheduled time.
func OnShift(order domain.Order, partners []domain.DeliveryPartner) []domain.DeliveryPartner {
	out := make([]domain.DeliveryPartner, 0, len(partners))
	for _, p := range partners {
		if WithinShift(p.Shift, order.ScheduledFor) {
			out = append(out, p)
		}
	}
	return out
}
