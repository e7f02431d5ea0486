package matching

import (
	"cmp"
	"slices"

	"github.com/Pranav452/delivery/internal/domain"
)

const (
	ratingWeight    = 0.7
	completedWeight = 0.3
)

// CompositeScore is rating*0.7 + completedOrders*0.3. It only breaks load ties.
func CompositeScore(p domain.DeliveryPartner) float64 {
	return p.Metrics.Rating*ratingWeight + float64(p.Metrics.CompletedOrders)*completedWeight
}

// compare orders partners best-first: lower load, then higher score, then lower id.
func compare(a, b domain.DeliveryPartner) int {
	if c := cmp.Compare(a.CurrentLoad, b.CurrentLoad); c != 0 {
		return c
	}
	if c := cmp.Compare(CompositeScore(b), CompositeScore(a)); c != 0 {
		return c
	}
	return cmp.Compare(a.ID, b.ID)
}

// Rank returns a best-first copy of partners.
func Rank(partners []domain.DeliveryPartner) []domain.DeliveryPartner {
	out := slices.Clone(partners)
	slices.SortFunc(out, compare)
	return out
}

// Best returns the top-ranked partner, or false when partners is empty.
func Best(partners []domain.DeliveryPartner) (domain.DeliveryPartner, bool) {
	if len(partners) == 0 {
		return domain.DeliveryPartner{}, false
	}
	best := partners[0]
	for _, candidate := range partners[1:] {
		if compare(candidate, best) < 0 {
			best = candidate
		}
	}
	return best, true
}
