package matching_test

import (
	"github.com/brianvoe/gofakeit/v7"

	"github.com/Pranav452/delivery/internal/domain"
)

var areas = []string{"Downtown", "Uptown", "Midtown", "Harbor", "Airport"}

func partner(id string, load int, rating float64, completed int, area ...string) domain.DeliveryPartner {
	return domain.DeliveryPartner{
		ID:          id,
		Status:      domain.PartnerActive,
		CurrentLoad: load,
		Areas:       area,
		Shift:       domain.Shift{Start: domain.MustClockTime("09:00"), End: domain.MustClockTime("17:00")},
		Metrics:     domain.PerformanceMetrics{Rating: rating, CompletedOrders: completed},
	}
}

func order(area, at string) domain.Order {
	return domain.Order{ID: "o-1", Area: area, ScheduledFor: domain.MustClockTime(at), Status: domain.OrderPending}
}

func randomPool(f *gofakeit.Faker, n int) []domain.DeliveryPartner {
	pool := make([]domain.DeliveryPartner, 0, n)
	for i := 0; i < n; i++ {
		status := domain.PartnerActive
		if f.Bool() {
			status = domain.PartnerInactive
		}
		served := make([]string, 0, 2)
		for j := f.IntRange(0, 2); j > 0; j-- {
			served = append(served, f.RandomString(areas))
		}
		start := domain.ClockTime(f.IntRange(0, 1439))
		end := domain.ClockTime(f.IntRange(0, 1439))
		pool = append(pool, domain.DeliveryPartner{
			ID:          f.UUID(),
			Name:        f.Name(),
			Status:      status,
			CurrentLoad: f.IntRange(0, domain.CapacityCeiling),
			Areas:       served,
			Shift:       domain.Shift{Start: start, End: end},
			Metrics: domain.PerformanceMetrics{
				Rating:          f.Float64Range(domain.MinRating, domain.MaxRating),
				CompletedOrders: f.IntRange(0, 200),
			},
		})
	}
	return pool
}
