package repository

import (
	"fmt"

	"github.com/Pranav452/delivery/internal/domain"
)

type rowScanner interface {
	Scan(dest ...any) error
}

const orderColumns = `id, order_number, area, scheduled_for, status, assigned_to, total_amount, created_at, updated_at`

func scanOrder(row rowScanner) (*domain.Order, error) {
	var (
		o         domain.Order
		scheduled string
		status    string
	)
	if err := row.Scan(&o.ID, &o.Number, &o.Area, &scheduled, &status, &o.AssignedTo,
		&o.TotalAmount, &o.CreatedAt, &o.UpdatedAt); err != nil {
		return nil, err
	}
	at, err := domain.ParseClockTime(scheduled)
	if err != nil {
		return nil, fmt.Errorf("order %s: %w", o.ID, err)
	}
	o.ScheduledFor = at
	o.Status = domain.OrderStatus(status)
	if err := o.Validate(); err != nil {
		return nil, fmt.Errorf("stored order: %w", err)
	}
	return &o, nil
}

const partnerColumns = `id, name, email, phone, status, current_load, areas, shift_start, shift_end,
       rating, completed_orders, cancelled_orders`

func scanPartner(row rowScanner) (domain.DeliveryPartner, error) {
	var (
		p          domain.DeliveryPartner
		status     string
		start, end string
	)
	if err := row.Scan(&p.ID, &p.Name, &p.Email, &p.Phone, &status, &p.CurrentLoad, &p.Areas,
		&start, &end, &p.Metrics.Rating, &p.Metrics.CompletedOrders, &p.Metrics.CancelledOrders); err != nil {
		return domain.DeliveryPartner{}, err
	}
	var err error
	if p.Shift.Start, err = domain.ParseClockTime(start); err != nil {
		return domain.DeliveryPartner{}, fmt.Errorf("partner %s shift start: %w", p.ID, err)
	}
	if p.Shift.End, err = domain.ParseClockTime(end); err != nil {
		return domain.DeliveryPartner{}, fmt.Errorf("partner %s shift end: %w", p.ID, err)
	}
	p.Status = domain.PartnerStatus(status)
	if err := p.Validate(); err != nil {
		return domain.DeliveryPartner{}, fmt.Errorf("stored partner: %w", err)
	}
	return p, nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
