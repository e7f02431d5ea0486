// Package memstore is an in-memory implementation of the dispatch storage ports.
// Transactions are serialized by a single mutex and applied to a staged copy, so a
// failing transaction leaves no trace.
package memstore

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/Pranav452/delivery/internal/domain"
	"github.com/Pranav452/delivery/internal/ports/dispatchtx"
)

// Store keeps orders, partners and the assignment log in memory.
type Store struct {
	mu          sync.Mutex
	orders      map[string]domain.Order
	partners    map[string]domain.DeliveryPartner
	assignments []domain.Assignment
	faults      map[string]error
}

// New returns an empty Store.
func New() *Store {
	return &Store{
		orders:   make(map[string]domain.Order),
		partners: make(map[string]domain.DeliveryPartner),
		faults:   make(map[string]error),
	}
}

// FailOn makes every later call of op return err. Ops are method names; calls made
// through a transaction are prefixed with "tx.".
func (s *Store) FailOn(op string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.faults[op] = err
}

// PutOrder inserts or replaces an order.
func (s *Store) PutOrder(o domain.Order) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orders[o.ID] = cloneOrder(o)
}

// PutPartner inserts or replaces a partner.
func (s *Store) PutPartner(p domain.DeliveryPartner) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.partners[p.ID] = clonePartner(p)
}

// Order returns a copy of the stored order.
func (s *Store) Order(id string) (domain.Order, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[id]
	return cloneOrder(o), ok
}

// Partner returns a copy of the stored partner.
func (s *Store) Partner(id string) (domain.DeliveryPartner, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.partners[id]
	return clonePartner(p), ok
}

// GetOrder returns nil, nil when the order does not exist.
func (s *Store) GetOrder(_ context.Context, orderID string) (*domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.faults["GetOrder"]; err != nil {
		return nil, err
	}
	o, ok := s.orders[orderID]
	if !ok {
		return nil, nil
	}
	o = cloneOrder(o)
	return &o, nil
}

// ListCandidatePartners mirrors the SQL candidate query, ordered by id.
func (s *Store) ListCandidatePartners(_ context.Context, area string, ceiling int) ([]domain.DeliveryPartner, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.faults["ListCandidatePartners"]; err != nil {
		return nil, err
	}
	out := make([]domain.DeliveryPartner, 0, len(s.partners))
	for _, id := range slices.Sorted(maps.Keys(s.partners)) {
		p := s.partners[id]
		if p.Status == domain.PartnerActive && p.CurrentLoad < ceiling && p.Serves(area) {
			out = append(out, clonePartner(p))
		}
	}
	return out, nil
}

// InsertAssignment appends a record to the log.
func (s *Store) InsertAssignment(_ context.Context, a *domain.Assignment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.faults["InsertAssignment"]; err != nil {
		return err
	}
	s.assignments = append(s.assignments, *a)
	return nil
}

// ListAssignments returns the log in insertion order.
func (s *Store) ListAssignments(_ context.Context) ([]domain.Assignment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.faults["ListAssignments"]; err != nil {
		return nil, err
	}
	return slices.Clone(s.assignments), nil
}

// Assignments is ListAssignments without the context, for assertions.
func (s *Store) Assignments() []domain.Assignment {
	out, _ := s.ListAssignments(context.Background())
	return out
}

// WithTx runs fn against a staged copy and publishes it only if fn succeeds.
func (s *Store) WithTx(_ context.Context, fn func(tx dispatchtx.Repository) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.faults["WithTx"]; err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	tx := &txView{
		faults:   s.faults,
		orders:   maps.Clone(s.orders),
		partners: maps.Clone(s.partners),
	}
	if err := fn(tx); err != nil {
		return err
	}
	s.orders = tx.orders
	s.partners = tx.partners
	s.assignments = append(s.assignments, tx.appended...)
	return nil
}

type txView struct {
	faults   map[string]error
	orders   map[string]domain.Order
	partners map[string]domain.DeliveryPartner
	appended []domain.Assignment
}

func (t *txView) GetOrderForUpdate(_ context.Context, orderID string) (*domain.Order, error) {
	if err := t.faults["tx.GetOrderForUpdate"]; err != nil {
		return nil, err
	}
	o, ok := t.orders[orderID]
	if !ok {
		return nil, nil
	}
	o = cloneOrder(o)
	return &o, nil
}

func (t *txView) IncrementLoad(_ context.Context, partnerID string, ceiling int) (bool, error) {
	if err := t.faults["tx.IncrementLoad"]; err != nil {
		return false, err
	}
	p, ok := t.partners[partnerID]
	if !ok || p.Status != domain.PartnerActive || p.CurrentLoad >= ceiling {
		return false, nil
	}
	p = clonePartner(p)
	p.CurrentLoad++
	t.partners[partnerID] = p
	return true, nil
}

func (t *txView) ReleaseLoad(_ context.Context, partnerID string, outcome domain.OrderStatus) (bool, error) {
	if err := t.faults["tx.ReleaseLoad"]; err != nil {
		return false, err
	}
	p, ok := t.partners[partnerID]
	if !ok || p.CurrentLoad <= 0 {
		return false, nil
	}
	p = clonePartner(p)
	p.CurrentLoad--
	switch outcome {
	case domain.OrderDelivered:
		p.Metrics.CompletedOrders++
	case domain.OrderCancelled:
		p.Metrics.CancelledOrders++
	}
	t.partners[partnerID] = p
	return true, nil
}

func (t *txView) MarkOrderAssigned(_ context.Context, orderID, partnerID string) (bool, error) {
	if err := t.faults["tx.MarkOrderAssigned"]; err != nil {
		return false, err
	}
	o, ok := t.orders[orderID]
	if !ok || o.Status != domain.OrderPending {
		return false, nil
	}
	o = cloneOrder(o)
	o.Status = domain.OrderAssigned
	pid := partnerID
	o.AssignedTo = &pid
	t.orders[orderID] = o
	return true, nil
}

func (t *txView) SetOrderStatus(_ context.Context, orderID string, from, to domain.OrderStatus) (bool, error) {
	if err := t.faults["tx.SetOrderStatus"]; err != nil {
		return false, err
	}
	o, ok := t.orders[orderID]
	if !ok || o.Status != from {
		return false, nil
	}
	o = cloneOrder(o)
	o.Status = to
	t.orders[orderID] = o
	return true, nil
}

func (t *txView) InsertAssignment(_ context.Context, a *domain.Assignment) error {
	if err := t.faults["tx.InsertAssignment"]; err != nil {
		return err
	}
	t.appended = append(t.appended, *a)
	return nil
}

func cloneOrder(o domain.Order) domain.Order {
	if o.AssignedTo != nil {
		pid := *o.AssignedTo
		o.AssignedTo = &pid
	}
	return o
}

func clonePartner(p domain.DeliveryPartner) domain.DeliveryPartner {
	p.Areas = slices.Clone(p.Areas)
	return p
}

var _ dispatchtx.Repository = (*txView)(nil)
