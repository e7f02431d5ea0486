package assignment

import (
	"context"

	"github.com/Pranav452/delivery/internal/domain"
)

// Outcome labels passed to OutcomeRecorder.
const (
	OutcomeSuccess   = "success"
	OutcomeNoPartner = "no_partner"
	OutcomeConflict  = "conflict"
	OutcomeNotFound  = "not_found"
	OutcomeInvalid   = "invalid"
	OutcomeError     = "error"
)

type nopPublisher struct{}

func (nopPublisher) Publish(context.Context, domain.Assignment) error { return nil }

type nopRecorder struct{}

func (nopRecorder) Observe(string) {}
