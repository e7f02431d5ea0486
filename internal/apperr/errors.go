package apperr

import "errors"

// ErrInvalid is returned when the input fails domain validation.
var ErrInvalid = errors.New("invalid input")

// ErrConflict indicates a state conflict (HTTP 409), e.g. an order that is no longer pending.
var ErrConflict = errors.New("conflict")

// ErrNotFound indicates that the requested resource does not exist.
var ErrNotFound = errors.New("not found")

// ErrNoEligiblePartner is returned when no partner passed eligibility, shift and ranking.
var ErrNoEligiblePartner = errors.New("no eligible partner")

// ErrCommitConflict is returned when the chosen partner's capacity (or the order itself)
// was taken by a concurrent commit between selection and commit.
var ErrCommitConflict = errors.New("commit conflict")
