package booking

import (
	"fmt"
	"net/http"
	"time"

	"github.com/pinehollow/lodge-booking-backend/internal/pkg/apperror"
)

// Status is the booking lifecycle state. Every status change goes through
// Transition; nothing else writes the field.
type Status string

const (
	StatusUnconfirmed Status = "unconfirmed"
	StatusConfirmed   Status = "confirmed"
	StatusCheckedIn   Status = "checked-in"
	StatusCheckedOut  Status = "checked-out"
	StatusCancelled   Status = "cancelled"
)

// validTransitions is the lifecycle adjacency list. Cancellation from
// checked-in is deliberately absent: it needs an explicit force override.
var validTransitions = map[Status][]Status{
	StatusUnconfirmed: {StatusConfirmed, StatusCancelled},
	StatusConfirmed:   {StatusCheckedIn, StatusCancelled},
	StatusCheckedIn:   {StatusCheckedOut},
	StatusCheckedOut:  {},
	StatusCancelled:   {},
}

// ParseStatus validates a status string at the boundary.
func ParseStatus(s string) (Status, error) {
	st := Status(s)
	if _, ok := validTransitions[st]; !ok {
		return "", ErrInvalidStatus
	}
	return st, nil
}

// IsValid returns true if the status is one of the five lifecycle states.
func (s Status) IsValid() bool {
	_, ok := validTransitions[s]
	return ok
}

// IsTerminal returns true if no further transitions are possible.
func (s Status) IsTerminal() bool {
	allowed, ok := validTransitions[s]
	if !ok {
		return true
	}
	return len(allowed) == 0
}

// CanTransitionTo returns true if moving from s to target is allowed.
func (s Status) CanTransitionTo(target Status) bool {
	for _, t := range validTransitions[s] {
		if t == target {
			return true
		}
	}
	return false
}

// Transition moves the booking to target, stamping check-in/check-out times
// as side effects. force additionally permits cancelling a checked-in stay
// (a manager override); checked-out and cancelled stay terminal regardless.
// On failure the booking is left untouched.
func Transition(b *Booking, target Status, now time.Time, force bool) error {
	if !target.IsValid() {
		return ErrInvalidStatus
	}

	allowed := b.Status.CanTransitionTo(target)
	if !allowed && force && b.Status == StatusCheckedIn && target == StatusCancelled {
		allowed = true
	}
	if !allowed {
		return apperror.Wrap(ErrInvalidTransition, http.StatusConflict,
			fmt.Sprintf("cannot transition booking from %q to %q", b.Status, target))
	}

	switch target {
	case StatusCheckedIn:
		t := now
		b.CheckInTime = &t
	case StatusCheckedOut:
		t := now
		b.CheckOutTime = &t
	}

	b.Status = target
	return nil
}
