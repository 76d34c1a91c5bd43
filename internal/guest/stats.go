package guest

import (
	"net/http"
	"time"

	"github.com/pinehollow/lodge-booking-backend/internal/booking"
	"github.com/pinehollow/lodge-booking-backend/internal/pkg/apperror"
)

var (
	ErrNotFound         = apperror.New(http.StatusNotFound, "no statistics recorded for this guest")
	ErrStoreUnavailable = apperror.NewRetryable(http.StatusServiceUnavailable, "stats store is temporarily unavailable")
)

// Stats are derived aggregates per guest, recomputed from the booking
// records. They are not a source of truth; a stale value self-corrects on
// the next recompute.
type Stats struct {
	GuestID           string
	TotalBookings     int
	CompletedBookings int
	// TotalSpent excludes cancelled bookings, retroactively: cancelling a
	// previously counted booking lowers it on the next recompute.
	TotalSpent      int64
	LastBookingDate *time.Time
	UpdatedAt       time.Time
}

// BookingFact is the slice of a booking the aggregator needs.
type BookingFact struct {
	TotalPrice int64
	Status     booking.Status
	CreatedAt  time.Time
}

// Compute derives the aggregates from the guest's booking facts. It is pure
// and deterministic: calling it twice over the same facts yields identical
// stats.
func Compute(guestID string, facts []BookingFact) Stats {
	s := Stats{GuestID: guestID}

	for _, f := range facts {
		s.TotalBookings++

		if f.Status != booking.StatusCancelled {
			s.TotalSpent += f.TotalPrice
		}
		if f.Status == booking.StatusCheckedOut {
			s.CompletedBookings++
		}

		// Last activity counts cancelled bookings too; "last booking" is
		// distinct from revenue.
		if s.LastBookingDate == nil || f.CreatedAt.After(*s.LastBookingDate) {
			t := f.CreatedAt
			s.LastBookingDate = &t
		}
	}

	return s
}
