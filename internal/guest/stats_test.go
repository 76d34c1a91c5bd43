package guest

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pinehollow/lodge-booking-backend/internal/booking"
)

func fact(price int64, status booking.Status, createdAt time.Time) BookingFact {
	return BookingFact{TotalPrice: price, Status: status, CreatedAt: createdAt}
}

func TestComputeExcludesCancelledSpend(t *testing.T) {
	t0 := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)
	t1 := t0.Add(24 * time.Hour)

	// One confirmed booking for 500 and one cancelled for 300: the guest has
	// two bookings but has only spent 500.
	facts := []BookingFact{
		fact(500, booking.StatusConfirmed, t0),
		fact(300, booking.StatusCancelled, t1),
	}

	s := Compute("guest-1", facts)

	assert.Equal(t, "guest-1", s.GuestID)
	assert.Equal(t, 2, s.TotalBookings)
	assert.Equal(t, int64(500), s.TotalSpent)
	assert.Equal(t, 0, s.CompletedBookings)

	// The cancelled booking is the most recent activity and still counts.
	require.NotNil(t, s.LastBookingDate)
	assert.Equal(t, t1, *s.LastBookingDate)
}

func TestComputeCompletedBookings(t *testing.T) {
	t0 := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)

	facts := []BookingFact{
		fact(100, booking.StatusCheckedOut, t0),
		fact(200, booking.StatusCheckedOut, t0.Add(time.Hour)),
		fact(300, booking.StatusCheckedIn, t0.Add(2*time.Hour)),
		fact(400, booking.StatusUnconfirmed, t0.Add(3*time.Hour)),
	}

	s := Compute("guest-1", facts)

	assert.Equal(t, 4, s.TotalBookings)
	assert.Equal(t, 2, s.CompletedBookings)
	assert.Equal(t, int64(1000), s.TotalSpent)
}

func TestComputeIsIdempotent(t *testing.T) {
	t0 := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)

	facts := []BookingFact{
		fact(500, booking.StatusConfirmed, t0),
		fact(300, booking.StatusCancelled, t0.Add(time.Hour)),
		fact(250, booking.StatusCheckedOut, t0.Add(2*time.Hour)),
	}

	first := Compute("guest-1", facts)
	second := Compute("guest-1", facts)
	assert.Equal(t, first, second)
}

func TestComputeNoFacts(t *testing.T) {
	s := Compute("guest-1", nil)

	assert.Equal(t, "guest-1", s.GuestID)
	assert.Zero(t, s.TotalBookings)
	assert.Zero(t, s.CompletedBookings)
	assert.Zero(t, s.TotalSpent)
	assert.Nil(t, s.LastBookingDate)
}

func TestComputeCancellationLowersSpendRetroactively(t *testing.T) {
	t0 := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)

	before := Compute("guest-1", []BookingFact{
		fact(500, booking.StatusConfirmed, t0),
	})
	require.Equal(t, int64(500), before.TotalSpent)

	// The same booking, now cancelled: the next recompute drops its spend
	// without needing a compensating entry.
	after := Compute("guest-1", []BookingFact{
		fact(500, booking.StatusCancelled, t0),
	})
	assert.Equal(t, int64(0), after.TotalSpent)
	assert.Equal(t, 1, after.TotalBookings)
}
