package booking

import (
	"net/http"
	"time"

	"github.com/pinehollow/lodge-booking-backend/internal/pkg/apperror"
)

var (
	ErrNotFound          = apperror.New(http.StatusNotFound, "booking not found")
	ErrCabinNotFound     = apperror.New(http.StatusNotFound, "cabin not found")
	ErrDateConflict      = apperror.New(http.StatusConflict, "cabin is already booked for part of the requested dates")
	ErrInvalidDateRange  = apperror.New(http.StatusBadRequest, "check-out date must be after check-in date")
	ErrInvalidStatus     = apperror.New(http.StatusBadRequest, "invalid booking status")
	ErrInvalidTransition = apperror.New(http.StatusConflict, "invalid status transition")
	ErrImmutableBooking  = apperror.New(http.StatusConflict, "booking details can only be edited while unconfirmed")
	ErrGuestRequired     = apperror.New(http.StatusBadRequest, "guest id is required")
	ErrGuestCount        = apperror.New(http.StatusBadRequest, "number of guests is outside the allowed range")
	ErrStayLength        = apperror.New(http.StatusBadRequest, "stay length is outside the allowed range")
	ErrInvalidCabinRate  = apperror.New(http.StatusBadRequest, "cabin discount must be strictly less than its nightly price")
	ErrStoreUnavailable  = apperror.NewRetryable(http.StatusServiceUnavailable, "booking store is temporarily unavailable")
)

// ExtrasSelection is the closed set of optional add-on toggles. Fees come
// from the policy snapshot, never from the request.
type ExtrasSelection struct {
	Breakfast    bool
	Pets         bool
	Parking      bool
	EarlyCheckIn bool
	LateCheckOut bool
}

// Booking reserves one cabin for a contiguous date range by one guest.
// The guest is an opaque identity-directory key, not a local record.
// All amounts are integer currency units.
type Booking struct {
	ID        string
	CabinID   string
	CabinName string // joined for display
	GuestID   string

	CheckInDate  time.Time
	CheckOutDate time.Time
	NumNights    int
	NumGuests    int

	Status Status

	// CabinPrice is the nightly rate actually charged, after discount,
	// snapshotted at creation. Later cabin price changes never touch it.
	CabinPrice    int64
	ExtrasPrice   int64
	TotalPrice    int64
	Extras        ExtrasSelection
	IsPaid        bool
	DepositPaid   bool
	DepositAmount int64

	CheckInTime  *time.Time
	CheckOutTime *time.Time

	Observations    string
	SpecialRequests string

	IdempotencyKey string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// RemainingAmount is always the difference between total and deposit,
// whether or not the deposit has actually been collected.
func (b *Booking) RemainingAmount() int64 {
	return b.TotalPrice - b.DepositAmount
}

// NightsBetween returns the number of nights between two dates, rounding
// partial days up. Dates on the same day (or reversed) yield 0.
func NightsBetween(checkIn, checkOut time.Time) int {
	diff := checkOut.Sub(checkIn)
	if diff <= 0 {
		return 0
	}
	nights := int(diff / (24 * time.Hour))
	if diff%(24*time.Hour) != 0 {
		nights++
	}
	return nights
}

// Filter defines parameters for listing bookings.
type Filter struct {
	GuestID  string
	CabinID  string
	Status   string
	DateFrom *time.Time // bookings ending after this date
	DateTo   *time.Time // bookings starting before this date

	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}
