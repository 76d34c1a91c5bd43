package settings

import (
	"net/http"
	"time"

	"github.com/pinehollow/lodge-booking-backend/internal/pkg/apperror"
)

var (
	ErrNotFound         = apperror.New(http.StatusNotFound, "settings not found")
	ErrInvalidStay      = apperror.New(http.StatusBadRequest, "min booking length must not exceed max booking length")
	ErrInvalidGuestCap  = apperror.New(http.StatusBadRequest, "max guests per booking must be at least 1")
	ErrNegativeFee      = apperror.New(http.StatusBadRequest, "fees must not be negative")
	ErrInvalidDeposit   = apperror.New(http.StatusBadRequest, "deposit percentage must be between 0 and 100")
	ErrStoreUnavailable = apperror.NewRetryable(http.StatusServiceUnavailable, "settings store is temporarily unavailable")
)

// Settings is the lodge-wide booking policy. A single row, fetched as a
// snapshot once per reservation operation so one operation never observes
// two different policies.
type Settings struct {
	MinBookingLength    int
	MaxBookingLength    int
	MaxGuestsPerBooking int

	// Fee schedule, integer currency units.
	BreakfastPrice  int64
	PetFee          int64
	AllowPets       bool
	ParkingFee      int64
	ParkingIncluded bool
	EarlyCheckInFee int64
	LateCheckOutFee int64

	RequireDeposit    bool
	DepositPercentage int

	UpdatedAt time.Time
}

// Validate checks the policy's internal consistency.
func (s *Settings) Validate() error {
	if s.MinBookingLength < 1 || s.MinBookingLength > s.MaxBookingLength {
		return ErrInvalidStay
	}
	if s.MaxGuestsPerBooking < 1 {
		return ErrInvalidGuestCap
	}
	if s.BreakfastPrice < 0 || s.PetFee < 0 || s.ParkingFee < 0 ||
		s.EarlyCheckInFee < 0 || s.LateCheckOutFee < 0 {
		return ErrNegativeFee
	}
	if s.DepositPercentage < 0 || s.DepositPercentage > 100 {
		return ErrInvalidDeposit
	}
	return nil
}
