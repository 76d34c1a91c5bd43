package http

import (
	"time"

	"github.com/pinehollow/lodge-booking-backend/internal/settings"
)

type UpdateSettingsRequest struct {
	MinBookingLength    *int   `json:"min_booking_length" binding:"omitempty,min=1"`
	MaxBookingLength    *int   `json:"max_booking_length" binding:"omitempty,min=1"`
	MaxGuestsPerBooking *int   `json:"max_guests_per_booking" binding:"omitempty,min=1"`
	BreakfastPrice      *int64 `json:"breakfast_price" binding:"omitempty,min=0"`
	PetFee              *int64 `json:"pet_fee" binding:"omitempty,min=0"`
	AllowPets           *bool  `json:"allow_pets"`
	ParkingFee          *int64 `json:"parking_fee" binding:"omitempty,min=0"`
	ParkingIncluded     *bool  `json:"parking_included"`
	EarlyCheckInFee     *int64 `json:"early_check_in_fee" binding:"omitempty,min=0"`
	LateCheckOutFee     *int64 `json:"late_check_out_fee" binding:"omitempty,min=0"`
	RequireDeposit      *bool  `json:"require_deposit"`
	DepositPercentage   *int   `json:"deposit_percentage" binding:"omitempty,min=0,max=100"`
}

// SettingsResponse is the shape of the booking policy in API responses.
type SettingsResponse struct {
	MinBookingLength    int       `json:"min_booking_length"`
	MaxBookingLength    int       `json:"max_booking_length"`
	MaxGuestsPerBooking int       `json:"max_guests_per_booking"`
	BreakfastPrice      int64     `json:"breakfast_price"`
	PetFee              int64     `json:"pet_fee"`
	AllowPets           bool      `json:"allow_pets"`
	ParkingFee          int64     `json:"parking_fee"`
	ParkingIncluded     bool      `json:"parking_included"`
	EarlyCheckInFee     int64     `json:"early_check_in_fee"`
	LateCheckOutFee     int64     `json:"late_check_out_fee"`
	RequireDeposit      bool      `json:"require_deposit"`
	DepositPercentage   int       `json:"deposit_percentage"`
	UpdatedAt           time.Time `json:"updated_at"`
}

func NewSettingsResponse(s *settings.Settings) SettingsResponse {
	return SettingsResponse{
		MinBookingLength:    s.MinBookingLength,
		MaxBookingLength:    s.MaxBookingLength,
		MaxGuestsPerBooking: s.MaxGuestsPerBooking,
		BreakfastPrice:      s.BreakfastPrice,
		PetFee:              s.PetFee,
		AllowPets:           s.AllowPets,
		ParkingFee:          s.ParkingFee,
		ParkingIncluded:     s.ParkingIncluded,
		EarlyCheckInFee:     s.EarlyCheckInFee,
		LateCheckOutFee:     s.LateCheckOutFee,
		RequireDeposit:      s.RequireDeposit,
		DepositPercentage:   s.DepositPercentage,
		UpdatedAt:           s.UpdatedAt,
	}
}
