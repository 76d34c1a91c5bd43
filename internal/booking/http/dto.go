package http

import (
	"time"

	"github.com/pinehollow/lodge-booking-backend/internal/booking"
	"github.com/pinehollow/lodge-booking-backend/internal/identity"
	"github.com/pinehollow/lodge-booking-backend/internal/pkg/request"
)

// ListBookingsRequest defines query parameters for listing bookings.
type ListBookingsRequest struct {
	request.ListParams
	CabinID  string     `form:"cabin_id" binding:"omitempty,uuid"`
	GuestID  string     `form:"guest_id"`
	Status   string     `form:"status"`
	DateFrom *time.Time `form:"date_from" time_format:"2006-01-02"`
	DateTo   *time.Time `form:"date_to" time_format:"2006-01-02"`
	SortBy   string     `form:"sort_by" binding:"omitempty,oneof=check_in_date check_out_date created_at status total_price"`
}

// Validate performs custom validation for ListBookingsRequest.
func (r *ListBookingsRequest) Validate() error {
	if r.Status != "" {
		if _, err := booking.ParseStatus(r.Status); err != nil {
			return err
		}
	}
	if r.DateFrom != nil && r.DateTo != nil && r.DateFrom.After(*r.DateTo) {
		return booking.ErrInvalidDateRange
	}
	return nil
}

type ExtrasSelection struct {
	Breakfast    bool `json:"breakfast"`
	Pets         bool `json:"pets"`
	Parking      bool `json:"parking"`
	EarlyCheckIn bool `json:"early_check_in"`
	LateCheckOut bool `json:"late_check_out"`
}

func (e ExtrasSelection) toDomain() booking.ExtrasSelection {
	return booking.ExtrasSelection(e)
}

type CabinTag struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// GuestTag carries the display identity resolved from the directory, or the
// placeholder when the profile is unavailable.
type GuestTag struct {
	ID          string `json:"id"`
	FullName    string `json:"full_name"`
	Email       string `json:"email,omitempty"`
	CountryFlag string `json:"country_flag,omitempty"`
}

func newGuestTag(guestID string, p *identity.Profile) GuestTag {
	if p == nil {
		p = identity.Placeholder(guestID)
	}
	return GuestTag{
		ID:          guestID,
		FullName:    p.FullName,
		Email:       p.Email,
		CountryFlag: p.CountryFlag,
	}
}

type BookingResponse struct {
	ID              string          `json:"id"`
	Cabin           CabinTag        `json:"cabin"`
	Guest           GuestTag        `json:"guest"`
	CheckInDate     time.Time       `json:"check_in_date"`
	CheckOutDate    time.Time       `json:"check_out_date"`
	NumNights       int             `json:"num_nights"`
	NumGuests       int             `json:"num_guests"`
	Status          string          `json:"status"`
	CabinPrice      int64           `json:"cabin_price"`
	ExtrasPrice     int64           `json:"extras_price"`
	TotalPrice      int64           `json:"total_price"`
	Extras          ExtrasSelection `json:"extras"`
	IsPaid          bool            `json:"is_paid"`
	DepositPaid     bool            `json:"deposit_paid"`
	DepositAmount   int64           `json:"deposit_amount"`
	RemainingAmount int64           `json:"remaining_amount"`
	CheckInTime     *time.Time      `json:"check_in_time"`
	CheckOutTime    *time.Time      `json:"check_out_time"`
	Observations    string          `json:"observations"`
	SpecialRequests string          `json:"special_requests"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

func NewBookingResponse(b *booking.Booking, profile *identity.Profile) BookingResponse {
	return BookingResponse{
		ID:              b.ID,
		Cabin:           CabinTag{ID: b.CabinID, Name: b.CabinName},
		Guest:           newGuestTag(b.GuestID, profile),
		CheckInDate:     b.CheckInDate,
		CheckOutDate:    b.CheckOutDate,
		NumNights:       b.NumNights,
		NumGuests:       b.NumGuests,
		Status:          string(b.Status),
		CabinPrice:      b.CabinPrice,
		ExtrasPrice:     b.ExtrasPrice,
		TotalPrice:      b.TotalPrice,
		Extras:          ExtrasSelection(b.Extras),
		IsPaid:          b.IsPaid,
		DepositPaid:     b.DepositPaid,
		DepositAmount:   b.DepositAmount,
		RemainingAmount: b.RemainingAmount(),
		CheckInTime:     b.CheckInTime,
		CheckOutTime:    b.CheckOutTime,
		Observations:    b.Observations,
		SpecialRequests: b.SpecialRequests,
		CreatedAt:       b.CreatedAt,
		UpdatedAt:       b.UpdatedAt,
	}
}

type CreateBookingRequest struct {
	CabinID         string          `json:"cabin_id" binding:"required,uuid"`
	GuestID         string          `json:"guest_id" binding:"required"`
	CheckInDate     time.Time       `json:"check_in_date" binding:"required" time_format:"2006-01-02"`
	CheckOutDate    time.Time       `json:"check_out_date" binding:"required" time_format:"2006-01-02"`
	NumGuests       int             `json:"num_guests" binding:"required,min=1"`
	Extras          ExtrasSelection `json:"extras"`
	IsPaid          bool            `json:"is_paid"`
	DepositPaid     bool            `json:"deposit_paid"`
	Observations    string          `json:"observations"`
	SpecialRequests string          `json:"special_requests"`
	IdempotencyKey  string          `json:"idempotency_key" binding:"omitempty,uuid"`
}

// Validate performs custom validation for CreateBookingRequest.
func (r *CreateBookingRequest) Validate() error {
	if !r.CheckOutDate.After(r.CheckInDate) {
		return booking.ErrInvalidDateRange
	}
	return nil
}

type UpdateBookingRequest struct {
	CheckInDate     *time.Time       `json:"check_in_date" time_format:"2006-01-02"`
	CheckOutDate    *time.Time       `json:"check_out_date" time_format:"2006-01-02"`
	NumGuests       *int             `json:"num_guests" binding:"omitempty,min=1"`
	Extras          *ExtrasSelection `json:"extras"`
	IsPaid          *bool            `json:"is_paid"`
	DepositPaid     *bool            `json:"deposit_paid"`
	Observations    *string          `json:"observations"`
	SpecialRequests *string          `json:"special_requests"`
}

// Validate performs custom validation for UpdateBookingRequest.
func (r *UpdateBookingRequest) Validate() error {
	if r.CheckInDate != nil && r.CheckOutDate != nil {
		if !r.CheckOutDate.After(*r.CheckInDate) {
			return booking.ErrInvalidDateRange
		}
	}
	return nil
}

type CheckInRequest struct {
	ConfirmPaid bool `json:"confirm_paid"`
}

type CancelRequest struct {
	// Force permits cancelling a checked-in stay (manager override).
	Force bool `json:"force"`
}
