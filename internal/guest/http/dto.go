package http

import (
	"time"

	"github.com/pinehollow/lodge-booking-backend/internal/guest"
	"github.com/pinehollow/lodge-booking-backend/internal/identity"
)

// GuestStatsResponse combines the guest's directory profile with the derived
// booking aggregates.
type GuestStatsResponse struct {
	GuestID           string     `json:"guest_id"`
	FullName          string     `json:"full_name"`
	Email             string     `json:"email,omitempty"`
	Nationality       string     `json:"nationality,omitempty"`
	CountryFlag       string     `json:"country_flag,omitempty"`
	TotalBookings     int        `json:"total_bookings"`
	CompletedBookings int        `json:"completed_bookings"`
	TotalSpent        int64      `json:"total_spent"`
	LastBookingDate   *time.Time `json:"last_booking_date"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

func NewGuestStatsResponse(s *guest.Stats, p *identity.Profile) GuestStatsResponse {
	if p == nil {
		p = identity.Placeholder(s.GuestID)
	}
	return GuestStatsResponse{
		GuestID:           s.GuestID,
		FullName:          p.FullName,
		Email:             p.Email,
		Nationality:       p.Nationality,
		CountryFlag:       p.CountryFlag,
		TotalBookings:     s.TotalBookings,
		CompletedBookings: s.CompletedBookings,
		TotalSpent:        s.TotalSpent,
		LastBookingDate:   s.LastBookingDate,
		UpdatedAt:         s.UpdatedAt,
	}
}
