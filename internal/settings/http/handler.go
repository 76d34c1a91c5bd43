package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pinehollow/lodge-booking-backend/internal/pkg/response"
	"github.com/pinehollow/lodge-booking-backend/internal/settings"
)

type Handler struct {
	service settings.Service
}

func NewHandler(service settings.Service) *Handler {
	return &Handler{service: service}
}

// Get returns the current booking policy.
func (h *Handler) Get(c *gin.Context) {
	s, err := h.service.Get(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewSettingsResponse(s))
}

// Update edits the booking policy. Admin only. Existing bookings keep their
// prices; the new policy applies to future quotes.
func (h *Handler) Update(c *gin.Context) {
	var req UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	s, err := h.service.Update(c.Request.Context(), settings.UpdateRequest{
		MinBookingLength:    req.MinBookingLength,
		MaxBookingLength:    req.MaxBookingLength,
		MaxGuestsPerBooking: req.MaxGuestsPerBooking,
		BreakfastPrice:      req.BreakfastPrice,
		PetFee:              req.PetFee,
		AllowPets:           req.AllowPets,
		ParkingFee:          req.ParkingFee,
		ParkingIncluded:     req.ParkingIncluded,
		EarlyCheckInFee:     req.EarlyCheckInFee,
		LateCheckOutFee:     req.LateCheckOutFee,
		RequireDeposit:      req.RequireDeposit,
		DepositPercentage:   req.DepositPercentage,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewSettingsResponse(s))
}
