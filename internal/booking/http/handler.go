package http

import (
	"context"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pinehollow/lodge-booking-backend/internal/booking"
	"github.com/pinehollow/lodge-booking-backend/internal/identity"
	"github.com/pinehollow/lodge-booking-backend/internal/pkg/request"
	"github.com/pinehollow/lodge-booking-backend/internal/pkg/response"
)

type Handler struct {
	service  booking.Service
	resolver identity.Resolver
}

func NewHandler(service booking.Service, resolver identity.Resolver) *Handler {
	return &Handler{
		service:  service,
		resolver: resolver,
	}
}

// resolveOne looks up a single guest profile for display. Resolution is
// best-effort: on failure the response falls back to the placeholder.
func (h *Handler) resolveOne(ctx context.Context, guestID string) *identity.Profile {
	p, err := h.resolver.Resolve(ctx, guestID)
	if err != nil {
		log.Printf("failed to resolve guest %s: %v", guestID, err)
		return nil
	}
	return p
}

// Create creates a new booking.
func (h *Handler) Create(c *gin.Context) {
	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}
	if err := req.Validate(); err != nil {
		response.Error(c, err)
		return
	}

	// The Idempotency-Key header wins over the body field.
	key := c.GetHeader("Idempotency-Key")
	if key == "" {
		key = req.IdempotencyKey
	}

	b, err := h.service.Create(c.Request.Context(), booking.CreateRequest{
		CabinID:         req.CabinID,
		GuestID:         req.GuestID,
		CheckInDate:     req.CheckInDate,
		CheckOutDate:    req.CheckOutDate,
		NumGuests:       req.NumGuests,
		Extras:          req.Extras.toDomain(),
		IsPaid:          req.IsPaid,
		DepositPaid:     req.DepositPaid,
		Observations:    req.Observations,
		SpecialRequests: req.SpecialRequests,
		IdempotencyKey:  key,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, NewBookingResponse(b, h.resolveOne(c.Request.Context(), b.GuestID)))
}

// GetByID returns a single booking with its resolved guest identity.
func (h *Handler) GetByID(c *gin.Context) {
	var req request.ByIDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid booking id"})
		return
	}

	b, err := h.service.GetByID(c.Request.Context(), req.ID)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewBookingResponse(b, h.resolveOne(c.Request.Context(), b.GuestID)))
}

// List returns a paginated page of bookings. Guest identities are resolved
// in one batch; unresolvable guests render as placeholders.
func (h *Handler) List(c *gin.Context) {
	var req ListBookingsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query parameters", "details": err.Error()})
		return
	}
	if err := req.Validate(); err != nil {
		response.Error(c, err)
		return
	}

	bookings, total, err := h.service.List(c.Request.Context(), booking.Filter{
		GuestID:   req.GuestID,
		CabinID:   req.CabinID,
		Status:    req.Status,
		DateFrom:  req.DateFrom,
		DateTo:    req.DateTo,
		Page:      req.Page,
		PageSize:  req.PageSize,
		SortBy:    req.SortBy,
		SortOrder: req.SortOrder,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	guestIDs := make([]string, 0, len(bookings))
	for _, b := range bookings {
		guestIDs = append(guestIDs, b.GuestID)
	}
	profiles, err := h.resolver.ResolveBatch(c.Request.Context(), guestIDs)
	if err != nil {
		log.Printf("failed to resolve guest profiles: %v", err)
		profiles = nil
	}

	items := make([]BookingResponse, 0, len(bookings))
	for _, b := range bookings {
		items = append(items, NewBookingResponse(b, profiles[b.GuestID]))
	}

	page := req.Page
	if page < 1 {
		page = 1
	}
	pageSize := req.PageSize
	if pageSize < 1 {
		pageSize = len(items)
	}

	c.JSON(http.StatusOK, response.NewPageResponse(items, page, pageSize, total))
}

// Update edits booking details. Only unconfirmed bookings may be edited.
func (h *Handler) Update(c *gin.Context) {
	var uriReq request.ByIDRequest
	if err := c.ShouldBindUri(&uriReq); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid booking id"})
		return
	}

	var req UpdateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}
	if err := req.Validate(); err != nil {
		response.Error(c, err)
		return
	}

	var extras *booking.ExtrasSelection
	if req.Extras != nil {
		e := req.Extras.toDomain()
		extras = &e
	}

	b, err := h.service.Update(c.Request.Context(), uriReq.ID, booking.UpdateRequest{
		CheckInDate:     req.CheckInDate,
		CheckOutDate:    req.CheckOutDate,
		NumGuests:       req.NumGuests,
		Extras:          extras,
		IsPaid:          req.IsPaid,
		DepositPaid:     req.DepositPaid,
		Observations:    req.Observations,
		SpecialRequests: req.SpecialRequests,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewBookingResponse(b, h.resolveOne(c.Request.Context(), b.GuestID)))
}

// Confirm moves an unconfirmed booking to confirmed.
func (h *Handler) Confirm(c *gin.Context) {
	h.transition(c, func(ctx context.Context, id string) (*booking.Booking, error) {
		return h.service.Confirm(ctx, id)
	})
}

// CheckIn moves a confirmed booking to checked-in, stamping the actual
// arrival time. The request may mark the balance as settled at the desk.
func (h *Handler) CheckIn(c *gin.Context) {
	var req CheckInRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
			return
		}
	}

	h.transition(c, func(ctx context.Context, id string) (*booking.Booking, error) {
		return h.service.CheckIn(ctx, id, req.ConfirmPaid)
	})
}

// CheckOut moves a checked-in booking to checked-out.
func (h *Handler) CheckOut(c *gin.Context) {
	h.transition(c, func(ctx context.Context, id string) (*booking.Booking, error) {
		return h.service.CheckOut(ctx, id)
	})
}

// Cancel cancels a booking. Cancelling a checked-in stay requires force.
func (h *Handler) Cancel(c *gin.Context) {
	var req CancelRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
			return
		}
	}

	h.transition(c, func(ctx context.Context, id string) (*booking.Booking, error) {
		return h.service.Cancel(ctx, id, req.Force)
	})
}

func (h *Handler) transition(c *gin.Context, fn func(ctx context.Context, id string) (*booking.Booking, error)) {
	var req request.ByIDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid booking id"})
		return
	}

	b, err := fn(c.Request.Context(), req.ID)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewBookingResponse(b, h.resolveOne(c.Request.Context(), b.GuestID)))
}

// Delete removes a booking record. Admin only.
func (h *Handler) Delete(c *gin.Context) {
	var req request.ByIDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid booking id"})
		return
	}

	if err := h.service.Delete(c.Request.Context(), req.ID); err != nil {
		response.Error(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
