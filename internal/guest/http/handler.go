package http

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pinehollow/lodge-booking-backend/internal/guest"
	"github.com/pinehollow/lodge-booking-backend/internal/identity"
	"github.com/pinehollow/lodge-booking-backend/internal/pkg/response"
)

type Handler struct {
	service  guest.Service
	resolver identity.Resolver
}

func NewHandler(service guest.Service, resolver identity.Resolver) *Handler {
	return &Handler{
		service:  service,
		resolver: resolver,
	}
}

type byGuestIDRequest struct {
	GuestID string `uri:"guest_id" binding:"required"`
}

// GetStats returns the derived aggregates for a guest, with the directory
// profile attached. Profile resolution is best-effort.
func (h *Handler) GetStats(c *gin.Context) {
	var req byGuestIDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid guest id"})
		return
	}

	stats, err := h.service.GetByGuest(c.Request.Context(), req.GuestID)
	if err != nil {
		response.Error(c, err)
		return
	}

	profile, err := h.resolver.Resolve(c.Request.Context(), req.GuestID)
	if err != nil {
		log.Printf("failed to resolve guest %s: %v", req.GuestID, err)
		profile = nil
	}

	c.JSON(http.StatusOK, NewGuestStatsResponse(stats, profile))
}

// Recompute rebuilds the guest's aggregates from booking records on demand.
// Useful when a stale value needs correcting before the worker gets to it.
func (h *Handler) Recompute(c *gin.Context) {
	var req byGuestIDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid guest id"})
		return
	}

	stats, err := h.service.Recompute(c.Request.Context(), req.GuestID)
	if err != nil {
		response.Error(c, err)
		return
	}

	profile, err := h.resolver.Resolve(c.Request.Context(), req.GuestID)
	if err != nil {
		log.Printf("failed to resolve guest %s: %v", req.GuestID, err)
		profile = nil
	}

	c.JSON(http.StatusOK, NewGuestStatsResponse(stats, profile))
}
