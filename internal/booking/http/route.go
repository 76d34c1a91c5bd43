package http

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware, adminMiddleware gin.HandlerFunc) {
	group := g.Group("/bookings")
	group.Use(authMiddleware)
	{
		group.GET("", h.List)
		group.GET("/:id", h.GetByID)
		group.POST("", h.Create)
		group.PATCH("/:id", h.Update)

		group.POST("/:id/confirm", h.Confirm)
		group.POST("/:id/check-in", h.CheckIn)
		group.POST("/:id/check-out", h.CheckOut)
		group.POST("/:id/cancel", h.Cancel)

		// === Admin Routes ===
		group.DELETE("/:id", adminMiddleware, h.Delete)
	}
}
