package http

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware gin.HandlerFunc) {
	group := g.Group("/guests")
	group.Use(authMiddleware)
	{
		group.GET("/:guest_id/stats", h.GetStats)
		group.POST("/:guest_id/stats/recompute", h.Recompute)
	}
}
