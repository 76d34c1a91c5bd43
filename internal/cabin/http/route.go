package http

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware, adminMiddleware gin.HandlerFunc) {
	group := g.Group("/cabins")
	group.Use(authMiddleware)
	{
		group.GET("", h.List)
		group.GET("/:id", h.GetByID)
		group.GET("/:id/photo", h.Photo)

		// === Admin Routes ===
		group.POST("", adminMiddleware, h.Create)
		group.PATCH("/:id", adminMiddleware, h.Update)
		group.DELETE("/:id", adminMiddleware, h.Delete)
		group.POST("/:id/photo", adminMiddleware, h.UploadPhoto)
	}
}
