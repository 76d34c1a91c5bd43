package http

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware, adminMiddleware gin.HandlerFunc) {
	// === Public Routes ===
	g.POST("/auth/login", h.Login)

	group := g.Group("/staff")
	group.Use(authMiddleware)
	{
		group.GET("/me", h.Me)

		// === Admin Routes ===
		group.POST("", adminMiddleware, h.Create)
	}
}
