package http

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware, backofficeMiddleware gin.HandlerFunc) {
	group := g.Group("/stations")
	group.Use(authMiddleware)
	{
		group.GET("", h.List)
		group.GET("/:id", h.Get)

		group.POST("", backofficeMiddleware, h.Create)
		group.PATCH("/:id", backofficeMiddleware, h.Update)
		group.PATCH("/:id/status", backofficeMiddleware, h.SetStatus)
	}
}
