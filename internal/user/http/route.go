package http

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware, backofficeMiddleware gin.HandlerFunc) {
	group := g.Group("/users")
	group.Use(authMiddleware)
	{
		group.GET("", backofficeMiddleware, h.List)
		group.GET("/:nic", backofficeMiddleware, h.Get)

		// Back office provisions staff (and owner) accounts directly.
		group.POST("", backofficeMiddleware, h.Create)

		// Owners may deactivate their own account; the handler enforces that
		// anything else requires back office.
		group.PATCH("/:nic/status", h.SetStatus)
	}
}
