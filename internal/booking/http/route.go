package http

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware, staffMiddleware gin.HandlerFunc) {
	group := g.Group("/bookings")
	group.Use(authMiddleware)
	{
		group.GET("", h.List)
		group.GET("/:id", h.Get)
		group.POST("", h.Create)
		group.PATCH("/:id", h.Update)
		group.DELETE("/:id", h.Delete)

		group.POST("/:id/cancel", h.Cancel)
		group.POST("/:id/approve", staffMiddleware, h.Approve)
		group.POST("/:id/complete", staffMiddleware, h.Complete)
	}

	// Station-scoped reads.
	stations := g.Group("/stations")
	stations.Use(authMiddleware)
	{
		stations.GET("/:id/availability", h.Availability)
		stations.GET("/:id/available-hours", h.AvailableHours)
		stations.GET("/:id/bookings/upcoming", staffMiddleware, h.UpcomingForStation)
	}
}
