package http

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers the session-scoped search screen routes.
func RegisterRoutes(g *gin.RouterGroup, h *Handler) {
	group := g.Group("/search")
	{
		group.GET("/state", h.GetState)        // Current state + tags
		group.POST("/actions", h.Dispatch)     // Apply one action
		group.DELETE("/tags/:id", h.RemoveTag) // Dismiss a filter chip
		group.GET("/results", h.Results)       // Cars matching the state
	}
}
