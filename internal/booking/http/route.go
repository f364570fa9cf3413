package http

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers the booking wizard. Only submission needs a
// token; the backend owns the booking from then on.
func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware gin.HandlerFunc) {
	group := g.Group("/booking/wizard")
	{
		group.POST("", h.Start)
		group.GET("", h.Get)
		group.DELETE("", h.Discard)
		group.PATCH("/draft", h.EditDraft)
		group.POST("/next", h.Next)
		group.POST("/back", h.Back)
		group.POST("/reset", h.Reset)
		group.POST("/submit", authMiddleware, h.Submit)
	}
}
