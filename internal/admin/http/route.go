package http

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers the admin screens. Every route needs an admin token.
func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware, adminMiddleware gin.HandlerFunc) {
	group := g.Group("/admin")
	group.Use(authMiddleware, adminMiddleware)
	{
		group.GET("/cars", h.ListCars)                            // Verification queue
		group.POST("/cars/:id/approve", h.ApproveCar)             // Open approve dialog
		group.GET("/accounts", h.ListAccounts)                    // Account list
		group.POST("/accounts/:id/status", h.ToggleAccountStatus) // Open activate/deactivate dialog
		group.POST("/dialogs/:id/confirm", h.ConfirmDialog)       // Run the pending action
		group.DELETE("/dialogs/:id", h.CancelDialog)              // Dismiss without changes
	}
}
