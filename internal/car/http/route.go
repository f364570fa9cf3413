package http

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers the public catalog and the owner dashboard routes.
func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware gin.HandlerFunc) {
	cars := g.Group("/cars")
	{
		cars.GET("", h.List)    // Browse / filter cars
		cars.GET("/:id", h.Get) // Car details
	}

	// === Authenticated Routes ===
	owner := g.Group("/owner/cars")
	owner.Use(authMiddleware)
	{
		owner.GET("", h.ListOwned)  // Owner dashboard
		owner.PATCH("/:id", h.Edit) // Edit own car
	}
}
