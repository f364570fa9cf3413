package http

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(g *gin.RouterGroup, h *Handler) {
	group := g.Group("/address")
	{
		group.GET("/provinces", h.Provinces)                 // Provinces
		group.GET("/provinces/:code/districts", h.Districts) // Districts of a province
		group.GET("/districts/:code/wards", h.Wards)         // Wards of a district
	}
}
