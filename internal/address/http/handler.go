package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nekogravitycat/car-rental-bff/internal/address"
	"github.com/nekogravitycat/car-rental-bff/internal/pkg/request"
	"github.com/nekogravitycat/car-rental-bff/internal/pkg/response"
)

type Handler struct {
	service address.Service
}

func NewHandler(service address.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Provinces(c *gin.Context) {
	items, err := h.service.Provinces(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

func (h *Handler) Districts(c *gin.Context) {
	var req request.ByCodeRequest
	if err := c.ShouldBindUri(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid province code", "details": err.Error()})
		return
	}

	items, err := h.service.Districts(c.Request.Context(), req.Code)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

func (h *Handler) Wards(c *gin.Context) {
	var req request.ByCodeRequest
	if err := c.ShouldBindUri(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid district code", "details": err.Error()})
		return
	}

	items, err := h.service.Wards(c.Request.Context(), req.Code)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}
