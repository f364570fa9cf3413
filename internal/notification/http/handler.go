package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nekogravitycat/car-rental-bff/internal/auth"
	"github.com/nekogravitycat/car-rental-bff/internal/notification"
	"github.com/nekogravitycat/car-rental-bff/internal/pkg/response"
)

type Handler struct {
	service notification.Service
}

func NewHandler(service notification.Service) *Handler {
	return &Handler{service: service}
}

// Drain hands the caller their pending toasts. Each toast is returned once.
func (h *Handler) Drain(c *gin.Context) {
	items, err := h.service.Drain(c.Request.Context(), auth.GetSessionID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": items})
}
