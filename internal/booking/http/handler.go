package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nekogravitycat/car-rental-bff/internal/auth"
	"github.com/nekogravitycat/car-rental-bff/internal/booking"
	"github.com/nekogravitycat/car-rental-bff/internal/pkg/response"
)

type Handler struct {
	service booking.Service
}

func NewHandler(service booking.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Start(c *gin.Context) {
	var body StartRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	w, err := h.service.Start(c.Request.Context(), auth.GetSessionID(c), body.CarID)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, NewWizardResponse(w))
}

func (h *Handler) Get(c *gin.Context) {
	w, err := h.service.Get(c.Request.Context(), auth.GetSessionID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewWizardResponse(w))
}

func (h *Handler) EditDraft(c *gin.Context) {
	var body EditDraftRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	w, err := h.service.Edit(c.Request.Context(), auth.GetSessionID(c), body.ToPatch())
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewWizardResponse(w))
}

// Next validates the draft. Field errors come back as 422 with one entry
// per violated field; the wizard stays on the form.
func (h *Handler) Next(c *gin.Context) {
	w, err := h.service.Next(c.Request.Context(), auth.GetSessionID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	if s, ok := w.(booking.CollectingDetails); ok && len(s.Errors) > 0 {
		response.Error(c, booking.ErrInvalidDraft.WithDetails(s.Errors))
		return
	}

	c.JSON(http.StatusOK, NewWizardResponse(w))
}

func (h *Handler) Back(c *gin.Context) {
	w, err := h.service.Back(c.Request.Context(), auth.GetSessionID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewWizardResponse(w))
}

func (h *Handler) Reset(c *gin.Context) {
	w, err := h.service.Reset(c.Request.Context(), auth.GetSessionID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewWizardResponse(w))
}

func (h *Handler) Discard(c *gin.Context) {
	if err := h.service.Discard(c.Request.Context(), auth.GetSessionID(c)); err != nil {
		response.Error(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *Handler) Submit(c *gin.Context) {
	b, err := h.service.Submit(c.Request.Context(), auth.GetSessionID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, NewBookingResponse(b))
}
