package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nekogravitycat/car-rental-bff/internal/admin"
	"github.com/nekogravitycat/car-rental-bff/internal/auth"
	"github.com/nekogravitycat/car-rental-bff/internal/pkg/request"
	"github.com/nekogravitycat/car-rental-bff/internal/pkg/response"
)

type Handler struct {
	service admin.Service
}

func NewHandler(service admin.Service) *Handler {
	return &Handler{service: service}
}

// ListCars serves the verification queue.
func (h *Handler) ListCars(c *gin.Context) {
	var req request.ListParams
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query parameters", "details": err.Error()})
		return
	}
	req.Normalize()

	page, err := h.service.ListCars(c.Request.Context(), req.Page, req.PageSize)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, response.NewPageResponse(NewCarRowListResponse(page.Items), page.Pagination))
}

func (h *Handler) ListAccounts(c *gin.Context) {
	var req ListAccountsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query parameters", "details": err.Error()})
		return
	}
	req.Normalize()

	page, err := h.service.ListAccounts(c.Request.Context(), req.ToFilter())
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, response.NewPageResponse(NewAccountRowListResponse(page.Items), page.Pagination))
}

// ApproveCar opens the confirmation dialog; nothing is sent to the backend yet.
func (h *Handler) ApproveCar(c *gin.Context) {
	var req request.ByIDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	d, err := h.service.RequestApproveCar(c.Request.Context(), auth.GetSessionID(c), req.ID)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, d)
}

// ToggleAccountStatus opens the confirmation dialog for an activate or deactivate.
func (h *Handler) ToggleAccountStatus(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	var req ToggleStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	d, err := h.service.RequestToggleAccount(c.Request.Context(), auth.GetSessionID(c), uri.ID, *req.IsActive)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, d)
}

func (h *Handler) ConfirmDialog(c *gin.Context) {
	var req request.ByIDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	out, err := h.service.Confirm(c.Request.Context(), auth.GetSessionID(c), req.ID)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, out)
}

func (h *Handler) CancelDialog(c *gin.Context) {
	var req request.ByIDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	if err := h.service.Cancel(c.Request.Context(), auth.GetSessionID(c), req.ID); err != nil {
		response.Error(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
