package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nekogravitycat/car-rental-bff/internal/auth"
	"github.com/nekogravitycat/car-rental-bff/internal/car"
	"github.com/nekogravitycat/car-rental-bff/internal/pkg/request"
	"github.com/nekogravitycat/car-rental-bff/internal/pkg/response"
	"github.com/nekogravitycat/car-rental-bff/internal/search"
)

type Handler struct {
	service car.Service
	limits  search.Limits
}

func NewHandler(service car.Service, limits search.Limits) *Handler {
	return &Handler{
		service: service,
		limits:  limits,
	}
}

func (h *Handler) bindState(c *gin.Context) (search.State, bool) {
	var req ListCarsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query parameters", "details": err.Error()})
		return search.State{}, false
	}

	state, err := req.ToState(h.limits)
	if err != nil {
		response.Error(c, err)
		return search.State{}, false
	}
	return state, true
}

// List serves the public catalog from query parameters alone.
func (h *Handler) List(c *gin.Context) {
	state, ok := h.bindState(c)
	if !ok {
		return
	}

	page, err := h.service.Search(c.Request.Context(), state)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, response.NewPageResponse(NewCarListResponse(page.Items), page.Pagination))
}

func (h *Handler) Get(c *gin.Context) {
	var req request.ByIDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	res, err := h.service.GetByID(c.Request.Context(), req.ID)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewCarResponse(res))
}

// ListOwned serves the owner dashboard.
func (h *Handler) ListOwned(c *gin.Context) {
	state, ok := h.bindState(c)
	if !ok {
		return
	}

	page, err := h.service.ListByOwner(c.Request.Context(), auth.GetUserID(c), state)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, response.NewPageResponse(NewCarListResponse(page.Items), page.Pagination))
}

func (h *Handler) Edit(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	var body EditCarRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	res, err := h.service.Edit(c.Request.Context(), auth.GetUserID(c), uri.ID, body.ToDomain())
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewCarResponse(res))
}
