package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nekogravitycat/car-rental-bff/internal/auth"
	"github.com/nekogravitycat/car-rental-bff/internal/car"
	carHttp "github.com/nekogravitycat/car-rental-bff/internal/car/http"
	"github.com/nekogravitycat/car-rental-bff/internal/pkg/response"
	"github.com/nekogravitycat/car-rental-bff/internal/search"
)

type Handler struct {
	service    search.Service
	carService car.Service
}

func NewHandler(service search.Service, carService car.Service) *Handler {
	return &Handler{
		service:    service,
		carService: carService,
	}
}

type tagURI struct {
	ID string `uri:"id" binding:"required"`
}

func (h *Handler) GetState(c *gin.Context) {
	state, err := h.service.Get(c.Request.Context(), auth.GetSessionID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, NewStateResponse(state, h.service.Limits()))
}

// Dispatch applies one action to the caller's search state.
func (h *Handler) Dispatch(c *gin.Context) {
	var body ActionRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	action, err := body.ToAction()
	if err != nil {
		response.Error(c, err)
		return
	}

	h.apply(c, action)
}

// RemoveTag dismisses one active-filter chip.
func (h *Handler) RemoveTag(c *gin.Context) {
	var uri tagURI
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	h.apply(c, search.RemoveTagAction{ID: uri.ID})
}

// Results runs the caller's current search state against the catalog.
func (h *Handler) Results(c *gin.Context) {
	ctx := c.Request.Context()

	state, err := h.service.Get(ctx, auth.GetSessionID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	page, err := h.carService.Search(ctx, state)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, response.NewPageResponse(carHttp.NewCarListResponse(page.Items), page.Pagination))
}

func (h *Handler) apply(c *gin.Context, action search.Action) {
	state, err := h.service.Dispatch(c.Request.Context(), auth.GetSessionID(c), action)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, NewStateResponse(state, h.service.Limits()))
}
