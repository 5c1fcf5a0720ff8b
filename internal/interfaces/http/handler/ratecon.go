package handler

import (
	"github.com/gin-gonic/gin"

	freightapp "github.com/haulstack/tms/internal/application/freight"
	"github.com/haulstack/tms/internal/domain/identity"
	"github.com/haulstack/tms/internal/interfaces/http/middleware"
)

// RateconHandler handles rate confirmation endpoints
type RateconHandler struct {
	BaseHandler
	rateconService *freightapp.RateconService
}

// NewRateconHandler creates a new RateconHandler
func NewRateconHandler(base BaseHandler, rateconService *freightapp.RateconService) *RateconHandler {
	return &RateconHandler{BaseHandler: base, rateconService: rateconService}
}

// RegisterRoutes registers ratecon endpoints on the authenticated group
func (h *RateconHandler) RegisterRoutes(rg *gin.RouterGroup) {
	ratecons := rg.Group("/ratecons")
	{
		view := middleware.RequirePermission(identity.PermViewLoads)
		edit := middleware.RequirePermission(identity.PermEditLoads)

		ratecons.GET("", view, h.List)
		ratecons.GET("/:id", view, h.Get)
		ratecons.POST("", edit, h.Create)
		ratecons.POST("/:id/review", edit, h.Review)
		ratecons.DELETE("/:id", edit, h.Delete)
	}
	rg.GET("/loads/:id/ratecons",
		middleware.RequirePermission(identity.PermViewLoads), h.ListByLoad)
}

// Create records a rate confirmation against a load
func (h *RateconHandler) Create(c *gin.Context) {
	companyID, ok := h.companyID(c)
	if !ok {
		return
	}
	var req freightapp.CreateRateconRequest
	if !h.bindJSON(c, &req) {
		return
	}
	ratecon, err := h.rateconService.Create(c.Request.Context(), companyID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, ratecon)
}

// Get returns a rate confirmation by ID
func (h *RateconHandler) Get(c *gin.Context) {
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	ratecon, err := h.rateconService.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, ratecon)
}

// List returns the company's rate confirmations
func (h *RateconHandler) List(c *gin.Context) {
	var filter freightapp.RateconListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	result, err := h.rateconService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, result.Ratecons, result.Total, result.Page, result.PageSize)
}

// ListByLoad returns the rate confirmations attached to a load
func (h *RateconHandler) ListByLoad(c *gin.Context) {
	loadID, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	ratecons, err := h.rateconService.ListByLoad(c.Request.Context(), loadID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, ratecons)
}

// Review accepts or rejects a pending rate confirmation
func (h *RateconHandler) Review(c *gin.Context) {
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	var req freightapp.ReviewRateconRequest
	if !h.bindJSON(c, &req) {
		return
	}
	ratecon, err := h.rateconService.Review(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, ratecon)
}

// Delete removes a rate confirmation
func (h *RateconHandler) Delete(c *gin.Context) {
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	if err := h.rateconService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
