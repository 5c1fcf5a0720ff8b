package handler

import (
	"github.com/gin-gonic/gin"

	billingapp "github.com/haulstack/tms/internal/application/billing"
	"github.com/haulstack/tms/internal/domain/identity"
	"github.com/haulstack/tms/internal/interfaces/http/middleware"
)

// FuelHandler handles fuel purchase endpoints
type FuelHandler struct {
	BaseHandler
	fuelService *billingapp.FuelService
}

// NewFuelHandler creates a new FuelHandler
func NewFuelHandler(base BaseHandler, fuelService *billingapp.FuelService) *FuelHandler {
	return &FuelHandler{BaseHandler: base, fuelService: fuelService}
}

// RegisterRoutes registers fuel endpoints on the authenticated group
func (h *FuelHandler) RegisterRoutes(rg *gin.RouterGroup) {
	fuel := rg.Group("/fuel")
	{
		view := middleware.RequirePermission(identity.PermViewInvoices)
		manage := middleware.RequirePermission(identity.PermManageInvoices)

		fuel.GET("", view, h.List)
		fuel.GET("/summary",
			middleware.RequirePermission(identity.PermViewReports), h.Summarize)
		fuel.GET("/:id", view, h.Get)
		fuel.POST("", manage, h.Create)
		fuel.PUT("/:id", manage, h.Update)
		fuel.DELETE("/:id", manage, h.Delete)
	}
}

// Create records a fuel purchase
func (h *FuelHandler) Create(c *gin.Context) {
	companyID, ok := h.companyID(c)
	if !ok {
		return
	}
	var req billingapp.CreateFuelEntryRequest
	if !h.bindJSON(c, &req) {
		return
	}
	entry, err := h.fuelService.Create(c.Request.Context(), companyID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, entry)
}

// Get returns a fuel entry by ID
func (h *FuelHandler) Get(c *gin.Context) {
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	entry, err := h.fuelService.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, entry)
}

// List returns the company's fuel entries
func (h *FuelHandler) List(c *gin.Context) {
	var filter billingapp.FuelListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	result, err := h.fuelService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, result.Entries, result.Total, result.Page, result.PageSize)
}

// Summarize rolls gallons and spend up by state over a time window.
// Feeds quarterly fuel tax reporting.
func (h *FuelHandler) Summarize(c *gin.Context) {
	companyID, ok := h.companyID(c)
	if !ok {
		return
	}
	var filter billingapp.FuelSummaryFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	summary, err := h.fuelService.Summarize(c.Request.Context(), companyID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, summary)
}

// Update changes a fuel entry
func (h *FuelHandler) Update(c *gin.Context) {
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	var req billingapp.UpdateFuelEntryRequest
	if !h.bindJSON(c, &req) {
		return
	}
	entry, err := h.fuelService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, entry)
}

// Delete removes a fuel entry
func (h *FuelHandler) Delete(c *gin.Context) {
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	if err := h.fuelService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
