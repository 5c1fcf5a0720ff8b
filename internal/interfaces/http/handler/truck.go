package handler

import (
	"github.com/gin-gonic/gin"

	fleetapp "github.com/haulstack/tms/internal/application/fleet"
	"github.com/haulstack/tms/internal/domain/identity"
	"github.com/haulstack/tms/internal/interfaces/http/middleware"
)

// TruckHandler handles truck endpoints
type TruckHandler struct {
	BaseHandler
	truckService *fleetapp.TruckService
}

// NewTruckHandler creates a new TruckHandler
func NewTruckHandler(base BaseHandler, truckService *fleetapp.TruckService) *TruckHandler {
	return &TruckHandler{BaseHandler: base, truckService: truckService}
}

// RegisterRoutes registers truck endpoints on the authenticated group
func (h *TruckHandler) RegisterRoutes(rg *gin.RouterGroup) {
	trucks := rg.Group("/trucks")
	{
		view := middleware.RequirePermission(identity.PermViewTrucks)
		manage := middleware.RequirePermission(identity.PermManageTrucks)

		trucks.GET("", view, h.List)
		trucks.GET("/:id", view, h.Get)
		trucks.POST("", manage, h.Create)
		trucks.PUT("/:id", manage, h.Update)
		trucks.DELETE("/:id", manage, h.Delete)
	}
}

// Create adds a truck to the caller's company
func (h *TruckHandler) Create(c *gin.Context) {
	companyID, ok := h.companyID(c)
	if !ok {
		return
	}
	var req fleetapp.CreateTruckRequest
	if !h.bindJSON(c, &req) {
		return
	}
	truck, err := h.truckService.Create(c.Request.Context(), companyID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, truck)
}

// Get returns a truck by ID
func (h *TruckHandler) Get(c *gin.Context) {
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	truck, err := h.truckService.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, truck)
}

// List returns the company's trucks
func (h *TruckHandler) List(c *gin.Context) {
	var filter fleetapp.TruckListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	result, err := h.truckService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, result.Trucks, result.Total, result.Page, result.PageSize)
}

// Update changes a truck
func (h *TruckHandler) Update(c *gin.Context) {
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	var req fleetapp.UpdateTruckRequest
	if !h.bindJSON(c, &req) {
		return
	}
	truck, err := h.truckService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, truck)
}

// Delete removes a truck
func (h *TruckHandler) Delete(c *gin.Context) {
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	if err := h.truckService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
