package handler

import (
	"github.com/gin-gonic/gin"

	fleetapp "github.com/haulstack/tms/internal/application/fleet"
	"github.com/haulstack/tms/internal/domain/identity"
	"github.com/haulstack/tms/internal/interfaces/http/middleware"
)

// DriverHandler handles driver endpoints
type DriverHandler struct {
	BaseHandler
	driverService *fleetapp.DriverService
}

// NewDriverHandler creates a new DriverHandler
func NewDriverHandler(base BaseHandler, driverService *fleetapp.DriverService) *DriverHandler {
	return &DriverHandler{BaseHandler: base, driverService: driverService}
}

// RegisterRoutes registers driver endpoints on the authenticated group
func (h *DriverHandler) RegisterRoutes(rg *gin.RouterGroup) {
	drivers := rg.Group("/drivers")
	{
		view := middleware.RequirePermission(identity.PermViewDrivers)
		manage := middleware.RequirePermission(identity.PermManageDrivers)

		drivers.GET("", view, h.List)
		drivers.GET("/:id", view, h.Get)
		drivers.POST("", manage, h.Create)
		drivers.PUT("/:id", manage, h.Update)
		drivers.DELETE("/:id", manage, h.Delete)
	}
}

// Create adds a driver to the caller's company
func (h *DriverHandler) Create(c *gin.Context) {
	companyID, ok := h.companyID(c)
	if !ok {
		return
	}
	var req fleetapp.CreateDriverRequest
	if !h.bindJSON(c, &req) {
		return
	}
	driver, err := h.driverService.Create(c.Request.Context(), companyID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, driver)
}

// Get returns a driver by ID
func (h *DriverHandler) Get(c *gin.Context) {
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	driver, err := h.driverService.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, driver)
}

// List returns the company's drivers
func (h *DriverHandler) List(c *gin.Context) {
	var filter fleetapp.DriverListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	result, err := h.driverService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, result.Drivers, result.Total, result.Page, result.PageSize)
}

// Update changes a driver
func (h *DriverHandler) Update(c *gin.Context) {
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	var req fleetapp.UpdateDriverRequest
	if !h.bindJSON(c, &req) {
		return
	}
	driver, err := h.driverService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, driver)
}

// Delete removes a driver
func (h *DriverHandler) Delete(c *gin.Context) {
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	if err := h.driverService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
