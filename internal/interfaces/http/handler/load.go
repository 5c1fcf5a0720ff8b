package handler

import (
	"github.com/gin-gonic/gin"

	freightapp "github.com/haulstack/tms/internal/application/freight"
	"github.com/haulstack/tms/internal/domain/identity"
	"github.com/haulstack/tms/internal/interfaces/http/middleware"
)

// LoadHandler handles load endpoints including assignment and lifecycle
type LoadHandler struct {
	BaseHandler
	loadService *freightapp.LoadService
}

// NewLoadHandler creates a new LoadHandler
func NewLoadHandler(base BaseHandler, loadService *freightapp.LoadService) *LoadHandler {
	return &LoadHandler{BaseHandler: base, loadService: loadService}
}

// RegisterRoutes registers load endpoints on the authenticated group
func (h *LoadHandler) RegisterRoutes(rg *gin.RouterGroup) {
	loads := rg.Group("/loads")
	{
		view := middleware.RequirePermission(identity.PermViewLoads)
		create := middleware.RequirePermission(identity.PermCreateLoads)
		edit := middleware.RequirePermission(identity.PermEditLoads)

		loads.GET("", view, h.List)
		loads.GET("/:id", view, h.Get)
		loads.POST("", create, h.Create)
		loads.PUT("/:id", edit, h.Update)
		loads.POST("/:id/assign", edit, h.Assign)
		loads.POST("/:id/status", edit, h.UpdateStatus)
		loads.DELETE("/:id", middleware.RequirePermission(identity.PermDeleteLoads), h.Delete)
	}
}

// Create adds a load with its stops
func (h *LoadHandler) Create(c *gin.Context) {
	companyID, ok := h.companyID(c)
	if !ok {
		return
	}
	var req freightapp.CreateLoadRequest
	if !h.bindJSON(c, &req) {
		return
	}
	load, err := h.loadService.Create(c.Request.Context(), companyID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, load)
}

// Get returns a load by ID
func (h *LoadHandler) Get(c *gin.Context) {
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	load, err := h.loadService.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, load)
}

// List returns loads, optionally filtered by status
func (h *LoadHandler) List(c *gin.Context) {
	var filter freightapp.LoadListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	result, err := h.loadService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, result.Loads, result.Total, result.Page, result.PageSize)
}

// Update changes a load and replaces its stops when provided
func (h *LoadHandler) Update(c *gin.Context) {
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	var req freightapp.UpdateLoadRequest
	if !h.bindJSON(c, &req) {
		return
	}
	load, err := h.loadService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, load)
}

// Assign puts a driver and truck on a load
func (h *LoadHandler) Assign(c *gin.Context) {
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	var req freightapp.AssignLoadRequest
	if !h.bindJSON(c, &req) {
		return
	}
	load, err := h.loadService.Assign(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, load)
}

// UpdateStatus advances a load through its lifecycle
func (h *LoadHandler) UpdateStatus(c *gin.Context) {
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	var req freightapp.UpdateLoadStatusRequest
	if !h.bindJSON(c, &req) {
		return
	}
	load, err := h.loadService.UpdateStatus(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, load)
}

// Delete removes a load
func (h *LoadHandler) Delete(c *gin.Context) {
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	if err := h.loadService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
