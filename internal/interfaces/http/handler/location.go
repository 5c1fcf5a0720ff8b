package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	freightapp "github.com/haulstack/tms/internal/application/freight"
	"github.com/haulstack/tms/internal/domain/identity"
	"github.com/haulstack/tms/internal/interfaces/http/middleware"
)

// locationService is satisfied by both the shipper and receiver services
type locationService interface {
	Create(ctx context.Context, companyID uuid.UUID, req freightapp.CreateLocationRequest) (*freightapp.LocationResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*freightapp.LocationResponse, error)
	List(ctx context.Context, filter freightapp.LocationListFilter) (*freightapp.LocationListResult, error)
	Update(ctx context.Context, id uuid.UUID, req freightapp.UpdateLocationRequest) (*freightapp.LocationResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// LocationHandler serves one facility collection, either shippers or
// receivers, depending on the service and path it is built with.
type LocationHandler struct {
	BaseHandler
	service locationService
	path    string
}

// NewShipperHandler creates a handler for the shipper collection
func NewShipperHandler(base BaseHandler, service *freightapp.ShipperService) *LocationHandler {
	return &LocationHandler{BaseHandler: base, service: service, path: "/shippers"}
}

// NewReceiverHandler creates a handler for the receiver collection
func NewReceiverHandler(base BaseHandler, service *freightapp.ReceiverService) *LocationHandler {
	return &LocationHandler{BaseHandler: base, service: service, path: "/receivers"}
}

// RegisterRoutes registers facility endpoints on the authenticated group
func (h *LocationHandler) RegisterRoutes(rg *gin.RouterGroup) {
	group := rg.Group(h.path)
	{
		view := middleware.RequirePermission(identity.PermViewLoads)
		edit := middleware.RequirePermission(identity.PermEditLoads)

		group.GET("", view, h.List)
		group.GET("/:id", view, h.Get)
		group.POST("", edit, h.Create)
		group.PUT("/:id", edit, h.Update)
		group.DELETE("/:id", edit, h.Delete)
	}
}

// Create adds a facility to the caller's company
func (h *LocationHandler) Create(c *gin.Context) {
	companyID, ok := h.companyID(c)
	if !ok {
		return
	}
	var req freightapp.CreateLocationRequest
	if !h.bindJSON(c, &req) {
		return
	}
	location, err := h.service.Create(c.Request.Context(), companyID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, location)
}

// Get returns a facility by ID
func (h *LocationHandler) Get(c *gin.Context) {
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	location, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, location)
}

// List returns the company's facilities
func (h *LocationHandler) List(c *gin.Context) {
	var filter freightapp.LocationListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	result, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, result.Locations, result.Total, result.Page, result.PageSize)
}

// Update changes a facility
func (h *LocationHandler) Update(c *gin.Context) {
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	var req freightapp.UpdateLocationRequest
	if !h.bindJSON(c, &req) {
		return
	}
	location, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, location)
}

// Delete removes a facility
func (h *LocationHandler) Delete(c *gin.Context) {
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
