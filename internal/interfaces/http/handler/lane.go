package handler

import (
	"github.com/gin-gonic/gin"

	freightapp "github.com/haulstack/tms/internal/application/freight"
	"github.com/haulstack/tms/internal/domain/identity"
	"github.com/haulstack/tms/internal/interfaces/http/middleware"
)

// LaneHandler handles saved lane endpoints
type LaneHandler struct {
	BaseHandler
	laneService *freightapp.LaneService
}

// NewLaneHandler creates a new LaneHandler
func NewLaneHandler(base BaseHandler, laneService *freightapp.LaneService) *LaneHandler {
	return &LaneHandler{BaseHandler: base, laneService: laneService}
}

// RegisterRoutes registers lane endpoints on the authenticated group
func (h *LaneHandler) RegisterRoutes(rg *gin.RouterGroup) {
	lanes := rg.Group("/lanes")
	{
		view := middleware.RequirePermission(identity.PermViewLoads)
		edit := middleware.RequirePermission(identity.PermEditLoads)

		lanes.GET("", view, h.List)
		lanes.GET("/:id", view, h.Get)
		lanes.POST("", edit, h.Create)
		lanes.PUT("/:id", edit, h.Update)
		lanes.DELETE("/:id", edit, h.Delete)
	}
}

// Create saves a lane for the caller's company
func (h *LaneHandler) Create(c *gin.Context) {
	companyID, ok := h.companyID(c)
	if !ok {
		return
	}
	var req freightapp.CreateLaneRequest
	if !h.bindJSON(c, &req) {
		return
	}
	lane, err := h.laneService.Create(c.Request.Context(), companyID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, lane)
}

// Get returns a lane by ID
func (h *LaneHandler) Get(c *gin.Context) {
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	lane, err := h.laneService.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, lane)
}

// List returns the company's saved lanes
func (h *LaneHandler) List(c *gin.Context) {
	var filter freightapp.LaneListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	result, err := h.laneService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, result.Lanes, result.Total, result.Page, result.PageSize)
}

// Update changes a lane
func (h *LaneHandler) Update(c *gin.Context) {
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	var req freightapp.UpdateLaneRequest
	if !h.bindJSON(c, &req) {
		return
	}
	lane, err := h.laneService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, lane)
}

// Delete removes a lane
func (h *LaneHandler) Delete(c *gin.Context) {
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	if err := h.laneService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
