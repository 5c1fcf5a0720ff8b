package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	identityapp "github.com/haulstack/tms/internal/application/identity"
	"github.com/haulstack/tms/internal/domain/identity"
	"github.com/haulstack/tms/internal/interfaces/http/dto"
	"github.com/haulstack/tms/internal/interfaces/http/middleware"
)

// CompanyHandler handles company profile endpoints
type CompanyHandler struct {
	BaseHandler
	companyService *identityapp.CompanyService
}

// NewCompanyHandler creates a new CompanyHandler
func NewCompanyHandler(base BaseHandler, companyService *identityapp.CompanyService) *CompanyHandler {
	return &CompanyHandler{BaseHandler: base, companyService: companyService}
}

// RegisterRoutes registers company endpoints on the authenticated group
func (h *CompanyHandler) RegisterRoutes(rg *gin.RouterGroup) {
	companies := rg.Group("/companies")
	{
		companies.GET("", h.List)
		companies.GET("/me", h.Get)
		companies.PUT("/me", middleware.RequirePermission(identity.PermManageCompany), h.Update)
	}
}

// Get returns the caller's company
func (h *CompanyHandler) Get(c *gin.Context) {
	companyID, ok := h.companyID(c)
	if !ok {
		return
	}
	company, err := h.companyService.Get(c.Request.Context(), companyID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, company)
}

// Update changes the caller's company profile
func (h *CompanyHandler) Update(c *gin.Context) {
	companyID, ok := h.companyID(c)
	if !ok {
		return
	}
	var req identityapp.UpdateCompanyRequest
	if !h.bindJSON(c, &req) {
		return
	}
	company, err := h.companyService.Update(c.Request.Context(), companyID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, company)
}

// List returns all companies. Platform operators only.
func (h *CompanyHandler) List(c *gin.Context) {
	sctx := h.securityContext(c)
	if sctx == nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	if !sctx.Privileged() {
		h.Error(c, http.StatusForbidden, dto.ErrCodeForbidden, "Platform operators only")
		return
	}
	var filter identityapp.CompanyListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	result, err := h.companyService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, result.Companies, result.Total, result.Page, result.PageSize)
}
