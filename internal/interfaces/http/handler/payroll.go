package handler

import (
	"github.com/gin-gonic/gin"

	billingapp "github.com/haulstack/tms/internal/application/billing"
	"github.com/haulstack/tms/internal/domain/identity"
	"github.com/haulstack/tms/internal/interfaces/http/middleware"
)

// PayrollHandler handles driver settlement endpoints
type PayrollHandler struct {
	BaseHandler
	payrollService *billingapp.PayrollService
}

// NewPayrollHandler creates a new PayrollHandler
func NewPayrollHandler(base BaseHandler, payrollService *billingapp.PayrollService) *PayrollHandler {
	return &PayrollHandler{BaseHandler: base, payrollService: payrollService}
}

// RegisterRoutes registers payroll endpoints on the authenticated group
func (h *PayrollHandler) RegisterRoutes(rg *gin.RouterGroup) {
	payroll := rg.Group("/payroll")
	{
		view := middleware.RequirePermission(identity.PermViewReports)
		manage := middleware.RequirePermission(identity.PermManageInvoices)

		payroll.GET("", view, h.List)
		payroll.GET("/:id", view, h.Get)
		payroll.POST("", manage, h.Create)
		payroll.POST("/:id/approve", manage, h.Approve)
		payroll.POST("/:id/pay", manage, h.MarkPaid)
		payroll.DELETE("/:id", manage, h.Delete)
	}
}

// Create computes a settlement for a driver over a pay period
func (h *PayrollHandler) Create(c *gin.Context) {
	companyID, ok := h.companyID(c)
	if !ok {
		return
	}
	var req billingapp.CreatePayrollRequest
	if !h.bindJSON(c, &req) {
		return
	}
	payroll, err := h.payrollService.Create(c.Request.Context(), companyID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, payroll)
}

// Get returns a settlement by ID
func (h *PayrollHandler) Get(c *gin.Context) {
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	payroll, err := h.payrollService.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, payroll)
}

// List returns settlements, optionally filtered by driver
func (h *PayrollHandler) List(c *gin.Context) {
	var filter billingapp.PayrollListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	result, err := h.payrollService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, result.Payrolls, result.Total, result.Page, result.PageSize)
}

// Approve locks a pending settlement
func (h *PayrollHandler) Approve(c *gin.Context) {
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	payroll, err := h.payrollService.Approve(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, payroll)
}

// MarkPaid records payment of an approved settlement
func (h *PayrollHandler) MarkPaid(c *gin.Context) {
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	payroll, err := h.payrollService.MarkPaid(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, payroll)
}

// Delete removes a pending settlement
func (h *PayrollHandler) Delete(c *gin.Context) {
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	if err := h.payrollService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
