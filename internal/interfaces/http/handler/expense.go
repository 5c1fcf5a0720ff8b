package handler

import (
	"github.com/gin-gonic/gin"

	billingapp "github.com/haulstack/tms/internal/application/billing"
	"github.com/haulstack/tms/internal/domain/identity"
	"github.com/haulstack/tms/internal/interfaces/http/middleware"
)

// ExpenseHandler handles company expense endpoints
type ExpenseHandler struct {
	BaseHandler
	expenseService *billingapp.ExpenseService
}

// NewExpenseHandler creates a new ExpenseHandler
func NewExpenseHandler(base BaseHandler, expenseService *billingapp.ExpenseService) *ExpenseHandler {
	return &ExpenseHandler{BaseHandler: base, expenseService: expenseService}
}

// RegisterRoutes registers expense endpoints on the authenticated group
func (h *ExpenseHandler) RegisterRoutes(rg *gin.RouterGroup) {
	expenses := rg.Group("/expenses")
	{
		view := middleware.RequirePermission(identity.PermViewInvoices)
		manage := middleware.RequirePermission(identity.PermManageInvoices)

		expenses.GET("", view, h.List)
		expenses.GET("/summary",
			middleware.RequirePermission(identity.PermViewReports), h.Summarize)
		expenses.GET("/:id", view, h.Get)
		expenses.POST("", manage, h.Create)
		expenses.PUT("/:id", manage, h.Update)
		expenses.DELETE("/:id", manage, h.Delete)
	}
}

// Create records an expense
func (h *ExpenseHandler) Create(c *gin.Context) {
	companyID, ok := h.companyID(c)
	if !ok {
		return
	}
	var req billingapp.CreateExpenseRequest
	if !h.bindJSON(c, &req) {
		return
	}
	expense, err := h.expenseService.Create(c.Request.Context(), companyID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, expense)
}

// Get returns an expense by ID
func (h *ExpenseHandler) Get(c *gin.Context) {
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	expense, err := h.expenseService.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, expense)
}

// List returns the company's expenses
func (h *ExpenseHandler) List(c *gin.Context) {
	var filter billingapp.ExpenseListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	result, err := h.expenseService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, result.Expenses, result.Total, result.Page, result.PageSize)
}

// Summarize rolls expenses up by category over a time window
func (h *ExpenseHandler) Summarize(c *gin.Context) {
	companyID, ok := h.companyID(c)
	if !ok {
		return
	}
	var filter billingapp.ExpenseSummaryFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	summary, err := h.expenseService.Summarize(c.Request.Context(), companyID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, summary)
}

// Update changes an expense
func (h *ExpenseHandler) Update(c *gin.Context) {
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	var req billingapp.UpdateExpenseRequest
	if !h.bindJSON(c, &req) {
		return
	}
	expense, err := h.expenseService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, expense)
}

// Delete removes an expense
func (h *ExpenseHandler) Delete(c *gin.Context) {
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	if err := h.expenseService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
