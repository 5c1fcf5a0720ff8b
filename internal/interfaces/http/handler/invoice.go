package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	billingapp "github.com/haulstack/tms/internal/application/billing"
	"github.com/haulstack/tms/internal/domain/identity"
	"github.com/haulstack/tms/internal/interfaces/http/middleware"
)

// InvoiceHandler handles invoice endpoints including PDF generation
type InvoiceHandler struct {
	BaseHandler
	invoiceService *billingapp.InvoiceService
}

// NewInvoiceHandler creates a new InvoiceHandler
func NewInvoiceHandler(base BaseHandler, invoiceService *billingapp.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{BaseHandler: base, invoiceService: invoiceService}
}

// RegisterRoutes registers invoice endpoints on the authenticated group
func (h *InvoiceHandler) RegisterRoutes(rg *gin.RouterGroup) {
	invoices := rg.Group("/invoices")
	{
		view := middleware.RequirePermission(identity.PermViewInvoices)
		manage := middleware.RequirePermission(identity.PermManageInvoices)

		invoices.GET("", view, h.List)
		invoices.GET("/overdue", view, h.ListOverdue)
		invoices.GET("/:id", view, h.Get)
		invoices.GET("/:id/pdf", view, h.GetPDF)
		invoices.POST("", manage, h.Create)
		invoices.POST("/:id/send", manage, h.Send)
		invoices.POST("/:id/pay", manage, h.MarkPaid)
		invoices.POST("/:id/void", manage, h.Void)
		invoices.DELETE("/:id", manage, h.Delete)
	}
}

// Create issues a draft invoice for a delivered load
func (h *InvoiceHandler) Create(c *gin.Context) {
	companyID, ok := h.companyID(c)
	if !ok {
		return
	}
	var req billingapp.CreateInvoiceRequest
	if !h.bindJSON(c, &req) {
		return
	}
	invoice, err := h.invoiceService.Create(c.Request.Context(), companyID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, invoice)
}

// Get returns an invoice by ID
func (h *InvoiceHandler) Get(c *gin.Context) {
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	invoice, err := h.invoiceService.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, invoice)
}

// List returns the company's invoices
func (h *InvoiceHandler) List(c *gin.Context) {
	var filter billingapp.InvoiceListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	result, err := h.invoiceService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, result.Invoices, result.Total, result.Page, result.PageSize)
}

// ListOverdue returns sent invoices past their due date
func (h *InvoiceHandler) ListOverdue(c *gin.Context) {
	companyID, ok := h.companyID(c)
	if !ok {
		return
	}
	invoices, err := h.invoiceService.ListOverdue(c.Request.Context(), companyID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, invoices)
}

// Send marks a draft invoice as sent and stamps its due date
func (h *InvoiceHandler) Send(c *gin.Context) {
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	var req billingapp.SendInvoiceRequest
	if !h.bindJSON(c, &req) {
		return
	}
	invoice, err := h.invoiceService.Send(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, invoice)
}

// MarkPaid records payment of a sent invoice
func (h *InvoiceHandler) MarkPaid(c *gin.Context) {
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	invoice, err := h.invoiceService.MarkPaid(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, invoice)
}

// Void cancels an unpaid invoice
func (h *InvoiceHandler) Void(c *gin.Context) {
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	invoice, err := h.invoiceService.Void(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, invoice)
}

// GetPDF renders the invoice as a PDF and streams it back
func (h *InvoiceHandler) GetPDF(c *gin.Context) {
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	result, err := h.invoiceService.GeneratePDF(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.Header("Content-Disposition", `inline; filename="invoice.pdf"`)
	c.Data(http.StatusOK, result.ContentType, result.Data)
}

// Delete removes a draft invoice
func (h *InvoiceHandler) Delete(c *gin.Context) {
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	if err := h.invoiceService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
