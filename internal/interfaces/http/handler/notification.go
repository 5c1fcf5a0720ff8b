package handler

import (
	"github.com/gin-gonic/gin"

	notificationapp "github.com/haulstack/tms/internal/application/notification"
	"github.com/haulstack/tms/internal/domain/identity"
	"github.com/haulstack/tms/internal/interfaces/http/middleware"
)

// NotificationHandler handles outbound SMS endpoints
type NotificationHandler struct {
	BaseHandler
	notificationService *notificationapp.Service
}

// NewNotificationHandler creates a new NotificationHandler
func NewNotificationHandler(base BaseHandler, service *notificationapp.Service) *NotificationHandler {
	return &NotificationHandler{BaseHandler: base, notificationService: service}
}

// RegisterRoutes registers notification endpoints on the authenticated group
func (h *NotificationHandler) RegisterRoutes(rg *gin.RouterGroup) {
	notifications := rg.Group("/notifications",
		middleware.RequirePermission(identity.PermEditLoads))
	{
		notifications.POST("/sms/send", h.SendSMS)
		notifications.POST("/sms/bulk", h.SendBulkSMS)
		notifications.POST("/loads/assignment", h.SendLoadAssignment)
		notifications.POST("/loads/update", h.SendLoadUpdate)
	}
}

// SendSMS sends a single text message
func (h *NotificationHandler) SendSMS(c *gin.Context) {
	var req notificationapp.SendSMSRequest
	if !h.bindJSON(c, &req) {
		return
	}
	result, err := h.notificationService.SendSMS(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// SendBulkSMS sends a templated message to multiple recipients
func (h *NotificationHandler) SendBulkSMS(c *gin.Context) {
	var req notificationapp.SendBulkSMSRequest
	if !h.bindJSON(c, &req) {
		return
	}
	result, err := h.notificationService.SendBulkSMS(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// SendLoadAssignment texts a driver their load assignment details
func (h *NotificationHandler) SendLoadAssignment(c *gin.Context) {
	var req notificationapp.LoadAssignmentRequest
	if !h.bindJSON(c, &req) {
		return
	}
	result, err := h.notificationService.SendLoadAssignment(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// SendLoadUpdate texts the assigned driver an update about their load
func (h *NotificationHandler) SendLoadUpdate(c *gin.Context) {
	var req notificationapp.LoadUpdateRequest
	if !h.bindJSON(c, &req) {
		return
	}
	result, err := h.notificationService.SendLoadUpdate(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}
