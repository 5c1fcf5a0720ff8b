package notification

import (
	"github.com/google/uuid"

	"github.com/haulstack/tms/internal/infrastructure/notification"
)

// SendSMSRequest represents a request to send one SMS message
type SendSMSRequest struct {
	Phone   string `json:"phone" binding:"required,max=20"`
	Message string `json:"message" binding:"required,max=1600"`
}

// BulkRecipient is one entry in a bulk SMS request. Name replaces the
// {name} placeholder in the message template.
type BulkRecipient struct {
	Phone string `json:"phone" binding:"required,max=20"`
	Name  string `json:"name" binding:"max=100"`
}

// SendBulkSMSRequest represents a request to send a templated SMS to
// several recipients
type SendBulkSMSRequest struct {
	Recipients []BulkRecipient `json:"recipients" binding:"required,min=1,dive"`
	Message    string          `json:"message" binding:"required,max=1600"`
}

// LoadAssignmentRequest asks for the assignment notification for a load
// to be sent to its driver
type LoadAssignmentRequest struct {
	LoadID   uuid.UUID  `json:"load_id" binding:"required"`
	DriverID *uuid.UUID `json:"driver_id"` // defaults to the load's assigned driver
}

// LoadUpdateRequest asks for a status update message for a load to be
// sent to its driver
type LoadUpdateRequest struct {
	LoadID  uuid.UUID `json:"load_id" binding:"required"`
	Message string    `json:"message" binding:"required,max=1600"`
}

// SMSResponse reports one delivery attempt
type SMSResponse struct {
	Result notification.SMSResult `json:"result"`
}

// BulkSMSResponse reports a bulk delivery, recipient by recipient
type BulkSMSResponse struct {
	Total      int                      `json:"total"`
	Successful int                      `json:"successful"`
	Failed     int                      `json:"failed"`
	Results    []notification.SMSResult `json:"results"`
}
