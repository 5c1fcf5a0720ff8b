package billing

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/haulstack/tms/internal/domain/shared"
)

// InvoiceStatus represents where an invoice sits in its collection cycle
type InvoiceStatus string

const (
	InvoiceStatusDraft InvoiceStatus = "draft"
	InvoiceStatusSent  InvoiceStatus = "sent"
	InvoiceStatusPaid  InvoiceStatus = "paid"
	InvoiceStatusVoid  InvoiceStatus = "void"
)

// Invoice bills a customer for a delivered load. Access control follows
// the parent load: a customer portal account sees an invoice only when
// it can see the load behind it.
type Invoice struct {
	shared.CompanyEntity
	InvoiceNumber string
	LoadID        uuid.UUID
	CustomerID    uuid.UUID
	Amount        decimal.Decimal
	Status        InvoiceStatus
	IssuedAt      *time.Time
	DueAt         *time.Time
	PaidAt        *time.Time
	DocumentKey   string // storage key of the rendered PDF, empty until generated
	Notes         string
}

// NewInvoice creates a draft invoice for a load
func NewInvoice(companyID, loadID, customerID uuid.UUID, invoiceNumber string, amount decimal.Decimal) (*Invoice, error) {
	invoiceNumber = strings.TrimSpace(invoiceNumber)
	if invoiceNumber == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Invoice number is required")
	}
	if amount.IsNegative() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Invoice amount cannot be negative")
	}
	if loadID == uuid.Nil || customerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "Load and customer are required")
	}

	return &Invoice{
		CompanyEntity: shared.NewCompanyEntity(companyID),
		InvoiceNumber: invoiceNumber,
		LoadID:        loadID,
		CustomerID:    customerID,
		Amount:        amount,
		Status:        InvoiceStatusDraft,
	}, nil
}

// Send issues the invoice with a net payment term
func (i *Invoice) Send(issuedAt time.Time, netDays int) error {
	if i.Status != InvoiceStatusDraft {
		return shared.ErrInvalidState
	}
	if netDays < 0 {
		return shared.NewDomainError("INVALID_INPUT", "Net days cannot be negative")
	}
	due := issuedAt.AddDate(0, 0, netDays)
	i.Status = InvoiceStatusSent
	i.IssuedAt = &issuedAt
	i.DueAt = &due
	i.Touch()
	return nil
}

// MarkPaid records payment
func (i *Invoice) MarkPaid(at time.Time) error {
	if i.Status != InvoiceStatusSent {
		return shared.ErrInvalidState
	}
	i.Status = InvoiceStatusPaid
	i.PaidAt = &at
	i.Touch()
	return nil
}

// Void cancels an unpaid invoice
func (i *Invoice) Void() error {
	if i.Status == InvoiceStatusPaid {
		return shared.ErrInvalidState
	}
	i.Status = InvoiceStatusVoid
	i.Touch()
	return nil
}

// AttachDocument records the storage key of the rendered PDF
func (i *Invoice) AttachDocument(key string) error {
	if key == "" {
		return shared.NewDomainError("INVALID_INPUT", "Document key is required")
	}
	i.DocumentKey = key
	i.Touch()
	return nil
}

// Overdue reports whether a sent invoice has passed its due date
func (i *Invoice) Overdue(now time.Time) bool {
	return i.Status == InvoiceStatusSent && i.DueAt != nil && now.After(*i.DueAt)
}

// InvoiceRepository defines persistence operations for invoices
type InvoiceRepository interface {
	Save(ctx context.Context, invoice *Invoice) error
	Update(ctx context.Context, invoice *Invoice) error
	FindByID(ctx context.Context, id uuid.UUID) (*Invoice, error)
	FindByLoad(ctx context.Context, loadID uuid.UUID) (*Invoice, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]*Invoice, int64, error)
	FindOverdue(ctx context.Context, companyID uuid.UUID, asOf time.Time) ([]*Invoice, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
