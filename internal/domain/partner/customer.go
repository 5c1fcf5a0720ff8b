package partner

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/haulstack/tms/internal/domain/shared"
)

// Customer represents a freight customer (broker or direct shipper) the
// company hauls for. Customer portal user accounts link back to one of
// these records.
type Customer struct {
	shared.CompanyEntity
	Name        string
	ContactName string
	Email       string
	Phone       string
	Address     string
	City        string
	State       string
	ZipCode     string
	MCNumber    string
	PaymentTerm int // net days, 0 means unset
	Notes       string
	Active      bool
}

// NewCustomer creates an active customer for the company
func NewCustomer(companyID uuid.UUID, name string) (*Customer, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Customer name is required")
	}
	if len(name) > 200 {
		return nil, shared.NewDomainError("INVALID_NAME", "Customer name cannot exceed 200 characters")
	}

	return &Customer{
		CompanyEntity: shared.NewCompanyEntity(companyID),
		Name:          name,
		Active:        true,
	}, nil
}

// SetContact updates the contact fields
func (c *Customer) SetContact(contactName, email, phone string) {
	c.ContactName = strings.TrimSpace(contactName)
	c.Email = strings.ToLower(strings.TrimSpace(email))
	c.Phone = strings.TrimSpace(phone)
	c.Touch()
}

// SetPaymentTerm sets the invoice net term in days
func (c *Customer) SetPaymentTerm(days int) error {
	if days < 0 || days > 365 {
		return shared.NewDomainError("INVALID_INPUT", "Payment term must be between 0 and 365 days")
	}
	c.PaymentTerm = days
	c.Touch()
	return nil
}

// Deactivate hides the customer from active pickers without deleting history
func (c *Customer) Deactivate() {
	c.Active = false
	c.Touch()
}

// CustomerRepository defines persistence operations for customers
type CustomerRepository interface {
	Save(ctx context.Context, customer *Customer) error
	Update(ctx context.Context, customer *Customer) error
	FindByID(ctx context.Context, id uuid.UUID) (*Customer, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]*Customer, int64, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
