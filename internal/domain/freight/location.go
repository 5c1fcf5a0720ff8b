package freight

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/haulstack/tms/internal/domain/shared"
)

// Shipper is an address book entry for a pickup facility
type Shipper struct {
	shared.CompanyEntity
	Name        string
	Address     string
	City        string
	State       string
	ZipCode     string
	ContactName string
	Phone       string
	Email       string
	Hours       string
	Notes       string
}

// NewShipper creates a shipper entry
func NewShipper(companyID uuid.UUID, name string) (*Shipper, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Shipper name is required")
	}
	return &Shipper{
		CompanyEntity: shared.NewCompanyEntity(companyID),
		Name:          name,
	}, nil
}

// Receiver is an address book entry for a delivery facility
type Receiver struct {
	shared.CompanyEntity
	Name        string
	Address     string
	City        string
	State       string
	ZipCode     string
	ContactName string
	Phone       string
	Email       string
	Hours       string
	Notes       string
}

// NewReceiver creates a receiver entry
func NewReceiver(companyID uuid.UUID, name string) (*Receiver, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Receiver name is required")
	}
	return &Receiver{
		CompanyEntity: shared.NewCompanyEntity(companyID),
		Name:          name,
	}, nil
}

// ShipperRepository defines persistence operations for shippers
type ShipperRepository interface {
	Save(ctx context.Context, shipper *Shipper) error
	Update(ctx context.Context, shipper *Shipper) error
	FindByID(ctx context.Context, id uuid.UUID) (*Shipper, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]*Shipper, int64, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// ReceiverRepository defines persistence operations for receivers
type ReceiverRepository interface {
	Save(ctx context.Context, receiver *Receiver) error
	Update(ctx context.Context, receiver *Receiver) error
	FindByID(ctx context.Context, id uuid.UUID) (*Receiver, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]*Receiver, int64, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
