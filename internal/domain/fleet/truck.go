package fleet

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/haulstack/tms/internal/domain/shared"
)

// TruckStatus represents the operational status of a truck
type TruckStatus string

const (
	TruckStatusActive      TruckStatus = "active"
	TruckStatusMaintenance TruckStatus = "maintenance"
	TruckStatusInactive    TruckStatus = "inactive"
)

// Ownership represents how the company holds the truck
type Ownership string

const (
	OwnershipOwned         Ownership = "owned"
	OwnershipLeased        Ownership = "leased"
	OwnershipOwnerOperator Ownership = "owner_operator"
)

// Truck represents a power unit in the company fleet
type Truck struct {
	shared.CompanyEntity
	TruckNumber      string
	Make             string
	Model            string
	Year             int
	VIN              string
	LicensePlate     string
	PlateState       string
	Status           TruckStatus
	Ownership        Ownership
	RegistrationExp  *time.Time
	InspectionExp    *time.Time
	InsuranceExp     *time.Time
	CurrentMileage   int64
	Notes            string
}

// NewTruck creates an active truck
func NewTruck(companyID uuid.UUID, truckNumber string) (*Truck, error) {
	truckNumber = strings.TrimSpace(truckNumber)
	if truckNumber == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Truck number is required")
	}

	return &Truck{
		CompanyEntity: shared.NewCompanyEntity(companyID),
		TruckNumber:   truckNumber,
		Status:        TruckStatusActive,
		Ownership:     OwnershipOwned,
	}, nil
}

// SetStatus updates the operational status
func (t *Truck) SetStatus(status TruckStatus) error {
	switch status {
	case TruckStatusActive, TruckStatusMaintenance, TruckStatusInactive:
	default:
		return shared.NewDomainError("INVALID_INPUT", "Unknown truck status")
	}
	t.Status = status
	t.Touch()
	return nil
}

// SetOwnership updates the ownership model
func (t *Truck) SetOwnership(ownership Ownership) error {
	switch ownership {
	case OwnershipOwned, OwnershipLeased, OwnershipOwnerOperator:
	default:
		return shared.NewDomainError("INVALID_INPUT", "Unknown ownership type")
	}
	t.Ownership = ownership
	t.Touch()
	return nil
}

// RecordMileage stores the current odometer reading
func (t *Truck) RecordMileage(miles int64) error {
	if miles < 0 {
		return shared.NewDomainError("INVALID_INPUT", "Mileage cannot be negative")
	}
	if miles < t.CurrentMileage {
		return shared.NewDomainError("INVALID_INPUT", "Mileage cannot decrease")
	}
	t.CurrentMileage = miles
	t.Touch()
	return nil
}

// Available reports whether the truck can be dispatched
func (t *Truck) Available() bool {
	return t.Status == TruckStatusActive
}

// TruckRepository defines persistence operations for trucks
type TruckRepository interface {
	Save(ctx context.Context, truck *Truck) error
	Update(ctx context.Context, truck *Truck) error
	FindByID(ctx context.Context, id uuid.UUID) (*Truck, error)
	FindByNumber(ctx context.Context, companyID uuid.UUID, truckNumber string) (*Truck, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]*Truck, int64, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
