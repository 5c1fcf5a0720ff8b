package freight

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/haulstack/tms/internal/domain/shared"
)

// LoadStatus represents where a load sits in its dispatch lifecycle
type LoadStatus string

const (
	LoadStatusPending   LoadStatus = "pending"
	LoadStatusAssigned  LoadStatus = "assigned"
	LoadStatusInTransit LoadStatus = "in_transit"
	LoadStatusDelivered LoadStatus = "delivered"
	LoadStatusCancelled LoadStatus = "cancelled"
)

// EquipmentType represents the trailer type a load requires
type EquipmentType string

const (
	EquipmentDryVan    EquipmentType = "dry_van"
	EquipmentReefer    EquipmentType = "reefer"
	EquipmentFlatbed   EquipmentType = "flatbed"
	EquipmentStepDeck  EquipmentType = "step_deck"
	EquipmentPowerOnly EquipmentType = "power_only"
)

// Load is the central freight record: a shipment hauled for a customer,
// dispatched to a driver and truck, billed through an invoice.
type Load struct {
	shared.CompanyEntity
	LoadNumber    string
	CustomerID    uuid.UUID
	DriverID      *uuid.UUID
	TruckID       *uuid.UUID
	Status        LoadStatus
	Rate          decimal.Decimal
	FuelSurcharge decimal.Decimal
	Accessorial   decimal.Decimal
	Miles         int
	Weight        int
	Commodity     string
	Equipment     EquipmentType
	ReferenceNum  string
	OriginCity    string
	OriginState   string
	DestCity      string
	DestState     string
	PickupDate    *time.Time
	DeliveryDate  *time.Time
	DeliveredAt   *time.Time
	PODKey        string
	RateconKey    string
	Notes         string
	Stops         []*Stop
}

// NewLoad creates a pending load for a customer
func NewLoad(companyID, customerID uuid.UUID, loadNumber string, rate decimal.Decimal) (*Load, error) {
	loadNumber = strings.TrimSpace(loadNumber)
	if loadNumber == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Load number is required")
	}
	if rate.IsNegative() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Rate cannot be negative")
	}
	if customerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "Customer is required")
	}

	return &Load{
		CompanyEntity: shared.NewCompanyEntity(companyID),
		LoadNumber:    loadNumber,
		CustomerID:    customerID,
		Status:        LoadStatusPending,
		Rate:          rate,
	}, nil
}

// Assign dispatches the load to a driver and truck.
// Only pending loads can be assigned; reassignment stays in assigned.
func (l *Load) Assign(driverID, truckID uuid.UUID) error {
	if l.Status != LoadStatusPending && l.Status != LoadStatusAssigned {
		return shared.ErrInvalidState
	}
	if driverID == uuid.Nil || truckID == uuid.Nil {
		return shared.NewDomainError("INVALID_INPUT", "Driver and truck are required for assignment")
	}
	l.DriverID = &driverID
	l.TruckID = &truckID
	l.Status = LoadStatusAssigned
	l.Touch()
	return nil
}

// StartTransit marks the load picked up
func (l *Load) StartTransit() error {
	if l.Status != LoadStatusAssigned {
		return shared.ErrInvalidState
	}
	l.Status = LoadStatusInTransit
	l.Touch()
	return nil
}

// MarkDelivered completes the load
func (l *Load) MarkDelivered(at time.Time) error {
	if l.Status != LoadStatusInTransit {
		return shared.ErrInvalidState
	}
	l.Status = LoadStatusDelivered
	l.DeliveredAt = &at
	l.Touch()
	return nil
}

// Cancel aborts a load that has not left the yard
func (l *Load) Cancel() error {
	if l.Status != LoadStatusPending && l.Status != LoadStatusAssigned {
		return shared.ErrInvalidState
	}
	l.Status = LoadStatusCancelled
	l.DriverID = nil
	l.TruckID = nil
	l.Touch()
	return nil
}

// Billable reports whether the load can be invoiced
func (l *Load) Billable() bool {
	return l.Status == LoadStatusDelivered
}

// RatePerMile computes revenue per mile, zero when miles are unknown
func (l *Load) RatePerMile() decimal.Decimal {
	if l.Miles <= 0 {
		return decimal.Zero
	}
	return l.Rate.DivRound(decimal.NewFromInt(int64(l.Miles)), 2)
}

// TotalAmount is the billable amount: line haul plus surcharges
func (l *Load) TotalAmount() decimal.Decimal {
	return l.Rate.Add(l.FuelSurcharge).Add(l.Accessorial)
}

// AttachPOD stores the proof-of-delivery document key
func (l *Load) AttachPOD(key string) {
	l.PODKey = key
	l.Touch()
}

// AttachRatecon stores the rate confirmation document key
func (l *Load) AttachRatecon(key string) {
	l.RateconKey = key
	l.Touch()
}

// AddStop appends a stop, keeping sequence numbers dense
func (l *Load) AddStop(stop *Stop) {
	stop.Sequence = len(l.Stops) + 1
	l.Stops = append(l.Stops, stop)
	l.Touch()
}

// LoadRepository defines persistence operations for loads
type LoadRepository interface {
	Save(ctx context.Context, load *Load) error
	Update(ctx context.Context, load *Load) error
	FindByID(ctx context.Context, id uuid.UUID) (*Load, error)
	FindByNumber(ctx context.Context, companyID uuid.UUID, loadNumber string) (*Load, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]*Load, int64, error)
	FindByStatus(ctx context.Context, status LoadStatus, filter shared.Filter) ([]*Load, int64, error)
	FindDeliveredByDriver(ctx context.Context, driverID uuid.UUID, from, to time.Time) ([]*Load, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
