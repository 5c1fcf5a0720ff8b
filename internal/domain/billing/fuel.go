package billing

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/haulstack/tms/internal/domain/shared"
)

// FuelEntry records a fuel purchase. The state code feeds IFTA mileage
// reporting, so it is required and normalized to two letters.
type FuelEntry struct {
	shared.CompanyEntity
	DriverID       *uuid.UUID
	TruckID        *uuid.UUID
	PurchasedAt    time.Time
	Gallons        decimal.Decimal
	PricePerGallon decimal.Decimal
	Total          decimal.Decimal
	Location       string
	State          string
	Odometer       int64
	ReceiptKey     string
}

// NewFuelEntry records a fuel purchase; total is derived from gallons and price
func NewFuelEntry(companyID uuid.UUID, purchasedAt time.Time, gallons, pricePerGallon decimal.Decimal, state string) (*FuelEntry, error) {
	if gallons.IsNegative() || gallons.IsZero() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Gallons must be positive")
	}
	if pricePerGallon.IsNegative() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Price per gallon cannot be negative")
	}
	state = strings.ToUpper(strings.TrimSpace(state))
	if len(state) != 2 {
		return nil, shared.NewDomainError("INVALID_INPUT", "State must be a two-letter code")
	}

	return &FuelEntry{
		CompanyEntity:  shared.NewCompanyEntity(companyID),
		PurchasedAt:    purchasedAt,
		Gallons:        gallons,
		PricePerGallon: pricePerGallon,
		Total:          gallons.Mul(pricePerGallon).Round(2),
		State:          state,
	}, nil
}

// AssignTo ties the purchase to a driver and truck
func (f *FuelEntry) AssignTo(driverID, truckID uuid.UUID) {
	f.DriverID = &driverID
	f.TruckID = &truckID
	f.Touch()
}

// FuelRepository defines persistence operations for fuel entries
type FuelRepository interface {
	Save(ctx context.Context, entry *FuelEntry) error
	Update(ctx context.Context, entry *FuelEntry) error
	FindByID(ctx context.Context, id uuid.UUID) (*FuelEntry, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]*FuelEntry, int64, error)
	SumByState(ctx context.Context, companyID uuid.UUID, from, to time.Time) (map[string]decimal.Decimal, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
