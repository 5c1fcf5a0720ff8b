package fleet

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/haulstack/tms/internal/domain/shared"
)

// DriverStatus represents the employment status of a driver
type DriverStatus string

const (
	DriverStatusActive   DriverStatus = "active"
	DriverStatusInactive DriverStatus = "inactive"
	DriverStatusOnLeave  DriverStatus = "on_leave"
)

// PayType represents how a driver is compensated
type PayType string

const (
	PayTypePerMile    PayType = "per_mile"
	PayTypePercentage PayType = "percentage"
	PayTypeHourly     PayType = "hourly"
	PayTypeSalary     PayType = "salary"
)

// Driver represents a company driver. A driver may be assigned at most
// one truck at a time and may have a linked portal user account.
type Driver struct {
	shared.CompanyEntity
	FirstName        string
	LastName         string
	Email            string
	Phone            string
	LicenseNumber    string
	LicenseState     string
	LicenseExpiry    *time.Time
	MedicalCardExp   *time.Time
	HireDate         *time.Time
	Status           DriverStatus
	PayType          PayType
	PayRate          decimal.Decimal
	TruckID          *uuid.UUID
	EmergencyContact string
	EmergencyPhone   string
	Notes            string
}

// NewDriver creates an active driver
func NewDriver(companyID uuid.UUID, firstName, lastName string) (*Driver, error) {
	firstName = strings.TrimSpace(firstName)
	lastName = strings.TrimSpace(lastName)
	if firstName == "" || lastName == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Driver first and last name are required")
	}

	return &Driver{
		CompanyEntity: shared.NewCompanyEntity(companyID),
		FirstName:     firstName,
		LastName:      lastName,
		Status:        DriverStatusActive,
		PayType:       PayTypePerMile,
		PayRate:       decimal.Zero,
	}, nil
}

// FullName returns the driver's display name
func (d *Driver) FullName() string {
	return d.FirstName + " " + d.LastName
}

// SetPay configures the compensation model
func (d *Driver) SetPay(payType PayType, rate decimal.Decimal) error {
	switch payType {
	case PayTypePerMile, PayTypePercentage, PayTypeHourly, PayTypeSalary:
	default:
		return shared.NewDomainError("INVALID_INPUT", "Unknown pay type")
	}
	if rate.IsNegative() {
		return shared.NewDomainError("INVALID_INPUT", "Pay rate cannot be negative")
	}
	if payType == PayTypePercentage && rate.GreaterThan(decimal.NewFromInt(100)) {
		return shared.NewDomainError("INVALID_INPUT", "Percentage pay rate cannot exceed 100")
	}
	d.PayType = payType
	d.PayRate = rate
	d.Touch()
	return nil
}

// AssignTruck assigns the driver to a truck
func (d *Driver) AssignTruck(truckID uuid.UUID) {
	d.TruckID = &truckID
	d.Touch()
}

// UnassignTruck clears the truck assignment
func (d *Driver) UnassignTruck() {
	d.TruckID = nil
	d.Touch()
}

// SetStatus updates the employment status
func (d *Driver) SetStatus(status DriverStatus) error {
	switch status {
	case DriverStatusActive, DriverStatusInactive, DriverStatusOnLeave:
	default:
		return shared.NewDomainError("INVALID_INPUT", "Unknown driver status")
	}
	d.Status = status
	d.Touch()
	return nil
}

// Available reports whether the driver can be dispatched
func (d *Driver) Available() bool {
	return d.Status == DriverStatusActive
}

// LicenseExpired reports whether the CDL has lapsed
func (d *Driver) LicenseExpired(now time.Time) bool {
	return d.LicenseExpiry != nil && now.After(*d.LicenseExpiry)
}

// DriverRepository defines persistence operations for drivers
type DriverRepository interface {
	Save(ctx context.Context, driver *Driver) error
	Update(ctx context.Context, driver *Driver) error
	FindByID(ctx context.Context, id uuid.UUID) (*Driver, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]*Driver, int64, error)
	CountByCompany(ctx context.Context, companyID uuid.UUID) (int64, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
