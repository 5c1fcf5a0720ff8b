package billing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/haulstack/tms/internal/domain/shared"
)

// PayrollStatus represents the approval state of a settlement
type PayrollStatus string

const (
	PayrollStatusPending  PayrollStatus = "pending"
	PayrollStatusApproved PayrollStatus = "approved"
	PayrollStatusPaid     PayrollStatus = "paid"
)

// Payroll is a driver settlement for a pay period. Gross pay is computed
// from the driver's pay model over the period's delivered loads;
// deductions (advances, escrow) come off before the check amount.
type Payroll struct {
	shared.CompanyEntity
	DriverID    uuid.UUID
	PeriodStart time.Time
	PeriodEnd   time.Time
	TotalLoads  int
	TotalMiles  int
	GrossPay    decimal.Decimal
	Deductions  decimal.Decimal
	CheckAmount decimal.Decimal
	Status      PayrollStatus
	PaidAt      *time.Time
	Notes       string
}

// NewPayroll opens a pending settlement for a driver and period
func NewPayroll(companyID, driverID uuid.UUID, periodStart, periodEnd time.Time) (*Payroll, error) {
	if driverID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "Driver is required")
	}
	if !periodEnd.After(periodStart) {
		return nil, shared.NewDomainError("INVALID_INPUT", "Period end must follow period start")
	}

	return &Payroll{
		CompanyEntity: shared.NewCompanyEntity(companyID),
		DriverID:      driverID,
		PeriodStart:   periodStart,
		PeriodEnd:     periodEnd,
		GrossPay:      decimal.Zero,
		Deductions:    decimal.Zero,
		CheckAmount:   decimal.Zero,
		Status:        PayrollStatusPending,
	}, nil
}

// SetEarnings records the computed totals for the period
func (p *Payroll) SetEarnings(totalLoads, totalMiles int, grossPay decimal.Decimal) error {
	if p.Status != PayrollStatusPending {
		return shared.ErrInvalidState
	}
	if totalLoads < 0 || totalMiles < 0 || grossPay.IsNegative() {
		return shared.NewDomainError("INVALID_INPUT", "Earnings cannot be negative")
	}
	p.TotalLoads = totalLoads
	p.TotalMiles = totalMiles
	p.GrossPay = grossPay
	p.CheckAmount = grossPay.Sub(p.Deductions)
	p.Touch()
	return nil
}

// SetDeductions records deductions; the check amount never goes negative
func (p *Payroll) SetDeductions(deductions decimal.Decimal) error {
	if p.Status != PayrollStatusPending {
		return shared.ErrInvalidState
	}
	if deductions.IsNegative() {
		return shared.NewDomainError("INVALID_INPUT", "Deductions cannot be negative")
	}
	if deductions.GreaterThan(p.GrossPay) {
		return shared.NewDomainError("INVALID_INPUT", "Deductions cannot exceed gross pay")
	}
	p.Deductions = deductions
	p.CheckAmount = p.GrossPay.Sub(deductions)
	p.Touch()
	return nil
}

// RatePerMile computes earned revenue per mile for the period
func (p *Payroll) RatePerMile() decimal.Decimal {
	if p.TotalMiles <= 0 {
		return decimal.Zero
	}
	return p.GrossPay.DivRound(decimal.NewFromInt(int64(p.TotalMiles)), 2)
}

// Approve locks the settlement for payment
func (p *Payroll) Approve() error {
	if p.Status != PayrollStatusPending {
		return shared.ErrInvalidState
	}
	p.Status = PayrollStatusApproved
	p.Touch()
	return nil
}

// MarkPaid records the payment date
func (p *Payroll) MarkPaid(at time.Time) error {
	if p.Status != PayrollStatusApproved {
		return shared.ErrInvalidState
	}
	p.Status = PayrollStatusPaid
	p.PaidAt = &at
	p.Touch()
	return nil
}

// PayrollRepository defines persistence operations for settlements
type PayrollRepository interface {
	Save(ctx context.Context, payroll *Payroll) error
	Update(ctx context.Context, payroll *Payroll) error
	FindByID(ctx context.Context, id uuid.UUID) (*Payroll, error)
	FindByDriver(ctx context.Context, driverID uuid.UUID, filter shared.Filter) ([]*Payroll, int64, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]*Payroll, int64, error)
	ExistsForPeriod(ctx context.Context, driverID uuid.UUID, periodStart, periodEnd time.Time) (bool, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
