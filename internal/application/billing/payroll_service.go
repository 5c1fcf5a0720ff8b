package billing

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/haulstack/tms/internal/domain/billing"
	"github.com/haulstack/tms/internal/domain/fleet"
	"github.com/haulstack/tms/internal/domain/freight"
	"github.com/haulstack/tms/internal/domain/shared"
)

// PayrollService computes and manages driver settlements
type PayrollService struct {
	payrollRepo billing.PayrollRepository
	driverRepo  fleet.DriverRepository
	loadRepo    freight.LoadRepository
	logger      *zap.Logger
}

// NewPayrollService creates a new payroll service
func NewPayrollService(
	payrollRepo billing.PayrollRepository,
	driverRepo fleet.DriverRepository,
	loadRepo freight.LoadRepository,
	logger *zap.Logger,
) *PayrollService {
	return &PayrollService{
		payrollRepo: payrollRepo,
		driverRepo:  driverRepo,
		loadRepo:    loadRepo,
		logger:      logger,
	}
}

// Create computes a settlement for a driver over a pay period. Gross pay
// follows the driver's pay model: per-mile and percentage drivers earn
// from the loads they delivered in the period, hourly and salary drivers
// need an explicit gross pay.
func (s *PayrollService) Create(ctx context.Context, companyID uuid.UUID, req CreatePayrollRequest) (*PayrollResponse, error) {
	driver, err := s.driverRepo.FindByID(ctx, req.DriverID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("NOT_FOUND", "Driver not found")
		}
		s.logger.Error("Failed to load driver", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL", "Failed to load driver")
	}
	if driver.CompanyID != companyID {
		return nil, shared.NewDomainError("NOT_FOUND", "Driver not found")
	}

	exists, err := s.payrollRepo.ExistsForPeriod(ctx, req.DriverID, req.PeriodStart, req.PeriodEnd)
	if err != nil {
		s.logger.Error("Failed to check payroll period", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL", "Failed to check payroll period")
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "A settlement already covers part of this period")
	}

	payroll, err := billing.NewPayroll(companyID, req.DriverID, req.PeriodStart, req.PeriodEnd)
	if err != nil {
		return nil, err
	}
	payroll.Notes = req.Notes

	loads, err := s.loadRepo.FindDeliveredByDriver(ctx, req.DriverID, req.PeriodStart, req.PeriodEnd)
	if err != nil {
		s.logger.Error("Failed to load delivered loads", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL", "Failed to compute settlement")
	}

	totalMiles := 0
	revenue := decimal.Zero
	for _, load := range loads {
		totalMiles += load.Miles
		revenue = revenue.Add(load.TotalAmount())
	}

	var grossPay decimal.Decimal
	switch driver.PayType {
	case fleet.PayTypePerMile:
		grossPay = driver.PayRate.Mul(decimal.NewFromInt(int64(totalMiles))).Round(2)
	case fleet.PayTypePercentage:
		grossPay = revenue.Mul(driver.PayRate).Div(decimal.NewFromInt(100)).Round(2)
	default:
		if req.GrossPay == nil {
			return nil, shared.NewDomainError("INVALID_INPUT", "Gross pay is required for hourly and salary drivers")
		}
		grossPay = *req.GrossPay
	}

	if err := payroll.SetEarnings(len(loads), totalMiles, grossPay); err != nil {
		return nil, err
	}
	if req.Deductions != nil {
		if err := payroll.SetDeductions(*req.Deductions); err != nil {
			return nil, err
		}
	}

	if err := s.payrollRepo.Save(ctx, payroll); err != nil {
		s.logger.Error("Failed to save payroll", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL", "Failed to create settlement")
	}
	resp := ToPayrollResponse(payroll)
	return &resp, nil
}

// Get returns a settlement visible to the caller
func (s *PayrollService) Get(ctx context.Context, id uuid.UUID) (*PayrollResponse, error) {
	payroll, err := s.findPayroll(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToPayrollResponse(payroll)
	return &resp, nil
}

// List returns settlements visible to the caller, optionally narrowed to
// one driver
func (s *PayrollService) List(ctx context.Context, filter PayrollListFilter) (*PayrollListResult, error) {
	f := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
	}.Normalize()

	var (
		payrolls []*billing.Payroll
		total    int64
		err      error
	)
	if filter.DriverID != nil {
		payrolls, total, err = s.payrollRepo.FindByDriver(ctx, *filter.DriverID, f)
	} else {
		payrolls, total, err = s.payrollRepo.FindAll(ctx, f)
	}
	if err != nil {
		s.logger.Error("Failed to list payrolls", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL", "Failed to list settlements")
	}

	responses := make([]PayrollResponse, 0, len(payrolls))
	for _, p := range payrolls {
		responses = append(responses, ToPayrollResponse(p))
	}
	return &PayrollListResult{Payrolls: responses, Total: total, Page: f.Page, PageSize: f.PageSize}, nil
}

// Approve locks a pending settlement for payment
func (s *PayrollService) Approve(ctx context.Context, id uuid.UUID) (*PayrollResponse, error) {
	payroll, err := s.findPayroll(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := payroll.Approve(); err != nil {
		return nil, shared.NewDomainError("INVALID_STATE", "Only pending settlements can be approved")
	}
	return s.update(ctx, payroll)
}

// MarkPaid records payment of an approved settlement
func (s *PayrollService) MarkPaid(ctx context.Context, id uuid.UUID) (*PayrollResponse, error) {
	payroll, err := s.findPayroll(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := payroll.MarkPaid(time.Now()); err != nil {
		return nil, shared.NewDomainError("INVALID_STATE", "Only approved settlements can be paid")
	}
	return s.update(ctx, payroll)
}

// Delete removes a settlement
func (s *PayrollService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.payrollRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.ErrNotFound
		}
		s.logger.Error("Failed to delete payroll", zap.Error(err))
		return shared.NewDomainError("INTERNAL", "Failed to delete settlement")
	}
	return nil
}

func (s *PayrollService) findPayroll(ctx context.Context, id uuid.UUID) (*billing.Payroll, error) {
	payroll, err := s.payrollRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.ErrNotFound
		}
		s.logger.Error("Failed to load payroll", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL", "Failed to load settlement")
	}
	return payroll, nil
}

func (s *PayrollService) update(ctx context.Context, payroll *billing.Payroll) (*PayrollResponse, error) {
	if err := s.payrollRepo.Update(ctx, payroll); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.ErrNotFound
		}
		s.logger.Error("Failed to update payroll", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL", "Failed to update settlement")
	}
	resp := ToPayrollResponse(payroll)
	return &resp, nil
}
