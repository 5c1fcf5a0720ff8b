package billing

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/haulstack/tms/internal/domain/billing"
	"github.com/haulstack/tms/internal/domain/fleet"
	"github.com/haulstack/tms/internal/domain/freight"
	"github.com/haulstack/tms/internal/domain/shared"
)

func createPayrollService(
	payrollRepo *MockPayrollRepository,
	driverRepo *MockDriverRepository,
	loadRepo *MockLoadRepository,
) *PayrollService {
	return NewPayrollService(payrollRepo, driverRepo, loadRepo, zap.NewNop())
}

func payPeriod() (time.Time, time.Time) {
	start := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 0, 14)
}

func deliveredLoad(companyID uuid.UUID, miles int, rate int64) *freight.Load {
	load, _ := freight.NewLoad(companyID, uuid.New(), uuid.NewString()[:8], decimal.NewFromInt(rate))
	load.Miles = miles
	_ = load.Assign(uuid.New(), uuid.New())
	_ = load.StartTransit()
	_ = load.MarkDelivered(time.Now())
	return load
}

func TestPayrollService_Create_PerMile(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New()
	payrollRepo := new(MockPayrollRepository)
	driverRepo := new(MockDriverRepository)
	loadRepo := new(MockLoadRepository)

	driver, _ := fleet.NewDriver(companyID, "Lee", "Okafor")
	require.NoError(t, driver.SetPay(fleet.PayTypePerMile, decimal.RequireFromString("0.65")))

	start, end := payPeriod()
	loads := []*freight.Load{
		deliveredLoad(companyID, 500, 2500),
		deliveredLoad(companyID, 300, 1200),
	}

	driverRepo.On("FindByID", ctx, driver.ID).Return(driver, nil)
	payrollRepo.On("ExistsForPeriod", ctx, driver.ID, start, end).Return(false, nil)
	loadRepo.On("FindDeliveredByDriver", ctx, driver.ID, start, end).Return(loads, nil)
	payrollRepo.On("Save", ctx, mock.Anything).Return(nil)

	svc := createPayrollService(payrollRepo, driverRepo, loadRepo)

	result, err := svc.Create(ctx, companyID, CreatePayrollRequest{
		DriverID:    driver.ID,
		PeriodStart: start,
		PeriodEnd:   end,
	})

	require.NoError(t, err)
	assert.Equal(t, 2, result.TotalLoads)
	assert.Equal(t, 800, result.TotalMiles)
	// 800 miles at $0.65.
	assert.True(t, result.GrossPay.Equal(decimal.RequireFromString("520")))
	assert.True(t, result.CheckAmount.Equal(decimal.RequireFromString("520")))
	assert.Equal(t, "pending", result.Status)
}

func TestPayrollService_Create_Percentage(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New()
	payrollRepo := new(MockPayrollRepository)
	driverRepo := new(MockDriverRepository)
	loadRepo := new(MockLoadRepository)

	driver, _ := fleet.NewDriver(companyID, "Lee", "Okafor")
	require.NoError(t, driver.SetPay(fleet.PayTypePercentage, decimal.NewFromInt(25)))

	start, end := payPeriod()
	loads := []*freight.Load{
		deliveredLoad(companyID, 500, 2500),
		deliveredLoad(companyID, 300, 1500),
	}

	driverRepo.On("FindByID", ctx, driver.ID).Return(driver, nil)
	payrollRepo.On("ExistsForPeriod", ctx, driver.ID, start, end).Return(false, nil)
	loadRepo.On("FindDeliveredByDriver", ctx, driver.ID, start, end).Return(loads, nil)
	payrollRepo.On("Save", ctx, mock.Anything).Return(nil)

	svc := createPayrollService(payrollRepo, driverRepo, loadRepo)

	deductions := decimal.NewFromInt(100)
	result, err := svc.Create(ctx, companyID, CreatePayrollRequest{
		DriverID:    driver.ID,
		PeriodStart: start,
		PeriodEnd:   end,
		Deductions:  &deductions,
	})

	require.NoError(t, err)
	// 25% of $4000 revenue.
	assert.True(t, result.GrossPay.Equal(decimal.NewFromInt(1000)))
	assert.True(t, result.Deductions.Equal(decimal.NewFromInt(100)))
	assert.True(t, result.CheckAmount.Equal(decimal.NewFromInt(900)))
}

func TestPayrollService_Create_SalaryRequiresGrossPay(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New()
	payrollRepo := new(MockPayrollRepository)
	driverRepo := new(MockDriverRepository)
	loadRepo := new(MockLoadRepository)

	driver, _ := fleet.NewDriver(companyID, "Lee", "Okafor")
	require.NoError(t, driver.SetPay(fleet.PayTypeSalary, decimal.NewFromInt(1200)))

	start, end := payPeriod()
	driverRepo.On("FindByID", ctx, driver.ID).Return(driver, nil)
	payrollRepo.On("ExistsForPeriod", ctx, driver.ID, start, end).Return(false, nil)
	loadRepo.On("FindDeliveredByDriver", ctx, driver.ID, start, end).Return([]*freight.Load{}, nil)

	svc := createPayrollService(payrollRepo, driverRepo, loadRepo)

	result, err := svc.Create(ctx, companyID, CreatePayrollRequest{
		DriverID:    driver.ID,
		PeriodStart: start,
		PeriodEnd:   end,
	})

	require.Error(t, err)
	assert.Nil(t, result)
	var domainErr *shared.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, "INVALID_INPUT", domainErr.Code)
}

func TestPayrollService_Create_OverlappingPeriod(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New()
	payrollRepo := new(MockPayrollRepository)
	driverRepo := new(MockDriverRepository)

	driver, _ := fleet.NewDriver(companyID, "Lee", "Okafor")
	start, end := payPeriod()

	driverRepo.On("FindByID", ctx, driver.ID).Return(driver, nil)
	payrollRepo.On("ExistsForPeriod", ctx, driver.ID, start, end).Return(true, nil)

	svc := createPayrollService(payrollRepo, driverRepo, new(MockLoadRepository))

	result, err := svc.Create(ctx, companyID, CreatePayrollRequest{
		DriverID:    driver.ID,
		PeriodStart: start,
		PeriodEnd:   end,
	})

	require.Error(t, err)
	assert.Nil(t, result)
	var domainErr *shared.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, "ALREADY_EXISTS", domainErr.Code)
}

func TestPayrollService_Create_DriverFromOtherCompany(t *testing.T) {
	ctx := context.Background()
	driverRepo := new(MockDriverRepository)

	driver, _ := fleet.NewDriver(uuid.New(), "Lee", "Okafor")
	driverRepo.On("FindByID", ctx, driver.ID).Return(driver, nil)

	svc := createPayrollService(new(MockPayrollRepository), driverRepo, new(MockLoadRepository))

	start, end := payPeriod()
	result, err := svc.Create(ctx, uuid.New(), CreatePayrollRequest{
		DriverID:    driver.ID,
		PeriodStart: start,
		PeriodEnd:   end,
	})

	require.Error(t, err)
	assert.Nil(t, result)
	var domainErr *shared.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, "NOT_FOUND", domainErr.Code)
}

func TestPayrollService_ApproveAndPay(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New()
	payrollRepo := new(MockPayrollRepository)

	start, end := payPeriod()
	payroll, _ := billing.NewPayroll(companyID, uuid.New(), start, end)
	require.NoError(t, payroll.SetEarnings(2, 800, decimal.NewFromInt(520)))

	payrollRepo.On("FindByID", ctx, payroll.ID).Return(payroll, nil)
	payrollRepo.On("Update", ctx, payroll).Return(nil)

	svc := createPayrollService(payrollRepo, new(MockDriverRepository), new(MockLoadRepository))

	result, err := svc.Approve(ctx, payroll.ID)
	require.NoError(t, err)
	assert.Equal(t, "approved", result.Status)

	result, err = svc.MarkPaid(ctx, payroll.ID)
	require.NoError(t, err)
	assert.Equal(t, "paid", result.Status)
	assert.NotNil(t, result.PaidAt)
}

func TestPayrollService_Approve_AlreadyApproved(t *testing.T) {
	ctx := context.Background()
	payrollRepo := new(MockPayrollRepository)

	start, end := payPeriod()
	payroll, _ := billing.NewPayroll(uuid.New(), uuid.New(), start, end)
	require.NoError(t, payroll.Approve())

	payrollRepo.On("FindByID", ctx, payroll.ID).Return(payroll, nil)

	svc := createPayrollService(payrollRepo, new(MockDriverRepository), new(MockLoadRepository))

	result, err := svc.Approve(ctx, payroll.ID)

	require.Error(t, err)
	assert.Nil(t, result)
	var domainErr *shared.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, "INVALID_STATE", domainErr.Code)
}
