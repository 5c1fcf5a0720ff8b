package notification

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/haulstack/tms/internal/domain/fleet"
	"github.com/haulstack/tms/internal/domain/freight"
	"github.com/haulstack/tms/internal/domain/shared"
	"github.com/haulstack/tms/internal/infrastructure/notification"
)

// MockSMSSender is a mock implementation of notification.SMSSender
type MockSMSSender struct {
	mock.Mock
}

func (m *MockSMSSender) Send(ctx context.Context, to, body string) notification.SMSResult {
	args := m.Called(ctx, to, body)
	return args.Get(0).(notification.SMSResult)
}

// MockDriverRepository is a mock implementation of fleet.DriverRepository
type MockDriverRepository struct {
	mock.Mock
}

func (m *MockDriverRepository) Save(ctx context.Context, driver *fleet.Driver) error {
	args := m.Called(ctx, driver)
	return args.Error(0)
}

func (m *MockDriverRepository) Update(ctx context.Context, driver *fleet.Driver) error {
	args := m.Called(ctx, driver)
	return args.Error(0)
}

func (m *MockDriverRepository) FindByID(ctx context.Context, id uuid.UUID) (*fleet.Driver, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*fleet.Driver), args.Error(1)
}

func (m *MockDriverRepository) FindAll(ctx context.Context, filter shared.Filter) ([]*fleet.Driver, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]*fleet.Driver), args.Get(1).(int64), args.Error(2)
}

func (m *MockDriverRepository) CountByCompany(ctx context.Context, companyID uuid.UUID) (int64, error) {
	args := m.Called(ctx, companyID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockDriverRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockLoadRepository is a mock implementation of freight.LoadRepository
type MockLoadRepository struct {
	mock.Mock
}

func (m *MockLoadRepository) Save(ctx context.Context, load *freight.Load) error {
	args := m.Called(ctx, load)
	return args.Error(0)
}

func (m *MockLoadRepository) Update(ctx context.Context, load *freight.Load) error {
	args := m.Called(ctx, load)
	return args.Error(0)
}

func (m *MockLoadRepository) FindByID(ctx context.Context, id uuid.UUID) (*freight.Load, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*freight.Load), args.Error(1)
}

func (m *MockLoadRepository) FindByNumber(ctx context.Context, companyID uuid.UUID, loadNumber string) (*freight.Load, error) {
	args := m.Called(ctx, companyID, loadNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*freight.Load), args.Error(1)
}

func (m *MockLoadRepository) FindAll(ctx context.Context, filter shared.Filter) ([]*freight.Load, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]*freight.Load), args.Get(1).(int64), args.Error(2)
}

func (m *MockLoadRepository) FindByStatus(ctx context.Context, status freight.LoadStatus, filter shared.Filter) ([]*freight.Load, int64, error) {
	args := m.Called(ctx, status, filter)
	return args.Get(0).([]*freight.Load), args.Get(1).(int64), args.Error(2)
}

func (m *MockLoadRepository) FindDeliveredByDriver(ctx context.Context, driverID uuid.UUID, from, to time.Time) ([]*freight.Load, error) {
	args := m.Called(ctx, driverID, from, to)
	return args.Get(0).([]*freight.Load), args.Error(1)
}

func (m *MockLoadRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func TestService_SendBulkSMS_SubstitutesNames(t *testing.T) {
	ctx := context.Background()
	sms := new(MockSMSSender)

	sms.On("Send", ctx, "+15550001111", "Hi Lee, dispatch update").
		Return(notification.SMSResult{Success: true, To: "+15550001111"})
	sms.On("Send", ctx, "+15550002222", "Hi Dana, dispatch update").
		Return(notification.SMSResult{Success: false, To: "+15550002222", Error: "undeliverable"})

	svc := NewService(sms, new(MockDriverRepository), new(MockLoadRepository), zap.NewNop())

	result, err := svc.SendBulkSMS(ctx, SendBulkSMSRequest{
		Message: "Hi {name}, dispatch update",
		Recipients: []BulkRecipient{
			{Phone: "+15550001111", Name: "Lee"},
			{Phone: "+15550002222", Name: "Dana"},
		},
	})

	require.NoError(t, err)
	assert.Equal(t, 2, result.Total)
	assert.Equal(t, 1, result.Successful)
	assert.Equal(t, 1, result.Failed)
	require.Len(t, result.Results, 2)

	sms.AssertExpectations(t)
}

func TestService_SendLoadAssignment(t *testing.T) {
	ctx := context.Background()
	sms := new(MockSMSSender)
	driverRepo := new(MockDriverRepository)
	loadRepo := new(MockLoadRepository)

	companyID := uuid.New()
	driver, _ := fleet.NewDriver(companyID, "Lee", "Okafor")
	driver.Phone = "+15550001111"

	load, _ := freight.NewLoad(companyID, uuid.New(), "L-1001", decimal.NewFromInt(2500))
	load.OriginCity, load.OriginState = "Dallas", "TX"
	load.DestCity, load.DestState = "Atlanta", "GA"
	require.NoError(t, load.Assign(driver.ID, uuid.New()))

	loadRepo.On("FindByID", ctx, load.ID).Return(load, nil)
	driverRepo.On("FindByID", ctx, driver.ID).Return(driver, nil)

	var sent string
	sms.On("Send", ctx, "+15550001111", mock.Anything).
		Run(func(args mock.Arguments) { sent = args.String(2) }).
		Return(notification.SMSResult{Success: true, To: "+15550001111"})

	svc := NewService(sms, driverRepo, loadRepo, zap.NewNop())

	result, err := svc.SendLoadAssignment(ctx, LoadAssignmentRequest{LoadID: load.ID})

	require.NoError(t, err)
	assert.True(t, result.Result.Success)
	assert.Contains(t, sent, "Hi Lee")
	assert.Contains(t, sent, "Load #L-1001")
	assert.Contains(t, sent, "Pickup: Dallas, TX")
	assert.Contains(t, sent, "Delivery: Atlanta, GA")
}

func TestService_SendLoadAssignment_NoDriver(t *testing.T) {
	ctx := context.Background()
	loadRepo := new(MockLoadRepository)

	load, _ := freight.NewLoad(uuid.New(), uuid.New(), "L-1001", decimal.NewFromInt(2500))
	loadRepo.On("FindByID", ctx, load.ID).Return(load, nil)

	svc := NewService(new(MockSMSSender), new(MockDriverRepository), loadRepo, zap.NewNop())

	result, err := svc.SendLoadAssignment(ctx, LoadAssignmentRequest{LoadID: load.ID})

	require.Error(t, err)
	assert.Nil(t, result)
}

func TestService_SendLoadUpdate(t *testing.T) {
	ctx := context.Background()
	sms := new(MockSMSSender)
	driverRepo := new(MockDriverRepository)
	loadRepo := new(MockLoadRepository)

	companyID := uuid.New()
	driver, _ := fleet.NewDriver(companyID, "Lee", "Okafor")
	driver.Phone = "+15550001111"
	load, _ := freight.NewLoad(companyID, uuid.New(), "L-1001", decimal.NewFromInt(2500))
	require.NoError(t, load.Assign(driver.ID, uuid.New()))

	loadRepo.On("FindByID", ctx, load.ID).Return(load, nil)
	driverRepo.On("FindByID", ctx, driver.ID).Return(driver, nil)
	sms.On("Send", ctx, "+15550001111", "Update on Load #L-1001:\nDelivery window moved to 3pm").
		Return(notification.SMSResult{Success: true, To: "+15550001111"})

	svc := NewService(sms, driverRepo, loadRepo, zap.NewNop())

	result, err := svc.SendLoadUpdate(ctx, LoadUpdateRequest{
		LoadID:  load.ID,
		Message: "Delivery window moved to 3pm",
	})

	require.NoError(t, err)
	assert.True(t, result.Result.Success)
	sms.AssertExpectations(t)
}
