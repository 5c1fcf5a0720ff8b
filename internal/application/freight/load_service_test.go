package freight

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

	"github.com/haulstack/tms/internal/domain/fleet"
	"github.com/haulstack/tms/internal/domain/freight"
	"github.com/haulstack/tms/internal/domain/partner"
	"github.com/haulstack/tms/internal/domain/shared"
)

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

// MockCustomerRepository is a mock implementation of partner.CustomerRepository
type MockCustomerRepository struct {
	mock.Mock
}

func (m *MockCustomerRepository) Save(ctx context.Context, customer *partner.Customer) error {
	args := m.Called(ctx, customer)
	return args.Error(0)
}

func (m *MockCustomerRepository) Update(ctx context.Context, customer *partner.Customer) error {
	args := m.Called(ctx, customer)
	return args.Error(0)
}

func (m *MockCustomerRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.Customer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Customer), args.Error(1)
}

func (m *MockCustomerRepository) FindAll(ctx context.Context, filter shared.Filter) ([]*partner.Customer, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]*partner.Customer), args.Get(1).(int64), args.Error(2)
}

func (m *MockCustomerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
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

// MockTruckRepository is a mock implementation of fleet.TruckRepository
type MockTruckRepository struct {
	mock.Mock
}

func (m *MockTruckRepository) Save(ctx context.Context, truck *fleet.Truck) error {
	args := m.Called(ctx, truck)
	return args.Error(0)
}

func (m *MockTruckRepository) Update(ctx context.Context, truck *fleet.Truck) error {
	args := m.Called(ctx, truck)
	return args.Error(0)
}

func (m *MockTruckRepository) FindByID(ctx context.Context, id uuid.UUID) (*fleet.Truck, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*fleet.Truck), args.Error(1)
}

func (m *MockTruckRepository) FindByNumber(ctx context.Context, companyID uuid.UUID, truckNumber string) (*fleet.Truck, error) {
	args := m.Called(ctx, companyID, truckNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*fleet.Truck), args.Error(1)
}

func (m *MockTruckRepository) FindAll(ctx context.Context, filter shared.Filter) ([]*fleet.Truck, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]*fleet.Truck), args.Get(1).(int64), args.Error(2)
}

func (m *MockTruckRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func createLoadService(
	loadRepo *MockLoadRepository,
	customerRepo *MockCustomerRepository,
	driverRepo *MockDriverRepository,
	truckRepo *MockTruckRepository,
) *LoadService {
	return NewLoadService(loadRepo, customerRepo, driverRepo, truckRepo, zap.NewNop())
}

func createPendingLoad(companyID uuid.UUID) *freight.Load {
	load, _ := freight.NewLoad(companyID, uuid.New(), "L-1001", decimal.NewFromInt(2500))
	load.Miles = 500
	return load
}

func TestLoadService_Create_Success(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New()
	customerID := uuid.New()
	loadRepo := new(MockLoadRepository)
	customerRepo := new(MockCustomerRepository)

	customer, _ := partner.NewCustomer(companyID, "Acme Shipping")
	loadRepo.On("FindByNumber", ctx, companyID, "L-1001").Return(nil, shared.ErrNotFound)
	customerRepo.On("FindByID", ctx, customerID).Return(customer, nil)
	loadRepo.On("Save", ctx, mock.Anything).Return(nil)

	svc := createLoadService(loadRepo, customerRepo, new(MockDriverRepository), new(MockTruckRepository))

	result, err := svc.Create(ctx, companyID, CreateLoadRequest{
		LoadNumber: "L-1001",
		CustomerID: customerID,
		Rate:       decimal.NewFromInt(2500),
		Miles:      500,
		Stops: []StopInput{
			{Type: "pickup", City: "Dallas", State: "tx"},
			{Type: "delivery", City: "Atlanta", State: "ga"},
		},
	})

	require.NoError(t, err)
	assert.Equal(t, "pending", result.Status)
	require.Len(t, result.Stops, 2)
	// Stop sequences are 1-based; zero marks an unset sequence on input.
	assert.Equal(t, 1, result.Stops[0].Sequence)
	assert.Equal(t, 2, result.Stops[1].Sequence)
	assert.Equal(t, "TX", result.Stops[0].State)

	loadRepo.AssertExpectations(t)
}

func TestLoadService_Create_DuplicateNumber(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New()
	loadRepo := new(MockLoadRepository)

	existing := createPendingLoad(companyID)
	loadRepo.On("FindByNumber", ctx, companyID, "L-1001").Return(existing, nil)

	svc := createLoadService(loadRepo, new(MockCustomerRepository), new(MockDriverRepository), new(MockTruckRepository))

	result, err := svc.Create(ctx, companyID, CreateLoadRequest{
		LoadNumber: "L-1001",
		CustomerID: uuid.New(),
		Rate:       decimal.NewFromInt(2500),
	})

	require.Error(t, err)
	assert.Nil(t, result)
	var domainErr *shared.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, "ALREADY_EXISTS", domainErr.Code)
}

func TestLoadService_Create_UnknownCustomer(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New()
	customerID := uuid.New()
	loadRepo := new(MockLoadRepository)
	customerRepo := new(MockCustomerRepository)

	loadRepo.On("FindByNumber", ctx, companyID, "L-1001").Return(nil, shared.ErrNotFound)
	customerRepo.On("FindByID", ctx, customerID).Return(nil, shared.ErrNotFound)

	svc := createLoadService(loadRepo, customerRepo, new(MockDriverRepository), new(MockTruckRepository))

	result, err := svc.Create(ctx, companyID, CreateLoadRequest{
		LoadNumber: "L-1001",
		CustomerID: customerID,
		Rate:       decimal.NewFromInt(2500),
	})

	require.Error(t, err)
	assert.Nil(t, result)
	var domainErr *shared.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, "NOT_FOUND", domainErr.Code)
}

func TestLoadService_Assign_Success(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New()
	loadRepo := new(MockLoadRepository)
	driverRepo := new(MockDriverRepository)
	truckRepo := new(MockTruckRepository)

	load := createPendingLoad(companyID)
	driver, _ := fleet.NewDriver(companyID, "Lee", "Okafor")
	truck, _ := fleet.NewTruck(companyID, "T-42")

	loadRepo.On("FindByID", ctx, load.ID).Return(load, nil)
	driverRepo.On("FindByID", ctx, driver.ID).Return(driver, nil)
	truckRepo.On("FindByID", ctx, truck.ID).Return(truck, nil)
	loadRepo.On("Update", ctx, load).Return(nil)

	svc := createLoadService(loadRepo, new(MockCustomerRepository), driverRepo, truckRepo)

	result, err := svc.Assign(ctx, load.ID, AssignLoadRequest{
		DriverID: driver.ID,
		TruckID:  truck.ID,
	})

	require.NoError(t, err)
	assert.Equal(t, "assigned", result.Status)
	require.NotNil(t, result.DriverID)
	assert.Equal(t, driver.ID, *result.DriverID)
}

func TestLoadService_Assign_DriverUnavailable(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New()
	loadRepo := new(MockLoadRepository)
	driverRepo := new(MockDriverRepository)

	load := createPendingLoad(companyID)
	driver, _ := fleet.NewDriver(companyID, "Lee", "Okafor")
	require.NoError(t, driver.SetStatus(fleet.DriverStatusOnLeave))

	loadRepo.On("FindByID", ctx, load.ID).Return(load, nil)
	driverRepo.On("FindByID", ctx, driver.ID).Return(driver, nil)

	svc := createLoadService(loadRepo, new(MockCustomerRepository), driverRepo, new(MockTruckRepository))

	result, err := svc.Assign(ctx, load.ID, AssignLoadRequest{
		DriverID: driver.ID,
		TruckID:  uuid.New(),
	})

	require.Error(t, err)
	assert.Nil(t, result)
	var domainErr *shared.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, "INVALID_STATE", domainErr.Code)
}

func TestLoadService_UpdateStatus_Lifecycle(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New()
	loadRepo := new(MockLoadRepository)

	load := createPendingLoad(companyID)
	require.NoError(t, load.Assign(uuid.New(), uuid.New()))

	loadRepo.On("FindByID", ctx, load.ID).Return(load, nil)
	loadRepo.On("Update", ctx, load).Return(nil)

	svc := createLoadService(loadRepo, new(MockCustomerRepository), new(MockDriverRepository), new(MockTruckRepository))

	result, err := svc.UpdateStatus(ctx, load.ID, UpdateLoadStatusRequest{Status: "in_transit"})
	require.NoError(t, err)
	assert.Equal(t, "in_transit", result.Status)

	result, err = svc.UpdateStatus(ctx, load.ID, UpdateLoadStatusRequest{Status: "delivered"})
	require.NoError(t, err)
	assert.Equal(t, "delivered", result.Status)
	assert.NotNil(t, result.DeliveredAt)
}

func TestLoadService_UpdateStatus_DeliverFromPending(t *testing.T) {
	ctx := context.Background()
	loadRepo := new(MockLoadRepository)

	load := createPendingLoad(uuid.New())
	loadRepo.On("FindByID", ctx, load.ID).Return(load, nil)

	svc := createLoadService(loadRepo, new(MockCustomerRepository), new(MockDriverRepository), new(MockTruckRepository))

	result, err := svc.UpdateStatus(ctx, load.ID, UpdateLoadStatusRequest{Status: "delivered"})

	require.Error(t, err)
	assert.Nil(t, result)
}

func TestLoadService_Update_ReplacesStops(t *testing.T) {
	ctx := context.Background()
	loadRepo := new(MockLoadRepository)

	load := createPendingLoad(uuid.New())
	first, _ := freight.NewStop(load.ID, freight.StopTypePickup)
	load.AddStop(first)

	loadRepo.On("FindByID", ctx, load.ID).Return(load, nil)
	loadRepo.On("Update", ctx, load).Return(nil)

	svc := createLoadService(loadRepo, new(MockCustomerRepository), new(MockDriverRepository), new(MockTruckRepository))

	result, err := svc.Update(ctx, load.ID, UpdateLoadRequest{
		Stops: []StopInput{
			{Type: "pickup", City: "Dallas", State: "TX"},
			{Type: "pickup", City: "Fort Worth", State: "TX", Sequence: 1},
			{Type: "delivery", City: "Atlanta", State: "GA", Sequence: 2},
		},
	})

	require.NoError(t, err)
	require.Len(t, result.Stops, 3)
	assert.Equal(t, "Fort Worth", result.Stops[1].City)
}

func TestLoadService_Update_ChargesAndDocuments(t *testing.T) {
	ctx := context.Background()
	loadRepo := new(MockLoadRepository)

	load := createPendingLoad(uuid.New())
	loadRepo.On("FindByID", ctx, load.ID).Return(load, nil)
	loadRepo.On("Update", ctx, load).Return(nil)

	svc := createLoadService(loadRepo, new(MockCustomerRepository), new(MockDriverRepository), new(MockTruckRepository))

	fsc := decimal.NewFromInt(200)
	acc := decimal.NewFromInt(50)
	pod := "docs/pod-l-1001.pdf"
	result, err := svc.Update(ctx, load.ID, UpdateLoadRequest{
		FuelSurcharge: &fsc,
		Accessorial:   &acc,
		PODKey:        &pod,
	})

	require.NoError(t, err)
	assert.True(t, result.FuelSurcharge.Equal(fsc))
	assert.True(t, result.Accessorial.Equal(acc))
	assert.True(t, result.TotalAmount.Equal(load.Rate.Add(fsc).Add(acc)))
	assert.Equal(t, pod, result.PODKey)
}

func TestLoadService_Update_NegativeSurcharge(t *testing.T) {
	ctx := context.Background()
	loadRepo := new(MockLoadRepository)

	load := createPendingLoad(uuid.New())
	loadRepo.On("FindByID", ctx, load.ID).Return(load, nil)

	svc := createLoadService(loadRepo, new(MockCustomerRepository), new(MockDriverRepository), new(MockTruckRepository))

	fsc := decimal.NewFromInt(-10)
	_, err := svc.Update(ctx, load.ID, UpdateLoadRequest{FuelSurcharge: &fsc})

	var derr *shared.DomainError
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, "INVALID_INPUT", derr.Code)
	loadRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestLoadService_List_ByStatus(t *testing.T) {
	ctx := context.Background()
	loadRepo := new(MockLoadRepository)

	load := createPendingLoad(uuid.New())
	loadRepo.On("FindByStatus", ctx, freight.LoadStatusPending, mock.Anything).
		Return([]*freight.Load{load}, int64(1), nil)

	svc := createLoadService(loadRepo, new(MockCustomerRepository), new(MockDriverRepository), new(MockTruckRepository))

	result, err := svc.List(ctx, LoadListFilter{Status: "pending"})

	require.NoError(t, err)
	assert.Equal(t, int64(1), result.Total)
	require.Len(t, result.Loads, 1)
	assert.Equal(t, "L-1001", result.Loads[0].LoadNumber)
}
