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
	"github.com/haulstack/tms/internal/domain/identity"
	"github.com/haulstack/tms/internal/domain/partner"
	"github.com/haulstack/tms/internal/domain/shared"
	"github.com/haulstack/tms/internal/infrastructure/storage"
)

// MockInvoiceRepository is a mock implementation of billing.InvoiceRepository
type MockInvoiceRepository struct {
	mock.Mock
}

func (m *MockInvoiceRepository) Save(ctx context.Context, invoice *billing.Invoice) error {
	args := m.Called(ctx, invoice)
	return args.Error(0)
}

func (m *MockInvoiceRepository) Update(ctx context.Context, invoice *billing.Invoice) error {
	args := m.Called(ctx, invoice)
	return args.Error(0)
}

func (m *MockInvoiceRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.Invoice, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindByLoad(ctx context.Context, loadID uuid.UUID) (*billing.Invoice, error) {
	args := m.Called(ctx, loadID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindAll(ctx context.Context, filter shared.Filter) ([]*billing.Invoice, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]*billing.Invoice), args.Get(1).(int64), args.Error(2)
}

func (m *MockInvoiceRepository) FindOverdue(ctx context.Context, companyID uuid.UUID, asOf time.Time) ([]*billing.Invoice, error) {
	args := m.Called(ctx, companyID, asOf)
	return args.Get(0).([]*billing.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) Delete(ctx context.Context, id uuid.UUID) error {
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

// MockCompanyRepository is a mock implementation of identity.CompanyRepository
type MockCompanyRepository struct {
	mock.Mock
}

func (m *MockCompanyRepository) Save(ctx context.Context, company *identity.Company) error {
	args := m.Called(ctx, company)
	return args.Error(0)
}

func (m *MockCompanyRepository) Update(ctx context.Context, company *identity.Company) error {
	args := m.Called(ctx, company)
	return args.Error(0)
}

func (m *MockCompanyRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.Company, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Company), args.Error(1)
}

func (m *MockCompanyRepository) FindAll(ctx context.Context, filter shared.Filter) ([]*identity.Company, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]*identity.Company), args.Get(1).(int64), args.Error(2)
}

func (m *MockCompanyRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	args := m.Called(ctx, name)
	return args.Bool(0), args.Error(1)
}

func (m *MockCompanyRepository) Delete(ctx context.Context, id uuid.UUID) error {
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

// MockPayrollRepository is a mock implementation of billing.PayrollRepository
type MockPayrollRepository struct {
	mock.Mock
}

func (m *MockPayrollRepository) Save(ctx context.Context, payroll *billing.Payroll) error {
	args := m.Called(ctx, payroll)
	return args.Error(0)
}

func (m *MockPayrollRepository) Update(ctx context.Context, payroll *billing.Payroll) error {
	args := m.Called(ctx, payroll)
	return args.Error(0)
}

func (m *MockPayrollRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.Payroll, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Payroll), args.Error(1)
}

func (m *MockPayrollRepository) FindByDriver(ctx context.Context, driverID uuid.UUID, filter shared.Filter) ([]*billing.Payroll, int64, error) {
	args := m.Called(ctx, driverID, filter)
	return args.Get(0).([]*billing.Payroll), args.Get(1).(int64), args.Error(2)
}

func (m *MockPayrollRepository) FindAll(ctx context.Context, filter shared.Filter) ([]*billing.Payroll, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]*billing.Payroll), args.Get(1).(int64), args.Error(2)
}

func (m *MockPayrollRepository) ExistsForPeriod(ctx context.Context, driverID uuid.UUID, periodStart, periodEnd time.Time) (bool, error) {
	args := m.Called(ctx, driverID, periodStart, periodEnd)
	return args.Bool(0), args.Error(1)
}

func (m *MockPayrollRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockInvoiceRenderer is a mock implementation of pdf.InvoiceRenderer
type MockInvoiceRenderer struct {
	mock.Mock
}

func (m *MockInvoiceRenderer) Render(ctx context.Context, invoice *billing.Invoice, company *identity.Company, customer *partner.Customer, load *freight.Load) ([]byte, error) {
	args := m.Called(ctx, invoice, company, customer, load)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

// MockObjectStorage is a mock implementation of storage.ObjectStorage
type MockObjectStorage struct {
	mock.Mock
}

func (m *MockObjectStorage) Put(ctx context.Context, key string, data []byte, contentType string) error {
	args := m.Called(ctx, key, data, contentType)
	return args.Error(0)
}

func (m *MockObjectStorage) Get(ctx context.Context, key string) (*storage.Object, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*storage.Object), args.Error(1)
}

func (m *MockObjectStorage) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockObjectStorage) Exists(ctx context.Context, key string) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}

func (m *MockObjectStorage) PresignDownload(ctx context.Context, key string, expiresIn time.Duration) (string, time.Time, error) {
	args := m.Called(ctx, key, expiresIn)
	return args.String(0), args.Get(1).(time.Time), args.Error(2)
}

func createDeliveredLoad(companyID uuid.UUID) *freight.Load {
	load, _ := freight.NewLoad(companyID, uuid.New(), "L-1001", decimal.NewFromInt(2500))
	load.Miles = 500
	_ = load.Assign(uuid.New(), uuid.New())
	_ = load.StartTransit()
	_ = load.MarkDelivered(time.Now())
	return load
}

func createInvoiceService(
	invoiceRepo *MockInvoiceRepository,
	loadRepo *MockLoadRepository,
	customerRepo *MockCustomerRepository,
	companyRepo *MockCompanyRepository,
	renderer *MockInvoiceRenderer,
	store *MockObjectStorage,
) *InvoiceService {
	return NewInvoiceService(invoiceRepo, loadRepo, customerRepo, companyRepo, renderer, store, zap.NewNop())
}

func TestInvoiceService_Create_Success(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New()
	invoiceRepo := new(MockInvoiceRepository)
	loadRepo := new(MockLoadRepository)

	load := createDeliveredLoad(companyID)
	load.FuelSurcharge = decimal.NewFromInt(200)
	load.Accessorial = decimal.NewFromInt(100)
	loadRepo.On("FindByID", ctx, load.ID).Return(load, nil)
	invoiceRepo.On("FindByLoad", ctx, load.ID).Return(nil, shared.ErrNotFound)
	invoiceRepo.On("Save", ctx, mock.Anything).Return(nil)

	svc := createInvoiceService(invoiceRepo, loadRepo, new(MockCustomerRepository), new(MockCompanyRepository), new(MockInvoiceRenderer), new(MockObjectStorage))

	result, err := svc.Create(ctx, companyID, CreateInvoiceRequest{
		LoadID:        load.ID,
		InvoiceNumber: "INV-0042",
	})

	require.NoError(t, err)
	assert.Equal(t, "draft", result.Status)
	// Amount defaults to the load total including surcharges.
	assert.True(t, result.Amount.Equal(decimal.NewFromInt(2800)))
	assert.Equal(t, load.CompanyID, result.CompanyID)

	invoiceRepo.AssertExpectations(t)
}

func TestInvoiceService_Create_LoadNotDelivered(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New()
	loadRepo := new(MockLoadRepository)

	load, _ := freight.NewLoad(companyID, uuid.New(), "L-1001", decimal.NewFromInt(2500))
	loadRepo.On("FindByID", ctx, load.ID).Return(load, nil)

	svc := createInvoiceService(new(MockInvoiceRepository), loadRepo, new(MockCustomerRepository), new(MockCompanyRepository), new(MockInvoiceRenderer), new(MockObjectStorage))

	result, err := svc.Create(ctx, companyID, CreateInvoiceRequest{
		LoadID:        load.ID,
		InvoiceNumber: "INV-0042",
	})

	require.Error(t, err)
	assert.Nil(t, result)
	var domainErr *shared.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, "INVALID_STATE", domainErr.Code)
}

func TestInvoiceService_Create_AlreadyInvoiced(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New()
	invoiceRepo := new(MockInvoiceRepository)
	loadRepo := new(MockLoadRepository)

	load := createDeliveredLoad(companyID)
	existing, _ := billing.NewInvoice(companyID, load.ID, load.CustomerID, "INV-0001", load.Rate)

	loadRepo.On("FindByID", ctx, load.ID).Return(load, nil)
	invoiceRepo.On("FindByLoad", ctx, load.ID).Return(existing, nil)

	svc := createInvoiceService(invoiceRepo, loadRepo, new(MockCustomerRepository), new(MockCompanyRepository), new(MockInvoiceRenderer), new(MockObjectStorage))

	result, err := svc.Create(ctx, companyID, CreateInvoiceRequest{
		LoadID:        load.ID,
		InvoiceNumber: "INV-0042",
	})

	require.Error(t, err)
	assert.Nil(t, result)
	var domainErr *shared.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, "ALREADY_EXISTS", domainErr.Code)
}

func TestInvoiceService_Send_UsesCustomerTerm(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New()
	invoiceRepo := new(MockInvoiceRepository)
	customerRepo := new(MockCustomerRepository)

	customer, _ := partner.NewCustomer(companyID, "Acme Shipping")
	require.NoError(t, customer.SetPaymentTerm(45))
	invoice, _ := billing.NewInvoice(companyID, uuid.New(), customer.ID, "INV-0042", decimal.NewFromInt(2500))

	invoiceRepo.On("FindByID", ctx, invoice.ID).Return(invoice, nil)
	customerRepo.On("FindByID", ctx, customer.ID).Return(customer, nil)
	invoiceRepo.On("Update", ctx, invoice).Return(nil)

	svc := createInvoiceService(invoiceRepo, new(MockLoadRepository), customerRepo, new(MockCompanyRepository), new(MockInvoiceRenderer), new(MockObjectStorage))

	result, err := svc.Send(ctx, invoice.ID, SendInvoiceRequest{})

	require.NoError(t, err)
	assert.Equal(t, "sent", result.Status)
	require.NotNil(t, result.DueAt)
	require.NotNil(t, result.IssuedAt)
	assert.Equal(t, 45*24*time.Hour, result.DueAt.Sub(*result.IssuedAt))
}

func TestInvoiceService_GeneratePDF(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New()
	invoiceRepo := new(MockInvoiceRepository)
	loadRepo := new(MockLoadRepository)
	customerRepo := new(MockCustomerRepository)
	companyRepo := new(MockCompanyRepository)
	renderer := new(MockInvoiceRenderer)
	store := new(MockObjectStorage)

	load := createDeliveredLoad(companyID)
	customer, _ := partner.NewCustomer(companyID, "Acme Shipping")
	company, _ := identity.NewCompany("Haul Co")
	invoice, _ := billing.NewInvoice(companyID, load.ID, customer.ID, "INV-0042", load.Rate)

	rendered := []byte("%PDF-1.7 test")
	invoiceRepo.On("FindByID", ctx, invoice.ID).Return(invoice, nil)
	loadRepo.On("FindByID", ctx, load.ID).Return(load, nil)
	customerRepo.On("FindByID", ctx, customer.ID).Return(customer, nil)
	companyRepo.On("FindByID", ctx, invoice.CompanyID).Return(company, nil)
	renderer.On("Render", ctx, invoice, company, customer, load).Return(rendered, nil)
	store.On("Put", ctx, mock.Anything, rendered, "application/pdf").Return(nil)
	invoiceRepo.On("Update", ctx, invoice).Return(nil)

	svc := createInvoiceService(invoiceRepo, loadRepo, customerRepo, companyRepo, renderer, store)

	result, err := svc.GeneratePDF(ctx, invoice.ID)

	require.NoError(t, err)
	assert.Equal(t, rendered, result.Data)
	assert.Equal(t, "application/pdf", result.ContentType)
	assert.NotEmpty(t, result.DocumentKey)
	assert.Equal(t, result.DocumentKey, invoice.DocumentKey)

	store.AssertExpectations(t)
}

func TestInvoiceService_GeneratePDF_CleansUpOnUpdateFailure(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New()
	invoiceRepo := new(MockInvoiceRepository)
	loadRepo := new(MockLoadRepository)
	customerRepo := new(MockCustomerRepository)
	companyRepo := new(MockCompanyRepository)
	renderer := new(MockInvoiceRenderer)
	store := new(MockObjectStorage)

	load := createDeliveredLoad(companyID)
	customer, _ := partner.NewCustomer(companyID, "Acme Shipping")
	company, _ := identity.NewCompany("Haul Co")
	invoice, _ := billing.NewInvoice(companyID, load.ID, customer.ID, "INV-0042", load.Rate)

	invoiceRepo.On("FindByID", ctx, invoice.ID).Return(invoice, nil)
	loadRepo.On("FindByID", ctx, load.ID).Return(load, nil)
	customerRepo.On("FindByID", ctx, customer.ID).Return(customer, nil)
	companyRepo.On("FindByID", ctx, invoice.CompanyID).Return(company, nil)
	renderer.On("Render", ctx, invoice, company, customer, load).Return([]byte("%PDF-"), nil)
	store.On("Put", ctx, mock.Anything, mock.Anything, "application/pdf").Return(nil)
	invoiceRepo.On("Update", ctx, invoice).Return(errors.New("db down"))
	store.On("Delete", ctx, mock.Anything).Return(nil)

	svc := createInvoiceService(invoiceRepo, loadRepo, customerRepo, companyRepo, renderer, store)

	result, err := svc.GeneratePDF(ctx, invoice.ID)

	require.Error(t, err)
	assert.Nil(t, result)
	store.AssertCalled(t, "Delete", ctx, mock.Anything)
}
