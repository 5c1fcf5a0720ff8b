package datascope

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/haulstack/tms/internal/domain/identity"
	"github.com/haulstack/tms/internal/infrastructure/persistence/models"
)

func setupScopeTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(&models.UserModel{}, &models.CustomerModel{}, &models.LoadModel{}, &models.StopModel{}, &models.InvoiceModel{})
	require.NoError(t, err)

	return db
}

func seedLoad(t *testing.T, db *gorm.DB, companyID, customerID uuid.UUID, driverID *uuid.UUID, loadNumber string) uuid.UUID {
	t.Helper()
	m := &models.LoadModel{}
	m.ID = uuid.New()
	m.CompanyID = companyID
	m.LoadNumber = loadNumber
	m.CustomerID = customerID
	m.DriverID = driverID
	m.Status = "pending"
	m.Rate = decimal.NewFromInt(1000)
	require.NoError(t, db.Create(m).Error)
	return m.ID
}

func seedInvoice(t *testing.T, db *gorm.DB, companyID, loadID, customerID uuid.UUID, number string) {
	t.Helper()
	m := &models.InvoiceModel{}
	m.ID = uuid.New()
	m.CompanyID = companyID
	m.InvoiceNumber = number
	m.LoadID = loadID
	m.CustomerID = customerID
	m.Amount = decimal.NewFromInt(1000)
	m.Status = "sent"
	require.NoError(t, db.Create(m).Error)
}

func dispatcherContext(companyID uuid.UUID) *identity.SecurityContext {
	return &identity.SecurityContext{
		UserID:      uuid.New(),
		CompanyID:   companyID,
		Role:        identity.RoleDispatcher,
		Permissions: identity.PermissionsForRole(identity.RoleDispatcher, nil),
	}
}

func TestCompanyScope(t *testing.T) {
	db := setupScopeTestDB(t)

	companyA := uuid.New()
	companyB := uuid.New()

	for _, c := range []struct {
		company uuid.UUID
		name    string
	}{
		{companyA, "Acme Produce"},
		{companyA, "Great Lakes Steel"},
		{companyB, "Bayou Seafood"},
	} {
		m := &models.CustomerModel{}
		m.ID = uuid.New()
		m.CompanyID = c.company
		m.Name = c.name
		m.Active = true
		require.NoError(t, db.Create(m).Error)
	}

	t.Run("pins query to the caller's company", func(t *testing.T) {
		filter := NewFilter(dispatcherContext(companyA))

		var customers []models.CustomerModel
		err := db.Scopes(filter.CompanyScope()).Find(&customers).Error
		require.NoError(t, err)
		require.Len(t, customers, 2)
		for _, c := range customers {
			assert.Equal(t, companyA, c.CompanyID)
		}
	})

	t.Run("privileged caller sees across companies", func(t *testing.T) {
		filter := NewFilter(&identity.SecurityContext{
			UserID: uuid.New(),
			Role:   identity.RoleSuperAdmin,
		})

		var customers []models.CustomerModel
		err := db.Scopes(filter.CompanyScope()).Find(&customers).Error
		require.NoError(t, err)
		assert.Len(t, customers, 3)
	})

	t.Run("nil security context yields no rows", func(t *testing.T) {
		filter := NewFilter(nil)

		var customers []models.CustomerModel
		err := db.Scopes(filter.CompanyScope()).Find(&customers).Error
		require.NoError(t, err)
		assert.Empty(t, customers)
	})

	t.Run("missing context in ctx yields no rows", func(t *testing.T) {
		filter := FromContext(context.Background())

		var customers []models.CustomerModel
		err := db.Scopes(filter.CompanyScope()).Find(&customers).Error
		require.NoError(t, err)
		assert.Empty(t, customers)
	})
}

func TestLoadScope(t *testing.T) {
	db := setupScopeTestDB(t)

	companyA := uuid.New()
	companyB := uuid.New()
	customerA := uuid.New()
	customerB := uuid.New()
	driverOne := uuid.New()
	driverTwo := uuid.New()

	seedLoad(t, db, companyA, customerA, &driverOne, "L-1001")
	seedLoad(t, db, companyA, customerA, &driverTwo, "L-1002")
	seedLoad(t, db, companyA, customerB, nil, "L-1003")
	seedLoad(t, db, companyB, uuid.New(), nil, "L-2001")

	t.Run("dispatcher sees all company loads", func(t *testing.T) {
		filter := NewFilter(dispatcherContext(companyA))

		var loads []models.LoadModel
		err := db.Scopes(filter.LoadScope()).Find(&loads).Error
		require.NoError(t, err)
		assert.Len(t, loads, 3)
	})

	t.Run("driver sees only dispatched loads", func(t *testing.T) {
		filter := NewFilter(&identity.SecurityContext{
			UserID:    uuid.New(),
			CompanyID: companyA,
			Role:      identity.RoleDriver,
			DriverID:  &driverOne,
		})

		var loads []models.LoadModel
		err := db.Scopes(filter.LoadScope()).Find(&loads).Error
		require.NoError(t, err)
		require.Len(t, loads, 1)
		assert.Equal(t, "L-1001", loads[0].LoadNumber)
	})

	t.Run("driver account without linked driver sees nothing", func(t *testing.T) {
		filter := NewFilter(&identity.SecurityContext{
			UserID:    uuid.New(),
			CompanyID: companyA,
			Role:      identity.RoleDriver,
		})

		var loads []models.LoadModel
		err := db.Scopes(filter.LoadScope()).Find(&loads).Error
		require.NoError(t, err)
		assert.Empty(t, loads)
	})

	t.Run("customer sees only tendered loads", func(t *testing.T) {
		filter := NewFilter(&identity.SecurityContext{
			UserID:     uuid.New(),
			CompanyID:  companyA,
			Role:       identity.RoleCustomer,
			CustomerID: &customerB,
		})

		var loads []models.LoadModel
		err := db.Scopes(filter.LoadScope()).Find(&loads).Error
		require.NoError(t, err)
		require.Len(t, loads, 1)
		assert.Equal(t, "L-1003", loads[0].LoadNumber)
	})

	t.Run("superuser sees across companies", func(t *testing.T) {
		filter := NewFilter(&identity.SecurityContext{
			UserID:    uuid.New(),
			CompanyID: companyA,
			Role:      identity.RoleCompanyAdmin,
			Superuser: true,
		})

		var loads []models.LoadModel
		err := db.Scopes(filter.LoadScope()).Find(&loads).Error
		require.NoError(t, err)
		assert.Len(t, loads, 4)
	})
}

func seedUser(t *testing.T, db *gorm.DB, companyID uuid.UUID, email, username string) uuid.UUID {
	t.Helper()
	m := &models.UserModel{}
	m.ID = uuid.New()
	m.CompanyID = companyID
	m.Email = email
	m.Username = username
	m.PasswordHash = "x"
	m.Role = "dispatcher"
	m.Active = true
	require.NoError(t, db.Create(m).Error)
	return m.ID
}

func TestUserScope(t *testing.T) {
	db := setupScopeTestDB(t)

	companyA := uuid.New()
	companyB := uuid.New()

	selfID := seedUser(t, db, companyA, "self@example.com", "self")
	seedUser(t, db, companyA, "peer@example.com", "peer")
	seedUser(t, db, companyB, "other@example.com", "other")

	t.Run("company admin sees every company account", func(t *testing.T) {
		filter := NewFilter(&identity.SecurityContext{
			UserID:    uuid.New(),
			CompanyID: companyA,
			Role:      identity.RoleCompanyAdmin,
		})

		var users []models.UserModel
		err := db.Scopes(filter.UserScope()).Find(&users).Error
		require.NoError(t, err)
		assert.Len(t, users, 2)
	})

	t.Run("non-admin sees only their own row", func(t *testing.T) {
		filter := NewFilter(&identity.SecurityContext{
			UserID:    selfID,
			CompanyID: companyA,
			Role:      identity.RoleDispatcher,
		})

		var users []models.UserModel
		err := db.Scopes(filter.UserScope()).Find(&users).Error
		require.NoError(t, err)
		require.Len(t, users, 1)
		assert.Equal(t, selfID, users[0].ID)
	})

	t.Run("superuser sees across companies", func(t *testing.T) {
		filter := NewFilter(&identity.SecurityContext{
			UserID:    uuid.New(),
			CompanyID: companyA,
			Role:      identity.RoleCompanyAdmin,
			Superuser: true,
		})

		var users []models.UserModel
		err := db.Scopes(filter.UserScope()).Find(&users).Error
		require.NoError(t, err)
		assert.Len(t, users, 3)
	})
}

func TestCustomerScope(t *testing.T) {
	db := setupScopeTestDB(t)

	companyA := uuid.New()
	linkedID := uuid.New()

	for _, c := range []struct {
		id   uuid.UUID
		name string
	}{
		{linkedID, "Acme Produce"},
		{uuid.New(), "Great Lakes Steel"},
	} {
		m := &models.CustomerModel{}
		m.ID = c.id
		m.CompanyID = companyA
		m.Name = c.name
		m.Active = true
		require.NoError(t, db.Create(m).Error)
	}

	t.Run("dispatcher sees all company customers", func(t *testing.T) {
		filter := NewFilter(dispatcherContext(companyA))

		var customers []models.CustomerModel
		err := db.Scopes(filter.CustomerScope()).Find(&customers).Error
		require.NoError(t, err)
		assert.Len(t, customers, 2)
	})

	t.Run("customer portal account sees only its linked row", func(t *testing.T) {
		filter := NewFilter(&identity.SecurityContext{
			UserID:     uuid.New(),
			CompanyID:  companyA,
			Role:       identity.RoleCustomer,
			CustomerID: &linkedID,
		})

		var customers []models.CustomerModel
		err := db.Scopes(filter.CustomerScope()).Find(&customers).Error
		require.NoError(t, err)
		require.Len(t, customers, 1)
		assert.Equal(t, linkedID, customers[0].ID)
	})

	t.Run("customer account without linked record sees nothing", func(t *testing.T) {
		filter := NewFilter(&identity.SecurityContext{
			UserID:    uuid.New(),
			CompanyID: companyA,
			Role:      identity.RoleCustomer,
		})

		var customers []models.CustomerModel
		err := db.Scopes(filter.CustomerScope()).Find(&customers).Error
		require.NoError(t, err)
		assert.Empty(t, customers)
	})
}

func TestInvoiceScope(t *testing.T) {
	db := setupScopeTestDB(t)

	companyA := uuid.New()
	customerA := uuid.New()
	customerB := uuid.New()
	driverOne := uuid.New()

	loadA := seedLoad(t, db, companyA, customerA, &driverOne, "L-1001")
	loadB := seedLoad(t, db, companyA, customerB, nil, "L-1002")
	seedInvoice(t, db, companyA, loadA, customerA, "INV-1001")
	seedInvoice(t, db, companyA, loadB, customerB, "INV-1002")

	t.Run("dispatcher sees all company invoices", func(t *testing.T) {
		filter := NewFilter(dispatcherContext(companyA))

		var invoices []models.InvoiceModel
		err := db.Scopes(filter.InvoiceScope()).Find(&invoices).Error
		require.NoError(t, err)
		assert.Len(t, invoices, 2)
	})

	t.Run("customer invoice visibility follows the load", func(t *testing.T) {
		filter := NewFilter(&identity.SecurityContext{
			UserID:     uuid.New(),
			CompanyID:  companyA,
			Role:       identity.RoleCustomer,
			CustomerID: &customerA,
		})

		var invoices []models.InvoiceModel
		err := db.Scopes(filter.InvoiceScope()).Find(&invoices).Error
		require.NoError(t, err)
		require.Len(t, invoices, 1)
		assert.Equal(t, "INV-1001", invoices[0].InvoiceNumber)
	})

	t.Run("driver invoice visibility follows the load", func(t *testing.T) {
		filter := NewFilter(&identity.SecurityContext{
			UserID:    uuid.New(),
			CompanyID: companyA,
			Role:      identity.RoleDriver,
			DriverID:  &driverOne,
		})

		var invoices []models.InvoiceModel
		err := db.Scopes(filter.InvoiceScope()).Find(&invoices).Error
		require.NoError(t, err)
		require.Len(t, invoices, 1)
		assert.Equal(t, "INV-1001", invoices[0].InvoiceNumber)
	})

	t.Run("customer without linked record sees nothing", func(t *testing.T) {
		filter := NewFilter(&identity.SecurityContext{
			UserID:    uuid.New(),
			CompanyID: companyA,
			Role:      identity.RoleCustomer,
		})

		var invoices []models.InvoiceModel
		err := db.Scopes(filter.InvoiceScope()).Find(&invoices).Error
		require.NoError(t, err)
		assert.Empty(t, invoices)
	})
}
