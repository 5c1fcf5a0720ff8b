package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/haulstack/tms/internal/domain/billing"
	"github.com/haulstack/tms/internal/domain/freight"
	"github.com/haulstack/tms/internal/domain/identity"
	"github.com/haulstack/tms/internal/domain/partner"
	"github.com/haulstack/tms/internal/domain/shared"
	"github.com/haulstack/tms/internal/infrastructure/persistence/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.CompanyModel{},
		&models.UserModel{},
		&models.VerificationTokenModel{},
		&models.CustomerModel{},
		&models.DriverModel{},
		&models.TruckModel{},
		&models.LoadModel{},
		&models.StopModel{},
		&models.ShipperModel{},
		&models.ReceiverModel{},
		&models.LaneModel{},
		&models.RateconModel{},
		&models.InvoiceModel{},
		&models.ExpenseModel{},
		&models.FuelEntryModel{},
		&models.PayrollModel{},
	)
	require.NoError(t, err)

	return db
}

// scopedContext returns a context carrying a dispatcher-level security
// context for the given company.
func scopedContext(companyID uuid.UUID) context.Context {
	sctx := &identity.SecurityContext{
		UserID:      uuid.New(),
		CompanyID:   companyID,
		Role:        identity.RoleDispatcher,
		Permissions: identity.PermissionsForRole(identity.RoleDispatcher, nil),
	}
	return identity.WithSecurityContext(context.Background(), sctx)
}

func TestGormCustomerRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormCustomerRepository(db)

	companyA := uuid.New()
	companyB := uuid.New()
	ctxA := scopedContext(companyA)
	ctxB := scopedContext(companyB)

	customer, err := partner.NewCustomer(companyA, "Acme Produce")
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctxA, customer))

	t.Run("round-trips through the store", func(t *testing.T) {
		found, err := repo.FindByID(ctxA, customer.ID)
		require.NoError(t, err)
		assert.Equal(t, "Acme Produce", found.Name)
		assert.Equal(t, companyA, found.CompanyID)
	})

	t.Run("invisible to another company", func(t *testing.T) {
		_, err := repo.FindByID(ctxB, customer.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("update persists deactivation", func(t *testing.T) {
		customer.Deactivate()
		require.NoError(t, repo.Update(ctxA, customer))

		found, err := repo.FindByID(ctxA, customer.ID)
		require.NoError(t, err)
		assert.False(t, found.Active)
	})

	t.Run("update from another company fails", func(t *testing.T) {
		customer.Name = "Hijacked"
		err := repo.Update(ctxB, customer)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("search filters by name", func(t *testing.T) {
		other, err := partner.NewCustomer(companyA, "Bayou Seafood")
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctxA, other))

		filter := shared.DefaultFilter()
		filter.Search = "bayou"
		customers, total, err := repo.FindAll(ctxA, filter)
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		require.Len(t, customers, 1)
		assert.Equal(t, "Bayou Seafood", customers[0].Name)
	})

	t.Run("delete from another company fails", func(t *testing.T) {
		err := repo.Delete(ctxB, customer.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)

		_, err = repo.FindByID(ctxA, customer.ID)
		assert.NoError(t, err)
	})
}

func TestGormLoadRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormLoadRepository(db)

	companyA := uuid.New()
	customerA := uuid.New()
	ctx := scopedContext(companyA)

	newLoad := func(t *testing.T, number string) *freight.Load {
		t.Helper()
		load, err := freight.NewLoad(companyA, customerA, number, decimal.NewFromInt(2400))
		require.NoError(t, err)
		return load
	}

	t.Run("saves and reloads stops in sequence order", func(t *testing.T) {
		load := newLoad(t, "L-1001")
		pickup, err := freight.NewStop(load.ID, freight.StopTypePickup)
		require.NoError(t, err)
		pickup.City = "Chicago"
		load.AddStop(pickup)

		delivery, err := freight.NewStop(load.ID, freight.StopTypeDelivery)
		require.NoError(t, err)
		delivery.City = "Dallas"
		load.AddStop(delivery)

		require.NoError(t, repo.Save(ctx, load))

		found, err := repo.FindByID(ctx, load.ID)
		require.NoError(t, err)
		require.Len(t, found.Stops, 2)
		assert.Equal(t, "Chicago", found.Stops[0].City)
		assert.Equal(t, 1, found.Stops[0].Sequence)
		assert.Equal(t, "Dallas", found.Stops[1].City)
		assert.Equal(t, 2, found.Stops[1].Sequence)
	})

	t.Run("update replaces the stop list", func(t *testing.T) {
		load := newLoad(t, "L-1002")
		stop, err := freight.NewStop(load.ID, freight.StopTypePickup)
		require.NoError(t, err)
		stop.City = "Memphis"
		load.AddStop(stop)
		require.NoError(t, repo.Save(ctx, load))

		load.Stops = nil
		replacement, err := freight.NewStop(load.ID, freight.StopTypePickup)
		require.NoError(t, err)
		replacement.City = "Nashville"
		load.AddStop(replacement)
		require.NoError(t, repo.Update(ctx, load))

		found, err := repo.FindByID(ctx, load.ID)
		require.NoError(t, err)
		require.Len(t, found.Stops, 1)
		assert.Equal(t, "Nashville", found.Stops[0].City)
	})

	t.Run("finds by load number", func(t *testing.T) {
		found, err := repo.FindByNumber(ctx, companyA, "L-1001")
		require.NoError(t, err)
		assert.Equal(t, "L-1001", found.LoadNumber)

		_, err = repo.FindByNumber(ctx, companyA, "L-9999")
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("filters by status", func(t *testing.T) {
		loads, total, err := repo.FindByStatus(ctx, freight.LoadStatusPending, shared.DefaultFilter())
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
		assert.Len(t, loads, 2)

		_, total, err = repo.FindByStatus(ctx, freight.LoadStatusDelivered, shared.DefaultFilter())
		require.NoError(t, err)
		assert.Zero(t, total)
	})

	t.Run("persists charges and document keys", func(t *testing.T) {
		load := newLoad(t, "L-1004")
		load.FuelSurcharge = decimal.NewFromInt(180)
		load.Accessorial = decimal.NewFromInt(45)
		load.AttachPOD("docs/pod-l-1004.pdf")
		load.AttachRatecon("docs/rc-l-1004.pdf")
		require.NoError(t, repo.Save(ctx, load))

		found, err := repo.FindByID(ctx, load.ID)
		require.NoError(t, err)
		assert.True(t, found.FuelSurcharge.Equal(decimal.NewFromInt(180)))
		assert.True(t, found.Accessorial.Equal(decimal.NewFromInt(45)))
		assert.True(t, found.TotalAmount().Equal(decimal.NewFromInt(2625)))
		assert.Equal(t, "docs/pod-l-1004.pdf", found.PODKey)
		assert.Equal(t, "docs/rc-l-1004.pdf", found.RateconKey)
	})

	t.Run("delete removes the load and its stops", func(t *testing.T) {
		load := newLoad(t, "L-1003")
		stop, err := freight.NewStop(load.ID, freight.StopTypePickup)
		require.NoError(t, err)
		load.AddStop(stop)
		require.NoError(t, repo.Save(ctx, load))

		require.NoError(t, repo.Delete(ctx, load.ID))

		_, err = repo.FindByID(ctx, load.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)

		var orphaned int64
		require.NoError(t, db.Model(&models.StopModel{}).Where("load_id = ?", load.ID).Count(&orphaned).Error)
		assert.Zero(t, orphaned)
	})
}

func TestGormInvoiceRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormInvoiceRepository(db)

	companyA := uuid.New()
	customerA := uuid.New()
	loadA := uuid.New()
	ctx := scopedContext(companyA)

	invoice, err := billing.NewInvoice(companyA, loadA, customerA, "INV-1001", decimal.NewFromInt(2400))
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, invoice))

	t.Run("finds by load", func(t *testing.T) {
		found, err := repo.FindByLoad(ctx, loadA)
		require.NoError(t, err)
		assert.Equal(t, "INV-1001", found.InvoiceNumber)

		_, err = repo.FindByLoad(ctx, uuid.New())
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("finds overdue invoices", func(t *testing.T) {
		issued := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)
		require.NoError(t, invoice.Send(issued, 30))
		require.NoError(t, repo.Update(ctx, invoice))

		overdue, err := repo.FindOverdue(ctx, companyA, issued.AddDate(0, 0, 31))
		require.NoError(t, err)
		require.Len(t, overdue, 1)
		assert.Equal(t, "INV-1001", overdue[0].InvoiceNumber)

		overdue, err = repo.FindOverdue(ctx, companyA, issued.AddDate(0, 0, 29))
		require.NoError(t, err)
		assert.Empty(t, overdue)
	})

	t.Run("paid invoices are not overdue", func(t *testing.T) {
		require.NoError(t, invoice.MarkPaid(time.Now()))
		require.NoError(t, repo.Update(ctx, invoice))

		overdue, err := repo.FindOverdue(ctx, companyA, time.Now().AddDate(1, 0, 0))
		require.NoError(t, err)
		assert.Empty(t, overdue)
	})
}

func TestGormFuelRepository_SumByState(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormFuelRepository(db)

	companyA := uuid.New()
	ctx := scopedContext(companyA)
	q1 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	for _, e := range []struct {
		state   string
		gallons string
		at      time.Time
	}{
		{"IL", "120.500", q1.AddDate(0, 0, 10)},
		{"IL", "80.000", q1.AddDate(0, 1, 0)},
		{"TX", "150.250", q1.AddDate(0, 2, 0)},
		{"TX", "90.000", q1.AddDate(0, 4, 0)}, // outside the window
	} {
		entry, err := billing.NewFuelEntry(companyA, e.at, decimal.RequireFromString(e.gallons), decimal.RequireFromString("3.899"), e.state)
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, entry))
	}

	totals, err := repo.SumByState(context.Background(), companyA, q1, q1.AddDate(0, 3, 0))
	require.NoError(t, err)
	require.Len(t, totals, 2)
	assert.True(t, totals["IL"].Equal(decimal.RequireFromString("200.5")), "IL gallons: %s", totals["IL"])
	assert.True(t, totals["TX"].Equal(decimal.RequireFromString("150.25")), "TX gallons: %s", totals["TX"])
}

func TestGormExpenseRepository_SumByCategory(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormExpenseRepository(db)

	companyA := uuid.New()
	ctx := scopedContext(companyA)
	from := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	for _, e := range []struct {
		category billing.ExpenseCategory
		amount   int64
	}{
		{billing.ExpenseCategoryMaintenance, 450},
		{billing.ExpenseCategoryMaintenance, 300},
		{billing.ExpenseCategoryTolls, 62},
	} {
		expense, err := billing.NewExpense(companyA, e.category, decimal.NewFromInt(e.amount), from.AddDate(0, 0, 5))
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, expense))
	}

	totals, err := repo.SumByCategory(context.Background(), companyA, from, from.AddDate(0, 1, 0))
	require.NoError(t, err)
	require.Len(t, totals, 2)
	assert.True(t, totals[billing.ExpenseCategoryMaintenance].Equal(decimal.NewFromInt(750)))
	assert.True(t, totals[billing.ExpenseCategoryTolls].Equal(decimal.NewFromInt(62)))
}

func TestGormPayrollRepository_ExistsForPeriod(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormPayrollRepository(db)

	companyA := uuid.New()
	driverID := uuid.New()
	ctx := scopedContext(companyA)

	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 6)

	payroll, err := billing.NewPayroll(companyA, driverID, start, end)
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, payroll))

	t.Run("round-trips the settlement row", func(t *testing.T) {
		found, err := repo.FindByID(ctx, payroll.ID)
		require.NoError(t, err)
		assert.Equal(t, driverID, found.DriverID)
		assert.True(t, found.PeriodStart.Equal(start))
		assert.True(t, found.PeriodEnd.Equal(end))
		assert.Equal(t, billing.PayrollStatusPending, found.Status)
	})

	t.Run("detects overlapping period", func(t *testing.T) {
		exists, err := repo.ExistsForPeriod(ctx, driverID, start.AddDate(0, 0, 3), end.AddDate(0, 0, 3))
		require.NoError(t, err)
		assert.True(t, exists)
	})

	t.Run("ignores adjacent period", func(t *testing.T) {
		exists, err := repo.ExistsForPeriod(ctx, driverID, end.AddDate(0, 0, 1), end.AddDate(0, 0, 7))
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("ignores other drivers", func(t *testing.T) {
		exists, err := repo.ExistsForPeriod(ctx, uuid.New(), start, end)
		require.NoError(t, err)
		assert.False(t, exists)
	})
}

func TestGormUserRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormUserRepository(db)
	ctx := context.Background()

	companyA := uuid.New()
	user, err := identity.NewUser(companyA, "Dispatch@Example.com", "Taylor.D", "s3cret-pass", identity.RoleDispatcher)
	require.NoError(t, err)
	user.FirstName = "Taylor"
	require.NoError(t, repo.Save(ctx, user))

	t.Run("finds by normalized email", func(t *testing.T) {
		found, err := repo.FindByEmail(ctx, "dispatch@example.com")
		require.NoError(t, err)
		assert.Equal(t, user.ID, found.ID)
	})

	t.Run("finds by either identifier", func(t *testing.T) {
		found, err := repo.FindByIdentifier(ctx, "Taylor.D")
		require.NoError(t, err)
		assert.Equal(t, user.ID, found.ID)

		found, err = repo.FindByIdentifier(ctx, "dispatch@example.com")
		require.NoError(t, err)
		assert.Equal(t, user.ID, found.ID)

		_, err = repo.FindByIdentifier(ctx, "nobody")
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("exists by username", func(t *testing.T) {
		exists, err := repo.ExistsByUsername(ctx, "taylor.d")
		require.NoError(t, err)
		assert.True(t, exists)

		exists, err = repo.ExistsByUsername(ctx, "nobody")
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("exists by email", func(t *testing.T) {
		exists, err := repo.ExistsByEmail(ctx, "dispatch@example.com")
		require.NoError(t, err)
		assert.True(t, exists)

		exists, err = repo.ExistsByEmail(ctx, "nobody@example.com")
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("update persists deactivation", func(t *testing.T) {
		user.Active = false
		require.NoError(t, repo.Update(ctx, user))

		found, err := repo.FindByID(ctx, user.ID)
		require.NoError(t, err)
		assert.False(t, found.Active)
	})

	t.Run("company listing with search", func(t *testing.T) {
		other, err := identity.NewUser(companyA, "driver@example.com", "morgan.k", "s3cret-pass", identity.RoleDriver)
		require.NoError(t, err)
		other.FirstName = "Morgan"
		require.NoError(t, repo.Save(ctx, other))

		adminCtx := identity.WithSecurityContext(context.Background(), &identity.SecurityContext{
			UserID:    uuid.New(),
			CompanyID: companyA,
			Role:      identity.RoleCompanyAdmin,
		})

		filter := shared.DefaultFilter()
		filter.Search = "taylor"
		users, total, err := repo.FindByCompany(adminCtx, companyA, filter)
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		require.Len(t, users, 1)
		assert.Equal(t, "Taylor", users[0].FirstName)
	})

	t.Run("non-admin listing returns only the caller", func(t *testing.T) {
		selfCtx := identity.WithSecurityContext(context.Background(), &identity.SecurityContext{
			UserID:    user.ID,
			CompanyID: companyA,
			Role:      identity.RoleDispatcher,
		})

		users, total, err := repo.FindByCompany(selfCtx, companyA, shared.DefaultFilter())
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		require.Len(t, users, 1)
		assert.Equal(t, user.ID, users[0].ID)
	})

	t.Run("custom role pages round-trip", func(t *testing.T) {
		custom, err := identity.NewUser(companyA, "ops@example.com", "ops", "s3cret-pass", identity.RoleCustom)
		require.NoError(t, err)
		require.NoError(t, custom.SetRole(identity.RoleCustom, []identity.Page{identity.PageLoads, identity.PageInvoices}))
		require.NoError(t, repo.Save(ctx, custom))

		found, err := repo.FindByID(ctx, custom.ID)
		require.NoError(t, err)
		assert.ElementsMatch(t, []identity.Page{identity.PageLoads, identity.PageInvoices}, found.AllowedPages)
	})
}

func TestGormVerificationTokenRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormVerificationTokenRepository(db)
	ctx := context.Background()

	userID := uuid.New()
	token, err := identity.NewVerificationToken(userID)
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, token))

	t.Run("finds by token value", func(t *testing.T) {
		found, err := repo.FindByToken(ctx, token.Token)
		require.NoError(t, err)
		assert.Equal(t, userID, found.UserID)

		_, err = repo.FindByToken(ctx, "bogus")
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("consume persists", func(t *testing.T) {
		require.NoError(t, token.Consume(time.Now()))
		require.NoError(t, repo.Update(ctx, token))

		found, err := repo.FindByToken(ctx, token.Token)
		require.NoError(t, err)
		assert.True(t, found.Used)
	})

	t.Run("delete by user clears tokens", func(t *testing.T) {
		require.NoError(t, repo.DeleteByUser(ctx, userID))

		_, err := repo.FindByToken(ctx, token.Token)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}
