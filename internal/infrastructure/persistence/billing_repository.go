package persistence

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/haulstack/tms/internal/domain/billing"
	"github.com/haulstack/tms/internal/domain/shared"
	"github.com/haulstack/tms/internal/infrastructure/persistence/datascope"
	"github.com/haulstack/tms/internal/infrastructure/persistence/models"
)

// GormInvoiceRepository implements billing.InvoiceRepository using GORM.
// Invoice visibility follows the load behind the invoice, so reads go
// through the invoice scope rather than the plain company scope.
type GormInvoiceRepository struct {
	db *gorm.DB
}

// NewGormInvoiceRepository creates a new GormInvoiceRepository
func NewGormInvoiceRepository(db *gorm.DB) *GormInvoiceRepository {
	return &GormInvoiceRepository{db: db}
}

// Save persists a new invoice
func (r *GormInvoiceRepository) Save(ctx context.Context, invoice *billing.Invoice) error {
	model := models.InvoiceModelFromDomain(invoice)
	return r.db.WithContext(ctx).Create(model).Error
}

// Update persists changes to an existing invoice
func (r *GormInvoiceRepository) Update(ctx context.Context, invoice *billing.Invoice) error {
	model := models.InvoiceModelFromDomain(invoice)
	result := r.db.WithContext(ctx).Model(&models.InvoiceModel{}).
		Scopes(datascope.FromContext(ctx).InvoiceScope()).
		Where("id = ?", invoice.ID).
		Select("*").Omit("id", "company_id", "created_at").
		Updates(model)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// FindByID finds an invoice by ID within the caller's scope
func (r *GormInvoiceRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.Invoice, error) {
	var model models.InvoiceModel
	if err := r.db.WithContext(ctx).
		Scopes(datascope.FromContext(ctx).InvoiceScope()).
		First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByLoad finds the invoice raised for a load within the caller's scope
func (r *GormInvoiceRepository) FindByLoad(ctx context.Context, loadID uuid.UUID) (*billing.Invoice, error) {
	var model models.InvoiceModel
	if err := r.db.WithContext(ctx).
		Scopes(datascope.FromContext(ctx).InvoiceScope()).
		First(&model, "load_id = ?", loadID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll lists invoices within the caller's scope
func (r *GormInvoiceRepository) FindAll(ctx context.Context, filter shared.Filter) ([]*billing.Invoice, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.InvoiceModel{}).
		Scopes(datascope.FromContext(ctx).InvoiceScope())

	if filter.Search != "" {
		like := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where("LOWER(invoice_number) LIKE ?", like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var invoiceModels []models.InvoiceModel
	if err := query.Scopes(paginate(filter)).Find(&invoiceModels).Error; err != nil {
		return nil, 0, err
	}

	invoices := make([]*billing.Invoice, len(invoiceModels))
	for i := range invoiceModels {
		invoices[i] = invoiceModels[i].ToDomain()
	}
	return invoices, total, nil
}

// FindOverdue lists sent invoices past their due date for a company
func (r *GormInvoiceRepository) FindOverdue(ctx context.Context, companyID uuid.UUID, asOf time.Time) ([]*billing.Invoice, error) {
	var invoiceModels []models.InvoiceModel
	if err := r.db.WithContext(ctx).
		Where("company_id = ? AND status = ? AND due_at < ?", companyID, billing.InvoiceStatusSent, asOf).
		Order("due_at ASC").
		Find(&invoiceModels).Error; err != nil {
		return nil, err
	}

	invoices := make([]*billing.Invoice, len(invoiceModels))
	for i := range invoiceModels {
		invoices[i] = invoiceModels[i].ToDomain()
	}
	return invoices, nil
}

// Delete removes an invoice within the caller's scope
func (r *GormInvoiceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Scopes(datascope.FromContext(ctx).InvoiceScope()).
		Delete(&models.InvoiceModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// GormExpenseRepository implements billing.ExpenseRepository using GORM.
type GormExpenseRepository struct {
	db *gorm.DB
}

// NewGormExpenseRepository creates a new GormExpenseRepository
func NewGormExpenseRepository(db *gorm.DB) *GormExpenseRepository {
	return &GormExpenseRepository{db: db}
}

// Save persists a new expense
func (r *GormExpenseRepository) Save(ctx context.Context, expense *billing.Expense) error {
	model := models.ExpenseModelFromDomain(expense)
	return r.db.WithContext(ctx).Create(model).Error
}

// Update persists changes to an existing expense
func (r *GormExpenseRepository) Update(ctx context.Context, expense *billing.Expense) error {
	model := models.ExpenseModelFromDomain(expense)
	result := r.db.WithContext(ctx).Model(&models.ExpenseModel{}).
		Scopes(datascope.FromContext(ctx).CompanyScope()).
		Where("id = ?", expense.ID).
		Select("*").Omit("id", "company_id", "created_at").
		Updates(model)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// FindByID finds an expense by ID within the caller's scope
func (r *GormExpenseRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.Expense, error) {
	var model models.ExpenseModel
	if err := r.db.WithContext(ctx).
		Scopes(datascope.FromContext(ctx).CompanyScope()).
		First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll lists expenses within the caller's scope
func (r *GormExpenseRepository) FindAll(ctx context.Context, filter shared.Filter) ([]*billing.Expense, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.ExpenseModel{}).
		Scopes(datascope.FromContext(ctx).CompanyScope())

	if filter.Search != "" {
		like := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where("LOWER(category) LIKE ? OR LOWER(description) LIKE ?", like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var expenseModels []models.ExpenseModel
	if err := query.Scopes(paginate(filter)).Find(&expenseModels).Error; err != nil {
		return nil, 0, err
	}

	expenses := make([]*billing.Expense, len(expenseModels))
	for i := range expenseModels {
		expenses[i] = expenseModels[i].ToDomain()
	}
	return expenses, total, nil
}

// SumByCategory totals expenses per category for a company over a period
func (r *GormExpenseRepository) SumByCategory(ctx context.Context, companyID uuid.UUID, from, to time.Time) (map[billing.ExpenseCategory]decimal.Decimal, error) {
	type row struct {
		Category string
		Total    decimal.Decimal
	}

	var rows []row
	if err := r.db.WithContext(ctx).Model(&models.ExpenseModel{}).
		Select("category, SUM(amount) AS total").
		Where("company_id = ? AND incurred_at >= ? AND incurred_at < ?", companyID, from, to).
		Group("category").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	totals := make(map[billing.ExpenseCategory]decimal.Decimal, len(rows))
	for _, row := range rows {
		totals[billing.ExpenseCategory(row.Category)] = row.Total
	}
	return totals, nil
}

// Delete removes an expense within the caller's scope
func (r *GormExpenseRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Scopes(datascope.FromContext(ctx).CompanyScope()).
		Delete(&models.ExpenseModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// GormFuelRepository implements billing.FuelRepository using GORM.
type GormFuelRepository struct {
	db *gorm.DB
}

// NewGormFuelRepository creates a new GormFuelRepository
func NewGormFuelRepository(db *gorm.DB) *GormFuelRepository {
	return &GormFuelRepository{db: db}
}

// Save persists a new fuel entry
func (r *GormFuelRepository) Save(ctx context.Context, entry *billing.FuelEntry) error {
	model := models.FuelEntryModelFromDomain(entry)
	return r.db.WithContext(ctx).Create(model).Error
}

// Update persists changes to an existing fuel entry
func (r *GormFuelRepository) Update(ctx context.Context, entry *billing.FuelEntry) error {
	model := models.FuelEntryModelFromDomain(entry)
	result := r.db.WithContext(ctx).Model(&models.FuelEntryModel{}).
		Scopes(datascope.FromContext(ctx).CompanyScope()).
		Where("id = ?", entry.ID).
		Select("*").Omit("id", "company_id", "created_at").
		Updates(model)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// FindByID finds a fuel entry by ID within the caller's scope
func (r *GormFuelRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.FuelEntry, error) {
	var model models.FuelEntryModel
	if err := r.db.WithContext(ctx).
		Scopes(datascope.FromContext(ctx).CompanyScope()).
		First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll lists fuel entries within the caller's scope
func (r *GormFuelRepository) FindAll(ctx context.Context, filter shared.Filter) ([]*billing.FuelEntry, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.FuelEntryModel{}).
		Scopes(datascope.FromContext(ctx).CompanyScope())

	if filter.Search != "" {
		like := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where("LOWER(location) LIKE ? OR LOWER(state) LIKE ?", like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var fuelModels []models.FuelEntryModel
	if err := query.Scopes(paginate(filter)).Find(&fuelModels).Error; err != nil {
		return nil, 0, err
	}

	entries := make([]*billing.FuelEntry, len(fuelModels))
	for i := range fuelModels {
		entries[i] = fuelModels[i].ToDomain()
	}
	return entries, total, nil
}

// SumByState totals gallons purchased per state for a company over a
// period. Feeds quarterly IFTA reporting.
func (r *GormFuelRepository) SumByState(ctx context.Context, companyID uuid.UUID, from, to time.Time) (map[string]decimal.Decimal, error) {
	type row struct {
		State   string
		Gallons decimal.Decimal
	}

	var rows []row
	if err := r.db.WithContext(ctx).Model(&models.FuelEntryModel{}).
		Select("state, SUM(gallons) AS gallons").
		Where("company_id = ? AND purchased_at >= ? AND purchased_at < ?", companyID, from, to).
		Group("state").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	totals := make(map[string]decimal.Decimal, len(rows))
	for _, row := range rows {
		totals[row.State] = row.Gallons
	}
	return totals, nil
}

// Delete removes a fuel entry within the caller's scope
func (r *GormFuelRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Scopes(datascope.FromContext(ctx).CompanyScope()).
		Delete(&models.FuelEntryModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// GormPayrollRepository implements billing.PayrollRepository using GORM.
type GormPayrollRepository struct {
	db *gorm.DB
}

// NewGormPayrollRepository creates a new GormPayrollRepository
func NewGormPayrollRepository(db *gorm.DB) *GormPayrollRepository {
	return &GormPayrollRepository{db: db}
}

// Save persists a new payroll record
func (r *GormPayrollRepository) Save(ctx context.Context, payroll *billing.Payroll) error {
	model := models.PayrollModelFromDomain(payroll)
	return r.db.WithContext(ctx).Create(model).Error
}

// Update persists changes to an existing payroll record
func (r *GormPayrollRepository) Update(ctx context.Context, payroll *billing.Payroll) error {
	model := models.PayrollModelFromDomain(payroll)
	result := r.db.WithContext(ctx).Model(&models.PayrollModel{}).
		Scopes(datascope.FromContext(ctx).CompanyScope()).
		Where("id = ?", payroll.ID).
		Select("*").Omit("id", "company_id", "created_at").
		Updates(model)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// FindByID finds a payroll record by ID within the caller's scope
func (r *GormPayrollRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.Payroll, error) {
	var model models.PayrollModel
	if err := r.db.WithContext(ctx).
		Scopes(datascope.FromContext(ctx).CompanyScope()).
		First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByDriver lists payroll records for a driver within the caller's scope
func (r *GormPayrollRepository) FindByDriver(ctx context.Context, driverID uuid.UUID, filter shared.Filter) ([]*billing.Payroll, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.PayrollModel{}).
		Scopes(datascope.FromContext(ctx).CompanyScope()).
		Where("driver_id = ?", driverID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var payrollModels []models.PayrollModel
	if err := query.Scopes(paginate(filter)).Find(&payrollModels).Error; err != nil {
		return nil, 0, err
	}

	payrolls := make([]*billing.Payroll, len(payrollModels))
	for i := range payrollModels {
		payrolls[i] = payrollModels[i].ToDomain()
	}
	return payrolls, total, nil
}

// FindAll lists payroll records within the caller's scope
func (r *GormPayrollRepository) FindAll(ctx context.Context, filter shared.Filter) ([]*billing.Payroll, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.PayrollModel{}).
		Scopes(datascope.FromContext(ctx).CompanyScope())

	if filter.Search != "" {
		like := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where("LOWER(status) LIKE ?", like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var payrollModels []models.PayrollModel
	if err := query.Scopes(paginate(filter)).Find(&payrollModels).Error; err != nil {
		return nil, 0, err
	}

	payrolls := make([]*billing.Payroll, len(payrollModels))
	for i := range payrollModels {
		payrolls[i] = payrollModels[i].ToDomain()
	}
	return payrolls, total, nil
}

// ExistsForPeriod reports whether a driver already has a settlement
// overlapping the given pay period
func (r *GormPayrollRepository) ExistsForPeriod(ctx context.Context, driverID uuid.UUID, periodStart, periodEnd time.Time) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.PayrollModel{}).
		Where("driver_id = ? AND period_start <= ? AND period_end >= ?", driverID, periodEnd, periodStart).
		Count(&count).Error
	return count > 0, err
}

// Delete removes a payroll record within the caller's scope
func (r *GormPayrollRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Scopes(datascope.FromContext(ctx).CompanyScope()).
		Delete(&models.PayrollModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

var (
	_ billing.InvoiceRepository = (*GormInvoiceRepository)(nil)
	_ billing.ExpenseRepository = (*GormExpenseRepository)(nil)
	_ billing.FuelRepository    = (*GormFuelRepository)(nil)
	_ billing.PayrollRepository = (*GormPayrollRepository)(nil)
)
