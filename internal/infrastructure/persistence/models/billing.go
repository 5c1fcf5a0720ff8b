package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/haulstack/tms/internal/domain/billing"
)

// InvoiceModel is the persistence model for invoices.
type InvoiceModel struct {
	CompanyScopedModel
	InvoiceNumber string          `gorm:"type:varchar(50);not null;index"`
	LoadID        uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex"`
	CustomerID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	Amount        decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0"`
	Status        string          `gorm:"type:varchar(20);not null;default:'draft';index"`
	IssuedAt      *time.Time
	DueAt         *time.Time
	PaidAt        *time.Time
	DocumentKey   string `gorm:"type:varchar(500)"`
	Notes         string `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (InvoiceModel) TableName() string {
	return "invoices"
}

// ToDomain converts the persistence model to a domain Invoice
func (m *InvoiceModel) ToDomain() *billing.Invoice {
	return &billing.Invoice{
		CompanyEntity: m.ToDomainCompanyEntity(),
		InvoiceNumber: m.InvoiceNumber,
		LoadID:        m.LoadID,
		CustomerID:    m.CustomerID,
		Amount:        m.Amount,
		Status:        billing.InvoiceStatus(m.Status),
		IssuedAt:      m.IssuedAt,
		DueAt:         m.DueAt,
		PaidAt:        m.PaidAt,
		DocumentKey:   m.DocumentKey,
		Notes:         m.Notes,
	}
}

// FromDomain populates the persistence model from a domain Invoice
func (m *InvoiceModel) FromDomain(i *billing.Invoice) {
	m.FromDomainCompanyEntity(i.CompanyEntity)
	m.InvoiceNumber = i.InvoiceNumber
	m.LoadID = i.LoadID
	m.CustomerID = i.CustomerID
	m.Amount = i.Amount
	m.Status = string(i.Status)
	m.IssuedAt = i.IssuedAt
	m.DueAt = i.DueAt
	m.PaidAt = i.PaidAt
	m.DocumentKey = i.DocumentKey
	m.Notes = i.Notes
}

// InvoiceModelFromDomain creates a new persistence model from a domain Invoice
func InvoiceModelFromDomain(i *billing.Invoice) *InvoiceModel {
	m := &InvoiceModel{}
	m.FromDomain(i)
	return m
}

// ExpenseModel is the persistence model for expenses.
type ExpenseModel struct {
	CompanyScopedModel
	Category    string          `gorm:"type:varchar(30);not null;index"`
	Amount      decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	IncurredAt  time.Time       `gorm:"not null;index"`
	TruckID     *uuid.UUID      `gorm:"type:uuid;index"`
	DriverID    *uuid.UUID      `gorm:"type:uuid;index"`
	Description string          `gorm:"type:text"`
	ReceiptKey  string          `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (ExpenseModel) TableName() string {
	return "expenses"
}

// ToDomain converts the persistence model to a domain Expense
func (m *ExpenseModel) ToDomain() *billing.Expense {
	return &billing.Expense{
		CompanyEntity: m.ToDomainCompanyEntity(),
		Category:      billing.ExpenseCategory(m.Category),
		Amount:        m.Amount,
		IncurredAt:    m.IncurredAt,
		TruckID:       m.TruckID,
		DriverID:      m.DriverID,
		Description:   m.Description,
		ReceiptKey:    m.ReceiptKey,
	}
}

// FromDomain populates the persistence model from a domain Expense
func (m *ExpenseModel) FromDomain(e *billing.Expense) {
	m.FromDomainCompanyEntity(e.CompanyEntity)
	m.Category = string(e.Category)
	m.Amount = e.Amount
	m.IncurredAt = e.IncurredAt
	m.TruckID = e.TruckID
	m.DriverID = e.DriverID
	m.Description = e.Description
	m.ReceiptKey = e.ReceiptKey
}

// ExpenseModelFromDomain creates a new persistence model from a domain Expense
func ExpenseModelFromDomain(e *billing.Expense) *ExpenseModel {
	m := &ExpenseModel{}
	m.FromDomain(e)
	return m
}

// FuelEntryModel is the persistence model for fuel purchases.
type FuelEntryModel struct {
	CompanyScopedModel
	DriverID       *uuid.UUID      `gorm:"type:uuid;index"`
	TruckID        *uuid.UUID      `gorm:"type:uuid;index"`
	PurchasedAt    time.Time       `gorm:"not null;index"`
	Gallons        decimal.Decimal `gorm:"type:numeric(10,3);not null"`
	PricePerGallon decimal.Decimal `gorm:"type:numeric(10,4);not null"`
	Total          decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	Location       string          `gorm:"type:varchar(200)"`
	State          string          `gorm:"type:varchar(2);not null;index"`
	Odometer       int64           `gorm:"not null;default:0"`
	ReceiptKey     string          `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (FuelEntryModel) TableName() string {
	return "fuel_entries"
}

// ToDomain converts the persistence model to a domain FuelEntry
func (m *FuelEntryModel) ToDomain() *billing.FuelEntry {
	return &billing.FuelEntry{
		CompanyEntity:  m.ToDomainCompanyEntity(),
		DriverID:       m.DriverID,
		TruckID:        m.TruckID,
		PurchasedAt:    m.PurchasedAt,
		Gallons:        m.Gallons,
		PricePerGallon: m.PricePerGallon,
		Total:          m.Total,
		Location:       m.Location,
		State:          m.State,
		Odometer:       m.Odometer,
		ReceiptKey:     m.ReceiptKey,
	}
}

// FromDomain populates the persistence model from a domain FuelEntry
func (m *FuelEntryModel) FromDomain(f *billing.FuelEntry) {
	m.FromDomainCompanyEntity(f.CompanyEntity)
	m.DriverID = f.DriverID
	m.TruckID = f.TruckID
	m.PurchasedAt = f.PurchasedAt
	m.Gallons = f.Gallons
	m.PricePerGallon = f.PricePerGallon
	m.Total = f.Total
	m.Location = f.Location
	m.State = f.State
	m.Odometer = f.Odometer
	m.ReceiptKey = f.ReceiptKey
}

// FuelEntryModelFromDomain creates a new persistence model from a domain FuelEntry
func FuelEntryModelFromDomain(f *billing.FuelEntry) *FuelEntryModel {
	m := &FuelEntryModel{}
	m.FromDomain(f)
	return m
}

// PayrollModel is the persistence model for driver settlements.
type PayrollModel struct {
	CompanyScopedModel
	DriverID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	PeriodStart time.Time       `gorm:"not null"`
	PeriodEnd   time.Time       `gorm:"not null"`
	TotalLoads  int             `gorm:"not null;default:0"`
	TotalMiles  int             `gorm:"not null;default:0"`
	GrossPay    decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0"`
	Deductions  decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0"`
	CheckAmount decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0"`
	Status      string          `gorm:"type:varchar(20);not null;default:'pending';index"`
	PaidAt      *time.Time
	Notes       string `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (PayrollModel) TableName() string {
	return "payrolls"
}

// ToDomain converts the persistence model to a domain Payroll
func (m *PayrollModel) ToDomain() *billing.Payroll {
	return &billing.Payroll{
		CompanyEntity: m.ToDomainCompanyEntity(),
		DriverID:      m.DriverID,
		PeriodStart:   m.PeriodStart,
		PeriodEnd:     m.PeriodEnd,
		TotalLoads:    m.TotalLoads,
		TotalMiles:    m.TotalMiles,
		GrossPay:      m.GrossPay,
		Deductions:    m.Deductions,
		CheckAmount:   m.CheckAmount,
		Status:        billing.PayrollStatus(m.Status),
		PaidAt:        m.PaidAt,
		Notes:         m.Notes,
	}
}

// FromDomain populates the persistence model from a domain Payroll
func (m *PayrollModel) FromDomain(p *billing.Payroll) {
	m.FromDomainCompanyEntity(p.CompanyEntity)
	m.DriverID = p.DriverID
	m.PeriodStart = p.PeriodStart
	m.PeriodEnd = p.PeriodEnd
	m.TotalLoads = p.TotalLoads
	m.TotalMiles = p.TotalMiles
	m.GrossPay = p.GrossPay
	m.Deductions = p.Deductions
	m.CheckAmount = p.CheckAmount
	m.Status = string(p.Status)
	m.PaidAt = p.PaidAt
	m.Notes = p.Notes
}

// PayrollModelFromDomain creates a new persistence model from a domain Payroll
func PayrollModelFromDomain(p *billing.Payroll) *PayrollModel {
	m := &PayrollModel{}
	m.FromDomain(p)
	return m
}
