package billing

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/haulstack/tms/internal/domain/billing"
)

// =============================================================================
// Invoice DTOs
// =============================================================================

// CreateInvoiceRequest represents a request to invoice a delivered load
type CreateInvoiceRequest struct {
	LoadID        uuid.UUID        `json:"load_id" binding:"required"`
	InvoiceNumber string           `json:"invoice_number" binding:"required,min=1,max=50"`
	Amount        *decimal.Decimal `json:"amount"` // defaults to the load rate
	Notes         string           `json:"notes"`
}

// SendInvoiceRequest issues an invoice. NetDays defaults to the customer's
// payment term when omitted.
type SendInvoiceRequest struct {
	NetDays *int `json:"net_days" binding:"omitempty,min=0,max=365"`
}

// InvoiceListFilter represents filter options for invoice listings
type InvoiceListFilter struct {
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir"`
	Search   string `form:"search"`
}

// InvoiceResponse represents an invoice in API responses
type InvoiceResponse struct {
	ID            uuid.UUID       `json:"id"`
	CompanyID     uuid.UUID       `json:"company_id"`
	InvoiceNumber string          `json:"invoice_number"`
	LoadID        uuid.UUID       `json:"load_id"`
	CustomerID    uuid.UUID       `json:"customer_id"`
	Amount        decimal.Decimal `json:"amount"`
	Status        string          `json:"status"`
	IssuedAt      *time.Time      `json:"issued_at,omitempty"`
	DueAt         *time.Time      `json:"due_at,omitempty"`
	PaidAt        *time.Time      `json:"paid_at,omitempty"`
	DocumentKey   string          `json:"document_key,omitempty"`
	Notes         string          `json:"notes,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// InvoiceListResult represents a paginated invoice list
type InvoiceListResult struct {
	Invoices []InvoiceResponse `json:"invoices"`
	Total    int64             `json:"total"`
	Page     int               `json:"page"`
	PageSize int               `json:"page_size"`
}

// InvoicePDFResult contains a rendered invoice document
type InvoicePDFResult struct {
	DocumentKey string `json:"document_key"`
	Data        []byte `json:"-"`
	ContentType string `json:"-"`
}

// ToInvoiceResponse converts a domain invoice to its API representation
func ToInvoiceResponse(i *billing.Invoice) InvoiceResponse {
	return InvoiceResponse{
		ID:            i.ID,
		CompanyID:     i.CompanyID,
		InvoiceNumber: i.InvoiceNumber,
		LoadID:        i.LoadID,
		CustomerID:    i.CustomerID,
		Amount:        i.Amount,
		Status:        string(i.Status),
		IssuedAt:      i.IssuedAt,
		DueAt:         i.DueAt,
		PaidAt:        i.PaidAt,
		DocumentKey:   i.DocumentKey,
		Notes:         i.Notes,
		CreatedAt:     i.CreatedAt,
		UpdatedAt:     i.UpdatedAt,
	}
}

// =============================================================================
// Expense DTOs
// =============================================================================

// CreateExpenseRequest represents a request to record an expense
type CreateExpenseRequest struct {
	Category    string          `json:"category" binding:"required,oneof=maintenance repair insurance tolls permits parking other"`
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	IncurredAt  time.Time       `json:"incurred_at" binding:"required"`
	TruckID     *uuid.UUID      `json:"truck_id"`
	DriverID    *uuid.UUID      `json:"driver_id"`
	Description string          `json:"description" binding:"max=500"`
	ReceiptKey  string          `json:"receipt_key" binding:"max=500"`
}

// UpdateExpenseRequest represents a request to update an expense
type UpdateExpenseRequest struct {
	Category    *string          `json:"category" binding:"omitempty,oneof=maintenance repair insurance tolls permits parking other"`
	Amount      *decimal.Decimal `json:"amount"`
	IncurredAt  *time.Time       `json:"incurred_at"`
	TruckID     *uuid.UUID       `json:"truck_id"`
	DriverID    *uuid.UUID       `json:"driver_id"`
	Description *string          `json:"description" binding:"omitempty,max=500"`
	ReceiptKey  *string          `json:"receipt_key" binding:"omitempty,max=500"`
}

// ExpenseListFilter represents filter options for expense listings
type ExpenseListFilter struct {
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir"`
	Search   string `form:"search"`
}

// ExpenseSummaryFilter bounds an expense roll-up to a half-open time window
type ExpenseSummaryFilter struct {
	From time.Time `form:"from" binding:"required" time_format:"2006-01-02"`
	To   time.Time `form:"to" binding:"required" time_format:"2006-01-02"`
}

// ExpenseResponse represents an expense in API responses
type ExpenseResponse struct {
	ID          uuid.UUID       `json:"id"`
	CompanyID   uuid.UUID       `json:"company_id"`
	Category    string          `json:"category"`
	Amount      decimal.Decimal `json:"amount"`
	IncurredAt  time.Time       `json:"incurred_at"`
	TruckID     *uuid.UUID      `json:"truck_id,omitempty"`
	DriverID    *uuid.UUID      `json:"driver_id,omitempty"`
	Description string          `json:"description,omitempty"`
	ReceiptKey  string          `json:"receipt_key,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// ExpenseListResult represents a paginated expense list
type ExpenseListResult struct {
	Expenses []ExpenseResponse `json:"expenses"`
	Total    int64             `json:"total"`
	Page     int               `json:"page"`
	PageSize int               `json:"page_size"`
}

// ExpenseSummaryResult is a per-category roll-up over a time window
type ExpenseSummaryResult struct {
	From       time.Time                  `json:"from"`
	To         time.Time                  `json:"to"`
	ByCategory map[string]decimal.Decimal `json:"by_category"`
	Total      decimal.Decimal            `json:"total"`
}

// ToExpenseResponse converts a domain expense to its API representation
func ToExpenseResponse(e *billing.Expense) ExpenseResponse {
	return ExpenseResponse{
		ID:          e.ID,
		CompanyID:   e.CompanyID,
		Category:    string(e.Category),
		Amount:      e.Amount,
		IncurredAt:  e.IncurredAt,
		TruckID:     e.TruckID,
		DriverID:    e.DriverID,
		Description: e.Description,
		ReceiptKey:  e.ReceiptKey,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}

// =============================================================================
// Fuel DTOs
// =============================================================================

// CreateFuelEntryRequest represents a request to record a fuel purchase
type CreateFuelEntryRequest struct {
	PurchasedAt    time.Time       `json:"purchased_at" binding:"required"`
	Gallons        decimal.Decimal `json:"gallons" binding:"required"`
	PricePerGallon decimal.Decimal `json:"price_per_gallon" binding:"required"`
	State          string          `json:"state" binding:"required,max=2"`
	Location       string          `json:"location" binding:"max=200"`
	DriverID       *uuid.UUID      `json:"driver_id"`
	TruckID        *uuid.UUID      `json:"truck_id"`
	Odometer       int64           `json:"odometer" binding:"omitempty,min=0"`
	ReceiptKey     string          `json:"receipt_key" binding:"max=500"`
}

// UpdateFuelEntryRequest represents a request to update a fuel purchase
type UpdateFuelEntryRequest struct {
	PurchasedAt    *time.Time       `json:"purchased_at"`
	Gallons        *decimal.Decimal `json:"gallons"`
	PricePerGallon *decimal.Decimal `json:"price_per_gallon"`
	State          *string          `json:"state" binding:"omitempty,max=2"`
	Location       *string          `json:"location" binding:"omitempty,max=200"`
	DriverID       *uuid.UUID       `json:"driver_id"`
	TruckID        *uuid.UUID       `json:"truck_id"`
	Odometer       *int64           `json:"odometer" binding:"omitempty,min=0"`
	ReceiptKey     *string          `json:"receipt_key" binding:"omitempty,max=500"`
}

// FuelListFilter represents filter options for fuel listings
type FuelListFilter struct {
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir"`
	Search   string `form:"search"`
}

// FuelSummaryFilter bounds a gallons-by-state roll-up to a time window
type FuelSummaryFilter struct {
	From time.Time `form:"from" binding:"required" time_format:"2006-01-02"`
	To   time.Time `form:"to" binding:"required" time_format:"2006-01-02"`
}

// FuelEntryResponse represents a fuel purchase in API responses
type FuelEntryResponse struct {
	ID             uuid.UUID       `json:"id"`
	CompanyID      uuid.UUID       `json:"company_id"`
	PurchasedAt    time.Time       `json:"purchased_at"`
	Gallons        decimal.Decimal `json:"gallons"`
	PricePerGallon decimal.Decimal `json:"price_per_gallon"`
	Total          decimal.Decimal `json:"total"`
	State          string          `json:"state"`
	Location       string          `json:"location,omitempty"`
	DriverID       *uuid.UUID      `json:"driver_id,omitempty"`
	TruckID        *uuid.UUID      `json:"truck_id,omitempty"`
	Odometer       int64           `json:"odometer,omitempty"`
	ReceiptKey     string          `json:"receipt_key,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// FuelListResult represents a paginated fuel purchase list
type FuelListResult struct {
	Entries  []FuelEntryResponse `json:"entries"`
	Total    int64               `json:"total"`
	Page     int                 `json:"page"`
	PageSize int                 `json:"page_size"`
}

// FuelSummaryResult is a gallons-by-state roll-up, the IFTA input
type FuelSummaryResult struct {
	From    time.Time                  `json:"from"`
	To      time.Time                  `json:"to"`
	ByState map[string]decimal.Decimal `json:"by_state"`
}

// ToFuelEntryResponse converts a domain fuel entry to its API representation
func ToFuelEntryResponse(f *billing.FuelEntry) FuelEntryResponse {
	return FuelEntryResponse{
		ID:             f.ID,
		CompanyID:      f.CompanyID,
		PurchasedAt:    f.PurchasedAt,
		Gallons:        f.Gallons,
		PricePerGallon: f.PricePerGallon,
		Total:          f.Total,
		State:          f.State,
		Location:       f.Location,
		DriverID:       f.DriverID,
		TruckID:        f.TruckID,
		Odometer:       f.Odometer,
		ReceiptKey:     f.ReceiptKey,
		CreatedAt:      f.CreatedAt,
		UpdatedAt:      f.UpdatedAt,
	}
}

// =============================================================================
// Payroll DTOs
// =============================================================================

// CreatePayrollRequest computes a pay statement for a driver over a period
type CreatePayrollRequest struct {
	DriverID    uuid.UUID        `json:"driver_id" binding:"required"`
	PeriodStart time.Time        `json:"period_start" binding:"required"`
	PeriodEnd   time.Time        `json:"period_end" binding:"required"`
	GrossPay    *decimal.Decimal `json:"gross_pay"` // required for hourly and salary drivers
	Deductions  *decimal.Decimal `json:"deductions"`
	Notes       string           `json:"notes"`
}

// PayrollListFilter represents filter options for payroll listings
type PayrollListFilter struct {
	Page     int        `form:"page"`
	PageSize int        `form:"page_size"`
	OrderBy  string     `form:"order_by"`
	OrderDir string     `form:"order_dir"`
	DriverID *uuid.UUID `form:"driver_id"`
}

// PayrollResponse represents a pay statement in API responses
type PayrollResponse struct {
	ID          uuid.UUID       `json:"id"`
	CompanyID   uuid.UUID       `json:"company_id"`
	DriverID    uuid.UUID       `json:"driver_id"`
	PeriodStart time.Time       `json:"period_start"`
	PeriodEnd   time.Time       `json:"period_end"`
	TotalLoads  int             `json:"total_loads"`
	TotalMiles  int             `json:"total_miles"`
	GrossPay    decimal.Decimal `json:"gross_pay"`
	Deductions  decimal.Decimal `json:"deductions"`
	CheckAmount decimal.Decimal `json:"check_amount"`
	Status      string          `json:"status"`
	PaidAt      *time.Time      `json:"paid_at,omitempty"`
	Notes       string          `json:"notes,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// PayrollListResult represents a paginated payroll list
type PayrollListResult struct {
	Payrolls []PayrollResponse `json:"payrolls"`
	Total    int64             `json:"total"`
	Page     int               `json:"page"`
	PageSize int               `json:"page_size"`
}

// ToPayrollResponse converts a domain payroll to its API representation
func ToPayrollResponse(p *billing.Payroll) PayrollResponse {
	return PayrollResponse{
		ID:          p.ID,
		CompanyID:   p.CompanyID,
		DriverID:    p.DriverID,
		PeriodStart: p.PeriodStart,
		PeriodEnd:   p.PeriodEnd,
		TotalLoads:  p.TotalLoads,
		TotalMiles:  p.TotalMiles,
		GrossPay:    p.GrossPay,
		Deductions:  p.Deductions,
		CheckAmount: p.CheckAmount,
		Status:      string(p.Status),
		PaidAt:      p.PaidAt,
		Notes:       p.Notes,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}
