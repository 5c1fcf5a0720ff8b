package billing

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/haulstack/tms/internal/domain/shared"
)

// ExpenseCategory classifies an operating expense
type ExpenseCategory string

const (
	ExpenseCategoryMaintenance ExpenseCategory = "maintenance"
	ExpenseCategoryRepair      ExpenseCategory = "repair"
	ExpenseCategoryInsurance   ExpenseCategory = "insurance"
	ExpenseCategoryTolls       ExpenseCategory = "tolls"
	ExpenseCategoryPermits     ExpenseCategory = "permits"
	ExpenseCategoryParking     ExpenseCategory = "parking"
	ExpenseCategoryOther       ExpenseCategory = "other"
)

var validExpenseCategories = map[ExpenseCategory]bool{
	ExpenseCategoryMaintenance: true,
	ExpenseCategoryRepair:      true,
	ExpenseCategoryInsurance:   true,
	ExpenseCategoryTolls:       true,
	ExpenseCategoryPermits:     true,
	ExpenseCategoryParking:     true,
	ExpenseCategoryOther:       true,
}

// Expense is an operating cost, optionally tied to a truck or driver
type Expense struct {
	shared.CompanyEntity
	Category    ExpenseCategory
	Amount      decimal.Decimal
	IncurredAt  time.Time
	TruckID     *uuid.UUID
	DriverID    *uuid.UUID
	Description string
	ReceiptKey  string // storage key of the uploaded receipt
}

// NewExpense records an expense
func NewExpense(companyID uuid.UUID, category ExpenseCategory, amount decimal.Decimal, incurredAt time.Time) (*Expense, error) {
	if !validExpenseCategories[category] {
		return nil, shared.NewDomainError("INVALID_INPUT", "Unknown expense category")
	}
	if amount.IsNegative() || amount.IsZero() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Expense amount must be positive")
	}

	return &Expense{
		CompanyEntity: shared.NewCompanyEntity(companyID),
		Category:      category,
		Amount:        amount,
		IncurredAt:    incurredAt,
	}, nil
}

// SetDescription sets the free-text description
func (e *Expense) SetDescription(desc string) {
	e.Description = strings.TrimSpace(desc)
	e.Touch()
}

// AttachReceipt links an uploaded receipt document
func (e *Expense) AttachReceipt(key string) error {
	if key == "" {
		return shared.NewDomainError("INVALID_INPUT", "Receipt key is required")
	}
	e.ReceiptKey = key
	e.Touch()
	return nil
}

// ExpenseRepository defines persistence operations for expenses
type ExpenseRepository interface {
	Save(ctx context.Context, expense *Expense) error
	Update(ctx context.Context, expense *Expense) error
	FindByID(ctx context.Context, id uuid.UUID) (*Expense, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]*Expense, int64, error)
	SumByCategory(ctx context.Context, companyID uuid.UUID, from, to time.Time) (map[ExpenseCategory]decimal.Decimal, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
