package billing

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/haulstack/tms/internal/domain/billing"
	"github.com/haulstack/tms/internal/domain/shared"
)

// ExpenseService handles operating expense tracking
type ExpenseService struct {
	expenseRepo billing.ExpenseRepository
	logger      *zap.Logger
}

// NewExpenseService creates a new expense service
func NewExpenseService(expenseRepo billing.ExpenseRepository, logger *zap.Logger) *ExpenseService {
	return &ExpenseService{expenseRepo: expenseRepo, logger: logger}
}

// Create records an expense for the company
func (s *ExpenseService) Create(ctx context.Context, companyID uuid.UUID, req CreateExpenseRequest) (*ExpenseResponse, error) {
	expense, err := billing.NewExpense(companyID, billing.ExpenseCategory(req.Category), req.Amount, req.IncurredAt)
	if err != nil {
		return nil, err
	}
	expense.TruckID = req.TruckID
	expense.DriverID = req.DriverID
	expense.SetDescription(req.Description)
	if req.ReceiptKey != "" {
		if err := expense.AttachReceipt(req.ReceiptKey); err != nil {
			return nil, err
		}
	}

	if err := s.expenseRepo.Save(ctx, expense); err != nil {
		s.logger.Error("Failed to save expense", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL", "Failed to create expense")
	}
	resp := ToExpenseResponse(expense)
	return &resp, nil
}

// Get returns an expense visible to the caller
func (s *ExpenseService) Get(ctx context.Context, id uuid.UUID) (*ExpenseResponse, error) {
	expense, err := s.expenseRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.ErrNotFound
		}
		s.logger.Error("Failed to load expense", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL", "Failed to load expense")
	}
	resp := ToExpenseResponse(expense)
	return &resp, nil
}

// List returns expenses visible to the caller
func (s *ExpenseService) List(ctx context.Context, filter ExpenseListFilter) (*ExpenseListResult, error) {
	f := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Search:   filter.Search,
	}.Normalize()

	expenses, total, err := s.expenseRepo.FindAll(ctx, f)
	if err != nil {
		s.logger.Error("Failed to list expenses", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL", "Failed to list expenses")
	}
	responses := make([]ExpenseResponse, 0, len(expenses))
	for _, e := range expenses {
		responses = append(responses, ToExpenseResponse(e))
	}
	return &ExpenseListResult{Expenses: responses, Total: total, Page: f.Page, PageSize: f.PageSize}, nil
}

// Update modifies an expense
func (s *ExpenseService) Update(ctx context.Context, id uuid.UUID, req UpdateExpenseRequest) (*ExpenseResponse, error) {
	expense, err := s.expenseRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.ErrNotFound
		}
		s.logger.Error("Failed to load expense", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL", "Failed to load expense")
	}

	if req.Category != nil {
		expense.Category = billing.ExpenseCategory(*req.Category)
	}
	if req.Amount != nil {
		if req.Amount.IsNegative() {
			return nil, shared.NewDomainError("INVALID_INPUT", "Expense amount cannot be negative")
		}
		expense.Amount = *req.Amount
	}
	if req.IncurredAt != nil {
		expense.IncurredAt = *req.IncurredAt
	}
	if req.TruckID != nil {
		expense.TruckID = req.TruckID
	}
	if req.DriverID != nil {
		expense.DriverID = req.DriverID
	}
	if req.Description != nil {
		expense.SetDescription(*req.Description)
	}
	if req.ReceiptKey != nil {
		if err := expense.AttachReceipt(*req.ReceiptKey); err != nil {
			return nil, err
		}
	}
	expense.Touch()

	if err := s.expenseRepo.Update(ctx, expense); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.ErrNotFound
		}
		s.logger.Error("Failed to update expense", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL", "Failed to update expense")
	}
	resp := ToExpenseResponse(expense)
	return &resp, nil
}

// Delete removes an expense
func (s *ExpenseService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.expenseRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.ErrNotFound
		}
		s.logger.Error("Failed to delete expense", zap.Error(err))
		return shared.NewDomainError("INTERNAL", "Failed to delete expense")
	}
	return nil
}

// Summarize rolls expenses up by category over a half-open time window
func (s *ExpenseService) Summarize(ctx context.Context, companyID uuid.UUID, filter ExpenseSummaryFilter) (*ExpenseSummaryResult, error) {
	if !filter.To.After(filter.From) {
		return nil, shared.NewDomainError("INVALID_INPUT", "Window end must be after window start")
	}

	byCategory, err := s.expenseRepo.SumByCategory(ctx, companyID, filter.From, filter.To)
	if err != nil {
		s.logger.Error("Failed to summarize expenses", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL", "Failed to summarize expenses")
	}

	out := make(map[string]decimal.Decimal, len(byCategory))
	total := decimal.Zero
	for category, sum := range byCategory {
		out[string(category)] = sum
		total = total.Add(sum)
	}
	return &ExpenseSummaryResult{
		From:       filter.From,
		To:         filter.To,
		ByCategory: out,
		Total:      total,
	}, nil
}
