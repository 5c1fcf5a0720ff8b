package billing

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/haulstack/tms/internal/domain/billing"
	"github.com/haulstack/tms/internal/domain/shared"
)

// FuelService handles fuel purchase tracking and the IFTA roll-up
type FuelService struct {
	fuelRepo billing.FuelRepository
	logger   *zap.Logger
}

// NewFuelService creates a new fuel service
func NewFuelService(fuelRepo billing.FuelRepository, logger *zap.Logger) *FuelService {
	return &FuelService{fuelRepo: fuelRepo, logger: logger}
}

// Create records a fuel purchase for the company
func (s *FuelService) Create(ctx context.Context, companyID uuid.UUID, req CreateFuelEntryRequest) (*FuelEntryResponse, error) {
	entry, err := billing.NewFuelEntry(companyID, req.PurchasedAt, req.Gallons, req.PricePerGallon, req.State)
	if err != nil {
		return nil, err
	}
	entry.Location = strings.TrimSpace(req.Location)
	entry.Odometer = req.Odometer
	entry.ReceiptKey = req.ReceiptKey
	if req.DriverID != nil && req.TruckID != nil {
		entry.AssignTo(*req.DriverID, *req.TruckID)
	} else {
		entry.DriverID = req.DriverID
		entry.TruckID = req.TruckID
	}

	if err := s.fuelRepo.Save(ctx, entry); err != nil {
		s.logger.Error("Failed to save fuel entry", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL", "Failed to create fuel entry")
	}
	resp := ToFuelEntryResponse(entry)
	return &resp, nil
}

// Get returns a fuel entry visible to the caller
func (s *FuelService) Get(ctx context.Context, id uuid.UUID) (*FuelEntryResponse, error) {
	entry, err := s.fuelRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.ErrNotFound
		}
		s.logger.Error("Failed to load fuel entry", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL", "Failed to load fuel entry")
	}
	resp := ToFuelEntryResponse(entry)
	return &resp, nil
}

// List returns fuel entries visible to the caller
func (s *FuelService) List(ctx context.Context, filter FuelListFilter) (*FuelListResult, error) {
	f := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Search:   filter.Search,
	}.Normalize()

	entries, total, err := s.fuelRepo.FindAll(ctx, f)
	if err != nil {
		s.logger.Error("Failed to list fuel entries", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL", "Failed to list fuel entries")
	}
	responses := make([]FuelEntryResponse, 0, len(entries))
	for _, e := range entries {
		responses = append(responses, ToFuelEntryResponse(e))
	}
	return &FuelListResult{Entries: responses, Total: total, Page: f.Page, PageSize: f.PageSize}, nil
}

// Update modifies a fuel entry, recomputing the total when quantity or
// price changes
func (s *FuelService) Update(ctx context.Context, id uuid.UUID, req UpdateFuelEntryRequest) (*FuelEntryResponse, error) {
	entry, err := s.fuelRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.ErrNotFound
		}
		s.logger.Error("Failed to load fuel entry", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL", "Failed to load fuel entry")
	}

	if req.PurchasedAt != nil {
		entry.PurchasedAt = *req.PurchasedAt
	}
	if req.Gallons != nil {
		if req.Gallons.IsNegative() {
			return nil, shared.NewDomainError("INVALID_INPUT", "Gallons cannot be negative")
		}
		entry.Gallons = *req.Gallons
	}
	if req.PricePerGallon != nil {
		if req.PricePerGallon.IsNegative() {
			return nil, shared.NewDomainError("INVALID_INPUT", "Price per gallon cannot be negative")
		}
		entry.PricePerGallon = *req.PricePerGallon
	}
	if req.Gallons != nil || req.PricePerGallon != nil {
		entry.Total = entry.Gallons.Mul(entry.PricePerGallon).Round(2)
	}
	if req.State != nil {
		state := strings.ToUpper(strings.TrimSpace(*req.State))
		if len(state) != 2 {
			return nil, shared.NewDomainError("INVALID_INPUT", "State must be a two-letter code")
		}
		entry.State = state
	}
	if req.Location != nil {
		entry.Location = strings.TrimSpace(*req.Location)
	}
	if req.DriverID != nil {
		entry.DriverID = req.DriverID
	}
	if req.TruckID != nil {
		entry.TruckID = req.TruckID
	}
	if req.Odometer != nil {
		entry.Odometer = *req.Odometer
	}
	if req.ReceiptKey != nil {
		entry.ReceiptKey = *req.ReceiptKey
	}
	entry.Touch()

	if err := s.fuelRepo.Update(ctx, entry); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.ErrNotFound
		}
		s.logger.Error("Failed to update fuel entry", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL", "Failed to update fuel entry")
	}
	resp := ToFuelEntryResponse(entry)
	return &resp, nil
}

// Delete removes a fuel entry
func (s *FuelService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.fuelRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.ErrNotFound
		}
		s.logger.Error("Failed to delete fuel entry", zap.Error(err))
		return shared.NewDomainError("INTERNAL", "Failed to delete fuel entry")
	}
	return nil
}

// Summarize totals gallons by jurisdiction over a half-open time window
func (s *FuelService) Summarize(ctx context.Context, companyID uuid.UUID, filter FuelSummaryFilter) (*FuelSummaryResult, error) {
	if !filter.To.After(filter.From) {
		return nil, shared.NewDomainError("INVALID_INPUT", "Window end must be after window start")
	}

	byState, err := s.fuelRepo.SumByState(ctx, companyID, filter.From, filter.To)
	if err != nil {
		s.logger.Error("Failed to summarize fuel", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL", "Failed to summarize fuel")
	}

	return &FuelSummaryResult{From: filter.From, To: filter.To, ByState: byState}, nil
}
