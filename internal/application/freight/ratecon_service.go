package freight

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/haulstack/tms/internal/domain/freight"
	"github.com/haulstack/tms/internal/domain/shared"
)

// RateconService handles broker rate confirmations
type RateconService struct {
	rateconRepo freight.RateconRepository
	loadRepo    freight.LoadRepository
	logger      *zap.Logger
}

// NewRateconService creates a new ratecon service
func NewRateconService(rateconRepo freight.RateconRepository, loadRepo freight.LoadRepository, logger *zap.Logger) *RateconService {
	return &RateconService{
		rateconRepo: rateconRepo,
		loadRepo:    loadRepo,
		logger:      logger,
	}
}

// Create records a rate confirmation against a load visible to the caller
func (s *RateconService) Create(ctx context.Context, companyID uuid.UUID, req CreateRateconRequest) (*RateconResponse, error) {
	if _, err := s.loadRepo.FindByID(ctx, req.LoadID); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("NOT_FOUND", "Load not found")
		}
		s.logger.Error("Failed to look up load", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL", "Failed to validate load")
	}

	ratecon, err := freight.NewRatecon(companyID, req.LoadID, req.DocumentKey, req.Amount)
	if err != nil {
		return nil, err
	}
	ratecon.BrokerName = strings.TrimSpace(req.BrokerName)
	ratecon.Notes = req.Notes

	if err := s.rateconRepo.Save(ctx, ratecon); err != nil {
		s.logger.Error("Failed to save ratecon", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL", "Failed to create ratecon")
	}
	resp := ToRateconResponse(ratecon)
	return &resp, nil
}

// Get returns a ratecon visible to the caller
func (s *RateconService) Get(ctx context.Context, id uuid.UUID) (*RateconResponse, error) {
	ratecon, err := s.rateconRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.ErrNotFound
		}
		s.logger.Error("Failed to load ratecon", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL", "Failed to load ratecon")
	}
	resp := ToRateconResponse(ratecon)
	return &resp, nil
}

// List returns ratecons visible to the caller
func (s *RateconService) List(ctx context.Context, filter RateconListFilter) (*RateconListResult, error) {
	f := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Search:   filter.Search,
	}.Normalize()

	ratecons, total, err := s.rateconRepo.FindAll(ctx, f)
	if err != nil {
		s.logger.Error("Failed to list ratecons", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL", "Failed to list ratecons")
	}
	responses := make([]RateconResponse, 0, len(ratecons))
	for _, r := range ratecons {
		responses = append(responses, ToRateconResponse(r))
	}
	return &RateconListResult{Ratecons: responses, Total: total, Page: f.Page, PageSize: f.PageSize}, nil
}

// ListByLoad returns all ratecons recorded against a load
func (s *RateconService) ListByLoad(ctx context.Context, loadID uuid.UUID) ([]RateconResponse, error) {
	ratecons, err := s.rateconRepo.FindByLoad(ctx, loadID)
	if err != nil {
		s.logger.Error("Failed to list ratecons for load", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL", "Failed to list ratecons")
	}
	responses := make([]RateconResponse, 0, len(ratecons))
	for _, r := range ratecons {
		responses = append(responses, ToRateconResponse(r))
	}
	return responses, nil
}

// Review confirms or rejects a received ratecon
func (s *RateconService) Review(ctx context.Context, id uuid.UUID, req ReviewRateconRequest) (*RateconResponse, error) {
	ratecon, err := s.rateconRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.ErrNotFound
		}
		s.logger.Error("Failed to load ratecon", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL", "Failed to load ratecon")
	}

	now := time.Now()
	switch freight.RateconStatus(req.Decision) {
	case freight.RateconStatusConfirmed:
		err = ratecon.Confirm(now)
	case freight.RateconStatusRejected:
		err = ratecon.Reject(now, req.Reason)
	default:
		return nil, shared.NewDomainError("INVALID_INPUT", "Unknown review decision")
	}
	if err != nil {
		return nil, err
	}

	if err := s.rateconRepo.Update(ctx, ratecon); err != nil {
		s.logger.Error("Failed to update ratecon", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL", "Failed to update ratecon")
	}

	s.logger.Info("Ratecon reviewed",
		zap.String("ratecon_id", ratecon.ID.String()),
		zap.String("status", string(ratecon.Status)))

	resp := ToRateconResponse(ratecon)
	return &resp, nil
}

// Delete removes a ratecon
func (s *RateconService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.rateconRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.ErrNotFound
		}
		s.logger.Error("Failed to delete ratecon", zap.Error(err))
		return shared.NewDomainError("INTERNAL", "Failed to delete ratecon")
	}
	return nil
}
