package freight

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/haulstack/tms/internal/domain/freight"
	"github.com/haulstack/tms/internal/domain/shared"
)

// LaneService handles saved freight lanes
type LaneService struct {
	laneRepo freight.LaneRepository
	logger   *zap.Logger
}

// NewLaneService creates a new lane service
func NewLaneService(laneRepo freight.LaneRepository, logger *zap.Logger) *LaneService {
	return &LaneService{laneRepo: laneRepo, logger: logger}
}

// Create creates a lane for the company
func (s *LaneService) Create(ctx context.Context, companyID uuid.UUID, req CreateLaneRequest) (*LaneResponse, error) {
	lane, err := freight.NewLane(companyID, req.OriginCity, req.OriginState, req.DestCity, req.DestState)
	if err != nil {
		return nil, err
	}
	lane.CustomerID = req.CustomerID
	if req.Equipment != "" {
		lane.Equipment = freight.EquipmentType(req.Equipment)
	}
	lane.Notes = req.Notes
	if req.Rate != nil {
		if err := lane.SetRate(*req.Rate, req.Miles); err != nil {
			return nil, err
		}
	} else {
		lane.Miles = req.Miles
	}

	if err := s.laneRepo.Save(ctx, lane); err != nil {
		s.logger.Error("Failed to save lane", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL", "Failed to create lane")
	}
	resp := ToLaneResponse(lane)
	return &resp, nil
}

// Get returns a lane visible to the caller
func (s *LaneService) Get(ctx context.Context, id uuid.UUID) (*LaneResponse, error) {
	lane, err := s.laneRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.ErrNotFound
		}
		s.logger.Error("Failed to load lane", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL", "Failed to load lane")
	}
	resp := ToLaneResponse(lane)
	return &resp, nil
}

// List returns lanes visible to the caller
func (s *LaneService) List(ctx context.Context, filter LaneListFilter) (*LaneListResult, error) {
	f := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Search:   filter.Search,
	}.Normalize()

	lanes, total, err := s.laneRepo.FindAll(ctx, f)
	if err != nil {
		s.logger.Error("Failed to list lanes", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL", "Failed to list lanes")
	}
	responses := make([]LaneResponse, 0, len(lanes))
	for _, l := range lanes {
		responses = append(responses, ToLaneResponse(l))
	}
	return &LaneListResult{Lanes: responses, Total: total, Page: f.Page, PageSize: f.PageSize}, nil
}

// Update modifies a lane
func (s *LaneService) Update(ctx context.Context, id uuid.UUID, req UpdateLaneRequest) (*LaneResponse, error) {
	lane, err := s.laneRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.ErrNotFound
		}
		s.logger.Error("Failed to load lane", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL", "Failed to load lane")
	}

	if req.CustomerID != nil {
		lane.CustomerID = req.CustomerID
	}
	if req.Rate != nil {
		miles := lane.Miles
		if req.Miles != nil {
			miles = *req.Miles
		}
		if err := lane.SetRate(*req.Rate, miles); err != nil {
			return nil, err
		}
	} else if req.Miles != nil {
		lane.Miles = *req.Miles
	}
	if req.Equipment != nil {
		lane.Equipment = freight.EquipmentType(*req.Equipment)
	}
	if req.Notes != nil {
		lane.Notes = *req.Notes
	}
	if req.Active != nil {
		if *req.Active {
			lane.Active = true
		} else {
			lane.Deactivate()
		}
	}
	lane.Touch()

	if err := s.laneRepo.Update(ctx, lane); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.ErrNotFound
		}
		s.logger.Error("Failed to update lane", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL", "Failed to update lane")
	}
	resp := ToLaneResponse(lane)
	return &resp, nil
}

// Delete removes a lane
func (s *LaneService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.laneRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.ErrNotFound
		}
		s.logger.Error("Failed to delete lane", zap.Error(err))
		return shared.NewDomainError("INTERNAL", "Failed to delete lane")
	}
	return nil
}
