package fleet

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/haulstack/tms/internal/domain/fleet"
	"github.com/haulstack/tms/internal/domain/shared"
)

// TruckService handles truck management
type TruckService struct {
	truckRepo fleet.TruckRepository
	logger    *zap.Logger
}

// NewTruckService creates a new truck service
func NewTruckService(truckRepo fleet.TruckRepository, logger *zap.Logger) *TruckService {
	return &TruckService{truckRepo: truckRepo, logger: logger}
}

// Create creates a truck for the company. Truck numbers are unique per company.
func (s *TruckService) Create(ctx context.Context, companyID uuid.UUID, req CreateTruckRequest) (*TruckResponse, error) {
	s.logger.Info("Creating truck",
		zap.String("company_id", companyID.String()),
		zap.String("truck_number", req.TruckNumber))

	number := strings.TrimSpace(req.TruckNumber)
	if _, err := s.truckRepo.FindByNumber(ctx, companyID, number); err == nil {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "A truck with this number already exists")
	} else if !errors.Is(err, shared.ErrNotFound) {
		s.logger.Error("Failed to check truck number", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL", "Failed to check truck number")
	}

	truck, err := fleet.NewTruck(companyID, number)
	if err != nil {
		return nil, err
	}
	truck.Make = strings.TrimSpace(req.Make)
	truck.Model = strings.TrimSpace(req.Model)
	truck.Year = req.Year
	truck.VIN = strings.ToUpper(strings.TrimSpace(req.VIN))
	truck.LicensePlate = strings.TrimSpace(req.LicensePlate)
	truck.PlateState = strings.ToUpper(strings.TrimSpace(req.PlateState))
	truck.RegistrationExp = req.RegistrationExp
	truck.InspectionExp = req.InspectionExp
	truck.InsuranceExp = req.InsuranceExp
	truck.Notes = req.Notes
	if req.Ownership != "" {
		if err := truck.SetOwnership(fleet.Ownership(req.Ownership)); err != nil {
			return nil, err
		}
	}
	if req.CurrentMileage > 0 {
		if err := truck.RecordMileage(req.CurrentMileage); err != nil {
			return nil, err
		}
	}

	if err := s.truckRepo.Save(ctx, truck); err != nil {
		s.logger.Error("Failed to save truck", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL", "Failed to create truck")
	}

	resp := ToTruckResponse(truck)
	return &resp, nil
}

// Get returns a truck visible to the caller
func (s *TruckService) Get(ctx context.Context, id uuid.UUID) (*TruckResponse, error) {
	truck, err := s.truckRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.ErrNotFound
		}
		s.logger.Error("Failed to load truck", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL", "Failed to load truck")
	}
	resp := ToTruckResponse(truck)
	return &resp, nil
}

// List returns trucks visible to the caller
func (s *TruckService) List(ctx context.Context, filter TruckListFilter) (*TruckListResult, error) {
	f := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Search:   filter.Search,
	}.Normalize()

	trucks, total, err := s.truckRepo.FindAll(ctx, f)
	if err != nil {
		s.logger.Error("Failed to list trucks", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL", "Failed to list trucks")
	}

	responses := make([]TruckResponse, 0, len(trucks))
	for _, t := range trucks {
		responses = append(responses, ToTruckResponse(t))
	}
	return &TruckListResult{
		Trucks:   responses,
		Total:    total,
		Page:     f.Page,
		PageSize: f.PageSize,
	}, nil
}

// Update modifies a truck
func (s *TruckService) Update(ctx context.Context, id uuid.UUID, req UpdateTruckRequest) (*TruckResponse, error) {
	truck, err := s.truckRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.ErrNotFound
		}
		s.logger.Error("Failed to load truck", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL", "Failed to load truck")
	}

	if req.Make != nil {
		truck.Make = strings.TrimSpace(*req.Make)
	}
	if req.Model != nil {
		truck.Model = strings.TrimSpace(*req.Model)
	}
	if req.Year != nil {
		truck.Year = *req.Year
	}
	if req.VIN != nil {
		truck.VIN = strings.ToUpper(strings.TrimSpace(*req.VIN))
	}
	if req.LicensePlate != nil {
		truck.LicensePlate = strings.TrimSpace(*req.LicensePlate)
	}
	if req.PlateState != nil {
		truck.PlateState = strings.ToUpper(strings.TrimSpace(*req.PlateState))
	}
	if req.Status != nil {
		if err := truck.SetStatus(fleet.TruckStatus(*req.Status)); err != nil {
			return nil, err
		}
	}
	if req.Ownership != nil {
		if err := truck.SetOwnership(fleet.Ownership(*req.Ownership)); err != nil {
			return nil, err
		}
	}
	if req.RegistrationExp != nil {
		truck.RegistrationExp = req.RegistrationExp
	}
	if req.InspectionExp != nil {
		truck.InspectionExp = req.InspectionExp
	}
	if req.InsuranceExp != nil {
		truck.InsuranceExp = req.InsuranceExp
	}
	if req.CurrentMileage != nil {
		if err := truck.RecordMileage(*req.CurrentMileage); err != nil {
			return nil, err
		}
	}
	if req.Notes != nil {
		truck.Notes = *req.Notes
	}
	truck.Touch()

	if err := s.truckRepo.Update(ctx, truck); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.ErrNotFound
		}
		s.logger.Error("Failed to update truck", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL", "Failed to update truck")
	}

	resp := ToTruckResponse(truck)
	return &resp, nil
}

// Delete removes a truck
func (s *TruckService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.truckRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.ErrNotFound
		}
		s.logger.Error("Failed to delete truck", zap.Error(err))
		return shared.NewDomainError("INTERNAL", "Failed to delete truck")
	}
	s.logger.Info("Truck deleted", zap.String("truck_id", id.String()))
	return nil
}
