package freight

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/haulstack/tms/internal/domain/fleet"
	"github.com/haulstack/tms/internal/domain/freight"
	"github.com/haulstack/tms/internal/domain/partner"
	"github.com/haulstack/tms/internal/domain/shared"
)

// LoadService handles the load lifecycle
type LoadService struct {
	loadRepo     freight.LoadRepository
	customerRepo partner.CustomerRepository
	driverRepo   fleet.DriverRepository
	truckRepo    fleet.TruckRepository
	logger       *zap.Logger
}

// NewLoadService creates a new load service
func NewLoadService(
	loadRepo freight.LoadRepository,
	customerRepo partner.CustomerRepository,
	driverRepo fleet.DriverRepository,
	truckRepo fleet.TruckRepository,
	logger *zap.Logger,
) *LoadService {
	return &LoadService{
		loadRepo:     loadRepo,
		customerRepo: customerRepo,
		driverRepo:   driverRepo,
		truckRepo:    truckRepo,
		logger:       logger,
	}
}

// Create creates a load with its stops. Load numbers are unique per company.
func (s *LoadService) Create(ctx context.Context, companyID uuid.UUID, req CreateLoadRequest) (*LoadResponse, error) {
	s.logger.Info("Creating load",
		zap.String("company_id", companyID.String()),
		zap.String("load_number", req.LoadNumber))

	number := strings.TrimSpace(req.LoadNumber)
	if _, err := s.loadRepo.FindByNumber(ctx, companyID, number); err == nil {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "A load with this number already exists")
	} else if !errors.Is(err, shared.ErrNotFound) {
		s.logger.Error("Failed to check load number", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL", "Failed to check load number")
	}

	if _, err := s.customerRepo.FindByID(ctx, req.CustomerID); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("NOT_FOUND", "Customer not found")
		}
		s.logger.Error("Failed to look up customer", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL", "Failed to validate customer")
	}

	load, err := freight.NewLoad(companyID, req.CustomerID, number, req.Rate)
	if err != nil {
		return nil, err
	}
	load.Miles = req.Miles
	load.Weight = req.Weight
	load.Commodity = strings.TrimSpace(req.Commodity)
	if req.Equipment != "" {
		load.Equipment = freight.EquipmentType(req.Equipment)
	}
	load.ReferenceNum = strings.TrimSpace(req.ReferenceNum)
	load.OriginCity = strings.TrimSpace(req.OriginCity)
	load.OriginState = strings.ToUpper(strings.TrimSpace(req.OriginState))
	load.DestCity = strings.TrimSpace(req.DestCity)
	load.DestState = strings.ToUpper(strings.TrimSpace(req.DestState))
	load.PickupDate = req.PickupDate
	load.DeliveryDate = req.DeliveryDate
	load.Notes = req.Notes
	if req.FuelSurcharge != nil {
		if req.FuelSurcharge.IsNegative() {
			return nil, shared.NewDomainError("INVALID_INPUT", "Fuel surcharge cannot be negative")
		}
		load.FuelSurcharge = *req.FuelSurcharge
	}
	if req.Accessorial != nil {
		if req.Accessorial.IsNegative() {
			return nil, shared.NewDomainError("INVALID_INPUT", "Accessorial charges cannot be negative")
		}
		load.Accessorial = *req.Accessorial
	}

	stops, err := buildStops(load.ID, req.Stops)
	if err != nil {
		return nil, err
	}
	for _, stop := range stops {
		load.AddStop(stop)
	}

	if err := s.loadRepo.Save(ctx, load); err != nil {
		s.logger.Error("Failed to save load", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL", "Failed to create load")
	}

	resp := ToLoadResponse(load)
	return &resp, nil
}

// Get returns a load visible to the caller with its stops
func (s *LoadService) Get(ctx context.Context, id uuid.UUID) (*LoadResponse, error) {
	load, err := s.loadRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.ErrNotFound
		}
		s.logger.Error("Failed to fetch load", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL", "Failed to fetch load")
	}
	resp := ToLoadResponse(load)
	return &resp, nil
}

// List returns loads visible to the caller, optionally by status
func (s *LoadService) List(ctx context.Context, filter LoadListFilter) (*LoadListResult, error) {
	f := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Search:   filter.Search,
	}.Normalize()

	var (
		loads []*freight.Load
		total int64
		err   error
	)
	if filter.Status != "" {
		loads, total, err = s.loadRepo.FindByStatus(ctx, freight.LoadStatus(filter.Status), f)
	} else {
		loads, total, err = s.loadRepo.FindAll(ctx, f)
	}
	if err != nil {
		s.logger.Error("Failed to list loads", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL", "Failed to list loads")
	}

	responses := make([]LoadResponse, 0, len(loads))
	for _, l := range loads {
		responses = append(responses, ToLoadResponse(l))
	}
	return &LoadListResult{
		Loads:    responses,
		Total:    total,
		Page:     f.Page,
		PageSize: f.PageSize,
	}, nil
}

// Update modifies a load. A present stop list replaces the existing one.
func (s *LoadService) Update(ctx context.Context, id uuid.UUID, req UpdateLoadRequest) (*LoadResponse, error) {
	load, err := s.loadRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.ErrNotFound
		}
		s.logger.Error("Failed to fetch load", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL", "Failed to fetch load")
	}

	if req.CustomerID != nil {
		if _, err := s.customerRepo.FindByID(ctx, *req.CustomerID); err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return nil, shared.NewDomainError("NOT_FOUND", "Customer not found")
			}
			s.logger.Error("Failed to look up customer", zap.Error(err))
			return nil, shared.NewDomainError("INTERNAL", "Failed to validate customer")
		}
		load.CustomerID = *req.CustomerID
	}
	if req.Rate != nil {
		if req.Rate.IsNegative() {
			return nil, shared.NewDomainError("INVALID_INPUT", "Rate cannot be negative")
		}
		load.Rate = *req.Rate
	}
	if req.FuelSurcharge != nil {
		if req.FuelSurcharge.IsNegative() {
			return nil, shared.NewDomainError("INVALID_INPUT", "Fuel surcharge cannot be negative")
		}
		load.FuelSurcharge = *req.FuelSurcharge
	}
	if req.Accessorial != nil {
		if req.Accessorial.IsNegative() {
			return nil, shared.NewDomainError("INVALID_INPUT", "Accessorial charges cannot be negative")
		}
		load.Accessorial = *req.Accessorial
	}
	if req.PODKey != nil {
		load.AttachPOD(strings.TrimSpace(*req.PODKey))
	}
	if req.RateconKey != nil {
		load.AttachRatecon(strings.TrimSpace(*req.RateconKey))
	}
	if req.Miles != nil {
		load.Miles = *req.Miles
	}
	if req.Weight != nil {
		load.Weight = *req.Weight
	}
	if req.Commodity != nil {
		load.Commodity = strings.TrimSpace(*req.Commodity)
	}
	if req.Equipment != nil {
		load.Equipment = freight.EquipmentType(*req.Equipment)
	}
	if req.ReferenceNum != nil {
		load.ReferenceNum = strings.TrimSpace(*req.ReferenceNum)
	}
	if req.OriginCity != nil {
		load.OriginCity = strings.TrimSpace(*req.OriginCity)
	}
	if req.OriginState != nil {
		load.OriginState = strings.ToUpper(strings.TrimSpace(*req.OriginState))
	}
	if req.DestCity != nil {
		load.DestCity = strings.TrimSpace(*req.DestCity)
	}
	if req.DestState != nil {
		load.DestState = strings.ToUpper(strings.TrimSpace(*req.DestState))
	}
	if req.PickupDate != nil {
		load.PickupDate = req.PickupDate
	}
	if req.DeliveryDate != nil {
		load.DeliveryDate = req.DeliveryDate
	}
	if req.Notes != nil {
		load.Notes = *req.Notes
	}
	if req.Stops != nil {
		stops, err := buildStops(load.ID, req.Stops)
		if err != nil {
			return nil, err
		}
		load.Stops = stops
	}
	load.Touch()

	if err := s.loadRepo.Update(ctx, load); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.ErrNotFound
		}
		s.logger.Error("Failed to update load", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL", "Failed to update load")
	}

	resp := ToLoadResponse(load)
	return &resp, nil
}

// Assign puts a driver and truck on a pending load
func (s *LoadService) Assign(ctx context.Context, id uuid.UUID, req AssignLoadRequest) (*LoadResponse, error) {
	load, err := s.loadRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.ErrNotFound
		}
		s.logger.Error("Failed to fetch load", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL", "Failed to fetch load")
	}

	driver, err := s.driverRepo.FindByID(ctx, req.DriverID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("NOT_FOUND", "Driver not found")
		}
		s.logger.Error("Failed to look up driver", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL", "Failed to validate driver")
	}
	if !driver.Available() {
		return nil, shared.NewDomainError("INVALID_STATE", "Driver is not available")
	}

	truck, err := s.truckRepo.FindByID(ctx, req.TruckID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("NOT_FOUND", "Truck not found")
		}
		s.logger.Error("Failed to look up truck", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL", "Failed to validate truck")
	}
	if !truck.Available() {
		return nil, shared.NewDomainError("INVALID_STATE", "Truck is not available")
	}

	if err := load.Assign(req.DriverID, req.TruckID); err != nil {
		return nil, err
	}
	if err := s.loadRepo.Update(ctx, load); err != nil {
		s.logger.Error("Failed to assign load", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL", "Failed to assign load")
	}

	s.logger.Info("Load assigned",
		zap.String("load_id", load.ID.String()),
		zap.String("driver_id", req.DriverID.String()),
		zap.String("truck_id", req.TruckID.String()))

	resp := ToLoadResponse(load)
	return &resp, nil
}

// UpdateStatus moves a load through its lifecycle
func (s *LoadService) UpdateStatus(ctx context.Context, id uuid.UUID, req UpdateLoadStatusRequest) (*LoadResponse, error) {
	load, err := s.loadRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.ErrNotFound
		}
		s.logger.Error("Failed to fetch load", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL", "Failed to fetch load")
	}

	switch freight.LoadStatus(req.Status) {
	case freight.LoadStatusInTransit:
		err = load.StartTransit()
	case freight.LoadStatusDelivered:
		err = load.MarkDelivered(time.Now())
	case freight.LoadStatusCancelled:
		err = load.Cancel()
	default:
		return nil, shared.NewDomainError("INVALID_INPUT", "Unknown load status")
	}
	if err != nil {
		return nil, err
	}

	if err := s.loadRepo.Update(ctx, load); err != nil {
		s.logger.Error("Failed to update load status", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL", "Failed to update load status")
	}

	s.logger.Info("Load status changed",
		zap.String("load_id", load.ID.String()),
		zap.String("status", string(load.Status)))

	resp := ToLoadResponse(load)
	return &resp, nil
}

// Delete removes a load and its stops
func (s *LoadService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.loadRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.ErrNotFound
		}
		s.logger.Error("Failed to delete load", zap.Error(err))
		return shared.NewDomainError("INTERNAL", "Failed to delete load")
	}
	s.logger.Info("Load deleted", zap.String("load_id", id.String()))
	return nil
}

// buildStops converts stop inputs, defaulting sequence to list position
func buildStops(loadID uuid.UUID, inputs []StopInput) ([]*freight.Stop, error) {
	stops := make([]*freight.Stop, 0, len(inputs))
	for i, in := range inputs {
		stop, err := freight.NewStop(loadID, freight.StopType(in.Type))
		if err != nil {
			return nil, err
		}
		stop.Sequence = in.Sequence
		if stop.Sequence == 0 {
			stop.Sequence = i
		}
		stop.ShipperID = in.ShipperID
		stop.ReceiverID = in.ReceiverID
		stop.Address = strings.TrimSpace(in.Address)
		stop.City = strings.TrimSpace(in.City)
		stop.State = strings.ToUpper(strings.TrimSpace(in.State))
		stop.ZipCode = strings.TrimSpace(in.ZipCode)
		stop.WindowFrom = in.WindowFrom
		stop.WindowTo = in.WindowTo
		stop.Notes = in.Notes
		stops = append(stops, stop)
	}
	return stops, nil
}
