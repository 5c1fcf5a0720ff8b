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

// DriverService handles driver management
type DriverService struct {
	driverRepo fleet.DriverRepository
	truckRepo  fleet.TruckRepository
	logger     *zap.Logger
}

// NewDriverService creates a new driver service
func NewDriverService(driverRepo fleet.DriverRepository, truckRepo fleet.TruckRepository, logger *zap.Logger) *DriverService {
	return &DriverService{
		driverRepo: driverRepo,
		truckRepo:  truckRepo,
		logger:     logger,
	}
}

// Create creates a driver for the company
func (s *DriverService) Create(ctx context.Context, companyID uuid.UUID, req CreateDriverRequest) (*DriverResponse, error) {
	s.logger.Info("Creating driver",
		zap.String("company_id", companyID.String()),
		zap.String("name", req.FirstName+" "+req.LastName))

	driver, err := fleet.NewDriver(companyID, req.FirstName, req.LastName)
	if err != nil {
		return nil, err
	}
	driver.Email = strings.ToLower(strings.TrimSpace(req.Email))
	driver.Phone = strings.TrimSpace(req.Phone)
	driver.LicenseNumber = strings.TrimSpace(req.LicenseNumber)
	driver.LicenseState = strings.ToUpper(strings.TrimSpace(req.LicenseState))
	driver.LicenseExpiry = req.LicenseExpiry
	driver.MedicalCardExp = req.MedicalCardExp
	driver.HireDate = req.HireDate
	driver.EmergencyContact = strings.TrimSpace(req.EmergencyContact)
	driver.EmergencyPhone = strings.TrimSpace(req.EmergencyPhone)
	driver.Notes = req.Notes

	if req.PayType != "" && req.PayRate != nil {
		if err := driver.SetPay(fleet.PayType(req.PayType), *req.PayRate); err != nil {
			return nil, err
		}
	}
	if req.TruckID != nil {
		if err := s.checkTruck(ctx, *req.TruckID); err != nil {
			return nil, err
		}
		driver.AssignTruck(*req.TruckID)
	}

	if err := s.driverRepo.Save(ctx, driver); err != nil {
		s.logger.Error("Failed to save driver", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL", "Failed to create driver")
	}

	resp := ToDriverResponse(driver)
	return &resp, nil
}

// Get returns a driver visible to the caller
func (s *DriverService) Get(ctx context.Context, id uuid.UUID) (*DriverResponse, error) {
	driver, err := s.driverRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.ErrNotFound
		}
		s.logger.Error("Failed to load driver", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL", "Failed to load driver")
	}
	resp := ToDriverResponse(driver)
	return &resp, nil
}

// List returns drivers visible to the caller
func (s *DriverService) List(ctx context.Context, filter DriverListFilter) (*DriverListResult, error) {
	f := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Search:   filter.Search,
	}.Normalize()

	drivers, total, err := s.driverRepo.FindAll(ctx, f)
	if err != nil {
		s.logger.Error("Failed to list drivers", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL", "Failed to list drivers")
	}

	responses := make([]DriverResponse, 0, len(drivers))
	for _, d := range drivers {
		responses = append(responses, ToDriverResponse(d))
	}
	return &DriverListResult{
		Drivers:  responses,
		Total:    total,
		Page:     f.Page,
		PageSize: f.PageSize,
	}, nil
}

// Update modifies a driver
func (s *DriverService) Update(ctx context.Context, id uuid.UUID, req UpdateDriverRequest) (*DriverResponse, error) {
	driver, err := s.driverRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.ErrNotFound
		}
		s.logger.Error("Failed to load driver", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL", "Failed to load driver")
	}

	if req.FirstName != nil {
		driver.FirstName = strings.TrimSpace(*req.FirstName)
	}
	if req.LastName != nil {
		driver.LastName = strings.TrimSpace(*req.LastName)
	}
	if req.Email != nil {
		driver.Email = strings.ToLower(strings.TrimSpace(*req.Email))
	}
	if req.Phone != nil {
		driver.Phone = strings.TrimSpace(*req.Phone)
	}
	if req.LicenseNumber != nil {
		driver.LicenseNumber = strings.TrimSpace(*req.LicenseNumber)
	}
	if req.LicenseState != nil {
		driver.LicenseState = strings.ToUpper(strings.TrimSpace(*req.LicenseState))
	}
	if req.LicenseExpiry != nil {
		driver.LicenseExpiry = req.LicenseExpiry
	}
	if req.MedicalCardExp != nil {
		driver.MedicalCardExp = req.MedicalCardExp
	}
	if req.HireDate != nil {
		driver.HireDate = req.HireDate
	}
	if req.Status != nil {
		if err := driver.SetStatus(fleet.DriverStatus(*req.Status)); err != nil {
			return nil, err
		}
	}
	if req.PayType != nil && req.PayRate != nil {
		if err := driver.SetPay(fleet.PayType(*req.PayType), *req.PayRate); err != nil {
			return nil, err
		}
	} else if req.PayRate != nil {
		if err := driver.SetPay(driver.PayType, *req.PayRate); err != nil {
			return nil, err
		}
	}
	if req.UnassignTruck {
		driver.UnassignTruck()
	} else if req.TruckID != nil {
		if err := s.checkTruck(ctx, *req.TruckID); err != nil {
			return nil, err
		}
		driver.AssignTruck(*req.TruckID)
	}
	if req.EmergencyContact != nil {
		driver.EmergencyContact = strings.TrimSpace(*req.EmergencyContact)
	}
	if req.EmergencyPhone != nil {
		driver.EmergencyPhone = strings.TrimSpace(*req.EmergencyPhone)
	}
	if req.Notes != nil {
		driver.Notes = *req.Notes
	}
	driver.Touch()

	if err := s.driverRepo.Update(ctx, driver); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.ErrNotFound
		}
		s.logger.Error("Failed to update driver", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL", "Failed to update driver")
	}

	resp := ToDriverResponse(driver)
	return &resp, nil
}

// Delete removes a driver
func (s *DriverService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.driverRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.ErrNotFound
		}
		s.logger.Error("Failed to delete driver", zap.Error(err))
		return shared.NewDomainError("INTERNAL", "Failed to delete driver")
	}
	s.logger.Info("Driver deleted", zap.String("driver_id", id.String()))
	return nil
}

// checkTruck verifies the referenced truck is visible to the caller
func (s *DriverService) checkTruck(ctx context.Context, truckID uuid.UUID) error {
	if _, err := s.truckRepo.FindByID(ctx, truckID); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.NewDomainError("NOT_FOUND", "Truck not found")
		}
		s.logger.Error("Failed to look up truck", zap.Error(err))
		return shared.NewDomainError("INTERNAL", "Failed to validate truck")
	}
	return nil
}
