package freight

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/haulstack/tms/internal/domain/freight"
	"github.com/haulstack/tms/internal/domain/shared"
)

// ShipperService handles pickup location management
type ShipperService struct {
	shipperRepo freight.ShipperRepository
	logger      *zap.Logger
}

// NewShipperService creates a new shipper service
func NewShipperService(shipperRepo freight.ShipperRepository, logger *zap.Logger) *ShipperService {
	return &ShipperService{shipperRepo: shipperRepo, logger: logger}
}

// Create creates a shipper for the company
func (s *ShipperService) Create(ctx context.Context, companyID uuid.UUID, req CreateLocationRequest) (*LocationResponse, error) {
	shipper, err := freight.NewShipper(companyID, req.Name)
	if err != nil {
		return nil, err
	}
	applyLocationCreate(&shipper.Address, &shipper.City, &shipper.State, &shipper.ZipCode,
		&shipper.ContactName, &shipper.Phone, &shipper.Email, &shipper.Hours, &shipper.Notes, req)

	if err := s.shipperRepo.Save(ctx, shipper); err != nil {
		s.logger.Error("Failed to save shipper", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL", "Failed to create shipper")
	}
	resp := ToShipperResponse(shipper)
	return &resp, nil
}

// Get returns a shipper visible to the caller
func (s *ShipperService) Get(ctx context.Context, id uuid.UUID) (*LocationResponse, error) {
	shipper, err := s.shipperRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.ErrNotFound
		}
		s.logger.Error("Failed to load shipper", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL", "Failed to load shipper")
	}
	resp := ToShipperResponse(shipper)
	return &resp, nil
}

// List returns shippers visible to the caller
func (s *ShipperService) List(ctx context.Context, filter LocationListFilter) (*LocationListResult, error) {
	f := locationFilter(filter)
	shippers, total, err := s.shipperRepo.FindAll(ctx, f)
	if err != nil {
		s.logger.Error("Failed to list shippers", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL", "Failed to list shippers")
	}
	responses := make([]LocationResponse, 0, len(shippers))
	for _, sh := range shippers {
		responses = append(responses, ToShipperResponse(sh))
	}
	return &LocationListResult{Locations: responses, Total: total, Page: f.Page, PageSize: f.PageSize}, nil
}

// Update modifies a shipper
func (s *ShipperService) Update(ctx context.Context, id uuid.UUID, req UpdateLocationRequest) (*LocationResponse, error) {
	shipper, err := s.shipperRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.ErrNotFound
		}
		s.logger.Error("Failed to load shipper", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL", "Failed to load shipper")
	}
	if err := applyLocationUpdate(&shipper.Name, &shipper.Address, &shipper.City, &shipper.State, &shipper.ZipCode,
		&shipper.ContactName, &shipper.Phone, &shipper.Email, &shipper.Hours, &shipper.Notes, req); err != nil {
		return nil, err
	}
	shipper.Touch()

	if err := s.shipperRepo.Update(ctx, shipper); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.ErrNotFound
		}
		s.logger.Error("Failed to update shipper", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL", "Failed to update shipper")
	}
	resp := ToShipperResponse(shipper)
	return &resp, nil
}

// Delete removes a shipper
func (s *ShipperService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.shipperRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.ErrNotFound
		}
		s.logger.Error("Failed to delete shipper", zap.Error(err))
		return shared.NewDomainError("INTERNAL", "Failed to delete shipper")
	}
	return nil
}

// ReceiverService handles delivery location management
type ReceiverService struct {
	receiverRepo freight.ReceiverRepository
	logger       *zap.Logger
}

// NewReceiverService creates a new receiver service
func NewReceiverService(receiverRepo freight.ReceiverRepository, logger *zap.Logger) *ReceiverService {
	return &ReceiverService{receiverRepo: receiverRepo, logger: logger}
}

// Create creates a receiver for the company
func (s *ReceiverService) Create(ctx context.Context, companyID uuid.UUID, req CreateLocationRequest) (*LocationResponse, error) {
	receiver, err := freight.NewReceiver(companyID, req.Name)
	if err != nil {
		return nil, err
	}
	applyLocationCreate(&receiver.Address, &receiver.City, &receiver.State, &receiver.ZipCode,
		&receiver.ContactName, &receiver.Phone, &receiver.Email, &receiver.Hours, &receiver.Notes, req)

	if err := s.receiverRepo.Save(ctx, receiver); err != nil {
		s.logger.Error("Failed to save receiver", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL", "Failed to create receiver")
	}
	resp := ToReceiverResponse(receiver)
	return &resp, nil
}

// Get returns a receiver visible to the caller
func (s *ReceiverService) Get(ctx context.Context, id uuid.UUID) (*LocationResponse, error) {
	receiver, err := s.receiverRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.ErrNotFound
		}
		s.logger.Error("Failed to load receiver", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL", "Failed to load receiver")
	}
	resp := ToReceiverResponse(receiver)
	return &resp, nil
}

// List returns receivers visible to the caller
func (s *ReceiverService) List(ctx context.Context, filter LocationListFilter) (*LocationListResult, error) {
	f := locationFilter(filter)
	receivers, total, err := s.receiverRepo.FindAll(ctx, f)
	if err != nil {
		s.logger.Error("Failed to list receivers", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL", "Failed to list receivers")
	}
	responses := make([]LocationResponse, 0, len(receivers))
	for _, r := range receivers {
		responses = append(responses, ToReceiverResponse(r))
	}
	return &LocationListResult{Locations: responses, Total: total, Page: f.Page, PageSize: f.PageSize}, nil
}

// Update modifies a receiver
func (s *ReceiverService) Update(ctx context.Context, id uuid.UUID, req UpdateLocationRequest) (*LocationResponse, error) {
	receiver, err := s.receiverRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.ErrNotFound
		}
		s.logger.Error("Failed to load receiver", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL", "Failed to load receiver")
	}
	if err := applyLocationUpdate(&receiver.Name, &receiver.Address, &receiver.City, &receiver.State, &receiver.ZipCode,
		&receiver.ContactName, &receiver.Phone, &receiver.Email, &receiver.Hours, &receiver.Notes, req); err != nil {
		return nil, err
	}
	receiver.Touch()

	if err := s.receiverRepo.Update(ctx, receiver); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.ErrNotFound
		}
		s.logger.Error("Failed to update receiver", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL", "Failed to update receiver")
	}
	resp := ToReceiverResponse(receiver)
	return &resp, nil
}

// Delete removes a receiver
func (s *ReceiverService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.receiverRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.ErrNotFound
		}
		s.logger.Error("Failed to delete receiver", zap.Error(err))
		return shared.NewDomainError("INTERNAL", "Failed to delete receiver")
	}
	return nil
}

// Shippers and receivers share field layout; keep mutation in one place.
func applyLocationCreate(address, city, state, zipCode, contact, phone, email, hours, notes *string, req CreateLocationRequest) {
	*address = strings.TrimSpace(req.Address)
	*city = strings.TrimSpace(req.City)
	*state = strings.ToUpper(strings.TrimSpace(req.State))
	*zipCode = strings.TrimSpace(req.ZipCode)
	*contact = strings.TrimSpace(req.ContactName)
	*phone = strings.TrimSpace(req.Phone)
	*email = strings.ToLower(strings.TrimSpace(req.Email))
	*hours = strings.TrimSpace(req.Hours)
	*notes = req.Notes
}

func applyLocationUpdate(name, address, city, state, zipCode, contact, phone, email, hours, notes *string, req UpdateLocationRequest) error {
	if req.Name != nil {
		trimmed := strings.TrimSpace(*req.Name)
		if trimmed == "" {
			return shared.NewDomainError("INVALID_NAME", "Name is required")
		}
		*name = trimmed
	}
	if req.Address != nil {
		*address = strings.TrimSpace(*req.Address)
	}
	if req.City != nil {
		*city = strings.TrimSpace(*req.City)
	}
	if req.State != nil {
		*state = strings.ToUpper(strings.TrimSpace(*req.State))
	}
	if req.ZipCode != nil {
		*zipCode = strings.TrimSpace(*req.ZipCode)
	}
	if req.ContactName != nil {
		*contact = strings.TrimSpace(*req.ContactName)
	}
	if req.Phone != nil {
		*phone = strings.TrimSpace(*req.Phone)
	}
	if req.Email != nil {
		*email = strings.ToLower(strings.TrimSpace(*req.Email))
	}
	if req.Hours != nil {
		*hours = strings.TrimSpace(*req.Hours)
	}
	if req.Notes != nil {
		*notes = *req.Notes
	}
	return nil
}

func locationFilter(filter LocationListFilter) shared.Filter {
	return shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Search:   filter.Search,
	}.Normalize()
}
