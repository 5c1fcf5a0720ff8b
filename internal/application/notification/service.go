package notification

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/haulstack/tms/internal/domain/fleet"
	"github.com/haulstack/tms/internal/domain/freight"
	"github.com/haulstack/tms/internal/domain/shared"
	"github.com/haulstack/tms/internal/infrastructure/notification"
)

// Service sends SMS notifications to drivers and ad-hoc recipients
type Service struct {
	sms        notification.SMSSender
	driverRepo fleet.DriverRepository
	loadRepo   freight.LoadRepository
	logger     *zap.Logger
}

// NewService creates a new notification service
func NewService(
	sms notification.SMSSender,
	driverRepo fleet.DriverRepository,
	loadRepo freight.LoadRepository,
	logger *zap.Logger,
) *Service {
	return &Service{sms: sms, driverRepo: driverRepo, loadRepo: loadRepo, logger: logger}
}

// SendSMS delivers one message to one phone number
func (s *Service) SendSMS(ctx context.Context, req SendSMSRequest) (*SMSResponse, error) {
	result := s.sms.Send(ctx, req.Phone, req.Message)
	return &SMSResponse{Result: result}, nil
}

// SendBulkSMS delivers a templated message to several recipients. The
// {name} placeholder is replaced per recipient; individual failures do
// not stop the batch.
func (s *Service) SendBulkSMS(ctx context.Context, req SendBulkSMSRequest) (*BulkSMSResponse, error) {
	resp := &BulkSMSResponse{
		Total:   len(req.Recipients),
		Results: make([]notification.SMSResult, 0, len(req.Recipients)),
	}
	for _, recipient := range req.Recipients {
		body := strings.ReplaceAll(req.Message, "{name}", recipient.Name)
		result := s.sms.Send(ctx, recipient.Phone, body)
		if result.Success {
			resp.Successful++
		} else {
			resp.Failed++
		}
		resp.Results = append(resp.Results, result)
	}
	return resp, nil
}

// SendLoadAssignment texts a driver the dispatch details for a load
func (s *Service) SendLoadAssignment(ctx context.Context, req LoadAssignmentRequest) (*SMSResponse, error) {
	load, err := s.findLoad(ctx, req.LoadID)
	if err != nil {
		return nil, err
	}

	driverID := load.DriverID
	if req.DriverID != nil {
		driverID = req.DriverID
	}
	if driverID == nil {
		return nil, shared.NewDomainError("INVALID_STATE", "Load has no assigned driver")
	}
	driver, err := s.findDriver(ctx, *driverID)
	if err != nil {
		return nil, err
	}
	if driver.Phone == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Driver has no phone number on file")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Hi %s,\nYou've been assigned to Load #%s.\n", driver.FirstName, load.LoadNumber)
	if load.OriginCity != "" {
		fmt.Fprintf(&b, "Pickup: %s, %s\n", load.OriginCity, load.OriginState)
	}
	if load.DestCity != "" {
		fmt.Fprintf(&b, "Delivery: %s, %s\n", load.DestCity, load.DestState)
	}
	if load.PickupDate != nil {
		fmt.Fprintf(&b, "Pickup Date: %s\n", load.PickupDate.Format("Jan 2, 2006"))
	}
	b.WriteString("Check the app for full details.")

	result := s.sms.Send(ctx, driver.Phone, b.String())
	return &SMSResponse{Result: result}, nil
}

// SendLoadUpdate texts a load's driver a free-form update
func (s *Service) SendLoadUpdate(ctx context.Context, req LoadUpdateRequest) (*SMSResponse, error) {
	load, err := s.findLoad(ctx, req.LoadID)
	if err != nil {
		return nil, err
	}
	if load.DriverID == nil {
		return nil, shared.NewDomainError("INVALID_STATE", "Load has no assigned driver")
	}
	driver, err := s.findDriver(ctx, *load.DriverID)
	if err != nil {
		return nil, err
	}
	if driver.Phone == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Driver has no phone number on file")
	}

	body := fmt.Sprintf("Update on Load #%s:\n%s", load.LoadNumber, req.Message)
	result := s.sms.Send(ctx, driver.Phone, body)
	return &SMSResponse{Result: result}, nil
}

func (s *Service) findLoad(ctx context.Context, id uuid.UUID) (*freight.Load, error) {
	load, err := s.loadRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("NOT_FOUND", "Load not found")
		}
		s.logger.Error("Failed to fetch load", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL", "Failed to fetch load")
	}
	return load, nil
}

func (s *Service) findDriver(ctx context.Context, id uuid.UUID) (*fleet.Driver, error) {
	driver, err := s.driverRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("NOT_FOUND", "Driver not found")
		}
		s.logger.Error("Failed to load driver", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL", "Failed to load driver")
	}
	return driver, nil
}
