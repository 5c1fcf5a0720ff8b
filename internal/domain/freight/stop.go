package freight

import (
	"time"

	"github.com/google/uuid"

	"github.com/haulstack/tms/internal/domain/shared"
)

// StopType distinguishes pickups from deliveries
type StopType string

const (
	StopTypePickup   StopType = "pickup"
	StopTypeDelivery StopType = "delivery"
)

// Stop is a scheduled pickup or delivery on a load's route.
// It references an address book entry (shipper or receiver) and carries
// the appointment window plus actual arrival times for detention.
type Stop struct {
	shared.BaseEntity
	LoadID     uuid.UUID
	Type       StopType
	Sequence   int
	ShipperID  *uuid.UUID // set for pickups
	ReceiverID *uuid.UUID // set for deliveries
	Address    string
	City       string
	State      string
	ZipCode    string
	WindowFrom *time.Time
	WindowTo   *time.Time
	ArrivedAt  *time.Time
	DepartedAt *time.Time
	Notes      string
}

// NewStop creates a stop of the given type
func NewStop(loadID uuid.UUID, stopType StopType) (*Stop, error) {
	if stopType != StopTypePickup && stopType != StopTypeDelivery {
		return nil, shared.NewDomainError("INVALID_INPUT", "Unknown stop type")
	}
	return &Stop{
		BaseEntity: shared.NewBaseEntity(),
		LoadID:     loadID,
		Type:       stopType,
	}, nil
}

// RecordArrival stamps the arrival time
func (s *Stop) RecordArrival(at time.Time) error {
	if s.ArrivedAt != nil {
		return shared.ErrInvalidState
	}
	s.ArrivedAt = &at
	s.Touch()
	return nil
}

// RecordDeparture stamps the departure time; arrival must come first
func (s *Stop) RecordDeparture(at time.Time) error {
	if s.ArrivedAt == nil {
		return shared.ErrInvalidState
	}
	if at.Before(*s.ArrivedAt) {
		return shared.NewDomainError("INVALID_INPUT", "Departure cannot precede arrival")
	}
	s.DepartedAt = &at
	s.Touch()
	return nil
}

// Dwell returns the time spent at the stop, zero until departed
func (s *Stop) Dwell() time.Duration {
	if s.ArrivedAt == nil || s.DepartedAt == nil {
		return 0
	}
	return s.DepartedAt.Sub(*s.ArrivedAt)
}
