package freight

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/haulstack/tms/internal/domain/shared"
)

// RateconStatus represents the review state of a rate confirmation
type RateconStatus string

const (
	RateconStatusReceived  RateconStatus = "received"
	RateconStatusConfirmed RateconStatus = "confirmed"
	RateconStatusRejected  RateconStatus = "rejected"
)

// Ratecon is a rate confirmation document attached to a load. The
// DocumentKey is a storage key served through the upload proxy, never a
// direct bucket URL.
type Ratecon struct {
	shared.CompanyEntity
	LoadID      uuid.UUID
	DocumentKey string
	Status      RateconStatus
	Amount      decimal.Decimal
	BrokerName  string
	ReviewedAt  *time.Time
	Notes       string
}

// NewRatecon records a received rate confirmation for a load
func NewRatecon(companyID, loadID uuid.UUID, documentKey string, amount decimal.Decimal) (*Ratecon, error) {
	if loadID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "Load is required")
	}
	if documentKey == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Document is required")
	}
	if amount.IsNegative() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Amount cannot be negative")
	}

	return &Ratecon{
		CompanyEntity: shared.NewCompanyEntity(companyID),
		LoadID:        loadID,
		DocumentKey:   documentKey,
		Status:        RateconStatusReceived,
		Amount:        amount,
	}, nil
}

// Confirm accepts the rate confirmation
func (r *Ratecon) Confirm(at time.Time) error {
	if r.Status != RateconStatusReceived {
		return shared.ErrInvalidState
	}
	r.Status = RateconStatusConfirmed
	r.ReviewedAt = &at
	r.Touch()
	return nil
}

// Reject declines the rate confirmation
func (r *Ratecon) Reject(at time.Time, reason string) error {
	if r.Status != RateconStatusReceived {
		return shared.ErrInvalidState
	}
	r.Status = RateconStatusRejected
	r.ReviewedAt = &at
	r.Notes = reason
	r.Touch()
	return nil
}

// RateconRepository defines persistence operations for rate confirmations
type RateconRepository interface {
	Save(ctx context.Context, ratecon *Ratecon) error
	Update(ctx context.Context, ratecon *Ratecon) error
	FindByID(ctx context.Context, id uuid.UUID) (*Ratecon, error)
	FindByLoad(ctx context.Context, loadID uuid.UUID) ([]*Ratecon, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]*Ratecon, int64, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
