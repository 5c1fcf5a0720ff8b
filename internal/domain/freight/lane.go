package freight

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/haulstack/tms/internal/domain/shared"
)

// Lane is a recurring origin/destination pair with negotiated pricing,
// used to pre-fill new loads and track lane profitability.
type Lane struct {
	shared.CompanyEntity
	OriginCity  string
	OriginState string
	DestCity    string
	DestState   string
	CustomerID  *uuid.UUID
	Miles       int
	Rate        decimal.Decimal
	Equipment   EquipmentType
	Notes       string
	Active      bool
}

// NewLane creates an active lane
func NewLane(companyID uuid.UUID, originCity, originState, destCity, destState string) (*Lane, error) {
	originCity = strings.TrimSpace(originCity)
	originState = strings.ToUpper(strings.TrimSpace(originState))
	destCity = strings.TrimSpace(destCity)
	destState = strings.ToUpper(strings.TrimSpace(destState))

	if originCity == "" || originState == "" || destCity == "" || destState == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Lane origin and destination are required")
	}
	if len(originState) != 2 || len(destState) != 2 {
		return nil, shared.NewDomainError("INVALID_INPUT", "State must be a two-letter code")
	}

	return &Lane{
		CompanyEntity: shared.NewCompanyEntity(companyID),
		OriginCity:    originCity,
		OriginState:   originState,
		DestCity:      destCity,
		DestState:     destState,
		Rate:          decimal.Zero,
		Active:        true,
	}, nil
}

// SetRate sets the negotiated lane rate and miles
func (l *Lane) SetRate(rate decimal.Decimal, miles int) error {
	if rate.IsNegative() {
		return shared.NewDomainError("INVALID_INPUT", "Rate cannot be negative")
	}
	if miles < 0 {
		return shared.NewDomainError("INVALID_INPUT", "Miles cannot be negative")
	}
	l.Rate = rate
	l.Miles = miles
	l.Touch()
	return nil
}

// RatePerMile computes the lane's revenue per mile
func (l *Lane) RatePerMile() decimal.Decimal {
	if l.Miles <= 0 {
		return decimal.Zero
	}
	return l.Rate.DivRound(decimal.NewFromInt(int64(l.Miles)), 2)
}

// Deactivate retires the lane
func (l *Lane) Deactivate() {
	l.Active = false
	l.Touch()
}

// LaneRepository defines persistence operations for lanes
type LaneRepository interface {
	Save(ctx context.Context, lane *Lane) error
	Update(ctx context.Context, lane *Lane) error
	FindByID(ctx context.Context, id uuid.UUID) (*Lane, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]*Lane, int64, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
