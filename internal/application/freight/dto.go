package freight

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/haulstack/tms/internal/domain/freight"
)

// =============================================================================
// Load DTOs
// =============================================================================

// StopInput represents one stop in a load create or update request
type StopInput struct {
	Type       string     `json:"type" binding:"required,oneof=pickup delivery"`
	Sequence   int        `json:"sequence" binding:"min=0"`
	ShipperID  *uuid.UUID `json:"shipper_id"`
	ReceiverID *uuid.UUID `json:"receiver_id"`
	Address    string     `json:"address" binding:"max=500"`
	City       string     `json:"city" binding:"max=100"`
	State      string     `json:"state" binding:"max=2"`
	ZipCode    string     `json:"zip_code" binding:"max=20"`
	WindowFrom *time.Time `json:"window_from"`
	WindowTo   *time.Time `json:"window_to"`
	Notes      string     `json:"notes"`
}

// CreateLoadRequest represents a request to create a load
type CreateLoadRequest struct {
	LoadNumber    string           `json:"load_number" binding:"required,min=1,max=50"`
	CustomerID    uuid.UUID        `json:"customer_id" binding:"required"`
	Rate          decimal.Decimal  `json:"rate" binding:"required"`
	FuelSurcharge *decimal.Decimal `json:"fuel_surcharge"`
	Accessorial   *decimal.Decimal `json:"accessorial"`
	Miles         int              `json:"miles" binding:"omitempty,min=0"`
	Weight        int              `json:"weight" binding:"omitempty,min=0"`
	Commodity     string           `json:"commodity" binding:"max=200"`
	Equipment     string           `json:"equipment" binding:"omitempty,oneof=dry_van reefer flatbed step_deck power_only"`
	ReferenceNum  string           `json:"reference_number" binding:"max=100"`
	OriginCity    string           `json:"origin_city" binding:"max=100"`
	OriginState   string           `json:"origin_state" binding:"max=2"`
	DestCity      string           `json:"dest_city" binding:"max=100"`
	DestState     string           `json:"dest_state" binding:"max=2"`
	PickupDate    *time.Time       `json:"pickup_date"`
	DeliveryDate  *time.Time       `json:"delivery_date"`
	Notes         string           `json:"notes"`
	Stops         []StopInput      `json:"stops" binding:"dive"`
}

// UpdateLoadRequest represents a request to update a load. When Stops is
// present the stop list is replaced wholesale.
type UpdateLoadRequest struct {
	CustomerID    *uuid.UUID       `json:"customer_id"`
	Rate          *decimal.Decimal `json:"rate"`
	FuelSurcharge *decimal.Decimal `json:"fuel_surcharge"`
	Accessorial   *decimal.Decimal `json:"accessorial"`
	PODKey        *string          `json:"pod_key" binding:"omitempty,max=500"`
	RateconKey    *string          `json:"ratecon_key" binding:"omitempty,max=500"`
	Miles         *int             `json:"miles" binding:"omitempty,min=0"`
	Weight        *int             `json:"weight" binding:"omitempty,min=0"`
	Commodity     *string          `json:"commodity" binding:"omitempty,max=200"`
	Equipment     *string          `json:"equipment" binding:"omitempty,oneof=dry_van reefer flatbed step_deck power_only"`
	ReferenceNum  *string          `json:"reference_number" binding:"omitempty,max=100"`
	OriginCity    *string          `json:"origin_city" binding:"omitempty,max=100"`
	OriginState   *string          `json:"origin_state" binding:"omitempty,max=2"`
	DestCity      *string          `json:"dest_city" binding:"omitempty,max=100"`
	DestState     *string          `json:"dest_state" binding:"omitempty,max=2"`
	PickupDate    *time.Time       `json:"pickup_date"`
	DeliveryDate  *time.Time       `json:"delivery_date"`
	Notes         *string          `json:"notes"`
	Stops         []StopInput      `json:"stops" binding:"omitempty,dive"`
}

// AssignLoadRequest assigns a driver and truck to a load
type AssignLoadRequest struct {
	DriverID uuid.UUID `json:"driver_id" binding:"required"`
	TruckID  uuid.UUID `json:"truck_id" binding:"required"`
}

// UpdateLoadStatusRequest moves a load through its lifecycle
type UpdateLoadStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=in_transit delivered cancelled"`
}

// LoadListFilter represents filter options for load listings
type LoadListFilter struct {
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir"`
	Search   string `form:"search"`
	Status   string `form:"status"`
}

// StopResponse represents a stop in API responses
type StopResponse struct {
	ID         uuid.UUID  `json:"id"`
	LoadID     uuid.UUID  `json:"load_id"`
	Type       string     `json:"type"`
	Sequence   int        `json:"sequence"`
	ShipperID  *uuid.UUID `json:"shipper_id,omitempty"`
	ReceiverID *uuid.UUID `json:"receiver_id,omitempty"`
	Address    string     `json:"address,omitempty"`
	City       string     `json:"city,omitempty"`
	State      string     `json:"state,omitempty"`
	ZipCode    string     `json:"zip_code,omitempty"`
	WindowFrom *time.Time `json:"window_from,omitempty"`
	WindowTo   *time.Time `json:"window_to,omitempty"`
	ArrivedAt  *time.Time `json:"arrived_at,omitempty"`
	DepartedAt *time.Time `json:"departed_at,omitempty"`
	Notes      string     `json:"notes,omitempty"`
}

// LoadResponse represents a load in API responses
type LoadResponse struct {
	ID            uuid.UUID       `json:"id"`
	CompanyID     uuid.UUID       `json:"company_id"`
	LoadNumber    string          `json:"load_number"`
	CustomerID    uuid.UUID       `json:"customer_id"`
	DriverID      *uuid.UUID      `json:"driver_id,omitempty"`
	TruckID       *uuid.UUID      `json:"truck_id,omitempty"`
	Status        string          `json:"status"`
	Rate          decimal.Decimal `json:"rate"`
	FuelSurcharge decimal.Decimal `json:"fuel_surcharge"`
	Accessorial   decimal.Decimal `json:"accessorial"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	RatePerMile   decimal.Decimal `json:"rate_per_mile"`
	Miles         int             `json:"miles"`
	Weight        int             `json:"weight,omitempty"`
	Commodity     string          `json:"commodity,omitempty"`
	Equipment     string          `json:"equipment,omitempty"`
	ReferenceNum  string          `json:"reference_number,omitempty"`
	OriginCity    string          `json:"origin_city,omitempty"`
	OriginState   string          `json:"origin_state,omitempty"`
	DestCity      string          `json:"dest_city,omitempty"`
	DestState     string          `json:"dest_state,omitempty"`
	PickupDate    *time.Time      `json:"pickup_date,omitempty"`
	DeliveryDate  *time.Time      `json:"delivery_date,omitempty"`
	DeliveredAt   *time.Time      `json:"delivered_at,omitempty"`
	PODKey        string          `json:"pod_key,omitempty"`
	RateconKey    string          `json:"ratecon_key,omitempty"`
	Notes         string          `json:"notes,omitempty"`
	Stops         []StopResponse  `json:"stops"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// LoadListResult represents a paginated load list
type LoadListResult struct {
	Loads    []LoadResponse `json:"loads"`
	Total    int64          `json:"total"`
	Page     int            `json:"page"`
	PageSize int            `json:"page_size"`
}

// ToStopResponse converts a domain stop to its API representation
func ToStopResponse(s *freight.Stop) StopResponse {
	return StopResponse{
		ID:         s.ID,
		LoadID:     s.LoadID,
		Type:       string(s.Type),
		Sequence:   s.Sequence,
		ShipperID:  s.ShipperID,
		ReceiverID: s.ReceiverID,
		Address:    s.Address,
		City:       s.City,
		State:      s.State,
		ZipCode:    s.ZipCode,
		WindowFrom: s.WindowFrom,
		WindowTo:   s.WindowTo,
		ArrivedAt:  s.ArrivedAt,
		DepartedAt: s.DepartedAt,
		Notes:      s.Notes,
	}
}

// ToLoadResponse converts a domain load to its API representation
func ToLoadResponse(l *freight.Load) LoadResponse {
	stops := make([]StopResponse, 0, len(l.Stops))
	for _, s := range l.Stops {
		stops = append(stops, ToStopResponse(s))
	}
	return LoadResponse{
		ID:            l.ID,
		CompanyID:     l.CompanyID,
		LoadNumber:    l.LoadNumber,
		CustomerID:    l.CustomerID,
		DriverID:      l.DriverID,
		TruckID:       l.TruckID,
		Status:        string(l.Status),
		Rate:          l.Rate,
		FuelSurcharge: l.FuelSurcharge,
		Accessorial:   l.Accessorial,
		TotalAmount:   l.TotalAmount(),
		RatePerMile:   l.RatePerMile(),
		Miles:         l.Miles,
		Weight:        l.Weight,
		Commodity:     l.Commodity,
		Equipment:     string(l.Equipment),
		ReferenceNum:  l.ReferenceNum,
		OriginCity:    l.OriginCity,
		OriginState:   l.OriginState,
		DestCity:      l.DestCity,
		DestState:     l.DestState,
		PickupDate:    l.PickupDate,
		DeliveryDate:  l.DeliveryDate,
		DeliveredAt:   l.DeliveredAt,
		PODKey:        l.PODKey,
		RateconKey:    l.RateconKey,
		Notes:         l.Notes,
		Stops:         stops,
		CreatedAt:     l.CreatedAt,
		UpdatedAt:     l.UpdatedAt,
	}
}

// =============================================================================
// Shipper / Receiver DTOs
// =============================================================================

// CreateLocationRequest creates a shipper or receiver
type CreateLocationRequest struct {
	Name        string `json:"name" binding:"required,min=1,max=200"`
	Address     string `json:"address" binding:"max=500"`
	City        string `json:"city" binding:"max=100"`
	State       string `json:"state" binding:"max=2"`
	ZipCode     string `json:"zip_code" binding:"max=20"`
	ContactName string `json:"contact_name" binding:"max=100"`
	Phone       string `json:"phone" binding:"max=50"`
	Email       string `json:"email" binding:"omitempty,email,max=200"`
	Hours       string `json:"hours" binding:"max=200"`
	Notes       string `json:"notes"`
}

// UpdateLocationRequest updates a shipper or receiver
type UpdateLocationRequest struct {
	Name        *string `json:"name" binding:"omitempty,min=1,max=200"`
	Address     *string `json:"address" binding:"omitempty,max=500"`
	City        *string `json:"city" binding:"omitempty,max=100"`
	State       *string `json:"state" binding:"omitempty,max=2"`
	ZipCode     *string `json:"zip_code" binding:"omitempty,max=20"`
	ContactName *string `json:"contact_name" binding:"omitempty,max=100"`
	Phone       *string `json:"phone" binding:"omitempty,max=50"`
	Email       *string `json:"email" binding:"omitempty,email,max=200"`
	Hours       *string `json:"hours" binding:"omitempty,max=200"`
	Notes       *string `json:"notes"`
}

// LocationListFilter represents filter options for shipper/receiver listings
type LocationListFilter struct {
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir"`
	Search   string `form:"search"`
}

// LocationResponse represents a shipper or receiver in API responses
type LocationResponse struct {
	ID          uuid.UUID `json:"id"`
	CompanyID   uuid.UUID `json:"company_id"`
	Name        string    `json:"name"`
	Address     string    `json:"address,omitempty"`
	City        string    `json:"city,omitempty"`
	State       string    `json:"state,omitempty"`
	ZipCode     string    `json:"zip_code,omitempty"`
	ContactName string    `json:"contact_name,omitempty"`
	Phone       string    `json:"phone,omitempty"`
	Email       string    `json:"email,omitempty"`
	Hours       string    `json:"hours,omitempty"`
	Notes       string    `json:"notes,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// LocationListResult represents a paginated shipper/receiver list
type LocationListResult struct {
	Locations []LocationResponse `json:"locations"`
	Total     int64              `json:"total"`
	Page      int                `json:"page"`
	PageSize  int                `json:"page_size"`
}

// ToShipperResponse converts a domain shipper to its API representation
func ToShipperResponse(s *freight.Shipper) LocationResponse {
	return LocationResponse{
		ID:          s.ID,
		CompanyID:   s.CompanyID,
		Name:        s.Name,
		Address:     s.Address,
		City:        s.City,
		State:       s.State,
		ZipCode:     s.ZipCode,
		ContactName: s.ContactName,
		Phone:       s.Phone,
		Email:       s.Email,
		Hours:       s.Hours,
		Notes:       s.Notes,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}

// ToReceiverResponse converts a domain receiver to its API representation
func ToReceiverResponse(r *freight.Receiver) LocationResponse {
	return LocationResponse{
		ID:          r.ID,
		CompanyID:   r.CompanyID,
		Name:        r.Name,
		Address:     r.Address,
		City:        r.City,
		State:       r.State,
		ZipCode:     r.ZipCode,
		ContactName: r.ContactName,
		Phone:       r.Phone,
		Email:       r.Email,
		Hours:       r.Hours,
		Notes:       r.Notes,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

// =============================================================================
// Lane DTOs
// =============================================================================

// CreateLaneRequest represents a request to create a lane
type CreateLaneRequest struct {
	OriginCity  string           `json:"origin_city" binding:"required,max=100"`
	OriginState string           `json:"origin_state" binding:"required,max=2"`
	DestCity    string           `json:"dest_city" binding:"required,max=100"`
	DestState   string           `json:"dest_state" binding:"required,max=2"`
	CustomerID  *uuid.UUID       `json:"customer_id"`
	Miles       int              `json:"miles" binding:"omitempty,min=0"`
	Rate        *decimal.Decimal `json:"rate"`
	Equipment   string           `json:"equipment" binding:"omitempty,oneof=dry_van reefer flatbed step_deck power_only"`
	Notes       string           `json:"notes"`
}

// UpdateLaneRequest represents a request to update a lane
type UpdateLaneRequest struct {
	CustomerID *uuid.UUID       `json:"customer_id"`
	Miles      *int             `json:"miles" binding:"omitempty,min=0"`
	Rate       *decimal.Decimal `json:"rate"`
	Equipment  *string          `json:"equipment" binding:"omitempty,oneof=dry_van reefer flatbed step_deck power_only"`
	Notes      *string          `json:"notes"`
	Active     *bool            `json:"active"`
}

// LaneListFilter represents filter options for lane listings
type LaneListFilter struct {
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir"`
	Search   string `form:"search"`
}

// LaneResponse represents a lane in API responses
type LaneResponse struct {
	ID          uuid.UUID       `json:"id"`
	CompanyID   uuid.UUID       `json:"company_id"`
	OriginCity  string          `json:"origin_city"`
	OriginState string          `json:"origin_state"`
	DestCity    string          `json:"dest_city"`
	DestState   string          `json:"dest_state"`
	CustomerID  *uuid.UUID      `json:"customer_id,omitempty"`
	Miles       int             `json:"miles"`
	Rate        decimal.Decimal `json:"rate"`
	RatePerMile decimal.Decimal `json:"rate_per_mile"`
	Equipment   string          `json:"equipment,omitempty"`
	Notes       string          `json:"notes,omitempty"`
	Active      bool            `json:"active"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// LaneListResult represents a paginated lane list
type LaneListResult struct {
	Lanes    []LaneResponse `json:"lanes"`
	Total    int64          `json:"total"`
	Page     int            `json:"page"`
	PageSize int            `json:"page_size"`
}

// ToLaneResponse converts a domain lane to its API representation
func ToLaneResponse(l *freight.Lane) LaneResponse {
	return LaneResponse{
		ID:          l.ID,
		CompanyID:   l.CompanyID,
		OriginCity:  l.OriginCity,
		OriginState: l.OriginState,
		DestCity:    l.DestCity,
		DestState:   l.DestState,
		CustomerID:  l.CustomerID,
		Miles:       l.Miles,
		Rate:        l.Rate,
		RatePerMile: l.RatePerMile(),
		Equipment:   string(l.Equipment),
		Notes:       l.Notes,
		Active:      l.Active,
		CreatedAt:   l.CreatedAt,
		UpdatedAt:   l.UpdatedAt,
	}
}

// =============================================================================
// Ratecon DTOs
// =============================================================================

// CreateRateconRequest represents a request to record a rate confirmation
type CreateRateconRequest struct {
	LoadID      uuid.UUID       `json:"load_id" binding:"required"`
	DocumentKey string          `json:"document_key" binding:"required"`
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	BrokerName  string          `json:"broker_name" binding:"max=200"`
	Notes       string          `json:"notes"`
}

// ReviewRateconRequest confirms or rejects a rate confirmation
type ReviewRateconRequest struct {
	Decision string `json:"decision" binding:"required,oneof=confirmed rejected"`
	Reason   string `json:"reason" binding:"max=500"`
}

// RateconListFilter represents filter options for ratecon listings
type RateconListFilter struct {
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir"`
	Search   string `form:"search"`
}

// RateconResponse represents a rate confirmation in API responses
type RateconResponse struct {
	ID          uuid.UUID       `json:"id"`
	CompanyID   uuid.UUID       `json:"company_id"`
	LoadID      uuid.UUID       `json:"load_id"`
	DocumentKey string          `json:"document_key"`
	Status      string          `json:"status"`
	Amount      decimal.Decimal `json:"amount"`
	BrokerName  string          `json:"broker_name,omitempty"`
	ReviewedAt  *time.Time      `json:"reviewed_at,omitempty"`
	Notes       string          `json:"notes,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// RateconListResult represents a paginated ratecon list
type RateconListResult struct {
	Ratecons []RateconResponse `json:"ratecons"`
	Total    int64             `json:"total"`
	Page     int               `json:"page"`
	PageSize int               `json:"page_size"`
}

// ToRateconResponse converts a domain ratecon to its API representation
func ToRateconResponse(r *freight.Ratecon) RateconResponse {
	return RateconResponse{
		ID:          r.ID,
		CompanyID:   r.CompanyID,
		LoadID:      r.LoadID,
		DocumentKey: r.DocumentKey,
		Status:      string(r.Status),
		Amount:      r.Amount,
		BrokerName:  r.BrokerName,
		ReviewedAt:  r.ReviewedAt,
		Notes:       r.Notes,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}
