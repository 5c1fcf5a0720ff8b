package fleet

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/haulstack/tms/internal/domain/fleet"
)

// =============================================================================
// Driver DTOs
// =============================================================================

// CreateDriverRequest represents a request to create a driver
type CreateDriverRequest struct {
	FirstName        string           `json:"first_name" binding:"required,min=1,max=100"`
	LastName         string           `json:"last_name" binding:"required,min=1,max=100"`
	Email            string           `json:"email" binding:"omitempty,email,max=200"`
	Phone            string           `json:"phone" binding:"max=50"`
	LicenseNumber    string           `json:"license_number" binding:"max=50"`
	LicenseState     string           `json:"license_state" binding:"max=2"`
	LicenseExpiry    *time.Time       `json:"license_expiry"`
	MedicalCardExp   *time.Time       `json:"medical_card_exp"`
	HireDate         *time.Time       `json:"hire_date"`
	PayType          string           `json:"pay_type" binding:"omitempty,oneof=per_mile percentage hourly salary"`
	PayRate          *decimal.Decimal `json:"pay_rate"`
	TruckID          *uuid.UUID       `json:"truck_id"`
	EmergencyContact string           `json:"emergency_contact" binding:"max=100"`
	EmergencyPhone   string           `json:"emergency_phone" binding:"max=50"`
	Notes            string           `json:"notes"`
}

// UpdateDriverRequest represents a request to update a driver
type UpdateDriverRequest struct {
	FirstName        *string          `json:"first_name" binding:"omitempty,min=1,max=100"`
	LastName         *string          `json:"last_name" binding:"omitempty,min=1,max=100"`
	Email            *string          `json:"email" binding:"omitempty,email,max=200"`
	Phone            *string          `json:"phone" binding:"omitempty,max=50"`
	LicenseNumber    *string          `json:"license_number" binding:"omitempty,max=50"`
	LicenseState     *string          `json:"license_state" binding:"omitempty,max=2"`
	LicenseExpiry    *time.Time       `json:"license_expiry"`
	MedicalCardExp   *time.Time       `json:"medical_card_exp"`
	HireDate         *time.Time       `json:"hire_date"`
	Status           *string          `json:"status" binding:"omitempty,oneof=active inactive on_leave"`
	PayType          *string          `json:"pay_type" binding:"omitempty,oneof=per_mile percentage hourly salary"`
	PayRate          *decimal.Decimal `json:"pay_rate"`
	TruckID          *uuid.UUID       `json:"truck_id"`
	UnassignTruck    bool             `json:"unassign_truck"`
	EmergencyContact *string          `json:"emergency_contact" binding:"omitempty,max=100"`
	EmergencyPhone   *string          `json:"emergency_phone" binding:"omitempty,max=50"`
	Notes            *string          `json:"notes"`
}

// DriverListFilter represents filter options for driver listings
type DriverListFilter struct {
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir"`
	Search   string `form:"search"`
}

// DriverResponse represents a driver in API responses
type DriverResponse struct {
	ID               uuid.UUID       `json:"id"`
	CompanyID        uuid.UUID       `json:"company_id"`
	FirstName        string          `json:"first_name"`
	LastName         string          `json:"last_name"`
	Email            string          `json:"email,omitempty"`
	Phone            string          `json:"phone,omitempty"`
	LicenseNumber    string          `json:"license_number,omitempty"`
	LicenseState     string          `json:"license_state,omitempty"`
	LicenseExpiry    *time.Time      `json:"license_expiry,omitempty"`
	MedicalCardExp   *time.Time      `json:"medical_card_exp,omitempty"`
	HireDate         *time.Time      `json:"hire_date,omitempty"`
	Status           string          `json:"status"`
	PayType          string          `json:"pay_type"`
	PayRate          decimal.Decimal `json:"pay_rate"`
	TruckID          *uuid.UUID      `json:"truck_id,omitempty"`
	EmergencyContact string          `json:"emergency_contact,omitempty"`
	EmergencyPhone   string          `json:"emergency_phone,omitempty"`
	Notes            string          `json:"notes,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// DriverListResult represents a paginated driver list
type DriverListResult struct {
	Drivers  []DriverResponse `json:"drivers"`
	Total    int64            `json:"total"`
	Page     int              `json:"page"`
	PageSize int              `json:"page_size"`
}

// ToDriverResponse converts a domain driver to its API representation
func ToDriverResponse(d *fleet.Driver) DriverResponse {
	return DriverResponse{
		ID:               d.ID,
		CompanyID:        d.CompanyID,
		FirstName:        d.FirstName,
		LastName:         d.LastName,
		Email:            d.Email,
		Phone:            d.Phone,
		LicenseNumber:    d.LicenseNumber,
		LicenseState:     d.LicenseState,
		LicenseExpiry:    d.LicenseExpiry,
		MedicalCardExp:   d.MedicalCardExp,
		HireDate:         d.HireDate,
		Status:           string(d.Status),
		PayType:          string(d.PayType),
		PayRate:          d.PayRate,
		TruckID:          d.TruckID,
		EmergencyContact: d.EmergencyContact,
		EmergencyPhone:   d.EmergencyPhone,
		Notes:            d.Notes,
		CreatedAt:        d.CreatedAt,
		UpdatedAt:        d.UpdatedAt,
	}
}

// =============================================================================
// Truck DTOs
// =============================================================================

// CreateTruckRequest represents a request to create a truck
type CreateTruckRequest struct {
	TruckNumber     string     `json:"truck_number" binding:"required,min=1,max=50"`
	Make            string     `json:"make" binding:"max=100"`
	Model           string     `json:"model" binding:"max=100"`
	Year            int        `json:"year" binding:"omitempty,min=1950,max=2100"`
	VIN             string     `json:"vin" binding:"max=17"`
	LicensePlate    string     `json:"license_plate" binding:"max=20"`
	PlateState      string     `json:"plate_state" binding:"max=2"`
	Ownership       string     `json:"ownership" binding:"omitempty,oneof=owned leased owner_operator"`
	RegistrationExp *time.Time `json:"registration_exp"`
	InspectionExp   *time.Time `json:"inspection_exp"`
	InsuranceExp    *time.Time `json:"insurance_exp"`
	CurrentMileage  int64      `json:"current_mileage" binding:"omitempty,min=0"`
	Notes           string     `json:"notes"`
}

// UpdateTruckRequest represents a request to update a truck
type UpdateTruckRequest struct {
	Make            *string    `json:"make" binding:"omitempty,max=100"`
	Model           *string    `json:"model" binding:"omitempty,max=100"`
	Year            *int       `json:"year" binding:"omitempty,min=1950,max=2100"`
	VIN             *string    `json:"vin" binding:"omitempty,max=17"`
	LicensePlate    *string    `json:"license_plate" binding:"omitempty,max=20"`
	PlateState      *string    `json:"plate_state" binding:"omitempty,max=2"`
	Status          *string    `json:"status" binding:"omitempty,oneof=active maintenance inactive"`
	Ownership       *string    `json:"ownership" binding:"omitempty,oneof=owned leased owner_operator"`
	RegistrationExp *time.Time `json:"registration_exp"`
	InspectionExp   *time.Time `json:"inspection_exp"`
	InsuranceExp    *time.Time `json:"insurance_exp"`
	CurrentMileage  *int64     `json:"current_mileage" binding:"omitempty,min=0"`
	Notes           *string    `json:"notes"`
}

// TruckListFilter represents filter options for truck listings
type TruckListFilter struct {
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir"`
	Search   string `form:"search"`
}

// TruckResponse represents a truck in API responses
type TruckResponse struct {
	ID              uuid.UUID  `json:"id"`
	CompanyID       uuid.UUID  `json:"company_id"`
	TruckNumber     string     `json:"truck_number"`
	Make            string     `json:"make,omitempty"`
	Model           string     `json:"model,omitempty"`
	Year            int        `json:"year,omitempty"`
	VIN             string     `json:"vin,omitempty"`
	LicensePlate    string     `json:"license_plate,omitempty"`
	PlateState      string     `json:"plate_state,omitempty"`
	Status          string     `json:"status"`
	Ownership       string     `json:"ownership"`
	RegistrationExp *time.Time `json:"registration_exp,omitempty"`
	InspectionExp   *time.Time `json:"inspection_exp,omitempty"`
	InsuranceExp    *time.Time `json:"insurance_exp,omitempty"`
	CurrentMileage  int64      `json:"current_mileage"`
	Notes           string     `json:"notes,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// TruckListResult represents a paginated truck list
type TruckListResult struct {
	Trucks   []TruckResponse `json:"trucks"`
	Total    int64           `json:"total"`
	Page     int             `json:"page"`
	PageSize int             `json:"page_size"`
}

// ToTruckResponse converts a domain truck to its API representation
func ToTruckResponse(t *fleet.Truck) TruckResponse {
	return TruckResponse{
		ID:              t.ID,
		CompanyID:       t.CompanyID,
		TruckNumber:     t.TruckNumber,
		Make:            t.Make,
		Model:           t.Model,
		Year:            t.Year,
		VIN:             t.VIN,
		LicensePlate:    t.LicensePlate,
		PlateState:      t.PlateState,
		Status:          string(t.Status),
		Ownership:       string(t.Ownership),
		RegistrationExp: t.RegistrationExp,
		InspectionExp:   t.InspectionExp,
		InsuranceExp:    t.InsuranceExp,
		CurrentMileage:  t.CurrentMileage,
		Notes:           t.Notes,
		CreatedAt:       t.CreatedAt,
		UpdatedAt:       t.UpdatedAt,
	}
}
