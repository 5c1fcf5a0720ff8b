package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/haulstack/tms/internal/domain/fleet"
)

// DriverModel is the persistence model for the Driver entity.
type DriverModel struct {
	CompanyScopedModel
	FirstName        string          `gorm:"type:varchar(100);not null"`
	LastName         string          `gorm:"type:varchar(100);not null"`
	Email            string          `gorm:"type:varchar(200)"`
	Phone            string          `gorm:"type:varchar(50)"`
	LicenseNumber    string          `gorm:"type:varchar(50)"`
	LicenseState     string          `gorm:"type:varchar(2)"`
	LicenseExpiry    *time.Time
	MedicalCardExp   *time.Time
	HireDate         *time.Time
	Status           string          `gorm:"type:varchar(20);not null;default:'active'"`
	PayType          string          `gorm:"type:varchar(20);not null;default:'per_mile'"`
	PayRate          decimal.Decimal `gorm:"type:numeric(10,4);not null;default:0"`
	TruckID          *uuid.UUID      `gorm:"type:uuid;index"`
	EmergencyContact string          `gorm:"type:varchar(200)"`
	EmergencyPhone   string          `gorm:"type:varchar(50)"`
	Notes            string          `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (DriverModel) TableName() string {
	return "drivers"
}

// ToDomain converts the persistence model to a domain Driver
func (m *DriverModel) ToDomain() *fleet.Driver {
	return &fleet.Driver{
		CompanyEntity:    m.ToDomainCompanyEntity(),
		FirstName:        m.FirstName,
		LastName:         m.LastName,
		Email:            m.Email,
		Phone:            m.Phone,
		LicenseNumber:    m.LicenseNumber,
		LicenseState:     m.LicenseState,
		LicenseExpiry:    m.LicenseExpiry,
		MedicalCardExp:   m.MedicalCardExp,
		HireDate:         m.HireDate,
		Status:           fleet.DriverStatus(m.Status),
		PayType:          fleet.PayType(m.PayType),
		PayRate:          m.PayRate,
		TruckID:          m.TruckID,
		EmergencyContact: m.EmergencyContact,
		EmergencyPhone:   m.EmergencyPhone,
		Notes:            m.Notes,
	}
}

// FromDomain populates the persistence model from a domain Driver
func (m *DriverModel) FromDomain(d *fleet.Driver) {
	m.FromDomainCompanyEntity(d.CompanyEntity)
	m.FirstName = d.FirstName
	m.LastName = d.LastName
	m.Email = d.Email
	m.Phone = d.Phone
	m.LicenseNumber = d.LicenseNumber
	m.LicenseState = d.LicenseState
	m.LicenseExpiry = d.LicenseExpiry
	m.MedicalCardExp = d.MedicalCardExp
	m.HireDate = d.HireDate
	m.Status = string(d.Status)
	m.PayType = string(d.PayType)
	m.PayRate = d.PayRate
	m.TruckID = d.TruckID
	m.EmergencyContact = d.EmergencyContact
	m.EmergencyPhone = d.EmergencyPhone
	m.Notes = d.Notes
}

// DriverModelFromDomain creates a new persistence model from a domain Driver
func DriverModelFromDomain(d *fleet.Driver) *DriverModel {
	m := &DriverModel{}
	m.FromDomain(d)
	return m
}

// TruckModel is the persistence model for the Truck entity.
type TruckModel struct {
	CompanyScopedModel
	TruckNumber     string `gorm:"type:varchar(50);not null;index"`
	Make            string `gorm:"type:varchar(100)"`
	Model           string `gorm:"type:varchar(100)"`
	Year            int    `gorm:"not null;default:0"`
	VIN             string `gorm:"type:varchar(17)"`
	LicensePlate    string `gorm:"type:varchar(20)"`
	PlateState      string `gorm:"type:varchar(2)"`
	Status          string `gorm:"type:varchar(20);not null;default:'active'"`
	Ownership       string `gorm:"type:varchar(20);not null;default:'owned'"`
	RegistrationExp *time.Time
	InspectionExp   *time.Time
	InsuranceExp    *time.Time
	CurrentMileage  int64  `gorm:"not null;default:0"`
	Notes           string `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (TruckModel) TableName() string {
	return "trucks"
}

// ToDomain converts the persistence model to a domain Truck
func (m *TruckModel) ToDomain() *fleet.Truck {
	return &fleet.Truck{
		CompanyEntity:   m.ToDomainCompanyEntity(),
		TruckNumber:     m.TruckNumber,
		Make:            m.Make,
		Model:           m.Model,
		Year:            m.Year,
		VIN:             m.VIN,
		LicensePlate:    m.LicensePlate,
		PlateState:      m.PlateState,
		Status:          fleet.TruckStatus(m.Status),
		Ownership:       fleet.Ownership(m.Ownership),
		RegistrationExp: m.RegistrationExp,
		InspectionExp:   m.InspectionExp,
		InsuranceExp:    m.InsuranceExp,
		CurrentMileage:  m.CurrentMileage,
		Notes:           m.Notes,
	}
}

// FromDomain populates the persistence model from a domain Truck
func (m *TruckModel) FromDomain(t *fleet.Truck) {
	m.FromDomainCompanyEntity(t.CompanyEntity)
	m.TruckNumber = t.TruckNumber
	m.Make = t.Make
	m.Model = t.Model
	m.Year = t.Year
	m.VIN = t.VIN
	m.LicensePlate = t.LicensePlate
	m.PlateState = t.PlateState
	m.Status = string(t.Status)
	m.Ownership = string(t.Ownership)
	m.RegistrationExp = t.RegistrationExp
	m.InspectionExp = t.InspectionExp
	m.InsuranceExp = t.InsuranceExp
	m.CurrentMileage = t.CurrentMileage
	m.Notes = t.Notes
}

// TruckModelFromDomain creates a new persistence model from a domain Truck
func TruckModelFromDomain(t *fleet.Truck) *TruckModel {
	m := &TruckModel{}
	m.FromDomain(t)
	return m
}
