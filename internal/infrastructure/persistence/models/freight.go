package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/haulstack/tms/internal/domain/freight"
)

// LoadModel is the persistence model for the Load entity.
type LoadModel struct {
	CompanyScopedModel
	LoadNumber    string          `gorm:"type:varchar(50);not null;index"`
	CustomerID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	DriverID      *uuid.UUID      `gorm:"type:uuid;index"`
	TruckID       *uuid.UUID      `gorm:"type:uuid;index"`
	Status        string          `gorm:"type:varchar(20);not null;default:'pending';index"`
	Rate          decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0"`
	FuelSurcharge decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0"`
	Accessorial   decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0"`
	TotalAmount   decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0"`
	Miles         int             `gorm:"not null;default:0"`
	Weight        int             `gorm:"not null;default:0"`
	Commodity     string          `gorm:"type:varchar(200)"`
	Equipment     string          `gorm:"type:varchar(20)"`
	ReferenceNum  string          `gorm:"type:varchar(100)"`
	OriginCity    string          `gorm:"type:varchar(100)"`
	OriginState   string          `gorm:"type:varchar(2)"`
	DestCity      string          `gorm:"type:varchar(100)"`
	DestState     string          `gorm:"type:varchar(2)"`
	PickupDate    *time.Time
	DeliveryDate  *time.Time
	DeliveredAt   *time.Time
	PODKey        string      `gorm:"type:varchar(500)"`
	RateconKey    string      `gorm:"type:varchar(500)"`
	Notes         string      `gorm:"type:text"`
	Stops         []StopModel `gorm:"foreignKey:LoadID"`
}

// TableName returns the table name for GORM
func (LoadModel) TableName() string {
	return "loads"
}

// ToDomain converts the persistence model to a domain Load
func (m *LoadModel) ToDomain() *freight.Load {
	load := &freight.Load{
		CompanyEntity: m.ToDomainCompanyEntity(),
		LoadNumber:    m.LoadNumber,
		CustomerID:    m.CustomerID,
		DriverID:      m.DriverID,
		TruckID:       m.TruckID,
		Status:        freight.LoadStatus(m.Status),
		Rate:          m.Rate,
		FuelSurcharge: m.FuelSurcharge,
		Accessorial:   m.Accessorial,
		Miles:         m.Miles,
		Weight:        m.Weight,
		Commodity:     m.Commodity,
		Equipment:     freight.EquipmentType(m.Equipment),
		ReferenceNum:  m.ReferenceNum,
		OriginCity:    m.OriginCity,
		OriginState:   m.OriginState,
		DestCity:      m.DestCity,
		DestState:     m.DestState,
		PickupDate:    m.PickupDate,
		DeliveryDate:  m.DeliveryDate,
		DeliveredAt:   m.DeliveredAt,
		PODKey:        m.PODKey,
		RateconKey:    m.RateconKey,
		Notes:         m.Notes,
	}
	for i := range m.Stops {
		load.Stops = append(load.Stops, m.Stops[i].ToDomain())
	}
	return load
}

// FromDomain populates the persistence model from a domain Load
func (m *LoadModel) FromDomain(l *freight.Load) {
	m.FromDomainCompanyEntity(l.CompanyEntity)
	m.LoadNumber = l.LoadNumber
	m.CustomerID = l.CustomerID
	m.DriverID = l.DriverID
	m.TruckID = l.TruckID
	m.Status = string(l.Status)
	m.Rate = l.Rate
	m.FuelSurcharge = l.FuelSurcharge
	m.Accessorial = l.Accessorial
	m.TotalAmount = l.TotalAmount()
	m.Miles = l.Miles
	m.Weight = l.Weight
	m.Commodity = l.Commodity
	m.Equipment = string(l.Equipment)
	m.ReferenceNum = l.ReferenceNum
	m.OriginCity = l.OriginCity
	m.OriginState = l.OriginState
	m.DestCity = l.DestCity
	m.DestState = l.DestState
	m.PickupDate = l.PickupDate
	m.DeliveryDate = l.DeliveryDate
	m.DeliveredAt = l.DeliveredAt
	m.PODKey = l.PODKey
	m.RateconKey = l.RateconKey
	m.Notes = l.Notes

	m.Stops = m.Stops[:0]
	for _, stop := range l.Stops {
		sm := StopModel{}
		sm.FromDomain(stop)
		m.Stops = append(m.Stops, sm)
	}
}

// LoadModelFromDomain creates a new persistence model from a domain Load
func LoadModelFromDomain(l *freight.Load) *LoadModel {
	m := &LoadModel{}
	m.FromDomain(l)
	return m
}

// StopModel is the persistence model for load stops.
type StopModel struct {
	BaseModel
	LoadID     uuid.UUID  `gorm:"type:uuid;not null;index"`
	Type       string     `gorm:"type:varchar(10);not null"`
	Sequence   int        `gorm:"not null;default:0"`
	ShipperID  *uuid.UUID `gorm:"type:uuid;index"`
	ReceiverID *uuid.UUID `gorm:"type:uuid;index"`
	Address    string     `gorm:"type:varchar(300)"`
	City       string     `gorm:"type:varchar(100)"`
	State      string     `gorm:"type:varchar(2)"`
	ZipCode    string     `gorm:"type:varchar(10)"`
	WindowFrom *time.Time
	WindowTo   *time.Time
	ArrivedAt  *time.Time
	DepartedAt *time.Time
	Notes      string `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (StopModel) TableName() string {
	return "stops"
}

// ToDomain converts the persistence model to a domain Stop
func (m *StopModel) ToDomain() *freight.Stop {
	return &freight.Stop{
		BaseEntity: m.BaseModel.ToDomain(),
		LoadID:     m.LoadID,
		Type:       freight.StopType(m.Type),
		Sequence:   m.Sequence,
		ShipperID:  m.ShipperID,
		ReceiverID: m.ReceiverID,
		Address:    m.Address,
		City:       m.City,
		State:      m.State,
		ZipCode:    m.ZipCode,
		WindowFrom: m.WindowFrom,
		WindowTo:   m.WindowTo,
		ArrivedAt:  m.ArrivedAt,
		DepartedAt: m.DepartedAt,
		Notes:      m.Notes,
	}
}

// FromDomain populates the persistence model from a domain Stop
func (m *StopModel) FromDomain(s *freight.Stop) {
	m.FromDomainBaseEntity(s.BaseEntity)
	m.LoadID = s.LoadID
	m.Type = string(s.Type)
	m.Sequence = s.Sequence
	m.ShipperID = s.ShipperID
	m.ReceiverID = s.ReceiverID
	m.Address = s.Address
	m.City = s.City
	m.State = s.State
	m.ZipCode = s.ZipCode
	m.WindowFrom = s.WindowFrom
	m.WindowTo = s.WindowTo
	m.ArrivedAt = s.ArrivedAt
	m.DepartedAt = s.DepartedAt
	m.Notes = s.Notes
}

// ShipperModel is the persistence model for shipper address book entries.
type ShipperModel struct {
	CompanyScopedModel
	Name        string `gorm:"type:varchar(200);not null;index"`
	Address     string `gorm:"type:varchar(300)"`
	City        string `gorm:"type:varchar(100)"`
	State       string `gorm:"type:varchar(2)"`
	ZipCode     string `gorm:"type:varchar(10)"`
	ContactName string `gorm:"type:varchar(200)"`
	Phone       string `gorm:"type:varchar(50)"`
	Email       string `gorm:"type:varchar(200)"`
	Hours       string `gorm:"type:varchar(200)"`
	Notes       string `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (ShipperModel) TableName() string {
	return "shippers"
}

// ToDomain converts the persistence model to a domain Shipper
func (m *ShipperModel) ToDomain() *freight.Shipper {
	return &freight.Shipper{
		CompanyEntity: m.ToDomainCompanyEntity(),
		Name:          m.Name,
		Address:       m.Address,
		City:          m.City,
		State:         m.State,
		ZipCode:       m.ZipCode,
		ContactName:   m.ContactName,
		Phone:         m.Phone,
		Email:         m.Email,
		Hours:         m.Hours,
		Notes:         m.Notes,
	}
}

// FromDomain populates the persistence model from a domain Shipper
func (m *ShipperModel) FromDomain(s *freight.Shipper) {
	m.FromDomainCompanyEntity(s.CompanyEntity)
	m.Name = s.Name
	m.Address = s.Address
	m.City = s.City
	m.State = s.State
	m.ZipCode = s.ZipCode
	m.ContactName = s.ContactName
	m.Phone = s.Phone
	m.Email = s.Email
	m.Hours = s.Hours
	m.Notes = s.Notes
}

// ShipperModelFromDomain creates a new persistence model from a domain Shipper
func ShipperModelFromDomain(s *freight.Shipper) *ShipperModel {
	m := &ShipperModel{}
	m.FromDomain(s)
	return m
}

// ReceiverModel is the persistence model for receiver address book entries.
type ReceiverModel struct {
	CompanyScopedModel
	Name        string `gorm:"type:varchar(200);not null;index"`
	Address     string `gorm:"type:varchar(300)"`
	City        string `gorm:"type:varchar(100)"`
	State       string `gorm:"type:varchar(2)"`
	ZipCode     string `gorm:"type:varchar(10)"`
	ContactName string `gorm:"type:varchar(200)"`
	Phone       string `gorm:"type:varchar(50)"`
	Email       string `gorm:"type:varchar(200)"`
	Hours       string `gorm:"type:varchar(200)"`
	Notes       string `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (ReceiverModel) TableName() string {
	return "receivers"
}

// ToDomain converts the persistence model to a domain Receiver
func (m *ReceiverModel) ToDomain() *freight.Receiver {
	return &freight.Receiver{
		CompanyEntity: m.ToDomainCompanyEntity(),
		Name:          m.Name,
		Address:       m.Address,
		City:          m.City,
		State:         m.State,
		ZipCode:       m.ZipCode,
		ContactName:   m.ContactName,
		Phone:         m.Phone,
		Email:         m.Email,
		Hours:         m.Hours,
		Notes:         m.Notes,
	}
}

// FromDomain populates the persistence model from a domain Receiver
func (m *ReceiverModel) FromDomain(r *freight.Receiver) {
	m.FromDomainCompanyEntity(r.CompanyEntity)
	m.Name = r.Name
	m.Address = r.Address
	m.City = r.City
	m.State = r.State
	m.ZipCode = r.ZipCode
	m.ContactName = r.ContactName
	m.Phone = r.Phone
	m.Email = r.Email
	m.Hours = r.Hours
	m.Notes = r.Notes
}

// ReceiverModelFromDomain creates a new persistence model from a domain Receiver
func ReceiverModelFromDomain(r *freight.Receiver) *ReceiverModel {
	m := &ReceiverModel{}
	m.FromDomain(r)
	return m
}

// LaneModel is the persistence model for lanes.
type LaneModel struct {
	CompanyScopedModel
	OriginCity  string          `gorm:"type:varchar(100);not null"`
	OriginState string          `gorm:"type:varchar(2);not null"`
	DestCity    string          `gorm:"type:varchar(100);not null"`
	DestState   string          `gorm:"type:varchar(2);not null"`
	CustomerID  *uuid.UUID      `gorm:"type:uuid;index"`
	Miles       int             `gorm:"not null;default:0"`
	Rate        decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0"`
	Equipment   string          `gorm:"type:varchar(20)"`
	Notes       string          `gorm:"type:text"`
	Active      bool            `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (LaneModel) TableName() string {
	return "lanes"
}

// ToDomain converts the persistence model to a domain Lane
func (m *LaneModel) ToDomain() *freight.Lane {
	return &freight.Lane{
		CompanyEntity: m.ToDomainCompanyEntity(),
		OriginCity:    m.OriginCity,
		OriginState:   m.OriginState,
		DestCity:      m.DestCity,
		DestState:     m.DestState,
		CustomerID:    m.CustomerID,
		Miles:         m.Miles,
		Rate:          m.Rate,
		Equipment:     freight.EquipmentType(m.Equipment),
		Notes:         m.Notes,
		Active:        m.Active,
	}
}

// FromDomain populates the persistence model from a domain Lane
func (m *LaneModel) FromDomain(l *freight.Lane) {
	m.FromDomainCompanyEntity(l.CompanyEntity)
	m.OriginCity = l.OriginCity
	m.OriginState = l.OriginState
	m.DestCity = l.DestCity
	m.DestState = l.DestState
	m.CustomerID = l.CustomerID
	m.Miles = l.Miles
	m.Rate = l.Rate
	m.Equipment = string(l.Equipment)
	m.Notes = l.Notes
	m.Active = l.Active
}

// LaneModelFromDomain creates a new persistence model from a domain Lane
func LaneModelFromDomain(l *freight.Lane) *LaneModel {
	m := &LaneModel{}
	m.FromDomain(l)
	return m
}

// RateconModel is the persistence model for rate confirmations.
type RateconModel struct {
	CompanyScopedModel
	LoadID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	DocumentKey string          `gorm:"type:varchar(500);not null"`
	Status      string          `gorm:"type:varchar(20);not null;default:'received'"`
	Amount      decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0"`
	BrokerName  string          `gorm:"type:varchar(200)"`
	ReviewedAt  *time.Time
	Notes       string `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (RateconModel) TableName() string {
	return "ratecons"
}

// ToDomain converts the persistence model to a domain Ratecon
func (m *RateconModel) ToDomain() *freight.Ratecon {
	return &freight.Ratecon{
		CompanyEntity: m.ToDomainCompanyEntity(),
		LoadID:        m.LoadID,
		DocumentKey:   m.DocumentKey,
		Status:        freight.RateconStatus(m.Status),
		Amount:        m.Amount,
		BrokerName:    m.BrokerName,
		ReviewedAt:    m.ReviewedAt,
		Notes:         m.Notes,
	}
}

// FromDomain populates the persistence model from a domain Ratecon
func (m *RateconModel) FromDomain(r *freight.Ratecon) {
	m.FromDomainCompanyEntity(r.CompanyEntity)
	m.LoadID = r.LoadID
	m.DocumentKey = r.DocumentKey
	m.Status = string(r.Status)
	m.Amount = r.Amount
	m.BrokerName = r.BrokerName
	m.ReviewedAt = r.ReviewedAt
	m.Notes = r.Notes
}

// RateconModelFromDomain creates a new persistence model from a domain Ratecon
func RateconModelFromDomain(r *freight.Ratecon) *RateconModel {
	m := &RateconModel{}
	m.FromDomain(r)
	return m
}
