package models

import (
	"github.com/haulstack/tms/internal/domain/partner"
)

// CustomerModel is the persistence model for the Customer entity.
type CustomerModel struct {
	CompanyScopedModel
	Name        string `gorm:"type:varchar(200);not null;index"`
	ContactName string `gorm:"type:varchar(200)"`
	Email       string `gorm:"type:varchar(200)"`
	Phone       string `gorm:"type:varchar(50)"`
	Address     string `gorm:"type:varchar(300)"`
	City        string `gorm:"type:varchar(100)"`
	State       string `gorm:"type:varchar(2)"`
	ZipCode     string `gorm:"type:varchar(10)"`
	MCNumber    string `gorm:"type:varchar(20)"`
	PaymentTerm int    `gorm:"not null;default:0"`
	Notes       string `gorm:"type:text"`
	Active      bool   `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (CustomerModel) TableName() string {
	return "customers"
}

// ToDomain converts the persistence model to a domain Customer
func (m *CustomerModel) ToDomain() *partner.Customer {
	return &partner.Customer{
		CompanyEntity: m.ToDomainCompanyEntity(),
		Name:          m.Name,
		ContactName:   m.ContactName,
		Email:         m.Email,
		Phone:         m.Phone,
		Address:       m.Address,
		City:          m.City,
		State:         m.State,
		ZipCode:       m.ZipCode,
		MCNumber:      m.MCNumber,
		PaymentTerm:   m.PaymentTerm,
		Notes:         m.Notes,
		Active:        m.Active,
	}
}

// FromDomain populates the persistence model from a domain Customer
func (m *CustomerModel) FromDomain(c *partner.Customer) {
	m.FromDomainCompanyEntity(c.CompanyEntity)
	m.Name = c.Name
	m.ContactName = c.ContactName
	m.Email = c.Email
	m.Phone = c.Phone
	m.Address = c.Address
	m.City = c.City
	m.State = c.State
	m.ZipCode = c.ZipCode
	m.MCNumber = c.MCNumber
	m.PaymentTerm = c.PaymentTerm
	m.Notes = c.Notes
	m.Active = c.Active
}

// CustomerModelFromDomain creates a new persistence model from a domain Customer
func CustomerModelFromDomain(c *partner.Customer) *CustomerModel {
	m := &CustomerModel{}
	m.FromDomain(c)
	return m
}
