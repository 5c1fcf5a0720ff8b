package models

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/haulstack/tms/internal/domain/identity"
)

// CompanyModel is the persistence model for the Company entity.
type CompanyModel struct {
	BaseModel
	Name       string `gorm:"type:varchar(200);not null;uniqueIndex"`
	DOTNumber  string `gorm:"type:varchar(20)"`
	MCNumber   string `gorm:"type:varchar(20)"`
	Address    string `gorm:"type:varchar(300)"`
	City       string `gorm:"type:varchar(100)"`
	State      string `gorm:"type:varchar(2)"`
	ZipCode    string `gorm:"type:varchar(10)"`
	Phone      string `gorm:"type:varchar(50)"`
	Email      string `gorm:"type:varchar(200)"`
	LogoKey    string `gorm:"type:varchar(500)"`
	Active     bool   `gorm:"not null;default:true"`
	MaxUsers   int    `gorm:"not null;default:25"`
	MaxDrivers int    `gorm:"not null;default:100"`
}

// TableName returns the table name for GORM
func (CompanyModel) TableName() string {
	return "companies"
}

// ToDomain converts the persistence model to a domain Company
func (m *CompanyModel) ToDomain() *identity.Company {
	return &identity.Company{
		BaseEntity: m.BaseModel.ToDomain(),
		Name:       m.Name,
		DOTNumber:  m.DOTNumber,
		MCNumber:   m.MCNumber,
		Address:    m.Address,
		City:       m.City,
		State:      m.State,
		ZipCode:    m.ZipCode,
		Phone:      m.Phone,
		Email:      m.Email,
		LogoKey:    m.LogoKey,
		Active:     m.Active,
		MaxUsers:   m.MaxUsers,
		MaxDrivers: m.MaxDrivers,
	}
}

// FromDomain populates the persistence model from a domain Company
func (m *CompanyModel) FromDomain(c *identity.Company) {
	m.FromDomainBaseEntity(c.BaseEntity)
	m.Name = c.Name
	m.DOTNumber = c.DOTNumber
	m.MCNumber = c.MCNumber
	m.Address = c.Address
	m.City = c.City
	m.State = c.State
	m.ZipCode = c.ZipCode
	m.Phone = c.Phone
	m.Email = c.Email
	m.LogoKey = c.LogoKey
	m.Active = c.Active
	m.MaxUsers = c.MaxUsers
	m.MaxDrivers = c.MaxDrivers
}

// CompanyModelFromDomain creates a new persistence model from a domain Company
func CompanyModelFromDomain(c *identity.Company) *CompanyModel {
	m := &CompanyModel{}
	m.FromDomain(c)
	return m
}

// UserModel is the persistence model for the User entity.
type UserModel struct {
	BaseModel
	CompanyID    uuid.UUID  `gorm:"type:uuid;not null;index"`
	Email        string     `gorm:"type:varchar(200);not null;uniqueIndex"`
	Username     string     `gorm:"type:varchar(50);not null;uniqueIndex"`
	PasswordHash string     `gorm:"type:varchar(255);not null"`
	FirstName    string     `gorm:"type:varchar(100)"`
	LastName     string     `gorm:"type:varchar(100)"`
	Phone        string     `gorm:"type:varchar(50)"`
	Role         string     `gorm:"type:varchar(30);not null"`
	AllowedPages string     `gorm:"type:text"`
	Active       bool       `gorm:"not null;default:true"`
	Verified     bool       `gorm:"not null;default:false"`
	Superuser    bool       `gorm:"not null;default:false"`
	DriverID     *uuid.UUID `gorm:"type:uuid;index"`
	CustomerID   *uuid.UUID `gorm:"type:uuid;index"`
	LastLoginAt  *time.Time
}

// TableName returns the table name for GORM
func (UserModel) TableName() string {
	return "users"
}

// ToDomain converts the persistence model to a domain User
func (m *UserModel) ToDomain() *identity.User {
	var pages []identity.Page
	if m.AllowedPages != "" {
		for _, p := range strings.Split(m.AllowedPages, ",") {
			pages = append(pages, identity.Page(p))
		}
	}

	return &identity.User{
		BaseEntity:   m.BaseModel.ToDomain(),
		CompanyID:    m.CompanyID,
		Email:        m.Email,
		Username:     m.Username,
		PasswordHash: m.PasswordHash,
		FirstName:    m.FirstName,
		LastName:     m.LastName,
		Phone:        m.Phone,
		Role:         identity.Role(m.Role),
		AllowedPages: pages,
		Active:       m.Active,
		Verified:     m.Verified,
		Superuser:    m.Superuser,
		DriverID:     m.DriverID,
		CustomerID:   m.CustomerID,
		LastLoginAt:  m.LastLoginAt,
	}
}

// FromDomain populates the persistence model from a domain User
func (m *UserModel) FromDomain(u *identity.User) {
	m.FromDomainBaseEntity(u.BaseEntity)
	m.CompanyID = u.CompanyID
	m.Email = u.Email
	m.Username = u.Username
	m.PasswordHash = u.PasswordHash
	m.FirstName = u.FirstName
	m.LastName = u.LastName
	m.Phone = u.Phone
	m.Role = string(u.Role)
	m.Active = u.Active
	m.Verified = u.Verified
	m.Superuser = u.Superuser
	m.DriverID = u.DriverID
	m.CustomerID = u.CustomerID
	m.LastLoginAt = u.LastLoginAt

	if len(u.AllowedPages) > 0 {
		parts := make([]string, len(u.AllowedPages))
		for i, p := range u.AllowedPages {
			parts[i] = string(p)
		}
		m.AllowedPages = strings.Join(parts, ",")
	} else {
		m.AllowedPages = ""
	}
}

// UserModelFromDomain creates a new persistence model from a domain User
func UserModelFromDomain(u *identity.User) *UserModel {
	m := &UserModel{}
	m.FromDomain(u)
	return m
}

// VerificationTokenModel is the persistence model for verification tokens.
type VerificationTokenModel struct {
	BaseModel
	UserID    uuid.UUID `gorm:"type:uuid;not null;index"`
	Token     string    `gorm:"type:varchar(64);not null;uniqueIndex"`
	ExpiresAt time.Time `gorm:"not null"`
	Used      bool      `gorm:"not null;default:false"`
	UsedAt    *time.Time
}

// TableName returns the table name for GORM
func (VerificationTokenModel) TableName() string {
	return "verification_tokens"
}

// ToDomain converts the persistence model to a domain VerificationToken
func (m *VerificationTokenModel) ToDomain() *identity.VerificationToken {
	return &identity.VerificationToken{
		BaseEntity: m.BaseModel.ToDomain(),
		UserID:     m.UserID,
		Token:      m.Token,
		ExpiresAt:  m.ExpiresAt,
		Used:       m.Used,
		UsedAt:     m.UsedAt,
	}
}

// FromDomain populates the persistence model from a domain VerificationToken
func (m *VerificationTokenModel) FromDomain(t *identity.VerificationToken) {
	m.FromDomainBaseEntity(t.BaseEntity)
	m.UserID = t.UserID
	m.Token = t.Token
	m.ExpiresAt = t.ExpiresAt
	m.Used = t.Used
	m.UsedAt = t.UsedAt
}

// VerificationTokenModelFromDomain creates a new persistence model from a domain token
func VerificationTokenModelFromDomain(t *identity.VerificationToken) *VerificationTokenModel {
	m := &VerificationTokenModel{}
	m.FromDomain(t)
	return m
}
