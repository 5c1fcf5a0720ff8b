package identity

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/haulstack/tms/internal/domain/shared"
)

// Company represents a carrier organization. All operating data in the
// system is scoped to a company.
type Company struct {
	shared.BaseEntity
	Name       string
	DOTNumber  string
	MCNumber   string
	Address    string
	City       string
	State      string
	ZipCode    string
	Phone      string
	Email      string
	LogoKey    string // storage key of the uploaded logo, not a public URL
	Active     bool
	MaxUsers   int
	MaxDrivers int
}

const (
	defaultMaxUsers   = 25
	defaultMaxDrivers = 100
)

// NewCompany creates an active company with default limits
func NewCompany(name string) (*Company, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Company name is required")
	}
	if len(name) > 200 {
		return nil, shared.NewDomainError("INVALID_NAME", "Company name cannot exceed 200 characters")
	}

	return &Company{
		BaseEntity: shared.NewBaseEntity(),
		Name:       name,
		Active:     true,
		MaxUsers:   defaultMaxUsers,
		MaxDrivers: defaultMaxDrivers,
	}, nil
}

// Rename changes the company name
func (c *Company) Rename(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Company name is required")
	}
	c.Name = name
	c.Touch()
	return nil
}

// SetAuthority sets the DOT and MC numbers
func (c *Company) SetAuthority(dot, mc string) {
	c.DOTNumber = strings.TrimSpace(dot)
	c.MCNumber = strings.TrimSpace(mc)
	c.Touch()
}

// Deactivate suspends the company
func (c *Company) Deactivate() {
	c.Active = false
	c.Touch()
}

// CompanyRepository defines persistence operations for companies
type CompanyRepository interface {
	Save(ctx context.Context, company *Company) error
	Update(ctx context.Context, company *Company) error
	FindByID(ctx context.Context, id uuid.UUID) (*Company, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]*Company, int64, error)
	ExistsByName(ctx context.Context, name string) (bool, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
