package identity

import (
	"github.com/google/uuid"

	"github.com/haulstack/tms/internal/domain/shared"
)

// SecurityContext carries the authenticated caller's identity and grants.
// It is built once per request and consulted by services and the data
// scoping layer; it never touches the database itself.
type SecurityContext struct {
	UserID      uuid.UUID
	CompanyID   uuid.UUID
	Role        Role
	Superuser   bool
	Permissions PermissionSet

	// DriverID is set when the user account is linked to a driver record.
	// CustomerID likewise for customer portal accounts.
	DriverID   *uuid.UUID
	CustomerID *uuid.UUID
}

// NewSecurityContext builds a context for the given user
func NewSecurityContext(u *User) *SecurityContext {
	return &SecurityContext{
		UserID:      u.ID,
		CompanyID:   u.CompanyID,
		Role:        u.Role,
		Superuser:   u.Superuser,
		Permissions: u.EffectivePermissions(),
		DriverID:    u.DriverID,
		CustomerID:  u.CustomerID,
	}
}

// Privileged reports whether the caller bypasses company scoping
func (c *SecurityContext) Privileged() bool {
	return c.Superuser || c.Role == RoleSuperAdmin
}

// Can reports whether the caller holds the permission
func (c *SecurityContext) Can(p Permission) bool {
	if c.Privileged() {
		return true
	}
	return c.Permissions.Has(p)
}

// Require returns ErrForbidden unless the caller holds the permission
func (c *SecurityContext) Require(p Permission) error {
	if !c.Can(p) {
		return shared.ErrForbidden
	}
	return nil
}

// CanAccessCompany reports whether the caller may act on the company's data
func (c *SecurityContext) CanAccessCompany(companyID uuid.UUID) bool {
	if c.Privileged() {
		return true
	}
	return c.CompanyID == companyID
}

// RequireCompanyAccess returns ErrForbidden unless the company is accessible
func (c *SecurityContext) RequireCompanyAccess(companyID uuid.UUID) error {
	if !c.CanAccessCompany(companyID) {
		return shared.ErrForbidden
	}
	return nil
}
