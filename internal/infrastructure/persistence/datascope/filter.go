// Package datascope provides row-level data filtering for GORM queries.
//
// Every company-scoped query passes through a Filter built from the
// request's SecurityContext. Privileged callers (platform superusers and
// super admins) see across companies; everyone else is pinned to their
// own company_id. Driver and customer portal accounts are narrowed
// further: drivers see only loads dispatched to them, customers only
// loads they tendered, and invoices follow the loads behind them.
//
// Usage:
//
//	filter := datascope.NewFilter(sctx)
//	db.Scopes(filter.LoadScope()).Find(&loads)
package datascope

import (
	"context"

	"gorm.io/gorm"

	"github.com/haulstack/tms/internal/domain/identity"
)

// Filter applies security-context scoping to GORM queries
type Filter struct {
	sctx *identity.SecurityContext
}

// NewFilter creates a filter for the given security context
func NewFilter(sctx *identity.SecurityContext) *Filter {
	return &Filter{sctx: sctx}
}

// FromContext builds a filter from the security context stored in ctx.
// A context without a security context filters everything out.
func FromContext(ctx context.Context) *Filter {
	sctx, _ := identity.SecurityContextFrom(ctx)
	return &Filter{sctx: sctx}
}

// none is the empty-result scope. A missing or broken context yields no
// rows rather than an error or a cross-company leak.
func none(db *gorm.DB) *gorm.DB {
	return db.Where("1 = 0")
}

func passthrough(db *gorm.DB) *gorm.DB {
	return db
}

// CompanyScope restricts company-scoped tables to the caller's company.
// Privileged callers bypass the restriction.
func (f *Filter) CompanyScope() func(db *gorm.DB) *gorm.DB {
	if f.sctx == nil {
		return none
	}
	if f.sctx.Privileged() {
		return passthrough
	}
	companyID := f.sctx.CompanyID
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("company_id = ?", companyID)
	}
}

// LoadScope restricts load queries. On top of the company restriction,
// driver accounts see only their dispatched loads and customer accounts
// only the loads they tendered. A driver or customer account without a
// linked record sees nothing.
func (f *Filter) LoadScope() func(db *gorm.DB) *gorm.DB {
	if f.sctx == nil {
		return none
	}
	if f.sctx.Privileged() {
		return passthrough
	}

	companyID := f.sctx.CompanyID
	switch f.sctx.Role {
	case identity.RoleDriver:
		if f.sctx.DriverID == nil {
			return none
		}
		driverID := *f.sctx.DriverID
		return func(db *gorm.DB) *gorm.DB {
			return db.Where("company_id = ? AND driver_id = ?", companyID, driverID)
		}
	case identity.RoleCustomer:
		if f.sctx.CustomerID == nil {
			return none
		}
		customerID := *f.sctx.CustomerID
		return func(db *gorm.DB) *gorm.DB {
			return db.Where("company_id = ? AND customer_id = ?", companyID, customerID)
		}
	default:
		return func(db *gorm.DB) *gorm.DB {
			return db.Where("company_id = ?", companyID)
		}
	}
}

// UserScope restricts user listings. Company admins see every account in
// their company; all other roles see only their own row.
func (f *Filter) UserScope() func(db *gorm.DB) *gorm.DB {
	if f.sctx == nil {
		return none
	}
	if f.sctx.Privileged() {
		return passthrough
	}

	companyID := f.sctx.CompanyID
	if f.sctx.Role == identity.RoleCompanyAdmin {
		return func(db *gorm.DB) *gorm.DB {
			return db.Where("company_id = ?", companyID)
		}
	}
	userID := f.sctx.UserID
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("id = ?", userID)
	}
}

// CustomerScope restricts customer queries. A customer portal account
// sees only its own linked customer record; without a linked record it
// sees nothing.
func (f *Filter) CustomerScope() func(db *gorm.DB) *gorm.DB {
	if f.sctx == nil {
		return none
	}
	if f.sctx.Privileged() {
		return passthrough
	}

	companyID := f.sctx.CompanyID
	if f.sctx.Role == identity.RoleCustomer {
		if f.sctx.CustomerID == nil {
			return none
		}
		customerID := *f.sctx.CustomerID
		return func(db *gorm.DB) *gorm.DB {
			return db.Where("company_id = ? AND id = ?", companyID, customerID)
		}
	}
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("company_id = ?", companyID)
	}
}

// InvoiceScope restricts invoice queries. Visibility follows the parent
// load: a customer account sees an invoice only when it can see the
// load behind it. Filtering on the invoice's own company_id is safe
// because invoice creation stamps the parent load's company onto the
// invoice, so the two columns never disagree.
func (f *Filter) InvoiceScope() func(db *gorm.DB) *gorm.DB {
	if f.sctx == nil {
		return none
	}
	if f.sctx.Privileged() {
		return passthrough
	}

	companyID := f.sctx.CompanyID
	switch f.sctx.Role {
	case identity.RoleCustomer:
		if f.sctx.CustomerID == nil {
			return none
		}
		customerID := *f.sctx.CustomerID
		return func(db *gorm.DB) *gorm.DB {
			return db.Where(
				"company_id = ? AND load_id IN (SELECT id FROM loads WHERE customer_id = ?)",
				companyID, customerID,
			)
		}
	case identity.RoleDriver:
		if f.sctx.DriverID == nil {
			return none
		}
		driverID := *f.sctx.DriverID
		return func(db *gorm.DB) *gorm.DB {
			return db.Where(
				"company_id = ? AND load_id IN (SELECT id FROM loads WHERE driver_id = ?)",
				companyID, driverID,
			)
		}
	default:
		return func(db *gorm.DB) *gorm.DB {
			return db.Where("company_id = ?", companyID)
		}
	}
}
