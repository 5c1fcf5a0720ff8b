package identity

import (
	"fmt"
	"strings"

	"github.com/haulstack/tms/internal/domain/shared"
)

// Role represents a user's role within a company
type Role string

const (
	RoleSuperAdmin   Role = "super_admin"
	RoleCompanyAdmin Role = "company_admin"
	RoleDispatcher   Role = "dispatcher"
	RoleDriver       Role = "driver"
	RoleCustomer     Role = "customer"
	RoleViewer       Role = "viewer"
	RoleCustom       Role = "custom"
)

// Permission represents a single capability that can be granted to a user
type Permission string

const (
	PermViewLoads       Permission = "can_view_loads"
	PermCreateLoads     Permission = "can_create_loads"
	PermEditLoads       Permission = "can_edit_loads"
	PermDeleteLoads     Permission = "can_delete_loads"
	PermViewDrivers     Permission = "can_view_drivers"
	PermManageDrivers   Permission = "can_manage_drivers"
	PermViewTrucks      Permission = "can_view_trucks"
	PermManageTrucks    Permission = "can_manage_trucks"
	PermViewCustomers   Permission = "can_view_customers"
	PermManageCustomers Permission = "can_manage_customers"
	PermViewInvoices    Permission = "can_view_invoices"
	PermManageInvoices  Permission = "can_manage_invoices"
	PermViewReports     Permission = "can_view_reports"
	PermManageUsers     Permission = "can_manage_users"
	PermManageCompany   Permission = "can_manage_company"
)

// AllPermissions lists every known permission
var AllPermissions = []Permission{
	PermViewLoads, PermCreateLoads, PermEditLoads, PermDeleteLoads,
	PermViewDrivers, PermManageDrivers,
	PermViewTrucks, PermManageTrucks,
	PermViewCustomers, PermManageCustomers,
	PermViewInvoices, PermManageInvoices,
	PermViewReports, PermManageUsers, PermManageCompany,
}

// PermissionSet is a set of granted permissions
type PermissionSet map[Permission]bool

// NewPermissionSet builds a set from a list of permissions
func NewPermissionSet(perms ...Permission) PermissionSet {
	s := make(PermissionSet, len(perms))
	for _, p := range perms {
		s[p] = true
	}
	return s
}

// Has reports whether the permission is granted
func (s PermissionSet) Has(p Permission) bool {
	return s[p]
}

// List returns the granted permissions in stable order
func (s PermissionSet) List() []Permission {
	out := make([]Permission, 0, len(s))
	for _, p := range AllPermissions {
		if s[p] {
			out = append(out, p)
		}
	}
	return out
}

// rolePermissions maps each built-in role to its granted permissions.
// Custom roles derive their set from allowed pages instead.
var rolePermissions = map[Role]PermissionSet{
	RoleSuperAdmin:   NewPermissionSet(AllPermissions...),
	RoleCompanyAdmin: NewPermissionSet(AllPermissions...),
	RoleDispatcher: NewPermissionSet(
		PermViewLoads, PermCreateLoads, PermEditLoads,
		PermViewDrivers, PermManageDrivers,
		PermViewTrucks, PermManageTrucks,
		PermViewCustomers,
		PermViewInvoices,
		PermViewReports,
	),
	RoleDriver: NewPermissionSet(PermViewLoads),
	RoleCustomer: NewPermissionSet(
		PermViewLoads,
		PermViewInvoices,
	),
	RoleViewer: NewPermissionSet(
		PermViewLoads,
		PermViewInvoices,
	),
}

// Page represents an application area a custom role may be granted
type Page string

const (
	PageDashboard Page = "dashboard"
	PageLoads     Page = "loads"
	PageDrivers   Page = "drivers"
	PageTrucks    Page = "trucks"
	PageCustomers Page = "customers"
	PageInvoices  Page = "invoices"
	PageReports   Page = "reports"
	PagePayroll   Page = "payroll"
	PageLanes     Page = "lanes"
	PageSettings  Page = "settings"
)

// pagePermissions maps a granted page to the permissions it implies
var pagePermissions = map[Page][]Permission{
	PageDashboard: {PermViewLoads},
	PageLoads:     {PermViewLoads, PermCreateLoads, PermEditLoads, PermDeleteLoads},
	PageDrivers:   {PermViewDrivers, PermManageDrivers},
	PageTrucks:    {PermViewTrucks, PermManageTrucks},
	PageCustomers: {PermViewCustomers, PermManageCustomers},
	PageInvoices:  {PermViewInvoices, PermManageInvoices},
	PageReports:   {PermViewReports},
	PagePayroll:   {PermViewReports},
	PageLanes:     {PermViewLoads},
	PageSettings:  {PermManageUsers, PermManageCompany},
}

// ValidRoles lists every assignable role
var ValidRoles = []Role{
	RoleSuperAdmin, RoleCompanyAdmin, RoleDispatcher,
	RoleDriver, RoleCustomer, RoleViewer, RoleCustom,
}

// ParseRole validates and normalizes a role name
func ParseRole(s string) (Role, error) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	for _, v := range ValidRoles {
		if r == v {
			return r, nil
		}
	}
	return "", shared.NewDomainError("INVALID_ROLE", fmt.Sprintf("Unknown role: %s", s))
}

// ParsePages validates a list of page names for a custom role.
// Unknown page names are rejected rather than ignored.
func ParsePages(names []string) ([]Page, error) {
	pages := make([]Page, 0, len(names))
	seen := make(map[Page]bool, len(names))
	for _, n := range names {
		p := Page(strings.ToLower(strings.TrimSpace(n)))
		if _, ok := pagePermissions[p]; !ok {
			return nil, shared.NewDomainError("INVALID_PAGE", fmt.Sprintf("Unknown page: %s", n))
		}
		if seen[p] {
			continue
		}
		seen[p] = true
		pages = append(pages, p)
	}
	return pages, nil
}

// PermissionsForRole resolves the permission set for a built-in role.
// For RoleCustom the allowed pages determine the set.
func PermissionsForRole(role Role, pages []Page) PermissionSet {
	if role == RoleCustom {
		return PermissionsForPages(pages)
	}
	if set, ok := rolePermissions[role]; ok {
		// copy so callers cannot mutate the shared table
		out := make(PermissionSet, len(set))
		for p := range set {
			out[p] = true
		}
		return out
	}
	return NewPermissionSet()
}

// PermissionsForPages resolves the permission set implied by a page grant
func PermissionsForPages(pages []Page) PermissionSet {
	set := make(PermissionSet)
	for _, page := range pages {
		for _, p := range pagePermissions[page] {
			set[p] = true
		}
	}
	return set
}
