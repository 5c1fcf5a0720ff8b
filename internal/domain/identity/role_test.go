package identity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseRole(t *testing.T) {
	t.Run("accepts known roles", func(t *testing.T) {
		for _, name := range []string{"super_admin", "company_admin", "dispatcher", "driver", "customer", "viewer", "custom"} {
			role, err := ParseRole(name)
			assert.NoError(t, err)
			assert.Equal(t, Role(name), role)
		}
	})

	t.Run("normalizes case and whitespace", func(t *testing.T) {
		role, err := ParseRole("  Dispatcher ")
		assert.NoError(t, err)
		assert.Equal(t, RoleDispatcher, role)
	})

	t.Run("rejects unknown role", func(t *testing.T) {
		_, err := ParseRole("admin")
		assert.Error(t, err)
	})
}

func TestParsePages(t *testing.T) {
	t.Run("accepts known pages and deduplicates", func(t *testing.T) {
		pages, err := ParsePages([]string{"loads", "invoices", "loads"})
		assert.NoError(t, err)
		assert.Equal(t, []Page{PageLoads, PageInvoices}, pages)
	})

	t.Run("rejects unknown page", func(t *testing.T) {
		_, err := ParsePages([]string{"loads", "billing"})
		assert.Error(t, err)
	})
}

func TestPermissionsForRole(t *testing.T) {
	t.Run("company admin holds everything", func(t *testing.T) {
		set := PermissionsForRole(RoleCompanyAdmin, nil)
		for _, p := range AllPermissions {
			assert.True(t, set.Has(p), string(p))
		}
	})

	t.Run("dispatcher cannot delete loads or manage users", func(t *testing.T) {
		set := PermissionsForRole(RoleDispatcher, nil)
		assert.True(t, set.Has(PermViewLoads))
		assert.True(t, set.Has(PermCreateLoads))
		assert.True(t, set.Has(PermEditLoads))
		assert.True(t, set.Has(PermManageDrivers))
		assert.True(t, set.Has(PermManageTrucks))
		assert.False(t, set.Has(PermDeleteLoads))
		assert.False(t, set.Has(PermManageUsers))
		assert.False(t, set.Has(PermManageCompany))
		assert.False(t, set.Has(PermManageCustomers))
	})

	t.Run("driver sees only loads", func(t *testing.T) {
		set := PermissionsForRole(RoleDriver, nil)
		assert.Equal(t, []Permission{PermViewLoads}, set.List())
	})

	t.Run("customer and viewer share the portal grant", func(t *testing.T) {
		for _, role := range []Role{RoleCustomer, RoleViewer} {
			set := PermissionsForRole(role, nil)
			assert.Equal(t, []Permission{PermViewLoads, PermViewInvoices}, set.List(), string(role))
		}
	})

	t.Run("custom role derives from pages", func(t *testing.T) {
		set := PermissionsForRole(RoleCustom, []Page{PageInvoices, PageReports})
		assert.True(t, set.Has(PermViewInvoices))
		assert.True(t, set.Has(PermManageInvoices))
		assert.True(t, set.Has(PermViewReports))
		assert.False(t, set.Has(PermViewDrivers))
	})

	t.Run("custom role with no pages grants nothing", func(t *testing.T) {
		set := PermissionsForRole(RoleCustom, nil)
		assert.Empty(t, set.List())
	})

	t.Run("resolved set is a copy", func(t *testing.T) {
		set := PermissionsForRole(RoleDriver, nil)
		set[PermManageCompany] = true
		assert.False(t, PermissionsForRole(RoleDriver, nil).Has(PermManageCompany))
	})
}
