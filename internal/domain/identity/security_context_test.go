package identity

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haulstack/tms/internal/domain/shared"
)

func newTestContext(role Role) *SecurityContext {
	return &SecurityContext{
		UserID:      uuid.New(),
		CompanyID:   uuid.New(),
		Role:        role,
		Permissions: PermissionsForRole(role, nil),
	}
}

func TestSecurityContextPrivileged(t *testing.T) {
	t.Run("superuser flag is privileged", func(t *testing.T) {
		ctx := newTestContext(RoleDispatcher)
		ctx.Superuser = true
		assert.True(t, ctx.Privileged())
	})

	t.Run("super admin role is privileged", func(t *testing.T) {
		assert.True(t, newTestContext(RoleSuperAdmin).Privileged())
	})

	t.Run("company admin is not privileged", func(t *testing.T) {
		assert.False(t, newTestContext(RoleCompanyAdmin).Privileged())
	})
}

func TestSecurityContextCan(t *testing.T) {
	t.Run("privileged caller passes every check", func(t *testing.T) {
		ctx := newTestContext(RoleDriver)
		ctx.Superuser = true
		assert.True(t, ctx.Can(PermManageCompany))
	})

	t.Run("driver cannot manage trucks", func(t *testing.T) {
		ctx := newTestContext(RoleDriver)
		assert.True(t, ctx.Can(PermViewLoads))
		assert.False(t, ctx.Can(PermManageTrucks))
	})

	t.Run("require returns forbidden", func(t *testing.T) {
		err := newTestContext(RoleViewer).Require(PermManageUsers)
		require.Error(t, err)
		assert.ErrorIs(t, err, shared.ErrForbidden)
	})
}

func TestSecurityContextCompanyAccess(t *testing.T) {
	t.Run("own company accessible", func(t *testing.T) {
		ctx := newTestContext(RoleCompanyAdmin)
		assert.NoError(t, ctx.RequireCompanyAccess(ctx.CompanyID))
	})

	t.Run("other company forbidden", func(t *testing.T) {
		ctx := newTestContext(RoleCompanyAdmin)
		err := ctx.RequireCompanyAccess(uuid.New())
		assert.ErrorIs(t, err, shared.ErrForbidden)
	})

	t.Run("privileged caller crosses companies", func(t *testing.T) {
		ctx := newTestContext(RoleSuperAdmin)
		assert.True(t, ctx.CanAccessCompany(uuid.New()))
	})
}

func TestNewSecurityContext(t *testing.T) {
	user, err := NewUser(uuid.New(), "driver@example.com", "driver.one", "password123", RoleDriver)
	require.NoError(t, err)
	driverID := uuid.New()
	user.LinkDriver(driverID)

	ctx := NewSecurityContext(user)
	assert.Equal(t, user.ID, ctx.UserID)
	assert.Equal(t, user.CompanyID, ctx.CompanyID)
	assert.Equal(t, RoleDriver, ctx.Role)
	require.NotNil(t, ctx.DriverID)
	assert.Equal(t, driverID, *ctx.DriverID)
	assert.Nil(t, ctx.CustomerID)
	assert.True(t, ctx.Can(PermViewLoads))
	assert.False(t, ctx.Can(PermCreateLoads))
}
