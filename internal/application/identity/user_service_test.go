package identity

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/haulstack/tms/internal/domain/shared"
	"github.com/haulstack/tms/internal/infrastructure/config"
)

func createUserService(userRepo *MockUserRepository, mailer *MockEmailSender) *UserService {
	return NewUserService(userRepo, mailer, config.AppConfig{Name: "HaulStack"}, zap.NewNop())
}

func TestUserService_Create_ReturnsTempPassword(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New()
	userRepo := new(MockUserRepository)

	userRepo.On("ExistsByEmail", ctx, "driver@example.com").Return(false, nil)
	userRepo.On("ExistsByUsername", ctx, "lee.okafor").Return(false, nil)
	userRepo.On("Save", ctx, mock.Anything).Return(nil)

	svc := createUserService(userRepo, new(MockEmailSender))

	result, err := svc.Create(ctx, companyID, CreateUserRequest{
		Email:     "driver@example.com",
		Username:  "Lee.Okafor",
		FirstName: "Lee",
		LastName:  "Okafor",
		Role:      "driver",
	})

	require.NoError(t, err)
	assert.Len(t, result.TemporaryPassword, 16)
	assert.NotContains(t, result.TemporaryPassword, "l")
	assert.NotContains(t, result.TemporaryPassword, "O")
	assert.False(t, result.InvitationSent)
	// Admin-created accounts can log in right away.
	assert.True(t, result.User.Verified)
	assert.True(t, result.User.Active)

	userRepo.AssertExpectations(t)
}

func TestUserService_Create_SendsInvitation(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New()
	userRepo := new(MockUserRepository)
	mailer := new(MockEmailSender)

	userRepo.On("ExistsByEmail", ctx, "new@example.com").Return(false, nil)
	userRepo.On("ExistsByUsername", ctx, "newbie").Return(false, nil)
	userRepo.On("Save", ctx, mock.Anything).Return(nil)
	mailer.On("Send", ctx, "new@example.com", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	svc := createUserService(userRepo, mailer)

	result, err := svc.Create(ctx, companyID, CreateUserRequest{
		Email:          "new@example.com",
		Username:       "newbie",
		Role:           "dispatcher",
		SendInvitation: true,
	})

	require.NoError(t, err)
	assert.True(t, result.InvitationSent)
	// The password travels by mail, never in the response.
	assert.Empty(t, result.TemporaryPassword)

	mailer.AssertExpectations(t)
}

func TestUserService_Create_DuplicateEmail(t *testing.T) {
	ctx := context.Background()
	userRepo := new(MockUserRepository)

	userRepo.On("ExistsByEmail", ctx, "taken@example.com").Return(true, nil)

	svc := createUserService(userRepo, new(MockEmailSender))

	result, err := svc.Create(ctx, uuid.New(), CreateUserRequest{
		Email:    "taken@example.com",
		Username: "somebody",
		Role:     "dispatcher",
	})

	require.Error(t, err)
	assert.Nil(t, result)
	var domainErr *shared.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, "ALREADY_EXISTS", domainErr.Code)
}

func TestUserService_Create_DuplicateUsername(t *testing.T) {
	ctx := context.Background()
	userRepo := new(MockUserRepository)

	userRepo.On("ExistsByEmail", ctx, "fresh@example.com").Return(false, nil)
	userRepo.On("ExistsByUsername", ctx, "somebody").Return(true, nil)

	svc := createUserService(userRepo, new(MockEmailSender))

	result, err := svc.Create(ctx, uuid.New(), CreateUserRequest{
		Email:    "fresh@example.com",
		Username: "somebody",
		Role:     "dispatcher",
	})

	require.Error(t, err)
	assert.Nil(t, result)
	var domainErr *shared.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, "ALREADY_EXISTS", domainErr.Code)
	userRepo.AssertExpectations(t)
}

func TestUserService_Create_InvalidRole(t *testing.T) {
	svc := createUserService(new(MockUserRepository), new(MockEmailSender))

	result, err := svc.Create(context.Background(), uuid.New(), CreateUserRequest{
		Email:    "x@example.com",
		Username: "somebody",
		Role:     "warlord",
	})

	require.Error(t, err)
	assert.Nil(t, result)
}

func TestUserService_Create_CustomRoleNeedsPages(t *testing.T) {
	svc := createUserService(new(MockUserRepository), new(MockEmailSender))

	result, err := svc.Create(context.Background(), uuid.New(), CreateUserRequest{
		Email:    "x@example.com",
		Username: "somebody",
		Role:     "custom",
	})

	require.Error(t, err)
	assert.Nil(t, result)
	var domainErr *shared.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, "INVALID_ROLE", domainErr.Code)
}

func TestUserService_Get_HidesOtherCompanies(t *testing.T) {
	ctx := context.Background()
	userRepo := new(MockUserRepository)

	other := createVerifiedUser(uuid.New())
	userRepo.On("FindByID", ctx, other.ID).Return(other, nil)

	svc := createUserService(userRepo, new(MockEmailSender))

	result, err := svc.Get(ctx, uuid.New(), other.ID)

	require.Error(t, err)
	assert.Nil(t, result)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestUserService_Update_RoleAndStatus(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New()
	userRepo := new(MockUserRepository)

	user := createVerifiedUser(companyID)
	userRepo.On("FindByID", ctx, user.ID).Return(user, nil)
	userRepo.On("Update", ctx, user).Return(nil)

	svc := createUserService(userRepo, new(MockEmailSender))

	role := "viewer"
	active := false
	result, err := svc.Update(ctx, companyID, user.ID, UpdateUserRequest{
		Role:   &role,
		Active: &active,
	})

	require.NoError(t, err)
	assert.Equal(t, "viewer", result.Role)
	assert.False(t, result.Active)
}

func TestUserService_Delete(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New()
	userRepo := new(MockUserRepository)

	user := createVerifiedUser(companyID)
	userRepo.On("FindByID", ctx, user.ID).Return(user, nil)
	userRepo.On("Delete", ctx, user.ID).Return(nil)

	svc := createUserService(userRepo, new(MockEmailSender))

	err := svc.Delete(ctx, companyID, user.ID)

	require.NoError(t, err)
	userRepo.AssertExpectations(t)
}
