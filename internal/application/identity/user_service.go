package identity

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/haulstack/tms/internal/domain/identity"
	"github.com/haulstack/tms/internal/domain/shared"
	"github.com/haulstack/tms/internal/infrastructure/config"
	"github.com/haulstack/tms/internal/infrastructure/notification"
)

const tempPasswordLength = 16

// no ambiguous characters
const tempPasswordAlphabet = "abcdefghjkmnpqrstuvwxyzABCDEFGHJKMNPQRSTUVWXYZ23456789"

// UserService handles user administration within a company
type UserService struct {
	userRepo identity.UserRepository
	mailer   notification.EmailSender
	appCfg   config.AppConfig
	logger   *zap.Logger
}

// NewUserService creates a new user service
func NewUserService(
	userRepo identity.UserRepository,
	mailer notification.EmailSender,
	appCfg config.AppConfig,
	logger *zap.Logger,
) *UserService {
	return &UserService{
		userRepo: userRepo,
		mailer:   mailer,
		appCfg:   appCfg,
		logger:   logger,
	}
}

// Create adds a user to the company with a generated temporary password.
// The password is returned in the result only when no invitation email was
// requested; otherwise it is delivered by mail and never echoed back.
func (s *UserService) Create(ctx context.Context, companyID uuid.UUID, req CreateUserRequest) (*CreateUserResult, error) {
	s.logger.Info("Creating user",
		zap.String("company_id", companyID.String()),
		zap.String("email", req.Email),
		zap.String("role", req.Role))

	role, err := identity.ParseRole(req.Role)
	if err != nil {
		return nil, err
	}
	var pages []identity.Page
	if role == identity.RoleCustom {
		if len(req.AllowedPages) == 0 {
			return nil, shared.NewDomainError("INVALID_ROLE", "Custom role requires at least one allowed page")
		}
		pages, err = identity.ParsePages(req.AllowedPages)
		if err != nil {
			return nil, err
		}
	}

	username, err := identity.NormalizeUsername(req.Username)
	if err != nil {
		return nil, err
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	exists, err := s.userRepo.ExistsByEmail(ctx, email)
	if err != nil {
		s.logger.Error("Failed to check email existence", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL", "Failed to check email availability")
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "A user with this email already exists")
	}

	taken, err := s.userRepo.ExistsByUsername(ctx, username)
	if err != nil {
		s.logger.Error("Failed to check username existence", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL", "Failed to check username availability")
	}
	if taken {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "This username is already taken")
	}

	tempPassword, err := generateTempPassword()
	if err != nil {
		s.logger.Error("Failed to generate temporary password", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL", "Failed to create user")
	}

	user, err := identity.NewUser(companyID, email, username, tempPassword, role)
	if err != nil {
		return nil, err
	}
	if role == identity.RoleCustom {
		if err := user.SetRole(role, pages); err != nil {
			return nil, err
		}
	}
	user.SetName(req.FirstName, req.LastName)
	user.Phone = strings.TrimSpace(req.Phone)
	if req.DriverID != nil {
		user.LinkDriver(*req.DriverID)
	}
	if req.CustomerID != nil {
		user.LinkCustomer(*req.CustomerID)
	}
	// Admin-created accounts skip self-service email verification.
	user.MarkVerified()

	if err := s.userRepo.Save(ctx, user); err != nil {
		s.logger.Error("Failed to save user", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL", "Failed to create user")
	}

	result := &CreateUserResult{User: ToUserResponse(user)}
	if req.SendInvitation {
		result.InvitationSent = s.sendInvitationEmail(ctx, user, tempPassword)
	} else {
		result.TemporaryPassword = tempPassword
	}

	s.logger.Info("User created",
		zap.String("user_id", user.ID.String()),
		zap.Bool("invitation_sent", result.InvitationSent))
	return result, nil
}

// Get returns a user in the company
func (s *UserService) Get(ctx context.Context, companyID, userID uuid.UUID) (*UserResponse, error) {
	user, err := s.findInCompany(ctx, companyID, userID)
	if err != nil {
		return nil, err
	}
	resp := ToUserResponse(user)
	return &resp, nil
}

// List returns the company's users
func (s *UserService) List(ctx context.Context, companyID uuid.UUID, filter UserListFilter) (*UserListResult, error) {
	f := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Search:   filter.Search,
	}.Normalize()

	users, total, err := s.userRepo.FindByCompany(ctx, companyID, f)
	if err != nil {
		s.logger.Error("Failed to list users", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL", "Failed to list users")
	}

	responses := make([]UserResponse, 0, len(users))
	for _, u := range users {
		responses = append(responses, ToUserResponse(u))
	}
	return &UserListResult{
		Users:    responses,
		Total:    total,
		Page:     f.Page,
		PageSize: f.PageSize,
	}, nil
}

// Update modifies a user in the company
func (s *UserService) Update(ctx context.Context, companyID, userID uuid.UUID, req UpdateUserRequest) (*UserResponse, error) {
	user, err := s.findInCompany(ctx, companyID, userID)
	if err != nil {
		return nil, err
	}

	if req.FirstName != nil || req.LastName != nil {
		first, last := user.FirstName, user.LastName
		if req.FirstName != nil {
			first = *req.FirstName
		}
		if req.LastName != nil {
			last = *req.LastName
		}
		user.SetName(first, last)
	}
	if req.Phone != nil {
		user.Phone = strings.TrimSpace(*req.Phone)
		user.Touch()
	}
	if req.Role != nil {
		role, err := identity.ParseRole(*req.Role)
		if err != nil {
			return nil, err
		}
		var pages []identity.Page
		if role == identity.RoleCustom {
			pages, err = identity.ParsePages(req.AllowedPages)
			if err != nil {
				return nil, err
			}
		}
		if err := user.SetRole(role, pages); err != nil {
			return nil, err
		}
	}
	if req.Active != nil {
		if *req.Active {
			user.Activate()
		} else {
			user.Deactivate()
		}
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.ErrNotFound
		}
		s.logger.Error("Failed to update user", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL", "Failed to update user")
	}

	resp := ToUserResponse(user)
	return &resp, nil
}

// Delete removes a user from the company
func (s *UserService) Delete(ctx context.Context, companyID, userID uuid.UUID) error {
	if _, err := s.findInCompany(ctx, companyID, userID); err != nil {
		return err
	}
	if err := s.userRepo.Delete(ctx, userID); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.ErrNotFound
		}
		s.logger.Error("Failed to delete user", zap.Error(err))
		return shared.NewDomainError("INTERNAL", "Failed to delete user")
	}
	s.logger.Info("User deleted", zap.String("user_id", userID.String()))
	return nil
}

// GetProfile returns the calling user's own record
func (s *UserService) GetProfile(ctx context.Context, userID uuid.UUID) (*UserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.ErrNotFound
		}
		s.logger.Error("Failed to load profile", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL", "Failed to load profile")
	}
	resp := ToUserResponse(user)
	return &resp, nil
}

// UpdateProfile updates the calling user's own name and phone
func (s *UserService) UpdateProfile(ctx context.Context, userID uuid.UUID, req UpdateProfileRequest) (*UserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.ErrNotFound
		}
		s.logger.Error("Failed to load profile", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL", "Failed to load profile")
	}

	if req.FirstName != nil || req.LastName != nil {
		first, last := user.FirstName, user.LastName
		if req.FirstName != nil {
			first = *req.FirstName
		}
		if req.LastName != nil {
			last = *req.LastName
		}
		user.SetName(first, last)
	}
	if req.Phone != nil {
		user.Phone = strings.TrimSpace(*req.Phone)
		user.Touch()
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		s.logger.Error("Failed to update profile", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL", "Failed to update profile")
	}

	resp := ToUserResponse(user)
	return &resp, nil
}

// findInCompany loads a user and hides records from other companies
func (s *UserService) findInCompany(ctx context.Context, companyID, userID uuid.UUID) (*identity.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.ErrNotFound
		}
		s.logger.Error("Failed to load user", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL", "Failed to load user")
	}
	if user.CompanyID != companyID {
		return nil, shared.ErrNotFound
	}
	return user, nil
}

func (s *UserService) sendInvitationEmail(ctx context.Context, user *identity.User, tempPassword string) bool {
	subject := fmt.Sprintf("You have been invited to %s", s.appCfg.Name)
	text := fmt.Sprintf("Hi %s,\n\nAn account has been created for you on %s.\n\nSign in with:\n  Email: %s\n  Temporary password: %s\n\nPlease change your password after your first login.",
		user.FullName(), s.appCfg.Name, user.Email, tempPassword)
	html := fmt.Sprintf("<p>Hi %s,</p><p>An account has been created for you on %s.</p><p>Sign in with:<br>Email: %s<br>Temporary password: <code>%s</code></p><p>Please change your password after your first login.</p>",
		user.FullName(), s.appCfg.Name, user.Email, tempPassword)

	if err := s.mailer.Send(ctx, user.Email, subject, text, html); err != nil {
		s.logger.Warn("Failed to send invitation email",
			zap.String("user_id", user.ID.String()),
			zap.Error(err))
		return false
	}
	return true
}

func generateTempPassword() (string, error) {
	out := make([]byte, tempPasswordLength)
	max := big.NewInt(int64(len(tempPasswordAlphabet)))
	for i := range out {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		out[i] = tempPasswordAlphabet[n.Int64()]
	}
	return string(out), nil
}
