package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/haulstack/tms/internal/domain/identity"
	"github.com/haulstack/tms/internal/domain/shared"
	"github.com/haulstack/tms/internal/infrastructure/auth"
	"github.com/haulstack/tms/internal/infrastructure/config"
	"github.com/haulstack/tms/internal/infrastructure/notification"
)

// AuthService handles registration, login, and token lifecycle
type AuthService struct {
	userRepo   identity.UserRepository
	tokenRepo  identity.VerificationTokenRepository
	regStore   identity.RegistrationStore
	jwtService *auth.JWTService
	blacklist  auth.TokenBlacklist
	mailer     notification.EmailSender
	appCfg     config.AppConfig
	logger     *zap.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(
	userRepo identity.UserRepository,
	tokenRepo identity.VerificationTokenRepository,
	regStore identity.RegistrationStore,
	jwtService *auth.JWTService,
	blacklist auth.TokenBlacklist,
	mailer notification.EmailSender,
	appCfg config.AppConfig,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		tokenRepo:  tokenRepo,
		regStore:   regStore,
		jwtService: jwtService,
		blacklist:  blacklist,
		mailer:     mailer,
		appCfg:     appCfg,
		logger:     logger,
	}
}

// Register creates a company, its admin user, and a verification token in
// one transaction, then sends the verification email. A mail failure is
// reported in the result, never rolled back.
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*RegisterResult, error) {
	s.logger.Info("Registering new company",
		zap.String("company_name", req.CompanyName),
		zap.String("email", req.Email))

	exists, err := s.userRepo.ExistsByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		s.logger.Error("Failed to check email existence", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL", "Failed to check email availability")
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "An account with this email already exists")
	}

	username, err := identity.NormalizeUsername(req.Username)
	if err != nil {
		return nil, err
	}
	taken, err := s.userRepo.ExistsByUsername(ctx, username)
	if err != nil {
		s.logger.Error("Failed to check username existence", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL", "Failed to check username availability")
	}
	if taken {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "This username is already taken")
	}

	company, err := identity.NewCompany(req.CompanyName)
	if err != nil {
		return nil, err
	}
	company.SetAuthority(req.DOTNumber, req.MCNumber)

	user, err := identity.NewUser(company.ID, req.Email, username, req.Password, identity.RoleCompanyAdmin)
	if err != nil {
		return nil, err
	}
	user.SetName(req.FirstName, req.LastName)
	user.Phone = strings.TrimSpace(req.Phone)

	token, err := identity.NewVerificationToken(user.ID)
	if err != nil {
		return nil, err
	}

	if err := s.regStore.Register(ctx, company, user, token); err != nil {
		s.logger.Error("Failed to persist registration", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL", "Failed to complete registration")
	}

	emailSent := s.sendVerificationEmail(ctx, user, token)

	s.logger.Info("Company registered",
		zap.String("company_id", company.ID.String()),
		zap.String("user_id", user.ID.String()),
		zap.Bool("email_sent", emailSent))

	return &RegisterResult{
		User:      ToUserResponse(user),
		Company:   ToCompanyResponse(company),
		EmailSent: emailSent,
	}, nil
}

// Login authenticates by username or email. Unknown accounts and wrong
// passwords produce the same generic error.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*LoginResult, error) {
	identifier := strings.ToLower(strings.TrimSpace(req.Identifier))

	user, err := s.userRepo.FindByIdentifier(ctx, identifier)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			s.logger.Info("Login attempt for unknown account", zap.String("identifier", identifier))
			return nil, shared.ErrInvalidCredentials
		}
		s.logger.Error("Failed to look up user", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL", "Failed to process login")
	}

	if !user.VerifyPassword(req.Password) {
		s.logger.Info("Login attempt with wrong password", zap.String("user_id", user.ID.String()))
		return nil, shared.ErrInvalidCredentials
	}

	if !user.CanLogin() {
		s.logger.Info("Login attempt for inactive or unverified account",
			zap.String("user_id", user.ID.String()),
			zap.Bool("active", user.Active),
			zap.Bool("verified", user.Verified))
		return nil, shared.NewDomainError("UNAUTHORIZED", "Account is inactive or not yet verified")
	}

	pair, err := s.issueTokens(user)
	if err != nil {
		s.logger.Error("Failed to generate tokens", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL", "Failed to generate tokens")
	}

	user.RecordLogin(time.Now())
	if err := s.userRepo.Update(ctx, user); err != nil {
		// Login still succeeds when the timestamp write fails.
		s.logger.Warn("Failed to record login time", zap.Error(err))
	}

	s.logger.Info("User logged in",
		zap.String("user_id", user.ID.String()),
		zap.String("company_id", user.CompanyID.String()),
		zap.String("role", string(user.Role)))

	return &LoginResult{
		AccessToken:           pair.AccessToken,
		RefreshToken:          pair.RefreshToken,
		TokenType:             pair.TokenType,
		AccessTokenExpiresAt:  pair.AccessTokenExpiresAt,
		RefreshTokenExpiresAt: pair.RefreshTokenExpiresAt,
		User:                  ToUserResponse(user),
	}, nil
}

// Refresh exchanges a refresh token for a new pair. Grants are re-resolved
// from the current user record, not copied from the old token.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*LoginResult, error) {
	claims, err := s.jwtService.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, shared.NewDomainError("UNAUTHORIZED", "Invalid refresh token")
	}

	blacklisted, err := s.blacklist.IsBlacklisted(ctx, claims.ID)
	if err != nil {
		s.logger.Error("Failed to check token blacklist", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL", "Failed to validate token")
	}
	if blacklisted {
		return nil, shared.NewDomainError("UNAUTHORIZED", "Token has been revoked")
	}

	invalidated, err := s.blacklist.IsUserTokenInvalidated(ctx, claims.UserID, claims.IssuedAt.Time)
	if err != nil {
		s.logger.Error("Failed to check user token invalidation", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL", "Failed to validate token")
	}
	if invalidated {
		return nil, shared.NewDomainError("UNAUTHORIZED", "Token has been revoked")
	}

	userID, err := claims.GetUserUUID()
	if err != nil {
		return nil, shared.NewDomainError("UNAUTHORIZED", "Invalid refresh token")
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("UNAUTHORIZED", "Account no longer exists")
		}
		s.logger.Error("Failed to look up user for refresh", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL", "Failed to refresh token")
	}
	if !user.CanLogin() {
		return nil, shared.NewDomainError("UNAUTHORIZED", "Account is inactive or not yet verified")
	}

	pair, err := s.issueTokens(user)
	if err != nil {
		s.logger.Error("Failed to generate tokens", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL", "Failed to generate tokens")
	}

	return &LoginResult{
		AccessToken:           pair.AccessToken,
		RefreshToken:          pair.RefreshToken,
		TokenType:             pair.TokenType,
		AccessTokenExpiresAt:  pair.AccessTokenExpiresAt,
		RefreshTokenExpiresAt: pair.RefreshTokenExpiresAt,
		User:                  ToUserResponse(user),
	}, nil
}

// Logout revokes the presented access token for its remaining lifetime
func (s *AuthService) Logout(ctx context.Context, claims *auth.Claims) error {
	ttl := claims.GetRemainingTTL()
	if ttl <= 0 {
		return nil
	}
	if err := s.blacklist.AddToBlacklist(ctx, claims.ID, ttl); err != nil {
		s.logger.Error("Failed to blacklist token", zap.Error(err))
		return shared.NewDomainError("INTERNAL", "Failed to log out")
	}
	s.logger.Info("User logged out", zap.String("user_id", claims.UserID))
	return nil
}

// VerifyEmail consumes a verification token and marks the user verified
func (s *AuthService) VerifyEmail(ctx context.Context, token string) error {
	record, err := s.tokenRepo.FindByToken(ctx, token)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.NewDomainError("INVALID_TOKEN", "Verification token is expired or already used")
		}
		s.logger.Error("Failed to look up verification token", zap.Error(err))
		return shared.NewDomainError("INTERNAL", "Failed to verify email")
	}

	if err := record.Consume(time.Now()); err != nil {
		return err
	}
	if err := s.tokenRepo.Update(ctx, record); err != nil {
		s.logger.Error("Failed to consume verification token", zap.Error(err))
		return shared.NewDomainError("INTERNAL", "Failed to verify email")
	}

	user, err := s.userRepo.FindByID(ctx, record.UserID)
	if err != nil {
		s.logger.Error("Failed to load user for verification", zap.Error(err))
		return shared.NewDomainError("INTERNAL", "Failed to verify email")
	}
	user.MarkVerified()
	if err := s.userRepo.Update(ctx, user); err != nil {
		s.logger.Error("Failed to mark user verified", zap.Error(err))
		return shared.NewDomainError("INTERNAL", "Failed to verify email")
	}

	s.sendWelcomeEmail(ctx, user)

	s.logger.Info("Email verified", zap.String("user_id", user.ID.String()))
	return nil
}

// ResendVerification issues a fresh token for an unverified account. The
// outcome is identical from the caller's point of view whether the account
// exists or not.
func (s *AuthService) ResendVerification(ctx context.Context, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, shared.ErrNotFound) {
			s.logger.Error("Failed to look up user for resend", zap.Error(err))
		}
		return nil
	}
	if user.Verified {
		return nil
	}

	if err := s.tokenRepo.DeleteByUser(ctx, user.ID); err != nil {
		s.logger.Warn("Failed to clear previous verification tokens", zap.Error(err))
	}

	token, err := identity.NewVerificationToken(user.ID)
	if err != nil {
		s.logger.Error("Failed to generate verification token", zap.Error(err))
		return nil
	}
	if err := s.tokenRepo.Save(ctx, token); err != nil {
		s.logger.Error("Failed to save verification token", zap.Error(err))
		return nil
	}

	s.sendVerificationEmail(ctx, user, token)
	return nil
}

// ChangePassword replaces the current user's password after checking the
// old one, then invalidates all of the user's existing tokens.
func (s *AuthService) ChangePassword(ctx context.Context, claims *auth.Claims, req ChangePasswordRequest) error {
	userID, err := claims.GetUserUUID()
	if err != nil {
		return shared.NewDomainError("UNAUTHORIZED", "Invalid token")
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.ErrNotFound
		}
		s.logger.Error("Failed to load user for password change", zap.Error(err))
		return shared.NewDomainError("INTERNAL", "Failed to change password")
	}

	if !user.VerifyPassword(req.CurrentPassword) {
		return shared.NewDomainError("INVALID_CREDENTIALS", "Current password is incorrect")
	}
	if err := user.SetPassword(req.NewPassword); err != nil {
		return err
	}
	if err := s.userRepo.Update(ctx, user); err != nil {
		s.logger.Error("Failed to update password", zap.Error(err))
		return shared.NewDomainError("INTERNAL", "Failed to change password")
	}

	if err := s.blacklist.AddUserTokensToBlacklist(ctx, user.ID.String(), s.jwtService.GetRefreshTokenExpiration()); err != nil {
		s.logger.Warn("Failed to invalidate existing sessions", zap.Error(err))
	}

	s.logger.Info("Password changed", zap.String("user_id", user.ID.String()))
	return nil
}

func (s *AuthService) issueTokens(user *identity.User) (*auth.TokenPair, error) {
	return s.jwtService.GenerateTokenPair(auth.GenerateTokenInput{
		CompanyID:   user.CompanyID,
		UserID:      user.ID,
		Email:       user.Email,
		Role:        string(user.Role),
		Superuser:   user.Superuser,
		Permissions: permissionStrings(user.EffectivePermissions()),
		DriverID:    user.DriverID,
		CustomerID:  user.CustomerID,
	})
}

func (s *AuthService) sendVerificationEmail(ctx context.Context, user *identity.User, token *identity.VerificationToken) bool {
	link := fmt.Sprintf("%s/verify-email?token=%s", strings.TrimRight(s.appCfg.BaseURL, "/"), token.Token)
	subject := fmt.Sprintf("Verify your %s account", s.appCfg.Name)
	text := fmt.Sprintf("Welcome to %s.\n\nVerify your email address by opening the link below:\n\n%s\n\nThe link expires in 24 hours.", s.appCfg.Name, link)
	html := fmt.Sprintf(`<p>Welcome to %s.</p><p><a href="%s">Verify your email address</a></p><p>The link expires in 24 hours.</p>`, s.appCfg.Name, link)

	if err := s.mailer.Send(ctx, user.Email, subject, text, html); err != nil {
		s.logger.Warn("Failed to send verification email",
			zap.String("user_id", user.ID.String()),
			zap.Error(err))
		return false
	}
	return true
}

func (s *AuthService) sendWelcomeEmail(ctx context.Context, user *identity.User) {
	subject := fmt.Sprintf("Welcome to %s", s.appCfg.Name)
	text := fmt.Sprintf("Hi %s,\n\nYour email is verified and your account is ready to use.", user.FullName())
	html := fmt.Sprintf("<p>Hi %s,</p><p>Your email is verified and your account is ready to use.</p>", user.FullName())

	if err := s.mailer.Send(ctx, user.Email, subject, text, html); err != nil {
		s.logger.Warn("Failed to send welcome email",
			zap.String("user_id", user.ID.String()),
			zap.Error(err))
	}
}
