package identity

import (
	"time"

	"github.com/google/uuid"

	"github.com/haulstack/tms/internal/domain/identity"
)

// =============================================================================
// Auth DTOs
// =============================================================================

// RegisterRequest represents a request to register a company and its admin
type RegisterRequest struct {
	CompanyName string `json:"company_name" binding:"required,min=1,max=200"`
	DOTNumber   string `json:"dot_number" binding:"max=20"`
	MCNumber    string `json:"mc_number" binding:"max=20"`
	Email       string `json:"email" binding:"required,email,max=200"`
	Username    string `json:"username" binding:"required,min=3,max=50"`
	Password    string `json:"password" binding:"required,min=8,max=72"`
	FirstName   string `json:"first_name" binding:"max=100"`
	LastName    string `json:"last_name" binding:"max=100"`
	Phone       string `json:"phone" binding:"max=50"`
}

// RegisterResult reports the outcome of a registration
type RegisterResult struct {
	User      UserResponse    `json:"user"`
	Company   CompanyResponse `json:"company"`
	EmailSent bool            `json:"email_sent"`
}

// LoginRequest represents a login attempt
type LoginRequest struct {
	Identifier string `json:"identifier" binding:"required,max=200"` // username or email
	Password   string `json:"password" binding:"required,max=72"`
}

// LoginResult contains tokens and user info returned on successful login
type LoginResult struct {
	AccessToken           string       `json:"access_token"`
	RefreshToken          string       `json:"refresh_token"`
	TokenType             string       `json:"token_type"`
	AccessTokenExpiresAt  time.Time    `json:"access_token_expires_at"`
	RefreshTokenExpiresAt time.Time    `json:"refresh_token_expires_at"`
	User                  UserResponse `json:"user"`
}

// RefreshRequest carries a refresh token
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// VerifyEmailRequest carries an email verification token
type VerifyEmailRequest struct {
	Token string `json:"token" binding:"required"`
}

// ResendVerificationRequest asks for a fresh verification email
type ResendVerificationRequest struct {
	Email string `json:"email" binding:"required,email,max=200"`
}

// ChangePasswordRequest represents a password change for the current user
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=8,max=72"`
}

// =============================================================================
// User DTOs
// =============================================================================

// CreateUserRequest represents an admin request to create a user
type CreateUserRequest struct {
	Email          string     `json:"email" binding:"required,email,max=200"`
	Username       string     `json:"username" binding:"required,min=3,max=50"`
	FirstName      string     `json:"first_name" binding:"max=100"`
	LastName       string     `json:"last_name" binding:"max=100"`
	Phone          string     `json:"phone" binding:"max=50"`
	Role           string     `json:"role" binding:"required"`
	AllowedPages   []string   `json:"allowed_pages"` // required for the custom role
	DriverID       *uuid.UUID `json:"driver_id"`
	CustomerID     *uuid.UUID `json:"customer_id"`
	SendInvitation bool       `json:"send_invitation"`
}

// CreateUserResult contains the created user and, when no invitation email
// was requested, the generated temporary password.
type CreateUserResult struct {
	User              UserResponse `json:"user"`
	TemporaryPassword string       `json:"temporary_password,omitempty"`
	InvitationSent    bool         `json:"invitation_sent"`
}

// UpdateUserRequest represents an admin request to update a user
type UpdateUserRequest struct {
	FirstName    *string  `json:"first_name" binding:"omitempty,max=100"`
	LastName     *string  `json:"last_name" binding:"omitempty,max=100"`
	Phone        *string  `json:"phone" binding:"omitempty,max=50"`
	Role         *string  `json:"role"`
	AllowedPages []string `json:"allowed_pages"`
	Active       *bool    `json:"active"`
}

// UpdateProfileRequest represents a self-service profile update
type UpdateProfileRequest struct {
	FirstName *string `json:"first_name" binding:"omitempty,max=100"`
	LastName  *string `json:"last_name" binding:"omitempty,max=100"`
	Phone     *string `json:"phone" binding:"omitempty,max=50"`
}

// UserListFilter represents filter options for user listings
type UserListFilter struct {
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir"`
	Search   string `form:"search"`
}

// UserResponse represents a user in API responses
type UserResponse struct {
	ID           uuid.UUID  `json:"id"`
	CompanyID    uuid.UUID  `json:"company_id"`
	Email        string     `json:"email"`
	Username     string     `json:"username"`
	FirstName    string     `json:"first_name"`
	LastName     string     `json:"last_name"`
	Phone        string     `json:"phone,omitempty"`
	Role         string     `json:"role"`
	AllowedPages []string   `json:"allowed_pages,omitempty"`
	Permissions  []string   `json:"permissions"`
	Active       bool       `json:"active"`
	Verified     bool       `json:"verified"`
	DriverID     *uuid.UUID `json:"driver_id,omitempty"`
	CustomerID   *uuid.UUID `json:"customer_id,omitempty"`
	LastLoginAt  *time.Time `json:"last_login_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// UserListResult represents a paginated user list
type UserListResult struct {
	Users    []UserResponse `json:"users"`
	Total    int64          `json:"total"`
	Page     int            `json:"page"`
	PageSize int            `json:"page_size"`
}

// ToUserResponse converts a domain user to its API representation
func ToUserResponse(u *identity.User) UserResponse {
	pages := make([]string, 0, len(u.AllowedPages))
	for _, p := range u.AllowedPages {
		pages = append(pages, string(p))
	}
	return UserResponse{
		ID:           u.ID,
		CompanyID:    u.CompanyID,
		Email:        u.Email,
		Username:     u.Username,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		Phone:        u.Phone,
		Role:         string(u.Role),
		AllowedPages: pages,
		Permissions:  permissionStrings(u.EffectivePermissions()),
		Active:       u.Active,
		Verified:     u.Verified,
		DriverID:     u.DriverID,
		CustomerID:   u.CustomerID,
		LastLoginAt:  u.LastLoginAt,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

// =============================================================================
// Company DTOs
// =============================================================================

// UpdateCompanyRequest represents a request to update company settings
type UpdateCompanyRequest struct {
	Name      *string `json:"name" binding:"omitempty,min=1,max=200"`
	DOTNumber *string `json:"dot_number" binding:"omitempty,max=20"`
	MCNumber  *string `json:"mc_number" binding:"omitempty,max=20"`
	Address   *string `json:"address" binding:"omitempty,max=500"`
	City      *string `json:"city" binding:"omitempty,max=100"`
	State     *string `json:"state" binding:"omitempty,max=2"`
	ZipCode   *string `json:"zip_code" binding:"omitempty,max=20"`
	Phone     *string `json:"phone" binding:"omitempty,max=50"`
	Email     *string `json:"email" binding:"omitempty,email,max=200"`
}

// CompanyListFilter represents filter options for company listings
type CompanyListFilter struct {
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir"`
	Search   string `form:"search"`
}

// CompanyResponse represents a company in API responses
type CompanyResponse struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	DOTNumber  string    `json:"dot_number,omitempty"`
	MCNumber   string    `json:"mc_number,omitempty"`
	Address    string    `json:"address,omitempty"`
	City       string    `json:"city,omitempty"`
	State      string    `json:"state,omitempty"`
	ZipCode    string    `json:"zip_code,omitempty"`
	Phone      string    `json:"phone,omitempty"`
	Email      string    `json:"email,omitempty"`
	Active     bool      `json:"active"`
	MaxUsers   int       `json:"max_users"`
	MaxDrivers int       `json:"max_drivers"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// CompanyListResult represents a paginated company list
type CompanyListResult struct {
	Companies []CompanyResponse `json:"companies"`
	Total     int64             `json:"total"`
	Page      int               `json:"page"`
	PageSize  int               `json:"page_size"`
}

// ToCompanyResponse converts a domain company to its API representation
func ToCompanyResponse(c *identity.Company) CompanyResponse {
	return CompanyResponse{
		ID:         c.ID,
		Name:       c.Name,
		DOTNumber:  c.DOTNumber,
		MCNumber:   c.MCNumber,
		Address:    c.Address,
		City:       c.City,
		State:      c.State,
		ZipCode:    c.ZipCode,
		Phone:      c.Phone,
		Email:      c.Email,
		Active:     c.Active,
		MaxUsers:   c.MaxUsers,
		MaxDrivers: c.MaxDrivers,
		CreatedAt:  c.CreatedAt,
		UpdatedAt:  c.UpdatedAt,
	}
}

func permissionStrings(set identity.PermissionSet) []string {
	perms := set.List()
	out := make([]string, 0, len(perms))
	for _, p := range perms {
		out = append(out, string(p))
	}
	return out
}
