package identity

import (
	"context"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/haulstack/tms/internal/domain/shared"
)

const bcryptCost = 12

// User represents an account that can authenticate against the API.
// Accounts always belong to a company; driver and customer portal
// accounts additionally carry a link to their fleet/partner record.
type User struct {
	shared.BaseEntity
	CompanyID    uuid.UUID
	Email        string
	Username     string
	PasswordHash string
	FirstName    string
	LastName     string
	Phone        string
	Role         Role
	AllowedPages []Page // only meaningful for RoleCustom
	Active       bool
	Verified     bool
	Superuser    bool
	DriverID     *uuid.UUID
	CustomerID   *uuid.UUID
	LastLoginAt  *time.Time
}

// NewUser creates a pending, unverified user with a hashed password.
// Username and email are separate login identifiers; both must be unique.
func NewUser(companyID uuid.UUID, email, username, password string, role Role) (*User, error) {
	email, err := normalizeEmail(email)
	if err != nil {
		return nil, err
	}
	username, err = NormalizeUsername(username)
	if err != nil {
		return nil, err
	}
	if err := validatePassword(password); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, shared.NewDomainError("PASSWORD_HASH_ERROR", "Failed to hash password")
	}

	return &User{
		BaseEntity:   shared.NewBaseEntity(),
		CompanyID:    companyID,
		Email:        email,
		Username:     username,
		PasswordHash: string(hash),
		Role:         role,
		Active:       true,
		Verified:     false,
	}, nil
}

// SetPassword replaces the password hash
func (u *User) SetPassword(password string) error {
	if err := validatePassword(password); err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return shared.NewDomainError("PASSWORD_HASH_ERROR", "Failed to hash password")
	}
	u.PasswordHash = string(hash)
	u.Touch()
	return nil
}

// VerifyPassword checks a candidate password against the stored hash
func (u *User) VerifyPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

// EffectivePermissions resolves the permission set for the user's role
func (u *User) EffectivePermissions() PermissionSet {
	return PermissionsForRole(u.Role, u.AllowedPages)
}

// SetName sets the user's display name parts
func (u *User) SetName(first, last string) {
	u.FirstName = strings.TrimSpace(first)
	u.LastName = strings.TrimSpace(last)
	u.Touch()
}

// FullName returns the display name
func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// SetRole changes the role; for RoleCustom the page grant must be non-empty
func (u *User) SetRole(role Role, pages []Page) error {
	if role == RoleCustom && len(pages) == 0 {
		return shared.NewDomainError("INVALID_ROLE", "Custom role requires at least one allowed page")
	}
	u.Role = role
	if role == RoleCustom {
		u.AllowedPages = pages
	} else {
		u.AllowedPages = nil
	}
	u.Touch()
	return nil
}

// LinkDriver ties the account to a driver record
func (u *User) LinkDriver(driverID uuid.UUID) {
	u.DriverID = &driverID
	u.Touch()
}

// LinkCustomer ties the account to a customer record
func (u *User) LinkCustomer(customerID uuid.UUID) {
	u.CustomerID = &customerID
	u.Touch()
}

// MarkVerified records successful email verification
func (u *User) MarkVerified() {
	u.Verified = true
	u.Touch()
}

// Activate enables the account
func (u *User) Activate() {
	u.Active = true
	u.Touch()
}

// Deactivate disables the account without deleting it
func (u *User) Deactivate() {
	u.Active = false
	u.Touch()
}

// CanLogin reports whether the account may authenticate
func (u *User) CanLogin() bool {
	return u.Active && u.Verified
}

// RecordLogin stores the login timestamp
func (u *User) RecordLogin(at time.Time) {
	u.LastLoginAt = &at
}

// NormalizeUsername lowercases and validates a login name. Usernames share
// the login identifier space with emails, so "@" is rejected to keep the
// two distinguishable.
func NormalizeUsername(username string) (string, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	if len(username) < 3 || len(username) > 50 {
		return "", shared.NewDomainError("INVALID_USERNAME", "Username must be between 3 and 50 characters")
	}
	for _, r := range username {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= '0' && r <= '9':
		case r == '.' || r == '_' || r == '-':
		default:
			return "", shared.NewDomainError("INVALID_USERNAME", "Username may only contain letters, digits, '.', '_' and '-'")
		}
	}
	return username, nil
}

func normalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return "", shared.NewDomainError("INVALID_EMAIL", "Email is required")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return "", shared.NewDomainError("INVALID_EMAIL", "Invalid email address")
	}
	return email, nil
}

func validatePassword(password string) error {
	if len(password) < 8 {
		return shared.NewDomainError("INVALID_PASSWORD", "Password must be at least 8 characters")
	}
	if len(password) > 72 {
		return shared.NewDomainError("INVALID_PASSWORD", "Password cannot exceed 72 characters")
	}
	return nil
}

// UserRepository defines persistence operations for users
type UserRepository interface {
	Save(ctx context.Context, user *User) error
	Update(ctx context.Context, user *User) error
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByIdentifier(ctx context.Context, identifier string) (*User, error)
	FindByCompany(ctx context.Context, companyID uuid.UUID, filter shared.Filter) ([]*User, int64, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
