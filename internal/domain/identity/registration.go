package identity

import "context"

// RegistrationStore persists a new company, its first admin user, and the
// admin's verification token atomically. A partial registration must never
// be visible.
type RegistrationStore interface {
	Register(ctx context.Context, company *Company, user *User, token *VerificationToken) error
}
