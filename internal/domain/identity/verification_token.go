package identity

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"time"

	"github.com/google/uuid"

	"github.com/haulstack/tms/internal/domain/shared"
)

const (
	verificationTokenBytes = 32
	verificationTokenTTL   = 24 * time.Hour
)

// VerificationToken is a single-use token emailed to a user to confirm
// ownership of their address.
type VerificationToken struct {
	shared.BaseEntity
	UserID    uuid.UUID
	Token     string
	ExpiresAt time.Time
	Used      bool
	UsedAt    *time.Time
}

// NewVerificationToken issues a fresh token for the user
func NewVerificationToken(userID uuid.UUID) (*VerificationToken, error) {
	raw := make([]byte, verificationTokenBytes)
	if _, err := rand.Read(raw); err != nil {
		return nil, shared.NewDomainError("TOKEN_GENERATION_ERROR", "Failed to generate verification token")
	}

	return &VerificationToken{
		BaseEntity: shared.NewBaseEntity(),
		UserID:     userID,
		Token:      base64.RawURLEncoding.EncodeToString(raw),
		ExpiresAt:  time.Now().Add(verificationTokenTTL),
	}, nil
}

// Valid reports whether the token can still be consumed
func (t *VerificationToken) Valid(now time.Time) bool {
	return !t.Used && now.Before(t.ExpiresAt)
}

// Consume marks the token as used. Consuming an invalid token fails.
func (t *VerificationToken) Consume(now time.Time) error {
	if !t.Valid(now) {
		return shared.NewDomainError("INVALID_TOKEN", "Verification token is expired or already used")
	}
	t.Used = true
	t.UsedAt = &now
	t.Touch()
	return nil
}

// VerificationTokenRepository defines persistence for verification tokens
type VerificationTokenRepository interface {
	Save(ctx context.Context, token *VerificationToken) error
	Update(ctx context.Context, token *VerificationToken) error
	FindByToken(ctx context.Context, token string) (*VerificationToken, error)
	DeleteByUser(ctx context.Context, userID uuid.UUID) error
}
