package identity

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewVerificationToken(t *testing.T) {
	userID := uuid.New()

	token, err := NewVerificationToken(userID)
	require.NoError(t, err)
	assert.Equal(t, userID, token.UserID)
	assert.NotEmpty(t, token.Token)
	assert.False(t, token.Used)
	assert.True(t, token.Valid(time.Now()))

	other, err := NewVerificationToken(userID)
	require.NoError(t, err)
	assert.NotEqual(t, token.Token, other.Token)
}

func TestVerificationTokenConsume(t *testing.T) {
	t.Run("consuming marks used", func(t *testing.T) {
		token, err := NewVerificationToken(uuid.New())
		require.NoError(t, err)

		now := time.Now()
		require.NoError(t, token.Consume(now))
		assert.True(t, token.Used)
		require.NotNil(t, token.UsedAt)
		assert.False(t, token.Valid(now))
	})

	t.Run("second consume fails", func(t *testing.T) {
		token, err := NewVerificationToken(uuid.New())
		require.NoError(t, err)

		require.NoError(t, token.Consume(time.Now()))
		assert.Error(t, token.Consume(time.Now()))
	})

	t.Run("expired token cannot be consumed", func(t *testing.T) {
		token, err := NewVerificationToken(uuid.New())
		require.NoError(t, err)
		token.ExpiresAt = time.Now().Add(-time.Minute)

		assert.False(t, token.Valid(time.Now()))
		assert.Error(t, token.Consume(time.Now()))
	})
}
