package auth_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/voyage-planner/voyage/internal/auth"
)

func TestPassword(t *testing.T) {
	hash, err := auth.HashPassword("s3cret!", bcrypt.MinCost)
	require.NoError(t, err)

	assert.NotEqual(t, "s3cret!", hash)
	assert.True(t, auth.VerifyPassword(hash, "s3cret!"))
	assert.False(t, auth.VerifyPassword(hash, "wrong"))
}

func TestTokenManager_RoundTrip(t *testing.T) {
	clock := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	m := auth.NewTokenManager("test-secret", 24*time.Hour, func() time.Time { return clock })
	userID := uuid.New()

	tok, err := m.Issue(userID, "ada@example.com", "Ada")
	require.NoError(t, err)
	assert.Equal(t, clock.Add(24*time.Hour), tok.ExpiresAt)

	claims, err := m.Verify(tok.Value)
	require.NoError(t, err)
	got, err := claims.UserID()
	require.NoError(t, err)
	assert.Equal(t, userID, got)
	assert.Equal(t, "ada@example.com", claims.Email)
}

func TestTokenManager_Expired(t *testing.T) {
	clock := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	m := auth.NewTokenManager("test-secret", time.Hour, func() time.Time { return clock })

	tok, err := m.Issue(uuid.New(), "a@b.c", "A")
	require.NoError(t, err)

	clock = clock.Add(2 * time.Hour)
	_, err = m.Verify(tok.Value)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestTokenManager_WrongSecret(t *testing.T) {
	issuer := auth.NewTokenManager("one", time.Hour, nil)
	verifier := auth.NewTokenManager("two", time.Hour, nil)

	tok, err := issuer.Issue(uuid.New(), "a@b.c", "A")
	require.NoError(t, err)

	_, err = verifier.Verify(tok.Value)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)

	_, err = verifier.Verify("not-a-jwt")
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}
