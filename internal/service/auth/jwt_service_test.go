package auth

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskline/taskline-api/internal/config"
)

const testSecret = "test-secret-that-is-32-chars-long!!"

func newTestJWTService(t *testing.T) *hmacJWTService {
	t.Helper()

	svc, err := NewJWTService(config.AuthConfig{
		JWTSecret:            testSecret,
		TokenLifetimeMinutes: 60,
	})
	require.NoError(t, err)
	return svc.(*hmacJWTService)
}

func TestNewJWTServiceRejectsShortSecret(t *testing.T) {
	t.Parallel()

	_, err := NewJWTService(config.AuthConfig{
		JWTSecret:            "too-short",
		TokenLifetimeMinutes: 60,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "32 characters")
}

func TestTokenRoundTrip(t *testing.T) {
	t.Parallel()

	svc := newTestJWTService(t)
	ctx := context.Background()
	userID := uuid.New()

	token, err := svc.GenerateToken(ctx, userID)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.ValidateToken(ctx, token)
	require.NoError(t, err)

	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, userID.String(), claims.Subject)
	assert.NotEmpty(t, claims.ID)
	assert.WithinDuration(t, claims.IssuedAt.Add(time.Hour), claims.ExpiresAt, time.Second)
}

func TestValidateTokenExpired(t *testing.T) {
	t.Parallel()

	svc := newTestJWTService(t)
	ctx := context.Background()

	issuedAt := time.Now().UTC()
	svc.timeFunc = func() time.Time { return issuedAt }

	token, err := svc.GenerateToken(ctx, uuid.New())
	require.NoError(t, err)

	// Jump past the lifetime plus the clock skew leeway.
	svc.timeFunc = func() time.Time {
		return issuedAt.Add(svc.tokenLifetime + svc.clockSkew + time.Minute)
	}

	_, err = svc.ValidateToken(ctx, token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestValidateTokenWithinClockSkew(t *testing.T) {
	t.Parallel()

	svc := newTestJWTService(t)
	ctx := context.Background()

	issuedAt := time.Now().UTC()
	svc.timeFunc = func() time.Time { return issuedAt }

	token, err := svc.GenerateToken(ctx, uuid.New())
	require.NoError(t, err)

	// Just past expiry, but inside the leeway window.
	svc.timeFunc = func() time.Time {
		return issuedAt.Add(svc.tokenLifetime + time.Minute)
	}

	_, err = svc.ValidateToken(ctx, token)
	assert.NoError(t, err)
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	t.Parallel()

	svc := newTestJWTService(t)
	ctx := context.Background()

	tests := []struct {
		name  string
		token string
	}{
		{name: "not a token", token: "garbage"},
		{name: "empty", token: ""},
		{name: "truncated", token: "eyJhbGciOiJIUzI1NiJ9.e30"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := svc.ValidateToken(ctx, tt.token)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestValidateTokenRejectsWrongKey(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	svc := newTestJWTService(t)
	token, err := svc.GenerateToken(ctx, uuid.New())
	require.NoError(t, err)

	other, err := NewJWTService(config.AuthConfig{
		JWTSecret:            strings.Repeat("another-secret!!", 2),
		TokenLifetimeMinutes: 60,
	})
	require.NoError(t, err)

	_, err = other.ValidateToken(ctx, token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
