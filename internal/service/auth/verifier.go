package auth

import (
	"context"
	"errors"

	"github.com/taskline/taskline-api/internal/domain"
	"github.com/taskline/taskline-api/internal/platform/logger"
	"github.com/taskline/taskline-api/internal/store"
)

// CredentialVerifier resolves a bearer token to a user identity. It is the
// single authentication gate shared by the HTTP middleware and the realtime
// connection handshake.
type CredentialVerifier interface {
	// Verify validates the token and resolves it to the identified user,
	// returned as a projection without the credential hash.
	// Returns ErrMissingToken for an empty token, ErrExpiredToken for an
	// expired one, and ErrInvalidToken for every other failure, including
	// a user ID that no longer resolves.
	Verify(ctx context.Context, token string) (*domain.User, error)
}

// Verifier implements CredentialVerifier on top of the JWT service and the
// user store. It has no side effects and is safe for concurrent use.
type Verifier struct {
	jwtService JWTService
	userStore  store.UserStore
}

var _ CredentialVerifier = (*Verifier)(nil)

// NewVerifier creates a Verifier.
func NewVerifier(jwtService JWTService, userStore store.UserStore) *Verifier {
	return &Verifier{
		jwtService: jwtService,
		userStore:  userStore,
	}
}

// Verify implements CredentialVerifier.
func (v *Verifier) Verify(ctx context.Context, token string) (*domain.User, error) {
	if token == "" {
		return nil, ErrMissingToken
	}

	claims, err := v.jwtService.ValidateToken(ctx, token)
	if err != nil {
		return nil, err
	}

	user, err := v.userStore.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			// User deleted after token issuance; the credential no longer
			// identifies anyone.
			logger.FromContext(ctx).Debug("token references unknown user",
				"user_id", claims.UserID)
			return nil, ErrInvalidToken
		}
		return nil, err
	}

	return user.Projection(), nil
}
