package mocks

import (
	"context"

	"github.com/google/uuid"

	"github.com/taskline/taskline-api/internal/service/auth"
)

// MockJWTService implements auth.JWTService with canned results.
type MockJWTService struct {
	Token       string
	GenerateErr error

	Claims      *auth.Claims
	ValidateErr error
}

var _ auth.JWTService = (*MockJWTService)(nil)

func (m *MockJWTService) GenerateToken(ctx context.Context, userID uuid.UUID) (string, error) {
	if m.GenerateErr != nil {
		return "", m.GenerateErr
	}
	return m.Token, nil
}

func (m *MockJWTService) ValidateToken(ctx context.Context, tokenString string) (*auth.Claims, error) {
	if m.ValidateErr != nil {
		return nil, m.ValidateErr
	}
	return m.Claims, nil
}
