package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/taskline/taskline-api/internal/domain"
	"github.com/taskline/taskline-api/internal/service/auth"
	"github.com/taskline/taskline-api/internal/store"
)

// UserService implements registration, login, and profile management.
// Handlers own the token cookie; the service only issues the token string.
type UserService struct {
	userStore  store.UserStore
	jwtService auth.JWTService
	hasher     auth.PasswordHasher
	verifier   auth.PasswordVerifier
	logger     *slog.Logger
}

// NewUserService creates a UserService wired to the given store and
// credential helpers.
func NewUserService(
	userStore store.UserStore,
	jwtService auth.JWTService,
	hasher auth.PasswordHasher,
	verifier auth.PasswordVerifier,
	logger *slog.Logger,
) *UserService {
	if logger == nil {
		logger = slog.Default()
	}
	return &UserService{
		userStore:  userStore,
		jwtService: jwtService,
		hasher:     hasher,
		verifier:   verifier,
		logger:     logger.With(slog.String("component", "user_service")),
	}
}

// Register creates a new account and issues a credential token for it.
// Returns store.ErrEmailExists when the email is already taken.
func (s *UserService) Register(ctx context.Context, email, name, password string) (*domain.User, string, error) {
	hashed, err := s.hasher.Hash(password)
	if err != nil {
		return nil, "", fmt.Errorf("hashing password: %w", err)
	}

	user, err := domain.NewUser(email, name, hashed)
	if err != nil {
		return nil, "", err
	}

	if err := s.userStore.Create(ctx, user); err != nil {
		return nil, "", fmt.Errorf("creating user: %w", err)
	}

	token, err := s.jwtService.GenerateToken(ctx, user.ID)
	if err != nil {
		return nil, "", fmt.Errorf("generating token: %w", err)
	}

	s.logger.InfoContext(ctx, "user registered", "user_id", user.ID)
	return user.Projection(), token, nil
}

// Login verifies the email and password pair and issues a credential
// token. Both an unknown email and a wrong password report
// ErrInvalidCredentials.
func (s *UserService) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	user, err := s.userStore.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("looking up user: %w", err)
	}

	if err := s.verifier.Compare(user.HashedPassword, password); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.jwtService.GenerateToken(ctx, user.ID)
	if err != nil {
		return nil, "", fmt.Errorf("generating token: %w", err)
	}

	s.logger.InfoContext(ctx, "user logged in", "user_id", user.ID)
	return user.Projection(), token, nil
}

// GetProfile returns the user's profile without the credential hash.
func (s *UserService) GetProfile(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	user, err := s.userStore.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("getting user: %w", err)
	}
	return user.Projection(), nil
}

// UpdateProfile changes the user's display name.
func (s *UserService) UpdateProfile(ctx context.Context, userID uuid.UUID, name string) (*domain.User, error) {
	if err := domain.ValidateName(name); err != nil {
		return nil, err
	}

	user, err := s.userStore.UpdateName(ctx, userID, name)
	if err != nil {
		return nil, fmt.Errorf("updating user name: %w", err)
	}

	s.logger.InfoContext(ctx, "profile updated", "user_id", userID)
	return user.Projection(), nil
}
