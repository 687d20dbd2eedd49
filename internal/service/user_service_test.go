package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskline/taskline-api/internal/domain"
	"github.com/taskline/taskline-api/internal/mocks"
	"github.com/taskline/taskline-api/internal/service/auth"
	"github.com/taskline/taskline-api/internal/store"
)

func newTestUserService(userStore *mocks.MockUserStore) *UserService {
	return NewUserService(
		userStore,
		&mocks.MockJWTService{Token: "signed-token"},
		auth.NewBcryptHasher(),
		auth.NewBcryptVerifier(),
		nil,
	)
}

func TestUserServiceRegister(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("creates user and issues token", func(t *testing.T) {
		t.Parallel()

		userStore := mocks.NewMockUserStore()
		svc := newTestUserService(userStore)

		user, token, err := svc.Register(ctx, "eve@example.com", "Eve", "hunter2secret")
		require.NoError(t, err)

		assert.Equal(t, "signed-token", token)
		assert.Empty(t, user.HashedPassword, "response carries the projection")
		stored := userStore.Users["eve@example.com"]
		require.NotNil(t, stored)
		assert.NotEmpty(t, stored.HashedPassword)
		assert.NotEqual(t, "hunter2secret", stored.HashedPassword)
	})

	t.Run("duplicate email", func(t *testing.T) {
		t.Parallel()

		userStore := mocks.NewMockUserStore()
		svc := newTestUserService(userStore)

		_, _, err := svc.Register(ctx, "dup@example.com", "First", "password1")
		require.NoError(t, err)

		_, _, err = svc.Register(ctx, "dup@example.com", "Second", "password2")
		assert.ErrorIs(t, err, store.ErrEmailExists)
	})

	t.Run("invalid name", func(t *testing.T) {
		t.Parallel()

		svc := newTestUserService(mocks.NewMockUserStore())

		_, _, err := svc.Register(ctx, "short@example.com", "X", "password1")
		assert.ErrorIs(t, err, domain.ErrNameTooShort)
	})
}

func TestUserServiceLogin(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	userStore := mocks.NewMockUserStore()
	svc := newTestUserService(userStore)

	_, _, err := svc.Register(ctx, "frank@example.com", "Frank", "open sesame")
	require.NoError(t, err)

	t.Run("correct credentials", func(t *testing.T) {
		t.Parallel()

		user, token, err := svc.Login(ctx, "frank@example.com", "open sesame")
		require.NoError(t, err)

		assert.Equal(t, "signed-token", token)
		assert.Equal(t, "frank@example.com", user.Email)
		assert.Empty(t, user.HashedPassword)
	})

	t.Run("wrong password", func(t *testing.T) {
		t.Parallel()

		_, _, err := svc.Login(ctx, "frank@example.com", "wrong")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown email reports the same error", func(t *testing.T) {
		t.Parallel()

		_, _, err := svc.Login(ctx, "nobody@example.com", "open sesame")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestUserServiceUpdateProfile(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	userStore := mocks.NewMockUserStore()
	svc := newTestUserService(userStore)
	user := userStore.Add(newTestUser(t, "grace@example.com", "Grace"))

	t.Run("changes the name", func(t *testing.T) {
		updated, err := svc.UpdateProfile(ctx, user.ID, "Grace Hopper")
		require.NoError(t, err)
		assert.Equal(t, "Grace Hopper", updated.Name)
		assert.Empty(t, updated.HashedPassword)
	})

	t.Run("rejects short name", func(t *testing.T) {
		_, err := svc.UpdateProfile(ctx, user.ID, "G")
		assert.ErrorIs(t, err, domain.ErrNameTooShort)
	})
}
