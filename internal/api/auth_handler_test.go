package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskline/taskline-api/internal/api/shared"
	"github.com/taskline/taskline-api/internal/config"
	"github.com/taskline/taskline-api/internal/mocks"
	"github.com/taskline/taskline-api/internal/service"
	"github.com/taskline/taskline-api/internal/service/auth"
)

func newTestAuthHandler(userStore *mocks.MockUserStore) *AuthHandler {
	userService := service.NewUserService(
		userStore,
		&mocks.MockJWTService{Token: "test-token"},
		auth.NewBcryptHasher(),
		auth.NewBcryptVerifier(),
		nil,
	)
	return NewAuthHandler(userService, config.AuthConfig{
		TokenLifetimeMinutes: 24 * 60,
	})
}

func postJSON(t *testing.T, handler http.HandlerFunc, path string, payload any) *httptest.ResponseRecorder {
	t.Helper()

	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	handler(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) shared.ErrorResponse {
	t.Helper()

	var resp shared.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestRegister(t *testing.T) {
	t.Parallel()

	t.Run("valid registration sets cookie", func(t *testing.T) {
		t.Parallel()

		handler := newTestAuthHandler(mocks.NewMockUserStore())
		w := postJSON(t, handler.Register, "/api/auth/register", map[string]any{
			"email":    "new@example.com",
			"name":     "New User",
			"password": "secret123",
		})

		require.Equal(t, http.StatusCreated, w.Code)

		var resp AuthResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "User registered successfully", resp.Message)
		require.NotNil(t, resp.User)
		assert.Equal(t, "new@example.com", resp.User.Email)
		assert.NotContains(t, w.Body.String(), "hashedPassword")

		cookies := w.Result().Cookies()
		require.Len(t, cookies, 1)
		cookie := cookies[0]
		assert.Equal(t, "token", cookie.Name)
		assert.Equal(t, "test-token", cookie.Value)
		assert.True(t, cookie.HttpOnly)
		assert.Equal(t, http.SameSiteStrictMode, cookie.SameSite)
		assert.Equal(t, 24*60*60, cookie.MaxAge)
	})

	t.Run("duplicate email", func(t *testing.T) {
		t.Parallel()

		userStore := mocks.NewMockUserStore()
		handler := newTestAuthHandler(userStore)

		payload := map[string]any{
			"email":    "dup@example.com",
			"name":     "First",
			"password": "secret123",
		}
		require.Equal(t, http.StatusCreated, postJSON(t, handler.Register, "/api/auth/register", payload).Code)

		w := postJSON(t, handler.Register, "/api/auth/register", payload)
		require.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, "User with this email already exists", decodeError(t, w).Error)
	})

	validationTests := []struct {
		name    string
		payload map[string]any
		field   string
	}{
		{
			name:    "invalid email",
			payload: map[string]any{"email": "nope", "name": "Valid Name", "password": "secret123"},
			field:   "email",
		},
		{
			name:    "short password",
			payload: map[string]any{"email": "ok@example.com", "name": "Valid Name", "password": "short"},
			field:   "password",
		},
		{
			name:    "short name",
			payload: map[string]any{"email": "ok@example.com", "name": "V", "password": "secret123"},
			field:   "name",
		},
		{
			name:    "missing everything",
			payload: map[string]any{},
			field:   "email",
		},
	}

	for _, tt := range validationTests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			handler := newTestAuthHandler(mocks.NewMockUserStore())
			w := postJSON(t, handler.Register, "/api/auth/register", tt.payload)

			require.Equal(t, http.StatusBadRequest, w.Code)
			resp := decodeError(t, w)
			assert.Equal(t, "Validation failed", resp.Error)
			require.NotEmpty(t, resp.Details)

			fields := make([]string, 0, len(resp.Details))
			for _, d := range resp.Details {
				fields = append(fields, d.Field)
			}
			assert.Contains(t, fields, tt.field)
		})
	}
}

func TestLogin(t *testing.T) {
	t.Parallel()

	userStore := mocks.NewMockUserStore()
	handler := newTestAuthHandler(userStore)

	register := postJSON(t, handler.Register, "/api/auth/register", map[string]any{
		"email":    "hank@example.com",
		"name":     "Hank",
		"password": "secret123",
	})
	require.Equal(t, http.StatusCreated, register.Code)

	t.Run("valid credentials", func(t *testing.T) {
		w := postJSON(t, handler.Login, "/api/auth/login", map[string]any{
			"email":    "hank@example.com",
			"password": "secret123",
		})

		require.Equal(t, http.StatusOK, w.Code)

		var resp AuthResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "Login successful", resp.Message)
		require.Len(t, w.Result().Cookies(), 1)
	})

	t.Run("wrong password", func(t *testing.T) {
		w := postJSON(t, handler.Login, "/api/auth/login", map[string]any{
			"email":    "hank@example.com",
			"password": "wrong",
		})

		require.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "Invalid email or password", decodeError(t, w).Error)
		assert.Empty(t, w.Result().Cookies())
	})

	t.Run("unknown email gives the same message", func(t *testing.T) {
		w := postJSON(t, handler.Login, "/api/auth/login", map[string]any{
			"email":    "stranger@example.com",
			"password": "secret123",
		})

		require.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "Invalid email or password", decodeError(t, w).Error)
	})
}

func TestLogout(t *testing.T) {
	t.Parallel()

	handler := newTestAuthHandler(mocks.NewMockUserStore())

	req := httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
	w := httptest.NewRecorder()
	handler.Logout(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp MessageResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Logout successful", resp.Message)

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "token", cookies[0].Name)
	assert.Empty(t, cookies[0].Value)
	assert.Less(t, cookies[0].MaxAge, 0)
}

func TestMeAndProfile(t *testing.T) {
	t.Parallel()

	userStore := mocks.NewMockUserStore()
	handler := newTestAuthHandler(userStore)

	register := postJSON(t, handler.Register, "/api/auth/register", map[string]any{
		"email":    "iris@example.com",
		"name":     "Iris",
		"password": "secret123",
	})
	require.Equal(t, http.StatusCreated, register.Code)
	user := userStore.Users["iris@example.com"]
	require.NotNil(t, user)

	t.Run("me returns the context user", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
		req = req.WithContext(shared.WithUser(req.Context(), user.Projection()))
		w := httptest.NewRecorder()
		handler.Me(w, req)

		require.Equal(t, http.StatusOK, w.Code)

		var resp UserResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "iris@example.com", resp.User.Email)
	})

	t.Run("me without auth context", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
		w := httptest.NewRecorder()
		handler.Me(w, req)

		require.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "Access token required", decodeError(t, w).Error)
	})

	t.Run("profile update", func(t *testing.T) {
		body, err := json.Marshal(map[string]any{"name": "Iris Chen"})
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodPut, "/api/auth/profile", bytes.NewReader(body))
		req = req.WithContext(shared.WithUser(req.Context(), user.Projection()))
		w := httptest.NewRecorder()
		handler.UpdateProfile(w, req)

		require.Equal(t, http.StatusOK, w.Code)

		var resp AuthResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "Profile updated successfully", resp.Message)
		assert.Equal(t, "Iris Chen", resp.User.Name)
	})
}
