package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskline/taskline-api/internal/api/shared"
	"github.com/taskline/taskline-api/internal/domain"
	"github.com/taskline/taskline-api/internal/service/auth"
)

type stubVerifier struct {
	token string
	user  *domain.User
}

func (v *stubVerifier) Verify(_ context.Context, token string) (*domain.User, error) {
	if token != v.token {
		return nil, auth.ErrInvalidToken
	}
	return v.user, nil
}

func TestAuthenticate(t *testing.T) {
	t.Parallel()

	user, err := domain.NewUser("mw@example.com", "Middleware User", "hashed-secret")
	require.NoError(t, err)

	verifier := &stubVerifier{token: "valid-token", user: user.Projection()}

	var gotUser *domain.User
	protected := Authenticate(verifier)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUser, _ = shared.UserFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	tests := []struct {
		name       string
		setup      func(r *http.Request)
		wantStatus int
		wantError  string
	}{
		{
			name: "valid cookie",
			setup: func(r *http.Request) {
				r.AddCookie(&http.Cookie{Name: "token", Value: "valid-token"})
			},
			wantStatus: http.StatusOK,
		},
		{
			name: "valid bearer header",
			setup: func(r *http.Request) {
				r.Header.Set("Authorization", "Bearer valid-token")
			},
			wantStatus: http.StatusOK,
		},
		{
			name: "cookie wins over header",
			setup: func(r *http.Request) {
				r.AddCookie(&http.Cookie{Name: "token", Value: "valid-token"})
				r.Header.Set("Authorization", "Bearer forged")
			},
			wantStatus: http.StatusOK,
		},
		{
			name:       "no credential",
			setup:      func(r *http.Request) {},
			wantStatus: http.StatusUnauthorized,
			wantError:  "Access token required",
		},
		{
			name: "bad token",
			setup: func(r *http.Request) {
				r.AddCookie(&http.Cookie{Name: "token", Value: "forged"})
			},
			wantStatus: http.StatusUnauthorized,
			wantError:  "Invalid token",
		},
		{
			name: "header without bearer prefix",
			setup: func(r *http.Request) {
				r.Header.Set("Authorization", "valid-token")
			},
			wantStatus: http.StatusUnauthorized,
			wantError:  "Access token required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotUser = nil

			req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
			tt.setup(req)
			w := httptest.NewRecorder()
			protected.ServeHTTP(w, req)

			require.Equal(t, tt.wantStatus, w.Code)
			if tt.wantStatus == http.StatusOK {
				require.NotNil(t, gotUser)
				assert.Equal(t, user.ID, gotUser.ID)
				return
			}

			var resp shared.ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tt.wantError, resp.Error)
			assert.Nil(t, gotUser)
		})
	}
}
