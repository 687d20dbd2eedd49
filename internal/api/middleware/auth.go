// Package middleware contains the HTTP middleware for the API: request
// authentication and per-request logging.
package middleware

import (
	"net/http"
	"strings"

	"github.com/taskline/taskline-api/internal/api/shared"
	"github.com/taskline/taskline-api/internal/service/auth"
)

// authCookieName matches the cookie set by the auth handlers.
const authCookieName = "token"

// Authenticate resolves the request credential into a full user and
// stores it in the request context. The token is read from the `token`
// cookie, with an Authorization bearer header as fallback for non-browser
// clients. Requests without a token get 401 "Access token required";
// requests with a bad token get 401 "Invalid token".
func Authenticate(verifier auth.CredentialVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractToken(r)
			if token == "" {
				shared.RespondWithError(w, http.StatusUnauthorized, "Access token required")
				return
			}

			user, err := verifier.Verify(r.Context(), token)
			if err != nil {
				shared.RespondWithError(w, http.StatusUnauthorized, "Invalid token")
				return
			}

			next.ServeHTTP(w, r.WithContext(shared.WithUser(r.Context(), user)))
		})
	}
}

// extractToken reads the credential from the cookie or, failing that,
// the Authorization header.
func extractToken(r *http.Request) string {
	if cookie, err := r.Cookie(authCookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	header := r.Header.Get("Authorization")
	if after, ok := strings.CutPrefix(header, "Bearer "); ok {
		return after
	}
	return ""
}
