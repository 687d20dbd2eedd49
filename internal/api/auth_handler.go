package api

import (
	"net/http"
	"time"

	"github.com/taskline/taskline-api/internal/api/shared"
	"github.com/taskline/taskline-api/internal/config"
	"github.com/taskline/taskline-api/internal/service"
)

// authCookieName is the cookie carrying the credential token.
const authCookieName = "token"

// AuthHandler serves the /api/auth endpoints.
type AuthHandler struct {
	userService *service.UserService
	authConfig  config.AuthConfig
}

// NewAuthHandler creates an AuthHandler.
func NewAuthHandler(userService *service.UserService, authConfig config.AuthConfig) *AuthHandler {
	return &AuthHandler{
		userService: userService,
		authConfig:  authConfig,
	}
}

// Register handles POST /api/auth/register. On success it sets the auth
// cookie and returns the new user with 201.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if details := shared.ValidateRequest(&req); details != nil {
		shared.RespondWithValidationError(w, details)
		return
	}

	user, token, err := h.userService.Register(r.Context(), req.Email, req.Name, req.Password)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	h.setAuthCookie(w, token)
	shared.RespondWithJSON(w, http.StatusCreated, AuthResponse{
		Message: "User registered successfully",
		User:    user,
	})
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if details := shared.ValidateRequest(&req); details != nil {
		shared.RespondWithValidationError(w, details)
		return
	}

	user, token, err := h.userService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	h.setAuthCookie(w, token)
	shared.RespondWithJSON(w, http.StatusOK, AuthResponse{
		Message: "Login successful",
		User:    user,
	})
}

// Logout handles POST /api/auth/logout. It clears the auth cookie; no
// authentication is required, logging out twice is harmless.
func (h *AuthHandler) Logout(w http.ResponseWriter, _ *http.Request) {
	h.clearAuthCookie(w)
	shared.RespondWithJSON(w, http.StatusOK, MessageResponse{Message: "Logout successful"})
}

// Me handles GET /api/auth/me. The auth middleware has already resolved
// the user.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := shared.UserFromContext(r.Context())
	if !ok {
		shared.RespondWithError(w, http.StatusUnauthorized, "Access token required")
		return
	}
	shared.RespondWithJSON(w, http.StatusOK, UserResponse{User: user})
}

// UpdateProfile handles PUT /api/auth/profile.
func (h *AuthHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	user, ok := shared.UserFromContext(r.Context())
	if !ok {
		shared.RespondWithError(w, http.StatusUnauthorized, "Access token required")
		return
	}

	var req UpdateProfileRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if details := shared.ValidateRequest(&req); details != nil {
		shared.RespondWithValidationError(w, details)
		return
	}

	updated, err := h.userService.UpdateProfile(r.Context(), user.ID, req.Name)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, http.StatusOK, AuthResponse{
		Message: "Profile updated successfully",
		User:    updated,
	})
}

// setAuthCookie writes the credential token as an httpOnly cookie. The
// lifetime mirrors the token's own expiry.
func (h *AuthHandler) setAuthCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     authCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   h.authConfig.TokenLifetimeMinutes * 60,
		HttpOnly: true,
		Secure:   h.authConfig.SecureCookies,
		SameSite: http.SameSiteStrictMode,
	})
}

// clearAuthCookie expires the credential cookie.
func (h *AuthHandler) clearAuthCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     authCookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.authConfig.SecureCookies,
		SameSite: http.SameSiteStrictMode,
	})
}
