package api

import (
	"errors"
	"net/http"

	"github.com/taskline/taskline-api/internal/domain"
	"github.com/taskline/taskline-api/internal/service"
	"github.com/taskline/taskline-api/internal/service/auth"
	"github.com/taskline/taskline-api/internal/store"
)

// MapErrorToStatusCode translates service and store errors into HTTP
// status codes. Unknown errors map to 500.
func MapErrorToStatusCode(err error) int {
	switch {
	case errors.Is(err, auth.ErrMissingToken),
		errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, service.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrNotOwner):
		return http.StatusForbidden
	case errors.Is(err, store.ErrTaskNotFound),
		errors.Is(err, store.ErrUserNotFound),
		errors.Is(err, service.ErrAssigneeNotFound):
		return http.StatusNotFound
	case errors.Is(err, store.ErrEmailExists):
		return http.StatusConflict
	case errors.Is(err, store.ErrInvalidEntity),
		errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidID):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns the client-facing message for an error.
// Internal errors get a generic message; the underlying cause stays in
// the server log.
func GetSafeErrorMessage(err error) string {
	switch {
	case errors.Is(err, auth.ErrMissingToken):
		return "Access token required"
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrTokenNotYetValid):
		return "Invalid token"
	case errors.Is(err, service.ErrInvalidCredentials):
		return "Invalid email or password"
	case errors.Is(err, service.ErrNotOwner):
		return "You can only delete tasks you created"
	case errors.Is(err, service.ErrAssigneeNotFound):
		return "Assigned user not found"
	case errors.Is(err, store.ErrTaskNotFound):
		return "Task not found"
	case errors.Is(err, store.ErrUserNotFound):
		return "User not found"
	case errors.Is(err, store.ErrEmailExists):
		return "User with this email already exists"
	case errors.Is(err, store.ErrInvalidEntity):
		return "Invalid reference in request"
	case errors.Is(err, domain.ErrValidation):
		return err.Error()
	case errors.Is(err, domain.ErrInvalidID):
		return "Invalid ID"
	default:
		return "Internal server error"
	}
}
