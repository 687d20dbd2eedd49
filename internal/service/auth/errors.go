// Package auth provides credential issuing and verification: JWT tokens,
// bcrypt password hashing, and the verifier shared by the HTTP middleware
// and the realtime connection gate.
package auth

import "errors"

// Common authentication service errors.
var (
	// ErrInvalidToken indicates the token is malformed, carries an invalid
	// signature, or references a user that no longer resolves.
	ErrInvalidToken = errors.New("invalid authentication token")

	// ErrExpiredToken indicates the token has expired.
	ErrExpiredToken = errors.New("authentication token has expired")

	// ErrTokenNotYetValid indicates the token's nbf claim is in the future.
	ErrTokenNotYetValid = errors.New("authentication token not yet valid")

	// ErrMissingToken indicates a token was expected but not provided.
	ErrMissingToken = errors.New("authentication token is missing")
)
