// Package domain defines domain-level errors for the auth feature.
package domain

import "errors"

// Domain errors for authentication operations.
// Upper layers map them to transport status codes with errors.Is.
var (
	// ErrDuplicateAccount is returned by registration when the email is already taken.
	ErrDuplicateAccount = errors.New("user already exists")

	// ErrAccountNotFound is returned by the store when no account matches.
	ErrAccountNotFound = errors.New("user not found")

	// ErrInvalidCredentials covers both an unknown email and a wrong password.
	// The two cases are deliberately indistinguishable.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrMissingToken is returned by the authentication boundary when no bearer token is presented.
	ErrMissingToken = errors.New("access token required")

	// ErrInvalidToken covers malformed, wrongly signed and expired tokens,
	// and tokens whose account no longer exists.
	ErrInvalidToken = errors.New("invalid token")
)
