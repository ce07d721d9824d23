// Package entity defines the domain entities for the auth feature.
package entity

import "time"

// Account represents a registered user of the tracker.
// Accounts are created once at registration and never modified afterwards.
type Account struct {
	// ID is an opaque identifier generated at creation. It is never reused.
	ID string

	// Email is unique across all accounts and compared case-sensitively.
	Email string

	// PasswordHash is the bcrypt representation of the password.
	// It must never leave the service.
	PasswordHash string

	// Name is the display name.
	Name string

	// CreatedAt is the registration time.
	CreatedAt time.Time
}

// PublicAccount is the part of an Account that may be shown to callers.
type PublicAccount struct {
	ID        string
	Email     string
	Name      string
	CreatedAt time.Time
}

// Public strips the credential from the account.
func (a *Account) Public() PublicAccount {
	return PublicAccount{
		ID:        a.ID,
		Email:     a.Email,
		Name:      a.Name,
		CreatedAt: a.CreatedAt,
	}
}
