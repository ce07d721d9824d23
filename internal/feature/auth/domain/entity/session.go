package entity

import "time"

// Session is the decoded content of a verified bearer token.
// It is never stored; expiry is checked when the token is parsed.
type Session struct {
	AccountID string    // sub claim
	IssuedAt  time.Time // iat claim
	ExpiresAt time.Time // exp claim
}

// IsExpired returns true if the session has passed its expiration time.
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}
