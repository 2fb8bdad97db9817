package models

import "time"

// Session is an opaque identity token bound to a user.
//
// Sessions are created on sign-in, read once per request by the session
// resolver, never mutated, and destroyed on sign-out or expiry.
type Session struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Expired reports whether the session has passed its expiry at the given instant.
func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}
