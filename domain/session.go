package domain

import "time"

// Session represents an authenticated admin session stored in Redis.
// PhoneNumber, when set, overrides the configured default SMS recipient
// for notifications triggered by this session.
type Session struct {
	ID          string    `json:"id"`
	Admin       string    `json:"admin"`
	PhoneNumber string    `json:"phone_number,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	ExpiresAt   time.Time `json:"expires_at"`
}

func (s *Session) IsExpired(reference time.Time) bool {
	if s == nil {
		return true
	}
	if reference.IsZero() {
		reference = time.Now()
	}
	return !s.ExpiresAt.After(reference)
}
