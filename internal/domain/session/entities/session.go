package entities

import "time"

// Status is the lifecycle status reported by the scanner
type Status string

const (
	StatusPending Status = "pending"
	StatusActive  Status = "active"
	StatusExpired Status = "expired"
	StatusInvalid Status = "invalid"
)

// Session identifies one account's credential bundle
type Session struct {
	ID             string
	Status         Status
	ExpiresAt      time.Time
	PhoneNumber    string
	CredentialBlob []byte
}

// Expired reports whether ExpiresAt has passed. A zero ExpiresAt never expires.
func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}

// Active reports whether the scanner marked the session active
func (s *Session) Active() bool {
	return s.Status == StatusActive
}
