package models

import "time"

// IntakeSession tracks a server-side wizard session.
type IntakeSession struct {
	ID           string    `json:"id"`
	CreatedAt    time.Time `json:"createdAt"`
	ExpiresAt    time.Time `json:"expiresAt"`
	LastActivity time.Time `json:"lastActivity"`
	Submitted    bool      `json:"submitted"`
	RecordID     string    `json:"recordId,omitempty"`
}

// IsExpired checks if session has expired
func (s *IntakeSession) IsExpired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}

// Touch updates the last activity timestamp and slides the expiry window.
func (s *IntakeSession) Touch(now time.Time, ttl time.Duration) {
	s.LastActivity = now
	s.ExpiresAt = now.Add(ttl)
}
