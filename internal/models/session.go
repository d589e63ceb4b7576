// ABOUTME: SessionSummary is the listing view of a stored session
// ABOUTME: Mirrors the session endpoints exposed to the API layer
package models

import "time"

// SessionSummary describes one session for listing purposes.
type SessionSummary struct {
	SessionID    string    `json:"session_id"`
	MessageCount int       `json:"message_count"`
	LastActivity time.Time `json:"last_activity"`
	Roles        []string  `json:"roles"` // distinct roles seen, sorted
}
