package domain

import "time"

// AuthEventType classifies an entry of the authentication audit trail.
type AuthEventType string

const (
	AuthEventRegistered   AuthEventType = "registered"
	AuthEventLoginSuccess AuthEventType = "login_success"
	AuthEventLoginFailure AuthEventType = "login_failure"
	AuthEventLoggedOut    AuthEventType = "logged_out"
)

// AuthEvent is a single audit record. Subject is the email or username the
// client presented, which may not belong to any account.
type AuthEvent struct {
	Type       AuthEventType
	Subject    string
	RemoteAddr string
	OccurredAt time.Time
}
