package events

import "time"

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventSignupSucceeded EventType = "signup_succeeded"
	EventSignupFailed    EventType = "signup_failed"
	EventSignupRejected  EventType = "signup_rejected"
)

// Event represents something that happened to a partner signup session.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	SessionID string      `json:"session_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// SignupAttemptPayload describes one settled or rejected submission.
// The password is never carried.
type SignupAttemptPayload struct {
	Email          string `json:"email"`
	Message        string `json:"message,omitempty"`
	UpstreamStatus int    `json:"upstream_status,omitempty"`
}
