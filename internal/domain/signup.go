package domain

import "time"

// SignupRequest is the partner registration payload sent to the signup service.
type SignupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignupOutcome classifies how a submission ended.
type SignupOutcome string

const (
	SignupOutcomeSucceeded SignupOutcome = "SUCCEEDED"
	SignupOutcomeFailed    SignupOutcome = "FAILED"
	SignupOutcomeRejected  SignupOutcome = "REJECTED"
)

// SignupAttempt is the audit record of one submission.
type SignupAttempt struct {
	ID             string
	SessionID      string
	Email          string
	Outcome        SignupOutcome
	Message        string
	UpstreamStatus int
	CreatedAt      time.Time
}

// SignupResponse is the raw reply of the signup service: status code and full body.
type SignupResponse struct {
	Status int
	Body   []byte
}

// OK reports whether the status is in the 2xx range.
func (r SignupResponse) OK() bool {
	return r.Status >= 200 && r.Status <= 299
}
