package domain

import "time"

// AuthAction names the credential operation an AuthEvent records.
type AuthAction string

const (
	ActionRegister AuthAction = "register"
	ActionLogin    AuthAction = "login"
	ActionRefresh  AuthAction = "refresh"
)

// AuthEvent is one entry of the authentication audit trail.
type AuthEvent struct {
	Action     AuthAction `json:"action"`
	Username   string     `json:"username,omitempty"`
	UserID     int64      `json:"user_id,omitempty"`
	Success    bool       `json:"success"`
	Reason     string     `json:"reason,omitempty"`
	OccurredAt time.Time  `json:"occurred_at"`
}

// Key returns the value used to keep a user's events in order.
func (e AuthEvent) Key() string {
	if e.Username != "" {
		return e.Username
	}
	return string(e.Action)
}
