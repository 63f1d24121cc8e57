package domain

import "time"

// AuthenticatedEvent is emitted once per successful login and consumed by navigation.
type AuthenticatedEvent struct {
	ID          string      `json:"id"`
	Method      string      `json:"method"`
	RequestID   string      `json:"request_id,omitempty"`
	PhoneNumber string      `json:"phone_number,omitempty"`
	Credential  *Credential `json:"credential,omitempty"`
	OccurredAt  time.Time   `json:"occurred_at"`
}
