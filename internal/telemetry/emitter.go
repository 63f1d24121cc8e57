package telemetry

import (
	"context"
	"time"
)

// Event types emitted by the login flow.
const (
	EventMethodSelected   = "login.method_selected"
	EventFederatedStarted = "login.federated_started"
	EventOutcome          = "login.outcome"
	EventPhoneContinue    = "login.phone_continue"
	EventStrayResult      = "login.stray_result"
)

// Event is one login telemetry record. It never carries credentials.
type Event struct {
	Type       string
	Method     string
	RequestID  string
	Outcome    string
	Reason     string
	Source     string
	OccurredAt time.Time
}

// EventEmitter emits login events (e.g. to OTel Logs). Best-effort; callers log and ignore errors.
type EventEmitter interface {
	Emit(ctx context.Context, event *Event) error
}
