package domain

import "fmt"

// OutcomeKind tags an AuthorizationOutcome.
type OutcomeKind int

const (
	OutcomeSuccess OutcomeKind = iota + 1
	OutcomeCancelled
	OutcomeError
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeSuccess:
		return "success"
	case OutcomeCancelled:
		return "cancelled"
	case OutcomeError:
		return "error"
	default:
		return "unknown"
	}
}

// Outcome is the terminal result of one external-authorization attempt.
// RequestID names the request it resolves; empty means the currently pending request.
type Outcome struct {
	RequestID  string
	Kind       OutcomeKind
	Credential *Credential // set for OutcomeSuccess
	Reason     string      // set for OutcomeError
}

// Success returns a successful outcome carrying cred.
func Success(requestID string, cred *Credential) Outcome {
	return Outcome{RequestID: requestID, Kind: OutcomeSuccess, Credential: cred}
}

// Cancelled returns the outcome for an abandoned authorization.
func Cancelled(requestID string) Outcome {
	return Outcome{RequestID: requestID, Kind: OutcomeCancelled}
}

// Failed returns a recoverable provider or network failure.
func Failed(requestID, reason string) Outcome {
	return Outcome{RequestID: requestID, Kind: OutcomeError, Reason: reason}
}

// AuthorizationError is the recoverable error surfaced to the login screen after an
// OutcomeError. The user may retry once nothing is pending.
type AuthorizationError struct {
	RequestID string
	Reason    string
}

func (e *AuthorizationError) Error() string {
	if e.Reason == "" {
		return "authorization failed"
	}
	return fmt.Sprintf("authorization failed: %s", e.Reason)
}
