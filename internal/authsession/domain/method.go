package domain

import (
	"errors"
	"strings"
)

// LoginMethod is the login method the user picked on the login screen.
type LoginMethod int

const (
	MethodUnselected LoginMethod = iota
	MethodPhone
	MethodFederated
)

// ErrUnknownMethod is returned for a LoginMethod value or name outside the known set.
var ErrUnknownMethod = errors.New("unknown login method")

// String returns the wire name used in logs, audit rows, and events.
func (m LoginMethod) String() string {
	switch m {
	case MethodUnselected:
		return "unselected"
	case MethodPhone:
		return "phone"
	case MethodFederated:
		return "google"
	default:
		return "unknown"
	}
}

// Valid reports whether m is one of the declared methods.
func (m LoginMethod) Valid() bool {
	return m >= MethodUnselected && m <= MethodFederated
}

// ParseLoginMethod maps a name to a LoginMethod. "federated" is accepted as an alias of "google".
func ParseLoginMethod(s string) (LoginMethod, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "unselected", "none":
		return MethodUnselected, nil
	case "phone":
		return MethodPhone, nil
	case "google", "federated":
		return MethodFederated, nil
	default:
		return MethodUnselected, ErrUnknownMethod
	}
}
