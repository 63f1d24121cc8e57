package domain

import (
	"errors"
	"fmt"
)

// ErrInvalidState covers programmer errors against the session state machine. They are
// logged and ignored by callers, never fatal.
var ErrInvalidState = errors.New("invalid session state")

var (
	ErrRequestPending    = fmt.Errorf("%w: authorization request already pending", ErrInvalidState)
	ErrNoPendingRequest  = fmt.Errorf("%w: no authorization request pending", ErrInvalidState)
	ErrStaleResult       = fmt.Errorf("%w: result does not match the pending request", ErrInvalidState)
	ErrInvalidTransition = fmt.Errorf("%w: session already authenticated", ErrInvalidState)
)
