// Package phoneverify sends and checks one-time codes for the phone login path.
package phoneverify

import (
	"errors"
	"time"
)

var (
	ErrInvalidPhone      = errors.New("phoneverify: phone number must be in E.164 format")
	ErrChallengeNotFound = errors.New("phoneverify: challenge not found")
	ErrChallengeExpired  = errors.New("phoneverify: challenge expired")
	ErrTooManyAttempts   = errors.New("phoneverify: too many attempts")
	ErrInvalidCode       = errors.New("phoneverify: invalid code")
	ErrSenderUnavailable = errors.New("phoneverify: no sms sender configured")
)

// MaxAttempts is the number of wrong codes a challenge tolerates before it is discarded.
const MaxAttempts = 5

// Challenge is one outstanding code sent to Phone.
type Challenge struct {
	ID        string
	Phone     string
	CodeHash  string
	ExpiresAt time.Time
	Attempts  int

	// DevOTP carries the plain code when codes are returned to the client instead of sent.
	DevOTP string
}
