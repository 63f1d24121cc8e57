package phoneverify

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

const defaultTTL = 5 * time.Minute

// Sender delivers a code to a phone number given as digits only (country code first).
type Sender interface {
	SendOTP(ctx context.Context, phone, otp string) error
}

// Service issues and verifies phone challenges.
type Service struct {
	store     Store
	sender    Sender
	ttl       time.Duration
	returnOTP bool
	codeLen   int
	validate  *validator.Validate
	logger    *slog.Logger
	nowF      func() time.Time
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithCodeLength sets the number of digits per code. Values outside
// [MinCodeLength, MaxCodeLength] are ignored.
func WithCodeLength(n int) ServiceOption {
	return func(s *Service) {
		if n >= MinCodeLength && n <= MaxCodeLength {
			s.codeLen = n
		}
	}
}

// NewService returns a Service. When returnOTPToClient is set, codes are handed back on the
// Challenge instead of sent; sender may then be nil. A non-positive ttl means five minutes.
func NewService(store Store, sender Sender, ttl time.Duration, returnOTPToClient bool, logger *slog.Logger, opts ...ServiceOption) *Service {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	if logger == nil {
		logger = slog.Default()
	}
	s := &Service{
		store:     store,
		sender:    sender,
		ttl:       ttl,
		returnOTP: returnOTPToClient,
		codeLen:   DefaultCodeLength,
		validate:  validator.New(),
		logger:    logger,
		nowF:      func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NormalizePhone strips spaces, dashes, dots, and parentheses, and checks the result is E.164.
func (s *Service) NormalizePhone(number string) (string, error) {
	phone := strings.Map(func(r rune) rune {
		switch r {
		case ' ', '-', '.', '(', ')':
			return -1
		}
		return r
	}, strings.TrimSpace(number))
	if err := s.validate.Var(phone, "required,e164"); err != nil {
		return "", ErrInvalidPhone
	}
	return phone, nil
}

// Start creates a challenge for number and sends its code. The returned Challenge never
// carries the code hash.
func (s *Service) Start(ctx context.Context, number string) (*Challenge, error) {
	phone, err := s.NormalizePhone(number)
	if err != nil {
		return nil, err
	}
	if !s.returnOTP && s.sender == nil {
		return nil, ErrSenderUnavailable
	}
	otp, err := GenerateCode(s.codeLen)
	if err != nil {
		return nil, fmt.Errorf("phoneverify: generate otp: %w", err)
	}
	id := uuid.New().String()
	ch := Challenge{
		ID:        id,
		Phone:     phone,
		CodeHash:  HashCode(id, otp),
		ExpiresAt: s.nowF().Add(s.ttl),
	}
	s.store.Put(ctx, ch)

	out := &Challenge{ID: ch.ID, Phone: ch.Phone, ExpiresAt: ch.ExpiresAt}
	if s.returnOTP {
		out.DevOTP = otp
		s.logger.Debug("phoneverify: otp returned to client", "challenge_id", ch.ID)
		return out, nil
	}
	if err := s.sender.SendOTP(ctx, strings.TrimPrefix(phone, "+"), otp); err != nil {
		s.store.Delete(ctx, ch.ID)
		return nil, fmt.Errorf("phoneverify: send otp: %w", err)
	}
	s.logger.Info("phoneverify: otp sent", "challenge_id", ch.ID)
	return out, nil
}

// Verify checks code against the challenge and returns the verified phone number. A
// challenge is consumed on success, on expiry, and after MaxAttempts wrong codes.
func (s *Service) Verify(ctx context.Context, challengeID, code string) (string, error) {
	ch, ok := s.store.Get(ctx, challengeID)
	if !ok {
		return "", ErrChallengeNotFound
	}
	if !ch.ExpiresAt.After(s.nowF()) {
		s.store.Delete(ctx, challengeID)
		return "", ErrChallengeExpired
	}
	if ch.Attempts >= MaxAttempts {
		s.store.Delete(ctx, challengeID)
		return "", ErrTooManyAttempts
	}
	if !CodeMatches(ch.ID, strings.TrimSpace(code), ch.CodeHash) {
		ch.Attempts++
		if ch.Attempts >= MaxAttempts {
			s.store.Delete(ctx, challengeID)
			s.logger.Warn("phoneverify: challenge locked", "challenge_id", challengeID)
			return "", ErrTooManyAttempts
		}
		s.store.Put(ctx, ch)
		return "", ErrInvalidCode
	}
	s.store.Delete(ctx, challengeID)
	return ch.Phone, nil
}
