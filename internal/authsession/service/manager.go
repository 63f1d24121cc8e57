// Package service implements the login session state machine: method selection, the
// federated authorization round trip, and the hand-off to the authenticated stack.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"pknews/client/internal/authsession/domain"
	"pknews/client/internal/telemetry"
)

const instrumentationName = "pknews/client/authsession"

// resultsBuffer bounds deliveries queued while the owner loop is busy.
const resultsBuffer = 4

// Authorizer runs one external-authorization round trip and returns exactly one outcome.
// It must return promptly once ctx is cancelled.
type Authorizer interface {
	Authorize(ctx context.Context, req *domain.AuthorizationRequest) domain.Outcome
}

// RequestBuilder creates a fresh AuthorizationRequest for cfg.
type RequestBuilder interface {
	NewRequest(cfg domain.ProviderConfig) (*domain.AuthorizationRequest, error)
}

// EventSink receives the AuthenticatedEvent. Navigation implements it.
type EventSink interface {
	Authenticated(ctx context.Context, ev domain.AuthenticatedEvent)
}

// AuditLogger records login actions. Best-effort; failures never reach the manager.
type AuditLogger interface {
	LogEvent(ctx context.Context, action, method, metadata string)
}

// Audit actions written by the manager.
const (
	ActionMethodSelected   = "method_selected"
	ActionFederatedStarted = "federated_started"
	ActionLoginSuccess     = "login_success"
	ActionLoginCancelled   = "login_cancelled"
	ActionLoginFailure     = "login_failure"
	ActionPhoneContinue    = "phone_continue"
	ActionStrayResult      = "stray_result"
)

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets the structured logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.logger = l
		}
	}
}

// WithAuditLogger records every transition to a.
func WithAuditLogger(a AuditLogger) Option {
	return func(m *Manager) { m.audit = a }
}

// WithEventEmitter sends login telemetry events to e.
func WithEventEmitter(e telemetry.EventEmitter) Option {
	return func(m *Manager) { m.emitter = e }
}

// WithClock overrides the time source used for event timestamps.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		if now != nil {
			m.nowF = now
		}
	}
}

type pendingAttempt struct {
	req    *domain.AuthorizationRequest
	cancel context.CancelFunc
	span   trace.Span
}

// Manager owns the login session state. It is driven by a single goroutine (the UI loop) and
// takes no locks; the only other goroutine is the authorization task, which touches nothing
// but its immutable request and the results channel.
type Manager struct {
	cfg        domain.ProviderConfig
	requests   RequestBuilder
	authorizer Authorizer
	sink       EventSink

	logger   *slog.Logger
	audit    AuditLogger
	emitter  telemetry.EventEmitter
	nowF     func() time.Time
	tracer   trace.Tracer
	outcomes metric.Int64Counter

	state   domain.State
	method  domain.LoginMethod
	pending *pendingAttempt
	lastErr error

	results   chan domain.Outcome
	closed    chan struct{}
	closeOnce sync.Once
}

// NewManager returns a Manager in StateMethodUnselected. cfg is the provider configuration used
// for every federated attempt.
func NewManager(cfg domain.ProviderConfig, requests RequestBuilder, authorizer Authorizer, sink EventSink, opts ...Option) *Manager {
	m := &Manager{
		cfg:        cfg,
		requests:   requests,
		authorizer: authorizer,
		sink:       sink,
		logger:     slog.Default(),
		nowF:       func() time.Time { return time.Now().UTC() },
		tracer:     otel.Tracer(instrumentationName),
		state:      domain.StateMethodUnselected,
		method:     domain.MethodUnselected,
		results:    make(chan domain.Outcome, resultsBuffer),
		closed:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(m)
	}
	counter, err := otel.Meter(instrumentationName).Int64Counter("auth.login.outcomes",
		metric.WithDescription("Terminal login outcomes by method and result."))
	if err != nil {
		m.logger.Warn("authsession: outcome counter unavailable", "error", err)
	}
	m.outcomes = counter
	return m
}

// State returns the current session state.
func (m *Manager) State() domain.State { return m.state }

// Method returns the active login method.
func (m *Manager) Method() domain.LoginMethod { return m.method }

// IsPending reports whether an authorization request is outstanding.
func (m *Manager) IsPending() bool { return m.pending != nil }

// Pending returns the outstanding request, or nil.
func (m *Manager) Pending() *domain.AuthorizationRequest {
	if m.pending == nil {
		return nil
	}
	return m.pending.req
}

// LastError returns the recoverable error from the last failed attempt, or nil.
func (m *Manager) LastError() error { return m.lastErr }

// Results is the out-of-band delivery channel for authorization outcomes. The owner loop
// reads from it and passes each value to OnAuthorizationResult.
func (m *Manager) Results() <-chan domain.Outcome { return m.results }

// SelectMethod sets the active login method. Selecting MethodUnselected returns to the
// method list. Rejected while a request is pending or after authentication.
func (m *Manager) SelectMethod(ctx context.Context, method domain.LoginMethod) error {
	if !method.Valid() {
		return domain.ErrUnknownMethod
	}
	switch m.state {
	case domain.StateAuthorizationPending:
		m.logger.Debug("authsession: method change rejected while pending", "method", method.String())
		return domain.ErrRequestPending
	case domain.StateAuthenticated:
		return domain.ErrInvalidTransition
	}
	m.method = method
	m.lastErr = nil
	if method == domain.MethodUnselected {
		m.state = domain.StateMethodUnselected
	} else {
		m.state = domain.StateMethodSelected
	}
	m.record(ctx, ActionMethodSelected, telemetry.EventMethodSelected, "", "", "")
	return nil
}

// BeginFederatedLogin builds a new authorization request, starts the external round trip in
// the background, and returns the pending request without waiting for it. A second call while
// a request is outstanding returns ErrRequestPending and starts nothing.
func (m *Manager) BeginFederatedLogin(ctx context.Context) (*domain.AuthorizationRequest, error) {
	switch m.state {
	case domain.StateAuthorizationPending:
		return nil, domain.ErrRequestPending
	case domain.StateAuthenticated:
		return nil, domain.ErrInvalidTransition
	}
	req, err := m.requests.NewRequest(m.cfg)
	if err != nil {
		return nil, fmt.Errorf("authsession: build request: %w", err)
	}

	spanCtx, span := m.tracer.Start(ctx, "authsession.federated_login",
		trace.WithAttributes(
			attribute.String("login.request_id", req.ID),
			attribute.String("login.provider", req.Provider),
		))
	taskCtx, cancel := context.WithCancel(spanCtx)

	m.method = domain.MethodFederated
	m.state = domain.StateAuthorizationPending
	m.lastErr = nil
	m.pending = &pendingAttempt{req: req, cancel: cancel, span: span}

	go m.authorize(taskCtx, req)

	m.logger.Info("authsession: federated login started", "request_id", req.ID, "provider", req.Provider)
	m.record(ctx, ActionFederatedStarted, telemetry.EventFederatedStarted, req.ID, "", "")
	return req, nil
}

// authorize runs on its own goroutine and delivers exactly one outcome for req. Once ctx is
// cancelled the delivered outcome is Cancelled, whatever the authorizer returned.
func (m *Manager) authorize(ctx context.Context, req *domain.AuthorizationRequest) {
	out := m.runAuthorizer(ctx, req)
	if ctx.Err() != nil {
		out = domain.Cancelled(req.ID)
	}
	out.RequestID = req.ID
	select {
	case m.results <- out:
	case <-m.closed:
	}
}

func (m *Manager) runAuthorizer(ctx context.Context, req *domain.AuthorizationRequest) (out domain.Outcome) {
	defer func() {
		if r := recover(); r != nil {
			m.logger.Error("authsession: authorizer panicked", "request_id", req.ID, "panic", r)
			out = domain.Failed(req.ID, "internal error")
		}
	}()
	return m.authorizer.Authorize(ctx, req)
}

// CancelFederatedLogin abandons the pending request. The request stays pending until its
// Cancelled outcome arrives on Results.
func (m *Manager) CancelFederatedLogin(ctx context.Context) error {
	if m.pending == nil {
		return domain.ErrNoPendingRequest
	}
	m.logger.Info("authsession: federated login cancel requested", "request_id", m.pending.req.ID)
	m.pending.cancel()
	return nil
}

// OnAuthorizationResult applies the outcome of the pending request. Results arriving with
// nothing pending, or for a request that is no longer pending, are logged and ignored.
func (m *Manager) OnAuthorizationResult(ctx context.Context, out domain.Outcome) error {
	if m.pending == nil {
		m.stray(ctx, out, domain.ErrNoPendingRequest)
		return domain.ErrNoPendingRequest
	}
	if out.RequestID != "" && out.RequestID != m.pending.req.ID {
		m.stray(ctx, out, domain.ErrStaleResult)
		return domain.ErrStaleResult
	}
	p := m.pending
	m.pending = nil
	p.cancel()
	reqID := p.req.ID

	if out.Kind == domain.OutcomeSuccess && out.Credential == nil {
		out = domain.Failed(reqID, "provider returned no credential")
	}

	switch out.Kind {
	case domain.OutcomeSuccess:
		m.state = domain.StateAuthenticated
		m.lastErr = nil
		p.span.SetStatus(codes.Ok, "")
		p.span.End()
		m.countOutcome(ctx, domain.MethodFederated, out.Kind)
		m.logger.Info("authsession: federated login succeeded", "request_id", reqID)
		m.record(ctx, ActionLoginSuccess, telemetry.EventOutcome, reqID, out.Kind.String(), "")
		m.emit(ctx, domain.AuthenticatedEvent{
			Method:     domain.MethodFederated.String(),
			RequestID:  reqID,
			Credential: out.Credential,
		})
	case domain.OutcomeCancelled:
		m.state = domain.StateMethodSelected
		p.span.SetAttributes(attribute.Bool("login.cancelled", true))
		p.span.End()
		m.countOutcome(ctx, domain.MethodFederated, out.Kind)
		m.logger.Info("authsession: federated login cancelled", "request_id", reqID)
		m.record(ctx, ActionLoginCancelled, telemetry.EventOutcome, reqID, out.Kind.String(), "")
	default:
		reason := out.Reason
		if out.Kind != domain.OutcomeError {
			reason = fmt.Sprintf("unknown outcome %d", out.Kind)
		}
		m.state = domain.StateMethodSelected
		m.lastErr = &domain.AuthorizationError{RequestID: reqID, Reason: reason}
		p.span.SetStatus(codes.Error, reason)
		p.span.End()
		m.countOutcome(ctx, domain.MethodFederated, domain.OutcomeError)
		m.logger.Warn("authsession: federated login failed", "request_id", reqID, "reason", reason)
		m.record(ctx, ActionLoginFailure, telemetry.EventOutcome, reqID, domain.OutcomeError.String(), reason)
	}
	return nil
}

// SubmitPhoneContinue completes the phone path. No verification is performed here: it always
// emits one AuthenticatedEvent, whatever the prior state. A pending federated request is
// abandoned first and its late delivery is ignored as stray.
func (m *Manager) SubmitPhoneContinue(ctx context.Context, number string) {
	if p := m.pending; p != nil {
		m.pending = nil
		p.cancel()
		p.span.SetAttributes(attribute.Bool("login.superseded", true))
		p.span.End()
		m.logger.Info("authsession: pending federated login superseded by phone", "request_id", p.req.ID)
	}
	m.method = domain.MethodPhone
	m.state = domain.StateAuthenticated
	m.lastErr = nil
	m.countOutcome(ctx, domain.MethodPhone, domain.OutcomeSuccess)
	m.record(ctx, ActionPhoneContinue, telemetry.EventPhoneContinue, "", domain.OutcomeSuccess.String(), "")
	m.emit(ctx, domain.AuthenticatedEvent{
		Method:      domain.MethodPhone.String(),
		PhoneNumber: number,
	})
}

// Close cancels any pending request and releases a blocked delivery. The manager must not be
// used afterwards.
func (m *Manager) Close() {
	m.closeOnce.Do(func() {
		if m.pending != nil {
			m.pending.cancel()
			m.pending.span.End()
			m.pending = nil
		}
		close(m.closed)
	})
}

func (m *Manager) emit(ctx context.Context, ev domain.AuthenticatedEvent) {
	ev.ID = uuid.New().String()
	ev.OccurredAt = m.nowF()
	if m.sink == nil {
		m.logger.Warn("authsession: no event sink; authenticated event dropped", "event_id", ev.ID)
		return
	}
	m.sink.Authenticated(ctx, ev)
}

func (m *Manager) stray(ctx context.Context, out domain.Outcome, reason error) {
	expected := ""
	if m.pending != nil {
		expected = m.pending.req.ID
	}
	m.logger.Warn("authsession: ignoring stray authorization result",
		"request_id", out.RequestID,
		"pending_request_id", expected,
		"outcome", out.Kind.String(),
		"reason", reason.Error(),
	)
	m.record(ctx, ActionStrayResult, telemetry.EventStrayResult, out.RequestID, out.Kind.String(), reason.Error())
}

func (m *Manager) countOutcome(ctx context.Context, method domain.LoginMethod, kind domain.OutcomeKind) {
	if m.outcomes == nil {
		return
	}
	m.outcomes.Add(ctx, 1, metric.WithAttributes(
		attribute.String("login.method", method.String()),
		attribute.String("login.outcome", kind.String()),
	))
}

func (m *Manager) record(ctx context.Context, action, eventType, requestID, outcome, reason string) {
	method := m.method.String()
	if m.audit != nil {
		meta := ""
		if requestID != "" {
			meta = "request_id=" + requestID
		}
		if reason != "" {
			if meta != "" {
				meta += " "
			}
			meta += "reason=" + reason
		}
		m.audit.LogEvent(ctx, action, method, meta)
	}
	telemetry.EmitAsync(ctx, m.emitter, &telemetry.Event{
		Type:       eventType,
		Method:     method,
		RequestID:  requestID,
		Outcome:    outcome,
		Reason:     reason,
		Source:     "authsession",
		OccurredAt: m.nowF(),
	})
}
