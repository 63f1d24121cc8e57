package otel

import (
	"context"
	"time"

	otellog "go.opentelemetry.io/otel/log"
	sdklog "go.opentelemetry.io/otel/sdk/log"

	"pknews/client/internal/telemetry"
)

const instrumentationName = "pknews.login"

// LogEmitter is the subset of otellog.Logger used by the adapter; tests substitute a capture.
type LogEmitter interface {
	Emit(ctx context.Context, rec otellog.Record)
}

// NewEventEmitter returns an EventEmitter that sends login events as OTel log records via provider.
// If provider is nil, returns a no-op emitter.
func NewEventEmitter(provider *sdklog.LoggerProvider) telemetry.EventEmitter {
	if provider == nil {
		return noopEmitter{}
	}
	return &otelEmitter{logger: provider.Logger(instrumentationName)}
}

// NewEventEmitterWithLogger wraps an arbitrary LogEmitter.
func NewEventEmitterWithLogger(logger LogEmitter) telemetry.EventEmitter {
	if logger == nil {
		return noopEmitter{}
	}
	return &otelEmitter{logger: logger}
}

type noopEmitter struct{}

func (noopEmitter) Emit(context.Context, *telemetry.Event) error { return nil }

type otelEmitter struct {
	logger LogEmitter
}

// Emit converts event to a log record with one attribute per non-empty field.
func (e *otelEmitter) Emit(ctx context.Context, event *telemetry.Event) error {
	if event == nil {
		return nil
	}
	rec := otellog.Record{}
	ts := event.OccurredAt
	if ts.IsZero() {
		ts = time.Now().UTC()
	}
	rec.SetTimestamp(ts)
	rec.SetEventName(event.Type)
	rec.SetSeverity(severity(event))
	if event.Reason != "" {
		rec.SetBody(otellog.StringValue(event.Reason))
	}
	for _, kv := range []struct{ k, v string }{
		{"event_type", event.Type},
		{"login.method", event.Method},
		{"login.request_id", event.RequestID},
		{"login.outcome", event.Outcome},
		{"source", event.Source},
	} {
		if kv.v != "" {
			rec.AddAttributes(otellog.String(kv.k, kv.v))
		}
	}
	e.logger.Emit(ctx, rec)
	return nil
}

func severity(event *telemetry.Event) otellog.Severity {
	switch {
	case event.Type == telemetry.EventStrayResult:
		return otellog.SeverityWarn
	case event.Outcome == "error":
		return otellog.SeverityError
	default:
		return otellog.SeverityInfo
	}
}
