// Package handler hosts the federated redirect: it opens the provider's authorization page in a
// browser and receives the redirect on a loopback HTTP listener.
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"pknews/client/internal/authsession/domain"
)

const (
	shutdownTimeout   = 2 * time.Second
	readHeaderTimeout = 10 * time.Second
)

// errorAccessDenied is the OAuth error code sent when the user declines consent.
const errorAccessDenied = "access_denied"

// CodeExchanger redeems an authorization code for a credential.
type CodeExchanger interface {
	Exchange(ctx context.Context, req *domain.AuthorizationRequest, code string) (*domain.Credential, error)
}

// callback is the query of one redirect hitting the loopback listener.
type callback struct {
	code             string
	state            string
	err              string
	errorDescription string
}

// LoopbackAuthorizer runs the browser round trip for one AuthorizationRequest.
type LoopbackAuthorizer struct {
	exchanger CodeExchanger
	browser   BrowserLauncher
	timeout   time.Duration
	logger    *slog.Logger
}

// NewLoopbackAuthorizer returns an authorizer that gives up (Cancelled) after timeout. A zero
// timeout waits until the caller cancels.
func NewLoopbackAuthorizer(exchanger CodeExchanger, browser BrowserLauncher, timeout time.Duration, logger *slog.Logger) *LoopbackAuthorizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &LoopbackAuthorizer{
		exchanger: exchanger,
		browser:   browser,
		timeout:   timeout,
		logger:    logger,
	}
}

// Authorize listens on the request's redirect address, opens the authorization URL, and waits
// for the first redirect. It always returns exactly one outcome for req.
func (a *LoopbackAuthorizer) Authorize(ctx context.Context, req *domain.AuthorizationRequest) domain.Outcome {
	redirect, err := url.Parse(req.RedirectURI)
	if err != nil || redirect.Host == "" {
		return domain.Failed(req.ID, "invalid redirect uri")
	}
	ln, err := net.Listen("tcp", redirect.Host)
	if err != nil {
		a.logger.Error("authsession: loopback listen failed", "addr", redirect.Host, "error", err)
		return domain.Failed(req.ID, "redirect listener unavailable")
	}

	callbacks := make(chan callback, 1)
	srv := &http.Server{
		Handler:           a.routes(redirectPath(redirect), callbacks),
		ReadHeaderTimeout: readHeaderTimeout,
	}
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Warn("authsession: loopback server stopped", "error", err)
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	if a.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}

	if err := a.browser.Open(ctx, req.AuthURL); err != nil {
		a.logger.Error("authsession: open browser failed", "request_id", req.ID, "error", err)
		return domain.Failed(req.ID, "could not open browser")
	}
	a.logger.Debug("authsession: waiting for redirect", "request_id", req.ID, "addr", ln.Addr().String())

	select {
	case cb := <-callbacks:
		return a.resolve(ctx, req, cb)
	case <-ctx.Done():
		a.logger.Info("authsession: authorization abandoned", "request_id", req.ID, "cause", context.Cause(ctx))
		return domain.Cancelled(req.ID)
	}
}

func (a *LoopbackAuthorizer) resolve(ctx context.Context, req *domain.AuthorizationRequest, cb callback) domain.Outcome {
	switch {
	case cb.err == errorAccessDenied:
		return domain.Cancelled(req.ID)
	case cb.err != "":
		reason := cb.errorDescription
		if reason == "" {
			reason = cb.err
		}
		return domain.Failed(req.ID, reason)
	case cb.state != req.State:
		a.logger.Warn("authsession: redirect state mismatch", "request_id", req.ID)
		return domain.Failed(req.ID, "state mismatch")
	}
	cred, err := a.exchanger.Exchange(ctx, req, cb.code)
	if err != nil {
		if ctx.Err() != nil {
			return domain.Cancelled(req.ID)
		}
		a.logger.Warn("authsession: code exchange failed", "request_id", req.ID, "error", err)
		return domain.Failed(req.ID, err.Error())
	}
	return domain.Success(req.ID, cred)
}

// routes serves the redirect path. Only the first redirect is delivered.
func (a *LoopbackAuthorizer) routes(path string, callbacks chan<- callback) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.NoCache)
	r.Get(path, func(w http.ResponseWriter, req *http.Request) {
		q := req.URL.Query()
		cb := callback{
			code:             q.Get("code"),
			state:            q.Get("state"),
			err:              q.Get("error"),
			errorDescription: q.Get("error_description"),
		}
		select {
		case callbacks <- cb:
		default:
			renderPage(w, http.StatusConflict, pageAlreadyHandled)
			return
		}
		switch {
		case cb.err == errorAccessDenied:
			renderPage(w, http.StatusOK, pageCancelled)
		case cb.err != "":
			renderPage(w, http.StatusOK, pageFailed)
		default:
			renderPage(w, http.StatusOK, pageReceived)
		}
	})
	return r
}

func redirectPath(u *url.URL) string {
	if u.Path == "" {
		return "/"
	}
	return u.Path
}
