package provider

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/oauth2"

	"pknews/client/internal/authsession/domain"
)

const defaultExchangeTimeout = 15 * time.Second

// ErrEmptyCode is returned when the redirect carried no authorization code.
var ErrEmptyCode = errors.New("provider: empty authorization code")

// Exchanger trades an authorization code for a Credential at the provider's token endpoint.
type Exchanger struct {
	cfg        domain.ProviderConfig
	httpClient *http.Client
}

// NewExchanger returns an Exchanger for cfg. httpClient may be nil; then a client with a
// 15s timeout is used.
func NewExchanger(cfg domain.ProviderConfig, httpClient *http.Client) *Exchanger {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultExchangeTimeout}
	}
	return &Exchanger{cfg: cfg, httpClient: httpClient}
}

// Exchange redeems code for req, sending the request's PKCE verifier. Identity fields are
// read from the id_token when the provider returns one.
func (e *Exchanger) Exchange(ctx context.Context, req *domain.AuthorizationRequest, code string) (*domain.Credential, error) {
	if code == "" {
		return nil, ErrEmptyCode
	}
	ctx = context.WithValue(ctx, oauth2.HTTPClient, e.httpClient)
	tok, err := OAuth2Config(e.cfg).Exchange(ctx, code, oauth2.VerifierOption(req.CodeVerifier))
	if err != nil {
		return nil, fmt.Errorf("token exchange: %w", err)
	}
	cred := &domain.Credential{
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
		TokenType:    tok.Type(),
		Expiry:       tok.Expiry,
	}
	if raw, ok := tok.Extra("id_token").(string); ok && raw != "" {
		cred.IDToken = raw
		claims, err := ParseIDToken(raw)
		if err != nil {
			return nil, err
		}
		cred.Subject = claims.Subject
		cred.Email = claims.Email
		cred.Name = claims.Name
	}
	return cred, nil
}
