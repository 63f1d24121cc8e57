package domain

import "time"

// ProviderConfig is the static client configuration for one external authorization provider.
// It is supplied when the session manager is constructed.
type ProviderConfig struct {
	Name         string
	ClientID     string
	ClientSecret string // optional; installed apps using PKCE may leave it empty
	RedirectURI  string
	AuthURL      string
	TokenURL     string
	Scopes       []string
}

// AuthorizationRequest is a pending external-authorization exchange. It is created once per
// federated attempt, never mutated, and discarded when its outcome is resolved.
type AuthorizationRequest struct {
	ID           string
	Provider     string
	ClientID     string
	RedirectURI  string
	AuthURL      string // full provider URL the browser is sent to
	State        string // opaque anti-forgery value echoed back on the redirect
	CodeVerifier string // PKCE verifier; never leaves the client
	CreatedAt    time.Time
}

// Credential is what a successful authorization yields. It is handed to the authenticated
// stack and never persisted by this module.
type Credential struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token,omitempty"`
	IDToken      string    `json:"id_token,omitempty"`
	TokenType    string    `json:"token_type,omitempty"`
	Expiry       time.Time `json:"expiry,omitempty"`
	Subject      string    `json:"subject,omitempty"`
	Email        string    `json:"email,omitempty"`
	Name         string    `json:"name,omitempty"`
}
