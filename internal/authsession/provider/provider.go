// Package provider builds OAuth2 authorization requests and exchanges authorization codes
// for the federated login path.
package provider

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"pknews/client/internal/authsession/domain"
)

// GoogleName is the provider name recorded on requests and events.
const GoogleName = "google"

// ErrInvalidConfig is returned when a ProviderConfig is missing fields needed to start a request.
var ErrInvalidConfig = errors.New("provider: invalid config")

var defaultGoogleScopes = []string{"openid", "email", "profile"}

// Google returns a ProviderConfig for Google sign-in. Empty scopes fall back to openid, email, profile.
func Google(clientID, clientSecret, redirectURI string, scopes []string) domain.ProviderConfig {
	if len(scopes) == 0 {
		scopes = defaultGoogleScopes
	}
	return domain.ProviderConfig{
		Name:         GoogleName,
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURI:  redirectURI,
		AuthURL:      google.Endpoint.AuthURL,
		TokenURL:     google.Endpoint.TokenURL,
		Scopes:       append([]string(nil), scopes...),
	}
}

// OAuth2Config converts cfg to an oauth2.Config.
func OAuth2Config(cfg domain.ProviderConfig) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		RedirectURL:  cfg.RedirectURI,
		Scopes:       cfg.Scopes,
		Endpoint: oauth2.Endpoint{
			AuthURL:  cfg.AuthURL,
			TokenURL: cfg.TokenURL,
		},
	}
}

// Validate checks the fields a redirect-based request needs.
func Validate(cfg domain.ProviderConfig) error {
	switch {
	case strings.TrimSpace(cfg.ClientID) == "":
		return errors.Join(ErrInvalidConfig, errors.New("client id is required"))
	case strings.TrimSpace(cfg.RedirectURI) == "":
		return errors.Join(ErrInvalidConfig, errors.New("redirect uri is required"))
	case strings.TrimSpace(cfg.AuthURL) == "":
		return errors.Join(ErrInvalidConfig, errors.New("authorization endpoint is required"))
	}
	return nil
}

// Builder creates AuthorizationRequests using PKCE (S256).
type Builder struct {
	nowF func() time.Time
}

// NewBuilder returns a Builder stamping requests with the current UTC time.
func NewBuilder() *Builder {
	return &Builder{nowF: func() time.Time { return time.Now().UTC() }}
}

// NewRequest builds a fresh request against cfg. Each call yields a new ID, state, and verifier.
func (b *Builder) NewRequest(cfg domain.ProviderConfig) (*domain.AuthorizationRequest, error) {
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	state, err := generateState()
	if err != nil {
		return nil, err
	}
	verifier := oauth2.GenerateVerifier()
	authURL := OAuth2Config(cfg).AuthCodeURL(state,
		oauth2.AccessTypeOffline,
		oauth2.S256ChallengeOption(verifier),
	)
	name := cfg.Name
	if name == "" {
		name = GoogleName
	}
	return &domain.AuthorizationRequest{
		ID:           uuid.New().String(),
		Provider:     name,
		ClientID:     cfg.ClientID,
		RedirectURI:  cfg.RedirectURI,
		AuthURL:      authURL,
		State:        state,
		CodeVerifier: verifier,
		CreatedAt:    b.nowF(),
	}, nil
}

func generateState() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
