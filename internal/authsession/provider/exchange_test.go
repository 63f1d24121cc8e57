package provider

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang-jwt/jwt/v5"

	"pknews/client/internal/authsession/domain"
)

func signedIDToken(t *testing.T, sub, email string) string {
	t.Helper()
	claims := IDTokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: sub, Issuer: "https://accounts.google.com"},
		Email:            email,
		Name:             "Test Reader",
	}
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-key"))
	if err != nil {
		t.Fatalf("sign id token: %v", err)
	}
	return s
}

func tokenServer(t *testing.T, wantVerifier string, body map[string]interface{}) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Errorf("ParseForm: %v", err)
		}
		if got := r.PostForm.Get("code"); got != "auth-code" {
			t.Errorf("code = %q, want auth-code", got)
		}
		if got := r.PostForm.Get("code_verifier"); got != wantVerifier {
			t.Errorf("code_verifier = %q, want %q", got, wantVerifier)
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(body)
	}))
}

func TestExchange_Success(t *testing.T) {
	req := &domain.AuthorizationRequest{ID: "req-1", CodeVerifier: "verifier-xyz"}
	srv := tokenServer(t, "verifier-xyz", map[string]interface{}{
		"access_token":  "tok_abc",
		"token_type":    "Bearer",
		"refresh_token": "refresh-1",
		"expires_in":    3600,
		"id_token":      signedIDToken(t, "user-42", "reader@example.com"),
	})
	defer srv.Close()

	cfg := testConfig()
	cfg.TokenURL = srv.URL
	cred, err := NewExchanger(cfg, srv.Client()).Exchange(context.Background(), req, "auth-code")
	if err != nil {
		t.Fatalf("Exchange: %v", err)
	}
	if cred.AccessToken != "tok_abc" {
		t.Errorf("AccessToken = %q, want tok_abc", cred.AccessToken)
	}
	if cred.RefreshToken != "refresh-1" {
		t.Errorf("RefreshToken = %q, want refresh-1", cred.RefreshToken)
	}
	if cred.Subject != "user-42" || cred.Email != "reader@example.com" {
		t.Errorf("identity = %q/%q", cred.Subject, cred.Email)
	}
	if cred.Expiry.IsZero() {
		t.Error("Expiry should be set from expires_in")
	}
}

func TestExchange_WithoutIDToken(t *testing.T) {
	req := &domain.AuthorizationRequest{ID: "req-1", CodeVerifier: "v"}
	srv := tokenServer(t, "v", map[string]interface{}{"access_token": "tok_abc", "token_type": "Bearer"})
	defer srv.Close()

	cfg := testConfig()
	cfg.TokenURL = srv.URL
	cred, err := NewExchanger(cfg, srv.Client()).Exchange(context.Background(), req, "auth-code")
	if err != nil {
		t.Fatalf("Exchange: %v", err)
	}
	if cred.IDToken != "" || cred.Subject != "" {
		t.Errorf("expected no identity fields, got %+v", cred)
	}
}

func TestExchange_ProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"invalid_grant"}`))
	}))
	defer srv.Close()

	cfg := testConfig()
	cfg.TokenURL = srv.URL
	_, err := NewExchanger(cfg, srv.Client()).Exchange(context.Background(), &domain.AuthorizationRequest{}, "auth-code")
	if err == nil {
		t.Fatal("expected error for invalid_grant")
	}
}

func TestExchange_EmptyCode(t *testing.T) {
	_, err := NewExchanger(testConfig(), nil).Exchange(context.Background(), &domain.AuthorizationRequest{}, "")
	if !errors.Is(err, ErrEmptyCode) {
		t.Errorf("err = %v, want ErrEmptyCode", err)
	}
}

func TestParseIDToken_Invalid(t *testing.T) {
	testCases := []string{"", "not-a-jwt", "a.b.c"}
	for _, raw := range testCases {
		if _, err := ParseIDToken(raw); !errors.Is(err, ErrInvalidIDToken) {
			t.Errorf("ParseIDToken(%q) err = %v, want ErrInvalidIDToken", raw, err)
		}
	}
}
