package config

import (
	"strings"
	"testing"
	"time"
)

// setEnv sets the minimum valid environment plus overrides.
func setEnv(t *testing.T, overrides map[string]string) {
	t.Helper()
	t.Setenv("GOOGLE_CLIENT_ID", "client-123.apps.googleusercontent.com")
	for k, v := range overrides {
		t.Setenv(k, v)
	}
}

func TestLoad_Defaults(t *testing.T) {
	setEnv(t, nil)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.GoogleClientID != "client-123.apps.googleusercontent.com" {
		t.Errorf("GoogleClientID = %q", cfg.GoogleClientID)
	}
	if cfg.RedirectURI != "http://127.0.0.1:8085/auth/callback" {
		t.Errorf("RedirectURI = %q, want default", cfg.RedirectURI)
	}
	if cfg.Browser != "system" || cfg.Theme != "system" || cfg.LogLevel != "info" {
		t.Errorf("Browser/Theme/LogLevel = %q/%q/%q", cfg.Browser, cfg.Theme, cfg.LogLevel)
	}
	if cfg.PhoneVerification != "none" {
		t.Errorf("PhoneVerification = %q, want none", cfg.PhoneVerification)
	}
	if cfg.SMSLocalBaseURL != "https://www.smslocal.com/dev/bulkV2" {
		t.Errorf("SMSLocalBaseURL = %q, want default", cfg.SMSLocalBaseURL)
	}
	if cfg.ServiceName != "pknews-login" {
		t.Errorf("ServiceName = %q, want pknews-login", cfg.ServiceName)
	}
	if cfg.OTPReturnToClient {
		t.Error("OTPReturnToClient should default to false")
	}
	if cfg.OTPLength != 6 {
		t.Errorf("OTPLength = %d, want 6", cfg.OTPLength)
	}
	if cfg.AuthTimeout() != 5*time.Minute {
		t.Errorf("AuthTimeout = %v, want 5m", cfg.AuthTimeout())
	}
	if got := strings.Join(cfg.Scopes(), " "); got != "openid email profile" {
		t.Errorf("Scopes = %q, want openid email profile", got)
	}
}

func TestLoad_EnvVarOverride(t *testing.T) {
	setEnv(t, map[string]string{
		"REDIRECT_URI":       "http://localhost:9999/cb",
		"AUTH_TIMEOUT":       "90s",
		"AUTH_BROWSER":       "PRINT",
		"THEME":              "dark",
		"LOG_LEVEL":          "debug",
		"OAUTH_SCOPES":       "openid email",
		"PHONE_VERIFICATION": "otp",
		"SMS_LOCAL_API_KEY":  "sms-key",
		"OTP_TTL":            "2m",
		"OTP_LENGTH":         "8",
	})

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.RedirectURI != "http://localhost:9999/cb" {
		t.Errorf("RedirectURI = %q", cfg.RedirectURI)
	}
	if cfg.AuthTimeout() != 90*time.Second {
		t.Errorf("AuthTimeout = %v, want 90s", cfg.AuthTimeout())
	}
	if cfg.Browser != "print" {
		t.Errorf("Browser = %q, want print", cfg.Browser)
	}
	if cfg.OTPTTL() != 2*time.Minute {
		t.Errorf("OTPTTL = %v, want 2m", cfg.OTPTTL())
	}
	if cfg.OTPLength != 8 {
		t.Errorf("OTPLength = %d, want 8", cfg.OTPLength)
	}
	if got := cfg.Scopes(); len(got) != 2 || got[1] != "email" {
		t.Errorf("Scopes = %v", got)
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr string
	}{
		{"missing client id", map[string]string{"GOOGLE_CLIENT_ID": " "}, "GOOGLE_CLIENT_ID must be set"},
		{"non loopback redirect", map[string]string{"REDIRECT_URI": "https://example.com/cb"}, "loopback"},
		{"redirect without port", map[string]string{"REDIRECT_URI": "http://127.0.0.1/cb"}, "loopback"},
		{"unknown browser", map[string]string{"AUTH_BROWSER": "lynx"}, "Browser"},
		{"unknown theme", map[string]string{"THEME": "sepia"}, "Theme"},
		{"unknown phone mode", map[string]string{"PHONE_VERIFICATION": "magic"}, "PhoneVerification"},
		{"dev otp in production", map[string]string{"OTP_RETURN_TO_CLIENT": "true", "APP_ENV": "production"}, "OTP_RETURN_TO_CLIENT"},
		{"otp code too short", map[string]string{"OTP_LENGTH": "3"}, "OTPLength"},
		{"otp without sms key", map[string]string{"PHONE_VERIFICATION": "otp"}, "SMS_LOCAL_API_KEY"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setEnv(t, tt.env)
			_, err := Load()
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("err = %q, want to contain %q", err.Error(), tt.wantErr)
			}
		})
	}
}

func TestLoad_DevOTPAllowedOutsideProduction(t *testing.T) {
	setEnv(t, map[string]string{"PHONE_VERIFICATION": "otp", "OTP_RETURN_TO_CLIENT": "true", "APP_ENV": "development"})
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !cfg.OTPReturnToClient || cfg.IsProduction() {
		t.Errorf("OTPReturnToClient=%v IsProduction=%v", cfg.OTPReturnToClient, cfg.IsProduction())
	}
}

func TestDurations_FallBackWhenInvalid(t *testing.T) {
	cfg := &Config{AuthTimeoutRaw: "soon", OTPTTLRaw: "-1m"}
	if cfg.AuthTimeout() != 5*time.Minute {
		t.Errorf("AuthTimeout = %v, want 5m", cfg.AuthTimeout())
	}
	if cfg.OTPTTL() != 5*time.Minute {
		t.Errorf("OTPTTL = %v, want 5m", cfg.OTPTTL())
	}
}

func TestScopes(t *testing.T) {
	tests := []struct {
		raw  string
		want []string
	}{
		{"", nil},
		{"openid", []string{"openid"}},
		{"openid, email ,profile", []string{"openid", "email", "profile"}},
		{"openid email", []string{"openid", "email"}},
	}
	for _, tt := range tests {
		got := (&Config{OAuthScopes: tt.raw}).Scopes()
		if strings.Join(got, "|") != strings.Join(tt.want, "|") {
			t.Errorf("Scopes(%q) = %v, want %v", tt.raw, got, tt.want)
		}
	}
	var nilCfg *Config
	if nilCfg.Scopes() != nil {
		t.Error("nil config should have no scopes")
	}
}

func TestIsLoopback(t *testing.T) {
	tests := []struct {
		raw  string
		want bool
	}{
		{"http://127.0.0.1:8085/auth/callback", true},
		{"http://localhost:8085/", true},
		{"http://[::1]:8085/cb", true},
		{"http://192.168.1.2:8085/cb", false},
		{"https://127.0.0.1:8085/cb", false},
		{"http://127.0.0.1/cb", false},
		{"::not a url", false},
	}
	for _, tt := range tests {
		if got := isLoopback(tt.raw); got != tt.want {
			t.Errorf("isLoopback(%q) = %v, want %v", tt.raw, got, tt.want)
		}
	}
}
