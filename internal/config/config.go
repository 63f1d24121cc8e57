// Package config loads and validates client config from env and an optional .env file using Viper.
package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

const (
	defaultAuthTimeout = 5 * time.Minute
	defaultOTPTTL      = 5 * time.Minute
)

// Config holds client configuration loaded from the environment.
type Config struct {
	// GoogleClientID is the OAuth client ID of the installed-app Google client. Required.
	GoogleClientID string `mapstructure:"GOOGLE_CLIENT_ID" validate:"required"`
	// GoogleClientSecret is optional; installed-app clients may rely on PKCE alone.
	GoogleClientSecret string `mapstructure:"GOOGLE_CLIENT_SECRET"`
	// RedirectURI is the loopback address the browser returns to (e.g. http://127.0.0.1:8085/auth/callback).
	RedirectURI string `mapstructure:"REDIRECT_URI" validate:"required,url"`
	// OAuthScopes is a comma- or space-separated scope list; empty means openid email profile.
	OAuthScopes string `mapstructure:"OAUTH_SCOPES"`
	// AuthTimeoutRaw bounds how long the browser round trip may take (e.g. "5m").
	AuthTimeoutRaw string `mapstructure:"AUTH_TIMEOUT"`
	// Browser is "system" to open the default browser or "print" to only print the link.
	Browser string `mapstructure:"AUTH_BROWSER" validate:"oneof=system print"`
	// Theme is system, dark, or light.
	Theme string `mapstructure:"THEME" validate:"oneof=system dark light"`

	// LogLevel is debug, info, warn, or error.
	LogLevel string `mapstructure:"LOG_LEVEL" validate:"oneof=debug info warn error"`
	// Env is the application environment; "production" switches to JSON logs and forbids dev OTP.
	Env string `mapstructure:"APP_ENV"`

	// PhoneVerification is "none" (phone continue is accepted as-is) or "otp".
	PhoneVerification string `mapstructure:"PHONE_VERIFICATION" validate:"oneof=none otp"`
	// SMSLocalAPIKey is required for PHONE_VERIFICATION=otp unless OTP_RETURN_TO_CLIENT is set.
	SMSLocalAPIKey string `mapstructure:"SMS_LOCAL_API_KEY"`
	// SMSLocalSender is the optional sender ID for SMS Local.
	SMSLocalSender string `mapstructure:"SMS_LOCAL_SENDER"`
	// SMSLocalBaseURL is the SMS Local API endpoint.
	SMSLocalBaseURL string `mapstructure:"SMS_LOCAL_BASE_URL" validate:"omitempty,url"`
	// OTPReturnToClient prints the code instead of sending it. Rejected when APP_ENV=production.
	OTPReturnToClient bool `mapstructure:"OTP_RETURN_TO_CLIENT"`
	// OTPTTLRaw is the code lifetime (e.g. "5m").
	OTPTTLRaw string `mapstructure:"OTP_TTL"`
	// OTPLength is the number of digits per code.
	OTPLength int `mapstructure:"OTP_LENGTH" validate:"min=4,max=10"`

	// AuditDBPath is the SQLite file for the local login audit trail; empty keeps it in memory.
	AuditDBPath string `mapstructure:"AUDIT_DB_PATH"`

	// OTLPEndpoint enables OTel export when set (host:port or URL).
	OTLPEndpoint string `mapstructure:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	// OTLPInsecure disables TLS to the collector.
	OTLPInsecure bool `mapstructure:"OTEL_EXPORTER_OTLP_INSECURE"`
	// ServiceName is the OTel service.name resource attribute.
	ServiceName string `mapstructure:"OTEL_SERVICE_NAME"`
}

// Load reads .env (if present), then builds and validates Config from the environment via Viper.
// Missing .env is ignored. Env vars override .env.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigFile(".env")
	v.SetConfigType("env")
	_ = v.ReadInConfig() // ignore ErrConfigFileNotFound

	v.AutomaticEnv()

	v.SetDefault("GOOGLE_CLIENT_ID", "")
	v.SetDefault("GOOGLE_CLIENT_SECRET", "")
	v.SetDefault("REDIRECT_URI", "http://127.0.0.1:8085/auth/callback")
	v.SetDefault("OAUTH_SCOPES", "openid,email,profile")
	v.SetDefault("AUTH_TIMEOUT", "5m")
	v.SetDefault("AUTH_BROWSER", "system")
	v.SetDefault("THEME", "system")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("APP_ENV", "")
	v.SetDefault("PHONE_VERIFICATION", "none")
	v.SetDefault("SMS_LOCAL_API_KEY", "")
	v.SetDefault("SMS_LOCAL_SENDER", "")
	v.SetDefault("SMS_LOCAL_BASE_URL", "https://www.smslocal.com/dev/bulkV2")
	v.SetDefault("OTP_RETURN_TO_CLIENT", false)
	v.SetDefault("OTP_TTL", "5m")
	v.SetDefault("OTP_LENGTH", 6)
	v.SetDefault("AUDIT_DB_PATH", "")
	v.SetDefault("OTEL_EXPORTER_OTLP_ENDPOINT", "")
	v.SetDefault("OTEL_EXPORTER_OTLP_INSECURE", false)
	v.SetDefault("OTEL_SERVICE_NAME", "pknews-login")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	cfg.Browser = strings.ToLower(strings.TrimSpace(cfg.Browser))
	cfg.Theme = strings.ToLower(strings.TrimSpace(cfg.Theme))
	cfg.LogLevel = strings.ToLower(strings.TrimSpace(cfg.LogLevel))
	cfg.PhoneVerification = strings.ToLower(strings.TrimSpace(cfg.PhoneVerification))

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks field formats and cross-field rules.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.GoogleClientID) == "" {
		return errors.New("config: GOOGLE_CLIENT_ID must be set")
	}
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if !isLoopback(c.RedirectURI) {
		return errors.New("config: REDIRECT_URI must be an http loopback address with a port")
	}
	if c.OTPReturnToClient && c.IsProduction() {
		return errors.New("config: OTP_RETURN_TO_CLIENT must not be true when APP_ENV=production")
	}
	if c.PhoneVerification == "otp" && !c.OTPReturnToClient && c.SMSLocalAPIKey == "" {
		return errors.New("config: SMS_LOCAL_API_KEY must be set when PHONE_VERIFICATION=otp")
	}
	return nil
}

// IsProduction reports whether APP_ENV is production.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}

// AuthTimeout parses AuthTimeoutRaw. Returns 5m if unset or invalid.
func (c *Config) AuthTimeout() time.Duration {
	d, err := time.ParseDuration(c.AuthTimeoutRaw)
	if err != nil || d <= 0 {
		return defaultAuthTimeout
	}
	return d
}

// OTPTTL parses OTPTTLRaw. Returns 5m if unset or invalid.
func (c *Config) OTPTTL() time.Duration {
	d, err := time.ParseDuration(c.OTPTTLRaw)
	if err != nil || d <= 0 {
		return defaultOTPTTL
	}
	return d
}

// Scopes returns the OAuth scopes from the comma- or space-separated config.
func (c *Config) Scopes() []string {
	if c == nil || c.OAuthScopes == "" {
		return nil
	}
	parts := strings.FieldsFunc(c.OAuthScopes, func(r rune) bool { return r == ',' || r == ' ' })
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func isLoopback(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil || u.Scheme != "http" || u.Port() == "" {
		return false
	}
	host := u.Hostname()
	if host == "localhost" {
		return true
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}
