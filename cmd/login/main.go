// login is the PK News terminal sign-in client: it picks a login method, runs the Google
// browser round trip or the phone path, and hands over to the tab stack.
package main

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pknews/client/internal/audit"
	auditrepo "pknews/client/internal/audit/repository"
	"pknews/client/internal/authsession/handler"
	"pknews/client/internal/authsession/provider"
	"pknews/client/internal/authsession/service"
	"pknews/client/internal/config"
	"pknews/client/internal/db"
	"pknews/client/internal/db/migrate"
	"pknews/client/internal/events"
	"pknews/client/internal/logging"
	"pknews/client/internal/navigation"
	"pknews/client/internal/phoneverify"
	"pknews/client/internal/phoneverify/sms"
	"pknews/client/internal/telemetry"
	otelsetup "pknews/client/internal/telemetry/otel"
	"pknews/client/internal/theme"
	"pknews/client/internal/ui"
)

var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "login:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger := logging.New(logging.Options{Level: cfg.LogLevel, Production: cfg.IsProduction()})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	providers, err := otelsetup.NewProviders(ctx, otelsetup.Options{
		Endpoint:       cfg.OTLPEndpoint,
		ServiceName:    cfg.ServiceName,
		ServiceVersion: version,
		Insecure:       cfg.OTLPInsecure,
	})
	if err != nil {
		return err
	}
	providers.SetGlobal()
	defer func() {
		if cfg.OTLPEndpoint != "" {
			time.Sleep(telemetry.ShutdownDrainDuration)
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = providers.Shutdown(shutdownCtx)
	}()

	repo, closeRepo, err := openAuditRepo(cfg.AuditDBPath)
	if err != nil {
		return err
	}
	defer closeRepo()
	auditLogger := audit.NewLogger(repo, logger)

	bus := events.NewBus(logger)
	defer bus.Close()
	router := navigation.NewRouter(logger)
	if err := bus.Subscribe(ctx, router); err != nil {
		return err
	}

	mode, err := theme.ParseMode(cfg.Theme)
	if err != nil {
		return err
	}
	renderer := ui.NewRenderer(theme.NewProvider(mode).IsDark(), 0)
	out := &lockedWriter{w: os.Stdout}

	providerCfg := provider.Google(cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.RedirectURI, cfg.Scopes())
	authorizer := handler.NewLoopbackAuthorizer(
		provider.NewExchanger(providerCfg, nil),
		browserFor(cfg.Browser, out),
		cfg.AuthTimeout(),
		logger,
	)
	manager := service.NewManager(providerCfg, provider.NewBuilder(), authorizer, bus,
		service.WithLogger(logger),
		service.WithAuditLogger(auditLogger),
		service.WithEventEmitter(otelsetup.NewEventEmitter(providers.LoggerProvider)),
	)
	defer manager.Close()

	a := &app{
		manager:  manager,
		router:   router,
		renderer: renderer,
		verifier: phoneVerifier(cfg, logger),
		history:  auditLogger,
		out:      out,
		logger:   logger,
	}
	return a.run(ctx, os.Stdin)
}

func openAuditRepo(path string) (auditrepo.Repository, func(), error) {
	if path == "" {
		return auditrepo.NewMemoryRepository(), func() {}, nil
	}
	sqlDB, err := db.Open(path)
	if err != nil {
		return nil, nil, err
	}
	if err := migrate.Up(sqlDB); err != nil {
		_ = sqlDB.Close()
		return nil, nil, fmt.Errorf("audit migrations: %w", err)
	}
	return auditrepo.NewSQLiteRepository(sqlDB), func() { closeDB(sqlDB) }, nil
}

func closeDB(sqlDB *sql.DB) {
	if err := sqlDB.Close(); err != nil {
		slog.Warn("audit: close database", "error", err)
	}
}

// browserFor picks the launcher for AUTH_BROWSER. Printed links go through out, which the UI
// loop shares, because the authorizer goroutine opens the browser.
func browserFor(kind string, out io.Writer) handler.BrowserLauncher {
	if kind == "print" {
		return handler.PrintLauncher{W: out}
	}
	return fallbackBrowser{primary: handler.SystemBrowser{}, fallback: handler.PrintLauncher{W: out}}
}

// fallbackBrowser prints the link when the system opener is unavailable.
type fallbackBrowser struct {
	primary  handler.BrowserLauncher
	fallback handler.BrowserLauncher
}

func (b fallbackBrowser) Open(ctx context.Context, url string) error {
	if err := b.primary.Open(ctx, url); err != nil {
		slog.Debug("browser: system opener failed, printing link", "error", err)
		return b.fallback.Open(ctx, url)
	}
	return nil
}

func phoneVerifier(cfg *config.Config, logger *slog.Logger) *phoneverify.Service {
	if cfg.PhoneVerification != "otp" {
		return nil
	}
	var sender phoneverify.Sender
	if cfg.SMSLocalAPIKey != "" {
		sender = sms.NewSMSLocalClient(cfg.SMSLocalAPIKey, cfg.SMSLocalBaseURL, cfg.SMSLocalSender)
	}
	return phoneverify.NewService(phoneverify.NewMemoryStore(), sender, cfg.OTPTTL(), cfg.OTPReturnToClient, logger,
		phoneverify.WithCodeLength(cfg.OTPLength))
}
