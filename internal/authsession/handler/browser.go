package handler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"runtime"
)

// ErrUnsupportedPlatform is returned by SystemBrowser when no opener is known for the OS.
var ErrUnsupportedPlatform = errors.New("browser: unsupported platform")

// BrowserLauncher shows an authorization URL to the user.
type BrowserLauncher interface {
	Open(ctx context.Context, url string) error
}

// LauncherFunc adapts a function to BrowserLauncher.
type LauncherFunc func(ctx context.Context, url string) error

// Open calls f.
func (f LauncherFunc) Open(ctx context.Context, url string) error { return f(ctx, url) }

// SystemBrowser opens URLs with the platform opener (xdg-open, open, rundll32).
type SystemBrowser struct{}

// Open starts the opener and returns without waiting for the browser.
func (SystemBrowser) Open(ctx context.Context, url string) error {
	name, args, err := openerCommand(runtime.GOOS, url)
	if err != nil {
		return err
	}
	cmd := exec.Command(name, args...)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("browser: start %s: %w", name, err)
	}
	go func() { _ = cmd.Wait() }()
	return nil
}

func openerCommand(goos, url string) (string, []string, error) {
	switch goos {
	case "linux", "freebsd", "openbsd", "netbsd":
		return "xdg-open", []string{url}, nil
	case "darwin":
		return "open", []string{url}, nil
	case "windows":
		return "rundll32", []string{"url.dll,FileProtocolHandler", url}, nil
	}
	return "", nil, fmt.Errorf("%w: %s", ErrUnsupportedPlatform, goos)
}

// PrintLauncher writes the URL for the user to open by hand. Used on headless hosts.
type PrintLauncher struct {
	W io.Writer
}

// Open prints url.
func (p PrintLauncher) Open(ctx context.Context, url string) error {
	_, err := fmt.Fprintf(p.W, "Open this link to continue with Google:\n  %s\n", url)
	return err
}
