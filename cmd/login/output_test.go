package main

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"

	"pknews/client/internal/authsession/handler"
)

func TestLockedWriter_LinesStayWhole(t *testing.T) {
	var buf bytes.Buffer
	out := &lockedWriter{w: &buf}
	screen := strings.Repeat("=", 200)
	link := "https://accounts.example.com/o/oauth2/auth?client_id=abc"

	var wg sync.WaitGroup
	for range 20 {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, _ = out.Write([]byte(screen + "\n"))
		}()
		go func() {
			defer wg.Done()
			_ = handler.PrintLauncher{W: out}.Open(context.Background(), link)
		}()
	}
	wg.Wait()

	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		line = strings.TrimSpace(line)
		if line != screen && line != link && !strings.HasPrefix(line, "Open this link") {
			t.Fatalf("interleaved line %q", line)
		}
	}
}

func TestBrowserFor(t *testing.T) {
	var buf bytes.Buffer
	if _, ok := browserFor("print", &buf).(handler.PrintLauncher); !ok {
		t.Error("print should only print the link")
	}
	if _, ok := browserFor("system", &buf).(fallbackBrowser); !ok {
		t.Error("system should try the opener first")
	}
}

func TestFallbackBrowser_PrintsWhenOpenerFails(t *testing.T) {
	var buf bytes.Buffer
	b := fallbackBrowser{
		primary:  handler.LauncherFunc(func(context.Context, string) error { return handler.ErrUnsupportedPlatform }),
		fallback: handler.PrintLauncher{W: &buf},
	}
	if err := b.Open(context.Background(), "https://accounts.example.com/auth"); err != nil {
		t.Fatalf("Open: %v", err)
	}
	if !strings.Contains(buf.String(), "https://accounts.example.com/auth") {
		t.Errorf("output = %q, want the link", buf.String())
	}
}

func TestFallbackBrowser_OpenerSucceeds(t *testing.T) {
	var buf bytes.Buffer
	b := fallbackBrowser{
		primary:  handler.LauncherFunc(func(context.Context, string) error { return nil }),
		fallback: handler.PrintLauncher{W: &buf},
	}
	if err := b.Open(context.Background(), "https://x"); err != nil {
		t.Fatalf("Open: %v", err)
	}
	if buf.Len() != 0 {
		t.Errorf("nothing should be printed, got %q", buf.String())
	}
}
