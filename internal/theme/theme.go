// Package theme resolves the light/dark palette used by the login screen and tab bar.
package theme

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Mode selects how the palette is chosen.
type Mode string

const (
	ModeSystem Mode = "system"
	ModeDark   Mode = "dark"
	ModeLight  Mode = "light"
)

// ParseMode parses a THEME setting. Empty means system.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case "":
		return ModeSystem, nil
	case ModeSystem, ModeDark, ModeLight:
		return m, nil
	}
	return "", fmt.Errorf("theme: unknown mode %q", s)
}

// Palette is the colour set for one appearance.
type Palette struct {
	Background lipgloss.Color
	Surface    lipgloss.Color
	Text       lipgloss.Color
	Muted      lipgloss.Color
	Accent     lipgloss.Color
	OnAccent   lipgloss.Color
	Divider    lipgloss.Color
}

var (
	dark = Palette{
		Background: "#000000",
		Surface:    "#1C1C1E",
		Text:       "#FFFFFF",
		Muted:      "#8E8E93",
		Accent:     "#007AFF",
		OnAccent:   "#FFFFFF",
		Divider:    "#2C2C2E",
	}
	light = Palette{
		Background: "#F2F2F7",
		Surface:    "#FFFFFF",
		Text:       "#000000",
		Muted:      "#8E8E93",
		Accent:     "#007AFF",
		OnAccent:   "#FFFFFF",
		Divider:    "#E5E5EA",
	}
)

// Resolve returns the palette for the given appearance.
func Resolve(isDark bool) Palette {
	if isDark {
		return dark
	}
	return light
}

// TabBarStyle colours the authenticated tab bar.
type TabBarStyle struct {
	Background lipgloss.Color
	Active     lipgloss.Color
	Inactive   lipgloss.Color
	// BlurIntensity is the backdrop blur on platforms that support it.
	BlurIntensity int
}

// TabBar returns the tab bar style. The light bar is translucent white where blur is available.
func TabBar(isDark bool) TabBarStyle {
	if isDark {
		return TabBarStyle{Background: "#1C1C1E", Active: "#007AFF", Inactive: "#8E8E93", BlurIntensity: 60}
	}
	return TabBarStyle{Background: "#FFFFFF", Active: "#007AFF", Inactive: "#8E8E93", BlurIntensity: 100}
}

// Provider answers IsDark for the configured mode.
type Provider struct {
	mode   Mode
	detect func() bool
}

// NewProvider returns a Provider. In system mode the terminal background is queried.
func NewProvider(mode Mode) *Provider {
	return &Provider{mode: mode, detect: lipgloss.HasDarkBackground}
}

// Mode returns the configured mode.
func (p *Provider) Mode() Mode { return p.mode }

// IsDark reports whether the dark palette applies.
func (p *Provider) IsDark() bool {
	switch p.mode {
	case ModeDark:
		return true
	case ModeLight:
		return false
	}
	return p.detect()
}

// Palette resolves the palette for the current appearance.
func (p *Provider) Palette() Palette { return Resolve(p.IsDark()) }
