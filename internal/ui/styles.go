// Package ui renders the login screen and tab bar for the terminal.
package ui

import (
	"github.com/charmbracelet/lipgloss"

	"pknews/client/internal/theme"
)

type styles struct {
	appName  lipgloss.Style
	title    lipgloss.Style
	subtitle lipgloss.Style
	button   lipgloss.Style
	primary  lipgloss.Style
	input    lipgloss.Style
	divider  lipgloss.Style
	muted    lipgloss.Style
	key      lipgloss.Style
	errLine  lipgloss.Style
	notice   lipgloss.Style
	link     lipgloss.Style
	tabOn    lipgloss.Style
	tabOff   lipgloss.Style
	tabBar   lipgloss.Style
}

func newStyles(p theme.Palette, bar theme.TabBarStyle, width int) styles {
	block := lipgloss.NewStyle().Width(width).Align(lipgloss.Center)
	return styles{
		appName: block.
			Bold(true).
			Foreground(p.Accent).
			MarginBottom(1),
		title: block.
			Bold(true).
			Foreground(p.Text),
		subtitle: block.
			Foreground(p.Muted).
			MarginBottom(1),
		button: lipgloss.NewStyle().
			Width(width-2).
			Align(lipgloss.Center).
			Bold(true).
			Foreground(p.Text).
			Background(p.Surface).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.Divider),
		primary: lipgloss.NewStyle().
			Width(width-2).
			Align(lipgloss.Center).
			Bold(true).
			Foreground(p.OnAccent).
			Background(p.Accent).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.Accent),
		input: lipgloss.NewStyle().
			Width(width-4).
			Padding(0, 1).
			Foreground(p.Text).
			Background(p.Surface).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.Divider),
		divider: lipgloss.NewStyle().Foreground(p.Divider),
		muted:   lipgloss.NewStyle().Foreground(p.Muted),
		key:     lipgloss.NewStyle().Bold(true).Foreground(p.Accent),
		errLine: lipgloss.NewStyle().Foreground(lipgloss.Color("#FF3B30")),
		notice:  lipgloss.NewStyle().Foreground(p.Accent),
		link:    lipgloss.NewStyle().Underline(true).Foreground(p.Accent),
		tabOn:   lipgloss.NewStyle().Bold(true).Foreground(bar.Active).Padding(0, 1),
		tabOff:  lipgloss.NewStyle().Foreground(bar.Inactive).Padding(0, 1),
		tabBar: lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Background(bar.Background).
			BorderTop(true).
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(p.Divider),
	}
}
