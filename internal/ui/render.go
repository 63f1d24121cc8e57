package ui

import (
	"errors"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"pknews/client/internal/authsession/domain"
	"pknews/client/internal/navigation"
	"pknews/client/internal/theme"
)

const (
	defaultWidth = 48
	minWidth     = 24
)

// View is the login screen state to draw.
type View struct {
	State        domain.State
	Method       domain.LoginMethod
	Pending      *domain.AuthorizationRequest
	PhoneNumber  string
	AwaitingCode bool
	Notice       string
	Err          error
}

// Renderer draws screens with one palette.
type Renderer struct {
	width int
	s     styles
}

// NewRenderer returns a Renderer for the palette. A width below 24 means the default of 48.
func NewRenderer(isDark bool, width int) *Renderer {
	if width < minWidth {
		width = defaultWidth
	}
	return &Renderer{
		width: width,
		s:     newStyles(theme.Resolve(isDark), theme.TabBar(isDark), width),
	}
}

// Login renders the login screen for v.
func (r *Renderer) Login(v View) string {
	parts := []string{
		r.s.appName.Render("PK News"),
		r.s.title.Render("Welcome Back"),
		r.s.subtitle.Render("Stay informed with the latest news and stories"),
	}

	switch {
	case v.State == domain.StateAuthenticated:
		parts = append(parts, r.s.notice.Render("Signed in."))
	case v.State == domain.StateAuthorizationPending && v.Pending != nil:
		parts = append(parts, r.pending(v.Pending)...)
	case v.Method == domain.MethodPhone && v.AwaitingCode:
		parts = append(parts,
			r.s.muted.Render("Code sent to "+v.PhoneNumber),
			r.s.input.Render(placeholder("", "Enter 6-digit code", r.s)),
			r.s.primary.Render("Verify"),
			r.hints("b", "back"),
		)
	case v.Method == domain.MethodPhone:
		parts = append(parts,
			r.s.input.Render(placeholder(v.PhoneNumber, "Enter Phone Number", r.s)),
			r.s.primary.Render("Continue"),
			r.hints("b", "back"),
		)
	default:
		parts = append(parts,
			r.s.button.Render(r.s.key.Render("1")+"  Continue with Phone"),
			r.divider(),
			r.s.button.Render(r.s.key.Render("2")+"  Continue with Google"),
		)
	}

	if v.Err != nil {
		msg := v.Err.Error()
		var authErr *domain.AuthorizationError
		if errors.As(v.Err, &authErr) && authErr.Reason != "" {
			msg = authErr.Reason
		}
		line := "Sign-in failed: " + msg
		if v.Method == domain.MethodFederated {
			line += "  (press 2 to try again)"
		}
		parts = append(parts, r.s.errLine.Render(line))
	}
	if v.Notice != "" && v.State != domain.StateAuthenticated {
		parts = append(parts, r.s.notice.Render(v.Notice))
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (r *Renderer) pending(req *domain.AuthorizationRequest) []string {
	return []string{
		r.s.muted.Render("Waiting for Google sign-in in your browser..."),
		r.s.muted.Render("If it did not open, visit:"),
		r.s.link.Render(req.AuthURL),
		r.hints("c", "cancel"),
	}
}

func (r *Renderer) divider() string {
	side := (r.width - 6) / 2
	if side < 1 {
		side = 1
	}
	line := strings.Repeat("─", side)
	return r.s.divider.Render(line) + r.s.muted.Render("  or  ") + r.s.divider.Render(line)
}

func (r *Renderer) hints(pairs ...string) string {
	var b strings.Builder
	for i := 0; i+1 < len(pairs); i += 2 {
		if i > 0 {
			b.WriteString("   ")
		}
		b.WriteString(r.s.key.Render("[" + pairs[i] + "]"))
		b.WriteString(" ")
		b.WriteString(r.s.muted.Render(pairs[i+1]))
	}
	b.WriteString("   ")
	b.WriteString(r.s.key.Render("[q]"))
	b.WriteString(" ")
	b.WriteString(r.s.muted.Render("quit"))
	return b.String()
}

// TabBar renders the authenticated tab bar with active highlighted.
func (r *Renderer) TabBar(active string) string {
	items := make([]string, 0, len(navigation.Tabs))
	for _, t := range navigation.Tabs {
		st := r.s.tabOff
		if t.Name == active {
			st = r.s.tabOn
		}
		items = append(items, st.Render(t.Title))
	}
	return r.s.tabBar.Render(lipgloss.JoinHorizontal(lipgloss.Top, items...))
}

func placeholder(value, hint string, s styles) string {
	if value == "" {
		return s.muted.Render(hint)
	}
	return value
}
