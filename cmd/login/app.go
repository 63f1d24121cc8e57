package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	auditdomain "pknews/client/internal/audit/domain"
	"pknews/client/internal/authsession/domain"
	"pknews/client/internal/authsession/service"
	"pknews/client/internal/navigation"
	"pknews/client/internal/phoneverify"
	"pknews/client/internal/ui"
)

const historyLimit = 10

// loginHistory reads back the local audit trail.
type loginHistory interface {
	Recent(ctx context.Context, limit int) ([]*auditdomain.AuditLog, error)
}

// app is the UI loop. It is the only goroutine that touches the manager.
type app struct {
	manager  *service.Manager
	router   *navigation.Router
	renderer *ui.Renderer
	verifier *phoneverify.Service
	history  loginHistory
	out      io.Writer
	logger   *slog.Logger

	phoneInput   string
	awaitingCode bool
	challengeID  string
	notice       string
}

func (a *app) run(ctx context.Context, in io.Reader) error {
	lines := readLines(ctx, in)
	a.draw()
	for {
		// Enter the tab stack before consuming more login input.
		select {
		case <-a.router.Done():
			return a.tabs(ctx, lines)
		default:
		}
		select {
		case <-ctx.Done():
			return nil
		case out := <-a.manager.Results():
			if err := a.manager.OnAuthorizationResult(ctx, out); err != nil {
				a.logger.Debug("login: authorization result not applied", "error", err)
			}
			a.draw()
		case <-a.router.Done():
			return a.tabs(ctx, lines)
		case line, ok := <-lines:
			if !ok {
				return nil
			}
			if quit := a.handle(ctx, line); quit {
				return nil
			}
			a.draw()
		}
	}
}

func (a *app) freeText() bool {
	return a.manager.Method() == domain.MethodPhone && a.manager.State() == domain.StateMethodSelected
}

func (a *app) handle(ctx context.Context, line string) (quit bool) {
	a.notice = ""
	cmd := ui.ParseCommand(line, a.freeText())
	var err error
	switch cmd.Kind {
	case ui.CmdQuit:
		return true
	case ui.CmdPhone:
		err = a.manager.SelectMethod(ctx, domain.MethodPhone)
	case ui.CmdGoogle:
		_, err = a.manager.BeginFederatedLogin(ctx)
	case ui.CmdCancel:
		err = a.manager.CancelFederatedLogin(ctx)
	case ui.CmdBack:
		if a.awaitingCode {
			a.awaitingCode = false
			a.challengeID = ""
			return false
		}
		a.phoneInput = ""
		err = a.manager.SelectMethod(ctx, domain.MethodUnselected)
	case ui.CmdSubmit:
		a.submitPhone(ctx, cmd.Text)
	case ui.CmdHelp:
		a.notice = "1 phone · 2 google · c cancel · b back · q quit"
	default:
		a.notice = fmt.Sprintf("unknown command %q (type ? for help)", cmd.Text)
	}
	if err != nil {
		a.notice = describe(err)
	}
	return false
}

func (a *app) submitPhone(ctx context.Context, text string) {
	if a.verifier == nil {
		a.phoneInput = text
		a.manager.SubmitPhoneContinue(ctx, text)
		return
	}
	if !a.awaitingCode {
		ch, err := a.verifier.Start(ctx, text)
		if err != nil {
			a.notice = describe(err)
			return
		}
		a.phoneInput = ch.Phone
		a.challengeID = ch.ID
		a.awaitingCode = true
		if ch.DevOTP != "" {
			a.notice = "Development code: " + ch.DevOTP
		}
		return
	}
	phone, err := a.verifier.Verify(ctx, a.challengeID, text)
	switch {
	case err == nil:
		a.awaitingCode = false
		a.manager.SubmitPhoneContinue(ctx, phone)
	case errors.Is(err, phoneverify.ErrInvalidCode):
		a.notice = "That code is not right. Try again."
	default:
		a.awaitingCode = false
		a.challengeID = ""
		a.notice = describe(err) + ". Enter your number to get a new code."
	}
}

func (a *app) draw() {
	fmt.Fprintln(a.out, a.renderer.Login(ui.View{
		State:        a.manager.State(),
		Method:       a.manager.Method(),
		Pending:      a.manager.Pending(),
		PhoneNumber:  a.phoneInput,
		AwaitingCode: a.awaitingCode,
		Notice:       a.notice,
		Err:          a.manager.LastError(),
	}))
}

// tabs runs the authenticated stack. Switching tabs pushes onto the router's back stack; the
// login screen is never on it.
func (a *app) tabs(ctx context.Context, lines <-chan string) error {
	if s, ok := a.router.Session(); ok {
		who := s.PhoneNumber
		if s.Credential != nil {
			who = s.Credential.Email
		}
		if who != "" {
			fmt.Fprintf(a.out, "Signed in with %s as %s\n", s.Method, who)
		}
	}
	a.drawTabs()
	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				return nil
			}
			cmd := ui.ParseCommand(line, false)
			switch cmd.Kind {
			case ui.CmdQuit:
				return nil
			case ui.CmdBack:
				if !a.router.Back() {
					fmt.Fprintln(a.out, "tabs: nothing to go back to")
					continue
				}
			case ui.CmdHistory:
				a.printHistory(ctx)
				continue
			default:
				tab, found := navigation.TabByName(cmd.Text)
				if !found {
					tab, found = tabByTitle(cmd.Text)
				}
				if !found {
					fmt.Fprintln(a.out, "tabs: today, discover, saved, profile · b back · history · q quit")
					continue
				}
				if tab.Path() != a.router.Current() {
					a.router.Push(tab.Path())
				}
			}
			a.drawTabs()
		}
	}
}

func (a *app) drawTabs() {
	active := navigation.Tabs[0].Name
	if tab, ok := navigation.TabForRoute(a.router.Current()); ok {
		active = tab.Name
	}
	fmt.Fprintln(a.out, a.renderer.TabBar(active))
}

func (a *app) printHistory(ctx context.Context) {
	if a.history == nil {
		fmt.Fprintln(a.out, "history: not recorded")
		return
	}
	entries, err := a.history.Recent(ctx, historyLimit)
	if err != nil {
		a.logger.Warn("login: read audit history", "error", err)
		fmt.Fprintln(a.out, "history: unavailable")
		return
	}
	if len(entries) == 0 {
		fmt.Fprintln(a.out, "history: empty")
		return
	}
	var b strings.Builder
	for _, e := range entries {
		fmt.Fprintf(&b, "%s  %-18s %-8s %s\n", e.CreatedAt.Local().Format(time.DateTime), e.Action, e.Method, e.Metadata)
	}
	fmt.Fprint(a.out, b.String())
}

func tabByTitle(word string) (navigation.Tab, bool) {
	for _, t := range navigation.Tabs {
		if strings.EqualFold(t.Title, word) {
			return t, true
		}
	}
	return navigation.Tab{}, false
}

func describe(err error) string {
	switch {
	case errors.Is(err, domain.ErrRequestPending):
		return "A Google sign-in is already in progress (c to cancel)."
	case errors.Is(err, domain.ErrNoPendingRequest):
		return "Nothing to cancel."
	case errors.Is(err, phoneverify.ErrInvalidPhone):
		return "Enter the number with its country code, e.g. +1 555 010 0100."
	}
	return err.Error()
}

func readLines(ctx context.Context, in io.Reader) <-chan string {
	lines := make(chan string)
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(in)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-ctx.Done():
				return
			}
		}
	}()
	return lines
}
