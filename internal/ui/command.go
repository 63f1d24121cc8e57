package ui

import "strings"

// CommandKind is a parsed line of user input.
type CommandKind int

const (
	CmdUnknown CommandKind = iota
	CmdPhone
	CmdGoogle
	CmdBack
	CmdCancel
	CmdQuit
	CmdHelp
	CmdSubmit
	CmdHistory
)

// Command is one user action. Text is set for CmdSubmit.
type Command struct {
	Kind CommandKind
	Text string
}

// ParseCommand maps a line to a command. With freeText set (a phone number or code is being
// typed) anything that is not back or quit is submitted as-is, including an empty line.
func ParseCommand(line string, freeText bool) Command {
	word := strings.ToLower(strings.TrimSpace(line))
	switch word {
	case "b", "back":
		return Command{Kind: CmdBack}
	case "q", "quit", "exit":
		return Command{Kind: CmdQuit}
	}
	if freeText {
		return Command{Kind: CmdSubmit, Text: strings.TrimSpace(line)}
	}
	switch word {
	case "1", "phone":
		return Command{Kind: CmdPhone}
	case "2", "google":
		return Command{Kind: CmdGoogle}
	case "c", "cancel":
		return Command{Kind: CmdCancel}
	case "?", "h", "help":
		return Command{Kind: CmdHelp}
	case "history", "log":
		return Command{Kind: CmdHistory}
	}
	return Command{Kind: CmdUnknown, Text: word}
}
