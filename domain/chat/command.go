package chat

import "strings"

type InputKind int

const (
	PlainText InputKind = iota
	UsersCommand
	HelpCommand
	QuitCommand
	UnknownCommand
)

const CommandPrefix = "/"

// Input is one classified line received from a peer.
type Input struct {
	Kind InputKind
	Text string
}

// ParseLine classifies a line typed by a participant.
// Only the first character decides between chat text and command;
// commands are matched exactly against the fixed set.
func ParseLine(line string) Input {
	if !strings.HasPrefix(line, CommandPrefix) {
		return Input{Kind: PlainText, Text: line}
	}
	return ParseCommand(line)
}

// ParseCommand classifies a line that is known to be a command,
// whatever its first character.
func ParseCommand(command string) Input {
	switch command {
	case "/users":
		return Input{Kind: UsersCommand, Text: command}
	case "/help":
		return Input{Kind: HelpCommand, Text: command}
	case "/quit", "/exit":
		return Input{Kind: QuitCommand, Text: command}
	default:
		return Input{Kind: UnknownCommand, Text: command}
	}
}
