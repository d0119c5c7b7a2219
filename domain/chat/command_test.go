package chat

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseLine(t *testing.T) {
	req := require.New(t)

	tests := []struct {
		name     string
		line     string
		expected InputKind
	}{
		{name: "Plain text", line: "hello", expected: PlainText},
		{name: "Empty line is still chat text", line: "", expected: PlainText},
		{name: "Slash in the middle is chat text", line: "a/users", expected: PlainText},
		{name: "Users", line: "/users", expected: UsersCommand},
		{name: "Help", line: "/help", expected: HelpCommand},
		{name: "Quit", line: "/quit", expected: QuitCommand},
		{name: "Exit", line: "/exit", expected: QuitCommand},
		{name: "Unknown", line: "/foo", expected: UnknownCommand},
		{name: "Exact match only", line: "/users ", expected: UnknownCommand},
		{name: "Case sensitive", line: "/HELP", expected: UnknownCommand},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := ParseLine(tt.line)
			req.Equal(tt.expected, input.Kind, "line=%q", tt.line)
			req.Equal(tt.line, input.Text)
		})
	}
}

func TestParseCommand_Without_Slash_Is_Unknown(t *testing.T) {
	req := require.New(t)

	// Given a datagram command that is not slash prefixed
	input := ParseCommand("hello")

	// Then it is never treated as chat text
	req.Equal(UnknownCommand, input.Kind)
	req.Equal("hello", input.Text)
}
