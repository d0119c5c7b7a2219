// Package client holds the interactive ends of both transports.
package client

import (
	"chat-relay/domain/chat"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/gookit/color"
	"github.com/kelseyhightower/envconfig"
)

type ConsoleConfig struct {
	// CHAT_COLOURS enables colorized output
	Colours  bool   `envconfig:"CHAT_COLOURS" default:"true"`
	LogLevel string `envconfig:"CHAT_LOG_LEVEL" default:"WARN"`
}

func LoadConsoleConfig() (ConsoleConfig, error) {
	var cfg ConsoleConfig
	err := envconfig.Process("", &cfg)
	return cfg, err
}

type LineKind int

const (
	ChatLine LineKind = iota
	SystemLine
	SuccessLine
	FailureLine
)

// Classify tells a server line apart for display purposes only.
func Classify(line string) LineKind {
	switch {
	case strings.HasPrefix(line, chat.SuccessPrefix):
		return SuccessLine
	case strings.HasPrefix(line, chat.ErrorPrefix):
		return FailureLine
	}
	for _, sender := range chat.SystemSenders() {
		if strings.HasPrefix(line, sender+": ") || strings.Contains(line, "] "+sender+": ") {
			return SystemLine
		}
	}
	return ChatLine
}

var styles = map[LineKind]color.Style{
	SuccessLine: color.New(color.FgGreen, color.OpBold),
	FailureLine: color.New(color.FgRed, color.OpBold),
	SystemLine:  color.New(color.FgCyan),
}

// Console prints server lines from the receive goroutine and prompts
// from the input goroutine without interleaving them.
type Console struct {
	mu      sync.Mutex
	out     io.Writer
	colours bool
}

func NewConsole(out io.Writer, colours bool) *Console {
	return &Console{out: out, colours: colours}
}

func (c *Console) Print(line string) {
	if style, ok := styles[Classify(line)]; ok && c.colours {
		line = style.Render(line)
	}
	c.write(line)
}

// Banner prints a framed block of lines, e.g. after a successful login.
func (c *Console) Banner(title string, lines ...string) {
	header := fmt.Sprintf("=== %s ===", title)
	if c.colours {
		header = color.New(color.BgBlack, color.FgGreen).Render(header)
	}
	c.write(header)
	for _, line := range lines {
		c.write(line)
	}
	c.write(strings.Repeat("=", len([]rune(title))+8))
}

func (c *Console) write(line string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, _ = fmt.Fprintln(c.out, line)
}
