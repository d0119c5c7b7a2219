package client

import (
	"bufio"
	"context"
	"io"
	"strings"
)

// IsQuit reports whether a console line ends the client locally.
func IsQuit(line string) bool {
	line = strings.TrimSpace(line)
	return line == "/quit" || line == "/exit"
}

// Pump sends every line read from in until a quit line, EOF, a send failure
// or ctx cancellation. Quit lines are not sent: Close notifies the server.
func Pump(ctx context.Context, in io.Reader, send func(line string) error) error {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok || IsQuit(line) {
				return nil
			}
			if err := send(line); err != nil {
				return err
			}
		}
	}
}
