package internal

import (
	"chat-relay/errors"
	"fmt"
	"io"
	"strconv"
)

// Target is where a binary connects or binds.
type Target struct {
	Host string
	Port int
}

func (t Target) Addr() string {
	return Addr(t.Host, t.Port)
}

// ParseHostPort reads the optional positional arguments "[host] [port]".
func ParseHostPort(args []string, defaultHost string, defaultPort int) (Target, error) {
	target := Target{Host: defaultHost, Port: defaultPort}
	if len(args) > 2 {
		return Target{}, fmt.Errorf("%w: got %d", errors.ErrTooManyArguments, len(args))
	}
	if len(args) >= 1 {
		target.Host = args[0]
	}
	if len(args) == 2 {
		port, err := strconv.Atoi(args[1])
		if err != nil || port < 1 || port > 65535 {
			return Target{}, fmt.Errorf("%w: %q", errors.ErrInvalidPort, args[1])
		}
		target.Port = port
	}
	return target, nil
}

// PrintUsage writes the positional usage of a binary.
func PrintUsage(w io.Writer, binary string, defaultHost string, defaultPort int) {
	_, _ = fmt.Fprintf(w, "Usage: %s [host] [port]\n", binary)
	_, _ = fmt.Fprintf(w, "Examples:\n")
	_, _ = fmt.Fprintf(w, "  %s                     # %s\n", binary, Addr(defaultHost, defaultPort))
	_, _ = fmt.Fprintf(w, "  %s 192.168.1.100       # %s\n", binary, Addr("192.168.1.100", defaultPort))
	_, _ = fmt.Fprintf(w, "  %s 192.168.1.100 9999  # %s\n", binary, Addr("192.168.1.100", 9999))
}
