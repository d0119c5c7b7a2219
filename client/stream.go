package client

import (
	"bufio"
	"chat-relay/domain/chat"
	"chat-relay/errors"
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"strings"
	"sync"
)

// StreamClient speaks the line protocol over one TCP connection.
type StreamClient struct {
	conn      net.Conn
	reader    *bufio.Reader
	log       *slog.Logger
	closeOnce sync.Once
}

func DialStream(ctx context.Context, addr string, log *slog.Logger) (*StreamClient, error) {
	var dialer net.Dialer
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("could not connect to server at %s: %w", addr, err)
	}
	return &StreamClient{conn: conn, reader: bufio.NewReader(conn), log: log}, nil
}

// Welcome reads the greeting the server sends on connect.
func (c *StreamClient) Welcome() (string, error) {
	return c.readLine()
}

// Login sends the name and returns the server verdict line.
// A verdict other than SUCCESS yields errors.ErrLoginRejected.
func (c *StreamClient) Login(name string) (string, error) {
	if err := c.Send(strings.TrimSpace(name)); err != nil {
		return "", err
	}
	verdict, err := c.readLine()
	if err != nil {
		return "", err
	}
	if !strings.HasPrefix(verdict, chat.SuccessPrefix) {
		return verdict, fmt.Errorf("%w: %s", errors.ErrLoginRejected, verdict)
	}
	return verdict, nil
}

func (c *StreamClient) Send(line string) error {
	_, err := c.conn.Write([]byte(line + "\n"))
	return err
}

// Receive hands every incoming line to onLine until the server closes the
// connection or Close is called. Both end with a nil error.
func (c *StreamClient) Receive(onLine func(line string)) error {
	for {
		line, err := c.readLine()
		if err != nil {
			if stderrors.Is(err, io.EOF) || stderrors.Is(err, net.ErrClosed) {
				return nil
			}
			return err
		}
		onLine(line)
	}
}

// Close tells the server we quit, then closes the connection.
func (c *StreamClient) Close() error {
	var err error
	c.closeOnce.Do(func() {
		if sendErr := c.Send("/quit"); sendErr != nil {
			c.log.Debug("Unable to notify quit", "error", sendErr)
		}
		err = c.conn.Close()
	})
	return err
}

func (c *StreamClient) readLine() (string, error) {
	line, err := c.reader.ReadString('\n')
	if err != nil {
		if line != "" && stderrors.Is(err, io.EOF) {
			return strings.TrimRight(line, "\r\n"), nil
		}
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}
