package client

import (
	"chat-relay/domain/chat"
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"net"
	"strings"
	"sync"
)

// DatagramClient sends tagged datagrams to one server.
type DatagramClient struct {
	conn      net.Conn
	log       *slog.Logger
	bufSize   int
	closeOnce sync.Once
}

func DialDatagram(ctx context.Context, addr string, log *slog.Logger) (*DatagramClient, error) {
	var dialer net.Dialer
	conn, err := dialer.DialContext(ctx, "udp", addr)
	if err != nil {
		return nil, fmt.Errorf("could not reach server at %s: %w", addr, err)
	}
	return &DatagramClient{conn: conn, log: log, bufSize: chat.MaxDatagramSize}, nil
}

// Register asks for name. The verdict arrives through Receive.
func (c *DatagramClient) Register(name string) error {
	return c.write(chat.Frame{Tag: chat.TagRegister, Body: strings.TrimSpace(name)})
}

// Send tags a console line as MESSAGE or COMMAND.
func (c *DatagramClient) Send(line string) error {
	return c.write(chat.EncodeInput(line))
}

// Receive hands every incoming datagram to onLine until Close is called.
func (c *DatagramClient) Receive(onLine func(line string)) error {
	buf := make([]byte, c.bufSize)
	for {
		n, err := c.conn.Read(buf)
		if err != nil {
			if stderrors.Is(err, net.ErrClosed) {
				return nil
			}
			// ICMP port unreachable surfaces here when the server is down
			c.log.Debug("Receive failed", "error", err)
			continue
		}
		onLine(string(buf[:n]))
	}
}

// Close unregisters then closes the socket.
func (c *DatagramClient) Close() error {
	var err error
	c.closeOnce.Do(func() {
		if sendErr := c.write(chat.Frame{Tag: chat.TagUnregister}); sendErr != nil {
			c.log.Debug("Unable to unregister", "error", sendErr)
		}
		err = c.conn.Close()
	})
	return err
}

func (c *DatagramClient) write(frame chat.Frame) error {
	_, err := c.conn.Write([]byte(frame.String()))
	return err
}
