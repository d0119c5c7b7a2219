package stream

import (
	"chat-relay/domain/chat"
	"chat-relay/errors"
	"net"
	"sync"
	"sync/atomic"
	"time"
)

var _ chat.Deliverer = (*connHandle)(nil)

// connHandle owns one TCP connection. Writes are serialized,
// so a broadcast line and a command reply never interleave.
type connHandle struct {
	mu           sync.Mutex
	conn         net.Conn
	key          string
	writeTimeout time.Duration
	closed       atomic.Bool
	closeOnce    sync.Once
}

func newConnHandle(conn net.Conn, writeTimeout time.Duration) *connHandle {
	return &connHandle{
		conn:         conn,
		key:          conn.RemoteAddr().String(),
		writeTimeout: writeTimeout,
	}
}

func (h *connHandle) Key() string { return h.key }

// Deliver writes one newline terminated line.
// Without write timeout a stalled reader blocks the caller.
func (h *connHandle) Deliver(line string) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed.Load() {
		return errors.ErrHandleClosed
	}
	if h.writeTimeout > 0 {
		if err := h.conn.SetWriteDeadline(time.Now().Add(h.writeTimeout)); err != nil {
			return err
		}
	}
	_, err := h.conn.Write([]byte(line + "\n"))
	return err
}

// Close is idempotent. It unblocks the peer's pending read and any write
// stuck in Deliver, so it must not wait for h.mu.
func (h *connHandle) Close() error {
	var err error
	h.closeOnce.Do(func() {
		h.closed.Store(true)
		err = h.conn.Close()
	})
	return err
}
