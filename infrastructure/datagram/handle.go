package datagram

import (
	"chat-relay/domain/chat"
	"net"
)

var _ chat.Deliverer = addrHandle{}

// addrHandle reaches a peer through the shared socket. It owns nothing.
type addrHandle struct {
	conn net.PacketConn
	addr net.Addr
}

func newAddrHandle(conn net.PacketConn, addr net.Addr) addrHandle {
	return addrHandle{conn: conn, addr: addr}
}

func (h addrHandle) Key() string { return h.addr.String() }

// Deliver sends the line as one datagram, without terminator.
func (h addrHandle) Deliver(line string) error {
	_, err := h.conn.WriteTo([]byte(line), h.addr)
	return err
}

func (h addrHandle) Close() error { return nil }
