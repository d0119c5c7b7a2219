// Package datagram serves the UDP transport: one receive loop, one datagram per message.
package datagram

import (
	"chat-relay/contract"
	"chat-relay/domain/chat"
	"chat-relay/errors"
	"chat-relay/runtime"
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"net"
	"strings"
	"time"
)

var _ contract.Worker = (*Server)(nil)

type Options struct {
	// Addr is the listen address used by Run.
	Addr string
	// BufferSize is the receive buffer, longer datagrams are truncated.
	BufferSize int
	// OnServing is told when the receive loop starts and stops.
	OnServing func(serving bool)
}

// Server handles every datagram sequentially, so registrations, messages and
// commands are naturally serialized.
type Server struct {
	hub        *runtime.Hub
	dispatcher *runtime.Dispatcher
	phrases    chat.Phrases
	log        *slog.Logger
	options    Options
	conn       net.PacketConn
}

func NewServer(
	hub *runtime.Hub,
	dispatcher *runtime.Dispatcher,
	phrases chat.Phrases,
	log *slog.Logger,
	options Options,
) *Server {
	if options.BufferSize <= 0 {
		options.BufferSize = chat.MaxDatagramSize
	}
	return &Server{
		hub:        hub,
		dispatcher: dispatcher,
		phrases:    phrases,
		log:        log,
		options:    options,
	}
}

// Listen binds the configured address ahead of Run.
func (s *Server) Listen() error {
	conn, err := net.ListenPacket("udp", s.options.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.options.Addr, err)
	}
	s.conn = conn
	return nil
}

// Run serves on the socket bound by Listen, or binds one, until ctx is done.
func (s *Server) Run(ctx context.Context) error {
	if s.conn == nil {
		if err := s.Listen(); err != nil {
			return err
		}
	}
	conn := s.conn
	s.conn = nil
	defer func() { _ = conn.Close() }()
	return s.Serve(ctx, conn)
}

// Serve runs the receive loop on conn. Cancellation unblocks the pending read.
func (s *Server) Serve(ctx context.Context, conn net.PacketConn) error {
	stop := context.AfterFunc(ctx, func() { _ = conn.SetReadDeadline(time.Now()) })
	defer stop()

	s.notify(true)
	defer s.notify(false)
	s.log.Info("Datagram server listening", "addr", conn.LocalAddr().String())

	buf := make([]byte, s.options.BufferSize)
	for {
		n, addr, err := conn.ReadFrom(buf)
		if err != nil {
			if ctx.Err() != nil {
				s.log.Info("Datagram server shutting down")
				s.hub.Shutdown()
				return nil
			}
			if stderrors.Is(err, net.ErrClosed) {
				return fmt.Errorf("receive: %w", err)
			}
			s.log.Debug("Receive failed", "error", err)
			continue
		}
		s.handle(newAddrHandle(conn, addr), string(buf[:n]))
	}
}

func (s *Server) handle(handle addrHandle, payload string) {
	log := s.log.With("addr", handle.Key())
	frame := chat.ParseDatagram(payload)

	switch frame.Tag {
	case chat.TagRegister:
		s.register(handle, frame.Body)

	case chat.TagUnregister:
		if !s.hub.Leave(handle) {
			log.Debug("Unregister from unknown address")
		}

	case chat.TagMessage:
		name, ok := s.hub.NameOf(handle.Key())
		if !ok {
			log.Debug("Message from unknown address dropped")
			return
		}
		report := s.hub.Broadcast(name, frame.Body)
		log.Debug("Message broadcast",
			"name", name,
			"delivered", len(report.Delivered),
			"evicted", len(report.Evicted))

	case chat.TagCommand:
		if s.dispatcher.Command(handle, frame.Body) == runtime.OutcomeQuit {
			s.hub.Leave(handle)
		}

	default:
		log.Debug("Untagged datagram dropped", "size", len(payload))
	}
}

func (s *Server) register(handle addrHandle, name string) {
	name = strings.TrimSpace(name)
	err := s.hub.Join(name, handle, s.phrases.LoginAck(chat.Datagram, name))
	if err == nil {
		return
	}

	var line string
	switch {
	case stderrors.Is(err, errors.ErrNameTaken):
		line = s.phrases.NameTakenLine(chat.Datagram)
	case stderrors.Is(err, errors.ErrHandleTaken):
		line = chat.Failure(s.phrases.AlreadyRegistered)
	case stderrors.Is(err, errors.ErrEmptyName):
		line = chat.Failure(s.phrases.NameEmpty)
	default:
		s.log.Warn("Registration failed", "addr", handle.Key(), "name", name, "error", err)
		return
	}
	s.log.Info("Registration rejected", "addr", handle.Key(), "name", name, "error", err)
	_ = s.hub.Reply(handle, line)
}

func (s *Server) notify(serving bool) {
	if s.options.OnServing != nil {
		s.options.OnServing(serving)
	}
}
