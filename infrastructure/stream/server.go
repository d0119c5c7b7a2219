// Package stream serves the line oriented TCP transport.
package stream

import (
	"bufio"
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
	"sync"
	"time"
)

var _ contract.Worker = (*Server)(nil)

// MaxLineSize bounds one inbound line. A longer line ends the peer session.
const MaxLineSize = 1 << 20

const initialLineSize = 4096

type Options struct {
	// Addr is the listen address used by Run.
	Addr string
	// DeliveryTimeout bounds each write to a peer, 0 means none.
	DeliveryTimeout time.Duration
	// OnServing is told when the accept loop starts and stops.
	OnServing func(serving bool)
}

// Server accepts TCP peers and runs one pooled goroutine per connection.
type Server struct {
	hub        *runtime.Hub
	dispatcher *runtime.Dispatcher
	pool       contract.Pool
	phrases    chat.Phrases
	log        *slog.Logger
	options    Options

	listener net.Listener
	mu       sync.Mutex
	conns    map[*connHandle]struct{}
}

func NewServer(
	hub *runtime.Hub,
	dispatcher *runtime.Dispatcher,
	pool contract.Pool,
	phrases chat.Phrases,
	log *slog.Logger,
	options Options,
) *Server {
	return &Server{
		hub:        hub,
		dispatcher: dispatcher,
		pool:       pool,
		phrases:    phrases,
		log:        log,
		options:    options,
		conns:      make(map[*connHandle]struct{}),
	}
}

// Listen binds the configured address ahead of Run, so a binary can fail
// fast on a port already in use.
func (s *Server) Listen() error {
	listener, err := net.Listen("tcp", s.options.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.options.Addr, err)
	}
	s.listener = listener
	return nil
}

// Run serves on the listener bound by Listen, or binds one, until ctx is done.
// A listen failure is returned so the supervisor can retry.
func (s *Server) Run(ctx context.Context) error {
	if s.listener == nil {
		if err := s.Listen(); err != nil {
			return err
		}
	}
	listener := s.listener
	s.listener = nil
	return s.Serve(ctx, listener)
}

// Serve runs the accept loop on listener. On ctx cancellation it closes the
// listener and every connection, then waits for all peer goroutines.
func (s *Server) Serve(ctx context.Context, listener net.Listener) error {
	stop := context.AfterFunc(ctx, func() { _ = listener.Close() })
	defer stop()

	s.notify(true)
	defer s.notify(false)
	s.log.Info("Stream server listening", "addr", listener.Addr().String())

	for {
		conn, err := listener.Accept()
		if err != nil {
			if ctx.Err() != nil {
				s.shutdown()
				return nil
			}
			// The listener is released so the restarted worker can bind the address again.
			// Live sessions stay in the hub across the restart.
			_ = listener.Close()
			s.log.Error("Accept failed, releasing listener", "error", err)
			return fmt.Errorf("accept: %w", err)
		}

		handle := newConnHandle(conn, s.options.DeliveryTimeout)
		s.track(handle)
		accepted := s.pool.TryGo(func() {
			defer s.untrack(handle)
			s.servePeer(conn, handle)
		})
		if !accepted {
			s.log.Warn("Connection refused", "addr", handle.Key(), "error", errors.ErrPoolFull)
			_ = handle.Deliver(chat.Failure(s.phrases.ServerFull))
			_ = handle.Close()
			s.untrack(handle)
		}
	}
}

func (s *Server) servePeer(conn net.Conn, handle *connHandle) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error("Peer handler panicked", "addr", handle.Key(), "panic", r)
		}
	}()
	defer func() { _ = handle.Close() }()

	log := s.log.With("addr", handle.Key())
	scanner := bufio.NewScanner(conn)
	scanner.Buffer(make([]byte, 0, initialLineSize), MaxLineSize)

	if err := handle.Deliver(s.phrases.Welcome); err != nil {
		log.Debug("Unable to greet peer", "error", err)
		return
	}
	if !scanner.Scan() {
		log.Debug("Peer left before login", "error", scanner.Err())
		return
	}

	name := strings.TrimSpace(scanner.Text())
	if err := s.hub.Join(name, handle, s.phrases.LoginAck(chat.Stream, name)); err != nil {
		s.reject(handle, err)
		log.Info("Login rejected", "name", name, "error", err)
		return
	}
	// Runs before handle.Close: the leave is announced while the session still owns the handle
	defer s.hub.Leave(handle)

	if err := s.hub.Reply(handle, s.phrases.RosterLine(s.hub.Roster())); err != nil {
		return
	}

	for scanner.Scan() {
		if s.dispatcher.Dispatch(name, handle, scanner.Text()) == runtime.OutcomeQuit {
			log.Debug("Peer quit", "name", name)
			return
		}
	}
	if err := scanner.Err(); err != nil {
		log.Debug("Peer read failed", "name", name, "error", err)
	}
}

func (s *Server) reject(handle *connHandle, err error) {
	var line string
	switch {
	case stderrors.Is(err, errors.ErrEmptyName):
		line = chat.Failure(s.phrases.NameEmpty)
	case stderrors.Is(err, errors.ErrNameTaken):
		line = s.phrases.NameTakenLine(chat.Stream)
	default:
		return
	}
	_ = handle.Deliver(line)
}

func (s *Server) shutdown() {
	s.log.Info("Stream server shutting down")
	s.hub.Shutdown()

	// Peers still in the login phase are not in the hub
	s.mu.Lock()
	for handle := range s.conns {
		_ = handle.Close()
	}
	s.mu.Unlock()

	s.pool.Wait()
}

func (s *Server) track(handle *connHandle) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.conns[handle] = struct{}{}
}

func (s *Server) untrack(handle *connHandle) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.conns, handle)
}

func (s *Server) notify(serving bool) {
	if s.options.OnServing != nil {
		s.options.OnServing(serving)
	}
}
