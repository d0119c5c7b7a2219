package runtime

import (
	"chat-relay/contract"
	"chat-relay/domain/chat"
	"chat-relay/errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/samber/lo"
)

// Report describes one fan-out: the rendered line, who got it and who was dropped.
type Report struct {
	Line      string
	Delivered []string
	Evicted   []string
}

// Hub is the broadcast engine of one transport.
// Join, Leave, Broadcast and Reply share one mutex, so a peer is either
// part of a whole fan-out or absent from it.
type Hub struct {
	mu        sync.Mutex
	transport chat.Transport
	registry  contract.IRegistry
	journal   contract.IJournal
	moderator contract.IModerator
	phrases   chat.Phrases
	log       *slog.Logger
	now       func() time.Time
	closed    atomic.Bool
}

// NewHub wires a hub. moderator may be nil.
func NewHub(
	transport chat.Transport,
	registry contract.IRegistry,
	journal contract.IJournal,
	moderator contract.IModerator,
	phrases chat.Phrases,
	log *slog.Logger,
) *Hub {
	return &Hub{
		transport: transport,
		registry:  registry,
		journal:   journal,
		moderator: moderator,
		phrases:   phrases,
		log:       log.With("transport", string(transport)),
		now:       time.Now,
	}
}

// Join registers the peer, sends it the private ack and then announces it to everybody,
// the newcomer included.
func (h *Hub) Join(name string, handle chat.Deliverer, ack string) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed.Load() {
		return errors.ErrHubClosed
	}
	if err := h.registry.Register(name, handle); err != nil {
		return err
	}
	session := chat.Session{Name: strings.TrimSpace(name), Handle: handle}
	h.record(chat.Joined, session)
	h.log.Info("Session joined", "name", session.Name, "addr", handle.Key())

	if err := handle.Deliver(ack); err != nil {
		h.evict(session)
		return fmt.Errorf("deliver ack to %s: %w", session.Name, err)
	}
	h.announce(fmt.Sprintf(h.phrases.Joined, session.Name))
	return nil
}

// Leave removes the session bound to the handle key and announces it to the remaining peers.
// It reports false, and announces nothing, when that handle owns no session anymore
// (already evicted or never registered).
func (h *Hub) Leave(handle chat.Deliverer) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	name, ok := h.registry.NameOf(handle.Key())
	if !ok {
		return false
	}
	session, ok := h.registry.Lookup(name)
	if !ok || !h.registry.Unregister(name) {
		return false
	}
	h.record(chat.Left, session)
	h.log.Info("Session left", "name", name, "addr", handle.Key())
	h.announce(fmt.Sprintf(h.phrases.Left, name))
	return true
}

// Broadcast renders a chat line and delivers it to every session, the sender included.
// Failed sessions are evicted after the pass, without announcement.
func (h *Hub) Broadcast(sender, body string) Report {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.moderator != nil {
		body, _ = h.moderator.Censor(body)
	}
	return h.fanout(sender, body)
}

// Reply sends private lines to one peer. A failure evicts the peer silently.
func (h *Hub) Reply(handle chat.Deliverer, lines ...string) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, line := range lines {
		if err := handle.Deliver(line); err != nil {
			if name, ok := h.registry.NameOf(handle.Key()); ok {
				if session, ok := h.registry.Lookup(name); ok {
					h.evict(session)
				}
			}
			return fmt.Errorf("reply to %s: %w", handle.Key(), err)
		}
	}
	return nil
}

// Roster lists the active names in registration order.
func (h *Hub) Roster() []string {
	return lo.Map(h.registry.Snapshot(), func(s chat.Session, _ int) string { return s.Name })
}

// NameOf resolves the session name owning a handle key.
func (h *Hub) NameOf(key string) (string, bool) {
	return h.registry.NameOf(key)
}

func (h *Hub) Count() int {
	return h.registry.Count()
}

func (h *Hub) Transport() chat.Transport {
	return h.transport
}

// Shutdown drops every session and closes its handle.
// No announcement is sent, and later joins are refused.
// Handles are closed before taking the lock so a delivery stuck on a
// stalled peer cannot hold the shutdown.
func (h *Hub) Shutdown() {
	if !h.closed.CompareAndSwap(false, true) {
		return
	}
	for _, session := range h.registry.Snapshot() {
		h.close(session)
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for _, session := range h.registry.Snapshot() {
		if !h.registry.Unregister(session.Name) {
			continue
		}
		h.close(session)
		h.record(chat.Left, session)
	}
	h.log.Info("Hub shut down")
}

// announce broadcasts a status text from the system sender. Must hold h.mu.
func (h *Hub) announce(text string) {
	if h.closed.Load() {
		return
	}
	h.fanout(h.phrases.SystemSender, text)
}

// fanout delivers to a snapshot then applies evictions. Must hold h.mu.
func (h *Hub) fanout(sender, body string) Report {
	msg := chat.NewMessage(sender, body, h.now())
	report := Report{Line: msg.Format()}

	var failed []chat.Session
	for _, session := range h.registry.Snapshot() {
		if err := session.Handle.Deliver(report.Line); err != nil {
			h.log.Debug("Delivery failed", "name", session.Name, "error", err)
			failed = append(failed, session)
			continue
		}
		report.Delivered = append(report.Delivered, session.Name)
	}

	for _, session := range failed {
		if h.evict(session) {
			report.Evicted = append(report.Evicted, session.Name)
		}
	}
	return report
}

// evict removes a session without announcing it. Must hold h.mu.
func (h *Hub) evict(session chat.Session) bool {
	if !h.registry.Unregister(session.Name) {
		return false
	}
	h.close(session)
	h.record(chat.Evicted, session)
	h.log.Warn("Session evicted", "name", session.Name, "addr", session.Handle.Key())
	return true
}

func (h *Hub) close(session chat.Session) {
	if err := session.Handle.Close(); err != nil {
		h.log.Debug("Unable to close handle", "name", session.Name, "error", err)
	}
}

func (h *Hub) record(kind chat.PresenceKind, session chat.Session) {
	if h.journal == nil {
		return
	}
	event := chat.NewPresenceEvent(kind, h.transport, session, h.now())
	if err := h.journal.Record(event); err != nil {
		h.log.Warn("Unable to record presence", "kind", string(kind), "name", session.Name, "error", err)
	}
}
