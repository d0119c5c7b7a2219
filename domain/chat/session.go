//go:generate go run go.uber.org/mock/mockgen -source=session.go -destination=../../mocks/mock_deliverer.go -package=mocks

// Package chat contains the core concepts of the relay: sessions, messages,
// the line and datagram framings and the user facing phrases.
// No network or runtime logic should be added here.
package chat

import (
	"time"

	"github.com/google/uuid"
)

type Transport string

const (
	Stream   Transport = "stream"
	Datagram Transport = "datagram"
)

// Deliverer pushes one line of text to a single peer.
// A returned error means the peer is considered gone.
type Deliverer interface {
	Key() string
	Deliver(line string) error
	Close() error
}

// Session binds a unique display name to the handle used to reach it.
type Session struct {
	Name   string
	Handle Deliverer
}

type PresenceKind string

const (
	Joined  PresenceKind = "joined"
	Left    PresenceKind = "left"
	Evicted PresenceKind = "evicted"
)

// PresenceEvent records a session entering or leaving the registry.
// It never carries message content.
type PresenceEvent struct {
	ID        uuid.UUID    `json:"id"`
	Kind      PresenceKind `json:"kind"`
	Name      string       `json:"name"`
	Transport Transport    `json:"transport"`
	Addr      string       `json:"addr"`
	At        time.Time    `json:"at"`
}

func NewPresenceEvent(kind PresenceKind, transport Transport, session Session, at time.Time) PresenceEvent {
	return PresenceEvent{
		ID:        uuid.New(),
		Kind:      kind,
		Name:      session.Name,
		Transport: transport,
		Addr:      session.Handle.Key(),
		At:        at,
	}
}
