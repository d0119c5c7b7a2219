//go:generate go run go.uber.org/mock/mockgen -source=contract.go -destination=../mocks/mock_contract.go -package=mocks
package contract

import (
	"chat-relay/domain/chat"
	"context"
	"reflect"
)

type ISupervisor interface {
	Add(worker ...Worker) ISupervisor
	Run(ctx context.Context)
	Start(ctx context.Context, worker Worker)
	Stop()
}

// Worker doesn't protect itself
// Can be silly, focused
type Worker interface {
	Run(ctx context.Context) error
}

// GetWorkerName uses reflection to retrieve the type name of the worker.
// This is used for logging and supervision purposes during worker initialization
// or lifecycle events, avoiding the need for manual naming in the Worker interface.
func GetWorkerName(w Worker) string {
	if w == nil {
		return "NilWorker"
	}
	t := reflect.TypeOf(w)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}

// IRegistry is the authoritative set of active sessions keyed by display name,
// with a reverse index from handle key to name.
type IRegistry interface {
	Register(name string, handle chat.Deliverer) error
	Unregister(name string) bool
	Lookup(name string) (chat.Session, bool)
	NameOf(key string) (string, bool)
	Snapshot() []chat.Session
	Count() int
}

// IJournal records presence changes. It never sees message content.
type IJournal interface {
	Record(event chat.PresenceEvent) error
	List(limit int) ([]chat.PresenceEvent, error)
}

// IModerator masks censored words in a chat body and reports what matched.
type IModerator interface {
	Censor(content string) (string, []string)
}

// Pool spawns one task per accepted connection.
// TryGo reports false when the task could not be started.
type Pool interface {
	TryGo(task func()) bool
	Wait()
}
