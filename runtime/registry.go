package runtime

import (
	"chat-relay/domain/chat"
	"chat-relay/errors"
	"sort"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/samber/lo"
)

type entry struct {
	session chat.Session
	seq     uint64
}

type candidate struct {
	Name string `validate:"required"`
}

// Registry keeps two indexes of the same sessions:
// name -> session and handle key -> name.
// Both are mutated under the same lock so they never disagree.
type Registry struct {
	mu       sync.RWMutex
	byName   map[string]entry
	byKey    map[string]string
	seq      uint64
	validate *validator.Validate
}

func NewRegistry() *Registry {
	return &Registry{
		byName:   make(map[string]entry),
		byKey:    make(map[string]string),
		validate: validator.New(),
	}
}

// Register binds name to handle.
// The name is compared exactly (case-sensitive) after trimming.
func (r *Registry) Register(name string, handle chat.Deliverer) error {
	name = strings.TrimSpace(name)
	if err := r.validate.Struct(candidate{Name: name}); err != nil {
		return errors.ErrEmptyName
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byName[name]; ok {
		return errors.ErrNameTaken
	}
	key := handle.Key()
	if _, ok := r.byKey[key]; ok {
		return errors.ErrHandleTaken
	}
	r.seq++
	r.byName[name] = entry{session: chat.Session{Name: name, Handle: handle}, seq: r.seq}
	r.byKey[key] = name
	return nil
}

// Unregister removes the session and reports whether one existed.
func (r *Registry) Unregister(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.byName[name]
	if !ok {
		return false
	}
	delete(r.byName, name)
	delete(r.byKey, e.session.Handle.Key())
	return true
}

func (r *Registry) Lookup(name string) (chat.Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.byName[name]
	return e.session, ok
}

// NameOf resolves a handle key (remote address) to the registered name.
func (r *Registry) NameOf(key string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	name, ok := r.byKey[key]
	return name, ok
}

// Snapshot returns a copy of the active sessions in registration order.
// Callers may iterate it without holding any lock.
func (r *Registry) Snapshot() []chat.Session {
	r.mu.RLock()
	entries := lo.Values(r.byName)
	r.mu.RUnlock()

	sort.Slice(entries, func(i, j int) bool { return entries[i].seq < entries[j].seq })
	return lo.Map(entries, func(e entry, _ int) chat.Session { return e.session })
}

func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byName)
}
