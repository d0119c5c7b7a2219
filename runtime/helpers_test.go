package runtime

import (
	"chat-relay/errors"
	"log/slog"
	"sync"
)

// recorder is an in-memory delivery handle.
type recorder struct {
	mu     sync.Mutex
	key    string
	lines  []string
	fail   bool
	closed int
}

func newRecorder(key string) *recorder {
	return &recorder{key: key}
}

func (r *recorder) Key() string { return r.key }

func (r *recorder) Deliver(line string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail || r.closed > 0 {
		return errors.ErrHandleClosed
	}
	r.lines = append(r.lines, line)
	return nil
}

func (r *recorder) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed++
	return nil
}

func (r *recorder) Lines() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.lines...)
}

func (r *recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lines = nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
