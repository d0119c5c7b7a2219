package repositories

import (
	"chat-relay/contract"
	"chat-relay/domain/chat"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/dgraph-io/badger/v4"
)

const presencePrefix = "presence:"

var (
	_ contract.IJournal = (*PresenceJournal)(nil)
	_ contract.IJournal = NopJournal{}
)

// PresenceJournal appends presence events to BadgerDB.
type PresenceJournal struct {
	db  *badger.DB
	log *slog.Logger
}

func NewPresenceJournal(db *badger.DB, log *slog.Logger) *PresenceJournal {
	return &PresenceJournal{db: db, log: log}
}

// OpenJournal opens (or creates) the badger directory at path.
// A read-only journal can be opened next to a running server for inspection.
func OpenJournal(path string, readOnly bool, log *slog.Logger) (*PresenceJournal, error) {
	options := badger.DefaultOptions(path).
		WithLoggingLevel(badger.ERROR).
		WithReadOnly(readOnly).
		WithBypassLockGuard(readOnly)
	db, err := badger.Open(options)
	if err != nil {
		return nil, fmt.Errorf("open journal %s: %w", path, err)
	}
	return NewPresenceJournal(db, log), nil
}

// Record stores the event under "presence:{timestamp_padded}:{uuid}".
// The 19-digit padding keeps lexicographical order chronological,
// the UUID separates two events of the same nanosecond.
func (j *PresenceJournal) Record(event chat.PresenceEvent) error {
	key := fmt.Sprintf("%s%019d:%s", presencePrefix, event.At.UnixNano(), event.ID)
	bytes, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return j.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), bytes)
	})
}

// List returns at most limit events, newest first. A limit <= 0 returns everything.
func (j *PresenceJournal) List(limit int) ([]chat.PresenceEvent, error) {
	var events []chat.PresenceEvent
	err := j.db.View(func(txn *badger.Txn) error {
		prefix := []byte(presencePrefix)
		options := badger.DefaultIteratorOptions
		options.Reverse = true
		options.Prefix = prefix
		it := txn.NewIterator(options)
		defer it.Close()

		// Start after the greatest possible timestamp and walk back
		seekKey := append(prefix, []byte("9999999999999999999~")...)
		for it.Seek(seekKey); it.ValidForPrefix(prefix); it.Next() {
			if limit > 0 && len(events) == limit {
				j.log.Debug(fmt.Sprintf("Maximum of %d presence events reached", limit))
				break
			}
			var event chat.PresenceEvent
			err := it.Item().Value(func(value []byte) error {
				return json.Unmarshal(value, &event)
			})
			if err != nil {
				return err
			}
			events = append(events, event)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return events, nil
}

func (j *PresenceJournal) Close() error {
	return j.db.Close()
}

// NopJournal is used when no journal directory is configured.
type NopJournal struct{}

func (NopJournal) Record(chat.PresenceEvent) error { return nil }

func (NopJournal) List(int) ([]chat.PresenceEvent, error) { return nil, nil }
