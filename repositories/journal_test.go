package repositories

import (
	"chat-relay/domain/chat"
	"log/slog"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
)

func newEvent(kind chat.PresenceKind, name string, at time.Time) chat.PresenceEvent {
	return chat.PresenceEvent{
		ID:        uuid.New(),
		Kind:      kind,
		Name:      name,
		Transport: chat.Stream,
		Addr:      "127.0.0.1:40000",
		At:        at,
	}
}

func Test_Record_Multiple_Presence_Newest_First(t *testing.T) {
	req := require.New(t)
	db, err := badger.Open(badger.DefaultOptions(t.TempDir()).WithLoggingLevel(badger.ERROR))
	req.NoError(err)
	defer db.Close()

	journal := NewPresenceJournal(db, slog.New(slog.DiscardHandler))
	at := time.Now().UTC()
	events := []chat.PresenceEvent{
		newEvent(chat.Joined, "alice", at),
		newEvent(chat.Joined, "bob", at.Add(time.Minute)),
		newEvent(chat.Evicted, "alice", at.Add(2*time.Minute)),
	}
	for _, e := range events {
		req.NoError(journal.Record(e))
	}

	fetched, err := journal.List(0)
	req.NoError(err)
	req.Len(fetched, len(events))
	req.Equal(lo.Reverse(append([]chat.PresenceEvent(nil), events...)), fetched)
}

func Test_Record_Multiple_Presence_And_Limit(t *testing.T) {
	req := require.New(t)
	db, err := badger.Open(badger.DefaultOptions(t.TempDir()).WithLoggingLevel(badger.ERROR))
	req.NoError(err)
	defer db.Close()

	journal := NewPresenceJournal(db, slog.New(slog.DiscardHandler))
	at := time.Now().UTC()
	for i, name := range []string{"alice", "bob", "carol"} {
		req.NoError(journal.Record(newEvent(chat.Joined, name, at.Add(time.Duration(i)*time.Second))))
	}

	fetched, err := journal.List(2)
	req.NoError(err)
	req.Equal([]string{"carol", "bob"}, lo.Map(fetched, func(e chat.PresenceEvent, _ int) string { return e.Name }))
}

func Test_Record_Same_Nanosecond_Keeps_Both(t *testing.T) {
	req := require.New(t)
	db, err := badger.Open(badger.DefaultOptions(t.TempDir()).WithLoggingLevel(badger.ERROR))
	req.NoError(err)
	defer db.Close()

	journal := NewPresenceJournal(db, slog.New(slog.DiscardHandler))
	at := time.Now().UTC()
	req.NoError(journal.Record(newEvent(chat.Joined, "alice", at)))
	req.NoError(journal.Record(newEvent(chat.Left, "alice", at)))

	fetched, err := journal.List(0)
	req.NoError(err)
	req.Len(fetched, 2)
}

func Test_OpenJournal_ReadOnly_After_Write(t *testing.T) {
	req := require.New(t)
	path := t.TempDir()
	log := slog.New(slog.DiscardHandler)

	writer, err := OpenJournal(path, false, log)
	req.NoError(err)
	req.NoError(writer.Record(newEvent(chat.Joined, "alice", time.Now().UTC())))
	req.NoError(writer.Close())

	reader, err := OpenJournal(path, true, log)
	req.NoError(err)
	defer reader.Close()

	fetched, err := reader.List(10)
	req.NoError(err)
	req.Len(fetched, 1)
	req.Equal("alice", fetched[0].Name)
}

func Test_NopJournal(t *testing.T) {
	req := require.New(t)
	journal := NopJournal{}

	req.NoError(journal.Record(newEvent(chat.Joined, "alice", time.Now())))
	events, err := journal.List(10)
	req.NoError(err)
	req.Empty(events)
}
