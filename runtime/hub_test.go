package runtime

import (
	"chat-relay/domain/chat"
	"chat-relay/errors"
	"chat-relay/mocks"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

var aliceHi = regexp.MustCompile(`^\[\d{2}:\d{2}:\d{2}\] alice: hi$`)

func newTestHub(t *testing.T, transport chat.Transport) (*Hub, chat.Phrases) {
	t.Helper()
	phrases, err := chat.PhrasesFor("en")
	require.NoError(t, err)
	return NewHub(transport, NewRegistry(), nil, nil, phrases, discardLogger()), phrases
}

func TestHub_Broadcast_Reaches_Everyone_Including_Sender(t *testing.T) {
	req := require.New(t)
	hub, _ := newTestHub(t, chat.Stream)
	alice, bob, carol := newRecorder("a:1"), newRecorder("b:1"), newRecorder("c:1")

	// Given three registered peers
	req.NoError(hub.Join("alice", alice, "ack"))
	req.NoError(hub.Join("bob", bob, "ack"))
	req.NoError(hub.Join("carol", carol, "ack"))
	alice.Reset()
	bob.Reset()
	carol.Reset()

	// When alice says hi
	report := hub.Broadcast("alice", "hi")

	// Then every handle received exactly one matching line
	req.Regexp(aliceHi, report.Line)
	req.Equal([]string{"alice", "bob", "carol"}, report.Delivered)
	req.Empty(report.Evicted)
	for _, r := range []*recorder{alice, bob, carol} {
		lines := r.Lines()
		req.Len(lines, 1)
		req.Regexp(aliceHi, lines[0])
	}
}

func TestHub_Broadcast_Evicts_Failed_Handle_Silently(t *testing.T) {
	req := require.New(t)
	hub, _ := newTestHub(t, chat.Datagram)
	alice, ghost, carol := newRecorder("a:1"), newRecorder("g:1"), newRecorder("c:1")

	req.NoError(hub.Join("alice", alice, "ack"))
	req.NoError(hub.Join("ghost", ghost, "ack"))
	req.NoError(hub.Join("carol", carol, "ack"))
	alice.Reset()
	carol.Reset()

	// Given ghost became unreachable
	ghost.fail = true

	// When alice broadcasts twice
	first := hub.Broadcast("alice", "hi")
	second := hub.Broadcast("alice", "hi")

	// Then ghost is evicted after the first pass, its handle closed,
	// and the others got no leave announcement
	req.Equal([]string{"ghost"}, first.Evicted)
	req.Equal([]string{"alice", "carol"}, first.Delivered)
	req.Equal([]string{"alice", "carol"}, second.Delivered)
	req.Empty(second.Evicted)
	req.Equal(1, ghost.closed)
	req.Equal([]string{"alice", "carol"}, hub.Roster())
	req.Len(alice.Lines(), 2)
	req.Len(carol.Lines(), 2)
}

func TestHub_Join_Ack_Then_Own_Announcement(t *testing.T) {
	req := require.New(t)
	hub, phrases := newTestHub(t, chat.Stream)
	alice, bob := newRecorder("a:1"), newRecorder("b:1")
	req.NoError(hub.Join("alice", alice, "ack-alice"))

	// When bob joins
	ack := phrases.LoginAck(chat.Stream, "bob")
	req.NoError(hub.Join("bob", bob, ack))

	// Then bob first gets his private ack, then his own join announcement
	lines := bob.Lines()
	req.Len(lines, 2)
	req.Equal("SUCCESS:Login succeeded! Welcome bob", lines[0])
	req.Regexp(`^\[\d{2}:\d{2}:\d{2}\] system: bob joined the chat room$`, lines[1])

	// And alice only sees the announcement
	aliceLines := alice.Lines()
	req.Equal("ack-alice", aliceLines[0])
	req.Regexp(`system: bob joined the chat room$`, aliceLines[len(aliceLines)-1])
	req.NotContains(aliceLines, ack)
}

func TestHub_Join_Duplicate_Name_Leaves_Registry_Untouched(t *testing.T) {
	req := require.New(t)
	hub, _ := newTestHub(t, chat.Stream)
	alice, impostor := newRecorder("a:1"), newRecorder("x:1")
	req.NoError(hub.Join("alice", alice, "ack"))
	alice.Reset()

	err := hub.Join("alice", impostor, "ack")

	req.ErrorIs(err, errors.ErrNameTaken)
	req.Empty(impostor.Lines())
	req.Empty(alice.Lines())
	req.Equal(1, hub.Count())
}

func TestHub_Join_Failed_Ack_Evicts(t *testing.T) {
	req := require.New(t)
	hub, _ := newTestHub(t, chat.Stream)
	broken := newRecorder("b:1")
	broken.fail = true

	err := hub.Join("bob", broken, "ack")

	req.ErrorIs(err, errors.ErrHandleClosed)
	req.Zero(hub.Count())
}

func TestHub_Leave_Announces_To_Others_Only(t *testing.T) {
	req := require.New(t)
	hub, _ := newTestHub(t, chat.Stream)
	alice, bob := newRecorder("a:1"), newRecorder("b:1")
	req.NoError(hub.Join("alice", alice, "ack"))
	req.NoError(hub.Join("bob", bob, "ack"))
	alice.Reset()
	bob.Reset()

	// When bob leaves
	req.True(hub.Leave(bob))

	// Then alice is told, bob is not
	req.Empty(bob.Lines())
	lines := alice.Lines()
	req.Len(lines, 1)
	req.Regexp(`system: bob left the chat room$`, lines[0])

	// And leaving twice is a no-op
	req.False(hub.Leave(bob))
	req.Len(alice.Lines(), 1)
}

func TestHub_Leave_After_Eviction_Is_Silent(t *testing.T) {
	req := require.New(t)
	hub, _ := newTestHub(t, chat.Stream)
	alice, bob := newRecorder("a:1"), newRecorder("b:1")
	req.NoError(hub.Join("alice", alice, "ack"))
	req.NoError(hub.Join("bob", bob, "ack"))
	bob.fail = true
	hub.Broadcast("alice", "hi")
	alice.Reset()

	// When the evicted peer's goroutine runs its exit path
	req.False(hub.Leave(bob))

	// Then nothing is announced
	req.Empty(alice.Lines())
}

func TestHub_Reply_Failure_Evicts(t *testing.T) {
	req := require.New(t)
	hub, _ := newTestHub(t, chat.Datagram)
	alice := newRecorder("a:1")
	req.NoError(hub.Join("alice", alice, "ack"))
	alice.fail = true

	err := hub.Reply(alice, "line")

	req.Error(err)
	req.Zero(hub.Count())
	req.Equal(1, alice.closed)
}

func TestHub_Shutdown_Closes_Everything(t *testing.T) {
	req := require.New(t)
	hub, _ := newTestHub(t, chat.Stream)
	alice, bob := newRecorder("a:1"), newRecorder("b:1")
	req.NoError(hub.Join("alice", alice, "ack"))
	req.NoError(hub.Join("bob", bob, "ack"))
	bob.Reset()

	hub.Shutdown()

	req.Zero(hub.Count())
	req.Positive(alice.closed)
	req.Positive(bob.closed)
	req.Empty(bob.Lines())
	req.ErrorIs(hub.Join("carol", newRecorder("c:1"), "ack"), errors.ErrHubClosed)
}

func TestHub_Moderates_And_Journals(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	journal := mocks.NewMockIJournal(ctrl)
	moderator := mocks.NewMockIModerator(ctrl)
	phrases, err := chat.PhrasesFor("en")
	req.NoError(err)

	hub := NewHub(chat.Datagram, NewRegistry(), journal, moderator, phrases, discardLogger())
	hub.now = func() time.Time { return time.Date(2024, 5, 1, 9, 5, 7, 0, time.Local) }
	alice := newRecorder("10.0.0.1:4000")

	// Given the journal expects a join then a leave for alice
	gomock.InOrder(
		journal.EXPECT().Record(gomock.Any()).DoAndReturn(func(e chat.PresenceEvent) error {
			req.Equal(chat.Joined, e.Kind)
			req.Equal("alice", e.Name)
			req.Equal(chat.Datagram, e.Transport)
			req.Equal("10.0.0.1:4000", e.Addr)
			return nil
		}),
		journal.EXPECT().Record(gomock.Any()).DoAndReturn(func(e chat.PresenceEvent) error {
			req.Equal(chat.Left, e.Kind)
			return nil
		}),
	)
	// And the moderator masks the body
	moderator.EXPECT().Censor("you badger").Return("you ******", []string{"badger"})

	req.NoError(hub.Join("alice", alice, "ack"))
	report := hub.Broadcast("alice", "you badger")
	req.True(hub.Leave(alice))

	req.Equal("[09:05:07] alice: you ******", report.Line)
}
