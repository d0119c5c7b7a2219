package runtime

import (
	"chat-relay/domain/chat"
	"chat-relay/errors"
	"fmt"
	"sync"
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
)

func TestRegistry_Register_Distinct_Names(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()

	// When three distinct names register
	for i := range 3 {
		name := fmt.Sprintf("user-%d", i)
		req.NoError(registry.Register(name, newRecorder(fmt.Sprintf("10.0.0.%d:1", i))))
	}

	// Then all of them are counted and listed in registration order
	req.Equal(3, registry.Count())
	names := lo.Map(registry.Snapshot(), func(s chat.Session, _ int) string { return s.Name })
	req.Equal([]string{"user-0", "user-1", "user-2"}, names)
}

func TestRegistry_Register_Duplicate_Name(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	first := newRecorder("10.0.0.1:1")

	// Given alice is registered
	req.NoError(registry.Register("alice", first))

	// When another handle claims the same name
	err := registry.Register("alice", newRecorder("10.0.0.2:1"))

	// Then it is rejected and the registry is unchanged
	req.ErrorIs(err, errors.ErrNameTaken)
	req.Equal(1, registry.Count())
	session, ok := registry.Lookup("alice")
	req.True(ok)
	req.Same(first, session.Handle)
}

func TestRegistry_Register_Names_Are_Case_Sensitive(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()

	req.NoError(registry.Register("alice", newRecorder("a:1")))
	req.NoError(registry.Register("Alice", newRecorder("a:2")))
	req.Equal(2, registry.Count())
}

func TestRegistry_Register_Trims_Name(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()

	req.NoError(registry.Register("  bob \t", newRecorder("b:1")))
	_, ok := registry.Lookup("bob")
	req.True(ok)
	req.ErrorIs(registry.Register("bob", newRecorder("b:2")), errors.ErrNameTaken)
}

func TestRegistry_Register_Empty_Name(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()

	req.ErrorIs(registry.Register("", newRecorder("e:1")), errors.ErrEmptyName)
	req.ErrorIs(registry.Register("   ", newRecorder("e:2")), errors.ErrEmptyName)
	req.Zero(registry.Count())
}

func TestRegistry_Register_Handle_Already_Bound(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()

	// Given an address registered as alice
	req.NoError(registry.Register("alice", newRecorder("10.0.0.1:5000")))

	// When the same address tries to register a second name
	err := registry.Register("bob", newRecorder("10.0.0.1:5000"))

	// Then the second name is refused
	req.ErrorIs(err, errors.ErrHandleTaken)
	_, ok := registry.Lookup("bob")
	req.False(ok)
}

func TestRegistry_Unregister_Keeps_Both_Indexes_Consistent(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	req.NoError(registry.Register("alice", newRecorder("10.0.0.1:5000")))

	name, ok := registry.NameOf("10.0.0.1:5000")
	req.True(ok)
	req.Equal("alice", name)

	req.True(registry.Unregister("alice"))

	_, ok = registry.NameOf("10.0.0.1:5000")
	req.False(ok)
	_, ok = registry.Lookup("alice")
	req.False(ok)

	// The freed address can register again
	req.NoError(registry.Register("alice2", newRecorder("10.0.0.1:5000")))
}

func TestRegistry_Unregister_Unknown_Name(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	req.NoError(registry.Register("alice", newRecorder("a:1")))

	req.False(registry.Unregister("nobody"))
	req.Equal(1, registry.Count())
}

func TestRegistry_Snapshot_Is_A_Copy(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	req.NoError(registry.Register("alice", newRecorder("a:1")))

	snapshot := registry.Snapshot()
	req.True(registry.Unregister("alice"))

	req.Len(snapshot, 1)
	req.Empty(registry.Snapshot())
}

func TestRegistry_Concurrent_Registration_Of_Same_Name(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()

	var wg sync.WaitGroup
	var mu sync.Mutex
	succeeded := 0
	for i := range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if registry.Register("alice", newRecorder(fmt.Sprintf("c:%d", i))) == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	req.Equal(1, succeeded)
	req.Equal(1, registry.Count())
}
