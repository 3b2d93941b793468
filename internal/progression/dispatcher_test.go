package progression

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memoryMirror is a stand-in for the persistence mirror: a per-user snapshot
// store with no transactional guarantees of its own.
type memoryMirror struct {
	mu     sync.Mutex
	states map[string]State
}

func newMemoryMirror() *memoryMirror {
	return &memoryMirror{states: make(map[string]State)}
}

func (m *memoryMirror) load(userID string) func() (State, error) {
	return func() (State, error) {
		m.mu.Lock()
		defer m.mu.Unlock()
		return m.states[userID].Clone(), nil
	}
}

func (m *memoryMirror) store(userID string) func(State) error {
	return func(s State) error {
		m.mu.Lock()
		defer m.mu.Unlock()
		m.states[userID] = s
		return nil
	}
}

func TestDispatcherAppliesStep(t *testing.T) {
	mirror := newMemoryMirror()
	mirror.states["u1"] = State{Gamified: true}

	var notified []Event
	d := NewDispatcher(func(userID string, ev Event) {
		assert.Equal(t, "u1", userID)
		notified = append(notified, ev)
	})

	policy := DefaultPolicy()
	next, events, err := d.Apply("u1", mirror.load("u1"), func(s State) (State, []Event) {
		return policy.AwardPoints(s, ActionSleepLogged)
	}, mirror.store("u1"))

	require.NoError(t, err)
	assert.Equal(t, 10, next.Points)
	assert.Equal(t, events, notified)
	assert.Equal(t, 10, mirror.states["u1"].Points)
}

func TestDispatcherSerializesConcurrentAwards(t *testing.T) {
	mirror := newMemoryMirror()
	mirror.states["u1"] = State{Gamified: true}

	d := NewDispatcher(nil)
	policy := DefaultPolicy()

	const n = 50
	var wg sync.WaitGroup
	wg.Add(n)
	for range n {
		go func() {
			defer wg.Done()
			_, _, err := d.Apply("u1", mirror.load("u1"), func(s State) (State, []Event) {
				return policy.AwardPoints(s, ActionChatMessageSent)
			}, mirror.store("u1"))
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	// Every award must land; lost updates would leave points short.
	assert.Equal(t, n*5, mirror.states["u1"].Points)
}

func TestDispatcherIndependentUsers(t *testing.T) {
	mirror := newMemoryMirror()
	mirror.states["u1"] = State{Gamified: true}
	mirror.states["u2"] = State{Gamified: true}

	d := NewDispatcher(nil)
	policy := DefaultPolicy()

	var wg sync.WaitGroup
	for _, userID := range []string{"u1", "u2"} {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 10 {
				_, _, err := d.Apply(userID, mirror.load(userID), func(s State) (State, []Event) {
					return policy.AwardPoints(s, ActionMoodLogged)
				}, mirror.store(userID))
				assert.NoError(t, err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 100, mirror.states["u1"].Points)
	assert.Equal(t, 100, mirror.states["u2"].Points)
}

func TestDispatcherLoadErrorSkipsStore(t *testing.T) {
	d := NewDispatcher(nil)

	stored := false
	_, _, err := d.Apply("u1",
		func() (State, error) { return State{}, assert.AnError },
		func(s State) (State, []Event) { return s, nil },
		func(State) error { stored = true; return nil },
	)

	require.Error(t, err)
	assert.False(t, stored)
}
