package progression

import "sync"

// Step computes the next state from the current one. Steps must be pure:
// all side effects happen through the returned state and events.
type Step func(State) (State, []Event)

// Sink receives events for surfacing to the user (banner, notification
// feed). May be nil.
type Sink func(userID string, ev Event)

// Dispatcher is the single serialized apply point for state transitions.
// Concurrent triggers for the same user (two taps landing together) are
// applied one after another as whole-state replacements, so a step never
// observes a half-updated record and point awards never read stale totals.
// Different users proceed independently.
type Dispatcher struct {
	mu    sync.Mutex
	users map[string]*sync.Mutex
	sink  Sink
}

func NewDispatcher(sink Sink) *Dispatcher {
	return &Dispatcher{
		users: make(map[string]*sync.Mutex),
		sink:  sink,
	}
}

func (d *Dispatcher) userLock(userID string) *sync.Mutex {
	d.mu.Lock()
	defer d.mu.Unlock()

	lock, ok := d.users[userID]
	if !ok {
		lock = &sync.Mutex{}
		d.users[userID] = lock
	}
	return lock
}

// Apply runs load → step → store for one user under that user's lock and
// forwards the step's events to the sink. load and store bridge to the
// persistence mirror; the engine itself never performs I/O beyond these
// callbacks.
func (d *Dispatcher) Apply(userID string, load func() (State, error), step Step, store func(State) error) (State, []Event, error) {
	lock := d.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	current, err := load()
	if err != nil {
		return State{}, nil, err
	}

	next, events := step(current)

	err = store(next)
	if err != nil {
		return State{}, nil, err
	}

	if d.sink != nil {
		for _, ev := range events {
			d.sink(userID, ev)
		}
	}

	return next, events, nil
}
