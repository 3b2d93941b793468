package progression

import "time"

// Clock abstracts wall-clock access so the unlock scheduler and habit aging
// can be driven by a fixed time in tests. Engine functions never call
// time.Now directly.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

func SystemClock() Clock { return systemClock{} }

// FixedClock always reports the same instant.
type FixedClock time.Time

func (c FixedClock) Now() time.Time { return time.Time(c) }
