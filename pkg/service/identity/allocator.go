package identity

import "github.com/m-mizutani/provlog/pkg/model"

// Allocator issues per-kind monotonic ordinals scoped to the current
// session. Counters start at zero for every newly observed session;
// uniqueness across sessions comes from the session identifier
// embedded in the identifier string.
type Allocator struct {
	counters map[model.IDKind]uint64
}

func NewAllocator() *Allocator {
	return &Allocator{
		counters: make(map[model.IDKind]uint64),
	}
}

// Allocate increments the counter for kind and returns
// "<kind>/<scope>/<ordinal>". Ordinals are contiguous from 1.
func (a *Allocator) Allocate(kind model.IDKind, scope string) model.ID {
	a.counters[kind]++
	return model.NewScopedID(kind, scope, a.counters[kind])
}

// Reset zeroes every counter. Called when a new session is adopted.
func (a *Allocator) Reset() {
	clear(a.counters)
}
