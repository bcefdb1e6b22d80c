package application

import (
	"context"
	"sync"

	"golang.org/x/sync/semaphore"
)

// Action names a network operation that may have at most one call outstanding
type Action string

const (
	ActionFetch   Action = "fetch"
	ActionSubmit  Action = "submit"
	ActionAnalyze Action = "analyze"
	ActionChat    Action = "chat"
)

// Guard is a per-action single-flight token. A call made while another call
// of the same action is outstanding fails fast with ErrBusy instead of queueing.
type Guard struct {
	mu    sync.Mutex
	slots map[Action]*semaphore.Weighted
}

// NewGuard creates a Guard with no outstanding actions
func NewGuard() *Guard {
	return &Guard{slots: make(map[Action]*semaphore.Weighted)}
}

func (g *Guard) slot(a Action) *semaphore.Weighted {
	g.mu.Lock()
	defer g.mu.Unlock()
	s, ok := g.slots[a]
	if !ok {
		s = semaphore.NewWeighted(1)
		g.slots[a] = s
	}
	return s
}

// Begin takes the token for a. The returned release func must be called
// exactly once when the operation finishes.
func (g *Guard) Begin(a Action) (release func(), err error) {
	s := g.slot(a)
	if !s.TryAcquire(1) {
		return nil, &BusyError{Action: a}
	}
	var once sync.Once
	return func() { once.Do(func() { s.Release(1) }) }, nil
}

// Wait takes the token for a, blocking until any outstanding call of a
// finishes or ctx is done
func (g *Guard) Wait(ctx context.Context, a Action) (release func(), err error) {
	s := g.slot(a)
	if err := s.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	var once sync.Once
	return func() { once.Do(func() { s.Release(1) }) }, nil
}

// Busy reports whether a is currently outstanding
func (g *Guard) Busy(a Action) bool {
	s := g.slot(a)
	if !s.TryAcquire(1) {
		return true
	}
	s.Release(1)
	return false
}

// Do runs fn while holding the token for a
func (g *Guard) Do(a Action, fn func() error) error {
	release, err := g.Begin(a)
	if err != nil {
		return err
	}
	defer release()
	return fn()
}
