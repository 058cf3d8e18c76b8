package sim

import (
	"context"
	"sort"
	"sync"
	"time"
)

// Loop drives named frame callbacks at a fixed interval. Every callback
// receives the interval as its simulated frame time.
//
// Invariant: callbacks run sequentially, in name order, at most once per tick.
type Loop struct {
	interval time.Duration
	mu       sync.Mutex
	ticks    map[string]func(time.Duration)
}

// NewLoop returns a loop that fires every interval.
//
// Precondition: interval must be > 0.
func NewLoop(interval time.Duration) *Loop {
	if interval <= 0 {
		panic("sim.NewLoop: interval must be > 0")
	}
	return &Loop{
		interval: interval,
		ticks:    make(map[string]func(time.Duration)),
	}
}

// Interval returns the frame interval.
func (l *Loop) Interval() time.Duration { return l.interval }

// RegisterTick registers fn under name. Replaces any existing callback.
func (l *Loop) RegisterTick(name string, fn func(time.Duration)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.ticks[name] = fn
}

// Unregister removes the callback registered under name.
func (l *Loop) Unregister(name string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.ticks, name)
}

// Step invokes every registered callback once.
func (l *Loop) Step() {
	l.mu.Lock()
	names := make([]string, 0, len(l.ticks))
	for name := range l.ticks {
		names = append(names, name)
	}
	sort.Strings(names)
	callbacks := make([]func(time.Duration), 0, len(names))
	for _, name := range names {
		callbacks = append(callbacks, l.ticks[name])
	}
	l.mu.Unlock()
	for _, fn := range callbacks {
		fn(l.interval)
	}
}

// Start runs Step on a wall-clock ticker until ctx is cancelled. The returned
// channel closes once the loop has stopped.
func (l *Loop) Start(ctx context.Context) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		ticker := time.NewTicker(l.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				l.Step()
			}
		}
	}()
	return done
}

// RunFor calls Step back to back until frames have elapsed or ctx is
// cancelled, without waiting on the wall clock.
//
// Postcondition: returns the number of frames stepped.
func (l *Loop) RunFor(ctx context.Context, frames int) int {
	n := 0
	for ; n < frames; n++ {
		if ctx.Err() != nil {
			break
		}
		l.Step()
	}
	return n
}
