package combat

import (
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/hostile/internal/game/cue"
	"github.com/cory-johannsen/hostile/internal/game/damage"
	"github.com/cory-johannsen/hostile/internal/game/geom"
)

// Target is the entity an agent hunts: something with a position that can be damaged.
type Target interface {
	damage.Damageable
	Position() geom.Vec3
}

// Resolver locates the current target. It may report none, for example when
// the target has not spawned yet or was destroyed.
type Resolver interface {
	Resolve() (Target, bool)
}

// ResolverFunc adapts a function into a Resolver.
type ResolverFunc func() (Target, bool)

// Resolve calls f.
func (f ResolverFunc) Resolve() (Target, bool) { return f() }

// Fixed returns a Resolver that always yields t. A nil t resolves to nothing.
func Fixed(t Target) Resolver {
	return ResolverFunc(func() (Target, bool) { return t, t != nil })
}

// Context is the per-agent wiring a Behavior acts through.
type Context struct {
	// Owner is the agent id; every scheduled task is keyed by it.
	Owner string
	// Sched supplies the simulated clock and deferred tasks.
	Sched *Scheduler
	// Cues receives presentation signals.
	Cues cue.Sink
	// Resolve returns the current target or nil.
	Resolve func() Target
	// Position returns the owner's current position.
	Position func() geom.Vec3
	// Alive reports whether the owner is still alive; stale callbacks check it.
	Alive func() bool
	// Log is the owner's logger.
	Log *zap.Logger
}

func (c *Context) target() Target {
	if c.Resolve == nil {
		return nil
	}
	return c.Resolve()
}

// Behavior is one attack timing variant. The state machine calls Engage on
// every tick the target is in attack range and the behavior is not Busy.
type Behavior interface {
	// Reset starts the cooldown clock at now; called once at spawn.
	Reset(now time.Duration)
	// Engage triggers an attack when the cooldown allows.
	Engage(c *Context)
	// Tick advances any continuous effect; called every tick while alive.
	Tick(c *Context, dt time.Duration)
	// Busy reports an attack that must not be interrupted by re-evaluation.
	Busy() bool
	// PoseFrozen reports whether the combat pose latch is held.
	PoseFrozen() bool
	// Interrupt abandons a pending windup because the agent left attack range.
	Interrupt(c *Context)
	// Cancel tears down all pending work; called on death.
	Cancel(c *Context)
}
