package combat

import (
	"time"

	"github.com/cory-johannsen/hostile/internal/game/geom"
)

// Channel is a sustained damage stream, such as a cast spell or a gauntlet
// beam. While active it pulses Damage into its target every Interval.
type Channel struct {
	owner    string
	damage   float64
	interval time.Duration
	elapsed  time.Duration
	primed   bool
	active   bool
	pulses   int
}

// NewChannel returns an active channel whose first pulse lands on the next Advance.
//
// Precondition: interval > 0.
func NewChannel(owner string, damage float64, interval time.Duration) *Channel {
	return &Channel{owner: owner, damage: damage, interval: interval, primed: true, active: true}
}

// Advance accrues dt and delivers every pulse that falls due. A pulse lands
// only when target is non-nil, alive, and within reach of origin; reach <= 0
// means unlimited. Returns the number of pulses that landed.
func (ch *Channel) Advance(dt time.Duration, target Target, origin geom.Vec3, reach float64) int {
	if !ch.active {
		return 0
	}
	due := 1
	if ch.primed {
		ch.primed = false
	} else if ch.interval > 0 {
		ch.elapsed += dt
		due = int(ch.elapsed / ch.interval)
		ch.elapsed -= time.Duration(due) * ch.interval
	}
	landed := 0
	for i := 0; i < due; i++ {
		if target == nil || !target.IsAlive() {
			break
		}
		if reach > 0 && geom.Distance(origin, target.Position()) > reach {
			break
		}
		target.TakeDamage(ch.damage)
		landed++
	}
	ch.pulses += landed
	return landed
}

// Deactivate stops the channel. Idempotent.
func (ch *Channel) Deactivate() { ch.active = false }

// Active reports whether the channel still emits.
func (ch *Channel) Active() bool { return ch.active }

// Owner returns the id of the emitting entity.
func (ch *Channel) Owner() string { return ch.owner }

// Damage returns the per-pulse payload.
func (ch *Channel) Damage() float64 { return ch.damage }

// Pulses returns the number of pulses that have landed.
func (ch *Channel) Pulses() int { return ch.pulses }
