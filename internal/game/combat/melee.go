package combat

import (
	"time"

	"go.uber.org/zap"
)

// Melee strikes the target directly once per cooldown. A zero Delay lands
// the hit on the trigger tick; a positive Delay holds it for a windup so the
// damage lines up with the swing animation.
type Melee struct {
	Damage   float64
	Cooldown time.Duration
	Delay    time.Duration

	lastTrigger time.Duration
	windup      *Task
	strikes     int
}

// NewMelee returns a Melee behavior.
//
// Precondition: damage >= 0; cooldown > 0; delay >= 0.
func NewMelee(damage float64, cooldown, delay time.Duration) *Melee {
	return &Melee{Damage: damage, Cooldown: cooldown, Delay: delay}
}

func (m *Melee) Reset(now time.Duration) { m.lastTrigger = now }

// Engage triggers an attack if the cooldown has elapsed and no windup is pending.
//
// Postcondition: at most one windup is pending at any time.
func (m *Melee) Engage(c *Context) {
	if !m.windup.Done() {
		return
	}
	now := c.Sched.Now()
	if now-m.lastTrigger < m.Cooldown {
		return
	}
	m.lastTrigger = now
	c.Cues.AttackTriggered(c.Owner)
	if m.Delay <= 0 {
		m.strike(c)
		return
	}
	m.windup = c.Sched.After(c.Owner, m.Delay, func() {
		m.windup = nil
		if !c.Alive() {
			return
		}
		m.strike(c)
	})
}

func (m *Melee) strike(c *Context) {
	t := c.target()
	if t == nil || !t.IsAlive() {
		c.Log.Debug("melee strike skipped: no living target")
		return
	}
	t.TakeDamage(m.Damage)
	m.strikes++
	c.Log.Debug("melee strike", zap.Float64("damage", m.Damage), zap.Float64("target_hp", t.CurrentHP()))
}

func (m *Melee) Tick(*Context, time.Duration) {}

func (m *Melee) Busy() bool { return false }

func (m *Melee) PoseFrozen() bool { return false }

func (m *Melee) Interrupt(*Context) {
	m.windup.Cancel()
	m.windup = nil
}

func (m *Melee) Cancel(c *Context) { m.Interrupt(c) }

// Strikes returns the number of hits delivered so far.
func (m *Melee) Strikes() int { return m.strikes }

// WindingUp reports whether a delayed hit is pending.
func (m *Melee) WindingUp() bool { return !m.windup.Done() }
