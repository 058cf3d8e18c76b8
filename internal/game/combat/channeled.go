package combat

import (
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Phase is the sub-state of a Channeled attack.
type Phase int

const (
	// PhaseCooldown waits for the spell cooldown to elapse.
	PhaseCooldown Phase = iota
	// PhaseWindup waits Delay between the trigger and the channel opening.
	PhaseWindup
	// PhaseWindow holds the channel open for Window.
	PhaseWindow
)

func (p Phase) String() string {
	switch p {
	case PhaseCooldown:
		return "cooldown"
	case PhaseWindup:
		return "windup"
	case PhaseWindow:
		return "window"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// Channeled is a ranged attack that cycles Cooldown → Windup → Window → Cooldown.
// During the window the caster holds a frozen pose and a Channel pulses
// damage into the target. Windup and window cannot be interrupted.
type Channeled struct {
	Damage        float64
	Delay         time.Duration
	Window        time.Duration
	Cooldown      time.Duration
	PulseInterval time.Duration
	// Reach limits pulses to targets within this distance; <= 0 is unlimited.
	Reach float64

	phase       Phase
	readySince  time.Duration
	task        *Task
	channel     *Channel
	frozen      bool
	activations int
}

// NewChanneled returns a Channeled behavior.
//
// Precondition: window > 0; pulse > 0; cooldown >= 0; delay >= 0.
func NewChanneled(damage float64, delay, window, cooldown, pulse time.Duration, reach float64) *Channeled {
	return &Channeled{
		Damage:        damage,
		Delay:         delay,
		Window:        window,
		Cooldown:      cooldown,
		PulseInterval: pulse,
		Reach:         reach,
	}
}

func (ch *Channeled) Reset(now time.Duration) { ch.readySince = now }

// Engage starts a windup when the cooldown has elapsed.
func (ch *Channeled) Engage(c *Context) {
	if ch.phase != PhaseCooldown {
		return
	}
	if c.Sched.Now()-ch.readySince < ch.Cooldown {
		return
	}
	ch.phase = PhaseWindup
	c.Cues.AttackTriggered(c.Owner)
	ch.task = c.Sched.After(c.Owner, ch.Delay, func() { ch.open(c) })
}

func (ch *Channeled) open(c *Context) {
	ch.task = nil
	if !c.Alive() || ch.phase != PhaseWindup {
		return
	}
	if t := c.target(); t != nil && t.IsAlive() {
		ch.channel = NewChannel(c.Owner, ch.Damage, ch.PulseInterval)
		ch.activations++
	} else {
		c.Log.Debug("channel not opened: no living target")
	}
	ch.frozen = true
	c.Cues.PoseFrozen(c.Owner, true)
	ch.phase = PhaseWindow
	ch.task = c.Sched.After(c.Owner, ch.Window, func() { ch.close(c) })
}

func (ch *Channeled) close(c *Context) {
	ch.task = nil
	if !c.Alive() || ch.phase != PhaseWindow {
		return
	}
	pulses := 0
	if ch.channel != nil {
		pulses = ch.channel.Pulses()
	}
	ch.teardown(c)
	ch.readySince = c.Sched.Now()
	c.Log.Debug("channel window closed", zap.Int("pulses", pulses))
}

func (ch *Channeled) teardown(c *Context) {
	if ch.channel != nil {
		ch.channel.Deactivate()
		ch.channel = nil
	}
	if ch.frozen {
		ch.frozen = false
		c.Cues.PoseFrozen(c.Owner, false)
	}
	ch.phase = PhaseCooldown
}

// Tick pulses the open channel into the target.
func (ch *Channeled) Tick(c *Context, dt time.Duration) {
	if ch.phase != PhaseWindow || ch.channel == nil {
		return
	}
	ch.channel.Advance(dt, c.target(), c.Position(), ch.Reach)
}

func (ch *Channeled) Busy() bool { return ch.phase != PhaseCooldown }

func (ch *Channeled) PoseFrozen() bool { return ch.frozen }

// Interrupt is a no-op: a channeled attack in progress is protected.
func (ch *Channeled) Interrupt(*Context) {}

// Cancel aborts any windup or window and releases the pose latch.
func (ch *Channeled) Cancel(c *Context) {
	ch.task.Cancel()
	ch.task = nil
	ch.teardown(c)
}

// Phase returns the current sub-state.
func (ch *Channeled) Phase() Phase { return ch.phase }

// Activations returns how many channels have been opened.
func (ch *Channeled) Activations() int { return ch.activations }

// Channel returns the open channel, or nil outside the window.
func (ch *Channeled) Channel() *Channel { return ch.channel }
