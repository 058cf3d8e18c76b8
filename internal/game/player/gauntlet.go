package player

import (
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/hostile/internal/game/combat"
)

// StartCast opens the gauntlet channel.
//
// Postcondition: returns false while invincible, already casting, dead, or
// out of magic.
func (p *Player) StartCast() bool {
	if !p.IsAlive() || p.Casting() || p.Invincible() || p.magic <= 0 {
		return false
	}
	g := p.cfg.Gauntlet
	p.channel = combat.NewChannel(p.id, g.PulseDamage, g.PulseInterval)
	p.log.Debug("gauntlet cast started")
	return true
}

// StopCast closes the gauntlet channel. Idempotent.
func (p *Player) StopCast() {
	if p.channel == nil {
		return
	}
	p.channel.Deactivate()
	p.log.Debug("gauntlet cast stopped", zap.Int("pulses", p.channel.Pulses()))
	p.channel = nil
}

// Casting reports whether the gauntlet channel is open.
func (p *Player) Casting() bool { return p.channel != nil && p.channel.Active() }

// TickCast drains magic for dt and pulses the channel into target. The cast
// stops once the pool cannot cover the drain.
func (p *Player) TickCast(dt time.Duration, target combat.Target) {
	if !p.Casting() {
		return
	}
	drain := p.cfg.Gauntlet.MagicDrainPerSec * dt.Seconds()
	if p.magic <= drain {
		p.log.Debug("magic ran out")
		p.StopCast()
		return
	}
	p.UseMagic(drain)
	p.channel.Advance(dt, target, p.pos, p.cfg.Gauntlet.Reach)
}

// ActivateInvincibility grants invincibility for the configured duration.
// Casting stops.
//
// Postcondition: returns false when already invincible or dead.
func (p *Player) ActivateInvincibility() bool {
	if !p.IsAlive() || p.Invincible() {
		return false
	}
	p.StopCast()
	p.invincibleUntil = p.sched.Now() + p.cfg.Gauntlet.InvincibilityLasts
	p.log.Debug("invincibility activated", zap.Duration("for", p.cfg.Gauntlet.InvincibilityLasts))
	return true
}
