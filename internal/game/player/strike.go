package player

import (
	"go.uber.org/zap"

	"github.com/cory-johannsen/hostile/internal/game/damage"
	"github.com/cory-johannsen/hostile/internal/game/geom"
)

// Area returns the damageables within radius of center.
type Area func(center geom.Vec3, radius float64) []damage.Damageable

// Strike swings at everything in range. The hit lands after the strike delay
// and uses the player's position at that moment.
//
// Postcondition: returns false when the cooldown has not elapsed, a swing is
// already winding up, or the player is dead.
func (p *Player) Strike(area Area) bool {
	if !p.IsAlive() || !p.swing.Done() {
		return false
	}
	now := p.sched.Now()
	if p.struck && now-p.lastStrike < p.cfg.Strike.Cooldown {
		return false
	}
	p.struck = true
	p.lastStrike = now
	p.swing = p.sched.After(p.id, p.cfg.Strike.Delay, func() {
		p.swing = nil
		if !p.IsAlive() {
			return
		}
		hits := 0
		for _, d := range area(p.pos, p.cfg.Strike.Range) {
			if d == nil || !d.IsAlive() || d == damage.Damageable(p) {
				continue
			}
			d.TakeDamage(p.cfg.Strike.Damage)
			hits++
		}
		p.log.Debug("strike landed", zap.Int("hits", hits))
	})
	return true
}
