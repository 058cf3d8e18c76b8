// Package facing smooths an agent's heading toward its movement direction or
// toward its combat target.
package facing

import (
	"time"

	"github.com/cory-johannsen/hostile/internal/game/geom"
)

const (
	// minMoveSpeedSq is the squared speed below which movement does not steer facing.
	minMoveSpeedSq = 0.1
	// minBearingSq is the squared horizontal offset below which the target has no bearing.
	minBearingSq = 0.001
)

// Controller turns toward a desired yaw at one of two rates. Rates are
// slerp factors per second: the fraction of the remaining arc covered is
// rate * dt, clamped to 1.
type Controller struct {
	// LocomotionRate applies while moving.
	LocomotionRate float64
	// CombatRate applies while facing a target; normally snappier.
	CombatRate float64
	// Offset is added to every desired heading, for models authored facing
	// away from +Z.
	Offset geom.Quat
}

// New returns a Controller with offsetDegrees converted to a yaw rotation.
func New(locomotionRate, combatRate, offsetDegrees float64) Controller {
	return Controller{
		LocomotionRate: locomotionRate,
		CombatRate:     combatRate,
		Offset:         geom.YawRotation(geom.Degrees(offsetDegrees)),
	}
}

// TowardVelocity turns current toward the direction of travel. Slow or
// halted movement leaves current unchanged.
func (c Controller) TowardVelocity(current geom.Quat, velocity geom.Vec3, halted bool, dt time.Duration) geom.Quat {
	if halted || velocity.LenSq() <= minMoveSpeedSq {
		return current
	}
	want, ok := geom.LookYaw(velocity)
	if !ok {
		return current
	}
	return geom.Slerp(current, want.Mul(c.offset()), dt.Seconds()*c.LocomotionRate)
}

// TowardTarget turns current toward the horizontal bearing from self to target.
func (c Controller) TowardTarget(current geom.Quat, self, target geom.Vec3, dt time.Duration) geom.Quat {
	dir := target.Sub(self).Horizontal()
	if dir.LenSq() <= minBearingSq {
		return current
	}
	want, _ := geom.LookYaw(dir)
	return geom.Slerp(current, want.Mul(c.offset()), dt.Seconds()*c.CombatRate)
}

func (c Controller) offset() geom.Quat {
	if c.Offset == (geom.Quat{}) {
		return geom.Identity
	}
	return c.Offset
}
