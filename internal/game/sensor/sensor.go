// Package sensor classifies the distance between an agent and its target.
package sensor

import (
	"fmt"
	"math"

	"github.com/cory-johannsen/hostile/internal/game/geom"
)

// Reading is the threat level derived from target distance.
type Reading int

const (
	// Wander means the target is out of range or absent.
	Wander Reading = iota
	// Chase means the target is inside the chase radius.
	Chase
	// Attack means the target is inside the attack radius.
	Attack
)

// String returns a lowercase name for r.
func (r Reading) String() string {
	switch r {
	case Wander:
		return "wander"
	case Chase:
		return "chase"
	case Attack:
		return "attack"
	default:
		return fmt.Sprintf("reading(%d)", int(r))
	}
}

// Sensor holds the two detection radii.
//
// Invariant: 0 < AttackRange < ChaseRange.
type Sensor struct {
	AttackRange float64
	ChaseRange  float64
}

// Validate checks the radius invariant.
func (s Sensor) Validate() error {
	if s.AttackRange <= 0 {
		return fmt.Errorf("attack_range must be > 0, got %v", s.AttackRange)
	}
	if s.ChaseRange <= s.AttackRange {
		return fmt.Errorf("chase_range (%v) must exceed attack_range (%v)", s.ChaseRange, s.AttackRange)
	}
	return nil
}

// Distance returns the distance from self to target, or +Inf without a target.
func Distance(self, target geom.Vec3, hasTarget bool) float64 {
	if !hasTarget {
		return math.Inf(1)
	}
	return geom.Distance(self, target)
}

// Classify maps the distance to target onto a Reading. Boundaries are inclusive,
// and the attack radius is checked first so it always wins over chase.
//
// Postcondition: returns Wander when hasTarget is false.
func (s Sensor) Classify(self, target geom.Vec3, hasTarget bool) Reading {
	d := Distance(self, target, hasTarget)
	switch {
	case d <= s.AttackRange:
		return Attack
	case d <= s.ChaseRange:
		return Chase
	default:
		return Wander
	}
}
