// Package hazard holds static area-damage sources placed in a level.
package hazard

import (
	"time"

	"github.com/cory-johannsen/hostile/internal/game/damage"
	"github.com/cory-johannsen/hostile/internal/game/geom"
)

// Occupant is anything a hazard can hurt.
type Occupant interface {
	damage.Damageable
	Position() geom.Vec3
}

// Spikes deal damage per second to every living occupant within Radius.
type Spikes struct {
	Name   string        `yaml:"name"`
	Center geom.Vec3     `yaml:"center"`
	Radius float64       `yaml:"radius"`
	DPS    float64       `yaml:"damage_per_second"`
	// Period and Duty make the spikes cycle: they are raised for the first
	// Duty of every Period. A zero Period keeps them raised.
	Period time.Duration `yaml:"period"`
	Duty   time.Duration `yaml:"duty"`

	elapsed time.Duration
}

// Raised reports whether the spikes currently hurt.
func (s *Spikes) Raised() bool {
	if s.Period <= 0 {
		return true
	}
	return s.elapsed%s.Period < s.Duty
}

// Tick applies DPS*dt to each living occupant in range and returns how many were hit.
func (s *Spikes) Tick(dt time.Duration, occupants []Occupant) int {
	defer func() { s.elapsed += dt }()
	if !s.Raised() || s.DPS <= 0 {
		return 0
	}
	amount := s.DPS * dt.Seconds()
	hits := 0
	for _, o := range occupants {
		if o == nil || !o.IsAlive() {
			continue
		}
		if geom.Distance(s.Center, o.Position()) > s.Radius {
			continue
		}
		o.TakeDamage(amount)
		hits++
	}
	return hits
}
