// Package random provides the randomness abstraction used by wander sampling.
package random

import (
	"github.com/cory-johannsen/hostile/internal/game/geom"
)

// Source yields uniformly distributed floats.
type Source interface {
	// Float64 returns a value in [0, 1).
	Float64() float64
}

// Range returns a value drawn uniformly from [lo, hi].
//
// Precondition: src must be non-nil.
// Postcondition: lo <= result <= hi when lo <= hi; returns lo when hi < lo.
func Range(src Source, lo, hi float64) float64 {
	if hi <= lo {
		return lo
	}
	return lo + src.Float64()*(hi-lo)
}

// maxSphereAttempts bounds rejection sampling; the acceptance rate is ~52%.
const maxSphereAttempts = 64

// InsideUnitSphere returns a point uniformly distributed inside the unit ball.
//
// Postcondition: result.Len() <= 1.
func InsideUnitSphere(src Source) geom.Vec3 {
	for i := 0; i < maxSphereAttempts; i++ {
		p := geom.Vec3{
			X: src.Float64()*2 - 1,
			Y: src.Float64()*2 - 1,
			Z: src.Float64()*2 - 1,
		}
		if p.LenSq() <= 1 {
			return p
		}
	}
	return geom.Zero
}
