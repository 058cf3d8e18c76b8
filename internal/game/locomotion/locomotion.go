// Package locomotion implements the out-of-combat movement strategies: random
// wandering around a spawn point and looping patrol routes.
package locomotion

import (
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/hostile/internal/game/geom"
	"github.com/cory-johannsen/hostile/internal/game/nav"
	"github.com/cory-johannsen/hostile/internal/game/random"
)

// Context is the per-agent wiring a Behavior moves through.
type Context struct {
	Nav nav.Port
	// Walkable is optional; without it sampled points are flattened to the spawn height.
	Walkable nav.Walkable
	Rand     random.Source
	Spawn    geom.Vec3
	Log      *zap.Logger
}

// Behavior drives an agent while no threat is in chase range.
type Behavior interface {
	// Enter is called on each transition into locomotion. The destination may
	// have been overwritten by a chase.
	Enter(c *Context)
	// Tick advances the strategy by dt.
	Tick(c *Context, dt time.Duration)
	// Speed is the movement speed to apply while locomoting.
	Speed() float64
}
