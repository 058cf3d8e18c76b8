package facing_test

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/cory-johannsen/hostile/internal/game/facing"
	"github.com/cory-johannsen/hostile/internal/game/geom"
)

func TestTowardTarget_CombatRateIsSnappier(t *testing.T) {
	c := facing.New(5, 25, 0)
	self := geom.Vec3{}
	target := geom.Vec3{X: 10}
	dt := 10 * time.Millisecond

	slow := c.TowardVelocity(geom.Identity, geom.Vec3{X: 3}, false, dt)
	fast := c.TowardTarget(geom.Identity, self, target, dt)
	assert.Greater(t, math.Abs(fast.Yaw()), math.Abs(slow.Yaw()))
}

func TestTowardTarget_DiscardsHeight(t *testing.T) {
	c := facing.New(5, 10, 0)
	q := c.TowardTarget(geom.Identity, geom.Vec3{}, geom.Vec3{X: 1, Y: 30}, time.Second)
	assert.InDelta(t, math.Pi/2, q.Yaw(), 1e-9)
}

func TestTowardTarget_NoBearingKeepsHeading(t *testing.T) {
	c := facing.New(5, 10, 0)
	start := geom.YawRotation(1)
	q := c.TowardTarget(start, geom.Vec3{}, geom.Vec3{Y: 4}, time.Second)
	assert.Equal(t, start, q)
}

func TestTowardVelocity_IgnoresSlowOrHalted(t *testing.T) {
	c := facing.New(5, 10, 0)
	assert.Equal(t, geom.Identity, c.TowardVelocity(geom.Identity, geom.Vec3{X: 0.2}, false, time.Second))
	assert.Equal(t, geom.Identity, c.TowardVelocity(geom.Identity, geom.Vec3{X: 5}, true, time.Second))
}

func TestOffset_RotatesDesiredHeading(t *testing.T) {
	c := facing.New(5, 10, 180)
	q := c.TowardVelocity(geom.Identity, geom.Vec3{Z: 5}, false, time.Second)
	assert.InDelta(t, math.Pi, math.Abs(q.Yaw()), 1e-9)
}
