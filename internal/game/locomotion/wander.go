package locomotion

import (
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/hostile/internal/game/geom"
	"github.com/cory-johannsen/hostile/internal/game/random"
)

// maxWanderSamples bounds the rejection loop for a walkable point inside the radius.
const maxWanderSamples = 8

// Wander picks a random destination around the spawn point whenever the
// countdown expires or the agent arrives.
type Wander struct {
	Radius  float64
	Move    float64
	MinWait time.Duration
	MaxWait time.Duration

	countdown time.Duration
	picks     int
}

// NewWander returns a Wander behavior.
//
// Precondition: radius > 0; 0 <= minWait <= maxWait.
func NewWander(radius, speed float64, minWait, maxWait time.Duration) *Wander {
	return &Wander{Radius: radius, Move: speed, MinWait: minWait, MaxWait: maxWait}
}

func (w *Wander) Speed() float64 { return w.Move }

// Enter force-expires the countdown so the next Tick picks a fresh point.
func (w *Wander) Enter(*Context) { w.countdown = 0 }

// Tick counts down and picks a new destination on expiry or arrival.
//
// Postcondition: every destination issued lies within Radius of the spawn point.
func (w *Wander) Tick(c *Context, dt time.Duration) {
	w.countdown -= dt
	if c.Nav.HasArrived() {
		w.countdown = 0
	}
	if w.countdown > 0 {
		return
	}
	c.Nav.SetDestination(w.sample(c))
	w.picks++
	span := random.Range(c.Rand, w.MinWait.Seconds(), w.MaxWait.Seconds())
	w.countdown = time.Duration(span * float64(time.Second))
}

func (w *Wander) sample(c *Context) geom.Vec3 {
	for i := 0; i < maxWanderSamples; i++ {
		p := c.Spawn.Add(random.InsideUnitSphere(c.Rand).Scale(w.Radius))
		if c.Walkable == nil {
			p.Y = c.Spawn.Y
			if geom.Distance(p, c.Spawn) <= w.Radius {
				return p
			}
			continue
		}
		q, ok := c.Walkable.Project(p, w.Radius)
		if ok && geom.Distance(q, c.Spawn) <= w.Radius {
			return q
		}
	}
	c.Log.Debug("no walkable wander point found; returning to spawn", zap.Float64("radius", w.Radius))
	return c.Spawn
}

// Picks returns how many destinations have been issued.
func (w *Wander) Picks() int { return w.picks }

// Countdown returns the time left before the next pick.
func (w *Wander) Countdown() time.Duration { return w.countdown }
