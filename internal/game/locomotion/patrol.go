package locomotion

import (
	"time"

	"github.com/cory-johannsen/hostile/internal/game/geom"
)

// Patrol walks a closed loop of waypoints, pausing at each.
type Patrol struct {
	Route []geom.Vec3
	Move  float64
	Wait  time.Duration
	Reach float64

	cursor  int
	waiting bool
	waitFor time.Duration
}

// NewPatrol returns a Patrol over route. The route is copied.
//
// Precondition: reach > 0; wait >= 0.
func NewPatrol(route []geom.Vec3, speed float64, wait time.Duration, reach float64) *Patrol {
	return &Patrol{
		Route: append([]geom.Vec3(nil), route...),
		Move:  speed,
		Wait:  wait,
		Reach: reach,
	}
}

func (p *Patrol) Speed() float64 { return p.Move }

// Enter re-issues the current waypoint and abandons any pause.
func (p *Patrol) Enter(c *Context) {
	p.waiting = false
	if len(p.Route) == 0 {
		c.Nav.Halt()
		return
	}
	c.Nav.SetDestination(p.Route[p.cursor])
}

// Tick pauses on arrival and then heads for the next waypoint.
//
// Postcondition: 0 <= Cursor() < len(Route) for a non-empty route.
func (p *Patrol) Tick(c *Context, dt time.Duration) {
	if len(p.Route) == 0 {
		c.Nav.Halt()
		return
	}
	if p.waiting {
		p.waitFor -= dt
		if p.waitFor <= 0 {
			p.advance(c)
		}
		return
	}
	if c.Nav.RemainingDistance() > p.Reach {
		return
	}
	c.Nav.Halt()
	if p.Wait <= 0 {
		p.advance(c)
		return
	}
	p.waiting = true
	p.waitFor = p.Wait
}

func (p *Patrol) advance(c *Context) {
	p.waiting = false
	p.cursor = (p.cursor + 1) % len(p.Route)
	c.Nav.Resume()
	c.Nav.SetDestination(p.Route[p.cursor])
}

// Cursor returns the index of the waypoint currently targeted.
func (p *Patrol) Cursor() int { return p.cursor }

// Waiting reports whether the patrol is paused at a waypoint.
func (p *Patrol) Waiting() bool { return p.waiting }
