package nav

import (
	"math"
	"time"

	"github.com/jakecoffman/cp"

	"github.com/cory-johannsen/hostile/internal/game/geom"
)

// DefaultStoppingDistance is the arrival tolerance used when none is configured.
const DefaultStoppingDistance = 0.1

// Space is a flat navigation world. Agents are kinematic circles on the X/Z
// ground plane (chipmunk's X/Y); walkable ground is a set of rectangles.
//
// Space is not safe for concurrent use; it is stepped by the simulation loop.
type Space struct {
	space    *cp.Space
	areas    []cp.BB
	groundY  float64
	stopping float64
	movers   []*Mover
}

// NewSpace returns an empty space whose ground sits at height groundY.
//
// Postcondition: Returns a Space with no walkable areas; Project fails until
// AddArea is called.
func NewSpace(groundY, stoppingDistance float64) *Space {
	if stoppingDistance <= 0 {
		stoppingDistance = DefaultStoppingDistance
	}
	return &Space{
		space:    cp.NewSpace(),
		groundY:  groundY,
		stopping: stoppingDistance,
	}
}

// AddArea marks the rectangle [minX,maxX] x [minZ,maxZ] as walkable.
func (s *Space) AddArea(minX, minZ, maxX, maxZ float64) {
	s.areas = append(s.areas, cp.BB{
		L: math.Min(minX, maxX),
		B: math.Min(minZ, maxZ),
		R: math.Max(minX, maxX),
		T: math.Max(minZ, maxZ),
	})
}

// Project implements Walkable. The returned point lies on the ground plane.
func (s *Space) Project(p geom.Vec3, maxDistance float64) (geom.Vec3, bool) {
	best := math.Inf(1)
	var out geom.Vec3
	for _, bb := range s.areas {
		x := math.Max(bb.L, math.Min(bb.R, p.X))
		z := math.Max(bb.B, math.Min(bb.T, p.Z))
		cand := geom.Vec3{X: x, Y: s.groundY, Z: z}
		if d := geom.Distance(p, cand); d < best {
			best, out = d, cand
		}
	}
	if math.IsInf(best, 1) || best > maxDistance {
		return geom.Vec3{}, false
	}
	return out, true
}

// Spawn places a new mover of the given collision radius at pos.
func (s *Space) Spawn(pos geom.Vec3, radius float64) *Mover {
	body := cp.NewKinematicBody()
	body.SetPosition(cp.Vector{X: pos.X, Y: pos.Z})
	shape := cp.NewCircle(body, radius, cp.Vector{})
	s.space.AddBody(body)
	s.space.AddShape(shape)

	m := &Mover{space: s, body: body, shape: shape, y: pos.Y}
	s.movers = append(s.movers, m)
	return m
}

// Remove detaches m from the space entirely.
func (s *Space) Remove(m *Mover) {
	m.Disable()
	s.space.RemoveBody(m.body)
	for i, o := range s.movers {
		if o == m {
			s.movers = append(s.movers[:i], s.movers[i+1:]...)
			break
		}
	}
}

// Len returns the number of movers in the space.
func (s *Space) Len() int { return len(s.movers) }

// Step steers every mover toward its destination and integrates dt.
func (s *Space) Step(dt time.Duration) {
	secs := dt.Seconds()
	if secs <= 0 {
		return
	}
	for _, m := range s.movers {
		m.steer(secs)
	}
	s.space.Step(secs)
}

// Mover is one agent's handle into a Space. It implements Port.
type Mover struct {
	space    *Space
	body     *cp.Body
	shape    *cp.Shape
	y        float64
	dest     geom.Vec3
	hasDest  bool
	speed    float64
	halted   bool
	disabled bool
}

var _ Port = (*Mover)(nil)

func (m *Mover) steer(secs float64) {
	if m.halted || m.disabled || !m.hasDest {
		m.body.SetVelocity(0, 0)
		return
	}
	pos := m.body.Position()
	dx, dz := m.dest.X-pos.X, m.dest.Z-pos.Y
	dist := math.Hypot(dx, dz)
	if dist <= m.space.stopping {
		m.body.SetVelocity(0, 0)
		return
	}
	step := math.Min(m.speed, dist/secs)
	m.body.SetVelocity(dx/dist*step, dz/dist*step)
}

func (m *Mover) SetDestination(p geom.Vec3) {
	m.dest = p
	m.hasDest = true
}

func (m *Mover) SetSpeed(speed float64) { m.speed = math.Max(0, speed) }

func (m *Mover) HasArrived() bool {
	return m.hasDest && m.RemainingDistance() <= m.space.stopping
}

func (m *Mover) RemainingDistance() float64 {
	if !m.hasDest {
		return math.Inf(1)
	}
	return geom.HorizontalDistance(m.Position(), m.dest)
}

func (m *Mover) Velocity() geom.Vec3 {
	if m.halted || m.disabled {
		return geom.Zero
	}
	v := m.body.Velocity()
	return geom.Vec3{X: v.X, Z: v.Y}
}

func (m *Mover) Position() geom.Vec3 {
	p := m.body.Position()
	return geom.Vec3{X: p.X, Y: m.y, Z: p.Y}
}

func (m *Mover) Halt() {
	m.halted = true
	m.body.SetVelocity(0, 0)
}

func (m *Mover) Resume() {
	if !m.disabled {
		m.halted = false
	}
}

func (m *Mover) Halted() bool { return m.halted || m.disabled }

func (m *Mover) Disable() {
	if m.disabled {
		return
	}
	m.disabled = true
	m.body.SetVelocity(0, 0)
	m.space.space.RemoveShape(m.shape)
}

// Collidable reports whether the mover still has a collision shape in the space.
func (m *Mover) Collidable() bool { return !m.disabled }
