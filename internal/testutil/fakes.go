// Package testutil provides in-memory stand-ins for the engine's ports.
package testutil

import (
	"math"
	"sync"
	"time"

	"github.com/cory-johannsen/hostile/internal/game/damage"
	"github.com/cory-johannsen/hostile/internal/game/geom"
)

// FakeNav is a navigation port that moves in a straight line at its speed
// whenever Step is called. It records every destination it was given.
type FakeNav struct {
	Pos          geom.Vec3
	Dest         geom.Vec3
	HasDest      bool
	Speed        float64
	Stopping     float64
	IsHalted     bool
	Disabled     bool
	Destinations []geom.Vec3
	vel          geom.Vec3
}

// NewFakeNav returns a FakeNav at pos with a 0.1 stopping tolerance.
func NewFakeNav(pos geom.Vec3) *FakeNav {
	return &FakeNav{Pos: pos, Stopping: 0.1}
}

func (n *FakeNav) SetDestination(p geom.Vec3) {
	n.Dest = p
	n.HasDest = true
	n.Destinations = append(n.Destinations, p)
}

func (n *FakeNav) SetSpeed(speed float64) { n.Speed = speed }

func (n *FakeNav) HasArrived() bool {
	return n.HasDest && n.RemainingDistance() <= n.Stopping
}

func (n *FakeNav) RemainingDistance() float64 {
	if !n.HasDest {
		return math.Inf(1)
	}
	return geom.Distance(n.Pos, n.Dest)
}

func (n *FakeNav) Velocity() geom.Vec3 {
	if n.Halted() {
		return geom.Zero
	}
	return n.vel
}

func (n *FakeNav) Position() geom.Vec3 { return n.Pos }
func (n *FakeNav) Halt()               { n.IsHalted = true }
func (n *FakeNav) Resume()             { n.IsHalted = false }
func (n *FakeNav) Halted() bool        { return n.IsHalted || n.Disabled }

func (n *FakeNav) Disable() {
	n.Disabled = true
	n.vel = geom.Zero
}

// Step moves toward the destination by at most Speed*dt.
func (n *FakeNav) Step(dt time.Duration) {
	n.vel = geom.Zero
	if n.Halted() || !n.HasDest {
		return
	}
	to := n.Dest.Sub(n.Pos)
	dist := to.Len()
	if dist == 0 {
		return
	}
	step := math.Min(dist, n.Speed*dt.Seconds())
	n.vel = to.Normalize().Scale(n.Speed)
	n.Pos = n.Pos.Add(to.Normalize().Scale(step))
}

// Teleport places the agent at p without touching the destination.
func (n *FakeNav) Teleport(p geom.Vec3) { n.Pos = p }

// FakeWalkable projects every point onto the plane y = Y, optionally
// rejecting points farther than Limit from the origin.
type FakeWalkable struct {
	Y     float64
	Limit float64
	Calls int
}

func (w *FakeWalkable) Project(p geom.Vec3, maxDistance float64) (geom.Vec3, bool) {
	w.Calls++
	out := geom.Vec3{X: p.X, Y: w.Y, Z: p.Z}
	if w.Limit > 0 && out.Horizontal().Len() > w.Limit {
		return geom.Vec3{}, false
	}
	if math.Abs(p.Y-w.Y) > maxDistance {
		return geom.Vec3{}, false
	}
	return out, true
}

// FakeTarget is a damageable entity at a fixed, settable position.
type FakeTarget struct {
	*damage.Health
	Pos  geom.Vec3
	Hits []float64
}

// NewFakeTarget returns a target with maxHP hit points at pos.
func NewFakeTarget(maxHP float64, pos geom.Vec3) *FakeTarget {
	return &FakeTarget{Health: damage.NewHealth(maxHP, nil), Pos: pos}
}

// TakeDamage records amount and applies it.
func (t *FakeTarget) TakeDamage(amount float64) {
	t.Hits = append(t.Hits, amount)
	t.Health.Apply(amount)
}

func (t *FakeTarget) Position() geom.Vec3 { return t.Pos }

// Event is one recorded presentation signal.
type Event struct {
	Kind   string
	Agent  string
	Value  float64
	Frozen bool
}

// Recorder is a cue sink that keeps every signal except MovementSpeed, whose
// latest value per agent is kept instead.
type Recorder struct {
	mu     sync.Mutex
	events []Event
	speeds map[string]float64
}

// NewRecorder returns an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{speeds: make(map[string]float64)}
}

func (r *Recorder) add(e Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *Recorder) MovementSpeed(id string, speed float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.speeds[id] = speed
}

func (r *Recorder) AttackTriggered(id string) { r.add(Event{Kind: "attack", Agent: id}) }
func (r *Recorder) DeathTriggered(id string)  { r.add(Event{Kind: "death", Agent: id}) }

func (r *Recorder) PoseFrozen(id string, frozen bool) {
	r.add(Event{Kind: "pose", Agent: id, Frozen: frozen})
}

func (r *Recorder) DamageBlocked(id string, amount float64) {
	r.add(Event{Kind: "blocked", Agent: id, Value: amount})
}

// Count returns how many events of kind were recorded for agent.
func (r *Recorder) Count(kind, agent string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, e := range r.events {
		if e.Kind == kind && e.Agent == agent {
			n++
		}
	}
	return n
}

// Events returns a copy of every recorded event.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

// Speed returns the last MovementSpeed reported for agent.
func (r *Recorder) Speed(agent string) (float64, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.speeds[agent]
	return v, ok
}
