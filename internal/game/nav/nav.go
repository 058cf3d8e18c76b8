// Package nav defines the navigation boundary the behavior engine drives and a
// reference implementation backed by a chipmunk physics space.
package nav

import "github.com/cory-johannsen/hostile/internal/game/geom"

// Port is the per-agent movement service. The engine only issues intents
// through it; pathfinding and physics stay behind the interface.
type Port interface {
	// SetDestination replaces the current destination.
	SetDestination(p geom.Vec3)
	// SetSpeed sets the maximum movement speed in units per second.
	SetSpeed(speed float64)
	// HasArrived reports whether a destination is set and lies within the
	// stopping tolerance.
	HasArrived() bool
	// RemainingDistance returns the distance to the destination, or +Inf when
	// no destination has been issued.
	RemainingDistance() float64
	// Velocity returns the current velocity; zero while halted.
	Velocity() geom.Vec3
	// Position returns the current world position.
	Position() geom.Vec3
	// Halt stops movement until Resume.
	Halt()
	// Resume re-enables movement toward the destination.
	Resume()
	// Halted reports whether movement is currently stopped.
	Halted() bool
	// Disable permanently halts the agent and removes its collision response.
	Disable()
}

// Walkable projects arbitrary points onto navigable ground.
type Walkable interface {
	// Project returns the nearest walkable point within maxDistance of p.
	Project(p geom.Vec3, maxDistance float64) (geom.Vec3, bool)
}
