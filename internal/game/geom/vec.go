// Package geom provides the small amount of 3D math the behavior engine needs:
// vectors, yaw rotations, and spherical interpolation between them.
package geom

import "math"

// Vec3 is a point or direction in world space. Y is up.
type Vec3 struct {
	X, Y, Z float64
}

// Zero is the origin.
var Zero = Vec3{}

// Add returns v + o.
func (v Vec3) Add(o Vec3) Vec3 { return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }

// Sub returns v - o.
func (v Vec3) Sub(o Vec3) Vec3 { return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }

// Scale returns v * s.
func (v Vec3) Scale(s float64) Vec3 { return Vec3{v.X * s, v.Y * s, v.Z * s} }

// Dot returns the dot product of v and o.
func (v Vec3) Dot(o Vec3) float64 { return v.X*o.X + v.Y*o.Y + v.Z*o.Z }

// LenSq returns the squared length of v.
func (v Vec3) LenSq() float64 { return v.Dot(v) }

// Len returns the length of v.
func (v Vec3) Len() float64 { return math.Sqrt(v.LenSq()) }

// Normalize returns v scaled to unit length, or Zero when v has no length.
func (v Vec3) Normalize() Vec3 {
	l := v.Len()
	if l == 0 {
		return Zero
	}
	return v.Scale(1 / l)
}

// Horizontal returns v projected onto the ground plane (Y dropped).
func (v Vec3) Horizontal() Vec3 { return Vec3{v.X, 0, v.Z} }

// Distance returns the Euclidean distance between a and b.
func Distance(a, b Vec3) float64 { return a.Sub(b).Len() }

// HorizontalDistance returns the distance between a and b on the ground plane.
func HorizontalDistance(a, b Vec3) float64 { return a.Sub(b).Horizontal().Len() }
