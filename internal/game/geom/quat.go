package geom

import "math"

// Quat is a unit rotation quaternion.
type Quat struct {
	W, X, Y, Z float64
}

// Identity is the rotation that faces +Z.
var Identity = Quat{W: 1}

// YawRotation returns the rotation of yaw radians about the up axis.
func YawRotation(yaw float64) Quat {
	s, c := math.Sincos(yaw / 2)
	return Quat{W: c, Y: s}
}

// Degrees converts d degrees to radians.
func Degrees(d float64) float64 { return d * math.Pi / 180 }

// LookYaw returns the yaw rotation whose forward axis points along the
// horizontal component of dir. ok is false when dir has no horizontal extent.
func LookYaw(dir Vec3) (q Quat, ok bool) {
	h := dir.Horizontal()
	if h.LenSq() == 0 {
		return Identity, false
	}
	return YawRotation(math.Atan2(h.X, h.Z)), true
}

// Mul returns the composition q * r (r applied first).
func (q Quat) Mul(r Quat) Quat {
	return Quat{
		W: q.W*r.W - q.X*r.X - q.Y*r.Y - q.Z*r.Z,
		X: q.W*r.X + q.X*r.W + q.Y*r.Z - q.Z*r.Y,
		Y: q.W*r.Y - q.X*r.Z + q.Y*r.W + q.Z*r.X,
		Z: q.W*r.Z + q.X*r.Y - q.Y*r.X + q.Z*r.W,
	}
}

func (q Quat) dot(r Quat) float64 { return q.W*r.W + q.X*r.X + q.Y*r.Y + q.Z*r.Z }

func (q Quat) normalize() Quat {
	l := math.Sqrt(q.dot(q))
	if l == 0 {
		return Identity
	}
	return Quat{q.W / l, q.X / l, q.Y / l, q.Z / l}
}

// Yaw returns the heading of q in radians, in (-π, π].
func (q Quat) Yaw() float64 {
	return math.Atan2(2*(q.W*q.Y+q.X*q.Z), 1-2*(q.X*q.X+q.Y*q.Y))
}

// Forward returns the +Z axis rotated by q.
func (q Quat) Forward() Vec3 {
	return Vec3{
		X: 2 * (q.X*q.Z + q.W*q.Y),
		Y: 2 * (q.Y*q.Z - q.W*q.X),
		Z: 1 - 2*(q.X*q.X+q.Y*q.Y),
	}
}

// AngleTo returns the angle in radians between q and r.
func (q Quat) AngleTo(r Quat) float64 {
	d := math.Abs(q.dot(r))
	if d > 1 {
		d = 1
	}
	return 2 * math.Acos(d)
}

// Slerp spherically interpolates from a to b along the shortest arc.
// t is clamped to [0, 1].
func Slerp(a, b Quat, t float64) Quat {
	switch {
	case t <= 0:
		return a
	case t >= 1:
		return b.normalize()
	}
	cos := a.dot(b)
	if cos < 0 {
		b = Quat{-b.W, -b.X, -b.Y, -b.Z}
		cos = -cos
	}
	if cos > 0.9995 {
		return Quat{
			W: a.W + t*(b.W-a.W),
			X: a.X + t*(b.X-a.X),
			Y: a.Y + t*(b.Y-a.Y),
			Z: a.Z + t*(b.Z-a.Z),
		}.normalize()
	}
	theta := math.Acos(cos)
	sin := math.Sin(theta)
	wa := math.Sin((1-t)*theta) / sin
	wb := math.Sin(t*theta) / sin
	return Quat{
		W: wa*a.W + wb*b.W,
		X: wa*a.X + wb*b.X,
		Y: wa*a.Y + wb*b.Y,
		Z: wa*a.Z + wb*b.Z,
	}
}
