// Package world provides the spatial primitives shared by the room graph:
// vectors, poses with a yaw heading, rays, and the rounded occupancy grid.
//
// Coordinates are Y-up. Yaw is measured in degrees about +Y, with yaw 0
// facing +Z and yaw 90 facing +X.
package world

import (
	"fmt"
	"math"
)

// Epsilon is the tolerance used for float comparisons in this package.
const Epsilon = 1e-9

// Vec3 is a point or direction in world space.
type Vec3 struct {
	X, Y, Z float64
}

// V returns a Vec3 with the given components.
func V(x, y, z float64) Vec3 {
	return Vec3{X: x, Y: y, Z: z}
}

// String formats the vector with centimetre precision.
func (v Vec3) String() string {
	return fmt.Sprintf("(%.2f, %.2f, %.2f)", v.X, v.Y, v.Z)
}

// Add returns v + o.
func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z}
}

// Sub returns v - o.
func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z}
}

// Scale returns v * s.
func (v Vec3) Scale(s float64) Vec3 {
	return Vec3{v.X * s, v.Y * s, v.Z * s}
}

// Dot returns the dot product of v and o.
func (v Vec3) Dot(o Vec3) float64 {
	return v.X*o.X + v.Y*o.Y + v.Z*o.Z
}

// Len returns the length of v.
func (v Vec3) Len() float64 {
	return math.Sqrt(v.Dot(v))
}

// Flat projects v onto the horizontal plane.
func (v Vec3) Flat() Vec3 {
	return Vec3{v.X, 0, v.Z}
}

// Normalize returns v scaled to unit length. The zero vector is returned unchanged.
func (v Vec3) Normalize() Vec3 {
	l := v.Len()
	if l < Epsilon {
		return Vec3{}
	}
	return v.Scale(1 / l)
}

// Dist returns the distance between v and o.
func (v Vec3) Dist(o Vec3) float64 {
	return v.Sub(o).Len()
}

// Forward returns the horizontal unit vector for a yaw in degrees.
func Forward(yaw float64) Vec3 {
	r := yaw * math.Pi / 180
	return Vec3{math.Sin(r), 0, math.Cos(r)}
}

// SignedAngle returns the angle in degrees from one direction to another,
// measured about +Y on the horizontal plane, in (-180, 180].
// Zero-length inputs yield 0.
func SignedAngle(from, to Vec3) float64 {
	a, b := from.Flat(), to.Flat()
	if a.Len() < Epsilon || b.Len() < Epsilon {
		return 0
	}
	cross := a.Z*b.X - a.X*b.Z
	dot := a.X*b.X + a.Z*b.Z
	return math.Atan2(cross, dot) * 180 / math.Pi
}

// NormalizeYaw wraps a yaw into [0, 360).
func NormalizeYaw(yaw float64) float64 {
	y := math.Mod(yaw, 360)
	if y < 0 {
		y += 360
	}
	return y
}

// DeltaYaw returns the shortest signed difference target - current in (-180, 180].
func DeltaYaw(current, target float64) float64 {
	d := math.Mod(target-current, 360)
	if d > 180 {
		d -= 360
	} else if d <= -180 {
		d += 360
	}
	return d
}

// RotateTowards moves an angle toward a target by at most maxDelta degrees.
// The angles are plain signed offsets, not wrapped headings.
func RotateTowards(current, target, maxDelta float64) float64 {
	if maxDelta < 0 {
		maxDelta = 0
	}
	d := target - current
	if math.Abs(d) <= maxDelta {
		return target
	}
	if d > 0 {
		return current + maxDelta
	}
	return current - maxDelta
}

// Clamp limits v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// Ray is a half-line used for pointer input.
type Ray struct {
	Origin Vec3
	Dir    Vec3
}

// IntersectHorizontal returns where the ray crosses the plane y = height.
func (r Ray) IntersectHorizontal(height float64) (Vec3, bool) {
	if math.Abs(r.Dir.Y) < Epsilon {
		return Vec3{}, false
	}
	t := (height - r.Origin.Y) / r.Dir.Y
	if t < 0 {
		return Vec3{}, false
	}
	return r.Origin.Add(r.Dir.Scale(t)), true
}

// DownRay returns a ray pointing straight down onto the given horizontal point,
// as used by the top-down renderer to turn a cursor into a drag ray.
func DownRay(x, z float64) Ray {
	return Ray{Origin: Vec3{x, 10, z}, Dir: Vec3{0, -1, 0}}
}
