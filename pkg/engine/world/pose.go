package world

import "math"

// Pose is a position plus a heading about +Y.
type Pose struct {
	Position Vec3
	Yaw      float64
}

// At returns a pose at the given position and yaw.
func At(x, y, z, yaw float64) Pose {
	return Pose{Position: Vec3{x, y, z}, Yaw: NormalizeYaw(yaw)}
}

// RotatePoint rotates a point about the origin by the pose's yaw.
func (p Pose) RotatePoint(v Vec3) Vec3 {
	r := p.Yaw * math.Pi / 180
	sin, cos := math.Sin(r), math.Cos(r)
	return Vec3{
		X: v.X*cos + v.Z*sin,
		Y: v.Y,
		Z: -v.X*sin + v.Z*cos,
	}
}

// TransformPoint maps a point in this pose's local space to world space.
func (p Pose) TransformPoint(local Vec3) Vec3 {
	return p.Position.Add(p.RotatePoint(local))
}

// InverseTransformPoint maps a world point into this pose's local space.
func (p Pose) InverseTransformPoint(v Vec3) Vec3 {
	inv := Pose{Yaw: -p.Yaw}
	return inv.RotatePoint(v.Sub(p.Position))
}

// Compose returns the world pose of a pose expressed in p's local space.
func (p Pose) Compose(local Pose) Pose {
	return Pose{
		Position: p.TransformPoint(local.Position),
		Yaw:      NormalizeYaw(p.Yaw + local.Yaw),
	}
}

// Reversed returns the same position facing the opposite way.
func (p Pose) Reversed() Pose {
	return Pose{Position: p.Position, Yaw: NormalizeYaw(p.Yaw + 180)}
}

// Forward returns the horizontal facing vector of the pose.
func (p Pose) Forward() Vec3 {
	return Forward(p.Yaw)
}

// Align returns the pose a parent must take so that its child at local lands on target.
func Align(local, target Pose) Pose {
	yaw := NormalizeYaw(target.Yaw - local.Yaw)
	parent := Pose{Yaw: yaw}
	return Pose{
		Position: target.Position.Sub(parent.RotatePoint(local.Position)),
		Yaw:      yaw,
	}
}
