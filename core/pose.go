package core

import (
	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"
)

// Pose is a rigid transform: a position and an orientation.
// Rotation is a unit quaternion; callers constructing poses from raw
// components are responsible for normalization.
type Pose struct {
	Position r3.Vec
	Rotation quat.Number
}

// IdentityPose returns the pose at the origin with no rotation.
func IdentityPose() Pose {
	return Pose{Rotation: quat.Number{Real: 1}}
}

// TransformPoint maps a point from pose-local space into world space.
func (p Pose) TransformPoint(local r3.Vec) r3.Vec {
	return r3.Add(p.Position, RotateVec(p.Rotation, local))
}

// InverseTransformPoint maps a world-space point into pose-local space.
func (p Pose) InverseTransformPoint(world r3.Vec) r3.Vec {
	return RotateVec(quat.Conj(p.Rotation), r3.Sub(world, p.Position))
}

// RotateVec rotates v by the unit quaternion q (q v q*).
func RotateVec(q quat.Number, v r3.Vec) r3.Vec {
	pv := quat.Number{Imag: v.X, Jmag: v.Y, Kmag: v.Z}
	r := quat.Mul(quat.Mul(q, pv), quat.Conj(q))
	return r3.Vec{X: r.Imag, Y: r.Jmag, Z: r.Kmag}
}
