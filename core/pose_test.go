package core

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"
)

// yaw90 rotates 90 degrees about +Y.
func yaw90() quat.Number {
	s, c := math.Sincos(math.Pi / 4)
	return quat.Number{Real: c, Jmag: s}
}

func assertVecInDelta(t *testing.T, want, got r3.Vec, delta float64) {
	t.Helper()
	assert.InDelta(t, want.X, got.X, delta)
	assert.InDelta(t, want.Y, got.Y, delta)
	assert.InDelta(t, want.Z, got.Z, delta)
}

func TestRotateVec(t *testing.T) {
	// +Z rotated 90 degrees about +Y lands on +X.
	got := RotateVec(yaw90(), r3.Vec{Z: 1})
	assertVecInDelta(t, r3.Vec{X: 1}, got, 1e-12)

	// Identity leaves vectors alone.
	got = RotateVec(IdentityPose().Rotation, r3.Vec{X: 1, Y: 2, Z: 3})
	assertVecInDelta(t, r3.Vec{X: 1, Y: 2, Z: 3}, got, 1e-12)
}

func TestTransformPointRoundTrip(t *testing.T) {
	p := Pose{Position: r3.Vec{X: 1, Y: 2, Z: 3}, Rotation: yaw90()}
	local := r3.Vec{X: 0.5, Y: -0.25, Z: 2}

	world := p.TransformPoint(local)
	back := p.InverseTransformPoint(world)
	assertVecInDelta(t, local, back, 1e-12)
}

func TestTransformPointTranslation(t *testing.T) {
	p := Pose{Position: r3.Vec{X: 1}, Rotation: IdentityPose().Rotation}
	got := p.TransformPoint(r3.Vec{Y: 2})
	assertVecInDelta(t, r3.Vec{X: 1, Y: 2}, got, 1e-12)
}
