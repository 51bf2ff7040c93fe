package spatialmath

import (
	"math"
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"
)

func TestComposeTranslation(t *testing.T) {
	a := NewPoseFromPoint(r3.Vector{X: 1})
	b := NewPoseFromPoint(r3.Vector{Y: 1})
	c := Compose(a, b)
	test.That(t, R3VectorAlmostEqual(c.Point(), r3.Vector{X: 1, Y: 1}, 1e-9), test.ShouldBeTrue)
}

func TestComposeRotation(t *testing.T) {
	rot := NewPose(r3.Vector{Z: 2}, &R4AA{Theta: math.Pi / 2, RZ: 1})
	c := Compose(rot, NewPoseFromPoint(r3.Vector{X: 1}))
	test.That(t, R3VectorAlmostEqual(c.Point(), r3.Vector{Y: 1, Z: 2}, 1e-9), test.ShouldBeTrue)
	test.That(t, OrientationAlmostEqual(c.Orientation(), rot.Orientation()), test.ShouldBeTrue)

	pt := TransformPoint(rot, r3.Vector{X: 1})
	test.That(t, R3VectorAlmostEqual(pt, r3.Vector{Y: 1, Z: 2}, 1e-9), test.ShouldBeTrue)
}

func TestPoseInverse(t *testing.T) {
	p := NewPose(r3.Vector{X: 3, Y: -2, Z: 7}, &EulerAngles{Roll: 0.3, Pitch: -0.2, Yaw: 1.1})
	identity := Compose(p, PoseInverse(p))
	test.That(t, PoseAlmostEqual(identity, NewZeroPose()), test.ShouldBeTrue)

	q := NewPose(r3.Vector{X: 1}, &R4AA{Theta: 0.5, RY: 1})
	between := PoseBetween(p, q)
	test.That(t, PoseAlmostEqualEps(Compose(p, between), q, 1e-9), test.ShouldBeTrue)
}

func TestInterpolate(t *testing.T) {
	p1 := NewZeroPose()
	p2 := NewPose(r3.Vector{X: 10, Y: -4}, &R4AA{Theta: math.Pi / 2, RZ: 1})

	half := Interpolate(p1, p2, 0.5)
	test.That(t, R3VectorAlmostEqual(half.Point(), r3.Vector{X: 5, Y: -2}, 1e-9), test.ShouldBeTrue)
	aa := half.Orientation().AxisAngles()
	test.That(t, aa.Theta, test.ShouldAlmostEqual, math.Pi/4)
	test.That(t, aa.RZ, test.ShouldAlmostEqual, 1.)

	test.That(t, PoseAlmostEqual(Interpolate(p1, p2, 0), p1), test.ShouldBeTrue)
	test.That(t, PoseAlmostEqual(Interpolate(p1, p2, 1), p2), test.ShouldBeTrue)
}

func TestOrientationConversions(t *testing.T) {
	ea := &EulerAngles{Yaw: math.Pi / 3}
	q := Quaternion(ea.Quaternion())
	test.That(t, q.EulerAngles().Yaw, test.ShouldAlmostEqual, math.Pi/3)
	test.That(t, q.AxisAngles().Theta, test.ShouldAlmostEqual, math.Pi/3)

	rm := q.RotationMatrix()
	v := rm.Mul(r3.Vector{X: 1})
	test.That(t, v.X, test.ShouldAlmostEqual, 0.5)
	test.That(t, v.Y, test.ShouldAlmostEqual, math.Sqrt(3)/2)

	between := OrientationBetween(NewZeroOrientation(), &R4AA{Theta: 0.4, RX: 1})
	test.That(t, between.AxisAngles().Theta, test.ShouldAlmostEqual, 0.4)
	test.That(t, QuaternionAlmostEqual(ea.Quaternion(), Flip(ea.Quaternion()), 1e-9), test.ShouldBeTrue)
}
