package spatialmath

import (
	"fmt"

	"github.com/golang/geo/r3"
)

// Pose represents a 6dof pose: a position and an orientation.
type Pose interface {
	Point() r3.Vector
	Orientation() Orientation
}

// NewZeroPose returns a pose at (0,0,0) with same orientation as whatever frame it is placed in.
func NewZeroPose() Pose {
	return newDualQuaternion(r3.Vector{}, NewZeroOrientation().Quaternion())
}

// NewPose takes in a position and orientation and returns a Pose.
func NewPose(p r3.Vector, o Orientation) Pose {
	if o == nil {
		return NewPoseFromPoint(p)
	}
	return newDualQuaternion(p, o.Quaternion())
}

// NewPoseFromOrientation takes in an orientation and returns a Pose at the origin.
func NewPoseFromOrientation(o Orientation) Pose {
	return NewPose(r3.Vector{}, o)
}

// NewPoseFromPoint takes in a cartesian (x,y,z) and stores it as a vector.
// It will have the same orientation as the frame it is in.
func NewPoseFromPoint(point r3.Vector) Pose {
	return newDualQuaternion(point, NewZeroOrientation().Quaternion())
}

func toDualQuaternion(p Pose) *dualQuaternion {
	if dq, ok := p.(*dualQuaternion); ok {
		return dq
	}
	return newDualQuaternion(p.Point(), p.Orientation().Quaternion())
}

// Compose takes in two poses and returns the result of applying b within the frame of a.
// In other words: the returned pose is a point b expressed in a's parent frame.
func Compose(a, b Pose) Pose {
	result := &dualQuaternion{toDualQuaternion(a).Transformation(toDualQuaternion(b).Number)}
	result.Real = normalize(result.Real)
	return result
}

// PoseInverse returns the inverse of a pose.
func PoseInverse(p Pose) Pose {
	return toDualQuaternion(p).invert()
}

// PoseBetween returns the difference between two poses, i.e. the pose that composed with a yields b.
func PoseBetween(a, b Pose) Pose {
	return Compose(PoseInverse(a), b)
}

// TransformPoint maps a point expressed in the pose's frame into the pose's parent frame.
func TransformPoint(p Pose, pt r3.Vector) r3.Vector {
	return toDualQuaternion(p).apply(pt)
}

// Interpolate returns the pose by of the way from p1 to p2: linear in translation, spherical in rotation.
func Interpolate(p1, p2 Pose, by float64) Pose {
	pt := p1.Point().Add(p2.Point().Sub(p1.Point()).Mul(by))
	q := slerp(normalize(p1.Orientation().Quaternion()), normalize(p2.Orientation().Quaternion()), by)
	return newDualQuaternion(pt, q)
}

// PoseAlmostEqual will return a bool describing whether 2 poses are approximately the same.
func PoseAlmostEqual(a, b Pose) bool {
	return PoseAlmostEqualEps(a, b, 1e-6)
}

// PoseAlmostEqualEps will return a bool describing whether 2 poses are approximately the same.
func PoseAlmostEqualEps(a, b Pose, epsilon float64) bool {
	return R3VectorAlmostEqual(a.Point(), b.Point(), epsilon) && OrientationAlmostEqual(a.Orientation(), b.Orientation())
}

// R3VectorAlmostEqual compares two r3.Vector objects and returns if the all elementwise differences are less than epsilon.
func R3VectorAlmostEqual(a, b r3.Vector, epsilon float64) bool {
	d := a.Sub(b)
	return d.X <= epsilon && d.X >= -epsilon && d.Y <= epsilon && d.Y >= -epsilon && d.Z <= epsilon && d.Z >= -epsilon
}

// PoseToString returns a human readable representation of the pose.
func PoseToString(p Pose) string {
	pt := p.Point()
	aa := p.Orientation().AxisAngles()
	return fmt.Sprintf("{X:%.3f Y:%.3f Z:%.3f TH:%.3f RX:%.3f RY:%.3f RZ:%.3f}", pt.X, pt.Y, pt.Z, aa.Theta, aa.RX, aa.RY, aa.RZ)
}
