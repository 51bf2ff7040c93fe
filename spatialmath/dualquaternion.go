// Package spatialmath defines spatial mathematical operations: poses, orientations and the
// triangle meshes that are tested for intersection.
package spatialmath

import (
	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/num/dualquat"
	"gonum.org/v1/gonum/num/quat"
)

// dualQuaternion defines functions to perform rigid transformations in 3D.
// The real part is the unit rotation quaternion and the dual part is 0.5 * t * real.
type dualQuaternion struct {
	dualquat.Number
}

func newDualQuaternion(pt r3.Vector, q quat.Number) *dualQuaternion {
	q = normalize(q)
	return &dualQuaternion{dualquat.Number{
		Real: q,
		Dual: quat.Scale(0.5, quat.Mul(quat.Number{Imag: pt.X, Jmag: pt.Y, Kmag: pt.Z}, q)),
	}}
}

// Point returns the translation of the pose.
func (q *dualQuaternion) Point() r3.Vector {
	t := quat.Scale(2, quat.Mul(q.Dual, quat.Conj(q.Real)))
	return r3.Vector{X: t.Imag, Y: t.Jmag, Z: t.Kmag}
}

// Orientation returns the rotation of the pose.
func (q *dualQuaternion) Orientation() Orientation {
	o := Quaternion(q.Real)
	return &o
}

// Transformation multiplies the dual quat contained in this dualQuaternion by another dual quat.
func (q *dualQuaternion) Transformation(by dualquat.Number) dualquat.Number {
	// Ensure we are multiplying by a unit dual quaternion
	if vecLen := quat.Abs(by.Real); vecLen != 1 {
		by.Real = quat.Scale(1/vecLen, by.Real)
		by.Dual = quat.Scale(1/vecLen, by.Dual)
	}
	return dualquat.Mul(q.Number, by)
}

// invert returns the inverse rigid transformation. For a unit dual quaternion this is the
// quaternion conjugate of both parts.
func (q *dualQuaternion) invert() *dualQuaternion {
	return &dualQuaternion{dualquat.Number{Real: quat.Conj(q.Real), Dual: quat.Conj(q.Dual)}}
}

// apply transforms a point from the pose's frame into its parent frame.
func (q *dualQuaternion) apply(pt r3.Vector) r3.Vector {
	rotated := quat.Mul(quat.Mul(q.Real, quat.Number{Imag: pt.X, Jmag: pt.Y, Kmag: pt.Z}), quat.Conj(q.Real))
	return r3.Vector{X: rotated.Imag, Y: rotated.Jmag, Z: rotated.Kmag}.Add(q.Point())
}
