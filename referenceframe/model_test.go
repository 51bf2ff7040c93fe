package referenceframe

import (
	"math"
	"strings"
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"

	"github.com/cellsafe/clashscan/spatialmath"
)

func TestStaticFrame(t *testing.T) {
	pose := spatialmath.NewPoseFromPoint(r3.Vector{X: 1, Y: 2, Z: 3})
	frame, err := NewStaticFrame("test", pose)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, frame.Name(), test.ShouldEqual, "test")
	test.That(t, frame.DoF(), test.ShouldHaveLength, 0)

	out, err := frame.Transform(nil)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, spatialmath.PoseAlmostEqual(out, pose), test.ShouldBeTrue)

	_, err = frame.Transform(FloatsToInputs([]float64{1}))
	test.That(t, err, test.ShouldNotBeNil)

	_, err = NewStaticFrame("nil", nil)
	test.That(t, err, test.ShouldNotBeNil)
}

func TestTranslationalFrame(t *testing.T) {
	frame, err := NewTranslationalFrame("slide", r3.Vector{Y: 2}, Limit{Min: -10, Max: 10})
	test.That(t, err, test.ShouldBeNil)

	pose, err := frame.Transform(FloatsToInputs([]float64{4}))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, spatialmath.R3VectorAlmostEqual(pose.Point(), r3.Vector{Y: 4}, 1e-9), test.ShouldBeTrue)

	// out of bounds inputs still produce a pose
	pose, err = frame.Transform(FloatsToInputs([]float64{20}))
	test.That(t, pose, test.ShouldNotBeNil)
	test.That(t, strings.Contains(err.Error(), OOBErrString), test.ShouldBeTrue)

	_, err = NewTranslationalFrame("zero", r3.Vector{}, Limit{})
	test.That(t, err, test.ShouldNotBeNil)
}

func TestRotationalFrame(t *testing.T) {
	frame, err := NewRotationalFrame("spin", r3.Vector{Z: 1}, Limit{Min: -math.Pi, Max: math.Pi})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, frame.DoF(), test.ShouldResemble, []Limit{{Min: -math.Pi, Max: math.Pi}})

	pose, err := frame.Transform(FloatsToInputs([]float64{math.Pi / 2}))
	test.That(t, err, test.ShouldBeNil)
	pt := spatialmath.TransformPoint(pose, r3.Vector{X: 1})
	test.That(t, spatialmath.R3VectorAlmostEqual(pt, r3.Vector{Y: 1}, 1e-9), test.ShouldBeTrue)

	_, err = frame.Transform(nil)
	test.That(t, err, test.ShouldNotBeNil)
}

func TestSerialModelPoses(t *testing.T) {
	lim := Limit{Min: -math.Pi, Max: math.Pi}
	model, err := NewSerialModel(
		"arm",
		[]string{RevoluteJoint, RevoluteJoint},
		[]r3.Vector{{Z: 1}, {Z: 1}},
		[]r3.Vector{{X: 1}, {X: 1}},
		[]Limit{lim, lim},
	)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, model.DoF(), test.ShouldHaveLength, 2)
	test.That(t, model.FrameNames(), test.ShouldResemble, []string{"arm_joint0", "arm_link0", "arm_joint1", "arm_link1"})

	cases := []struct {
		joints   []float64
		expected r3.Vector
	}{
		{[]float64{0, 0}, r3.Vector{X: 2}},
		{[]float64{math.Pi / 2, 0}, r3.Vector{Y: 2}},
		{[]float64{0, math.Pi / 2}, r3.Vector{X: 1, Y: 1}},
	}
	for _, c := range cases {
		pose, err := model.Transform(FloatsToInputs(c.joints))
		test.That(t, err, test.ShouldBeNil)
		test.That(t, spatialmath.R3VectorAlmostEqual(pose.Point(), c.expected, 1e-9), test.ShouldBeTrue)
	}

	poses, err := model.ComputePoses(FloatsToInputs([]float64{math.Pi / 2, 0}))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, poses, test.ShouldHaveLength, 4)
	test.That(t, spatialmath.R3VectorAlmostEqual(poses[1].Point(), r3.Vector{Y: 1}, 1e-9), test.ShouldBeTrue)

	_, err = model.ComputePoses(FloatsToInputs([]float64{0}))
	test.That(t, err, test.ShouldNotBeNil)

	test.That(t, model.AreInputsValid(FloatsToInputs([]float64{0, 0})), test.ShouldBeTrue)
	test.That(t, model.AreInputsValid(FloatsToInputs([]float64{0, 4})), test.ShouldBeFalse)

	// out of limit inputs still report poses
	poses, err = model.ComputePoses(FloatsToInputs([]float64{0, 4}))
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, poses, test.ShouldHaveLength, 4)
}
