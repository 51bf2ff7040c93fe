package referenceframe

import (
	"go.uber.org/multierr"

	"github.com/cellsafe/clashscan/spatialmath"
)

// A Model is a serial chain of frames driven by a flat slice of inputs.
type Model interface {
	Frame

	// ComputePoses returns the pose of every frame in the chain, base first and end effector last, relative to
	// the model's base. Out of bounds inputs still produce poses alongside an error containing OOBErrString.
	ComputePoses(inputs []Input) ([]spatialmath.Pose, error)

	// FrameNames returns the names of the frames in the chain in the order ComputePoses reports them.
	FrameNames() []string
}

// SimpleModel is a Model built from an ordered list of frames.
// Generally speaking, a joint will attach a link to the frame before it
// and a link will carry the fixed offset to the next joint.
type SimpleModel struct {
	name string
	// ordTransforms is the list of transforms ordered from base to end effector
	ordTransforms []Frame
	limits        []Limit
}

// NewSimpleModel constructs a new model from frames ordered base first.
func NewSimpleModel(name string, ordTransforms []Frame) *SimpleModel {
	limits := make([]Limit, 0, len(ordTransforms))
	for _, transform := range ordTransforms {
		limits = append(limits, transform.DoF()...)
	}
	return &SimpleModel{name: name, ordTransforms: ordTransforms, limits: limits}
}

// Name returns the name of this model.
func (m *SimpleModel) Name() string {
	return m.name
}

// Transform takes a list of joint inputs and computes the pose of the end effector relative to the model's base.
func (m *SimpleModel) Transform(inputs []Input) (spatialmath.Pose, error) {
	poses, err := m.ComputePoses(inputs)
	if poses == nil {
		return nil, err
	}
	if len(poses) == 0 {
		return spatialmath.NewZeroPose(), err
	}
	return poses[len(poses)-1], err
}

// ComputePoses composes the chain from the base outwards and returns each intermediate pose.
func (m *SimpleModel) ComputePoses(inputs []Input) ([]spatialmath.Pose, error) {
	if len(inputs) != len(m.limits) {
		return nil, NewIncorrectDoFError(len(inputs), len(m.limits))
	}
	var err error
	poses := make([]spatialmath.Pose, 0, len(m.ordTransforms))
	composed := spatialmath.NewZeroPose()
	posIdx := 0
	for _, transform := range m.ordTransforms {
		dof := len(transform.DoF()) + posIdx
		pose, errNew := transform.Transform(inputs[posIdx:dof])
		posIdx = dof
		// Fail if inputs are incorrect and pose is nil, but allow querying out-of-bounds positions
		if pose == nil {
			return nil, errNew
		}
		multierr.AppendInto(&err, errNew)
		composed = spatialmath.Compose(composed, pose)
		poses = append(poses, composed)
	}
	return poses, err
}

// FrameNames returns the frame names base first.
func (m *SimpleModel) FrameNames() []string {
	names := make([]string, 0, len(m.ordTransforms))
	for _, transform := range m.ordTransforms {
		names = append(names, transform.Name())
	}
	return names
}

// DoF returns the limits of every input of the model, base first.
func (m *SimpleModel) DoF() []Limit {
	return m.limits
}

// AreInputsValid checks whether the given inputs respect every joint limit.
func (m *SimpleModel) AreInputsValid(inputs []Input) bool {
	if len(inputs) != len(m.limits) {
		return false
	}
	for i, limit := range m.limits {
		if !limit.Contains(inputs[i].Value) {
			return false
		}
	}
	return true
}

// AlmostEquals returns true if the only difference between this model and another is floating point inprecision.
func (m *SimpleModel) AlmostEquals(otherFrame Frame) bool {
	other, ok := otherFrame.(*SimpleModel)
	if !ok {
		return false
	}

	if m.name != other.name {
		return false
	}

	if len(m.ordTransforms) != len(other.ordTransforms) {
		return false
	}

	for idx, f := range m.ordTransforms {
		if !f.AlmostEquals(other.ordTransforms[idx]) {
			return false
		}
	}

	return true
}
