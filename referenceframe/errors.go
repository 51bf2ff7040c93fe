package referenceframe

import (
	"fmt"

	"github.com/pkg/errors"
)

// OOBErrString is a string that all OOB errors should contain, so that they can be checked for distinct from other
// Transform errors.
const OOBErrString = "input out of bounds"

var (
	// ErrCircularReference is returned when a model's links and joints form a loop.
	ErrCircularReference = errors.New("infinite loop finding path from end effector to world")

	// ErrNeedOneEndEffector is returned when a model does not have exactly one frame without children.
	ErrNeedOneEndEffector = errors.New("need exactly one end effector")

	// ErrNoModelInformation is used when there is no model information.
	ErrNoModelInformation = errors.New("no model information")
)

// NewIncorrectDoFError returns an error indicating that the length of an input slice does not match the DoF of a frame.
func NewIncorrectDoFError(actual, expected int) error {
	return errors.Errorf("number of inputs does not match frame DoF, expected %d but got %d", expected, actual)
}

// NewReservedWordError returns an error indicating that a reserved name was used for a link or joint.
func NewReservedWordError(configType, reservedWord string) error {
	return errors.Errorf("reserved word: cannot name a %s '%s'", configType, reservedWord)
}

// NewFrameNotInListOfTransformsError returns an error indicating that a frame has no transform defined.
func NewFrameNotInListOfTransformsError(frameName string) error {
	return errors.Errorf("frame named '%s' not in the list of transforms", frameName)
}

// NewParentFrameNotInMapOfParentsError returns an error indicating that a frame's parent could not be found.
func NewParentFrameNotInMapOfParentsError(frameName string) error {
	return errors.Errorf("parent frame named '%s' not in the map of parents", frameName)
}

// NewUnsupportedJointTypeError returns an error indicating that a joint type is not supported.
func NewUnsupportedJointTypeError(jointType string) error {
	return errors.Errorf("unsupported joint type detected: %q", jointType)
}

func newOOBError(value float64, limit Limit) error {
	return fmt.Errorf("%.5f %s %v", value, OOBErrString, limit)
}
