package referenceframe

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"github.com/samber/lo"

	"github.com/cellsafe/clashscan/spatialmath"
	"github.com/cellsafe/clashscan/utils"
)

// Supported joint types.
const (
	RevoluteJoint  = "revolute"
	PrismaticJoint = "prismatic"
	FixedJoint     = "fixed"
)

// ModelConfig represents all supported fields in a kinematics model file.
type ModelConfig struct {
	Name   string        `json:"name" yaml:"name"`
	Links  []LinkConfig  `json:"links,omitempty" yaml:"links,omitempty"`
	Joints []JointConfig `json:"joints,omitempty" yaml:"joints,omitempty"`
}

// LinkConfig is a fixed offset from its parent.
type LinkConfig struct {
	ID          string                         `json:"id" yaml:"id"`
	Parent      string                         `json:"parent" yaml:"parent"`
	Translation spatialmath.TranslationConfig  `json:"translation" yaml:"translation"`
	Orientation *spatialmath.OrientationConfig `json:"orientation,omitempty" yaml:"orientation,omitempty"`
}

// JointConfig is a single degree of freedom attached to its parent. Limits are in degrees for revolute joints and mm
// for prismatic joints.
type JointConfig struct {
	ID     string                        `json:"id" yaml:"id"`
	Type   string                        `json:"type" yaml:"type"`
	Parent string                        `json:"parent" yaml:"parent"`
	Axis   spatialmath.TranslationConfig `json:"axis" yaml:"axis"`
	Max    float64                       `json:"max" yaml:"max"`
	Min    float64                       `json:"min" yaml:"min"`
}

// ToFrame converts a LinkConfig into a static frame.
func (cfg *LinkConfig) ToFrame() (Frame, error) {
	o, err := cfg.Orientation.ParseConfig()
	if err != nil {
		return nil, errors.Wrapf(err, "link %q", cfg.ID)
	}
	return NewStaticFrame(cfg.ID, spatialmath.NewPose(cfg.Translation.ParseConfig(), o))
}

// ToFrame converts a JointConfig into a frame of the matching type.
func (cfg *JointConfig) ToFrame() (Frame, error) {
	if cfg.Min > cfg.Max {
		return nil, errors.Errorf("joint %q has min %v greater than max %v", cfg.ID, cfg.Min, cfg.Max)
	}
	axis := cfg.Axis.ParseConfig()
	switch cfg.Type {
	case RevoluteJoint:
		return NewRotationalFrame(cfg.ID, axis, Limit{Min: utils.DegToRad(cfg.Min), Max: utils.DegToRad(cfg.Max)})
	case PrismaticJoint:
		return NewTranslationalFrame(cfg.ID, axis, Limit{Min: cfg.Min, Max: cfg.Max})
	case FixedJoint:
		return NewZeroStaticFrame(cfg.ID), nil
	default:
		return nil, NewUnsupportedJointTypeError(cfg.Type)
	}
}

// UnmarshalModelJSON will parse the given JSON data into a kinematics model. modelName sets the name of the model,
// will use the name from the JSON if string is empty.
func UnmarshalModelJSON(jsonData []byte, modelName string) (*SimpleModel, error) {
	// empty data probably means that the group has no model information
	if len(jsonData) == 0 {
		return nil, ErrNoModelInformation
	}

	m := &ModelConfig{}
	if err := json.Unmarshal(jsonData, m); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal json file")
	}

	return m.ParseConfig(modelName)
}

// ParseModelJSONFile will read a given file and then parse the contained JSON data.
func ParseModelJSONFile(filename, modelName string) (*SimpleModel, error) {
	//nolint:gosec
	jsonData, err := os.ReadFile(filename)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read json file")
	}
	return UnmarshalModelJSON(jsonData, modelName)
}

// ParseConfig converts the ModelConfig struct into a full model with the name modelName.
func (cfg *ModelConfig) ParseConfig(modelName string) (*SimpleModel, error) {
	if modelName == "" {
		modelName = cfg.Name
	}
	if len(cfg.Links)+len(cfg.Joints) == 0 {
		return nil, ErrNoModelInformation
	}

	transforms := map[string]Frame{}
	// Make a map of parents for each element for post-process, to allow items to be processed out of order
	parentMap := map[string]string{}

	for _, link := range cfg.Links {
		if link.ID == World {
			return nil, NewReservedWordError("link", World)
		}
		if _, ok := transforms[link.ID]; ok {
			return nil, errors.Errorf("duplicate frame id %q", link.ID)
		}
		frame, err := link.ToFrame()
		if err != nil {
			return nil, err
		}
		parentMap[link.ID] = link.Parent
		transforms[link.ID] = frame
	}
	for _, joint := range cfg.Joints {
		if joint.ID == World {
			return nil, NewReservedWordError("joint", World)
		}
		if _, ok := transforms[joint.ID]; ok {
			return nil, errors.Errorf("duplicate frame id %q", joint.ID)
		}
		frame, err := joint.ToFrame()
		if err != nil {
			return nil, err
		}
		parentMap[joint.ID] = joint.Parent
		transforms[joint.ID] = frame
	}

	ot, err := sortTransforms(transforms, parentMap)
	if err != nil {
		return nil, err
	}
	return NewSimpleModel(modelName, ot), nil
}

// Create an ordered list of transforms given a mapping of child to parent frames.
func sortTransforms(transforms map[string]Frame, parents map[string]string) ([]Frame, error) {
	// find the end effector first - determine which transforms have no children
	ees := map[string]string{}
	for child, parent := range parents {
		ees[child] = parent
	}
	// now remove all parents
	for _, parent := range parents {
		delete(ees, parent)
	}
	// ensure there is only on end effector
	if len(ees) != 1 {
		return nil, fmt.Errorf("%w, have %v", ErrNeedOneEndEffector, ees)
	}

	// start the search from the end effector
	curr := lo.Keys(ees)[0]
	seen := map[string]bool{curr: true}
	orderedTransforms := []Frame{}
	for i := 0; i < len(parents); i++ {
		frame, ok := transforms[curr]
		if !ok {
			return nil, NewFrameNotInListOfTransformsError(curr)
		}
		orderedTransforms = append(orderedTransforms, frame)

		// find the parent of the current transform
		parent, ok := parents[curr]
		if !ok {
			return nil, NewParentFrameNotInMapOfParentsError(curr)
		}

		// make sure it wasn't seen, mark it seen, then add it to the list
		if seen[parent] {
			return nil, ErrCircularReference
		}
		seen[parent] = true

		// update the frame to add next
		curr = parent
	}
	if curr != World && curr != "" {
		return nil, NewFrameNotInListOfTransformsError(curr)
	}

	// After the above loop, the transforms are in reverse order, so we reverse the list.
	for i, j := 0, len(orderedTransforms)-1; i < j; i, j = i+1, j-1 {
		orderedTransforms[i], orderedTransforms[j] = orderedTransforms[j], orderedTransforms[i]
	}

	return orderedTransforms, nil
}

// NewSerialModel builds a chain from joint axes alternating with fixed link offsets: joint i rotates (or
// translates) about axes[i] and is followed by a link offset by offsets[i]. It is a shorthand for small models
// written inline in job files and tests.
func NewSerialModel(name string, types []string, axes, offsets []r3.Vector, limits []Limit) (*SimpleModel, error) {
	if len(types) != len(axes) || len(axes) != len(offsets) || len(offsets) != len(limits) {
		return nil, errors.New("joint types, axes, offsets and limits must have the same length")
	}
	frames := make([]Frame, 0, 2*len(axes))
	for i := range axes {
		jointName := fmt.Sprintf("%s_joint%d", name, i)
		var (
			joint Frame
			err   error
		)
		switch types[i] {
		case RevoluteJoint:
			joint, err = NewRotationalFrame(jointName, axes[i], limits[i])
		case PrismaticJoint:
			joint, err = NewTranslationalFrame(jointName, axes[i], limits[i])
		default:
			err = NewUnsupportedJointTypeError(types[i])
		}
		if err != nil {
			return nil, err
		}
		link, err := NewStaticFrame(fmt.Sprintf("%s_link%d", name, i), spatialmath.NewPoseFromPoint(offsets[i]))
		if err != nil {
			return nil, err
		}
		frames = append(frames, joint, link)
	}
	return NewSimpleModel(name, frames), nil
}
