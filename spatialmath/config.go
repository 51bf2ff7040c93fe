package spatialmath

import (
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"

	"github.com/cellsafe/clashscan/utils"
)

// OrientationType defines what orientation representations are known.
type OrientationType string

// The set of allowed representations for orientation.
const (
	NoOrientation         = OrientationType("")
	EulerAnglesType       = OrientationType("euler_angles")
	AxisAnglesType        = OrientationType("axis_angles")
	QuaternionOrientation = OrientationType("quaternion")
)

// TranslationConfig is the serialised form of a point.
type TranslationConfig struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
	Z float64 `json:"z" yaml:"z"`
}

// NewTranslationConfig creates a TranslationConfig from a point.
func NewTranslationConfig(pt r3.Vector) *TranslationConfig {
	return &TranslationConfig{X: pt.X, Y: pt.Y, Z: pt.Z}
}

// ParseConfig converts a TranslationConfig into a point.
func (cfg *TranslationConfig) ParseConfig() r3.Vector {
	return r3.Vector{X: cfg.X, Y: cfg.Y, Z: cfg.Z}
}

// OrientationConfig is the serialised form of an orientation. Angles are in degrees; quaternion values use the
// keys w, x, y and z.
//
//	euler_angles: roll, pitch, yaw
//	axis_angles:  th, x, y, z
//	quaternion:   w, x, y, z
type OrientationConfig struct {
	Type  OrientationType    `json:"type" yaml:"type"`
	Value map[string]float64 `json:"value" yaml:"value"`
}

// ParseConfig converts an OrientationConfig into an Orientation. A nil config or an empty type is the zero
// orientation.
func (cfg *OrientationConfig) ParseConfig() (Orientation, error) {
	if cfg == nil {
		return NewZeroOrientation(), nil
	}
	v := cfg.Value
	switch cfg.Type {
	case NoOrientation:
		return NewZeroOrientation(), nil
	case EulerAnglesType:
		return &EulerAngles{
			Roll:  utils.DegToRad(v["roll"]),
			Pitch: utils.DegToRad(v["pitch"]),
			Yaw:   utils.DegToRad(v["yaw"]),
		}, nil
	case AxisAnglesType:
		if v["x"] == 0 && v["y"] == 0 && v["z"] == 0 {
			return nil, errors.New("axis_angles orientation needs a non-zero axis")
		}
		return &R4AA{Theta: utils.DegToRad(v["th"]), RX: v["x"], RY: v["y"], RZ: v["z"]}, nil
	case QuaternionOrientation:
		q := &Quaternion{Real: v["w"], Imag: v["x"], Jmag: v["y"], Kmag: v["z"]}
		if Norm(q.Quaternion()) < angleEpsilon {
			return nil, errors.New("quaternion orientation must not be zero")
		}
		nq := Quaternion(normalize(q.Quaternion()))
		return &nq, nil
	default:
		return nil, errors.Errorf("orientation type %q not recognized", cfg.Type)
	}
}

// PoseConfig is the serialised form of a pose.
type PoseConfig struct {
	Translation TranslationConfig  `json:"translation" yaml:"translation"`
	Orientation *OrientationConfig `json:"orientation,omitempty" yaml:"orientation,omitempty"`
}

// ParseConfig converts a PoseConfig into a Pose.
func (cfg *PoseConfig) ParseConfig() (Pose, error) {
	if cfg == nil {
		return NewZeroPose(), nil
	}
	o, err := cfg.Orientation.ParseConfig()
	if err != nil {
		return nil, err
	}
	return NewPose(cfg.Translation.ParseConfig(), o), nil
}
