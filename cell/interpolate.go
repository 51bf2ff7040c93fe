package cell

import (
	"github.com/pkg/errors"

	"github.com/cellsafe/clashscan/referenceframe"
	"github.com/cellsafe/clashscan/spatialmath"
)

// ErrMixedTargets is returned when two targets of the same group cannot be interpolated without resolved kinematics.
var ErrMixedTargets = errors.New("cannot interpolate between joint and Cartesian targets without resolved kinematics")

// Interpolate returns the waypoint a fraction t of the way from prev to curr. Joint targets are interpolated
// linearly per axis; Cartesian targets linearly in translation and by slerp in orientation, taking motion type and
// configuration from curr.
func Interpolate(prev, curr Waypoint, t float64) (Waypoint, error) {
	if len(prev.Targets) != len(curr.Targets) {
		return Waypoint{}, errors.Errorf("waypoints have %d and %d group targets", len(prev.Targets), len(curr.Targets))
	}
	out := make([]GroupTarget, len(curr.Targets))
	for g := range curr.Targets {
		target, err := interpolateTarget(prev.Targets[g], curr.Targets[g], t)
		if err != nil {
			return Waypoint{}, errors.Wrapf(err, "group %d", g)
		}
		out[g] = target
	}
	return Waypoint{Targets: out}, nil
}

// InterpolateResolved is Interpolate for waypoints whose endpoint kinematics are known. A group moves in joint space
// unless both targets are Cartesian and curr asks for linear motion; mixed joint and Cartesian pairs are therefore
// interpolated between their resolved joints.
func InterpolateResolved(prev, curr Waypoint, prevSol, currSol *Solution, t float64) (Waypoint, error) {
	if len(prev.Targets) != len(curr.Targets) {
		return Waypoint{}, errors.Errorf("waypoints have %d and %d group targets", len(prev.Targets), len(curr.Targets))
	}
	if len(prevSol.Groups) != len(curr.Targets) || len(currSol.Groups) != len(curr.Targets) {
		return Waypoint{}, errors.New("solutions do not match the waypoint groups")
	}
	out := make([]GroupTarget, len(curr.Targets))
	for g := range curr.Targets {
		pc, prevCart := prev.Targets[g].(*CartesianTarget)
		cc, currCart := curr.Targets[g].(*CartesianTarget)
		if prevCart && currCart && cc.Motion == MotionLinear {
			target, err := interpolateTarget(pc, cc, t)
			if err != nil {
				return Waypoint{}, errors.Wrapf(err, "group %d", g)
			}
			ct := target.(*CartesianTarget)
			seed, err := referenceframe.InterpolateInputs(prevSol.Groups[g].Joints, currSol.Groups[g].Joints, t)
			if err == nil {
				ct.Seed = seed
			}
			out[g] = ct
			continue
		}
		joints, err := referenceframe.InterpolateInputs(prevSol.Groups[g].Joints, currSol.Groups[g].Joints, t)
		if err != nil {
			return Waypoint{}, errors.Wrapf(err, "group %d", g)
		}
		out[g] = &JointTarget{Joints: joints}
	}
	return Waypoint{Targets: out}, nil
}

func interpolateTarget(prev, curr GroupTarget, t float64) (GroupTarget, error) {
	switch c := curr.(type) {
	case *JointTarget:
		p, ok := prev.(*JointTarget)
		if !ok {
			return nil, ErrMixedTargets
		}
		joints, err := referenceframe.InterpolateInputs(p.Joints, c.Joints, t)
		if err != nil {
			return nil, err
		}
		return &JointTarget{Joints: joints}, nil
	case *CartesianTarget:
		p, ok := prev.(*CartesianTarget)
		if !ok {
			return nil, ErrMixedTargets
		}
		seed := referenceframe.CopyInputs(c.Seed)
		if len(p.Seed) == len(c.Seed) && len(c.Seed) > 0 {
			var err error
			if seed, err = referenceframe.InterpolateInputs(p.Seed, c.Seed, t); err != nil {
				return nil, err
			}
		}
		return &CartesianTarget{
			Pose:   spatialmath.Interpolate(p.Pose, c.Pose, t),
			Motion: c.Motion,
			Config: c.Config,
			Seed:   seed,
		}, nil
	default:
		return nil, errors.Errorf("unknown group target type %T", curr)
	}
}
