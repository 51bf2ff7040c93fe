// Package kinematics resolves cell waypoints into joint values and world frame poses.
package kinematics

import (
	"context"

	"github.com/pkg/errors"

	"github.com/cellsafe/clashscan/cell"
	"github.com/cellsafe/clashscan/logging"
	"github.com/cellsafe/clashscan/referenceframe"
	"github.com/cellsafe/clashscan/spatialmath"
)

// ErrUnreachable is returned, wrapped, when a target cannot be reached within the joint limits of its group.
var ErrUnreachable = errors.New("target is kinematically unreachable")

// Solver resolves the kinematics of a whole waypoint. seed is the solution of a nearby state, such as the previous
// sample, and may be nil. Implementations must be safe for concurrent use.
type Solver interface {
	Solve(ctx context.Context, wp cell.Waypoint, seed *cell.Solution) (*cell.Solution, error)
}

// ModelSolver resolves waypoints against the serial-chain models of a cell. Joint targets are resolved by forward
// kinematics; Cartesian targets by a derivative-free inverse kinematics search.
type ModelSolver struct {
	cell   *cell.Cell
	opts   IKOptions
	logger logging.Logger
}

// NewModelSolver returns a solver for the groups of c.
func NewModelSolver(c *cell.Cell, opts IKOptions, logger logging.Logger) (*ModelSolver, error) {
	if c == nil {
		return nil, errors.New("cell is required")
	}
	if err := opts.validate(); err != nil {
		return nil, err
	}
	return &ModelSolver{cell: c, opts: opts, logger: logger}, nil
}

// FrameCount returns the number of frames in every solution, the length of Solution.Frames.
func (s *ModelSolver) FrameCount() int {
	return len(s.cell.FrameNames())
}

// Solve implements Solver.
func (s *ModelSolver) Solve(ctx context.Context, wp cell.Waypoint, seed *cell.Solution) (*cell.Solution, error) {
	if len(wp.Targets) != len(s.cell.Groups) {
		return nil, errors.Errorf("waypoint has %d group targets, cell has %d groups", len(wp.Targets), len(s.cell.Groups))
	}
	sol := &cell.Solution{Groups: make([]cell.GroupState, len(wp.Targets))}
	for g, target := range wp.Targets {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		group := s.cell.Groups[g]
		var joints []referenceframe.Input
		switch t := target.(type) {
		case *cell.JointTarget:
			if len(t.Joints) != len(group.Model.DoF()) {
				return nil, errors.Wrapf(referenceframe.NewIncorrectDoFError(len(t.Joints), len(group.Model.DoF())), "group %s", group.Name)
			}
			if !withinLimits(group.Model.DoF(), t.Joints) {
				return nil, errors.Wrapf(ErrUnreachable, "group %s joints %v outside limits", group.Name, referenceframe.InputsToFloats(t.Joints))
			}
			joints = referenceframe.CopyInputs(t.Joints)
		case *cell.CartesianTarget:
			var seeds [][]referenceframe.Input
			if seed != nil && g < len(seed.Groups) {
				seeds = append(seeds, seed.Groups[g].Joints)
			}
			seeds = append(seeds, t.Seed)
			goal := spatialmath.PoseBetween(group.Base, t.Pose)
			var err error
			if joints, err = s.inverse(ctx, group.Model, goal, seeds); err != nil {
				if errors.Is(err, ErrUnreachable) {
					s.logger.Debugw("inverse kinematics failed", "group", group.Name, "goal", spatialmath.PoseToString(t.Pose))
				}
				return nil, errors.Wrapf(err, "group %s", group.Name)
			}
		default:
			return nil, errors.Errorf("group %s: unknown target type %T", group.Name, target)
		}
		frames, err := s.forward(group, joints)
		if err != nil {
			return nil, err
		}
		sol.Groups[g] = cell.GroupState{Joints: joints, Frames: frames}
	}
	return sol, nil
}

// forward returns the world pose of every frame of the group.
func (s *ModelSolver) forward(group cell.Group, joints []referenceframe.Input) ([]spatialmath.Pose, error) {
	poses, err := group.Model.ComputePoses(joints)
	if err != nil {
		return nil, errors.Wrapf(err, "group %s", group.Name)
	}
	for i, p := range poses {
		poses[i] = spatialmath.Compose(group.Base, p)
	}
	return poses, nil
}

func withinLimits(limits []referenceframe.Limit, inputs []referenceframe.Input) bool {
	for i, l := range limits {
		if !l.Contains(inputs[i].Value) {
			return false
		}
	}
	return true
}
