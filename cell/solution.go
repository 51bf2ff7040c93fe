package cell

import (
	"github.com/cellsafe/clashscan/referenceframe"
	"github.com/cellsafe/clashscan/spatialmath"
)

// GroupState is the resolved state of one group: its joint values and the world pose of every frame of its chain,
// base first and flange last.
type GroupState struct {
	Joints []referenceframe.Input
	Frames []spatialmath.Pose
}

// Flange returns the world pose of the last frame of the group, or nil if the group has no frames.
func (gs GroupState) Flange() spatialmath.Pose {
	if len(gs.Frames) == 0 {
		return nil
	}
	return gs.Frames[len(gs.Frames)-1]
}

// Solution is the resolved kinematic state of a whole cell at one waypoint or sample.
type Solution struct {
	Groups []GroupState
}

// Frames returns every group's frames flattened in group order. Indices into this slice are the frame indices meshes
// and the environment attach to.
func (s *Solution) Frames() []spatialmath.Pose {
	n := 0
	for _, g := range s.Groups {
		n += len(g.Frames)
	}
	frames := make([]spatialmath.Pose, 0, n)
	for _, g := range s.Groups {
		frames = append(frames, g.Frames...)
	}
	return frames
}

// Joints returns the joint values of every group, in group order.
func (s *Solution) Joints() [][]referenceframe.Input {
	joints := make([][]referenceframe.Input, len(s.Groups))
	for i, g := range s.Groups {
		joints[i] = g.Joints
	}
	return joints
}
