package trajectory

import (
	"context"
	"fmt"

	"github.com/pkg/errors"

	"github.com/cellsafe/clashscan/cell"
	"github.com/cellsafe/clashscan/collision"
	"github.com/cellsafe/clashscan/kinematics"
	"github.com/cellsafe/clashscan/spatialmath"
)

// StaticEnvironment is the environment frame index of an environment mesh that does not move.
const StaticEnvironment = -1

// Evaluator holds what every sample of every segment of a scan is tested with. It is read only once built and
// may be shared by concurrent segments.
type Evaluator struct {
	Solver kinematics.Solver
	Poser  cell.MeshPoser
	Oracle collision.Oracle

	// SetA and SetB are indices into the posed meshes of a sample. When Environment is set, it is appended after
	// the posed meshes, so its index is the poser's mesh count.
	SetA, SetB []int

	Environment *spatialmath.Mesh
	// EnvironmentFrame is the index into Solution.Frames the environment moves with, or StaticEnvironment.
	EnvironmentFrame int
}

// Meshes poses every mesh for sol and attaches the environment.
func (ev *Evaluator) Meshes(sol *cell.Solution) ([]*spatialmath.Mesh, error) {
	meshes, err := ev.Poser.PoseMeshes(sol)
	if err != nil {
		return nil, err
	}
	if ev.Environment == nil {
		return meshes, nil
	}
	env := ev.Environment
	if ev.EnvironmentFrame != StaticEnvironment {
		frames := sol.Frames()
		if ev.EnvironmentFrame < 0 || ev.EnvironmentFrame >= len(frames) {
			return nil, errors.Errorf("environment frame %d out of range, solution has %d frames", ev.EnvironmentFrame, len(frames))
		}
		env = env.Transform(frames[ev.EnvironmentFrame])
	}
	// never append into the poser's backing array
	out := make([]*spatialmath.Mesh, 0, len(meshes)+1)
	out = append(out, meshes...)
	return append(out, env), nil
}

// Test partitions meshes into the two sets and asks the oracle for the first intersecting pair.
func (ev *Evaluator) Test(meshes []*spatialmath.Mesh) (*collision.Clash, bool, error) {
	setA, err := pick(meshes, ev.SetA)
	if err != nil {
		return nil, false, err
	}
	setB, err := pick(meshes, ev.SetB)
	if err != nil {
		return nil, false, err
	}
	clash, hit := ev.Oracle.Test(setA, setB)
	return clash, hit, nil
}

func pick(meshes []*spatialmath.Mesh, indices []int) ([]*spatialmath.Mesh, error) {
	out := make([]*spatialmath.Mesh, len(indices))
	for i, idx := range indices {
		if idx < 0 || idx >= len(meshes) {
			return nil, errors.Errorf("mesh index %d out of range, sample has %d meshes", idx, len(meshes))
		}
		out[i] = meshes[idx]
	}
	return out, nil
}

// Segment is the motion between waypoints Index-1 and Index of a program, with both endpoints resolved.
type Segment struct {
	Index      int
	Prev, Curr cell.Waypoint
	PrevSol    *cell.Solution
	CurrSol    *cell.Solution
	Divisions  int
	Evaluator  *Evaluator
}

func (s *Segment) String() string {
	return fmt.Sprintf("segment %d (%d divisions)", s.Index, s.Divisions)
}

// StartIndex is the first sample evaluated. The start of the first segment is the program's first waypoint and is
// sampled; every later segment starts where the previous one's samples already reached, so t=0 is skipped.
func (s *Segment) StartIndex() int {
	if s.Index <= 1 {
		return 0
	}
	return 1
}

// SampleCount is the number of samples the segment yields when evaluated to the end.
func (s *Segment) SampleCount() int {
	n := s.Divisions - s.StartIndex()
	if n < 0 {
		return 0
	}
	return n
}

// Samples returns a fresh iterator over the segment's samples. Iterators are independent; each call restarts.
func (s *Segment) Samples() *SampleIterator {
	return &SampleIterator{seg: s, next: s.StartIndex(), seed: s.PrevSol}
}

// Result is the outcome of evaluating a segment.
type Result struct {
	// Clash is the first intersecting pair, nil when the segment is clear.
	Clash *collision.Clash
	// Sample is the colliding sample, nil when the segment is clear.
	Sample *Sample
	// Evaluated is the number of oracle calls made.
	Evaluated int
}

// Evaluate runs the segment's samples in order and stops at the first clash.
func (s *Segment) Evaluate(ctx context.Context) (Result, error) {
	var res Result
	it := s.Samples()
	for it.Next(ctx) {
		sample := it.Sample()
		res.Evaluated++
		if sample.Clash != nil {
			res.Clash = sample.Clash
			res.Sample = sample
			return res, nil
		}
	}
	return res, it.Err()
}
