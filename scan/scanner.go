// Package scan checks a whole cell program for collisions, evaluating its segments concurrently and reporting the
// earliest offending waypoint.
package scan

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/atomic"
	"golang.org/x/sync/errgroup"

	"github.com/cellsafe/clashscan/cell"
	"github.com/cellsafe/clashscan/collision"
	"github.com/cellsafe/clashscan/kinematics"
	"github.com/cellsafe/clashscan/logging"
	"github.com/cellsafe/clashscan/trajectory"
	"github.com/cellsafe/clashscan/utils"
)

// Scanner runs scans. It holds no per-scan state and may run several scans concurrently.
type Scanner struct {
	solver kinematics.Solver
	poser  cell.MeshPoser
	oracle collision.Oracle
	logger logging.Logger

	// order returns the dispatch order of n segment tasks given as their positions.
	order func(n int) []int
}

// NewScanner returns a scanner resolving kinematics with solver, posing meshes with poser and testing them with
// oracle.
func NewScanner(solver kinematics.Solver, poser cell.MeshPoser, oracle collision.Oracle, logger logging.Logger) *Scanner {
	return &Scanner{
		solver: solver,
		poser:  poser,
		oracle: oracle,
		logger: logger,
		order:  inOrder,
	}
}

func inOrder(n int) []int {
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	return order
}

// scanStats are updated concurrently by segment tasks.
type scanStats struct {
	samples   atomic.Int64
	evaluated atomic.Int64
	skipped   atomic.Int64
}

// Scan checks every segment of program and returns the earliest terminal outcome. Configuration faults return an
// error wrapping ErrInvalidConfig and no report. An unreachable outcome returns both a report in StateUnreachable and
// an error wrapping kinematics.ErrUnreachable.
func (s *Scanner) Scan(ctx context.Context, program cell.Program, opts Options) (*Report, error) {
	start := time.Now()
	runID := uuid.New().String()
	logger := s.logger.WithFields("run", runID)

	if err := opts.validate(); err != nil {
		return nil, err
	}
	ev := &trajectory.Evaluator{
		Solver:           s.solver,
		Poser:            s.poser,
		Oracle:           s.oracle,
		SetA:             opts.SetA,
		SetB:             opts.SetB,
		Environment:      opts.Environment,
		EnvironmentFrame: trajectory.StaticEnvironment,
	}
	if opts.AttachEnvironment {
		ev.EnvironmentFrame = opts.EnvironmentFrame
	}

	red := newReduction()
	stats := &scanStats{}
	finish := func() (*Report, error) {
		return s.report(logger, runID, red.result(), stats, time.Since(start))
	}

	if len(program) == 0 {
		logger.Debug("empty program")
		return finish()
	}

	sols, err := s.resolveWaypoints(ctx, program, ev, opts, red)
	if err != nil {
		return nil, err
	}

	// segment i runs from waypoint i-1 to i; a lone waypoint is checked as segment 0 against itself
	var indices []int
	if len(program) == 1 {
		if len(sols) == 1 {
			indices = []int{0}
		}
	} else {
		for i := 1; i < len(sols); i++ {
			indices = append(indices, i)
		}
	}
	workers := utils.Workers(opts.Workers, len(indices))
	logger.Debugw("scanning", "waypoints", len(program), "segments", len(indices), "workers", workers)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for _, pos := range s.order(len(indices)) {
		index := indices[pos]
		if opts.EarlyExit && red.settledBefore(index) {
			stats.skipped.Inc()
			continue
		}
		g.Go(func() error {
			return s.runSegment(gctx, logger, program, sols, index, ev, opts, red, stats)
		})
	}
	if err := g.Wait(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, err
	}
	return finish()
}

// meshCounter is implemented by posers that know how many meshes they pose without a resolved state.
type meshCounter interface {
	Len() int
}

// frameCounter is implemented by solvers that know how many frames a solution has without solving.
type frameCounter interface {
	FrameCount() int
}

// resolveWaypoints resolves every waypoint in order, seeding each from the one before so consecutive waypoints
// stay on one kinematic branch. It stops at the first unreachable waypoint and offers it to the reduction; the
// returned slice then only covers the waypoints before it. The mesh and frame indices of opts are checked against
// the cell before solving when the poser and solver can count them, and against the first waypoint's state.
func (s *Scanner) resolveWaypoints(
	ctx context.Context,
	program cell.Program,
	ev *trajectory.Evaluator,
	opts Options,
	red *reduction,
) ([]*cell.Solution, error) {
	envCount := 0
	if opts.Environment != nil {
		envCount = 1
	}
	// check what is known before solving, so a fault is not hidden behind an unreachable first waypoint
	meshCount, frameCount := -1, -1
	if mc, ok := s.poser.(meshCounter); ok {
		meshCount = mc.Len() + envCount
	}
	if fc, ok := s.solver.(frameCounter); ok {
		frameCount = fc.FrameCount()
	}
	if err := opts.validateRanges(meshCount, frameCount); err != nil {
		return nil, err
	}

	sols := make([]*cell.Solution, 0, len(program))
	var seed *cell.Solution
	for i, wp := range program {
		sol, err := s.solver.Solve(ctx, wp, seed)
		if err != nil {
			if errors.Is(err, kinematics.ErrUnreachable) {
				red.offer(outcome{index: i, state: StateUnreachable, t: 1, err: errors.Wrapf(err, "waypoint %d", i)})
				return sols, nil
			}
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			return nil, errors.Wrapf(err, "waypoint %d", i)
		}
		if i == 0 {
			meshes, err := s.poser.PoseMeshes(sol)
			if err != nil {
				return nil, configError(err)
			}
			if err := opts.validateRanges(len(meshes)+envCount, len(sol.Frames())); err != nil {
				return nil, err
			}
		}
		sols = append(sols, sol)
		seed = sol
	}
	return sols, nil
}

// runSegment evaluates one segment and offers its terminal outcome, if any. It gives up between samples once an
// earlier segment has settled the result.
func (s *Scanner) runSegment(
	ctx context.Context,
	logger logging.Logger,
	program cell.Program,
	sols []*cell.Solution,
	index int,
	ev *trajectory.Evaluator,
	opts Options,
	red *reduction,
	stats *scanStats,
) error {
	if opts.EarlyExit && red.settledBefore(index) {
		stats.skipped.Inc()
		return nil
	}
	prev := index - 1
	if index == 0 {
		prev = 0
	}
	seg := &trajectory.Segment{
		Index:     index,
		Prev:      program[prev],
		Curr:      program[index],
		PrevSol:   sols[prev],
		CurrSol:   sols[index],
		Divisions: trajectory.Divisions(sols[prev], sols[index], opts.LinearStep, opts.AngularStep),
		Evaluator: ev,
	}
	if index == 0 {
		seg.Divisions = 1
	}
	stats.evaluated.Inc()

	it := seg.Samples()
	n := 0
	for it.Next(ctx) {
		n++
		stats.samples.Inc()
		sample := it.Sample()
		if sample.Clash != nil {
			logger.Debugw("segment collides", "segment", index, "divisions", seg.Divisions, "sample", sample.Index,
				"a", sample.Clash.A.Label(), "b", sample.Clash.B.Label())
			red.offer(outcome{index: index, state: StateCollision, t: sample.T, clash: sample.Clash})
			return nil
		}
		if opts.EarlyExit && red.settledBefore(index) {
			logger.Debugw("segment abandoned", "segment", index, "samples", n)
			return nil
		}
	}
	if err := it.Err(); err != nil {
		if errors.Is(err, kinematics.ErrUnreachable) {
			t := float64(seg.StartIndex()+n) / float64(seg.Divisions)
			logger.Debugw("segment unreachable", "segment", index, "t", t, "error", err)
			red.offer(outcome{index: index, state: StateUnreachable, t: t, err: err})
			return nil
		}
		return err
	}
	logger.Debugw("segment clear", "segment", index, "divisions", seg.Divisions, "samples", n)
	return nil
}

func (s *Scanner) report(logger logging.Logger, runID string, best *outcome, stats *scanStats, elapsed time.Duration) (*Report, error) {
	r := &Report{runID: runID, state: StateClear, samples: int(stats.samples.Load()), elapsed: elapsed}
	var err error
	if best != nil {
		r.state = best.state
		r.index = best.index
		r.t = best.t
		if best.clash != nil {
			r.a, r.b = best.clash.A, best.clash.B
		}
		err = best.err
	}
	logger.Infow("scan finished",
		"state", r.state.String(),
		"index", r.index,
		"samples", r.samples,
		"segments_evaluated", stats.evaluated.Load(),
		"segments_skipped", stats.skipped.Load(),
		"elapsed", elapsed,
	)
	return r, err
}
