package scan

import (
	"context"
	"math/rand"
	"testing"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"go.uber.org/atomic"
	"go.viam.com/test"

	"github.com/cellsafe/clashscan/cell"
	"github.com/cellsafe/clashscan/collision"
	"github.com/cellsafe/clashscan/kinematics"
	"github.com/cellsafe/clashscan/logging"
	"github.com/cellsafe/clashscan/referenceframe"
	"github.com/cellsafe/clashscan/spatialmath"
)

const (
	toolIndex     = 0
	obstacleIndex = 1
	flangeFrame   = 3
)

// gantry is an XY gantry carrying a unit cube tool over a unit cube obstacle fixed at the origin.
type gantry struct {
	solver *kinematics.ModelSolver
	poser  *cell.LinkMeshPoser
}

func unitCube(t *testing.T, center r3.Vector, label string) *spatialmath.Mesh {
	t.Helper()
	m, err := spatialmath.NewBoxMesh(spatialmath.NewPoseFromPoint(center), r3.Vector{X: 1, Y: 1, Z: 1}, label)
	test.That(t, err, test.ShouldBeNil)
	return m
}

func newGantry(t *testing.T) *gantry {
	t.Helper()
	model, err := referenceframe.NewSerialModel(
		"gantry",
		[]string{referenceframe.PrismaticJoint, referenceframe.PrismaticJoint},
		[]r3.Vector{{X: 1}, {Y: 1}},
		[]r3.Vector{{}, {}},
		[]referenceframe.Limit{{Min: -100, Max: 100}, {Min: -100, Max: 100}},
	)
	test.That(t, err, test.ShouldBeNil)
	c, err := cell.NewCell(cell.Group{Name: "gantry", Model: model})
	test.That(t, err, test.ShouldBeNil)
	solver, err := kinematics.NewModelSolver(c, kinematics.DefaultIKOptions(), logging.NewTestLogger(t))
	test.That(t, err, test.ShouldBeNil)
	poser, err := cell.NewLinkMeshPoser(
		cell.AttachedMesh{Frame: flangeFrame, Mesh: unitCube(t, r3.Vector{}, "tool")},
		cell.AttachedMesh{Frame: cell.StaticFrame, Mesh: unitCube(t, r3.Vector{}, "obstacle")},
	)
	test.That(t, err, test.ShouldBeNil)
	return &gantry{solver: solver, poser: poser}
}

func (g *gantry) scanner(t *testing.T, oracle collision.Oracle) *Scanner {
	t.Helper()
	if oracle == nil {
		oracle = collision.NewMeshOracle()
	}
	return NewScanner(g.solver, g.poser, oracle, logging.NewTestLogger(t))
}

// program moves the tool through the given (x, y) positions.
func program(points ...[2]float64) cell.Program {
	p := make(cell.Program, 0, len(points))
	for _, pt := range points {
		p = append(p, cell.NewWaypoint(&cell.JointTarget{Joints: referenceframe.FloatsToInputs(pt[:])}))
	}
	return p
}

func options(step float64) Options {
	opts := DefaultOptions()
	opts.SetA = []int{toolIndex}
	opts.SetB = []int{obstacleIndex}
	opts.LinearStep = step
	opts.AngularStep = step
	return opts
}

type countingOracle struct {
	inner collision.Oracle
	calls atomic.Int64
}

func (o *countingOracle) Test(setA, setB []*spatialmath.Mesh) (*collision.Clash, bool) {
	o.calls.Inc()
	return o.inner.Test(setA, setB)
}

func reverseOrder(n int) []int {
	order := make([]int, n)
	for i := range order {
		order[i] = n - 1 - i
	}
	return order
}

func TestScanStaticClear(t *testing.T) {
	g := newGantry(t)
	report, err := g.scanner(t, nil).Scan(context.Background(), program([2]float64{3, 0}, [2]float64{3, 0}, [2]float64{3, 0}), options(0.1))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, report.HasCollision(), test.ShouldBeFalse)
	test.That(t, report.State(), test.ShouldEqual, StateClear)
	_, ok := report.OffendingIndex()
	test.That(t, ok, test.ShouldBeFalse)
	_, _, ok = report.Meshes()
	test.That(t, ok, test.ShouldBeFalse)
	test.That(t, report.Samples(), test.ShouldEqual, 1)
	test.That(t, report.RunID(), test.ShouldNotBeEmpty)
}

func TestScanClosingDistance(t *testing.T) {
	g := newGantry(t)
	report, err := g.scanner(t, nil).Scan(context.Background(), program([2]float64{-2, 0}, [2]float64{0, 0}), options(0.1))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, report.HasCollision(), test.ShouldBeTrue)
	idx, ok := report.OffendingIndex()
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, idx, test.ShouldEqual, 1)
	a, b, ok := report.Meshes()
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, a.Label(), test.ShouldEqual, "tool")
	test.That(t, b.Label(), test.ShouldEqual, "obstacle")
	test.That(t, report.String(), test.ShouldContainSubstring, "collision at waypoint 1")
}

func TestScanReportsEarliestSegment(t *testing.T) {
	g := newGantry(t)
	// segments 1 and 2 both pass through the obstacle; segment 3 is far away
	prog := program([2]float64{-3, 0}, [2]float64{0.2, 0}, [2]float64{3, 0}, [2]float64{3, 10})
	orders := map[string]func(int) []int{"in order": inOrder, "reversed": reverseOrder}
	for name, order := range orders {
		t.Run(name, func(t *testing.T) {
			for _, workers := range []int{1, 2, 4} {
				for _, early := range []bool{true, false} {
					s := g.scanner(t, nil)
					s.order = order
					opts := options(0.25)
					opts.Workers = workers
					opts.EarlyExit = early
					report, err := s.Scan(context.Background(), prog, opts)
					test.That(t, err, test.ShouldBeNil)
					idx, ok := report.OffendingIndex()
					test.That(t, ok, test.ShouldBeTrue)
					test.That(t, idx, test.ShouldEqual, 1)
				}
			}
		})
	}
}

func TestScanDeterministicUnderPermutation(t *testing.T) {
	g := newGantry(t)
	// segments 2, 4 and 5 pass through the obstacle
	prog := program(
		[2]float64{-10, 5}, [2]float64{-5, 5}, [2]float64{5, -5}, [2]float64{5, 5},
		[2]float64{-5, -5}, [2]float64{5, 5}, [2]float64{10, 10},
	)
	var want *Report
	for seed := int64(0); seed < 12; seed++ {
		s := g.scanner(t, nil)
		rng := rand.New(rand.NewSource(seed))
		s.order = rng.Perm
		opts := options(0.2)
		opts.Workers = 1 + int(seed%4)
		report, err := s.Scan(context.Background(), prog, opts)
		test.That(t, err, test.ShouldBeNil)
		if want == nil {
			want = report
			idx, _ := report.OffendingIndex()
			test.That(t, idx, test.ShouldEqual, 2)
			continue
		}
		gotIdx, _ := report.OffendingIndex()
		wantIdx, _ := want.OffendingIndex()
		test.That(t, gotIdx, test.ShouldEqual, wantIdx)
		gotT, _ := report.SampleParameter()
		wantT, _ := want.SampleParameter()
		test.That(t, gotT, test.ShouldEqual, wantT)
		a, b, _ := report.Meshes()
		wa, wb, _ := want.Meshes()
		test.That(t, a.Label(), test.ShouldEqual, wa.Label())
		test.That(t, b.Label(), test.ShouldEqual, wb.Label())
	}
}

func TestScanOracleCallCount(t *testing.T) {
	g := newGantry(t)
	// divisions at step 0.5: 4, 1, 5, 1
	prog := program([2]float64{5, 0}, [2]float64{7, 0}, [2]float64{7, 0}, [2]float64{9.5, 0}, [2]float64{9.5, 0})
	for _, early := range []bool{true, false} {
		oracle := &countingOracle{inner: collision.NewMeshOracle()}
		opts := options(0.5)
		opts.EarlyExit = early
		report, err := g.scanner(t, oracle).Scan(context.Background(), prog, opts)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, report.HasCollision(), test.ShouldBeFalse)
		// d1 + sum(d_i - 1)
		test.That(t, oracle.calls.Load(), test.ShouldEqual, int64(4+0+4+0))
		test.That(t, report.Samples(), test.ShouldEqual, 8)
	}
}

func TestScanZeroMotionSingleSample(t *testing.T) {
	g := newGantry(t)
	oracle := &countingOracle{inner: collision.NewMeshOracle()}
	report, err := g.scanner(t, oracle).Scan(context.Background(), program([2]float64{0, 4}, [2]float64{0, 4}), options(0.01))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, report.HasCollision(), test.ShouldBeFalse)
	test.That(t, oracle.calls.Load(), test.ShouldEqual, int64(1))
}

func TestScanEnvironmentOnMovingFrame(t *testing.T) {
	g := newGantry(t)
	prog := program([2]float64{-4, 0.3}, [2]float64{-3, 0.3}, [2]float64{4, 0.3})

	// reference: the tool moves with the gantry
	reference, err := g.scanner(t, nil).Scan(context.Background(), prog, options(0.25))
	test.That(t, err, test.ShouldBeNil)

	// the same cube as an environment mesh carried by the flange, tested against the obstacle
	opts := options(0.25)
	opts.Environment = unitCube(t, r3.Vector{}, "carried")
	opts.AttachEnvironment = true
	opts.EnvironmentFrame = flangeFrame
	opts.SetA = []int{g.poser.Len()}
	report, err := g.scanner(t, nil).Scan(context.Background(), prog, opts)
	test.That(t, err, test.ShouldBeNil)

	test.That(t, report.HasCollision(), test.ShouldBeTrue)
	idx, _ := report.OffendingIndex()
	refIdx, _ := reference.OffendingIndex()
	test.That(t, idx, test.ShouldEqual, refIdx)
	tv, _ := report.SampleParameter()
	refT, _ := reference.SampleParameter()
	test.That(t, tv, test.ShouldEqual, refT)
	a, _, _ := report.Meshes()
	test.That(t, a.Label(), test.ShouldEqual, "carried")
}

func TestScanMonotonicity(t *testing.T) {
	g := newGantry(t)
	steps := []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 4}
	for _, y := range []float64{-1.6, -1.2, -0.8, -0.4, 0, 0.3, 0.7, 1.1, 1.5} {
		// the tool sweeps along x at height y; the cubes intersect iff |y| <= 1
		prog := program([2]float64{-6, y}, [2]float64{6, y})
		intersects := y >= -1 && y <= 1
		for _, step := range steps {
			report, err := g.scanner(t, nil).Scan(context.Background(), prog, options(step))
			test.That(t, err, test.ShouldBeNil)
			if !intersects {
				test.That(t, report.HasCollision(), test.ShouldBeFalse)
				continue
			}
			// the overlap spans two units of travel, so any step up to one unit lands a sample inside it
			if step <= 1 {
				test.That(t, report.HasCollision(), test.ShouldBeTrue)
			}
		}
	}
}

func TestScanUnreachable(t *testing.T) {
	g := newGantry(t)

	t.Run("unreachable waypoint", func(t *testing.T) {
		prog := program([2]float64{5, 5}, [2]float64{200, 5}, [2]float64{5, 5})
		report, err := g.scanner(t, nil).Scan(context.Background(), prog, options(0.5))
		test.That(t, errors.Is(err, kinematics.ErrUnreachable), test.ShouldBeTrue)
		test.That(t, report, test.ShouldNotBeNil)
		test.That(t, report.State(), test.ShouldEqual, StateUnreachable)
		test.That(t, report.HasCollision(), test.ShouldBeFalse)
		idx, ok := report.OffendingIndex()
		test.That(t, ok, test.ShouldBeTrue)
		test.That(t, idx, test.ShouldEqual, 1)
	})

	t.Run("range faults beat an unreachable first waypoint", func(t *testing.T) {
		prog := program([2]float64{200, 5}, [2]float64{5, 5})
		for _, mutate := range []func(o *Options){
			func(o *Options) { o.SetB = []int{5} },
			func(o *Options) {
				o.Environment = unitCube(t, r3.Vector{}, "env")
				o.AttachEnvironment = true
				o.EnvironmentFrame = 9
			},
		} {
			opts := options(0.5)
			mutate(&opts)
			report, err := g.scanner(t, nil).Scan(context.Background(), prog, opts)
			test.That(t, errors.Is(err, ErrInvalidConfig), test.ShouldBeTrue)
			test.That(t, errors.Is(err, kinematics.ErrUnreachable), test.ShouldBeFalse)
			test.That(t, report, test.ShouldBeNil)
		}

		// a solver that cannot count frames still has the mesh indices checked up front
		solver := &bandSolver{Solver: g.solver, min: 150, max: 250}
		opts := options(0.5)
		opts.SetB = []int{5}
		report, err := NewScanner(solver, g.poser, collision.NewMeshOracle(), logging.NewTestLogger(t)).
			Scan(context.Background(), prog, opts)
		test.That(t, errors.Is(err, ErrInvalidConfig), test.ShouldBeTrue)
		test.That(t, report, test.ShouldBeNil)
	})

	t.Run("earlier collision wins", func(t *testing.T) {
		prog := program([2]float64{-3, 0}, [2]float64{3, 0}, [2]float64{5, 5}, [2]float64{200, 5})
		report, err := g.scanner(t, nil).Scan(context.Background(), prog, options(0.5))
		test.That(t, err, test.ShouldBeNil)
		test.That(t, report.HasCollision(), test.ShouldBeTrue)
		idx, _ := report.OffendingIndex()
		test.That(t, idx, test.ShouldEqual, 1)
	})

	t.Run("unreachable inside a segment", func(t *testing.T) {
		solver := &bandSolver{Solver: g.solver, min: 20, max: 30}
		s := NewScanner(solver, g.poser, collision.NewMeshOracle(), logging.NewTestLogger(t))
		// segment 2 sweeps through the band; segment 3 collides but comes later
		prog := program([2]float64{10, 10}, [2]float64{15, 10}, [2]float64{40, 10}, [2]float64{0, 0})
		report, err := s.Scan(context.Background(), prog, options(1))
		test.That(t, errors.Is(err, kinematics.ErrUnreachable), test.ShouldBeTrue)
		idx, _ := report.OffendingIndex()
		test.That(t, idx, test.ShouldEqual, 2)
		tv, _ := report.SampleParameter()
		test.That(t, tv, test.ShouldBeGreaterThan, 0)
		test.That(t, tv, test.ShouldBeLessThan, 1)
	})
}

// bandSolver reports x positions strictly inside (min, max) as unreachable.
type bandSolver struct {
	kinematics.Solver
	min, max float64
}

func (s *bandSolver) Solve(ctx context.Context, wp cell.Waypoint, seed *cell.Solution) (*cell.Solution, error) {
	x := wp.Targets[0].(*cell.JointTarget).Joints[0].Value
	if x > s.min && x < s.max {
		return nil, errors.Wrapf(kinematics.ErrUnreachable, "x=%v", x)
	}
	return s.Solver.Solve(ctx, wp, seed)
}

func TestScanInvalidConfig(t *testing.T) {
	g := newGantry(t)
	prog := program([2]float64{0, 5}, [2]float64{1, 5})

	cases := []struct {
		name   string
		mutate func(o *Options)
	}{
		{"empty set", func(o *Options) { o.SetA = nil }},
		{"overlapping sets", func(o *Options) { o.SetB = []int{obstacleIndex, toolIndex} }},
		{"negative index", func(o *Options) { o.SetB = []int{-1} }},
		{"repeated index", func(o *Options) { o.SetB = []int{obstacleIndex, obstacleIndex} }},
		{"zero linear step", func(o *Options) { o.LinearStep = 0 }},
		{"negative angular step", func(o *Options) { o.AngularStep = -1 }},
		{"frame without environment", func(o *Options) { o.AttachEnvironment = true }},
		{"negative workers", func(o *Options) { o.Workers = -2 }},
		{"mesh index out of range", func(o *Options) { o.SetB = []int{2} }},
		{"frame index out of range", func(o *Options) {
			o.Environment = unitCube(t, r3.Vector{}, "env")
			o.AttachEnvironment = true
			o.EnvironmentFrame = 4
		}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			oracle := &countingOracle{inner: collision.NewMeshOracle()}
			opts := options(0.5)
			c.mutate(&opts)
			report, err := g.scanner(t, oracle).Scan(context.Background(), prog, opts)
			test.That(t, errors.Is(err, ErrInvalidConfig), test.ShouldBeTrue)
			test.That(t, report, test.ShouldBeNil)
			test.That(t, oracle.calls.Load(), test.ShouldEqual, int64(0))
		})
	}

	// problems are reported together
	opts := options(0)
	opts.SetA = nil
	_, err := g.scanner(t, nil).Scan(context.Background(), prog, opts)
	test.That(t, err.Error(), test.ShouldContainSubstring, "set_a is empty")
	test.That(t, err.Error(), test.ShouldContainSubstring, "linear step must be positive")

	// the environment takes the index after the posed meshes and may sit in either set
	opts = options(0.5)
	opts.Environment = unitCube(t, r3.Vector{X: 50}, "env")
	opts.SetB = []int{obstacleIndex, 2}
	report, err := g.scanner(t, nil).Scan(context.Background(), prog, opts)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, report.HasCollision(), test.ShouldBeFalse)
}

func TestScanShortPrograms(t *testing.T) {
	g := newGantry(t)

	report, err := g.scanner(t, nil).Scan(context.Background(), cell.Program{}, options(0.5))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, report.State(), test.ShouldEqual, StateClear)
	test.That(t, report.Samples(), test.ShouldEqual, 0)

	report, err = g.scanner(t, nil).Scan(context.Background(), program([2]float64{5, 5}), options(0.5))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, report.HasCollision(), test.ShouldBeFalse)
	test.That(t, report.Samples(), test.ShouldEqual, 1)

	report, err = g.scanner(t, nil).Scan(context.Background(), program([2]float64{0.5, 0}), options(0.5))
	test.That(t, err, test.ShouldBeNil)
	idx, ok := report.OffendingIndex()
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, idx, test.ShouldEqual, 0)
}

func TestScanEarlyExitSkipsLaterSegments(t *testing.T) {
	g := newGantry(t)
	prog := program([2]float64{-2, 0}, [2]float64{0, 0}, [2]float64{10, 0}, [2]float64{20, 0}, [2]float64{30, 0})

	opts := options(0.5)
	opts.Workers = 1
	opts.EarlyExit = false
	full, err := g.scanner(t, nil).Scan(context.Background(), prog, opts)
	test.That(t, err, test.ShouldBeNil)

	opts.EarlyExit = true
	early, err := g.scanner(t, nil).Scan(context.Background(), prog, opts)
	test.That(t, err, test.ShouldBeNil)

	fullIdx, _ := full.OffendingIndex()
	earlyIdx, _ := early.OffendingIndex()
	test.That(t, earlyIdx, test.ShouldEqual, fullIdx)
	test.That(t, early.Samples(), test.ShouldBeLessThan, full.Samples())
}

func TestScanCancelled(t *testing.T) {
	g := newGantry(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := g.scanner(t, nil).Scan(ctx, program([2]float64{-2, 0}, [2]float64{0, 0}), options(0.1))
	test.That(t, errors.Is(err, context.Canceled), test.ShouldBeTrue)
}

func TestScanLogsSummary(t *testing.T) {
	g := newGantry(t)
	logger, logs := logging.NewObservedTestLogger(t)
	s := NewScanner(g.solver, g.poser, collision.NewMeshOracle(), logger)
	report, err := s.Scan(context.Background(), program([2]float64{-2, 0}, [2]float64{0, 0}), options(0.1))
	test.That(t, err, test.ShouldBeNil)

	finished := logs.FilterMessage("scan finished").All()
	test.That(t, finished, test.ShouldHaveLength, 1)
	test.That(t, finished[0].ContextMap()["run"], test.ShouldEqual, report.RunID())
	test.That(t, finished[0].ContextMap()["state"], test.ShouldEqual, "collision")
}

// newRailAndLift builds a two-group cell: a rail along X carrying a cart, and a lift along Z mounted at x = 20
// carrying a hook over a static block. Mesh indices are cart 0, hook 1, block 2.
func newRailAndLift(t *testing.T) (*kinematics.ModelSolver, *cell.LinkMeshPoser) {
	t.Helper()
	slide := func(name string, axis r3.Vector) referenceframe.Model {
		m, err := referenceframe.NewSerialModel(
			name,
			[]string{referenceframe.PrismaticJoint},
			[]r3.Vector{axis},
			[]r3.Vector{{}},
			[]referenceframe.Limit{{Min: -100, Max: 100}},
		)
		test.That(t, err, test.ShouldBeNil)
		return m
	}
	c, err := cell.NewCell(
		cell.Group{Name: "rail", Model: slide("rail", r3.Vector{X: 1})},
		cell.Group{Name: "lift", Model: slide("lift", r3.Vector{Z: 1}), Base: spatialmath.NewPoseFromPoint(r3.Vector{X: 20})},
	)
	test.That(t, err, test.ShouldBeNil)
	cartFrame, err := c.FrameIndex("rail:rail_link0")
	test.That(t, err, test.ShouldBeNil)
	hookFrame, err := c.FrameIndex("lift:lift_link0")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, hookFrame, test.ShouldEqual, 3)

	solver, err := kinematics.NewModelSolver(c, kinematics.DefaultIKOptions(), logging.NewTestLogger(t))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, solver.FrameCount(), test.ShouldEqual, 4)
	poser, err := cell.NewLinkMeshPoser(
		cell.AttachedMesh{Frame: cartFrame, Mesh: unitCube(t, r3.Vector{}, "cart")},
		cell.AttachedMesh{Frame: hookFrame, Mesh: unitCube(t, r3.Vector{}, "hook")},
		cell.AttachedMesh{Frame: cell.StaticFrame, Mesh: unitCube(t, r3.Vector{X: 20, Z: -6.2}, "block")},
	)
	test.That(t, err, test.ShouldBeNil)
	return solver, poser
}

func railLift(x, z float64) cell.Waypoint {
	return cell.NewWaypoint(
		&cell.JointTarget{Joints: referenceframe.FloatsToInputs([]float64{x})},
		&cell.JointTarget{Joints: referenceframe.FloatsToInputs([]float64{z})},
	)
}

func TestScanTwoGroups(t *testing.T) {
	solver, poser := newRailAndLift(t)
	opts := DefaultOptions()
	opts.SetA = []int{1}
	opts.SetB = []int{0, 2}
	opts.LinearStep = 0.5
	opts.AngularStep = 0.5

	// the lift travels 5 while the rail travels 1, so the lift sets the sampling
	oracle := &countingOracle{inner: collision.NewMeshOracle()}
	report, err := NewScanner(solver, poser, oracle, logging.NewTestLogger(t)).
		Scan(context.Background(), cell.Program{railLift(0, 0), railLift(1, 5)}, opts)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, report.HasCollision(), test.ShouldBeFalse)
	test.That(t, oracle.calls.Load(), test.ShouldEqual, int64(10))

	// lowering the hook onto the block collides halfway through the second segment
	report, err = NewScanner(solver, poser, collision.NewMeshOracle(), logging.NewTestLogger(t)).
		Scan(context.Background(), cell.Program{railLift(0, 0), railLift(0, 0), railLift(0, -10)}, opts)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, report.HasCollision(), test.ShouldBeTrue)
	idx, _ := report.OffendingIndex()
	test.That(t, idx, test.ShouldEqual, 2)
	tv, _ := report.SampleParameter()
	test.That(t, tv, test.ShouldAlmostEqual, 0.5)
	a, b, _ := report.Meshes()
	test.That(t, a.Label(), test.ShouldEqual, "hook")
	test.That(t, b.Label(), test.ShouldEqual, "block")
}
