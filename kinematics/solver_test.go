package kinematics

import (
	"context"
	"math"
	"testing"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"go.viam.com/test"

	"github.com/cellsafe/clashscan/cell"
	"github.com/cellsafe/clashscan/logging"
	"github.com/cellsafe/clashscan/referenceframe"
	"github.com/cellsafe/clashscan/spatialmath"
)

func planarCell(t *testing.T, base spatialmath.Pose) *cell.Cell {
	t.Helper()
	model, err := referenceframe.NewSerialModel(
		"planar",
		[]string{referenceframe.RevoluteJoint, referenceframe.RevoluteJoint},
		[]r3.Vector{{Z: 1}, {Z: 1}},
		[]r3.Vector{{X: 1}, {X: 1}},
		[]referenceframe.Limit{{Min: -math.Pi, Max: math.Pi}, {Min: -150 * math.Pi / 180, Max: 150 * math.Pi / 180}},
	)
	test.That(t, err, test.ShouldBeNil)
	c, err := cell.NewCell(cell.Group{Name: "robot", Model: model, Base: base})
	test.That(t, err, test.ShouldBeNil)
	return c
}

func newTestSolver(t *testing.T, c *cell.Cell) *ModelSolver {
	t.Helper()
	solver, err := NewModelSolver(c, DefaultIKOptions(), logging.NewTestLogger(t))
	test.That(t, err, test.ShouldBeNil)
	return solver
}

func jointWaypoint(vals ...float64) cell.Waypoint {
	return cell.NewWaypoint(&cell.JointTarget{Joints: referenceframe.FloatsToInputs(vals)})
}

func TestSolveJointTarget(t *testing.T) {
	c := planarCell(t, spatialmath.NewPoseFromPoint(r3.Vector{Z: 5}))
	solver := newTestSolver(t, c)

	sol, err := solver.Solve(context.Background(), jointWaypoint(0, math.Pi/2), nil)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, sol.Groups, test.ShouldHaveLength, 1)
	test.That(t, sol.Frames(), test.ShouldHaveLength, 4)
	flange := sol.Groups[0].Flange()
	test.That(t, spatialmath.R3VectorAlmostEqual(flange.Point(), r3.Vector{X: 1, Y: 1, Z: 5}, 1e-9), test.ShouldBeTrue)

	_, err = solver.Solve(context.Background(), jointWaypoint(0, 3), nil)
	test.That(t, errors.Is(err, ErrUnreachable), test.ShouldBeTrue)

	_, err = solver.Solve(context.Background(), jointWaypoint(0), nil)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, errors.Is(err, ErrUnreachable), test.ShouldBeFalse)

	_, err = solver.Solve(context.Background(), cell.NewWaypoint(), nil)
	test.That(t, err, test.ShouldNotBeNil)
}

func TestSolveCartesianTarget(t *testing.T) {
	base := spatialmath.NewPose(r3.Vector{X: 10}, &spatialmath.R4AA{Theta: math.Pi / 4, RZ: 1})
	c := planarCell(t, base)
	solver := newTestSolver(t, c)

	reference, err := solver.Solve(context.Background(), jointWaypoint(0.3, 0.6), nil)
	test.That(t, err, test.ShouldBeNil)
	goal := reference.Groups[0].Flange()

	wp := cell.NewWaypoint(&cell.CartesianTarget{Pose: goal, Motion: cell.MotionLinear})
	sol, err := solver.Solve(context.Background(), wp, nil)
	test.That(t, err, test.ShouldBeNil)
	reached := sol.Groups[0].Flange()
	test.That(t, reached.Point().Distance(goal.Point()), test.ShouldBeLessThan, 1e-3)
	test.That(t, sol.Groups[0].Joints[0].Value, test.ShouldAlmostEqual, 0.3, 1e-2)
	test.That(t, sol.Groups[0].Joints[1].Value, test.ShouldAlmostEqual, 0.6, 1e-2)

	// seeding from a nearby solution converges to the same branch
	seeded, err := solver.Solve(context.Background(), wp, reference)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, seeded.Groups[0].Joints[1].Value, test.ShouldAlmostEqual, 0.6, 1e-2)
}

func TestSolveUnreachable(t *testing.T) {
	c := planarCell(t, nil)
	solver := newTestSolver(t, c)

	far := cell.NewWaypoint(&cell.CartesianTarget{Pose: spatialmath.NewPoseFromPoint(r3.Vector{X: 5})})
	_, err := solver.Solve(context.Background(), far, nil)
	test.That(t, errors.Is(err, ErrUnreachable), test.ShouldBeTrue)

	// reachable position but an orientation the chain cannot take
	tilted := cell.NewWaypoint(&cell.CartesianTarget{
		Pose: spatialmath.NewPose(r3.Vector{X: 2}, &spatialmath.R4AA{Theta: math.Pi / 2, RX: 1}),
	})
	_, err = solver.Solve(context.Background(), tilted, nil)
	test.That(t, errors.Is(err, ErrUnreachable), test.ShouldBeTrue)
}

func TestSolveCancelled(t *testing.T) {
	solver := newTestSolver(t, planarCell(t, nil))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := solver.Solve(ctx, jointWaypoint(0, 0), nil)
	test.That(t, errors.Is(err, context.Canceled), test.ShouldBeTrue)
}

func TestIKOptionsValidate(t *testing.T) {
	test.That(t, DefaultIKOptions().validate(), test.ShouldBeNil)

	opts := DefaultIKOptions()
	opts.PositionTolerance = 0
	_, err := NewModelSolver(planarCell(t, nil), opts, logging.NewTestLogger(t))
	test.That(t, err, test.ShouldNotBeNil)

	_, err = NewModelSolver(nil, DefaultIKOptions(), logging.NewTestLogger(t))
	test.That(t, err, test.ShouldNotBeNil)
}

func TestRestartSeeds(t *testing.T) {
	limits := []referenceframe.Limit{{Min: -1, Max: 1}, {Min: math.Inf(-1), Max: math.Inf(1)}}
	seeds := restartSeeds(limits, 4)
	test.That(t, seeds, test.ShouldHaveLength, 4)
	test.That(t, seeds[0], test.ShouldResemble, []float64{0, 0})
	for _, s := range seeds {
		test.That(t, s[0], test.ShouldBeBetweenOrEqual, -1, 1)
		test.That(t, s[1], test.ShouldBeBetweenOrEqual, -math.Pi, math.Pi)
	}
	// deterministic
	test.That(t, restartSeeds(limits, 4), test.ShouldResemble, seeds)
}
