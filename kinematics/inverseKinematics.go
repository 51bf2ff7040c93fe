package kinematics

import (
	"context"
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/optimize"

	"github.com/cellsafe/clashscan/referenceframe"
	"github.com/cellsafe/clashscan/spatialmath"
)

// golden is used to spread deterministic restart seeds over the joint ranges.
const golden = 0.6180339887498949

// IKOptions tune the inverse kinematics search.
type IKOptions struct {
	// PositionTolerance is the largest accepted distance between the reached and the requested flange origin.
	PositionTolerance float64
	// OrientationTolerance is the largest accepted rotation, in radians, between the reached and requested flange.
	OrientationTolerance float64
	// OrientationWeight scales orientation error against squared position error in the search cost.
	OrientationWeight float64
	// MaxEvaluations bounds the cost evaluations of each search, per degree of freedom.
	MaxEvaluations int
	// Restarts is the number of additional deterministic seeds tried when the given seeds fail.
	Restarts int
}

// DefaultIKOptions returns options suitable for models measured in mm and radians.
func DefaultIKOptions() IKOptions {
	return IKOptions{
		PositionTolerance:    1e-3,
		OrientationTolerance: 1e-3,
		OrientationWeight:    1e3,
		MaxEvaluations:       2000,
		Restarts:             8,
	}
}

func (o IKOptions) validate() error {
	if o.PositionTolerance <= 0 || o.OrientationTolerance <= 0 {
		return errors.New("inverse kinematics tolerances must be positive")
	}
	if o.OrientationWeight < 0 {
		return errors.New("orientation weight must not be negative")
	}
	if o.MaxEvaluations <= 0 {
		return errors.New("inverse kinematics evaluation budget must be positive")
	}
	if o.Restarts < 0 {
		return errors.New("restarts must not be negative")
	}
	return nil
}

// inverse searches for joints placing the model's end effector at goal, expressed in the model's base frame. The
// given seeds are tried first in order, then deterministic restarts. The first solution within tolerance and within
// limits wins.
func (s *ModelSolver) inverse(
	ctx context.Context,
	model referenceframe.Model,
	goal spatialmath.Pose,
	seeds [][]referenceframe.Input,
) ([]referenceframe.Input, error) {
	limits := model.DoF()
	if len(limits) == 0 {
		pose, err := model.Transform(nil)
		if err != nil {
			return nil, err
		}
		if s.withinTolerance(pose, goal) {
			return []referenceframe.Input{}, nil
		}
		return nil, errors.Wrap(ErrUnreachable, "fixed chain does not reach goal")
	}

	candidates := make([][]float64, 0, len(seeds)+s.opts.Restarts+1)
	for _, seed := range seeds {
		if len(seed) == len(limits) {
			candidates = append(candidates, clampToLimits(limits, referenceframe.InputsToFloats(seed)))
		}
	}
	candidates = append(candidates, restartSeeds(limits, s.opts.Restarts+1)...)

	cost := s.costFunc(model, goal, limits)
	settings := &optimize.Settings{
		FuncEvaluations: s.opts.MaxEvaluations * len(limits),
		Converger: &optimize.FunctionConverge{
			Absolute:   1e-16,
			Iterations: 50 * len(limits),
		},
	}
	for _, start := range candidates {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		result, err := optimize.Minimize(optimize.Problem{Func: cost}, start, settings, &optimize.NelderMead{})
		if result == nil {
			if err != nil {
				return nil, errors.Wrap(err, "inverse kinematics search failed")
			}
			continue
		}
		joints := referenceframe.FloatsToInputs(result.X)
		if !withinLimits(limits, joints) {
			continue
		}
		pose, err := model.Transform(joints)
		if err != nil {
			continue
		}
		if s.withinTolerance(pose, goal) {
			return joints, nil
		}
	}
	return nil, errors.Wrapf(ErrUnreachable, "no solution within tolerance after %d seeds", len(candidates))
}

// costFunc is squared position error plus weighted orientation error, with a quadratic penalty outside limits so
// the search is pulled back into range.
func (s *ModelSolver) costFunc(model referenceframe.Model, goal spatialmath.Pose, limits []referenceframe.Limit) func([]float64) float64 {
	goalPt := goal.Point()
	goalQ := goal.Orientation().Quaternion()
	return func(x []float64) float64 {
		penalty := 0.
		for i, l := range limits {
			if x[i] < l.Min {
				penalty += (l.Min - x[i]) * (l.Min - x[i])
			} else if x[i] > l.Max {
				penalty += (x[i] - l.Max) * (x[i] - l.Max)
			}
		}
		// out of limit inputs still yield a pose; the penalty accounts for them
		pose, _ := model.Transform(referenceframe.FloatsToInputs(x))
		if pose == nil {
			return math.Inf(1)
		}
		d := pose.Point().Sub(goalPt)
		return d.Norm2() + s.opts.OrientationWeight*orientationError(pose.Orientation().Quaternion(), goalQ) + 1e6*penalty
	}
}

func (s *ModelSolver) withinTolerance(pose, goal spatialmath.Pose) bool {
	if pose.Point().Distance(goal.Point()) > s.opts.PositionTolerance {
		return false
	}
	return rotationAngle(pose.Orientation().Quaternion(), goal.Orientation().Quaternion()) <= s.opts.OrientationTolerance
}

// orientationError is zero for equal rotations and grows with the angle between them.
func orientationError(a, b quat.Number) float64 {
	dot := a.Real*b.Real + a.Imag*b.Imag + a.Jmag*b.Jmag + a.Kmag*b.Kmag
	return 1 - dot*dot
}

// rotationAngle returns the angle in radians of the rotation taking a to b.
func rotationAngle(a, b quat.Number) float64 {
	dot := math.Abs(a.Real*b.Real + a.Imag*b.Imag + a.Jmag*b.Jmag + a.Kmag*b.Kmag)
	if dot > 1 {
		dot = 1
	}
	return 2 * math.Acos(dot)
}

func clampToLimits(limits []referenceframe.Limit, x []float64) []float64 {
	out := make([]float64, len(x))
	for i, l := range limits {
		out[i] = math.Max(l.Min, math.Min(l.Max, x[i]))
	}
	return out
}

// restartSeeds spreads n seeds over the joint ranges, starting at the middle of every range. Infinite limits are
// treated as one turn either side of zero.
func restartSeeds(limits []referenceframe.Limit, n int) [][]float64 {
	seeds := make([][]float64, 0, n)
	for k := 0; k < n; k++ {
		seed := make([]float64, len(limits))
		for i, l := range limits {
			lo, hi := l.Min, l.Max
			if math.IsInf(lo, -1) {
				lo = -math.Pi
			}
			if math.IsInf(hi, 1) {
				hi = math.Pi
			}
			frac := 0.5
			if k > 0 {
				frac = math.Mod(float64(k)*golden+float64(i)*0.37, 1)
			}
			seed[i] = lo + frac*(hi-lo)
		}
		seeds = append(seeds, seed)
	}
	return seeds
}
