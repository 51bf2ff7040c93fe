package scan

import (
	"fmt"
	"math"

	"github.com/pkg/errors"
	"github.com/samber/lo"
	"go.uber.org/multierr"

	"github.com/cellsafe/clashscan/spatialmath"
	"github.com/cellsafe/clashscan/utils"
)

// ErrInvalidConfig is wrapped by every configuration fault a scan rejects before it starts.
var ErrInvalidConfig = errors.New("invalid scan configuration")

// Options configure one scan.
type Options struct {
	// SetA and SetB are disjoint mesh indices tested against each other. Mesh indices are positions in the
	// poser's output; the environment, when set, has the index following the last posed mesh.
	SetA, SetB []int

	// Environment is an optional extra mesh. It is static unless AttachEnvironment is set, in which case it moves
	// with the frame at index EnvironmentFrame of each sample's Solution.Frames.
	Environment       *spatialmath.Mesh
	AttachEnvironment bool
	EnvironmentFrame  int

	// LinearStep bounds flange travel, and AngularStep joint travel, between consecutive samples.
	LinearStep  float64
	AngularStep float64

	// Workers bounds the number of segments evaluated concurrently. Zero means utils.ParallelFactor.
	Workers int

	// EarlyExit stops evaluating segments once an earlier segment has a terminal outcome. It never changes the
	// result.
	EarlyExit bool
}

// DefaultOptions returns options with 1 mm and 1 degree steps and early exit enabled.
func DefaultOptions() Options {
	return Options{
		LinearStep:  1,
		AngularStep: utils.DegToRad(1),
		EarlyExit:   true,
	}
}

// validate checks everything that does not depend on the cell's resolved state.
func (o Options) validate() error {
	var errAll error
	addf := func(format string, args ...interface{}) {
		multierr.AppendInto(&errAll, fmt.Errorf(format, args...))
	}
	for _, ns := range o.namedSets() {
		name, set := ns.name, ns.set
		if len(set) == 0 {
			addf("%s is empty", name)
		}
		if neg := lo.Filter(set, func(idx, _ int) bool { return idx < 0 }); len(neg) > 0 {
			addf("%s has negative mesh indices %v", name, neg)
		}
		if dup := lo.FindDuplicates(set); len(dup) > 0 {
			addf("%s repeats mesh indices %v", name, dup)
		}
	}
	if both := lo.Intersect(o.SetA, o.SetB); len(both) > 0 {
		addf("mesh indices %v are in both sets", both)
	}
	if !(o.LinearStep > 0) || math.IsInf(o.LinearStep, 0) {
		addf("linear step must be positive, got %v", o.LinearStep)
	}
	if !(o.AngularStep > 0) || math.IsInf(o.AngularStep, 0) {
		addf("angular step must be positive, got %v", o.AngularStep)
	}
	if o.AttachEnvironment && o.Environment == nil {
		addf("environment frame %d given without an environment mesh", o.EnvironmentFrame)
	}
	if o.AttachEnvironment && o.EnvironmentFrame < 0 {
		addf("environment frame %d is negative", o.EnvironmentFrame)
	}
	if o.Workers < 0 {
		addf("workers must not be negative, got %d", o.Workers)
	}
	return configError(errAll)
}

// validateRanges checks mesh and frame indices against the mesh and frame counts of the cell. A negative count is
// unknown and not checked.
func (o Options) validateRanges(meshCount, frameCount int) error {
	var errAll error
	for _, ns := range o.namedSets() {
		if meshCount < 0 {
			break
		}
		if out := lo.Filter(ns.set, func(idx, _ int) bool { return idx >= meshCount }); len(out) > 0 {
			multierr.AppendInto(&errAll, fmt.Errorf("%s mesh indices %v out of range, cell has %d meshes", ns.name, out, meshCount))
		}
	}
	if o.AttachEnvironment && frameCount >= 0 && o.EnvironmentFrame >= frameCount {
		multierr.AppendInto(&errAll, fmt.Errorf("environment frame %d out of range, cell has %d frames", o.EnvironmentFrame, frameCount))
	}
	return configError(errAll)
}

type namedSet struct {
	name string
	set  []int
}

func (o Options) namedSets() []namedSet {
	return []namedSet{{"set_a", o.SetA}, {"set_b", o.SetB}}
}

func configError(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
}
