package trajectory

import (
	"context"

	"github.com/pkg/errors"

	"github.com/cellsafe/clashscan/cell"
	"github.com/cellsafe/clashscan/collision"
)

// Sample is one evaluated state of a segment.
type Sample struct {
	// Index is i in t = i/divisions.
	Index    int
	T        float64
	Solution *cell.Solution
	// Clash is the first intersecting pair at this sample, nil when clear.
	Clash *collision.Clash
}

// SampleIterator lazily evaluates the samples of a segment. It is not safe for concurrent use.
//
//	it := seg.Samples()
//	for it.Next(ctx) {
//		s := it.Sample()
//	}
//	if err := it.Err(); err != nil {
//		return err
//	}
type SampleIterator struct {
	seg    *Segment
	next   int
	seed   *cell.Solution
	sample *Sample
	err    error
	done   bool
}

// Next evaluates the next sample and reports whether there is one. It returns false at the end of the segment, on
// error and when ctx is done.
func (it *SampleIterator) Next(ctx context.Context) bool {
	if it.done {
		return false
	}
	if err := ctx.Err(); err != nil {
		it.fail(err)
		return false
	}
	if it.next >= it.seg.Divisions {
		it.done = true
		it.sample = nil
		return false
	}
	i := it.next
	it.next++
	t := float64(i) / float64(it.seg.Divisions)

	sol, err := it.resolve(ctx, t)
	if err != nil {
		it.fail(errors.Wrapf(err, "segment %d sample %d (t=%.4f)", it.seg.Index, i, t))
		return false
	}
	it.seed = sol

	ev := it.seg.Evaluator
	meshes, err := ev.Meshes(sol)
	if err != nil {
		it.fail(errors.Wrapf(err, "segment %d sample %d", it.seg.Index, i))
		return false
	}
	clash, hit, err := ev.Test(meshes)
	if err != nil {
		it.fail(errors.Wrapf(err, "segment %d sample %d", it.seg.Index, i))
		return false
	}
	if !hit {
		clash = nil
	}
	it.sample = &Sample{Index: i, T: t, Solution: sol, Clash: clash}
	return true
}

// resolve returns the cell state at t, seeding kinematics from the previous sample.
func (it *SampleIterator) resolve(ctx context.Context, t float64) (*cell.Solution, error) {
	seg := it.seg
	if t == 0 && seg.PrevSol != nil {
		return seg.PrevSol, nil
	}
	wp, err := cell.InterpolateResolved(seg.Prev, seg.Curr, seg.PrevSol, seg.CurrSol, t)
	if err != nil {
		return nil, err
	}
	return seg.Evaluator.Solver.Solve(ctx, wp, it.seed)
}

func (it *SampleIterator) fail(err error) {
	it.err = err
	it.done = true
	it.sample = nil
}

// Sample returns the sample produced by the last successful call to Next.
func (it *SampleIterator) Sample() *Sample {
	return it.sample
}

// Err returns the error that stopped iteration, if any.
func (it *SampleIterator) Err() error {
	return it.err
}
