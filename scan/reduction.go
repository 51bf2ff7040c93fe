package scan

import (
	"math"
	"sync"

	"go.uber.org/atomic"

	"github.com/cellsafe/clashscan/collision"
)

// outcome is a terminal result of one segment.
type outcome struct {
	index int
	state State
	t     float64
	clash *collision.Clash
	err   error
}

// reduction keeps the outcome with the smallest segment index. Offers may arrive in any order from any goroutine;
// the kept outcome only depends on the set of offers.
type reduction struct {
	mu   sync.Mutex
	best *outcome
	// bestIndex mirrors best.index for lock-free early exit checks.
	bestIndex *atomic.Int64
}

func newReduction() *reduction {
	return &reduction{bestIndex: atomic.NewInt64(math.MaxInt64)}
}

func (r *reduction) offer(o outcome) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.best == nil || o.index < r.best.index {
		r.best = &o
		r.bestIndex.Store(int64(o.index))
	}
}

// settledBefore reports whether an outcome at an index smaller than index has been offered, making any outcome at
// index irrelevant.
func (r *reduction) settledBefore(index int) bool {
	return r.bestIndex.Load() < int64(index)
}

func (r *reduction) result() *outcome {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.best
}
