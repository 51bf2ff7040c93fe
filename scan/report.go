package scan

import (
	"fmt"
	"time"

	"github.com/cellsafe/clashscan/spatialmath"
)

// State is the terminal state of a scan.
type State int

const (
	// StateClear means no sample of any segment intersected.
	StateClear State = iota
	// StateCollision means a sample intersected; the offending index is the earliest such segment's end waypoint.
	StateCollision
	// StateUnreachable means kinematics failed before any earlier collision.
	StateUnreachable
)

func (s State) String() string {
	switch s {
	case StateClear:
		return "clear"
	case StateCollision:
		return "collision"
	case StateUnreachable:
		return "unreachable"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Report is the immutable result of a scan.
type Report struct {
	runID   string
	state   State
	index   int
	t       float64
	a, b    *spatialmath.Mesh
	samples int
	elapsed time.Duration
}

// RunID identifies the scan in logs and history.
func (r *Report) RunID() string {
	return r.runID
}

// State returns the terminal state of the scan.
func (r *Report) State() State {
	return r.state
}

// HasCollision reports whether the scan found an intersection.
func (r *Report) HasCollision() bool {
	return r.state == StateCollision
}

// OffendingIndex returns the waypoint index ending the earliest segment with a collision or an unreachable sample.
func (r *Report) OffendingIndex() (int, bool) {
	if r.state == StateClear {
		return 0, false
	}
	return r.index, true
}

// SampleParameter returns t within the offending segment at which the outcome was observed.
func (r *Report) SampleParameter() (float64, bool) {
	if r.state == StateClear {
		return 0, false
	}
	return r.t, true
}

// Meshes returns the intersecting pair, from set A and set B respectively.
func (r *Report) Meshes() (a, b *spatialmath.Mesh, ok bool) {
	if r.state != StateCollision {
		return nil, nil, false
	}
	return r.a, r.b, true
}

// Samples returns the number of oracle calls the scan made.
func (r *Report) Samples() int {
	return r.samples
}

// Elapsed returns the wall time of the scan.
func (r *Report) Elapsed() time.Duration {
	return r.elapsed
}

func (r *Report) String() string {
	switch r.state {
	case StateCollision:
		return fmt.Sprintf("run %s: collision at waypoint %d (t=%.4f) between %s and %s, %d samples",
			r.runID, r.index, r.t, r.a.Label(), r.b.Label(), r.samples)
	case StateUnreachable:
		return fmt.Sprintf("run %s: unreachable at waypoint %d (t=%.4f), %d samples", r.runID, r.index, r.t, r.samples)
	default:
		return fmt.Sprintf("run %s: clear, %d samples", r.runID, r.samples)
	}
}
