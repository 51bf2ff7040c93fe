package cell

import (
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
)

// Waypoint is one instruction-level target in program order covering every mechanical group of the cell.
type Waypoint struct {
	Targets []GroupTarget
}

// NewWaypoint creates a waypoint from one target per group, in group order.
func NewWaypoint(targets ...GroupTarget) Waypoint {
	return Waypoint{Targets: targets}
}

func (w Waypoint) String() string {
	parts := make([]string, 0, len(w.Targets))
	for _, t := range w.Targets {
		if t == nil {
			parts = append(parts, "<nil>")
			continue
		}
		parts = append(parts, t.String())
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// Program is an ordered list of waypoints. A waypoint's index is its position in the slice.
type Program []Waypoint

// Validate checks that every waypoint has exactly one target per group.
func (p Program) Validate(groups int) error {
	var errAll error
	for i, w := range p {
		if len(w.Targets) != groups {
			multierr.AppendInto(&errAll, errors.Errorf("waypoint %d has %d group targets, cell has %d groups", i, len(w.Targets), groups))
			continue
		}
		for g, t := range w.Targets {
			if t == nil {
				multierr.AppendInto(&errAll, errors.Errorf("waypoint %d has no target for group %d", i, g))
				continue
			}
			if ct, ok := t.(*CartesianTarget); ok && ct.Pose == nil {
				multierr.AppendInto(&errAll, errors.Errorf("waypoint %d group %d Cartesian target has no pose", i, g))
			}
		}
	}
	return errAll
}
