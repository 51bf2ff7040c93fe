package cell

import (
	"github.com/pkg/errors"

	"github.com/cellsafe/clashscan/referenceframe"
	"github.com/cellsafe/clashscan/spatialmath"
)

// Group is one mechanical group of a cell, a robot or a set of external axes, mounted at Base in world.
type Group struct {
	Name  string
	Model referenceframe.Model
	Base  spatialmath.Pose
}

// Cell is an ordered list of groups. Waypoint targets and solution groups share this order.
type Cell struct {
	Groups []Group
}

// NewCell validates and returns a cell made of the given groups.
func NewCell(groups ...Group) (*Cell, error) {
	seen := map[string]bool{}
	for i, g := range groups {
		if g.Model == nil {
			return nil, errors.Errorf("group %d (%q) has no model", i, g.Name)
		}
		if seen[g.Name] {
			return nil, errors.Errorf("duplicate group name %q", g.Name)
		}
		seen[g.Name] = true
		if g.Base == nil {
			groups[i].Base = spatialmath.NewZeroPose()
		}
	}
	return &Cell{Groups: groups}, nil
}

// FrameNames returns "group:frame" for every frame of every group, in the order of Solution.Frames.
func (c *Cell) FrameNames() []string {
	var names []string
	for _, g := range c.Groups {
		for _, f := range g.Model.FrameNames() {
			names = append(names, g.Name+":"+f)
		}
	}
	return names
}

// FrameIndex returns the flattened frame index of a "group:frame" name.
func (c *Cell) FrameIndex(name string) (int, error) {
	for i, n := range c.FrameNames() {
		if n == name {
			return i, nil
		}
	}
	return -1, errors.Errorf("no frame named %q in cell", name)
}
