// Package trajectory turns the motion between two resolved waypoints into a sequence of sampled, posed and
// collision-tested states.
package trajectory

import (
	"github.com/cellsafe/clashscan/cell"
	"github.com/cellsafe/clashscan/referenceframe"
	"github.com/cellsafe/clashscan/utils"
)

// Divisions returns how many sub-intervals the motion from prev to curr is split into so that no group's flange
// travels more than linearStep and no joint turns more than angularStep within one of them. The result is at
// least 1. Non-positive steps disable their criterion.
func Divisions(prev, curr *cell.Solution, linearStep, angularStep float64) int {
	d := 1
	for g := range curr.Groups {
		if g >= len(prev.Groups) {
			break
		}
		p, c := prev.Groups[g], curr.Groups[g]
		if linearStep > 0 {
			if pf, cf := p.Flange(), c.Flange(); pf != nil && cf != nil {
				d = utils.MaxInt(d, utils.CeilDiv(pf.Point().Distance(cf.Point()), linearStep))
			}
		}
		if angularStep > 0 && len(p.Joints) == len(c.Joints) {
			d = utils.MaxInt(d, utils.CeilDiv(referenceframe.InputsLinfDistance(p.Joints, c.Joints), angularStep))
		}
	}
	return d
}
