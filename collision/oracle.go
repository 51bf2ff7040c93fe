// Package collision decides whether two sets of posed meshes intersect.
package collision

import (
	"fmt"

	"github.com/cellsafe/clashscan/spatialmath"
)

// Clash is a pair of intersecting meshes, one from each tested set. IndexA and IndexB are the meshes' positions
// within their sets.
type Clash struct {
	A, B           *spatialmath.Mesh
	IndexA, IndexB int
}

func (c *Clash) String() string {
	return fmt.Sprintf("%s <-> %s", c.A.Label(), c.B.Label())
}

// Oracle tests two mesh sets for intersection. When several pairs intersect, the reported pair is the first in
// set A order, then set B order, so repeated calls agree. Implementations must be safe for concurrent use.
type Oracle interface {
	Test(setA, setB []*spatialmath.Mesh) (*Clash, bool)
}

// MeshOracle is the default Oracle: bounding box rejection followed by exact triangle intersection and watertight
// containment tests. Touching meshes intersect.
type MeshOracle struct{}

// NewMeshOracle returns a MeshOracle.
func NewMeshOracle() *MeshOracle {
	return &MeshOracle{}
}

// Test implements Oracle.
func (o *MeshOracle) Test(setA, setB []*spatialmath.Mesh) (*Clash, bool) {
	for i, a := range setA {
		if a == nil {
			continue
		}
		for j, b := range setB {
			if b == nil {
				continue
			}
			if a.CollidesWith(b) {
				return &Clash{A: a, B: b, IndexA: i, IndexB: j}, true
			}
		}
	}
	return nil, false
}

// OracleFunc adapts a function to the Oracle interface.
type OracleFunc func(setA, setB []*spatialmath.Mesh) (*Clash, bool)

// Test implements Oracle.
func (f OracleFunc) Test(setA, setB []*spatialmath.Mesh) (*Clash, bool) {
	return f(setA, setB)
}
