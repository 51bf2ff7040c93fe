package spatialmath

import (
	"fmt"
	"sync"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
)

// Ordered list of box vertices.
var boxVertices = [8]r3.Vector{
	{X: 1, Y: 1, Z: 1},
	{X: 1, Y: 1, Z: -1},
	{X: 1, Y: -1, Z: 1},
	{X: 1, Y: -1, Z: -1},
	{X: -1, Y: 1, Z: 1},
	{X: -1, Y: 1, Z: -1},
	{X: -1, Y: -1, Z: 1},
	{X: -1, Y: -1, Z: -1},
}

// The sets of indices of the box vertices that tile the box exterior.
var boxTriangles = [12][3]int{
	{0, 1, 3},
	{0, 2, 3},
	{0, 1, 5},
	{0, 4, 5},
	{0, 2, 6},
	{0, 4, 6},
	{7, 1, 3},
	{7, 2, 3},
	{7, 1, 5},
	{7, 4, 5},
	{7, 2, 6},
	{7, 4, 6},
}

// rayDirection is used for point containment parity tests; it is chosen to avoid running along mesh
// edges of axis-aligned geometry.
var rayDirection = r3.Vector{X: 0.2630, Y: 0.4126, Z: 0.8722}.Normalize()

// Mesh is a set of triangles expressed in the frame of a pose. Meshes are immutable: Transform returns a
// new mesh that shares the triangle data.
type Mesh struct {
	pose       Pose
	triangles  []*Triangle
	label      string
	watertight bool

	once  sync.Once
	world []*Triangle
	bound AABB
}

// NewMesh creates a mesh from triangles expressed relative to pose.
func NewMesh(pose Pose, triangles []*Triangle, label string) *Mesh {
	if pose == nil {
		pose = NewZeroPose()
	}
	return &Mesh{
		pose:       pose,
		triangles:  triangles,
		label:      label,
		watertight: isWatertight(triangles),
	}
}

// NewBoxMesh returns a closed 12-triangle mesh of a box with the given full dimensions centred on pose.
func NewBoxMesh(pose Pose, dims r3.Vector, label string) (*Mesh, error) {
	// Negative dimensions not allowed. Zero dimensions are allowed for bounding boxes, etc.
	if dims.X < 0 || dims.Y < 0 || dims.Z < 0 {
		return nil, errors.Errorf("invalid dimensions %v for box %q, dimensions must be non-negative", dims, label)
	}
	half := dims.Mul(0.5)
	verts := make([]r3.Vector, len(boxVertices))
	for i, v := range boxVertices {
		verts[i] = r3.Vector{X: v.X * half.X, Y: v.Y * half.Y, Z: v.Z * half.Z}
	}
	tris := make([]*Triangle, 0, len(boxTriangles))
	for _, idx := range boxTriangles {
		tris = append(tris, NewTriangle(verts[idx[0]], verts[idx[1]], verts[idx[2]]))
	}
	return NewMesh(pose, tris, label), nil
}

// Pose returns the pose of the mesh.
func (m *Mesh) Pose() Pose {
	return m.pose
}

// Triangles returns the triangles of the mesh in the mesh's own frame.
func (m *Mesh) Triangles() []*Triangle {
	return m.triangles
}

// Label returns the label of the mesh.
func (m *Mesh) Label() string {
	return m.label
}

// Watertight reports whether every edge of the mesh is shared by exactly two triangles.
func (m *Mesh) Watertight() bool {
	return m.watertight
}

// String returns a human readable string that represents the mesh.
func (m *Mesh) String() string {
	pt := m.pose.Point()
	return fmt.Sprintf("Type: Mesh | Label: %s | Position: X:%.3f, Y:%.3f, Z:%.3f | Triangles: %d",
		m.label, pt.X, pt.Y, pt.Z, len(m.triangles))
}

// Transform premultiplies the mesh pose with a transform, allowing the mesh to be moved in space.
func (m *Mesh) Transform(toPremultiply Pose) *Mesh {
	// Triangle points are in frame of mesh, like the corners of a box, so no need to transform them
	return &Mesh{
		pose:       Compose(toPremultiply, m.pose),
		triangles:  m.triangles,
		label:      m.label,
		watertight: m.watertight,
	}
}

// WorldTriangles returns the triangles of the mesh in the frame its pose is expressed in.
func (m *Mesh) WorldTriangles() []*Triangle {
	m.once.Do(m.computeWorld)
	return m.world
}

// AABB returns the axis-aligned bounding box of the mesh in the frame its pose is expressed in.
func (m *Mesh) AABB() AABB {
	m.once.Do(m.computeWorld)
	return m.bound
}

func (m *Mesh) computeWorld() {
	m.world = make([]*Triangle, len(m.triangles))
	m.bound = NewAABBFromPoints()
	for i, t := range m.triangles {
		wt := t.Transform(m.pose)
		m.world[i] = wt
		m.bound = m.bound.Union(wt.AABB())
	}
}

// CollidesWith reports whether the two meshes share any point. Surface crossings are found with a
// bounding-box filtered triangle test; a mesh entirely inside a watertight mesh also collides.
func (m *Mesh) CollidesWith(other *Mesh) bool {
	if len(m.triangles) == 0 || len(other.triangles) == 0 {
		return false
	}
	if !m.AABB().Overlaps(other.AABB()) {
		return false
	}
	otherBox := other.AABB()
	otherTris := other.WorldTriangles()
	otherBoxes := make([]AABB, len(otherTris))
	for i, t := range otherTris {
		otherBoxes[i] = t.AABB()
	}
	for _, ta := range m.WorldTriangles() {
		boxA := ta.AABB()
		if !boxA.Overlaps(otherBox) {
			continue
		}
		for j, tb := range otherTris {
			if boxA.Overlaps(otherBoxes[j]) && TrianglesIntersect(ta, tb) {
				return true
			}
		}
	}
	// No surfaces cross, so either one mesh encloses the other or they are apart.
	if other.watertight && other.containsPoint(m.WorldTriangles()[0].p0) {
		return true
	}
	return m.watertight && m.containsPoint(otherTris[0].p0)
}

// containsPoint uses ray parity to decide whether pt is inside the closed mesh.
func (m *Mesh) containsPoint(pt r3.Vector) bool {
	if !m.AABB().ContainsPoint(pt) {
		return false
	}
	crossings := 0
	for _, t := range m.WorldTriangles() {
		if t.rayIntersects(pt, rayDirection) {
			crossings++
		}
	}
	return crossings%2 == 1
}

type edgeKey struct {
	a, b r3.Vector
}

func newEdgeKey(p, q r3.Vector) edgeKey {
	if p.X < q.X || (p.X == q.X && (p.Y < q.Y || (p.Y == q.Y && p.Z < q.Z))) {
		return edgeKey{p, q}
	}
	return edgeKey{q, p}
}

func isWatertight(triangles []*Triangle) bool {
	if len(triangles) < 4 {
		return false
	}
	edges := make(map[edgeKey]int, 3*len(triangles))
	for _, t := range triangles {
		edges[newEdgeKey(t.p0, t.p1)]++
		edges[newEdgeKey(t.p1, t.p2)]++
		edges[newEdgeKey(t.p2, t.p0)]++
	}
	for _, n := range edges {
		if n != 2 {
			return false
		}
	}
	return true
}
