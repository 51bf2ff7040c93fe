package spatialmath

import (
	"math"

	"github.com/golang/geo/r3"
)

// floatEpsilon is the distance below which a point is considered to lie on a plane.
const floatEpsilon = 1e-9

// Triangle is three points in 3D space together with the plane normal they define.
type Triangle struct {
	p0 r3.Vector
	p1 r3.Vector
	p2 r3.Vector

	normal r3.Vector
}

// NewTriangle creates a triangle from its three vertices.
func NewTriangle(p0, p1, p2 r3.Vector) *Triangle {
	return &Triangle{
		p0:     p0,
		p1:     p1,
		p2:     p2,
		normal: PlaneNormal(p0, p1, p2),
	}
}

// Points returns the vertices of the triangle.
func (t *Triangle) Points() []r3.Vector {
	return []r3.Vector{t.p0, t.p1, t.p2}
}

// Normal returns the unit normal of the triangle's plane. Degenerate triangles have a zero normal.
func (t *Triangle) Normal() r3.Vector {
	return t.normal
}

// Transform returns the triangle with every vertex mapped through the pose.
func (t *Triangle) Transform(p Pose) *Triangle {
	dq := toDualQuaternion(p)
	return NewTriangle(dq.apply(t.p0), dq.apply(t.p1), dq.apply(t.p2))
}

// AABB returns the axis-aligned bounding box of the triangle.
func (t *Triangle) AABB() AABB {
	return NewAABBFromPoints(t.p0, t.p1, t.p2)
}

// PlaneNormal returns the unit normal of the plane defined by three points.
func PlaneNormal(p0, p1, p2 r3.Vector) r3.Vector {
	n := p1.Sub(p0).Cross(p2.Sub(p0))
	norm := n.Norm()
	if norm == 0 {
		return r3.Vector{}
	}
	return n.Mul(1 / norm)
}

// ClosestPointSegmentPoint takes a line segment and a point, and returns the point on the segment closest to the point.
func ClosestPointSegmentPoint(segStart, segEnd, pt r3.Vector) r3.Vector {
	segVec := segEnd.Sub(segStart)
	lenSq := segVec.Norm2()
	if lenSq == 0 {
		return segStart
	}
	t := pt.Sub(segStart).Dot(segVec) / lenSq
	t = math.Max(0, math.Min(1, t))
	return segStart.Add(segVec.Mul(t))
}

// signedDistances returns the signed distance of each vertex of t to the plane of other, snapped to zero
// within floatEpsilon.
func (t *Triangle) signedDistances(other *Triangle) [3]float64 {
	d := [3]float64{
		other.normal.Dot(t.p0.Sub(other.p0)),
		other.normal.Dot(t.p1.Sub(other.p0)),
		other.normal.Dot(t.p2.Sub(other.p0)),
	}
	for i := range d {
		if math.Abs(d[i]) < floatEpsilon {
			d[i] = 0
		}
	}
	return d
}

// IntersectsPlane determines if the triangle intersects with a plane defined by a point and normal vector.
// Returns true if the triangle intersects with or lies on the plane.
func (t *Triangle) IntersectsPlane(planePt, planeNormal r3.Vector) bool {
	d0 := planeNormal.Dot(t.p0.Sub(planePt))
	d1 := planeNormal.Dot(t.p1.Sub(planePt))
	d2 := planeNormal.Dot(t.p2.Sub(planePt))

	// If all points are on the same side of the plane there is no intersection
	return !((d0 > floatEpsilon && d1 > floatEpsilon && d2 > floatEpsilon) ||
		(d0 < -floatEpsilon && d1 < -floatEpsilon && d2 < -floatEpsilon))
}

// lineInterval returns the extent, measured along dir, of the part of t that lies on the plane
// described by the signed distances d.
func (t *Triangle) lineInterval(d [3]float64, dir r3.Vector) (float64, float64) {
	pts := [3]r3.Vector{t.p0, t.p1, t.p2}
	lo, hi := math.Inf(1), math.Inf(-1)
	add := func(p r3.Vector) {
		v := p.Dot(dir)
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	for i := 0; i < 3; i++ {
		j := (i + 1) % 3
		if d[i] == 0 {
			add(pts[i])
		}
		if d[i]*d[j] < 0 {
			add(pts[i].Add(pts[j].Sub(pts[i]).Mul(d[i] / (d[i] - d[j]))))
		}
	}
	return lo, hi
}

// TrianglesIntersect reports whether two triangles share at least one point. Touching counts as intersecting.
// Reference: Möller, "A Fast Triangle-Triangle Intersection Test", 1997.
func TrianglesIntersect(a, b *Triangle) bool {
	if a.normal.Norm2() == 0 || b.normal.Norm2() == 0 {
		return false
	}
	da := a.signedDistances(b)
	if (da[0] > 0 && da[1] > 0 && da[2] > 0) || (da[0] < 0 && da[1] < 0 && da[2] < 0) {
		return false
	}
	db := b.signedDistances(a)
	if (db[0] > 0 && db[1] > 0 && db[2] > 0) || (db[0] < 0 && db[1] < 0 && db[2] < 0) {
		return false
	}
	if da[0] == 0 && da[1] == 0 && da[2] == 0 {
		return coplanarTrianglesIntersect(a, b)
	}
	dir := a.normal.Cross(b.normal)
	if dir.Norm2() < floatEpsilon*floatEpsilon {
		// parallel planes that are not coplanar cannot meet
		return false
	}
	aLo, aHi := a.lineInterval(da, dir)
	bLo, bHi := b.lineInterval(db, dir)
	return aHi >= bLo-floatEpsilon && bHi >= aLo-floatEpsilon
}

// coplanarTrianglesIntersect tests two triangles known to lie in one plane by projecting them onto the
// coordinate plane where they have the largest area.
func coplanarTrianglesIntersect(a, b *Triangle) bool {
	n := a.normal
	ax, ay, az := math.Abs(n.X), math.Abs(n.Y), math.Abs(n.Z)
	project := func(p r3.Vector) [2]float64 {
		switch {
		case ax >= ay && ax >= az:
			return [2]float64{p.Y, p.Z}
		case ay >= az:
			return [2]float64{p.X, p.Z}
		default:
			return [2]float64{p.X, p.Y}
		}
	}
	pa := [3][2]float64{project(a.p0), project(a.p1), project(a.p2)}
	pb := [3][2]float64{project(b.p0), project(b.p1), project(b.p2)}
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			if segmentsIntersect2D(pa[i], pa[(i+1)%3], pb[j], pb[(j+1)%3]) {
				return true
			}
		}
	}
	return pointInTriangle2D(pa[0], pb) || pointInTriangle2D(pb[0], pa)
}

func orient2D(a, b, c [2]float64) float64 {
	return (b[0]-a[0])*(c[1]-a[1]) - (b[1]-a[1])*(c[0]-a[0])
}

func onSegment2D(a, b, p [2]float64) bool {
	return math.Min(a[0], b[0])-floatEpsilon <= p[0] && p[0] <= math.Max(a[0], b[0])+floatEpsilon &&
		math.Min(a[1], b[1])-floatEpsilon <= p[1] && p[1] <= math.Max(a[1], b[1])+floatEpsilon
}

func segmentsIntersect2D(p1, p2, q1, q2 [2]float64) bool {
	sign := func(v float64) int {
		switch {
		case v > floatEpsilon:
			return 1
		case v < -floatEpsilon:
			return -1
		}
		return 0
	}
	o1 := sign(orient2D(p1, p2, q1))
	o2 := sign(orient2D(p1, p2, q2))
	o3 := sign(orient2D(q1, q2, p1))
	o4 := sign(orient2D(q1, q2, p2))
	if o1 != o2 && o3 != o4 {
		return true
	}
	return (o1 == 0 && onSegment2D(p1, p2, q1)) ||
		(o2 == 0 && onSegment2D(p1, p2, q2)) ||
		(o3 == 0 && onSegment2D(q1, q2, p1)) ||
		(o4 == 0 && onSegment2D(q1, q2, p2))
}

func pointInTriangle2D(p [2]float64, tri [3][2]float64) bool {
	d0 := orient2D(tri[0], tri[1], p)
	d1 := orient2D(tri[1], tri[2], p)
	d2 := orient2D(tri[2], tri[0], p)
	hasNeg := d0 < -floatEpsilon || d1 < -floatEpsilon || d2 < -floatEpsilon
	hasPos := d0 > floatEpsilon || d1 > floatEpsilon || d2 > floatEpsilon
	return !(hasNeg && hasPos)
}

// rayIntersects reports whether the ray origin + s*dir (s > 0) crosses the triangle.
// Reference: Möller–Trumbore ray-triangle intersection.
func (t *Triangle) rayIntersects(origin, dir r3.Vector) bool {
	e1 := t.p1.Sub(t.p0)
	e2 := t.p2.Sub(t.p0)
	h := dir.Cross(e2)
	det := e1.Dot(h)
	if math.Abs(det) < 1e-12 {
		return false
	}
	inv := 1 / det
	s := origin.Sub(t.p0)
	u := inv * s.Dot(h)
	if u < 0 || u > 1 {
		return false
	}
	q := s.Cross(e1)
	v := inv * dir.Dot(q)
	if v < 0 || u+v > 1 {
		return false
	}
	return inv*e2.Dot(q) > floatEpsilon
}
