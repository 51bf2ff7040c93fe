package spatialmath

import (
	"math"

	"github.com/golang/geo/r3"
)

// AABB represents an axis-aligned bounding box.
type AABB struct {
	Min r3.Vector
	Max r3.Vector
}

// NewAABBFromPoints returns the smallest box containing every given point.
func NewAABBFromPoints(pts ...r3.Vector) AABB {
	box := AABB{
		Min: r3.Vector{X: math.Inf(1), Y: math.Inf(1), Z: math.Inf(1)},
		Max: r3.Vector{X: math.Inf(-1), Y: math.Inf(-1), Z: math.Inf(-1)},
	}
	for _, p := range pts {
		box = box.ExtendPoint(p)
	}
	return box
}

// ExtendPoint returns the box grown to include p.
func (a AABB) ExtendPoint(p r3.Vector) AABB {
	return AABB{
		Min: r3.Vector{X: math.Min(a.Min.X, p.X), Y: math.Min(a.Min.Y, p.Y), Z: math.Min(a.Min.Z, p.Z)},
		Max: r3.Vector{X: math.Max(a.Max.X, p.X), Y: math.Max(a.Max.Y, p.Y), Z: math.Max(a.Max.Z, p.Z)},
	}
}

// Union returns the smallest box containing both boxes.
func (a AABB) Union(other AABB) AABB {
	return a.ExtendPoint(other.Min).ExtendPoint(other.Max)
}

// ContainsPoint checks if a point is inside the AABB.
func (a AABB) ContainsPoint(point r3.Vector) bool {
	return point.X >= a.Min.X && point.X <= a.Max.X &&
		point.Y >= a.Min.Y && point.Y <= a.Max.Y &&
		point.Z >= a.Min.Z && point.Z <= a.Max.Z
}

// Overlaps checks if two AABBs overlap. Boxes that share a face overlap.
func (a AABB) Overlaps(other AABB) bool {
	return a.Max.X >= other.Min.X-floatEpsilon && a.Min.X <= other.Max.X+floatEpsilon &&
		a.Max.Y >= other.Min.Y-floatEpsilon && a.Min.Y <= other.Max.Y+floatEpsilon &&
		a.Max.Z >= other.Min.Z-floatEpsilon && a.Min.Z <= other.Max.Z+floatEpsilon
}
