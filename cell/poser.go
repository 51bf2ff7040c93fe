package cell

import (
	"github.com/pkg/errors"

	"github.com/cellsafe/clashscan/spatialmath"
)

// MeshPoser places the meshes of a cell for one resolved state. The returned slice has a fixed length and order
// for a given poser; indices into it are the mesh indices scans partition into sets.
type MeshPoser interface {
	PoseMeshes(sol *Solution) ([]*spatialmath.Mesh, error)
}

// StaticFrame marks an attached mesh that does not move with any frame.
const StaticFrame = -1

// AttachedMesh is a mesh expressed in the frame with flattened index Frame, or in world when Frame is StaticFrame.
type AttachedMesh struct {
	Frame int
	Mesh  *spatialmath.Mesh
}

// LinkMeshPoser poses meshes rigidly attached to frames of a solution.
type LinkMeshPoser struct {
	attached []AttachedMesh
}

// NewLinkMeshPoser returns a poser for the given attachments; mesh indices follow the slice order.
func NewLinkMeshPoser(attached ...AttachedMesh) (*LinkMeshPoser, error) {
	for i, a := range attached {
		if a.Mesh == nil {
			return nil, errors.Errorf("attached mesh %d is nil", i)
		}
		if a.Frame < StaticFrame {
			return nil, errors.Errorf("attached mesh %d (%s) has invalid frame index %d", i, a.Mesh.Label(), a.Frame)
		}
	}
	return &LinkMeshPoser{attached: attached}, nil
}

// Len returns the number of meshes PoseMeshes produces.
func (p *LinkMeshPoser) Len() int {
	return len(p.attached)
}

// Labels returns the mesh labels in mesh index order.
func (p *LinkMeshPoser) Labels() []string {
	labels := make([]string, len(p.attached))
	for i, a := range p.attached {
		labels[i] = a.Mesh.Label()
	}
	return labels
}

// PoseMeshes transforms every attached mesh by its frame's world pose.
func (p *LinkMeshPoser) PoseMeshes(sol *Solution) ([]*spatialmath.Mesh, error) {
	frames := sol.Frames()
	meshes := make([]*spatialmath.Mesh, len(p.attached))
	for i, a := range p.attached {
		if a.Frame == StaticFrame {
			meshes[i] = a.Mesh
			continue
		}
		if a.Frame >= len(frames) {
			return nil, errors.Errorf("mesh %s is attached to frame %d but the solution has %d frames", a.Mesh.Label(), a.Frame, len(frames))
		}
		meshes[i] = a.Mesh.Transform(frames[a.Frame])
	}
	return meshes, nil
}
